// Package fallback implements the LLM fallback protocol used when the
// historical scorer abstains: it packages a bounded-vocabulary request for an
// external text-completion classifier and validates the structured reply.
package fallback

import "context"

// AIClient is the transport boundary to the text-completion classifier. It is
// treated as a black box: the returned text is expected to contain one JSON
// object, and any error surfaces as an abstain, never as a fatal failure.
type AIClient interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// MockAIClient is a canned-response AIClient for tests.
type MockAIClient struct {
	Response string
	Err      error
	Prompts  []string
}

// Generate records the prompt and returns the canned response.
func (m *MockAIClient) Generate(_ context.Context, prompt string) (string, error) {
	m.Prompts = append(m.Prompts, prompt)
	if m.Err != nil {
		return "", m.Err
	}
	return m.Response, nil
}
