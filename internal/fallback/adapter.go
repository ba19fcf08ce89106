package fallback

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"fjacquet/ynab-autocat/internal/logging"
	"fjacquet/ynab-autocat/internal/matcher"
	"fjacquet/ynab-autocat/internal/models"
)

// NoCategory is the reserved reply value meaning "no suitable category".
const NoCategory = "none"

// Match is an accepted fallback decision.
type Match struct {
	CategoryID     string
	Category       models.Category
	Confidence     *float64
	Reason         string
	ConsideredKeys []string
}

// Adapter packages classification requests for an AIClient and validates the
// replies. Every failure mode (transport error, malformed reply, off-vocabulary
// category, empty vocabulary) is an abstain, never an error that aborts a run.
type Adapter struct {
	client  AIClient
	logger  logging.Logger
	timeout time.Duration
}

// NewAdapter creates a fallback adapter around the given client. A zero
// timeout leaves cancellation entirely to the caller's context.
func NewAdapter(client AIClient, timeout time.Duration, logger logging.Logger) *Adapter {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Adapter{
		client:  client,
		logger:  logger,
		timeout: timeout,
	}
}

// vocabCategory is one entry of the closed candidate vocabulary.
type vocabCategory struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Group string `json:"group"`
}

// transactionContext carries the transaction's public fields into the prompt.
type transactionContext struct {
	ID                      string `json:"id"`
	Date                    string `json:"date"`
	Amount                  int64  `json:"amount"`
	AmountFormatted         string `json:"amountFormatted"`
	PayeeName               string `json:"payeeName,omitempty"`
	ImportPayeeName         string `json:"importPayeeName,omitempty"`
	ImportPayeeNameOriginal string `json:"importPayeeNameOriginal,omitempty"`
	Memo                    string `json:"memo,omitempty"`
	AccountName             string `json:"accountName,omitempty"`
}

type classifyRequest struct {
	Transaction transactionContext `json:"transaction"`
	Categories  []vocabCategory    `json:"categories"`
	History     []KeyDigest        `json:"history"`
}

type classifyReply struct {
	CategoryID string   `json:"categoryId"`
	Confidence *float64 `json:"confidence"`
	Reason     string   `json:"reason"`
}

// Classify asks the external classifier for a category, constrained to the
// currently eligible vocabulary. It abstains (returns false) when the
// vocabulary is empty, the transport fails, the reply is malformed, the reply
// names the sentinel, or the named category is not eligible.
func (a *Adapter) Classify(ctx context.Context, tx models.Transaction, keys []string, index matcher.Index, categories models.CategoryMap) (Match, bool) {
	log := a.logger.WithField(logging.FieldTransactionID, tx.ID)

	eligible := categories.EligibleCategories()
	if len(eligible) == 0 {
		log.Warn("No eligible categories, skipping fallback classification")
		return Match{}, false
	}

	prompt, err := a.buildPrompt(tx, keys, index, categories, eligible)
	if err != nil {
		log.WithError(err).Warn("Failed to build fallback prompt")
		return Match{}, false
	}

	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	raw, err := a.client.Generate(ctx, prompt)
	if err != nil {
		log.WithError(err).Warn("Fallback classifier call failed")
		return Match{}, false
	}

	reply, err := parseReply(raw)
	if err != nil {
		log.WithError(err).Warn("Fallback classifier returned a malformed reply")
		return Match{}, false
	}

	if reply.CategoryID == "" || reply.CategoryID == NoCategory {
		log.WithField(logging.FieldReason, reply.Reason).Debug("Fallback classifier found no suitable category")
		return Match{}, false
	}

	cat, ok := categories[reply.CategoryID]
	if !ok || !cat.Eligible() {
		log.WithField(logging.FieldCategoryID, reply.CategoryID).Warn("Fallback classifier named an unknown or ineligible category")
		return Match{}, false
	}

	// out-of-range or non-finite confidence is dropped, not rejected
	confidence := reply.Confidence
	if confidence != nil {
		v := *confidence
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 || v > 1 {
			confidence = nil
		}
	}

	log.WithFields(
		logging.Field{Key: logging.FieldCategory, Value: cat.Name},
		logging.Field{Key: logging.FieldReason, Value: reply.Reason},
	).Debug("Fallback classifier assigned a category")

	return Match{
		CategoryID:     reply.CategoryID,
		Category:       cat,
		Confidence:     confidence,
		Reason:         reply.Reason,
		ConsideredKeys: keys,
	}, true
}

func (a *Adapter) buildPrompt(tx models.Transaction, keys []string, index matcher.Index, categories models.CategoryMap, eligible []models.Category) (string, error) {
	vocab := make([]vocabCategory, 0, len(eligible))
	for _, cat := range eligible {
		vocab = append(vocab, vocabCategory{ID: cat.ID, Name: cat.Name, Group: cat.GroupName})
	}

	request := classifyRequest{
		Transaction: transactionContext{
			ID:                      tx.ID,
			Date:                    tx.Date,
			Amount:                  tx.Amount,
			AmountFormatted:         models.FormatMilliunits(tx.Amount),
			PayeeName:               tx.PayeeName,
			ImportPayeeName:         tx.ImportPayeeName,
			ImportPayeeNameOriginal: tx.ImportPayeeNameOriginal,
			Memo:                    tx.Memo,
			AccountName:             tx.AccountName,
		},
		Categories: vocab,
		History:    BuildDigest(index, keys, categories),
	}

	payload, err := json.MarshalIndent(request, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal classification request: %w", err)
	}

	prompt := `You are a personal-budget categorization assistant.
Assign the transaction below to exactly one category from the "categories" list.
Only the "id" values listed under "categories" are legal answers.
The "history" section summarizes how similar transactions were categorized before.

Respond with STRICT JSON only (no Markdown, no code fences, no extra text):
{"categoryId": "<id from the categories list>", "confidence": <number between 0 and 1>, "reason": "<one short sentence>"}

If no listed category is suitable, respond with:
{"categoryId": "` + NoCategory + `"}

` + string(payload)

	return prompt, nil
}

// parseReply decodes the classifier's reply. Models occasionally wrap the
// JSON in prose or fences; when direct parsing fails, the first balanced
// brace-delimited object is extracted and parsed instead.
func parseReply(raw string) (classifyReply, error) {
	var reply classifyReply
	if err := json.Unmarshal([]byte(raw), &reply); err == nil {
		return reply, nil
	}

	obj, ok := extractJSONObject(raw)
	if !ok {
		return classifyReply{}, fmt.Errorf("no JSON object found in reply: %q", truncate(raw, 200))
	}
	if err := json.Unmarshal([]byte(obj), &reply); err != nil {
		return classifyReply{}, fmt.Errorf("failed to parse extracted reply object: %w", err)
	}
	return reply, nil
}

// extractJSONObject returns the first balanced {...} region of s.
func extractJSONObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
