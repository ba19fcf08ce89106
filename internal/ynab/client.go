// Package ynab is a thin client for the budget service REST API. It only
// covers the handful of endpoints the categorizer needs: category groups,
// transaction listings, and the batch category update.
package ynab

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"fjacquet/ynab-autocat/internal/logging"
	"fjacquet/ynab-autocat/internal/models"
)

// DefaultEndpoint is the public API base URL.
const DefaultEndpoint = "https://api.ynab.com/v1"

// Client is the budget-service boundary consumed by the engine.
type Client interface {
	// CategoryGroups returns all category groups of the budget.
	CategoryGroups(ctx context.Context) ([]models.CategoryGroup, error)

	// Transactions returns the budget's transactions, optionally filtered by
	// a minimum ISO date.
	Transactions(ctx context.Context, sinceDate string) ([]models.Transaction, error)

	// UncategorizedTransactions returns transactions without an assigned
	// category, optionally filtered by a minimum ISO date.
	UncategorizedTransactions(ctx context.Context, sinceDate string) ([]models.Transaction, error)

	// UpdateTransactions applies a batch of category assignments. The call is
	// all-or-nothing from the caller's perspective.
	UpdateTransactions(ctx context.Context, updates []models.Update) error
}

// HTTPClient implements Client over the REST API with bearer-token auth.
type HTTPClient struct {
	endpoint   string
	token      string
	budgetID   string
	httpClient *http.Client
	logger     logging.Logger
}

// NewHTTPClient creates a budget-service client. An empty endpoint selects
// the public API.
func NewHTTPClient(token, budgetID, endpoint string, logger logging.Logger) *HTTPClient {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &HTTPClient{
		endpoint: endpoint,
		token:    token,
		budgetID: budgetID,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		logger: logger,
	}
}

type categoryGroupsResponse struct {
	Data struct {
		CategoryGroups []models.CategoryGroup `json:"category_groups"`
	} `json:"data"`
}

type transactionsResponse struct {
	Data struct {
		Transactions []models.Transaction `json:"transactions"`
	} `json:"data"`
}

// CategoryGroups returns all category groups of the budget.
func (c *HTTPClient) CategoryGroups(ctx context.Context) ([]models.CategoryGroup, error) {
	var resp categoryGroupsResponse
	path := fmt.Sprintf("/budgets/%s/categories", url.PathEscape(c.budgetID))
	if err := c.get(ctx, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch category groups: %w", err)
	}
	return resp.Data.CategoryGroups, nil
}

// Transactions returns the budget's transactions since the given ISO date.
func (c *HTTPClient) Transactions(ctx context.Context, sinceDate string) ([]models.Transaction, error) {
	return c.transactions(ctx, sinceDate, "")
}

// UncategorizedTransactions returns uncategorized transactions since the
// given ISO date.
func (c *HTTPClient) UncategorizedTransactions(ctx context.Context, sinceDate string) ([]models.Transaction, error) {
	return c.transactions(ctx, sinceDate, "uncategorized")
}

func (c *HTTPClient) transactions(ctx context.Context, sinceDate, listType string) ([]models.Transaction, error) {
	query := url.Values{}
	if sinceDate != "" {
		query.Set("since_date", sinceDate)
	}
	if listType != "" {
		query.Set("type", listType)
	}

	var resp transactionsResponse
	path := fmt.Sprintf("/budgets/%s/transactions", url.PathEscape(c.budgetID))
	if err := c.get(ctx, path, query, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch transactions: %w", err)
	}
	return resp.Data.Transactions, nil
}

// UpdateTransactions applies a batch of category assignments.
func (c *HTTPClient) UpdateTransactions(ctx context.Context, updates []models.Update) error {
	if len(updates) == 0 {
		return nil
	}

	body, err := json.Marshal(map[string]interface{}{
		"transactions": updates,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal transaction updates: %w", err)
	}

	path := fmt.Sprintf("/budgets/%s/transactions", url.PathEscape(c.budgetID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, c.endpoint+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build update request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	if err := c.do(req, nil); err != nil {
		return fmt.Errorf("failed to update transactions: %w", err)
	}

	c.logger.WithField(logging.FieldCount, len(updates)).Info("Applied category updates")
	return nil
}

func (c *HTTPClient) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	u := c.endpoint + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	return c.do(req, out)
}

func (c *HTTPClient) do(req *http.Request, out interface{}) error {
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.WithError(err).Warn("Failed to close response body")
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("budget service returned %s: %s", resp.Status, bytes.TrimSpace(body))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
