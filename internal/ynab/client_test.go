package ynab

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fjacquet/ynab-autocat/internal/logging"
	"fjacquet/ynab-autocat/internal/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *HTTPClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewHTTPClient("test-token", "budget-1", server.URL, logging.NewMockLogger())
}

func TestCategoryGroups(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/budgets/budget-1/categories", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		_, err := w.Write([]byte(`{
			"data": {
				"category_groups": [
					{
						"id": "g-1",
						"name": "Everyday",
						"categories": [
							{"id": "c-1", "name": "Groceries"},
							{"id": "c-2", "name": "Dining Out", "hidden": true}
						]
					}
				]
			}
		}`))
		require.NoError(t, err)
	})

	groups, err := client.CategoryGroups(context.Background())
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "Everyday", groups[0].Name)
	require.Len(t, groups[0].Categories, 2)
	assert.Equal(t, "Groceries", groups[0].Categories[0].Name)
	assert.True(t, groups[0].Categories[1].Hidden)
}

func TestTransactions_SinceDateQuery(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/budgets/budget-1/transactions", r.URL.Path)
		assert.Equal(t, "2026-01-01", r.URL.Query().Get("since_date"))
		assert.Empty(t, r.URL.Query().Get("type"))

		_, err := w.Write([]byte(`{
			"data": {
				"transactions": [
					{"id": "t-1", "date": "2026-01-05", "amount": -30000, "payee_name": "Migros"}
				]
			}
		}`))
		require.NoError(t, err)
	})

	txs, err := client.Transactions(context.Background(), "2026-01-01")
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "t-1", txs[0].ID)
	assert.Equal(t, int64(-30000), txs[0].Amount)
}

func TestUncategorizedTransactions_TypeQuery(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "uncategorized", r.URL.Query().Get("type"))
		assert.Empty(t, r.URL.Query().Get("since_date"))

		_, err := w.Write([]byte(`{"data": {"transactions": []}}`))
		require.NoError(t, err)
	})

	txs, err := client.UncategorizedTransactions(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, txs)
}

func TestUpdateTransactions_PatchBody(t *testing.T) {
	var received struct {
		Transactions []models.Update `json:"transactions"`
	}

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/budgets/budget-1/transactions", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		_, err := w.Write([]byte(`{"data": {}}`))
		require.NoError(t, err)
	})

	updates := []models.Update{
		{TransactionID: "t-1", CategoryID: "c-1"},
		{TransactionID: "t-2", CategoryID: "c-2"},
	}
	require.NoError(t, client.UpdateTransactions(context.Background(), updates))
	assert.Equal(t, updates, received.Transactions)
}

func TestUpdateTransactions_EmptyBatchSkipsRequest(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for an empty batch")
	})

	require.NoError(t, client.UpdateTransactions(context.Background(), nil))
}

func TestErrorResponseIncludesStatusAndBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, err := w.Write([]byte(`{"error": {"detail": "Unauthorized"}}`))
		require.NoError(t, err)
	})

	_, err := client.CategoryGroups(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
	assert.Contains(t, err.Error(), "Unauthorized")
}

func TestDefaultEndpointSelectedWhenEmpty(t *testing.T) {
	client := NewHTTPClient("token", "budget", "", logging.NewMockLogger())
	assert.Equal(t, DefaultEndpoint, client.endpoint)
}
