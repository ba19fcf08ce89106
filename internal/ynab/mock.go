package ynab

import (
	"context"

	"fjacquet/ynab-autocat/internal/models"
)

// MockClient is a canned-data Client for tests.
type MockClient struct {
	Groups        []models.CategoryGroup
	History       []models.Transaction
	Uncategorized []models.Transaction

	GroupsErr          error
	TransactionsErr    error
	UpdateErr          error
	AppliedUpdates     [][]models.Update
	HistorySince       string
	UncategorizedSince string
}

// CategoryGroups returns the canned category groups.
func (m *MockClient) CategoryGroups(_ context.Context) ([]models.CategoryGroup, error) {
	if m.GroupsErr != nil {
		return nil, m.GroupsErr
	}
	return m.Groups, nil
}

// Transactions returns the canned history set and records the since filter.
func (m *MockClient) Transactions(_ context.Context, sinceDate string) ([]models.Transaction, error) {
	if m.TransactionsErr != nil {
		return nil, m.TransactionsErr
	}
	m.HistorySince = sinceDate
	return m.History, nil
}

// UncategorizedTransactions returns the canned uncategorized set.
func (m *MockClient) UncategorizedTransactions(_ context.Context, sinceDate string) ([]models.Transaction, error) {
	if m.TransactionsErr != nil {
		return nil, m.TransactionsErr
	}
	m.UncategorizedSince = sinceDate
	return m.Uncategorized, nil
}

// UpdateTransactions records the applied batch.
func (m *MockClient) UpdateTransactions(_ context.Context, updates []models.Update) error {
	if m.UpdateErr != nil {
		return m.UpdateErr
	}
	m.AppliedUpdates = append(m.AppliedUpdates, updates)
	return nil
}
