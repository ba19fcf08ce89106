package models

// Decision sources.
const (
	SourceHistory  = "history"
	SourceFallback = "fallback"
	SourceOverride = "override"
)

// Decision is a single accepted categorization for one transaction.
// Exactly one is produced per matched transaction; unmatched transactions
// produce nothing.
type Decision struct {
	TransactionID string   `csv:"transaction_id"`
	Payee         string   `csv:"payee"`
	Date          string   `csv:"date"`
	Amount        string   `csv:"amount"`
	CategoryID    string   `csv:"category_id"`
	CategoryName  string   `csv:"category"`
	Source        string   `csv:"source"`
	Confidence    *float64 `csv:"confidence"`
	Occurrences   int      `csv:"occurrences"`
	Total         int      `csv:"total"`
	LastDate      string   `csv:"last_date"`
	Specificity   int      `csv:"specificity"`
	Reason        string   `csv:"reason"`
}

// Update is one entry of the batch handed to the budget service after a run.
type Update struct {
	TransactionID string `json:"id"`
	CategoryID    string `json:"category_id"`
}
