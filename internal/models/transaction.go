// Package models defines the core data types shared across the application:
// budget transactions, categories, and categorization decisions.
package models

// Subtransaction is one leg of a split transaction. Split parents are never
// categorized directly and never contribute to matching history.
type Subtransaction struct {
	ID         string `json:"id"`
	Amount     int64  `json:"amount"`
	CategoryID string `json:"category_id"`
	Deleted    bool   `json:"deleted"`
}

// Transaction represents a budget transaction as served by the budget service.
// Amounts are milliunits (thousandths of the currency unit, signed). Fields
// that are null in the API decode to their zero value; an empty string means
// the field is absent.
type Transaction struct {
	ID                      string           `json:"id"`
	Date                    string           `json:"date"` // ISO yyyy-mm-dd
	Amount                  int64            `json:"amount"`
	Memo                    string           `json:"memo"`
	PayeeID                 string           `json:"payee_id"`
	PayeeName               string           `json:"payee_name"`
	ImportPayeeName         string           `json:"import_payee_name"`
	ImportPayeeNameOriginal string           `json:"import_payee_name_original"`
	AccountID               string           `json:"account_id"`
	AccountName             string           `json:"account_name"`
	CategoryID              string           `json:"category_id"`
	CategoryName            string           `json:"category_name"`
	TransferAccountID       string           `json:"transfer_account_id"`
	Subtransactions         []Subtransaction `json:"subtransactions"`
	Deleted                 bool             `json:"deleted"`
}

// IsTransfer reports whether the transaction moves money between two accounts
// rather than paying a payee.
func (t Transaction) IsTransfer() bool {
	return t.TransferAccountID != ""
}

// IsSplit reports whether the transaction is split into subtransactions.
func (t Transaction) IsSplit() bool {
	return len(t.Subtransactions) > 0
}

// IsCategorized reports whether a category has been assigned.
func (t Transaction) IsCategorized() bool {
	return t.CategoryID != ""
}
