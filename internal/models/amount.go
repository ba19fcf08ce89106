package models

import "github.com/shopspring/decimal"

// FormatMilliunits renders a milliunit amount as a human-readable decimal
// string with two fraction digits, e.g. -45990 -> "-45.99".
func FormatMilliunits(amount int64) string {
	return decimal.New(amount, -3).StringFixed(2)
}
