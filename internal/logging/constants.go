package logging

// Standardized field names for structured logging.
// These constants ensure consistency across the application's log output,
// making logs easier to parse, filter, and analyze.
const (
	FieldTransactionID = "transaction_id"
	FieldPayee         = "payee"
	FieldCategoryID    = "category_id"
	FieldCategory      = "category"
	FieldKey           = "key"
	FieldConfidence    = "confidence"
	FieldOccurrences   = "occurrences"
	FieldSource        = "source"
	FieldCount         = "count"
	FieldReason        = "reason"
	FieldEndpoint      = "endpoint"
	FieldModel         = "model"
)
