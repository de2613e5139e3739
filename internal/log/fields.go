package log

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldOperation   = "operation"
	FieldError       = "error"
	FieldID          = "id"
	FieldCategoryID  = "category_id"
	FieldKind        = "kind"
	FieldAmountCents = "amount_cents"
	FieldMonth       = "month"
	FieldYear        = "year"
	FieldRows        = "rows"
	FieldSource      = "source"
)

// Components defines standard component names
const (
	ComponentApp      = "app"
	ComponentCLI      = "cli"
	ComponentLedger   = "ledger"
	ComponentStorage  = "storage"
	ComponentImporter = "importer"
	ComponentAMQP     = "amqp"
	ComponentSheets   = "sheets"
)

// Operations defines standard operation names
const (
	OpCreate  = "create"
	OpUpdate  = "update"
	OpDelete  = "delete"
	OpImport  = "import"
	OpPublish = "publish"
)
