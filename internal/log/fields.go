package log

// Common field names for structured logging
const (
	FieldComponent     = "component"
	FieldUserID        = "user_id"
	FieldKind          = "kind"
	FieldAmountCents   = "amount_cents"
	FieldRecordDate    = "record_date"
	FieldPaymentMethod = "payment_method"
	FieldFlow          = "flow"
	FieldBackend       = "backend"
	FieldLedgerRef     = "ledger_ref"
	FieldPeriod        = "period"
	FieldError         = "error"
)

// Components defines standard component names
const (
	ComponentApp = "app"
	ComponentBot = "bot"
)
