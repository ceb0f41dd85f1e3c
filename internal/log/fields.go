package log

import "github.com/shopspring/decimal"

// Common field names for structured logging
const (
	FieldComponent     = "component"
	FieldOperation     = "operation"
	FieldError         = "error"
	FieldErrorType     = "error_type"
	FieldUserID        = "user_id"
	FieldUsername      = "username"
	FieldTransactionID = "transaction_id"
	FieldKind          = "kind"
	FieldAmount        = "amount"
	FieldCategory      = "category"
	FieldBalance       = "balance"
	FieldFound         = "found"
	FieldCount         = "count"
	FieldEventID       = "event_id"
	FieldDBPath        = "db_path"
)

// Components defines standard component names
const (
	ComponentApp      = "app"
	ComponentAccounts = "accounts"
	ComponentLedger   = "ledger"
	ComponentNotifier = "notifier"
	ComponentWorker   = "worker"
	ComponentBackend  = "backend"
)

// Operations defines standard operation names
const (
	OpRegister     = "register"
	OpAuthenticate = "authenticate"
	OpCreate       = "create"
	OpList         = "list"
	OpUpdate       = "update"
	OpDelete       = "delete"
	OpBalance      = "balance"
	OpPublish      = "publish"
	OpConsume      = "consume"
	OpStartup      = "startup"
	OpShutdown     = "shutdown"
)

// ErrorTypes defines standard error type categories
const (
	ErrorTypeConfiguration = "configuration_error"
	ErrorTypeDatabase      = "database_error"
	ErrorTypeNetwork       = "network_error"
	ErrorTypeAuth          = "auth_error"
	ErrorTypeNotFound      = "not_found_error"
	ErrorTypeConflict      = "conflict_error"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

// WithOperation adds operation field
func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithError adds the error and its category
func (f LogFields) WithError(err error, errorType string) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
		f[FieldErrorType] = errorType
	}
	return f
}

// WithUser adds the user id field
func (f LogFields) WithUser(userID int64) LogFields {
	f[FieldUserID] = userID
	return f
}

// WithTransaction adds transaction-related fields
func (f LogFields) WithTransaction(id int64, kind string, amount decimal.Decimal, category string) LogFields {
	if id != 0 {
		f[FieldTransactionID] = id
	}
	f[FieldKind] = kind
	f[FieldAmount] = amount.String()
	f[FieldCategory] = category
	return f
}

// With sets an arbitrary field
func (f LogFields) With(key string, value any) LogFields {
	f[key] = value
	return f
}

// ToSlice converts LogFields to a slice for slog
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
