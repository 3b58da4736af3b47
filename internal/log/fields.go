package log

// Common field names for structured logging
const (
	FieldComponent    = "component"
	FieldError        = "error"
	FieldOperation    = "operation"
	FieldMonth        = "month"
	FieldInstanceID   = "instance_id"
	FieldOccurrenceID = "occurrence_id"
	FieldBackend      = "backend"
	FieldDuration     = "duration_ms"
)

// Components defines standard component names
const (
	ComponentApp    = "app"
	ComponentWorker = "worker"
	ComponentCLI    = "cli"
)

// Operations defines standard operation names
const (
	OpSync     = "sync"
	OpPay      = "pay"
	OpReopen   = "reopen"
	OpAdhoc    = "adhoc"
	OpBalance  = "balance"
	OpLock     = "lock"
	OpRead     = "read"
	OpValidate = "validate"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

// WithError adds error field
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// WithOperation adds operation field
func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithMonth adds month field
func (f LogFields) WithMonth(month string) LogFields {
	f[FieldMonth] = month
	return f
}

// WithOccurrence adds instance and occurrence identifier fields
func (f LogFields) WithOccurrence(instanceID, occurrenceID string) LogFields {
	f[FieldInstanceID] = instanceID
	f[FieldOccurrenceID] = occurrenceID
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
