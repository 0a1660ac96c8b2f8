package log

// Common field names for structured logging
const (
	FieldComponent    = "component"
	FieldRunID        = "run_id"
	FieldError        = "error"
	FieldErrorKind    = "error_kind"
	FieldOperation    = "operation"
	FieldDuration     = "duration_ms"
	FieldRow          = "row"
	FieldDate         = "date"
	FieldDescription  = "description"
	FieldAmount       = "amount"
	FieldCategory     = "category"
	FieldBucket       = "bucket"
	FieldGranularity  = "granularity"
	FieldSource       = "source"
	FieldSink         = "sink"
	FieldRows         = "rows"
	FieldTransactions = "transactions"
	FieldSkipped      = "skipped"
	FieldBuckets      = "buckets"
	FieldWorkers      = "workers"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentConfig  = "config"
	ComponentSource  = "source"
	ComponentParser  = "parser"
	ComponentReport  = "report"
	ComponentRender  = "render"
	ComponentStorage = "storage"
	ComponentAMQP    = "amqp"
	ComponentBackend = "backend"
	ComponentArchive = "archive"
)

// Operations defines standard operation names
const (
	OpRead      = "read"
	OpParse     = "parse"
	OpBucket    = "bucket"
	OpAggregate = "aggregate"
	OpRender    = "render"
	OpFlush     = "flush"
	OpPublish   = "publish"
	OpValidate  = "validate"
	OpStartup   = "startup"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

// WithComponent adds component field
func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

// WithRunID adds the run identifier
func (f LogFields) WithRunID(runID string) LogFields {
	f[FieldRunID] = runID
	return f
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

// WithTransaction adds the fields of a parsed row
func (f LogFields) WithTransaction(row int, date, description string, amount float64, category string) LogFields {
	f[FieldRow] = row
	f[FieldDate] = date
	f[FieldDescription] = description
	f[FieldAmount] = amount
	f[FieldCategory] = category
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
