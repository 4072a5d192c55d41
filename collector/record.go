package collector

// RecordFields is the arity of the record pushed to the sink. Field count
// and order are part of the wire contract; sinks and journals rely on it.
const RecordFields = 9

// Record is the normalized trace event handed to the sink. The nine
// fields are ordered; Fields returns them in wire order.
type Record struct {
	Module      string    // value of the "__name__" global binding
	Qualifier   any       // first declared parameter's bound value, or nil
	File        string    // source file of the code unit
	FirstLine   int       // line where the code unit is defined
	CurrentLine int       // line executing when the event fired
	Function    string    // code unit name
	Kind        EventKind // one of the seven event kinds
	Arg         any       // event-specific payload, or nil
	Elapsed     int64     // value produced by the collector's time source
}

// Fields returns the record's fields in the fixed wire order.
func (r Record) Fields() [RecordFields]any {
	return [RecordFields]any{
		r.Module,
		r.Qualifier,
		r.File,
		r.FirstLine,
		r.CurrentLine,
		r.Function,
		r.Kind,
		r.Arg,
		r.Elapsed,
	}
}

// Sink receives each produced record. A non-nil error propagates to the
// collector's caller unchanged.
type Sink func(Record) error

// DeltaFunc supplies the per-event elapsed-time value. The value is
// opaque to the collector; a monotonic nanosecond delta is typical.
type DeltaFunc func() (int64, error)
