package evaluator

// TraceEventType identifies the type of a trace event.
type TraceEventType string

const (
	TraceInvoke    TraceEventType = "invoke"
	TraceIntrinsic TraceEventType = "intrinsic"
	TraceUndefined TraceEventType = "undefined"
)

// TraceEvent represents a single trace event emitted during evaluation.
type TraceEvent struct {
	Event TraceEventType `json:"event"`
	Name  string         `json:"name,omitempty"`
	Code  string         `json:"code,omitempty"`
	Depth int            `json:"depth"`
}

func (ev *Evaluator) emit(event TraceEventType, name, code string) {
	if ev.opts.Trace != nil {
		ev.opts.Trace(TraceEvent{
			Event: event,
			Name:  name,
			Code:  code,
			Depth: ev.depth,
		})
	}
}
