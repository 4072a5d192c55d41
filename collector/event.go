package collector

import "fmt"

// EventKind identifies the interpreter milestone that produced a trace event.
type EventKind uint8

const (
	EventCall EventKind = iota // function entered
	EventLine                  // new source line about to execute
	EventReturn                // function about to return
	EventException             // exception raised
	EventCCall                 // native routine about to be called
	EventCReturn               // native routine returned
	EventCException            // native routine raised
)

// kindLabels maps each kind to its wire label. Built once at init; the
// labels match what host interpreters conventionally report.
var kindLabels = [...]string{
	EventCall:       "call",
	EventLine:       "line",
	EventReturn:     "return",
	EventException:  "exception",
	EventCCall:      "c_call",
	EventCReturn:    "c_return",
	EventCException: "c_exception",
}

// String returns the wire label for the kind.
func (k EventKind) String() string {
	if !k.IsValid() {
		return fmt.Sprintf("EventKind(%d)", uint8(k))
	}
	return kindLabels[k]
}

// IsValid reports whether k is one of the seven defined kinds.
func (k EventKind) IsValid() bool {
	return int(k) < len(kindLabels)
}

// ParseEventKind converts a wire label back into an EventKind.
func ParseEventKind(s string) (EventKind, error) {
	for k, label := range kindLabels {
		if s == label {
			return EventKind(k), nil
		}
	}
	return 0, fmt.Errorf("unknown event kind: %q", s)
}
