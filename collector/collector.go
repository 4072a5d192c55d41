// Package collector converts raw interpreter trace events into fixed-shape
// records and forwards them to a caller-supplied sink.
//
// A Collector is constructed once per traced thread of execution with a
// sink and a time-delta source, installed via the tracehook package, and
// invoked by the host once per trace event. Every successfully converted
// event yields a nine-field Record; field order is the wire contract.
package collector

import "fmt"

// Collector adapts a per-thread stream of execution events into Records
// pushed to its sink. It holds no event-to-event state beyond the two
// owned callables, so failures are always single-event-scoped.
type Collector struct {
	sink  Sink
	delta DeltaFunc
}

// New constructs a collector owning the given sink and time-delta source.
// Both are required.
func New(sink Sink, delta DeltaFunc) (*Collector, error) {
	if sink == nil {
		return nil, ErrMissingSink
	}
	if delta == nil {
		return nil, ErrMissingDelta
	}
	return &Collector{sink: sink, delta: delta}, nil
}

// Endpoint returns the owned sink.
func (c *Collector) Endpoint() Sink { return c.sink }

// Delta returns the owned time-delta source.
func (c *Collector) Delta() DeltaFunc { return c.delta }

// Collect converts one trace event into a Record and pushes it to the
// sink. A nil return means tracing continues; a non-nil return aborts
// this event only and leaves the collector installed and usable.
//
// The time-delta source is consulted first; its failure propagates
// unchanged and the sink is never called. The module name must resolve
// to a string bound to "__name__" in the frame's globals, else the event
// fails with ErrModuleName. The qualifier is best-effort: the value bound
// to the code unit's first declared parameter in the frame's locals, nil
// on any lookup miss. Sink failures propagate unchanged.
func (c *Collector) Collect(frame Frame, kind EventKind, arg any) error {
	elapsed, err := c.delta()
	if err != nil {
		return err
	}

	unit := frame.Unit()
	line := frame.Line()

	bound, ok := frame.Global(ModuleNameKey)
	if !ok {
		return fmt.Errorf("%w: %q not bound in frame globals", ErrModuleName, ModuleNameKey)
	}
	module, ok := bound.(string)
	if !ok {
		return fmt.Errorf("%w: %q bound to %T, want string", ErrModuleName, ModuleNameKey, bound)
	}

	var qualifier any
	if len(unit.Params) > 0 {
		if v, ok := frame.Local(unit.Params[0]); ok {
			qualifier = v
		}
	}

	return c.sink(Record{
		Module:      module,
		Qualifier:   qualifier,
		File:        unit.File,
		FirstLine:   unit.FirstLine,
		CurrentLine: line,
		Function:    unit.Name,
		Kind:        kind,
		Arg:         arg,
		Elapsed:     elapsed,
	})
}

// Invoke is the direct-invocation entry point: it requires exactly three
// arguments of types (Frame, EventKind, any) and otherwise fails with an
// argument error before consulting the time source or the sink.
func (c *Collector) Invoke(args ...any) error {
	if len(args) != 3 {
		return fmt.Errorf("%w: got %d", ErrArgumentCount, len(args))
	}
	frame, ok := args[0].(Frame)
	if !ok {
		return fmt.Errorf("%w: first argument is %T, want Frame", ErrArgumentType, args[0])
	}
	kind, ok := args[1].(EventKind)
	if !ok {
		return fmt.Errorf("%w: second argument is %T, want EventKind", ErrArgumentType, args[1])
	}
	return c.Collect(frame, kind, args[2])
}
