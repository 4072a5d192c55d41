package collector

import "errors"

var (
	// ErrMissingSink indicates a collector was constructed without a sink.
	ErrMissingSink = errors.New("collector requires a sink")
	// ErrMissingDelta indicates a collector was constructed without a
	// time-delta source.
	ErrMissingDelta = errors.New("collector requires a time-delta source")

	// ErrArgumentCount indicates a direct invocation carried other than
	// exactly three arguments.
	ErrArgumentCount = errors.New("collector invocation requires three arguments")
	// ErrArgumentType indicates a direct invocation argument had the
	// wrong type.
	ErrArgumentType = errors.New("collector invocation argument has wrong type")

	// ErrModuleName indicates the frame's module name could not be
	// resolved from its global namespace.
	ErrModuleName = errors.New("module name unresolved")
)
