package collector

// ModuleNameKey is the global-namespace binding consulted to resolve the
// module name of an executing frame.
const ModuleNameKey = "__name__"

// CodeUnit is the immutable compiled representation of a function or
// method: its name, defining file, first line, and declared parameter
// names in declaration order.
type CodeUnit struct {
	Name      string   // function/method name
	File      string   // source file path
	FirstLine int      // line where the unit is defined
	Params    []string // declared parameter names, in order
}

// Frame exposes the slice of a runtime activation record the collector
// needs: the executing code unit, the current line, and name lookup in
// the frame's global and local namespaces. Host-runtime adapters supply
// concrete implementations.
type Frame interface {
	// Unit returns the code unit executing in this frame.
	Unit() CodeUnit

	// Line returns the line number currently executing.
	Line() int

	// Global looks up a name in the frame's global namespace.
	Global(name string) (any, bool)

	// Local looks up a name in the frame's local namespace.
	Local(name string) (any, bool)
}

// FrameData is a map-backed Frame for hosts that materialize frames from
// wire data rather than exposing live activation records. The stream
// front end produces these; tests use them directly.
type FrameData struct {
	Code        CodeUnit
	CurrentLine int
	Globals     map[string]any
	Locals      map[string]any
}

// Unit returns the frame's code unit.
func (f *FrameData) Unit() CodeUnit { return f.Code }

// Line returns the currently executing line.
func (f *FrameData) Line() int { return f.CurrentLine }

// Global looks up a name in the materialized global namespace.
func (f *FrameData) Global(name string) (any, bool) {
	v, ok := f.Globals[name]
	return v, ok
}

// Local looks up a name in the materialized local namespace.
func (f *FrameData) Local(name string) (any, bool) {
	v, ok := f.Locals[name]
	return v, ok
}
