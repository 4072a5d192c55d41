// Package sizes exposes the in-memory sizes of the platform's value
// types as integer constants, for harnesses that validate layout
// assumptions across builds.
package sizes

import (
	"time"
	"unsafe"
)

const (
	Bool       = int(unsafe.Sizeof(false))
	Int        = int(unsafe.Sizeof(int(0)))
	Int8       = int(unsafe.Sizeof(int8(0)))
	Int16      = int(unsafe.Sizeof(int16(0)))
	Int32      = int(unsafe.Sizeof(int32(0)))
	Int64      = int(unsafe.Sizeof(int64(0)))
	Uint       = int(unsafe.Sizeof(uint(0)))
	Uintptr    = int(unsafe.Sizeof(uintptr(0)))
	Float32    = int(unsafe.Sizeof(float32(0)))
	Float64    = int(unsafe.Sizeof(float64(0)))
	Complex64  = int(unsafe.Sizeof(complex64(0)))
	Complex128 = int(unsafe.Sizeof(complex128(0)))

	Pointer     = int(unsafe.Sizeof(unsafe.Pointer(nil)))
	StringHead  = int(unsafe.Sizeof(""))
	SliceHead   = int(unsafe.Sizeof([]byte(nil)))
	MapHead     = int(unsafe.Sizeof(map[string]int(nil)))
	ChanHead    = int(unsafe.Sizeof((chan int)(nil)))
	FuncValue   = int(unsafe.Sizeof((func())(nil)))
	Interface   = int(unsafe.Sizeof((any)(nil)))
	TimeValue   = int(unsafe.Sizeof(time.Time{}))
	DurationVal = int(unsafe.Sizeof(time.Duration(0)))
)

// byName is the lookup table behind Of.
var byName = map[string]int{
	"bool":       Bool,
	"int":        Int,
	"int8":       Int8,
	"int16":      Int16,
	"int32":      Int32,
	"int64":      Int64,
	"uint":       Uint,
	"uintptr":    Uintptr,
	"float32":    Float32,
	"float64":    Float64,
	"complex64":  Complex64,
	"complex128": Complex128,
	"pointer":    Pointer,
	"string":     StringHead,
	"slice":      SliceHead,
	"map":        MapHead,
	"chan":       ChanHead,
	"func":       FuncValue,
	"interface":  Interface,
	"time":       TimeValue,
	"duration":   DurationVal,
}

// Of returns the size in bytes of the named type.
func Of(name string) (int, bool) {
	n, ok := byName[name]
	return n, ok
}

// Names returns the set of known type names.
func Names() []string {
	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	return names
}
