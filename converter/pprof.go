// Package converter turns measured trace reports into pprof profiles.
package converter

import (
	"fmt"
	"time"

	"fortio.org/safecast"
	"github.com/google/pprof/profile"

	"tracescope/measure"
)

// builder deduplicates pprof functions and locations while a profile is
// assembled.
type builder struct {
	prof       *profile.Profile
	functions  map[string]*profile.Function
	locations  map[string]*profile.Location
	nextFuncID uint64
	nextLocID  uint64
}

func newBuilder(prof *profile.Profile) *builder {
	return &builder{
		prof:       prof,
		functions:  make(map[string]*profile.Function),
		locations:  make(map[string]*profile.Location),
		nextFuncID: 1,
		nextLocID:  1,
	}
}

func (b *builder) function(name, file string, firstLine int64) *profile.Function {
	key := name + "\x00" + file
	if fn, ok := b.functions[key]; ok {
		return fn
	}
	fn := &profile.Function{
		ID:         b.nextFuncID,
		Name:       name,
		SystemName: name,
		Filename:   file,
		StartLine:  firstLine,
	}
	b.functions[key] = fn
	b.prof.Function = append(b.prof.Function, fn)
	b.nextFuncID++
	return fn
}

func (b *builder) location(fn *profile.Function, line int64) *profile.Location {
	key := fmt.Sprintf("%d:%d", fn.ID, line)
	if loc, ok := b.locations[key]; ok {
		return loc
	}
	loc := &profile.Location{
		ID:   b.nextLocID,
		Line: []profile.Line{{Function: fn, Line: line}},
	}
	b.locations[key] = loc
	b.prof.Location = append(b.prof.Location, loc)
	b.nextLocID++
	return loc
}

func (b *builder) callLocation(call measure.Call) (*profile.Location, error) {
	first, err := safecast.Conv[int64](call.FirstLine)
	if err != nil {
		return nil, fmt.Errorf("line overflow in %s: %w", call.Name, err)
	}
	fn := b.function(call.Name, call.File, first)
	return b.location(fn, first), nil
}

// CallProfile converts the report's call timings into a pprof profile
// with cumulative time, resident time, and call count per caller/callee
// edge. start and duration describe the traced window.
func CallProfile(r *measure.Report, start time.Time, duration time.Duration) (*profile.Profile, error) {
	prof := &profile.Profile{
		SampleType: []*profile.ValueType{
			{Type: "cumulative", Unit: "nanoseconds"},
			{Type: "resident", Unit: "nanoseconds"},
			{Type: "calls", Unit: "count"},
		},
		TimeNanos:     start.UnixNano(),
		DurationNanos: duration.Nanoseconds(),
		PeriodType:    &profile.ValueType{Type: "cumulative", Unit: "nanoseconds"},
		Period:        1,
	}
	b := newBuilder(prof)

	for _, edge := range r.EdgesByCumulative() {
		t := r.CallTimes[edge]

		loc, err := b.callLocation(edge.Call)
		if err != nil {
			return nil, err
		}
		// Leaf first, as pprof expects.
		stack := []*profile.Location{loc}
		if !edge.Root {
			parent, err := b.callLocation(edge.Parent)
			if err != nil {
				return nil, err
			}
			stack = append(stack, parent)
		}

		prof.Sample = append(prof.Sample, &profile.Sample{
			Location: stack,
			Value:    []int64{t.Cumulative, t.Resident, t.Count},
		})
	}

	return prof, nil
}

// CoverageProfile converts the report's line counts into a pprof profile
// with one executions/count sample per file:line.
func CoverageProfile(r *measure.Report, start time.Time, duration time.Duration) (*profile.Profile, error) {
	prof := &profile.Profile{
		SampleType: []*profile.ValueType{
			{Type: "executions", Unit: "count"},
		},
		TimeNanos:     start.UnixNano(),
		DurationNanos: duration.Nanoseconds(),
		PeriodType:    &profile.ValueType{Type: "executions", Unit: "count"},
		Period:        1,
	}
	b := newBuilder(prof)

	for file, lines := range r.LineCounts {
		fn := b.function(file, file, 0)
		for line, count := range lines {
			n, err := safecast.Conv[int64](line)
			if err != nil {
				return nil, fmt.Errorf("line overflow in %s: %w", file, err)
			}
			prof.Sample = append(prof.Sample, &profile.Sample{
				Location: []*profile.Location{b.location(fn, n)},
				Value:    []int64{count},
			})
		}
	}

	return prof, nil
}
