// Package measure aggregates trace records into call timings and line
// counts. It attributes each record's elapsed delta to the call stack
// reconstructed from call/return events, yielding cumulative time (the
// call and everything beneath it) and resident time (the call alone)
// per caller/callee edge.
package measure

import (
	"math"
	"sort"

	"tracescope/collector"
)

// Call identifies a code unit: its file, defining line, and name.
type Call struct {
	File      string
	FirstLine int
	Name      string
}

// Edge is a caller/callee pair. Root is set when the callee had no
// recorded caller.
type Edge struct {
	Parent Call
	Call   Call
	Root   bool
}

// Timing accumulates per-edge call statistics. Cumulative and Resident
// are nanosecond totals across invocations; CDst/RDst hold total absolute
// deviation from the mean and CVar/RVar the sum of squared deviations,
// filled in by Aggregate.
type Timing struct {
	Count      int64
	Cumulative int64
	Resident   int64
	CMin, CMax int64
	RMin, RMax int64
	CDst, RDst float64
	CVar, RVar float64

	returned bool // min fields valid once the first return is seen
}

// CallSample is one invocation's exact (cumulative, resident) pair.
type CallSample struct {
	Cumulative int64
	Resident   int64
}

// Report is the result of measuring a record sequence.
type Report struct {
	CallTimes  map[Edge]*Timing
	Exact      map[Edge][]CallSample
	LineCounts map[string]map[int]int64
}

// Measure consumes records in event order and produces a Report.
// Line events count line executions; call and return events additionally
// touch the current line. Exception events carry no timing of their own
// beyond their delta, which is attributed to the executing call.
func Measure(records []collector.Record) *Report {
	r := &Report{
		CallTimes:  make(map[Edge]*Timing),
		Exact:      make(map[Edge][]CallSample),
		LineCounts: make(map[string]map[int]int64),
	}

	callState := []int64{0}
	subcallState := []int64{0}
	var path []Call

	for _, rec := range records {
		call := Call{File: rec.File, FirstLine: rec.FirstLine, Name: rec.Function}

		callState[len(callState)-1] += rec.Elapsed
		subcallState[len(subcallState)-1] += rec.Elapsed

		switch rec.Kind {
		case collector.EventLine:
			r.countLine(rec.File, rec.CurrentLine)

		case collector.EventCall, collector.EventCCall:
			edge := Edge{Call: call, Root: true}
			if len(path) > 0 {
				edge.Parent = path[len(path)-1]
				edge.Root = false
			}
			path = append(path, call)

			r.countLine(rec.File, rec.CurrentLine)
			r.timing(edge).Count++

			callState = append(callState, 0)
			subcallState = append(subcallState, 0)

		case collector.EventReturn, collector.EventCReturn:
			edge := Edge{Call: call, Root: true}
			if len(path) > 0 {
				path = path[:len(path)-1]
				if len(path) > 0 {
					edge.Parent = path[len(path)-1]
					edge.Root = false
				}
			}

			r.countLine(rec.File, rec.CurrentLine)

			// Pop call state; the callee's total flows into the caller.
			sum := callState[len(callState)-1]
			callState = callState[:len(callState)-1]
			if len(callState) == 0 {
				callState = append(callState, 0)
			}
			callState[len(callState)-1] += sum

			// Resident time does not flow upward.
			inner := subcallState[len(subcallState)-1]
			subcallState = subcallState[:len(subcallState)-1]
			if len(subcallState) == 0 {
				subcallState = append(subcallState, 0)
			}

			t := r.timing(edge)
			t.Cumulative += sum
			t.Resident += inner

			if !t.returned || t.RMin > inner {
				t.RMin = inner
			}
			if !t.returned || t.CMin > sum {
				t.CMin = sum
			}
			if inner > t.RMax {
				t.RMax = inner
			}
			if sum > t.CMax {
				t.CMax = sum
			}
			t.returned = true

			r.Exact[edge] = append(r.Exact[edge], CallSample{Cumulative: sum, Resident: inner})
		}
	}

	return r
}

func (r *Report) timing(edge Edge) *Timing {
	t, ok := r.CallTimes[edge]
	if !ok {
		t = &Timing{}
		r.CallTimes[edge] = t
	}
	return t
}

func (r *Report) countLine(file string, line int) {
	lines, ok := r.LineCounts[file]
	if !ok {
		lines = make(map[int]int64)
		r.LineCounts[file] = lines
	}
	lines[line]++
}

// Aggregate fills in the deviation fields of every Timing from the exact
// per-invocation samples.
func (r *Report) Aggregate() {
	for edge, t := range r.CallTimes {
		samples := r.Exact[edge]
		n := len(samples)
		if n == 0 {
			continue
		}

		cavg := float64(t.Cumulative) / float64(n)
		ravg := float64(t.Resident) / float64(n)
		for _, s := range samples {
			t.CDst += math.Abs(float64(s.Cumulative) - cavg)
			t.RDst += math.Abs(float64(s.Resident) - ravg)
			t.CVar += (float64(s.Cumulative) - cavg) * (float64(s.Cumulative) - cavg)
			t.RVar += (float64(s.Resident) - ravg) * (float64(s.Resident) - ravg)
		}
	}
}

// EdgesByCumulative returns the report's edges ordered by descending
// cumulative time, callee name breaking ties.
func (r *Report) EdgesByCumulative() []Edge {
	edges := make([]Edge, 0, len(r.CallTimes))
	for edge := range r.CallTimes {
		edges = append(edges, edge)
	}
	sort.Slice(edges, func(i, j int) bool {
		ti, tj := r.CallTimes[edges[i]], r.CallTimes[edges[j]]
		if ti.Cumulative != tj.Cumulative {
			return ti.Cumulative > tj.Cumulative
		}
		return edges[i].Call.Name < edges[j].Call.Name
	})
	return edges
}
