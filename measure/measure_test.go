package measure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tracescope/collector"
)

var (
	fnF = Call{File: "a.py", FirstLine: 10, Name: "f"}
	fnG = Call{File: "a.py", FirstLine: 20, Name: "g"}
)

func rec(kind collector.EventKind, call Call, line int, delta int64) collector.Record {
	return collector.Record{
		Module:      "m",
		File:        call.File,
		FirstLine:   call.FirstLine,
		CurrentLine: line,
		Function:    call.Name,
		Kind:        kind,
		Elapsed:     delta,
	}
}

func TestMeasureSingleNestedCall(t *testing.T) {
	records := []collector.Record{
		rec(collector.EventCall, fnF, 10, 1),
		rec(collector.EventLine, fnF, 11, 2),
		rec(collector.EventCall, fnG, 20, 3),
		rec(collector.EventLine, fnG, 21, 4),
		rec(collector.EventReturn, fnG, 22, 5),
		rec(collector.EventLine, fnF, 12, 6),
		rec(collector.EventReturn, fnF, 13, 7),
	}

	r := Measure(records)

	rootF := Edge{Call: fnF, Root: true}
	fg := Edge{Parent: fnF, Call: fnG}

	require.Contains(t, r.CallTimes, rootF)
	require.Contains(t, r.CallTimes, fg)

	tf := r.CallTimes[rootF]
	assert.Equal(t, int64(1), tf.Count)
	assert.Equal(t, int64(27), tf.Cumulative, "f owns everything after its call event")
	assert.Equal(t, int64(18), tf.Resident, "g's time is not resident in f")
	assert.Equal(t, int64(27), tf.CMin)
	assert.Equal(t, int64(27), tf.CMax)
	assert.Equal(t, int64(18), tf.RMin)
	assert.Equal(t, int64(18), tf.RMax)

	tg := r.CallTimes[fg]
	assert.Equal(t, int64(1), tg.Count)
	assert.Equal(t, int64(9), tg.Cumulative)
	assert.Equal(t, int64(9), tg.Resident, "leaf call: resident equals cumulative")

	assert.Equal(t, []CallSample{{Cumulative: 9, Resident: 9}}, r.Exact[fg])
	assert.Equal(t, []CallSample{{Cumulative: 27, Resident: 18}}, r.Exact[rootF])

	wantLines := map[int]int64{10: 1, 11: 1, 12: 1, 13: 1, 20: 1, 21: 1, 22: 1}
	assert.Equal(t, wantLines, r.LineCounts["a.py"])
}

func TestMeasureRepeatedCallsAndAggregate(t *testing.T) {
	records := []collector.Record{
		rec(collector.EventCall, fnF, 10, 0),
		rec(collector.EventCall, fnG, 20, 0),
		rec(collector.EventReturn, fnG, 22, 5),
		rec(collector.EventCall, fnG, 20, 0),
		rec(collector.EventReturn, fnG, 22, 9),
		rec(collector.EventReturn, fnF, 13, 1),
	}

	r := Measure(records)
	r.Aggregate()

	fg := Edge{Parent: fnF, Call: fnG}
	tg := r.CallTimes[fg]
	require.NotNil(t, tg)
	assert.Equal(t, int64(2), tg.Count)
	assert.Equal(t, int64(14), tg.Cumulative)
	assert.Equal(t, int64(5), tg.CMin)
	assert.Equal(t, int64(9), tg.CMax)
	assert.Equal(t, int64(5), tg.RMin)
	assert.Equal(t, int64(9), tg.RMax)
	assert.InDelta(t, 4.0, tg.CDst, 1e-9)
	assert.InDelta(t, 8.0, tg.CVar, 1e-9)
	assert.InDelta(t, 4.0, tg.RDst, 1e-9)
	assert.InDelta(t, 8.0, tg.RVar, 1e-9)

	rootF := Edge{Call: fnF, Root: true}
	tf := r.CallTimes[rootF]
	require.NotNil(t, tf)
	assert.Equal(t, int64(15), tf.Cumulative)
	assert.Equal(t, int64(1), tf.Resident)

	edges := r.EdgesByCumulative()
	require.Len(t, edges, 2)
	assert.Equal(t, rootF, edges[0])
	assert.Equal(t, fg, edges[1])
}

func TestMeasureUnbalancedReturn(t *testing.T) {
	// A return with no matching call must not corrupt the state stacks.
	records := []collector.Record{
		rec(collector.EventReturn, fnG, 22, 3),
		rec(collector.EventCall, fnF, 10, 1),
		rec(collector.EventReturn, fnF, 13, 2),
	}

	r := Measure(records)

	rootG := Edge{Call: fnG, Root: true}
	require.Contains(t, r.CallTimes, rootG)
	assert.Equal(t, int64(3), r.CallTimes[rootG].Cumulative)

	rootF := Edge{Call: fnF, Root: true}
	require.Contains(t, r.CallTimes, rootF)
	assert.Equal(t, int64(2), r.CallTimes[rootF].Cumulative)
	assert.Equal(t, int64(1), r.CallTimes[rootF].Count)
}
