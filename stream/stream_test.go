package stream

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tracescope/collector"
)

func drain(ch <-chan Event) []Event {
	var events []Event
	for ev := range ch {
		events = append(events, ev)
	}
	return events
}

func TestParsesEventLines(t *testing.T) {
	input := strings.Join([]string{
		`{"event":"call","file":"a.py","func":"f","firstline":10,"line":12,"params":["x"],"locals":{"x":42},"globals":{"__name__":"m"}}`,
		`{"event":"return","file":"a.py","func":"f","firstline":10,"line":13,"globals":{"__name__":"m"},"arg":"result"}`,
	}, "\n")

	events := drain(New(strings.NewReader(input), 0, nil).Start())
	require.Len(t, events, 2)

	call := events[0]
	assert.Equal(t, collector.EventCall, call.Kind)
	assert.Equal(t, "f", call.Frame.Code.Name)
	assert.Equal(t, "a.py", call.Frame.Code.File)
	assert.Equal(t, 10, call.Frame.Code.FirstLine)
	assert.Equal(t, 12, call.Frame.CurrentLine)
	assert.Equal(t, []string{"x"}, call.Frame.Code.Params)

	v, ok := call.Frame.Local("x")
	require.True(t, ok)
	assert.EqualValues(t, 42, v)

	name, ok := call.Frame.Global(collector.ModuleNameKey)
	require.True(t, ok)
	assert.Equal(t, "m", name)

	ret := events[1]
	assert.Equal(t, collector.EventReturn, ret.Kind)
	assert.Equal(t, "result", ret.Arg)
}

func TestSkipsMalformedLines(t *testing.T) {
	input := strings.Join([]string{
		`not json at all`,
		`{"file":"a.py","func":"f"}`,
		`{"event":"warp","file":"a.py","func":"f"}`,
		``,
		`{"event":"line","file":"a.py","func":"f","firstline":1,"line":2,"globals":{"__name__":"m"}}`,
	}, "\n")

	events := drain(New(strings.NewReader(input), 0, nil).Start())
	require.Len(t, events, 1)
	assert.Equal(t, collector.EventLine, events[0].Kind)
}

func TestEventsFeedCollector(t *testing.T) {
	input := `{"event":"call","file":"a.py","func":"f","firstline":10,"line":12,"params":["x"],"locals":{"x":42},"globals":{"__name__":"m"}}`

	var q []collector.Record
	c, err := collector.New(
		func(r collector.Record) error { q = append(q, r); return nil },
		func() (int64, error) { return 0, nil },
	)
	require.NoError(t, err)

	for ev := range New(strings.NewReader(input), 0, nil).Start() {
		require.NoError(t, c.Collect(ev.Frame, ev.Kind, ev.Arg))
	}

	require.Len(t, q, 1)
	assert.Equal(t, "m", q[0].Module)
	assert.EqualValues(t, 42, q[0].Qualifier)
}
