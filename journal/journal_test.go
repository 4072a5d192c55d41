package journal

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tracescope/collector"
)

func TestRoundTrip(t *testing.T) {
	records := []collector.Record{
		{
			Module:      "m",
			Qualifier:   int64(42),
			File:        "a.py",
			FirstLine:   10,
			CurrentLine: 12,
			Function:    "f",
			Kind:        collector.EventCall,
			Arg:         "payload",
			Elapsed:     1500,
		},
		{
			Module:      "m",
			File:        "a.py",
			FirstLine:   10,
			CurrentLine: 13,
			Function:    "f",
			Kind:        collector.EventReturn,
			Elapsed:     2500,
		},
	}

	var buf bytes.Buffer
	w, err := NewWriter(&buf)
	require.NoError(t, err)
	for _, rec := range records {
		require.NoError(t, w.Append(rec))
	}

	r, err := NewReader(&buf)
	require.NoError(t, err)
	got, err := r.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, records, got)

	_, err = r.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestWriterIsACollectorSink(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf)
	require.NoError(t, err)

	c, err := collector.New(w.Append, func() (int64, error) { return 7, nil })
	require.NoError(t, err)

	frame := &collector.FrameData{
		Code:        collector.CodeUnit{Name: "f", File: "a.py", FirstLine: 10},
		CurrentLine: 12,
		Globals:     map[string]any{collector.ModuleNameKey: "m"},
	}
	require.NoError(t, c.Collect(frame, collector.EventCall, nil))

	r, err := NewReader(&buf)
	require.NoError(t, err)
	rec, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "m", rec.Module)
	assert.Equal(t, collector.EventCall, rec.Kind)
	assert.Equal(t, int64(7), rec.Elapsed)
}

func TestSchemaMismatch(t *testing.T) {
	var buf bytes.Buffer
	_, err := NewWriter(&buf)
	require.NoError(t, err)

	// Corrupt the schema byte.
	raw := buf.Bytes()
	raw[len(raw)-1]++

	_, err = NewReader(bytes.NewReader(raw))
	assert.ErrorIs(t, err, ErrSchema)
}

func TestEmptyStream(t *testing.T) {
	_, err := NewReader(bytes.NewReader(nil))
	assert.Error(t, err)
}
