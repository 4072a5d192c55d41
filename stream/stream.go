// Package stream reads newline-delimited JSON trace events emitted by a
// host interpreter and materializes frames for collection. One JSON
// object per line:
//
//	{"event":"call","file":"a.py","func":"f","firstline":10,"line":12,
//	 "params":["x"],"locals":{"x":42},"globals":{"__name__":"m"},"arg":null}
//
// Malformed lines are logged and skipped; the stream keeps going.
package stream

import (
	"bufio"
	"fmt"
	"io"

	"fortio.org/safecast"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"tracescope/collector"
)

// Event is one parsed trace event ready for dispatch.
type Event struct {
	Frame *collector.FrameData
	Kind  collector.EventKind
	Arg   any
}

// Source turns a reader of NDJSON event lines into a channel of Events.
type Source struct {
	r      io.Reader
	events chan Event
	logger *zap.Logger
}

// New creates a source over r. buffer sizes the event channel.
func New(r io.Reader, buffer int, logger *zap.Logger) *Source {
	if logger == nil {
		logger = zap.NewNop()
	}
	if buffer <= 0 {
		buffer = 1024
	}
	return &Source{
		r:      r,
		events: make(chan Event, buffer),
		logger: logger,
	}
}

// Start begins reading in a goroutine and returns the event channel.
// The channel closes when the reader is exhausted.
func (s *Source) Start() <-chan Event {
	go func() {
		defer close(s.events)

		scanner := bufio.NewScanner(s.r)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

		lineNo := 0
		for scanner.Scan() {
			lineNo++
			line := scanner.Bytes()
			if len(line) == 0 {
				continue
			}

			ev, err := parseEvent(line)
			if err != nil {
				s.logger.Warn("skipping malformed event line",
					zap.Int("line", lineNo),
					zap.Error(err))
				continue
			}
			s.events <- ev
		}
		if err := scanner.Err(); err != nil {
			s.logger.Error("event stream read failed", zap.Error(err))
		}
	}()
	return s.events
}

// parseEvent decodes a single NDJSON event line.
func parseEvent(line []byte) (Event, error) {
	if !gjson.ValidBytes(line) {
		return Event{}, fmt.Errorf("invalid json: %q", line)
	}
	data := gjson.ParseBytes(line)

	kindLabel := data.Get("event")
	if !kindLabel.Exists() {
		return Event{}, fmt.Errorf("missing event field")
	}
	kind, err := collector.ParseEventKind(kindLabel.String())
	if err != nil {
		return Event{}, err
	}

	file := data.Get("file")
	fn := data.Get("func")
	if !file.Exists() || !fn.Exists() {
		return Event{}, fmt.Errorf("missing file or func field")
	}

	firstLine, err := safecast.Conv[int](data.Get("firstline").Int())
	if err != nil {
		return Event{}, fmt.Errorf("firstline overflow: %w", err)
	}
	current, err := safecast.Conv[int](data.Get("line").Int())
	if err != nil {
		return Event{}, fmt.Errorf("line overflow: %w", err)
	}

	var params []string
	data.Get("params").ForEach(func(_, value gjson.Result) bool {
		params = append(params, value.String())
		return true
	})

	frame := &collector.FrameData{
		Code: collector.CodeUnit{
			Name:      fn.String(),
			File:      file.String(),
			FirstLine: firstLine,
			Params:    params,
		},
		CurrentLine: current,
		Globals:     namespace(data.Get("globals")),
		Locals:      namespace(data.Get("locals")),
	}

	return Event{Frame: frame, Kind: kind, Arg: data.Get("arg").Value()}, nil
}

// namespace converts a JSON object into a lookup map; absent or
// non-object values yield an empty namespace.
func namespace(res gjson.Result) map[string]any {
	ns := make(map[string]any)
	if !res.IsObject() {
		return ns
	}
	res.ForEach(func(key, value gjson.Result) bool {
		ns[key.String()] = value.Value()
		return true
	})
	return ns
}
