// Package journal persists trace records as a msgpack stream. Each record
// is encoded as a nine-element array in the collector's fixed field order,
// so the journal is the durable form of the sink wire contract.
package journal

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"tracescope/collector"
)

// SchemaVersion is written at the head of every journal. Bump when the
// record encoding changes.
const SchemaVersion uint8 = 1

// ErrSchema indicates a journal was written with an unsupported schema.
var ErrSchema = errors.New("unsupported journal schema")

// Writer appends records to a msgpack journal. Append is safe for
// concurrent use, so it can serve directly as a collector.Sink shared by
// pipeline stages.
type Writer struct {
	mu  sync.Mutex
	enc *msgpack.Encoder
}

// NewWriter writes the schema header and returns a journal writer.
func NewWriter(w io.Writer) (*Writer, error) {
	enc := msgpack.NewEncoder(w)
	if err := enc.EncodeUint8(SchemaVersion); err != nil {
		return nil, fmt.Errorf("writing journal header: %w", err)
	}
	return &Writer{enc: enc}, nil
}

// Append encodes one record in the fixed nine-field order.
func (w *Writer) Append(r collector.Record) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.enc.EncodeArrayLen(collector.RecordFields); err != nil {
		return fmt.Errorf("encoding record: %w", err)
	}
	if err := w.enc.EncodeString(r.Module); err != nil {
		return fmt.Errorf("encoding module: %w", err)
	}
	if err := w.enc.Encode(r.Qualifier); err != nil {
		return fmt.Errorf("encoding qualifier: %w", err)
	}
	if err := w.enc.EncodeString(r.File); err != nil {
		return fmt.Errorf("encoding file: %w", err)
	}
	if err := w.enc.EncodeInt(int64(r.FirstLine)); err != nil {
		return fmt.Errorf("encoding first line: %w", err)
	}
	if err := w.enc.EncodeInt(int64(r.CurrentLine)); err != nil {
		return fmt.Errorf("encoding current line: %w", err)
	}
	if err := w.enc.EncodeString(r.Function); err != nil {
		return fmt.Errorf("encoding function: %w", err)
	}
	if err := w.enc.EncodeUint8(uint8(r.Kind)); err != nil {
		return fmt.Errorf("encoding event kind: %w", err)
	}
	if err := w.enc.Encode(r.Arg); err != nil {
		return fmt.Errorf("encoding argument: %w", err)
	}
	if err := w.enc.EncodeInt(r.Elapsed); err != nil {
		return fmt.Errorf("encoding elapsed: %w", err)
	}
	return nil
}

// Reader decodes records from a journal stream.
type Reader struct {
	dec *msgpack.Decoder
}

// NewReader validates the schema header and returns a journal reader.
func NewReader(r io.Reader) (*Reader, error) {
	dec := msgpack.NewDecoder(r)
	version, err := dec.DecodeUint8()
	if err != nil {
		return nil, fmt.Errorf("reading journal header: %w", err)
	}
	if version != SchemaVersion {
		return nil, fmt.Errorf("%w: %d", ErrSchema, version)
	}
	return &Reader{dec: dec}, nil
}

// Next decodes the next record. It returns io.EOF at end of stream.
func (r *Reader) Next() (collector.Record, error) {
	var rec collector.Record

	n, err := r.dec.DecodeArrayLen()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return rec, io.EOF
		}
		return rec, fmt.Errorf("decoding record: %w", err)
	}
	if n != collector.RecordFields {
		return rec, fmt.Errorf("decoding record: %d fields, want %d", n, collector.RecordFields)
	}

	if rec.Module, err = r.dec.DecodeString(); err != nil {
		return rec, fmt.Errorf("decoding module: %w", err)
	}
	if rec.Qualifier, err = r.decodeValue(); err != nil {
		return rec, fmt.Errorf("decoding qualifier: %w", err)
	}
	if rec.File, err = r.dec.DecodeString(); err != nil {
		return rec, fmt.Errorf("decoding file: %w", err)
	}
	if rec.FirstLine, err = r.decodeInt(); err != nil {
		return rec, fmt.Errorf("decoding first line: %w", err)
	}
	if rec.CurrentLine, err = r.decodeInt(); err != nil {
		return rec, fmt.Errorf("decoding current line: %w", err)
	}
	if rec.Function, err = r.dec.DecodeString(); err != nil {
		return rec, fmt.Errorf("decoding function: %w", err)
	}
	kind, err := r.dec.DecodeUint8()
	if err != nil {
		return rec, fmt.Errorf("decoding event kind: %w", err)
	}
	rec.Kind = collector.EventKind(kind)
	if !rec.Kind.IsValid() {
		return rec, fmt.Errorf("decoding event kind: %d out of domain", kind)
	}
	if rec.Arg, err = r.decodeValue(); err != nil {
		return rec, fmt.Errorf("decoding argument: %w", err)
	}
	if rec.Elapsed, err = r.dec.DecodeInt64(); err != nil {
		return rec, fmt.Errorf("decoding elapsed: %w", err)
	}

	return rec, nil
}

// ReadAll drains the stream into a slice.
func (r *Reader) ReadAll() ([]collector.Record, error) {
	var records []collector.Record
	for {
		rec, err := r.Next()
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		if err != nil {
			return records, err
		}
		records = append(records, rec)
	}
}

func (r *Reader) decodeInt() (int, error) {
	v, err := r.dec.DecodeInt64()
	return int(v), err
}

// decodeValue decodes an arbitrary qualifier/argument value, normalizing
// msgpack's assorted integer widths to int64 so round-trips compare
// predictably.
func (r *Reader) decodeValue() (any, error) {
	v, err := r.dec.DecodeInterface()
	if err != nil {
		return nil, err
	}
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int8:
		return int64(n), nil
	case int16:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case uint:
		return int64(n), nil
	case uint8:
		return int64(n), nil
	case uint16:
		return int64(n), nil
	case uint32:
		return int64(n), nil
	case uint64:
		return int64(n), nil
	default:
		return v, nil
	}
}
