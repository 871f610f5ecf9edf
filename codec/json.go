// Package codec provides interchange codecs for frames. The only wire format
// here is JSON records: an array of objects, one object per row, with nested
// frames as nested arrays. It operates on caller-supplied byte slices only.
package codec

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"time"

	json "github.com/goccy/go-json"

	"github.com/macxred/consistentdf"
	"github.com/macxred/consistentdf/internal/coerce"
)

// JSONRecordsCodec converts between frames and JSON record arrays. Encode
// preserves column order; Decode derives it from the first record's key order
// (later-appearing keys are appended alphabetically, since objects beyond the
// first are read as maps).
type JSONRecordsCodec struct {
	schema consistentdf.Schema
}

// JSONRecords returns a codec that infers column dtypes from the JSON values.
func JSONRecords() *JSONRecordsCodec { return &JSONRecordsCodec{} }

// JSONRecordsWithSchema returns a codec that enforces the given schema on
// decode, pinning dtypes, presence and column order.
func JSONRecordsWithSchema(s consistentdf.Schema) *JSONRecordsCodec {
	return &JSONRecordsCodec{schema: s}
}

// Encode renders the frame as a JSON array of row objects. Nulls encode as
// JSON null, datetimes as RFC3339 strings, nested frames as nested arrays.
func (c *JSONRecordsCodec) Encode(ctx context.Context, df *consistentdf.Frame) ([]byte, error) {
	b := &bytes.Buffer{}
	if err := encodeFrame(b, df); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

// Decode parses a JSON array of row objects into a frame. Without a schema,
// dtypes are inferred per column: integral numbers become int64, mixed
// numbers float64, uniform strings/bools their scalar dtype, arrays of
// objects nested frames, anything mixed object.
func (c *JSONRecordsCodec) Decode(ctx context.Context, data []byte) (*consistentdf.Frame, error) {
	var rows []json.RawMessage
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, consistentdf.Issues{{
			Path: "/", Code: consistentdf.CodeParseError,
			Message: "invalid JSON records", Cause: err,
		}}
	}
	records := make([]map[string]any, len(rows))
	for i, raw := range rows {
		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.UseNumber()
		var m map[string]any
		if err := dec.Decode(&m); err != nil {
			return nil, consistentdf.Issues{{
				Path: fmt.Sprintf("/%d", i), Code: consistentdf.CodeParseError,
				Message: "record is not a JSON object", Cause: err,
			}}
		}
		records[i] = m
	}
	var order []string
	if len(records) > 0 {
		seen := map[string]struct{}{}
		if keys, err := recordKeyOrder(rows[0]); err == nil {
			order = keys
			for _, k := range keys {
				seen[k] = struct{}{}
			}
		}
		var late []string
		for _, m := range records {
			for k := range m {
				if _, ok := seen[k]; !ok {
					seen[k] = struct{}{}
					late = append(late, k)
				}
			}
		}
		sort.Strings(late)
		order = append(order, late...)
	}

	df, err := buildFrame(order, records)
	if err != nil {
		return nil, err
	}
	if c.schema != nil {
		return consistentdf.EnforceSchema(df, c.schema)
	}
	return df, nil
}

func encodeFrame(b *bytes.Buffer, df *consistentdf.Frame) error {
	b.WriteByte('[')
	names := df.Columns()
	for i := 0; i < df.Len(); i++ {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('{')
		for j, name := range names {
			if j > 0 {
				b.WriteByte(',')
			}
			key, err := json.Marshal(name)
			if err != nil {
				return encodeIssue(name, err)
			}
			b.Write(key)
			b.WriteByte(':')
			if err := encodeCell(b, df.At(i, name)); err != nil {
				return encodeIssue(name, err)
			}
		}
		b.WriteByte('}')
	}
	b.WriteByte(']')
	return nil
}

func encodeCell(b *bytes.Buffer, v any) error {
	switch x := v.(type) {
	case nil:
		b.WriteString("null")
		return nil
	case time.Time:
		s, err := json.Marshal(coerce.FormatTime(x))
		if err != nil {
			return err
		}
		b.Write(s)
		return nil
	case *consistentdf.Frame:
		return encodeFrame(b, x)
	default:
		s, err := json.Marshal(v)
		if err != nil {
			return err
		}
		b.Write(s)
		return nil
	}
}

func encodeIssue(column string, err error) error {
	return consistentdf.Issues{{
		Path: "/" + column, Code: consistentdf.CodeParseError,
		Message: "cannot encode cell", Cause: err,
	}}
}

// recordKeyOrder extracts the top-level key order of one JSON object.
func recordKeyOrder(raw []byte) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("not a JSON object")
	}
	var keys []string
	depth := 0
	expectKey := true
	for {
		tok, err := dec.Token()
		if err != nil {
			return keys, nil
		}
		switch t := tok.(type) {
		case json.Delim:
			switch t {
			case '{', '[':
				depth++
			case '}', ']':
				if depth == 0 {
					return keys, nil
				}
				depth--
			}
			if depth == 0 {
				expectKey = true
			}
		case string:
			if depth == 0 && expectKey {
				keys = append(keys, t)
				expectKey = false
				continue
			}
			if depth == 0 {
				expectKey = true
			}
		default:
			if depth == 0 {
				expectKey = true
			}
		}
	}
}

func buildFrame(order []string, records []map[string]any) (*consistentdf.Frame, error) {
	cols := make([]*consistentdf.Series, 0, len(order))
	for _, name := range order {
		cells := make([]any, len(records))
		for i, m := range records {
			v, err := decodeCell(m[name], fmt.Sprintf("/%d/%s", i, name))
			if err != nil {
				return nil, err
			}
			cells[i] = v
		}
		s, err := consistentdf.NewSeries(name, inferDType(cells), cells...)
		if err != nil {
			return nil, err
		}
		cols = append(cols, s)
	}
	return consistentdf.New(cols...)
}

func decodeCell(v any, path string) (any, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case string, bool:
		return x, nil
	case json.Number:
		if n, err := x.Int64(); err == nil {
			return n, nil
		}
		f, err := x.Float64()
		if err != nil {
			return nil, consistentdf.Issues{{
				Path: path, Code: consistentdf.CodeParseError,
				Message: "invalid number", Cause: err,
			}}
		}
		return f, nil
	case []any:
		// Nested records become a nested frame. Key order inside maps is
		// lost, so nested columns come out alphabetically.
		maps := make([]map[string]any, len(x))
		var names []string
		seen := map[string]struct{}{}
		for i, el := range x {
			m, ok := el.(map[string]any)
			if !ok {
				return nil, consistentdf.Issues{{
					Path: fmt.Sprintf("%s/%d", path, i), Code: consistentdf.CodeInvalidType,
					Message: "nested array element is not an object",
				}}
			}
			maps[i] = m
			for k := range m {
				if _, ok := seen[k]; !ok {
					seen[k] = struct{}{}
					names = append(names, k)
				}
			}
		}
		sort.Strings(names)
		return buildFrame(names, maps)
	default:
		return nil, consistentdf.Issues{{
			Path: path, Code: consistentdf.CodeInvalidType,
			Message: fmt.Sprintf("unsupported JSON value %T", v),
		}}
	}
}

func inferDType(cells []any) consistentdf.DType {
	var (
		ints, floats, strs, bools, frames, nonNull int
	)
	for _, v := range cells {
		switch v.(type) {
		case nil:
			continue
		case int64:
			ints++
		case float64:
			floats++
		case string:
			strs++
		case bool:
			bools++
		case *consistentdf.Frame:
			frames++
		}
		nonNull++
	}
	switch {
	case nonNull == 0:
		return consistentdf.Object
	case ints == nonNull:
		return consistentdf.Int64
	case ints+floats == nonNull:
		return consistentdf.Float64
	case strs == nonNull:
		return consistentdf.String
	case bools == nonNull:
		return consistentdf.Bool
	case frames == nonNull:
		return consistentdf.FrameType
	default:
		return consistentdf.Object
	}
}
