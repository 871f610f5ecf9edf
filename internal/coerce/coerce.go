// Package coerce is the dtype conversion kernel. It operates on boxed cell
// values (nil, string, int64, float64, bool, time.Time) and is deliberately
// unaware of frames; frame-valued cells are handled by the caller.
package coerce

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Kind mirrors the scalar dtype kinds of the public package.
type Kind int

const (
	String Kind = iota + 1
	Int64
	Float64
	Bool
	Datetime
	Object
)

// Target is the conversion goal: a scalar kind plus, for datetimes, an
// optional anchor zone (nil means naive wall-clock time, stored as UTC).
type Target struct {
	Kind Kind
	Loc  *time.Location
}

// Datetime layouts accepted from string cells, tried in order. Naive layouts
// are interpreted in the target zone (or as naive time when the target has
// none).
var datetimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Cell converts one cell to the target kind. Nil cells survive every
// conversion unchanged. The returned error is a plain error; callers wrap it
// into an Issue with the column path.
func Cell(v any, t Target) (any, error) {
	if v == nil {
		return nil, nil
	}
	switch t.Kind {
	case Object:
		return v, nil
	case String:
		return toStringCell(v), nil
	case Int64:
		return toInt64(v)
	case Float64:
		return toFloat64(v)
	case Bool:
		return toBool(v)
	case Datetime:
		return toDatetime(v, t.Loc)
	}
	return nil, fmt.Errorf("unsupported target kind %d", t.Kind)
}

func toStringCell(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return FormatTime(x)
	default:
		return fmt.Sprint(v)
	}
}

func toInt64(v any) (any, error) {
	switch x := v.(type) {
	case int64:
		return x, nil
	case int:
		return int64(x), nil
	case float64:
		if x != math.Trunc(x) || math.IsInf(x, 0) || math.IsNaN(x) {
			return nil, fmt.Errorf("cannot represent %v as int64", x)
		}
		if x < math.MinInt64 || x >= math.MaxInt64 {
			return nil, fmt.Errorf("value %v overflows int64", x)
		}
		return int64(x), nil
	case bool:
		if x {
			return int64(1), nil
		}
		return int64(0), nil
	case string:
		if n, err := strconv.ParseInt(strings.TrimSpace(x), 10, 64); err == nil {
			return n, nil
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return nil, fmt.Errorf("cannot parse %q as int64", x)
		}
		return toInt64(f)
	}
	return nil, fmt.Errorf("cannot convert %T to int64", v)
}

func toFloat64(v any) (any, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case int64:
		return float64(x), nil
	case int:
		return float64(x), nil
	case bool:
		if x {
			return float64(1), nil
		}
		return float64(0), nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return nil, fmt.Errorf("cannot parse %q as float64", x)
		}
		return f, nil
	}
	return nil, fmt.Errorf("cannot convert %T to float64", v)
}

func toBool(v any) (any, error) {
	switch x := v.(type) {
	case bool:
		return x, nil
	case int64:
		return x != 0, nil
	case int:
		return x != 0, nil
	case float64:
		return x != 0, nil
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(x))
		if err != nil {
			return nil, fmt.Errorf("cannot parse %q as bool", x)
		}
		return b, nil
	}
	return nil, fmt.Errorf("cannot convert %T to bool", v)
}

func toDatetime(v any, loc *time.Location) (any, error) {
	switch x := v.(type) {
	case time.Time:
		return anchorTime(x, loc), nil
	case string:
		t, err := parseTime(strings.TrimSpace(x), loc)
		if err != nil {
			return nil, err
		}
		return t, nil
	}
	return nil, fmt.Errorf("cannot convert %T to datetime", v)
}

func parseTime(s string, loc *time.Location) (time.Time, error) {
	for _, layout := range datetimeLayouts {
		parseIn := loc
		if parseIn == nil {
			parseIn = time.UTC
		}
		if t, err := time.ParseInLocation(layout, s, parseIn); err == nil {
			// Zoned layouts carry their own offset; anchor afterwards.
			if layout == time.RFC3339Nano || layout == time.RFC3339 {
				return anchorTime(t, loc), nil
			}
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse %q as datetime", s)
}

// anchorTime moves a time into the dtype's zone. With a nil target zone the
// instant is rendered naive by projecting onto UTC.
func anchorTime(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		return t.UTC()
	}
	return t.In(loc)
}

// Format renders a cell in its canonical textual form, used by the
// order-insensitive string rendering and CSV bodies. Nulls render empty.
func Format(v any) string {
	if v == nil {
		return ""
	}
	if t, ok := v.(time.Time); ok {
		return FormatTime(t)
	}
	return toStringCell(v)
}

// FormatTime renders a datetime cell canonically (RFC3339, nanosecond
// precision with trailing zeros trimmed).
func FormatTime(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}
