package consistentdf

import (
	"time"

	"github.com/macxred/consistentdf/i18n"
	"github.com/macxred/consistentdf/internal/coerce"
)

// Series is one named, typed column. Cells are boxed canonical values
// (string, int64, float64, bool, time.Time, *Frame or any for object
// columns); nil marks a null.
type Series struct {
	name  string
	dtype DType
	cells []any
}

// NewSeries builds a Series, coercing every cell to the declared dtype. Nil
// cells stay null. Cells that cannot be represented in the dtype yield a
// convert_failure Issue.
func NewSeries(name string, dt DType, cells ...any) (*Series, error) {
	out := make([]any, len(cells))
	for i, v := range cells {
		cv, err := coerceCell(v, dt)
		if err != nil {
			return nil, Issues{{
				Path:    "/" + name,
				Code:    CodeConvertFailure,
				Message: i18n.T(CodeConvertFailure, map[string]string{"column": name}),
				Cause:   err,
				Params:  map[string]any{"column": name, "row": i, "dtype": dt.String()},
			}}
		}
		out[i] = cv
	}
	return &Series{name: name, dtype: dt, cells: out}, nil
}

// MustSeries is NewSeries for literal construction; it panics on a cell that
// does not fit the dtype.
func MustSeries(name string, dt DType, cells ...any) *Series {
	s, err := NewSeries(name, dt, cells...)
	if err != nil {
		panic(err)
	}
	return s
}

// Typed shorthand constructors for the common all-non-null case.

func Strings(name string, vals ...string) *Series {
	cells := make([]any, len(vals))
	for i, v := range vals {
		cells[i] = v
	}
	return &Series{name: name, dtype: String, cells: cells}
}

func Ints(name string, vals ...int64) *Series {
	cells := make([]any, len(vals))
	for i, v := range vals {
		cells[i] = v
	}
	return &Series{name: name, dtype: Int64, cells: cells}
}

func Floats(name string, vals ...float64) *Series {
	cells := make([]any, len(vals))
	for i, v := range vals {
		cells[i] = v
	}
	return &Series{name: name, dtype: Float64, cells: cells}
}

func Bools(name string, vals ...bool) *Series {
	cells := make([]any, len(vals))
	for i, v := range vals {
		cells[i] = v
	}
	return &Series{name: name, dtype: Bool, cells: cells}
}

func Times(name string, vals ...time.Time) *Series {
	cells := make([]any, len(vals))
	for i, v := range vals {
		cells[i] = v.UTC()
	}
	return &Series{name: name, dtype: Datetime, cells: cells}
}

func Frames(name string, vals ...*Frame) *Series {
	cells := make([]any, len(vals))
	for i, v := range vals {
		if v == nil {
			continue
		}
		cells[i] = v
	}
	return &Series{name: name, dtype: FrameType, cells: cells}
}

func Objects(name string, vals ...any) *Series {
	cells := make([]any, len(vals))
	copy(cells, vals)
	return &Series{name: name, dtype: Object, cells: cells}
}

// Name reports the column name.
func (s *Series) Name() string { return s.name }

// DType reports the declared dtype.
func (s *Series) DType() DType { return s.dtype }

// Len reports the number of cells.
func (s *Series) Len() int { return len(s.cells) }

// Cell returns the boxed value at position i; nil means null.
func (s *Series) Cell(i int) any { return s.cells[i] }

// IsNull reports whether the cell at position i is null.
func (s *Series) IsNull(i int) bool { return s.cells[i] == nil }

// Cells returns a copy of all boxed cells.
func (s *Series) Cells() []any {
	out := make([]any, len(s.cells))
	copy(out, s.cells)
	return out
}

func (s *Series) clone() *Series {
	return &Series{name: s.name, dtype: s.dtype, cells: s.Cells()}
}

// take builds a new Series from the cells at the given positions.
func (s *Series) take(rows []int) *Series {
	cells := make([]any, len(rows))
	for i, r := range rows {
		cells[i] = s.cells[r]
	}
	return &Series{name: s.name, dtype: s.dtype, cells: cells}
}

// emptySeries returns an all-null Series of the given dtype and length.
func emptySeries(name string, dt DType, n int) *Series {
	return &Series{name: name, dtype: dt, cells: make([]any, n)}
}

// coerceCell converts a single boxed value to the dtype's canonical
// representation. Frame cells are validated here; scalar kinds delegate to
// the coerce kernel.
func coerceCell(v any, dt DType) (any, error) {
	if v == nil {
		return nil, nil
	}
	if dt.kind == KindFrame {
		if f, ok := v.(*Frame); ok {
			if f == nil {
				return nil, nil
			}
			return f, nil
		}
		return nil, singleIssue("/", CodeInvalidType, "cell is not a frame")
	}
	return coerce.Cell(v, dt.target())
}

func (d DType) target() coerce.Target {
	var k coerce.Kind
	switch d.kind {
	case KindString:
		k = coerce.String
	case KindInt64:
		k = coerce.Int64
	case KindFloat64:
		k = coerce.Float64
	case KindBool:
		k = coerce.Bool
	case KindDatetime:
		k = coerce.Datetime
	default:
		k = coerce.Object
	}
	return coerce.Target{Kind: k, Loc: d.loc}
}
