package consistentdf

import (
	"sort"

	"github.com/macxred/consistentdf/i18n"
	"github.com/macxred/consistentdf/internal/order"
)

// Frame is an ordered collection of equally long Series plus an integer row
// index. The zero frame (nil) behaves like an empty frame with no columns.
type Frame struct {
	cols  []*Series
	index []int // nil means the default index 0..n-1
}

// New builds a Frame from columns, rejecting duplicate names and unequal
// lengths.
func New(cols ...*Series) (*Frame, error) {
	var iss Issues
	seen := map[string]struct{}{}
	n := -1
	for _, c := range cols {
		if _, dup := seen[c.name]; dup {
			iss = AppendIssues(iss, IssueAt("/"+c.name, CodeDuplicateColumn, map[string]any{"column": c.name}))
			continue
		}
		seen[c.name] = struct{}{}
		if n == -1 {
			n = c.Len()
		} else if c.Len() != n {
			iss = AppendIssues(iss, IssueAt("/"+c.name, CodeLengthMismatch, map[string]any{
				"column": c.name, "want": n, "got": c.Len(),
			}))
		}
	}
	if len(iss) > 0 {
		return nil, iss
	}
	out := make([]*Series, len(cols))
	for i, c := range cols {
		out[i] = c.clone()
	}
	return &Frame{cols: out}, nil
}

// MustNew is New for literal construction; it panics on invalid columns.
func MustNew(cols ...*Series) *Frame {
	f, err := New(cols...)
	if err != nil {
		panic(err)
	}
	return f
}

// Columns lists the column names in order.
func (f *Frame) Columns() []string {
	if f == nil {
		return nil
	}
	out := make([]string, len(f.cols))
	for i, c := range f.cols {
		out[i] = c.name
	}
	return out
}

// NumCols reports the number of columns.
func (f *Frame) NumCols() int {
	if f == nil {
		return 0
	}
	return len(f.cols)
}

// Len reports the number of rows.
func (f *Frame) Len() int {
	if f == nil || len(f.cols) == 0 {
		return 0
	}
	return f.cols[0].Len()
}

// Col returns the named column.
func (f *Frame) Col(name string) (*Series, bool) {
	if f == nil {
		return nil, false
	}
	for _, c := range f.cols {
		if c.name == name {
			return c, true
		}
	}
	return nil, false
}

// HasCol reports whether the named column exists.
func (f *Frame) HasCol(name string) bool {
	_, ok := f.Col(name)
	return ok
}

// At returns the cell at the given row position and column name; nil when the
// column does not exist.
func (f *Frame) At(row int, col string) any {
	c, ok := f.Col(col)
	if !ok {
		return nil
	}
	return c.Cell(row)
}

// Index returns the row labels, materializing the default 0..n-1 index.
func (f *Frame) Index() []int {
	n := f.Len()
	out := make([]int, n)
	if f != nil && f.index != nil {
		copy(out, f.index)
		return out
	}
	for i := range out {
		out[i] = i
	}
	return out
}

// WithIndex returns a copy of the frame carrying the given row labels.
func (f *Frame) WithIndex(labels []int) (*Frame, error) {
	if len(labels) != f.Len() {
		return nil, Issues{{
			Path: "/", Code: CodeLengthMismatch,
			Message: i18n.T(CodeLengthMismatch, nil),
			Params:  map[string]any{"want": f.Len(), "got": len(labels)},
		}}
	}
	c := f.Clone()
	c.index = make([]int, len(labels))
	copy(c.index, labels)
	return c, nil
}

// ResetIndex returns a copy of the frame with the default 0..n-1 index.
func (f *Frame) ResetIndex() *Frame {
	c := f.Clone()
	c.index = nil
	return c
}

// Clone deep-copies columns and index. Nested frame cells are shared, not
// copied: frames are treated as immutable by every operation in this package.
func (f *Frame) Clone() *Frame {
	if f == nil {
		return &Frame{}
	}
	cols := make([]*Series, len(f.cols))
	for i, c := range f.cols {
		cols[i] = c.clone()
	}
	var idx []int
	if f.index != nil {
		idx = make([]int, len(f.index))
		copy(idx, f.index)
	}
	return &Frame{cols: cols, index: idx}
}

// Select returns a frame with only the named columns, in the given order.
func (f *Frame) Select(names ...string) (*Frame, error) {
	cols := make([]*Series, 0, len(names))
	var iss Issues
	for _, name := range names {
		c, ok := f.Col(name)
		if !ok {
			iss = AppendIssues(iss, IssueAt("/"+name, CodeMissingColumn, map[string]any{"column": name}))
			continue
		}
		cols = append(cols, c.clone())
	}
	if len(iss) > 0 {
		return nil, iss
	}
	out := &Frame{cols: cols}
	if f != nil && f.index != nil {
		out.index = append([]int(nil), f.index...)
	}
	return out, nil
}

// Drop returns a frame without the named columns. Unknown names are ignored.
func (f *Frame) Drop(names ...string) *Frame {
	drop := map[string]struct{}{}
	for _, n := range names {
		drop[n] = struct{}{}
	}
	out := &Frame{}
	if f == nil {
		return out
	}
	for _, c := range f.cols {
		if _, skip := drop[c.name]; skip {
			continue
		}
		out.cols = append(out.cols, c.clone())
	}
	if f.index != nil {
		out.index = append([]int(nil), f.index...)
	}
	return out
}

// SortBy returns a copy of the frame with rows sorted ascending by the named
// columns, nulls last. The sort is stable and row labels travel with their
// rows.
func (f *Frame) SortBy(names ...string) (*Frame, error) {
	if f == nil {
		f = &Frame{}
	}
	cols := make([]*Series, 0, len(names))
	var iss Issues
	for _, name := range names {
		c, ok := f.Col(name)
		if !ok {
			iss = AppendIssues(iss, IssueAt("/"+name, CodeMissingColumn, map[string]any{"column": name}))
			continue
		}
		cols = append(cols, c)
	}
	if len(iss) > 0 {
		return nil, iss
	}
	perm := make([]int, f.Len())
	for i := range perm {
		perm[i] = i
	}
	sort.SliceStable(perm, func(i, j int) bool {
		a, b := perm[i], perm[j]
		for _, c := range cols {
			if cmp := order.Compare(c.cells[a], c.cells[b]); cmp != 0 {
				return cmp < 0
			}
		}
		return false
	})
	return f.takeRows(perm), nil
}

// takeRows builds a frame from the rows at the given positions, carrying row
// labels along.
func (f *Frame) takeRows(rows []int) *Frame {
	out := &Frame{cols: make([]*Series, len(f.cols))}
	for i, c := range f.cols {
		out.cols[i] = c.take(rows)
	}
	idx := f.Index()
	out.index = make([]int, len(rows))
	for i, r := range rows {
		out.index[i] = idx[r]
	}
	return out
}

// row collects the boxed cells of one row across the given columns.
func (f *Frame) row(i int, cols []*Series) []any {
	out := make([]any, len(cols))
	for j, c := range cols {
		out[j] = c.cells[i]
	}
	return out
}
