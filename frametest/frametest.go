// Package frametest provides frame comparison utilities for tests, mirroring
// the options test suites commonly need: ignoring the row index, dropping
// columns from the comparison, or disregarding row order.
package frametest

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/macxred/consistentdf"
)

// CompareOpt bundles comparison options.
type CompareOpt struct {
	// IgnoreIndex compares row positions only, not row labels.
	IgnoreIndex bool
	// IgnoreColumns drops the named columns from both sides before
	// comparing. Unknown names are ignored.
	IgnoreColumns []string
	// IgnoreRowOrder sorts both sides by their shared columns (and resets
	// the index) before comparing.
	IgnoreRowOrder bool
}

// Equal compares two frames for equality of column names, order, dtypes,
// cells and row labels. Nested frames compare recursively. On mismatch the
// returned error carries a go-cmp diff of the two sides.
func Equal(left, right *consistentdf.Frame, opts ...CompareOpt) error {
	var opt CompareOpt
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	if len(opt.IgnoreColumns) > 0 {
		left = left.Drop(opt.IgnoreColumns...)
		right = right.Drop(opt.IgnoreColumns...)
	}
	if opt.IgnoreRowOrder {
		common := intersect(left.Columns(), right.Columns())
		if len(common) > 0 {
			var err error
			if left, err = left.SortBy(common...); err != nil {
				return err
			}
			if right, err = right.SortBy(common...); err != nil {
				return err
			}
		}
		left = left.ResetIndex()
		right = right.ResetIndex()
	}
	if opt.IgnoreIndex {
		left = left.ResetIndex()
		right = right.ResetIndex()
	}
	if diff := cmp.Diff(reprOf(left), reprOf(right)); diff != "" {
		return fmt.Errorf("frames differ (-left +right):\n%s", diff)
	}
	return nil
}

// AssertEqual fails the test when the frames differ.
func AssertEqual(t testing.TB, left, right *consistentdf.Frame, opts ...CompareOpt) {
	t.Helper()
	if err := Equal(left, right, opts...); err != nil {
		t.Fatalf("%v", err)
	}
}

// frameRepr is the comparable projection handed to go-cmp.
type frameRepr struct {
	Columns []colRepr
	Index   []int
}

type colRepr struct {
	Name  string
	DType string
	Cells []any
}

func reprOf(f *consistentdf.Frame) *frameRepr {
	if f == nil {
		return &frameRepr{}
	}
	out := &frameRepr{Index: f.Index()}
	for _, name := range f.Columns() {
		c, _ := f.Col(name)
		cells := make([]any, c.Len())
		for i := 0; i < c.Len(); i++ {
			v := c.Cell(i)
			if inner, ok := v.(*consistentdf.Frame); ok {
				cells[i] = reprOf(inner)
				continue
			}
			cells[i] = v
		}
		out.Columns = append(out.Columns, colRepr{Name: name, DType: c.DType().String(), Cells: cells})
	}
	return out
}

func intersect(a, b []string) []string {
	inB := map[string]struct{}{}
	for _, s := range b {
		inB[s] = struct{}{}
	}
	var out []string
	for _, s := range a {
		if _, ok := inB[s]; ok {
			out = append(out, s)
		}
	}
	return out
}
