package consistentdf

import (
	"fmt"
	"sort"
	"strings"

	"github.com/macxred/consistentdf/i18n"
	"github.com/macxred/consistentdf/internal/coerce"
	"github.com/macxred/consistentdf/internal/order"
)

// NestedSuffix is appended to an inner column name when it collides with an
// outer column during Unnest.
const NestedSuffix = "_nested"

// Nest groups a frame, keeps a single row for every unique combination of the
// grouping columns, and folds the listed columns into a frame-valued column
// named key. All inner frames share an identical column schema; each input
// row becomes a row of exactly one inner frame (in input order, with a reset
// index). Output rows are ordered by the grouping columns ascending, nulls
// last.
func Nest(df *Frame, columns []string, key string) (*Frame, error) {
	var iss Issues
	inNested := map[string]struct{}{}
	for _, name := range columns {
		inNested[name] = struct{}{}
		if !df.HasCol(name) {
			iss = AppendIssues(iss, IssueAt("/"+name, CodeMissingColumn, map[string]any{"column": name}))
		}
	}
	if len(iss) > 0 {
		return nil, iss
	}
	if _, nested := inNested[key]; df.HasCol(key) && !nested {
		return nil, Issues{{
			Path: "/" + key, Code: CodeKeyConflict,
			Message: i18n.T(CodeKeyConflict, map[string]string{"column": key}),
			Params:  map[string]any{"column": key},
		}}
	}

	var groupCols []*Series
	for _, c := range df.cols {
		if _, nested := inNested[c.name]; !nested {
			groupCols = append(groupCols, c)
		}
	}

	if df.Len() == 0 {
		out := df.Drop(columns...)
		out.setCol(emptySeries(key, FrameType, 0))
		return out, nil
	}

	type group struct {
		cells []any // representative grouping cells
		rows  []int
	}
	byKey := map[string]*group{}
	var groups []*group
	for i := 0; i < df.Len(); i++ {
		cells := df.row(i, groupCols)
		k := groupKey(cells)
		g, ok := byKey[k]
		if !ok {
			g = &group{cells: cells}
			byKey[k] = g
			groups = append(groups, g)
		}
		g.rows = append(g.rows, i)
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return order.CompareRows(groups[i].cells, groups[j].cells) < 0
	})

	inner, err := df.Select(columns...)
	if err != nil {
		return nil, err
	}
	outCols := make([]*Series, 0, len(groupCols)+1)
	for j, gc := range groupCols {
		cells := make([]any, len(groups))
		for gi, g := range groups {
			cells[gi] = g.cells[j]
		}
		outCols = append(outCols, &Series{name: gc.name, dtype: gc.dtype, cells: cells})
	}
	nested := make([]any, len(groups))
	for gi, g := range groups {
		nested[gi] = inner.takeRows(g.rows).ResetIndex()
	}
	outCols = append(outCols, &Series{name: key, dtype: FrameType, cells: nested})
	return &Frame{cols: outCols}, nil
}

// Unnest expands a frame-valued column into rows and columns of the outer
// frame. Outer cells are replicated once per inner row and inner columns are
// appended after the outer ones; an inner column colliding with an outer name
// is renamed with NestedSuffix. Nil and zero-row inner frames contribute no
// rows. Result row labels repeat the label of the originating outer row. The
// key column must exist whenever the frame has any columns, even with zero
// rows.
func Unnest(df *Frame, key string) (*Frame, error) {
	if df.Len() == 0 && df.NumCols() == 0 {
		return &Frame{}, nil
	}
	kc, ok := df.Col(key)
	if !ok {
		return nil, Issues{{
			Path: "/" + key, Code: CodeMissingColumn,
			Message: fmt.Sprintf("key column %q not found", key),
			Params:  map[string]any{"column": key},
		}}
	}
	if df.Len() == 0 {
		return df.Drop(key), nil
	}
	frames := make([]*Frame, kc.Len())
	for i, v := range kc.cells {
		if v == nil {
			continue
		}
		f, isFrame := v.(*Frame)
		if !isFrame {
			return nil, Issues{{
				Path: "/" + key, Code: CodeInvalidType,
				Message: fmt.Sprintf("all items in column %q must be frames", key),
				Params:  map[string]any{"column": key, "row": i},
			}}
		}
		frames[i] = f
	}

	outer := df.Drop(key)
	outerNames := map[string]struct{}{}
	for _, name := range outer.Columns() {
		outerNames[name] = struct{}{}
	}

	// Inner schema is the first-seen union across non-nil inner frames. A
	// dtype conflict between inner frames widens the column to object.
	var innerNames []string
	innerDType := map[string]DType{}
	for _, f := range frames {
		if f == nil {
			continue
		}
		for _, c := range f.cols {
			dt, seen := innerDType[c.name]
			if !seen {
				innerNames = append(innerNames, c.name)
				innerDType[c.name] = c.dtype
			} else if !dt.Equal(c.dtype) {
				innerDType[c.name] = Object
			}
		}
	}

	var outerRows []int
	var labels []int
	type innerRef struct {
		frame *Frame
		row   int
	}
	var innerRows []innerRef
	idx := df.Index()
	for i, f := range frames {
		if f == nil {
			continue
		}
		for r := 0; r < f.Len(); r++ {
			outerRows = append(outerRows, i)
			labels = append(labels, idx[i])
			innerRows = append(innerRows, innerRef{frame: f, row: r})
		}
	}

	out := outer.takeRows(outerRows)
	for _, name := range innerNames {
		cells := make([]any, len(innerRows))
		for i, ref := range innerRows {
			if c, ok := ref.frame.Col(name); ok {
				cells[i] = c.Cell(ref.row)
			}
		}
		outName := name
		if _, collides := outerNames[name]; collides {
			outName = name + NestedSuffix
		}
		out.setCol(&Series{name: outName, dtype: innerDType[name], cells: cells})
	}
	out.index = labels
	return out, nil
}

// groupKey renders grouping cells into a collision-safe map key. The dynamic
// type participates so that e.g. int64(1) and "1" land in different groups.
func groupKey(cells []any) string {
	parts := make([]string, len(cells))
	for i, v := range cells {
		if v == nil {
			parts[i] = "\x00"
			continue
		}
		parts[i] = fmt.Sprintf("%T\x00%s", v, coerce.Format(v))
	}
	return strings.Join(parts, "\x1f")
}
