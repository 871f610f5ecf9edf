package consistentdf

import (
	"encoding/csv"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/macxred/consistentdf/internal/coerce"
	"github.com/macxred/consistentdf/internal/order"
)

// ConsistentString converts a frame to a unique string representation,
// regardless of column or row order. Columns are sorted by name, rows by all
// columns with nulls last, and the body is rendered as CSV with a header and
// no trailing newline. This is helpful to identify exact or close matches
// between collections of frames. StringOpt.Index prepends the row index as
// the leading field.
func ConsistentString(df *Frame, opts ...StringOpt) (string, error) {
	var opt StringOpt
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	names := df.Columns()
	sort.Strings(names)
	view := df
	if len(names) > 0 {
		var err error
		if view, err = df.Select(names...); err != nil {
			return "", err
		}
		// Sort rows by every column, nulls last. Frame cells take part via
		// their own consistent string so the ordering stays deterministic.
		keys := make([][]any, len(view.cols))
		for j, c := range view.cols {
			keys[j] = make([]any, c.Len())
			for i, v := range c.cells {
				if fr, ok := v.(*Frame); ok {
					s, err := ConsistentString(fr)
					if err != nil {
						return "", err
					}
					keys[j][i] = s
					continue
				}
				keys[j][i] = v
			}
		}
		perm := make([]int, view.Len())
		for i := range perm {
			perm[i] = i
		}
		sort.SliceStable(perm, func(a, b int) bool {
			for j := range keys {
				if c := order.Compare(keys[j][perm[a]], keys[j][perm[b]]); c != 0 {
					return c < 0
				}
			}
			return false
		})
		view = view.takeRows(perm)
	}

	b := &strings.Builder{}
	w := csv.NewWriter(b)
	header := names
	if opt.Index {
		header = append([]string{""}, names...)
	}
	if err := w.Write(header); err != nil {
		return "", Issues{{Path: "/", Code: CodeParseError, Message: "csv render failed", Cause: err}}
	}
	idx := view.Index()
	for i := 0; i < view.Len(); i++ {
		rec := make([]string, 0, len(names)+1)
		if opt.Index {
			rec = append(rec, strconv.Itoa(idx[i]))
		}
		for _, c := range view.cols {
			s, err := formatCell(c.cells[i])
			if err != nil {
				return "", err
			}
			rec = append(rec, s)
		}
		if err := w.Write(rec); err != nil {
			return "", Issues{{Path: "/", Code: CodeParseError, Message: "csv render failed", Cause: err}}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", Issues{{Path: "/", Code: CodeParseError, Message: "csv render failed", Cause: err}}
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

// formatCell renders one cell canonically. Frame cells render as their own
// consistent string so nested frames stay order-insensitive too.
func formatCell(v any) (string, error) {
	if f, ok := v.(*Frame); ok {
		return ConsistentString(f)
	}
	return coerce.Format(v), nil
}

// TrimSpace trims leading and trailing whitespace in the named string
// columns. Null cells are preserved.
func TrimSpace(df *Frame, cols ...string) (*Frame, error) {
	return mapStringColumns(df, cols, strings.TrimSpace)
}

// ToUpper upper-cases the named string columns. Null cells are preserved.
func ToUpper(df *Frame, cols ...string) (*Frame, error) {
	return mapStringColumns(df, cols, strings.ToUpper)
}

// ToLower lower-cases the named string columns. Null cells are preserved.
func ToLower(df *Frame, cols ...string) (*Frame, error) {
	return mapStringColumns(df, cols, strings.ToLower)
}

func mapStringColumns(df *Frame, cols []string, fn func(string) string) (*Frame, error) {
	var iss Issues
	out := df.Clone()
	for _, name := range cols {
		c, ok := out.Col(name)
		if !ok {
			iss = AppendIssues(iss, IssueAt("/"+name, CodeMissingColumn, map[string]any{"column": name}))
			continue
		}
		if c.dtype.kind != KindString {
			iss = AppendIssues(iss, Issue{
				Path: "/" + name, Code: CodeInvalidType,
				Message: fmt.Sprintf("column %q is %s, want string", name, c.dtype),
				Params:  map[string]any{"column": name, "dtype": c.dtype.String()},
			})
			continue
		}
		for i, v := range c.cells {
			if v == nil {
				continue
			}
			c.cells[i] = fn(v.(string))
		}
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return out, nil
}
