package consistentdf

// ColumnType pairs a column name with its expected dtype for EnforceTypes.
type ColumnType struct {
	Name  string
	DType DType
}

// EnforceTypes ensures that a frame adheres to a column schema given as
// required and optional name/dtype lists.
//
// If data is:
//   - nil: returns an empty frame with the required and optional columns.
//   - an empty frame: adds the missing required and optional columns.
//   - a frame with one or more rows: adds missing optional columns as
//     all-null, and fails when any required column is missing.
//
// Existing listed columns are converted to the declared dtypes; a cell that
// cannot be represented yields a convert_failure Issue naming column and row.
// Columns not listed are dropped unless KeepExtraColumns is set. The input
// frame is never mutated.
func EnforceTypes(data *Frame, required, optional []ColumnType, opts ...EnforceOpt) (*Frame, error) {
	var opt EnforceOpt
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}

	all := make([]ColumnType, 0, len(required)+len(optional))
	all = append(all, required...)
	all = append(all, optional...)
	var iss Issues
	seen := map[string]struct{}{}
	for _, ct := range all {
		if _, dup := seen[ct.Name]; dup {
			iss = AppendIssues(iss, IssueAt("/"+ct.Name, CodeDuplicateColumn, map[string]any{"column": ct.Name}))
		}
		seen[ct.Name] = struct{}{}
	}
	if len(iss) > 0 {
		return nil, iss
	}

	if data == nil {
		cols := make([]*Series, len(all))
		for i, ct := range all {
			cols[i] = emptySeries(ct.Name, ct.DType, 0)
		}
		return &Frame{cols: cols}, nil
	}

	out := data.Clone()
	if out.Len() == 0 {
		for _, ct := range all {
			out.setCol(emptySeries(ct.Name, ct.DType, 0))
		}
	} else {
		for _, ct := range required {
			if !out.HasCol(ct.Name) {
				iss = AppendIssues(iss, IssueAt("/"+ct.Name, CodeMissingColumn, map[string]any{"column": ct.Name}))
			}
		}
		if len(iss) > 0 {
			return nil, iss
		}
		n := out.Len()
		for _, ct := range all {
			c, ok := out.Col(ct.Name)
			if !ok {
				out.setCol(emptySeries(ct.Name, ct.DType, n))
				continue
			}
			nc, err := convertSeries(c, ct.DType)
			if err != nil {
				if sub, ok := AsIssues(err); ok {
					iss = AppendIssues(iss, sub...)
				} else {
					iss = AppendIssues(iss, Issue{Path: "/" + ct.Name, Code: CodeConvertFailure, Cause: err})
				}
				continue
			}
			out.setCol(nc)
		}
		if len(iss) > 0 {
			return nil, iss
		}
	}

	if !opt.KeepExtraColumns {
		var extras []string
		for _, name := range out.Columns() {
			if _, listed := seen[name]; !listed {
				extras = append(extras, name)
			}
		}
		out = out.Drop(extras...)
	}
	return out, nil
}

// EnforceSchema ensures presence, dtypes and ordering of frame columns
// against a Schema. Mandatory columns must be present in non-empty input;
// non-mandatory columns are added as all-null when missing. The result
// carries the schema's columns first, in schema order, followed by retained
// extra columns.
func EnforceSchema(data *Frame, schema Schema, opts ...EnforceOpt) (*Frame, error) {
	var required, optional []ColumnType
	for _, sc := range schema {
		ct := ColumnType{Name: sc.Name, DType: sc.DType}
		if sc.Mandatory {
			required = append(required, ct)
		} else {
			optional = append(optional, ct)
		}
	}
	out, err := EnforceTypes(data, required, optional, opts...)
	if err != nil {
		return nil, err
	}
	if data == nil {
		// Rebuild in schema order; EnforceTypes emitted required-then-optional.
		cols := make([]*Series, len(schema))
		for i, sc := range schema {
			cols[i] = emptySeries(sc.Name, sc.DType, 0)
		}
		return &Frame{cols: cols}, nil
	}
	ordered := make([]string, 0, out.NumCols())
	for _, sc := range schema {
		if out.HasCol(sc.Name) {
			ordered = append(ordered, sc.Name)
		}
	}
	inSchema := map[string]struct{}{}
	for _, sc := range schema {
		inSchema[sc.Name] = struct{}{}
	}
	for _, name := range out.Columns() {
		if _, ok := inSchema[name]; !ok {
			ordered = append(ordered, name)
		}
	}
	return out.Select(ordered...)
}

// convertSeries coerces every cell of a column to the target dtype. The first
// failing cell aborts the column with an Issue carrying the row position.
func convertSeries(s *Series, dt DType) (*Series, error) {
	if dt.Equal(s.dtype) {
		return s.clone(), nil
	}
	cells := make([]any, len(s.cells))
	for i, v := range s.cells {
		cv, err := coerceCell(v, dt)
		if err != nil {
			return nil, Issues{{
				Path:    "/" + s.name,
				Code:    CodeConvertFailure,
				Message: "failed to convert '" + s.name + "' to " + dt.String(),
				Cause:   err,
				Params:  map[string]any{"column": s.name, "row": i, "dtype": dt.String()},
			}}
		}
		cells[i] = cv
	}
	return &Series{name: s.name, dtype: dt, cells: cells}, nil
}

// setCol replaces the named column in place, keeping its position, or appends
// a new one.
func (f *Frame) setCol(s *Series) {
	for i, c := range f.cols {
		if c.name == s.name {
			f.cols[i] = s
			return
		}
	}
	f.cols = append(f.cols, s)
}
