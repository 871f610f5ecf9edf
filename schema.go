package consistentdf

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// SchemaColumn declares one expected column: its name, dtype and whether its
// presence is mandatory.
type SchemaColumn struct {
	Name      string
	DType     DType
	Mandatory bool
}

// Schema is an ordered column declaration list driving EnforceSchema. The
// declaration order is the output column order.
type Schema []SchemaColumn

// Names lists the declared column names in order.
func (s Schema) Names() []string {
	out := make([]string, len(s))
	for i, c := range s {
		out[i] = c.Name
	}
	return out
}

// rawSchemaColumn is the wire form shared by the YAML and CSV loaders. A
// missing mandatory field defaults to true.
type rawSchemaColumn struct {
	Column    string `yaml:"column"`
	DType     string `yaml:"dtype"`
	Mandatory *bool  `yaml:"mandatory"`
}

// ParseSchemaYAML reads a schema from YAML, e.g.:
//
//	- column: ticker
//	  dtype: string
//	- column: price
//	  dtype: float64
//	  mandatory: false
func ParseSchemaYAML(b []byte) (Schema, error) {
	var raw []rawSchemaColumn
	if err := yaml.Unmarshal(b, &raw); err != nil {
		return nil, Issues{{Path: "/", Code: CodeParseError, Message: "invalid schema YAML", Cause: err}}
	}
	return resolveSchema(raw)
}

// ParseSchemaCSV reads a schema from CSV with a `column,dtype[,mandatory]`
// header. Leading whitespace in fields is ignored so aligned literals stay
// readable.
func ParseSchemaCSV(b []byte) (Schema, error) {
	r := csv.NewReader(bytes.NewReader(b))
	r.TrimLeadingSpace = true
	records, err := r.ReadAll()
	if err != nil {
		return nil, Issues{{Path: "/", Code: CodeParseError, Message: "invalid schema CSV", Cause: err}}
	}
	if len(records) == 0 {
		return nil, Issues{{Path: "/", Code: CodeParseError, Message: "schema CSV has no header"}}
	}
	colIdx, dtypeIdx, mandIdx := -1, -1, -1
	for i, h := range records[0] {
		switch strings.TrimSpace(h) {
		case "column":
			colIdx = i
		case "dtype":
			dtypeIdx = i
		case "mandatory":
			mandIdx = i
		}
	}
	if colIdx < 0 || dtypeIdx < 0 {
		return nil, Issues{{Path: "/", Code: CodeParseError, Message: "schema CSV header must contain column and dtype"}}
	}
	raw := make([]rawSchemaColumn, 0, len(records)-1)
	for i, rec := range records[1:] {
		rc := rawSchemaColumn{Column: rec[colIdx], DType: rec[dtypeIdx]}
		if mandIdx >= 0 && mandIdx < len(rec) && strings.TrimSpace(rec[mandIdx]) != "" {
			m, err := strconv.ParseBool(strings.TrimSpace(rec[mandIdx]))
			if err != nil {
				return nil, Issues{{
					Path: fmt.Sprintf("/%d/mandatory", i), Code: CodeParseError,
					Message: fmt.Sprintf("invalid mandatory flag %q", rec[mandIdx]), Cause: err,
				}}
			}
			rc.Mandatory = &m
		}
		raw = append(raw, rc)
	}
	return resolveSchema(raw)
}

func resolveSchema(raw []rawSchemaColumn) (Schema, error) {
	var iss Issues
	seen := map[string]struct{}{}
	out := make(Schema, 0, len(raw))
	for i, rc := range raw {
		name := strings.TrimSpace(rc.Column)
		if name == "" {
			iss = AppendIssues(iss, Issue{
				Path: fmt.Sprintf("/%d", i), Code: CodeParseError,
				Message: "schema entry without column name",
			})
			continue
		}
		if _, dup := seen[name]; dup {
			iss = AppendIssues(iss, IssueAt("/"+name, CodeDuplicateColumn, map[string]any{"column": name}))
			continue
		}
		seen[name] = struct{}{}
		dt, err := ParseDType(rc.DType)
		if err != nil {
			if sub, ok := AsIssues(err); ok {
				for _, is := range sub {
					is.Path = "/" + name
					iss = AppendIssues(iss, is)
				}
			}
			continue
		}
		mandatory := true
		if rc.Mandatory != nil {
			mandatory = *rc.Mandatory
		}
		out = append(out, SchemaColumn{Name: name, DType: dt, Mandatory: mandatory})
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return out, nil
}
