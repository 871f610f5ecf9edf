package consistentdf

import (
	"fmt"
	"strings"
	"time"
)

// Kind enumerates the logical cell types a Series can carry.
type Kind int

const (
	KindInvalid Kind = iota
	KindString
	KindInt64
	KindFloat64
	KindBool
	KindDatetime
	KindObject
	KindFrame
)

// DType describes the declared type of a column. For datetime columns the
// anchor zone is part of the dtype: a nil location means naive wall-clock
// time, a non-nil location anchors every cell in that zone.
type DType struct {
	kind Kind
	loc  *time.Location
}

// Predefined dtypes. Datetime is the naive variant; use DatetimeIn for a
// zone-anchored one.
var (
	String    = DType{kind: KindString}
	Int64     = DType{kind: KindInt64}
	Float64   = DType{kind: KindFloat64}
	Bool      = DType{kind: KindBool}
	Datetime  = DType{kind: KindDatetime}
	Object    = DType{kind: KindObject}
	FrameType = DType{kind: KindFrame}
)

// DatetimeIn returns a datetime dtype anchored in the given zone. A nil
// location yields the naive Datetime dtype.
func DatetimeIn(loc *time.Location) DType { return DType{kind: KindDatetime, loc: loc} }

// Kind reports the logical kind of the dtype.
func (d DType) Kind() Kind { return d.kind }

// Location returns the anchor zone of a datetime dtype, nil otherwise.
func (d DType) Location() *time.Location {
	if d.kind != KindDatetime {
		return nil
	}
	return d.loc
}

// Equal reports whether two dtypes are identical. Datetime zones compare by
// name.
func (d DType) Equal(o DType) bool {
	if d.kind != o.kind {
		return false
	}
	if d.kind != KindDatetime {
		return true
	}
	return locName(d.loc) == locName(o.loc)
}

// String renders the canonical spelling, e.g. "int64" or
// "datetime[Europe/Zurich]".
func (d DType) String() string {
	switch d.kind {
	case KindString:
		return "string"
	case KindInt64:
		return "int64"
	case KindFloat64:
		return "float64"
	case KindBool:
		return "bool"
	case KindObject:
		return "object"
	case KindFrame:
		return "frame"
	case KindDatetime:
		if d.loc == nil {
			return "datetime"
		}
		return "datetime[" + d.loc.String() + "]"
	}
	return "invalid"
}

// ParseDType resolves a dtype spelling. Recognized forms: "string", "int64",
// "float64", "bool", "object", "frame", "datetime" and "datetime[ZONE]" with
// any IANA zone name.
func ParseDType(s string) (DType, error) {
	switch strings.TrimSpace(s) {
	case "string":
		return String, nil
	case "int64":
		return Int64, nil
	case "float64":
		return Float64, nil
	case "bool":
		return Bool, nil
	case "object":
		return Object, nil
	case "frame":
		return FrameType, nil
	case "datetime":
		return Datetime, nil
	}
	t := strings.TrimSpace(s)
	if strings.HasPrefix(t, "datetime[") && strings.HasSuffix(t, "]") {
		name := strings.TrimSpace(t[len("datetime[") : len(t)-1])
		loc, err := time.LoadLocation(name)
		if err != nil {
			return DType{}, Issues{{
				Path: "/", Code: CodeUnknownDType,
				Message: fmt.Sprintf("unknown zone in dtype %q", s),
				Cause:   err,
			}}
		}
		return DatetimeIn(loc), nil
	}
	return DType{}, Issues{{
		Path: "/", Code: CodeUnknownDType,
		Message: fmt.Sprintf("unknown dtype %q", s),
	}}
}

func locName(loc *time.Location) string {
	if loc == nil {
		return ""
	}
	return loc.String()
}

// EnforceOpt bundles options for EnforceTypes/EnforceSchema.
type EnforceOpt struct {
	// KeepExtraColumns retains columns that are not listed in the expected
	// set instead of dropping them.
	KeepExtraColumns bool
}

// StringOpt bundles options for ConsistentString.
type StringOpt struct {
	// Index includes the row index as the leading field of every line.
	Index bool
}
