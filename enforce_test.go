package consistentdf_test

import (
	"testing"
	"time"

	"github.com/macxred/consistentdf"
	"github.com/macxred/consistentdf/frametest"
)

func TestEnforceTypes_NilInput(t *testing.T) {
	result, err := consistentdf.EnforceTypes(nil, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Len() != 0 || result.NumCols() != 0 {
		t.Fatalf("expected empty frame, got %d rows %d cols", result.Len(), result.NumCols())
	}
}

func TestEnforceTypes_RequiredColumnsAdded(t *testing.T) {
	required := []consistentdf.ColumnType{
		{Name: "Column1", DType: consistentdf.Int64},
		{Name: "Column2", DType: consistentdf.Float64},
	}
	result, err := consistentdf.EnforceTypes(nil, required, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := result.Columns(); len(got) != 2 || got[0] != "Column1" || got[1] != "Column2" {
		t.Fatalf("unexpected columns: %v", got)
	}
	c1, _ := result.Col("Column1")
	if !c1.DType().Equal(consistentdf.Int64) {
		t.Fatalf("Column1 dtype = %s, want int64", c1.DType())
	}
	c2, _ := result.Col("Column2")
	if !c2.DType().Equal(consistentdf.Float64) {
		t.Fatalf("Column2 dtype = %s, want float64", c2.DType())
	}
}

func TestEnforceTypes_OptionalColumnsAdded(t *testing.T) {
	df := consistentdf.MustNew(consistentdf.Ints("Column1", 1))
	result, err := consistentdf.EnforceTypes(df,
		[]consistentdf.ColumnType{{Name: "Column1", DType: consistentdf.Int64}},
		[]consistentdf.ColumnType{{Name: "Column2", DType: consistentdf.Float64}},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := consistentdf.MustNew(
		consistentdf.Ints("Column1", 1),
		consistentdf.MustSeries("Column2", consistentdf.Float64, nil),
	)
	frametest.AssertEqual(t, result, want)
}

func TestEnforceTypes_MissingRequiredColumns(t *testing.T) {
	df := consistentdf.MustNew(consistentdf.Strings("Column3", "data"))
	_, err := consistentdf.EnforceTypes(df,
		[]consistentdf.ColumnType{{Name: "Column1", DType: consistentdf.Int64}}, nil)
	iss, ok := consistentdf.AsIssues(err)
	if !ok || len(iss) != 1 || iss[0].Code != consistentdf.CodeMissingColumn {
		t.Fatalf("expected missing_column issue, got %v", err)
	}
}

func TestEnforceTypes_KeepExtraColumns(t *testing.T) {
	df := consistentdf.MustNew(
		consistentdf.Ints("Column1", 1),
		consistentdf.Strings("Column3", "extra"),
	)
	required := []consistentdf.ColumnType{{Name: "Column1", DType: consistentdf.Int64}}

	result, err := consistentdf.EnforceTypes(df, required, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.HasCol("Column3") {
		t.Fatalf("expected Column3 to be dropped, got %v", result.Columns())
	}

	result, err = consistentdf.EnforceTypes(df, required, nil, consistentdf.EnforceOpt{KeepExtraColumns: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := result.Columns(); len(got) != 2 || got[0] != "Column1" || got[1] != "Column3" {
		t.Fatalf("unexpected columns: %v", got)
	}
}

func TestEnforceTypes_DTypeConversion(t *testing.T) {
	df := consistentdf.MustNew(
		consistentdf.Strings("Column1", "1", "2", "3"),
		consistentdf.Strings("Column2", "1.1", "2.2", "3.3"),
	)
	result, err := consistentdf.EnforceTypes(df,
		[]consistentdf.ColumnType{
			{Name: "Column1", DType: consistentdf.Int64},
			{Name: "Column2", DType: consistentdf.Float64},
		}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := consistentdf.MustNew(
		consistentdf.Ints("Column1", 1, 2, 3),
		consistentdf.Floats("Column2", 1.1, 2.2, 3.3),
	)
	frametest.AssertEqual(t, result, want)
}

func TestEnforceTypes_ConversionFailure(t *testing.T) {
	df := consistentdf.MustNew(consistentdf.Strings("Column1", "1", "abc"))
	_, err := consistentdf.EnforceTypes(df,
		[]consistentdf.ColumnType{{Name: "Column1", DType: consistentdf.Int64}}, nil)
	iss, ok := consistentdf.AsIssues(err)
	if !ok || len(iss) != 1 || iss[0].Code != consistentdf.CodeConvertFailure {
		t.Fatalf("expected convert_failure issue, got %v", err)
	}
	if iss[0].Params["row"] != 1 {
		t.Fatalf("expected failing row 1, got %v", iss[0].Params)
	}
}

func TestEnforceTypes_FractionalFloatToIntFails(t *testing.T) {
	df := consistentdf.MustNew(consistentdf.Floats("Column1", 1.0, 2.5))
	_, err := consistentdf.EnforceTypes(df,
		[]consistentdf.ColumnType{{Name: "Column1", DType: consistentdf.Int64}}, nil)
	iss, ok := consistentdf.AsIssues(err)
	if !ok || len(iss) != 1 || iss[0].Code != consistentdf.CodeConvertFailure {
		t.Fatalf("expected convert_failure issue, got %v", err)
	}
	if iss[0].Params["row"] != 1 {
		t.Fatalf("expected failing row 1, got %v", iss[0].Params)
	}
}

func TestEnforceTypes_ObjectColumnCoercedPerCell(t *testing.T) {
	df := consistentdf.MustNew(
		consistentdf.Objects("Column1", int64(1), "2", 3.0, nil),
	)
	result, err := consistentdf.EnforceTypes(df,
		[]consistentdf.ColumnType{{Name: "Column1", DType: consistentdf.Int64}}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := consistentdf.MustNew(
		consistentdf.MustSeries("Column1", consistentdf.Int64, 1, 2, 3, nil),
	)
	frametest.AssertEqual(t, result, want)
}

func TestEnforceTypes_NaiveDatetime(t *testing.T) {
	df := consistentdf.MustNew(
		consistentdf.Strings("ts", "2023-01-01", "2023-01-02 12:30:00"),
	)
	result, err := consistentdf.EnforceTypes(df,
		[]consistentdf.ColumnType{{Name: "ts", DType: consistentdf.Datetime}}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := consistentdf.MustNew(consistentdf.Times("ts",
		time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2023, 1, 2, 12, 30, 0, 0, time.UTC),
	))
	frametest.AssertEqual(t, result, want)
}

func TestEnforceTypes_ZonedInputToNaiveDatetime(t *testing.T) {
	df := consistentdf.MustNew(
		consistentdf.Strings("ts", "2023-06-01T10:00:00+02:00"),
	)
	result, err := consistentdf.EnforceTypes(df,
		[]consistentdf.ColumnType{{Name: "ts", DType: consistentdf.Datetime}}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// The offset is honored, then the instant is stored naive as UTC.
	want := consistentdf.MustNew(consistentdf.Times("ts",
		time.Date(2023, 6, 1, 8, 0, 0, 0, time.UTC),
	))
	frametest.AssertEqual(t, result, want)
}

func TestEnforceTypes_ZonedDatetime(t *testing.T) {
	zurich, err := time.LoadLocation("Europe/Zurich")
	if err != nil {
		t.Fatalf("load zone: %v", err)
	}
	df := consistentdf.MustNew(
		consistentdf.Strings("ts", "2023-06-01 08:00:00", "2023-06-01T10:00:00Z"),
	)
	result, err := consistentdf.EnforceTypes(df,
		[]consistentdf.ColumnType{{Name: "ts", DType: consistentdf.DatetimeIn(zurich)}}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ts, _ := result.Col("ts")
	// Naive input is localized into the anchor zone.
	got0 := ts.Cell(0).(time.Time)
	if want := time.Date(2023, 6, 1, 8, 0, 0, 0, zurich); !got0.Equal(want) {
		t.Fatalf("cell 0 = %v, want %v", got0, want)
	}
	// Zone-aware input is converted into the anchor zone.
	got1 := ts.Cell(1).(time.Time)
	if want := time.Date(2023, 6, 1, 12, 0, 0, 0, zurich); !got1.Equal(want) {
		t.Fatalf("cell 1 = %v, want %v", got1, want)
	}
	if got1.Location().String() != "Europe/Zurich" {
		t.Fatalf("cell 1 zone = %s, want Europe/Zurich", got1.Location())
	}
}

func TestEnforceTypes_NullsSurviveConversion(t *testing.T) {
	df := consistentdf.MustNew(
		consistentdf.MustSeries("Column1", consistentdf.String, "1", nil, "3"),
	)
	result, err := consistentdf.EnforceTypes(df,
		[]consistentdf.ColumnType{{Name: "Column1", DType: consistentdf.Int64}}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := consistentdf.MustNew(
		consistentdf.MustSeries("Column1", consistentdf.Int64, 1, nil, 3),
	)
	frametest.AssertEqual(t, result, want)
}

func TestEnforceTypes_EmptyFrameGainsColumns(t *testing.T) {
	df := consistentdf.MustNew(consistentdf.Strings("existing"))
	result, err := consistentdf.EnforceTypes(df,
		[]consistentdf.ColumnType{{Name: "Column1", DType: consistentdf.Int64}}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := result.Columns(); len(got) != 1 || got[0] != "Column1" {
		t.Fatalf("unexpected columns: %v", got)
	}
	if result.Len() != 0 {
		t.Fatalf("expected empty result, got %d rows", result.Len())
	}
}

func TestEnforceSchema_OrdersColumns(t *testing.T) {
	df := consistentdf.MustNew(
		consistentdf.Strings("extra", "x", "y"),
		consistentdf.Floats("price", 150.0, 2800.0),
		consistentdf.Strings("ticker", "AAPL", "GOOGL"),
	)
	schema := consistentdf.Schema{
		{Name: "ticker", DType: consistentdf.String, Mandatory: true},
		{Name: "price", DType: consistentdf.Float64, Mandatory: true},
	}
	result, err := consistentdf.EnforceSchema(df, schema, consistentdf.EnforceOpt{KeepExtraColumns: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := result.Columns(); len(got) != 3 || got[0] != "ticker" || got[1] != "price" || got[2] != "extra" {
		t.Fatalf("unexpected column order: %v", got)
	}
}

func TestEnforceSchema_NilInputUsesSchemaOrder(t *testing.T) {
	schema := consistentdf.Schema{
		{Name: "ticker", DType: consistentdf.String, Mandatory: true},
		{Name: "price", DType: consistentdf.Float64, Mandatory: false},
		{Name: "volume", DType: consistentdf.Int64, Mandatory: true},
	}
	result, err := consistentdf.EnforceSchema(nil, schema)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := result.Columns(); len(got) != 3 || got[0] != "ticker" || got[1] != "price" || got[2] != "volume" {
		t.Fatalf("unexpected column order: %v", got)
	}
	if result.Len() != 0 {
		t.Fatalf("expected empty frame, got %d rows", result.Len())
	}
}

func TestEnforceSchema_OptionalColumnAddedAsNull(t *testing.T) {
	df := consistentdf.MustNew(consistentdf.Strings("ticker", "AAPL"))
	schema := consistentdf.Schema{
		{Name: "ticker", DType: consistentdf.String, Mandatory: true},
		{Name: "price", DType: consistentdf.Float64, Mandatory: false},
	}
	result, err := consistentdf.EnforceSchema(df, schema)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := consistentdf.MustNew(
		consistentdf.Strings("ticker", "AAPL"),
		consistentdf.MustSeries("price", consistentdf.Float64, nil),
	)
	frametest.AssertEqual(t, result, want)
}

func TestEnforceSchema_MissingMandatoryColumn(t *testing.T) {
	df := consistentdf.MustNew(consistentdf.Strings("ticker", "AAPL"))
	schema := consistentdf.Schema{
		{Name: "ticker", DType: consistentdf.String, Mandatory: true},
		{Name: "price", DType: consistentdf.Float64, Mandatory: true},
	}
	_, err := consistentdf.EnforceSchema(df, schema)
	iss, ok := consistentdf.AsIssues(err)
	if !ok || len(iss) != 1 || iss[0].Code != consistentdf.CodeMissingColumn || iss[0].Path != "/price" {
		t.Fatalf("expected missing_column at /price, got %v", err)
	}
}

func TestEnforceTypes_DuplicateListing(t *testing.T) {
	_, err := consistentdf.EnforceTypes(nil,
		[]consistentdf.ColumnType{{Name: "a", DType: consistentdf.Int64}},
		[]consistentdf.ColumnType{{Name: "a", DType: consistentdf.Float64}},
	)
	iss, ok := consistentdf.AsIssues(err)
	if !ok || len(iss) != 1 || iss[0].Code != consistentdf.CodeDuplicateColumn {
		t.Fatalf("expected duplicate_column issue, got %v", err)
	}
}
