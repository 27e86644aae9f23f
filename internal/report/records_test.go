package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

// createTestRecords builds a small extraction record set.
func createTestRecords() RecordSet {
	return RecordSet{
		Columns: []string{"title", "price", "tags"},
		Rows: []map[string]any{
			{"title": "Blue Widget", "price": "19.99", "tags": []string{"new", "sale"}},
			{"title": "Red Widget", "price": nil},
		},
	}
}

// TestWriteRecords tests generic record rendering.
func TestWriteRecords(t *testing.T) {
	t.Parallel()

	t.Run("json renders raw rows", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		n, err := WriteRecords(FormatJSON, &buf, createTestRecords())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n != buf.Len() {
			t.Errorf("expected %d bytes reported, got %d", buf.Len(), n)
		}

		var parsed []map[string]any
		if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		if len(parsed) != 2 {
			t.Fatalf("expected 2 records, got %d", len(parsed))
		}
		if parsed[0]["title"] != "Blue Widget" {
			t.Errorf("unexpected first record: %v", parsed[0])
		}
		if parsed[1]["price"] != nil {
			t.Errorf("expected null price, got %v", parsed[1]["price"])
		}
	})

	t.Run("json renders empty set as empty array", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := WriteRecords(FormatJSON, &buf, RecordSet{}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := strings.TrimSpace(buf.String()); got != "[]" {
			t.Errorf("expected empty array, got %q", got)
		}
	})

	t.Run("csv renders columns in order", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := WriteRecords(FormatCSV, &buf, createTestRecords()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		records, err := csv.NewReader(&buf).ReadAll()
		if err != nil {
			t.Fatalf("output is not valid CSV: %v", err)
		}
		if len(records) != 3 {
			t.Fatalf("expected header plus 2 rows, got %d", len(records))
		}
		if strings.Join(records[0], ",") != "title,price,tags" {
			t.Errorf("unexpected header: %v", records[0])
		}
		if records[1][2] != `["new","sale"]` {
			t.Errorf("expected structured cell as JSON, got %q", records[1][2])
		}
		if records[2][1] != "" {
			t.Errorf("expected empty cell for nil value, got %q", records[2][1])
		}
	})

	t.Run("table renders title and rows", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := WriteRecords(FormatTable, &buf, createTestRecords()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "Scraping Results") {
			t.Error("expected output to contain title")
		}
		if !strings.Contains(output, "Blue Widget") {
			t.Error("expected output to contain record values")
		}
	})

	t.Run("table caps rows", func(t *testing.T) {
		t.Parallel()

		set := RecordSet{Columns: []string{"n"}}
		for i := 0; i < 12; i++ {
			set.Rows = append(set.Rows, map[string]any{"n": strings.Repeat("x", i+1)})
		}

		var buf bytes.Buffer
		if _, err := WriteRecords(FormatTable, &buf, set); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "...") {
			t.Error("expected an ellipsis row marking truncation")
		}
		if strings.Contains(buf.String(), strings.Repeat("x", 12)) {
			t.Error("expected rows beyond the cap to be dropped")
		}
	})

	t.Run("html escapes cell values", func(t *testing.T) {
		t.Parallel()

		set := RecordSet{
			Columns: []string{"html"},
			Rows:    []map[string]any{{"html": "<b>bold</b>"}},
		}

		var buf bytes.Buffer
		if _, err := WriteRecords(FormatHTML, &buf, set); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "&lt;b&gt;") {
			t.Error("expected markup in cells to be escaped")
		}
	})

	t.Run("markdown renders a table", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := WriteRecords(FormatMarkdown, &buf, createTestRecords()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "# Extraction Results") {
			t.Error("expected markdown heading")
		}
		if !strings.Contains(output, "Blue Widget") {
			t.Error("expected record values in the table")
		}
	})

	t.Run("xlsx renders a results sheet", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := WriteRecords(FormatXLSX, &buf, createTestRecords()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
		if err != nil {
			t.Fatalf("output is not a valid workbook: %v", err)
		}
		defer f.Close()

		rows, err := f.GetRows("Results")
		if err != nil {
			t.Fatalf("unexpected error reading sheet: %v", err)
		}
		if len(rows) != 3 {
			t.Fatalf("expected header plus 2 rows, got %d", len(rows))
		}
		if rows[1][0] != "Blue Widget" {
			t.Errorf("unexpected first row: %v", rows[1])
		}
	})

	t.Run("unknown format", func(t *testing.T) {
		t.Parallel()

		if _, err := WriteRecords(Format("xml"), &bytes.Buffer{}, createTestRecords()); err == nil {
			t.Error("expected error for unknown format")
		}
	})
}
