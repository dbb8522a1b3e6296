package certstudio

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func TestValueUnmarshalString(t *testing.T) {
	var v Value
	if err := json.Unmarshal([]byte(`"Jane Doe"`), &v); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if v.Text != "Jane Doe" || v.HTML != "" {
		t.Fatalf("value = %+v", v)
	}
}

func TestValueUnmarshalObject(t *testing.T) {
	var v Value
	if err := json.Unmarshal([]byte(`{"text":"Jane","html":"<b>Jane</b>"}`), &v); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if v.Text != "Jane" || v.HTML != "<b>Jane</b>" {
		t.Fatalf("value = %+v", v)
	}
}

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := ParseConfig([]byte(`{"fields":{"name":{"x":10,"y":20}}}`))
	if err != nil {
		t.Fatalf("parsing: %v", err)
	}
	if cfg.DefaultFont != "Helvetica" {
		t.Errorf("default font = %q", cfg.DefaultFont)
	}
	if cfg.DefaultSize != 14 {
		t.Errorf("default size = %v", cfg.DefaultSize)
	}
	if f, ok := cfg.Fields["name"]; !ok || f.X != 10 || f.Y != 20 {
		t.Errorf("fields = %+v", cfg.Fields)
	}
}

func TestParseConfigOptionalValues(t *testing.T) {
	cfg, err := ParseConfig([]byte(`{
		"page": 1,
		"fields": {
			"body": {"x": 80, "y": 300, "wrap_text": true, "wrap_width": 400,
			         "box_height": 120, "align": "center",
			         "color": [0, 0.5, 0], "template_text": "Body Here"}
		}
	}`))
	if err != nil {
		t.Fatalf("parsing: %v", err)
	}
	f := cfg.Fields["body"]
	if !f.WrapText || f.WrapWidth == nil || *f.WrapWidth != 400 {
		t.Errorf("wrap settings = %+v", f)
	}
	if f.BoxHeight == nil || *f.BoxHeight != 120 {
		t.Errorf("box height = %v", f.BoxHeight)
	}
	if f.Size != nil {
		t.Error("absent size should stay nil")
	}
	if f.TemplateText != "Body Here" || f.Align != AlignCenter {
		t.Errorf("field = %+v", f)
	}
}

func TestLoadRowsCSVWithBOM(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rows.csv")
	content := "\ufeffname,score\nAlice,91\nBob,85\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	rows, err := LoadRowsCSV(path)
	if err != nil {
		t.Fatalf("loading: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if rows[0]["name"].Text != "Alice" || rows[1]["score"].Text != "85" {
		t.Fatalf("rows = %+v", rows)
	}
}

func TestLoadRowsJSONArrayAndObject(t *testing.T) {
	dir := t.TempDir()

	arrayPath := filepath.Join(dir, "rows.json")
	os.WriteFile(arrayPath, []byte(`[{"name":"A"},{"name":{"text":"B","html":"<i>B</i>"}}]`), 0o644)
	rows, err := LoadRowsJSON(arrayPath)
	if err != nil {
		t.Fatalf("loading array: %v", err)
	}
	if len(rows) != 2 || rows[0]["name"].Text != "A" || rows[1]["name"].HTML != "<i>B</i>" {
		t.Fatalf("rows = %+v", rows)
	}

	objPath := filepath.Join(dir, "row.json")
	os.WriteFile(objPath, []byte(`{"name":"Solo"}`), 0o644)
	rows, err = LoadRowsJSON(objPath)
	if err != nil {
		t.Fatalf("loading object: %v", err)
	}
	if len(rows) != 1 || rows[0]["name"].Text != "Solo" {
		t.Fatalf("rows = %+v", rows)
	}
}

func TestMergeRow(t *testing.T) {
	source := Row{
		"Full Name": {Text: "Alice"},
		"extra":     {Text: "kept"},
	}
	merged := MergeRow(source,
		map[string]string{"name": "Full Name", "ghost": "No Such Column"},
		map[string]string{"event": "Gophercon"})

	if merged["name"].Text != "Alice" {
		t.Errorf("mapped field = %+v", merged["name"])
	}
	if merged["extra"].Text != "kept" {
		t.Errorf("unmapped column should carry over, got %+v", merged["extra"])
	}
	if _, ok := merged["ghost"]; ok {
		t.Error("mapping to a missing column should add nothing")
	}
	if merged["event"].Text != "Gophercon" {
		t.Errorf("fixed value = %+v", merged["event"])
	}
	if source["name"].Text != "" {
		t.Error("source row was mutated")
	}
}

func ExampleParseConfig() {
	cfg, _ := ParseConfig([]byte(`{
		"default_font": "Times-Roman",
		"fields": {
			"recipient": {"x": 120, "y": 480, "size": 28, "align": "center"}
		}
	}`))
	f := cfg.Fields["recipient"]
	fmt.Printf("%s %s at (%.0f, %.0f) size %.0f\n",
		cfg.DefaultFont, f.Align, f.X, f.Y, *f.Size)
	// Output: Times-Roman center at (120, 480) size 28
}
