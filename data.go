package certstudio

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Value is one field's content for a row: plain text, rich inline markup, or
// both. In JSON a value may be a bare string or an object:
//
//	"Jane Doe"
//	{"text": "Jane Doe", "html": "<b>Jane</b> Doe"}
//
// When HTML is set it takes precedence over Text.
type Value struct {
	Text string `json:"text,omitempty"`
	HTML string `json:"html,omitempty"`
}

// UnmarshalJSON accepts either a JSON string or a {text, html} object.
func (v *Value) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = Value{Text: s}
		return nil
	}
	type plain Value
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*v = Value(p)
	return nil
}

// Row maps field names to their content for one rendered document.
type Row map[string]Value

// LoadRowsCSV reads rows from a CSV file with a header line. A UTF-8 byte
// order mark on the first header cell is stripped.
func LoadRowsCSV(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("certstudio: opening csv %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("certstudio: reading csv %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("certstudio: csv %s: %w", path, ErrNoRows)
	}

	header := records[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	rows := make([]Row, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := make(Row, len(header))
		for i, name := range header {
			if i < len(rec) {
				row[name] = Value{Text: rec[i]}
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// LoadRowsJSON reads rows from a JSON file holding either a single object or
// an array of objects mapping field names to values.
func LoadRowsJSON(path string) ([]Row, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("certstudio: reading json %s: %w", path, err)
	}

	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		var rows []Row
		if err := json.Unmarshal(data, &rows); err != nil {
			return nil, fmt.Errorf("certstudio: parsing json %s: %w", path, err)
		}
		return rows, nil
	}

	var row Row
	if err := json.Unmarshal(data, &row); err != nil {
		return nil, fmt.Errorf("certstudio: parsing json %s: %w", path, err)
	}
	return []Row{row}, nil
}

// MergeRow builds the row consumed by rendering: source values renamed
// through mappings (config field name to source column), then overridden by
// fixed values. Unmapped source columns carry over under their own names.
func MergeRow(source Row, mappings map[string]string, fixed map[string]string) Row {
	out := make(Row, len(source)+len(fixed))
	for name, v := range source {
		out[name] = v
	}
	for field, column := range mappings {
		if v, ok := source[column]; ok {
			out[field] = v
		}
	}
	for field, text := range fixed {
		out[field] = Value{Text: text}
	}
	return out
}
