// Package batch values many submissions read from CSV, XLSX or JSON files.
package batch

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// Record is one raw submission read from a file.
type Record map[string]any

// ReadFile reads submissions from path, choosing the format by extension.
func ReadFile(path string) ([]Record, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, eris.Wrap(err, "batch: open csv")
		}
		defer f.Close() //nolint:errcheck
		return ReadCSV(f)
	case ".xlsx":
		return ReadXLSX(path, "")
	case ".json":
		f, err := os.Open(path)
		if err != nil {
			return nil, eris.Wrap(err, "batch: open json")
		}
		defer f.Close() //nolint:errcheck
		return ReadJSON(f)
	default:
		return nil, eris.Errorf("batch: unsupported file type %q", filepath.Ext(path))
	}
}

// ReadCSV reads a CSV whose header row names the submission keys.
func ReadCSV(r io.Reader) ([]Record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, eris.Wrap(err, "batch: read csv")
	}
	return toRecords(rows)
}

// ReadXLSX reads a worksheet whose first row names the submission keys. An
// empty sheet name selects the first sheet.
func ReadXLSX(path, sheetName string) ([]Record, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "batch: open xlsx")
	}

	var sheet *xlsx.Sheet
	if sheetName != "" {
		s, ok := f.Sheet[sheetName]
		if !ok {
			return nil, eris.Errorf("batch: sheet %q not found", sheetName)
		}
		sheet = s
	} else {
		if len(f.Sheets) == 0 {
			return nil, eris.New("batch: workbook has no sheets")
		}
		sheet = f.Sheets[0]
	}

	rows := make([][]string, 0, len(sheet.Rows))
	for _, row := range sheet.Rows {
		cells := make([]string, len(row.Cells))
		for j, cell := range row.Cells {
			cells[j] = cell.String()
		}
		rows = append(rows, cells)
	}
	return toRecords(rows)
}

// ReadJSON reads a JSON array of submission objects.
func ReadJSON(r io.Reader) ([]Record, error) {
	var records []Record
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, eris.Wrap(err, "batch: decode json")
	}
	return records, nil
}

// toRecords maps each data row onto the header keys. Blank headers and
// blank cells are dropped, as are rows with no values.
func toRecords(rows [][]string) ([]Record, error) {
	if len(rows) == 0 {
		return nil, eris.New("batch: missing header row")
	}

	header := make([]string, len(rows[0]))
	named := false
	for i, h := range rows[0] {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		named = named || header[i] != ""
	}
	if !named {
		return nil, eris.New("batch: header row is empty")
	}

	records := make([]Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := Record{}
		for i, cell := range row {
			if i >= len(header) || header[i] == "" {
				continue
			}
			if v := strings.TrimSpace(cell); v != "" {
				rec[header[i]] = v
			}
		}
		if len(rec) > 0 {
			records = append(records, rec)
		}
	}
	return records, nil
}
