package table

import (
	"context"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

const utf8BOM = "\ufeff"

// ReadFile loads a CSV or XLSX (by extension) table. The first row is the header.
func ReadFile(ctx context.Context, path string) (*Table, error) {
	if err := CheckExists(path); err != nil {
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return ReadXLSX(path, 0)
	default:
		f, err := os.Open(path)
		if err != nil {
			return nil, eris.Wrapf(err, "table: open %s", path)
		}
		defer f.Close()

		t, err := ReadCSV(ctx, f)
		if err != nil {
			return nil, eris.Wrapf(err, "table: parse %s", path)
		}
		return t, nil
	}
}

// ReadCSV parses a header row and all data rows from r. Blank lines are skipped.
func ReadCSV(ctx context.Context, r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // allow variable fields

	var header []string
	var rows [][]string
	for {
		if ctx.Err() != nil {
			return nil, eris.Wrap(ctx.Err(), "csv: context cancelled")
		}

		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrap(err, "csv: read row")
		}

		if header == nil {
			if len(record) > 0 {
				record[0] = strings.TrimPrefix(record[0], utf8BOM)
			}
			header = record
			continue
		}
		rows = append(rows, record)
	}

	if header == nil {
		return nil, eris.New("csv: empty input, no header row")
	}
	return New(header, rows), nil
}

// ReadXLSX loads the sheet at sheetIndex of an XLSX workbook.
func ReadXLSX(path string, sheetIndex int) (*Table, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "xlsx: open file %s", path)
	}

	if sheetIndex >= len(f.Sheets) {
		return nil, eris.Errorf("xlsx: sheet index %d out of range (file has %d sheets)", sheetIndex, len(f.Sheets))
	}
	sheet := f.Sheets[sheetIndex]

	var header []string
	var rows [][]string
	for _, row := range sheet.Rows {
		if row == nil {
			continue
		}
		cells := rowToStrings(row)
		if header == nil {
			header = cells
			continue
		}
		if isBlank(cells) {
			continue
		}
		rows = append(rows, cells)
	}

	if header == nil {
		return nil, eris.Errorf("xlsx: sheet %q has no header row", sheet.Name)
	}
	return New(header, rows), nil
}

func rowToStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for j, cell := range row.Cells {
		cells[j] = cell.String()
	}
	return cells
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
