// Package report bundles the stage outputs into one XLSX workbook.
package report

import (
	"context"
	"io"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/akshita1420/maj-proj/internal/model"
	"github.com/akshita1420/maj-proj/internal/table"
)

// Sheet names one stage output to include.
type Sheet struct {
	Name string // sheet title, at most 31 characters
	Path string
}

// Result lists the sheets actually written.
type Result struct {
	Sheets  []string
	Skipped []string
}

// WriteWorkbook writes one sheet per existing input to path. Missing inputs
// are skipped with a warning; it is an error when none exist.
func WriteWorkbook(ctx context.Context, path string, sheets []Sheet) (*Result, error) {
	log := zap.L().With(zap.String("component", "report"))

	f := xlsx.NewFile()
	header := xlsx.NewStyle()
	header.Font.Bold = true
	header.ApplyFont = true

	res := &Result{}
	for _, s := range sheets {
		if err := ctx.Err(); err != nil {
			return nil, eris.Wrap(err, "report: cancelled")
		}
		if err := table.CheckExists(s.Path); err != nil {
			if eris.Is(err, table.ErrMissingFile) {
				log.Warn("stage output not found, skipping sheet",
					zap.String("sheet", s.Name), zap.String("path", s.Path))
				res.Skipped = append(res.Skipped, s.Name)
				continue
			}
			return nil, err
		}

		t, err := table.ReadFile(ctx, s.Path)
		if err != nil {
			return nil, eris.Wrapf(err, "report: read %s", s.Path)
		}
		sheet, err := f.AddSheet(s.Name)
		if err != nil {
			return nil, eris.Wrapf(err, "report: add sheet %s", s.Name)
		}
		fill(sheet, t, header)
		res.Sheets = append(res.Sheets, s.Name)
	}

	if len(res.Sheets) == 0 {
		return nil, eris.Wrap(table.ErrMissingFile, "report: no stage outputs to include")
	}

	err := table.WriteAtomic(path, func(w io.Writer) error {
		if err := f.Write(w); err != nil {
			return eris.Wrapf(err, "report: write %s", path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info("workbook written", zap.String("path", path), zap.Strings("sheets", res.Sheets))
	return res, nil
}

// fill copies t into sheet. Numeric cells are stored as numbers so the
// workbook sorts and charts correctly.
func fill(sheet *xlsx.Sheet, t *table.Table, header *xlsx.Style) {
	row := sheet.AddRow()
	for _, h := range t.Header {
		c := row.AddCell()
		c.SetString(h)
		c.SetStyle(header)
	}

	for _, r := range t.Rows {
		row := sheet.AddRow()
		for _, v := range r {
			c := row.AddCell()
			if n := model.ParseFloat(v); n.Valid {
				c.SetFloat(n.V)
			} else {
				c.SetString(v)
			}
		}
	}
}
