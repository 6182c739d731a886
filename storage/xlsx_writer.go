package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

const xlsxColumnWidth = 32

// XLSXWriter writes the export grid as a single-sheet workbook.
type XLSXWriter struct {
	dir string
}

// NewXLSXWriter returns a writer placing workbooks under dir.
func NewXLSXWriter(dir string) *XLSXWriter {
	if dir == "" {
		dir = "."
	}
	return &XLSXWriter{dir: dir}
}

func (w *XLSXWriter) Name() string { return "xlsx" }

func (w *XLSXWriter) Extension() string { return ".xlsx" }

// Path returns where filename will be written.
func (w *XLSXWriter) Path(filename string) string {
	return filepath.Join(w.dir, filepath.Base(filename))
}

// WriteGrid stores grid row by row starting at A1; the first row is styled
// as a header.
func (w *XLSXWriter) WriteGrid(_ context.Context, filename string, grid [][]string) error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("xlsx: create output dir: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	width := 0
	for r, row := range grid {
		if len(row) > width {
			width = len(row)
		}
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return fmt.Errorf("xlsx: cell name: %w", err)
			}
			if err := f.SetCellStr(sheet, cell, v); err != nil {
				return fmt.Errorf("xlsx: set %s: %w", cell, err)
			}
		}
	}

	if width > 0 {
		last, _ := excelize.ColumnNumberToName(width)
		if err := f.SetColWidth(sheet, "A", last, xlsxColumnWidth); err != nil {
			return fmt.Errorf("xlsx: column width: %w", err)
		}
		style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
		if err != nil {
			return fmt.Errorf("xlsx: header style: %w", err)
		}
		lastCell, _ := excelize.CoordinatesToCellName(width, 1)
		if err := f.SetCellStyle(sheet, "A1", lastCell, style); err != nil {
			return fmt.Errorf("xlsx: header style: %w", err)
		}
	}

	path := w.Path(filename)
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("xlsx: save %q: %w", path, err)
	}
	return nil
}
