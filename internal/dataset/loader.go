// Package dataset loads arbitrary tabular feedback sources (CSV or XLSX)
// into an untyped table. Column meaning is decided later by a ColumnMapping
// at the ingest boundary, never here.
package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"feedback-insights-go/internal/logger"
)

// Table is a raw tabular dataset: a header row plus data rows. Rows may be
// ragged; missing trailing cells read as empty strings downstream.
type Table struct {
	Header []string
	Rows   [][]string
}

// Load reads a tabular file, picking the parser from the file extension.
func Load(path string) (Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return LoadXLSX(path)
	case ".csv":
		return LoadCSV(path)
	default:
		return Table{}, fmt.Errorf("unsupported dataset format: %s", filepath.Ext(path))
	}
}

// LoadCSV reads a comma-separated file into a Table.
func LoadCSV(path string) (Table, error) {
	log := logger.Component("dataset").WithField("path", path)
	f, err := os.Open(path)
	if err != nil {
		return Table{}, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1 // tolerate ragged rows
	rows, err := r.ReadAll()
	if err != nil {
		return Table{}, fmt.Errorf("read csv: %w", err)
	}
	if len(rows) == 0 {
		return Table{}, fmt.Errorf("no rows")
	}
	log.WithField("rows", len(rows)-1).Info("csv loaded")
	return Table{Header: rows[0], Rows: rows[1:]}, nil
}

// LoadXLSX reads the first sheet of an Excel workbook into a Table.
func LoadXLSX(path string) (Table, error) {
	log := logger.Component("dataset").WithField("path", path)
	f, err := excelize.OpenFile(path)
	if err != nil {
		return Table{}, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return Table{}, fmt.Errorf("no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return Table{}, fmt.Errorf("read rows: %w", err)
	}
	if len(rows) == 0 {
		return Table{}, fmt.Errorf("no rows")
	}
	log.WithField("sheet", sheets[0]).WithField("rows", len(rows)-1).Info("xlsx loaded")
	return Table{Header: rows[0], Rows: rows[1:]}, nil
}

// Cell returns the value at (row, col), or "" when the row is short.
func (t Table) Cell(row, col int) string {
	if col < 0 || col >= len(t.Rows[row]) {
		return ""
	}
	return t.Rows[row][col]
}

// ColumnIndex returns the position of a header name, or -1 when absent.
func (t Table) ColumnIndex(name string) int {
	for i, h := range t.Header {
		if strings.EqualFold(strings.TrimSpace(h), strings.TrimSpace(name)) {
			return i
		}
	}
	return -1
}
