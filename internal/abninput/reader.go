// =============================================================================
// ABN Bulk Lookup - ABN Input Reader
// =============================================================================
//
// This module reads the list of ABNs a batch runs over. ABNs can come from:
//   - Free text, one ABN per line (text box, stdin, .txt files)
//   - The first column of a .csv file
//   - The first column of the first sheet of a .xlsx file
//
// Lines are trimmed and blank lines are dropped. Duplicates are kept, and
// order is preserved so that the export lines up with the input.
//
// HEADER HANDLING:
//   A leading CSV or XLSX row whose first cell contains no digits is treated
//   as a header (e.g. "ABN") and skipped.
//
// =============================================================================

package abninput

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/xuri/excelize/v2"
)

// =============================================================================
// ENTRY POINTS
// =============================================================================

// ReadFile reads ABNs from path, choosing the format by extension.
// Unknown extensions are read as plain text.
func ReadFile(path string) ([]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return readXLSX(path)
	case ".csv":
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open file: %w", err)
		}
		defer file.Close()
		return ReadCSV(file)
	default:
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open file: %w", err)
		}
		defer file.Close()
		return ReadLines(file)
	}
}

// ReadLines reads one ABN per line from r.
func ReadLines(r io.Reader) ([]string, error) {
	var abns []string

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if abn := strings.TrimSpace(scanner.Text()); abn != "" {
			abns = append(abns, abn)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read ABNs: %w", err)
	}

	return abns, nil
}

// SplitText splits free text, such as the form's text box, into ABNs.
func SplitText(text string) []string {
	abns, _ := ReadLines(strings.NewReader(text))
	return abns
}

// ReadCSV reads the first column of r as ABNs.
func ReadCSV(r io.Reader) ([]string, error) {
	reader := csv.NewReader(r)

	// Allow variable number of fields per row, and loose quoting from
	// hand-edited files.
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}

	return firstColumn(rows), nil
}

// =============================================================================
// XLSX
// =============================================================================

func readXLSX(path string) ([]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	return firstColumn(rows), nil
}

// =============================================================================
// HELPERS
// =============================================================================

// firstColumn collects the trimmed, non-empty first cells of rows,
// skipping a header row.
func firstColumn(rows [][]string) []string {
	var abns []string
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell := strings.TrimSpace(row[0])
		if cell == "" {
			continue
		}
		if i == 0 && isHeader(cell) {
			continue
		}
		abns = append(abns, cell)
	}
	return abns
}

func isHeader(cell string) bool {
	return strings.IndexFunc(cell, unicode.IsDigit) < 0
}
