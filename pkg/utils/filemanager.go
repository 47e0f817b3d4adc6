// =============================================================================
// ABN Bulk Lookup - File Naming Utilities
// =============================================================================
//
// This module provides the small amount of file handling the exporter and
// the CLI need:
//   - Suggested export file names from a placeholder format
//   - The companion "missing ABNs" path derived from an export path
//   - Directory creation for export destinations
//
// =============================================================================

package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SpreadsheetExt is the extension every export is written with.
const SpreadsheetExt = ".xlsx"

// =============================================================================
// FILE NAMING
// =============================================================================

// GenerateOutputFileName generates a file name from a format string.
//
// PARAMETERS:
//   - format: The format string for the file name.
//     Placeholders:
//     {uuid}      - A random UUID
//     {timestamp} - Timestamp (YYYYMMDD_HHMMSS)
//     {date}      - Date (YYYYMMDD)
//     {time}      - Time (HHMMSS)
//   - now: The time used for the date placeholders.
//
// RETURNS:
//   - The generated file name, always ending in .xlsx.
//
// EXAMPLE:
//
//	format: "abn_details_{timestamp}.xlsx"
//	output: "abn_details_20240115_143022.xlsx"
func GenerateOutputFileName(format string, now time.Time) string {
	replacements := map[string]string{
		"{timestamp}": now.Format("20060102_150405"),
		"{date}":      now.Format("20060102"),
		"{time}":      now.Format("150405"),
	}

	result := format
	for placeholder, value := range replacements {
		result = strings.ReplaceAll(result, placeholder, value)
	}
	if strings.Contains(result, "{uuid}") {
		result = strings.ReplaceAll(result, "{uuid}", uuid.New().String())
	}

	if !strings.EqualFold(filepath.Ext(result), SpreadsheetExt) {
		result += SpreadsheetExt
	}

	return result
}

// MissingPath inserts suffix before the extension of path.
//
// EXAMPLE:
//
//	MissingPath("out/abns.xlsx", "_missing") == "out/abns_missing.xlsx"
func MissingPath(path, suffix string) string {
	ext := filepath.Ext(path)
	if ext == "" {
		return path + suffix + SpreadsheetExt
	}
	return strings.TrimSuffix(path, ext) + suffix + ext
}

// =============================================================================
// DIRECTORY MANAGEMENT
// =============================================================================

// EnsureParentDir creates the directory that will hold path.
func EnsureParentDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
