// =============================================================================
// ABN Bulk Lookup - Spreadsheet Exporter
// =============================================================================
//
// This module turns a finished batch into spreadsheet files.
//
// EXPORT PIPELINE:
//   1. Partition the batch into found records and missing ABNs
//   2. Stop with "nothing to save" when no record was found
//   3. Ask the prompter for a destination (cancel stops here)
//   4. Write the details workbook (header, rows, links, widths)
//   5. Write the companion missing-ABN workbook when anything failed
//
// Cancellation and "nothing to save" are outcomes, not errors. Only file
// system failures are returned as errors.
//
// =============================================================================

package export

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/InfinityHack3r/abnBulkLookup/internal/types"
	"github.com/InfinityHack3r/abnBulkLookup/pkg/logger"
	"github.com/InfinityHack3r/abnBulkLookup/pkg/utils"
)

// =============================================================================
// OUTCOMES
// =============================================================================

// OutcomeKind classifies how an export finished.
type OutcomeKind int

const (
	// OutcomeSaved means the details workbook was written.
	OutcomeSaved OutcomeKind = iota

	// OutcomeCancelled means the user declined to pick a destination.
	OutcomeCancelled

	// OutcomeNothingToSave means no ABN produced a record.
	OutcomeNothingToSave
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSaved:
		return "saved"
	case OutcomeCancelled:
		return "cancelled"
	case OutcomeNothingToSave:
		return "nothing_to_save"
	default:
		return fmt.Sprintf("OutcomeKind(%d)", int(k))
	}
}

// User-facing outcome messages.
const (
	MsgNothingToSave = "No valid ABN details found to save."
	MsgCancelled     = "File save operation was cancelled."
)

// Outcome is the result of an export.
type Outcome struct {
	Kind OutcomeKind

	// Path is the details workbook. Empty unless Kind is OutcomeSaved.
	Path string

	// MissingPath is the missing-ABN workbook. Empty when nothing failed.
	MissingPath string

	// Missing is the number of ABNs listed in MissingPath.
	Missing int

	// Message is suitable for showing to the user as-is.
	Message string
}

// =============================================================================
// EXPORTER
// =============================================================================

// Options configures an Exporter.
type Options struct {
	// SheetName names the details sheet. Default: "ABN Details".
	SheetName string

	// MissingSuffix is inserted before the extension of the details path
	// to name the missing-ABN workbook. Default: "_missing".
	MissingSuffix string

	// OutputDir and NameFormat build the destination suggested to the
	// prompter. See utils.GenerateOutputFileName for placeholders.
	OutputDir  string
	NameFormat string

	// MaxLinks caps the hyperlinks on the details sheet. Cells past the cap
	// keep their text without a link. Default and upper bound:
	// excelize.TotalSheetHyperlinks.
	MaxLinks int
}

// DefaultOptions returns the layout every export uses unless overridden.
func DefaultOptions() Options {
	return Options{
		SheetName:     "ABN Details",
		MissingSuffix: "_missing",
		OutputDir:     ".",
		NameFormat:    "abn_details_{timestamp}.xlsx",
		MaxLinks:      excelize.TotalSheetHyperlinks,
	}
}

// Exporter writes batch results to spreadsheets.
type Exporter struct {
	opts Options
}

// New creates an Exporter. Zero fields in opts take their defaults.
func New(opts Options) *Exporter {
	def := DefaultOptions()
	if opts.SheetName == "" {
		opts.SheetName = def.SheetName
	}
	if opts.MissingSuffix == "" {
		opts.MissingSuffix = def.MissingSuffix
	}
	if opts.OutputDir == "" {
		opts.OutputDir = def.OutputDir
	}
	if opts.NameFormat == "" {
		opts.NameFormat = def.NameFormat
	}
	if opts.MaxLinks <= 0 || opts.MaxLinks > def.MaxLinks {
		opts.MaxLinks = def.MaxLinks
	}
	return &Exporter{opts: opts}
}

// Partition splits items into found records and missing ABNs, both in
// input order.
func Partition(items []types.BatchItem) (records []*types.Record, missing []string) {
	for _, item := range items {
		if item.Record != nil {
			records = append(records, item.Record)
		} else {
			missing = append(missing, item.ABN)
		}
	}
	return records, missing
}

// SuggestedPath is the destination offered to the prompter for a batch
// started at startedAt.
func (e *Exporter) SuggestedPath(startedAt time.Time) string {
	return filepath.Join(e.opts.OutputDir, utils.GenerateOutputFileName(e.opts.NameFormat, startedAt))
}

// Export saves result to a destination chosen by prompter.
func (e *Exporter) Export(ctx context.Context, result *types.BatchResult, prompter Prompter) (Outcome, error) {
	records, missing := Partition(result.Items)
	if len(records) == 0 {
		logger.Info(ctx, "export skipped, no records", zap.Int("missing", len(missing)))
		return Outcome{Kind: OutcomeNothingToSave, Message: MsgNothingToSave}, nil
	}

	path, ok, err := prompter.SavePath(e.SuggestedPath(result.StartedAt))
	if err != nil {
		return Outcome{}, fmt.Errorf("failed to choose save path: %w", err)
	}
	if !ok {
		logger.Info(ctx, "export cancelled")
		return Outcome{Kind: OutcomeCancelled, Message: MsgCancelled}, nil
	}

	return e.Save(ctx, path, records, missing, result.StartedAt)
}

// Save writes records to path and, when missing is non-empty, the missing
// ABNs to the companion workbook.
//
// PARAMETERS:
//   - path: The details workbook. ".xlsx" is appended when absent.
//   - records: One row each, in order.
//   - missing: ABNs with no record, in order.
//   - retrievedAt: Shown in the Date Retrieved column of every row.
func (e *Exporter) Save(ctx context.Context, path string, records []*types.Record, missing []string, retrievedAt time.Time) (Outcome, error) {
	if filepath.Ext(path) == "" {
		path += utils.SpreadsheetExt
	}
	if err := utils.EnsureParentDir(path); err != nil {
		return Outcome{}, err
	}

	if err := e.writeDetails(ctx, path, records, retrievedAt.Format(RetrievedLayout)); err != nil {
		return Outcome{}, err
	}

	out := Outcome{
		Kind:    OutcomeSaved,
		Path:    path,
		Message: fmt.Sprintf("Excel file has been created successfully at %s.", path),
	}

	if len(missing) > 0 {
		out.MissingPath = utils.MissingPath(path, e.opts.MissingSuffix)
		out.Missing = len(missing)
		if err := writeMissing(out.MissingPath, missing); err != nil {
			return Outcome{}, err
		}
		out.Message += fmt.Sprintf(" Additionally, a missing ABN file has been created with %d missing ABN(s) at %s.",
			out.Missing, out.MissingPath)
	}

	logger.Info(ctx, "export saved",
		zap.String("path", out.Path),
		zap.Int("records", len(records)),
		zap.Int("missing", out.Missing))

	return out, nil
}

// =============================================================================
// WORKBOOK WRITERS
// =============================================================================

func (e *Exporter) writeDetails(ctx context.Context, path string, records []*types.Record, retrieved string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := e.opts.SheetName
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	linkStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Color: "0563C1", Underline: "single"}})
	if err != nil {
		return fmt.Errorf("failed to create link style: %w", err)
	}

	// Step 1: header row.
	header := make([]any, len(Columns))
	for i, col := range Columns {
		header[i] = col.Header
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	last, _ := excelize.CoordinatesToCellName(len(Columns), 1)
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	// Step 2: one row per record, links applied cell by cell until the
	// sheet holds MaxLinks of them.
	linked, skipped := 0, 0
	for i, rec := range records {
		rowNum := i + 2
		cells := Cells(rec, retrieved)

		values := make([]any, len(cells))
		for j, c := range cells {
			values[j] = c.Value
		}
		start, _ := excelize.CoordinatesToCellName(1, rowNum)
		if err := f.SetSheetRow(sheet, start, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", rowNum, err)
		}

		for j, c := range cells {
			if c.Link == "" {
				continue
			}
			if linked >= e.opts.MaxLinks {
				skipped++
				continue
			}
			linked++
			cell, _ := excelize.CoordinatesToCellName(j+1, rowNum)
			if err := f.SetCellHyperLink(sheet, cell, c.Link, "External"); err != nil {
				return fmt.Errorf("failed to link %s: %w", cell, err)
			}
			if err := f.SetCellStyle(sheet, cell, cell, linkStyle); err != nil {
				return fmt.Errorf("failed to style %s: %w", cell, err)
			}
		}
	}

	if skipped > 0 {
		logger.Warn(ctx, "hyperlink limit reached, remaining cells written as text",
			zap.Int("limit", e.opts.MaxLinks),
			zap.Int("skipped", skipped))
	}

	// Step 3: fixed widths.
	for i, col := range Columns {
		name, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(sheet, name, name, col.Width); err != nil {
			return fmt.Errorf("failed to size column %s: %w", name, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}

func writeMissing(path string, abns []string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	if err := f.SetCellValue(sheet, "A1", "ABN"); err != nil {
		return fmt.Errorf("failed to write missing header: %w", err)
	}
	for i, abn := range abns {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetCellValue(sheet, cell, abn); err != nil {
			return fmt.Errorf("failed to write missing ABN %s: %w", abn, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}
