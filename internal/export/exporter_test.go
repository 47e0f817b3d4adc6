package export_test

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/InfinityHack3r/abnBulkLookup/internal/export"
	"github.com/InfinityHack3r/abnBulkLookup/internal/types"
	"github.com/InfinityHack3r/abnBulkLookup/pkg/logger"
	"github.com/InfinityHack3r/abnBulkLookup/pkg/serrors"
	"github.com/InfinityHack3r/abnBulkLookup/pkg/utils"
)

var started = time.Date(2024, 5, 1, 10, 11, 12, 0, time.Local)

func record(abn, name, asic string) *types.Record {
	rec := types.NewRecord()
	rec.ABN = abn
	rec.OrganisationName = name
	rec.ASICNumber = asic
	rec.GSTEffectiveFrom = "2000-07-01"
	rec.EffectiveFrom = "1999-11-01"
	rec.DateRetrieved = "2024-05-01T10:11:12"
	return rec
}

func batch(items ...types.BatchItem) *types.BatchResult {
	return &types.BatchResult{RunID: "run", StartedAt: started, Items: items}
}

// recordingPrompter captures the suggestion it was offered.
type recordingPrompter struct {
	answer    string
	suggested string
	calls     int
}

func (p *recordingPrompter) SavePath(suggested string) (string, bool, error) {
	p.calls++
	p.suggested = suggested
	return p.answer, true, nil
}

func TestPartition(t *testing.T) {
	a := record("1", "A", "N/A")
	c := record("3", "C", "N/A")
	records, missing := export.Partition([]types.BatchItem{
		{ABN: "1", Record: a},
		{ABN: "2", Err: serrors.With(serrors.ErrTransport, "down")},
		{ABN: "3", Record: c},
		{ABN: "4", Err: serrors.With(serrors.ErrNotFound, "gone")},
	})

	require.Equal(t, []*types.Record{a, c}, records)
	require.Equal(t, []string{"2", "4"}, missing)
}

func TestCells(t *testing.T) {
	rec := record("51824753556", "EXAMPLE LIMITED", "000000019")
	cells := export.Cells(rec, "2024-05-01 10:11:12")

	require.Len(t, cells, len(export.Columns))
	require.Equal(t, export.Cell{Value: "51824753556", Link: export.ABNHistoryURL + "51824753556"}, cells[0])
	require.Equal(t, "2000-07-01", cells[3].Value, "GST Registration repeats GST effective from")
	require.Equal(t, export.Cell{Value: "000000019", Link: export.ASICSearchURL + "000000019"}, cells[7])
	require.Equal(t, "2000-07-01", cells[9].Value)
	require.Equal(t, "1999-11-01", cells[10].Value)
	require.Equal(t, "2024-05-01 10:11:12", cells[11].Value, "Date Retrieved is the batch time")
	require.Equal(t, export.Cell{Value: types.NotAvailable}, cells[18], "no charity link without a URL")
	require.Equal(t, types.NotAvailable, cells[21].Value)

	rec.CharityURL = "https://www.acnc.gov.au/charity/charities?search=51824753556"
	cells = export.Cells(rec, "x")
	require.Equal(t, export.Cell{Value: export.CharityLinkText, Link: rec.CharityURL}, cells[18])
}

func TestExport_savesDetailsAndMissing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.xlsx")

	first := record("51824753556", "FIRST LTD", "000000019")
	first.CharityURL = "https://www.acnc.gov.au/charity/charities?search=51824753556"
	third := record("33102417032", "THIRD PTY", types.NotAvailable)

	res := batch(
		types.BatchItem{ABN: "51824753556", Record: first},
		types.BatchItem{ABN: "11111111111", Err: serrors.With(serrors.ErrTransport, "down")},
		types.BatchItem{ABN: "33102417032", Record: third},
	)

	prompter := &recordingPrompter{answer: path}
	out, err := export.New(export.Options{OutputDir: dir}).Export(context.Background(), res, prompter)
	require.NoError(t, err)

	require.Equal(t, export.OutcomeSaved, out.Kind)
	require.Equal(t, path, out.Path)
	require.Equal(t, filepath.Join(dir, "out_missing.xlsx"), out.MissingPath)
	require.Equal(t, 1, out.Missing)
	require.Contains(t, out.Message, path)
	require.Contains(t, out.Message, "1 missing ABN(s)")
	require.Equal(t, filepath.Join(dir, "abn_details_"+started.Format("20060102_150405")+".xlsx"), prompter.suggested)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	require.Equal(t, []string{"ABN Details"}, f.GetSheetList())

	rows, err := f.GetRows("ABN Details")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	require.Equal(t, "ABN", rows[0][0])
	require.Equal(t, "ACNC Registration Effective To", rows[0][28])
	require.Equal(t, "51824753556", rows[1][0])
	require.Equal(t, "FIRST LTD", rows[1][1])
	require.Equal(t, "2024-05-01 10:11:12", rows[1][11])
	require.Equal(t, "Charity URL", rows[1][18])
	require.Equal(t, "33102417032", rows[2][0])
	require.Equal(t, types.NotAvailable, rows[2][7])

	ok, link, err := f.GetCellHyperLink("ABN Details", "A2")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, export.ABNHistoryURL+"51824753556", link)

	ok, link, err = f.GetCellHyperLink("ABN Details", "H2")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, export.ASICSearchURL+"000000019", link)

	ok, _, err = f.GetCellHyperLink("ABN Details", "S3")
	require.NoError(t, err)
	require.False(t, ok, "sentinel charity URL is not linked")

	width, err := f.GetColWidth("ABN Details", "B")
	require.NoError(t, err)
	require.InDelta(t, 32.14, width, 0.01)
	width, err = f.GetColWidth("ABN Details", "AC")
	require.NoError(t, err)
	require.InDelta(t, 28.71, width, 0.01)

	m, err := excelize.OpenFile(out.MissingPath)
	require.NoError(t, err)
	defer m.Close()

	missingRows, err := m.GetRows(m.GetSheetName(0))
	require.NoError(t, err)
	require.Equal(t, [][]string{{"ABN"}, {"11111111111"}}, missingRows)
}

func TestSave_rowRoundTripsEveryColumn(t *testing.T) {
	rec := types.NewRecord()
	rec.ABN = "51824753556"
	rec.OrganisationName = "EXAMPLE & SONS <NT>"
	rec.EntityStatus = "Active"
	rec.GSTEffectiveFrom = "2000-07-01"
	rec.EntityType = "Australian Private Company"
	rec.ASICNumber = "000000019"
	rec.State = "NT"
	rec.EffectiveFrom = "1999-11-01"
	rec.DateRetrieved = "2024-05-01T10:11:12"
	rec.Postcode = "0800"
	rec.IdentifierValue = "51824753556"
	rec.DGRItemNumber = "1"
	rec.CharityURL = "https://www.acnc.gov.au/charity/charities?search=51824753556"
	rec.IncomeTaxExemption = "2005-01-01"

	path := filepath.Join(t.TempDir(), "full.xlsx")
	_, err := export.New(export.Options{}).Save(context.Background(), path, []*types.Record{rec}, nil, started)
	require.NoError(t, err)

	want := make([]string, 0, len(export.Columns))
	for _, c := range export.Cells(rec, started.Format(export.RetrievedLayout)) {
		want = append(want, c.Value)
	}
	require.Contains(t, want, "0800")
	require.Contains(t, want, export.CharityLinkText)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("ABN Details")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, want, rows[1])
}

func TestSave_capsHyperlinksAndKeepsText(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	ctx := logger.WithLogger(context.Background(), zap.New(core))

	var records []*types.Record
	for _, abn := range []string{"51824753556", "33102417032", "53004085616"} {
		rec := record(abn, "NAME "+abn, "000000019")
		rec.CharityURL = "https://www.acnc.gov.au/charity/charities?search=" + abn
		records = append(records, rec)
	}

	path := filepath.Join(t.TempDir(), "capped.xlsx")
	out, err := export.New(export.Options{MaxLinks: 4}).Save(ctx, path, records, nil, started)
	require.NoError(t, err)
	require.Equal(t, export.OutcomeSaved, out.Kind)
	require.True(t, utils.FileExists(path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("ABN Details")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	require.Equal(t, "53004085616", rows[3][0])
	require.Equal(t, "000000019", rows[3][7])
	require.Equal(t, export.CharityLinkText, rows[3][18])

	linked := map[string]bool{"A2": true, "H2": true, "S2": true, "A3": true, "H3": false, "S3": false, "A4": false}
	for cell, want := range linked {
		ok, _, err := f.GetCellHyperLink("ABN Details", cell)
		require.NoError(t, err)
		require.Equal(t, want, ok, cell)
	}

	warned := logs.FilterMessage("hyperlink limit reached, remaining cells written as text").All()
	require.Len(t, warned, 1)
	require.Equal(t, int64(5), warned[0].ContextMap()["skipped"])
	require.Equal(t, int64(4), warned[0].ContextMap()["limit"])
}

func TestExport_noMissingFileWhenAllFound(t *testing.T) {
	path := filepath.Join(t.TempDir(), "all.xlsx")
	res := batch(types.BatchItem{ABN: "1", Record: record("1", "ONE", "N/A")})

	out, err := export.New(export.Options{}).Export(context.Background(), res, export.StaticPrompter{Path: path})
	require.NoError(t, err)
	require.Empty(t, out.MissingPath)
	require.True(t, utils.FileExists(path))
	require.False(t, utils.FileExists(utils.MissingPath(path, "_missing")))
}

func TestExport_nothingToSave(t *testing.T) {
	dir := t.TempDir()
	prompter := &recordingPrompter{answer: filepath.Join(dir, "x.xlsx")}
	res := batch(types.BatchItem{ABN: "1", Err: errors.New("boom")})

	out, err := export.New(export.Options{}).Export(context.Background(), res, prompter)
	require.NoError(t, err)
	require.Equal(t, export.OutcomeNothingToSave, out.Kind)
	require.Equal(t, export.MsgNothingToSave, out.Message)
	require.Zero(t, prompter.calls, "no prompt without records")
	require.False(t, utils.FileExists(filepath.Join(dir, "x.xlsx")))
}

func TestExport_cancelled(t *testing.T) {
	res := batch(types.BatchItem{ABN: "1", Record: record("1", "ONE", "N/A")})

	out, err := export.New(export.Options{}).Export(context.Background(), res, export.CancelPrompter{})
	require.NoError(t, err)
	require.Equal(t, export.OutcomeCancelled, out.Kind)
	require.Equal(t, export.MsgCancelled, out.Message)
	require.Empty(t, out.Path)
}

func TestSave_appendsExtensionAndCreatesDirs(t *testing.T) {
	base := filepath.Join(t.TempDir(), "nested", "report")

	out, err := export.New(export.Options{MissingSuffix: "_failed"}).Save(context.Background(), base,
		[]*types.Record{record("1", "ONE", "N/A")}, []string{"2"}, started)
	require.NoError(t, err)
	require.Equal(t, base+".xlsx", out.Path)
	require.Equal(t, base+"_failed.xlsx", out.MissingPath)
	require.True(t, utils.FileExists(out.Path))
	require.True(t, utils.FileExists(out.MissingPath))
}

func TestReaderPrompter(t *testing.T) {
	var prompt strings.Builder
	p := export.ReaderPrompter{In: strings.NewReader("\n"), Out: &prompt}
	path, ok, err := p.SavePath("default.xlsx")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "default.xlsx", path)
	require.Contains(t, prompt.String(), "default.xlsx")

	path, ok, err = export.ReaderPrompter{In: strings.NewReader("  mine.xlsx  \n")}.SavePath("d")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "mine.xlsx", path)

	_, ok, err = export.ReaderPrompter{In: strings.NewReader("q\n")}.SavePath("d")
	require.NoError(t, err)
	require.False(t, ok)

	_, ok, err = export.ReaderPrompter{In: strings.NewReader("")}.SavePath("d")
	require.NoError(t, err)
	require.False(t, ok)

	path, ok, err = export.ReaderPrompter{In: strings.NewReader("last.xlsx")}.SavePath("d")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "last.xlsx", path)
}

func TestOutcomeKind_String(t *testing.T) {
	require.Equal(t, "saved", export.OutcomeSaved.String())
	require.Equal(t, "cancelled", export.OutcomeCancelled.String())
	require.Equal(t, "nothing_to_save", export.OutcomeNothingToSave.String())
}
