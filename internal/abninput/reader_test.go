package abninput

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestReadLines(t *testing.T) {
	abns, err := ReadLines(strings.NewReader("51824753556\n\n  33 102 417 032 \r\n51824753556\n"))
	require.NoError(t, err)
	require.Equal(t, []string{"51824753556", "33 102 417 032", "51824753556"}, abns)
}

func TestSplitText(t *testing.T) {
	require.Equal(t, []string{"1", "2"}, SplitText(" 1 \n\n\t\n2"))
	require.Empty(t, SplitText("  \n "))
}

func TestReadCSV(t *testing.T) {
	abns, err := ReadCSV(strings.NewReader("ABN,Name\n51824753556,Example\n,blank\n33102417032\n"))
	require.NoError(t, err)
	require.Equal(t, []string{"51824753556", "33102417032"}, abns)

	abns, err = ReadCSV(strings.NewReader("51824753556,Example\n"))
	require.NoError(t, err)
	require.Equal(t, []string{"51824753556"}, abns, "numeric first row is data")
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()

	txt := filepath.Join(dir, "abns.txt")
	require.NoError(t, os.WriteFile(txt, []byte("51824753556\n33102417032\n"), 0o600))
	abns, err := ReadFile(txt)
	require.NoError(t, err)
	require.Equal(t, []string{"51824753556", "33102417032"}, abns)

	csvPath := filepath.Join(dir, "abns.CSV")
	require.NoError(t, os.WriteFile(csvPath, []byte("abn\n51824753556\n"), 0o600))
	abns, err = ReadFile(csvPath)
	require.NoError(t, err)
	require.Equal(t, []string{"51824753556"}, abns)

	_, err = ReadFile(filepath.Join(dir, "nope.txt"))
	require.Error(t, err)
}

func TestReadFile_xlsx(t *testing.T) {
	path := filepath.Join(t.TempDir(), "abns.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetCellValue(sheet, "A1", "ABN"))
	require.NoError(t, f.SetCellValue(sheet, "A2", "51824753556"))
	require.NoError(t, f.SetCellValue(sheet, "A4", " 33102417032 "))
	require.NoError(t, f.SetCellValue(sheet, "B2", "ignored"))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	abns, err := ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, []string{"51824753556", "33102417032"}, abns)
}

func TestIsHeader(t *testing.T) {
	require.True(t, isHeader("ABN"))
	require.True(t, isHeader("Business Number"))
	require.False(t, isHeader("51 824 753 556"))
}
