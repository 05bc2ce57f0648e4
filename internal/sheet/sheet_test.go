package sheet

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"sheetclean/internal/color"
)

func TestWriterAndTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	header := []string{"name", "count", "ratio", "active", "note"}
	rows := [][]interface{}{
		{"Ana", int64(3), 1.5, true, nil},
		{"Budi", int64(-7), 0.25, false, map[string]interface{}{"k": "v"}},
	}
	require.NoError(t, Writer{SheetName: "Outlets"}.WriteFile(path, header, rows))

	repo, err := Open(path)
	require.NoError(t, err)
	defer repo.Close()

	assert.Equal(t, "Outlets", repo.SheetName())
	assert.Equal(t, 2, repo.RowCount())

	gotHeader, cells, err := repo.Table()
	require.NoError(t, err)
	assert.Equal(t, header, gotHeader)
	require.Len(t, cells, 2)

	assert.Equal(t, Cell{Kind: KindText, Text: "Ana"}, cells[0][0])
	assert.Equal(t, Cell{Kind: KindNumber, Text: "3"}, cells[0][1])
	assert.Equal(t, Cell{Kind: KindNumber, Text: "1.5"}, cells[0][2])
	assert.Equal(t, KindBool, cells[0][3].Kind)
	assert.Equal(t, KindEmpty, cells[0][4].Kind)
	assert.Equal(t, Cell{Kind: KindNumber, Text: "-7"}, cells[1][1])
	assert.Equal(t, Cell{Kind: KindText, Text: `{"k":"v"}`}, cells[1][4])

	// the header carries the writer's fill
	d, ok := repo.Fill(0, 0)
	require.True(t, ok)
	hex, ok := d.Hex()
	require.True(t, ok)
	assert.Equal(t, HeaderFill, hex)

	_, ok = repo.Fill(1, 0)
	assert.False(t, ok)
}

func TestFillAndDates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetCellValue(sheet, "A1", "name"))
	require.NoError(t, f.SetCellValue(sheet, "B1", "born"))
	require.NoError(t, f.SetCellValue(sheet, "A2", "Ana"))
	require.NoError(t, f.SetCellValue(sheet, "B2", time.Date(1997, 3, 4, 0, 0, 0, 0, time.UTC)))
	require.NoError(t, f.SetCellValue(sheet, "A3", "Budi"))

	red, err := f.NewStyle(&excelize.Style{Fill: excelize.Fill{Type: "pattern", Color: []string{"FF0000"}, Pattern: 1}})
	require.NoError(t, err)
	require.NoError(t, f.SetCellStyle(sheet, "A2", "A2", red))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	repo, err := Open(path)
	require.NoError(t, err)
	defer repo.Close()

	d, ok := repo.Fill(1, 0)
	require.True(t, ok)
	assert.Equal(t, color.Red, color.Classify(d))

	_, ok = repo.Fill(2, 0)
	assert.False(t, ok)

	c, err := repo.Cell(1, 1)
	require.NoError(t, err)
	require.Equal(t, KindDate, c.Kind)
	assert.Equal(t, "1997-03-04", c.Time.Format("2006-01-02"))

	c, err = repo.Cell(2, 1)
	require.NoError(t, err)
	assert.Equal(t, KindEmpty, c.Kind)
}

// newPaletteFill creates a solid fill style and rewrites its foreground color
// to a palette or theme reference, the way spreadsheet applications store them
func newPaletteFill(t *testing.T, f *excelize.File, rgb string, indexed int, theme *int) int {
	t.Helper()
	id, err := f.NewStyle(&excelize.Style{Fill: excelize.Fill{Type: "pattern", Color: []string{rgb}, Pattern: 1}})
	require.NoError(t, err)
	fillID := f.Styles.CellXfs.Xf[id].FillID
	require.NotNil(t, fillID)
	fg := f.Styles.Fills.Fill[*fillID].PatternFill.FgColor
	require.NotNil(t, fg)
	fg.RGB = ""
	fg.Indexed = indexed
	fg.Theme = theme
	return id
}

func TestFillEncodings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "palette.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for cell, v := range map[string]string{"A1": "name", "A2": "Ana", "A3": "Budi", "A4": "Citra", "A5": "Dewi"} {
		require.NoError(t, f.SetCellValue(sheet, cell, v))
	}
	theme := 5
	maroon := newPaletteFill(t, f, "111111", 10, nil)
	silver := newPaletteFill(t, f, "222222", 16, nil)
	accent := newPaletteFill(t, f, "333333", 0, &theme)
	require.NoError(t, f.SetCellStyle(sheet, "A2", "A2", maroon))
	require.NoError(t, f.SetCellStyle(sheet, "A3", "A3", silver))
	require.NoError(t, f.SetCellStyle(sheet, "A4", "A4", accent))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	repo, err := Open(path)
	require.NoError(t, err)
	defer repo.Close()

	tests := []struct {
		row    int
		want   color.Descriptor
		bucket color.Bucket
	}{
		{1, color.Indexed(10), color.Other},
		{2, color.Indexed(16), color.White},
		{3, color.Theme(5), color.Red},
	}
	for _, tt := range tests {
		d, ok := repo.Fill(tt.row, 0)
		require.True(t, ok, "row %d", tt.row)
		assert.Equal(t, tt.want, d, "row %d", tt.row)
		assert.Equal(t, tt.bucket, color.Classify(d), "row %d", tt.row)
	}

	_, ok := repo.Fill(4, 0)
	assert.False(t, ok)
}

func TestOpenMissing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "missing.xlsx"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestIsDateFormat(t *testing.T) {
	assert.True(t, isDateFormat("dd/mm/yyyy"))
	assert.True(t, isDateFormat("[$-409]d-mmm-yy;@"))
	assert.False(t, isDateFormat("h:mm:ss"))
	assert.False(t, isDateFormat(`0.00" days"`))
	assert.False(t, isDateFormat("#,##0"))

	assert.True(t, isBuiltInDateFormat(14))
	assert.True(t, isBuiltInDateFormat(22))
	assert.False(t, isBuiltInDateFormat(2))
}
