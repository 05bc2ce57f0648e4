package sheet

import (
	"encoding/json"
	"fmt"
	"unicode/utf8"

	"github.com/spf13/cast"
	"github.com/xuri/excelize/v2"
)

const (
	// DefaultSheetName is used when the writer is given no sheet name
	DefaultSheetName = "Data"
	// HeaderFill is the header background color
	HeaderFill = "10B4B1"

	maxColumnWidth = 50
)

// Writer produces a single-sheet workbook with a styled, frozen header row
type Writer struct {
	SheetName string
}

// WriteFile writes header and rows to path. nil values leave the cell empty.
func (w Writer) WriteFile(path string, header []string, rows [][]interface{}) error {
	f := excelize.NewFile()
	defer f.Close()

	name := w.SheetName
	if name == "" {
		name = DefaultSheetName
	}
	if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}

	widths := make([]int, len(header))
	for col, h := range header {
		if err := setCell(f, name, col, 0, h); err != nil {
			return err
		}
		widths[col] = utf8.RuneCountInString(h)
	}

	for i, row := range rows {
		for col, v := range row {
			if v == nil || col >= len(header) {
				continue
			}
			v = cellValue(v)
			if err := setCell(f, name, col, i+1, v); err != nil {
				return err
			}
			if n := utf8.RuneCountInString(cast.ToString(v)); n > widths[col] {
				widths[col] = n
			}
		}
	}

	if err := w.style(f, name, len(header), len(rows), widths); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving file: %w", err)
	}
	return nil
}

func (w Writer) style(f *excelize.File, sheet string, cols, rows int, widths []int) error {
	if cols == 0 {
		return nil
	}
	lastCol, err := excelize.ColumnNumberToName(cols)
	if err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{HeaderFill}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
			WrapText:   true,
		},
	})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}
	if err := f.SetCellStyle(sheet, "A1", lastCol+"1", headerStyle); err != nil {
		return fmt.Errorf("styling header: %w", err)
	}

	if rows > 0 {
		bodyStyle, err := f.NewStyle(&excelize.Style{
			Alignment: &excelize.Alignment{Vertical: "center", WrapText: true},
		})
		if err != nil {
			return fmt.Errorf("creating body style: %w", err)
		}
		if err := f.SetCellStyle(sheet, "A2", fmt.Sprintf("%s%d", lastCol, rows+1), bodyStyle); err != nil {
			return fmt.Errorf("styling rows: %w", err)
		}
	}

	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("freezing header: %w", err)
	}

	for col, n := range widths {
		colName, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return err
		}
		width := n + 2
		if width > maxColumnWidth {
			width = maxColumnWidth
		}
		if err := f.SetColWidth(sheet, colName, colName, float64(width)); err != nil {
			return fmt.Errorf("setting column width: %w", err)
		}
	}
	return nil
}

func setCell(f *excelize.File, sheet string, col, row int, v interface{}) error {
	cell, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return err
	}
	if err := f.SetCellValue(sheet, cell, v); err != nil {
		return fmt.Errorf("writing cell %s: %w", cell, err)
	}
	return nil
}

// cellValue flattens nested values into their JSON text
func cellValue(v interface{}) interface{} {
	switch v.(type) {
	case map[string]interface{}, []interface{}:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(b)
	}
	return v
}
