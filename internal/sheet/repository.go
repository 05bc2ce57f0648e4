package sheet

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"sheetclean/internal/color"
)

// ErrEmpty is returned for workbooks without sheets or rows
var ErrEmpty = errors.New("spreadsheet is empty")

// Kind is the inferred scalar type of a cell
type Kind int

const (
	KindEmpty Kind = iota
	KindText
	KindNumber
	KindBool
	KindDate
)

// Cell is one typed cell value
type Cell struct {
	Kind Kind
	// Text is the raw stored value, without number formatting applied
	Text string
	// Time is set for date cells stored as serial numbers
	Time time.Time
}

// Repository handles reading the first sheet of an Excel file
type Repository struct {
	file      *excelize.File
	sheetName string
	rows      [][]string
}

// Open opens an Excel file and loads the rows of its first sheet
func Open(path string) (*Repository, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("opening Excel file: %w", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening Excel file: %w", err)
	}

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		f.Close()
		return nil, fmt.Errorf("%w: no sheets found", ErrEmpty)
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("reading rows: %w", err)
	}

	if len(rows) == 0 {
		f.Close()
		return nil, fmt.Errorf("%w: no rows in sheet %s", ErrEmpty, sheetName)
	}

	return &Repository{
		file:      f,
		sheetName: sheetName,
		rows:      rows,
	}, nil
}

// Close closes the Excel file
func (r *Repository) Close() error {
	return r.file.Close()
}

// SheetName returns the sheet name
func (r *Repository) SheetName() string {
	return r.sheetName
}

// Header returns the first row with surrounding whitespace removed
func (r *Repository) Header() []string {
	header := make([]string, len(r.rows[0]))
	for i, h := range r.rows[0] {
		header[i] = strings.TrimSpace(h)
	}
	return header
}

// RowCount returns the number of data rows below the header
func (r *Repository) RowCount() int {
	return len(r.rows) - 1
}

// Table returns the header and every data row as typed cells, one per header column
func (r *Repository) Table() ([]string, [][]Cell, error) {
	header := r.Header()
	rows := make([][]Cell, 0, r.RowCount())
	for row := 1; row < len(r.rows); row++ {
		cells := make([]Cell, len(header))
		for col := range header {
			c, err := r.Cell(row, col)
			if err != nil {
				return nil, nil, err
			}
			cells[col] = c
		}
		rows = append(rows, cells)
	}
	return header, rows, nil
}

// Cell reads the typed value at a zero-based row and column; row 0 is the header
func (r *Repository) Cell(row, col int) (Cell, error) {
	axis, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return Cell{}, err
	}

	raw, err := r.file.GetCellValue(r.sheetName, axis, excelize.Options{RawCellValue: true})
	if err != nil {
		return Cell{}, fmt.Errorf("reading cell %s: %w", axis, err)
	}
	if raw == "" {
		return Cell{Kind: KindEmpty}, nil
	}

	typ, err := r.file.GetCellType(r.sheetName, axis)
	if err != nil {
		return Cell{}, fmt.Errorf("reading cell type %s: %w", axis, err)
	}

	switch typ {
	case excelize.CellTypeBool:
		return Cell{Kind: KindBool, Text: raw}, nil
	case excelize.CellTypeDate:
		return Cell{Kind: KindDate, Text: raw}, nil
	case excelize.CellTypeNumber, excelize.CellTypeUnset:
		serial, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return Cell{Kind: KindText, Text: raw}, nil
		}
		if r.isDateStyled(axis) {
			if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
				return Cell{Kind: KindDate, Text: raw, Time: t}, nil
			}
		}
		return Cell{Kind: KindNumber, Text: raw}, nil
	default:
		return Cell{Kind: KindText, Text: raw}, nil
	}
}

// Fill returns the fill color descriptor of a cell as encoded in the workbook,
// and whether the cell has a pattern fill at all
func (r *Repository) Fill(row, col int) (color.Descriptor, bool) {
	axis, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return color.Descriptor{}, false
	}
	idx, err := r.file.GetCellStyle(r.sheetName, axis)
	if err != nil || idx == 0 {
		return color.Descriptor{}, false
	}

	styles := r.file.Styles
	if styles == nil || styles.CellXfs == nil || styles.Fills == nil || idx >= len(styles.CellXfs.Xf) {
		return color.Descriptor{}, false
	}
	fillID := styles.CellXfs.Xf[idx].FillID
	if fillID == nil || *fillID < 0 || *fillID >= len(styles.Fills.Fill) {
		return color.Descriptor{}, false
	}
	fill := styles.Fills.Fill[*fillID]
	if fill == nil || fill.PatternFill == nil || fill.PatternFill.FgColor == nil {
		return color.Descriptor{}, false
	}
	if pt := fill.PatternFill.PatternType; pt == "" || pt == "none" {
		return color.Descriptor{}, false
	}

	fg := fill.PatternFill.FgColor
	switch {
	case fg.RGB != "":
		return color.RGB(fg.RGB), true
	case fg.Theme != nil:
		return color.Theme(*fg.Theme), true
	default:
		return color.Indexed(fg.Indexed), true
	}
}

func (r *Repository) styleAt(axis string) (*excelize.Style, bool) {
	idx, err := r.file.GetCellStyle(r.sheetName, axis)
	if err != nil || idx == 0 {
		return nil, false
	}
	style, err := r.file.GetStyle(idx)
	if err != nil || style == nil {
		return nil, false
	}
	return style, true
}

func (r *Repository) isDateStyled(axis string) bool {
	style, ok := r.styleAt(axis)
	if !ok {
		return false
	}
	if style.CustomNumFmt != nil {
		return isDateFormat(*style.CustomNumFmt)
	}
	return isBuiltInDateFormat(style.NumFmt)
}

// isBuiltInDateFormat covers the built-in number formats that render dates
func isBuiltInDateFormat(id int) bool {
	switch {
	case id >= 14 && id <= 17, id == 22:
		return true
	case id >= 27 && id <= 36, id >= 50 && id <= 58:
		return true
	}
	return false
}

// isDateFormat reports whether a custom format code has day or year tokens
// outside of quoted literals and bracketed sections
func isDateFormat(code string) bool {
	var b strings.Builder
	inQuote, inBracket := false, false
	for _, c := range strings.ToLower(code) {
		switch {
		case c == '"':
			inQuote = !inQuote
		case inQuote:
		case c == '[':
			inBracket = true
		case c == ']':
			inBracket = false
		case inBracket:
		default:
			b.WriteRune(c)
		}
	}
	plain := b.String()
	return strings.ContainsAny(plain, "dy")
}
