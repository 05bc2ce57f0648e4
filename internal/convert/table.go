package convert

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"sheetclean/internal/normalize"
	"sheetclean/internal/record"
	"sheetclean/internal/sheet"
)

// FromTable turns typed rows into records keyed by header, in header order.
// Date cells go through the date normalizer; a date that cannot be normalized
// keeps its raw text and is logged. Blank and repeated header names are renamed
// so that no column is lost.
func FromTable(header []string, rows [][]sheet.Cell, log zerolog.Logger) []*record.Record {
	header = uniqueHeader(header, log)
	records := make([]*record.Record, 0, len(rows))
	for i, row := range rows {
		rec := record.New()
		for col, name := range header {
			var c sheet.Cell
			if col < len(row) {
				c = row[col]
			}
			v, ok := cellValue(c)
			if !ok {
				log.Warn().Int("row", i+2).Str("column", name).Str("value", c.Text).Msg("unrecognized date, kept as text")
			}
			rec.Set(name, v)
		}
		records = append(records, rec)
	}
	return records
}

// uniqueHeader names a blank column "Unnamed: N" (N is the zero-based column)
// and a repeated name "name.1", "name.2" and so on
func uniqueHeader(header []string, log zerolog.Logger) []string {
	out := make([]string, len(header))
	seen := make(map[string]int, len(header))
	for _, name := range header {
		seen[name]++
	}
	used := make(map[string]bool, len(header))
	counts := make(map[string]int, len(header))
	for col, name := range header {
		renamed := name
		if strings.TrimSpace(name) == "" {
			renamed = fmt.Sprintf("Unnamed: %d", col)
		} else if used[name] {
			for {
				counts[name]++
				renamed = fmt.Sprintf("%s.%d", name, counts[name])
				if seen[renamed] == 0 && !used[renamed] {
					break
				}
			}
		}
		if renamed != name {
			log.Warn().Int("column", col+1).Str("header", name).Str("renamed", renamed).Msg("blank or repeated header renamed")
		}
		used[renamed] = true
		out[col] = renamed
	}
	return out
}

// ToTable lays records out as rows under their first-seen column order.
// Absent fields are nil.
func ToTable(records []*record.Record) ([]string, [][]interface{}) {
	header := record.Columns(records)
	rows := make([][]interface{}, 0, len(records))
	for _, rec := range records {
		row := make([]interface{}, len(header))
		for col, name := range header {
			if v, ok := rec.Get(name); ok {
				row[col] = v
			}
		}
		rows = append(rows, row)
	}
	return header, rows
}

// cellValue infers the scalar for a cell. ok is false only for unreadable dates.
func cellValue(c sheet.Cell) (interface{}, bool) {
	switch c.Kind {
	case sheet.KindEmpty:
		return nil, true
	case sheet.KindBool:
		b, err := strconv.ParseBool(strings.TrimSpace(c.Text))
		if err != nil {
			return c.Text, true
		}
		return b, true
	case sheet.KindNumber:
		return number(c.Text), true
	case sheet.KindDate:
		var out string
		var ok bool
		if !c.Time.IsZero() {
			out, ok = normalize.Date(c.Time)
		} else {
			out, ok = normalize.Date(c.Text)
		}
		return out, ok
	default:
		return c.Text, true
	}
}

func number(text string) interface{} {
	if i, err := strconv.ParseInt(text, 10, 64); err == nil {
		return i
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return text
	}
	if f == float64(int64(f)) && f >= -1<<53 && f <= 1<<53 {
		return int64(f)
	}
	return f
}
