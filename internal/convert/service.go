package convert

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"sheetclean/internal/cleaner"
	"sheetclean/internal/color"
	"sheetclean/internal/record"
	"sheetclean/internal/sheet"
)

// ColorField is the field filled from the first column's fill color
const ColorField = "color"

// legacyColorField holds a manually entered color in older sheets
const legacyColorField = "warna"

// Options configures a Service
type Options struct {
	SheetName string
	// Color adds the first column's fill color bucket to each record read from a sheet
	Color bool
	// LocalColorNames writes Indonesian bucket names instead of English ones
	LocalColorNames bool
	Cleaner         cleaner.Options
}

// Service converts and cleans record files
type Service struct {
	opts    Options
	cleaner *cleaner.Cleaner
	log     zerolog.Logger
}

// NewService creates a new service instance
func NewService(opts Options, log zerolog.Logger) *Service {
	return &Service{
		opts:    opts,
		cleaner: cleaner.New(opts.Cleaner, log),
		log:     log,
	}
}

// ExcelSummary describes one sheet conversion
type ExcelSummary struct {
	Output  string
	Records int
	Colored int
}

// BatchSummary describes a directory conversion
type BatchSummary struct {
	Converted []string
	Failed    map[string]error
}

// CleanSummary describes a cleaning run
type CleanSummary struct {
	Output string
	cleaner.Report
}

// IsSpreadsheet reports whether path has an Excel extension
func IsSpreadsheet(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm", ".xltx", ".xltm":
		return true
	}
	return false
}

// Load reads records from a JSON or Excel file depending on its extension
func (s *Service) Load(path string) ([]*record.Record, error) {
	if IsSpreadsheet(path) {
		return s.loadSheet(path)
	}

	records, warnings, err := record.LoadFile(path)
	if err != nil {
		return nil, err
	}
	for _, w := range warnings {
		s.log.Warn().Str("file", path).Int("element", w.Index).Msg(w.Reason + ", skipped")
	}
	return records, nil
}

// Save writes records as JSON or Excel depending on the extension of path
func (s *Service) Save(path string, records []*record.Record) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}
	if IsSpreadsheet(path) {
		header, rows := ToTable(records)
		return sheet.Writer{SheetName: s.opts.SheetName}.WriteFile(path, header, rows)
	}
	return record.WriteFile(path, records)
}

// ExcelToJSON converts the first sheet of an Excel file into a JSON record list.
// An empty output path derives the name from the input.
func (s *Service) ExcelToJSON(in, out string) (ExcelSummary, error) {
	if out == "" {
		suffix := ".json"
		if s.opts.Color {
			suffix = "_colored.json"
		}
		out = stem(in) + suffix
	}

	records, err := s.loadSheet(in)
	if err != nil {
		return ExcelSummary{}, err
	}

	summary := ExcelSummary{Output: out, Records: len(records)}
	if s.opts.Color {
		for _, rec := range records {
			if v, ok := rec.Get(ColorField); ok && v != nil {
				summary.Colored++
			}
		}
	}

	if err := s.Save(out, records); err != nil {
		return ExcelSummary{}, err
	}
	s.log.Info().Str("input", in).Str("output", out).Int("records", summary.Records).Msg("converted to JSON")
	return summary, nil
}

// JSONToExcel converts a JSON record list into a styled single-sheet workbook
func (s *Service) JSONToExcel(in, out string) (string, error) {
	if out == "" {
		out = stem(in) + ".xlsx"
	}
	records, err := s.Load(in)
	if err != nil {
		return "", err
	}
	if err := s.Save(out, records); err != nil {
		return "", err
	}
	s.log.Info().Str("input", in).Str("output", out).Int("records", len(records)).Msg("converted to Excel")
	return out, nil
}

// Batch converts every JSON file in inDir into an Excel file in outDir.
// A failing file is recorded and the remaining files are still converted.
func (s *Service) Batch(inDir, outDir string) (BatchSummary, error) {
	if _, err := os.Stat(inDir); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return BatchSummary{}, fmt.Errorf("%w: folder %s", record.ErrMissingFile, inDir)
		}
		return BatchSummary{}, err
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return BatchSummary{}, fmt.Errorf("creating output directory: %w", err)
	}

	files, err := filepath.Glob(filepath.Join(inDir, "*.json"))
	if err != nil {
		return BatchSummary{}, err
	}
	sort.Strings(files)

	summary := BatchSummary{Failed: make(map[string]error)}
	for _, file := range files {
		out := filepath.Join(outDir, strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))+".xlsx")
		if _, err := s.JSONToExcel(file, out); err != nil {
			s.log.Error().Err(err).Str("file", file).Msg("conversion failed")
			summary.Failed[file] = err
			continue
		}
		summary.Converted = append(summary.Converted, out)
	}
	return summary, nil
}

// Clean normalizes the known fields of every record in a file and writes the result.
// An empty output path writes <input>-clean.xlsx.
func (s *Service) Clean(in, out string) (CleanSummary, error) {
	if out == "" {
		out = stem(in) + "-clean.xlsx"
	}
	records, err := s.Load(in)
	if err != nil {
		return CleanSummary{}, err
	}

	report := s.CleanRecords(records)
	if err := s.Save(out, records); err != nil {
		return CleanSummary{}, err
	}
	s.log.Info().Str("input", in).Str("output", out).Int("records", report.Records).Int("warnings", len(report.Warnings)).Msg("cleaned")
	return CleanSummary{Output: out, Report: report}, nil
}

// CleanRecords normalizes records in place
func (s *Service) CleanRecords(records []*record.Record) cleaner.Report {
	return s.cleaner.CleanAll(records)
}

func (s *Service) loadSheet(path string) ([]*record.Record, error) {
	repo, err := sheet.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", record.ErrMissingFile, path)
		}
		return nil, err
	}
	defer repo.Close()

	header, rows, err := repo.Table()
	if err != nil {
		return nil, err
	}
	s.log.Debug().Str("file", path).Str("sheet", repo.SheetName()).Int("rows", repo.RowCount()).Msg("reading sheet")
	records := FromTable(header, rows, s.log)
	if s.opts.Color {
		s.addColors(repo, records)
	}
	return records, nil
}

// addColors sets the color field from the fill of each row's first cell.
// A manually entered warna value is used only when that cell has no fill;
// a fill that resolves to no color leaves the field null.
func (s *Service) addColors(repo *sheet.Repository, records []*record.Record) {
	for i, rec := range records {
		d, filled := repo.Fill(i+1, 0)
		bucket := color.None
		if filled {
			bucket = color.Classify(d)
		}

		switch {
		case bucket != color.None:
			name := string(bucket)
			if s.opts.LocalColorNames {
				name = bucket.Local()
			}
			rec.Set(ColorField, name)
		case !filled && hasValue(rec, legacyColorField):
			v, _ := rec.Get(legacyColorField)
			rec.Set(ColorField, v)
		default:
			rec.Set(ColorField, nil)
		}
	}
}

func hasValue(rec *record.Record, field string) bool {
	v, ok := rec.Get(field)
	if !ok || v == nil {
		return false
	}
	if s, isText := v.(string); isText {
		return strings.TrimSpace(s) != ""
	}
	return true
}

func stem(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path))
}
