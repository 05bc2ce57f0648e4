package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"sheetclean/internal/cleaner"
	"sheetclean/internal/config"
	"sheetclean/internal/convert"
	"sheetclean/internal/logger"
	"sheetclean/internal/matcher"
	"sheetclean/internal/record"
	"sheetclean/internal/store"
)

// app carries what every command needs once flags are parsed
type app struct {
	cfg config.Config
	log zerolog.Logger
	out io.Writer
}

func (a *app) service() *convert.Service {
	return convert.NewService(convert.Options{
		SheetName:       a.cfg.SheetName,
		Color:           a.cfg.Color,
		LocalColorNames: a.cfg.LocalColorNames,
		Cleaner: cleaner.Options{
			Fields:      cleaner.DefaultFields(),
			EmailDomain: a.cfg.EmailDomain,
			Precision:   a.cfg.CoordinatePrecision,
		},
	}, a.log)
}

// input returns the first argument, falling back to the configured input path
func (a *app) input(args []string) (string, error) {
	in := optionalArg(args, 0, a.cfg.InputPath)
	if in == "" {
		return "", fmt.Errorf("no input file: pass one as an argument or set SHEETCLEAN_INPUT")
	}
	return in, nil
}

// Execute runs the command line interface
func Execute() error {
	return newRootCmd(os.Stdout).Execute()
}

func newRootCmd(out io.Writer) *cobra.Command {
	a := &app{out: out}

	var (
		logLevel    string
		sheetName   string
		emailDomain string
		precision   int
	)

	rootCmd := &cobra.Command{
		Use:           "sheetclean",
		Short:         "Convert, clean and compare spreadsheet and JSON record files",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("log-level") {
				cfg.LogLevel = logLevel
			}
			if flags.Changed("sheet") {
				cfg.SheetName = sheetName
			}
			if flags.Changed("email-domain") {
				cfg.EmailDomain = emailDomain
			}
			if flags.Changed("precision") {
				if precision < 0 {
					return fmt.Errorf("invalid precision: %d", precision)
				}
				cfg.CoordinatePrecision = precision
			}
			a.cfg = cfg
			a.log = logger.New(os.Stderr, cfg.LogLevel)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	pf.StringVar(&sheetName, "sheet", "Data", "Sheet name for Excel output")
	pf.StringVar(&emailDomain, "email-domain", "gmail.com", "Domain appended to bare email usernames")
	pf.IntVar(&precision, "precision", 6, "Decimal places for cleaned coordinates")

	rootCmd.AddCommand(
		newExcelToJSONCmd(a),
		newJSONToExcelCmd(a),
		newBatchCmd(a),
		newCleanCmd(a),
		newCompareCmd(a),
		newMatchCmd(a),
		newExportCmd(a),
	)
	return rootCmd
}

func newExcelToJSONCmd(a *app) *cobra.Command {
	var withColor, localNames bool
	cmd := &cobra.Command{
		Use:   "xlsx2json [excel_file] [json_file]",
		Short: "Convert the first sheet of an Excel file to JSON",
		Args:  cobra.RangeArgs(0, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := a.input(args)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("color") {
				a.cfg.Color = withColor
			}
			if cmd.Flags().Changed("local-color-names") {
				a.cfg.LocalColorNames = localNames
			}
			summary, err := a.service().ExcelToJSON(in, optionalArg(args, 1, a.cfg.OutputPath))
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Converted to %s (%d records)\n", summary.Output, summary.Records)
			if a.cfg.Color {
				fmt.Fprintf(a.out, "%d/%d records have color info from first column\n", summary.Colored, summary.Records)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&withColor, "color", false, "Add a color field from the first column's fill")
	cmd.Flags().BoolVar(&localNames, "local-color-names", false, "Use Indonesian color names")
	return cmd
}

func newJSONToExcelCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "json2xlsx [json_file] [excel_file]",
		Short: "Convert a JSON record list to a styled Excel sheet",
		Args:  cobra.RangeArgs(0, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := a.input(args)
			if err != nil {
				return err
			}
			out, err := a.service().JSONToExcel(in, optionalArg(args, 1, a.cfg.OutputPath))
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Excel file %s has been created\n", out)
			return nil
		},
	}
}

func newBatchCmd(a *app) *cobra.Command {
	var inDir, outDir string
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Convert every JSON file in a folder to Excel",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("in") {
				inDir = a.cfg.BatchInputDir
			}
			if !cmd.Flags().Changed("out") {
				outDir = a.cfg.BatchOutputDir
			}
			summary, err := a.service().Batch(inDir, outDir)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Successfully converted: %d files\n", len(summary.Converted))
			fmt.Fprintf(a.out, "Failed to convert: %d files\n", len(summary.Failed))
			fmt.Fprintf(a.out, "Excel files saved in: %s\n", outDir)
			if len(summary.Failed) > 0 {
				return fmt.Errorf("%d of %d files failed", len(summary.Failed), len(summary.Failed)+len(summary.Converted))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&inDir, "in", "jsonuser", "Folder with JSON files")
	cmd.Flags().StringVar(&outDir, "out", "data-excel", "Folder for Excel files")
	return cmd
}

func newCleanCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clean [input_file] [output_file]",
		Short: "Normalize names, coordinates, PTKP codes, emails and dates",
		Args:  cobra.RangeArgs(0, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := a.input(args)
			if err != nil {
				return err
			}
			summary, err := a.service().Clean(in, optionalArg(args, 1, a.cfg.OutputPath))
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Data has been cleaned and saved to %s (%d records, %d warnings)\n",
				summary.Output, summary.Records, len(summary.Warnings))
			return nil
		},
	}
}

func newCompareCmd(a *app) *cobra.Command {
	var keyA, keyB, details string
	cmd := &cobra.Command{
		Use:   "compare <file1> <file2>",
		Short: "Compare the names in two record files",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := a.service()
			first, err := svc.Load(args[0])
			if err != nil {
				return err
			}
			second, err := svc.Load(args[1])
			if err != nil {
				return err
			}
			res := matcher.Match(first, second, keyA, keyB)
			printComparison(a.out, args[0], args[1], res, splitFields(details))
			return nil
		},
	}
	cmd.Flags().StringVar(&keyA, "key-a", "name", "Name field in the first file")
	cmd.Flags().StringVar(&keyB, "key-b", "name", "Name field in the second file")
	cmd.Flags().StringVar(&details, "details", "id,client_id", "Comma separated fields shown for common names")
	return cmd
}

func newMatchCmd(a *app) *cobra.Command {
	var keyA, keyB string
	cmd := &cobra.Command{
		Use:   "match <reference_file> <candidates_file> [output_file]",
		Short: "Keep the candidate records whose name appears in the reference file",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := a.service()
			reference, err := svc.Load(args[0])
			if err != nil {
				return err
			}
			candidates, err := svc.Load(args[1])
			if err != nil {
				return err
			}
			matched := matcher.Filter(reference, candidates, keyA, keyB)
			out := optionalArg(args, 2, "matched_users.json")
			if err := svc.Save(out, matched); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "%d matching records saved to %s\n", len(matched), out)
			return nil
		},
	}
	cmd.Flags().StringVar(&keyA, "key-a", "name", "Name field in the reference file")
	cmd.Flags().StringVar(&keyB, "key-b", "nama ", "Name field in the candidates file")
	return cmd
}

func newExportCmd(a *app) *cobra.Command {
	var table string
	var clean bool
	cmd := &cobra.Command{
		Use:   "export-sqlite <input_file> <database>",
		Short: "Write records into a SQLite table",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := a.service()
			records, err := svc.Load(args[0])
			if err != nil {
				return err
			}
			if clean {
				svc.CleanRecords(records)
			}
			n, err := store.Export(context.Background(), args[1], table, nil, records)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "%d records written to %s (table %s)\n", n, args[1], table)
			return nil
		},
	}
	cmd.Flags().StringVar(&table, "table", store.DefaultTable, "Table name")
	cmd.Flags().BoolVar(&clean, "clean", false, "Normalize fields before exporting")
	return cmd
}

func printComparison(w io.Writer, nameA, nameB string, res matcher.Result, details []string) {
	fmt.Fprintf(w, "=== NAME COMPARISON BETWEEN %s AND %s ===\n\n", nameA, nameB)
	fmt.Fprintf(w, "Total names in %s: %d\n", nameA, res.FirstCount)
	fmt.Fprintf(w, "Total names in %s: %d\n", nameB, res.SecondCount)
	fmt.Fprintf(w, "Common names: %d\n\n", len(res.Common))

	if len(res.Common) > 0 {
		fmt.Fprintln(w, "COMMON NAMES:")
		fmt.Fprintln(w, strings.Repeat("-", 50))
		for i, name := range res.Common {
			fmt.Fprintf(w, "%2d. %s\n", i+1, name)
		}
	} else {
		fmt.Fprintln(w, "No common names between the two files.")
	}

	fmt.Fprintf(w, "\nNames only in %s: %d\n", nameA, len(res.OnlyFirst))
	fmt.Fprintf(w, "Names only in %s: %d\n", nameB, len(res.OnlySecond))

	if len(res.Pairs) == 0 || len(details) == 0 {
		return
	}
	fmt.Fprintln(w, "\n=== COMMON NAME DETAILS ===")
	fmt.Fprintln(w, strings.Repeat("-", 60))
	for _, p := range res.Pairs {
		fmt.Fprintf(w, "Name: %s\n", p.Name)
		fmt.Fprintf(w, "  %s - %s\n", nameA, describe(p.First, details))
		fmt.Fprintf(w, "  %s - %s\n", nameB, describe(p.Second, details))
		fmt.Fprintln(w)
	}
}

func describe(rec *record.Record, fields []string) string {
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		v, ok := rec.Get(f)
		if !ok {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %v", f, v))
	}
	if len(parts) == 0 {
		return "(no detail fields)"
	}
	return strings.Join(parts, ", ")
}

func splitFields(s string) []string {
	var fields []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			fields = append(fields, f)
		}
	}
	return fields
}

func optionalArg(args []string, i int, fallback string) string {
	if len(args) > i && args[i] != "" {
		return args[i]
	}
	return fallback
}
