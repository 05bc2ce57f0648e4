package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"sheetclean/internal/normalize"
	"sheetclean/internal/sheet"
)

// Config holds the settings every command shares. Paths are usually overridden
// by command arguments.
type Config struct {
	InputPath           string
	OutputPath          string
	BatchInputDir       string
	BatchOutputDir      string
	EmailDomain         string
	CoordinatePrecision int
	SheetName           string
	LogLevel            string
	Color               bool
	LocalColorNames     bool
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		BatchInputDir:       "jsonuser",
		BatchOutputDir:      "data-excel",
		EmailDomain:         normalize.DefaultEmailDomain,
		CoordinatePrecision: normalize.DefaultPrecision,
		SheetName:           sheet.DefaultSheetName,
		LogLevel:            "info",
	}
}

// Load reads configuration from environment variables (optionally .env)
func Load() (Config, error) {
	_ = godotenv.Load() // ignore missing file

	cfg := Default()

	cfg.InputPath = os.Getenv("SHEETCLEAN_INPUT")
	cfg.OutputPath = os.Getenv("SHEETCLEAN_OUTPUT")

	if dir := os.Getenv("SHEETCLEAN_BATCH_INPUT_DIR"); dir != "" {
		cfg.BatchInputDir = dir
	}
	if dir := os.Getenv("SHEETCLEAN_BATCH_OUTPUT_DIR"); dir != "" {
		cfg.BatchOutputDir = dir
	}

	if domain := os.Getenv("SHEETCLEAN_EMAIL_DOMAIN"); domain != "" {
		domain = strings.TrimPrefix(strings.TrimSpace(domain), "@")
		if domain == "" || !strings.Contains(domain, ".") {
			return cfg, fmt.Errorf("invalid SHEETCLEAN_EMAIL_DOMAIN: %s", domain)
		}
		cfg.EmailDomain = domain
	}

	if precStr := os.Getenv("SHEETCLEAN_COORDINATE_PRECISION"); precStr != "" {
		if prec, err := strconv.Atoi(precStr); err == nil && prec >= 0 && prec <= 15 {
			cfg.CoordinatePrecision = prec
		} else {
			return cfg, fmt.Errorf("invalid SHEETCLEAN_COORDINATE_PRECISION: %s", precStr)
		}
	}

	if name := os.Getenv("SHEETCLEAN_SHEET_NAME"); name != "" {
		cfg.SheetName = name
	}

	if level := os.Getenv("LOG_LEVEL"); level != "" {
		cfg.LogLevel = level
	}

	if v := os.Getenv("SHEETCLEAN_COLOR"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid SHEETCLEAN_COLOR: %s", v)
		}
		cfg.Color = b
	}
	if v := os.Getenv("SHEETCLEAN_LOCAL_COLOR_NAMES"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid SHEETCLEAN_LOCAL_COLOR_NAMES: %s", v)
		}
		cfg.LocalColorNames = b
	}

	return cfg, nil
}
