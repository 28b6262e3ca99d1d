// Package inputs holds the record and build-configuration flags shared by the
// pubgen subcommands.
package inputs

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"epubgen/src/internal/config"
	"epubgen/src/internal/schema"
	"epubgen/src/internal/store"
)

// Flags are the command-line inputs common to every subcommand. Flag values
// override the configuration file.
type Flags struct {
	Record      string
	Config      string
	BaseURL     string
	OutputDir   string
	ImageDir    string
	Concurrency int
}

// Bind registers the flags on cmd.
func (f *Flags) Bind(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.Record, "record", "r", "", "Bibliographic record file (.yaml, .yml or .json)")
	fs.StringVarP(&f.Config, "config", "c", "", "Build configuration YAML file")
	fs.StringVar(&f.BaseURL, "base-url", "", "Base URL used to resolve the stylesheet (overrides config)")
	fs.StringVar(&f.OutputDir, "output-dir", "", "Output directory handed to the chapter transformer (default site)")
	fs.StringVar(&f.ImageDir, "image-dir", "", "Image directory handed to the chapter transformer (default img)")
	fs.IntVar(&f.Concurrency, "concurrency", 0, "Maximum concurrent chapter fetches (overrides config)")
}

// Load reads the record and the configuration and applies flag overrides.
func (f *Flags) Load() (*schema.BibliographicRecord, config.Build, error) {
	if strings.TrimSpace(f.Record) == "" {
		return nil, config.Build{}, errors.New("--record is required")
	}
	rec, err := store.LoadRecord(f.Record)
	if err != nil {
		return nil, config.Build{}, err
	}
	cfg := config.Default()
	if f.Config != "" {
		if cfg, err = config.Load(f.Config); err != nil {
			return nil, config.Build{}, err
		}
	}
	if f.BaseURL != "" {
		cfg.BaseURL = f.BaseURL
	}
	if f.OutputDir != "" {
		cfg.OutputDir = f.OutputDir
	}
	if f.ImageDir != "" {
		cfg.ImageDir = f.ImageDir
	}
	if f.Concurrency != 0 {
		cfg.Concurrency = f.Concurrency
	}
	if err := cfg.Validate(); err != nil {
		return nil, config.Build{}, err
	}
	return rec, cfg, nil
}
