// Package config holds the build configuration consumed by publication
// assembly, with YAML loading, defaults and validation.
package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	DefaultOutputDir      = "site"
	DefaultImageDir       = "img"
	DefaultLocalAuthority = "http://localhost:1313"
	DefaultConcurrency    = 4
	DefaultFetchTimeout   = 30 * time.Second
	DefaultRetryAttempts  = 3
	DefaultRetryBackoff   = 250 * time.Millisecond
	DefaultMaxBackoff     = 4 * time.Second
)

// Build is the build configuration. OutputDir and ImageDir are handed to the
// chapter transformer; BaseURL and LocalAuthority resolve the stylesheet URL.
type Build struct {
	OutputDir      string        `yaml:"outputDir" json:"outputDir"`
	ImageDir       string        `yaml:"imageDir" json:"imageDir"`
	BaseURL        string        `yaml:"baseURL" json:"baseURL"`
	LocalAuthority string        `yaml:"localAuthority" json:"localAuthority" validate:"required,url"`
	Concurrency    int           `yaml:"concurrency" json:"concurrency" validate:"min=1,max=64"`
	FetchTimeout   time.Duration `yaml:"fetchTimeout" json:"fetchTimeout" validate:"min=0"`
	Retry          Retry         `yaml:"retry" json:"retry"`
	RateLimit      RateLimit     `yaml:"rateLimit" json:"rateLimit"`
}

// Retry controls how often a transient chapter fetch failure is retried.
// Attempts counts the first try; Backoff doubles after every failure up to
// MaxBackoff.
type Retry struct {
	Attempts   int           `yaml:"attempts" json:"attempts" validate:"min=1,max=10"`
	Backoff    time.Duration `yaml:"backoff" json:"backoff" validate:"min=0"`
	MaxBackoff time.Duration `yaml:"maxBackoff" json:"maxBackoff" validate:"gtefield=Backoff"`
}

// RateLimit caps outbound chapter requests. RPS 0 disables limiting.
type RateLimit struct {
	RPS   float64 `yaml:"rps" json:"rps" validate:"min=0"`
	Burst int     `yaml:"burst" json:"burst" validate:"min=0"`
}

// Default returns the configuration used when no file is given.
func Default() Build {
	return Build{
		OutputDir:      DefaultOutputDir,
		ImageDir:       DefaultImageDir,
		LocalAuthority: DefaultLocalAuthority,
		Concurrency:    DefaultConcurrency,
		FetchTimeout:   DefaultFetchTimeout,
		Retry: Retry{
			Attempts:   DefaultRetryAttempts,
			Backoff:    DefaultRetryBackoff,
			MaxBackoff: DefaultMaxBackoff,
		},
		RateLimit: RateLimit{Burst: 1},
	}
}

// Load reads a YAML configuration file. Keys missing from the file keep their
// default values.
func Load(path string) (Build, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Build{}, err
	}
	return Parse(b)
}

// Parse decodes YAML configuration bytes, applies defaults and validates.
func Parse(b []byte) (Build, error) {
	cfg := Default()
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Build{}, fmt.Errorf("config: %w", err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return Build{}, err
	}
	return cfg, nil
}

// ApplyDefaults fills zero-valued fields with their defaults. FetchTimeout and
// the rate limit are left alone since zero means "none" for them.
func (c *Build) ApplyDefaults() {
	if strings.TrimSpace(c.OutputDir) == "" {
		c.OutputDir = DefaultOutputDir
	}
	if strings.TrimSpace(c.ImageDir) == "" {
		c.ImageDir = DefaultImageDir
	}
	if strings.TrimSpace(c.LocalAuthority) == "" {
		c.LocalAuthority = DefaultLocalAuthority
	}
	if c.Concurrency == 0 {
		c.Concurrency = DefaultConcurrency
	}
	if c.Retry.Attempts == 0 {
		c.Retry.Attempts = DefaultRetryAttempts
	}
	if c.Retry.MaxBackoff == 0 && c.Retry.Backoff > 0 {
		c.Retry.MaxBackoff = max(c.Retry.Backoff, DefaultMaxBackoff)
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report YAML key names rather than Go field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("yaml"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

// Validate checks field ranges and returns a single error listing every
// offending key.
func (c Build) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("config: %w", err)
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fieldPath(fe)+" "+friendlyMessage(fe))
	}
	sort.Strings(msgs)
	return fmt.Errorf("config: invalid %s", strings.Join(msgs, "; "))
}

func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

func friendlyMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "url":
		return "must be an absolute URL"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must not exceed %s", fe.Param())
	case "gtefield":
		return fmt.Sprintf("must not be less than %s", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

// DetermineBaseURL normalizes the configured base URL; an empty value means
// the site root.
func DetermineBaseURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "/"
	}
	return raw
}
