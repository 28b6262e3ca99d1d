package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"epubgen/src/internal/schema"
)

// Format identifies the encoding of a record file.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatForPath picks the record format from the file extension; anything
// other than .json is read as YAML.
func FormatForPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// LoadRecord reads a bibliographic record from path.
func LoadRecord(path string) (*schema.BibliographicRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	rec, err := DecodeRecord(data, FormatForPath(path))
	if err != nil {
		return nil, fmt.Errorf("invalid record in %s: %w", path, err)
	}
	return rec, nil
}

// DecodeRecord decodes a bibliographic record. Unknown keys are ignored.
func DecodeRecord(data []byte, format Format) (*schema.BibliographicRecord, error) {
	var rec schema.BibliographicRecord
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &rec); err != nil {
			return nil, err
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &rec); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown record format %q", format)
	}
	return &rec, nil
}

// WriteJSON writes v as indented JSON followed by a newline.
func WriteJSON(w io.Writer, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}
