package game

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is a record file encoding.
type Format string

// Supported record formats
const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// RecordFile is the on-disk layout of exported games.
type RecordFile struct {
	Summary *Summary  `json:"summary,omitempty" yaml:"summary,omitempty"`
	Games   []*Record `json:"games" yaml:"games"`
}

// FormatFromPath picks the format from a file extension, defaulting to YAML.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	default:
		return FormatYAML
	}
}

// WriteRecords encodes f to w.
func WriteRecords(w io.Writer, format Format, f *RecordFile) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(f)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(f); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unknown record format %q", format)
}

// ReadRecords decodes a record file from r.
func ReadRecords(r io.Reader, format Format) (*RecordFile, error) {
	var f RecordFile
	var err error
	switch format {
	case FormatJSON:
		err = json.NewDecoder(r).Decode(&f)
	case FormatYAML:
		err = yaml.NewDecoder(r).Decode(&f)
	default:
		return nil, fmt.Errorf("unknown record format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s records: %w", format, err)
	}
	return &f, nil
}
