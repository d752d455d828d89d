package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Format identifies a configuration document encoding.
type Format string

// Supported document formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// DetectFormat picks the document format from a file path's extension.
// Unrecognized extensions are treated as JSON, the canonical format.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	default:
		return FormatJSON
	}
}

// ParseTree parses a raw document into an untyped key tree. Trees are the
// unit the migration engine works on: version detection and transforms see
// the document as written, before any typed decoding or defaulting.
func ParseTree(data []byte, format Format) (map[string]any, error) {
	tree := map[string]any{}

	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &tree)
	case FormatTOML:
		err = toml.Unmarshal(data, &tree)
	default:
		if len(bytes.TrimSpace(data)) == 0 {
			return tree, nil
		}
		err = json.Unmarshal(data, &tree)
	}
	if err != nil {
		return nil, err
	}
	return tree, nil
}

// FromTree decodes an untyped key tree into a typed configuration.
// Absent keys receive defaults; keys present in the document always win,
// including explicit zero values. Unknown keys are ignored so documents
// written by newer builds still load.
func FromTree(tree map[string]any) (*Config, error) {
	data, err := json.Marshal(tree)
	if err != nil {
		return nil, fmt.Errorf("encoding key tree: %w", err)
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("decoding configuration: %w", err)
	}
	return cfg, nil
}

// Decode parses a raw document straight into a typed configuration with
// defaults applied, skipping migration. Use the manager's load path for
// documents that may predate the current schema.
func Decode(data []byte, format Format) (*Config, error) {
	cfg := Default()

	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, cfg)
	case FormatTOML:
		err = toml.Unmarshal(data, cfg)
	default:
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// Encode serializes a configuration in the given format. JSON output is
// indented; it is the canonical form used for fingerprints and round-trip
// comparison.
func Encode(cfg *Config, format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		return yaml.Marshal(cfg)
	case FormatTOML:
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	}
}
