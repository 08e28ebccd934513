package record

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadFile reads a list of records from a JSON or YAML file. The format
// is chosen by extension: .json for JSON, .yaml/.yml for YAML. Seed
// files and the save commands both go through here, so any well-formed
// batch of records is accepted regardless of origin.
func LoadFile(path string) ([]Record, error) {
	// #nosec G304 - controlled path from CLI
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read record file %s: %w", path, err)
	}

	var raw []map[string]any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse JSON record file %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse YAML record file %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported record file extension %q (want .json, .yaml, or .yml)", filepath.Ext(path))
	}

	records := make([]Record, len(raw))
	for i, m := range raw {
		records[i] = Record(m)
	}
	return records, nil
}
