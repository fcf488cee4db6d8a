package scholarship

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadProfile reads a StudentProfile from a YAML or JSON file, chosen by
// extension. Unknown keys are rejected so a typo does not silently drop a
// field.
func LoadProfile(path string) (StudentProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return StudentProfile{}, fmt.Errorf("read profile: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return parseProfileJSON(data)
	case ".yaml", ".yml", "":
		return parseProfileYAML(data)
	default:
		return StudentProfile{}, fmt.Errorf("unsupported profile format %q (use .yaml or .json)", filepath.Ext(path))
	}
}

func parseProfileYAML(data []byte) (StudentProfile, error) {
	var p StudentProfile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil {
		return StudentProfile{}, fmt.Errorf("parse profile yaml: %w", err)
	}
	return p, nil
}

func parseProfileJSON(data []byte) (StudentProfile, error) {
	var p StudentProfile
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&p); err != nil {
		return StudentProfile{}, fmt.Errorf("parse profile json: %w", err)
	}
	return p, nil
}
