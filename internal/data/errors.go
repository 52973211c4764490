package data

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrConfigLoad wraps every failure to read or parse a static data file.
var ErrConfigLoad = errors.New("config load")

// readYAML unmarshals the file at path into out. name labels the table in
// error messages.
func readYAML(path, name string, out any) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: read %s: %w", ErrConfigLoad, name, err)
	}
	if err := yaml.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: parse %s: %w", ErrConfigLoad, name, err)
	}
	return nil
}
