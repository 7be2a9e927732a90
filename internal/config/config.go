// Package config loads optional default values for the CLI flags from a
// YAML overlay file, in the style of jeremyhahn-go-keychain's
// internal/config package. The overlay is a convenience: CLI flags always
// take precedence, and a missing file is not an error.
package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultFileName is the overlay file this package looks for in the
// current working directory.
const DefaultFileName = ".shadowsplit.yaml"

// Defaults holds the subset of CLI flags that can be pre-filled from the
// overlay file. Zero values mean "not set" and are left for the CLI's own
// hardcoded defaults (see spec.md §6: seed 691, dir "./").
type Defaults struct {
	Seed *uint16 `yaml:"seed,omitempty"`
	Dir  string  `yaml:"dir,omitempty"`
	K    *int    `yaml:"k,omitempty"`
	N    *int    `yaml:"n,omitempty"`
}

// Load reads path (defaulting to DefaultFileName when path is empty) and
// parses it as a Defaults overlay. A missing file yields a zero Defaults
// and no error; a present-but-malformed file is an error.
func Load(path string) (Defaults, error) {
	if path == "" {
		path = DefaultFileName
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Defaults{}, nil
		}
		return Defaults{}, err
	}

	var d Defaults
	if err := yaml.Unmarshal(data, &d); err != nil {
		return Defaults{}, err
	}
	return d, nil
}
