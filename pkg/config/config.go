// Package config provides YAML-based configuration loading with environment variable expansion.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Validator is an interface for configuration validation.
type Validator interface {
	Validate() error
}

// Load loads configuration from a YAML file with environment variable expansion.
func Load[T any](filename string, target *T) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", filename, err)
	}

	expandedData := os.ExpandEnv(string(data))

	if err := yaml.Unmarshal([]byte(expandedData), target); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", filename, err)
	}

	return validate(target)
}

// LoadOptional loads the first existing file among filename and the
// discovery locations of name. When none exists target keeps its values
// and is only validated. It returns the file used, "" if none.
func LoadOptional[T any](filename, name string, target *T) (string, error) {
	candidates := append([]string{filename}, Locate(name)...)
	for _, c := range candidates {
		if c == "" {
			continue
		}
		if _, err := os.Stat(c); errors.Is(err, os.ErrNotExist) {
			continue
		}
		return c, Load(c, target)
	}
	return "", validate(target)
}

// Locate returns the discovery locations of the config file called name,
// most specific first: $XDG_CONFIG_HOME, ~/.config, then ~.
func Locate(name string) []string {
	var dirs []string
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		dirs = append(dirs, xdg)
	}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".config"), home)
	}

	out := make([]string, 0, 2*len(dirs))
	for _, d := range dirs {
		out = append(out,
			filepath.Join(d, name+".yaml"),
			filepath.Join(d, name+".yml"))
	}
	return out
}

func validate(target any) error {
	if validator, ok := target.(Validator); ok {
		if err := validator.Validate(); err != nil {
			return fmt.Errorf("config validation failed: %w", err)
		}
	}
	return nil
}
