package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/antlbn/Timezone-bot/assets"
)

// Language is one language's trigger tables for the capture pipeline.
type Language struct {
	Code     string   `yaml:"code"`
	Keywords []string `yaml:"keywords"`
	Strong   []string `yaml:"strong"`
}

// CaptureTables holds the data-driven part of the capture pipeline:
// strict regex patterns plus per-language keyword sets.
type CaptureTables struct {
	Patterns  []string   `yaml:"patterns"`
	Languages []Language `yaml:"languages"`
}

// LoadCaptureTables reads capture tables from path, or the embedded
// default when path is empty. Patterns are validated by compiling them.
func LoadCaptureTables(path string) (CaptureTables, error) {
	var raw []byte
	var err error
	if path == "" {
		raw = assets.DefaultCapture()
	} else {
		raw, err = os.ReadFile(path)
		if err != nil {
			return CaptureTables{}, err
		}
	}

	var t CaptureTables
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return CaptureTables{}, fmt.Errorf("capture tables: %w", err)
	}
	if len(t.Patterns) == 0 {
		return CaptureTables{}, errors.New("capture tables: no patterns")
	}
	for _, p := range t.Patterns {
		if _, err := regexp.Compile(p); err != nil {
			return CaptureTables{}, fmt.Errorf("capture pattern %q: %w", p, err)
		}
	}
	return t, nil
}
