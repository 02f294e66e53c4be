package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aristath/growthmap/internal/domain"
	"github.com/aristath/growthmap/internal/modules/scoring"
	"github.com/aristath/growthmap/pkg/embedded"
)

// DefaultPresetName names the preset matching domain.DefaultWeights
const DefaultPresetName = "default"

// Preset is a named weight vector
type Preset struct {
	Name        string              `yaml:"name" json:"name" msgpack:"name"`
	Description string              `yaml:"description" json:"description" msgpack:"description"`
	Weights     domain.WeightVector `yaml:",inline" json:"weights" msgpack:"weights"`
}

// LoadPresets reads presets from path, or the embedded defaults when path is empty
func LoadPresets(path string) ([]Preset, error) {
	data := embedded.Presets
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read presets file: %w", err)
		}
	}
	return ParsePresets(data)
}

// ParsePresets decodes a YAML preset list. Names must be unique and every
// weight vector must be normalizable.
func ParsePresets(data []byte) ([]Preset, error) {
	var presets []Preset
	if err := yaml.Unmarshal(data, &presets); err != nil {
		return nil, fmt.Errorf("failed to parse presets: %w", err)
	}

	seen := make(map[string]bool, len(presets))
	for i, p := range presets {
		name := strings.ToLower(strings.TrimSpace(p.Name))
		if name == "" {
			return nil, fmt.Errorf("preset %d has no name", i)
		}
		if seen[name] {
			return nil, fmt.Errorf("duplicate preset %q", p.Name)
		}
		seen[name] = true

		if _, err := scoring.Normalize(p.Weights); err != nil {
			return nil, fmt.Errorf("preset %q: %w", p.Name, err)
		}
		presets[i].Name = name
	}
	return presets, nil
}

// FindPreset looks a preset up by case-insensitive name
func FindPreset(presets []Preset, name string) (Preset, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, p := range presets {
		if p.Name == name {
			return p, true
		}
	}
	return Preset{}, false
}
