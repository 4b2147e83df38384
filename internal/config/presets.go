package config

import (
	"os"
	"strings"

	"ballistix/domain/ballistics"
	"ballistix/internal/errors"

	"gopkg.in/yaml.v3"
)

// Preset is a named projectile description offered to the data-entry surfaces
type Preset struct {
	Name       string                      `yaml:"name" json:"name"`
	Projectile ballistics.ProjectileParams `yaml:",inline" json:"projectile"`
}

type presetFile struct {
	Presets []Preset `yaml:"presets"`
}

// DefaultPresetName names the standard 6 mm / 0.20 g BB
const DefaultPresetName = "6mm BB 0.20g"

// DefaultPresets are available even without a presets file
func DefaultPresets() []Preset {
	return []Preset{
		{Name: DefaultPresetName, Projectile: ballistics.DefaultProjectile},
		{Name: "6mm BB 0.25g", Projectile: ballistics.ProjectileParams{DiameterMm: 6, WeightGrams: 0.25}},
		{Name: "6mm BB 0.28g", Projectile: ballistics.ProjectileParams{DiameterMm: 6, WeightGrams: 0.28}},
		{Name: "4.5mm pellet 0.53g", Projectile: ballistics.ProjectileParams{DiameterMm: 4.5, WeightGrams: 0.53}},
	}
}

// LoadPresets reads presets from a YAML file; an empty path yields the defaults.
// Every preset is validated and names must be unique.
func LoadPresets(path string) ([]Preset, error) {
	if path == "" {
		return DefaultPresets(), nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read presets file %s", path)
	}
	return ParsePresets(raw)
}

// ParsePresets decodes a presets document
func ParsePresets(raw []byte) ([]Preset, error) {
	var doc presetFile
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, errors.WithCode(errors.CodeConfigInvalid, errors.Wrap(err, "invalid presets YAML"))
	}
	if len(doc.Presets) == 0 {
		return nil, errors.ConfigInvalid("presets file defines no presets")
	}

	seen := make(map[string]bool, len(doc.Presets))
	for _, p := range doc.Presets {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			return nil, errors.ConfigInvalid("preset name is required")
		}
		if seen[name] {
			return nil, errors.ConfigInvalid("duplicate preset: " + name)
		}
		seen[name] = true
		if err := ballistics.ValidateParams(p.Projectile); err != nil {
			return nil, errors.WithCode(errors.CodeConfigInvalid, errors.Wrapf(err, "preset %q", name))
		}
	}
	return doc.Presets, nil
}

// FindPreset looks a preset up by name (case-insensitive)
func FindPreset(presets []Preset, name string) (Preset, bool) {
	for _, p := range presets {
		if strings.EqualFold(p.Name, strings.TrimSpace(name)) {
			return p, true
		}
	}
	return Preset{}, false
}

// ResolveProjectile picks the projectile for a request: explicit parameters win,
// then a named preset, then the default projectile. An unknown preset is invalid input.
func ResolveProjectile(presets []Preset, presetName string, explicit *ballistics.ProjectileParams) (ballistics.ProjectileParams, error) {
	if explicit != nil && *explicit != (ballistics.ProjectileParams{}) {
		if err := ballistics.ValidateParams(*explicit); err != nil {
			return ballistics.ProjectileParams{}, err
		}
		return *explicit, nil
	}
	if strings.TrimSpace(presetName) != "" {
		p, ok := FindPreset(presets, presetName)
		if !ok {
			return ballistics.ProjectileParams{}, errors.InvalidInput("unknown preset: " + presetName)
		}
		return p.Projectile, nil
	}
	return ballistics.DefaultProjectile, nil
}
