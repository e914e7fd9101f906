package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// File is the on-disk parameter file.
type File struct {
	Parameters    map[string]any  `yaml:"parameters"`
	AcceptedRisks []RiskException `yaml:"acceptedRisks"`
}

// LoadFile reads a YAML parameter file. overrides (typically CLI --set
// values) win over file values. Defaults are applied and the result is
// validated.
func LoadFile(path string, overrides map[string]string) (*Parameters, error) {
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read parameter file: %w", err)
	}
	return LoadFromBytes(data, overrides)
}

// LoadFromBytes parses parameter file content.
func LoadFromBytes(data []byte, overrides map[string]string) (*Parameters, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
	}

	raw := make(map[string]string, len(f.Parameters)+len(overrides))
	for k, v := range f.Parameters {
		switch val := v.(type) {
		case nil:
		case []any:
			parts := make([]string, 0, len(val))
			for _, item := range val {
				parts = append(parts, fmt.Sprint(item))
			}
			raw[k] = strings.Join(parts, ",")
		case map[string]any:
			return nil, fmt.Errorf("parameter %s must be a scalar or a list", k)
		default:
			raw[k] = fmt.Sprint(val)
		}
	}
	for k, v := range overrides {
		if canonical, ok := Aliases[k]; ok {
			delete(raw, canonical)
		}
		for alias, canonical := range Aliases {
			if canonical == k {
				delete(raw, alias)
			}
		}
		raw[k] = v
	}

	return Build(raw, f.AcceptedRisks)
}

// Build decodes raw parameters, attaches risks (nil selects the defaults),
// applies defaults and validates.
func Build(raw map[string]string, risks []RiskException) (*Parameters, error) {
	p, err := FromMap(raw)
	if err != nil {
		return nil, err
	}
	p.AcceptedRisks = risks
	p.ApplyDefaults()
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("parameter validation failed: %w", err)
	}
	return p, nil
}

// ParseSetFlags turns key=value pairs into a map.
func ParseSetFlags(pairs []string) (map[string]string, error) {
	out := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		k, v, ok := strings.Cut(pair, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("invalid --set value %q, expected key=value", pair)
		}
		out[k] = v
	}
	return out, nil
}
