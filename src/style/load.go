package style

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type fileEntry struct {
	Marker    string `yaml:"marker"`
	LineStyle string `yaml:"linestyle"`
	Color     string `yaml:"color"`
}

// LoadFile reads label: {marker, linestyle, color} entries from a YAML (or
// JSON) file and merges them over the default table. Fields left empty keep
// the default entry's value; new labels must set all three.
func LoadFile(path string) (Table, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read styles %s: %w", path, err)
	}
	t, err := Parse(b, Default())
	if err != nil {
		return nil, fmt.Errorf("styles %s: %w", path, err)
	}
	return t, nil
}

// Parse merges the YAML document b over base and returns the result.
// base is not modified.
func Parse(b []byte, base Table) (Table, error) {
	var entries map[string]fileEntry
	if err := yaml.Unmarshal(b, &entries); err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	out := base.Clone()
	for label, e := range entries {
		st, had := out[label]
		if e.Marker != "" {
			m, err := ParseMarker(e.Marker)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", label, err)
			}
			st.Marker = m
		} else if !had {
			return nil, fmt.Errorf("%s: marker required", label)
		}
		if e.LineStyle != "" {
			l, err := ParseLineStyle(e.LineStyle)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", label, err)
			}
			st.LineStyle = l
		} else if !had {
			return nil, fmt.Errorf("%s: linestyle required", label)
		}
		if e.Color != "" {
			c, err := ParseColor(e.Color)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", label, err)
			}
			st.Color = c
		} else if !had {
			return nil, fmt.Errorf("%s: color required", label)
		}
		out[label] = st
	}
	return out, nil
}
