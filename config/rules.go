package config

import (
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v3"

	"gmaps-scraper/scraper/gmaps"
)

// LoadRules returns the default extraction rules overlaid with the YAML
// document at path. Keys missing from the file keep their defaults. An
// empty path returns the defaults unchanged.
func LoadRules(path string) (gmaps.Rules, error) {
	rules := gmaps.DefaultRules()
	if path == "" {
		return rules, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return rules, fmt.Errorf("config: read rules %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return rules, fmt.Errorf("config: parse rules %q: %w", path, err)
	}
	if err := rules.Validate(); err != nil {
		return rules, fmt.Errorf("config: rules %q: %w", path, err)
	}
	return rules, nil
}
