package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Profile is an on-disk bundle of validate settings, so a ruleset and its
// flag gates can travel with the dataset they describe. Relative paths
// inside a profile resolve against the profile file's directory.
type Profile struct {
	Rules      string   `yaml:"rules"`
	Additional []string `yaml:"additional"`
	Flags      []string `yaml:"flags"`
	Ignores    []string `yaml:"ignores"`
	Stats      bool     `yaml:"stats"`
	Threads    int      `yaml:"threads"`
}

// LoadProfile reads a profile file and resolves its rule paths.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var profile Profile
	if err := yaml.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("parse profile %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	profile.Rules = resolveAgainst(dir, profile.Rules)
	for i, extra := range profile.Additional {
		profile.Additional[i] = resolveAgainst(dir, extra)
	}
	return &profile, nil
}

func resolveAgainst(dir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}
