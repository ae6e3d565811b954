package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FileName is the configuration file looked up in the working directory and
// then in the home directory.
const FileName = ".gitgraph.json"

// Config is the root configuration structure.
type Config struct {
	Graph   GraphConfig  `json:"graph"`
	Filters FilterConfig `json:"filters"`
	Style   StyleConfig  `json:"style"`
	Output  OutputConfig `json:"output"`
	Watch   WatchConfig  `json:"watch"`
}

// GraphConfig holds graph building options.
type GraphConfig struct {
	Backend          string `json:"backend"`          // "go-git" or "git"
	MinShortIDLength int    `json:"minShortIdLength"` // Default: 4
	ShowIndex        bool   `json:"showIndex"`
}

// FilterConfig holds reference filtering options. Patterns are doublestar
// globs over short reference names such as "main" or "origin/feature/*".
type FilterConfig struct {
	Include []string `json:"include"`
	Exclude []string `json:"exclude"`
}

// StyleConfig overrides graphviz attributes. Nodes is keyed by node style
// (commit, local-branch, remote-branch, tag, head-attached, head-detached, index)
// and Edges by edge style (parent, merge-parent, reference, tracking).
// An empty attribute value removes the default.
type StyleConfig struct {
	RankDir string                       `json:"rankDir"`
	Node    map[string]string            `json:"node,omitempty"`
	Edge    map[string]string            `json:"edge,omitempty"`
	Nodes   map[string]map[string]string `json:"nodes,omitempty"`
	Edges   map[string]map[string]string `json:"edges,omitempty"`
}

// OutputConfig holds output options.
type OutputConfig struct {
	Format string `json:"format"` // dot, json, mermaid, console
	Path   string `json:"path"`
	Image  string `json:"image"` // graphviz -T type; empty skips rendering
	Open   bool   `json:"open"`
	Viewer string `json:"viewer"` // command used instead of the platform opener
}

// WatchConfig holds watch mode options.
type WatchConfig struct {
	DebounceMillis int `json:"debounceMillis"`
}

// Debounce returns the watch delay as a duration.
func (w WatchConfig) Debounce() time.Duration {
	return time.Duration(w.DebounceMillis) * time.Millisecond
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		Graph: GraphConfig{
			Backend:          "go-git",
			MinShortIDLength: 4,
		},
		Filters: FilterConfig{
			Include: []string{},
			Exclude: []string{"*/HEAD"},
		},
		Style: StyleConfig{
			RankDir: "RL",
		},
		Output: OutputConfig{
			Format: "dot",
		},
		Watch: WatchConfig{
			DebounceMillis: 350,
		},
	}
}

// Validate reports the first invalid value.
func (c *Config) Validate() error {
	if c.Graph.MinShortIDLength < 1 || c.Graph.MinShortIDLength > 64 {
		return fmt.Errorf("graph.minShortIdLength must be between 1 and 64, got %d", c.Graph.MinShortIDLength)
	}
	switch strings.ToUpper(c.Style.RankDir) {
	case "", "TB", "BT", "LR", "RL":
	default:
		return fmt.Errorf("style.rankDir must be one of TB, BT, LR, RL, got %q", c.Style.RankDir)
	}
	if c.Watch.DebounceMillis < 0 {
		return fmt.Errorf("watch.debounceMillis must not be negative, got %d", c.Watch.DebounceMillis)
	}
	return nil
}

// LoadConfig loads configuration from a file, merging with defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		// Try default locations
		candidates := []string{FileName}
		if home, err := os.UserHomeDir(); err == nil && home != "" {
			candidates = append(candidates, filepath.Join(home, FileName))
		} else if envHome := os.Getenv("HOME"); envHome != "" {
			candidates = append(candidates, filepath.Join(envHome, FileName))
		}
		for _, p := range candidates {
			if _, err := os.Stat(p); err == nil {
				path = p
				break
			}
		}
	}

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// SaveConfig saves configuration to a file.
func SaveConfig(cfg *Config, path string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
