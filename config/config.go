// Package config provides configuration loading and management for RecipeGraph.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

// Config represents the complete RecipeGraph configuration
type Config struct {
	Sources   SourcesConfig   `yaml:"sources"`
	Linkage   LinkageConfig   `yaml:"linkage"`
	Normalize NormalizeConfig `yaml:"normalize"`
	Output    OutputConfig    `yaml:"output"`
	Store     StoreConfig     `yaml:"store"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

// SourcesConfig configures the input datasets
type SourcesConfig struct {
	// Datasets lists the per-source graph documents to unify
	Datasets []SourceConfig `yaml:"datasets"`
	// ToleratePartial lets a run proceed when a source fails to parse or is
	// empty; the failure is recorded in the run summary instead of aborting
	ToleratePartial bool `yaml:"tolerate_partial"`
}

// SourceConfig describes one source dataset
type SourceConfig struct {
	// Tag is the source identifier (e.g. "mealdb")
	Tag string `yaml:"tag"`
	// Paths are file paths or doublestar glob patterns for the serialized graphs
	Paths []string `yaml:"paths"`
	// Namespace is the vocabulary namespace binding for this source
	Namespace string `yaml:"namespace"`
	// Pattern names the structural idiom variant used by the extractor
	// (direct, ingredient-line, usage-node)
	Pattern string `yaml:"pattern"`
}

// Recognized structural pattern names.
const (
	PatternDirect         = "direct"
	PatternIngredientLine = "ingredient-line"
	PatternUsageNode      = "usage-node"
)

// DefaultCutoff is the fuzzy-match cutoff used when none is configured.
const DefaultCutoff = 0.2

// LinkageConfig configures the entity linkage engine
type LinkageConfig struct {
	// Cutoff is the fuzzy-match distance ratio cutoff in [0,1]; a pair is a
	// candidate when distance/max(len) <= cutoff (boundary inclusive).
	// A pointer so an explicit 0, which disables fuzzy matching, survives
	// layered merging; nil means DefaultCutoff
	Cutoff *float64 `yaml:"cutoff"`
	// Workers is the fuzzy-matching worker count (0 = GOMAXPROCS)
	Workers int `yaml:"workers"`
	// OverridesPath points to a YAML file of manually reviewed URI pairs
	// asserted before algorithmic acceptance
	OverridesPath string `yaml:"overrides_path"`
	// LinkRecipes enables recipe-title linkage in addition to ingredients
	LinkRecipes bool `yaml:"link_recipes"`
}

// FuzzyCutoff returns the effective cutoff, falling back to DefaultCutoff
// when none is set. An explicit 0 disables fuzzy matching entirely.
func (l LinkageConfig) FuzzyCutoff() float64 {
	if l.Cutoff == nil {
		return DefaultCutoff
	}
	return *l.Cutoff
}

func float64Ptr(v float64) *float64 {
	return &v
}

// NormalizeConfig configures the structural normalizer
type NormalizeConfig struct {
	// Chains lists the two-hop predicate chains flattened onto the canonical
	// direct ingredient link; empty = built-in defaults
	Chains []ChainConfig `yaml:"chains"`
}

// ChainConfig is a recognized two-hop predicate chain
type ChainConfig struct {
	// First is the recipe -> intermediate predicate IRI
	First string `yaml:"first"`
	// Second is the intermediate -> ingredient predicate IRI
	Second string `yaml:"second"`
}

// OutputConfig configures the serialized output documents
type OutputConfig struct {
	// Path is the unified graph document path
	Path string `yaml:"path"`
	// MappingsPath is the mapping-graph-only document path (empty = skip)
	MappingsPath string `yaml:"mappings_path"`
	// Format is the serialization format (turtle, ntriples)
	Format string `yaml:"format"`
}

// StoreConfig configures the external persistence load target
type StoreConfig struct {
	// Backend selects the load target: file or nats
	Backend string `yaml:"backend"`
	// NATS configures the JetStream target when backend is nats
	NATS NATSConfig `yaml:"nats"`
}

// Store backends.
const (
	// BackendFile writes output documents to the local filesystem.
	BackendFile = "file"
	// BackendNATS publishes output documents to a JetStream subject.
	BackendNATS = "nats"
)

// NATSConfig configures the NATS connection
type NATSConfig struct {
	// URL is the NATS server URL
	URL string `yaml:"url"`
	// Subject is the publish subject for the unified graph document
	Subject string `yaml:"subject"`
	// Stream is the JetStream stream expected to capture the subject
	Stream string `yaml:"stream"`
}

// MetricsConfig configures the Prometheus endpoint
type MetricsConfig struct {
	// Listen is the address for the /metrics listener (empty = disabled)
	Listen string `yaml:"listen"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Sources: SourcesConfig{
			Datasets: []SourceConfig{
				{
					Tag:       "mealdb",
					Paths:     []string{"data/mealdb/*.ttl"},
					Namespace: "https://schema.org/",
					Pattern:   PatternDirect,
				},
				{
					Tag:       "recipesnlg",
					Paths:     []string{"data/recipesnlg/*.ttl"},
					Namespace: "http://data.lirmm.fr/ontologies/food#",
					Pattern:   PatternIngredientLine,
				},
				{
					Tag:       "spoonacular",
					Paths:     []string{"data/spoonacular/*.ttl"},
					Namespace: "http://example.org/vocab/spoonacular#",
					Pattern:   PatternUsageNode,
				},
			},
			ToleratePartial: false,
		},
		Linkage: LinkageConfig{
			Cutoff:      float64Ptr(DefaultCutoff),
			Workers:     0,
			LinkRecipes: false,
		},
		Output: OutputConfig{
			Path:         "out/unified_recipes.ttl",
			MappingsPath: "out/ingredient_mappings.ttl",
			Format:       "turtle",
		},
		Store: StoreConfig{
			Backend: "file",
			NATS: NATSConfig{
				URL:     "nats://localhost:4222",
				Subject: "graph.unified.load",
				Stream:  "GRAPH",
			},
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if len(c.Sources.Datasets) == 0 {
		return fmt.Errorf("sources.datasets is required")
	}
	seen := make(map[string]bool)
	for i, src := range c.Sources.Datasets {
		if src.Tag == "" {
			return fmt.Errorf("sources.datasets[%d].tag is required", i)
		}
		if seen[src.Tag] {
			return fmt.Errorf("duplicate source tag %q", src.Tag)
		}
		seen[src.Tag] = true
		if len(src.Paths) == 0 {
			return fmt.Errorf("sources.datasets[%d].paths is required", i)
		}
		switch src.Pattern {
		case PatternDirect, PatternIngredientLine, PatternUsageNode:
		default:
			return fmt.Errorf("sources.datasets[%d].pattern must be one of direct, ingredient-line, usage-node", i)
		}
	}
	if c.Linkage.Cutoff != nil && (*c.Linkage.Cutoff < 0 || *c.Linkage.Cutoff > 1) {
		return fmt.Errorf("linkage.cutoff must be between 0 and 1")
	}
	if c.Output.Format != "turtle" && c.Output.Format != "ntriples" {
		return fmt.Errorf("output.format must be turtle or ntriples")
	}
	switch c.Store.Backend {
	case "file":
		if c.Output.Path == "" {
			return fmt.Errorf("output.path is required for the file backend")
		}
	case "nats":
		if c.Store.NATS.URL == "" {
			return fmt.Errorf("store.nats.url is required for the nats backend")
		}
		if c.Store.NATS.Subject == "" {
			return fmt.Errorf("store.nats.subject is required for the nats backend")
		}
	default:
		return fmt.Errorf("store.backend must be file or nats")
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// Marshal renders the configuration as YAML
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence for non-zero values)
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	if len(other.Sources.Datasets) > 0 {
		c.Sources.Datasets = other.Sources.Datasets
	}
	if other.Sources.ToleratePartial {
		c.Sources.ToleratePartial = true
	}

	if other.Linkage.Cutoff != nil {
		c.Linkage.Cutoff = other.Linkage.Cutoff
	}
	if other.Linkage.Workers != 0 {
		c.Linkage.Workers = other.Linkage.Workers
	}
	if other.Linkage.OverridesPath != "" {
		c.Linkage.OverridesPath = other.Linkage.OverridesPath
	}
	if other.Linkage.LinkRecipes {
		c.Linkage.LinkRecipes = true
	}

	if len(other.Normalize.Chains) > 0 {
		c.Normalize.Chains = other.Normalize.Chains
	}

	if other.Output.Path != "" {
		c.Output.Path = other.Output.Path
	}
	if other.Output.MappingsPath != "" {
		c.Output.MappingsPath = other.Output.MappingsPath
	}
	if other.Output.Format != "" {
		c.Output.Format = other.Output.Format
	}

	if other.Store.Backend != "" {
		c.Store.Backend = other.Store.Backend
	}
	if other.Store.NATS.URL != "" {
		c.Store.NATS.URL = other.Store.NATS.URL
	}
	if other.Store.NATS.Subject != "" {
		c.Store.NATS.Subject = other.Store.NATS.Subject
	}
	if other.Store.NATS.Stream != "" {
		c.Store.NATS.Stream = other.Store.NATS.Stream
	}

	if other.Metrics.Listen != "" {
		c.Metrics.Listen = other.Metrics.Listen
	}
}

// ExpandPaths resolves a source's path patterns to concrete files using
// doublestar glob matching. Plain paths pass through untouched. The result
// is sorted for deterministic load order.
func (s *SourceConfig) ExpandPaths() ([]string, error) {
	var files []string
	for _, pattern := range s.Paths {
		if !hasGlobMeta(pattern) {
			files = append(files, pattern)
			continue
		}
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("expand %q for source %s: %w", pattern, s.Tag, err)
		}
		files = append(files, matches...)
	}
	sort.Strings(files)
	return files, nil
}

func hasGlobMeta(path string) bool {
	for _, r := range path {
		switch r {
		case '*', '?', '[', '{':
			return true
		}
	}
	return false
}
