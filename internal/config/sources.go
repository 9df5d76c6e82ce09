package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"log"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/deusflow/khobor/internal/news"
	"github.com/deusflow/khobor/internal/relay"
)

//go:embed default_sources.yaml
var defaultSources []byte

// SourcesConfig is the YAML structure
//
//	sources:
//	  - name: ...
//	    id: ...
//	relays:
//	  - prefix: https://...
type SourcesConfig struct {
	Sources []news.Source `yaml:"sources"`
	Relays  []relay.Relay `yaml:"relays"`
}

// LoadSources reads the source and relay lists from path. An empty or
// missing path falls back to the built-in list.
func LoadSources(path string) (*SourcesConfig, error) {
	data := defaultSources
	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case err == nil:
			data = b
		case os.IsNotExist(err):
			log.Printf("⚠️ Sources file %s not found, using built-in list", path)
		default:
			return nil, fmt.Errorf("failed to read sources file: %w", err)
		}
	}
	return ParseSources(data)
}

func ParseSources(data []byte) (*SourcesConfig, error) {
	var cfg SourcesConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse sources: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *SourcesConfig) Validate() error {
	if len(c.Sources) == 0 {
		return fmt.Errorf("no sources configured")
	}
	seen := make(map[string]bool, len(c.Sources))
	for i, s := range c.Sources {
		if s.ID == "" || s.Name == "" {
			return fmt.Errorf("source %d: name and id are required", i)
		}
		if s.URL == "" && s.Homepage == "" {
			return fmt.Errorf("source %s: url or homepage is required", s.ID)
		}
		if seen[s.ID] {
			return fmt.Errorf("duplicate source id %q", s.ID)
		}
		seen[s.ID] = true
	}
	for i, r := range c.Relays {
		if r.Prefix == "" {
			return fmt.Errorf("relay %d: prefix is required", i)
		}
	}
	return nil
}

// Find returns the source with the given id.
func (c *SourcesConfig) Find(id string) (news.Source, bool) {
	for _, s := range c.Sources {
		if s.ID == id {
			return s, true
		}
	}
	return news.Source{}, false
}
