// Package catalog holds the read-only reference data of the dialogue:
// the list of recognized cities and the policy knowledge base.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultData []byte

// Policy is one topic keyword with its canned answer.
type Policy struct {
	Topic  string `yaml:"topic" json:"topic"`
	Answer string `yaml:"answer" json:"answer"`
}

// Catalog is the static configuration handed to the dialogue engine.
type Catalog struct {
	Cities   []string `yaml:"cities" json:"cities"`
	Policies []Policy `yaml:"policies" json:"policies"`
	Fallback string   `yaml:"fallback" json:"fallback"`
}

var (
	ErrNoCities   = errors.New("catalog has no cities")
	ErrNoPolicies = errors.New("catalog has no policies")
	ErrNoFallback = errors.New("catalog has no policy fallback")
)

// Default returns the compiled-in catalog.
// It panics if the embedded file is invalid, which is a build defect.
func Default() *Catalog {
	c, err := Parse(defaultData)
	if err != nil {
		panic(fmt.Sprintf("catalog: embedded catalog.yaml is invalid: %v", err))
	}
	return c
}

// Load reads a catalog file from disk.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes and validates YAML catalog data.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks that the catalog is usable by the engine.
func (c *Catalog) Validate() error {
	if len(c.Cities) == 0 {
		return ErrNoCities
	}
	seen := make(map[string]struct{}, len(c.Cities))
	for i, city := range c.Cities {
		key := strings.ToLower(strings.TrimSpace(city))
		if key == "" {
			return fmt.Errorf("city #%d is empty", i)
		}
		if _, dup := seen[key]; dup {
			return fmt.Errorf("duplicate city %q", city)
		}
		seen[key] = struct{}{}
	}

	if len(c.Policies) == 0 {
		return ErrNoPolicies
	}
	topics := make(map[string]struct{}, len(c.Policies))
	for i, p := range c.Policies {
		if strings.TrimSpace(p.Topic) == "" {
			return fmt.Errorf("policy #%d has no topic", i)
		}
		if p.Topic != strings.ToLower(p.Topic) {
			return fmt.Errorf("policy topic %q must be lower case", p.Topic)
		}
		if strings.TrimSpace(p.Answer) == "" {
			return fmt.Errorf("policy %q has no answer", p.Topic)
		}
		if _, dup := topics[p.Topic]; dup {
			return fmt.Errorf("duplicate policy topic %q", p.Topic)
		}
		topics[p.Topic] = struct{}{}
	}

	if strings.TrimSpace(c.Fallback) == "" {
		return ErrNoFallback
	}
	return nil
}

// Topics returns the policy topic keywords in catalog order.
func (c *Catalog) Topics() []string {
	out := make([]string, len(c.Policies))
	for i, p := range c.Policies {
		out[i] = p.Topic
	}
	return out
}
