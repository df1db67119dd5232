// SPDX-License-Identifier: Apache-2.0

// Package catalog holds the read-only lookup tables that turn module prefixes
// and F-code keys into human-readable names. The tables are data, kept apart
// from the report and comparison logic so they can be replaced or extended.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/goccy/go-yaml"
)

//go:embed default.yaml
var defaultTables []byte

// ErrInvalidCatalog reports lookup-table data that does not match the schema.
var ErrInvalidCatalog = errors.New("invalid catalog")

type ModuleInfo struct {
	LongName  string `json:"longName" yaml:"longName"`
	ShortName string `json:"shortName" yaml:"shortName"`
	Prefix    string `json:"prefix" yaml:"-"`
}

// tables is the on-disk layout of a catalog file.
type tables struct {
	Modules map[string]ModuleInfo `yaml:"modules"`
	FCodes  map[string]string     `yaml:"fcodes"`
	Nodes   map[string]string     `yaml:"nodes"`
}

// Catalog is immutable once built; every accessor returns copies or values.
type Catalog struct {
	modules map[string]ModuleInfo
	fcodes  map[string]string
	nodes   map[string]string
}

// New builds a catalog from the given tables. The maps are copied.
func New(modules map[string]ModuleInfo, fcodes, nodes map[string]string) *Catalog {
	c := &Catalog{
		modules: make(map[string]ModuleInfo, len(modules)),
		fcodes:  make(map[string]string, len(fcodes)),
		nodes:   make(map[string]string, len(nodes)),
	}
	for prefix, info := range modules {
		info.Prefix = prefix
		c.modules[prefix] = info
	}
	for k, v := range fcodes {
		c.fcodes[k] = v
	}
	for k, v := range nodes {
		c.nodes[k] = v
	}
	return c
}

// Empty returns a catalog with no entries; every lookup falls back.
func Empty() *Catalog {
	return New(nil, nil, nil)
}

var parseDefault = sync.OnceValues(func() (*Catalog, error) {
	return Parse("default.yaml", defaultTables)
})

// Default returns the built-in tables.
func Default() *Catalog {
	c, err := parseDefault()
	if err != nil {
		panic(fmt.Sprintf("catalog: built-in tables are invalid: %v", err))
	}
	return c
}

// Parse validates and decodes YAML table data.
func Parse(name string, data []byte) (*Catalog, error) {
	if err := validate(name, data); err != nil {
		return nil, err
	}
	var t tables
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidCatalog, name, err)
	}
	return New(t.Modules, t.FCodes, t.Nodes), nil
}

// Load reads a table file and merges it over the built-in tables.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	override, err := Parse(path, data)
	if err != nil {
		return nil, err
	}
	return Default().Merge(override), nil
}

// Merge returns a new catalog with other's entries taking precedence.
func (c *Catalog) Merge(other *Catalog) *Catalog {
	merged := New(c.modules, c.fcodes, c.nodes)
	for k, v := range other.modules {
		merged.modules[k] = v
	}
	for k, v := range other.fcodes {
		merged.fcodes[k] = v
	}
	for k, v := range other.nodes {
		merged.nodes[k] = v
	}
	return merged
}

// Module looks up a module by its 3-character prefix. A full label such as
// "7D0-01-01" is accepted too.
func (c *Catalog) Module(prefix string) (ModuleInfo, bool) {
	prefix, _, _ = strings.Cut(prefix, "-")
	info, ok := c.modules[prefix]
	return info, ok
}

// ModuleOrDefault falls back to "Module {prefix}" for unknown prefixes.
func (c *Catalog) ModuleOrDefault(prefix string) ModuleInfo {
	prefix, _, _ = strings.Cut(prefix, "-")
	if info, ok := c.modules[prefix]; ok {
		return info
	}
	return ModuleInfo{LongName: "Module " + prefix, ShortName: prefix, Prefix: prefix}
}

// FCodeLabel returns the description of an F-code, or the key itself.
func (c *Catalog) FCodeLabel(key string) string {
	if label, ok := c.fcodes[key]; ok {
		return label
	}
	return key
}

// NodeName returns the short module name for a node join key.
func (c *Catalog) NodeName(prefix string) string {
	if name, ok := c.nodes[prefix]; ok {
		return name
	}
	if info, ok := c.modules[prefix]; ok {
		return info.ShortName
	}
	return prefix
}

func (c *Catalog) Len() int {
	return len(c.modules)
}
