package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Variant is an immutable template for one kind of spawnable object
// (a platform shape or a decoration), loaded from YAML.
type Variant struct {
	Name   string  `yaml:"name"`
	Width  float64 `yaml:"width"`  // >0 = explicit width; 0 = resolve from geometry
	Bounds float64 `yaml:"bounds"` // measured visual extent along x (0 = unknown)
}

type variantListFile struct {
	Platforms   []Variant `yaml:"platforms"`
	Decorations []Variant `yaml:"decorations"`
}

// VariantTable holds the variants of one generator in file order. The index
// of a variant in the table is its variant id.
type VariantTable struct {
	variants []Variant
	byName   map[string]int
}

// NewVariantTable builds a table from variants already in memory.
func NewVariantTable(variants []Variant) *VariantTable {
	t := &VariantTable{
		variants: make([]Variant, len(variants)),
		byName:   make(map[string]int, len(variants)),
	}
	copy(t.variants, variants)
	for i := range t.variants {
		if t.variants[i].Name != "" {
			t.byName[t.variants[i].Name] = i
		}
	}
	return t
}

// LoadVariantTable loads the list stored under key ("platforms" or
// "decorations") from a YAML file.
func LoadVariantTable(path, key string) (*VariantTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read variant list %s: %w", path, err)
	}
	var f variantListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse variant list %s: %w", path, err)
	}

	var list []Variant
	switch key {
	case "platforms":
		list = f.Platforms
	case "decorations":
		list = f.Decorations
	default:
		return nil, fmt.Errorf("unknown variant list %q", key)
	}
	for i, v := range list {
		if v.Width < 0 || v.Bounds < 0 {
			return nil, fmt.Errorf("%s[%d] (%s): negative width or bounds", key, i, v.Name)
		}
	}
	return NewVariantTable(list), nil
}

// Get returns the variant with the given id.
func (t *VariantTable) Get(id int) (Variant, bool) {
	if id < 0 || id >= len(t.variants) {
		return Variant{}, false
	}
	return t.variants[id], true
}

// Index returns the id of the named variant, or -1.
func (t *VariantTable) Index(name string) int {
	if i, ok := t.byName[name]; ok {
		return i
	}
	return -1
}

// All returns a copy of the variants in id order.
func (t *VariantTable) All() []Variant {
	out := make([]Variant, len(t.variants))
	copy(out, t.variants)
	return out
}

// Count returns the number of loaded variants.
func (t *VariantTable) Count() int {
	return len(t.variants)
}

// Extent reports the static bounds recorded for a variant. It is the first
// geometry source consulted when a variant has no explicit width.
func (t *VariantTable) Extent(v Variant) (float64, bool) {
	if v.Bounds > 0 {
		return v.Bounds, true
	}
	return 0, false
}
