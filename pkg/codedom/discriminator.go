package codedom

import (
	"sort"
	"strings"
	"sync"

	"github.com/cmmoran/clientgen/pkg/errors"
)

// DiscriminatorMapping is one entry of a discriminator registry. Key keeps the
// spelling of the first insertion.
type DiscriminatorMapping struct {
	Key  string
	Type TypeExpr
}

// DiscriminatorInformation maps wire discriminator values to concrete types.
// Keys compare case-insensitively and the first insertion for a key wins.
// All methods are safe for concurrent use.
type DiscriminatorInformation struct {
	// PropertyName is the payload property carrying the discriminator value.
	PropertyName string

	mu       sync.RWMutex
	mappings map[string]DiscriminatorMapping
}

func NewDiscriminatorInformation() *DiscriminatorInformation {
	return &DiscriminatorInformation{mappings: make(map[string]DiscriminatorMapping)}
}

func foldKey(key string) string { return strings.ToUpper(key) }

// AddMapping inserts key if no case-insensitive equal key is present.
// Reports whether the mapping was inserted.
func (d *DiscriminatorInformation) AddMapping(key string, t TypeExpr) (bool, error) {
	if key == "" {
		return false, errors.InvalidInputf("discriminator key cannot be empty")
	}
	if t == nil {
		return false, errors.InvalidInputf("discriminator mapping %q has no type", key)
	}
	folded := foldKey(key)
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.mappings == nil {
		d.mappings = make(map[string]DiscriminatorMapping)
	}
	if _, ok := d.mappings[folded]; ok {
		return false, nil
	}
	d.mappings[folded] = DiscriminatorMapping{Key: key, Type: t}
	return true, nil
}

// GetMapping looks key up case-insensitively.
func (d *DiscriminatorInformation) GetMapping(key string) (TypeExpr, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	m, ok := d.mappings[foldKey(key)]
	if !ok {
		return nil, false
	}
	return m.Type, true
}

func (d *DiscriminatorInformation) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.mappings)
}

// Enumerate returns every mapping ordered ascending by key, compared
// case-insensitively and ordinally.
func (d *DiscriminatorInformation) Enumerate() []DiscriminatorMapping {
	d.mu.RLock()
	out := make([]DiscriminatorMapping, 0, len(d.mappings))
	for _, m := range d.mappings {
		out = append(out, m)
	}
	d.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		return foldKey(out[i].Key) < foldKey(out[j].Key)
	})
	return out
}

// Clone deep-copies the registry. Type expressions are cloned; the elements
// they designate are shared.
func (d *DiscriminatorInformation) Clone() *DiscriminatorInformation {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := &DiscriminatorInformation{
		PropertyName: d.PropertyName,
		mappings:     make(map[string]DiscriminatorMapping, len(d.mappings)),
	}
	for k, m := range d.mappings {
		out.mappings[k] = DiscriminatorMapping{Key: m.Key, Type: m.Type.CloneType()}
	}
	return out
}
