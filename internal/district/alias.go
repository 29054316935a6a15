package district

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

// AliasTable maps legacy or renamed district keys onto canonical keys.
// Chains are flattened at construction, so Resolve is idempotent.
type AliasTable struct {
	canonical map[string]string
}

// NewAliasTable normalizes both sides of raw, drops identity entries,
// flattens chains (a->b, b->c becomes a->c, b->c) and rejects cycles.
func NewAliasTable(raw map[string]string) (*AliasTable, error) {
	direct := make(map[string]string, len(raw))
	for from, to := range raw {
		f, t := Normalize(from), Normalize(to)
		if f == "" || t == "" {
			return nil, eris.Errorf("district: alias %q -> %q has an empty side", from, to)
		}
		if f == t {
			continue
		}
		if prev, ok := direct[f]; ok && prev != t {
			return nil, eris.Errorf("district: alias %q maps to both %q and %q", f, prev, t)
		}
		direct[f] = t
	}

	canonical := make(map[string]string, len(direct))
	for from := range direct {
		seen := map[string]bool{from: true}
		to := direct[from]
		for {
			next, ok := direct[to]
			if !ok {
				break
			}
			if seen[to] {
				return nil, eris.Errorf("district: alias cycle through %q", to)
			}
			seen[to] = true
			to = next
		}
		canonical[from] = to
	}

	return &AliasTable{canonical: canonical}, nil
}

// Resolve returns the canonical key for an already-normalized key.
func (a *AliasTable) Resolve(key string) string {
	if a == nil {
		return key
	}
	if to, ok := a.canonical[key]; ok {
		return to
	}
	return key
}

// Key normalizes name and resolves it through the table.
func (a *AliasTable) Key(name string) string {
	return a.Resolve(Normalize(name))
}

// Len returns the number of aliased keys.
func (a *AliasTable) Len() int {
	if a == nil {
		return 0
	}
	return len(a.canonical)
}

// aliasFile is the on-disk layout of an alias override file.
type aliasFile struct {
	Aliases map[string]string `yaml:"aliases"`
}

// LoadAliasFile reads an alias mapping from a YAML file of the form
//
//	aliases:
//	  chennai city: chennai
func LoadAliasFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "district: read alias file %s", path)
	}

	var f aliasFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, eris.Wrapf(err, "district: parse alias file %s", path)
	}
	if f.Aliases == nil {
		return map[string]string{}, nil
	}
	return f.Aliases, nil
}

// Build merges the configured aliases with an optional override file (file
// entries win) and constructs the table.
func Build(configured map[string]string, overridePath string) (*AliasTable, error) {
	merged := normalizeKeys(configured)
	if overridePath != "" {
		override, err := LoadAliasFile(overridePath)
		if err != nil {
			return nil, err
		}
		merged = lo.Assign(merged, normalizeKeys(override))
	}
	return NewAliasTable(merged)
}

func normalizeKeys(m map[string]string) map[string]string {
	return lo.MapKeys(m, func(_ string, k string) string { return Normalize(k) })
}
