// Package usages holds the catalog of cultural origins shown by the form.
package usages

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/randomnamegen/namegen-backend/internal/names/domain"
	"gopkg.in/yaml.v3"
)

//go:embed usages.yaml
var defaultCatalog []byte

type catalogFile struct {
	Usages []domain.Usage `yaml:"usages"`
}

// Catalog is an ordered, read-only list of usages.
type Catalog struct {
	usages []domain.Usage
}

// Default parses the embedded catalog.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// Parse builds a catalog from YAML. Codes are lowercased; duplicates are rejected.
func Parse(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse usage catalog: %w", err)
	}

	c := &Catalog{}
	seen := make(map[string]struct{}, len(f.Usages))
	for i, u := range f.Usages {
		u.Code = strings.ToLower(strings.TrimSpace(u.Code))
		if u.Code == "" {
			return nil, fmt.Errorf("usage %d: empty code", i)
		}
		if _, dup := seen[u.Code]; dup {
			return nil, fmt.Errorf("usage %q listed twice", u.Code)
		}
		if u.Label == "" {
			u.Label = u.Code
		}
		seen[u.Code] = struct{}{}
		c.usages = append(c.usages, u)
	}
	return c, nil
}

// All returns a copy of the usages in file order.
func (c *Catalog) All() []domain.Usage {
	out := make([]domain.Usage, len(c.usages))
	copy(out, c.usages)
	return out
}
