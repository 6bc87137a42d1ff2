// Package catalog holds the engine encyclopedia content and answers
// brand/engine lookups. The built-in catalog is decoded once from YAML
// documents embedded in the binary and is read-only afterwards.
package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/WessleyAI/wessley-engines/engine/content"
	"github.com/WessleyAI/wessley-engines/engine/jsonld"
	"github.com/samber/lo"
)

// Catalog maps brand keys to brand records. Keys are lowercase.
type Catalog struct {
	site   jsonld.Site
	brands map[string]content.BrandData
}

// New builds a catalog from already decoded brands. Brand and engine keys
// are normalised to lowercase.
func New(site jsonld.Site, brands map[string]content.BrandData) *Catalog {
	c := &Catalog{site: site, brands: make(map[string]content.BrandData, len(brands))}
	for key, b := range brands {
		engines := make(map[string]content.EnginePageData, len(b.Engines))
		for code, page := range b.Engines {
			engines[normalize(code)] = page
		}
		b.Engines = engines
		c.brands[normalize(key)] = b
	}
	return c
}

func normalize(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

// Site returns the publishing site the schema graphs were built for.
func (c *Catalog) Site() jsonld.Site { return c.site }

// Lookup returns one engine page. Keys are case-insensitive.
// The returned value shares its slices with the catalog and must not be mutated.
func (c *Catalog) Lookup(brand, code string) (content.EnginePageData, error) {
	b, ok := c.brands[normalize(brand)]
	if !ok {
		return content.EnginePageData{}, content.NewLookupError(brand, code, content.ErrBrandNotFound)
	}
	page, ok := b.Engines[normalize(code)]
	if !ok {
		return content.EnginePageData{}, content.NewLookupError(brand, code, content.ErrEngineNotFound)
	}
	return page, nil
}

// Brand returns a brand record including its engines.
func (c *Catalog) Brand(brand string) (content.BrandData, error) {
	b, ok := c.brands[normalize(brand)]
	if !ok {
		return content.BrandData{}, content.NewLookupError(brand, "", content.ErrBrandNotFound)
	}
	return b, nil
}

// Brands returns the sorted brand keys.
func (c *Catalog) Brands() []string {
	keys := lo.Keys(c.brands)
	slices.Sort(keys)
	return keys
}

// Codes returns the sorted engine codes of a brand, or nil for an unknown brand.
func (c *Catalog) Codes(brand string) []string {
	b, ok := c.brands[normalize(brand)]
	if !ok {
		return nil
	}
	codes := lo.Keys(b.Engines)
	slices.Sort(codes)
	return codes
}

// Len returns the number of engine pages across all brands.
func (c *Catalog) Len() int {
	return lo.SumBy(lo.Values(c.brands), func(b content.BrandData) int { return len(b.Engines) })
}

// document is the JSON interchange format.
type document struct {
	Site   jsonld.Site                  `json:"site"`
	Brands map[string]content.BrandData `json:"brands"`
}

// WriteJSON writes the whole catalog, schema graphs included, as indented JSON.
func (c *Catalog) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(document{Site: c.site, Brands: c.brands}); err != nil {
		return fmt.Errorf("catalog: encode: %w", err)
	}
	return nil
}

// ReadJSON decodes a catalog written by WriteJSON. Schema graphs are taken
// as-is, so hand-edited exports can be linted.
func ReadJSON(r io.Reader) (*Catalog, error) {
	var doc document
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("catalog: decode json: %w", err)
	}
	return New(doc.Site, doc.Brands), nil
}
