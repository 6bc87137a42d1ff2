package catalog

import (
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"strings"
	"sync"

	"github.com/WessleyAI/wessley-engines/engine/content"
	"github.com/WessleyAI/wessley-engines/engine/jsonld"
	"gopkg.in/yaml.v3"
)

// Layout of a content directory:
//
//	site.yaml
//	<brand>/brand.yaml
//	<brand>/engines/<code>.yaml
const (
	siteFile  = "site.yaml"
	brandFile = "brand.yaml"
)

//go:embed data
var embedded embed.FS

var (
	defaultOnce sync.Once
	defaultCat  *Catalog
	defaultErr  error
)

// Default returns the built-in catalog, decoding it on first use.
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		sub, err := fs.Sub(embedded, "data")
		if err != nil {
			defaultErr = err
			return
		}
		defaultCat, defaultErr = Load(sub)
	})
	return defaultCat, defaultErr
}

// Open returns the built-in catalog when dir is empty and the catalog
// under dir otherwise.
func Open(dir string) (*Catalog, error) {
	if dir == "" {
		return Default()
	}
	return Load(os.DirFS(dir))
}

// pageDocument is an engine page as authored. The engine facts only feed
// the VehicleEngine schema node.
type pageDocument struct {
	content.EnginePageData `yaml:",inline"`
	Engine                 jsonld.Facts `yaml:"engine"`
}

// Load decodes a content directory and derives each page's schema graph.
// Unknown YAML keys are rejected.
func Load(fsys fs.FS) (*Catalog, error) {
	var site jsonld.Site
	if err := decodeFile(fsys, siteFile, &site); err != nil {
		return nil, err
	}

	brandFiles, err := fs.Glob(fsys, path.Join("*", brandFile))
	if err != nil {
		return nil, fmt.Errorf("catalog: glob brands: %w", err)
	}
	if len(brandFiles) == 0 {
		return nil, fmt.Errorf("catalog: no %s found", brandFile)
	}

	brands := make(map[string]content.BrandData, len(brandFiles))
	for _, bf := range brandFiles {
		key := path.Dir(bf)
		var brand content.BrandData
		if err := decodeFile(fsys, bf, &brand); err != nil {
			return nil, err
		}
		engines, err := loadEngines(fsys, site, key, brand.Name)
		if err != nil {
			return nil, err
		}
		brand.Engines = engines
		brands[key] = brand
	}
	return New(site, brands), nil
}

func loadEngines(fsys fs.FS, site jsonld.Site, brandKey, brandName string) (map[string]content.EnginePageData, error) {
	files, err := fs.Glob(fsys, path.Join(brandKey, "engines", "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("catalog: glob engines of %s: %w", brandKey, err)
	}
	engines := make(map[string]content.EnginePageData, len(files))
	for _, f := range files {
		code := strings.ToLower(strings.TrimSuffix(path.Base(f), ".yaml"))
		var doc pageDocument
		if err := decodeFile(fsys, f, &doc); err != nil {
			return nil, err
		}
		page := doc.EnginePageData
		page.Schema = jsonld.Build(jsonld.Input{
			Site:      site,
			BrandKey:  brandKey,
			BrandName: brandName,
			Code:      code,
			Page:      page,
			Facts:     doc.Engine,
		})
		engines[code] = page
	}
	return engines, nil
}

func decodeFile(fsys fs.FS, name string, out any) error {
	f, err := fsys.Open(name)
	if err != nil {
		return fmt.Errorf("catalog: open %s: %w", name, err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("catalog: decode %s: empty document", name)
		}
		return fmt.Errorf("catalog: decode %s: %w", name, err)
	}
	return nil
}
