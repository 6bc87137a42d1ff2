// Package jsonld derives the schema.org graph of an engine page from its
// human-readable content, so the structured data never drifts from the text.
package jsonld

import (
	"encoding/json"
	"strings"

	"github.com/WessleyAI/wessley-engines/engine/content"
	"github.com/samber/lo"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// UN/CEFACT unit codes used by schema.org QuantitativeValue.
const (
	UnitCubicCentimetre = "CMQ"
	UnitKilowatt        = "KWT"
	UnitNewtonMetre     = "NU"
)

// Site describes the publishing website.
type Site struct {
	Name         string `yaml:"name" json:"name"`
	URL          string `yaml:"url" json:"url"`
	Language     string `yaml:"language" json:"language"`
	Publisher    string `yaml:"publisher" json:"publisher"`
	PublisherURL string `yaml:"publisherUrl" json:"publisherUrl"`
	License      string `yaml:"license" json:"license"`
}

// Facts are the numeric engine attributes that only appear in structured data.
type Facts struct {
	Name           string  `yaml:"name"`
	EngineType     string  `yaml:"engineType"`
	FuelType       string  `yaml:"fuelType"`
	DisplacementCC float64 `yaml:"displacementCc"`
	PowerKW        float64 `yaml:"powerKw"`
	TorqueNM       float64 `yaml:"torqueNm"`
}

// Input is everything Build needs for one page.
type Input struct {
	Site      Site
	BrandKey  string
	BrandName string
	Code      string
	Page      content.EnginePageData
	Facts     Facts
}

// Node id fragments.
const (
	FragmentWebPage = "#webpage"
	FragmentArticle = "#article"
	FragmentEngine  = "#engine"
	FragmentDataset = "#specs"
	FragmentFAQ     = "#faq"
	FragmentWebSite = "/#website"
)

// SiteURL returns the site root without a trailing slash.
func SiteURL(s Site) string {
	return strings.TrimRight(s.URL, "/")
}

// PageURL returns the canonical URL of an engine page.
func PageURL(s Site, brand, code string) string {
	return SiteURL(s) + "/" + strings.ToLower(brand) + "/engines/" + strings.ToLower(code)
}

// BrandName returns the display name for a brand key.
func BrandName(key string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(key, "-", " "))
}

// Build assembles the @graph for one page. Article and FAQPage point back at
// the single WebPage through isPartOf and mainEntityOfPage; the FAQPage is
// omitted when the page has no FAQs.
func Build(in Input) content.SchemaData {
	site := SiteURL(in.Site)
	url := PageURL(in.Site, in.BrandKey, in.Code)
	brand := in.BrandName
	if brand == "" {
		brand = BrandName(in.BrandKey)
	}
	name := in.Facts.Name
	if name == "" {
		name = strings.ToUpper(in.Code)
	}

	websiteID := site + FragmentWebSite
	pageID := url + FragmentWebPage
	engineID := url + FragmentEngine
	publisher := organization(in.Site.Publisher, in.Site.PublisherURL)
	banner := image(site, in.Page.BannerImage)
	meta := in.Page.Metadata

	graph := []content.GraphItem{
		content.WebSite{
			ID:         websiteID,
			URL:        site,
			Name:       in.Site.Name,
			InLanguage: in.Site.Language,
			Publisher:  publisher,
		},
		content.WebPage{
			ID:                 pageID,
			URL:                url,
			Name:               meta.Title,
			Description:        meta.Description,
			InLanguage:         in.Site.Language,
			IsPartOf:           content.NewRef(websiteID),
			About:              content.NewRef(engineID),
			PrimaryImageOfPage: banner,
			DatePublished:      meta.Published,
			DateModified:       meta.Modified,
		},
		content.Article{
			ID:               url + FragmentArticle,
			Headline:         headline(in.Page),
			Description:      meta.Description,
			Author:           publisher,
			Publisher:        publisher,
			Image:            banner,
			DatePublished:    meta.Published,
			DateModified:     meta.Modified,
			IsPartOf:         content.NewRef(pageID),
			MainEntityOfPage: content.NewRef(pageID),
			About:            content.NewRef(engineID),
		},
		content.VehicleEngine{
			ID:                 engineID,
			Name:               name,
			Description:        in.Page.TechnicalSpecifications.Description,
			EngineType:         in.Facts.EngineType,
			FuelType:           in.Facts.FuelType,
			EngineDisplacement: quantity(in.Facts.DisplacementCC, UnitCubicCentimetre, "cc"),
			EnginePower:        quantity(in.Facts.PowerKW, UnitKilowatt, "kW"),
			Torque:             quantity(in.Facts.TorqueNM, UnitNewtonMetre, "Nm"),
			Manufacturer:       &content.Organization{Name: brand},
		},
		content.Dataset{
			ID:               url + FragmentDataset,
			Name:             name + " technical specifications",
			Description:      in.Page.TechnicalSpecifications.Description,
			Creator:          publisher,
			License:          in.Site.License,
			IsPartOf:         content.NewRef(pageID),
			VariableMeasured: variables(in.Page.TechnicalSpecifications.EngineSpecs),
		},
	}
	if len(in.Page.FAQs) > 0 {
		graph = append(graph, content.FAQPage{
			ID:               url + FragmentFAQ,
			IsPartOf:         content.NewRef(pageID),
			MainEntityOfPage: content.NewRef(pageID),
			MainEntity:       questions(in.Page.FAQs),
		})
	}
	return content.SchemaData{Context: content.SchemaContext, Graph: graph}
}

// Marshal encodes a schema as an indented JSON-LD document.
func Marshal(s content.SchemaData) ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

func headline(p content.EnginePageData) string {
	if p.Hero.Heading != "" {
		return p.Hero.Heading
	}
	return p.Metadata.Title
}

func organization(name, url string) *content.Organization {
	if name == "" {
		return nil
	}
	return &content.Organization{Name: name, URL: url}
}

func image(site string, img content.Image) *content.ImageObject {
	if img.Src == "" {
		return nil
	}
	src := img.Src
	if strings.HasPrefix(src, "/") {
		src = site + src
	}
	return &content.ImageObject{URL: src, Caption: img.Alt}
}

func quantity(v float64, code, text string) *content.QuantitativeValue {
	if v <= 0 {
		return nil
	}
	return &content.QuantitativeValue{Value: v, UnitCode: code, UnitText: text}
}

func variables(rows []content.SpecRow) []content.PropertyValue {
	return lo.Map(rows, func(r content.SpecRow, _ int) content.PropertyValue {
		return content.PropertyValue{Name: r.Parameter, Value: r.Value}
	})
}

func questions(faqs []content.FAQ) []content.Question {
	return lo.Map(faqs, func(f content.FAQ, _ int) content.Question {
		return content.Question{Name: f.Question, AcceptedAnswer: content.Answer{Text: f.Answer}}
	})
}
