// Package content defines the shape of engine encyclopedia pages: per-brand
// records, per-engine page sections and the JSON-LD graph that mirrors them.
// Values are loaded once and treated as read-only afterwards.
package content

// BrandData is the top-level record for one manufacturer.
type BrandData struct {
	Name              string                    `json:"name" yaml:"name"`
	ResearchResources []ResourceLink            `json:"researchResources" yaml:"researchResources"`
	HeroImage         Image                     `json:"heroImage" yaml:"heroImage"`
	Engines           map[string]EnginePageData `json:"engines" yaml:"-"`
}

// ResourceLink points readers at external research material.
type ResourceLink struct {
	Title       string `json:"title" yaml:"title"`
	URL         string `json:"url" yaml:"url"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Image is a site-relative image path with alt text.
type Image struct {
	Src string `json:"src" yaml:"src"`
	Alt string `json:"alt" yaml:"alt"`
}

// EnginePageData is the full content of one engine page.
type EnginePageData struct {
	Metadata                Metadata                `json:"metadata" yaml:"metadata"`
	Hero                    Hero                    `json:"hero" yaml:"hero"`
	TechnicalSpecifications TechnicalSpecifications `json:"technicalSpecifications" yaml:"technicalSpecifications"`
	CompatibleModels        CompatibleModels        `json:"compatibleModels" yaml:"compatibleModels"`
	BannerImage             Image                   `json:"bannerImage" yaml:"bannerImage"`
	Reliability             Reliability             `json:"reliability" yaml:"reliability"`
	FAQs                    []FAQ                   `json:"faqs" yaml:"faqs"`
	Schema                  SchemaData              `json:"schema" yaml:"-"`
}

// Metadata is the page title block. Dates are YYYY-MM-DD.
type Metadata struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Published   string `json:"published,omitempty" yaml:"published,omitempty"`
	Modified    string `json:"modified,omitempty" yaml:"modified,omitempty"`
}

// Hero is the opening section of a page.
type Hero struct {
	Heading        string   `json:"heading" yaml:"heading"`
	Intro          []string `json:"intro" yaml:"intro"`
	ComplianceNote string   `json:"complianceNote" yaml:"complianceNote"`
}

// TechnicalSpecifications holds the spec table in display order.
type TechnicalSpecifications struct {
	Description string    `json:"description" yaml:"description"`
	EngineSpecs []SpecRow `json:"engineSpecs" yaml:"engineSpecs"`
}

// SpecRow is one parameter of the spec table.
type SpecRow struct {
	Parameter string `json:"parameter" yaml:"parameter"`
	Value     string `json:"value" yaml:"value"`
	Source    string `json:"source" yaml:"source"`
}

// CompatibleModels lists the vehicles an engine was fitted to.
type CompatibleModels struct {
	Description    string     `json:"description" yaml:"description"`
	Models         []ModelRow `json:"models" yaml:"models"`
	Identification string     `json:"identification" yaml:"identification"`
	ExtraNotes     []Note     `json:"extraNotes,omitempty" yaml:"extraNotes,omitempty"`
}

// ModelRow is one row of the compatible-models table. Years is free text
// such as "2009–2016" or "2014–present".
type ModelRow struct {
	Make    string `json:"make" yaml:"make"`
	Model   string `json:"model" yaml:"model"`
	Years   string `json:"years" yaml:"years"`
	Variant string `json:"variant" yaml:"variant"`
	Source  string `json:"source" yaml:"source"`
}

// Note is a titled paragraph.
type Note struct {
	Title string `json:"title" yaml:"title"`
	Body  string `json:"body" yaml:"body"`
}

// Reliability is the known-issues section.
type Reliability struct {
	Subheading string    `json:"subheading" yaml:"subheading"`
	Info       InfoBlock `json:"info" yaml:"info"`
	Issues     []Issue   `json:"issues" yaml:"issues"`
}

// InfoBlock is the callout shown above the issue list.
type InfoBlock struct {
	Title string `json:"title" yaml:"title"`
	Body  string `json:"body" yaml:"body"`
}

// Issue is a single known failure pattern.
type Issue struct {
	Title    string `json:"title" yaml:"title"`
	Symptoms string `json:"symptoms" yaml:"symptoms"`
	Cause    string `json:"cause" yaml:"cause"`
	Fix      string `json:"fix" yaml:"fix"`
}

// FAQ is a question shown on the page and mirrored in the FAQPage schema.
type FAQ struct {
	Question string `json:"question" yaml:"question"`
	Answer   string `json:"answer" yaml:"answer"`
}
