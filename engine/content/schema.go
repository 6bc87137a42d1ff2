package content

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// SchemaContext is the only JSON-LD context used by engine pages.
const SchemaContext = "https://schema.org"

// Graph item types.
const (
	TypeWebPage       = "WebPage"
	TypeWebSite       = "WebSite"
	TypeArticle       = "Article"
	TypeVehicleEngine = "VehicleEngine"
	TypeDataset       = "Dataset"
	TypeFAQPage       = "FAQPage"
)

// SchemaData is a JSON-LD document with a @graph of typed nodes.
type SchemaData struct {
	Context string      `json:"@context"`
	Graph   []GraphItem `json:"@graph"`
}

// GraphItem is one node of the @graph, discriminated by its @type.
type GraphItem interface {
	GraphType() string
	NodeID() string
}

// Ref is a JSON-LD node reference.
type Ref struct {
	ID string `json:"@id"`
}

// NewRef returns a reference to id, or nil when id is empty.
func NewRef(id string) *Ref {
	if id == "" {
		return nil
	}
	return &Ref{ID: id}
}

// RefID returns the referenced id or "" for a nil ref.
func RefID(r *Ref) string {
	if r == nil {
		return ""
	}
	return r.ID
}

// WebPage describes the engine page itself.
type WebPage struct {
	ID                 string       `json:"@id"`
	URL                string       `json:"url"`
	Name               string       `json:"name"`
	Description        string       `json:"description,omitempty"`
	InLanguage         string       `json:"inLanguage,omitempty"`
	IsPartOf           *Ref         `json:"isPartOf,omitempty"`
	About              *Ref         `json:"about,omitempty"`
	PrimaryImageOfPage *ImageObject `json:"primaryImageOfPage,omitempty"`
	DatePublished      string       `json:"datePublished,omitempty"`
	DateModified       string       `json:"dateModified,omitempty"`
}

// WebSite describes the encyclopedia site.
type WebSite struct {
	ID         string        `json:"@id"`
	URL        string        `json:"url"`
	Name       string        `json:"name"`
	InLanguage string        `json:"inLanguage,omitempty"`
	Publisher  *Organization `json:"publisher,omitempty"`
}

// Article is the editorial body of the page.
type Article struct {
	ID               string        `json:"@id"`
	Headline         string        `json:"headline"`
	Description      string        `json:"description,omitempty"`
	Author           *Organization `json:"author,omitempty"`
	Publisher        *Organization `json:"publisher,omitempty"`
	Image            *ImageObject  `json:"image,omitempty"`
	DatePublished    string        `json:"datePublished,omitempty"`
	DateModified     string        `json:"dateModified,omitempty"`
	IsPartOf         *Ref          `json:"isPartOf,omitempty"`
	MainEntityOfPage *Ref          `json:"mainEntityOfPage,omitempty"`
	About            *Ref          `json:"about,omitempty"`
}

// VehicleEngine is the engine the page is about.
type VehicleEngine struct {
	ID                 string             `json:"@id"`
	Name               string             `json:"name"`
	Description        string             `json:"description,omitempty"`
	EngineType         string             `json:"engineType,omitempty"`
	FuelType           string             `json:"fuelType,omitempty"`
	EngineDisplacement *QuantitativeValue `json:"engineDisplacement,omitempty"`
	EnginePower        *QuantitativeValue `json:"enginePower,omitempty"`
	Torque             *QuantitativeValue `json:"torque,omitempty"`
	Manufacturer       *Organization      `json:"manufacturer,omitempty"`
}

// Dataset exposes the spec table as structured data.
type Dataset struct {
	ID               string          `json:"@id"`
	Name             string          `json:"name"`
	Description      string          `json:"description,omitempty"`
	Creator          *Organization   `json:"creator,omitempty"`
	License          string          `json:"license,omitempty"`
	IsPartOf         *Ref            `json:"isPartOf,omitempty"`
	VariableMeasured []PropertyValue `json:"variableMeasured,omitempty"`
}

// FAQPage mirrors the page FAQs.
type FAQPage struct {
	ID               string     `json:"@id"`
	IsPartOf         *Ref       `json:"isPartOf,omitempty"`
	MainEntityOfPage *Ref       `json:"mainEntityOfPage,omitempty"`
	MainEntity       []Question `json:"mainEntity"`
}

// Organization is a publisher, author or manufacturer.
type Organization struct {
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

// ImageObject is an image reference.
type ImageObject struct {
	URL     string `json:"url"`
	Caption string `json:"caption,omitempty"`
}

// QuantitativeValue is a number with a UN/CEFACT unit code.
type QuantitativeValue struct {
	Value    float64 `json:"value"`
	UnitCode string  `json:"unitCode,omitempty"`
	UnitText string  `json:"unitText,omitempty"`
}

// PropertyValue is a named value inside a Dataset.
type PropertyValue struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Question is one FAQPage entry.
type Question struct {
	Name           string `json:"name"`
	AcceptedAnswer Answer `json:"acceptedAnswer"`
}

// Answer is the accepted answer of a Question.
type Answer struct {
	Text string `json:"text"`
}

func (WebPage) GraphType() string       { return TypeWebPage }
func (WebSite) GraphType() string       { return TypeWebSite }
func (Article) GraphType() string       { return TypeArticle }
func (VehicleEngine) GraphType() string { return TypeVehicleEngine }
func (Dataset) GraphType() string       { return TypeDataset }
func (FAQPage) GraphType() string       { return TypeFAQPage }

func (p WebPage) NodeID() string       { return p.ID }
func (p WebSite) NodeID() string       { return p.ID }
func (p Article) NodeID() string       { return p.ID }
func (p VehicleEngine) NodeID() string { return p.ID }
func (p Dataset) NodeID() string       { return p.ID }
func (p FAQPage) NodeID() string       { return p.ID }

// withType encodes v and prepends "@type" to the resulting object.
func withType(typ string, v any) ([]byte, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	head, err := json.Marshal(typ)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	buf.WriteString(`{"@type":`)
	buf.Write(head)
	if !bytes.Equal(body, []byte("{}")) {
		buf.WriteByte(',')
		buf.Write(body[1:])
	} else {
		buf.WriteByte('}')
	}
	return buf.Bytes(), nil
}

func (p WebPage) MarshalJSON() ([]byte, error) {
	type plain WebPage
	return withType(TypeWebPage, plain(p))
}

func (p WebSite) MarshalJSON() ([]byte, error) {
	type plain WebSite
	return withType(TypeWebSite, plain(p))
}

func (p Article) MarshalJSON() ([]byte, error) {
	type plain Article
	return withType(TypeArticle, plain(p))
}

func (p VehicleEngine) MarshalJSON() ([]byte, error) {
	type plain VehicleEngine
	return withType(TypeVehicleEngine, plain(p))
}

func (p Dataset) MarshalJSON() ([]byte, error) {
	type plain Dataset
	return withType(TypeDataset, plain(p))
}

func (p FAQPage) MarshalJSON() ([]byte, error) {
	type plain FAQPage
	return withType(TypeFAQPage, plain(p))
}

func (o Organization) MarshalJSON() ([]byte, error) {
	type plain Organization
	return withType("Organization", plain(o))
}

func (i ImageObject) MarshalJSON() ([]byte, error) {
	type plain ImageObject
	return withType("ImageObject", plain(i))
}

func (q QuantitativeValue) MarshalJSON() ([]byte, error) {
	type plain QuantitativeValue
	return withType("QuantitativeValue", plain(q))
}

func (p PropertyValue) MarshalJSON() ([]byte, error) {
	type plain PropertyValue
	return withType("PropertyValue", plain(p))
}

func (q Question) MarshalJSON() ([]byte, error) {
	type plain Question
	return withType("Question", plain(q))
}

func (a Answer) MarshalJSON() ([]byte, error) {
	type plain Answer
	return withType("Answer", plain(a))
}

var graphDecoders = map[string]func([]byte) (GraphItem, error){
	TypeWebPage:       decodeAs[WebPage],
	TypeWebSite:       decodeAs[WebSite],
	TypeArticle:       decodeAs[Article],
	TypeVehicleEngine: decodeAs[VehicleEngine],
	TypeDataset:       decodeAs[Dataset],
	TypeFAQPage:       decodeAs[FAQPage],
}

// decodeAs decodes one node strictly. Nested "@type" keys are dropped first;
// the Go field types already fix what each nested object is.
func decodeAs[T GraphItem](b []byte) (GraphItem, error) {
	var tree any
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	if err := dec.Decode(&tree); err != nil {
		return nil, err
	}
	dropTypes(tree)
	clean, err := json.Marshal(tree)
	if err != nil {
		return nil, err
	}
	var v T
	if err := decodeStrict(clean, &v); err != nil {
		return nil, err
	}
	return v, nil
}

func dropTypes(v any) {
	switch t := v.(type) {
	case map[string]any:
		delete(t, "@type")
		for _, e := range t {
			dropTypes(e)
		}
	case []any:
		for _, e := range t {
			dropTypes(e)
		}
	}
}

func decodeStrict(b []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// UnmarshalJSON decodes the @graph by dispatching on each node's @type.
// Unknown keys are rejected at every level.
func (s *SchemaData) UnmarshalJSON(b []byte) error {
	var raw struct {
		Context string            `json:"@context"`
		Graph   []json.RawMessage `json:"@graph"`
	}
	if err := decodeStrict(b, &raw); err != nil {
		return fmt.Errorf("schema: %w", err)
	}
	items := make([]GraphItem, 0, len(raw.Graph))
	for i, node := range raw.Graph {
		var head struct {
			Type string `json:"@type"`
		}
		if err := json.Unmarshal(node, &head); err != nil {
			return fmt.Errorf("schema: @graph[%d]: %w", i, err)
		}
		decode, ok := graphDecoders[head.Type]
		if !ok {
			return fmt.Errorf("schema: @graph[%d]: %w %q", i, ErrUnknownGraphType, head.Type)
		}
		item, err := decode(node)
		if err != nil {
			return fmt.Errorf("schema: @graph[%d] %s: %w", i, head.Type, err)
		}
		items = append(items, item)
	}
	s.Context = raw.Context
	s.Graph = items
	return nil
}

// ItemsOf returns the graph nodes of concrete type T in graph order.
func ItemsOf[T GraphItem](s SchemaData) []T {
	var out []T
	for _, item := range s.Graph {
		if v, ok := item.(T); ok {
			out = append(out, v)
		}
	}
	return out
}
