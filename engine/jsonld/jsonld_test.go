package jsonld

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/WessleyAI/wessley-engines/engine/content"
	"github.com/google/go-cmp/cmp"
)

var testSite = Site{
	Name:         "Test Encyclopedia",
	URL:          "https://example.com/",
	Language:     "en",
	Publisher:    "Example",
	PublisherURL: "https://example.com/about",
	License:      "CC BY 4.0",
}

func testInput() Input {
	return Input{
		Site:      testSite,
		BrandKey:  "mercedes",
		BrandName: "Mercedes-Benz",
		Code:      "OM651",
		Page: content.EnginePageData{
			Metadata: content.Metadata{Title: "OM651 engine", Description: "About the OM651", Published: "2024-01-01"},
			Hero:     content.Hero{Heading: "Mercedes-Benz OM651"},
			TechnicalSpecifications: content.TechnicalSpecifications{
				Description: "Four-cylinder diesel.",
				EngineSpecs: []content.SpecRow{
					{Parameter: "Bore", Value: "83 mm", Source: "WIS"},
					{Parameter: "Stroke", Value: "99 mm", Source: "WIS"},
				},
			},
			BannerImage: content.Image{Src: "/img/om651.webp", Alt: "OM651"},
			FAQs: []content.FAQ{
				{Question: "Is it reliable?", Answer: "Mostly."},
				{Question: "Where is the chain?", Answer: "At the rear."},
			},
		},
		Facts: Facts{Name: "Mercedes-Benz OM651", FuelType: "Diesel", DisplacementCC: 2143, PowerKW: 150, TorqueNM: 500},
	}
}

func TestPageURL(t *testing.T) {
	tests := []struct {
		site, brand, code, want string
	}{
		{"https://example.com", "mercedes", "om651", "https://example.com/mercedes/engines/om651"},
		{"https://example.com/", "Mercedes", "OM651", "https://example.com/mercedes/engines/om651"},
		{"https://example.com//", "bmw", "n47", "https://example.com/bmw/engines/n47"},
	}
	for _, tt := range tests {
		if got := PageURL(Site{URL: tt.site}, tt.brand, tt.code); got != tt.want {
			t.Errorf("PageURL(%q, %q, %q) = %q, want %q", tt.site, tt.brand, tt.code, got, tt.want)
		}
	}
}

func TestBrandName(t *testing.T) {
	tests := map[string]string{
		"mercedes":   "Mercedes",
		"land-rover": "Land Rover",
		"bmw":        "Bmw",
	}
	for in, want := range tests {
		if got := BrandName(in); got != want {
			t.Errorf("BrandName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestBuildGraphShape(t *testing.T) {
	s := Build(testInput())
	if s.Context != content.SchemaContext {
		t.Fatalf("context = %q", s.Context)
	}
	types := make([]string, 0, len(s.Graph))
	for _, item := range s.Graph {
		types = append(types, item.GraphType())
	}
	want := []string{
		content.TypeWebSite, content.TypeWebPage, content.TypeArticle,
		content.TypeVehicleEngine, content.TypeDataset, content.TypeFAQPage,
	}
	if diff := cmp.Diff(want, types); diff != "" {
		t.Fatalf("graph types (-want +got):\n%s", diff)
	}
}

func TestBuildIDsAndBackrefs(t *testing.T) {
	s := Build(testInput())
	url := "https://example.com/mercedes/engines/om651"
	pageID := url + FragmentWebPage

	page := content.ItemsOf[content.WebPage](s)[0]
	if page.ID != pageID || page.URL != url {
		t.Fatalf("webpage id/url = %q %q", page.ID, page.URL)
	}
	if content.RefID(page.IsPartOf) != "https://example.com/#website" {
		t.Fatalf("webpage isPartOf = %q", content.RefID(page.IsPartOf))
	}
	if content.RefID(page.About) != url+FragmentEngine {
		t.Fatalf("webpage about = %q", content.RefID(page.About))
	}

	article := content.ItemsOf[content.Article](s)[0]
	if content.RefID(article.IsPartOf) != pageID || content.RefID(article.MainEntityOfPage) != pageID {
		t.Fatalf("article backrefs = %+v %+v", article.IsPartOf, article.MainEntityOfPage)
	}
	if article.Headline != "Mercedes-Benz OM651" {
		t.Fatalf("headline = %q", article.Headline)
	}

	faq := content.ItemsOf[content.FAQPage](s)[0]
	if content.RefID(faq.IsPartOf) != pageID || content.RefID(faq.MainEntityOfPage) != pageID {
		t.Fatalf("faq backrefs = %+v %+v", faq.IsPartOf, faq.MainEntityOfPage)
	}

	seen := map[string]bool{}
	for _, item := range s.Graph {
		if item.NodeID() == "" || seen[item.NodeID()] {
			t.Fatalf("bad or duplicate @id %q", item.NodeID())
		}
		seen[item.NodeID()] = true
	}
}

func TestBuildMirrorsFAQsVerbatim(t *testing.T) {
	in := testInput()
	faq := content.ItemsOf[content.FAQPage](Build(in))[0]
	want := []content.Question{
		{Name: "Is it reliable?", AcceptedAnswer: content.Answer{Text: "Mostly."}},
		{Name: "Where is the chain?", AcceptedAnswer: content.Answer{Text: "At the rear."}},
	}
	if diff := cmp.Diff(want, faq.MainEntity); diff != "" {
		t.Fatalf("mainEntity (-want +got):\n%s", diff)
	}
}

func TestBuildWithoutFAQs(t *testing.T) {
	in := testInput()
	in.Page.FAQs = nil
	s := Build(in)
	if n := len(content.ItemsOf[content.FAQPage](s)); n != 0 {
		t.Fatalf("expected no FAQPage, got %d", n)
	}
	if len(s.Graph) != 5 {
		t.Fatalf("expected 5 nodes, got %d", len(s.Graph))
	}
}

func TestBuildEngineNode(t *testing.T) {
	in := testInput()
	in.Facts.TorqueNM = 0
	e := content.ItemsOf[content.VehicleEngine](Build(in))[0]
	if e.EngineDisplacement == nil || e.EngineDisplacement.UnitCode != UnitCubicCentimetre || e.EngineDisplacement.Value != 2143 {
		t.Fatalf("displacement = %+v", e.EngineDisplacement)
	}
	if e.EnginePower == nil || e.EnginePower.UnitCode != UnitKilowatt {
		t.Fatalf("power = %+v", e.EnginePower)
	}
	if e.Torque != nil {
		t.Fatalf("zero torque should be omitted, got %+v", e.Torque)
	}
	if e.Manufacturer == nil || e.Manufacturer.Name != "Mercedes-Benz" {
		t.Fatalf("manufacturer = %+v", e.Manufacturer)
	}
}

func TestBuildFallbacks(t *testing.T) {
	in := testInput()
	in.BrandName = ""
	in.Facts.Name = ""
	in.Page.Hero.Heading = ""
	s := Build(in)

	e := content.ItemsOf[content.VehicleEngine](s)[0]
	if e.Name != "OM651" {
		t.Fatalf("engine name = %q", e.Name)
	}
	if e.Manufacturer.Name != "Mercedes" {
		t.Fatalf("manufacturer = %q", e.Manufacturer.Name)
	}
	if a := content.ItemsOf[content.Article](s)[0]; a.Headline != "OM651 engine" {
		t.Fatalf("headline = %q", a.Headline)
	}
}

func TestBuildDataset(t *testing.T) {
	d := content.ItemsOf[content.Dataset](Build(testInput()))[0]
	want := []content.PropertyValue{{Name: "Bore", Value: "83 mm"}, {Name: "Stroke", Value: "99 mm"}}
	if diff := cmp.Diff(want, d.VariableMeasured); diff != "" {
		t.Fatalf("variableMeasured (-want +got):\n%s", diff)
	}
	if d.License != "CC BY 4.0" || d.Creator == nil || d.Creator.Name != "Example" {
		t.Fatalf("dataset = %+v", d)
	}
}

func TestBuildImageURL(t *testing.T) {
	in := testInput()
	page := content.ItemsOf[content.WebPage](Build(in))[0]
	if page.PrimaryImageOfPage == nil || page.PrimaryImageOfPage.URL != "https://example.com/img/om651.webp" {
		t.Fatalf("image = %+v", page.PrimaryImageOfPage)
	}

	in.Page.BannerImage.Src = "https://cdn.example.net/x.webp"
	page = content.ItemsOf[content.WebPage](Build(in))[0]
	if page.PrimaryImageOfPage.URL != "https://cdn.example.net/x.webp" {
		t.Fatalf("absolute image rewritten: %q", page.PrimaryImageOfPage.URL)
	}

	in.Page.BannerImage.Src = ""
	if content.ItemsOf[content.WebPage](Build(in))[0].PrimaryImageOfPage != nil {
		t.Fatal("empty banner should produce no image")
	}
}

func TestMarshal(t *testing.T) {
	b, err := Marshal(Build(testInput()))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !strings.HasPrefix(string(b), "{\n  \"@context\": \"https://schema.org\"") {
		t.Fatalf("unexpected prefix: %.60s", b)
	}
	var back content.SchemaData
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if diff := cmp.Diff(Build(testInput()), back); diff != "" {
		t.Fatalf("round trip (-want +got):\n%s", diff)
	}
}
