// Package lint checks engine pages for content completeness and for
// consistency between the visible text and its JSON-LD mirror.
package lint

import (
	"errors"
	"fmt"
	"strings"

	"github.com/WessleyAI/wessley-engines/engine/content"
	"github.com/WessleyAI/wessley-engines/engine/domain"
	"github.com/samber/lo"
)

// Severity grades a finding. Only errors fail a lint run.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Rule names.
const (
	RuleRequiredFields   = "required-fields"
	RuleEngineSpecs      = "engine-specs"
	RuleCompatibleModels = "compatible-models"
	RuleIssues           = "issues"
	RuleFAQs             = "faqs"
	RuleSchemaContext    = "schema-context"
	RuleSchemaWebPage    = "schema-webpage"
	RuleSchemaBackrefs   = "schema-backrefs"
	RuleSchemaIDs        = "schema-ids"
	RuleFAQRoundTrip     = "faq-roundtrip"
	RuleLookup           = "lookup"
)

// Finding is one problem found on one page.
type Finding struct {
	Brand    string   `json:"brand"`
	Engine   string   `json:"engine"`
	Rule     string   `json:"rule"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

func (f Finding) String() string {
	return fmt.Sprintf("%s/%s: %s [%s] %s", f.Brand, f.Engine, f.Severity, f.Rule, f.Message)
}

// Report aggregates the findings of a catalog run.
type Report struct {
	Engines  int       `json:"engines"`
	Findings []Finding `json:"findings"`
}

// Errors returns the error-severity findings.
func (r Report) Errors() []Finding {
	return lo.Filter(r.Findings, func(f Finding, _ int) bool { return f.Severity == SeverityError })
}

// Warnings returns the warning-severity findings.
func (r Report) Warnings() []Finding {
	return lo.Filter(r.Findings, func(f Finding, _ int) bool { return f.Severity == SeverityWarning })
}

// OK reports whether the run found no errors.
func (r Report) OK() bool { return len(r.Errors()) == 0 }

// ByRule counts findings per rule.
func (r Report) ByRule() map[string]int {
	return lo.CountValuesBy(r.Findings, func(f Finding) string { return f.Rule })
}

// Source is the read side of a catalog.
type Source interface {
	Brands() []string
	Codes(brand string) []string
	Lookup(brand, code string) (content.EnginePageData, error)
}

// Catalog lints every page of src in brand/code order.
func Catalog(src Source) Report {
	var r Report
	for _, brand := range src.Brands() {
		for _, code := range src.Codes(brand) {
			r.Engines++
			page, err := src.Lookup(brand, code)
			if err != nil {
				r.Findings = append(r.Findings, Finding{
					Brand: brand, Engine: code, Rule: RuleLookup,
					Severity: SeverityError, Message: err.Error(),
				})
				continue
			}
			r.Findings = append(r.Findings, Check(brand, code, page)...)
		}
	}
	return r
}

// Check runs every rule against one page.
func Check(brand, code string, page content.EnginePageData) []Finding {
	c := &checker{brand: brand, code: code}
	c.requiredFields(page)
	c.engineSpecs(page.TechnicalSpecifications.EngineSpecs)
	c.compatibleModels(page.CompatibleModels.Models)
	c.issues(page.Reliability.Issues)
	c.faqs(page.FAQs)
	c.schema(page.Schema)
	c.faqRoundTrip(page.FAQs, page.Schema)
	return c.findings
}

type checker struct {
	brand, code string
	findings    []Finding
}

func (c *checker) add(sev Severity, rule, format string, args ...any) {
	c.findings = append(c.findings, Finding{
		Brand:    c.brand,
		Engine:   c.code,
		Rule:     rule,
		Severity: sev,
		Message:  fmt.Sprintf(format, args...),
	})
}

func (c *checker) errorf(rule, format string, args ...any) {
	c.add(SeverityError, rule, format, args...)
}

func (c *checker) warnf(rule, format string, args ...any) {
	c.add(SeverityWarning, rule, format, args...)
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }

func (c *checker) requiredFields(p content.EnginePageData) {
	fields := []struct {
		name, value string
	}{
		{"metadata.title", p.Metadata.Title},
		{"metadata.description", p.Metadata.Description},
		{"hero.complianceNote", p.Hero.ComplianceNote},
		{"technicalSpecifications.description", p.TechnicalSpecifications.Description},
		{"compatibleModels.description", p.CompatibleModels.Description},
		{"compatibleModels.identification", p.CompatibleModels.Identification},
		{"bannerImage.src", p.BannerImage.Src},
		{"reliability.subheading", p.Reliability.Subheading},
	}
	for _, f := range fields {
		if blank(f.value) {
			c.errorf(RuleRequiredFields, "%s is empty", f.name)
		}
	}
	if len(p.Hero.Intro) == 0 {
		c.errorf(RuleRequiredFields, "hero.intro has no paragraphs")
	}
	for i, para := range p.Hero.Intro {
		if blank(para) {
			c.errorf(RuleRequiredFields, "hero.intro[%d] is empty", i)
		}
	}
	if !blank(p.BannerImage.Src) && blank(p.BannerImage.Alt) {
		c.warnf(RuleRequiredFields, "bannerImage.alt is empty")
	}
	for i, n := range p.CompatibleModels.ExtraNotes {
		if blank(n.Title) || blank(n.Body) {
			c.errorf(RuleRequiredFields, "compatibleModels.extraNotes[%d] needs title and body", i)
		}
	}
}

func (c *checker) engineSpecs(rows []content.SpecRow) {
	if len(rows) == 0 {
		c.errorf(RuleEngineSpecs, "engineSpecs is empty")
		return
	}
	for i, r := range rows {
		if blank(r.Parameter) || blank(r.Value) || blank(r.Source) {
			c.errorf(RuleEngineSpecs, "engineSpecs[%d] (%q) needs parameter, value and source", i, r.Parameter)
		}
	}
}

func (c *checker) compatibleModels(rows []content.ModelRow) {
	if len(rows) == 0 {
		c.errorf(RuleCompatibleModels, "models table is empty")
		return
	}
	for i, r := range rows {
		if blank(r.Make) || blank(r.Model) || blank(r.Years) {
			c.errorf(RuleCompatibleModels, "models[%d] needs make, model and years", i)
			continue
		}
		if _, err := domain.ParseYears(r.Years); err != nil {
			c.errorf(RuleCompatibleModels, "models[%d] %s %s: %v", i, r.Make, r.Model, err)
		}
		if err := domain.ValidateMakeModel(r.Make, r.Model); err != nil {
			c.warnf(RuleCompatibleModels, "models[%d]: %v", i, err)
		}
		if blank(r.Source) {
			c.warnf(RuleCompatibleModels, "models[%d] %s %s has no source", i, r.Make, r.Model)
		}
	}
}

func (c *checker) issues(issues []content.Issue) {
	if len(issues) == 0 {
		c.warnf(RuleIssues, "reliability section lists no issues")
	}
	for i, is := range issues {
		if blank(is.Title) || blank(is.Symptoms) || blank(is.Cause) || blank(is.Fix) {
			c.errorf(RuleIssues, "issues[%d] (%q) needs title, symptoms, cause and fix", i, is.Title)
		}
	}
}

func (c *checker) faqs(faqs []content.FAQ) {
	seen := make(map[string]int, len(faqs))
	for i, f := range faqs {
		if blank(f.Question) || blank(f.Answer) {
			c.errorf(RuleFAQs, "faqs[%d] needs question and answer", i)
			continue
		}
		key := strings.ToLower(strings.TrimSpace(f.Question))
		if j, dup := seen[key]; dup {
			c.errorf(RuleFAQs, "faqs[%d] duplicates faqs[%d]: %q", i, j, f.Question)
			continue
		}
		seen[key] = i
	}
}

func (c *checker) schema(s content.SchemaData) {
	if s.Context != content.SchemaContext {
		c.errorf(RuleSchemaContext, "@context is %q, want %q", s.Context, content.SchemaContext)
	}

	ids := make(map[string]string, len(s.Graph))
	for i, item := range s.Graph {
		id := item.NodeID()
		if blank(id) {
			c.errorf(RuleSchemaIDs, "@graph[%d] %s has no @id", i, item.GraphType())
			continue
		}
		if prev, dup := ids[id]; dup {
			c.errorf(RuleSchemaIDs, "@id %q used by %s and %s", id, prev, item.GraphType())
			continue
		}
		ids[id] = item.GraphType()
	}

	pages := content.ItemsOf[content.WebPage](s)
	if len(pages) != 1 {
		c.errorf(RuleSchemaWebPage, "found %d WebPage items, want exactly 1", len(pages))
		return
	}
	pageID := pages[0].ID

	for _, a := range content.ItemsOf[content.Article](s) {
		c.backrefs(content.TypeArticle, pageID, a.IsPartOf, a.MainEntityOfPage)
	}
	for _, f := range content.ItemsOf[content.FAQPage](s) {
		c.backrefs(content.TypeFAQPage, pageID, f.IsPartOf, f.MainEntityOfPage)
	}
}

func (c *checker) backrefs(typ, pageID string, isPartOf, mainEntityOfPage *content.Ref) {
	if isPartOf == nil && mainEntityOfPage == nil {
		c.errorf(RuleSchemaBackrefs, "%s has neither isPartOf nor mainEntityOfPage", typ)
		return
	}
	if isPartOf != nil && isPartOf.ID != pageID {
		c.errorf(RuleSchemaBackrefs, "%s isPartOf %q, want %q", typ, isPartOf.ID, pageID)
	}
	if mainEntityOfPage != nil && mainEntityOfPage.ID != pageID {
		c.errorf(RuleSchemaBackrefs, "%s mainEntityOfPage %q, want %q", typ, mainEntityOfPage.ID, pageID)
	}
}

func (c *checker) faqRoundTrip(faqs []content.FAQ, s content.SchemaData) {
	blocks := content.ItemsOf[content.FAQPage](s)
	if len(faqs) == 0 {
		for _, b := range blocks {
			if len(b.MainEntity) > 0 {
				c.errorf(RuleFAQRoundTrip, "FAQPage has %d questions but the page has no FAQs", len(b.MainEntity))
			}
		}
		return
	}
	switch len(blocks) {
	case 0:
		c.errorf(RuleFAQRoundTrip, "page has %d FAQs but no FAQPage item", len(faqs))
		return
	case 1:
	default:
		c.errorf(RuleFAQRoundTrip, "found %d FAQPage items, want 1", len(blocks))
		return
	}

	entities := blocks[0].MainEntity
	mirrored := lo.SliceToMap(entities, func(q content.Question) (content.FAQ, struct{}) {
		return content.FAQ{Question: q.Name, Answer: q.AcceptedAnswer.Text}, struct{}{}
	})
	for i, f := range faqs {
		if _, ok := mirrored[f]; !ok {
			c.errorf(RuleFAQRoundTrip, "faqs[%d] %q is not mirrored verbatim in FAQPage.mainEntity", i, f.Question)
		}
	}
	if len(entities) != len(faqs) {
		c.errorf(RuleFAQRoundTrip, "FAQPage has %d questions, page has %d FAQs", len(entities), len(faqs))
	}
}

// ErrFailed is returned by callers that turn a failing report into an error.
var ErrFailed = errors.New("lint failed")

// Err returns ErrFailed wrapped with the error count, or nil when r is OK.
func (r Report) Err() error {
	if n := len(r.Errors()); n > 0 {
		return fmt.Errorf("%w: %d error(s) across %d engine(s)", ErrFailed, n, r.Engines)
	}
	return nil
}
