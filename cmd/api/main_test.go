package main

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/WessleyAI/wessley-engines/engine/catalog"
	"github.com/WessleyAI/wessley-engines/engine/content"
	"github.com/WessleyAI/wessley-engines/engine/jsonld"
	"github.com/WessleyAI/wessley-engines/engine/lint"
	"github.com/WessleyAI/wessley-engines/pkg/config"
	"github.com/WessleyAI/wessley-engines/pkg/telemetry"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func testConfig() config.Config {
	return config.Config{Port: "8080", CORSOrigin: "*", ServiceName: "engines-api-test"}
}

func testServer(t *testing.T, cfg config.Config) (http.Handler, *telemetry.Metrics) {
	t.Helper()
	cat, err := catalog.Default()
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	metrics := telemetry.New()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return newHandler(cfg, cat, metrics, logger), metrics
}

func get(h http.Handler, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	h, _ := testServer(t, testConfig())
	rec := get(h, "/api/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["status"] != "ok" || resp["engines"] != float64(5) {
		t.Fatalf("unexpected health %v", resp)
	}
}

func TestBrandsEndpoint(t *testing.T) {
	h, _ := testServer(t, testConfig())
	rec := get(h, "/api/brands")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp struct {
		Brands []BrandListItem `json:"brands"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Brands) != 1 || resp.Brands[0].Key != "mercedes" || resp.Brands[0].Name != "Mercedes-Benz" {
		t.Fatalf("unexpected brands %+v", resp.Brands)
	}
	if len(resp.Brands[0].Engines) != 5 {
		t.Fatalf("unexpected engines %v", resp.Brands[0].Engines)
	}
}

func TestBrandEndpoint(t *testing.T) {
	h, _ := testServer(t, testConfig())
	rec := get(h, "/api/brands/Mercedes")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp BrandResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Key != "mercedes" || len(resp.ResearchResources) == 0 || resp.HeroImage.Src == "" {
		t.Fatalf("unexpected brand %+v", resp)
	}
	if len(resp.Engines) != 5 || resp.Engines[0].Code != "om642" {
		t.Fatalf("unexpected engines %+v", resp.Engines)
	}
	if resp.Engines[0].URL != "https://engines.wessley.ai/mercedes/engines/om642" || resp.Engines[0].Title == "" {
		t.Fatalf("unexpected summary %+v", resp.Engines[0])
	}
}

func TestNotFound(t *testing.T) {
	h, metrics := testServer(t, testConfig())
	for _, path := range []string{
		"/api/brands/lada",
		"/api/brands/lada/engines/om651",
		"/api/brands/mercedes/engines/om999",
		"/api/brands/mercedes/engines/om999/schema",
	} {
		rec := get(h, path)
		if rec.Code != http.StatusNotFound {
			t.Fatalf("%s: expected 404, got %d", path, rec.Code)
		}
		var resp map[string]string
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil || resp["error"] == "" {
			t.Fatalf("%s: expected JSON error, got %v %v", path, resp, err)
		}
	}
	if got := testutil.ToFloat64(metrics.Lookups.WithLabelValues(telemetry.OutcomeEngineMissing)); got != 2 {
		t.Fatalf("engine misses = %v", got)
	}
	if got := testutil.ToFloat64(metrics.Lookups.WithLabelValues(telemetry.OutcomeBrandMissing)); got != 1 {
		t.Fatalf("brand misses = %v", got)
	}
}

func TestEngineEndpoint(t *testing.T) {
	h, metrics := testServer(t, testConfig())
	rec := get(h, "/api/brands/mercedes/engines/OM654")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body)
	}
	var page content.EnginePageData
	if err := json.NewDecoder(rec.Body).Decode(&page); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.Contains(page.Metadata.Title, "OM654") {
		t.Fatalf("unexpected title %q", page.Metadata.Title)
	}
	if len(content.ItemsOf[content.FAQPage](page.Schema)) != 1 {
		t.Fatal("expected embedded schema with a FAQPage")
	}
	report := lint.Report{Engines: 1, Findings: lint.Check("mercedes", "om654", page)}
	if !report.OK() {
		t.Fatalf("served page fails lint: %v", report.Errors())
	}
	if got := testutil.ToFloat64(metrics.Lookups.WithLabelValues(telemetry.OutcomeHit)); got != 1 {
		t.Fatalf("hits = %v", got)
	}
}

func TestSchemaEndpoint(t *testing.T) {
	h, _ := testServer(t, testConfig())
	rec := get(h, "/api/brands/mercedes/engines/om651/schema")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != contentTypeLD {
		t.Fatalf("content type = %q", ct)
	}
	var s content.SchemaData
	if err := json.NewDecoder(rec.Body).Decode(&s); err != nil {
		t.Fatalf("decode: %v", err)
	}
	pages := content.ItemsOf[content.WebPage](s)
	if len(pages) != 1 || pages[0].ID != "https://engines.wessley.ai/mercedes/engines/om651"+jsonld.FragmentWebPage {
		t.Fatalf("unexpected webpage %+v", pages)
	}
}

func TestMetricsEndpointSeesRoutes(t *testing.T) {
	h, _ := testServer(t, testConfig())
	get(h, "/api/brands/mercedes")
	get(h, "/api/brands/lada")

	rec := get(h, "/metrics")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		`engines_http_requests_total{code="200",route="GET /api/brands/{brand}"} 1`,
		`engines_http_requests_total{code="404",route="GET /api/brands/{brand}"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics missing %q", want)
		}
	}
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimitRPS = 1
	cfg.RateLimitBurst = 1
	h, metrics := testServer(t, cfg)

	if rec := get(h, "/api/health"); rec.Code != http.StatusOK {
		t.Fatalf("first request: %d", rec.Code)
	}
	if rec := get(h, "/api/health"); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second request: %d", rec.Code)
	}
	if got := testutil.ToFloat64(metrics.RateLimited); got != 1 {
		t.Fatalf("rate limited = %v", got)
	}
}

func TestCORSPreflight(t *testing.T) {
	h, _ := testServer(t, testConfig())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/brands", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatal("missing CORS origin header")
	}
}

func TestCheckCatalog(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cat, err := catalog.Default()
	if err != nil {
		t.Fatal(err)
	}
	if err := checkCatalog(cat, telemetry.New(), logger); err != nil {
		t.Fatalf("built-in catalog should pass: %v", err)
	}

	broken := catalog.New(jsonld.Site{URL: "https://example.com"}, map[string]content.BrandData{
		"acme": {Name: "Acme", Engines: map[string]content.EnginePageData{"x1": {}}},
	})
	metrics := telemetry.New()
	err = checkCatalog(broken, metrics, logger)
	if !errors.Is(err, lint.ErrFailed) {
		t.Fatalf("expected lint failure, got %v", err)
	}
	if got := testutil.ToFloat64(metrics.LintFindings.WithLabelValues(lint.RuleEngineSpecs, string(lint.SeverityError))); got != 1 {
		t.Fatalf("engine-specs errors = %v", got)
	}
}
