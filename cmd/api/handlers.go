package main

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/WessleyAI/wessley-engines/engine/catalog"
	"github.com/WessleyAI/wessley-engines/engine/content"
	"github.com/WessleyAI/wessley-engines/engine/jsonld"
	"github.com/WessleyAI/wessley-engines/pkg/telemetry"
	"github.com/samber/lo"
)

const contentTypeLD = "application/ld+json"

func routes(cat *catalog.Catalog, metrics *telemetry.Metrics, logger *slog.Logger) *http.ServeMux {
	h := &handlers{cat: cat, metrics: metrics, logger: logger}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", h.health)
	mux.HandleFunc("GET /api/brands", h.brands)
	mux.HandleFunc("GET /api/brands/{brand}", h.brand)
	mux.HandleFunc("GET /api/brands/{brand}/engines/{code}", h.engine)
	mux.HandleFunc("GET /api/brands/{brand}/engines/{code}/schema", h.schema)
	mux.Handle("GET /metrics", metrics.Handler())
	return mux
}

type handlers struct {
	cat     *catalog.Catalog
	metrics *telemetry.Metrics
	logger  *slog.Logger
}

// BrandListItem is one entry of GET /api/brands.
type BrandListItem struct {
	Key     string   `json:"key"`
	Name    string   `json:"name"`
	Engines []string `json:"engines"`
}

// EngineSummary links to one engine page.
type EngineSummary struct {
	Code  string `json:"code"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

// BrandResponse is GET /api/brands/{brand}: the brand without engine bodies.
type BrandResponse struct {
	Key               string                 `json:"key"`
	Name              string                 `json:"name"`
	HeroImage         content.Image          `json:"heroImage"`
	ResearchResources []content.ResourceLink `json:"researchResources,omitempty"`
	Engines           []EngineSummary        `json:"engines"`
}

func (h *handlers) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"brands":  len(h.cat.Brands()),
		"engines": h.cat.Len(),
	})
}

func (h *handlers) brands(w http.ResponseWriter, _ *http.Request) {
	items := lo.FilterMap(h.cat.Brands(), func(key string, _ int) (BrandListItem, bool) {
		b, err := h.cat.Brand(key)
		if err != nil {
			return BrandListItem{}, false
		}
		return BrandListItem{Key: key, Name: b.Name, Engines: h.cat.Codes(key)}, true
	})
	writeJSON(w, http.StatusOK, map[string]any{"brands": items})
}

func (h *handlers) brand(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("brand")
	b, err := h.cat.Brand(key)
	if err != nil {
		h.fail(w, err)
		return
	}
	codes := h.cat.Codes(key)
	writeJSON(w, http.StatusOK, BrandResponse{
		Key:               strings.ToLower(key),
		Name:              b.Name,
		HeroImage:         b.HeroImage,
		ResearchResources: b.ResearchResources,
		Engines: lo.Map(codes, func(code string, _ int) EngineSummary {
			return EngineSummary{
				Code:  code,
				Title: b.Engines[code].Metadata.Title,
				URL:   jsonld.PageURL(h.cat.Site(), key, code),
			}
		}),
	})
}

func (h *handlers) lookup(w http.ResponseWriter, r *http.Request) (content.EnginePageData, bool) {
	page, err := h.cat.Lookup(r.PathValue("brand"), r.PathValue("code"))
	h.metrics.ObserveLookup(outcome(err))
	if err != nil {
		h.fail(w, err)
		return content.EnginePageData{}, false
	}
	return page, true
}

func (h *handlers) engine(w http.ResponseWriter, r *http.Request) {
	page, ok := h.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *handlers) schema(w http.ResponseWriter, r *http.Request) {
	page, ok := h.lookup(w, r)
	if !ok {
		return
	}
	body, err := jsonld.Marshal(page.Schema)
	if err != nil {
		h.fail(w, err)
		return
	}
	w.Header().Set("Content-Type", contentTypeLD)
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

func (h *handlers) fail(w http.ResponseWriter, err error) {
	if content.IsNotFound(err) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	h.logger.Error("request failed", "err", err)
	writeError(w, http.StatusInternalServerError, "internal server error")
}

func outcome(err error) string {
	switch {
	case err == nil:
		return telemetry.OutcomeHit
	case errors.Is(err, content.ErrBrandNotFound):
		return telemetry.OutcomeBrandMissing
	default:
		return telemetry.OutcomeEngineMissing
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
