// Package domain holds the vehicle reference tables and field validators
// shared by the catalog loader and the content linter.
package domain

import "strings"

// SupportedMakes maps make names to the models our engine pages reference.
var SupportedMakes = map[string][]string{
	"Mercedes-Benz": {
		"A-Class", "B-Class", "C-Class", "CLA", "CLS", "E-Class", "G-Class", "GL-Class",
		"GLA", "GLB", "GLC", "GLE", "GLK", "GLS", "M-Class", "ML", "R-Class", "S-Class",
		"SLK", "SLC", "Sprinter", "Vito", "V-Class", "Viano", "X-Class", "Citan",
	},
	"Chrysler":     {"300C", "300", "Grand Voyager"},
	"Dodge":        {"Sprinter"},
	"Freightliner": {"Sprinter"},
	"Jeep":         {"Grand Cherokee", "Commander", "Cherokee"},
	"Infiniti":     {"Q30", "QX30", "Q50", "Q70"},
	"Nissan":       {"Navara", "NP300", "Pathfinder"},
	"Renault":      {"Master", "Trafic", "Alaskan"},
	"SsangYong":    {"Rexton", "Kyron", "Musso", "Rodius", "Korando"},
	"Volkswagen":   {"Crafter", "LT"},
}

// MinModelYear is the earliest year we accept.
const MinModelYear = 1980

// MaxModelYear is the latest year we accept (current + 1 for next-year models).
const MaxModelYear = 2027

// CanonicalMake returns the table spelling of make, matched case-insensitively.
// "Mercedes" and "Benz" resolve to "Mercedes-Benz".
func CanonicalMake(make string) (string, bool) {
	m := strings.TrimSpace(make)
	switch strings.ToLower(m) {
	case "mercedes", "benz", "mercedes benz":
		return "Mercedes-Benz", true
	}
	for k := range SupportedMakes {
		if strings.EqualFold(k, m) {
			return k, true
		}
	}
	return "", false
}

// ValidateMakeModel checks a compatible-model row against SupportedMakes.
// Model matching is case-insensitive and accepts a known model as a prefix,
// so "E-Class Estate" matches "E-Class".
func ValidateMakeModel(make, model string) error {
	canonical, ok := CanonicalMake(make)
	if !ok {
		return fieldError("make", make, ErrUnsupportedMake)
	}
	name := strings.ToLower(strings.TrimSpace(model))
	for _, m := range SupportedMakes[canonical] {
		lm := strings.ToLower(m)
		if name == lm || strings.HasPrefix(name, lm+" ") || strings.HasPrefix(name, lm+"-") {
			return nil
		}
	}
	return fieldError("model", model, ErrUnsupportedModel)
}
