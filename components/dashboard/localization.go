package dashboard

import (
	"context"
	"strings"
)

// TranslationService exposes locale-aware translation helpers. Implementations can
// provide pluralization or interpolation; the dashboard only needs plain lookups.
type TranslationService interface {
	Translate(ctx context.Context, key, locale string, args map[string]any) (string, error)
}

// Translation keys for the dashboard copy, with their English fallbacks.
var defaultLabels = map[string]string{
	"dashboard.title":                  "Dashboard",
	"dashboard.actions.refresh":        "Refresh",
	"dashboard.loading":                "Loading...",
	"dashboard.stats.revenue":          "Revenue",
	"dashboard.stats.orders":           "Orders",
	"dashboard.stats.customers":        "Customers",
	"dashboard.stats.products":         "Products",
	"dashboard.sales.title":            "Sales (last 7 days)",
	"dashboard.sales.series":           "Sales",
	"dashboard.categories.title":       "Category Breakdown",
	"dashboard.orders.title":           "Recent Orders",
	"dashboard.orders.column.order":    "Order",
	"dashboard.orders.column.customer": "Customer",
	"dashboard.orders.column.total":    "Total",
	"dashboard.orders.column.status":   "Status",
}

// Labels resolves dashboard copy for a locale.
type Labels struct {
	svc    TranslationService
	locale string
}

// NewLabels builds a label resolver. A nil service yields the English defaults.
func NewLabels(svc TranslationService, locale string) Labels {
	return Labels{svc: svc, locale: normalizeLocale(locale)}
}

// Get returns the translated label for key.
func (l Labels) Get(ctx context.Context, key string) string {
	return translateOrFallback(ctx, l.svc, key, l.locale, defaultLabels[key], nil)
}

// MapTranslations is a TranslationService backed by locale -> key -> text maps.
// Language-region locales (`es-mx`) fall back to their base language (`es`).
type MapTranslations map[string]map[string]string

// Translate looks up key for locale.
func (m MapTranslations) Translate(_ context.Context, key, locale string, _ map[string]any) (string, error) {
	for _, candidate := range localeCandidates(locale) {
		for name, values := range m {
			if !strings.EqualFold(name, candidate) {
				continue
			}
			if value := values[key]; value != "" {
				return value, nil
			}
		}
	}
	return "", nil
}

func localeCandidates(locale string) []string {
	locale = normalizeLocale(locale)
	if locale == "" {
		return []string{"default"}
	}
	candidates := []string{locale}
	if idx := strings.Index(locale, "-"); idx > 0 {
		candidates = append(candidates, locale[:idx])
	}
	candidates = append(candidates, "default")
	return candidates
}

func normalizeLocale(locale string) string {
	return strings.TrimSpace(strings.ToLower(locale))
}

func translateOrFallback(ctx context.Context, svc TranslationService, key, locale, fallback string, params map[string]any) string {
	if svc != nil {
		if translated, err := svc.Translate(ctx, key, locale, params); err == nil && translated != "" {
			return translated
		}
	}
	if fallback != "" {
		return fallback
	}
	return key
}
