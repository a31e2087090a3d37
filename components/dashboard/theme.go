package dashboard

import (
	"sort"
	"strings"

	"github.com/go-echarts/go-echarts/v2/types"
)

// Theme carries design tokens exposed as CSS variables plus the echarts theme name.
type Theme struct {
	Name       string
	Tokens     map[string]string
	ChartTheme string
}

// DefaultTheme is the light palette used when no theme is configured.
func DefaultTheme() Theme {
	return Theme{
		Name: "light",
		Tokens: map[string]string{
			"dsb-bg":     "#fff",
			"dsb-fg":     "#222",
			"dsb-muted":  "#666",
			"dsb-border": "#eee",
			"dsb-accent": "#3b82f6",
		},
		ChartTheme: types.ThemeWesteros,
	}
}

// DarkTheme is the dark palette.
func DarkTheme() Theme {
	return Theme{
		Name: "dark",
		Tokens: map[string]string{
			"dsb-bg":     "#1f2937",
			"dsb-fg":     "#f3f4f6",
			"dsb-muted":  "#9ca3af",
			"dsb-border": "#374151",
			"dsb-accent": "#60a5fa",
		},
		ChartTheme: types.ThemeWonderland,
	}
}

// ThemeByName resolves a theme name, falling back to the light theme.
func ThemeByName(name string) Theme {
	if strings.EqualFold(strings.TrimSpace(name), "dark") {
		return DarkTheme()
	}
	return DefaultTheme()
}

// CSSVariables normalizes token keys into CSS variable names.
func (theme Theme) CSSVariables() map[string]string {
	if len(theme.Tokens) == 0 {
		return nil
	}
	vars := make(map[string]string, len(theme.Tokens))
	for key, value := range theme.Tokens {
		name := normalizeCSSVariable(key)
		if name == "" || value == "" {
			continue
		}
		vars[name] = value
	}
	return vars
}

// CSSRule renders the variables as a `.dsb-container` rule, sorted by name.
func (theme Theme) CSSRule() string {
	vars := theme.CSSVariables()
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	var builder strings.Builder
	builder.WriteString(".dsb-container{")
	for _, key := range keys {
		builder.WriteString(key)
		builder.WriteString(":")
		builder.WriteString(vars[key])
		builder.WriteString(";")
	}
	builder.WriteString("}")
	return builder.String()
}

func normalizeCSSVariable(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	if strings.HasPrefix(name, "--") {
		return name
	}
	return "--" + name
}
