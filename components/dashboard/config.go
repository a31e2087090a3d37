package dashboard

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/goodsign/monday"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

// Chart renderer modes.
const (
	ChartsECharts = "echarts"
	ChartsVector  = "vector"
)

// Config is the file/flag configuration of a dashboard deployment.
type Config struct {
	ContainerID string        `json:"container_id" yaml:"container_id"`
	Endpoint    string        `json:"endpoint" yaml:"endpoint"`
	Timeout     time.Duration `json:"timeout" yaml:"timeout"`
	Charts      string        `json:"charts" yaml:"charts"`
	Theme       string        `json:"theme" yaml:"theme"`
	Locale      string        `json:"locale" yaml:"locale"`
	Title       string        `json:"title" yaml:"title"`
	Addr        string        `json:"addr" yaml:"addr"`
	BasePath    string        `json:"base_path" yaml:"base_path"`
	AssetsHost  string        `json:"assets_host" yaml:"assets_host"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		ContainerID: DefaultContainerID,
		Timeout:     10 * time.Second,
		Charts:      ChartsECharts,
		Theme:       "light",
		Locale:      "en-US",
		Title:       "Dashboard",
		Addr:        ":8080",
		BasePath:    "/admin",
	}
}

var configSchema = map[string]any{
	"type":                 "object",
	"additionalProperties": false,
	"properties": map[string]any{
		"container_id": map[string]any{"type": "string", "pattern": "^[A-Za-z][A-Za-z0-9_-]*$"},
		"endpoint":     map[string]any{"type": "string"},
		"timeout":      map[string]any{"type": "string", "pattern": "^[0-9]+(ms|s|m)$"},
		"charts":       map[string]any{"type": "string", "enum": []string{ChartsECharts, ChartsVector}},
		"theme":        map[string]any{"type": "string", "enum": []string{"light", "dark"}},
		"locale":       map[string]any{"type": "string"},
		"title":        map[string]any{"type": "string"},
		"addr":         map[string]any{"type": "string"},
		"base_path":    map[string]any{"type": "string", "pattern": "^/"},
		"assets_host":  map[string]any{"type": "string"},
	},
}

var (
	configSchemaOnce     sync.Once
	compiledConfigSchema *jsonschema.Schema
	configSchemaErr      error
)

// LoadConfig reads a YAML config file on top of DefaultConfig.
func LoadConfig(path string) (Config, error) {
	f, err := os.Open(path) //nolint:gosec
	if err != nil {
		return Config{}, fmt.Errorf("dashboard: open config %s: %w", path, err)
	}
	defer f.Close()
	cfg, err := DecodeConfig(f)
	if err != nil {
		return Config{}, fmt.Errorf("dashboard: config %s: %w", path, err)
	}
	return cfg, nil
}

// DecodeConfig decodes and validates a YAML document on top of DefaultConfig.
func DecodeConfig(r io.Reader) (Config, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return Config{}, fmt.Errorf("dashboard: read config: %w", err)
	}
	cfg := DefaultConfig()
	if len(bytes.TrimSpace(raw)) == 0 {
		return cfg, nil
	}
	var doc map[string]any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return Config{}, fmt.Errorf("dashboard: decode config: %w", err)
	}
	if err := validateConfigDocument(doc); err != nil {
		return Config{}, err
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("dashboard: decode config: %w", err)
	}
	return cfg, nil
}

func validateConfigDocument(doc map[string]any) error {
	schema, err := configSchemaValidator()
	if err != nil {
		return err
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("dashboard: marshal config: %w", err)
	}
	var payload any
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("dashboard: normalize config: %w", err)
	}
	if err := schema.Validate(payload); err != nil {
		return fmt.Errorf("dashboard: config failed validation: %w", err)
	}
	return nil
}

func configSchemaValidator() (*jsonschema.Schema, error) {
	configSchemaOnce.Do(func() {
		data, err := json.Marshal(configSchema)
		if err != nil {
			configSchemaErr = fmt.Errorf("dashboard: marshal config schema: %w", err)
			return
		}
		compiler := jsonschema.NewCompiler()
		const name = "dashboard-config.json"
		if err := compiler.AddResource(name, bytes.NewReader(data)); err != nil {
			configSchemaErr = fmt.Errorf("dashboard: load config schema: %w", err)
			return
		}
		compiledConfigSchema, configSchemaErr = compiler.Compile(name)
	})
	return compiledConfigSchema, configSchemaErr
}

// ChartRenderer selects the chart strategy once for the configured mode. extra
// options apply to the echarts renderer only.
func (c Config) ChartRenderer(extra ...EChartsOption) ChartRenderer {
	if strings.EqualFold(c.Charts, ChartsVector) {
		return NewVectorCharts()
	}
	theme := ThemeByName(c.Theme)
	opts := []EChartsOption{
		WithChartTheme(theme.ChartTheme),
		WithChartLocale(c.mondayLocale()),
	}
	if c.AssetsHost != "" {
		opts = append(opts, WithChartAssetsHost(ensureTrailingSlash(c.AssetsHost)))
	}
	return NewEChartsCharts(append(opts, extra...)...)
}

// Options builds dashboard options from the config. The data source is left to the
// caller.
func (c Config) Options(chartOpts ...EChartsOption) Options {
	return Options{
		ContainerID: c.ContainerID,
		Charts:      c.ChartRenderer(chartOpts...),
		Locale:      c.Locale,
		Theme:       ThemeByName(c.Theme),
	}
}

var mondayLocales = map[string]monday.Locale{
	"en-us": monday.LocaleEnUS,
	"en-gb": monday.LocaleEnGB,
	"de-de": monday.LocaleDeDE,
	"fr-fr": monday.LocaleFrFR,
	"es-es": monday.LocaleEsES,
	"it-it": monday.LocaleItIT,
	"pt-br": monday.LocalePtBR,
	"nl-nl": monday.LocaleNlNL,
}

func (c Config) mondayLocale() monday.Locale {
	locale := strings.ReplaceAll(normalizeLocale(c.Locale), "_", "-")
	if l, ok := mondayLocales[locale]; ok {
		return l
	}
	return monday.LocaleEnUS
}
