package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/gofiber/fiber/v2"
	router "github.com/goliatone/go-router"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-storefront-dashboard/components/dashboard"
	"github.com/goliatone/go-storefront-dashboard/components/dashboard/commands"
	"github.com/goliatone/go-storefront-dashboard/components/dashboard/gorouter"
	"github.com/goliatone/go-storefront-dashboard/components/dashboard/queries"
	"github.com/goliatone/go-storefront-dashboard/pkg/datasource"
)

type cli struct {
	Config    string `type:"path" help:"YAML config file."`
	LogLevel  string `name:"log-level" default:"info" enum:"debug,info,warn,error" help:"Log level."`
	LogFormat string `name:"log-format" default:"console" enum:"console,json" help:"Log encoding."`

	Serve  serveCmd  `cmd:"" help:"Serve the live dashboard over HTTP."`
	Render renderCmd `cmd:"" help:"Render a static HTML snapshot of the dashboard."`
	Fetch  fetchCmd  `cmd:"" help:"Fetch dashboard data (with fallback) and print it."`
}

// overrides are flags shared by every subcommand that win over the config file.
type overrides struct {
	Endpoint    string        `help:"Base URL of the service exposing /api/dashboard."`
	Timeout     time.Duration `help:"Upstream request timeout."`
	ContainerID string        `name:"container-id" help:"Id of the container element."`
	Charts      string        `help:"Chart renderer (echarts or vector)."`
	Theme       string        `help:"Color theme (light or dark)."`
	Locale      string        `help:"Locale for labels and dates."`
}

type serveCmd struct {
	Overrides overrides `embed:""`
	Addr      string    `help:"Listen address."`
	BasePath  string    `name:"base-path" help:"Route prefix."`
}

type renderCmd struct {
	Overrides overrides `embed:""`
	Out       string    `short:"o" type:"path" help:"Output file (defaults to stdout)."`
}

type fetchCmd struct {
	Overrides overrides `embed:""`
	Format    string    `default:"json" enum:"json,yaml" help:"Output format."`
}

func main() {
	var app cli
	parser := kong.Parse(&app,
		kong.Name("dashboardctl"),
		kong.Description("Storefront admin dashboard server and tooling."),
		kong.UsageOnError(),
	)
	logger, err := newLogger(app.LogLevel, app.LogFormat)
	parser.FatalIfErrorf(err)
	defer func() { _ = logger.Sync() }()

	cfg, err := loadConfig(app.Config)
	parser.FatalIfErrorf(err)

	ctx := context.Background()
	parser.BindTo(ctx, (*context.Context)(nil))
	parser.FatalIfErrorf(parser.Run(logger, &cfg))
}

func newLogger(level, format string) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if format == "console" {
		zcfg = zap.NewDevelopmentConfig()
	}
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("dashboardctl: log level: %w", err)
	}
	zcfg.Level = lvl
	return zcfg.Build()
}

func loadConfig(path string) (dashboard.Config, error) {
	if path == "" {
		return dashboard.DefaultConfig(), nil
	}
	return dashboard.LoadConfig(path)
}

func (o overrides) apply(cfg *dashboard.Config) {
	if o.Endpoint != "" {
		cfg.Endpoint = o.Endpoint
	}
	if o.Timeout > 0 {
		cfg.Timeout = o.Timeout
	}
	if o.ContainerID != "" {
		cfg.ContainerID = o.ContainerID
	}
	if o.Charts != "" {
		cfg.Charts = o.Charts
	}
	if o.Theme != "" {
		cfg.Theme = o.Theme
	}
	if o.Locale != "" {
		cfg.Locale = o.Locale
	}
}

func newSource(cfg dashboard.Config, telemetry dashboard.Telemetry) (dashboard.DataSource, error) {
	var fetcher dashboard.DataFetcher
	if cfg.Endpoint != "" {
		client, err := datasource.NewHTTPClient(datasource.HTTPConfig{BaseURL: cfg.Endpoint, Timeout: cfg.Timeout})
		if err != nil {
			return nil, err
		}
		fetcher = client
	}
	return dashboard.NewFallbackSource(fetcher, dashboard.WithFallbackTelemetry(telemetry)), nil
}

const chartCacheTTL = 5 * time.Minute

// purgeChartCache sweeps expired chart markup every interval until ctx ends.
func purgeChartCache(ctx context.Context, cache *dashboard.ChartCache, interval time.Duration, logger *zap.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if dropped := cache.Purge(); dropped > 0 {
				logger.Debug("chart cache purged", zap.Int("dropped", dropped))
			}
		}
	}
}

func pageLang(locale string) string {
	lang, _, _ := strings.Cut(strings.ReplaceAll(locale, "_", "-"), "-")
	return strings.ToLower(lang)
}

func (cmd *serveCmd) Run(ctx context.Context, logger *zap.Logger, cfg *dashboard.Config) error {
	cmd.Overrides.apply(cfg)
	if cmd.Addr != "" {
		cfg.Addr = cmd.Addr
	}
	if cmd.BasePath != "" {
		cfg.BasePath = cmd.BasePath
	}
	base := strings.TrimRight(cfg.BasePath, "/")
	telemetry := dashboard.NewZapTelemetry(logger)
	source, err := newSource(*cfg, telemetry)
	if err != nil {
		return err
	}
	hook := dashboard.NewBroadcastHook()
	defer hook.Close()

	doc, err := dashboard.NewDocument(dashboard.PageOptions{
		Title:      cfg.Title,
		Lang:       pageLang(cfg.Locale),
		EventsPath: base + "/dashboard/events",
		StreamPath: base + "/dashboard/ws",
	})
	if err != nil {
		return err
	}
	cache := dashboard.NewChartCache(chartCacheTTL)
	go purgeChartCache(ctx, cache, chartCacheTTL, logger)

	opts := cfg.Options(dashboard.WithChartCache(cache))
	opts.Source = source
	opts.RefreshHook = hook
	opts.Telemetry = telemetry

	var (
		board   *dashboard.Dashboard
		initErr error
	)
	dashboard.AutoInit(ctx, doc, opts, func(d *dashboard.Dashboard, err error) {
		board, initErr = d, err
	})
	doc.MarkReady()
	if initErr != nil {
		return fmt.Errorf("dashboardctl: init: %w", initErr)
	}

	controller := dashboard.NewController(board, telemetry)
	server := router.NewFiberAdapter()
	if err := gorouter.Register(gorouter.Config[*fiber.App]{
		Router:     server.Router(),
		Controller: controller,
		Refresh:    commands.NewRefreshDashboardCommand(controller, telemetry),
		Data:       queries.NewDashboardDataQuery(controller, source),
		Broadcast:  hook,
		BasePath:   base,
	}); err != nil {
		return fmt.Errorf("dashboardctl: register routes: %w", err)
	}

	logger.Info("dashboard ready",
		zap.String("addr", cfg.Addr),
		zap.String("path", base+"/dashboard"),
		zap.String("charts", cfg.Charts),
		zap.String("endpoint", cfg.Endpoint),
	)
	return server.Serve(cfg.Addr)
}

func (cmd *renderCmd) Run(ctx context.Context, logger *zap.Logger, cfg *dashboard.Config) error {
	cmd.Overrides.apply(cfg)
	telemetry := dashboard.NewZapTelemetry(logger)
	source, err := newSource(*cfg, telemetry)
	if err != nil {
		return err
	}
	doc, err := dashboard.NewDocument(dashboard.PageOptions{Title: cfg.Title, Lang: pageLang(cfg.Locale)})
	if err != nil {
		return err
	}
	doc.MarkReady()
	opts := cfg.Options()
	opts.Source = source
	opts.Telemetry = telemetry
	if _, err := dashboard.Init(ctx, doc, opts); err != nil {
		return fmt.Errorf("dashboardctl: init: %w", err)
	}

	var out io.Writer = os.Stdout
	if cmd.Out != "" {
		f, err := os.Create(cmd.Out)
		if err != nil {
			return fmt.Errorf("dashboardctl: create %s: %w", cmd.Out, err)
		}
		defer f.Close()
		out = f
	}
	if err := doc.Render(out); err != nil {
		return fmt.Errorf("dashboardctl: write snapshot: %w", err)
	}
	if cmd.Out != "" {
		logger.Info("snapshot written", zap.String("path", cmd.Out))
	}
	return nil
}

func (cmd *fetchCmd) Run(ctx context.Context, logger *zap.Logger, cfg *dashboard.Config) error {
	cmd.Overrides.apply(cfg)
	source, err := newSource(*cfg, dashboard.NewZapTelemetry(logger))
	if err != nil {
		return err
	}
	data := source.Fetch(ctx)
	return writeData(os.Stdout, cmd.Format, data)
}

func writeData(w io.Writer, format string, data dashboard.DashboardData) error {
	if format == "yaml" {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(data)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
