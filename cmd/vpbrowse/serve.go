package main

import (
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"

	"github.com/vango-dev/vpbrowse/internal/config"
	"github.com/vango-dev/vpbrowse/pkg/server"
)

type serveFlags struct {
	port     int
	host     string
	basePath string
	static   string
	reload   bool
	metrics  bool
	tracing  bool
}

func serveCmd(flags *globalFlags) *cobra.Command {
	var sf serveFlags

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the video browser",
		Long: `Serve the application shell, the WebAssembly client and its assets,
and proxy /api requests to the Video Promotion API.

Assets come from the static directory, or from an S3 bucket when
server.s3.bucket is configured. Credentials are read from vpbrowse.json
or from VPBROWSE_API_PSID and VPBROWSE_API_ACCESS_KEY.

Examples:
  vpbrowse serve
  vpbrowse serve --port=3000 --base-path=/videos/
  vpbrowse serve --reload --static=./public`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = sf.port
			}
			if cmd.Flags().Changed("host") {
				cfg.Server.Host = sf.host
			}
			if cmd.Flags().Changed("base-path") {
				cfg.BasePath = sf.basePath
			}
			if cmd.Flags().Changed("static") {
				cfg.Server.StaticDir = sf.static
			}
			if cmd.Flags().Changed("reload") {
				cfg.Server.Reload.Enabled = sf.reload
			}
			if cmd.Flags().Changed("metrics") {
				cfg.Server.Metrics = sf.metrics
			}
			if cmd.Flags().Changed("tracing") {
				cfg.Server.Tracing = sf.tracing
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runServe(cmd, flags, cfg)
		},
	}

	cmd.Flags().IntVarP(&sf.port, "port", "p", config.DefaultPort, "Port to listen on")
	cmd.Flags().StringVarP(&sf.host, "host", "H", config.DefaultHost, "Host to bind to")
	cmd.Flags().StringVar(&sf.basePath, "base-path", config.DefaultBasePath, "Path prefix the app is served under")
	cmd.Flags().StringVar(&sf.static, "static", config.DefaultStaticDir, "Asset directory")
	cmd.Flags().BoolVar(&sf.reload, "reload", false, "Reload browsers when assets change")
	cmd.Flags().BoolVar(&sf.metrics, "metrics", false, "Expose Prometheus metrics at /metrics")
	cmd.Flags().BoolVar(&sf.tracing, "tracing", false, "Record a span per request")

	return cmd
}

func runServe(cmd *cobra.Command, flags *globalFlags, cfg *config.Config) error {
	logger, err := newLogger(flags)
	if err != nil {
		return err
	}

	staticDir := staticPath(cfg, flags.dir)
	var assets server.AssetSource
	if s3cfg := cfg.Server.S3; s3cfg.Bucket != "" {
		client := server.NewS3Client(server.S3Options{Region: s3cfg.Region, Endpoint: s3cfg.Endpoint})
		assets = server.NewS3Source(client, s3cfg.Bucket, s3cfg.Prefix)
		logger.Info("serving assets from s3", "bucket", s3cfg.Bucket, "prefix", s3cfg.Prefix)
	} else {
		assets = server.NewDirSource(staticDir)
		logger.Info("serving assets from directory", "dir", staticDir)
	}

	scfg := server.Config{
		BasePath:     cfg.BasePath,
		Title:        cfg.Name,
		Assets:       assets,
		CacheControl: server.CacheControlProduction,
		API: server.ProxyConfig{
			BaseURL:   cfg.API.BaseURL,
			PSID:      cfg.API.PSID,
			AccessKey: cfg.API.AccessKey,
		},
		Logger: logger,
	}
	if cfg.API.PSID == "" {
		logger.Warn("no psid configured; the API may reject requests", "env", config.EnvPSID)
	}

	if cfg.Server.Reload.Enabled {
		scfg.Reload = true
		scfg.CacheControl = server.CacheControlNone
		scfg.ReloadInterval = cfg.ReloadInterval()
		scfg.ReloadPaths = cfg.Server.Reload.Watch
		if len(scfg.ReloadPaths) == 0 {
			scfg.ReloadPaths = []string{staticDir}
		}
	}
	if cfg.Server.Metrics {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		scfg.Metrics = reg
	}
	if cfg.Server.Tracing {
		scfg.TracerProvider = otel.GetTracerProvider()
	}

	srv, err := server.New(scfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	success("Serving on %s", cfg.URL())
	if scfg.Reload {
		info("Live reload is watching %v", scfg.ReloadPaths)
	}
	return srv.ListenAndServe(ctx, cfg.Address())
}

// staticPath resolves the asset directory. Without a config file it is
// relative to dir.
func staticPath(cfg *config.Config, dir string) string {
	if cfg.Path() != "" || filepath.IsAbs(cfg.Server.StaticDir) {
		return cfg.StaticPath()
	}
	return filepath.Join(dir, cfg.Server.StaticDir)
}
