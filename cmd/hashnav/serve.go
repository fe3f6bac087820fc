package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"

	"github.com/vango-dev/hashnav/internal/config"
	hnerrors "github.com/vango-dev/hashnav/internal/errors"
	"github.com/vango-dev/hashnav/pkg/bridge"
	"github.com/vango-dev/hashnav/pkg/hashroute"
	"github.com/vango-dev/hashnav/pkg/linkstore"
	"github.com/vango-dev/hashnav/pkg/middleware"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	var (
		configDir string
		addr      string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the browser bridge server",
		Long: `Run the bridge server. Browser tabs that load /client.js connect
over a websocket and report their fragment; Go code can then
navigate them through the same Navigator API used in-process.

Configuration comes from hashnav.json (or hashnav.yaml) in --config,
then HASHNAV_ADDR, HASHNAV_LOG_LEVEL, and HASHNAV_LINKS_BACKEND, then
flags.

Examples:
  hashnav serve
  hashnav serve --addr 0.0.0.0:7070
  hashnav serve --config ./deploy`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configDir, addr)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cfg, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&configDir, "config", "c", "", "Directory containing hashnav.json or hashnav.yaml")
	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (host:port)")
	return cmd
}

// loadConfig resolves the configuration from dir (or defaults), the
// environment, and an address override, then validates it.
func loadConfig(dir, addr string) (*config.Config, error) {
	cfg := config.New()
	if dir != "" {
		loaded, err := config.Load(dir)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	cfg.ApplyEnv(os.LookupEnv)
	if addr != "" {
		cfg.Server.Address = addr
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// app is a fully wired bridge server.
type app struct {
	server  *bridge.Server
	metrics *middleware.Metrics
	closers []func() error
}

func (a *app) Close() error {
	var errs []error
	if err := a.server.Close(); err != nil {
		errs = append(errs, err)
	}
	for _, c := range a.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// buildApp wires config into a bridge server: metrics on reg, tracing via the
// global tracer provider, and the configured link store.
func buildApp(ctx context.Context, cfg *config.Config, logger *slog.Logger, reg *prometheus.Registry) (*app, error) {
	readTimeout, _ := cfg.ReadTimeout()
	writeTimeout, _ := cfg.WriteTimeout()

	a := &app{}
	bcfg := bridge.Config{
		Logger:         logger,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		ReadTimeout:    readTimeout,
		WriteTimeout:   writeTimeout,
		SendBuffer:     cfg.Server.SendBuffer,
		OnSession: func(s *bridge.Session) {
			logger.Debug("session attached", "session", s.ID)
		},
	}

	var observers []hashroute.Observer
	if cfg.Metrics.Enabled {
		a.metrics = middleware.Prometheus(
			middleware.WithNamespace(cfg.Metrics.Namespace),
			middleware.WithRegistry(reg),
		)
		observers = append(observers, a.metrics)
		bcfg.Recorder = a.metrics
		bcfg.MetricsPath = cfg.Metrics.Path
		bcfg.MetricsHandler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	}
	if cfg.Tracing.Enabled {
		observers = append(observers, middleware.OpenTelemetry(
			middleware.WithTracerName(cfg.Tracing.TracerName),
			middleware.WithTracerProvider(otel.GetTracerProvider()),
		))
	}
	if len(observers) > 0 {
		bcfg.Observer = hashroute.MultiObserver(observers...)
	}

	store, closeStore, err := linkstore.Open(ctx, cfg.Links)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, closeStore)
	if a.metrics != nil {
		bcfg.Links = linkstore.Instrument(store, a.metrics)
	} else {
		bcfg.Links = store
	}

	a.server = bridge.New(bcfg)
	return a, nil
}

func runServe(ctx context.Context, cfg *config.Config, out io.Writer) error {
	logger := cfg.NewLogger(os.Stderr)
	slog.SetDefault(logger)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	a, err := buildApp(ctx, cfg, logger, reg)
	if err != nil {
		return err
	}
	defer a.Close()

	ln, err := net.Listen("tcp", cfg.Server.Address)
	if err != nil {
		return hnerrors.New("E300").WithField(cfg.Server.Address).Wrap(err)
	}

	httpServer := &http.Server{
		Handler:           a.server,
		ReadHeaderTimeout: 10 * time.Second,
	}

	fmt.Fprint(out, banner)
	success(out, "Listening on http://%s", ln.Addr())
	info(out, "Client script: http://%s/client.js", ln.Addr())
	info(out, "Link store:    %s", cfg.Links.Backend)
	if cfg.Metrics.Enabled {
		info(out, "Metrics:       http://%s%s", ln.Addr(), cfg.Metrics.Path)
	}
	fmt.Fprintln(out)

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return hnerrors.New("E300").Wrap(err)
		}
		return nil
	case <-ctx.Done():
	}

	fmt.Fprintln(out, "\n  Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	// Hijacked websocket connections are not tracked by Shutdown.
	a.server.Close()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
		return err
	}
	return nil
}
