// Package app wires configuration, completers and services into the
// components shared by the HTTP server and the CLI.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"docinsight/internal/config"
	"docinsight/internal/handler"
	"docinsight/internal/ingest"
	"docinsight/internal/llm"
	"docinsight/internal/llm/providers"
	"docinsight/internal/metrics"
	"docinsight/internal/router"
	"docinsight/internal/service"
)

// App holds the services built from one Config.
type App struct {
	Config   *config.Config
	Log      *zap.Logger
	Registry *prometheus.Registry
	Insight  service.InsightService
	Shipping service.ShippingService
}

// New validates cfg and builds the completer chain and both services.
func New(cfg *config.Config, log *zap.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	providers.Register()
	completer, err := llm.NewFromConfig(&cfg.LLM, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize completer: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	extractor := ingest.NewPDFExtractor(cfg.Upload.TempDir, log)
	return &App{
		Config:   cfg,
		Log:      log,
		Registry: reg,
		Insight:  service.NewInsightService(completer, &cfg.LLM, m, log),
		Shipping: service.NewShippingService(extractor, completer, &cfg.LLM, m, log),
	}, nil
}

// Router builds the gin engine serving both pipelines.
func (a *App) Router() *gin.Engine {
	if a.Config.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	maxBytes := a.Config.Upload.MaxBytes()
	return router.Setup(
		a.Log,
		a.Config.CORS.AllowedOrigins,
		a.Registry,
		handler.NewInsightHandler(a.Insight, maxBytes, a.Log),
		handler.NewShippingHandler(a.Shipping, maxBytes, a.Log),
		handler.NewHealthHandler(a.Config.LLM.Provider),
	)
}

// Serve runs the HTTP server until ctx is canceled, then drains
// in-flight requests.
func (a *App) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:              a.Config.Server.Port,
		Handler:           a.Router(),
		ReadTimeout:       a.Config.Server.ReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      a.Config.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		a.Log.Info("server starting",
			zap.String("addr", srv.Addr),
			zap.String("llm_provider", a.Config.LLM.Provider))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	a.Log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}
