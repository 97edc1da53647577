// Package server exposes the export engine over HTTP.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/ukaji3/gradesheet-go/internal/source"
	"github.com/ukaji3/gradesheet-go/pkg/gradesheet"
)

type (
	Options struct {
		Address        string
		DisableReqLogs bool
		// BodyLimit caps uploaded snapshots, e.g. "8M". Empty means no limit.
		BodyLimit string
		// Export holds the defaults that query parameters override.
		Export gradesheet.Options
		// Source serves GET /v1/sections/:sectionID/consolidated. Nil disables it.
		Source source.Source
		Logger *zap.Logger
		// Registry receives the export metrics. Nil creates a private one.
		Registry *prometheus.Registry
	}

	Server interface {
		http.Handler
		Start() error
		Stop(context.Context) error
	}

	server struct {
		opts    *Options
		app     *echo.Echo
		log     *zap.Logger
		metrics *metrics
	}
)

var _ Server = (*server)(nil)

func NewServer(opts *Options) Server {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	reg := opts.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	s := &server{
		opts:    opts,
		app:     echo.New(),
		log:     log,
		metrics: newMetrics(reg),
	}
	s.setup(reg)
	return s
}

func (s *server) setup(reg *prometheus.Registry) {
	s.app.HideBanner = true
	s.app.HidePort = true

	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(requestLogger(s.log))
	}
	s.app.Use(middleware.Recover())
	if s.opts.BodyLimit != "" {
		s.app.Use(middleware.BodyLimit(s.opts.BodyLimit))
	}

	s.app.HTTPErrorHandler = newHTTPErrorHandler(s.log)

	s.app.GET("/", home)
	s.app.GET("/healthz", healthz)
	s.app.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})))

	v1 := s.app.Group("/v1")
	api := &exportAPI{base: s.opts.Export, source: s.opts.Source, log: s.log, metrics: s.metrics}
	v1.POST("/consolidated", api.fromBody)
	v1.GET("/sections/:sectionID/consolidated", api.fromSection)
}

func (s *server) Start() error {
	s.log.Info("listening", zap.String("address", s.opts.Address))
	return s.app.Start(s.opts.Address)
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "gradesheet export service")
}

func healthz(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, echo.Map{"status": "ok"})
}

func requestLogger(log *zap.Logger) echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency.Round(time.Microsecond)),
			}
			if v.Error != nil {
				log.Warn("request failed", append(fields, zap.Error(v.Error))...)
				return nil
			}
			log.Info("request", fields...)
			return nil
		},
	})
}
