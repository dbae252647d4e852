package router

import (
	"context"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/shopledger/backend/internal/infrastructure/config"
	"github.com/shopledger/backend/internal/infrastructure/logger"
	"github.com/shopledger/backend/internal/interfaces/http/middleware"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// EngineOptions carries what the middleware chain needs from the rest of the process
type EngineOptions struct {
	HTTP           config.HTTPConfig
	ServiceName    string
	Logger         *zap.Logger
	TracingEnabled bool
	TracerProvider trace.TracerProvider
	Meter          metric.Meter // nil skips HTTP metrics
	Profiling      bool         // label requests for continuous profiling
}

// NewEngine builds the gin engine with the shared middleware chain.
// The rate limiter's idle-key sweeper stops when ctx is cancelled.
func NewEngine(ctx context.Context, opts EngineOptions) (*gin.Engine, error) {
	middleware.SetupValidator()
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	engine := gin.New()
	if err := engine.SetTrustedProxies(opts.HTTP.TrustedProxies); err != nil {
		return nil, err
	}

	engine.Use(
		logger.GinMiddleware(opts.Logger),
		logger.Recovery(opts.Logger),
		middleware.Tracing(middleware.TracingConfig{
			ServiceName:    opts.ServiceName,
			Enabled:        opts.TracingEnabled,
			TracerProvider: opts.TracerProvider,
		}),
		middleware.SpanAttributes(),
		middleware.SpanErrorMarker(),
	)

	if opts.Profiling {
		engine.Use(middleware.Profiling(middleware.DefaultProfilingConfig()))
	}

	if opts.Meter != nil {
		metrics, err := middleware.HTTPMetrics(opts.Meter)
		if err != nil {
			return nil, err
		}
		engine.Use(metrics)
	}

	if len(opts.HTTP.CORSAllowOrigins) > 0 {
		engine.Use(cors.New(corsConfig(opts.HTTP)))
	}

	engine.Use(middleware.Secure(), middleware.Timeout(opts.HTTP.RequestTimeout))
	if opts.HTTP.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(opts.HTTP.MaxBodySize))
	}

	if opts.HTTP.RateLimitRPS > 0 {
		limiter := middleware.NewRateLimiter(ctx, opts.HTTP.RateLimitRPS, opts.HTTP.RateLimitBurst)
		engine.Use(writesOnly(middleware.RateLimit(limiter)))
	}

	return engine, nil
}

func corsConfig(cfg config.HTTPConfig) cors.Config {
	c := cors.DefaultConfig()
	c.AllowMethods = cfg.CORSAllowMethods
	c.AllowHeaders = cfg.CORSAllowHeaders
	c.ExposeHeaders = []string{"X-Request-ID", "Retry-After"}
	for _, origin := range cfg.CORSAllowOrigins {
		if origin == "*" {
			c.AllowAllOrigins = true
			return c
		}
	}
	c.AllowOrigins = cfg.CORSAllowOrigins
	return c
}

// writesOnly applies h to state-changing requests; reads pass straight through
func writesOnly(h gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
		default:
			h(c)
		}
	}
}
