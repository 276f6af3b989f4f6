package router

import (
	"github.com/gin-gonic/gin"
	"github.com/orderfeed/backend/internal/infrastructure/logger"
	"github.com/orderfeed/backend/internal/infrastructure/metrics"
	"github.com/orderfeed/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// RouteRegistrar defines the interface for registering routes
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router manages HTTP route registration
type Router struct {
	engine     *gin.Engine
	basePath   string
	registrars []RouteRegistrar
}

// RouterOption is a functional option for Router configuration
type RouterOption func(*Router)

// WithBasePath mounts every registrar under prefix
func WithBasePath(prefix string) RouterOption {
	return func(r *Router) {
		r.basePath = prefix
	}
}

// NewRouter creates a new Router instance
func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{
		engine:     engine,
		basePath:   "/",
		registrars: make([]RouteRegistrar, 0),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Register adds a RouteRegistrar to be registered later
func (r *Router) Register(registrar RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrar)
	return r
}

// Setup registers all routes with the engine
func (r *Router) Setup() {
	group := r.engine.Group(r.basePath)
	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(group)
	}
}

// EngineConfig configures the middleware stack of NewEngine
type EngineConfig struct {
	Production     bool
	TrustedProxies []string
	MaxBodySize    int64
	Tracing        middleware.TracingConfig
	// Metrics, when non-nil, counts requests and is served at MetricsPath
	Metrics     *metrics.Registry
	MetricsPath string
}

// NewEngine creates a gin engine with the middleware stack applied in order:
// request ID, recovery, tracing, request logging, metrics, security headers and
// the body limit.
func NewEngine(cfg EngineConfig, log *zap.Logger) *gin.Engine {
	if cfg.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	if len(cfg.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.Tracing(cfg.Tracing))
	engine.Use(middleware.SpanAttributes())
	engine.Use(logger.GinMiddleware(log))
	if cfg.Metrics != nil {
		engine.Use(cfg.Metrics.Middleware())
		engine.GET(cfg.MetricsPath, gin.WrapH(cfg.Metrics.Handler()))
	}
	engine.Use(middleware.Secure())
	if cfg.MaxBodySize > 0 {
		engine.Use(middleware.BodyLimit(cfg.MaxBodySize))
	}
	return engine
}
