package router

import (
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/stockops/backoffice/internal/interfaces/http/middleware"
)

// RouteRegistrar registers a set of routes on a router group
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Config controls router-level behavior
type Config struct {
	ServiceName    string
	TracingEnabled bool
	CORS           middleware.CORSConfig
}

// Router assembles the gin engine for the service
type Router struct {
	engine     *gin.Engine
	cfg        Config
	registrars []RouteRegistrar
}

// New creates a Router over a fresh engine
func New(cfg Config, globalMiddleware ...gin.HandlerFunc) *Router {
	registerValidations()

	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.Use(middleware.CORS(cfg.CORS))
	if cfg.TracingEnabled {
		engine.Use(middleware.Tracing(cfg.ServiceName))
	}
	engine.Use(middleware.Actor())
	engine.Use(globalMiddleware...)

	return &Router{engine: engine, cfg: cfg}
}

// Register adds a RouteRegistrar
func (r *Router) Register(registrar RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrar)
	return r
}

// Setup registers all routes under /api/v1 and returns the engine
func (r *Router) Setup() *gin.Engine {
	api := r.engine.Group("/api/v1")
	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(api)
	}
	return r.engine
}

// registerValidations installs custom binding validators
func registerValidations() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	// dpositive rejects zero and negative decimal payload fields
	_ = v.RegisterValidation("dpositive", func(fl validator.FieldLevel) bool {
		d, ok := fl.Field().Interface().(decimal.Decimal)
		return ok && d.IsPositive()
	})
}
