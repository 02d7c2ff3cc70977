package server

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/noah-isme/bookly-api/internal/auth"
	"github.com/noah-isme/bookly-api/internal/handler"
	"github.com/noah-isme/bookly-api/internal/middleware"
	"github.com/noah-isme/bookly-api/internal/models"
	"github.com/noah-isme/bookly-api/internal/service"
	"github.com/noah-isme/bookly-api/pkg/config"
	"github.com/noah-isme/bookly-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/bookly-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/bookly-api/pkg/middleware/requestid"
	securitymiddleware "github.com/noah-isme/bookly-api/pkg/middleware/security"
)

// Handlers groups the HTTP handlers mounted by the router.
type Handlers struct {
	Auth    *handler.AuthHandler
	Users   *handler.UserHandler
	Books   *handler.BookHandler
	Reviews *handler.ReviewHandler
	Tags    *handler.TagHandler
	Metrics *handler.MetricsHandler
}

// Options carries everything NewRouter needs.
type Options struct {
	Config   *config.Config
	Logger   *zap.Logger
	Gate     *auth.Gate
	Metrics  *service.MetricsService
	Handlers Handlers
}

// NewRouter builds the gin engine with middleware and all routes.
func NewRouter(opts Options) *gin.Engine {
	cfg := opts.Config
	logr := opts.Logger
	if logr == nil {
		logr = zap.NewNop()
	}
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	if cfg.Tracing.Enabled {
		r.Use(otelgin.Middleware(cfg.Tracing.ServiceName))
	}
	r.Use(logger.GinMiddleware(logr))
	r.Use(securitymiddleware.Headers())
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(opts.Metrics))
	r.Use(middleware.WithResponseMeta())

	h := opts.Handlers
	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", h.Metrics.Ready)
	r.GET("/metrics", h.Metrics.Prometheus)
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	gate := opts.Gate
	access := middleware.RequireAccess(gate)
	anyRole := middleware.RequireRoles(gate, models.RoleUser, models.RoleAdmin)
	adminOnly := middleware.RequireRoles(gate, models.RoleAdmin)
	audit := func(action, resource string) gin.HandlerFunc {
		return middleware.Audit(logr, action, resource)
	}

	authGroup := api.Group("/auth")
	authGroup.POST("/signup", audit("signup", "user"), h.Auth.Signup)
	authGroup.POST("/login", h.Auth.Login)
	authGroup.GET("/refresh_token", middleware.RequireRefresh(gate), h.Auth.Refresh)
	authGroup.GET("/logout", access, audit("logout", "token"), h.Auth.Logout)
	authGroup.GET("/me", access, h.Auth.Me)

	users := api.Group("/users", access)
	users.GET("", adminOnly, h.Users.List)
	users.PATCH("/me", audit("update_profile", "user"), h.Users.UpdateMe)
	users.PATCH("/:id/role", adminOnly, audit("update_role", "user"), h.Users.UpdateRole)

	books := api.Group("/books", access, anyRole)
	books.GET("", h.Books.List)
	books.GET("/my_books", h.Books.MyBooks)
	books.GET("/export", h.Books.Export)
	books.GET("/:id", h.Books.Get)
	books.POST("", audit("create", "book"), h.Books.Create)
	books.PATCH("/:id", audit("update", "book"), h.Books.Update)
	books.DELETE("/:id", audit("delete", "book"), h.Books.Delete)

	reviews := api.Group("/reviews", access)
	reviews.GET("", anyRole, h.Reviews.List)
	reviews.GET("/book/:book_id", anyRole, h.Reviews.ListByBook)
	reviews.POST("/book/:book_id", audit("create", "review"), h.Reviews.Create)
	reviews.PATCH("/update/:id", anyRole, audit("update", "review"), h.Reviews.Update)
	reviews.DELETE("/delete/:id", anyRole, audit("delete", "review"), h.Reviews.Delete)

	tags := api.Group("/tags", access)
	tags.GET("", anyRole, h.Tags.List)
	tags.POST("", adminOnly, audit("create", "tag"), h.Tags.Create)
	tags.POST("/assign/:book_id", anyRole, audit("assign", "tag"), h.Tags.Assign)
	tags.GET("/:name/books", anyRole, h.Tags.BooksByTag)
	tags.DELETE("/:name", adminOnly, audit("delete", "tag"), h.Tags.Delete)

	return r
}
