package app

import (
	"log/slog"
	"net/http"

	"github.com/seowalex/cvwo/internal/auth"
	"github.com/seowalex/cvwo/internal/cache"
	"github.com/seowalex/cvwo/internal/config"
	"github.com/seowalex/cvwo/internal/handlers"
	"github.com/seowalex/cvwo/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/swaggo/swag"

	_ "github.com/seowalex/cvwo/docs"
)

const apiBase = "/api/v1"

// Setup registers all routes on the given engine. rdb may be nil.
func Setup(r *gin.Engine, cfg config.Config, log *slog.Logger, storage *Storage, rdb *redis.Client) {
	r.GET("/", rootHandler(cfg))
	r.GET("/health", healthHandler(cfg))
	r.GET("/version", versionHandler(cfg))
	r.GET("/swagger-doc.json", swaggerDocHandler())
	r.GET("/swagger", func(c *gin.Context) { c.Redirect(http.StatusFound, "/swagger/index.html") })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(
		swaggerFiles.Handler,
		ginSwagger.URL("/swagger-doc.json"),
		ginSwagger.DefaultModelsExpandDepth(-1),
		ginSwagger.PersistAuthorization(true),
	))

	api := r.Group(apiBase)

	var (
		revoked   *auth.RevocationStore
		taskCache *cache.TaskCache
	)
	if rdb != nil {
		revoked = auth.NewRevocationStore(rdb)
		taskCache = cache.NewTaskCache(rdb, cfg.Redis.DefaultTTL.Duration())
	}
	tokens := auth.NewTokenManager(auth.TokenConfig{
		Secret: cfg.Auth.Secret,
		Issuer: cfg.Auth.Issuer,
		TTL:    cfg.Auth.TokenTTL.Duration(),
	})
	resolver := auth.NewTokenResolver(tokens, revoked)
	requireIdentity := auth.RequireIdentity(resolver, log)

	userSvc := service.NewUserService(storage.Users)
	authHandler := handlers.NewAuthHandler(tokens, resolver, userSvc, log)
	registerAuthRoutes(api, authHandler, requireIdentity)

	protected := api.Group("", requireIdentity)
	registerUserRoutes(protected, handlers.NewUserHandler(userSvc, log, apiBase))

	taskSvc := service.NewTaskService(storage.Tasks, storage.Users, taskCache, log)
	registerTaskRoutes(protected, handlers.NewTaskHandler(taskSvc, log, apiBase))
}

func rootHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": "cvwo tasks API",
			"version": cfg.App.Version,
			"env":     cfg.App.Env,
			"docs":    "/swagger/index.html",
			"spec":    "/swagger-doc.json",
			"health":  "/health",
			"api":     apiBase,
		})
	}
}

func healthHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "env": cfg.App.Env})
	}
}

func versionHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"version": cfg.App.Version})
	}
}

func swaggerDocHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		doc, err := swag.ReadDoc("swagger")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(doc))
	}
}

func registerTaskRoutes(api *gin.RouterGroup, h *handlers.TaskHandler) {
	api.GET("/tasks", h.List)
	api.POST("/tasks", h.Create)
	api.GET("/tasks/:id", h.GetByID)
	api.PATCH("/tasks/:id", h.Update)
	api.DELETE("/tasks/:id", h.Delete)
}

func registerUserRoutes(api *gin.RouterGroup, h *handlers.UserHandler) {
	api.GET("/users/me", h.Me)
	api.PATCH("/users/me", h.UpdateMe)
}

func registerAuthRoutes(api *gin.RouterGroup, h *handlers.AuthHandler, requireIdentity gin.HandlerFunc) {
	api.POST("/auth/login", h.Login)
	api.POST("/auth/register", h.Register)
	api.POST("/auth/logout", requireIdentity, h.Logout)
}
