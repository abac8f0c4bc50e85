package api

import (
	"net/http"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/d60-Lab/newsfeed/config"
	_ "github.com/d60-Lab/newsfeed/docs"
	"github.com/d60-Lab/newsfeed/internal/api/handler"
	"github.com/d60-Lab/newsfeed/internal/api/middleware"
)

// NewRouter builds the gin engine with the full middleware chain and
// the /api/v1 route set.
func NewRouter(cfg *config.Config, h *handler.Handler) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(gzip.Gzip(gzip.DefaultCompression))
	if cfg.Sentry.DSN != "" {
		r.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	if cfg.Tracing.Enabled {
		r.Use(otelgin.Middleware("newsfeed"))
	}
	if cfg.RateLimit.Enabled {
		r.Use(middleware.RateLimit(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	auth := middleware.Auth(cfg.Auth.JWTSecret)

	v1 := r.Group("/api/v1")
	{
		v1.POST("/users", h.CreateUser)
		v1.GET("/users/:user_id", h.GetUser)
		v1.GET("/users/:user_id/posts", h.ListUserPosts)
		v1.GET("/users/:user_id/following", h.ListFollowing)
		v1.GET("/users/:user_id/followers", h.ListFollowers)
		v1.GET("/posts/:post_id", h.GetPost)
		v1.GET("/posts/:post_id/comments", h.ListComments)

		authed := v1.Group("", auth)
		{
			authed.GET("/feed", h.GetFeed)
			authed.PUT("/profile", h.UpdateProfile)
			authed.POST("/users/:user_id/follow", h.Follow)
			authed.DELETE("/users/:user_id/follow", h.Unfollow)
			authed.POST("/posts", h.CreatePost)
			authed.DELETE("/posts/:post_id", h.DeletePost)
			authed.POST("/posts/:post_id/like", h.LikePost)
			authed.DELETE("/posts/:post_id/like", h.UnlikePost)
			authed.POST("/posts/:post_id/comments", h.CreateComment)
		}
	}

	return r
}
