package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/ArthurDelaporte/SocialFeed-Back/internal/auth"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/follow"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/like"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/metrics"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/middleware"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/post"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/user"
)

// Deps holds everything the HTTP layer needs. Limiter and Media are optional.
type Deps struct {
	Auth          *auth.Handler
	Users         *user.Handler
	Follows       *follow.Handler
	Posts         *post.Handler
	Likes         *like.Handler
	Media         *post.MediaHandler
	Verifier      middleware.TokenVerifier
	Limiter       middleware.Counter
	AuthRateLimit int64
	Metrics       *metrics.Metrics
	CORSOrigins   []string
}

func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Recovery(), middleware.CORS(d.CORSOrigins))
	if d.Metrics != nil {
		r.Use(d.Metrics.Middleware())
		r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	if d.Limiter != nil && d.AuthRateLimit > 0 {
		authGroup.Use(middleware.RateLimit(d.Limiter, "auth", d.AuthRateLimit, time.Minute))
	}
	authGroup.POST("/register", d.Auth.Register)
	authGroup.POST("/login", d.Auth.Login)
	if d.Auth.OAuthEnabled() {
		authGroup.GET("/google", d.Auth.GoogleLogin)
		authGroup.GET("/google/callback", d.Auth.GoogleCallback)
	}

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(d.Verifier))

	protected.GET("/me", d.Users.GetMe)

	users := protected.Group("/users")
	users.GET("/search", d.Users.SearchUsers)
	users.GET("/:id", d.Posts.GetUserProfile)
	users.PUT("/:id/follow", d.Follows.ToggleFollow)
	users.GET("/:id/followers", d.Follows.GetFollowers)
	users.GET("/:id/following", d.Follows.GetFollowing)

	posts := protected.Group("/posts")
	posts.POST("", d.Posts.CreatePost)
	posts.GET("/feed", d.Posts.GetFeed)
	posts.GET("/search/hashtags", d.Posts.SearchByHashtag)
	posts.GET("/filter", d.Posts.FilterPosts)
	posts.GET("/:id", d.Posts.GetPost)
	posts.DELETE("/:id", d.Posts.DeletePost)
	posts.PUT("/:id/like", d.Likes.ToggleLike)
	posts.GET("/:id/likes", d.Likes.GetLikes)
	posts.POST("/:id/comments", d.Posts.AddComment)
	posts.GET("/:id/comments", d.Posts.GetComments)

	if d.Media != nil {
		protected.POST("/media", d.Media.UploadMedia)
	}

	return r
}

// Handler wraps the router with OpenTelemetry HTTP instrumentation.
func Handler(r *gin.Engine) http.Handler {
	return otelhttp.NewHandler(r, "socialfeed-http")
}
