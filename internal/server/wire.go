package server

import (
	"gorm.io/gorm"

	"github.com/ArthurDelaporte/SocialFeed-Back/internal/auth"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/events"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/follow"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/like"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/metrics"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/middleware"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/post"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/user"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/utils"
)

// Media is the object store behind uploads and post deletion.
type Media interface {
	post.Uploader
	post.MediaStore
}

type Components struct {
	DB            *gorm.DB
	Clock         utils.Clock
	Publisher     events.Publisher
	Tokens        *auth.TokenIssuer
	Provider      auth.OAuthProvider
	States        auth.StateStore
	Media         Media
	Limiter       middleware.Counter
	AuthRateLimit int64
	Metrics       *metrics.Metrics
	HashCost      int
	CORSOrigins   []string
}

// Wire builds repositories, services and handlers on top of c.
func Wire(c Components) Deps {
	users := user.NewRepository(c.DB)
	posts := post.NewRepository(c.DB, users)

	authService := auth.NewService(users, c.Tokens, c.Clock, c.Publisher)
	if c.HashCost > 0 {
		authService = authService.WithHashCost(c.HashCost)
	}

	var store post.MediaStore
	var media *post.MediaHandler
	if c.Media != nil {
		store = c.Media
		media = post.NewMediaHandler(c.Media)
	}

	return Deps{
		Auth:          auth.NewHandler(authService, c.Provider, c.States),
		Users:         user.NewHandler(users),
		Follows:       follow.NewHandler(follow.NewService(c.DB, c.Clock, c.Publisher)),
		Posts:         post.NewHandler(post.NewService(c.DB, posts, users, c.Clock, c.Publisher, store)),
		Likes:         like.NewHandler(like.NewService(c.DB, posts, c.Clock, c.Publisher)),
		Media:         media,
		Verifier:      authService,
		Limiter:       c.Limiter,
		AuthRateLimit: c.AuthRateLimit,
		Metrics:       c.Metrics,
		CORSOrigins:   c.CORSOrigins,
	}
}

// Models lists every table the service owns, in migration order.
func Models() []interface{} {
	return append([]interface{}{&user.User{}, &follow.Follow{}}, post.Models()...)
}
