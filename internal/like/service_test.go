package like

import (
	"context"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ArthurDelaporte/SocialFeed-Back/internal/apperr"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/database/dbtest"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/events"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/post"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/user"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/utils"
)

func TestToggleLike(t *testing.T) {
	models := append([]interface{}{&user.User{}}, post.Models()...)
	db := dbtest.Open(t, models...)
	clock := utils.NewStubClock(time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC))
	rec := &events.Recorder{}
	users := user.NewRepository(db)
	posts := post.NewRepository(db, users)
	posting := post.NewService(db, posts, users, clock, rec, nil)
	service := NewService(db, posts, clock, rec)
	ctx := context.Background()

	newUser := func(name string) *user.User {
		u := &user.User{ID: gofakeit.UUID(), Username: name, Email: gofakeit.Email(), PasswordHash: "hash"}
		require.NoError(t, users.Create(ctx, u))
		return u
	}
	alice := newUser("alice")
	bob := newUser("bob")
	carol := newUser("carol")

	p, err := posting.Create(ctx, alice.ID, post.CreateInput{MediaURL: "https://cdn/x.png", MediaType: post.MediaImage})
	require.NoError(t, err)

	t.Run("like then unlike restores the like set", func(t *testing.T) {
		updated, liked, err := service.Toggle(ctx, p.ID, bob.ID)
		require.NoError(t, err)
		assert.True(t, liked)
		assert.Equal(t, []string{bob.ID}, updated.Likes)

		updated, liked, err = service.Toggle(ctx, p.ID, bob.ID)
		require.NoError(t, err)
		assert.False(t, liked)
		assert.Equal(t, []string{}, updated.Likes)
	})

	t.Run("likers are listed in like order", func(t *testing.T) {
		_, _, err := service.Toggle(ctx, p.ID, carol.ID)
		require.NoError(t, err)
		clock.Advance(time.Second)
		_, _, err = service.Toggle(ctx, p.ID, bob.ID)
		require.NoError(t, err)

		likers, total, err := service.Likers(ctx, p.ID, utils.Page{Page: 1, Limit: 1})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		require.Len(t, likers, 1)
		assert.Equal(t, "carol", likers[0].Username)

		likers, _, err = service.Likers(ctx, p.ID, utils.Page{Page: 3, Limit: 1})
		require.NoError(t, err)
		assert.Empty(t, likers)
	})

	t.Run("unknown post", func(t *testing.T) {
		_, _, err := service.Toggle(ctx, "missing", bob.ID)
		assert.True(t, apperr.Is(err, apperr.KindNotFound))

		_, _, err = service.Likers(ctx, "missing", utils.Page{Page: 1, Limit: 10})
		assert.True(t, apperr.Is(err, apperr.KindNotFound))
	})

	assert.Equal(t, []events.Type{
		events.PostCreated, events.PostLiked, events.PostUnliked, events.PostLiked, events.PostLiked,
	}, rec.Types())
}
