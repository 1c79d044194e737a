package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ArthurDelaporte/SocialFeed-Back/internal/auth"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/database/dbtest"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/events"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/metrics"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/utils"
)

type client struct {
	t *testing.T
	h http.Handler
}

func (c client) do(method, path, token string, body interface{}) (int, map[string]interface{}, []byte) {
	c.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	c.h.ServeHTTP(w, req)

	var out map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return w.Code, out, w.Body.Bytes()
}

func newTestServer(t *testing.T) (client, *events.Recorder) {
	gin.SetMode(gin.TestMode)

	db := dbtest.Open(t, Models()...)
	clock := utils.NewStubClock(time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC))
	tokens, err := auth.NewTokenIssuer("router-secret", time.Hour, clock)
	require.NoError(t, err)
	rec := &events.Recorder{}

	deps := Wire(Components{
		DB:        db,
		Clock:     clock,
		Publisher: rec,
		Tokens:    tokens,
		States:    auth.NewMemoryStateStore(clock),
		Metrics:   metrics.New(),
		HashCost:  bcrypt.MinCost,
	})
	return client{t: t, h: Handler(NewRouter(deps))}, rec
}

func (c client) signup(username, email string) (string, string) {
	code, _, _ := c.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": username, "email": email, "password": "secret",
	})
	require.Equal(c.t, http.StatusCreated, code)

	code, body, _ := c.do(http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": email, "password": "secret",
	})
	require.Equal(c.t, http.StatusOK, code)
	u := body["user"].(map[string]interface{})
	return body["token"].(string), u["id"].(string)
}

func TestSocialFlow(t *testing.T) {
	c, rec := newTestServer(t)

	aliceToken, aliceID := c.signup("alice", "alice@example.com")
	bobToken, bobID := c.signup("bob", "bob@example.com")

	code, body, _ := c.do(http.MethodPut, "/api/users/"+bobID+"/follow", aliceToken, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Followed", body["message"])

	code, post, _ := c.do(http.MethodPost, "/api/posts", bobToken, map[string]string{
		"caption":   "Hello #Golang",
		"mediaUrl":  "https://cdn.example.com/p.jpg",
		"mediaType": "image",
	})
	require.Equal(t, http.StatusCreated, code)
	postID := post["id"].(string)
	assert.Equal(t, "Other", post["category"])

	code, _, raw := c.do(http.MethodGet, "/api/posts/feed", aliceToken, nil)
	require.Equal(t, http.StatusOK, code)
	var feed []map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &feed))
	require.Len(t, feed, 1)
	assert.Equal(t, postID, feed[0]["id"])

	code, liked, _ := c.do(http.MethodPut, "/api/posts/"+postID+"/like", aliceToken, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []interface{}{aliceID}, liked["likes"])

	code, comment, _ := c.do(http.MethodPost, "/api/posts/"+postID+"/comments", aliceToken, map[string]string{"content": "Nice"})
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "Nice", comment["content"])

	code, body, _ = c.do(http.MethodGet, "/api/posts/search/hashtags?hashtag=go", aliceToken, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["posts"], 1)
	assert.EqualValues(t, 1, body["totalPages"])

	code, body, _ = c.do(http.MethodGet, "/api/users/"+bobID, aliceToken, nil)
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 1, body["postsCount"])
	assert.Equal(t, true, body["isFollowing"])
	profile := body["user"].(map[string]interface{})
	assert.NotContains(t, profile, "password")
	assert.Equal(t, []interface{}{aliceID}, profile["followers"])

	code, body, _ = c.do(http.MethodGet, "/api/posts/"+postID+"/likes", bobToken, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["users"], 1)

	code, body, _ = c.do(http.MethodDelete, "/api/posts/"+postID, aliceToken, nil)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "You can only delete your own posts", body["error"])

	code, _, _ = c.do(http.MethodDelete, "/api/posts/"+postID, bobToken, nil)
	assert.Equal(t, http.StatusOK, code)

	code, _, _ = c.do(http.MethodGet, "/api/posts/"+postID, bobToken, nil)
	assert.Equal(t, http.StatusNotFound, code)

	assert.Equal(t, []events.Type{
		events.UserRegistered, events.UserRegistered, events.UserFollowed,
		events.PostCreated, events.PostLiked, events.CommentAdded, events.PostDeleted,
	}, rec.Types())
}

func TestRouterErrors(t *testing.T) {
	c, _ := newTestServer(t)
	token, id := c.signup("carol", "carol@example.com")

	tests := []struct {
		name           string
		method, path   string
		token          string
		expectedStatus int
		expectedError  string
	}{
		{"no token", http.MethodGet, "/api/me", "", http.StatusUnauthorized, "Token required"},
		{"bad token", http.MethodGet, "/api/me", "garbage", http.StatusUnauthorized, "Invalid token"},
		{"self follow", http.MethodPut, "/api/users/" + id + "/follow", token, http.StatusBadRequest, "You can't follow yourself"},
		{"unknown user", http.MethodGet, "/api/users/nobody", token, http.StatusNotFound, "User not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body, _ := c.do(tt.method, tt.path, tt.token, nil)
			assert.Equal(t, tt.expectedStatus, code)
			assert.Equal(t, tt.expectedError, body["error"])
		})
	}

	code, _, _ := c.do(http.MethodPost, "/api/auth/login", "", map[string]string{"email": "carol@example.com", "password": "nope"})
	assert.Equal(t, http.StatusBadRequest, code)

	code, _, _ = c.do(http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, code)

	code, _, raw := c.do(http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Contains(t, string(raw), `route="/api/me"`)
}

func TestPreflight(t *testing.T) {
	c, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/posts", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Authorization")
	w := httptest.NewRecorder()
	c.h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Authorization")

	code, _, _ := c.do(http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, code)
}
