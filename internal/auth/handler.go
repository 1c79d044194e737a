package auth

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ArthurDelaporte/SocialFeed-Back/internal/apperr"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/logs"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/utils"
)

type Handler struct {
	service  *Service
	provider OAuthProvider
	states   StateStore
}

// NewHandler wires the auth routes. provider may be nil when Google sign-in is
// not configured.
func NewHandler(service *Service, provider OAuthProvider, states StateStore) *Handler {
	return &Handler{service: service, provider: provider, states: states}
}

func (h *Handler) OAuthEnabled() bool {
	return h.provider != nil
}

// Register POST /api/auth/register
func (h *Handler) Register(c *gin.Context) {
	route := c.FullPath()

	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, apperr.Wrap(apperr.KindValidation, "Invalid request", err), "Invalid request", "")
		return
	}

	u, err := h.service.Register(c.Request.Context(), input)
	if err != nil {
		utils.RespondError(c, err, "Registration failed", fmt.Sprintf("email : %s", input.Email))
		return
	}

	c.JSON(http.StatusCreated, u)
	logs.LogJSON("INFO", "User registered successfully", map[string]interface{}{
		"route":  route,
		"userID": u.ID,
	})
}

// Login POST /api/auth/login
func (h *Handler) Login(c *gin.Context) {
	route := c.FullPath()

	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, apperr.Wrap(apperr.KindValidation, "Invalid request", err), "Invalid request", "")
		return
	}

	token, u, err := h.service.Login(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		utils.RespondError(c, err, "Login failed", fmt.Sprintf("email : %s", input.Email))
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user": u})
	logs.LogJSON("INFO", "User logged in", map[string]interface{}{
		"route":  route,
		"userID": u.ID,
	})
}

// GoogleLogin GET /api/auth/google
func (h *Handler) GoogleLogin(c *gin.Context) {
	state := uuid.New().String()
	if err := h.states.Save(c.Request.Context(), state); err != nil {
		utils.RespondError(c, err, "OAuth state error", "")
		return
	}
	c.Redirect(http.StatusFound, h.provider.AuthCodeURL(state))
}

// GoogleCallback GET /api/auth/google/callback
func (h *Handler) GoogleCallback(c *gin.Context) {
	route := c.FullPath()

	ok, err := h.states.Consume(c.Request.Context(), c.Query("state"))
	if err != nil {
		utils.RespondError(c, err, "OAuth state error", "")
		return
	}
	if !ok {
		utils.RespondError(c, apperr.Unauthorized("Invalid OAuth state"), "Invalid OAuth state", "")
		return
	}
	code := c.Query("code")
	if code == "" {
		utils.RespondError(c, apperr.Validation("Missing OAuth code"), "Missing OAuth code", c.Query("error"))
		return
	}

	profile, err := h.provider.Exchange(c.Request.Context(), code)
	if err != nil {
		utils.RespondError(c, apperr.Wrap(apperr.KindUnauthorized, "Google authentication failed", err), "Google authentication failed", "")
		return
	}

	token, u, err := h.service.OAuthLogin(c.Request.Context(), *profile)
	if err != nil {
		utils.RespondError(c, err, "OAuth login failed", fmt.Sprintf("email : %s", profile.Email))
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user": u})
	logs.LogJSON("INFO", "User logged in with Google", map[string]interface{}{
		"route":  route,
		"userID": u.ID,
	})
}
