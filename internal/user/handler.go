package user

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ArthurDelaporte/SocialFeed-Back/internal/logs"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/utils"
)

type Handler struct {
	repo *Repository
}

func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

// GetMe GET /api/me
func (h *Handler) GetMe(c *gin.Context) {
	route := c.FullPath()
	userID := c.GetString("user_id")

	u, err := h.repo.FindByID(c.Request.Context(), userID)
	if err != nil {
		utils.RespondError(c, err, "Current user not found", "")
		return
	}
	if err := h.repo.LoadRelations(c.Request.Context(), u); err != nil {
		utils.RespondError(c, err, "Error loading follow relations", "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": u})
	logs.LogJSON("INFO", "Current user fetched successfully", map[string]interface{}{
		"route":  route,
		"userID": userID,
	})
}

// SearchUsers GET /api/users/search
func (h *Handler) SearchUsers(c *gin.Context) {
	route := c.FullPath()
	userID := c.GetString("user_id")

	query := c.Query("query")
	page := utils.PageFromQuery(c)

	users, total, err := h.repo.Search(c.Request.Context(), query, page)
	if err != nil {
		utils.RespondError(c, err, "Search error", fmt.Sprintf("The search is : %s", query))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users":       users,
		"totalPages":  utils.TotalPages(total, page.Limit),
		"currentPage": page.Page,
	})
	logs.LogJSON("INFO", "User search is successful", map[string]interface{}{
		"route":  route,
		"userID": userID,
		"extra":  fmt.Sprintf("The search is : %s (%d results)", query, total),
	})
}
