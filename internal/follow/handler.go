package follow

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ArthurDelaporte/SocialFeed-Back/internal/logs"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/utils"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// ToggleFollow PUT /api/users/:id/follow
func (h *Handler) ToggleFollow(c *gin.Context) {
	route := c.FullPath()

	followerID := c.GetString("user_id")
	followingID := c.Param("id")

	action, err := h.service.Toggle(c.Request.Context(), followerID, followingID)
	if err != nil {
		utils.RespondError(c, err, "Error toggling follow", fmt.Sprintf("followingID : %s", followingID))
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": action})
	logs.LogJSON("INFO", string(action)+" user", map[string]interface{}{
		"route":  route,
		"userID": followerID,
		"extra":  fmt.Sprintf("followingID : %s", followingID),
	})
}

// GetFollowers GET /api/users/:id/followers
func (h *Handler) GetFollowers(c *gin.Context) {
	route := c.FullPath()
	userID := c.GetString("user_id")
	targetID := c.Param("id")
	page := utils.PageFromQuery(c)

	users, total, err := h.service.Followers(c.Request.Context(), targetID, page)
	if err != nil {
		utils.RespondError(c, err, "Error fetching followers", fmt.Sprintf("targetID : %s", targetID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users":       users,
		"totalPages":  utils.TotalPages(total, page.Limit),
		"currentPage": page.Page,
	})
	logs.LogJSON("INFO", "Followers fetched successfully", map[string]interface{}{
		"route":  route,
		"userID": userID,
		"extra":  fmt.Sprintf("targetID : %s", targetID),
	})
}

// GetFollowing GET /api/users/:id/following
func (h *Handler) GetFollowing(c *gin.Context) {
	route := c.FullPath()
	userID := c.GetString("user_id")
	targetID := c.Param("id")
	page := utils.PageFromQuery(c)

	users, total, err := h.service.Following(c.Request.Context(), targetID, page)
	if err != nil {
		utils.RespondError(c, err, "Error fetching following", fmt.Sprintf("targetID : %s", targetID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users":       users,
		"totalPages":  utils.TotalPages(total, page.Limit),
		"currentPage": page.Page,
	})
	logs.LogJSON("INFO", "Following fetched successfully", map[string]interface{}{
		"route":  route,
		"userID": userID,
		"extra":  fmt.Sprintf("targetID : %s", targetID),
	})
}
