package like

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

// ToggleLike PUT /api/posts/:id/like
func (h *Handler) ToggleLike(c *gin.Context) {
	route := c.FullPath()
	userID := c.GetString("user_id")
	postID := c.Param("id")

	p, liked, err := h.service.Toggle(c.Request.Context(), postID, userID)
	if err != nil {
		utils.RespondError(c, err, "Error toggling like", fmt.Sprintf("postID : %s", postID))
		return
	}

	message := "Post unliked"
	if liked {
		message = "Post liked"
	}
	c.JSON(http.StatusOK, p)
	logs.LogJSON("INFO", message, map[string]interface{}{
		"route":  route,
		"userID": userID,
		"extra":  fmt.Sprintf("postID : %s, likes : %d", postID, len(p.Likes)),
	})
}

// GetLikes GET /api/posts/:id/likes
func (h *Handler) GetLikes(c *gin.Context) {
	route := c.FullPath()
	userID := c.GetString("user_id")
	postID := c.Param("id")
	page := utils.PageFromQuery(c)

	users, total, err := h.service.Likers(c.Request.Context(), postID, page)
	if err != nil {
		utils.RespondError(c, err, "Error fetching likes", fmt.Sprintf("postID : %s", postID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users":       users,
		"totalPages":  utils.TotalPages(total, page.Limit),
		"currentPage": page.Page,
	})
	logs.LogJSON("INFO", "Likes fetched successfully", map[string]interface{}{
		"route":  route,
		"userID": userID,
		"extra":  fmt.Sprintf("postID : %s", postID),
	})
}
