package post

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ArthurDelaporte/SocialFeed-Back/internal/logs"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/utils"
)

// GetUserProfile GET /api/users/:id
func (h *Handler) GetUserProfile(c *gin.Context) {
	route := c.FullPath()
	currentUserID := c.GetString("user_id")
	id := c.Param("id")

	profile, err := h.service.Profile(c.Request.Context(), currentUserID, id)
	if err != nil {
		utils.RespondError(c, err, "Error fetching user profile", fmt.Sprintf("User : %s", id))
		return
	}

	c.JSON(http.StatusOK, profile)
	logs.LogJSON("INFO", "User fetched successfully", map[string]interface{}{
		"route":  route,
		"userID": currentUserID,
		"extra":  fmt.Sprintf("User fetched successfully : %s", id),
	})
}
