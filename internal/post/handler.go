package post

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ArthurDelaporte/SocialFeed-Back/internal/apperr"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/logs"
	"github.com/ArthurDelaporte/SocialFeed-Back/internal/utils"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// CreatePost POST /api/posts
func (h *Handler) CreatePost(c *gin.Context) {
	route := c.FullPath()
	userID := c.GetString("user_id")

	var input CreateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, apperr.Wrap(apperr.KindValidation, "Invalid request", err), "Invalid request", "")
		return
	}

	p, err := h.service.Create(c.Request.Context(), userID, input)
	if err != nil {
		utils.RespondError(c, err, "Error creating post", "")
		return
	}

	c.JSON(http.StatusCreated, p)
	logs.LogJSON("INFO", "Post created successfully", map[string]interface{}{
		"route":  route,
		"userID": userID,
		"extra":  fmt.Sprintf("postID : %s", p.ID),
	})
}

// GetFeed GET /api/posts/feed
func (h *Handler) GetFeed(c *gin.Context) {
	route := c.FullPath()
	userID := c.GetString("user_id")
	page := utils.PageFromQuery(c)

	posts, err := h.service.Feed(c.Request.Context(), userID, page)
	if err != nil {
		utils.RespondError(c, err, "Error fetching feed", "")
		return
	}

	c.JSON(http.StatusOK, posts)
	logs.LogJSON("INFO", "Feed fetched successfully", map[string]interface{}{
		"route":  route,
		"userID": userID,
		"extra":  fmt.Sprintf("page %d, %d posts", page.Page, len(posts)),
	})
}

// GetPost GET /api/posts/:id
func (h *Handler) GetPost(c *gin.Context) {
	route := c.FullPath()
	userID := c.GetString("user_id")
	postID := c.Param("id")

	p, err := h.service.Get(c.Request.Context(), postID)
	if err != nil {
		utils.RespondError(c, err, "Error fetching post", fmt.Sprintf("postID : %s", postID))
		return
	}

	c.JSON(http.StatusOK, p)
	logs.LogJSON("INFO", "Post fetched successfully", map[string]interface{}{
		"route":  route,
		"userID": userID,
		"extra":  fmt.Sprintf("postID : %s", postID),
	})
}

// DeletePost DELETE /api/posts/:id
func (h *Handler) DeletePost(c *gin.Context) {
	route := c.FullPath()
	userID := c.GetString("user_id")
	postID := c.Param("id")

	if err := h.service.Delete(c.Request.Context(), userID, postID); err != nil {
		utils.RespondError(c, err, "Error deleting post", fmt.Sprintf("postID : %s", postID))
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post deleted"})
	logs.LogJSON("INFO", "Post deleted successfully", map[string]interface{}{
		"route":  route,
		"userID": userID,
		"extra":  fmt.Sprintf("postID : %s", postID),
	})
}

// AddComment POST /api/posts/:id/comments
func (h *Handler) AddComment(c *gin.Context) {
	route := c.FullPath()
	userID := c.GetString("user_id")
	postID := c.Param("id")

	var input struct {
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, apperr.Wrap(apperr.KindValidation, "Invalid request", err), "Invalid request", "")
		return
	}

	comment, err := h.service.AddComment(c.Request.Context(), postID, userID, input.Content)
	if err != nil {
		utils.RespondError(c, err, "Error adding comment", fmt.Sprintf("postID : %s", postID))
		return
	}

	c.JSON(http.StatusCreated, comment)
	logs.LogJSON("INFO", "Comment added successfully", map[string]interface{}{
		"route":  route,
		"userID": userID,
		"extra":  fmt.Sprintf("postID : %s, commentID : %s", postID, comment.ID),
	})
}

// GetComments GET /api/posts/:id/comments
func (h *Handler) GetComments(c *gin.Context) {
	route := c.FullPath()
	userID := c.GetString("user_id")
	postID := c.Param("id")
	page := utils.PageFromQuery(c)

	comments, total, err := h.service.Comments(c.Request.Context(), postID, page)
	if err != nil {
		utils.RespondError(c, err, "Error fetching comments", fmt.Sprintf("postID : %s", postID))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"comments":    comments,
		"totalPages":  utils.TotalPages(total, page.Limit),
		"currentPage": page.Page,
	})
	logs.LogJSON("INFO", "Comments fetched successfully", map[string]interface{}{
		"route":  route,
		"userID": userID,
		"extra":  fmt.Sprintf("postID : %s", postID),
	})
}

// SearchByHashtag GET /api/posts/search/hashtags
func (h *Handler) SearchByHashtag(c *gin.Context) {
	route := c.FullPath()
	userID := c.GetString("user_id")
	hashtag := c.Query("hashtag")
	page := utils.PageFromQuery(c)

	posts, total, err := h.service.SearchByHashtag(c.Request.Context(), hashtag, page)
	if err != nil {
		utils.RespondError(c, err, "Hashtag search error", fmt.Sprintf("hashtag : %s", hashtag))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"posts":       posts,
		"totalPages":  utils.TotalPages(total, page.Limit),
		"currentPage": page.Page,
	})
	logs.LogJSON("INFO", "Hashtag search is successful", map[string]interface{}{
		"route":  route,
		"userID": userID,
		"extra":  fmt.Sprintf("hashtag : %s (%d results)", hashtag, total),
	})
}

// FilterPosts GET /api/posts/filter
func (h *Handler) FilterPosts(c *gin.Context) {
	route := c.FullPath()
	userID := c.GetString("user_id")
	page := utils.PageFromQuery(c)
	input := FilterInput{
		Category:  c.Query("category"),
		StartDate: c.Query("startDate"),
		EndDate:   c.Query("endDate"),
	}

	posts, total, err := h.service.Filter(c.Request.Context(), input, page)
	if err != nil {
		utils.RespondError(c, err, "Post filter error", fmt.Sprintf("filter : %+v", input))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"posts":       posts,
		"totalPages":  utils.TotalPages(total, page.Limit),
		"currentPage": page.Page,
	})
	logs.LogJSON("INFO", "Posts filtered successfully", map[string]interface{}{
		"route":  route,
		"userID": userID,
		"extra":  fmt.Sprintf("filter : %+v (%d results)", input, total),
	})
}
