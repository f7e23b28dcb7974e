package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Miguel-EMC/clinic-api/internal/repository"
	"github.com/Miguel-EMC/clinic-api/internal/services"
)

type postRequest struct {
	Title       string   `json:"title" binding:"required,max=200"`
	Content     string   `json:"content" binding:"required"`
	CategoryIDs []string `json:"categoryIds"`
}

// ListPosts returns published posts. With `?all=1` an authenticated author
// gets their own drafts as well.
func (h *Handler) ListPosts(c *gin.Context) {
	filter := repository.PostFilter{
		PageSize: 20,
	}
	if page, err := strconv.Atoi(c.Query("page")); err == nil && page > 0 {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.Query("page_size")); err == nil && size > 0 && size <= 100 {
		filter.PageSize = size
	}

	if c.Query("all") == "1" {
		userID := c.GetString("userID")
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required to list drafts"})
			return
		}
		filter.AuthorID = userID
		filter.IncludeDrafts = true
	}

	posts, err := h.Posts.List(c, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve posts"})
		return
	}

	c.JSON(http.StatusOK, posts)
}

func (h *Handler) CreatePost(c *gin.Context) {
	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	post, err := h.Posts.Create(c, c.GetString("userID"), services.PostInput{
		Title:       req.Title,
		Content:     req.Content,
		CategoryIDs: req.CategoryIDs,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create post"})
		return
	}

	c.JSON(http.StatusCreated, post)
}

func (h *Handler) GetPost(c *gin.Context) {
	post, err := h.Posts.Get(c, c.Param("id"), c.GetString("userID"))
	if err != nil {
		h.postError(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

func (h *Handler) UpdatePost(c *gin.Context) {
	var req struct {
		Title       string   `json:"title" binding:"omitempty,max=200"`
		Content     string   `json:"content"`
		CategoryIDs []string `json:"categoryIds"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	post, err := h.Posts.Update(c, c.Param("id"), c.GetString("userID"), services.PostInput{
		Title:       req.Title,
		Content:     req.Content,
		CategoryIDs: req.CategoryIDs,
	})
	if err != nil {
		h.postError(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

func (h *Handler) DeletePost(c *gin.Context) {
	if err := h.Posts.Delete(c, c.Param("id"), c.GetString("userID")); err != nil {
		h.postError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// PublishPost runs the summarize-and-illustrate chain and flips the draft
// flag. Upstream failures map to 502 and the post stays a draft.
func (h *Handler) PublishPost(c *gin.Context) {
	post, err := h.Posts.Publish(c, c.Param("id"), c.GetString("userID"))
	if err != nil {
		h.postError(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

func (h *Handler) postError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrPostNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
	case errors.Is(err, services.ErrNotAuthor):
		c.JSON(http.StatusForbidden, gin.H{"error": "Permission denied."})
	case errors.Is(err, services.ErrAlreadyPublished):
		c.JSON(http.StatusConflict, gin.H{"error": "Post is already published"})
	case errors.Is(err, services.ErrUpstream):
		c.JSON(http.StatusBadGateway, gin.H{"error": "Content service unavailable"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
	}
}
