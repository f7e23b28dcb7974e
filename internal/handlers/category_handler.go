package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Miguel-EMC/clinic-api/internal/models"
)

func (h *Handler) ListCategories(c *gin.Context) {
	categories, err := h.Categories.List(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve categories"})
		return
	}

	c.JSON(http.StatusOK, categories)
}

func (h *Handler) CreateCategory(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required,max=100"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category := models.Category{Name: req.Name}
	if err := h.Categories.Create(c, &category); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "A category with this name already exists"})
		return
	}

	c.JSON(http.StatusCreated, category)
}

func (h *Handler) DeleteCategory(c *gin.Context) {
	if err := h.Categories.Delete(c, c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete category"})
		return
	}

	c.Status(http.StatusNoContent)
}
