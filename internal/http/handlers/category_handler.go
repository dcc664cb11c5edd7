package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/forum-backend/internal/http/handlers/common"
	"github.com/ignatzorin/forum-backend/internal/service"
)

// CategoryHandler предоставляет HTTP слой для разделов и тегов.
type CategoryHandler struct {
	categories *service.CategoryService
}

// NewCategoryHandler создаёт хэндлер.
func NewCategoryHandler(categories *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categories: categories}
}

// ListCategories обрабатывает GET /categories.
func (h *CategoryHandler) ListCategories(c *gin.Context) {
	categories, err := h.categories.ListCategories(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

// GetCategory обрабатывает GET /categories/:slug.
func (h *CategoryHandler) GetCategory(c *gin.Context) {
	category, err := h.categories.GetCategoryBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, category)
}

// CreateCategory обрабатывает POST /admin/categories.
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	role, err := common.CurrentUserRole(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	var req struct {
		Name        string  `json:"name" binding:"required"`
		Description *string `json:"description"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	category, err := h.categories.CreateCategory(c.Request.Context(), role, req.Name, req.Description)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, category)
}

// DeleteCategory обрабатывает DELETE /admin/categories/:id.
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	role, err := common.CurrentUserRole(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	if err := h.categories.DeleteCategory(c.Request.Context(), role, id); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "раздел удалён"})
}

// ListTags обрабатывает GET /tags.
func (h *CategoryHandler) ListTags(c *gin.Context) {
	tags, err := h.categories.ListTags(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, tags)
}

// CreateTag обрабатывает POST /admin/tags.
func (h *CategoryHandler) CreateTag(c *gin.Context) {
	role, err := common.CurrentUserRole(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	var req struct {
		Name        string  `json:"name" binding:"required"`
		Description *string `json:"description"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	tag, err := h.categories.CreateTag(c.Request.Context(), role, req.Name, req.Description)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, tag)
}

// DeleteTag обрабатывает DELETE /admin/tags/:id.
func (h *CategoryHandler) DeleteTag(c *gin.Context) {
	role, err := common.CurrentUserRole(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	if err := h.categories.DeleteTag(c.Request.Context(), role, id); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "тег удалён"})
}
