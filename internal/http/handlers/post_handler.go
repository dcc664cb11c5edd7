package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/forum-backend/internal/http/handlers/common"
	"github.com/ignatzorin/forum-backend/internal/models"
	"github.com/ignatzorin/forum-backend/internal/repository"
	"github.com/ignatzorin/forum-backend/internal/service"
)

// PostHandler предоставляет HTTP слой для постов.
type PostHandler struct {
	posts *service.PostService
	votes *service.VoteService
}

// NewPostHandler создаёт хэндлер.
func NewPostHandler(posts *service.PostService, votes *service.VoteService) *PostHandler {
	return &PostHandler{posts: posts, votes: votes}
}

// List обрабатывает GET /posts.
func (h *PostHandler) List(c *gin.Context) {
	limit, offset := common.GetPagination(c)
	filter := repository.ListFilter{Limit: limit, Offset: offset}

	if v := c.Query("category_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			common.RespondBadRequest(c, "category_id должен быть валидным UUID")
			return
		}
		filter.CategoryID = &id
	}

	if v := c.Query("tag_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			common.RespondBadRequest(c, "tag_id должен быть валидным UUID")
			return
		}
		filter.TagID = &id
	}

	if v := c.Query("author_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			common.RespondBadRequest(c, "author_id должен быть валидным UUID")
			return
		}
		filter.AuthorID = &id
	}

	posts, err := h.posts.List(c.Request.Context(), filter)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, posts)
}

// GetBySlug обрабатывает GET /posts/:slug.
func (h *PostHandler) GetBySlug(c *gin.Context) {
	// Идентичность опциональна: скрытый пост виден автору и модераторам.
	viewerID, _ := common.CurrentUserID(c)
	viewerRole, _ := common.CurrentUserRole(c)

	post, err := h.posts.GetBySlug(c.Request.Context(), c.Param("slug"), viewerID, viewerRole)
	if err != nil {
		_ = c.Error(err)
		return
	}

	tags, err := h.posts.Tags(c.Request.Context(), post.ID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	score, err := h.votes.NetScore(c.Request.Context(), models.VoteTargetPost, post.ID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"post":  post,
		"tags":  tags,
		"score": score,
	})
}

// Create обрабатывает POST /posts.
func (h *PostHandler) Create(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	var req struct {
		Title      string      `json:"title" binding:"required"`
		Body       string      `json:"body" binding:"required"`
		CategoryID uuid.UUID   `json:"category_id" binding:"required"`
		TagIDs     []uuid.UUID `json:"tag_ids"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	post, err := h.posts.Create(c.Request.Context(), service.CreatePostInput{
		AuthorID:   userID,
		CategoryID: req.CategoryID,
		Title:      req.Title,
		Body:       req.Body,
		TagIDs:     req.TagIDs,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, post)
}

// Update обрабатывает PUT /posts/:id.
func (h *PostHandler) Update(c *gin.Context) {
	userID, role, err := common.Identity(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	postID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	var req struct {
		Title      string      `json:"title" binding:"required"`
		Body       string      `json:"body" binding:"required"`
		CategoryID uuid.UUID   `json:"category_id" binding:"required"`
		TagIDs     []uuid.UUID `json:"tag_ids"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	post, err := h.posts.Update(c.Request.Context(), postID, userID, role, service.UpdatePostInput{
		Title:      req.Title,
		Body:       req.Body,
		CategoryID: req.CategoryID,
		TagIDs:     req.TagIDs,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, post)
}

// SetArchived обрабатывает POST /posts/:id/archive.
func (h *PostHandler) SetArchived(c *gin.Context) {
	userID, role, err := common.Identity(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	postID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	var req struct {
		Archived bool `json:"archived"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	if err := h.posts.SetArchived(c.Request.Context(), postID, userID, role, req.Archived); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "статус архива обновлён"})
}

// Delete обрабатывает DELETE /posts/:id.
func (h *PostHandler) Delete(c *gin.Context) {
	userID, role, err := common.Identity(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	postID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	if err := h.posts.Delete(c.Request.Context(), postID, userID, role); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "пост удалён"})
}

// Vote обрабатывает POST /posts/:id/vote.
func (h *PostHandler) Vote(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	postID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	var req struct {
		Value *int `json:"value" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	result, err := h.votes.Cast(c.Request.Context(), models.VoteTargetPost, userID, postID, *req.Value)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, result)
}
