package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/forum-backend/internal/http/handlers/common"
	"github.com/ignatzorin/forum-backend/internal/models"
	"github.com/ignatzorin/forum-backend/internal/service"
)

// CommentHandler предоставляет HTTP слой для комментариев.
type CommentHandler struct {
	comments *service.CommentService
	votes    *service.VoteService
}

// NewCommentHandler создаёт хэндлер.
func NewCommentHandler(comments *service.CommentService, votes *service.VoteService) *CommentHandler {
	return &CommentHandler{comments: comments, votes: votes}
}

// ListByPost обрабатывает GET /posts/:id/comments.
func (h *CommentHandler) ListByPost(c *gin.Context) {
	postID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	limit, offset := common.GetPagination(c)
	comments, err := h.comments.ListByPost(c.Request.Context(), postID, limit, offset)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, comments)
}

// Create обрабатывает POST /posts/:id/comments.
func (h *CommentHandler) Create(c *gin.Context) {
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
		Body     string     `json:"body" binding:"required"`
		ParentID *uuid.UUID `json:"parent_id"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	comment, err := h.comments.Create(c.Request.Context(), service.CreateCommentInput{
		PostID:   postID,
		AuthorID: userID,
		ParentID: req.ParentID,
		Body:     req.Body,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, comment)
}

// Update обрабатывает PUT /comments/:id.
func (h *CommentHandler) Update(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	commentID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	var req struct {
		Body string `json:"body" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	comment, err := h.comments.Update(c.Request.Context(), commentID, userID, req.Body)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, comment)
}

// Delete обрабатывает DELETE /comments/:id.
func (h *CommentHandler) Delete(c *gin.Context) {
	userID, role, err := common.Identity(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	commentID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	if err := h.comments.Delete(c.Request.Context(), commentID, userID, role); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "комментарий удалён"})
}

// Vote обрабатывает POST /comments/:id/vote.
func (h *CommentHandler) Vote(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	commentID, err := common.ParseUUIDParam(c, "id")
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

	result, err := h.votes.Cast(c.Request.Context(), models.VoteTargetComment, userID, commentID, *req.Value)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, result)
}
