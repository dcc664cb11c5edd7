package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/forum-backend/internal/http/handlers/common"
	"github.com/ignatzorin/forum-backend/internal/service"
)

// AdminHandler предоставляет HTTP слой для модерации и администрирования.
type AdminHandler struct {
	moderation *service.ModerationService
	profiles   *service.ProfileService
	stats      *service.StatsService
}

// NewAdminHandler создаёт хэндлер.
func NewAdminHandler(moderation *service.ModerationService, profiles *service.ProfileService, stats *service.StatsService) *AdminHandler {
	return &AdminHandler{
		moderation: moderation,
		profiles:   profiles,
		stats:      stats,
	}
}

// ListReports обрабатывает GET /admin/reports?status=pending.
func (h *AdminHandler) ListReports(c *gin.Context) {
	_, role, err := common.Identity(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	limit, offset := common.GetPagination(c)
	reports, err := h.moderation.ListReports(c.Request.Context(), role, c.Query("status"), limit, offset)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, reports)
}

// ResolveReport обрабатывает POST /admin/reports/:id/resolve.
func (h *AdminHandler) ResolveReport(c *gin.Context) {
	userID, role, err := common.Identity(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	reportID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	var req struct {
		Action string `json:"action" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	report, err := h.moderation.Resolve(c.Request.Context(), reportID, userID, role, req.Action)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// Stats обрабатывает GET /admin/stats.
func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.stats.Collect(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// SetRole обрабатывает POST /admin/users/:id/role.
func (h *AdminHandler) SetRole(c *gin.Context) {
	userID, role, err := common.Identity(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	targetID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	var req struct {
		Role string `json:"role" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	if err := h.profiles.SetRole(c.Request.Context(), userID, role, targetID, req.Role); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "роль обновлена"})
}

// SetBanned обрабатывает POST /admin/users/:id/ban.
func (h *AdminHandler) SetBanned(c *gin.Context) {
	userID, role, err := common.Identity(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	targetID, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	var req struct {
		Banned *bool `json:"banned" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	if err := h.profiles.SetBanned(c.Request.Context(), userID, role, targetID, *req.Banned); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "статус блокировки обновлён"})
}
