package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/forum-backend/internal/http/handlers/common"
	"github.com/ignatzorin/forum-backend/internal/service"
)

// ReportHandler предоставляет HTTP слой для подачи жалоб.
type ReportHandler struct {
	reports *service.ReportService
}

// NewReportHandler создаёт хэндлер.
func NewReportHandler(reports *service.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// Submit обрабатывает POST /reports.
func (h *ReportHandler) Submit(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	var req struct {
		ContentType string `json:"content_type" binding:"required"`
		ContentID   string `json:"content_id" binding:"required,uuid"`
		Reason      string `json:"reason" binding:"required"`
		Details     string `json:"details"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	contentID, err := common.ParseUUIDString(req.ContentID)
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	report, err := h.reports.Submit(c.Request.Context(), service.SubmitReportInput{
		ReporterID:  userID,
		ContentType: req.ContentType,
		ContentID:   contentID,
		Reason:      req.Reason,
		Details:     req.Details,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, report)
}
