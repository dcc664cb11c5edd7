package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/forum-backend/internal/logger"
	"github.com/ignatzorin/forum-backend/internal/repository"
	"github.com/ignatzorin/forum-backend/internal/service"
)

// ErrorHandler обрабатывает ошибки централизованно.
// Маскирует внутренние ошибки и возвращает понятные сообщения клиенту.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		// Проверяем, не был ли уже отправлен ответ
		if c.Writer.Written() {
			return
		}

		if len(c.Errors) > 0 {
			err := c.Errors.Last()

			statusCode := http.StatusInternalServerError
			message := "внутренняя ошибка сервера"

			if logger.Log != nil {
				logger.Log.WithFields(logrus.Fields{
					"error":  err.Error(),
					"path":   c.Request.URL.Path,
					"method": c.Request.Method,
				}).Error("Request error")
			}

			if code, msg, ok := mapKnownError(err.Err); ok {
				statusCode = code
				message = msg
			} else if err.Error() != "" {
				// Если ошибка содержит понятное сообщение, используем его,
				// но только если это не внутренняя ошибка
				errStr := err.Error()
				if !containsInternalKeywords(errStr) {
					message = errStr
					if contains(errStr, "неверный") || contains(errStr, "невалид") || contains(errStr, "должен") {
						statusCode = http.StatusBadRequest
					} else if contains(errStr, "нет прав") || contains(errStr, "заблокирован") {
						statusCode = http.StatusForbidden
					}
				}
			}

			c.JSON(statusCode, gin.H{"error": message})
		}
	}
}

// mapKnownError переводит доменные ошибки в статус и сообщение ответа.
func mapKnownError(err error) (int, string, bool) {
	switch {
	case errors.Is(err, repository.ErrUserNotFound):
		return http.StatusNotFound, "пользователь не найден", true
	case errors.Is(err, repository.ErrPostNotFound):
		return http.StatusNotFound, "пост не найден", true
	case errors.Is(err, repository.ErrCommentNotFound):
		return http.StatusNotFound, "комментарий не найден", true
	case errors.Is(err, repository.ErrCategoryNotFound):
		return http.StatusNotFound, "раздел не найден", true
	case errors.Is(err, repository.ErrTagNotFound):
		return http.StatusNotFound, "тег не найден", true
	case errors.Is(err, repository.ErrReportNotFound):
		return http.StatusNotFound, "жалоба не найдена", true
	case errors.Is(err, repository.ErrNotificationNotFound):
		return http.StatusNotFound, "уведомление не найдено", true
	case errors.Is(err, repository.ErrMediaNotFound):
		return http.StatusNotFound, "файл не найден", true
	case errors.Is(err, repository.ErrDuplicateReport):
		return http.StatusConflict, "жалоба уже подана", true
	case errors.Is(err, repository.ErrReportAlreadyResolved):
		return http.StatusConflict, "жалоба уже обработана", true
	case errors.Is(err, repository.ErrSlugTaken), errors.Is(err, repository.ErrPostSlugTaken):
		return http.StatusConflict, "slug уже занят", true
	case errors.Is(err, repository.ErrCategoryInUse):
		return http.StatusConflict, "в разделе ещё есть посты", true
	case errors.Is(err, repository.ErrTagInUse):
		return http.StatusConflict, "тег используется постами", true
	case errors.Is(err, service.ErrModerationForbidden),
		errors.Is(err, service.ErrAdminRequired),
		errors.Is(err, service.ErrSelfModeration):
		return http.StatusForbidden, "недостаточно прав", true
	case errors.Is(err, service.ErrPostAccessDenied),
		errors.Is(err, service.ErrCommentAccessDenied),
		errors.Is(err, service.ErrNotificationAccess),
		errors.Is(err, service.ErrMediaAccessDenied):
		return http.StatusForbidden, "нет прав на эту операцию", true
	case errors.Is(err, service.ErrPostArchived):
		return http.StatusConflict, "пост в архиве", true
	case errors.Is(err, service.ErrParentMismatch):
		return http.StatusBadRequest, "родительский комментарий относится к другому посту", true
	case errors.Is(err, service.ErrNestingTooDeep):
		return http.StatusBadRequest, "отвечать можно только на корневой комментарий", true
	case errors.Is(err, service.ErrInvalidVoteValue):
		return http.StatusBadRequest, "значение голоса должно быть -1, 0 или 1", true
	case errors.Is(err, service.ErrUnknownReportAction),
		errors.Is(err, service.ErrUnknownReportStatus):
		return http.StatusBadRequest, "неизвестное действие над жалобой", true
	case errors.Is(err, service.ErrReportTargetNotFound),
		errors.Is(err, service.ErrRecipientNotFound),
		errors.Is(err, service.ErrLinkTargetNotFound):
		return http.StatusNotFound, "контент не найден", true
	case errors.Is(err, service.ErrUnsupportedFileType):
		return http.StatusBadRequest, "неподдерживаемый тип файла", true
	default:
		return 0, "", false
	}
}

// containsInternalKeywords проверяет, содержит ли строка ключевые слова внутренних ошибок.
func containsInternalKeywords(s string) bool {
	keywords := []string{
		"sql:",
		"database",
		"connection",
		"timeout",
		"internal",
		"panic",
		"runtime",
		"repository:",
	}

	for _, keyword := range keywords {
		if contains(s, keyword) {
			return true
		}
	}
	return false
}

// contains проверяет, содержит ли строка подстроку (case-insensitive).
func contains(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
