package models

// Роли пользователей форума
const (
	RoleMember    = "member"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

// ReportStatus константы статусов жалоб
const (
	ReportStatusPending   = "pending"
	ReportStatusResolved  = "resolved"
	ReportStatusDismissed = "dismissed"
)

// ReportContentType типы контента, на который можно пожаловаться
const (
	ReportContentPost    = "post"
	ReportContentComment = "comment"
)

// NotificationType типы уведомлений
const (
	NotificationTypeComment  = "comment"
	NotificationTypeMention  = "mention"
	NotificationTypeVote     = "vote"
	NotificationTypeBookmark = "bookmark"
	NotificationTypeFollow   = "follow"
	NotificationTypeReport   = "report"
	NotificationTypeSystem   = "system"
)

// ValidRoles список валидных ролей
var ValidRoles = map[string]struct{}{
	RoleMember:    {},
	RoleModerator: {},
	RoleAdmin:     {},
}

// ValidReportContentTypes список валидных типов контента для жалоб
var ValidReportContentTypes = map[string]struct{}{
	ReportContentPost:    {},
	ReportContentComment: {},
}

// ValidNotificationTypes список валидных типов уведомлений
var ValidNotificationTypes = map[string]struct{}{
	NotificationTypeComment:  {},
	NotificationTypeMention:  {},
	NotificationTypeVote:     {},
	NotificationTypeBookmark: {},
	NotificationTypeFollow:   {},
	NotificationTypeReport:   {},
	NotificationTypeSystem:   {},
}

// IsStaff возвращает true для ролей, которым разрешена модерация.
func IsStaff(role string) bool {
	return role == RoleModerator || role == RoleAdmin
}
