package models

// AdminStats — сводная статистика для панели администратора.
// Все значения пересчитываются заново при каждом запросе.
type AdminStats struct {
	TotalUsers     int `json:"total_users"`
	TotalPosts     int `json:"total_posts"`
	TotalComments  int `json:"total_comments"`
	UsersToday     int `json:"users_today"`
	PostsToday     int `json:"posts_today"`
	CommentsToday  int `json:"comments_today"`
	ActiveUsers7d  int `json:"active_users_7d"`
	PendingReports int `json:"pending_reports"`
}
