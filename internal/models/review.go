package models

// Review неизменяем после создания: путей update/delete в сервисах нет.
// Уникальность (reviewer_id, reviewed_user_id, job_request_id) - один отзыв
// на пару участников в рамках заявки.
type Review struct {
	BaseModel
	ReviewerID     string     `gorm:"not null;index;uniqueIndex:idx_reviews_pair_job"`
	ReviewedUserID string     `gorm:"not null;index;uniqueIndex:idx_reviews_pair_job"`
	JobRequestID   string     `gorm:"not null;index;uniqueIndex:idx_reviews_pair_job"`
	Role           ReviewRole `gorm:"type:varchar(10);not null"` // чья роль оценивается
	Rating         int        `gorm:"not null;check:rating >= 1 AND rating <= 5"`
	Comment        string

	// Relations
	Reviewer     User       `gorm:"foreignKey:ReviewerID"`
	ReviewedUser User       `gorm:"foreignKey:ReviewedUserID"`
	JobRequest   JobRequest `gorm:"foreignKey:JobRequestID"`
}
