package models

import (
	"gorm.io/datatypes"
)

// UpgradeRequest - заявка seeker'а на роль provider.
// Ограничения: максимум одна pending-заявка на пользователя (partial unique
// index в миграции) и не более 3 заявок за все время.
type UpgradeRequest struct {
	BaseModel
	UserID           string         `gorm:"not null;index"`
	Attachments      datatypes.JSON `gorm:"type:jsonb"` // opaque URLs, >= 1
	Status           UpgradeStatus  `gorm:"type:varchar(20);default:'pending';index"`
	AdminExplanation string
	RejectionComment string
	ViewedByUser     bool `gorm:"default:false"`

	// Relations
	User User `gorm:"foreignKey:UserID"`
}

// MaxUpgradeAttempts - пожизненный лимит заявок на апгрейд
const MaxUpgradeAttempts = 3
