package models

import (
	"time"

	"gorm.io/datatypes"
)

type JobRequest struct {
	BaseModel
	SeekerID    string `gorm:"not null;index"`
	CategoryID  string `gorm:"not null;index"`
	Title       string `gorm:"not null"`
	Description string
	BudgetMin   float64 `gorm:"not null"`
	BudgetMax   float64 `gorm:"not null"`
	Deadline    time.Time
	Status      JobRequestStatus `gorm:"type:varchar(20);default:'open';index"`

	// Инвариант: AssignedProviderID != nil <=> Status in {assigned, completed}
	AssignedProviderID *string `gorm:"index"`

	// Доказательство выполнения (заполняется при завершении)
	ProofImages      datatypes.JSON `gorm:"type:jsonb"` // opaque URLs
	ProofDescription string
	CompletedAt      *time.Time

	// Relations
	Seeker   User     `gorm:"foreignKey:SeekerID"`
	Category Category `gorm:"foreignKey:CategoryID"`
}

// IsOwner - владелец (seeker) заявки
func (j *JobRequest) IsOwner(userID string) bool {
	return j.SeekerID == userID
}

// IsAssignedProvider - назначенный исполнитель
func (j *JobRequest) IsAssignedProvider(userID string) bool {
	return j.AssignedProviderID != nil && *j.AssignedProviderID == userID
}

// IsParticipant - заказчик или назначенный исполнитель
func (j *JobRequest) IsParticipant(userID string) bool {
	return j.IsOwner(userID) || j.IsAssignedProvider(userID)
}

// CounterParty возвращает вторую сторону по заявке и ее роль.
// Пустая строка - userID не участник или исполнитель еще не назначен.
func (j *JobRequest) CounterParty(userID string) (string, ReviewRole) {
	if j.AssignedProviderID == nil {
		return "", ""
	}
	if j.SeekerID == userID {
		return *j.AssignedProviderID, ReviewRoleProvider
	}
	if *j.AssignedProviderID == userID {
		return j.SeekerID, ReviewRoleSeeker
	}
	return "", ""
}
