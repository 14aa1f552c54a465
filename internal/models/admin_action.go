package models

import "time"

// AdminAction - append-only журнал модерации. Записи никогда не обновляются
// и не удаляются; каждая мутация жалобы дает ровно одну запись со снимком
// до/после.
type AdminAction struct {
	ID          string `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()"`
	ComplaintID string `gorm:"not null;index"`
	AdminID     string `gorm:"not null;index"`
	ActionType  string `gorm:"not null"` // "status_change", "admin_action_change", "notes_update"

	PreviousStatus      ComplaintStatus `gorm:"type:varchar(20)"`
	NewStatus           ComplaintStatus `gorm:"type:varchar(20)"`
	PreviousAdminAction AdminActionType `gorm:"type:varchar(20)"`
	NewAdminAction      AdminActionType `gorm:"type:varchar(20)"`

	Notes     string
	IPAddress string
	UserAgent string
	CreatedAt time.Time `gorm:"default:now()"`
}
