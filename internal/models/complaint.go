package models

import "time"

type Complaint struct {
	BaseModel
	ReporterID     string          `gorm:"not null;index"`
	ReportedUserID string          `gorm:"not null;index"`
	JobRequestID   string          `gorm:"not null;index"`
	ProblemType    ProblemType     `gorm:"type:varchar(30);not null"`
	Description    string
	Status         ComplaintStatus `gorm:"type:varchar(20);default:'pending';index"`
	AdminAction    AdminActionType `gorm:"type:varchar(20);default:'none'"`
	AdminNotes     string
	ResolvedAt     *time.Time

	// Relations
	Reporter     User       `gorm:"foreignKey:ReporterID"`
	ReportedUser User       `gorm:"foreignKey:ReportedUserID"`
	JobRequest   JobRequest `gorm:"foreignKey:JobRequestID"`
}

// Active - жалоба еще в работе (pending/investigating)
func (c *Complaint) Active() bool {
	return !ComplaintStatusTerminal(c.Status)
}
