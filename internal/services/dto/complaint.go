package dto

import (
	"time"

	"qyzmet_backend/internal/models"
)

type FileComplaintRequest struct {
	ReporterID     string             `json:"-"` // Set by server from auth
	ReportedUserID string             `json:"reported_user_id" validate:"required,uuid4"`
	JobRequestID   string             `json:"job_request_id" validate:"required,uuid4"`
	ProblemType    models.ProblemType `json:"problem_type" validate:"required,is-problem-type"`
	Description    string             `json:"description" validate:"required,max=5000"`
}

// AdminActRequest - любое подмножество полей может меняться
type AdminActRequest struct {
	Status      *models.ComplaintStatus `json:"status,omitempty" validate:"omitempty,is-complaint-status"`
	AdminAction *models.AdminActionType `json:"admin_action,omitempty" validate:"omitempty,is-admin-action"`
	AdminNotes  *string                 `json:"admin_notes,omitempty" validate:"omitempty,max=5000"`
}

// RequestMeta - метаданные HTTP-запроса для аудита
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

type ComplaintResponse struct {
	ID             string                 `json:"id"`
	ReporterID     string                 `json:"reporter_id"`
	ReportedUserID string                 `json:"reported_user_id"`
	JobRequestID   string                 `json:"job_request_id"`
	ProblemType    models.ProblemType     `json:"problem_type"`
	Description    string                 `json:"description"`
	Status         models.ComplaintStatus `json:"status"`
	AdminAction    models.AdminActionType `json:"admin_action"`
	AdminNotes     string                 `json:"admin_notes,omitempty"`
	ResolvedAt     *time.Time             `json:"resolved_at,omitempty"`
	CreatedAt      time.Time              `json:"created_at"`
}

type ComplaintListResponse struct {
	Complaints []*ComplaintResponse `json:"complaints"`
	Total      int64                `json:"total"`
	Page       int                  `json:"page"`
	PageSize   int                  `json:"page_size"`
	TotalPages int                  `json:"total_pages"`
}

type AdminActionResponse struct {
	ID                  string                 `json:"id"`
	ComplaintID         string                 `json:"complaint_id"`
	AdminID             string                 `json:"admin_id"`
	ActionType          string                 `json:"action_type"`
	PreviousStatus      models.ComplaintStatus `json:"previous_status"`
	NewStatus           models.ComplaintStatus `json:"new_status"`
	PreviousAdminAction models.AdminActionType `json:"previous_admin_action"`
	NewAdminAction      models.AdminActionType `json:"new_admin_action"`
	Notes               string                 `json:"notes,omitempty"`
	IPAddress           string                 `json:"ip_address,omitempty"`
	UserAgent           string                 `json:"user_agent,omitempty"`
	CreatedAt           time.Time              `json:"created_at"`
}
