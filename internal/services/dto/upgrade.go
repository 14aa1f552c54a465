package dto

import (
	"time"

	"qyzmet_backend/internal/models"
)

type CreateUpgradeRequestRequest struct {
	UserID      string   `json:"-"` // Set by server from auth
	Attachments []string `json:"attachments" validate:"required,min=1,max=10,dive,url"`
}

type DecideUpgradeRequest struct {
	AdminExplanation string `json:"admin_explanation" validate:"omitempty,max=2000"`
	RejectionComment string `json:"rejection_comment" validate:"omitempty,max=2000"`
}

type UpgradeRequestResponse struct {
	ID               string               `json:"id"`
	UserID           string               `json:"user_id"`
	Status           models.UpgradeStatus `json:"status"`
	Attachments      []string             `json:"attachments,omitempty"`
	AdminExplanation string               `json:"admin_explanation,omitempty"`
	RejectionComment string               `json:"rejection_comment,omitempty"`
	ViewedByUser     bool                 `json:"viewed_by_user"`
	CreatedAt        time.Time            `json:"created_at"`
	UpdatedAt        time.Time            `json:"updated_at"`
}

type UpgradeRequestListResponse struct {
	Requests []*UpgradeRequestResponse `json:"requests"`
	Total    int64                     `json:"total"`
}
