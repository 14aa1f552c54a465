package dto

import (
	"time"

	"qyzmet_backend/internal/models"
)

// ======================
// Request DTOs
// ======================

type CreateJobRequestRequest struct {
	SeekerID    string    `json:"-"` // Set by server from auth
	CategoryID  string    `json:"category_id" validate:"required,uuid4"`
	Title       string    `json:"title" validate:"required,max=200"`
	Description string    `json:"description" validate:"omitempty,max=5000"`
	BudgetMin   float64   `json:"budget_min" validate:"required,gt=0"`
	BudgetMax   float64   `json:"budget_max" validate:"required,gtefield=BudgetMin"`
	Deadline    time.Time `json:"deadline" validate:"required"`
}

type UpdateJobRequestRequest struct {
	Title       *string    `json:"title,omitempty" validate:"omitempty,max=200"`
	Description *string    `json:"description,omitempty" validate:"omitempty,max=5000"`
	BudgetMin   *float64   `json:"budget_min,omitempty" validate:"omitempty,gt=0"`
	BudgetMax   *float64   `json:"budget_max,omitempty" validate:"omitempty,gt=0"`
	Deadline    *time.Time `json:"deadline,omitempty"`
}

type AssignOfferRequest struct {
	OfferID string `json:"offer_id" validate:"required,uuid4"`
}

type CompleteJobRequest struct {
	ProofImages      []string `json:"proof_images" validate:"omitempty,dive,url"`
	ProofDescription string   `json:"proof_description" validate:"omitempty,max=5000"`
}

// ======================
// Response DTOs
// ======================

type JobRequestResponse struct {
	ID                 string                  `json:"id"`
	SeekerID           string                  `json:"seeker_id"`
	CategoryID         string                  `json:"category_id"`
	CategoryName       string                  `json:"category_name,omitempty"`
	Title              string                  `json:"title"`
	Description        string                  `json:"description"`
	BudgetMin          float64                 `json:"budget_min"`
	BudgetMax          float64                 `json:"budget_max"`
	Deadline           time.Time               `json:"deadline"`
	Status             models.JobRequestStatus `json:"status"`
	AssignedProviderID *string                 `json:"assigned_provider_id,omitempty"`
	ProofImages        []string                `json:"proof_images,omitempty"`
	ProofDescription   string                  `json:"proof_description,omitempty"`
	CompletedAt        *time.Time              `json:"completed_at,omitempty"`
	CreatedAt          time.Time               `json:"created_at"`
	UpdatedAt          time.Time               `json:"updated_at"`
}

type JobRequestListResponse struct {
	JobRequests []*JobRequestResponse `json:"job_requests"`
	Total       int64                 `json:"total"`
	Page        int                   `json:"page"`
	PageSize    int                   `json:"page_size"`
	TotalPages  int                   `json:"total_pages"`
}
