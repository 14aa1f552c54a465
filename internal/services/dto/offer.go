package dto

import (
	"time"

	"qyzmet_backend/internal/models"
)

type SubmitOfferRequest struct {
	ProviderID   string  `json:"-"` // Set by server from auth
	JobRequestID string  `json:"job_request_id" validate:"required,uuid4"`
	Budget       float64 `json:"budget" validate:"required,gt=0"`
	Message      string  `json:"message" validate:"omitempty,max=2000"`
}

type OfferResponse struct {
	ID           string             `json:"id"`
	JobRequestID string             `json:"job_request_id"`
	ProviderID   string             `json:"provider_id"`
	Budget       float64            `json:"budget"`
	Message      string             `json:"message"`
	Status       models.OfferStatus `json:"status"`
	CreatedAt    time.Time          `json:"created_at"`
}

type OfferListResponse struct {
	Offers       []*OfferResponse `json:"offers"`
	Total        int              `json:"total"`
	PendingCount int64            `json:"pending_count"`
}
