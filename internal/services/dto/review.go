package dto

import (
	"time"

	"qyzmet_backend/internal/models"
)

type SubmitReviewRequest struct {
	ReviewerID   string `json:"-"` // Set by server from auth
	JobRequestID string `json:"job_request_id" validate:"required,uuid4"`
	Rating       int    `json:"rating" validate:"required,min=1,max=5"`
	Comment      string `json:"comment" validate:"omitempty,max=2000"`
}

type ReviewResponse struct {
	ID             string            `json:"id"`
	ReviewerID     string            `json:"reviewer_id"`
	ReviewedUserID string            `json:"reviewed_user_id"`
	JobRequestID   string            `json:"job_request_id"`
	Role           models.ReviewRole `json:"role"`
	Rating         int               `json:"rating"`
	Comment        string            `json:"comment"`
	CreatedAt      time.Time         `json:"created_at"`
}

type ReviewListResponse struct {
	Reviews    []*ReviewResponse `json:"reviews"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
	TotalPages int               `json:"total_pages"`
}

type RatingResponse struct {
	UserID      string  `json:"user_id"`
	Rating      float64 `json:"rating"`
	ReviewCount int     `json:"review_count"`
	IsTopRated  bool    `json:"is_top_rated"`
}
