package services

import (
	"context"
	"errors"

	"qyzmet_backend/internal/events"
	"qyzmet_backend/internal/logger"
	"qyzmet_backend/internal/models"
	"qyzmet_backend/internal/repositories"
	"qyzmet_backend/internal/services/dto"

	"gorm.io/gorm"
	"qyzmet_backend/pkg/apperrors"
)

type ReviewService struct {
	reviewRepo       repositories.ReviewRepository
	jobRepo          repositories.JobRequestRepository
	userRepo         repositories.UserRepository
	notificationRepo repositories.NotificationRepository
	ratingService    *RatingService
	publisher        events.Publisher
}

func NewReviewService(
	reviewRepo repositories.ReviewRepository,
	jobRepo repositories.JobRequestRepository,
	userRepo repositories.UserRepository,
	notificationRepo repositories.NotificationRepository,
	ratingService *RatingService,
	publisher events.Publisher,
) *ReviewService {
	return &ReviewService{
		reviewRepo:       reviewRepo,
		jobRepo:          jobRepo,
		userRepo:         userRepo,
		notificationRepo: notificationRepo,
		ratingService:    ratingService,
		publisher:        publisher,
	}
}

// Submit принимает отзыв по завершенной заявке. Адресат вычисляется
// сервером: это всегда вторая сторона заявки. После вставки рейтинг
// адресата пересчитывается из таблицы reviews; сбой пересчета не
// откатывает отзыв, агрегаты догонит следующий пересчет.
func (s *ReviewService) Submit(ctx context.Context, db *gorm.DB, req *dto.SubmitReviewRequest) (*dto.ReviewResponse, error) {
	reviewer, err := s.userRepo.FindByID(db, req.ReviewerID)
	if err != nil {
		return nil, toAppError(err)
	}
	if reviewer.IsBlocked {
		return nil, apperrors.ErrUserBlocked
	}

	job, err := s.jobRepo.FindByID(db, req.JobRequestID)
	if err != nil {
		return nil, toAppError(err)
	}
	if job.Status != models.JobRequestStatusCompleted {
		return nil, apperrors.ErrJobNotCompleted
	}
	if !job.IsParticipant(req.ReviewerID) {
		return nil, apperrors.ErrNotJobParticipant
	}

	reviewedUserID, role := job.CounterParty(req.ReviewerID)
	if reviewedUserID == "" {
		return nil, apperrors.ErrNotJobParticipant
	}

	// Повтор отзыва отсекается заранее; уникальный индекс по
	// (reviewer, reviewed, job) остается страховкой на вставке.
	if _, err := s.reviewRepo.FindByPairAndJob(db, req.ReviewerID, reviewedUserID, req.JobRequestID); err == nil {
		return nil, apperrors.ErrDuplicateReview
	} else if !errors.Is(err, repositories.ErrReviewNotFound) {
		return nil, toAppError(err)
	}

	review := &models.Review{
		ReviewerID:     req.ReviewerID,
		ReviewedUserID: reviewedUserID,
		JobRequestID:   req.JobRequestID,
		Role:           role,
		Rating:         req.Rating,
		Comment:        req.Comment,
	}
	if err := s.reviewRepo.Create(db, review); err != nil {
		return nil, toAppError(err)
	}

	if _, err := s.ratingService.Recompute(db, reviewedUserID); err != nil {
		logger.CtxWithError(ctx, "failed to recompute rating after review", err, "user_id", reviewedUserID)
	}

	if err := s.notificationRepo.CreateReviewReceivedNotification(db, reviewedUserID, job.ID, req.Rating); err != nil {
		logger.CtxWithError(ctx, "failed to create review notification", err, "job_request_id", job.ID)
	}
	s.publisher.Publish(ctx, events.EventReviewSubmitted, map[string]string{
		"review_id":        review.ID,
		"job_request_id":   job.ID,
		"reviewed_user_id": reviewedUserID,
	})

	return reviewToResponse(review), nil
}

func (s *ReviewService) Get(db *gorm.DB, reviewID string) (*dto.ReviewResponse, error) {
	review, err := s.reviewRepo.FindByID(db, reviewID)
	if err != nil {
		return nil, toAppError(err)
	}
	return reviewToResponse(review), nil
}

// ListForUser отдает отзывы, полученные пользователем
func (s *ReviewService) ListForUser(db *gorm.DB, userID string, page, pageSize int) (*dto.ReviewListResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	reviews, total, err := s.reviewRepo.ListForUser(db, userID, page, pageSize)
	if err != nil {
		return nil, toAppError(err)
	}

	resp := &dto.ReviewListResponse{
		Reviews:    make([]*dto.ReviewResponse, 0, len(reviews)),
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: int((total + int64(pageSize) - 1) / int64(pageSize)),
	}
	for i := range reviews {
		resp.Reviews = append(resp.Reviews, reviewToResponse(&reviews[i]))
	}
	return resp, nil
}

func (s *ReviewService) ListForJob(db *gorm.DB, jobID string) (*dto.ReviewListResponse, error) {
	reviews, err := s.reviewRepo.ListByJobRequest(db, jobID)
	if err != nil {
		return nil, toAppError(err)
	}
	resp := &dto.ReviewListResponse{
		Reviews: make([]*dto.ReviewResponse, 0, len(reviews)),
		Total:   int64(len(reviews)),
	}
	for i := range reviews {
		resp.Reviews = append(resp.Reviews, reviewToResponse(&reviews[i]))
	}
	return resp, nil
}

func reviewToResponse(review *models.Review) *dto.ReviewResponse {
	return &dto.ReviewResponse{
		ID:             review.ID,
		ReviewerID:     review.ReviewerID,
		ReviewedUserID: review.ReviewedUserID,
		JobRequestID:   review.JobRequestID,
		Role:           review.Role,
		Rating:         review.Rating,
		Comment:        review.Comment,
		CreatedAt:      review.CreatedAt,
	}
}
