package services

import (
	"context"
	"encoding/json"
	"time"

	"qyzmet_backend/internal/events"
	"qyzmet_backend/internal/logger"
	"qyzmet_backend/internal/models"
	"qyzmet_backend/internal/repositories"
	"qyzmet_backend/internal/services/dto"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"qyzmet_backend/pkg/apperrors"
)

type JobRequestService struct {
	jobRepo          repositories.JobRequestRepository
	offerRepo        repositories.OfferRepository
	userRepo         repositories.UserRepository
	categoryRepo     repositories.CategoryRepository
	notificationRepo repositories.NotificationRepository
	publisher        events.Publisher
}

func NewJobRequestService(
	jobRepo repositories.JobRequestRepository,
	offerRepo repositories.OfferRepository,
	userRepo repositories.UserRepository,
	categoryRepo repositories.CategoryRepository,
	notificationRepo repositories.NotificationRepository,
	publisher events.Publisher,
) *JobRequestService {
	return &JobRequestService{
		jobRepo:          jobRepo,
		offerRepo:        offerRepo,
		userRepo:         userRepo,
		categoryRepo:     categoryRepo,
		notificationRepo: notificationRepo,
		publisher:        publisher,
	}
}

func (s *JobRequestService) Create(db *gorm.DB, req *dto.CreateJobRequestRequest) (*dto.JobRequestResponse, error) {
	seeker, err := s.userRepo.FindByID(db, req.SeekerID)
	if err != nil {
		return nil, toAppError(err)
	}
	if seeker.IsBlocked {
		return nil, apperrors.ErrUserBlocked
	}

	active, err := s.categoryRepo.IsActive(db, req.CategoryID)
	if err != nil {
		return nil, toAppError(err)
	}
	if !active {
		return nil, apperrors.ErrInactiveCategory
	}

	if !req.Deadline.After(time.Now()) {
		return nil, apperrors.NewBadRequestError("Deadline must be in the future")
	}

	job := &models.JobRequest{
		SeekerID:    req.SeekerID,
		CategoryID:  req.CategoryID,
		Title:       req.Title,
		Description: req.Description,
		BudgetMin:   req.BudgetMin,
		BudgetMax:   req.BudgetMax,
		Deadline:    req.Deadline,
		Status:      models.JobRequestStatusOpen,
	}
	if err := s.jobRepo.Create(db, job); err != nil {
		return nil, toAppError(err)
	}

	return jobRequestToResponse(job), nil
}

func (s *JobRequestService) Get(db *gorm.DB, jobID string) (*dto.JobRequestResponse, error) {
	job, err := s.jobRepo.FindByID(db, jobID)
	if err != nil {
		return nil, toAppError(err)
	}
	return jobRequestToResponse(job), nil
}

func (s *JobRequestService) ListBySeeker(db *gorm.DB, seekerID string) (*dto.JobRequestListResponse, error) {
	jobs, err := s.jobRepo.ListBySeeker(db, seekerID)
	if err != nil {
		return nil, toAppError(err)
	}
	resp := &dto.JobRequestListResponse{
		JobRequests: make([]*dto.JobRequestResponse, 0, len(jobs)),
		Total:       int64(len(jobs)),
	}
	for i := range jobs {
		resp.JobRequests = append(resp.JobRequests, jobRequestToResponse(&jobs[i]))
	}
	return resp, nil
}

func (s *JobRequestService) Search(db *gorm.DB, criteria repositories.JobSearchCriteria) (*dto.JobRequestListResponse, error) {
	if criteria.Page < 1 {
		criteria.Page = 1
	}
	if criteria.PageSize < 1 || criteria.PageSize > 100 {
		criteria.PageSize = 20
	}

	jobs, total, err := s.jobRepo.Search(db, criteria)
	if err != nil {
		return nil, toAppError(err)
	}

	resp := &dto.JobRequestListResponse{
		JobRequests: make([]*dto.JobRequestResponse, 0, len(jobs)),
		Total:       total,
		Page:        criteria.Page,
		PageSize:    criteria.PageSize,
		TotalPages:  int((total + int64(criteria.PageSize) - 1) / int64(criteria.PageSize)),
	}
	for i := range jobs {
		resp.JobRequests = append(resp.JobRequests, jobRequestToResponse(&jobs[i]))
	}
	return resp, nil
}

// Update меняет детали заявки. Разрешено только владельцу и только пока
// заявка open.
func (s *JobRequestService) Update(db *gorm.DB, jobID, requesterID string, req *dto.UpdateJobRequestRequest) (*dto.JobRequestResponse, error) {
	job, err := s.jobRepo.FindByID(db, jobID)
	if err != nil {
		return nil, toAppError(err)
	}
	if !job.IsOwner(requesterID) {
		return nil, apperrors.ErrNotJobOwner
	}
	if job.Status != models.JobRequestStatusOpen {
		return nil, apperrors.ErrJobNotOpen
	}

	if req.Title != nil {
		job.Title = *req.Title
	}
	if req.Description != nil {
		job.Description = *req.Description
	}
	if req.BudgetMin != nil {
		job.BudgetMin = *req.BudgetMin
	}
	if req.BudgetMax != nil {
		job.BudgetMax = *req.BudgetMax
	}
	if req.Deadline != nil {
		if !req.Deadline.After(time.Now()) {
			return nil, apperrors.NewBadRequestError("Deadline must be in the future")
		}
		job.Deadline = *req.Deadline
	}
	if job.BudgetMax < job.BudgetMin {
		return nil, apperrors.NewBadRequestError("Maximum budget cannot be less than minimum budget")
	}

	if err := s.jobRepo.SaveDetails(db, job); err != nil {
		return nil, toAppError(err)
	}
	return jobRequestToResponse(job), nil
}

func (s *JobRequestService) Delete(db *gorm.DB, jobID, requesterID string, isModerator bool) error {
	job, err := s.jobRepo.FindByID(db, jobID)
	if err != nil {
		return toAppError(err)
	}
	if !isModerator && !job.IsOwner(requesterID) {
		return apperrors.ErrNotJobOwner
	}
	return toAppError(s.jobRepo.Delete(db, jobID))
}

// Assign принимает один оффер и отклоняет остальные. Вся мутация
// атомарна на уровне репозитория: условный переход open -> assigned
// служит барьером против двойного принятия.
func (s *JobRequestService) Assign(ctx context.Context, db *gorm.DB, jobID, requesterID string, req *dto.AssignOfferRequest) (*dto.JobRequestResponse, error) {
	job, err := s.jobRepo.FindByID(db, jobID)
	if err != nil {
		return nil, toAppError(err)
	}
	if !job.IsOwner(requesterID) {
		return nil, apperrors.ErrNotJobOwner
	}

	offer, err := s.offerRepo.FindByID(db, req.OfferID)
	if err != nil {
		return nil, toAppError(err)
	}
	if offer.JobRequestID != jobID {
		return nil, apperrors.ErrOfferJobMismatch
	}

	if err := s.jobRepo.AssignOffer(db, jobID, offer.ID, offer.ProviderID); err != nil {
		return nil, toAppError(err)
	}

	job, err = s.jobRepo.FindByID(db, jobID)
	if err != nil {
		return nil, toAppError(err)
	}

	s.notifyAssignDecisions(ctx, db, job, offer.ID)
	s.publisher.Publish(ctx, events.EventOfferAccepted, map[string]string{
		"job_request_id": jobID,
		"offer_id":       offer.ID,
		"provider_id":    offer.ProviderID,
	})

	return jobRequestToResponse(job), nil
}

// notifyAssignDecisions шлет уведомления после коммита: принятому
// провайдеру и каждому отклоненному. Ошибки здесь не валят запрос.
func (s *JobRequestService) notifyAssignDecisions(ctx context.Context, db *gorm.DB, job *models.JobRequest, acceptedOfferID string) {
	offers, err := s.offerRepo.ListByJobRequest(db, job.ID)
	if err != nil {
		logger.CtxWithError(ctx, "failed to list offers for notifications", err, "job_request_id", job.ID)
		return
	}
	for i := range offers {
		accepted := offers[i].ID == acceptedOfferID
		if err := s.notificationRepo.CreateOfferDecidedNotification(db, offers[i].ProviderID, job.ID, job.Title, accepted); err != nil {
			logger.CtxWithError(ctx, "failed to create offer decision notification", err,
				"job_request_id", job.ID, "provider_id", offers[i].ProviderID)
		}
	}
}

// Complete переводит assigned -> completed. Доступно только назначенному
// исполнителю.
func (s *JobRequestService) Complete(ctx context.Context, db *gorm.DB, jobID, providerID string, req *dto.CompleteJobRequest) (*dto.JobRequestResponse, error) {
	job, err := s.jobRepo.FindByID(db, jobID)
	if err != nil {
		return nil, toAppError(err)
	}
	if job.Status != models.JobRequestStatusAssigned {
		return nil, apperrors.ErrJobNotAssigned
	}
	if !job.IsAssignedProvider(providerID) {
		return nil, apperrors.ErrNotAssignedProvider
	}

	var proof datatypes.JSON
	if len(req.ProofImages) > 0 {
		data, err := json.Marshal(req.ProofImages)
		if err != nil {
			return nil, apperrors.InternalError(err)
		}
		proof = datatypes.JSON(data)
	}

	now := time.Now()
	if err := s.jobRepo.Complete(db, jobID, providerID, proof, req.ProofDescription, now); err != nil {
		return nil, toAppError(err)
	}

	job, err = s.jobRepo.FindByID(db, jobID)
	if err != nil {
		return nil, toAppError(err)
	}

	if err := s.notificationRepo.CreateJobCompletedNotification(db, job.SeekerID, job.ID, job.Title); err != nil {
		logger.CtxWithError(ctx, "failed to create completion notification", err, "job_request_id", job.ID)
	}
	s.publisher.Publish(ctx, events.EventJobCompleted, map[string]string{
		"job_request_id": job.ID,
		"seeker_id":      job.SeekerID,
		"provider_id":    providerID,
	})

	return jobRequestToResponse(job), nil
}

// Cancel переводит open -> cancelled. Только владелец.
func (s *JobRequestService) Cancel(db *gorm.DB, jobID, requesterID string) (*dto.JobRequestResponse, error) {
	job, err := s.jobRepo.FindByID(db, jobID)
	if err != nil {
		return nil, toAppError(err)
	}
	if !job.IsOwner(requesterID) {
		return nil, apperrors.ErrNotJobOwner
	}

	if err := s.jobRepo.Cancel(db, jobID); err != nil {
		return nil, toAppError(err)
	}

	job.Status = models.JobRequestStatusCancelled
	return jobRequestToResponse(job), nil
}

// ExpireOverdue отменяет открытые заявки с прошедшим дедлайном.
// Вызывается фоновым воркером.
func (s *JobRequestService) ExpireOverdue(db *gorm.DB, now time.Time) (int64, error) {
	n, err := s.jobRepo.CancelExpiredOpen(db, now)
	if err != nil {
		return 0, toAppError(err)
	}
	return n, nil
}

func jobRequestToResponse(job *models.JobRequest) *dto.JobRequestResponse {
	resp := &dto.JobRequestResponse{
		ID:                 job.ID,
		SeekerID:           job.SeekerID,
		CategoryID:         job.CategoryID,
		Title:              job.Title,
		Description:        job.Description,
		BudgetMin:          job.BudgetMin,
		BudgetMax:          job.BudgetMax,
		Deadline:           job.Deadline,
		Status:             job.Status,
		AssignedProviderID: job.AssignedProviderID,
		ProofDescription:   job.ProofDescription,
		CompletedAt:        job.CompletedAt,
		CreatedAt:          job.CreatedAt,
		UpdatedAt:          job.UpdatedAt,
	}
	if job.Category.ID != "" {
		resp.CategoryName = job.Category.Name
	}
	if len(job.ProofImages) > 0 {
		_ = json.Unmarshal(job.ProofImages, &resp.ProofImages)
	}
	return resp
}
