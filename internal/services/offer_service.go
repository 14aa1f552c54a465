package services

import (
	"context"

	"qyzmet_backend/internal/events"
	"qyzmet_backend/internal/logger"
	"qyzmet_backend/internal/models"
	"qyzmet_backend/internal/repositories"
	"qyzmet_backend/internal/services/dto"

	"gorm.io/gorm"
	"qyzmet_backend/pkg/apperrors"
)

type OfferService struct {
	offerRepo        repositories.OfferRepository
	jobRepo          repositories.JobRequestRepository
	userRepo         repositories.UserRepository
	notificationRepo repositories.NotificationRepository
	publisher        events.Publisher
}

func NewOfferService(
	offerRepo repositories.OfferRepository,
	jobRepo repositories.JobRequestRepository,
	userRepo repositories.UserRepository,
	notificationRepo repositories.NotificationRepository,
	publisher events.Publisher,
) *OfferService {
	return &OfferService{
		offerRepo:        offerRepo,
		jobRepo:          jobRepo,
		userRepo:         userRepo,
		notificationRepo: notificationRepo,
		publisher:        publisher,
	}
}

// Submit создает оффер на открытую заявку. Один оффер на пару
// (job, provider), свою заявку офферить нельзя.
func (s *OfferService) Submit(ctx context.Context, db *gorm.DB, req *dto.SubmitOfferRequest) (*dto.OfferResponse, error) {
	provider, err := s.userRepo.FindByID(db, req.ProviderID)
	if err != nil {
		return nil, toAppError(err)
	}
	if provider.IsBlocked {
		return nil, apperrors.ErrUserBlocked
	}
	if !provider.HasRole(models.RoleProvider) {
		return nil, apperrors.ErrInsufficientPermissions
	}

	job, err := s.jobRepo.FindByID(db, req.JobRequestID)
	if err != nil {
		return nil, toAppError(err)
	}
	if job.Status != models.JobRequestStatusOpen {
		return nil, apperrors.ErrJobNotOpen
	}
	if job.IsOwner(req.ProviderID) {
		return nil, apperrors.ErrOwnJobOffer
	}

	offer := &models.Offer{
		JobRequestID: req.JobRequestID,
		ProviderID:   req.ProviderID,
		Budget:       req.Budget,
		Message:      req.Message,
		Status:       models.OfferStatusPending,
	}
	if err := s.offerRepo.Create(db, offer); err != nil {
		return nil, toAppError(err)
	}

	if err := s.notificationRepo.CreateOfferReceivedNotification(db, job.SeekerID, job.ID, job.Title); err != nil {
		logger.CtxWithError(ctx, "failed to create offer notification", err, "job_request_id", job.ID)
	}
	s.publisher.Publish(ctx, events.EventOfferReceived, map[string]string{
		"job_request_id": job.ID,
		"offer_id":       offer.ID,
		"provider_id":    req.ProviderID,
	})

	return offerToResponse(offer), nil
}

func (s *OfferService) Get(db *gorm.DB, offerID, requesterID string) (*dto.OfferResponse, error) {
	offer, err := s.offerRepo.FindByID(db, offerID)
	if err != nil {
		return nil, toAppError(err)
	}
	if offer.ProviderID != requesterID {
		job, err := s.jobRepo.FindByID(db, offer.JobRequestID)
		if err != nil {
			return nil, toAppError(err)
		}
		if !job.IsOwner(requesterID) {
			return nil, apperrors.ErrInsufficientPermissions
		}
	}
	return offerToResponse(offer), nil
}

// ListForJob отдает офферы по заявке вместе со счетчиком ожидающих
// решения. Видит только владелец заявки.
func (s *OfferService) ListForJob(db *gorm.DB, jobID, requesterID string) (*dto.OfferListResponse, error) {
	job, err := s.jobRepo.FindByID(db, jobID)
	if err != nil {
		return nil, toAppError(err)
	}
	if !job.IsOwner(requesterID) {
		return nil, apperrors.ErrNotJobOwner
	}

	offers, err := s.offerRepo.ListByJobRequest(db, jobID)
	if err != nil {
		return nil, toAppError(err)
	}
	pending, err := s.offerRepo.CountByStatus(db, jobID, models.OfferStatusPending)
	if err != nil {
		return nil, toAppError(err)
	}

	resp := offersToListResponse(offers)
	resp.PendingCount = pending
	return resp, nil
}

func (s *OfferService) ListMine(db *gorm.DB, providerID string) (*dto.OfferListResponse, error) {
	offers, err := s.offerRepo.ListByProvider(db, providerID)
	if err != nil {
		return nil, toAppError(err)
	}
	return offersToListResponse(offers), nil
}

func offerToResponse(offer *models.Offer) *dto.OfferResponse {
	return &dto.OfferResponse{
		ID:           offer.ID,
		JobRequestID: offer.JobRequestID,
		ProviderID:   offer.ProviderID,
		Budget:       offer.Budget,
		Message:      offer.Message,
		Status:       offer.Status,
		CreatedAt:    offer.CreatedAt,
	}
}

func offersToListResponse(offers []models.Offer) *dto.OfferListResponse {
	resp := &dto.OfferListResponse{
		Offers: make([]*dto.OfferResponse, 0, len(offers)),
		Total:  len(offers),
	}
	for i := range offers {
		resp.Offers = append(resp.Offers, offerToResponse(&offers[i]))
	}
	return resp
}
