package services

import (
	"context"
	"encoding/json"

	"qyzmet_backend/internal/events"
	"qyzmet_backend/internal/logger"
	"qyzmet_backend/internal/models"
	"qyzmet_backend/internal/repositories"
	"qyzmet_backend/internal/services/dto"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"qyzmet_backend/pkg/apperrors"
)

type UpgradeService struct {
	upgradeRepo      repositories.UpgradeRequestRepository
	userRepo         repositories.UserRepository
	notificationRepo repositories.NotificationRepository
	publisher        events.Publisher
}

func NewUpgradeService(
	upgradeRepo repositories.UpgradeRequestRepository,
	userRepo repositories.UserRepository,
	notificationRepo repositories.NotificationRepository,
	publisher events.Publisher,
) *UpgradeService {
	return &UpgradeService{
		upgradeRepo:      upgradeRepo,
		userRepo:         userRepo,
		notificationRepo: notificationRepo,
		publisher:        publisher,
	}
}

// Request создает заявку на роль provider. Лимиты (одна pending, не
// более трех за все время) проверяются в репозитории под блокировкой
// строки пользователя.
func (s *UpgradeService) Request(db *gorm.DB, req *dto.CreateUpgradeRequestRequest) (*dto.UpgradeRequestResponse, error) {
	user, err := s.userRepo.FindByID(db, req.UserID)
	if err != nil {
		return nil, toAppError(err)
	}
	if user.IsBlocked {
		return nil, apperrors.ErrUserBlocked
	}
	if user.HasRole(models.RoleProvider) {
		return nil, apperrors.NewConflictError("upgrade_request", "User is already a provider")
	}

	attachments, err := json.Marshal(req.Attachments)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	request := &models.UpgradeRequest{
		UserID:      req.UserID,
		Attachments: datatypes.JSON(attachments),
		Status:      models.UpgradeStatusPending,
	}
	if err := s.upgradeRepo.CreateWithLimits(db, request); err != nil {
		return nil, toAppError(err)
	}
	return upgradeRequestToResponse(request), nil
}

func (s *UpgradeService) Get(db *gorm.DB, requestID, requesterID string, isModerator bool) (*dto.UpgradeRequestResponse, error) {
	request, err := s.upgradeRepo.FindByID(db, requestID)
	if err != nil {
		return nil, toAppError(err)
	}
	if !isModerator && request.UserID != requesterID {
		return nil, apperrors.ErrInsufficientPermissions
	}
	return upgradeRequestToResponse(request), nil
}

func (s *UpgradeService) ListMine(db *gorm.DB, userID string) (*dto.UpgradeRequestListResponse, error) {
	requests, err := s.upgradeRepo.ListByUser(db, userID)
	if err != nil {
		return nil, toAppError(err)
	}
	return upgradeRequestsToListResponse(requests), nil
}

func (s *UpgradeService) ListPending(db *gorm.DB) (*dto.UpgradeRequestListResponse, error) {
	requests, err := s.upgradeRepo.ListPending(db)
	if err != nil {
		return nil, toAppError(err)
	}
	return upgradeRequestsToListResponse(requests), nil
}

// Accept одобряет заявку: роль provider добавляется к существующим
// ролям, профиль провайдера создается в той же транзакции.
func (s *UpgradeService) Accept(ctx context.Context, db *gorm.DB, requestID string, req *dto.DecideUpgradeRequest) (*dto.UpgradeRequestResponse, error) {
	return s.decide(ctx, db, requestID, models.UpgradeStatusAccepted, req)
}

func (s *UpgradeService) Reject(ctx context.Context, db *gorm.DB, requestID string, req *dto.DecideUpgradeRequest) (*dto.UpgradeRequestResponse, error) {
	return s.decide(ctx, db, requestID, models.UpgradeStatusRejected, req)
}

func (s *UpgradeService) decide(ctx context.Context, db *gorm.DB, requestID string, status models.UpgradeStatus, req *dto.DecideUpgradeRequest) (*dto.UpgradeRequestResponse, error) {
	request, err := s.upgradeRepo.FindByID(db, requestID)
	if err != nil {
		return nil, toAppError(err)
	}
	if request.Status != models.UpgradeStatusPending {
		return nil, apperrors.ErrUpgradeAlreadyDecided
	}
	if status == models.UpgradeStatusAccepted && req.AdminExplanation == "" {
		return nil, apperrors.NewBadRequestError("Admin explanation is required to accept an upgrade request")
	}

	user, err := s.userRepo.FindByID(db, request.UserID)
	if err != nil {
		return nil, toAppError(err)
	}

	request.Status = status
	request.AdminExplanation = req.AdminExplanation
	request.ViewedByUser = false
	user.ProviderUpgradeStatus = status

	createProfile := false
	if status == models.UpgradeStatusAccepted {
		// Роль добавляется к множеству, существующие роли сохраняются
		user.AddRole(models.RoleProvider)
		createProfile = user.ProviderProfile == nil
	} else {
		request.RejectionComment = req.RejectionComment
	}

	if err := s.upgradeRepo.Decide(db, request, user, createProfile); err != nil {
		return nil, toAppError(err)
	}

	if err := s.notificationRepo.CreateUpgradeDecidedNotification(db, user.ID, request.ID, status); err != nil {
		logger.CtxWithError(ctx, "failed to create upgrade notification", err, "request_id", request.ID)
	}
	s.publisher.Publish(ctx, events.EventUpgradeDecided, map[string]string{
		"request_id": request.ID,
		"user_id":    user.ID,
		"status":     string(status),
	})

	return upgradeRequestToResponse(request), nil
}

// MarkViewed помечает решение как просмотренное владельцем заявки
func (s *UpgradeService) MarkViewed(db *gorm.DB, requestID, requesterID string) error {
	request, err := s.upgradeRepo.FindByID(db, requestID)
	if err != nil {
		return toAppError(err)
	}
	if request.UserID != requesterID {
		return apperrors.ErrInsufficientPermissions
	}
	return toAppError(s.upgradeRepo.MarkViewed(db, requestID))
}

func upgradeRequestToResponse(request *models.UpgradeRequest) *dto.UpgradeRequestResponse {
	resp := &dto.UpgradeRequestResponse{
		ID:               request.ID,
		UserID:           request.UserID,
		Status:           request.Status,
		AdminExplanation: request.AdminExplanation,
		RejectionComment: request.RejectionComment,
		ViewedByUser:     request.ViewedByUser,
		CreatedAt:        request.CreatedAt,
		UpdatedAt:        request.UpdatedAt,
	}
	if len(request.Attachments) > 0 {
		_ = json.Unmarshal(request.Attachments, &resp.Attachments)
	}
	return resp
}

func upgradeRequestsToListResponse(requests []models.UpgradeRequest) *dto.UpgradeRequestListResponse {
	resp := &dto.UpgradeRequestListResponse{
		Requests: make([]*dto.UpgradeRequestResponse, 0, len(requests)),
		Total:    int64(len(requests)),
	}
	for i := range requests {
		resp.Requests = append(resp.Requests, upgradeRequestToResponse(&requests[i]))
	}
	return resp
}
