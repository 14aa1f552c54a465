package services

import (
	"context"
	"errors"
	"time"

	"qyzmet_backend/internal/events"
	"qyzmet_backend/internal/logger"
	"qyzmet_backend/internal/models"
	"qyzmet_backend/internal/repositories"
	"qyzmet_backend/internal/services/dto"

	"gorm.io/gorm"
	"qyzmet_backend/pkg/apperrors"
)

type ModerationService struct {
	complaintRepo    repositories.ComplaintRepository
	jobRepo          repositories.JobRequestRepository
	userRepo         repositories.UserRepository
	notificationRepo repositories.NotificationRepository
	publisher        events.Publisher
}

func NewModerationService(
	complaintRepo repositories.ComplaintRepository,
	jobRepo repositories.JobRequestRepository,
	userRepo repositories.UserRepository,
	notificationRepo repositories.NotificationRepository,
	publisher events.Publisher,
) *ModerationService {
	return &ModerationService{
		complaintRepo:    complaintRepo,
		jobRepo:          jobRepo,
		userRepo:         userRepo,
		notificationRepo: notificationRepo,
		publisher:        publisher,
	}
}

// FileComplaint создает жалобу. Жаловаться можно только на вторую
// сторону своей заявки, и только одна активная жалоба на заявку.
func (s *ModerationService) FileComplaint(db *gorm.DB, req *dto.FileComplaintRequest) (*dto.ComplaintResponse, error) {
	if req.ReporterID == req.ReportedUserID {
		return nil, apperrors.ErrSelfReport
	}

	reporter, err := s.userRepo.FindByID(db, req.ReporterID)
	if err != nil {
		return nil, toAppError(err)
	}
	if reporter.IsBlocked {
		return nil, apperrors.ErrUserBlocked
	}

	job, err := s.jobRepo.FindByID(db, req.JobRequestID)
	if err != nil {
		return nil, toAppError(err)
	}
	if !job.IsParticipant(req.ReporterID) {
		return nil, apperrors.ErrNotJobParticipant
	}
	counterParty, _ := job.CounterParty(req.ReporterID)
	if counterParty != req.ReportedUserID {
		return nil, apperrors.ErrNotCounterParty
	}

	existing, err := s.complaintRepo.FindActiveByReporterAndJob(db, req.ReporterID, req.JobRequestID)
	if err != nil && !errors.Is(err, repositories.ErrComplaintNotFound) {
		return nil, toAppError(err)
	}
	if existing != nil {
		return nil, apperrors.ErrDuplicateComplaint
	}

	complaint := &models.Complaint{
		ReporterID:     req.ReporterID,
		ReportedUserID: req.ReportedUserID,
		JobRequestID:   req.JobRequestID,
		ProblemType:    req.ProblemType,
		Description:    req.Description,
		Status:         models.ComplaintStatusPending,
		AdminAction:    models.AdminActionNone,
	}
	if err := s.complaintRepo.Create(db, complaint); err != nil {
		return nil, toAppError(err)
	}
	return complaintToResponse(complaint), nil
}

func (s *ModerationService) GetComplaint(db *gorm.DB, complaintID, requesterID string, isModerator bool) (*dto.ComplaintResponse, error) {
	complaint, err := s.complaintRepo.FindByID(db, complaintID)
	if err != nil {
		return nil, toAppError(err)
	}
	if !isModerator && complaint.ReporterID != requesterID {
		return nil, apperrors.ErrInsufficientPermissions
	}
	return complaintToResponse(complaint), nil
}

func (s *ModerationService) ListMyComplaints(db *gorm.DB, reporterID string) (*dto.ComplaintListResponse, error) {
	complaints, err := s.complaintRepo.ListByReporter(db, reporterID)
	if err != nil {
		return nil, toAppError(err)
	}
	resp := &dto.ComplaintListResponse{
		Complaints: make([]*dto.ComplaintResponse, 0, len(complaints)),
		Total:      int64(len(complaints)),
	}
	for i := range complaints {
		resp.Complaints = append(resp.Complaints, complaintToResponse(&complaints[i]))
	}
	return resp, nil
}

func (s *ModerationService) SearchComplaints(db *gorm.DB, criteria repositories.ComplaintSearchCriteria) (*dto.ComplaintListResponse, error) {
	if criteria.Page < 1 {
		criteria.Page = 1
	}
	if criteria.PageSize < 1 || criteria.PageSize > 100 {
		criteria.PageSize = 20
	}

	complaints, total, err := s.complaintRepo.Search(db, criteria)
	if err != nil {
		return nil, toAppError(err)
	}
	resp := &dto.ComplaintListResponse{
		Complaints: make([]*dto.ComplaintResponse, 0, len(complaints)),
		Total:      total,
		Page:       criteria.Page,
		PageSize:   criteria.PageSize,
		TotalPages: int((total + int64(criteria.PageSize) - 1) / int64(criteria.PageSize)),
	}
	for i := range complaints {
		resp.Complaints = append(resp.Complaints, complaintToResponse(&complaints[i]))
	}
	return resp, nil
}

// Act применяет решение админа к жалобе. Мутация жалобы, запись в
// журнал и блокировка нарушителя (при бане) коммитятся одной
// транзакцией. Терминальные жалобы заморожены.
func (s *ModerationService) Act(ctx context.Context, db *gorm.DB, complaintID, adminID string, req *dto.AdminActRequest, meta dto.RequestMeta) (*dto.ComplaintResponse, error) {
	complaint, err := s.complaintRepo.FindByID(db, complaintID)
	if err != nil {
		return nil, toAppError(err)
	}
	if !complaint.Active() {
		return nil, apperrors.ErrComplaintClosed
	}

	prevStatus := complaint.Status
	prevAction := complaint.AdminAction

	actionType := ""
	if req.Status != nil && *req.Status != complaint.Status {
		if !models.ComplaintTransitionAllowed(complaint.Status, *req.Status) {
			return nil, apperrors.ErrInvalidStatus("complaint",
				"Transition from "+string(complaint.Status)+" to "+string(*req.Status)+" is not allowed")
		}
		complaint.Status = *req.Status
		actionType = "status_change"
	}
	if req.AdminAction != nil && *req.AdminAction != complaint.AdminAction {
		complaint.AdminAction = *req.AdminAction
		if actionType == "" {
			actionType = "admin_action_change"
		}
	}
	if req.AdminNotes != nil && *req.AdminNotes != complaint.AdminNotes {
		complaint.AdminNotes = *req.AdminNotes
		if actionType == "" {
			actionType = "notes_update"
		}
	}
	if actionType == "" {
		return nil, apperrors.NewBadRequestError("Nothing to change")
	}

	if models.ComplaintStatusTerminal(complaint.Status) && complaint.ResolvedAt == nil {
		now := time.Now()
		complaint.ResolvedAt = &now
	}

	action := &models.AdminAction{
		ComplaintID:         complaint.ID,
		AdminID:             adminID,
		ActionType:          actionType,
		PreviousStatus:      prevStatus,
		NewStatus:           complaint.Status,
		PreviousAdminAction: prevAction,
		NewAdminAction:      complaint.AdminAction,
		Notes:               complaint.AdminNotes,
		IPAddress:           meta.IPAddress,
		UserAgent:           meta.UserAgent,
	}

	// Бан каскадом блокирует нарушителя в той же транзакции
	blockUserID := ""
	if complaint.AdminAction == models.AdminActionBan && prevAction != models.AdminActionBan {
		blockUserID = complaint.ReportedUserID
	}

	if err := s.complaintRepo.ApplyAdminAction(db, complaint, action, blockUserID); err != nil {
		return nil, toAppError(err)
	}

	if models.ComplaintStatusTerminal(complaint.Status) {
		if err := s.notificationRepo.CreateComplaintResolvedNotification(db, complaint.ReporterID, complaint.ID, complaint.Status); err != nil {
			logger.CtxWithError(ctx, "failed to create complaint notification", err, "complaint_id", complaint.ID)
		}
		s.publisher.Publish(ctx, events.EventComplaintClosed, map[string]string{
			"complaint_id": complaint.ID,
			"status":       string(complaint.Status),
			"admin_action": string(complaint.AdminAction),
		})
	}

	return complaintToResponse(complaint), nil
}

// AuditLog отдает журнал модерации по жалобе в хронологическом порядке
func (s *ModerationService) AuditLog(db *gorm.DB, complaintID string) ([]*dto.AdminActionResponse, error) {
	if _, err := s.complaintRepo.FindByID(db, complaintID); err != nil {
		return nil, toAppError(err)
	}
	actions, err := s.complaintRepo.ListAdminActions(db, complaintID)
	if err != nil {
		return nil, toAppError(err)
	}
	resp := make([]*dto.AdminActionResponse, 0, len(actions))
	for i := range actions {
		a := &actions[i]
		resp = append(resp, &dto.AdminActionResponse{
			ID:                  a.ID,
			ComplaintID:         a.ComplaintID,
			AdminID:             a.AdminID,
			ActionType:          a.ActionType,
			PreviousStatus:      a.PreviousStatus,
			NewStatus:           a.NewStatus,
			PreviousAdminAction: a.PreviousAdminAction,
			NewAdminAction:      a.NewAdminAction,
			Notes:               a.Notes,
			IPAddress:           a.IPAddress,
			UserAgent:           a.UserAgent,
			CreatedAt:           a.CreatedAt,
		})
	}
	return resp, nil
}

func complaintToResponse(c *models.Complaint) *dto.ComplaintResponse {
	return &dto.ComplaintResponse{
		ID:             c.ID,
		ReporterID:     c.ReporterID,
		ReportedUserID: c.ReportedUserID,
		JobRequestID:   c.JobRequestID,
		ProblemType:    c.ProblemType,
		Description:    c.Description,
		Status:         c.Status,
		AdminAction:    c.AdminAction,
		AdminNotes:     c.AdminNotes,
		ResolvedAt:     c.ResolvedAt,
		CreatedAt:      c.CreatedAt,
	}
}
