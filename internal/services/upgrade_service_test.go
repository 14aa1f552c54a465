package services

import (
	"context"
	"testing"

	"qyzmet_backend/internal/events"
	"qyzmet_backend/internal/models"
	"qyzmet_backend/internal/repositories"
	"qyzmet_backend/internal/services/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"qyzmet_backend/pkg/apperrors"
)

func newUpgradeService(upgradeRepo *fakeUpgradeRepo, userRepo *fakeUserRepo, notifRepo *fakeNotificationRepo, pub events.Publisher) *UpgradeService {
	if notifRepo == nil {
		notifRepo = &fakeNotificationRepo{}
	}
	if pub == nil {
		pub = events.NopPublisher{}
	}
	return NewUpgradeService(upgradeRepo, userRepo, notifRepo, pub)
}

func pendingUpgrade(id, userID string) *models.UpgradeRequest {
	return &models.UpgradeRequest{
		BaseModel: models.BaseModel{ID: id},
		UserID:    userID,
		Status:    models.UpgradeStatusPending,
	}
}

func TestRequestUpgrade(t *testing.T) {
	userRepo := newFakeUserRepo(seekerUser("s1"))
	upgradeRepo := newFakeUpgradeRepo()
	svc := newUpgradeService(upgradeRepo, userRepo, nil, nil)

	resp, err := svc.Request(nil, &dto.CreateUpgradeRequestRequest{
		UserID:      "s1",
		Attachments: []string{"https://docs.example.com/id.pdf"},
	})
	require.NoError(t, err)
	assert.Equal(t, models.UpgradeStatusPending, resp.Status)
	assert.Equal(t, []string{"https://docs.example.com/id.pdf"}, resp.Attachments)
	require.Len(t, upgradeRepo.created, 1)
}

func TestRequestUpgrade_AlreadyProvider(t *testing.T) {
	provider := &models.User{
		BaseModel: models.BaseModel{ID: "p1"},
		Roles:     models.RolesJSON(models.RoleSeeker, models.RoleProvider),
	}
	svc := newUpgradeService(newFakeUpgradeRepo(), newFakeUserRepo(provider), nil, nil)

	_, err := svc.Request(nil, &dto.CreateUpgradeRequestRequest{
		UserID:      "p1",
		Attachments: []string{"https://docs.example.com/id.pdf"},
	})
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeConflict, appErr.Code)
}

func TestRequestUpgrade_PendingExists(t *testing.T) {
	userRepo := newFakeUserRepo(seekerUser("s1"))
	upgradeRepo := newFakeUpgradeRepo()
	upgradeRepo.createErr = repositories.ErrPendingUpgradeExists
	svc := newUpgradeService(upgradeRepo, userRepo, nil, nil)

	_, err := svc.Request(nil, &dto.CreateUpgradeRequestRequest{
		UserID:      "s1",
		Attachments: []string{"https://docs.example.com/id.pdf"},
	})
	assert.ErrorIs(t, err, apperrors.ErrPendingUpgradeExists)
}

func TestRequestUpgrade_LifetimeCapExceeded(t *testing.T) {
	userRepo := newFakeUserRepo(seekerUser("s1"))
	upgradeRepo := newFakeUpgradeRepo()
	upgradeRepo.createErr = repositories.ErrUpgradeAttemptsExceeded
	svc := newUpgradeService(upgradeRepo, userRepo, nil, nil)

	_, err := svc.Request(nil, &dto.CreateUpgradeRequestRequest{
		UserID:      "s1",
		Attachments: []string{"https://docs.example.com/id.pdf"},
	})
	assert.ErrorIs(t, err, apperrors.ErrUpgradeAttemptsExceeded)
}

func TestAcceptUpgrade(t *testing.T) {
	user := seekerUser("s1")
	userRepo := newFakeUserRepo(user)
	upgradeRepo := newFakeUpgradeRepo(pendingUpgrade("r1", "s1"))
	notifRepo := &fakeNotificationRepo{}
	pub := &fakePublisher{}
	svc := newUpgradeService(upgradeRepo, userRepo, notifRepo, pub)

	resp, err := svc.Accept(context.Background(), nil, "r1", &dto.DecideUpgradeRequest{AdminExplanation: "documents ok"})
	require.NoError(t, err)
	assert.Equal(t, models.UpgradeStatusAccepted, resp.Status)

	// роль добавлена к существующим, seeker сохранен
	require.Len(t, upgradeRepo.decided, 1)
	decided := upgradeRepo.decided[0]
	assert.True(t, decided.user.HasRole(models.RoleProvider))
	assert.True(t, decided.user.HasRole(models.RoleSeeker))
	assert.True(t, decided.createProfile)
	assert.Equal(t, models.UpgradeStatusAccepted, decided.user.ProviderUpgradeStatus)

	require.Len(t, notifRepo.calls, 1)
	assert.Equal(t, "upgrade_decided", notifRepo.calls[0].kind)
	require.Len(t, pub.events, 1)
	assert.Equal(t, events.EventUpgradeDecided, pub.events[0].eventType)
}

func TestAcceptUpgrade_ExplanationRequired(t *testing.T) {
	svc := newUpgradeService(newFakeUpgradeRepo(pendingUpgrade("r1", "s1")), newFakeUserRepo(seekerUser("s1")), nil, nil)

	_, err := svc.Accept(context.Background(), nil, "r1", &dto.DecideUpgradeRequest{})
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeValidationFailed, appErr.Code)
}

func TestRejectUpgrade(t *testing.T) {
	user := seekerUser("s1")
	userRepo := newFakeUserRepo(user)
	upgradeRepo := newFakeUpgradeRepo(pendingUpgrade("r1", "s1"))
	svc := newUpgradeService(upgradeRepo, userRepo, nil, nil)

	resp, err := svc.Reject(context.Background(), nil, "r1", &dto.DecideUpgradeRequest{RejectionComment: "blurry scan"})
	require.NoError(t, err)
	assert.Equal(t, models.UpgradeStatusRejected, resp.Status)
	assert.Equal(t, "blurry scan", resp.RejectionComment)

	require.Len(t, upgradeRepo.decided, 1)
	decided := upgradeRepo.decided[0]
	assert.False(t, decided.user.HasRole(models.RoleProvider))
	assert.False(t, decided.createProfile)
	assert.Equal(t, models.UpgradeStatusRejected, decided.user.ProviderUpgradeStatus)
}

func TestDecideUpgrade_AlreadyDecided(t *testing.T) {
	decided := pendingUpgrade("r1", "s1")
	decided.Status = models.UpgradeStatusAccepted
	svc := newUpgradeService(newFakeUpgradeRepo(decided), newFakeUserRepo(seekerUser("s1")), nil, nil)

	_, err := svc.Accept(context.Background(), nil, "r1", &dto.DecideUpgradeRequest{})
	assert.ErrorIs(t, err, apperrors.ErrUpgradeAlreadyDecided)

	_, err = svc.Reject(context.Background(), nil, "r1", &dto.DecideUpgradeRequest{})
	assert.ErrorIs(t, err, apperrors.ErrUpgradeAlreadyDecided)
}

func TestDecideUpgrade_RaceLostMapsToConflict(t *testing.T) {
	// Оба админа прочитали заявку как pending, второй проигрывает
	// условный переход в репозитории.
	upgradeRepo := newFakeUpgradeRepo(pendingUpgrade("r1", "s1"))
	upgradeRepo.decideErr = repositories.ErrUpgradeRequestDecided
	svc := newUpgradeService(upgradeRepo, newFakeUserRepo(seekerUser("s1")), nil, nil)

	_, err := svc.Accept(context.Background(), nil, "r1", &dto.DecideUpgradeRequest{AdminExplanation: "ok"})
	assert.ErrorIs(t, err, apperrors.ErrUpgradeAlreadyDecided)
	assert.Empty(t, upgradeRepo.decided)
}

func TestMarkViewed_OwnerOnly(t *testing.T) {
	upgradeRepo := newFakeUpgradeRepo(pendingUpgrade("r1", "s1"))
	svc := newUpgradeService(upgradeRepo, newFakeUserRepo(), nil, nil)

	err := svc.MarkViewed(nil, "r1", "someone-else")
	assert.ErrorIs(t, err, apperrors.ErrInsufficientPermissions)

	err = svc.MarkViewed(nil, "r1", "s1")
	require.NoError(t, err)
	assert.Equal(t, []string{"r1"}, upgradeRepo.viewed)
}
