package services

import (
	"context"
	"testing"
	"time"

	"qyzmet_backend/internal/events"
	"qyzmet_backend/internal/models"
	"qyzmet_backend/internal/repositories"
	"qyzmet_backend/internal/services/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"qyzmet_backend/pkg/apperrors"
)

func newJobService(jobRepo *fakeJobRepo, offerRepo *fakeOfferRepo, userRepo *fakeUserRepo, categoryRepo *fakeCategoryRepo, notifRepo *fakeNotificationRepo, pub events.Publisher) *JobRequestService {
	if categoryRepo == nil {
		categoryRepo = &fakeCategoryRepo{active: map[string]bool{}}
	}
	if notifRepo == nil {
		notifRepo = &fakeNotificationRepo{}
	}
	if pub == nil {
		pub = events.NopPublisher{}
	}
	return NewJobRequestService(jobRepo, offerRepo, userRepo, categoryRepo, notifRepo, pub)
}

func seekerUser(id string) *models.User {
	return &models.User{
		BaseModel: models.BaseModel{ID: id},
		Email:     id + "@example.com",
		Roles:     models.RolesJSON(models.RoleSeeker),
	}
}

func TestCreateJobRequest(t *testing.T) {
	userRepo := newFakeUserRepo(seekerUser("s1"))
	jobRepo := newFakeJobRepo()
	categoryRepo := &fakeCategoryRepo{active: map[string]bool{"cat1": true, "cat2": false}}
	svc := newJobService(jobRepo, newFakeOfferRepo(), userRepo, categoryRepo, nil, nil)

	req := &dto.CreateJobRequestRequest{
		SeekerID:   "s1",
		CategoryID: "cat1",
		Title:      "Fix kitchen sink",
		BudgetMin:  5000,
		BudgetMax:  10000,
		Deadline:   time.Now().Add(48 * time.Hour),
	}

	resp, err := svc.Create(nil, req)
	require.NoError(t, err)
	assert.Equal(t, models.JobRequestStatusOpen, resp.Status)
	assert.Nil(t, resp.AssignedProviderID)
	require.Len(t, jobRepo.created, 1)
}

func TestCreateJobRequest_InactiveCategory(t *testing.T) {
	userRepo := newFakeUserRepo(seekerUser("s1"))
	categoryRepo := &fakeCategoryRepo{active: map[string]bool{"cat2": false}}
	svc := newJobService(newFakeJobRepo(), newFakeOfferRepo(), userRepo, categoryRepo, nil, nil)

	_, err := svc.Create(nil, &dto.CreateJobRequestRequest{
		SeekerID:   "s1",
		CategoryID: "cat2",
		Title:      "t",
		BudgetMin:  1,
		BudgetMax:  2,
		Deadline:   time.Now().Add(time.Hour),
	})
	assert.ErrorIs(t, err, apperrors.ErrInactiveCategory)
}

func TestCreateJobRequest_PastDeadline(t *testing.T) {
	userRepo := newFakeUserRepo(seekerUser("s1"))
	categoryRepo := &fakeCategoryRepo{active: map[string]bool{"cat1": true}}
	svc := newJobService(newFakeJobRepo(), newFakeOfferRepo(), userRepo, categoryRepo, nil, nil)

	_, err := svc.Create(nil, &dto.CreateJobRequestRequest{
		SeekerID:   "s1",
		CategoryID: "cat1",
		Title:      "t",
		BudgetMin:  1,
		BudgetMax:  2,
		Deadline:   time.Now().Add(-time.Hour),
	})
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeValidationFailed, appErr.Code)
}

func TestCreateJobRequest_BlockedUser(t *testing.T) {
	blocked := seekerUser("s1")
	blocked.IsBlocked = true
	svc := newJobService(newFakeJobRepo(), newFakeOfferRepo(), newFakeUserRepo(blocked), nil, nil, nil)

	_, err := svc.Create(nil, &dto.CreateJobRequestRequest{
		SeekerID: "s1", CategoryID: "cat1", Title: "t",
		BudgetMin: 1, BudgetMax: 2, Deadline: time.Now().Add(time.Hour),
	})
	assert.ErrorIs(t, err, apperrors.ErrUserBlocked)
}

func openJob(id, seekerID string) *models.JobRequest {
	return &models.JobRequest{
		BaseModel: models.BaseModel{ID: id},
		SeekerID:  seekerID,
		Title:     "Job " + id,
		Status:    models.JobRequestStatusOpen,
	}
}

func TestAssign(t *testing.T) {
	job := openJob("j1", "s1")
	jobRepo := newFakeJobRepo(job)
	offerRepo := newFakeOfferRepo(
		&models.Offer{BaseModel: models.BaseModel{ID: "o1"}, JobRequestID: "j1", ProviderID: "p1", Status: models.OfferStatusPending},
		&models.Offer{BaseModel: models.BaseModel{ID: "o2"}, JobRequestID: "j1", ProviderID: "p2", Status: models.OfferStatusPending},
	)
	jobRepo.offers = offerRepo
	notifRepo := &fakeNotificationRepo{}
	pub := &fakePublisher{}
	svc := newJobService(jobRepo, offerRepo, newFakeUserRepo(seekerUser("s1")), nil, notifRepo, pub)

	resp, err := svc.Assign(context.Background(), nil, "j1", "s1", &dto.AssignOfferRequest{OfferID: "o1"})
	require.NoError(t, err)
	assert.Equal(t, models.JobRequestStatusAssigned, resp.Status)
	require.NotNil(t, resp.AssignedProviderID)
	assert.Equal(t, "p1", *resp.AssignedProviderID)

	require.Len(t, jobRepo.assignCalls, 1)
	assert.Equal(t, assignCall{"j1", "o1", "p1"}, jobRepo.assignCalls[0])

	// выбранный оффер принят, остальные pending отклонены
	assert.Equal(t, models.OfferStatusAccepted, offerRepo.offers["o1"].Status)
	assert.Equal(t, models.OfferStatusRejected, offerRepo.offers["o2"].Status)

	// уведомлены оба провайдера, событие опубликовано
	assert.Len(t, notifRepo.calls, 2)
	require.Len(t, pub.events, 1)
	assert.Equal(t, events.EventOfferAccepted, pub.events[0].eventType)
}

func TestAssign_SecondAssignKeepsOneAccepted(t *testing.T) {
	job := openJob("j1", "s1")
	jobRepo := newFakeJobRepo(job)
	offerRepo := newFakeOfferRepo(
		&models.Offer{BaseModel: models.BaseModel{ID: "o1"}, JobRequestID: "j1", ProviderID: "p1", Status: models.OfferStatusPending},
		&models.Offer{BaseModel: models.BaseModel{ID: "o2"}, JobRequestID: "j1", ProviderID: "p2", Status: models.OfferStatusPending},
	)
	jobRepo.offers = offerRepo
	svc := newJobService(jobRepo, offerRepo, newFakeUserRepo(seekerUser("s1")), nil, nil, nil)

	_, err := svc.Assign(context.Background(), nil, "j1", "s1", &dto.AssignOfferRequest{OfferID: "o1"})
	require.NoError(t, err)

	// заявка уже не open, повторный assign другого оффера не проходит
	_, err = svc.Assign(context.Background(), nil, "j1", "s1", &dto.AssignOfferRequest{OfferID: "o2"})
	assert.ErrorIs(t, err, apperrors.ErrJobNotOpen)

	accepted := 0
	for _, o := range offerRepo.offers {
		if o.Status == models.OfferStatusAccepted {
			accepted++
		}
		assert.NotEqual(t, models.OfferStatusPending, o.Status)
	}
	assert.Equal(t, 1, accepted)
	assert.Equal(t, models.OfferStatusAccepted, offerRepo.offers["o1"].Status)
}

func TestAssign_NotOwner(t *testing.T) {
	jobRepo := newFakeJobRepo(openJob("j1", "s1"))
	offerRepo := newFakeOfferRepo(
		&models.Offer{BaseModel: models.BaseModel{ID: "o1"}, JobRequestID: "j1", ProviderID: "p1"},
	)
	svc := newJobService(jobRepo, offerRepo, newFakeUserRepo(), nil, nil, nil)

	_, err := svc.Assign(context.Background(), nil, "j1", "intruder", &dto.AssignOfferRequest{OfferID: "o1"})
	assert.ErrorIs(t, err, apperrors.ErrNotJobOwner)
	assert.Empty(t, jobRepo.assignCalls)
}

func TestAssign_OfferJobMismatch(t *testing.T) {
	jobRepo := newFakeJobRepo(openJob("j1", "s1"), openJob("j2", "s1"))
	offerRepo := newFakeOfferRepo(
		&models.Offer{BaseModel: models.BaseModel{ID: "o1"}, JobRequestID: "j2", ProviderID: "p1"},
	)
	svc := newJobService(jobRepo, offerRepo, newFakeUserRepo(), nil, nil, nil)

	_, err := svc.Assign(context.Background(), nil, "j1", "s1", &dto.AssignOfferRequest{OfferID: "o1"})
	assert.ErrorIs(t, err, apperrors.ErrOfferJobMismatch)
}

func TestAssign_RaceLostMapsToConflict(t *testing.T) {
	jobRepo := newFakeJobRepo(openJob("j1", "s1"))
	jobRepo.assignErr = repositories.ErrJobNotOpen
	offerRepo := newFakeOfferRepo(
		&models.Offer{BaseModel: models.BaseModel{ID: "o1"}, JobRequestID: "j1", ProviderID: "p1"},
	)
	svc := newJobService(jobRepo, offerRepo, newFakeUserRepo(), nil, nil, nil)

	_, err := svc.Assign(context.Background(), nil, "j1", "s1", &dto.AssignOfferRequest{OfferID: "o1"})
	assert.ErrorIs(t, err, apperrors.ErrJobNotOpen)
}

func TestComplete(t *testing.T) {
	pid := "p1"
	job := &models.JobRequest{
		BaseModel:          models.BaseModel{ID: "j1"},
		SeekerID:           "s1",
		Status:             models.JobRequestStatusAssigned,
		AssignedProviderID: &pid,
	}
	jobRepo := newFakeJobRepo(job)
	notifRepo := &fakeNotificationRepo{}
	pub := &fakePublisher{}
	svc := newJobService(jobRepo, newFakeOfferRepo(), newFakeUserRepo(), nil, notifRepo, pub)

	resp, err := svc.Complete(context.Background(), nil, "j1", "p1", &dto.CompleteJobRequest{
		ProofImages:      []string{"https://cdn.example.com/proof.jpg"},
		ProofDescription: "done",
	})
	require.NoError(t, err)
	assert.Equal(t, models.JobRequestStatusCompleted, resp.Status)
	assert.Equal(t, []string{"https://cdn.example.com/proof.jpg"}, resp.ProofImages)
	assert.NotNil(t, resp.CompletedAt)

	require.Len(t, notifRepo.calls, 1)
	assert.Equal(t, "job_completed", notifRepo.calls[0].kind)
	assert.Equal(t, "s1", notifRepo.calls[0].userID)
	require.Len(t, pub.events, 1)
	assert.Equal(t, events.EventJobCompleted, pub.events[0].eventType)
}

func TestComplete_NotAssignedProvider(t *testing.T) {
	pid := "p1"
	job := &models.JobRequest{
		BaseModel:          models.BaseModel{ID: "j1"},
		SeekerID:           "s1",
		Status:             models.JobRequestStatusAssigned,
		AssignedProviderID: &pid,
	}
	svc := newJobService(newFakeJobRepo(job), newFakeOfferRepo(), newFakeUserRepo(), nil, nil, nil)

	_, err := svc.Complete(context.Background(), nil, "j1", "p2", &dto.CompleteJobRequest{})
	assert.ErrorIs(t, err, apperrors.ErrNotAssignedProvider)

	// владелец тоже не может завершить
	_, err = svc.Complete(context.Background(), nil, "j1", "s1", &dto.CompleteJobRequest{})
	assert.ErrorIs(t, err, apperrors.ErrNotAssignedProvider)
}

func TestComplete_NotAssignedStatus(t *testing.T) {
	svc := newJobService(newFakeJobRepo(openJob("j1", "s1")), newFakeOfferRepo(), newFakeUserRepo(), nil, nil, nil)

	_, err := svc.Complete(context.Background(), nil, "j1", "p1", &dto.CompleteJobRequest{})
	assert.ErrorIs(t, err, apperrors.ErrJobNotAssigned)
}

func TestCancel_OnlyOwner(t *testing.T) {
	jobRepo := newFakeJobRepo(openJob("j1", "s1"))
	svc := newJobService(jobRepo, newFakeOfferRepo(), newFakeUserRepo(), nil, nil, nil)

	_, err := svc.Cancel(nil, "j1", "someone")
	assert.ErrorIs(t, err, apperrors.ErrNotJobOwner)

	resp, err := svc.Cancel(nil, "j1", "s1")
	require.NoError(t, err)
	assert.Equal(t, models.JobRequestStatusCancelled, resp.Status)
}

func TestUpdate_OnlyWhileOpen(t *testing.T) {
	pid := "p1"
	assigned := &models.JobRequest{
		BaseModel:          models.BaseModel{ID: "j1"},
		SeekerID:           "s1",
		Status:             models.JobRequestStatusAssigned,
		AssignedProviderID: &pid,
	}
	svc := newJobService(newFakeJobRepo(assigned), newFakeOfferRepo(), newFakeUserRepo(), nil, nil, nil)

	title := "new title"
	_, err := svc.Update(nil, "j1", "s1", &dto.UpdateJobRequestRequest{Title: &title})
	assert.ErrorIs(t, err, apperrors.ErrJobNotOpen)
}

func TestUpdate_BudgetInversionRejected(t *testing.T) {
	job := openJob("j1", "s1")
	job.BudgetMin = 100
	job.BudgetMax = 200
	svc := newJobService(newFakeJobRepo(job), newFakeOfferRepo(), newFakeUserRepo(), nil, nil, nil)

	lower := 50.0
	_, err := svc.Update(nil, "j1", "s1", &dto.UpdateJobRequestRequest{BudgetMax: &lower})
	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeValidationFailed, appErr.Code)
}
