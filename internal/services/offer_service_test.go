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

func newOfferService(offerRepo *fakeOfferRepo, jobRepo *fakeJobRepo, userRepo *fakeUserRepo, notifRepo *fakeNotificationRepo, pub events.Publisher) *OfferService {
	if notifRepo == nil {
		notifRepo = &fakeNotificationRepo{}
	}
	if pub == nil {
		pub = events.NopPublisher{}
	}
	return NewOfferService(offerRepo, jobRepo, userRepo, notifRepo, pub)
}

func providerUser(id string) *models.User {
	return &models.User{
		BaseModel: models.BaseModel{ID: id},
		Email:     id + "@example.com",
		Roles:     models.RolesJSON(models.RoleProvider),
	}
}

func pendingOffer(id, jobID, providerID string) *models.Offer {
	return &models.Offer{
		BaseModel:    models.BaseModel{ID: id},
		JobRequestID: jobID,
		ProviderID:   providerID,
		Status:       models.OfferStatusPending,
	}
}

func TestSubmitOffer(t *testing.T) {
	userRepo := newFakeUserRepo(providerUser("p1"))
	jobRepo := newFakeJobRepo(openJob("j1", "s1"))
	offerRepo := newFakeOfferRepo()
	notifRepo := &fakeNotificationRepo{}
	pub := &fakePublisher{}
	svc := newOfferService(offerRepo, jobRepo, userRepo, notifRepo, pub)

	resp, err := svc.Submit(context.Background(), nil, &dto.SubmitOfferRequest{
		JobRequestID: "j1",
		ProviderID:   "p1",
		Budget:       1500,
		Message:      "can start tomorrow",
	})
	require.NoError(t, err)
	assert.Equal(t, models.OfferStatusPending, resp.Status)
	require.Len(t, offerRepo.created, 1)

	// владелец заявки уведомлен, событие опубликовано
	require.Len(t, notifRepo.calls, 1)
	assert.Equal(t, "offer_received", notifRepo.calls[0].kind)
	assert.Equal(t, "s1", notifRepo.calls[0].userID)
	require.Len(t, pub.events, 1)
	assert.Equal(t, events.EventOfferReceived, pub.events[0].eventType)
}

func TestSubmitOffer_OwnJob(t *testing.T) {
	owner := providerUser("s1")
	userRepo := newFakeUserRepo(owner)
	jobRepo := newFakeJobRepo(openJob("j1", "s1"))
	svc := newOfferService(newFakeOfferRepo(), jobRepo, userRepo, nil, nil)

	_, err := svc.Submit(context.Background(), nil, &dto.SubmitOfferRequest{
		JobRequestID: "j1",
		ProviderID:   "s1",
		Budget:       100,
	})
	assert.ErrorIs(t, err, apperrors.ErrOwnJobOffer)
}

func TestSubmitOffer_JobNotOpen(t *testing.T) {
	userRepo := newFakeUserRepo(providerUser("p1"))
	job := openJob("j1", "s1")
	job.Status = models.JobRequestStatusAssigned
	svc := newOfferService(newFakeOfferRepo(), newFakeJobRepo(job), userRepo, nil, nil)

	_, err := svc.Submit(context.Background(), nil, &dto.SubmitOfferRequest{
		JobRequestID: "j1",
		ProviderID:   "p1",
		Budget:       100,
	})
	assert.ErrorIs(t, err, apperrors.ErrJobNotOpen)
}

func TestSubmitOffer_DuplicateMapsToConflict(t *testing.T) {
	userRepo := newFakeUserRepo(providerUser("p1"))
	offerRepo := newFakeOfferRepo()
	offerRepo.createErr = repositories.ErrDuplicateOffer
	svc := newOfferService(offerRepo, newFakeJobRepo(openJob("j1", "s1")), userRepo, nil, nil)

	_, err := svc.Submit(context.Background(), nil, &dto.SubmitOfferRequest{
		JobRequestID: "j1",
		ProviderID:   "p1",
		Budget:       100,
	})
	assert.ErrorIs(t, err, apperrors.ErrDuplicateOffer)
}

func TestListOffersForJob(t *testing.T) {
	jobRepo := newFakeJobRepo(openJob("j1", "s1"))
	o3 := pendingOffer("o3", "j1", "p3")
	o3.Status = models.OfferStatusRejected
	offerRepo := newFakeOfferRepo(
		pendingOffer("o1", "j1", "p1"),
		pendingOffer("o2", "j1", "p2"),
		o3,
		pendingOffer("other", "j2", "p1"),
	)
	svc := newOfferService(offerRepo, jobRepo, newFakeUserRepo(), nil, nil)

	resp, err := svc.ListForJob(nil, "j1", "s1")
	require.NoError(t, err)
	assert.Equal(t, 3, resp.Total)
	assert.Len(t, resp.Offers, 3)

	// счетчик считает только ожидающие решения офферы этой заявки
	assert.Equal(t, int64(2), resp.PendingCount)
}

func TestListOffersForJob_OwnerOnly(t *testing.T) {
	jobRepo := newFakeJobRepo(openJob("j1", "s1"))
	offerRepo := newFakeOfferRepo(pendingOffer("o1", "j1", "p1"))
	svc := newOfferService(offerRepo, jobRepo, newFakeUserRepo(), nil, nil)

	_, err := svc.ListForJob(nil, "j1", "p1")
	assert.ErrorIs(t, err, apperrors.ErrNotJobOwner)
}
