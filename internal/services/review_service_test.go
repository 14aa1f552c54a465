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

func completedJob(id, seekerID, providerID string) *models.JobRequest {
	pid := providerID
	return &models.JobRequest{
		BaseModel:          models.BaseModel{ID: id},
		SeekerID:           seekerID,
		Status:             models.JobRequestStatusCompleted,
		AssignedProviderID: &pid,
	}
}

func newReviewService(reviewRepo *fakeReviewRepo, jobRepo *fakeJobRepo, userRepo *fakeUserRepo, notifRepo *fakeNotificationRepo, pub events.Publisher) *ReviewService {
	if notifRepo == nil {
		notifRepo = &fakeNotificationRepo{}
	}
	if pub == nil {
		pub = events.NopPublisher{}
	}
	rating := NewRatingService(userRepo, reviewRepo, jobRepo)
	return NewReviewService(reviewRepo, jobRepo, userRepo, notifRepo, rating, pub)
}

func TestSubmitReview_SeekerReviewsProvider(t *testing.T) {
	seeker := seekerUser("s1")
	provider := &models.User{
		BaseModel: models.BaseModel{ID: "p1"},
		Email:     "p1@example.com",
		Roles:     models.RolesJSON(models.RoleProvider),
	}
	userRepo := newFakeUserRepo(seeker, provider)
	jobRepo := newFakeJobRepo(completedJob("j1", "s1", "p1"))
	reviewRepo := newFakeReviewRepo()
	reviewRepo.aggregate["p1"] = &repositories.RatingAggregate{AverageRating: 5, ReviewCount: 1}
	notifRepo := &fakeNotificationRepo{}
	pub := &fakePublisher{}
	svc := newReviewService(reviewRepo, jobRepo, userRepo, notifRepo, pub)

	resp, err := svc.Submit(context.Background(), nil, &dto.SubmitReviewRequest{
		ReviewerID:   "s1",
		JobRequestID: "j1",
		Rating:       5,
		Comment:      "excellent",
	})
	require.NoError(t, err)

	// адресат вычислен сервером: вторая сторона заявки
	assert.Equal(t, "p1", resp.ReviewedUserID)
	assert.Equal(t, models.ReviewRoleProvider, resp.Role)

	// рейтинг адресата пересчитан из источника
	require.Len(t, userRepo.ratingUpdates, 1)
	assert.Equal(t, "p1", userRepo.ratingUpdates[0].userID)
	assert.Equal(t, 5.0, userRepo.ratingUpdates[0].rating)

	require.Len(t, notifRepo.calls, 1)
	assert.Equal(t, "review_received", notifRepo.calls[0].kind)
	require.Len(t, pub.events, 1)
	assert.Equal(t, events.EventReviewSubmitted, pub.events[0].eventType)
}

func TestSubmitReview_ProviderReviewsSeeker(t *testing.T) {
	userRepo := newFakeUserRepo(seekerUser("s1"), seekerUser("p1"))
	jobRepo := newFakeJobRepo(completedJob("j1", "s1", "p1"))
	svc := newReviewService(newFakeReviewRepo(), jobRepo, userRepo, nil, nil)

	resp, err := svc.Submit(context.Background(), nil, &dto.SubmitReviewRequest{
		ReviewerID:   "p1",
		JobRequestID: "j1",
		Rating:       4,
	})
	require.NoError(t, err)
	assert.Equal(t, "s1", resp.ReviewedUserID)
	assert.Equal(t, models.ReviewRoleSeeker, resp.Role)
}

func TestSubmitReview_JobNotCompleted(t *testing.T) {
	userRepo := newFakeUserRepo(seekerUser("s1"))
	jobRepo := newFakeJobRepo(openJob("j1", "s1"))
	svc := newReviewService(newFakeReviewRepo(), jobRepo, userRepo, nil, nil)

	_, err := svc.Submit(context.Background(), nil, &dto.SubmitReviewRequest{
		ReviewerID:   "s1",
		JobRequestID: "j1",
		Rating:       5,
	})
	assert.ErrorIs(t, err, apperrors.ErrJobNotCompleted)
}

func TestSubmitReview_NotParticipant(t *testing.T) {
	userRepo := newFakeUserRepo(seekerUser("outsider"))
	jobRepo := newFakeJobRepo(completedJob("j1", "s1", "p1"))
	svc := newReviewService(newFakeReviewRepo(), jobRepo, userRepo, nil, nil)

	_, err := svc.Submit(context.Background(), nil, &dto.SubmitReviewRequest{
		ReviewerID:   "outsider",
		JobRequestID: "j1",
		Rating:       5,
	})
	assert.ErrorIs(t, err, apperrors.ErrNotJobParticipant)
}

func TestSubmitReview_DuplicateMapsToConflict(t *testing.T) {
	userRepo := newFakeUserRepo(seekerUser("s1"))
	jobRepo := newFakeJobRepo(completedJob("j1", "s1", "p1"))
	reviewRepo := newFakeReviewRepo()
	reviewRepo.createErr = repositories.ErrDuplicateReview
	svc := newReviewService(reviewRepo, jobRepo, userRepo, nil, nil)

	_, err := svc.Submit(context.Background(), nil, &dto.SubmitReviewRequest{
		ReviewerID:   "s1",
		JobRequestID: "j1",
		Rating:       5,
	})
	assert.ErrorIs(t, err, apperrors.ErrDuplicateReview)

	// рейтинг не трогали
	assert.Empty(t, userRepo.ratingUpdates)
}

func TestSubmitReview_SecondReviewRejected(t *testing.T) {
	userRepo := newFakeUserRepo(seekerUser("s1"), seekerUser("p1"))
	jobRepo := newFakeJobRepo(completedJob("j1", "s1", "p1"))
	reviewRepo := newFakeReviewRepo()
	svc := newReviewService(reviewRepo, jobRepo, userRepo, nil, nil)

	_, err := svc.Submit(context.Background(), nil, &dto.SubmitReviewRequest{
		ReviewerID:   "s1",
		JobRequestID: "j1",
		Rating:       5,
	})
	require.NoError(t, err)

	// повторный отзыв той же пары по той же заявке отсекается до вставки
	_, err = svc.Submit(context.Background(), nil, &dto.SubmitReviewRequest{
		ReviewerID:   "s1",
		JobRequestID: "j1",
		Rating:       1,
	})
	assert.ErrorIs(t, err, apperrors.ErrDuplicateReview)
	assert.Len(t, reviewRepo.reviews, 1)

	// встречный отзыв второй стороны проходит
	_, err = svc.Submit(context.Background(), nil, &dto.SubmitReviewRequest{
		ReviewerID:   "p1",
		JobRequestID: "j1",
		Rating:       4,
	})
	require.NoError(t, err)
}

func TestSubmitReview_BlockedReviewer(t *testing.T) {
	blocked := seekerUser("s1")
	blocked.IsBlocked = true
	userRepo := newFakeUserRepo(blocked)
	svc := newReviewService(newFakeReviewRepo(), newFakeJobRepo(), userRepo, nil, nil)

	_, err := svc.Submit(context.Background(), nil, &dto.SubmitReviewRequest{
		ReviewerID:   "s1",
		JobRequestID: "j1",
		Rating:       3,
	})
	assert.ErrorIs(t, err, apperrors.ErrUserBlocked)
}
