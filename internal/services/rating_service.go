package services

import (
	"qyzmet_backend/internal/models"
	"qyzmet_backend/internal/repositories"
	"qyzmet_backend/internal/services/dto"

	"gorm.io/gorm"
)

// Пороги статуса "top rated". Правило строгое: rating >= 4.8,
// отзывов > 10, завершенных заявок > 30 и верифицированный провайдер.
const (
	topRatedMinRating        = 4.8
	topRatedMinReviews       = 10
	topRatedMinCompletedJobs = 30
)

type RatingService struct {
	userRepo   repositories.UserRepository
	reviewRepo repositories.ReviewRepository
	jobRepo    repositories.JobRequestRepository
}

func NewRatingService(
	userRepo repositories.UserRepository,
	reviewRepo repositories.ReviewRepository,
	jobRepo repositories.JobRequestRepository,
) *RatingService {
	return &RatingService{
		userRepo:   userRepo,
		reviewRepo: reviewRepo,
		jobRepo:    jobRepo,
	}
}

// IsTopRated - чистое правило без обращения к БД. Вызывается только
// с данными, пересчитанными из источника истины.
func IsTopRated(rating float64, reviewCount, completedJobs int64, isProvider, providerVerified bool) bool {
	if !isProvider || !providerVerified {
		return false
	}
	return rating >= topRatedMinRating &&
		reviewCount > topRatedMinReviews &&
		completedJobs > topRatedMinCompletedJobs
}

// Recompute пересчитывает агрегаты рейтинга пользователя из таблицы
// reviews. Никогда не инкрементирует: каждый вызов читает источник
// заново, поэтому повторный пересчет всегда сходится к тому же результату.
func (s *RatingService) Recompute(db *gorm.DB, userID string) (*dto.RatingResponse, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return nil, toAppError(err)
	}

	agg, err := s.reviewRepo.AggregateForUser(db, userID)
	if err != nil {
		return nil, toAppError(err)
	}

	topRated := false
	if user.HasRole(models.RoleProvider) {
		completed, err := s.jobRepo.CountCompletedByProvider(db, userID)
		if err != nil {
			return nil, toAppError(err)
		}
		verified := user.ProviderProfile != nil && user.ProviderProfile.IsVerified
		topRated = IsTopRated(agg.AverageRating, agg.ReviewCount, completed, true, verified)
	}

	if err := s.userRepo.UpdateRatingAggregates(db, userID, agg.AverageRating, agg.ReviewCount, topRated); err != nil {
		return nil, toAppError(err)
	}

	return &dto.RatingResponse{
		UserID:      userID,
		Rating:      agg.AverageRating,
		ReviewCount: int(agg.ReviewCount),
		IsTopRated:  topRated,
	}, nil
}

// GetRating отдает сохраненные агрегаты без пересчета
func (s *RatingService) GetRating(db *gorm.DB, userID string) (*dto.RatingResponse, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return nil, toAppError(err)
	}
	return &dto.RatingResponse{
		UserID:      user.ID,
		Rating:      user.Rating,
		ReviewCount: user.ReviewCount,
		IsTopRated:  user.IsTopRated,
	}, nil
}
