package repositories

import (
	"errors"

	"gorm.io/gorm"

	"qyzmet_backend/internal/models"
)

var (
	ErrReviewNotFound  = errors.New("review not found")
	ErrDuplicateReview = errors.New("review for this pair and job already exists")
)

// RatingAggregate - свежий агрегат по таблице reviews.
// Источник истины для производных полей пользователя.
type RatingAggregate struct {
	AverageRating float64
	ReviewCount   int64
}

type ReviewRepository interface {
	Create(db *gorm.DB, review *models.Review) error
	FindByID(db *gorm.DB, id string) (*models.Review, error)
	FindByPairAndJob(db *gorm.DB, reviewerID, reviewedUserID, jobRequestID string) (*models.Review, error)
	ListForUser(db *gorm.DB, reviewedUserID string, page, pageSize int) ([]models.Review, int64, error)
	ListByJobRequest(db *gorm.DB, jobRequestID string) ([]models.Review, error)

	// AggregateForUser всегда пересчитывает из источника; никаких
	// инкрементальных счетчиков.
	AggregateForUser(db *gorm.DB, reviewedUserID string) (*RatingAggregate, error)
}

type ReviewRepositoryImpl struct{}

func NewReviewRepository() ReviewRepository {
	return &ReviewRepositoryImpl{}
}

func (r *ReviewRepositoryImpl) Create(db *gorm.DB, review *models.Review) error {
	err := db.Create(review).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateReview
		}
		return err
	}
	return nil
}

func (r *ReviewRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Review, error) {
	var review models.Review
	err := db.First(&review, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return &review, nil
}

func (r *ReviewRepositoryImpl) FindByPairAndJob(db *gorm.DB, reviewerID, reviewedUserID, jobRequestID string) (*models.Review, error) {
	var review models.Review
	err := db.Where("reviewer_id = ? AND reviewed_user_id = ? AND job_request_id = ?",
		reviewerID, reviewedUserID, jobRequestID).
		First(&review).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, err
	}
	return &review, nil
}

func (r *ReviewRepositoryImpl) ListForUser(db *gorm.DB, reviewedUserID string, page, pageSize int) ([]models.Review, int64, error) {
	query := db.Model(&models.Review{}).Where("reviewed_user_id = ?", reviewedUserID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	var reviews []models.Review
	err := query.Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&reviews).Error
	return reviews, total, err
}

func (r *ReviewRepositoryImpl) ListByJobRequest(db *gorm.DB, jobRequestID string) ([]models.Review, error) {
	var reviews []models.Review
	err := db.Where("job_request_id = ?", jobRequestID).
		Order("created_at").
		Find(&reviews).Error
	return reviews, err
}

func (r *ReviewRepositoryImpl) AggregateForUser(db *gorm.DB, reviewedUserID string) (*RatingAggregate, error) {
	var agg RatingAggregate
	err := db.Model(&models.Review{}).
		Where("reviewed_user_id = ?", reviewedUserID).
		Select("COALESCE(AVG(rating), 0) as average_rating, COUNT(*) as review_count").
		Scan(&agg).Error
	if err != nil {
		return nil, err
	}
	return &agg, nil
}
