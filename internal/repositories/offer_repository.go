package repositories

import (
	"errors"

	"gorm.io/gorm"

	"qyzmet_backend/internal/models"
)

var (
	ErrOfferNotFound  = errors.New("offer not found")
	ErrDuplicateOffer = errors.New("offer for this job request already exists")
)

// OfferRepository владеет записями офферов. Мутация rejection принадлежит
// исключительно assign-транзакции в JobRequestRepository - здесь ее нет,
// чтобы два писателя не расходились в итоговом состоянии леджера.
type OfferRepository interface {
	Create(db *gorm.DB, offer *models.Offer) error
	FindByID(db *gorm.DB, id string) (*models.Offer, error)
	ListByJobRequest(db *gorm.DB, jobRequestID string) ([]models.Offer, error)
	ListByProvider(db *gorm.DB, providerID string) ([]models.Offer, error)
	CountByStatus(db *gorm.DB, jobRequestID string, status models.OfferStatus) (int64, error)
}

type OfferRepositoryImpl struct{}

func NewOfferRepository() OfferRepository {
	return &OfferRepositoryImpl{}
}

func (r *OfferRepositoryImpl) Create(db *gorm.DB, offer *models.Offer) error {
	err := db.Create(offer).Error
	if err != nil {
		// Уникальный индекс (job_request_id, provider_id): один оффер
		// на исполнителя в рамках заявки.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateOffer
		}
		return err
	}
	return nil
}

func (r *OfferRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Offer, error) {
	var offer models.Offer
	err := db.First(&offer, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOfferNotFound
		}
		return nil, err
	}
	return &offer, nil
}

func (r *OfferRepositoryImpl) ListByJobRequest(db *gorm.DB, jobRequestID string) ([]models.Offer, error) {
	var offers []models.Offer
	err := db.Where("job_request_id = ?", jobRequestID).
		Order("created_at").
		Find(&offers).Error
	return offers, err
}

func (r *OfferRepositoryImpl) ListByProvider(db *gorm.DB, providerID string) ([]models.Offer, error) {
	var offers []models.Offer
	err := db.Where("provider_id = ?", providerID).
		Order("created_at DESC").
		Find(&offers).Error
	return offers, err
}

func (r *OfferRepositoryImpl) CountByStatus(db *gorm.DB, jobRequestID string, status models.OfferStatus) (int64, error) {
	var count int64
	err := db.Model(&models.Offer{}).
		Where("job_request_id = ? AND status = ?", jobRequestID, status).
		Count(&count).Error
	return count, err
}
