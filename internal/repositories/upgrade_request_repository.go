package repositories

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"qyzmet_backend/internal/models"
)

var (
	ErrUpgradeRequestNotFound  = errors.New("upgrade request not found")
	ErrPendingUpgradeExists    = errors.New("pending upgrade request already exists")
	ErrUpgradeAttemptsExceeded = errors.New("upgrade request limit reached")
	ErrUpgradeRequestDecided   = errors.New("upgrade request already decided")
)

type UpgradeRequestRepository interface {
	// CreateWithLimits вставляет заявку под блокировкой строки пользователя:
	// проверки "нет pending" и "меньше 3 за все время" перепроверяются в той
	// же транзакции, что и вставка. Partial unique index по
	// (user_id) WHERE status='pending' страхует на уровне хранилища.
	CreateWithLimits(db *gorm.DB, request *models.UpgradeRequest) error

	FindByID(db *gorm.DB, id string) (*models.UpgradeRequest, error)
	ListByUser(db *gorm.DB, userID string) ([]models.UpgradeRequest, error)
	ListPending(db *gorm.DB) ([]models.UpgradeRequest, error)

	// Decide фиксирует решение по заявке вместе с изменениями пользователя
	// (роль, providerUpgradeStatus, профиль) одной транзакцией. Переход
	// условный по status='pending', при проигрыше гонки возвращает
	// ErrUpgradeRequestDecided.
	Decide(db *gorm.DB, request *models.UpgradeRequest, user *models.User, createProviderProfile bool) error

	MarkViewed(db *gorm.DB, id string) error
}

type UpgradeRequestRepositoryImpl struct{}

func NewUpgradeRequestRepository() UpgradeRequestRepository {
	return &UpgradeRequestRepositoryImpl{}
}

func (r *UpgradeRequestRepositoryImpl) CreateWithLimits(db *gorm.DB, request *models.UpgradeRequest) error {
	return db.Transaction(func(tx *gorm.DB) error {
		// Сериализуем конкурентные заявки одного пользователя
		var user models.User
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&user, "id = ?", request.UserID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		var pending int64
		err = tx.Model(&models.UpgradeRequest{}).
			Where("user_id = ? AND status = ?", request.UserID, models.UpgradeStatusPending).
			Count(&pending).Error
		if err != nil {
			return err
		}
		if pending > 0 {
			return ErrPendingUpgradeExists
		}

		var total int64
		err = tx.Model(&models.UpgradeRequest{}).
			Where("user_id = ?", request.UserID).
			Count(&total).Error
		if err != nil {
			return err
		}
		if total >= models.MaxUpgradeAttempts {
			return ErrUpgradeAttemptsExceeded
		}

		request.Status = models.UpgradeStatusPending
		if err := tx.Create(request).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrPendingUpgradeExists
			}
			return err
		}

		return tx.Model(&models.User{}).
			Where("id = ?", request.UserID).
			Update("provider_upgrade_status", models.UpgradeStatusPending).Error
	})
}

func (r *UpgradeRequestRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.UpgradeRequest, error) {
	var request models.UpgradeRequest
	err := db.First(&request, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUpgradeRequestNotFound
		}
		return nil, err
	}
	return &request, nil
}

func (r *UpgradeRequestRepositoryImpl) ListByUser(db *gorm.DB, userID string) ([]models.UpgradeRequest, error) {
	var requests []models.UpgradeRequest
	err := db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&requests).Error
	return requests, err
}

func (r *UpgradeRequestRepositoryImpl) ListPending(db *gorm.DB) ([]models.UpgradeRequest, error) {
	var requests []models.UpgradeRequest
	err := db.Where("status = ?", models.UpgradeStatusPending).
		Order("created_at").
		Find(&requests).Error
	return requests, err
}

func (r *UpgradeRequestRepositoryImpl) Decide(db *gorm.DB, request *models.UpgradeRequest, user *models.User, createProviderProfile bool) error {
	return db.Transaction(func(tx *gorm.DB) error {
		// Условный переход из pending: второе решение по той же заявке
		// не пройдет, даже если оба админа прочитали ее как pending.
		result := tx.Model(&models.UpgradeRequest{}).
			Where("id = ? AND status = ?", request.ID, models.UpgradeStatusPending).
			Updates(map[string]interface{}{
				"status":            request.Status,
				"admin_explanation": request.AdminExplanation,
				"rejection_comment": request.RejectionComment,
				"viewed_by_user":    request.ViewedByUser,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrUpgradeRequestDecided
		}
		if err := tx.Save(user).Error; err != nil {
			return err
		}
		if createProviderProfile {
			profile := &models.ProviderProfile{UserID: user.ID}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).
				Create(profile).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *UpgradeRequestRepositoryImpl) MarkViewed(db *gorm.DB, id string) error {
	result := db.Model(&models.UpgradeRequest{}).
		Where("id = ?", id).
		Update("viewed_by_user", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUpgradeRequestNotFound
	}
	return nil
}
