package services

import (
	"qyzmet_backend/internal/repositories"
	"qyzmet_backend/internal/services/dto"

	"gorm.io/gorm"
)

type UserService struct {
	userRepo repositories.UserRepository
}

func NewUserService(userRepo repositories.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) Get(db *gorm.DB, userID string) (*dto.UserDTO, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return nil, toAppError(err)
	}
	return userToDTO(user), nil
}

func (s *UserService) UpdateProfile(db *gorm.DB, userID string, req *dto.UpdateProfileRequest) (*dto.UserDTO, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return nil, toAppError(err)
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if user.SeekerProfile != nil {
		if req.Name != nil {
			user.SeekerProfile.DisplayName = *req.Name
		}
		if req.City != nil {
			user.SeekerProfile.City = *req.City
		}
	}
	if user.ProviderProfile != nil {
		if req.City != nil {
			user.ProviderProfile.City = *req.City
		}
		if req.Bio != nil {
			user.ProviderProfile.Bio = *req.Bio
		}
	}

	if err := s.userRepo.Save(db, user); err != nil {
		return nil, toAppError(err)
	}
	return userToDTO(user), nil
}

// SetBlocked - ручная блокировка/разблокировка админом, вне каскада
// модерации
func (s *UserService) SetBlocked(db *gorm.DB, userID string, blocked bool) error {
	if _, err := s.userRepo.FindByID(db, userID); err != nil {
		return toAppError(err)
	}
	return toAppError(s.userRepo.SetBlocked(db, userID, blocked))
}

// HasRole проверяет роль по свежим данным из БД, не по токену
func (s *UserService) HasRole(db *gorm.DB, userID, role string) (bool, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return false, toAppError(err)
	}
	return user.HasRole(role), nil
}
