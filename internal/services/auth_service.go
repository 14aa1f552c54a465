package services

import (
	"errors"

	"qyzmet_backend/internal/auth"
	"qyzmet_backend/internal/models"
	"qyzmet_backend/internal/repositories"
	"qyzmet_backend/internal/services/dto"

	"gorm.io/gorm"
	"qyzmet_backend/pkg/apperrors"
)

type AuthService struct {
	userRepo repositories.UserRepository
}

func NewAuthService(userRepo repositories.UserRepository) *AuthService {
	return &AuthService{userRepo: userRepo}
}

// Register создает аккаунт. Новый пользователь всегда стартует с ролью
// seeker; provider добавляется только через процедуру апгрейда.
func (s *AuthService) Register(db *gorm.DB, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	if err := auth.ValidatePassword(req.Password); err != nil {
		return nil, apperrors.ErrWeakPassword
	}

	_, err := s.userRepo.FindByEmail(db, req.Email)
	if err == nil {
		return nil, apperrors.ErrEmailAlreadyExists
	}
	if !errors.Is(err, repositories.ErrUserNotFound) {
		return nil, toAppError(err)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	user := &models.User{
		Email:        req.Email,
		PasswordHash: hash,
		Name:         req.Name,
		Roles:        models.RolesJSON(models.RoleSeeker),
		Status:       models.UserStatusActive,
		SeekerProfile: &models.SeekerProfile{
			DisplayName: req.Name,
			City:        req.City,
		},
	}
	if err := s.userRepo.Create(db, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrEmailAlreadyExists
		}
		return nil, toAppError(err)
	}

	token, err := auth.GenerateToken(user.ID, user.RoleList())
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.AuthResponse{Token: token, User: userToDTO(user)}, nil
}

func (s *AuthService) Login(db *gorm.DB, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(db, req.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, toAppError(err)
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}
	if user.IsBlocked {
		return nil, apperrors.ErrUserBlocked
	}

	token, err := auth.GenerateToken(user.ID, user.RoleList())
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.AuthResponse{Token: token, User: userToDTO(user)}, nil
}

func userToDTO(user *models.User) *dto.UserDTO {
	return &dto.UserDTO{
		ID:                    user.ID,
		Email:                 user.Email,
		Name:                  user.Name,
		Roles:                 user.RoleList(),
		Status:                string(user.Status),
		IsBlocked:             user.IsBlocked,
		ProviderUpgradeStatus: string(user.ProviderUpgradeStatus),
		Rating:                user.Rating,
		ReviewCount:           user.ReviewCount,
		IsTopRated:            user.IsTopRated,
		CreatedAt:             user.CreatedAt,
	}
}
