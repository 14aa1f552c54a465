package services

import (
	"errors"

	"qyzmet_backend/internal/repositories"
	"qyzmet_backend/pkg/apperrors"
)

// toAppError переводит сентинел-ошибки репозиториев в apperrors с
// корректным HTTP-кодом. Неизвестное уходит как internal.
func toAppError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrUserNotFound):
		return apperrors.NewNotFoundError("user", "User not found")
	case errors.Is(err, repositories.ErrCategoryNotFound):
		return apperrors.NewNotFoundError("category", "Category not found")
	case errors.Is(err, repositories.ErrJobRequestNotFound):
		return apperrors.NewNotFoundError("job_request", "Job request not found")
	case errors.Is(err, repositories.ErrOfferNotFound):
		return apperrors.NewNotFoundError("offer", "Offer not found")
	case errors.Is(err, repositories.ErrReviewNotFound):
		return apperrors.NewNotFoundError("review", "Review not found")
	case errors.Is(err, repositories.ErrComplaintNotFound):
		return apperrors.NewNotFoundError("complaint", "Complaint not found")
	case errors.Is(err, repositories.ErrUpgradeRequestNotFound):
		return apperrors.NewNotFoundError("upgrade_request", "Upgrade request not found")
	case errors.Is(err, repositories.ErrNotificationNotFound):
		return apperrors.NewNotFoundError("notification", "Notification not found")
	case errors.Is(err, repositories.ErrJobNotOpen):
		return apperrors.ErrJobNotOpen
	case errors.Is(err, repositories.ErrJobNotAssigned):
		return apperrors.ErrJobNotAssigned
	case errors.Is(err, repositories.ErrOfferNotPending):
		return apperrors.ErrOfferNotPending
	case errors.Is(err, repositories.ErrDuplicateOffer):
		return apperrors.ErrDuplicateOffer
	case errors.Is(err, repositories.ErrDuplicateReview):
		return apperrors.ErrDuplicateReview
	case errors.Is(err, repositories.ErrComplaintModified):
		return apperrors.ErrComplaintModified
	case errors.Is(err, repositories.ErrUpgradeRequestDecided):
		return apperrors.ErrUpgradeAlreadyDecided
	case errors.Is(err, repositories.ErrPendingUpgradeExists):
		return apperrors.ErrPendingUpgradeExists
	case errors.Is(err, repositories.ErrUpgradeAttemptsExceeded):
		return apperrors.ErrUpgradeAttemptsExceeded
	}

	var appErr *apperrors.AppError
	if apperrors.As(err, &appErr) {
		return appErr
	}
	return apperrors.InternalError(err)
}
