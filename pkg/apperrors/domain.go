package apperrors

import (
	"net/http"
)

/*
Фабрики и предопределенные переменные для доменных ошибок маркетплейса.
*/

// =========================================================================
// Фабричные функции (оборачивают ошибки репозиториев)
// =========================================================================

// ErrNotFound - фабрика для ошибки "не найдено" (404)
func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

// ErrAlreadyExists - фабрика для ошибки "уже существует" (409)
func ErrAlreadyExists(err error) *AppError {
	return Wrap(err, CodeAlreadyExists, "resource", "Resource already exists", http.StatusConflict)
}

// ErrConflict - общая фабрика для конфликтов (409)
func ErrConflict(err error, domain, message string) *AppError {
	return Wrap(err, CodeConflict, domain, message, http.StatusConflict)
}

// ErrInvalidOperation - фабрика для невалидных операций (400)
func ErrInvalidOperation(domain, message string) *AppError {
	return New(CodeInvalidOperation, domain, message, http.StatusBadRequest)
}

// ErrInvalidStatus - фабрика для невалидных статусов переходов
func ErrInvalidStatus(domain, message string) *AppError {
	return New(CodeInvalidStatus, domain, message, http.StatusConflict)
}

// =========================================================================
// Предопределенные переменные
// =========================================================================

var ErrInsufficientPermissions = New(
	CodeForbidden,
	"auth",
	"Insufficient permissions",
	http.StatusForbidden,
)

var ErrCannotModifySelf = New(
	CodeForbidden,
	"business_logic",
	"Operation on self is not allowed",
	http.StatusForbidden,
)

// --- Auth & User status ---

var ErrInvalidCredentials = New(
	CodeInvalidCredentials,
	"auth",
	"Invalid email or password",
	http.StatusUnauthorized,
)

var ErrEmailAlreadyExists = New(
	CodeAlreadyExists,
	"auth",
	"Email already in use",
	http.StatusConflict,
)

var ErrUserBlocked = New(
	CodeForbidden,
	"auth",
	"Your account has been blocked",
	http.StatusForbidden,
)

var ErrWeakPassword = New(
	CodeValidationFailed,
	"validation",
	"Password is too weak. Minimum 8 characters required.",
	http.StatusBadRequest,
)

// --- Job requests ---

var ErrJobNotOpen = New(
	CodeConflict,
	"job_request",
	"Job request is no longer open",
	http.StatusConflict,
)

var ErrJobNotAssigned = New(
	CodeConflict,
	"job_request",
	"Job request is not in assigned state",
	http.StatusConflict,
)

var ErrNotJobOwner = New(
	CodeForbidden,
	"job_request",
	"Only the job request owner can perform this operation",
	http.StatusForbidden,
)

var ErrNotAssignedProvider = New(
	CodeForbidden,
	"job_request",
	"Only the assigned provider can perform this operation",
	http.StatusForbidden,
)

var ErrInactiveCategory = New(
	CodeValidationFailed,
	"job_request",
	"Category is unknown or inactive",
	http.StatusBadRequest,
)

// --- Offers ---

var ErrOfferNotPending = New(
	CodeConflict,
	"offer",
	"Offer is no longer pending",
	http.StatusConflict,
)

var ErrOwnJobOffer = New(
	CodeInvalidOperation,
	"offer",
	"Cannot submit an offer on your own job request",
	http.StatusBadRequest,
)

var ErrDuplicateOffer = New(
	CodeConflict,
	"offer",
	"An offer for this job request already exists",
	http.StatusConflict,
)

var ErrOfferJobMismatch = New(
	CodeValidationFailed,
	"offer",
	"Offer does not belong to this job request",
	http.StatusBadRequest,
)

// --- Reviews ---

var ErrJobNotCompleted = New(
	CodeConflict,
	"review",
	"Job request is not completed yet",
	http.StatusConflict,
)

var ErrNotJobParticipant = New(
	CodeForbidden,
	"review",
	"Only job participants can perform this operation",
	http.StatusForbidden,
)

var ErrDuplicateReview = New(
	CodeConflict,
	"review",
	"Review for this job participant already exists",
	http.StatusConflict,
)

// --- Complaints & moderation ---

var ErrSelfReport = New(
	CodeInvalidOperation,
	"complaint",
	"Cannot file a complaint against yourself",
	http.StatusBadRequest,
)

var ErrNotCounterParty = New(
	CodeValidationFailed,
	"complaint",
	"Reported user is not the counter-party on this job request",
	http.StatusBadRequest,
)

var ErrDuplicateComplaint = New(
	CodeConflict,
	"complaint",
	"An active complaint for this job request already exists",
	http.StatusConflict,
)

var ErrComplaintClosed = New(
	CodeInvalidStatus,
	"complaint",
	"Complaint is already resolved or dismissed",
	http.StatusConflict,
)

var ErrComplaintModified = New(
	CodeConflict,
	"complaint",
	"Complaint was changed by another moderator",
	http.StatusConflict,
)

// --- Upgrade requests ---

var ErrPendingUpgradeExists = New(
	CodeConflict,
	"upgrade",
	"A pending upgrade request already exists",
	http.StatusConflict,
)

var ErrUpgradeAttemptsExceeded = New(
	CodeLimitExceeded,
	"upgrade",
	"Maximum number of upgrade requests reached",
	http.StatusConflict,
)

var ErrUpgradeAlreadyDecided = New(
	CodeConflict,
	"upgrade",
	"Upgrade request has already been processed",
	http.StatusConflict,
)
