package validator

import (
	"log"

	"github.com/go-playground/validator/v10"

	"qyzmet_backend/internal/models"
)

// registerCustomRules регистрирует все кастомные функции валидации в
// переданном экземпляре валидатора.
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			// Ошибка регистрации правила - критическая, приложение
			// не должно запускаться.
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	mustRegister("is-problem-type", validateProblemType)
	mustRegister("is-admin-action", validateAdminAction)
	mustRegister("is-complaint-status", validateComplaintStatus)
	mustRegister("is-job-status", validateJobStatus)
}

// --- Функции валидации ---

func validateProblemType(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // пустые значения проверяет 'required'
	}
	return models.ValidProblemType(models.ProblemType(value))
}

func validateAdminAction(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return models.ValidAdminAction(models.AdminActionType(value))
}

func validateComplaintStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	switch models.ComplaintStatus(value) {
	case models.ComplaintStatusPending, models.ComplaintStatusInvestigating,
		models.ComplaintStatusResolved, models.ComplaintStatusDismissed:
		return true
	}
	return false
}

func validateJobStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	switch models.JobRequestStatus(value) {
	case models.JobRequestStatusOpen, models.JobRequestStatusAssigned,
		models.JobRequestStatusCompleted, models.JobRequestStatusCancelled:
		return true
	}
	return false
}
