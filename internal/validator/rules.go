package validator

import (
	"log"

	"hrflow_backend/internal/models"
	"hrflow_backend/internal/workflow"

	"github.com/go-playground/validator/v10"
)

// registerCustomRules регистрирует все кастомные функции валидации в
// переданном экземпляре валидатора.
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	// -----------------------------------------------------------------
	// ➡️ Правила, основанные на 'statuses.go'
	// -----------------------------------------------------------------

	mustRegister("is-user-role", validateUserRole)
	mustRegister("is-position-status", validatePositionStatus)
	mustRegister("is-application-status", validateApplicationStatus)

	// -----------------------------------------------------------------
	// ➡️ Решения интервью
	// -----------------------------------------------------------------

	mustRegister("is-manager-decision", validateManagerDecision)
	mustRegister("is-final-decision", validateFinalDecision)

	// согласие с условиями должно быть явным true
	mustRegister("eqtrue", func(fl validator.FieldLevel) bool {
		return fl.Field().Bool()
	})
}

// --- Функции валидации ---

func validateUserRole(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // Не проверяем пустые значения, для этого есть 'required'
	}
	return models.UserRole(value).Valid()
}

func validatePositionStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return models.PositionStatus(value).Valid()
}

func validateApplicationStatus(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return models.ApplicationStatus(value).Valid()
}

func validateManagerDecision(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "", workflow.ManagerDecisionHire, workflow.ManagerDecisionReject:
		return true
	default:
		return false
	}
}

func validateFinalDecision(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "", workflow.FinalDecisionHired, workflow.FinalDecisionNotHired:
		return true
	default:
		return false
	}
}
