package validator

import (
	"log"

	"salonhub_backend/internal/models"

	"github.com/go-playground/validator/v10"
)

// registerCustomRules регистрирует все кастомные функции валидации в
// переданном экземпляре валидатора.
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			// Если правило не удалось зарегистрировать, приложение
			// не должно запускаться.
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	// Правила, основанные на 'statuses.go'
	mustRegister("is-booking-status", validateBookingStatus)
	mustRegister("is-user-role", validateUserRole)
}

func validateBookingStatus(fl validator.FieldLevel) bool {
	return models.BookingStatus(fl.Field().String()).IsValid()
}

func validateUserRole(fl validator.FieldLevel) bool {
	switch models.UserRole(fl.Field().String()) {
	case models.UserRoleClient, models.UserRoleStylist, models.UserRoleAdmin:
		return true
	default:
		return false
	}
}
