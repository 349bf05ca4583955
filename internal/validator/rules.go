package validator

import (
	"log"

	"github.com/go-playground/validator/v10"

	"github.com/RanchesW/KazRPG/internal/models"
)

// registerCustomRules регистрирует доменные правила, основанные на
// закрытых перечислениях из models/statuses.go
func registerCustomRules(v *validator.Validate) {
	mustRegister := func(tag string, fn validator.Func) {
		if err := v.RegisterValidation(tag, fn); err != nil {
			log.Fatalf("failed to register custom validation tag '%s': %v", tag, err)
		}
	}

	mustRegister("is-game-system", validateGameSystem)
	mustRegister("is-difficulty", validateDifficulty)
	mustRegister("is-language", validateLanguage)
}

func validateGameSystem(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true // пустое значение закрывает 'required'
	}
	return models.IsValidGameSystem(models.GameSystem(value))
}

func validateDifficulty(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return models.IsValidDifficulty(models.Difficulty(value))
}

func validateLanguage(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	return models.IsValidLanguage(models.Language(value))
}
