package validator

import (
	"ctchen222/AI-Arcade/internal/bot"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	// Initialize validation
	validate = validator.New(validator.WithRequiredStructEnabled())
	if err := Register(validate); err != nil {
		panic(err)
	}
}

func GetValidator() *validator.Validate {
	return validate
}

// Register adds the arcade's custom tags to v. It is also applied to gin's
// binding validator so request structs can use the same tags.
func Register(v *validator.Validate) error {
	return v.RegisterValidation("difficulty", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if s == "" {
			return true
		}
		_, err := bot.ParseDifficulty(s)
		return err == nil
	})
}
