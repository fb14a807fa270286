package validator

import (
	"github.com/go-playground/validator/v10"

	"github.com/johnquangdev/magicscuts/internal/domain/entities"
)

// CustomValidator implements echo.Validator using go-playground/validator
type CustomValidator struct {
	v *validator.Validate
}

// New creates a new CustomValidator instance with the "duration_bucket" tag
// registered
func New() *CustomValidator {
	v := validator.New()
	_ = v.RegisterValidation("duration_bucket", func(fl validator.FieldLevel) bool {
		return entities.DurationBucket(fl.Field().String()).IsValid()
	})
	return &CustomValidator{v: v}
}

// Validate performs struct validation
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.v.Struct(i)
}
