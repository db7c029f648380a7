package validator

import (
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/swasthya/medrec-api/internal/model"
)

// Register installs the custom validators on gin's binding engine.
func Register() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	if err := v.RegisterValidation("role", validRole); err != nil {
		return err
	}
	return v.RegisterValidation("dateonly", validDateOnly)
}

// validRole checks membership in the closed role set.
func validRole(fl validator.FieldLevel) bool {
	_, err := model.ParseRole(fl.Field().String())
	return err == nil
}

// validDateOnly accepts YYYY-MM-DD strings; used for the date fields the
// signup bodies carry as strings before coercion.
func validDateOnly(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return true
	}
	_, err := time.Parse(time.DateOnly, s)
	return err == nil
}
