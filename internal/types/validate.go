package types

import (
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// Validator returns the shared struct validator
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		_ = validate.RegisterValidation("experience_level", func(fl validator.FieldLevel) bool {
			return ExperienceLevel(fl.Field().String()).Index() >= 0
		})
	})
	return validate
}

// ValidateCandidate checks a scoring candidate's struct tags and returns a
// short description of the first failures, or nil when the candidate is valid.
func ValidateCandidate(candidate any) error {
	err := Validator().Struct(candidate)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s failed %s", strings.ToLower(fe.Field()), fe.Tag()))
	}
	return fmt.Errorf("invalid candidate: %s", strings.Join(parts, ", "))
}
