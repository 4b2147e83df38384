package ballistics

import (
	"fmt"
	"math"
	"strings"
	"sync"

	"ballistix/internal/errors"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		_ = validate.RegisterValidation("finite", validateFinite)
	})
	return validate
}

// validateFinite rejects NaN and ±Inf, which a bare gt=0 lets through for +Inf
func validateFinite(fl validator.FieldLevel) bool {
	f := fl.Field().Float()
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// ValidateParams checks a projectile parameter set
func ValidateParams(params ProjectileParams) error {
	if err := validatorInstance().Struct(params); err != nil {
		return errors.InvalidInput("projectile parameters: " + describeViolations(err))
	}
	return nil
}

// ValidateInputs rejects any shot with a non-positive, non-finite or out-of-range velocity,
// diameter or weight. The ranges keep every derived energy finite. It must run before
// ComputeEnergy, which performs no checks of its own.
func ValidateInputs(inputs []ShotInput) error {
	v := validatorInstance()
	for i, in := range inputs {
		if err := v.Struct(in); err != nil {
			return errors.InvalidInput(fmt.Sprintf("shot %d: %s", i+1, describeViolations(err)))
		}
	}
	return nil
}

func describeViolations(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "gt":
			parts = append(parts, fmt.Sprintf("%s must be positive", fe.Field()))
		case "gte":
			parts = append(parts, fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param()))
		case "lte":
			parts = append(parts, fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param()))
		case "finite":
			parts = append(parts, fmt.Sprintf("%s must be a finite number", fe.Field()))
		default:
			parts = append(parts, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
		}
	}
	return strings.Join(parts, "; ")
}
