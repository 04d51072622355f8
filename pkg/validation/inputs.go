package validation

import (
	"errors"
	"fmt"
	"math"

	"github.com/iwvelando/capex-viability/pkg/constants"
)

// ErrOutOfRange is returned when a numeric input falls outside its accepted bounds.
var ErrOutOfRange = errors.New("value out of range")

// ValidateRange checks min <= value <= max. NaN and infinities are rejected.
func ValidateRange(name string, value, min, max float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) || value < min || value > max {
		return fmt.Errorf("%w: %s must be between %g and %g, got %g", ErrOutOfRange, name, min, max, value)
	}
	return nil
}

// ValidateHorizon checks the dilution horizon bounds and step.
func ValidateHorizon(months int) error {
	if months < constants.MinHorizonMonths || months > constants.MaxHorizonMonths {
		return fmt.Errorf("%w: horizonMonths must be between %d and %d, got %d",
			ErrOutOfRange, constants.MinHorizonMonths, constants.MaxHorizonMonths, months)
	}
	if months%constants.HorizonStepMonths != 0 {
		return fmt.Errorf("%w: horizonMonths must be a multiple of %d, got %d",
			ErrOutOfRange, constants.HorizonStepMonths, months)
	}
	return nil
}

// ValidateHubCount checks a per-category hub count.
func ValidateHubCount(name string, count int) error {
	if count < 0 || count > constants.MaxHubsPerType {
		return fmt.Errorf("%w: %s must be between 0 and %d, got %d", ErrOutOfRange, name, constants.MaxHubsPerType, count)
	}
	return nil
}

// Validator accumulates range errors so a whole input can be reported at once.
type Validator struct {
	errs []error
}

// Range records a ValidateRange failure.
func (v *Validator) Range(name string, value, min, max float64) {
	if err := ValidateRange(name, value, min, max); err != nil {
		v.errs = append(v.errs, err)
	}
}

// Check records err when it is not nil.
func (v *Validator) Check(err error) {
	if err != nil {
		v.errs = append(v.errs, err)
	}
}

// Err joins every recorded failure, or returns nil.
func (v *Validator) Err() error {
	return errors.Join(v.errs...)
}
