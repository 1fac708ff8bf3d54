package sim

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/inference-sim/theory-sim/sim/lognum"
)

var queryValidator = validator.New()

// ValidationErrors lists every field-level problem found in a query.
type ValidationErrors struct {
	Errors []string `json:"errors"`
}

// Error implements the error interface.
func (ve ValidationErrors) Error() string {
	if len(ve.Errors) == 0 {
		return "no validation errors"
	}

	return strings.Join(ve.Errors, "; ")
}

// ValidateStruct validates a struct using its validate tags. It returns nil
// when validation passes and ValidationErrors otherwise.
func ValidateStruct(s any) error {
	if err := queryValidator.Struct(s); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			out := ValidationErrors{}
			for _, e := range ve {
				out.Errors = append(out.Errors, fmt.Sprintf("%s %s", e.Namespace(), e.ActualTag()))
			}
			return out
		}
		return err
	}
	return nil
}

// validateQuery checks struct tags and the numeric constraints tags cannot express.
func validateQuery(q Query) error {
	if err := ValidateStruct(q); err != nil {
		return fmt.Errorf("invalid %s query: %w", q.QueryType(), err)
	}
	var ve ValidationErrors
	check := func(theory Category, rho lognum.LogNum) {
		if !theory.Valid() {
			ve.Errors = append(ve.Errors, fmt.Sprintf("Theory unknown value %d", int(theory)))
		}
		if !rho.Greater(lognum.Zero()) || !rho.IsFinite() {
			ve.Errors = append(ve.Errors, fmt.Sprintf("Rho must be positive and finite, got %s", rho))
		}
	}
	switch q := q.(type) {
	case SingleQuery:
		check(q.Theory, q.Rho)
	case ChainQuery:
		check(q.Theory, q.Rho)
	case StepQuery:
		check(q.Theory, q.Rho)
	}
	if len(ve.Errors) > 0 {
		return fmt.Errorf("invalid %s query: %w", q.QueryType(), ve)
	}
	return nil
}
