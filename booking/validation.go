/*
validation.go - Guest identity field validation

PURPOSE:
  Format checks for guest identity fields. A guest record is only ever
  created or edited through these checks, so every persisted guest holds:
  - A non-empty name and family name
  - A national identifier of exactly 10 digits
  - A phone number of 11 digits starting with "09"

IMPLEMENTATION:
  Uses go-playground/validator with a registered "digits" rule. Violations
  are translated into *ValidationError values with a stable, human-readable
  reason per field; the validator's own messages never leak to callers.

SEE ALSO:
  - repository.go: AddGuest/EditGuest apply these checks
  - errors.go: ValidationError definition
*/
package booking

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// =============================================================================
// GUEST INPUT
// =============================================================================

// GuestInput carries the fields for guest registration. Name, Family and
// Address are trimmed before validation.
type GuestInput struct {
	Name       string `validate:"required"`
	Family     string `validate:"required"`
	NationalID string `validate:"required,len=10,digits"`
	Phone      string `validate:"required,len=11,digits,startswith=09"`
	Address    string `validate:"-"`
}

// GuestEdit carries optional replacement fields for a guest edit. Only
// non-nil fields are applied, each validated independently.
type GuestEdit struct {
	Name       *string
	Family     *string
	NationalID *string
	Phone      *string
	Address    *string
}

// =============================================================================
// VALIDATOR
// =============================================================================

var digitsRe = regexp.MustCompile(`^[0-9]+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Errors from RegisterValidation only occur for empty tag names.
	_ = v.RegisterValidation("digits", func(fl validator.FieldLevel) bool {
		return digitsRe.MatchString(fl.Field().String())
	})
	return v
}

// Stable human-readable reasons per field. The validator's internal
// messages are implementation detail and never surface.
var guestFieldReasons = map[string]string{
	"Name":       "name must not be empty",
	"Family":     "family name must not be empty",
	"NationalID": "national id must be exactly 10 digits",
	"Phone":      "phone must be 11 digits and start with 09",
}

var guestFieldNames = map[string]string{
	"Name":       "name",
	"Family":     "family",
	"NationalID": "national_id",
	"Phone":      "phone",
}

func (in GuestInput) normalized() GuestInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Family = strings.TrimSpace(in.Family)
	in.Address = strings.TrimSpace(in.Address)
	return in
}

// Validate checks all fields and returns the first violation as a
// *ValidationError.
func (in GuestInput) Validate() error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	errs, ok := err.(validator.ValidationErrors)
	if !ok || len(errs) == 0 {
		return &ValidationError{Field: "guest", Reason: err.Error()}
	}
	field := errs[0].StructField()
	return &ValidationError{
		Field:  guestFieldNames[field],
		Reason: guestFieldReasons[field],
	}
}

// validateGuestField validates a single edited field by its struct name.
func validateGuestField(field, value string) error {
	var tag string
	switch field {
	case "Name", "Family":
		tag = "required"
	case "NationalID":
		tag = "required,len=10,digits"
	case "Phone":
		tag = "required,len=11,digits,startswith=09"
	default:
		return nil
	}
	if err := validate.Var(value, tag); err != nil {
		return &ValidationError{
			Field:  guestFieldNames[field],
			Reason: guestFieldReasons[field],
		}
	}
	return nil
}
