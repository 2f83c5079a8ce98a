package validation

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"

	"jobboard/internal/auth"
	"jobboard/pkg/utils"
)

// PhonePattern accepts an optional leading + followed by 6 to 15 digits
var PhonePattern = regexp.MustCompile(`^\+?[0-9]{6,15}$`)

// ValidateUserType accepts only roles open to self registration
func ValidateUserType(fl validator.FieldLevel) bool {
	role, err := auth.ParseRole(fl.Field().String())
	return err == nil && role.Registrable()
}

func ValidatePhone(fl validator.FieldLevel) bool {
	return PhonePattern.MatchString(fl.Field().String())
}

// RegisterAccountValidators registers the custom validators used by account and OTP forms
func RegisterAccountValidators(v *validator.Validate) {
	v.RegisterValidation("user_type", ValidateUserType)
	v.RegisterValidation("phone", ValidatePhone)
}

// New returns a validator with every custom rule registered
func New() *validator.Validate {
	v := validator.New()
	RegisterAccountValidators(v)
	return v
}

// Check validates s and converts failures into a validation CustomError with per-field messages
func Check(v *validator.Validate, s interface{}) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return utils.NewValidationError(err.Error())
	}

	ce := utils.NewValidationError("one or more fields are invalid")
	for _, fe := range verrs {
		ce.WithField(fe.Field(), message(fe))
	}
	return ce
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", fe.Field())
	case "email":
		return fmt.Sprintf("The %s field is not a valid e-mail address.", fe.Field())
	case "min":
		return fmt.Sprintf("The %s must be at least %s characters long.", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("The %s must be at most %s characters long.", fe.Field(), fe.Param())
	case "eqfield":
		return "The password and confirmation password do not match."
	case "user_type":
		return "Please select Employer or JobSeeker."
	case "phone":
		return "The phone number is not valid."
	}
	return fmt.Sprintf("The %s field is invalid.", fe.Field())
}
