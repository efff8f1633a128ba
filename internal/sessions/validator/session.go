package validator

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"slices"
	"strings"

	"courtbook/pkg/logger"
	"courtbook/pkg/model"

	"github.com/go-playground/validator/v10"
)

var (
	clockRegex = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

// First returns the earliest failure in field declaration order.
func (v ValidationErrors) First() (ValidationError, bool) {
	if len(v) == 0 {
		return ValidationError{}, false
	}
	return v[0], true
}

type SessionValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewSessionValidator(log *logger.Logger) *SessionValidator {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	if err := v.RegisterValidation("hhmm", validateClock); err != nil {
		log.Fatal("Failed to register 'hhmm' validator",
			"error", err,
		)
	}
	if err := v.RegisterValidation("venue", validateVenue); err != nil {
		log.Fatal("Failed to register 'venue' validator",
			"error", err,
		)
	}

	log.Debug("Session validator initialized")

	return &SessionValidator{
		validate: v,
		logger:   log,
	}
}

func validateClock(fl validator.FieldLevel) bool {
	return clockRegex.MatchString(fl.Field().String())
}

func validateVenue(fl validator.FieldLevel) bool {
	return slices.Contains(model.Venues, fl.Field().String())
}

// ValidateSession checks an organizer's session form. Slot times are not
// compared against each other; wall-clock strings carry no date.
func (v *SessionValidator) ValidateSession(in model.SessionInput) error {
	return v.run(&in)
}

func (v *SessionValidator) ValidateSlot(in model.SlotInput) error {
	return v.run(&in)
}

func (v *SessionValidator) run(s any) error {
	if err := v.validate.Struct(s); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

func (v *SessionValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "required_if":
			message = fmt.Sprintf("%s is required when bank is %s", err.Field(), model.BankCustom)
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
		case "datetime":
			message = fmt.Sprintf("%s must be a date in YYYY-MM-DD format", err.Field())
		case "hhmm":
			message = fmt.Sprintf("%s must be a time in HH:MM format", err.Field())
		case "venue":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), strings.Join(model.Venues, ", "))
		case "e164":
			message = fmt.Sprintf("%s must be a valid phone number (e.g., 0412 345 678)", err.Field())
		case "email":
			message = fmt.Sprintf("%s must be a valid email address", err.Field())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
