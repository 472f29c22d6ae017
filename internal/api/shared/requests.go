package shared

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"

	"github.com/go-playground/form/v4"
	"github.com/go-playground/validator/v10"
)

var (
	validate    = validator.New()
	formDecoder = form.NewDecoder()
)

// ErrUnsupportedFormTarget is returned when DecodeForm is given something
// other than a pointer to a struct.
var ErrUnsupportedFormTarget = errors.New("form target must be a pointer to a struct")

// DecodeForm decodes the request body's form values into dst using its
// `form` tags. Query string values are ignored.
func DecodeForm(r *http.Request, dst any) error {
	if err := r.ParseForm(); err != nil {
		return fmt.Errorf("failed to parse form: %w", err)
	}

	v := reflect.ValueOf(dst)
	if v.Kind() != reflect.Pointer || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return ErrUnsupportedFormTarget
	}

	if err := formDecoder.Decode(dst, r.PostForm); err != nil {
		return fmt.Errorf("failed to decode form: %w", err)
	}
	return nil
}

// ValidateRequest validates the given struct using the validator package.
func ValidateRequest(v interface{}) error {
	// Check if the object implements the Validate interface
	if validator, ok := v.(interface{ Validate() error }); ok {
		return validator.Validate()
	}

	// Otherwise, use the struct validator
	return validate.Struct(v)
}

// ValidationMessages turns validator errors into user-facing sentences.
// Errors that did not come from the validator yield a single generic message.
func ValidationMessages(err error) []string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []string{"Invalid form submission."}
	}

	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		messages = append(messages, fieldMessage(fe))
	}
	return messages
}

func fieldMessage(fe validator.FieldError) string {
	label := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required.", label)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters.", label, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters.", label, fe.Param())
	case "numeric":
		return fmt.Sprintf("%s must be a number.", label)
	default:
		return fmt.Sprintf("%s is invalid.", label)
	}
}
