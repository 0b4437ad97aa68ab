package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	commonerrors "github.com/AlibekovAA/book-reviews/internal/common/errors"
)

// Validator wraps a configured validator instance. It is safe for
// concurrent use and caches struct metadata, so handlers share one.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		field := fl.Field()
		switch field.Kind() {
		case reflect.String:
			return strings.TrimSpace(field.String()) != ""
		case reflect.Pointer:
			if field.IsNil() {
				return true
			}
			return strings.TrimSpace(field.Elem().String()) != ""
		}
		return true
	})
	return &Validator{validate: v}
}

// Struct validates v and renders the first failing field as a
// VALIDATION_FAILED domain error.
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return commonerrors.ErrValidation.WithMessage(describe(fieldErrs[0])).WithCause(err)
	}
	return commonerrors.ErrValidation.WithCause(err)
}

// DecodeAndValidate reads a JSON body into dst and validates it. Unknown
// fields are ignored.
func (v *Validator) DecodeAndValidate(r *http.Request, dst any) error {
	if err := DecodeJSON(r, dst); err != nil {
		return err
	}
	return v.Struct(dst)
}

func DecodeJSON(r *http.Request, dst any) error {
	defer r.Body.Close()

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return commonerrors.ErrPayloadTooLarge.WithCause(err)
		}
		return commonerrors.ErrInvalidPayload.WithCause(err)
	}
	return nil
}

func describe(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required", "notblank":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
