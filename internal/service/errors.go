package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"evo/internal/auth"
	"evo/internal/model"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrValidation    = errors.New("validation failed")
	ErrEmailExists   = errors.New("email already registered")
	ErrUserNotFound  = errors.New("user not found")
	ErrWrongPassword = errors.New("wrong password")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
)

// ValidationError names the offending input field. It matches ErrValidation with errors.Is.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Field + " " + e.Reason
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// hashPassword reports an over-long password as a validation failure.
func hashPassword(password string) (string, error) {
	hash, err := auth.HashPassword(password)
	if errors.Is(err, auth.ErrPasswordTooLong) {
		return "", invalid("password", "must be at most 72 bytes")
	}
	return hash, err
}

// Actor is the authenticated caller of a use case.
type Actor struct {
	UserID    string
	Role      string
	TokenID   string
	ExpiresAt time.Time
}

// IsAdmin reports whether the actor may act on other users' data.
func (a Actor) IsAdmin() bool {
	return a.Role == model.RoleAdmin
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateStruct runs the struct tags of in and reports the first failure as a ValidationError.
func validateStruct(in any) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return invalid(fe.Field(), "is required")
	case "email":
		return invalid(fe.Field(), "must be a valid email address")
	case "gte":
		return invalid(fe.Field(), "must be at least "+fe.Param())
	case "oneof":
		return invalid(fe.Field(), "must be one of: "+fe.Param())
	case "max":
		return invalid(fe.Field(), "must be at most "+fe.Param()+" characters")
	}
	return invalid(fe.Field(), "is invalid")
}
