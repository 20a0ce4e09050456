package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

const maxBodyBytes = 1 << 20

// PasswordSymbols are the special characters a signup password may contain.
const PasswordSymbols = "@$!%*#?&"

const passwordRuleMessage = "Password must be at least 8 characters long, include at least one letter, one number and one special character"

var errInvalidBody = errors.New("invalid request body")

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SignupRequest is the body of POST /auth/signup.
type SignupRequest struct {
	Name     string `json:"name" validate:"required,notblank"`
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username,omitempty" validate:"omitempty,max=64"`
	Password string `json:"password" validate:"required,min=8,maxbytes=72,password"`
}

// NewValidator returns a validator that reports JSON field names and knows
// the "password", "maxbytes" and "notblank" rules.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return ValidPassword(fl.Field().String())
	})
	// bcrypt hashes at most 72 bytes, while max= counts runes
	_ = v.RegisterValidation("maxbytes", func(fl validator.FieldLevel) bool {
		limit, err := strconv.Atoi(fl.Param())
		if err != nil {
			return false
		}
		return len(fl.Field().String()) <= limit
	})
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	return v
}

// ValidPassword reports whether s has at least one ASCII letter, one digit
// and one symbol from PasswordSymbols, and nothing outside those classes.
func ValidPassword(s string) bool {
	var letter, digit, symbol bool
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			letter = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(PasswordSymbols, r):
			symbol = true
		default:
			return false
		}
	}
	return letter && digit && symbol
}

// decodeAndValidate reads a JSON body into dst and validates it. Field-level
// failures are returned as a map keyed by JSON field name.
func decodeAndValidate(v *validator.Validate, w http.ResponseWriter, r *http.Request, dst any) (map[string]string, error) {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		return nil, errInvalidBody
	}

	err := v.Struct(dst)
	if err == nil {
		return nil, nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, err
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		if _, seen := fields[fe.Field()]; !seen {
			fields[fe.Field()] = fieldMessage(fe)
		}
	}
	return fields, nil
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters long", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters long", fe.Field(), fe.Param())
	case "maxbytes":
		return fmt.Sprintf("%s must be at most %s bytes long", fe.Field(), fe.Param())
	case "notblank":
		return fmt.Sprintf("%s must not be blank", fe.Field())
	case "password":
		return passwordRuleMessage
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
