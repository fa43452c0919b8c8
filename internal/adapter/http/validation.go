package http

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// Reusable error payload
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
type ErrorResponse struct {
	Error      string       `json:"error"`
	Details    []FieldError `json:"details,omitempty"`
	RedirectTo string       `json:"redirect_to,omitempty"`
}

var reHex32 = regexp.MustCompile(`^[a-f0-9]{32}$`)

type CustomValidator struct{ v *validator.Validate }

func NewValidator() *CustomValidator {
	v := validator.New()

	// client/draft ids = 32-char lowercase hex
	_ = v.RegisterValidation("hex32", func(fl validator.FieldLevel) bool {
		return reHex32.MatchString(fl.Field().String())
	})
	// upstream role segment
	_ = v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == "borrow" || s == "invest"
	})
	// textual risk level as shown in the selector
	_ = v.RegisterValidation("risklevel", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == "Low" || s == "Medium" || s == "High"
	})
	// grouped currency input: digits and comma separators only
	_ = v.RegisterValidation("amountstr", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if s == "" {
			return true // required is a separate tag
		}
		for _, r := range s {
			if (r < '0' || r > '9') && r != ',' {
				return false
			}
		}
		return true
	})

	return &CustomValidator{v: v}
}

func (cv *CustomValidator) Validate(i any) error { return cv.v.Struct(i) }

// Map validator.ValidationErrors → []FieldError with readable messages.
func ToFieldErrors(err error) []FieldError {
	ve, ok := err.(validator.ValidationErrors)
	if !ok {
		return []FieldError{{Field: "_", Message: err.Error()}}
	}
	out := make([]FieldError, 0, len(ve))
	for _, e := range ve {
		field := e.Field()
		switch e.Tag() {
		case "required":
			out = append(out, FieldError{Field: field, Message: "is required"})
		case "hex32":
			out = append(out, FieldError{Field: field, Message: "must be 32-char lowercase hex"})
		case "role":
			out = append(out, FieldError{Field: field, Message: "must be borrow or invest"})
		case "risklevel":
			out = append(out, FieldError{Field: field, Message: "must be Low, Medium or High"})
		case "amountstr":
			out = append(out, FieldError{Field: field, Message: "must contain only digits and separators"})
		case "email":
			out = append(out, FieldError{Field: field, Message: "must be a valid email address"})
		case "gt":
			out = append(out, FieldError{Field: field, Message: "must be greater than " + e.Param()})
		case "gte":
			out = append(out, FieldError{Field: field, Message: "must be greater than or equal to " + e.Param()})
		default:
			out = append(out, FieldError{Field: field, Message: e.Tag() + " validation failed"})
		}
	}
	return out
}
