// Package inputval validates decoded request payloads and queries using
// waffle/pantry/validate.
//
// Define an input struct with validate tags, decode the request into it, and
// call Validate. A Result with errors satisfies the error interface, so it
// can be handed straight to httperr.Write, which answers 400 with the
// per-field messages.
//
// Example:
//
//	type createInput struct {
//	    Username string `json:"username" validate:"required,token" label:"Username"`
//	    Email    string `json:"email" validate:"required,email" label:"Email"`
//	}
//
//	if err := inputval.Validate(in).Err(); err != nil {
//	    httperr.Write(w, r, err)
//	    return
//	}
package inputval

import (
	"net/mail"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/dalemusser/strataadmin/internal/app/system/authutil"
	"github.com/dalemusser/waffle/pantry/validate"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Result holds validation results with user-friendly messages.
type Result struct {
	Errors []FieldError
}

// FieldError represents a validation error for a single field.
type FieldError struct {
	Field   string
	Label   string
	Message string
}

// HasErrors returns true if there are any validation errors.
func (r *Result) HasErrors() bool {
	return len(r.Errors) > 0
}

// First returns the first error message, or empty string if no errors.
func (r *Result) First() string {
	if len(r.Errors) > 0 {
		return r.Errors[0].Message
	}
	return ""
}

// All returns all error messages joined with "; ".
func (r *Result) All() string {
	if len(r.Errors) == 0 {
		return ""
	}
	msgs := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		msgs[i] = e.Message
	}
	return strings.Join(msgs, "; ")
}

// Error implements error.
func (r *Result) Error() string {
	return r.All()
}

// FieldMessages maps field names to their messages.
func (r *Result) FieldMessages() map[string]string {
	out := make(map[string]string, len(r.Errors))
	for _, e := range r.Errors {
		out[e.Field] = e.Message
	}
	return out
}

// Add appends a field error. Used for checks the tag rules cannot express.
func (r *Result) Add(field, label, message string) {
	r.Errors = append(r.Errors, FieldError{Field: field, Label: label, Message: message})
}

// Err returns r as an error, or nil when there are no errors.
func (r *Result) Err() error {
	if r == nil || !r.HasErrors() {
		return nil
	}
	return r
}

// customValidator is a singleton validator with custom rules registered.
var (
	customValidator *validate.Validator
	validatorOnce   sync.Once
)

func getValidator() *validate.Validator {
	validatorOnce.Do(func() {
		customValidator = validate.New(validate.WithStopOnFirstError())

		// token: letters, digits and underscore only
		customValidator.RegisterRuleFunc("token", func(value any) bool {
			if s, ok := value.(string); ok {
				return s == "" || IsToken(s)
			}
			return false
		}, "token")

		// objectid: validates that string is a valid MongoDB ObjectID hex
		customValidator.RegisterRuleFunc("objectid", func(value any) bool {
			if s, ok := value.(string); ok {
				return s == "" || IsValidObjectID(s)
			}
			return false
		}, "objectid")

		// nonblank: a non-empty value must have a non-space character
		customValidator.RegisterRuleFunc("nonblank", func(value any) bool {
			if s, ok := value.(string); ok {
				return s == "" || strings.TrimSpace(s) != ""
			}
			return false
		}, "nonblank")

		// bcryptlen: bcrypt's limit counts bytes, not runes
		customValidator.RegisterRuleFunc("bcryptlen", func(value any) bool {
			if s, ok := value.(string); ok {
				return len(s) <= authutil.MaxPasswordLength
			}
			return false
		}, "bcryptlen")
	})
	return customValidator
}

// Validate validates a struct and returns a Result with user-friendly errors.
// The struct should have `validate` tags for rules and optional `label` tags
// for user-friendly field names.
//
// Supported validation rules (from pantry/validate):
//   - required: field must not be empty
//   - email: field must be a valid email address
//   - min=N / max=N: string length or numeric bounds
//
// Custom validation rules (registered by this package):
//   - token: field may contain only letters, digits and underscore
//   - objectid: field must be a valid MongoDB ObjectID hex string
//   - nonblank: field must not be only whitespace
//   - bcryptlen: field must be at most authutil.MaxPasswordLength bytes
//
// Custom rules accept the empty string so optional query parameters can use
// them without "required".
func Validate(s any) *Result {
	result := &Result{}

	v := getValidator()
	err := v.Struct(s)
	if err == nil {
		return result
	}

	labels, names := getFieldLabels(s)

	if errs, ok := err.(validate.Errors); ok {
		for _, e := range errs {
			field := e.Field
			if n, ok := names[field]; ok {
				field = n
			}
			label := labels[field]
			if label == "" {
				label = field
			}
			result.Add(field, label, formatMessage(label, e.Rule, e.Param))
		}
	}

	return result
}

// getFieldLabels extracts the "label" tag from struct fields, keyed by the
// json name when present. names maps Go field names to json names so errors
// are always reported under the name clients send.
func getFieldLabels(s any) (labels, names map[string]string) {
	labels = make(map[string]string)
	names = make(map[string]string)

	val := reflect.ValueOf(s)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}
	if val.Kind() != reflect.Struct {
		return labels, names
	}

	typ := val.Type()
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)

		fieldName := field.Name
		if jsonTag := field.Tag.Get("json"); jsonTag != "" {
			parts := strings.Split(jsonTag, ",")
			if parts[0] != "" && parts[0] != "-" {
				fieldName = parts[0]
				names[field.Name] = fieldName
			}
		}

		if label := field.Tag.Get("label"); label != "" {
			labels[fieldName] = label
		}
	}

	return labels, names
}

func formatMessage(label, rule, param string) string {
	switch rule {
	case "required":
		return label + " is required."
	case "email":
		return "A valid email address is required."
	case "min":
		return label + " must be at least " + param + "."
	case "max":
		return label + " must be at most " + param + "."
	case "token":
		return label + " must only contain letters, numbers and underscores."
	case "objectid":
		return label + " is not a valid ID."
	case "nonblank":
		return label + " is required."
	case "bcryptlen":
		return label + " must be at most " + strconv.Itoa(authutil.MaxPasswordLength) + " bytes."
	default:
		return label + " is invalid."
	}
}

// IsToken reports whether s is non-empty and made only of [A-Za-z0-9_].
func IsToken(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '_':
		default:
			return false
		}
	}
	return true
}

// IsValidEmail checks if the given string has a valid email format.
//
// This function uses Go's net/mail.ParseAddress for RFC 5322 compliant validation.
func IsValidEmail(email string) bool {
	email = strings.TrimSpace(email)
	if email == "" {
		return false
	}

	addr, err := mail.ParseAddress(email)
	if err != nil {
		return false
	}

	// ParseAddress accepts "Name <email>", so require the bare address.
	return addr.Address == email
}

// IsValidObjectID checks if the given string is a valid MongoDB ObjectID hex.
func IsValidObjectID(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	_, err := primitive.ObjectIDFromHex(s)
	return err == nil
}
