package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	usernamePattern   = regexp.MustCompile(`^[A-Za-z0-9_.]{3,30}$`)
	reservedUsernames = map[string]struct{}{"me": {}, "sync": {}}
	initOnce          sync.Once
)

// Init configures the global validator used by Gin's binding.
// - Uses JSON tag names in errors.
// - Registers the "username" rule and a few aliases.
// - Rejects JSON bodies carrying fields the target struct does not declare.
func Init() {
	initOnce.Do(func() {
		binding.EnableDecoderDisallowUnknownFields = true
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
			return ValidUsername(fl.Field().String())
		})
		v.RegisterAlias("personname", "max=50")
		v.RegisterAlias("imageurl", "url,max=2048")
	})
}

// ValidUsername reports whether s can be used as a username. Route words
// like "me" are reserved so /users/:username never shadows them.
func ValidUsername(s string) bool {
	if !usernamePattern.MatchString(s) {
		return false
	}
	_, reserved := reservedUsernames[strings.ToLower(s)]
	return !reserved
}

// ToDetails converts validation/binding errors into a map[field]message suitable for API error.details.
func ToDetails(err error) map[string]string {
	if err == nil {
		return nil
	}

	// Invalid JSON payloads
	var se *json.SyntaxError
	var ute *json.UnmarshalTypeError
	if errors.As(err, &ute) {
		return map[string]string{ute.Field: "has the wrong type"}
	}
	if errors.As(err, &se) {
		return map[string]string{"payload": "invalid json"}
	}
	if field, ok := strings.CutPrefix(err.Error(), "json: unknown field "); ok {
		return map[string]string{strings.Trim(field, `"`): "is not an updatable field"}
	}

	// Validation errors from validator.v10
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			out[fe.Field()] = formatFieldError(fe)
		}
		return out
	}

	// Fallback
	return map[string]string{"payload": "invalid payload"}
}

func formatFieldError(fe validator.FieldError) string {
	tag := fe.Tag()
	param := fe.Param()

	switch tag {
	case "required":
		return "is required"
	case "username":
		return "must be 3-30 letters, digits, '_' or '.', and not a reserved word"
	case "email":
		return "must be a valid email"
	case "personname":
		return "must be at most 50 characters"
	case "url", "imageurl":
		return "must be a valid URL"
	case "uuid", "uuid4":
		return "must be a valid UUID"
	case "max":
		if fe.Kind() == reflect.String {
			return "must be at most " + param + " characters"
		}
		return "must be at most " + param
	case "min":
		if fe.Kind() == reflect.String {
			return "must be at least " + param + " characters"
		}
		return "must be at least " + param
	case "oneof":
		return "must be one of: " + strings.Join(strings.Fields(param), ", ")
	default:
		if param != "" {
			return fmt.Sprintf("validation failed for '%s' with parameter '%s'", tag, param)
		}
		return fmt.Sprintf("validation failed for '%s'", tag)
	}
}
