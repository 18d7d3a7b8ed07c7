package validate

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Patterns shared by the custom tags and the domain value constructors.
var (
	EmailPattern = regexp.MustCompile(`^[a-zA-Z0-9._-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,4}$`)
	PhonePattern = regexp.MustCompile(`^[0-9]{10}$`)
)

// v is the package-level singleton validator. It is initialised once at
// package load time. Any custom type registrations must be made during init()
// before the first call to Struct.
var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their JSON names so messages match the request body.
	val.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = val.RegisterValidation("contact_email", func(fl validator.FieldLevel) bool {
		return EmailPattern.MatchString(strings.TrimSpace(fl.Field().String()))
	})
	_ = val.RegisterValidation("phone10", func(fl validator.FieldLevel) bool {
		return PhonePattern.MatchString(strings.TrimSpace(fl.Field().String()))
	})
	return val
}

// Register adds a custom validation tag. Call it from init() only.
func Register(tag string, fn func(value string) bool) {
	if err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		return fn(fl.Field().String())
	}); err != nil {
		panic("validate: register " + tag + ": " + err.Error())
	}
}

// Violation is a single failed rule.
type Violation struct {
	Field string // dotted JSON path, e.g. "address.city"
	Tag   string
	Param string
}

// Nested reports whether the violation is on a field of a nested struct.
func (x Violation) Nested() bool { return strings.Contains(x.Field, ".") }

// Violations is returned by Struct when one or more rules fail.
type Violations []Violation

func (vs Violations) Error() string {
	msgs := make([]string, len(vs))
	for i, x := range vs {
		msgs[i] = fmt.Sprintf("field '%s' failed '%s'", x.Field, x.Tag)
	}
	return strings.Join(msgs, "; ")
}

// Struct validates the given struct using its validate tags. It returns
// Violations when rules fail, or the underlying error for invalid input.
func Struct(s interface{}) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}
	out := make(Violations, 0, len(ve))
	for _, fe := range ve {
		out = append(out, Violation{Field: fieldPath(fe.Namespace()), Tag: fe.Tag(), Param: fe.Param()})
	}
	return out
}

// fieldPath drops the leading struct type name from a validator namespace.
func fieldPath(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}
