package validator

import (
	"reflect"
	"regexp"
	"strings"
	"sync"
	"unicode"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/vibe-gaming/enrollment/pkg/sessionid"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^\+?[1-9]\d{0,15}$`)

	standalone     *validator.Validate
	standaloneOnce sync.Once
)

// RegisterGinValidator installs the custom tags on gin's binding engine.
func RegisterGinValidator() error {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		return register(v)
	}

	return nil
}

// Struct validates s with the custom tags outside of gin request binding.
func Struct(s interface{}) error {
	standaloneOnce.Do(func() {
		standalone = validator.New(validator.WithRequiredStructEnabled())
		if err := register(standalone); err != nil {
			panic(err)
		}
	})

	return standalone.Struct(s)
}

func register(v *validator.Validate) error {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	validations := map[string]validator.Func{
		"kioskemail":  emailValidator,
		"phonenumber": phoneNumberValidator,
		"sessionid":   sessionIDValidator,
	}
	for tag, fn := range validations {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}

	return nil
}

func IsEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// IsPhoneNumber reports whether phone is empty or, with whitespace removed,
// an optionally +-prefixed number of up to 16 digits.
func IsPhoneNumber(phone string) bool {
	if phone == "" {
		return true
	}

	return phonePattern.MatchString(StripSpaces(phone))
}

func StripSpaces(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

var emailValidator validator.Func = func(fl validator.FieldLevel) bool {
	return IsEmail(fl.Field().String())
}

var phoneNumberValidator validator.Func = func(fl validator.FieldLevel) bool {
	return IsPhoneNumber(fl.Field().String())
}

var sessionIDValidator validator.Func = func(fl validator.FieldLevel) bool {
	id := fl.Field().String()
	return id == "" || sessionid.Valid(id)
}
