// Package validation checks form input before any request leaves the client.
package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var ErrInvalid = errors.New("invalid input")

// Error is a pre-flight failure with the message shown to the user.
type Error struct {
	Field   string
	Tag     string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return ErrInvalid
}

var validate = newValidator()

// plainAmount is digits with an optional fraction. Signs, exponents and
// thousands separators are rejected.
var plainAmount = regexp.MustCompile(`^\d+(\.\d+)?$`)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	mustRegister(v, "amount", isAmount)
	mustRegister(v, "min_deposit", minDeposit)
	mustRegister(v, "positive_amount", positiveAmount)
	mustRegister(v, "password_policy", passwordPolicy)
	return v
}

// mustRegister panics because a rejected tag is a programming error.
func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("validation: register %q: %v", tag, err))
	}
}

// Validate checks a form struct and returns the first failure as *Error.
func Validate(form any) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	msg, ok := messages[fe.StructNamespace()+"."+fe.Tag()]
	if !ok {
		msg = fmt.Sprintf("%s is invalid", fe.Field())
	}
	return &Error{Field: fe.Field(), Tag: fe.Tag(), Message: msg}
}

// Amount parses a validated amount string.
func Amount(s string) decimal.Decimal {
	d, ok := parseAmount(s)
	if !ok {
		return decimal.Zero
	}
	return d
}

func parseAmount(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	if !plainAmount.MatchString(s) {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	return d, err == nil
}

func isAmount(fl validator.FieldLevel) bool {
	_, ok := parseAmount(fl.Field().String())
	return ok
}

func minDeposit(fl validator.FieldLevel) bool {
	d, ok := parseAmount(fl.Field().String())
	return ok && d.GreaterThanOrEqual(decimal.NewFromInt(MinDeposit))
}

func positiveAmount(fl validator.FieldLevel) bool {
	d, ok := parseAmount(fl.Field().String())
	return ok && d.IsPositive()
}

// passwordPolicy: 8-15 characters with upper, lower, digit and symbol.
func passwordPolicy(fl validator.FieldLevel) bool {
	pw := fl.Field().String()
	if n := len([]rune(pw)); n < 8 || n > 15 {
		return false
	}
	var upper, lower, digit, special bool
	for _, r := range pw {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			special = true
		}
	}
	return upper && lower && digit && special
}
