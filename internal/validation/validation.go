// Package validation wraps go-playground/validator with the loan domain's rules
// and renders failures as errs.FieldError lists keyed by JSON field name.
package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"fastloan-backend/internal/domain/errs"
	"fastloan-backend/internal/domain/loan"
)

// MaxAmount is the largest value a decimal(18,2) column holds.
var MaxAmount = decimal.RequireFromString("9999999999999999.99")

var (
	reHex32 = regexp.MustCompile(`^[a-f0-9]{32}$`)
	// E.164-ish: optional +, 9 to 15 digits
	rePhone = regexp.MustCompile(`^\+?[0-9]{9,15}$`)
)

type Validator struct{ v *validator.Validate }

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("hex32", func(fl validator.FieldLevel) bool {
		return reHex32.MatchString(fl.Field().String())
	})
	// Money rules read decimal.Decimal values, never float64.
	_ = v.RegisterValidation("positive", func(fl validator.FieldLevel) bool {
		d, ok := asDecimal(fl)
		return ok && d.IsPositive()
	})
	_ = v.RegisterValidation("dec2", func(fl validator.FieldLevel) bool {
		d, ok := asDecimal(fl)
		return ok && d.Equal(d.Truncate(2))
	})
	_ = v.RegisterValidation("maxamount", func(fl validator.FieldLevel) bool {
		d, ok := asDecimal(fl)
		return ok && d.LessThanOrEqual(MaxAmount)
	})
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return rePhone.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("loanduration", func(fl validator.FieldLevel) bool {
		return loan.ValidDuration(int(fl.Field().Int()))
	})
	_ = v.RegisterValidation("loanpurpose", func(fl validator.FieldLevel) bool {
		return loan.ValidPurpose(fl.Field().String())
	})
	_ = v.RegisterValidation("relationship", func(fl validator.FieldLevel) bool {
		return loan.ValidRelationship(fl.Field().String())
	})
	_ = v.RegisterValidation("momoprovider", func(fl validator.FieldLevel) bool {
		return loan.ValidProvider(fl.Field().String())
	})

	return &Validator{v: v}
}

// Validate satisfies echo.Validator. It returns raw validator errors.
func (cv *Validator) Validate(i any) error { return cv.v.Struct(i) }

// Struct validates i and converts any failure into an errs.ErrValidation error.
func (cv *Validator) Struct(msg string, i any) error {
	if err := cv.v.Struct(i); err != nil {
		return errs.Validation(msg, ToFieldErrors(err)...)
	}
	return nil
}

// ToFieldErrors maps validator.ValidationErrors to readable field errors.
func ToFieldErrors(err error) []errs.FieldError {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return []errs.FieldError{{Field: "_", Message: err.Error()}}
	}
	out := make([]errs.FieldError, 0, len(ve))
	for _, e := range ve {
		out = append(out, errs.FieldError{Field: fieldPath(e), Message: message(e)})
	}
	return out
}

// fieldPath drops the root struct name: "CreateLoanInput.guarantors[0].phone_number" -> "guarantors[0].phone_number".
func fieldPath(e validator.FieldError) string {
	ns := e.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return e.Field()
}

func message(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "hex32":
		return "must be 32-char lowercase hex"
	case "positive":
		return "must be greater than 0"
	case "dec2":
		return "must have at most 2 decimal places"
	case "maxamount":
		return "must be at most " + MaxAmount.StringFixed(2)
	case "phone":
		return "must be a phone number of 9 to 15 digits"
	case "email":
		return "must be a valid email address"
	case "loanduration":
		return "must be one of " + joinInts(loan.Durations)
	case "loanpurpose":
		return "must be one of " + strings.Join(loan.Purposes, ", ")
	case "relationship":
		return "must be one of " + strings.Join(loan.Relationships, ", ")
	case "momoprovider":
		return "must be one of " + strings.Join(loan.Providers, ", ")
	case "oneof":
		return "must be one of " + e.Param()
	case "gt":
		return "must be greater than " + e.Param()
	case "gte":
		return "must be greater than or equal to " + e.Param()
	case "lte":
		return "must be less than or equal to " + e.Param()
	case "min":
		if e.Kind() == reflect.Slice {
			return "must contain at least " + e.Param() + " item(s)"
		}
		return "must be at least " + e.Param() + " characters"
	case "max":
		if e.Kind() == reflect.Slice {
			return "must contain at most " + e.Param() + " item(s)"
		}
		return "must be at most " + e.Param() + " characters"
	}
	return e.Tag() + " validation failed"
}

func asDecimal(fl validator.FieldLevel) (decimal.Decimal, bool) {
	switch d := fl.Field().Interface().(type) {
	case decimal.Decimal:
		return d, true
	case *decimal.Decimal:
		if d != nil {
			return *d, true
		}
	}
	return decimal.Decimal{}, false
}

func joinInts(xs []int) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = strconv.Itoa(x)
	}
	return strings.Join(parts, ", ")
}
