package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"fastloan-backend/internal/domain/errs"
)

func containsField(list []errs.FieldError, field, substr string) bool {
	for _, e := range list {
		if e.Field == field && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

func TestHex32Validation(t *testing.T) {
	type P struct {
		LoanID string `json:"loan_id" validate:"hex32"`
	}
	cv := New()

	if err := cv.Validate(P{LoanID: strings.Repeat("a", 32)}); err != nil {
		t.Fatalf("expected valid hex32, got err: %v", err)
	}
	for _, s := range []string{
		"",
		strings.Repeat("A", 32),
		"deadbeef",
		strings.Repeat("g", 32),
		"3f9a6a1b3d544fbe8b3a6b3e8d6b2c88x",
	} {
		err := cv.Validate(P{LoanID: s})
		if err == nil {
			t.Fatalf("expected error for %q", s)
		}
		if fe := ToFieldErrors(err); !containsField(fe, "loan_id", "32-char lowercase hex") {
			t.Fatalf("expected hex32 message for %q, got: %+v", s, fe)
		}
	}
}

func TestDecimalRules(t *testing.T) {
	type P struct {
		Amount decimal.Decimal `json:"amount" validate:"positive,dec2,maxamount"`
	}
	cv := New()

	for _, s := range []string{"1", "1000", "0.01", "1234.50"} {
		if err := cv.Validate(P{Amount: decimal.RequireFromString(s)}); err != nil {
			t.Fatalf("amount %s should pass: %v", s, err)
		}
	}

	err := cv.Validate(P{Amount: decimal.NewFromInt(-50)})
	if !containsField(ToFieldErrors(err), "amount", "greater than 0") {
		t.Fatalf("negative amount: %+v", ToFieldErrors(err))
	}
	err = cv.Validate(P{Amount: decimal.RequireFromString("10.001")})
	if !containsField(ToFieldErrors(err), "amount", "2 decimal places") {
		t.Fatalf("three decimals: %+v", ToFieldErrors(err))
	}
}

func TestDecimalRules_NoFloatRounding(t *testing.T) {
	type P struct {
		Amount decimal.Decimal `json:"amount" validate:"positive,dec2,maxamount"`
	}
	cv := New()

	tests := []struct {
		amount  string
		wantMsg string
	}{
		{"0.0000000001", "2 decimal places"},
		{"0", "greater than 0"},
		{"123456789012345.67", ""},
		{"9999999999999999.99", ""},
		{"10000000000000000.00", "at most 9999999999999999.99"},
		{"0.01", ""},
	}
	for _, tt := range tests {
		err := cv.Validate(P{Amount: decimal.RequireFromString(tt.amount)})
		if tt.wantMsg == "" {
			if err != nil {
				t.Fatalf("%s should pass: %v", tt.amount, err)
			}
			continue
		}
		if !containsField(ToFieldErrors(err), "amount", tt.wantMsg) {
			t.Fatalf("%s: want %q, got %+v", tt.amount, tt.wantMsg, ToFieldErrors(err))
		}
	}
}

func TestDecimalRules_MissingAmountIsNotPositive(t *testing.T) {
	type P struct {
		Amount decimal.Decimal `json:"amount" validate:"positive,dec2,maxamount"`
	}
	err := New().Validate(P{})
	if !containsField(ToFieldErrors(err), "amount", "greater than 0") {
		t.Fatalf("zero value: %+v", ToFieldErrors(err))
	}
}

func TestDomainOptionRules(t *testing.T) {
	type G struct {
		Relationship string `json:"relationship" validate:"required,relationship"`
	}
	type P struct {
		Duration   int    `json:"duration" validate:"loanduration"`
		Purpose    string `json:"purpose" validate:"loanpurpose"`
		Provider   string `json:"provider" validate:"momoprovider"`
		Phone      string `json:"phone_number" validate:"phone"`
		Guarantors []G    `json:"guarantors" validate:"min=1,max=2,dive"`
	}
	cv := New()

	ok := P{Duration: 90, Purpose: "inventory", Provider: "vodafone", Phone: "+233241234567", Guarantors: []G{{Relationship: "family"}}}
	if err := cv.Validate(ok); err != nil {
		t.Fatalf("valid payload rejected: %v", err)
	}

	bad := P{Duration: 45, Purpose: "holiday", Provider: "paypal", Phone: "12ab", Guarantors: []G{{}, {Relationship: "boss"}, {Relationship: "friend"}}}
	fe := ToFieldErrors(cv.Validate(bad))
	checks := []struct{ field, msg string }{
		{"duration", "30, 60, 90, 180"},
		{"purpose", "must be one of"},
		{"provider", "mtn, vodafone, airteltigo"},
		{"phone_number", "phone number"},
		{"guarantors", "at most 2"},
	}
	for _, c := range checks {
		if !containsField(fe, c.field, c.msg) {
			t.Errorf("missing %s/%q in %+v", c.field, c.msg, fe)
		}
	}
}

func TestDiveReportsIndexedPath(t *testing.T) {
	type G struct {
		Relationship string `json:"relationship" validate:"required,relationship"`
	}
	type P struct {
		Guarantors []G `json:"guarantors" validate:"min=1,max=2,dive"`
	}
	fe := ToFieldErrors(New().Validate(P{Guarantors: []G{{Relationship: "family"}, {}}}))
	if !containsField(fe, "guarantors[1].relationship", "is required") {
		t.Fatalf("expected indexed path, got %+v", fe)
	}
}

func TestStruct_ReturnsValidationKind(t *testing.T) {
	type P struct {
		Name string `json:"name" validate:"required"`
	}
	err := New().Struct("invalid input", P{})
	if !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("want ErrValidation, got %v", err)
	}
	if !containsField(errs.FieldsOf(err), "name", "is required") {
		t.Fatalf("fields = %+v", errs.FieldsOf(err))
	}
	if err := New().Struct("invalid input", P{Name: "x"}); err != nil {
		t.Fatalf("unexpected: %v", err)
	}
}

func TestToFieldErrors_NonValidatorError(t *testing.T) {
	fe := ToFieldErrors(errors.New("boom"))
	if len(fe) != 1 || fe[0].Field != "_" || fe[0].Message != "boom" {
		t.Fatalf("unexpected: %+v", fe)
	}
}
