package http

import (
	"strings"
	"testing"
)

type validationProbe struct {
	ClientID  string `validate:"required,hex32"`
	Role      string `validate:"required,role"`
	RiskLevel string `validate:"omitempty,risklevel"`
	Amount    string `validate:"omitempty,amountstr"`
	Email     string `validate:"omitempty,email"`
}

func validProbe() validationProbe {
	return validationProbe{
		ClientID: strings.Repeat("a", 32),
		Role:     "borrow",
	}
}

func TestValidator_AcceptsValidProbe(t *testing.T) {
	cv := NewValidator()
	p := validProbe()
	p.RiskLevel = "High"
	p.Amount = "5,000,000"
	p.Email = "budi@example.com"
	if err := cv.Validate(&p); err != nil {
		t.Fatalf("unexpected validation error: %v", err)
	}
}

func TestValidator_Hex32(t *testing.T) {
	cv := NewValidator()
	for _, bad := range []string{"", "short", strings.Repeat("A", 32), strings.Repeat("g", 32), strings.Repeat("a", 33)} {
		p := validProbe()
		p.ClientID = bad
		if err := cv.Validate(&p); err == nil {
			t.Fatalf("hex32 accepted %q", bad)
		}
	}
}

func TestValidator_Role(t *testing.T) {
	cv := NewValidator()
	for _, good := range []string{"borrow", "invest"} {
		p := validProbe()
		p.Role = good
		if err := cv.Validate(&p); err != nil {
			t.Fatalf("role rejected %q: %v", good, err)
		}
	}
	p := validProbe()
	p.Role = "admin"
	if err := cv.Validate(&p); err == nil {
		t.Fatal("role accepted admin")
	}
}

func TestValidator_RiskLevel(t *testing.T) {
	cv := NewValidator()
	for _, good := range []string{"Low", "Medium", "High"} {
		p := validProbe()
		p.RiskLevel = good
		if err := cv.Validate(&p); err != nil {
			t.Fatalf("risklevel rejected %q: %v", good, err)
		}
	}
	p := validProbe()
	p.RiskLevel = "low" // case-sensitive, matches the selector values
	if err := cv.Validate(&p); err == nil {
		t.Fatal("risklevel accepted lowercase")
	}
}

func TestValidator_AmountStr(t *testing.T) {
	cv := NewValidator()
	for _, good := range []string{"5,000,000", "500", "1000000"} {
		p := validProbe()
		p.Amount = good
		if err := cv.Validate(&p); err != nil {
			t.Fatalf("amountstr rejected %q: %v", good, err)
		}
	}
	for _, bad := range []string{"5jt", "12.50", "-100", "1 000"} {
		p := validProbe()
		p.Amount = bad
		if err := cv.Validate(&p); err == nil {
			t.Fatalf("amountstr accepted %q", bad)
		}
	}
}

func TestToFieldErrors_Messages(t *testing.T) {
	cv := NewValidator()
	p := validationProbe{ClientID: "bad", Role: ""}
	err := cv.Validate(&p)
	if err == nil {
		t.Fatal("expected validation errors")
	}
	fes := ToFieldErrors(err)
	if !containsFieldMsg(fes, "ClientID", "hex") {
		t.Fatalf("missing ClientID hex message: %+v", fes)
	}
	if !containsFieldMsg(fes, "Role", "required") {
		t.Fatalf("missing Role required message: %+v", fes)
	}
}

func containsFieldMsg(list []FieldError, field, substr string) bool {
	for _, e := range list {
		if e.Field == field && strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}
