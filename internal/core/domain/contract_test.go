package domain

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestContractStatus_CanTransitionTo(t *testing.T) {
	cases := []struct {
		from, to ContractStatus
		want     bool
	}{
		{ContractUnsigned, ContractSigned, true},
		{ContractUnsigned, ContractUnsigned, true},
		{ContractSigned, ContractSigned, true},
		{ContractSigned, ContractUnsigned, false},
	}
	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.want {
			t.Errorf("%s -> %s: expected %v, got %v", tc.from, tc.to, tc.want, got)
		}
	}
}

func TestParseContractStatus(t *testing.T) {
	for in, want := range map[string]ContractStatus{
		"signed": ContractSigned, "TRUE": ContractSigned,
		" unsigned ": ContractUnsigned, "false": ContractUnsigned,
	} {
		got, err := ParseContractStatus(in)
		if err != nil {
			t.Fatalf("ParseContractStatus(%q): %v", in, err)
		}
		if got != want {
			t.Errorf("ParseContractStatus(%q) = %s, want %s", in, got, want)
		}
	}

	if _, err := ParseContractStatus("maybe"); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestContract_Paid(t *testing.T) {
	c := Contract{RemainingAmount: decimal.Zero}
	if !c.Paid() {
		t.Fatal("expected zero remaining to be paid")
	}
	c.RemainingAmount = decimal.RequireFromString("0.01")
	if c.Paid() {
		t.Fatal("expected positive remaining to be unpaid")
	}
}

func TestParseRole(t *testing.T) {
	r, err := ParseRole(" Commercial ")
	if err != nil || r != RoleCommercial {
		t.Fatalf("expected commercial, got %q (%v)", r, err)
	}
	if _, err := ParseRole("admin"); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for unknown role, got %v", err)
	}
	if Role("admin").Valid() {
		t.Fatal("unknown role reported valid")
	}
}

func TestOptional_UnmarshalJSON(t *testing.T) {
	var patch struct {
		Phone   Optional[string] `json:"phone"`
		Company Optional[string] `json:"company"`
		Support Optional[*int64] `json:"support"`
	}
	if err := json.Unmarshal([]byte(`{"phone":"","support":null}`), &patch); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if v, ok := patch.Phone.Get(); !ok || v != "" {
		t.Errorf("expected phone provided as empty, got %q (%v)", v, ok)
	}
	if patch.Company.IsSet() {
		t.Error("expected company to be absent")
	}
	if v, ok := patch.Support.Get(); !ok || v != nil {
		t.Errorf("expected explicit null support, got %v (%v)", v, ok)
	}
}
