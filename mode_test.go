package graft

import "testing"

func TestMode_Has(t *testing.T) {
	m := WithVersion | DeepCheck
	if !m.Has(WithVersion) {
		t.Fatalf("Has(WithVersion) = false, want true")
	}
	if !m.Has(DeepCheck) {
		t.Fatalf("Has(DeepCheck) = false, want true")
	}
	if m.Has(WithIntegrity) {
		t.Fatalf("Has(WithIntegrity) = true, want false")
	}
}

func TestMode_Checked(t *testing.T) {
	if !Mode(0).checked() {
		t.Fatalf("checked() = false for mode 0, want true")
	}
	if Unchecked.checked() {
		t.Fatalf("checked() = true for Unchecked, want false")
	}
}
