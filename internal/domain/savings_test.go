package domain

import (
	"testing"
	"time"
)

func TestRefreshStatusDerivation(t *testing.T) {
	cases := []struct {
		name     string
		expected string
		paid     string
		want     SavingsStatus
	}{
		{"nothing paid", "5000", "0", SavingsPending},
		{"partial", "5000", "2500", SavingsPartial},
		{"exactly met", "5000", "5000", SavingsPaid},
		{"overpaid", "5000", "6000", SavingsPaid},
		{"zero expected", "0", "0", SavingsPaid},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := NewSavings(1, "January", 2026, d(tc.expected), d(tc.paid), "2025-2026")
			if s.Status != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, s.Status)
			}
		})
	}
}

func TestRecordPaymentAccumulates(t *testing.T) {
	s := NewSavings(1, "January", 2026, d("5000"), d("0"), "2025-2026")

	s.RecordPayment(d("2000"), nil)
	if !s.PaidAmount.Equal(d("2000")) || s.Status != SavingsPartial {
		t.Fatalf("expected 2000 partial, got %s %s", s.PaidAmount, s.Status)
	}
	if s.PaymentDate == nil {
		t.Fatal("expected payment date stamp")
	}

	s.RecordPayment(d("3000"), nil)
	if !s.PaidAmount.Equal(d("5000")) || s.Status != SavingsPaid {
		t.Fatalf("expected 5000 paid, got %s %s", s.PaidAmount, s.Status)
	}
}

func TestRecordPaymentKeepsExplicitDate(t *testing.T) {
	s := NewSavings(1, "January", 2026, d("5000"), d("0"), "2025-2026")
	when := time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC)

	s.RecordPayment(d("1000"), &when)
	if s.PaymentDate == nil || !s.PaymentDate.Equal(when) {
		t.Fatalf("expected payment date %s, got %v", when, s.PaymentDate)
	}
}

func TestRemainingAmountFloorsAtZero(t *testing.T) {
	s := NewSavings(1, "January", 2026, d("5000"), d("7000"), "2025-2026")
	if !s.RemainingAmount().IsZero() {
		t.Fatalf("expected zero remaining on overpayment, got %s", s.RemainingAmount())
	}

	s2 := NewSavings(1, "February", 2026, d("5000"), d("2000"), "2025-2026")
	if !s2.RemainingAmount().Equal(d("3000")) {
		t.Fatalf("expected 3000 remaining, got %s", s2.RemainingAmount())
	}
}
