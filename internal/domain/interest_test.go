package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func savingsTiers() TierTable {
	return TierTable{
		{LowerBound: dec("0"), UpperBound: decPtr("10000"), AnnualRate: dec("0.20")},
		{LowerBound: dec("10000"), UpperBound: decPtr("100000"), AnnualRate: dec("0.16")},
		{LowerBound: dec("100000"), UpperBound: nil, AnnualRate: dec("0.08")},
	}
}

func TestTierTable_Validate(t *testing.T) {
	tests := []struct {
		name    string
		tiers   TierTable
		wantErr bool
	}{
		{"valid three tiers", savingsTiers(), false},
		{"empty", TierTable{}, true},
		{
			"does not start at zero",
			TierTable{{LowerBound: dec("100"), UpperBound: nil, AnnualRate: dec("0.1")}},
			true,
		},
		{
			"gap between tiers",
			TierTable{
				{LowerBound: dec("0"), UpperBound: decPtr("10000"), AnnualRate: dec("0.2")},
				{LowerBound: dec("20000"), UpperBound: nil, AnnualRate: dec("0.1")},
			},
			true,
		},
		{
			"last tier bounded",
			TierTable{
				{LowerBound: dec("0"), UpperBound: decPtr("10000"), AnnualRate: dec("0.2")},
				{LowerBound: dec("10000"), UpperBound: decPtr("20000"), AnnualRate: dec("0.1")},
			},
			true,
		},
		{
			"negative rate",
			TierTable{{LowerBound: dec("0"), UpperBound: nil, AnnualRate: dec("-0.1")}},
			true,
		},
		{
			"single open-ended tier",
			TierTable{{LowerBound: dec("0"), UpperBound: nil, AnnualRate: dec("0.05")}},
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.tiers.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestTierTable_DailyInterestThreeTiers(t *testing.T) {
	// 150,000 splits into 10,000 + 90,000 + 50,000. One day's interest is
	// (10000*0.20 + 90000*0.16 + 50000*0.08) / 365 = 20400/365, rounded once.
	interest, breakdown := savingsTiers().DailyInterest(NewMoney(dec("150000"), "NGN"))

	expected := dec("20400").DivRound(dec("365"), ScaleInternal)
	if !interest.Amount.Equal(expected) {
		t.Fatalf("expected %s, got %s", expected, interest.Amount)
	}
	if interest.Amount.Exponent() < -ScaleInternal {
		t.Fatalf("interest not rounded to internal scale: %s", interest.Amount)
	}

	if len(breakdown) != 3 {
		t.Fatalf("expected 3 tiers in breakdown, got %d", len(breakdown))
	}

	wantAmounts := []string{"10000", "90000", "50000"}
	for i, want := range wantAmounts {
		if !breakdown[i].TierAmount.Equal(dec(want)) {
			t.Errorf("tier %d: expected amount %s, got %s", i, want, breakdown[i].TierAmount)
		}
	}
}

func TestTierTable_DailyInterestBoundaryInclusive(t *testing.T) {
	// A balance exactly at a tier boundary fills the lower tier completely
	// and puts nothing in the upper one.
	_, breakdown := savingsTiers().DailyInterest(NewMoney(dec("10000"), "NGN"))

	if len(breakdown) != 1 {
		t.Fatalf("expected 1 tier, got %d", len(breakdown))
	}
	if !breakdown[0].TierAmount.Equal(dec("10000")) {
		t.Fatalf("expected 10000 in first tier, got %s", breakdown[0].TierAmount)
	}
}

func TestTierTable_DailyInterestZeroBalance(t *testing.T) {
	interest, breakdown := savingsTiers().DailyInterest(Zero("NGN"))

	if !interest.IsZero() {
		t.Fatalf("expected zero interest, got %s", interest.Amount)
	}
	if len(breakdown) != 0 {
		t.Fatalf("expected empty breakdown, got %d tiers", len(breakdown))
	}
}

func TestTierTable_DailyInterestRoundsOnce(t *testing.T) {
	// Per-tier rounding would give a different total than rounding the sum.
	tiers := TierTable{
		{LowerBound: dec("0"), UpperBound: decPtr("100"), AnnualRate: dec("0.1")},
		{LowerBound: dec("100"), UpperBound: nil, AnnualRate: dec("0.07")},
	}

	interest, _ := tiers.DailyInterest(NewMoney(dec("200"), "NGN"))

	// (100*0.1 + 100*0.07) / 365 = 17/365 = 0.04657534... -> 0.0466
	if !interest.Amount.Equal(dec("0.0466")) {
		t.Fatalf("expected 0.0466, got %s", interest.Amount)
	}
}

func TestProfitSplit_CustomerShare(t *testing.T) {
	interest := NewMoney(dec("100"), "NGN")

	full := ProfitSplit{CustomerRatio: dec("1")}
	if got := full.CustomerShare(interest); !got.Amount.Equal(dec("100")) {
		t.Fatalf("expected full share, got %s", got.Amount)
	}

	split := ProfitSplit{CustomerRatio: dec("0.7")}
	if got := split.CustomerShare(interest); !got.Amount.Equal(dec("70")) {
		t.Fatalf("expected 70, got %s", got.Amount)
	}

	// Ratio zero is a real configuration: the bank retains everything.
	retained := ProfitSplit{CustomerRatio: decimal.Zero}
	if got := retained.CustomerShare(interest); !got.Amount.IsZero() {
		t.Fatalf("zero ratio should credit the customer nothing, got %s", got.Amount)
	}
}

func TestAccrualDay(t *testing.T) {
	loc := time.FixedZone("WAT", 3600)
	stamp := time.Date(2025, 3, 15, 0, 30, 0, 0, loc) // 2025-03-14 23:30 UTC

	day := AccrualDay(stamp)

	want := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)
	if !day.Equal(want) {
		t.Fatalf("expected %s, got %s", want, day)
	}
}
