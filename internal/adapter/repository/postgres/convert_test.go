package postgres

import (
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

func TestDecimalNumericRoundTrip(t *testing.T) {
	values := []string{"0", "100", "-42.5", "0.0001", "123456789.9999", "55.8904"}

	for _, v := range values {
		d, err := decimal.NewFromString(v)
		if err != nil {
			t.Fatalf("parse %s: %v", v, err)
		}

		got := numericToDecimal(decimalToNumeric(d))
		if !got.Equal(d) {
			t.Errorf("round trip of %s produced %s", v, got)
		}
	}
}

func TestNumericToDecimalInvalid(t *testing.T) {
	if !numericToDecimal(pgtype.Numeric{}).IsZero() {
		t.Error("expected zero for an invalid numeric")
	}
}

func TestDecimalPtrNumeric(t *testing.T) {
	if n := decimalPtrToNumeric(nil); n.Valid {
		t.Error("expected invalid numeric for nil decimal")
	}

	d := decimal.RequireFromString("3000")
	n := decimalPtrToNumeric(&d)
	got := numericPtrToDecimalPtr(n)
	if got == nil || !got.Equal(d) {
		t.Errorf("expected 3000 back, got %v", got)
	}

	if p := numericPtrToDecimalPtr(pgtype.Numeric{}); p != nil {
		t.Errorf("expected nil for invalid numeric, got %v", p)
	}
}

func TestTimePtrTimestamptz(t *testing.T) {
	if ts := timePtrToPgTimestamptz(nil); ts.Valid {
		t.Error("expected invalid timestamptz for nil time")
	}

	now := time.Now().UTC()
	ts := timePtrToPgTimestamptz(&now)
	back := pgTimestamptzToTimePtr(ts)
	if back == nil || !back.Equal(now) {
		t.Errorf("expected %v back, got %v", now, back)
	}

	if p := pgTimestamptzToTimePtr(pgtype.Timestamptz{}); p != nil {
		t.Errorf("expected nil for invalid timestamptz, got %v", p)
	}
}
