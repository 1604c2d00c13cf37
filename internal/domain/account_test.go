package domain

import (
	"testing"
)

func TestAccountType_NormalSide(t *testing.T) {
	tests := []struct {
		typ  AccountType
		side Side
	}{
		{AccountTypeAsset, SideDebit},
		{AccountTypeExpense, SideDebit},
		{AccountTypeLiability, SideCredit},
		{AccountTypeEquity, SideCredit},
		{AccountTypeIncome, SideCredit},
	}

	for _, tt := range tests {
		if got := tt.typ.NormalSide(); got != tt.side {
			t.Errorf("%s: expected %s, got %s", tt.typ, tt.side, got)
		}
	}
}

func TestAccount_Apply(t *testing.T) {
	// A liability account (customer deposits) increases on credit.
	savings := &Account{Type: AccountTypeLiability, NormalSide: SideCredit, CurrentBalance: dec("1000")}

	if got := savings.Apply(SideCredit, dec("250")); !got.Equal(dec("1250")) {
		t.Errorf("credit on credit-normal: expected 1250, got %s", got)
	}
	if got := savings.Apply(SideDebit, dec("250")); !got.Equal(dec("750")) {
		t.Errorf("debit on credit-normal: expected 750, got %s", got)
	}

	// An expense account (interest expense) increases on debit.
	expense := &Account{Type: AccountTypeExpense, NormalSide: SideDebit, CurrentBalance: dec("500")}

	if got := expense.Apply(SideDebit, dec("100")); !got.Equal(dec("600")) {
		t.Errorf("debit on debit-normal: expected 600, got %s", got)
	}
}

func TestAccount_SignedAmount(t *testing.T) {
	asset := &Account{NormalSide: SideDebit}

	if got := asset.SignedAmount(SideDebit, dec("10")); !got.Equal(dec("10")) {
		t.Errorf("expected 10, got %s", got)
	}
	if got := asset.SignedAmount(SideCredit, dec("10")); !got.Equal(dec("-10")) {
		t.Errorf("expected -10, got %s", got)
	}
}

func TestMovement_Validate(t *testing.T) {
	same := &Movement{FromAccount: "A", ToAccount: "A", Amount: dec("10")}
	if same.Validate() != ErrSameAccount {
		t.Error("same-account movement must fail")
	}

	zero := &Movement{FromAccount: "A", ToAccount: "B", Amount: dec("0")}
	if zero.Validate() != ErrInvalidAmount {
		t.Error("zero-amount movement must fail")
	}

	ok := &Movement{FromAccount: "A", ToAccount: "B", Amount: dec("10")}
	if err := ok.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
