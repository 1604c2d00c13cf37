package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountType classifies a ledger account within the chart of accounts.
type AccountType string

const (
	AccountTypeAsset     AccountType = "asset"
	AccountTypeLiability AccountType = "liability"
	AccountTypeEquity    AccountType = "equity"
	AccountTypeIncome    AccountType = "income"
	AccountTypeExpense   AccountType = "expense"
)

// Side is the debit or credit side of a journal line.
type Side string

const (
	SideDebit  Side = "debit"
	SideCredit Side = "credit"
)

// NormalSide returns the side on which accounts of this type increase.
func (t AccountType) NormalSide() Side {
	switch t {
	case AccountTypeAsset, AccountTypeExpense:
		return SideDebit
	default:
		return SideCredit
	}
}

// Account is a node in the chart of accounts. Its balance is only ever
// mutated through ledger postings; CurrentBalance stays consistent with the
// signed sum of all posted journal lines.
type Account struct {
	Code           string
	BankCode       string
	Name           string
	Type           AccountType
	NormalSide     Side
	Currency       string
	CurrentBalance decimal.Decimal
	Version        int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Apply returns the balance after posting amount on the given side. A posting
// on the account's normal side increases the stored balance, the opposite
// side decreases it.
func (a *Account) Apply(side Side, amount decimal.Decimal) decimal.Decimal {
	if side == a.NormalSide {
		return a.CurrentBalance.Add(amount)
	}
	return a.CurrentBalance.Sub(amount)
}

// SignedAmount converts a (side, amount) pair into the signed contribution to
// this account's stored balance, used when recomputing balances from history.
func (a *Account) SignedAmount(side Side, amount decimal.Decimal) decimal.Decimal {
	if side == a.NormalSide {
		return amount
	}
	return amount.Neg()
}
