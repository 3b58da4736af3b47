package core

import "fmt"

type SourceType string

const (
	SourceBankAccount  SourceType = "bank_account"
	SourceCreditCard   SourceType = "credit_card"
	SourceLineOfCredit SourceType = "line_of_credit"
	SourceCash         SourceType = "cash"
	SourceInvestment   SourceType = "investment"
)

// IsDebt reports whether balances of this type represent money owed.
func (t SourceType) IsDebt() bool {
	return t == SourceCreditCard || t == SourceLineOfCredit
}

// PaymentSource is an account money moves through: bank accounts, cards,
// cash. Debt-type sources store their balance as a positive magnitude and
// present it negated.
type PaymentSource struct {
	ID                    string     `json:"id"`
	Name                  string     `json:"name"`
	Type                  SourceType `json:"type"`
	PayOffMonthly         bool       `json:"pay_off_monthly,omitempty"`
	TrackPaymentsManually bool       `json:"track_payments_manually,omitempty"`
	ExcludeFromLeftover   bool       `json:"exclude_from_leftover,omitempty"`
	IsSavings             bool       `json:"is_savings,omitempty"`
	IsInvestment          bool       `json:"is_investment,omitempty"`
}

func (s PaymentSource) Validate() error {
	if s.Name == "" {
		return ErrEmptyName
	}
	switch s.Type {
	case SourceBankAccount, SourceCreditCard, SourceLineOfCredit, SourceCash, SourceInvestment:
	default:
		return fmt.Errorf("source %q: type %q: %w", s.Name, s.Type, ErrInvalidSource)
	}
	// is_savings, is_investment and pay_off_monthly are mutually exclusive
	flags := 0
	for _, set := range []bool{s.IsSavings, s.IsInvestment, s.PayOffMonthly} {
		if set {
			flags++
		}
	}
	if flags > 1 {
		return fmt.Errorf("source %q: savings/investment/payoff flags are mutually exclusive: %w", s.Name, ErrInvalidSource)
	}
	return nil
}

// LeftoverExcluded reports whether the source stays out of the leftover
// calculation: explicitly flagged sources plus savings and investments.
func (s PaymentSource) LeftoverExcluded() bool {
	return s.ExcludeFromLeftover || s.IsSavings || s.IsInvestment
}

// SignedBalance orients a stored balance magnitude: negative for debt-type
// sources, unchanged otherwise.
func (s PaymentSource) SignedBalance(balance Money) Money {
	if s.Type.IsDebt() {
		return balance.Neg()
	}
	return balance
}

// Category groups instances into sections on the month view.
type Category struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Kind      Kind   `json:"kind"`
	SortOrder int    `json:"sort_order"`
}
