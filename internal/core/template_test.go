package core

import (
	"errors"
	"testing"
)

func validTemplate() RecurringTemplate {
	return RecurringTemplate{
		ID:            "t1",
		Kind:          KindBill,
		Name:          "Rent",
		Amount:        Money{Cents: 150000},
		BillingPeriod: PeriodMonthly,
		DayOfMonth:    1,
		IsActive:      true,
	}
}

func TestRecurringTemplate_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*RecurringTemplate)
		wantErr error
	}{
		{"valid day of month", func(t *RecurringTemplate) {}, nil},
		{
			"valid week rule",
			func(t *RecurringTemplate) {
				t.DayOfMonth = 0
				t.RecurrenceWeek = 2
				t.RecurrenceDay = 5
			},
			nil,
		},
		{
			"empty name",
			func(t *RecurringTemplate) { t.Name = "  " },
			ErrEmptyName,
		},
		{
			"bad kind",
			func(t *RecurringTemplate) { t.Kind = "transfer" },
			ErrInvalidKind,
		},
		{
			"zero amount",
			func(t *RecurringTemplate) { t.Amount = Money{} },
			ErrInvalidAmount,
		},
		{
			"bad period",
			func(t *RecurringTemplate) { t.BillingPeriod = "quarterly" },
			ErrInvalidPeriod,
		},
		{
			"monthly with no anchor",
			func(t *RecurringTemplate) { t.DayOfMonth = 0 },
			ErrInvalidAnchor,
		},
		{
			"monthly with both anchors",
			func(t *RecurringTemplate) {
				t.RecurrenceWeek = 2
				t.RecurrenceDay = 1
			},
			ErrInvalidAnchor,
		},
		{
			"weekly without start date",
			func(t *RecurringTemplate) {
				t.BillingPeriod = PeriodWeekly
				t.DayOfMonth = 0
			},
			ErrInvalidAnchor,
		},
		{
			"bi-weekly with start date",
			func(t *RecurringTemplate) {
				t.BillingPeriod = PeriodBiWeekly
				t.DayOfMonth = 0
				t.StartDate = NewDate(2025, 1, 3)
			},
			nil,
		},
		{
			"semi-annual with start date",
			func(t *RecurringTemplate) {
				t.BillingPeriod = PeriodSemiAnnually
				t.DayOfMonth = 0
				t.StartDate = NewDate(2025, 8, 31)
			},
			nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl := validTemplate()
			tt.mutate(&tmpl)
			err := tmpl.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestPaymentSource_Validate(t *testing.T) {
	src := PaymentSource{ID: "s1", Name: "Checking", Type: SourceBankAccount}
	if err := src.Validate(); err != nil {
		t.Errorf("Validate() error = %v, want nil", err)
	}

	src.Type = "wallet"
	if err := src.Validate(); !errors.Is(err, ErrInvalidSource) {
		t.Errorf("Validate() error = %v, want ErrInvalidSource", err)
	}

	src = PaymentSource{ID: "s2", Name: "Card", Type: SourceCreditCard, PayOffMonthly: true, IsSavings: true}
	if err := src.Validate(); !errors.Is(err, ErrInvalidSource) {
		t.Errorf("Validate() error = %v, want ErrInvalidSource for conflicting flags", err)
	}
}

func TestPaymentSource_SignedBalance(t *testing.T) {
	balance := Money{Cents: 10000}

	bank := PaymentSource{Name: "Checking", Type: SourceBankAccount}
	if got := bank.SignedBalance(balance); got.Cents != 10000 {
		t.Errorf("SignedBalance() = %d, want 10000 for a bank account", got.Cents)
	}

	card := PaymentSource{Name: "Card", Type: SourceCreditCard}
	if got := card.SignedBalance(balance); got.Cents != -10000 {
		t.Errorf("SignedBalance() = %d, want -10000 for a credit card", got.Cents)
	}
}

func TestPaymentSource_LeftoverExcluded(t *testing.T) {
	tests := []struct {
		name string
		src  PaymentSource
		want bool
	}{
		{"plain bank account", PaymentSource{Type: SourceBankAccount}, false},
		{"explicitly excluded", PaymentSource{Type: SourceBankAccount, ExcludeFromLeftover: true}, true},
		{"savings", PaymentSource{Type: SourceBankAccount, IsSavings: true}, true},
		{"investment", PaymentSource{Type: SourceInvestment, IsInvestment: true}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.src.LeftoverExcluded(); got != tt.want {
				t.Errorf("LeftoverExcluded() = %v, want %v", got, tt.want)
			}
		})
	}
}
