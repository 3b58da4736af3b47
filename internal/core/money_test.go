package core

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParseDecimalToCents(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int64
		wantErr bool
	}{
		{"plain integer", "12", 1200, false},
		{"two decimals", "12.34", 1234, false},
		{"comma separator", "12,34", 1234, false},
		{"one decimal", "12.3", 1230, false},
		{"third decimal rounds down", "12.344", 1234, false},
		{"third decimal rounds up", "12.345", 1235, false},
		{"leading dot", ".50", 50, false},
		{"whitespace trimmed", "  7.00  ", 700, false},
		{"empty", "", 0, true},
		{"zero", "0", 0, true},
		{"zero with decimals", "0.00", 0, true},
		{"negative", "-5.00", 0, true},
		{"explicit plus", "+5.00", 0, true},
		{"letters", "12a.00", 0, true},
		{"two separators", "1.2.3", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDecimalToCents(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDecimalToCents(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseDecimalToCents(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseBalanceToCents(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int64
		wantErr bool
	}{
		{"zero", "0", 0, false},
		{"zero with decimals", "0.00", 0, false},
		{"positive", "12.34", 1234, false},
		{"comma separator", "812,50", 81250, false},
		{"negative", "-5.00", 0, true},
		{"empty", "", 0, true},
		{"letters", "abc", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseBalanceToCents(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseBalanceToCents(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseBalanceToCents(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestMoney_Validate(t *testing.T) {
	if err := (Money{Cents: 100}).Validate(); err != nil {
		t.Errorf("Validate() error = %v, want nil", err)
	}
	if err := (Money{}).Validate(); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("Validate() error = %v, want ErrInvalidAmount", err)
	}
	if err := (Money{Cents: -1}).Validate(); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("Validate() error = %v, want ErrInvalidAmount", err)
	}
}

func TestMoney_String(t *testing.T) {
	tests := []struct {
		cents int64
		want  string
	}{
		{0, "0.00"},
		{5, "0.05"},
		{1234, "12.34"},
		{-1234, "-12.34"},
		{100000, "1000.00"},
	}

	for _, tt := range tests {
		if got := (Money{Cents: tt.cents}).String(); got != tt.want {
			t.Errorf("Money{%d}.String() = %q, want %q", tt.cents, got, tt.want)
		}
	}
}

func TestMoney_JSON(t *testing.T) {
	body, err := json.Marshal(Money{Cents: 1234})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(body) != "1234" {
		t.Errorf("Marshal() = %s, want 1234", body)
	}

	var m Money
	if err := json.Unmarshal([]byte("-250"), &m); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if m.Cents != -250 {
		t.Errorf("Unmarshal() Cents = %d, want -250", m.Cents)
	}

	if err := json.Unmarshal([]byte(`"12.34"`), &m); err == nil {
		t.Error("Unmarshal() should reject non-integer input")
	}
}

func TestMoney_Arithmetic(t *testing.T) {
	a := Money{Cents: 500}
	b := Money{Cents: 200}

	if got := a.Add(b); got.Cents != 700 {
		t.Errorf("Add() = %d, want 700", got.Cents)
	}
	if got := b.Sub(a); got.Cents != -300 {
		t.Errorf("Sub() = %d, want -300", got.Cents)
	}
	if got := a.Neg(); got.Cents != -500 {
		t.Errorf("Neg() = %d, want -500", got.Cents)
	}
}
