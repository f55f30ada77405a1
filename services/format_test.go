package services

import "testing"

func TestFormatUSD(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
		expect string
	}{
		{"zero", 0, "$0.00"},
		{"under a thousand", 913.5, "$913.50"},
		{"thousands", 1234.56, "$1,234.56"},
		{"hundred thousands", 600000, "$600,000.00"},
		{"millions", 1234567.89, "$1,234,567.89"},
		{"negative", -1500, "-$1,500.00"},
		{"rounds to cents", 99.999, "$100.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatUSD(tt.amount); got != tt.expect {
				t.Errorf("FormatUSD(%v) = %q, want %q", tt.amount, got, tt.expect)
			}
		})
	}
}

func TestAmountToWords(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
		expect string
	}{
		{"zero", 0, "Zero Dollars Only"},
		{"single digit", 7, "Seven Dollars Only"},
		{"teens", 14, "Fourteen Dollars Only"},
		{"tens", 42, "Forty Two Dollars Only"},
		{"hundreds", 350, "Three Hundred and Fifty Dollars Only"},
		{"thousands", 913183, "Nine Hundred Thirteen Thousand One Hundred and Eighty Three Dollars Only"},
		{"millions", 2500000, "Two Million Five Hundred Thousand Dollars Only"},
		{"rounds fractional cents", 100.4, "One Hundred Dollars Only"},
		{"negative", -25, "Negative Twenty Five Dollars Only"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AmountToWords(tt.amount); got != tt.expect {
				t.Errorf("AmountToWords(%v) = %q, want %q", tt.amount, got, tt.expect)
			}
		})
	}
}
