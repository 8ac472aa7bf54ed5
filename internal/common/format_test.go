package common

import (
	"math/big"
	"testing"
)

func TestFormatCents(t *testing.T) {
	tests := []struct {
		cents    int64
		currency string
		want     string
	}{
		{123456, "usd", "1,234.56 USD"},
		{0, "", "0.00 USD"},
		{-50000, "eur", "-500.00 EUR"},
		{100000099, "usd", "1,000,000.99 USD"},
		{15000, "krw", "15,000 KRW"},
		{-1200, "JPY", "-1,200 JPY"},
		{5, "krw", "5 KRW"},
	}

	for _, tt := range tests {
		got := FormatCents(tt.cents, tt.currency)
		if got != tt.want {
			t.Errorf("FormatCents(%d, %q) = %q, want %q", tt.cents, tt.currency, got, tt.want)
		}
	}
}

func TestRoundCents(t *testing.T) {
	tests := []struct {
		num, den int64
		want     int64
	}{
		{2000, 1, 2000},
		{1000, 12, 83}, // 83.33
		{1001, 2, 501}, // 500.5 rounds up
		{-1001, 2, -501},
		{2999, 3, 1000}, // 999.67
	}

	for _, tt := range tests {
		got := RoundCents(big.NewRat(tt.num, tt.den))
		if got != tt.want {
			t.Errorf("RoundCents(%d/%d) = %d, want %d", tt.num, tt.den, got, tt.want)
		}
	}
}

func TestMaskSecret(t *testing.T) {
	if got := MaskSecret("sk_test_abcdefgh", 8); got != "sk_test_..." {
		t.Errorf("MaskSecret = %q", got)
	}
	if got := MaskSecret("abc", 8); got != "***" {
		t.Errorf("MaskSecret short = %q", got)
	}
}

func TestFormatPct(t *testing.T) {
	if got := FormatPct(0.95); got != "95%" {
		t.Errorf("FormatPct(0.95) = %q", got)
	}
	if got := FormatPct(0.8); got != "80%" {
		t.Errorf("FormatPct(0.8) = %q", got)
	}
}
