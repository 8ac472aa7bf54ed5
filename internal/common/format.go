package common

import (
	"fmt"
	"math/big"
	"strings"
)

// zeroDecimal lists the currencies whose minor unit is the major unit, as
// Stripe reports them.
var zeroDecimal = map[string]bool{
	"bif": true, "clp": true, "djf": true, "gnf": true, "jpy": true, "kmf": true,
	"krw": true, "mga": true, "pyg": true, "rwf": true, "ugx": true, "vnd": true,
	"vuv": true, "xaf": true, "xof": true, "xpf": true,
}

// IsZeroDecimal reports whether amounts in currency carry no fractional unit.
func IsZeroDecimal(currency string) bool {
	return zeroDecimal[strings.ToLower(currency)]
}

// FormatCents formats an amount in minor units with comma separators and an
// upper-case currency code, e.g. "1,234.50 USD" or "15,000 KRW".
func FormatCents(cents int64, currency string) string {
	if currency == "" {
		currency = "usd"
	}
	negative := cents < 0
	if negative {
		cents = -cents
	}
	var out string
	if IsZeroDecimal(currency) {
		out = groupThousands(cents)
	} else {
		out = fmt.Sprintf("%s.%02d", groupThousands(cents/100), cents%100)
	}
	if negative {
		out = "-" + out
	}
	return out + " " + strings.ToUpper(currency)
}

// RoundCents rounds an exact amount in minor units half away from zero.
func RoundCents(r *big.Rat) int64 {
	num := new(big.Int).Set(r.Num())
	den := r.Denom()
	neg := num.Sign() < 0
	if neg {
		num.Neg(num)
	}
	// (2*num + den) / (2*den)
	num.Mul(num, big.NewInt(2)).Add(num, den)
	q := new(big.Int).Quo(num, new(big.Int).Mul(den, big.NewInt(2)))
	if neg {
		q.Neg(q)
	}
	return q.Int64()
}

// FormatRatCents formats an exact amount in minor units.
func FormatRatCents(r *big.Rat, currency string) string {
	return FormatCents(RoundCents(r), currency)
}

// MaskSecret keeps the first n characters of a credential.
func MaskSecret(s string, n int) string {
	if len(s) <= n {
		return strings.Repeat("*", len(s))
	}
	return s[:n] + "..."
}

// FormatPct formats a ratio in [0,1] as a rounded percentage.
func FormatPct(ratio float64) string {
	return fmt.Sprintf("%d%%", int(ratio*100+0.5))
}

func groupThousands(v int64) string {
	s := fmt.Sprintf("%d", v)
	if len(s) <= 3 {
		return s
	}
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)
	return strings.Join(parts, ",")
}
