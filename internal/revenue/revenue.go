// Package revenue derives recurring-revenue metrics from Stripe
// subscriptions. Amounts stay exact (big.Rat, minor units) until rendered.
package revenue

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/bobmcallan/saas-mcp/internal/clients"
	"github.com/bobmcallan/saas-mcp/internal/common"
)

// Periods accepted for display.
var Periods = []string{"today", "week", "month", "year"}

// monthsPer converts one billing interval into months.
var monthsPer = map[string]*big.Rat{
	"day":   big.NewRat(12, 365),
	"week":  big.NewRat(12, 52),
	"month": big.NewRat(1, 1),
	"year":  big.NewRat(12, 1),
}

// Metrics are the recurring revenue figures of one account.
type Metrics struct {
	Period      string
	Currency    string
	MRR         *big.Rat // minor units per month
	Subscribers int
	Skipped     int // items without a usable recurring unit price or in another currency
	TestMode    bool
	Truncated   bool // more subscriptions exist than were fetched
}

// ARPU is MRR divided by the number of active subscribers.
func (m *Metrics) ARPU() *big.Rat {
	if m.Subscribers == 0 {
		return new(big.Rat)
	}
	return new(big.Rat).Quo(m.MRR, big.NewRat(int64(m.Subscribers), 1))
}

// MonthlyAmount is the monthly value of one subscription item, or false when
// the item has no recurring unit price.
func MonthlyAmount(item clients.StripeSubscriptionItem) (*big.Rat, bool) {
	p := item.Price
	if p.UnitAmount == nil || p.Recurring == nil {
		return nil, false
	}
	months, ok := monthsPer[p.Recurring.Interval]
	if !ok {
		return nil, false
	}
	count := p.Recurring.IntervalCount
	if count < 1 {
		count = 1
	}
	qty := item.Quantity
	if qty < 1 {
		qty = 1
	}

	amount := new(big.Rat).SetInt64(*p.UnitAmount * qty)
	perCycle := new(big.Rat).Mul(months, big.NewRat(count, 1))
	return amount.Quo(amount, perCycle), true
}

// Compute sums the monthly value of every item. The currency of the first
// priced item is the reporting currency.
func Compute(subs []clients.StripeSubscription, period string) *Metrics {
	m := &Metrics{Period: period, MRR: new(big.Rat), Subscribers: len(subs)}
	for _, sub := range subs {
		for _, item := range sub.Items.Data {
			amount, ok := MonthlyAmount(item)
			if !ok {
				m.Skipped++
				continue
			}
			currency := strings.ToLower(item.Price.Currency)
			if m.Currency == "" {
				m.Currency = currency
			}
			if currency != m.Currency {
				m.Skipped++
				continue
			}
			m.MRR.Add(m.MRR, amount)
		}
	}
	return m
}

// Render formats the metrics.
func (m *Metrics) Render() string {
	var b strings.Builder
	b.WriteString("📊 SaaS metrics\n\n")
	fmt.Fprintf(&b, "💰 MRR: %s\n", common.FormatRatCents(m.MRR, m.Currency))
	fmt.Fprintf(&b, "👥 Active subscribers: %d\n", m.Subscribers)
	fmt.Fprintf(&b, "📈 ARPU: %s\n", common.FormatRatCents(m.ARPU(), m.Currency))
	fmt.Fprintf(&b, "🗓️ Period: %s", m.Period)
	if m.Skipped > 0 {
		fmt.Fprintf(&b, "\n\nℹ️ %d subscription items were not counted (no recurring unit price or a different currency)", m.Skipped)
	}
	if m.Truncated {
		b.WriteString("\n\nℹ️ Only the first page of active subscriptions was counted")
	}
	if m.TestMode {
		b.WriteString("\n\n⚠️ Test mode data")
	}
	return b.String()
}
