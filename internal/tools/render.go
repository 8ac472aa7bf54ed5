package tools

import (
	"fmt"
	"strings"

	"github.com/bobmcallan/saas-mcp/internal/clients"
	"github.com/bobmcallan/saas-mcp/internal/common"
)

const timeLayout = "2006-01-02 15:04:05 UTC"

// list renders a titled bullet list, or the empty text when there are no items.
func list(title, empty string, items []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%d):\n\n", title, len(items))
	if len(items) == 0 {
		b.WriteString(empty)
		return b.String()
	}
	b.WriteString(strings.Join(items, "\n"))
	return b.String()
}

type stripeStatus struct {
	TestMode bool
	Balance  *clients.StripeBalance
}

func (r *stripeStatus) Render() string {
	mode := "🔴 live"
	if r.TestMode {
		mode = "🧪 test"
	}
	balance := common.FormatCents(0, "usd")
	if len(r.Balance.Available) > 0 {
		balance = common.FormatCents(r.Balance.Available[0].Amount, r.Balance.Available[0].Currency)
	}
	return fmt.Sprintf("✅ Stripe connected\n\nMode: %s\nAvailable balance: %s", mode, balance)
}

type stripeProducts []clients.StripeProduct

func (r stripeProducts) Render() string {
	items := make([]string, len(r))
	for i, p := range r {
		items[i] = fmt.Sprintf("- %s (%s) %s", p.Name, p.ID, mark(p.Active))
	}
	return list("📦 Products", "No products", items)
}

type stripePrices []clients.StripePrice

func (r stripePrices) Render() string {
	items := make([]string, len(r))
	for i, p := range r {
		name := p.Nickname
		if name == "" {
			name = p.ID
		}
		amount := "custom"
		if p.UnitAmount != nil {
			amount = common.FormatCents(*p.UnitAmount, p.Currency)
		}
		interval := "one-time"
		if p.Recurring != nil {
			interval = p.Recurring.Interval
		}
		items[i] = fmt.Sprintf("- %s: %s/%s", name, amount, interval)
	}
	return list("💰 Prices", "No prices", items)
}

type stripeWebhooks []clients.StripeWebhookEndpoint

func (r stripeWebhooks) Render() string {
	items := make([]string, len(r))
	for i, w := range r {
		events := w.EnabledEvents
		more := ""
		if len(events) > 3 {
			events, more = events[:3], "..."
		}
		items[i] = fmt.Sprintf("- %s\n  events: %s%s", w.URL, strings.Join(events, ", "), more)
	}
	return list("🔗 Webhook endpoints", "No webhook endpoints", items)
}

type stripeEvents []clients.StripeEvent

func (r stripeEvents) Render() string {
	items := make([]string, len(r))
	for i, e := range r {
		items[i] = fmt.Sprintf("- %s (%s)", e.Type, e.CreatedAt().Format(timeLayout))
	}
	return list("📊 Recent events", "No events", items)
}

type supabaseTables []string

func (r supabaseTables) Render() string {
	items := make([]string, len(r))
	for i, t := range r {
		items[i] = "- " + t
	}
	return list("📊 Tables", "No tables", items)
}

type vercelProjects []clients.VercelProject

func (r vercelProjects) Render() string {
	items := make([]string, len(r))
	for i, p := range r {
		items[i] = fmt.Sprintf("- %s (%s)", p.Name, p.ID)
	}
	return list("📁 Projects", "No projects", items) + "\n\nPass projectId to list its deployments."
}

type vercelDeployments []clients.VercelDeployment

func (r vercelDeployments) Render() string {
	items := make([]string, len(r))
	for i, d := range r {
		items[i] = fmt.Sprintf("- %s\n  state: %s | %s", d.URL, d.State, d.CreatedAt().Format(timeLayout))
	}
	return list("🚀 Recent deployments", "No deployments", items)
}

type vercelEnvs []clients.VercelEnv

func (r vercelEnvs) Render() string {
	items := make([]string, len(r))
	for i, e := range r {
		items[i] = fmt.Sprintf("- %s [%s]", e.Key, strings.Join(e.Target, ", "))
	}
	return list("🔐 Environment variables", "No environment variables", items)
}

type vercelDomains []clients.VercelDomain

func (r vercelDomains) Render() string {
	items := make([]string, len(r))
	for i, d := range r {
		items[i] = fmt.Sprintf("- %s %s", d.Name, mark(d.Verified))
	}
	return list("🌐 Domains", "No domains", items)
}

func mark(ok bool) string {
	if ok {
		return "✅"
	}
	return "❌"
}
