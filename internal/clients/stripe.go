package clients

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bobmcallan/saas-mcp/internal/common"
)

// ErrInvalidStripeKey is returned for keys that are not secret keys.
var ErrInvalidStripeKey = errors.New("invalid Stripe secret key: must start with sk_")

// StripeList is the envelope of every Stripe list endpoint.
type StripeList[T any] struct {
	Data    []T  `json:"data"`
	HasMore bool `json:"has_more"`
}

// StripeMoney is an amount in minor units.
type StripeMoney struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// StripeBalance is the account balance.
type StripeBalance struct {
	Available []StripeMoney `json:"available"`
	Pending   []StripeMoney `json:"pending"`
}

// StripeProduct is a catalog product.
type StripeProduct struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

// StripeRecurring describes the billing cycle of a recurring price.
type StripeRecurring struct {
	Interval      string `json:"interval"`
	IntervalCount int64  `json:"interval_count"`
}

// StripePrice is a price. UnitAmount is nil for tiered or custom prices.
type StripePrice struct {
	ID         string           `json:"id"`
	Nickname   string           `json:"nickname"`
	UnitAmount *int64           `json:"unit_amount"`
	Currency   string           `json:"currency"`
	Recurring  *StripeRecurring `json:"recurring"`
}

// StripeWebhookEndpoint is a configured webhook.
type StripeWebhookEndpoint struct {
	ID            string   `json:"id"`
	URL           string   `json:"url"`
	EnabledEvents []string `json:"enabled_events"`
	Status        string   `json:"status"`
}

// StripeEvent is an account event.
type StripeEvent struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Created int64  `json:"created"`
}

// CreatedAt returns the event time.
func (e StripeEvent) CreatedAt() time.Time {
	return time.Unix(e.Created, 0).UTC()
}

// StripeSubscriptionItem is one priced line of a subscription.
type StripeSubscriptionItem struct {
	ID       string      `json:"id"`
	Price    StripePrice `json:"price"`
	Quantity int64       `json:"quantity"`
}

// StripeSubscription is a customer subscription.
type StripeSubscription struct {
	ID     string                             `json:"id"`
	Status string                             `json:"status"`
	Items  StripeList[StripeSubscriptionItem] `json:"items"`
}

// Stripe is a read-only client for the Stripe REST API.
type Stripe struct {
	rest      *restClient
	secretKey string
}

// NewStripe creates a Stripe client. The key must be a secret key (sk_...).
func NewStripe(baseURL, secretKey string, timeout time.Duration, logger *common.Logger) (*Stripe, error) {
	if !strings.HasPrefix(secretKey, "sk_") {
		return nil, ErrInvalidStripeKey
	}
	if logger != nil {
		logger.Debug().Str("key", common.MaskSecret(secretKey, 12)).Msg("stripe client created")
	}
	return &Stripe{
		rest:      newRestClient("Stripe", baseURL, timeout, logger, bearer(secretKey)),
		secretKey: secretKey,
	}, nil
}

// IsTestMode reports whether the key is a test-mode key.
func (s *Stripe) IsTestMode() bool {
	return strings.HasPrefix(s.secretKey, "sk_test_")
}

// Balance returns the account balance.
func (s *Stripe) Balance(ctx context.Context) (*StripeBalance, error) {
	var b StripeBalance
	if err := s.rest.getJSON(ctx, "/balance", &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// Products lists up to limit products.
func (s *Stripe) Products(ctx context.Context, limit int) (*StripeList[StripeProduct], error) {
	var l StripeList[StripeProduct]
	if err := s.rest.getJSON(ctx, fmt.Sprintf("/products?limit=%d", limit), &l); err != nil {
		return nil, err
	}
	return &l, nil
}

// Prices lists up to limit prices.
func (s *Stripe) Prices(ctx context.Context, limit int) (*StripeList[StripePrice], error) {
	var l StripeList[StripePrice]
	if err := s.rest.getJSON(ctx, fmt.Sprintf("/prices?limit=%d", limit), &l); err != nil {
		return nil, err
	}
	return &l, nil
}

// WebhookEndpoints lists configured webhook endpoints.
func (s *Stripe) WebhookEndpoints(ctx context.Context) (*StripeList[StripeWebhookEndpoint], error) {
	var l StripeList[StripeWebhookEndpoint]
	if err := s.rest.getJSON(ctx, "/webhook_endpoints", &l); err != nil {
		return nil, err
	}
	return &l, nil
}

// Events lists the most recent limit events.
func (s *Stripe) Events(ctx context.Context, limit int) (*StripeList[StripeEvent], error) {
	var l StripeList[StripeEvent]
	if err := s.rest.getJSON(ctx, fmt.Sprintf("/events?limit=%d", limit), &l); err != nil {
		return nil, err
	}
	return &l, nil
}

// ActiveSubscriptions lists up to limit active subscriptions.
func (s *Stripe) ActiveSubscriptions(ctx context.Context, limit int) (*StripeList[StripeSubscription], error) {
	var l StripeList[StripeSubscription]
	if err := s.rest.getJSON(ctx, fmt.Sprintf("/subscriptions?status=active&limit=%d", limit), &l); err != nil {
		return nil, err
	}
	return &l, nil
}
