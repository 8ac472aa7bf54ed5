package clients

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/saas-mcp/internal/common"
)

func newStripe(t *testing.T, handler http.HandlerFunc) *Stripe {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	s, err := NewStripe(srv.URL, "sk_test_123456789", 5*time.Second, common.NewSilentLogger())
	require.NoError(t, err)
	return s
}

func TestNewStripe_RejectsNonSecretKey(t *testing.T) {
	_, err := NewStripe("http://localhost", "pk_test_abc", time.Second, nil)
	assert.ErrorIs(t, err, ErrInvalidStripeKey)
}

func TestStripe_IsTestMode(t *testing.T) {
	live, err := NewStripe("http://localhost", "sk_live_abc", time.Second, nil)
	require.NoError(t, err)
	assert.False(t, live.IsTestMode())

	test, err := NewStripe("http://localhost", "sk_test_abc", time.Second, nil)
	require.NoError(t, err)
	assert.True(t, test.IsTestMode())
}

func TestStripe_BalanceSendsBearer(t *testing.T) {
	s := newStripe(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/balance", r.URL.Path)
		assert.Equal(t, "Bearer sk_test_123456789", r.Header.Get("Authorization"))
		w.Write([]byte(`{"available":[{"amount":123450,"currency":"usd"}]}`))
	})

	b, err := s.Balance(context.Background())
	require.NoError(t, err)
	require.Len(t, b.Available, 1)
	assert.Equal(t, int64(123450), b.Available[0].Amount)
}

func TestStripe_ActiveSubscriptionsQuery(t *testing.T) {
	s := newStripe(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/subscriptions", r.URL.Path)
		assert.Equal(t, "active", r.URL.Query().Get("status"))
		assert.Equal(t, "100", r.URL.Query().Get("limit"))
		w.Write([]byte(`{"data":[{"id":"sub_1","status":"active","items":{"data":[{"price":{"id":"price_1","unit_amount":1000,"currency":"usd","recurring":{"interval":"month","interval_count":1}},"quantity":2}]}}]}`))
	})

	subs, err := s.ActiveSubscriptions(context.Background(), 100)
	require.NoError(t, err)
	require.Len(t, subs.Data, 1)
	item := subs.Data[0].Items.Data[0]
	require.NotNil(t, item.Price.UnitAmount)
	assert.Equal(t, int64(1000), *item.Price.UnitAmount)
	assert.Equal(t, "month", item.Price.Recurring.Interval)
	assert.Equal(t, int64(2), item.Quantity)
}

func TestStripe_ErrorCarriesServiceContext(t *testing.T) {
	s := newStripe(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"Invalid API Key provided","type":"invalid_request_error"}}`))
	})

	_, err := s.Products(context.Background(), 10)
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "Stripe API error: 401 Invalid API Key provided", err.Error())
	assert.Equal(t, "Stripe API", apiErr.ErrorContext())
}

func TestStripe_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	s, err := NewStripe(srv.URL, "sk_test_x", time.Second, nil)
	require.NoError(t, err)

	_, err = s.Events(context.Background(), 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Stripe API error: ")
}

func TestSupabase_HeadersAndTables(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/", r.URL.Path)
		assert.Equal(t, "anon-key", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer service-key", r.Header.Get("Authorization"))
		if r.Header.Get("Accept") == "application/openapi+json" {
			w.Write([]byte(`{"definitions":{"users":{},"orders":{}}}`))
			return
		}
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	sb := NewSupabase(srv.URL+"/", "anon-key", "service-key", time.Second, nil)
	assert.NoError(t, sb.Health(context.Background()))

	tables, err := sb.Tables(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"orders", "users"}, tables)
}

func TestSupabase_AnonKeyIsBearerWithoutServiceKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer anon-key", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	sb := NewSupabase(srv.URL, "anon-key", "", time.Second, nil)
	assert.EqualError(t, sb.Health(context.Background()), "Supabase API error: 503")
}

func TestSupabase_DashboardURL(t *testing.T) {
	sb := NewSupabase("https://abc.supabase.co", "k", "", time.Second, nil)
	assert.Equal(t, "https://abc.supabase.com/project/_/functions", sb.DashboardURL("/project/_/functions"))
}

func TestVercel_Endpoints(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		switch r.URL.Path {
		case "/v2/user":
			w.Write([]byte(`{"user":{"username":"jdoe","email":"j@example.com"}}`))
		case "/v6/deployments":
			assert.Equal(t, "prj_1", r.URL.Query().Get("projectId"))
			w.Write([]byte(`{"deployments":[{"uid":"d1","url":"app.vercel.app","state":"READY","created":1700000000000}]}`))
		case "/v10/projects/prj_1/env":
			w.Write([]byte(`{"envs":[{"key":"DATABASE_URL","target":["production","preview"]}]}`))
		case "/v9/projects/prj_1/domains":
			w.Write([]byte(`{"domains":[{"name":"example.com","verified":true}]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error":{"code":"not_found","message":"Not Found"}}`))
		}
	}))
	defer srv.Close()

	v := NewVercel(srv.URL, "tok", time.Second, nil)
	ctx := context.Background()

	user, err := v.User(ctx)
	require.NoError(t, err)
	assert.Equal(t, "jdoe", user.DisplayName())

	deps, err := v.Deployments(ctx, "prj_1", 5)
	require.NoError(t, err)
	require.Len(t, deps, 1)
	assert.Equal(t, 2023, deps[0].CreatedAt().Year())

	envs, err := v.EnvVars(ctx, "prj_1")
	require.NoError(t, err)
	assert.Equal(t, []string{"production", "preview"}, envs[0].Target)

	domains, err := v.Domains(ctx, "prj_1")
	require.NoError(t, err)
	assert.True(t, domains[0].Verified)

	_, err = v.Projects(ctx)
	assert.EqualError(t, err, "Vercel API error: 404 Not Found")
}

func TestErrorDetail(t *testing.T) {
	assert.Equal(t, "plain", errorDetail([]byte(`{"error":"plain"}`)))
	assert.Equal(t, "nested", errorDetail([]byte(`{"error":{"message":"nested"}}`)))
	assert.Equal(t, "top", errorDetail([]byte(`{"message":"top"}`)))
	assert.Equal(t, "", errorDetail([]byte(`not json`)))
}
