package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/bobmcallan/saas-mcp/internal/common"
)

// Supabase inspects a Supabase project through its PostgREST endpoint.
type Supabase struct {
	rest       *restClient
	projectURL string
}

// NewSupabase creates a client. The service key, when given, is used as the
// bearer token in place of the anon key.
func NewSupabase(projectURL, anonKey, serviceKey string, timeout time.Duration, logger *common.Logger) *Supabase {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	token := anonKey
	if serviceKey != "" {
		token = serviceKey
	}
	headers := bearer(token)
	headers.Set("apikey", anonKey)
	logger.Debug().Str("anon_key", common.MaskSecret(anonKey, 12)).Bool("service_key", serviceKey != "").Msg("supabase client created")

	projectURL = strings.TrimRight(projectURL, "/")
	return &Supabase{
		rest:       newRestClient("Supabase", projectURL, timeout, logger, headers),
		projectURL: projectURL,
	}
}

// ProjectURL returns the project URL without a trailing slash.
func (s *Supabase) ProjectURL() string {
	return s.projectURL
}

// Health returns nil when the REST endpoint answers with a 2xx status.
func (s *Supabase) Health(ctx context.Context) error {
	_, err := s.rest.get(ctx, "/rest/v1/", nil)
	return err
}

// Tables lists the table names published in the OpenAPI description, sorted.
func (s *Supabase) Tables(ctx context.Context) ([]string, error) {
	accept := make(http.Header)
	accept.Set("Accept", "application/openapi+json")
	body, err := s.rest.get(ctx, "/rest/v1/", accept)
	if err != nil {
		return nil, err
	}

	var schema struct {
		Definitions map[string]json.RawMessage `json:"definitions"`
	}
	if err := json.Unmarshal(body, &schema); err != nil {
		return nil, &APIError{Service: "Supabase", Err: fmt.Errorf("failed to decode OpenAPI schema: %w", err)}
	}

	tables := make([]string, 0, len(schema.Definitions))
	for name := range schema.Definitions {
		tables = append(tables, name)
	}
	sort.Strings(tables)
	return tables, nil
}

// DashboardURL maps the project URL onto the dashboard host and appends path.
func (s *Supabase) DashboardURL(path string) string {
	return strings.Replace(s.projectURL, ".supabase.co", ".supabase.com", 1) + path
}
