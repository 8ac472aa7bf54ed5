package clients

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/bobmcallan/saas-mcp/internal/common"
)

// VercelUser is the authenticated account.
type VercelUser struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Username string `json:"username"`
}

// DisplayName prefers the full name over the username.
func (u VercelUser) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Username
}

// VercelProject is a project summary.
type VercelProject struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Framework string `json:"framework"`
}

// VercelDeployment is a deployment summary. Created is in milliseconds.
type VercelDeployment struct {
	UID     string `json:"uid"`
	URL     string `json:"url"`
	State   string `json:"state"`
	Created int64  `json:"created"`
}

// CreatedAt returns the deployment time.
func (d VercelDeployment) CreatedAt() time.Time {
	return time.UnixMilli(d.Created).UTC()
}

// VercelEnv is an environment variable definition. Values are not read.
type VercelEnv struct {
	Key    string   `json:"key"`
	Target []string `json:"target"`
	Type   string   `json:"type"`
}

// VercelDomain is a domain attached to a project.
type VercelDomain struct {
	Name     string `json:"name"`
	Verified bool   `json:"verified"`
}

// Vercel is a read-only client for the Vercel REST API.
type Vercel struct {
	rest *restClient
}

// NewVercel creates a client authenticated with token.
func NewVercel(baseURL, token string, timeout time.Duration, logger *common.Logger) *Vercel {
	if logger != nil {
		logger.Debug().Str("token", common.MaskSecret(token, 8)).Msg("vercel client created")
	}
	return &Vercel{rest: newRestClient("Vercel", baseURL, timeout, logger, bearer(token))}
}

// User returns the authenticated user.
func (v *Vercel) User(ctx context.Context) (*VercelUser, error) {
	var resp struct {
		User VercelUser `json:"user"`
	}
	if err := v.rest.getJSON(ctx, "/v2/user", &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// Projects lists the account's projects.
func (v *Vercel) Projects(ctx context.Context) ([]VercelProject, error) {
	var resp struct {
		Projects []VercelProject `json:"projects"`
	}
	if err := v.rest.getJSON(ctx, "/v9/projects", &resp); err != nil {
		return nil, err
	}
	return resp.Projects, nil
}

// Deployments lists the most recent limit deployments of a project.
func (v *Vercel) Deployments(ctx context.Context, projectID string, limit int) ([]VercelDeployment, error) {
	var resp struct {
		Deployments []VercelDeployment `json:"deployments"`
	}
	path := fmt.Sprintf("/v6/deployments?projectId=%s&limit=%d", url.QueryEscape(projectID), limit)
	if err := v.rest.getJSON(ctx, path, &resp); err != nil {
		return nil, err
	}
	return resp.Deployments, nil
}

// EnvVars lists a project's environment variable definitions.
func (v *Vercel) EnvVars(ctx context.Context, projectID string) ([]VercelEnv, error) {
	var resp struct {
		Envs []VercelEnv `json:"envs"`
	}
	if err := v.rest.getJSON(ctx, "/v10/projects/"+url.PathEscape(projectID)+"/env", &resp); err != nil {
		return nil, err
	}
	return resp.Envs, nil
}

// Domains lists a project's domains.
func (v *Vercel) Domains(ctx context.Context, projectID string) ([]VercelDomain, error) {
	var resp struct {
		Domains []VercelDomain `json:"domains"`
	}
	if err := v.rest.getJSON(ctx, "/v9/projects/"+url.PathEscape(projectID)+"/domains", &resp); err != nil {
		return nil, err
	}
	return resp.Domains, nil
}
