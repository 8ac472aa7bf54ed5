package tools

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/bobmcallan/saas-mcp/internal/clients"
	"github.com/bobmcallan/saas-mcp/internal/dispatch"
	"github.com/bobmcallan/saas-mcp/internal/envfile"
	"github.com/bobmcallan/saas-mcp/internal/healthcheck"
	"github.com/bobmcallan/saas-mcp/internal/npm"
	"github.com/bobmcallan/saas-mcp/internal/prisma"
	"github.com/bobmcallan/saas-mcp/internal/registry"
	"github.com/bobmcallan/saas-mcp/internal/revenue"
	"github.com/bobmcallan/saas-mcp/internal/scaffold"
	"github.com/bobmcallan/saas-mcp/internal/template"
	"github.com/bobmcallan/saas-mcp/internal/tooldef"
)

// maxHealthCheckTimeout bounds the caller-supplied api_healthcheck timeout.
const maxHealthCheckTimeout = 60000

var githubCloneDef = tooldef.ToolDef{
	Name:        "github_clone_template",
	Title:       "Clone GitHub template",
	Description: "Clone a SaaS starter template from GitHub into a new project directory and start a fresh git history.",
	Params: []tooldef.ParamDef{
		tooldef.String("template", "Template name (nextjs-saas, t3-app, nextjs-subscription, shadcn-admin, next-saas-stripe, taxonomy) or a https://github.com/owner/repo URL", true),
		tooldef.String("projectName", "Name of the new project directory", true),
		tooldef.String("targetDir", "Parent directory (default: current directory)", false),
	},
	OpenWorld: true,
}

// Core returns the API tool catalog.
func (s *Set) Core() []registry.Tool {
	return []registry.Tool{
		tool(githubCloneDef, dispatch.Bind("github_clone_template", s.githubClone)),
		tool(tooldef.ToolDef{
			Name:        "stripe_check",
			Title:       "Stripe check",
			Description: "Check a Stripe account: connection and balance, products, prices, webhook endpoints or recent events.",
			Params: []tooldef.ParamDef{
				tooldef.String("secretKey", "Stripe secret key (sk_test_... or sk_live_...)", true),
				tooldef.String("action", "What to inspect", true, "status", "products", "prices", "webhooks", "events"),
			},
			ReadOnly: true, OpenWorld: true,
		}, dispatch.Bind("stripe_check", s.stripeCheck)),
		tool(tooldef.ToolDef{
			Name:        "supabase_check",
			Title:       "Supabase check",
			Description: "Check a Supabase project: REST health, tables, or dashboard links for RLS policies and edge functions.",
			Params: []tooldef.ParamDef{
				tooldef.String("projectUrl", "Project URL, e.g. https://xyz.supabase.co", true),
				tooldef.String("anonKey", "Anon (public) key", true),
				tooldef.String("serviceKey", "Service role key (optional, needed to list tables)", false),
				tooldef.String("action", "What to inspect", true, "status", "tables", "rls", "functions"),
			},
			ReadOnly: true, OpenWorld: true,
		}, dispatch.Bind("supabase_check", s.supabaseCheck)),
		tool(tooldef.ToolDef{
			Name:        "vercel_deploy",
			Title:       "Vercel",
			Description: "Inspect Vercel: account status, projects and recent deployments, environment variables, domains or logs.",
			Params: []tooldef.ParamDef{
				tooldef.String("token", "Vercel access token", true),
				tooldef.String("projectId", "Project ID (required for envs and domains)", false),
				tooldef.String("action", "What to inspect", true, "status", "deploy", "envs", "domains", "logs"),
			},
			ReadOnly: true, OpenWorld: true,
		}, dispatch.Bind("vercel_deploy", s.vercelDeploy)),
		tool(tooldef.ToolDef{
			Name:        "env_validate",
			Title:       "Validate .env",
			Description: "Validate a project's .env file for NextAuth, Stripe, Supabase and database variables.",
			Params: []tooldef.ParamDef{
				tooldef.String("projectPath", "Project root directory", true),
				tooldef.String("type", "Variable group to check (default: all)", false, "nextauth", "stripe", "supabase", "all"),
			},
			ReadOnly: true,
		}, dispatch.Bind("env_validate", s.envValidate)),
		tool(tooldef.ToolDef{
			Name:        "prisma_analyze",
			Title:       "Analyze Prisma schema",
			Description: "Analyze a Prisma schema file: models, relations and indexes, an ASCII diagram, or migration history.",
			Params: []tooldef.ParamDef{
				tooldef.String("schemaPath", "Path to schema.prisma", true),
				tooldef.String("action", "What to produce (default: analyze)", false, "analyze", "visualize", "migrations"),
			},
			ReadOnly: true,
		}, dispatch.Bind("prisma_analyze", s.prismaAnalyze)),
		tool(tooldef.ToolDef{
			Name:        "api_healthcheck",
			Title:       "API health check",
			Description: "Probe HTTP endpoints concurrently and report status, latency and timeouts.",
			Params: []tooldef.ParamDef{
				tooldef.StringArray("endpoints", "URLs to probe", true),
				tooldef.Integer("timeout", "Per-endpoint timeout in milliseconds (default: 5000)", false),
			},
			ReadOnly: true, OpenWorld: true,
		}, dispatch.Bind("api_healthcheck", s.apiHealthcheck)),
		tool(tooldef.ToolDef{
			Name:        "deps_security",
			Title:       "Dependency security",
			Description: "Run npm audit, list outdated packages or summarise dependency licenses.",
			Params: []tooldef.ParamDef{
				tooldef.String("projectPath", "Project root containing package.json", true),
				tooldef.String("action", "What to check (default: audit)", false, "audit", "outdated", "licenses"),
			},
			ReadOnly: true,
		}, dispatch.Bind("deps_security", s.depsSecurity)),
		tool(tooldef.ToolDef{
			Name:        "saas_metrics",
			Title:       "SaaS metrics",
			Description: "Compute MRR, active subscribers and ARPU from Stripe subscriptions.",
			Params: []tooldef.ParamDef{
				tooldef.String("stripeKey", "Stripe secret key", true),
				tooldef.String("period", "Reporting period label (default: month)", false, revenue.Periods...),
			},
			ReadOnly: true, OpenWorld: true,
		}, dispatch.Bind("saas_metrics", s.saasMetrics)),
		tool(tooldef.ToolDef{
			Name:        "saas_init",
			Title:       "Initialise SaaS project",
			Description: "Create a Next.js SaaS project with auth, payments, database and UI tooling installed.",
			Params: []tooldef.ParamDef{
				tooldef.String("projectName", "Project name", true),
				tooldef.String("targetDir", "Parent directory (default: current directory)", false),
				tooldef.StringArray("features", "Features to install (default: auth, stripe, prisma, shadcn)", false, scaffold.AllFeatures...),
			},
			Destructive: true, OpenWorld: true,
		}, dispatch.Bind("saas_init", s.saasInit)),
	}
}

// --- github_clone_template ---

type githubCloneRequest struct {
	Template    string `json:"template"`
	ProjectName string `json:"projectName"`
	TargetDir   string `json:"targetDir"`
}

func (s *Set) githubClone(ctx context.Context, req githubCloneRequest) (*template.Result, error) {
	res, err := s.cloner.Clone(ctx, template.Request{
		Template:    req.Template,
		ProjectName: req.ProjectName,
		TargetDir:   req.TargetDir,
	})
	if err != nil {
		return nil, inputError("github_clone_template", err)
	}
	return res, nil
}

// inputError turns rejected arguments into validation errors and passes
// everything else through.
func inputError(tool string, err error) error {
	var inputErr *template.InputError
	var unknown *template.UnknownTemplateError
	switch {
	case errors.As(err, &inputErr):
		return dispatch.Invalid(tool, "%v", inputErr.Err)
	case errors.As(err, &unknown):
		return dispatch.Invalid(tool, "%v", unknown)
	}
	return err
}

// --- stripe_check ---

type stripeCheckRequest struct {
	SecretKey string `json:"secretKey"`
	Action    string `json:"action"`
}

func (s *Set) newStripe(tool, key string) (*clients.Stripe, error) {
	client, err := clients.NewStripe(s.cfg.APIs.StripeURL, key, s.cfg.APIs.RequestTimeout(), s.logger)
	if err != nil {
		return nil, dispatch.Invalid(tool, "%v", err)
	}
	return client, nil
}

func (s *Set) stripeCheck(ctx context.Context, req stripeCheckRequest) (dispatch.Renderer, error) {
	client, err := s.newStripe("stripe_check", req.SecretKey)
	if err != nil {
		return nil, err
	}

	switch req.Action {
	case "status":
		balance, err := client.Balance(ctx)
		if err != nil {
			return nil, err
		}
		return &stripeStatus{TestMode: client.IsTestMode(), Balance: balance}, nil
	case "products":
		list, err := client.Products(ctx, 10)
		if err != nil {
			return nil, err
		}
		return stripeProducts(list.Data), nil
	case "prices":
		list, err := client.Prices(ctx, 10)
		if err != nil {
			return nil, err
		}
		return stripePrices(list.Data), nil
	case "webhooks":
		list, err := client.WebhookEndpoints(ctx)
		if err != nil {
			return nil, err
		}
		return stripeWebhooks(list.Data), nil
	case "events":
		list, err := client.Events(ctx, 5)
		if err != nil {
			return nil, err
		}
		return stripeEvents(list.Data), nil
	}
	return nil, dispatch.Invalid("stripe_check", "unknown action %q", req.Action)
}

// --- supabase_check ---

type supabaseCheckRequest struct {
	ProjectURL string `json:"projectUrl"`
	AnonKey    string `json:"anonKey"`
	ServiceKey string `json:"serviceKey"`
	Action     string `json:"action"`
}

func (r *supabaseCheckRequest) Validate() error {
	u, err := url.Parse(r.ProjectURL)
	if err != nil || (u.Scheme != "https" && u.Scheme != "http") || u.Host == "" {
		return fmt.Errorf("projectUrl must be an http(s) URL, got %q", r.ProjectURL)
	}
	if strings.TrimSpace(r.AnonKey) == "" {
		return fmt.Errorf("anonKey must not be empty")
	}
	return nil
}

func (s *Set) supabaseCheck(ctx context.Context, req supabaseCheckRequest) (dispatch.Renderer, error) {
	client := clients.NewSupabase(req.ProjectURL, req.AnonKey, req.ServiceKey, s.cfg.APIs.RequestTimeout(), s.logger)

	switch req.Action {
	case "status":
		if err := client.Health(ctx); err != nil {
			return nil, err
		}
		return dispatch.Text(fmt.Sprintf("✅ Supabase connected\n\nURL: %s\nStatus: healthy", client.ProjectURL())), nil
	case "tables":
		tables, err := client.Tables(ctx)
		if err != nil {
			return nil, err
		}
		return supabaseTables(tables), nil
	case "rls":
		return dispatch.Text("🔒 Row Level Security\n\nReview RLS policies in the Supabase dashboard:\n" +
			client.DashboardURL("/project/_/auth/policies")), nil
	case "functions":
		return dispatch.Text("⚡ Edge Functions\n\nEdge functions are listed in the Supabase dashboard:\n" +
			client.DashboardURL("/project/_/functions")), nil
	}
	return nil, dispatch.Invalid("supabase_check", "unknown action %q", req.Action)
}

// --- vercel_deploy ---

type vercelDeployRequest struct {
	Token     string `json:"token"`
	ProjectID string `json:"projectId"`
	Action    string `json:"action"`
}

func (r *vercelDeployRequest) Validate() error {
	if strings.TrimSpace(r.Token) == "" {
		return fmt.Errorf("token must not be empty")
	}
	if (r.Action == "envs" || r.Action == "domains") && r.ProjectID == "" {
		return fmt.Errorf("projectId is required for action %q", r.Action)
	}
	return nil
}

func (s *Set) vercelDeploy(ctx context.Context, req vercelDeployRequest) (dispatch.Renderer, error) {
	client := clients.NewVercel(s.cfg.APIs.VercelURL, req.Token, s.cfg.APIs.RequestTimeout(), s.logger)

	switch req.Action {
	case "status":
		user, err := client.User(ctx)
		if err != nil {
			return nil, err
		}
		return dispatch.Text(fmt.Sprintf("✅ Vercel connected\n\n👤 User: %s\n📧 Email: %s", user.DisplayName(), user.Email)), nil
	case "deploy":
		if req.ProjectID == "" {
			projects, err := client.Projects(ctx)
			if err != nil {
				return nil, err
			}
			return vercelProjects(projects), nil
		}
		deployments, err := client.Deployments(ctx, req.ProjectID, 5)
		if err != nil {
			return nil, err
		}
		return vercelDeployments(deployments), nil
	case "envs":
		envs, err := client.EnvVars(ctx, req.ProjectID)
		if err != nil {
			return nil, err
		}
		return vercelEnvs(envs), nil
	case "domains":
		domains, err := client.Domains(ctx, req.ProjectID)
		if err != nil {
			return nil, err
		}
		return vercelDomains(domains), nil
	case "logs":
		return dispatch.Text("📋 Logs\n\nDeployment logs are available in the Vercel dashboard:\nhttps://vercel.com/dashboard"), nil
	}
	return nil, dispatch.Invalid("vercel_deploy", "unknown action %q", req.Action)
}

// --- env_validate ---

type envValidateRequest struct {
	ProjectPath string `json:"projectPath"`
	Type        string `json:"type"`
}

func (r *envValidateRequest) Defaults() {
	if r.Type == "" {
		r.Type = envfile.GroupAll
	}
}

func (s *Set) envValidate(_ context.Context, req envValidateRequest) (*envfile.Report, error) {
	report, err := envfile.Validate(req.ProjectPath, req.Type)
	if errors.Is(err, envfile.ErrProjectNotFound) {
		return nil, &dispatch.NotFoundError{What: "project directory", Path: req.ProjectPath}
	}
	return report, err
}

// --- prisma_analyze ---

type prismaAnalyzeRequest struct {
	SchemaPath string `json:"schemaPath"`
	Action     string `json:"action"`
}

func (r *prismaAnalyzeRequest) Defaults() {
	if r.Action == "" {
		r.Action = "analyze"
	}
}

func (s *Set) prismaAnalyze(_ context.Context, req prismaAnalyzeRequest) (dispatch.Renderer, error) {
	schema, err := prisma.Load(req.SchemaPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, &dispatch.NotFoundError{What: "schema file", Path: req.SchemaPath}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read schema: %w", err)
	}

	switch req.Action {
	case "analyze":
		return prisma.Analyze(schema), nil
	case "visualize":
		return &prisma.Diagram{Schema: schema}, nil
	case "migrations":
		return prisma.LoadMigrations(req.SchemaPath)
	}
	return nil, dispatch.Invalid("prisma_analyze", "unknown action %q", req.Action)
}

// --- api_healthcheck ---

type apiHealthcheckRequest struct {
	Endpoints []string `json:"endpoints"`
	Timeout   int      `json:"timeout"`
}

func (r *apiHealthcheckRequest) Validate() error {
	if len(r.Endpoints) == 0 {
		return fmt.Errorf("endpoints must not be empty")
	}
	for _, e := range r.Endpoints {
		u, err := url.Parse(e)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("endpoint %q is not an http(s) URL", e)
		}
	}
	if r.Timeout < 0 || r.Timeout > maxHealthCheckTimeout {
		return fmt.Errorf("timeout must be between 0 and %d ms (0 uses the default)", maxHealthCheckTimeout)
	}
	return nil
}

func (s *Set) apiHealthcheck(ctx context.Context, req apiHealthcheckRequest) (*healthcheck.Report, error) {
	timeout := req.Timeout
	if timeout == 0 {
		timeout = s.cfg.HealthCheck.DefaultTimeoutMs
	}
	checker := healthcheck.NewChecker(s.logger)
	return checker.CheckAll(ctx, req.Endpoints, time.Duration(timeout)*time.Millisecond), nil
}

// --- deps_security ---

type depsSecurityRequest struct {
	ProjectPath string `json:"projectPath"`
	Action      string `json:"action"`
}

func (r *depsSecurityRequest) Defaults() {
	if r.Action == "" {
		r.Action = "audit"
	}
}

func (s *Set) depsSecurity(ctx context.Context, req depsSecurityRequest) (dispatch.Renderer, error) {
	if err := npm.CheckProject(req.ProjectPath); err != nil {
		return nil, &dispatch.NotFoundError{What: "package.json", Path: filepath.Join(req.ProjectPath, "package.json")}
	}

	switch req.Action {
	case "audit":
		return s.npm.Audit(ctx, req.ProjectPath)
	case "outdated":
		return s.npm.Outdated(ctx, req.ProjectPath)
	case "licenses":
		return s.npm.Licenses(req.ProjectPath)
	}
	return nil, dispatch.Invalid("deps_security", "unknown action %q", req.Action)
}

// --- saas_metrics ---

type saasMetricsRequest struct {
	StripeKey string `json:"stripeKey"`
	Period    string `json:"period"`
}

func (r *saasMetricsRequest) Defaults() {
	if r.Period == "" {
		r.Period = "month"
	}
}

func (s *Set) saasMetrics(ctx context.Context, req saasMetricsRequest) (*revenue.Metrics, error) {
	client, err := s.newStripe("saas_metrics", req.StripeKey)
	if err != nil {
		return nil, err
	}
	subs, err := client.ActiveSubscriptions(ctx, 100)
	if err != nil {
		return nil, err
	}
	m := revenue.Compute(subs.Data, req.Period)
	m.TestMode = client.IsTestMode()
	m.Truncated = subs.HasMore
	return m, nil
}

// --- saas_init ---

type saasInitRequest struct {
	ProjectName string   `json:"projectName"`
	TargetDir   string   `json:"targetDir"`
	Features    []string `json:"features"`
}

func (r *saasInitRequest) Validate() error {
	return scaffold.Validate(scaffold.Request{ProjectName: r.ProjectName, TargetDir: r.TargetDir, Features: r.Features})
}

func (s *Set) saasInit(ctx context.Context, req saasInitRequest) (*scaffold.Result, error) {
	return s.scaffold.Init(ctx, scaffold.Request{
		ProjectName: req.ProjectName,
		TargetDir:   req.TargetDir,
		Features:    req.Features,
	})
}
