package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/bobmcallan/saas-mcp/internal/browser"
	"github.com/bobmcallan/saas-mcp/internal/common"
	"github.com/bobmcallan/saas-mcp/internal/dispatch"
	"github.com/bobmcallan/saas-mcp/internal/fanout"
	"github.com/bobmcallan/saas-mcp/internal/intent"
	"github.com/bobmcallan/saas-mcp/internal/names"
	"github.com/bobmcallan/saas-mcp/internal/registry"
	"github.com/bobmcallan/saas-mcp/internal/scan"
	"github.com/bobmcallan/saas-mcp/internal/tooldef"
)

// Workflow returns the workflow catalog. github_clone_template is declared
// in both catalogs and collapses onto the core entry.
func (s *Set) Workflow() []registry.Tool {
	tools := []registry.Tool{
		tool(tooldef.ToolDef{
			Name:        "korean_natural",
			Title:       "Korean intent",
			Description: "Understand a Korean natural-language request and report which tool would serve it.",
			Params: []tooldef.ParamDef{
				tooldef.String("input", "Korean request, e.g. \"쇼핑몰 만들어줘\"", true),
				tooldef.String("context", "Current project context (optional)", false),
			},
			ReadOnly: true,
		}, dispatch.Bind("korean_natural", s.koreanNatural)),
		tool(tooldef.ToolDef{
			Name:        "critical_first",
			Title:       "Critical issues first",
			Description: "Heuristically scan JS/TS sources for infinite loops, SQL injection and XSS patterns, most severe first.",
			Params: []tooldef.ParamDef{
				tooldef.String("projectPath", "Project root (default: current directory)", false),
				tooldef.Boolean("autoFix", "Apply fixes automatically (not supported)", false),
			},
			ReadOnly: true,
		}, dispatch.Bind("critical_first", s.criticalFirst)),
		tool(tooldef.ToolDef{
			Name:        "parallel",
			Title:       "Parallel tasks",
			Description: "Run several tool calls concurrently under a concurrency cap and report each outcome.",
			Params: []tooldef.ParamDef{
				tooldef.ObjectArray("tasks", "Tasks to run", true,
					tooldef.String("name", "Task label", true),
					tooldef.String("agent", "Tool to call", true),
					tooldef.Object("args", "Tool arguments", false),
				),
				tooldef.Integer("maxConcurrency", "Maximum tasks in flight (default: 3)", false),
			},
		}, dispatch.Bind("parallel", s.parallel)),
		tool(tooldef.ToolDef{
			Name:        "name_generator",
			Title:       "Name generator",
			Description: "Suggest product names from Korean and English stems for a business domain.",
			Params: []tooldef.ParamDef{
				tooldef.String("domain", "Business domain", true, names.Domains...),
				tooldef.String("style", "Naming style (default: mixed)", false, names.StyleKorean, names.StyleEnglish, names.StyleMixed),
				tooldef.Integer("count", "Number of names (default: 10, max: 50)", false),
			},
			ReadOnly: true,
		}, dispatch.Bind("name_generator", s.nameGenerator)),
		tool(tooldef.ToolDef{
			Name:        "browser_test",
			Title:       "Browser audit",
			Description: "Load a page in headless Chrome per device and audit responsiveness, load time, accessibility, SEO and security basics.",
			Params: []tooldef.ParamDef{
				tooldef.String("url", "Page URL", true),
				tooldef.StringArray("tests", "Test categories (default: all)", false, browser.AllTests...),
				tooldef.Boolean("screenshot", "Save a full-page screenshot per device", false),
				tooldef.StringArray("devices", "Viewport presets (default: desktop)", false, browser.DeviceNames()...),
			},
			ReadOnly: true, OpenWorld: true,
		}, dispatch.Bind("browser_test", s.browserTest)),
		tool(tooldef.ToolDef{
			Name:        "get_version",
			Title:       "Version",
			Description: "Get the server name, version, build and commit. Use this to verify connectivity.",
			ReadOnly:    true,
		}, dispatch.Bind("get_version", s.getVersion)),
		tool(githubCloneDef, dispatch.Bind("github_clone_template", s.githubClone)),
	}
	return append(tools, placeholders()...)
}

// --- korean_natural ---

type koreanNaturalRequest struct {
	Input   string `json:"input"`
	Context string `json:"context"`
}

type intentResult struct {
	Input   string
	Context string
	Match   intent.Match
	Found   bool
}

func (s *Set) koreanNatural(_ context.Context, req koreanNaturalRequest) (*intentResult, error) {
	m, ok := s.classifier.Classify(req.Input)
	return &intentResult{Input: req.Input, Context: req.Context, Match: m, Found: ok}, nil
}

func (r *intentResult) Render() string {
	var b strings.Builder
	if !r.Found {
		fmt.Fprintf(&b, "❓ Unrecognized request: %q\n\nSupported patterns:", r.Input)
		for _, ex := range intent.Examples {
			b.WriteString("\n- " + ex)
		}
		return b.String()
	}
	p := r.Match.Pattern
	fmt.Fprintf(&b, "🎯 Intent: %s\n📋 Action: %s\n🔍 Confidence: %s\n🔑 Keyword: %s",
		p.Intent, p.Action, common.FormatPct(p.Confidence), r.Match.Keyword)
	if r.Context != "" {
		fmt.Fprintf(&b, "\n📁 Context: %s", r.Context)
	}
	return b.String()
}

// --- critical_first ---

type criticalFirstRequest struct {
	ProjectPath string `json:"projectPath"`
	AutoFix     bool   `json:"autoFix"`
}

func (r *criticalFirstRequest) Defaults() {
	if r.ProjectPath == "" {
		r.ProjectPath = "."
	}
}

func (s *Set) criticalFirst(_ context.Context, req criticalFirstRequest) (*scan.Report, error) {
	scanner := scan.Scanner{MaxFiles: s.cfg.Scan.MaxFiles}
	report, err := scanner.Scan(req.ProjectPath)
	if errors.Is(err, scan.ErrProjectNotFound) {
		return nil, &dispatch.NotFoundError{What: "project directory", Path: req.ProjectPath}
	}
	if err != nil {
		return nil, err
	}
	report.AutoFix = req.AutoFix
	return report, nil
}

// --- parallel ---

type parallelTask struct {
	Name  string         `json:"name"`
	Agent string         `json:"agent"`
	Args  map[string]any `json:"args"`
}

type parallelRequest struct {
	Tasks          []parallelTask `json:"tasks"`
	MaxConcurrency int            `json:"maxConcurrency"`
}

func (r *parallelRequest) Validate() error {
	if len(r.Tasks) == 0 {
		return fmt.Errorf("tasks must not be empty")
	}
	if r.MaxConcurrency < 0 {
		return fmt.Errorf("maxConcurrency must be positive")
	}
	return nil
}

type parallelResult struct {
	Tasks       []parallelTask
	Outcomes    []fanout.Outcome[string]
	Concurrency int
	Elapsed     time.Duration
}

func (s *Set) parallel(ctx context.Context, req parallelRequest) (*parallelResult, error) {
	if maxTasks := s.cfg.Parallel.MaxTasks; maxTasks > 0 && len(req.Tasks) > maxTasks {
		return nil, dispatch.Invalid("parallel", "at most %d tasks are allowed, got %d", maxTasks, len(req.Tasks))
	}
	caller, err := s.getCaller()
	if err != nil {
		return nil, err
	}

	limit := req.MaxConcurrency
	if limit == 0 {
		limit = s.cfg.Parallel.DefaultConcurrency
	}
	if limit > s.cfg.Parallel.MaxConcurrency {
		limit = s.cfg.Parallel.MaxConcurrency
	}

	start := time.Now()
	outcomes := fanout.Run(ctx, req.Tasks, limit, func(ctx context.Context, _ int, task parallelTask) (string, error) {
		if task.Agent == "parallel" {
			return "", fmt.Errorf("parallel cannot run itself")
		}
		res := caller.Dispatch(ctx, task.Agent, task.Args)
		if res.IsError {
			return "", errors.New(res.Text)
		}
		return res.Text, nil
	})

	return &parallelResult{Tasks: req.Tasks, Outcomes: outcomes, Concurrency: limit, Elapsed: time.Since(start)}, nil
}

func (r *parallelResult) Render() string {
	sum := fanout.Summarize(r.Outcomes)
	var b strings.Builder
	fmt.Fprintf(&b, "🔀 Parallel run finished in %dms\n\n", r.Elapsed.Milliseconds())
	fmt.Fprintf(&b, "Tasks: %d | ✅ %d succeeded | ❌ %d failed | concurrency %d\n",
		sum.Total, sum.Succeeded, sum.Failed, r.Concurrency)

	for i, o := range r.Outcomes {
		task := r.Tasks[i]
		name := task.Name
		if name == "" {
			name = fmt.Sprintf("task %d", i+1)
		}
		status, text := "✅", o.Value
		if !o.OK() {
			status, text = "❌", o.Err.Error()
		}
		fmt.Fprintf(&b, "\n%d. %s %s (%s) %dms\n", i+1, status, name, task.Agent, o.Duration.Milliseconds())
		b.WriteString(indent(text, "   "))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func indent(text, prefix string) string {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}

// --- name_generator ---

type nameGeneratorRequest struct {
	Domain string `json:"domain"`
	Style  string `json:"style"`
	Count  int    `json:"count"`
}

func (r *nameGeneratorRequest) Defaults() {
	if r.Style == "" {
		r.Style = names.StyleMixed
	}
	if r.Count == 0 {
		r.Count = 10
	}
}

func (r *nameGeneratorRequest) Validate() error {
	if r.Count < 1 || r.Count > names.MaxCount {
		return fmt.Errorf("count must be between 1 and %d", names.MaxCount)
	}
	return nil
}

func (s *Set) nameGenerator(_ context.Context, req nameGeneratorRequest) (*names.Result, error) {
	return &names.Result{
		Domain: req.Domain,
		Style:  req.Style,
		Names:  s.names.Generate(req.Domain, req.Style, req.Count),
	}, nil
}

// --- browser_test ---

type browserTestRequest struct {
	URL        string   `json:"url"`
	Tests      []string `json:"tests"`
	Screenshot bool     `json:"screenshot"`
	Devices    []string `json:"devices"`
}

func (r *browserTestRequest) Validate() error {
	u, err := url.Parse(r.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("url must be an http(s) URL, got %q", r.URL)
	}
	return nil
}

func (s *Set) browserTest(ctx context.Context, req browserTestRequest) (*browser.Report, error) {
	return s.browser.Audit(ctx, browser.Request{
		URL:        req.URL,
		Tests:      req.Tests,
		Screenshot: req.Screenshot,
		Devices:    req.Devices,
	})
}

// --- get_version ---

type versionRequest struct{}

type versionInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Build   string `json:"build"`
	Commit  string `json:"commit"`
}

func (s *Set) getVersion(_ context.Context, _ versionRequest) (dispatch.Text, error) {
	out, err := json.Marshal(versionInfo{
		Name:    s.cfg.Server.Name,
		Version: common.GetVersion(),
		Build:   common.GetBuild(),
		Commit:  common.GetGitCommit(),
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal version info: %w", err)
	}
	return dispatch.Text(out), nil
}
