// Package template clones starter repositories from GitHub into a fresh
// project directory.
package template

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5"

	"github.com/bobmcallan/saas-mcp/internal/common"
	"github.com/bobmcallan/saas-mcp/internal/runner"
)

var (
	projectNameRe = regexp.MustCompile(`^[a-zA-Z0-9_][a-zA-Z0-9_-]*$`)
	githubURLRe   = regexp.MustCompile(`^https://github\.com/[a-zA-Z0-9_-]+/[a-zA-Z0-9_.-]+$`)
)

// ValidateProjectName accepts letters, digits, hyphens and underscores. A
// leading hyphen is rejected so the name can never be read as an option.
func ValidateProjectName(name string) error {
	if strings.HasPrefix(name, "-") {
		return fmt.Errorf("invalid project name %q: must not start with '-'", name)
	}
	if !projectNameRe.MatchString(name) {
		return fmt.Errorf("invalid project name %q: only letters, digits, '-' and '_' are allowed", name)
	}
	return nil
}

// CommandPath returns p in a form a subprocess cannot mistake for a flag:
// relative paths are prefixed with "./".
func CommandPath(p string) string {
	if filepath.IsAbs(p) || strings.HasPrefix(p, "./") || strings.HasPrefix(p, "../") {
		return p
	}
	return "./" + p
}

// ValidateGitHubURL accepts https://github.com/<owner>/<repo> only.
func ValidateGitHubURL(url string) error {
	if !githubURLRe.MatchString(url) {
		return fmt.Errorf("invalid GitHub URL %q: only https://github.com/owner/repo is allowed", url)
	}
	return nil
}

// ValidateTargetDir rejects paths containing ".." or "~".
func ValidateTargetDir(dir string) error {
	if strings.Contains(dir, "..") || strings.Contains(dir, "~") {
		return fmt.Errorf("invalid target directory %q: '..' and '~' are not allowed", dir)
	}
	return nil
}

// UnknownTemplateError is a template name with no configured repository.
type UnknownTemplateError struct {
	Name      string
	Available []string
}

func (e *UnknownTemplateError) Error() string {
	return fmt.Sprintf("unknown template %q (available: %s, or a https://github.com/owner/repo URL)",
		e.Name, strings.Join(e.Available, ", "))
}

// InputError is an argument rejected before anything runs.
type InputError struct {
	Err error
}

func (e *InputError) Error() string { return e.Err.Error() }

func (e *InputError) Unwrap() error { return e.Err }

// Cloner clones templates with git and reinitialises the result as a new
// repository.
type Cloner struct {
	runner    runner.Runner
	templates map[string]string
	logger    *common.Logger
}

// NewCloner creates a Cloner for the named templates.
func NewCloner(r runner.Runner, templates map[string]string, logger *common.Logger) *Cloner {
	if logger == nil {
		logger = common.NewSilentLogger()
	}
	return &Cloner{runner: r, templates: templates, logger: logger}
}

// Names returns the template names, sorted.
func (c *Cloner) Names() []string {
	names := make([]string, 0, len(c.templates))
	for name := range c.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve maps a template name or GitHub URL to a repository URL.
func (c *Cloner) Resolve(template string) (string, error) {
	if strings.HasPrefix(template, "http") {
		if err := ValidateGitHubURL(template); err != nil {
			return "", &InputError{Err: err}
		}
		return template, nil
	}
	url, ok := c.templates[template]
	if !ok {
		return "", &UnknownTemplateError{Name: template, Available: c.Names()}
	}
	return url, nil
}

// Request describes one clone.
type Request struct {
	Template    string
	ProjectName string
	TargetDir   string
}

// Result is a completed clone.
type Result struct {
	ProjectName string
	Path        string
	Source      string
}

// Validate checks the request without touching the filesystem.
func (c *Cloner) Validate(req Request) error {
	if err := ValidateProjectName(req.ProjectName); err != nil {
		return &InputError{Err: err}
	}
	if req.TargetDir != "" && req.TargetDir != "." {
		if err := ValidateTargetDir(req.TargetDir); err != nil {
			return &InputError{Err: err}
		}
	}
	_, err := c.Resolve(req.Template)
	return err
}

// Clone runs git clone --depth 1, removes the template history and
// initialises a fresh repository in its place.
func (c *Cloner) Clone(ctx context.Context, req Request) (*Result, error) {
	if err := c.Validate(req); err != nil {
		return nil, err
	}
	url, _ := c.Resolve(req.Template)

	targetDir := req.TargetDir
	if targetDir == "" {
		targetDir = "."
	}
	fullPath := filepath.Join(targetDir, req.ProjectName)

	c.logger.Info().Str("source", url).Str("path", fullPath).Msg("cloning template")
	if _, err := c.runner.Run(ctx, "", "git", "clone", "--depth", "1", "--", url, CommandPath(fullPath)); err != nil {
		return nil, err
	}

	if err := os.RemoveAll(filepath.Join(fullPath, ".git")); err != nil {
		return nil, fmt.Errorf("failed to remove template history: %w", err)
	}
	if _, err := git.PlainInit(fullPath, false); err != nil {
		return nil, fmt.Errorf("failed to initialise repository: %w", err)
	}

	return &Result{ProjectName: req.ProjectName, Path: fullPath, Source: url}, nil
}

// Render formats the clone result with next steps.
func (r *Result) Render() string {
	return fmt.Sprintf(`✅ Template cloned

📁 Path: %s
📦 Source: %s

Next steps:
1. cd %s
2. npm install
3. cp .env.example .env and fill it in
4. npm run dev`, r.Path, r.Source, r.Path)
}
