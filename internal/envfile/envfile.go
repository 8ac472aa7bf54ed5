// Package envfile parses dotenv files and checks a project's .env against
// the variables a Next.js SaaS stack expects.
package envfile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bobmcallan/saas-mcp/internal/common"
)

// Groups accepted by Validate.
const (
	GroupAll      = "all"
	GroupNextAuth = "nextauth"
	GroupStripe   = "stripe"
	GroupSupabase = "supabase"
)

// Parse reads KEY=VALUE lines. Lines starting with # and lines without a
// key are skipped. The first = splits key from value and both are trimmed.
func Parse(r io.Reader) (map[string]string, error) {
	vars := make(map[string]string)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok || strings.Contains(key, "#") {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		vars[key] = strings.TrimSpace(value)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read env file: %w", err)
	}
	return vars, nil
}

// ParseString parses env file content held in memory.
func ParseString(s string) map[string]string {
	vars, _ := Parse(strings.NewReader(s))
	return vars
}

// Load parses the env file at path.
func Load(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// Check is the state of one expected variable.
type Check struct {
	Name     string
	Present  bool
	Preview  string // masked value, only for credentials
	Optional bool
}

// Section groups the checks for one integration.
type Section struct {
	Title  string
	Checks []Check
}

// Report is the result of validating a project's .env.
type Report struct {
	ProjectPath   string
	EnvMissing    bool
	ExampleExists bool
	Sections      []Section
	DatabaseURL   Check
	DatabaseKind  string // PostgreSQL, MySQL, unknown or empty when absent
}

var (
	nextAuthVars = []string{"NEXTAUTH_SECRET", "NEXTAUTH_URL"}
	stripeVars   = []string{"STRIPE_SECRET_KEY", "STRIPE_PUBLISHABLE_KEY", "STRIPE_WEBHOOK_SECRET"}
	supabaseVars = []string{"NEXT_PUBLIC_SUPABASE_URL", "NEXT_PUBLIC_SUPABASE_ANON_KEY", "SUPABASE_SERVICE_ROLE_KEY"}
)

// ErrProjectNotFound is returned when the project directory does not exist.
var ErrProjectNotFound = errors.New("project directory not found")

// Validate loads <projectPath>/.env and checks the variables of group.
// A missing .env is reported, not returned as an error.
func Validate(projectPath, group string) (*Report, error) {
	if info, err := os.Stat(projectPath); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrProjectNotFound, projectPath)
	}
	if group == "" {
		group = GroupAll
	}

	report := &Report{ProjectPath: projectPath}
	vars, err := Load(filepath.Join(projectPath, ".env"))
	if errors.Is(err, fs.ErrNotExist) {
		report.EnvMissing = true
		if _, err := os.Stat(filepath.Join(projectPath, ".env.example")); err == nil {
			report.ExampleExists = true
		}
		return report, nil
	}
	if err != nil {
		return nil, err
	}

	if group == GroupAll || group == GroupNextAuth {
		report.Sections = append(report.Sections, section("NextAuth", vars, nextAuthVars, false, false))
	}
	if group == GroupAll || group == GroupStripe {
		report.Sections = append(report.Sections, section("Stripe", vars, stripeVars, true, false))
	}
	if group == GroupAll || group == GroupSupabase {
		report.Sections = append(report.Sections, section("Supabase", vars, supabaseVars, false, true))
	}

	report.DatabaseURL = Check{Name: "DATABASE_URL"}
	if dbURL := vars["DATABASE_URL"]; dbURL != "" {
		report.DatabaseURL.Present = true
		switch {
		case strings.Contains(dbURL, "postgresql://"):
			report.DatabaseKind = "PostgreSQL"
		case strings.Contains(dbURL, "mysql://"):
			report.DatabaseKind = "MySQL"
		default:
			report.DatabaseKind = "unknown"
		}
	}
	return report, nil
}

func section(title string, vars map[string]string, names []string, preview, optional bool) Section {
	s := Section{Title: title}
	for _, name := range names {
		c := Check{Name: name, Optional: optional}
		if v := vars[name]; v != "" {
			c.Present = true
			if preview {
				c.Preview = maskValue(name, v)
			}
		}
		s.Checks = append(s.Checks, c)
	}
	return s
}

// maskValue keeps 8 characters of secrets and 12 of other credentials.
func maskValue(name, value string) string {
	if strings.Contains(name, "SECRET") {
		return common.MaskSecret(value, 8)
	}
	return common.MaskSecret(value, 12)
}

// Missing returns the names of required variables that are absent.
func (r *Report) Missing() []string {
	var out []string
	for _, s := range r.Sections {
		for _, c := range s.Checks {
			if !c.Present && !c.Optional {
				out = append(out, c.Name)
			}
		}
	}
	if !r.EnvMissing && !r.DatabaseURL.Present {
		out = append(out, r.DatabaseURL.Name)
	}
	return out
}

// Render formats the report.
func (r *Report) Render() string {
	var b strings.Builder
	if r.EnvMissing {
		b.WriteString("❌ No .env file in " + r.ProjectPath)
		if r.ExampleExists {
			b.WriteString("\n💡 Copy .env.example to .env:\n   cp .env.example .env")
		}
		return b.String()
	}

	b.WriteString("📋 Environment variables\n")
	for _, s := range r.Sections {
		fmt.Fprintf(&b, "\n%s:\n", s.Title)
		for _, c := range s.Checks {
			switch {
			case c.Present && c.Preview != "":
				fmt.Fprintf(&b, "  ✅ %s (%s)\n", c.Name, c.Preview)
			case c.Present:
				fmt.Fprintf(&b, "  ✅ %s\n", c.Name)
			case c.Optional:
				fmt.Fprintf(&b, "  ⚠️ %s - missing (ignore if unused)\n", c.Name)
			default:
				fmt.Fprintf(&b, "  ❌ %s - missing\n", c.Name)
			}
		}
	}

	b.WriteString("\nDatabase:\n")
	switch r.DatabaseKind {
	case "":
		b.WriteString("  ❌ DATABASE_URL - missing")
	case "unknown":
		b.WriteString("  ⚠️ DATABASE_URL (unknown format)")
	default:
		fmt.Fprintf(&b, "  ✅ DATABASE_URL (%s)", r.DatabaseKind)
	}
	return b.String()
}
