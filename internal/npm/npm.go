// Package npm inspects a Node project's dependencies through the npm CLI
// and its package.json files.
package npm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bobmcallan/saas-mcp/internal/runner"
)

// outdatedShown is how many outdated packages are listed.
const outdatedShown = 10

// ErrNoPackageJSON is returned when the project has no package.json.
var ErrNoPackageJSON = errors.New("package.json not found")

// Inspector runs npm queries against a project directory.
type Inspector struct {
	runner runner.Runner
}

// New creates an Inspector using r to run npm.
func New(r runner.Runner) *Inspector {
	return &Inspector{runner: r}
}

// CheckProject verifies that dir contains a package.json.
func CheckProject(dir string) error {
	if _, err := os.Stat(filepath.Join(dir, "package.json")); err != nil {
		return fmt.Errorf("%w: %s", ErrNoPackageJSON, dir)
	}
	return nil
}

// runJSON runs npm and returns stdout. npm audit and npm outdated exit 1
// when they find something, so a failed run with output is accepted.
func (i *Inspector) runJSON(ctx context.Context, dir string, args ...string) (string, error) {
	res, err := i.runner.Run(ctx, dir, append([]string{"npm"}, args...)...)
	if res != nil && strings.TrimSpace(res.Stdout) != "" {
		return res.Stdout, nil
	}
	if err != nil {
		return "", err
	}
	return "", nil
}

// Vulnerabilities counts audit findings by severity.
type Vulnerabilities struct {
	Info     int `json:"info"`
	Low      int `json:"low"`
	Moderate int `json:"moderate"`
	High     int `json:"high"`
	Critical int `json:"critical"`
	Total    int `json:"total"`
}

// Audit is the result of npm audit.
type Audit struct {
	Vulnerabilities Vulnerabilities
}

// Audit runs npm audit --json in dir.
func (i *Inspector) Audit(ctx context.Context, dir string) (*Audit, error) {
	if err := CheckProject(dir); err != nil {
		return nil, err
	}
	out, err := i.runJSON(ctx, dir, "audit", "--json")
	if err != nil {
		return nil, err
	}
	a := &Audit{}
	if out == "" {
		return a, nil
	}
	var resp struct {
		Metadata struct {
			Vulnerabilities Vulnerabilities `json:"vulnerabilities"`
		} `json:"metadata"`
	}
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		return nil, fmt.Errorf("failed to parse npm audit output: %w", err)
	}
	a.Vulnerabilities = resp.Metadata.Vulnerabilities
	return a, nil
}

// Render formats the audit.
func (a *Audit) Render() string {
	v := a.Vulnerabilities
	var b strings.Builder
	b.WriteString("🔒 Security audit\n\nVulnerabilities:\n")
	fmt.Fprintf(&b, "  - critical: %d\n", v.Critical)
	fmt.Fprintf(&b, "  - high: %d\n", v.High)
	fmt.Fprintf(&b, "  - moderate: %d\n", v.Moderate)
	fmt.Fprintf(&b, "  - low: %d\n\n", v.Low)
	if v.Critical+v.High > 0 {
		b.WriteString("⚠️ Run npm audit fix.")
	} else {
		b.WriteString("✅ No critical or high vulnerabilities.")
	}
	return b.String()
}

// OutdatedPackage is one entry of npm outdated.
type OutdatedPackage struct {
	Name    string
	Current string `json:"current"`
	Wanted  string `json:"wanted"`
	Latest  string `json:"latest"`
}

// Outdated is the result of npm outdated, sorted by package name.
type Outdated struct {
	Packages []OutdatedPackage
}

// Outdated runs npm outdated --json in dir.
func (i *Inspector) Outdated(ctx context.Context, dir string) (*Outdated, error) {
	if err := CheckProject(dir); err != nil {
		return nil, err
	}
	out, err := i.runJSON(ctx, dir, "outdated", "--json")
	if err != nil {
		return nil, err
	}
	o := &Outdated{}
	if out == "" {
		return o, nil
	}
	var resp map[string]OutdatedPackage
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		return nil, fmt.Errorf("failed to parse npm outdated output: %w", err)
	}
	for name, p := range resp {
		p.Name = name
		o.Packages = append(o.Packages, p)
	}
	sort.Slice(o.Packages, func(a, b int) bool { return o.Packages[a].Name < o.Packages[b].Name })
	return o, nil
}

// Render lists the first ten outdated packages.
func (o *Outdated) Render() string {
	if len(o.Packages) == 0 {
		return "✅ All packages are up to date."
	}
	var b strings.Builder
	fmt.Fprintf(&b, "📦 Outdated packages (%d):\n", len(o.Packages))
	for i, p := range o.Packages {
		if i == outdatedShown {
			fmt.Fprintf(&b, "\n... and %d more", len(o.Packages)-outdatedShown)
			break
		}
		fmt.Fprintf(&b, "\n- %s: %s → %s", p.Name, orDash(p.Current), p.Latest)
	}
	return b.String()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// packageJSON is the subset of package.json read here.
type packageJSON struct {
	Name            string            `json:"name"`
	License         json.RawMessage   `json:"license"`
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
}

func readPackageJSON(path string) (*packageJSON, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var p packageJSON
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &p, nil
}

// licenseName handles both "MIT" and the legacy {"type":"MIT"} form.
func licenseName(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	var obj struct {
		Type string `json:"type"`
	}
	if json.Unmarshal(raw, &obj) == nil {
		return obj.Type
	}
	return ""
}

// Licenses groups direct dependencies by the license declared in their
// installed package.json. Packages not installed are counted as unknown.
type Licenses struct {
	Total     int
	ByLicense map[string][]string
}

// Licenses reads package.json and node_modules in dir. It does not run npm.
func (i *Inspector) Licenses(dir string) (*Licenses, error) {
	if err := CheckProject(dir); err != nil {
		return nil, err
	}
	root, err := readPackageJSON(filepath.Join(dir, "package.json"))
	if err != nil {
		return nil, err
	}

	deps := make(map[string]bool)
	for name := range root.Dependencies {
		deps[name] = true
	}
	for name := range root.DevDependencies {
		deps[name] = true
	}

	l := &Licenses{Total: len(deps), ByLicense: make(map[string][]string)}
	for name := range deps {
		license := "unknown"
		if p, err := readPackageJSON(filepath.Join(dir, "node_modules", name, "package.json")); err == nil {
			if n := licenseName(p.License); n != "" {
				license = n
			}
		}
		l.ByLicense[license] = append(l.ByLicense[license], name)
	}
	for _, names := range l.ByLicense {
		sort.Strings(names)
	}
	return l, nil
}

// Render lists license groups, largest first.
func (l *Licenses) Render() string {
	licenses := make([]string, 0, len(l.ByLicense))
	for name := range l.ByLicense {
		licenses = append(licenses, name)
	}
	sort.Slice(licenses, func(a, b int) bool {
		na, nb := len(l.ByLicense[licenses[a]]), len(l.ByLicense[licenses[b]])
		if na != nb {
			return na > nb
		}
		return licenses[a] < licenses[b]
	})

	var b strings.Builder
	fmt.Fprintf(&b, "📜 Dependency licenses (%d packages)\n", l.Total)
	for _, name := range licenses {
		pkgs := l.ByLicense[name]
		fmt.Fprintf(&b, "\n%s (%d): %s", name, len(pkgs), strings.Join(pkgs, ", "))
	}
	if _, ok := l.ByLicense["unknown"]; ok {
		b.WriteString("\n\nRun npm install to resolve unknown licenses.")
	}
	return b.String()
}
