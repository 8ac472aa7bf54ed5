package npm

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/saas-mcp/internal/runner"
)

func project(t *testing.T, pkg string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "package.json"), []byte(pkg), 0o600))
	return dir
}

func TestAudit_ToleratesNonZeroExit(t *testing.T) {
	dir := project(t, `{}`)
	fake := &runner.Fake{Responses: map[string]runner.FakeResponse{
		"npm audit --json": {
			Result: runner.Result{Stdout: `{"metadata":{"vulnerabilities":{"low":1,"moderate":2,"high":3,"critical":0,"total":6}}}`, ExitCode: 1},
			Err:    &runner.ExitError{Cmd: "npm", ExitCode: 1},
		},
	}}

	a, err := New(fake).Audit(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, 3, a.Vulnerabilities.High)
	assert.Contains(t, a.Render(), "⚠️ Run npm audit fix.")
	assert.Equal(t, dir, fake.Calls[0].Dir)
}

func TestAudit_CommandFailure(t *testing.T) {
	dir := project(t, `{}`)
	fake := &runner.Fake{Responses: map[string]runner.FakeResponse{
		"npm audit --json": {Err: &runner.ExitError{Cmd: "npm", Stderr: "npm ERR! no lockfile"}},
	}}

	_, err := New(fake).Audit(context.Background(), dir)
	assert.EqualError(t, err, "npm error: npm ERR! no lockfile")
}

func TestAudit_NoPackageJSON(t *testing.T) {
	_, err := New(&runner.Fake{}).Audit(context.Background(), t.TempDir())
	assert.True(t, errors.Is(err, ErrNoPackageJSON))
}

func TestOutdated_SortedAndTruncated(t *testing.T) {
	dir := project(t, `{}`)
	var entries []string
	for i := 11; i >= 0; i-- {
		entries = append(entries, fmt.Sprintf(`"pkg-%02d":{"current":"1.0.0","wanted":"1.0.1","latest":"2.0.0"}`, i))
	}
	fake := &runner.Fake{Responses: map[string]runner.FakeResponse{
		"npm outdated --json": {Result: runner.Result{Stdout: "{" + strings.Join(entries, ",") + "}"}},
	}}

	o, err := New(fake).Outdated(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, o.Packages, 12)
	assert.Equal(t, "pkg-00", o.Packages[0].Name)

	out := o.Render()
	assert.Contains(t, out, "📦 Outdated packages (12):")
	assert.Contains(t, out, "- pkg-09: 1.0.0 → 2.0.0")
	assert.NotContains(t, out, "pkg-10")
	assert.Contains(t, out, "... and 2 more")
}

func TestOutdated_UpToDate(t *testing.T) {
	dir := project(t, `{}`)
	o, err := New(&runner.Fake{}).Outdated(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, "✅ All packages are up to date.", o.Render())
}

func TestLicenses_GroupsInstalledPackages(t *testing.T) {
	dir := project(t, `{"dependencies":{"next":"14.0.0","react":"18.0.0"},"devDependencies":{"typescript":"5.0.0"}}`)
	for name, license := range map[string]string{
		"next":  `"MIT"`,
		"react": `{"type":"MIT"}`,
	} {
		pkgDir := filepath.Join(dir, "node_modules", name)
		require.NoError(t, os.MkdirAll(pkgDir, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(pkgDir, "package.json"), []byte(`{"license":`+license+`}`), 0o600))
	}

	l, err := New(&runner.Fake{}).Licenses(dir)
	require.NoError(t, err)
	assert.Equal(t, 3, l.Total)
	assert.Equal(t, []string{"next", "react"}, l.ByLicense["MIT"])
	assert.Equal(t, []string{"typescript"}, l.ByLicense["unknown"])

	out := l.Render()
	assert.Contains(t, out, "MIT (2): next, react")
	assert.Contains(t, out, "Run npm install")
}
