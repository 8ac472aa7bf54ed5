package scaffold

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/saas-mcp/internal/runner"
	"github.com/bobmcallan/saas-mcp/internal/template"
)

func newTestInitializer(r runner.Runner) *Initializer {
	in := New(r, nil)
	in.secret = func() (string, error) { return "test-secret", nil }
	return in
}

func TestPackages(t *testing.T) {
	assert.Equal(t,
		[]string{"@prisma/client", "prisma", "next-auth", "@auth/prisma-adapter", "stripe", "@stripe/stripe-js"},
		Packages(DefaultFeatures))
	assert.Equal(t, []string{"@vercel/analytics"}, Packages([]string{"analytics"}))
	assert.Empty(t, Packages([]string{"shadcn"}))
}

func TestInit_DefaultFeatures(t *testing.T) {
	dir := t.TempDir()
	fake := &runner.Fake{}
	res, err := newTestInitializer(fake).Init(context.Background(), Request{ProjectName: "acme", TargetDir: dir})
	require.NoError(t, err)

	path := filepath.Join(dir, "acme")
	assert.Equal(t, []string{
		"npx create-next-app@latest " + path + " --typescript --tailwind --app --eslint --src-dir --import-alias @/* --use-npm",
		"npm install @prisma/client prisma next-auth @auth/prisma-adapter stripe @stripe/stripe-js",
		"npx prisma init",
		"npx shadcn@latest init -y",
	}, fake.Commands())
	assert.Equal(t, "", fake.Calls[0].Dir)
	assert.Equal(t, path, fake.Calls[1].Dir)

	for _, name := range []string{".env", ".env.example"} {
		data, err := os.ReadFile(filepath.Join(path, name))
		require.NoError(t, err)
		assert.Contains(t, string(data), `NEXTAUTH_SECRET="test-secret"`)
	}
	assert.Len(t, res.Steps, 5)
	assert.Contains(t, res.Render(), "SaaS project initialised: acme")
}

func TestInit_ShadcnFailureIsWarning(t *testing.T) {
	dir := t.TempDir()
	fake := &runner.Fake{Responses: map[string]runner.FakeResponse{
		"npx shadcn@latest init -y": {Err: &runner.ExitError{Cmd: "npx", ExitCode: 1}},
	}}
	res, err := newTestInitializer(fake).Init(context.Background(), Request{ProjectName: "acme", TargetDir: dir, Features: []string{"shadcn"}})
	require.NoError(t, err)

	assert.Equal(t, 2, len(fake.Calls))
	out := res.Render()
	assert.Contains(t, out, "manual setup required")
	assert.Contains(t, out, "✅ environment template")
}

func TestInit_InstallFailureAborts(t *testing.T) {
	dir := t.TempDir()
	fake := &runner.Fake{Responses: map[string]runner.FakeResponse{
		"npm install stripe @stripe/stripe-js": {Err: &runner.ExitError{Cmd: "npm", ExitCode: 1, Stderr: "ERESOLVE"}},
	}}
	_, err := newTestInitializer(fake).Init(context.Background(), Request{ProjectName: "acme", TargetDir: dir, Features: []string{"stripe"}})
	require.Error(t, err)
	assert.Equal(t, "npm error: ERESOLVE", err.Error())
	assert.Len(t, fake.Calls, 2)

	_, statErr := os.Stat(filepath.Join(dir, "acme", ".env"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestValidate(t *testing.T) {
	var inputErr *template.InputError
	for _, req := range []Request{
		{ProjectName: "../etc"},
		{ProjectName: "a b"},
		{ProjectName: "$(x)"},
		{ProjectName: "--help"},
		{ProjectName: "-rf"},
		{ProjectName: "ok", TargetDir: "~/x"},
		{ProjectName: "ok", Features: []string{"kafka"}},
	} {
		err := Validate(req)
		require.Error(t, err, "%+v", req)
		assert.True(t, errors.As(err, &inputErr))
	}
	assert.NoError(t, Validate(Request{ProjectName: "my-proj_1", Features: []string{"auth", "analytics"}}))
}

func TestInit_OptionLikeNameRunsNothing(t *testing.T) {
	fake := &runner.Fake{}
	_, err := newTestInitializer(fake).Init(context.Background(), Request{ProjectName: "--help"})

	var inputErr *template.InputError
	require.True(t, errors.As(err, &inputErr))
	assert.Empty(t, fake.Calls)
}

func TestInit_RelativePathIsPrefixed(t *testing.T) {
	fake := &runner.Fake{Responses: map[string]runner.FakeResponse{
		"npx create-next-app@latest ./acme --typescript --tailwind --app --eslint --src-dir --import-alias @/* --use-npm": {
			Err: &runner.ExitError{Cmd: "npx", ExitCode: 1, Stderr: "offline"},
		},
	}}
	_, err := newTestInitializer(fake).Init(context.Background(), Request{ProjectName: "acme"})
	require.Error(t, err)
	require.Len(t, fake.Calls, 1)
	assert.Equal(t, "./acme", fake.Calls[0].Argv[2])
}

func TestEnvTemplate(t *testing.T) {
	out := EnvTemplate("abc")
	assert.True(t, strings.HasPrefix(out, "# Database"))
	assert.Contains(t, out, `STRIPE_WEBHOOK_SECRET="whsec_..."`)
}

func TestRandomSecret(t *testing.T) {
	a, err := randomSecret()
	require.NoError(t, err)
	b, err := randomSecret()
	require.NoError(t, err)
	assert.Len(t, a, 44)
	assert.NotEqual(t, a, b)
}
