package envfile

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
}

func TestParse_CommentsAndEmptyValues(t *testing.T) {
	vars := ParseString("# comment\nKEY=value\nEMPTY=")
	assert.Equal(t, map[string]string{"KEY": "value", "EMPTY": ""}, vars)
}

func TestParse_FirstEqualsSplits(t *testing.T) {
	vars := ParseString("  DATABASE_URL = postgresql://u:p@h/db?sslmode=require  \n=orphan\nnoequals\n")
	assert.Equal(t, map[string]string{"DATABASE_URL": "postgresql://u:p@h/db?sslmode=require"}, vars)
}

func TestValidate_ProjectNotFound(t *testing.T) {
	_, err := Validate(filepath.Join(t.TempDir(), "nope"), GroupAll)
	assert.True(t, errors.Is(err, ErrProjectNotFound))
}

func TestValidate_MissingEnvSuggestsExample(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".env.example", "KEY=")

	r, err := Validate(dir, GroupAll)
	require.NoError(t, err)
	assert.True(t, r.EnvMissing)
	assert.True(t, r.ExampleExists)
	assert.Contains(t, r.Render(), "cp .env.example .env")
}

func TestValidate_MasksCredentials(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".env", strings.Join([]string{
		"STRIPE_SECRET_KEY=sk_test_abcdefghijklmnop",
		"STRIPE_PUBLISHABLE_KEY=pk_test_abcdefghijklmnop",
		"DATABASE_URL=mysql://root@localhost/app",
	}, "\n"))

	r, err := Validate(dir, GroupStripe)
	require.NoError(t, err)
	require.Len(t, r.Sections, 1)

	checks := r.Sections[0].Checks
	assert.Equal(t, "sk_test_...", checks[0].Preview)
	assert.Equal(t, "pk_test_abcd...", checks[1].Preview)
	assert.False(t, checks[2].Present)
	assert.Equal(t, "MySQL", r.DatabaseKind)
	assert.Equal(t, []string{"STRIPE_WEBHOOK_SECRET"}, r.Missing())

	out := r.Render()
	assert.NotContains(t, out, "abcdefghijklmnop")
	assert.Contains(t, out, "❌ STRIPE_WEBHOOK_SECRET - missing")
}

func TestValidate_SupabaseIsOptional(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".env", "DATABASE_URL=sqlite://x\n")

	r, err := Validate(dir, GroupSupabase)
	require.NoError(t, err)
	assert.Empty(t, r.Missing())
	assert.Equal(t, "unknown", r.DatabaseKind)
	assert.Contains(t, r.Render(), "ignore if unused")
}

func TestValidate_AllGroups(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".env", "NEXTAUTH_SECRET=s\nNEXTAUTH_URL=http://localhost:3000\n")

	r, err := Validate(dir, "")
	require.NoError(t, err)
	require.Len(t, r.Sections, 3)
	assert.Equal(t, "NextAuth", r.Sections[0].Title)
	assert.Contains(t, r.Missing(), "DATABASE_URL")
}
