package scan

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestScan_FindsAndSortsIssues(t *testing.T) {
	root := t.TempDir()
	write(t, root, "src/view.ts", "const a = 1\nel.innerHTML = `<b>${name}</b>`\n")
	write(t, root, "src/db.ts", "export const get = (id) =>\n  db.query(`SELECT * FROM users WHERE id = ${id}`)\n")
	write(t, root, "src/loop.js", "function run() {\n  while (true) {\n    tick()\n  }\n}\n")

	report, err := (&Scanner{MaxFiles: 10}).Scan(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"src/db.ts", "src/loop.js", "src/view.ts"}, report.Files)
	require.Len(t, report.Issues, 3)

	assert.Equal(t, KindSQLInjection, report.Issues[0].Kind)
	assert.Equal(t, 2, report.Issues[0].Line)
	assert.Equal(t, KindInfiniteLoop, report.Issues[1].Kind)
	assert.Equal(t, "src/loop.js", report.Issues[1].File)
	assert.Equal(t, KindXSS, report.Issues[2].Kind)
	assert.Equal(t, SeverityHigh, report.Issues[2].Severity)

	out := report.Render()
	assert.Contains(t, out, "heuristic")
	assert.Contains(t, out, "1. [critical] Query built with string interpolation")
}

func TestScan_ParameterizedMarkerSuppressesSQL(t *testing.T) {
	root := t.TempDir()
	write(t, root, "q.ts", "// parameterized via tagged template\nsql.query(`SELECT ${id}`)\n")

	report, err := (&Scanner{}).Scan(root)
	require.NoError(t, err)
	assert.Empty(t, report.Issues)
	assert.Contains(t, report.Render(), "No issues matched")
}

func TestScan_SkipsIgnoredPaths(t *testing.T) {
	root := t.TempDir()
	write(t, root, ".gitignore", "# build output\ndist/\n*.gen.ts\n")
	write(t, root, "dist/bundle.js", "while(true){}")
	write(t, root, "api.gen.ts", "for(;;){}")
	write(t, root, "node_modules/lib/index.js", "while (1) {}")
	write(t, root, "app.tsx", "export default 1")

	report, err := (&Scanner{}).Scan(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"app.tsx"}, report.Files)
	assert.Empty(t, report.Issues)
}

func TestScan_RespectsFileLimit(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"a.js", "b.js", "c.js", "d.js"} {
		write(t, root, name, "x")
	}
	report, err := (&Scanner{MaxFiles: 2}).Scan(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.js", "b.js"}, report.Files)
}

func TestScan_MissingRoot(t *testing.T) {
	_, err := (&Scanner{}).Scan(filepath.Join(t.TempDir(), "missing"))
	assert.True(t, errors.Is(err, ErrProjectNotFound))
}

func TestReport_AutoFixUnsupported(t *testing.T) {
	r := &Report{AutoFix: true}
	assert.Contains(t, r.Render(), "autoFix is not supported")
}
