package runner

import (
	"context"
	"errors"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireBinary(t *testing.T, name string) {
	t.Helper()
	if _, err := exec.LookPath(name); err != nil {
		t.Skipf("%s not available", name)
	}
}

func TestExec_CapturesStdout(t *testing.T) {
	requireBinary(t, "echo")
	res, err := NewExec(nil).Run(context.Background(), t.TempDir(), "echo", "hello; rm -rf /")
	require.NoError(t, err)
	assert.Equal(t, "hello; rm -rf /\n", res.Stdout)
}

func TestExec_NonZeroExit(t *testing.T) {
	requireBinary(t, "false")
	res, err := NewExec(nil).Run(context.Background(), "", "false")
	require.Error(t, err)

	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 1, res.ExitCode)
	assert.Equal(t, "false error: exit status 1", err.Error())
	assert.Equal(t, "false", exitErr.ErrorContext())
}

func TestExec_MissingBinary(t *testing.T) {
	_, err := NewExec(nil).Run(context.Background(), "", "definitely-not-a-real-binary-xyz")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "definitely-not-a-real-binary-xyz error: ")
}

func TestExec_EmptyArgv(t *testing.T) {
	_, err := NewExec(nil).Run(context.Background(), "")
	assert.Error(t, err)
}

func TestExitError_PrefersStderr(t *testing.T) {
	err := &ExitError{Cmd: "git", ExitCode: 128, Stderr: "fatal: repository not found\n"}
	assert.Equal(t, "git error: fatal: repository not found", err.Error())
}

func TestCappedBuffer(t *testing.T) {
	var b cappedBuffer
	big := make([]byte, maxOutput+10)
	n, err := b.Write(big)
	require.NoError(t, err)
	assert.Equal(t, len(big), n)
	assert.Equal(t, maxOutput, b.Len())
}

func TestFake_RecordsCalls(t *testing.T) {
	f := &Fake{Responses: map[string]FakeResponse{
		"npm audit --json": {Result: Result{Stdout: "{}"}},
	}}
	res, err := f.Run(context.Background(), "/p", "npm", "audit", "--json")
	require.NoError(t, err)
	assert.Equal(t, "{}", res.Stdout)
	assert.Equal(t, []string{"npm audit --json"}, f.Commands())
}
