package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/saas-mcp/internal/common"
	"github.com/bobmcallan/saas-mcp/internal/config"
	"github.com/bobmcallan/saas-mcp/internal/runner"
)

func TestNew_WiresRegistryAndRouter(t *testing.T) {
	cfg := config.NewDefaultConfig()
	a, err := New(cfg, common.NewSilentLogger(), WithRunner(&runner.Fake{}))
	require.NoError(t, err)
	defer a.Close()

	assert.NotNil(t, a.MCPRouter)
	assert.NotNil(t, a.HealthHandler)
	assert.NotNil(t, a.VersionHandler)
	assert.Equal(t, 29, a.Registry.Len())
	assert.NotNil(t, a.MCPRouter.Server())
}

func TestNew_ParallelDispatchesThroughApp(t *testing.T) {
	a, err := New(config.NewDefaultConfig(), nil, WithRunner(&runner.Fake{}))
	require.NoError(t, err)

	res := a.Dispatcher.Dispatch(context.Background(), "parallel", map[string]any{
		"tasks": []any{
			map[string]any{"name": "v", "agent": "get_version"},
		},
	})
	require.False(t, res.IsError, res.Text)
	assert.Contains(t, res.Text, "✅ 1 succeeded")
}
