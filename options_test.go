package datawire

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dep2p/go-datawire/config"
)

func applyOptions(t *testing.T, opts ...Option) *nodeConfig {
	t.Helper()
	cfg := newNodeConfig()
	for _, opt := range opts {
		require.NoError(t, opt(cfg))
	}
	return cfg
}

// TestOptions_Config 测试配置类选项
func TestOptions_Config(t *testing.T) {
	cfg := applyOptions(t,
		WithPreset(PresetNameServer),
		WithListenAddrs("127.0.0.1:6000", "127.0.0.1:6001"),
		WithQuiesceInterval(time.Second),
		WithAutoStart(false),
		WithRejectUnrouted(false),
		WithMetrics(true, "127.0.0.1:9100"),
		WithLogLevel("debug"),
	)

	assert.Equal(t, []string{"127.0.0.1:6000", "127.0.0.1:6001"}, cfg.config.Transport.ListenAddrs)
	assert.Equal(t, config.Duration(time.Second), cfg.config.Reactor.QuiesceInterval)
	assert.False(t, cfg.config.Container.AutoStart)
	assert.False(t, cfg.config.Container.RejectUnrouted)
	assert.True(t, cfg.config.Metrics.Enabled)
	assert.Equal(t, "127.0.0.1:9100", cfg.config.Metrics.ListenAddr)
	assert.Equal(t, "debug", cfg.config.Log.Level)
}

// TestOptions_WithConfigClones 测试 WithConfig 复制配置
func TestOptions_WithConfigClones(t *testing.T) {
	src := GetTestConfig()
	cfg := applyOptions(t, WithConfig(src))
	src.Log.Level = "error"
	assert.Equal(t, "warn", cfg.config.Log.Level)
}

// TestOptions_WithConfigFile 测试从文件加载配置
func TestOptions_WithConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "datawire.yaml")
	require.NoError(t, os.WriteFile(path, []byte("transport:\n  listen_addrs: [\"127.0.0.1:7000\"]\n"), 0o600))

	cfg := applyOptions(t, WithConfigFile(path))
	assert.Equal(t, []string{"127.0.0.1:7000"}, cfg.config.Transport.ListenAddrs)

	err := WithConfigFile(filepath.Join(t.TempDir(), "missing.yaml"))(newNodeConfig())
	assert.Error(t, err)
}

// TestOptions_Routes 测试路由与链路选项
func TestOptions_Routes(t *testing.T) {
	h := Processor(func(*Event, *Message) {})
	cfg := applyOptions(t,
		WithRoot(h),
		WithRoute("outbox/alice", h),
		WithRoute("outbox/", h),
		WithLink("send //127.0.0.1:5672/outbox/alice", WithLinkName("a")),
		WithClock(clock.NewMock()),
	)
	assert.NotNil(t, cfg.root)
	require.Len(t, cfg.routes, 2)
	assert.Equal(t, "outbox/", cfg.routes[1].Address)
	require.Len(t, cfg.links, 1)
	assert.NotNil(t, cfg.clock)

	assert.Error(t, WithClock(nil)(newNodeConfig()))
	assert.Error(t, WithRoute("outbox/a", nil)(newNodeConfig()))
}

// TestPresets 测试预设配置
func TestPresets(t *testing.T) {
	srv := GetServerConfig()
	assert.Equal(t, []string{DefaultListenAddr}, srv.Transport.ListenAddrs)
	assert.True(t, srv.Container.RejectUnrouted)
	require.NoError(t, srv.Validate())

	require.NoError(t, GetClientConfig().Validate())

	test := GetTestConfig()
	assert.False(t, test.Metrics.Enabled)
	assert.Equal(t, []string{"127.0.0.1:0"}, test.Transport.ListenAddrs)

	_, err := presetConfig("bogus")
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}
