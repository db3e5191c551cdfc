package reactor

import (
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"github.com/dep2p/go-datawire/config"
	pkgif "github.com/dep2p/go-datawire/pkg/interfaces"
)

// TestConfigFromUnified 测试从统一配置转换
func TestConfigFromUnified(t *testing.T) {
	cfg := config.NewConfig()
	cfg.Reactor.MaxBatch = 8
	cfg.Reactor.QuiesceInterval = config.Duration(3 * time.Second)

	rc := ConfigFromUnified(cfg)
	assert.Equal(t, 8, rc.MaxBatch)
	assert.Equal(t, 3*time.Second, rc.QuiesceInterval)

	assert.Equal(t, config.DefaultReactorConfig().MaxBatch, DefaultConfig().MaxBatch)
}

// TestModule_Lifecycle 测试 Fx 生命周期启动与停止反应器
func TestModule_Lifecycle(t *testing.T) {
	var (
		r  *Reactor
		ri pkgif.Reactor
	)
	app := fxtest.New(t,
		fx.Provide(func() clock.Clock { return clock.NewMock() }),
		Module(),
		fx.Populate(&r, &ri),
		fx.NopLogger,
	)
	app.RequireStart()
	require.Eventually(t, r.Running, time.Second, 5*time.Millisecond)
	assert.Same(t, r, ri)

	app.RequireStop()
	assert.False(t, r.Running())
}
