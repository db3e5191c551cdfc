package routing

import (
	"go.uber.org/fx"

	pkgif "github.com/dep2p/go-datawire/pkg/interfaces"
)

// Root 根处理器的注入包装
//
// Handler 是 any，直接注入会与其他 any 值冲突，因此包一层。
type Root struct {
	Handler pkgif.Handler
}

// Route 预注册路由
type Route struct {
	Address string
	Handler pkgif.Handler
}

// Params 路由表依赖参数
type Params struct {
	fx.In

	Root   *Root   `optional:"true"`
	Routes []Route `group:"routes"`
}

// Module 返回 Fx 模块
func Module() fx.Option {
	return fx.Module("routing",
		fx.Provide(ProvideTable),
	)
}

// ProvideTable 提供路由表并注册预置路由
func ProvideTable(p Params) (*Table, error) {
	var root pkgif.Handler
	if p.Root != nil {
		root = p.Root.Handler
	}
	t := NewTable(root)
	for _, r := range p.Routes {
		if err := t.Register(r.Address, r.Handler); err != nil {
			return nil, err
		}
	}
	logger.Debug("路由表已创建", "routes", t.Len(), "root", root != nil)
	return t, nil
}
