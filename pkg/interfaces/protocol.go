package interfaces

// RoutingTable 地址 → 处理器映射
//
// 查找按祖先序列进行（最具体优先），全部未命中时回退到根处理器。
type RoutingTable interface {
	// Register 注册或覆盖地址上的处理器（后写者胜）
	Register(address string, handler Handler) error

	// Unregister 移除地址上的处理器
	Unregister(address string) bool

	// Resolve 解析地址对应的处理器，可能返回 nil
	Resolve(address string) Handler

	// Root 返回根（默认）处理器
	Root() Handler

	// Handlers 按注册顺序返回所有已注册处理器
	Handlers() []Handler

	// Addresses 按注册顺序返回所有已注册地址
	Addresses() []string
}
