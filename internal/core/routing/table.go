package routing

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/dep2p/go-datawire/pkg/address"
	pkgif "github.com/dep2p/go-datawire/pkg/interfaces"
	"github.com/dep2p/go-datawire/pkg/lib/log"
)

var logger = log.Logger("core/routing")

// Result 解析结果分类
type Result int

const (
	// ResultMiss 未命中且没有根处理器
	ResultMiss Result = iota
	// ResultHit 命中已注册地址
	ResultHit
	// ResultRoot 回退到根处理器
	ResultRoot
)

// String 返回分类名称
func (r Result) String() string {
	switch r {
	case ResultHit:
		return "hit"
	case ResultRoot:
		return "root"
	default:
		return "miss"
	}
}

// Table 地址路由表
type Table struct {
	mu    sync.RWMutex
	root  pkgif.Handler
	nodes map[string]pkgif.Handler
	order []string
}

var _ pkgif.RoutingTable = (*Table)(nil)

// NewTable 创建路由表，root 可为 nil
func NewTable(root pkgif.Handler) *Table {
	return &Table{
		root:  root,
		nodes: make(map[string]pkgif.Handler),
	}
}

// Register 注册地址处理器
func (t *Table) Register(addr string, handler pkgif.Handler) error {
	if handler == nil {
		return fmt.Errorf("%w: %q", ErrNilHandler, addr)
	}
	if err := address.Validate(addr); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.nodes[addr]; !exists {
		t.order = append(t.order, addr)
	} else {
		logger.Debug("覆盖已注册地址", "address", addr)
	}
	t.nodes[addr] = handler
	return nil
}

// Unregister 移除地址处理器
func (t *Table) Unregister(addr string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.nodes[addr]; !exists {
		return false
	}
	delete(t.nodes, addr)
	for i, a := range t.order {
		if a == addr {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	return true
}

// Resolve 解析地址对应的处理器
func (t *Table) Resolve(addr string) pkgif.Handler {
	h, _, _ := t.Match(addr)
	return h
}

// Match 解析地址，并返回命中的键和结果分类
func (t *Table) Match(addr string) (pkgif.Handler, string, Result) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	for _, candidate := range address.Ancestors(addr) {
		if h, ok := t.nodes[candidate]; ok {
			return h, candidate, ResultHit
		}
	}
	return t.fallback()
}

// ResolveAbsent 解析缺失的地址：祖先序列为空，直接回退到根处理器
func (t *Table) ResolveAbsent() (pkgif.Handler, Result) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	h, _, r := t.fallback()
	return h, r
}

func (t *Table) fallback() (pkgif.Handler, string, Result) {
	if t.root == nil {
		return nil, "", ResultMiss
	}
	return t.root, "", ResultRoot
}

// Root 返回根处理器
func (t *Table) Root() pkgif.Handler {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.root
}

// SetRoot 替换根处理器
func (t *Table) SetRoot(root pkgif.Handler) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.root = root
}

// Handlers 按注册顺序返回已注册处理器（不含根处理器）
func (t *Table) Handlers() []pkgif.Handler {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]pkgif.Handler, 0, len(t.order))
	for _, a := range t.order {
		out = append(out, t.nodes[a])
	}
	return out
}

// Addresses 按注册顺序返回已注册地址
func (t *Table) Addresses() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]string(nil), t.order...)
}

// Len 返回已注册地址数
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.nodes)
}

// Broadcast 返回广播目标：根处理器 + 已注册处理器
//
// 顺序为根处理器在前、其余按注册顺序；同一处理器注册在多个地址上
// 时只出现一次。
func (t *Table) Broadcast() []pkgif.Handler {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]pkgif.Handler, 0, len(t.order)+1)
	seen := make(map[any]struct{}, len(t.order)+1)
	add := func(h pkgif.Handler) {
		if h == nil {
			return
		}
		if reflect.ValueOf(h).Comparable() {
			if _, dup := seen[h]; dup {
				return
			}
			seen[h] = struct{}{}
		}
		out = append(out, h)
	}

	add(t.root)
	for _, a := range t.order {
		add(t.nodes[a])
	}
	return out
}
