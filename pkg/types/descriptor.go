package types

import (
	"maps"
	"sort"
	"strings"
)

// LinkDescriptor 链路描述符
//
// 由 linkspec 解析器生成，构造后不可修改。
// Source / Target 是写入协议 attach 帧的终端地址（节点形式，不含 //host），
// Host 是需要拨号的 host:port。
type LinkDescriptor struct {
	// Name 链路名称（为空时由引擎生成）
	Name string

	// Local 本端地址（原样保留）
	Local string

	// Remote 对端地址（可选）
	Remote string

	// Role 链路方向
	Role Role

	// Host 拨号目标
	Host string

	// Source 源终端地址
	Source string

	// Target 目标终端地址
	Target string

	// Options 协议选项
	Options map[string]string
}

// IsSender 是否为发送端
func (d LinkDescriptor) IsSender() bool {
	return d.Role == RoleSender
}

// HasRemote 是否指定了对端地址
func (d LinkDescriptor) HasRemote() bool {
	return d.Remote != ""
}

// Option 返回协议选项
func (d LinkDescriptor) Option(key string) (string, bool) {
	v, ok := d.Options[key]
	return v, ok
}

// Clone 返回深拷贝
func (d LinkDescriptor) Clone() LinkDescriptor {
	d.Options = maps.Clone(d.Options)
	return d
}

// String 返回规范化的链路描述
//
// 格式与 linkspec 解析器接受的格式一致。
func (d LinkDescriptor) String() string {
	var b strings.Builder
	if d.Role == RoleSender {
		b.WriteString("send ")
	} else {
		b.WriteString("recv ")
	}
	b.WriteString(d.Local)
	if d.Remote != "" {
		if d.Role == RoleSender {
			b.WriteString(" -> ")
		} else {
			b.WriteString(" <- ")
		}
		b.WriteString(d.Remote)
	}
	keys := make([]string, 0, len(d.Options))
	for k := range d.Options {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteString(" ")
		b.WriteString(k)
		b.WriteString("=")
		b.WriteString(d.Options[k])
	}
	return b.String()
}
