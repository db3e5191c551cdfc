package address

import (
	"net"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultPort 未指定端口时的默认端口
const DefaultPort = "5672"

// Address 解析后的地址
//
// 零值为空的相对地址。
type Address struct {
	// Scheme 协议前缀（不含冒号）
	Scheme string

	// Host 主机（可带端口），仅绝对地址有效
	Host string

	// Path 路径；绝对地址时为空或以 "/" 开头
	Path string

	// Query 查询串（不含 "?"）
	Query string

	absolute bool
	hasQuery bool
}

// Parse 解析地址字符串
func Parse(s string) (Address, error) {
	if !utf8.ValidString(s) {
		return Address{}, invalid(s, "not valid UTF-8")
	}
	for _, r := range s {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return Address{}, invalid(s, "contains whitespace or control character")
		}
	}

	var a Address
	base := s
	if i := strings.IndexByte(s, '?'); i >= 0 {
		base, a.Query, a.hasQuery = s[:i], s[i+1:], true
	}

	i := strings.Index(base, "//")
	if i < 0 || !validSchemePrefix(base[:i]) {
		a.Path = base
		return a, nil
	}

	if i > 0 {
		a.Scheme = base[:i-1]
	}
	a.absolute = true
	rest := base[i+2:]
	if j := strings.IndexByte(rest, '/'); j >= 0 {
		a.Host, a.Path = rest[:j], rest[j:]
	} else {
		a.Host = rest
	}
	if a.Host == "" {
		return Address{}, invalid(s, "empty host")
	}
	return a, nil
}

// MustParse 解析地址，失败时 panic（仅用于常量地址和测试）
func MustParse(s string) Address {
	a, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return a
}

// Validate 校验地址字符串
func Validate(s string) error {
	_, err := Parse(s)
	return err
}

// validSchemePrefix 判断 "//" 之前的部分是否为空或合法的 "scheme:"
func validSchemePrefix(p string) bool {
	if p == "" {
		return true
	}
	if !strings.HasSuffix(p, ":") || len(p) < 2 {
		return false
	}
	for i, r := range p[:len(p)-1] {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && (r >= '0' && r <= '9' || r == '+' || r == '-' || r == '.'):
		default:
			return false
		}
	}
	return true
}

// String 格式化地址，与 Parse 的输入逐字节一致
func (a Address) String() string {
	var b strings.Builder
	if a.absolute {
		if a.Scheme != "" {
			b.WriteString(a.Scheme)
			b.WriteByte(':')
		}
		b.WriteString("//")
		b.WriteString(a.Host)
	}
	b.WriteString(a.Path)
	if a.hasQuery {
		b.WriteByte('?')
		b.WriteString(a.Query)
	}
	return b.String()
}

// IsAbsolute 是否带有 //host
func (a Address) IsAbsolute() bool {
	return a.absolute
}

// HasQuery 是否带有查询串（包括空查询串 "?"）
func (a Address) HasQuery() bool {
	return a.hasQuery
}

// IsWildcard 是否为通配（前缀）地址
func (a Address) IsWildcard() bool {
	return strings.HasSuffix(a.Path, "/")
}

// Segments 返回路径段（不含空段）
func (a Address) Segments() []string {
	return strings.FieldsFunc(a.Path, func(r rune) bool { return r == '/' })
}

// Node 返回协议终端使用的节点地址
//
// 即去掉 scheme 与 //host、去掉开头斜杠的路径，保留查询串：
//
//	"amqp://host/outbox/alice?x=1" → "outbox/alice?x=1"
func (a Address) Node() string {
	n := a.Path
	if a.absolute {
		n = strings.TrimPrefix(n, "/")
	}
	if a.hasQuery {
		n += "?" + a.Query
	}
	return n
}

// HostPort 返回可拨号的 host:port，未指定端口时补 defaultPort
func (a Address) HostPort(defaultPort string) string {
	if a.Host == "" {
		return ""
	}
	if _, _, err := net.SplitHostPort(a.Host); err == nil {
		return a.Host
	}
	return net.JoinHostPort(strings.Trim(a.Host, "[]"), defaultPort)
}

// Ancestors 返回本地址的祖先序列
func (a Address) Ancestors() []string {
	return Ancestors(a.String())
}
