package linkspec

import (
	"strings"

	"github.com/dep2p/go-datawire/pkg/address"
	"github.com/dep2p/go-datawire/pkg/types"
)

const (
	arrowOut = "->"
	arrowIn  = "<-"

	// OptionName 指定链路名称的选项
	OptionName = "name"
)

// Parse 解析链路描述
//
// 返回的描述符已计算好拨号目标和 attach 终端地址。
func Parse(spec string) (types.LinkDescriptor, error) {
	return ParseWith(spec, nil)
}

// ParseWith 解析链路描述并合并额外选项
//
// extra 中的选项覆盖描述串中的同名选项。
func ParseWith(spec string, extra map[string]string) (types.LinkDescriptor, error) {
	tokens := strings.Fields(spec)
	if len(tokens) == 0 {
		return types.LinkDescriptor{}, invalid(spec, "empty")
	}

	var (
		d        types.LinkDescriptor
		explicit bool
	)
	d.Role = types.RoleReceiver

	if r, err := types.ParseRole(tokens[0]); err == nil {
		d.Role, explicit = r, true
		tokens = tokens[1:]
	}
	if len(tokens) == 0 {
		return types.LinkDescriptor{}, invalid(spec, "missing local address")
	}

	d.Local = tokens[0]
	tokens = tokens[1:]
	if strings.Contains(d.Local, "=") || isArrow(d.Local) {
		return types.LinkDescriptor{}, invalid(spec, "missing local address")
	}

	if len(tokens) > 0 && isArrow(tokens[0]) {
		arrow := tokens[0]
		if len(tokens) < 2 {
			return types.LinkDescriptor{}, invalid(spec, "missing remote address after %s", arrow)
		}
		role := types.RoleReceiver
		if arrow == arrowOut {
			role = types.RoleSender
		}
		if explicit && role != d.Role {
			return types.LinkDescriptor{}, invalid(spec, "%s conflicts with role %s", arrow, d.Role)
		}
		d.Role = role
		d.Remote = tokens[1]
		tokens = tokens[2:]
	}

	for _, tok := range tokens {
		k, v, ok := strings.Cut(tok, "=")
		if !ok || k == "" {
			return types.LinkDescriptor{}, invalid(spec, "unexpected token %q", tok)
		}
		if d.Options == nil {
			d.Options = make(map[string]string)
		}
		d.Options[k] = v
	}
	for k, v := range extra {
		if d.Options == nil {
			d.Options = make(map[string]string)
		}
		d.Options[k] = v
	}
	if name, ok := d.Options[OptionName]; ok {
		d.Name = name
		delete(d.Options, OptionName)
		if len(d.Options) == 0 {
			d.Options = nil
		}
	}

	if err := resolveTermini(spec, &d); err != nil {
		return types.LinkDescriptor{}, err
	}
	return d, nil
}

// MustParse 解析链路描述，失败时 panic（仅用于测试和常量描述）
func MustParse(spec string) types.LinkDescriptor {
	d, err := Parse(spec)
	if err != nil {
		panic(err)
	}
	return d
}

func isArrow(s string) bool {
	return s == arrowOut || s == arrowIn
}

// resolveTermini 计算拨号目标与终端地址
//
// 对端地址存在时优先从对端取 host；终端地址使用节点形式。
func resolveTermini(spec string, d *types.LinkDescriptor) error {
	local, err := address.Parse(d.Local)
	if err != nil {
		return invalid(spec, "local address: %v", err)
	}
	remote := local
	if d.Remote != "" {
		if remote, err = address.Parse(d.Remote); err != nil {
			return invalid(spec, "remote address: %v", err)
		}
	}

	switch {
	case remote.IsAbsolute():
		d.Host = remote.HostPort(address.DefaultPort)
	case local.IsAbsolute():
		d.Host = local.HostPort(address.DefaultPort)
	default:
		return invalid(spec, "no address names a host")
	}

	if d.Role == types.RoleSender {
		d.Source, d.Target = local.Node(), remote.Node()
	} else {
		d.Source, d.Target = remote.Node(), local.Node()
	}
	return nil
}
