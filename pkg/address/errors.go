package address

import (
	"fmt"

	"github.com/dep2p/go-datawire/pkg/types"
)

// ErrInvalidAddress 地址格式无效
var ErrInvalidAddress = types.ErrInvalidAddress

func invalid(s, reason string) error {
	return fmt.Errorf("%w %q: %s", ErrInvalidAddress, s, reason)
}
