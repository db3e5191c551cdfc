package linkspec

import (
	"fmt"

	"github.com/dep2p/go-datawire/pkg/types"
)

// ErrInvalidLinkSpec 链路描述无效
var ErrInvalidLinkSpec = types.ErrInvalidLinkSpec

func invalid(spec, format string, args ...any) error {
	return fmt.Errorf("%w %q: %s", ErrInvalidLinkSpec, spec, fmt.Sprintf(format, args...))
}
