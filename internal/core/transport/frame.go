package transport

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/fxamacker/cbor/v2"

	"github.com/dep2p/go-datawire/pkg/types"
)

// FrameType 帧类型
type FrameType uint8

const (
	// FrameAttach 打开链路
	FrameAttach FrameType = iota + 1
	// FrameDetach 关闭链路
	FrameDetach
	// FrameTransfer 传输消息
	FrameTransfer
)

// String 返回帧类型名称
func (t FrameType) String() string {
	switch t {
	case FrameAttach:
		return "attach"
	case FrameDetach:
		return "detach"
	case FrameTransfer:
		return "transfer"
	default:
		return fmt.Sprintf("frame(%d)", uint8(t))
	}
}

// Frame 链路帧
//
// Source / Target 为 nil 表示发送方没有声明该地址，与空字符串不同。
type Frame struct {
	Type    FrameType         `cbor:"1,keyasint"`
	Name    string            `cbor:"2,keyasint,omitempty"`
	Role    types.Role        `cbor:"3,keyasint,omitempty"`
	Source  *string           `cbor:"4,keyasint,omitempty"`
	Target  *string           `cbor:"5,keyasint,omitempty"`
	Error   string            `cbor:"6,keyasint,omitempty"`
	Message *types.Message    `cbor:"7,keyasint,omitempty"`
	Options map[string]string `cbor:"8,keyasint,omitempty"`
}

// 帧头：4 字节大端长度
const frameHeaderLen = 4

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("transport: CBOR encoder initialization failed: " + err.Error())
	}
	decMode, err = cbor.DecOptions{}.DecMode()
	if err != nil {
		panic("transport: CBOR decoder initialization failed: " + err.Error())
	}
}

// encodeFrame 编码帧（含长度头）
func encodeFrame(f *Frame, maxSize int) ([]byte, error) {
	payload, err := encMode.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("encode %s frame: %w", f.Type, err)
	}
	if maxSize > 0 && len(payload) > maxSize {
		return nil, fmt.Errorf("%w: %d > %d", ErrFrameTooLarge, len(payload), maxSize)
	}
	buf := make([]byte, frameHeaderLen+len(payload))
	binary.BigEndian.PutUint32(buf, uint32(len(payload)))
	copy(buf[frameHeaderLen:], payload)
	return buf, nil
}

// writeFrame 写入一帧，返回写入的字节数
func writeFrame(w io.Writer, f *Frame, maxSize int) (int, error) {
	buf, err := encodeFrame(f, maxSize)
	if err != nil {
		return 0, err
	}
	return w.Write(buf)
}

// readFrame 读取一帧，返回帧和读取的字节数
func readFrame(r io.Reader, maxSize int) (*Frame, int, error) {
	var hdr [frameHeaderLen]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, 0, err
	}
	size := int(binary.BigEndian.Uint32(hdr[:]))
	if maxSize > 0 && size > maxSize {
		return nil, 0, fmt.Errorf("%w: %d > %d", ErrFrameTooLarge, size, maxSize)
	}
	payload := make([]byte, size)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, 0, err
	}
	f := new(Frame)
	if err := decMode.Unmarshal(payload, f); err != nil {
		return nil, 0, fmt.Errorf("decode frame: %w", err)
	}
	return f, frameHeaderLen + size, nil
}

func strPtr(s string) *string {
	return &s
}
