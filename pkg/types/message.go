package types

import (
	"time"

	"github.com/google/uuid"
)

// Message 链路上传输的消息
type Message struct {
	// ID 消息 ID
	ID string `cbor:"1,keyasint,omitempty" json:"id,omitempty"`

	// Address 目标地址
	Address string `cbor:"2,keyasint,omitempty" json:"address,omitempty"`

	// Subject 主题
	Subject string `cbor:"3,keyasint,omitempty" json:"subject,omitempty"`

	// ContentType 内容类型
	ContentType string `cbor:"4,keyasint,omitempty" json:"content_type,omitempty"`

	// Properties 应用属性
	Properties map[string]string `cbor:"5,keyasint,omitempty" json:"properties,omitempty"`

	// Body 消息体
	Body []byte `cbor:"6,keyasint,omitempty" json:"body,omitempty"`

	// CreatedAt 创建时间（Unix 毫秒）
	CreatedAt int64 `cbor:"7,keyasint,omitempty" json:"created_at,omitempty"`
}

// NewMessage 创建消息并分配 ID
func NewMessage(body []byte) *Message {
	return &Message{
		ID:        uuid.NewString(),
		Body:      body,
		CreatedAt: time.Now().UnixMilli(),
	}
}

// NewTextMessage 创建文本消息
func NewTextMessage(text string) *Message {
	m := NewMessage([]byte(text))
	m.ContentType = "text/plain"
	return m
}

// Text 以字符串形式返回消息体
func (m *Message) Text() string {
	if m == nil {
		return ""
	}
	return string(m.Body)
}
