package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestEventType_String 测试事件类型名称唯一
func TestEventType_String(t *testing.T) {
	seen := make(map[string]bool)
	for _, et := range AllEventTypes() {
		name := et.String()
		assert.NotContains(t, name, "event(")
		assert.False(t, seen[name], "duplicate %s", name)
		seen[name] = true
	}
	assert.Equal(t, "event(0)", EventType(0).String())
}

// TestLinkDescriptor_String 测试描述符规范化输出
func TestLinkDescriptor_String(t *testing.T) {
	d := LinkDescriptor{
		Local:   "//localhost/outbox/alice",
		Remote:  "//example.com/inbox/bob",
		Role:    RoleSender,
		Options: map[string]string{"b": "2", "a": "1"},
	}
	assert.Equal(t, "send //localhost/outbox/alice -> //example.com/inbox/bob a=1 b=2", d.String())

	c := d.Clone()
	c.Options["a"] = "changed"
	assert.Equal(t, "1", d.Options["a"])

	v, ok := d.Option("b")
	assert.True(t, ok)
	assert.Equal(t, "2", v)
	assert.True(t, d.IsSender())
	assert.True(t, d.HasRemote())
}

// TestNewMessage 测试消息构造
func TestNewMessage(t *testing.T) {
	m := NewTextMessage("woof")
	assert.NotEmpty(t, m.ID)
	assert.Equal(t, "woof", m.Text())
	assert.Equal(t, "text/plain", m.ContentType)

	var nilMsg *Message
	assert.Equal(t, "", nilMsg.Text())
}
