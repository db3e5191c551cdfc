// Package types 定义 datawire 的公共数据结构
//
// 这是整个系统的最底层包，不依赖任何其他 datawire 内部包。
// 所有类型都是纯值类型，用于在各模块间传递数据。
//
// # 文件组织
//
//   - enums.go      - Role, LinkState, EndpointState
//   - events.go     - EventType
//   - descriptor.go - LinkDescriptor（链路描述符）
//   - message.go    - Message（链路上传输的消息）
//   - errors.go     - 公共错误定义
package types
