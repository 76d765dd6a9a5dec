// Package entity 定义领域实体
package entity

// Role 对话角色枚举
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatMessage 单条对话消息，历史记录为只追加的有序列表
type ChatMessage struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}
