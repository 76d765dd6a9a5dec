package node

import (
	"encoding/json"
	"strings"

	"reno-ai-api/internal/domain/entity"
)

// BuildHistoryBlock 把对话历史转写为角色前缀的多行文本
func BuildHistoryBlock(history []entity.ChatMessage) string {
	if len(history) == 0 {
		return "(no previous messages)"
	}
	lines := make([]string, 0, len(history))
	for _, m := range history {
		text := strings.TrimSpace(m.Text)
		if text == "" {
			continue
		}
		prefix := "User"
		if m.Role == entity.RoleAssistant {
			prefix = "Assistant"
		}
		lines = append(lines, prefix+": "+text)
	}
	if len(lines) == 0 {
		return "(no previous messages)"
	}
	return strings.Join(lines, "\n")
}

// BuildPlanBlock 把当前方案序列化为嵌入提示词的快照
func BuildPlanBlock(plan *entity.ProjectPlan) string {
	if plan == nil {
		return "(no plan)"
	}
	data, err := json.MarshalIndent(plan, "", "  ")
	if err != nil {
		return "(no plan)"
	}
	return string(data)
}
