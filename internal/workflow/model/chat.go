package model

import "reno-ai-api/internal/domain/entity"

// ChatInput 方案问答输入
type ChatInput struct {
	Plan    *entity.ProjectPlan
	History []entity.ChatMessage
	Message string
}

// StyleAnalysisInput 灵感图风格分析输入
type StyleAnalysisInput struct {
	Image ImageInput
}
