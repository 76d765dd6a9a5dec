package dto

import (
	"strings"

	"reno-ai-api/internal/domain/entity"
	wfmodel "reno-ai-api/internal/workflow/model"
	"reno-ai-api/pkg/errors"
)

// 浏览器端允许上传的图像格式
var allowedImageMIMETypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// ImagePayload 请求/响应中的图像载荷，Data 在 JSON 中为 base64
type ImagePayload struct {
	Data     []byte `json:"data"`
	MIMEType string `json:"mime_type"`
}

// Validate 校验载荷可用于生成调用
func (p *ImagePayload) Validate() error {
	if p == nil || len(p.Data) == 0 {
		return errors.New(errors.CodeInvalidImagePayload, "image data is required")
	}
	if !allowedImageMIMETypes[strings.ToLower(p.MIMEType)] {
		return errors.New(errors.CodeInvalidImagePayload, "unsupported image mime type: "+p.MIMEType)
	}
	return nil
}

// ToModel 转换为工作流输入
func (p *ImagePayload) ToModel() wfmodel.ImageInput {
	if p == nil {
		return wfmodel.ImageInput{}
	}
	return wfmodel.ImageInput{Data: p.Data, MIMEType: p.MIMEType}
}

// NewImagePayload 从领域实体构建响应载荷
func NewImagePayload(img entity.InspirationImage) ImagePayload {
	return ImagePayload{Data: img.Data, MIMEType: img.MIMEType}
}

// GeneratePlanRequest 方案生成请求
type GeneratePlanRequest struct {
	Photo       ImagePayload `json:"photo" binding:"required"`
	Category    string       `json:"category" binding:"required"`
	Style       string       `json:"style" binding:"required"`
	Description string       `json:"description"`
	// InitialImage 先前挑选的首张效果图，提供时视图批次只补两张
	InitialImage *ImagePayload `json:"initial_image,omitempty"`
}

// PlanDTO 结构化方案，字段与生成 schema 一致
type PlanDTO struct {
	StyleSummary    string   `json:"styleSummary"`
	Steps           []string `json:"steps"`
	CostEstimate    string   `json:"costEstimate"`
	TimeEstimate    string   `json:"timeEstimate"`
	Materials       []string `json:"materials"`
	Tools           []string `json:"tools"`
	Safety          []string `json:"safety"`
	ItemDescription string   `json:"itemDescription"`
}

// NewPlanDTO 从领域实体构建
func NewPlanDTO(p *entity.ProjectPlan) *PlanDTO {
	if p == nil {
		return nil
	}
	return &PlanDTO{
		StyleSummary:    p.StyleSummary,
		Steps:           p.Steps,
		CostEstimate:    p.CostEstimate,
		TimeEstimate:    p.TimeEstimate,
		Materials:       p.Materials,
		Tools:           p.Tools,
		Safety:          p.Safety,
		ItemDescription: p.ItemDescription,
	}
}

// ToEntity 转回领域实体（问答请求携带方案快照时使用）
func (d *PlanDTO) ToEntity() *entity.ProjectPlan {
	if d == nil {
		return nil
	}
	return &entity.ProjectPlan{
		StyleSummary:    d.StyleSummary,
		Steps:           d.Steps,
		CostEstimate:    d.CostEstimate,
		TimeEstimate:    d.TimeEstimate,
		Materials:       d.Materials,
		Tools:           d.Tools,
		Safety:          d.Safety,
		ItemDescription: d.ItemDescription,
	}
}

// GeneratePlanResponse 方案生成响应
type GeneratePlanResponse struct {
	Plan              *PlanDTO       `json:"plan"`
	InspirationImages []ImagePayload `json:"inspiration_images"`
}

// StepImageRequest 步骤示意图请求
type StepImageRequest struct {
	Photo           ImagePayload `json:"photo" binding:"required"`
	ItemDescription string       `json:"item_description" binding:"required"`
	Style           string       `json:"style" binding:"required"`
	StepDescription string       `json:"step_description" binding:"required"`
}

// StepImageResponse 步骤示意图响应，生成被跳过时 Image 为 null
type StepImageResponse struct {
	Image *ImagePayload `json:"image"`
}

// StyleAnalysisRequest 灵感图风格分析请求
type StyleAnalysisRequest struct {
	Image ImagePayload `json:"image" binding:"required"`
}

// StyleAnalysisResponse 风格分析响应
type StyleAnalysisResponse struct {
	Style string `json:"style"`
}

// SurpriseRequest 惊喜模式请求
type SurpriseRequest struct {
	Photo ImagePayload `json:"photo" binding:"required"`
}

// SurpriseSuggestionDTO 单个风格建议
type SurpriseSuggestionDTO struct {
	Style string       `json:"style"`
	Image ImagePayload `json:"image"`
}

// SurpriseResponse 惊喜模式响应
type SurpriseResponse struct {
	ItemDescription string                  `json:"item_description"`
	Suggestions     []SurpriseSuggestionDTO `json:"suggestions"`
}

// InspirationRequest 视图效果图批次请求
type InspirationRequest struct {
	Photo           ImagePayload `json:"photo" binding:"required"`
	Style           string       `json:"style" binding:"required"`
	ItemDescription string       `json:"item_description" binding:"required"`
	Views           []string     `json:"views" binding:"required,min=1"`
}

// InspirationResponse 视图效果图批次响应
// Images 按请求顺序排列，失败的视图被省略，可能少于请求数。
type InspirationResponse struct {
	Images []ImagePayload `json:"images"`
}

// ChatMessageDTO 对话历史条目，role 取 user/assistant
type ChatMessageDTO struct {
	Role string `json:"role" binding:"required,oneof=user assistant"`
	Text string `json:"text" binding:"required"`
}

// ChatRequest 方案问答请求
// 服务端无状态，方案快照与完整历史随每次请求提供。
type ChatRequest struct {
	Plan    *PlanDTO         `json:"plan"`
	History []ChatMessageDTO `json:"history"`
	Message string           `json:"message" binding:"required"`
}

// ChatResponse 方案问答响应
type ChatResponse struct {
	Reply string `json:"reply"`
}

// ToEntities 转换对话历史
func ToEntities(history []ChatMessageDTO) []entity.ChatMessage {
	if len(history) == 0 {
		return nil
	}
	out := make([]entity.ChatMessage, 0, len(history))
	for _, m := range history {
		role := entity.RoleUser
		if m.Role == "assistant" {
			role = entity.RoleAssistant
		}
		out = append(out, entity.ChatMessage{Role: role, Text: m.Text})
	}
	return out
}
