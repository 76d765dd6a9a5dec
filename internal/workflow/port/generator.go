package port

import (
	"context"

	"reno-ai-api/internal/infrastructure/genai"
)

// Generator 定义编排层对多模态生成服务的最小依赖（port）。
// *genai.Client 是生产实现，测试中用假实现替换。
type Generator interface {
	// GenerateText 自由文本生成
	GenerateText(ctx context.Context, parts []genai.Part, opts genai.TextOptions) (string, error)
	// GenerateJSON schema 约束的 JSON 生成，返回原始文本由调用方解析
	GenerateJSON(ctx context.Context, parts []genai.Part, opts genai.JSONOptions) (string, error)
	// GenerateImage 图像生成；服务未返回图像部件时结果为空而非错误
	GenerateImage(ctx context.Context, parts []genai.Part, opts genai.ImageOptions) (genai.ImageResult, error)
	// GenerateGrounded 搜索接地生成，返回文本与接地引用链接
	GenerateGrounded(ctx context.Context, parts []genai.Part, opts genai.TextOptions) (genai.GroundedResult, error)
}
