// Package analysis 提供灵感图的风格识别
package analysis

import (
	"context"
	"strings"

	"reno-ai-api/internal/config"
	"reno-ai-api/internal/infrastructure/genai"
	wfmodel "reno-ai-api/internal/workflow/model"
	"reno-ai-api/internal/workflow/port"
	workflowprompt "reno-ai-api/internal/workflow/prompt"
	"reno-ai-api/pkg/errors"
	"reno-ai-api/pkg/metrics"
	"reno-ai-api/pkg/retry"
	"reno-ai-api/pkg/tracer"
)

// Service 风格分析
// 输入一张灵感图，输出一段可直接塞进方案提示词的自由文本风格描述。
type Service struct {
	gen     port.Generator
	prompts *workflowprompt.Registry
	cfg     config.GenerationConfig
}

// NewService 创建服务
func NewService(gen port.Generator, prompts *workflowprompt.Registry, cfg config.GenerationConfig) *Service {
	return &Service{
		gen:     gen,
		prompts: prompts,
		cfg:     cfg,
	}
}

// DescribeStyle 识别灵感图的装修/改造风格
func (s *Service) DescribeStyle(ctx context.Context, in wfmodel.StyleAnalysisInput) (string, error) {
	ctx, span := tracer.Start(ctx, "analysis.DescribeStyle")
	defer span.End()

	timer := metrics.NewGenerationTimer("style_analysis")

	if in.Image.Empty() {
		timer.Observe("error")
		return "", errors.New(errors.CodeInvalidImagePayload, "inspiration image is required")
	}

	pair, err := s.prompts.Pair(workflowprompt.PromptStyleAnalysisV1)
	if err != nil {
		timer.Observe("error")
		return "", errors.Wrap(err, errors.CodeStyleAnalysisFailed, "style analysis prompt unavailable")
	}
	system, user, err := pair.Render(nil)
	if err != nil {
		timer.Observe("error")
		return "", errors.Wrap(err, errors.CodeStyleAnalysisFailed, "style analysis prompt render failed")
	}

	parts := []genai.Part{
		genai.TextPart(user),
		genai.ImagePart(in.Image.MIMEType, in.Image.Data),
	}

	text, err := retry.Do(ctx, retry.Config{
		MaxRetries: s.cfg.MaxRetries,
		BaseDelay:  s.cfg.RetryBaseDelay,
		Retryable:  genai.IsRateLimit,
		Operation:  "style_analysis",
	}, func(ctx context.Context) (string, error) {
		return s.gen.GenerateText(ctx, parts, genai.TextOptions{
			SystemInstruction: system,
		})
	})
	if err != nil {
		timer.Observe("error")
		if genai.IsRateLimit(err) {
			return "", errors.Wrap(err, errors.CodeUpstreamRateLimited, "style analysis rate limited")
		}
		return "", errors.Wrap(err, errors.CodeStyleAnalysisFailed, "style analysis failed")
	}

	text = strings.TrimSpace(text)
	if text == "" {
		timer.Observe("error")
		return "", errors.New(errors.CodeMalformedModelOutput, "style analysis returned empty text")
	}

	timer.Observe("success")
	return text, nil
}
