// Package surprise 编排惊喜模式：风格发散 + 代表图像
package surprise

import (
	"context"
	"encoding/json"
	"fmt"

	"reno-ai-api/internal/application/inspiration"
	"reno-ai-api/internal/config"
	"reno-ai-api/internal/domain/entity"
	"reno-ai-api/internal/infrastructure/genai"
	wfmodel "reno-ai-api/internal/workflow/model"
	"reno-ai-api/internal/workflow/node"
	"reno-ai-api/internal/workflow/port"
	workflowprompt "reno-ai-api/internal/workflow/prompt"
	"reno-ai-api/pkg/errors"
	"reno-ai-api/pkg/logger"
	"reno-ai-api/pkg/metrics"
	"reno-ai-api/pkg/retry"
	"reno-ai-api/pkg/tracer"
)

// Service 惊喜模式编排
// 先用高温 schema 调用发散出若干风格，再逐风格串行生成一张代表
// 图像，任何一个风格失败都只影响它自己。
type Service struct {
	gen         port.Generator
	prompts     *workflowprompt.Registry
	inspiration *inspiration.Service
	cfg         config.GenerationConfig
}

// NewService 创建服务
func NewService(gen port.Generator, prompts *workflowprompt.Registry, insp *inspiration.Service, cfg config.GenerationConfig) *Service {
	return &Service{
		gen:         gen,
		prompts:     prompts,
		inspiration: insp,
		cfg:         cfg,
	}
}

// Generate 惊喜模式主流程
// 风格分析失败即中止；图像阶段遇限流耗尽带着已有建议提前收尾。
func (s *Service) Generate(ctx context.Context, in wfmodel.SurpriseGenerateInput) (*entity.SurpriseResult, error) {
	ctx, span := tracer.Start(ctx, "surprise.Generate")
	defer span.End()

	timer := metrics.NewGenerationTimer("surprise")

	analysis, err := s.analyze(ctx, in)
	if err != nil {
		timer.Observe("error")
		return nil, err
	}

	result := &entity.SurpriseResult{
		ItemDescription: analysis.ItemDescription,
		Suggestions:     make([]entity.SurpriseSuggestion, 0, len(analysis.Styles)),
	}

	pacer := genai.NewPacer(s.cfg.StyleImageDelay)
	for _, style := range analysis.Styles {
		if err := pacer.Wait(ctx); err != nil {
			timer.Observe("error")
			return result, err
		}

		refs := s.inspiration.References(ctx, analysis.ItemDescription+" "+style, 1)
		ref := ""
		if len(refs) > 0 {
			ref = refs[0]
		}

		image, err := s.styleImage(ctx, wfmodel.StyleImageInput{
			Photo:           in.Photo,
			Style:           style,
			ItemDescription: analysis.ItemDescription,
			ReferenceURL:    ref,
		})
		if err != nil {
			if genai.IsRateLimit(err) {
				metrics.ImagesGenerated.WithLabelValues("style", "error").Inc()
				logger.Warn(ctx, "surprise image batch ended early on rate limit",
					"generated", len(result.Suggestions), "error", err.Error())
				timer.Observe("error")
				return result, errors.Wrap(err, errors.CodeUpstreamRateLimited, "surprise image generation rate limited")
			}
			logger.Warn(ctx, "style image generation failed, skipping style",
				"style", style, "error", err.Error())
			metrics.ImagesGenerated.WithLabelValues("style", "error").Inc()
			continue
		}
		if image.Empty() {
			logger.Warn(ctx, "style image came back empty, skipping style", "style", style)
			metrics.ImagesGenerated.WithLabelValues("style", "empty").Inc()
			continue
		}

		metrics.ImagesGenerated.WithLabelValues("style", "ok").Inc()
		result.Suggestions = append(result.Suggestions, entity.SurpriseSuggestion{
			Style: style,
			Image: entity.InspirationImage{Data: image.Data, MIMEType: image.MIMEType},
		})
	}

	timer.Observe("success")
	return result, nil
}

// analyze 高温 schema 调用，产出物品描述与固定数量的风格候选
func (s *Service) analyze(ctx context.Context, in wfmodel.SurpriseGenerateInput) (*wfmodel.SurpriseAnalysis, error) {
	pair, err := s.prompts.Pair(workflowprompt.PromptSurpriseV1)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeSurpriseGenerationFailed, "surprise prompt unavailable")
	}
	system, user, err := pair.Render(map[string]any{
		"StyleCount": s.cfg.StyleCount,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeSurpriseGenerationFailed, "surprise prompt render failed")
	}

	parts := []genai.Part{genai.TextPart(user)}
	if !in.Photo.Empty() {
		parts = append(parts, genai.ImagePart(in.Photo.MIMEType, in.Photo.Data))
	}

	raw, err := retry.Do(ctx, retry.Config{
		MaxRetries: s.cfg.MaxRetries,
		BaseDelay:  s.cfg.RetryBaseDelay,
		Retryable:  genai.IsRateLimit,
		Operation:  "surprise",
	}, func(ctx context.Context) (string, error) {
		return s.gen.GenerateJSON(ctx, parts, genai.JSONOptions{
			Temperature:       genai.Ptr(s.cfg.SurpriseTemperature),
			SystemInstruction: system,
			Schema:            s.surpriseSchema(),
		})
	})
	if err != nil {
		if genai.IsRateLimit(err) {
			return nil, errors.Wrap(err, errors.CodeUpstreamRateLimited, "surprise analysis rate limited")
		}
		return nil, errors.Wrap(err, errors.CodeSurpriseGenerationFailed, "surprise analysis failed")
	}

	var analysis wfmodel.SurpriseAnalysis
	if err := json.Unmarshal([]byte(node.ExtractJSONObject(raw)), &analysis); err != nil {
		return nil, errors.Wrap(err, errors.CodeMalformedModelOutput, "surprise output is not valid JSON")
	}
	if analysis.ItemDescription == "" {
		return nil, errors.Wrap(fmt.Errorf("missing field %q", "itemDescription"),
			errors.CodeMalformedModelOutput, "surprise output misses required fields")
	}
	if len(analysis.Styles) == 0 {
		return nil, errors.Wrap(fmt.Errorf("missing field %q", "styles"),
			errors.CodeMalformedModelOutput, "surprise output misses required fields")
	}
	if len(analysis.Styles) > s.cfg.StyleCount {
		analysis.Styles = analysis.Styles[:s.cfg.StyleCount]
	}
	return &analysis, nil
}

// styleImage 生成单个候选风格的代表图像，带轻量限流重试
func (s *Service) styleImage(ctx context.Context, in wfmodel.StyleImageInput) (genai.ImageResult, error) {
	pair, err := s.prompts.Pair(workflowprompt.PromptStyleImageV1)
	if err != nil {
		return genai.ImageResult{}, err
	}
	_, user, err := pair.Render(map[string]any{
		"Style":           in.Style,
		"ItemDescription": in.ItemDescription,
		"ReferenceURL":    in.ReferenceURL,
	})
	if err != nil {
		return genai.ImageResult{}, err
	}

	parts := []genai.Part{genai.TextPart(user)}
	if !in.Photo.Empty() {
		parts = append(parts, genai.ImagePart(in.Photo.MIMEType, in.Photo.Data))
	}

	return retry.Do(ctx, retry.Config{
		MaxRetries: s.cfg.ImageMaxRetries,
		BaseDelay:  s.cfg.RetryBaseDelay,
		Retryable:  genai.IsRateLimit,
		Operation:  "style_image",
	}, func(ctx context.Context) (genai.ImageResult, error) {
		return s.gen.GenerateImage(ctx, parts, genai.ImageOptions{
			AspectRatio: "4:3",
		})
	})
}

// surpriseSchema 惊喜模式输出 schema：物品描述 + 固定数量的风格名
func (s *Service) surpriseSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"itemDescription": map[string]any{
				"type":        "string",
				"description": "Short factual description of the photographed item",
			},
			"styles": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"minItems":    s.cfg.StyleCount,
				"maxItems":    s.cfg.StyleCount,
				"description": "Distinct renovation style names suited to the item",
			},
		},
		"required": []string{"itemDescription", "styles"},
	}
}
