// Package plan 编排完整的改造/DIY 方案生成
package plan

import (
	"context"

	"reno-ai-api/internal/application/inspiration"
	"reno-ai-api/internal/config"
	"reno-ai-api/internal/domain/entity"
	"reno-ai-api/internal/infrastructure/genai"
	wfmodel "reno-ai-api/internal/workflow/model"
	"reno-ai-api/internal/workflow/port"
	workflowprompt "reno-ai-api/internal/workflow/prompt"
	"reno-ai-api/pkg/errors"
	"reno-ai-api/pkg/logger"
	"reno-ai-api/pkg/metrics"
	"reno-ai-api/pkg/retry"
	"reno-ai-api/pkg/tracer"
)

// 视图批次的固定名称，提供初始图时跳过正面视图
var (
	allViews      = []string{"front", "angled", "detail"}
	trailingViews = []string{"angled", "detail"}
)

// Service 方案编排
// 先做 schema 约束的方案调用（硬失败直接中止），再查参考链接并串行
// 生成视图效果图；图像阶段的失败只削减结果，不影响已生成的方案文本。
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

// Generate 生成方案与配套效果图
// 限流重试耗尽仍无方案时返回错误；图像批次遇限流耗尽则带着已有
// 结果提前收尾，调用方拿到的是完整方案加部分图像。
func (s *Service) Generate(ctx context.Context, in wfmodel.PlanGenerateInput) (*entity.PlanResult, error) {
	ctx, span := tracer.Start(ctx, "plan.Generate")
	defer span.End()

	timer := metrics.NewGenerationTimer("plan")

	p, err := s.generatePlan(ctx, in)
	if err != nil {
		timer.Observe("error")
		return nil, err
	}

	images := s.generateViews(ctx, in, p)
	timer.Observe("success")

	return &entity.PlanResult{
		Plan:              p,
		InspirationImages: images,
	}, nil
}

// generatePlan schema 约束的方案调用，全额重试预算
func (s *Service) generatePlan(ctx context.Context, in wfmodel.PlanGenerateInput) (*entity.ProjectPlan, error) {
	pair, err := s.prompts.Pair(workflowprompt.PromptPlanV1)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodePlanGenerationFailed, "plan prompt unavailable")
	}
	system, user, err := pair.Render(map[string]any{
		"Category":    in.Category,
		"Style":       in.Style,
		"Description": in.Description,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.CodePlanGenerationFailed, "plan prompt render failed")
	}

	parts := []genai.Part{genai.TextPart(user)}
	if !in.Photo.Empty() {
		parts = append(parts, genai.ImagePart(in.Photo.MIMEType, in.Photo.Data))
	}

	raw, err := retry.Do(ctx, retry.Config{
		MaxRetries: s.cfg.MaxRetries,
		BaseDelay:  s.cfg.RetryBaseDelay,
		Retryable:  genai.IsRateLimit,
		Operation:  "plan",
	}, func(ctx context.Context) (string, error) {
		return s.gen.GenerateJSON(ctx, parts, genai.JSONOptions{
			Temperature:       genai.Ptr(s.cfg.PlanTemperature),
			SystemInstruction: system,
			Schema:            planSchema(),
		})
	})
	if err != nil {
		if genai.IsRateLimit(err) {
			return nil, errors.Wrap(err, errors.CodeUpstreamRateLimited, "plan generation rate limited")
		}
		return nil, errors.Wrap(err, errors.CodePlanGenerationFailed, "plan generation failed")
	}

	return ParseProjectPlan(raw)
}

// generateViews 参考链接 + 视图效果图批次
// 提供初始图时它占据首位，批次只补 angled/detail 两张。
func (s *Service) generateViews(ctx context.Context, in wfmodel.PlanGenerateInput, p *entity.ProjectPlan) []entity.InspirationImage {
	views := allViews
	images := make([]entity.InspirationImage, 0, len(allViews))
	if !in.InitialImage.Empty() {
		views = trailingViews
		images = append(images, entity.InspirationImage{
			Data:     in.InitialImage.Data,
			MIMEType: in.InitialImage.MIMEType,
		})
	}

	refs := s.inspiration.References(ctx, p.ItemDescription+" "+in.Style, len(views))

	generated, err := s.inspiration.Views(ctx, inspiration.ViewBatchInput{
		Photo:           in.Photo,
		Style:           in.Style,
		ItemDescription: p.ItemDescription,
		Views:           views,
		References:      refs,
	})
	if err != nil {
		logger.Warn(ctx, "view image batch ended early, returning partial results",
			"generated", len(generated), "requested", len(views), "error", err.Error())
	}

	return append(images, generated...)
}
