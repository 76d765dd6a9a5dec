// Package inspiration 提供参考链接查询与效果图批量生成
package inspiration

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"reno-ai-api/internal/config"
	"reno-ai-api/internal/domain/entity"
	"reno-ai-api/internal/infrastructure/genai"
	"reno-ai-api/internal/infrastructure/persistence/redis"
	wfmodel "reno-ai-api/internal/workflow/model"
	"reno-ai-api/internal/workflow/port"
	workflowprompt "reno-ai-api/internal/workflow/prompt"
	"reno-ai-api/pkg/logger"
	"reno-ai-api/pkg/metrics"
	"reno-ai-api/pkg/retry"
)

// Service 参考链接查询与图像扇出
// 图像批次严格串行并在每次调用前等待固定间隔，礼让上游配额；
// 单项失败被隔离，批次结果按原始顺序只含成功项。
type Service struct {
	gen     port.Generator
	prompts *workflowprompt.Registry
	cache   *redis.Cache
	cfg     config.GenerationConfig
}

// NewService 创建服务
func NewService(gen port.Generator, prompts *workflowprompt.Registry, cache *redis.Cache, cfg config.GenerationConfig) *Service {
	return &Service{
		gen:     gen,
		prompts: prompts,
		cache:   cache,
		cfg:     cfg,
	}
}

// References 查询最多 n 条真实参考链接
// 对外永不失败：查询出错或结果不足时用空串补齐，调用方总是拿到恰好 n 个槽位。
func (s *Service) References(ctx context.Context, query string, n int) []string {
	if n <= 0 {
		return nil
	}

	uris, err := s.lookupReferences(ctx, query, n)
	if err != nil {
		logger.Warn(ctx, "reference lookup failed, padding with empty slots",
			"query", query, "error", err.Error())
		uris = nil
	}

	out := make([]string, n)
	for i := 0; i < n && i < len(uris); i++ {
		out[i] = uris[i]
	}
	for i := len(uris); i < n; i++ {
		metrics.ReferenceLookups.WithLabelValues("padded").Inc()
	}
	return out
}

// lookupReferences 实际执行查询，带缓存与限流重试
func (s *Service) lookupReferences(ctx context.Context, query string, n int) ([]string, error) {
	if s.cache == nil {
		return s.searchReferences(ctx, query, n)
	}

	key := referenceCacheKey(query, n)
	loaded := false
	data, err := s.cache.GetOrLoadSafe(ctx, key, s.cfg.ReferenceCacheTTL, func() (any, error) {
		loaded = true
		uris, err := s.searchReferences(ctx, query, n)
		if err != nil {
			return nil, err
		}
		return uris, nil
	})
	if err != nil {
		return nil, err
	}

	var uris []string
	if err := json.Unmarshal(data, &uris); err != nil {
		return nil, fmt.Errorf("failed to decode cached references: %w", err)
	}
	if !loaded {
		metrics.ReferenceLookups.WithLabelValues("cache").Inc()
	}
	return uris, nil
}

// searchReferences 通过搜索接地调用获取参考链接
func (s *Service) searchReferences(ctx context.Context, query string, n int) ([]string, error) {
	pair, err := s.prompts.Pair(workflowprompt.PromptReferenceSearchV1)
	if err != nil {
		return nil, err
	}
	system, user, err := pair.Render(map[string]any{
		"Query": query,
		"Count": n,
	})
	if err != nil {
		return nil, err
	}

	result, err := retry.Do(ctx, s.retryConfig("reference_search", s.cfg.MaxRetries),
		func(ctx context.Context) (genai.GroundedResult, error) {
			return s.gen.GenerateGrounded(ctx, []genai.Part{genai.TextPart(user)}, genai.TextOptions{
				SystemInstruction: system,
			})
		})
	if err != nil {
		return nil, err
	}

	metrics.ReferenceLookups.WithLabelValues("upstream").Inc()
	if len(result.URIs) > n {
		return result.URIs[:n], nil
	}
	return result.URIs, nil
}

// ViewBatchInput 方案视图批次输入
type ViewBatchInput struct {
	Photo           wfmodel.ImageInput
	Style           string
	ItemDescription string
	// Views 请求的视图名，与 References 一一对应
	Views []string
	// References 每个视图的参考链接，可为空串
	References []string
}

// Views 按顺序串行生成视图效果图
// 单项失败（安全过滤、非限流错误）记日志后跳过；限流错误在轻量重试
// 耗尽后中断批次并连同已生成的图像一起返回。
func (s *Service) Views(ctx context.Context, in ViewBatchInput) ([]entity.InspirationImage, error) {
	images := make([]entity.InspirationImage, 0, len(in.Views))
	pacer := genai.NewPacer(s.cfg.ViewImageDelay)

	for i, view := range in.Views {
		if err := pacer.Wait(ctx); err != nil {
			return images, err
		}

		ref := ""
		if i < len(in.References) {
			ref = in.References[i]
		}

		result, err := s.viewImage(ctx, wfmodel.ViewImageInput{
			Photo:           in.Photo,
			View:            view,
			Style:           in.Style,
			ItemDescription: in.ItemDescription,
			ReferenceURL:    ref,
		})
		if err != nil {
			if genai.IsRateLimit(err) {
				metrics.ImagesGenerated.WithLabelValues("view", "error").Inc()
				return images, err
			}
			logger.Warn(ctx, "view image generation failed, skipping",
				"view", view, "error", err.Error())
			metrics.ImagesGenerated.WithLabelValues("view", "error").Inc()
			continue
		}
		if result.Empty() {
			logger.Warn(ctx, "view image came back empty, skipping", "view", view)
			metrics.ImagesGenerated.WithLabelValues("view", "empty").Inc()
			continue
		}

		metrics.ImagesGenerated.WithLabelValues("view", "ok").Inc()
		images = append(images, entity.InspirationImage{
			Data:     result.Data,
			MIMEType: result.MIMEType,
		})
	}

	return images, nil
}

// viewImage 生成单张视图效果图，带轻量限流重试
func (s *Service) viewImage(ctx context.Context, in wfmodel.ViewImageInput) (genai.ImageResult, error) {
	pair, err := s.prompts.Pair(workflowprompt.PromptViewImageV1)
	if err != nil {
		return genai.ImageResult{}, err
	}
	_, user, err := pair.Render(map[string]any{
		"View":            in.View,
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

	return retry.Do(ctx, s.retryConfig("view_image", s.cfg.ImageMaxRetries),
		func(ctx context.Context) (genai.ImageResult, error) {
			return s.gen.GenerateImage(ctx, parts, genai.ImageOptions{
				AspectRatio: "4:3",
			})
		})
}

// StepImage 为单个步骤生成示意图
// 尽力而为：非限流错误被吞掉并返回空结果，对应的插图直接省略。
func (s *Service) StepImage(ctx context.Context, in wfmodel.StepImageInput) (genai.ImageResult, error) {
	pair, err := s.prompts.Pair(workflowprompt.PromptStepImageV1)
	if err != nil {
		return genai.ImageResult{}, err
	}
	_, user, err := pair.Render(map[string]any{
		"ItemDescription": in.ItemDescription,
		"Style":           in.Style,
		"StepDescription": in.StepDescription,
	})
	if err != nil {
		return genai.ImageResult{}, err
	}

	parts := []genai.Part{genai.TextPart(user)}
	if !in.Photo.Empty() {
		parts = append(parts, genai.ImagePart(in.Photo.MIMEType, in.Photo.Data))
	}

	result, err := retry.Do(ctx, s.retryConfig("step_image", s.cfg.ImageMaxRetries),
		func(ctx context.Context) (genai.ImageResult, error) {
			return s.gen.GenerateImage(ctx, parts, genai.ImageOptions{
				AspectRatio: "4:3",
			})
		})
	if err != nil {
		if genai.IsRateLimit(err) {
			metrics.ImagesGenerated.WithLabelValues("step", "error").Inc()
			return genai.ImageResult{}, err
		}
		logger.Warn(ctx, "step image generation failed, omitting illustration", "error", err.Error())
		metrics.ImagesGenerated.WithLabelValues("step", "error").Inc()
		return genai.ImageResult{}, nil
	}

	if result.Empty() {
		metrics.ImagesGenerated.WithLabelValues("step", "empty").Inc()
	} else {
		metrics.ImagesGenerated.WithLabelValues("step", "ok").Inc()
	}
	return result, nil
}

func (s *Service) retryConfig(operation string, maxRetries int) retry.Config {
	baseDelay := s.cfg.RetryBaseDelay
	if baseDelay <= 0 {
		baseDelay = retry.DefaultBaseDelay
	}
	return retry.Config{
		MaxRetries: maxRetries,
		BaseDelay:  baseDelay,
		Retryable:  genai.IsRateLimit,
		Operation:  operation,
	}
}

func referenceCacheKey(query string, n int) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(query))))
	return fmt.Sprintf("refs:%s:%d", hex.EncodeToString(sum[:8]), n)
}
