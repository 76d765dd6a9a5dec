// Package chat 编排围绕当前方案的跟进问答
package chat

import (
	"context"
	"strings"

	"reno-ai-api/internal/config"
	"reno-ai-api/internal/infrastructure/genai"
	wfmodel "reno-ai-api/internal/workflow/model"
	"reno-ai-api/internal/workflow/node"
	"reno-ai-api/internal/workflow/port"
	workflowprompt "reno-ai-api/internal/workflow/prompt"
	"reno-ai-api/pkg/errors"
	"reno-ai-api/pkg/metrics"
	"reno-ai-api/pkg/retry"
	"reno-ai-api/pkg/tracer"
)

// FallbackReply 模型返回空文本时的兜底回复，对外逐字不变
const FallbackReply = "I'm sorry, I couldn't come up with an answer just now. Could you rephrase your question?"

// Service 方案问答
// 无状态：方案快照与完整历史由调用方随每次请求提供。
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

// Reply 生成一条针对当前方案的回答
func (s *Service) Reply(ctx context.Context, in wfmodel.ChatInput) (string, error) {
	ctx, span := tracer.Start(ctx, "chat.Reply")
	defer span.End()

	timer := metrics.NewGenerationTimer("chat")

	pair, err := s.prompts.Pair(workflowprompt.PromptChatV1)
	if err != nil {
		timer.Observe("error")
		return "", errors.Wrap(err, errors.CodeChatFailed, "chat prompt unavailable")
	}
	system, user, err := pair.Render(map[string]any{
		"PlanBlock":    node.BuildPlanBlock(in.Plan),
		"HistoryBlock": node.BuildHistoryBlock(in.History),
		"Message":      in.Message,
	})
	if err != nil {
		timer.Observe("error")
		return "", errors.Wrap(err, errors.CodeChatFailed, "chat prompt render failed")
	}

	reply, err := retry.Do(ctx, retry.Config{
		MaxRetries: s.cfg.MaxRetries,
		BaseDelay:  s.cfg.RetryBaseDelay,
		Retryable:  genai.IsRateLimit,
		Operation:  "chat",
	}, func(ctx context.Context) (string, error) {
		return s.gen.GenerateText(ctx, []genai.Part{genai.TextPart(user)}, genai.TextOptions{
			Temperature:       genai.Ptr(s.cfg.ChatTemperature),
			SystemInstruction: system,
		})
	})
	if err != nil {
		timer.Observe("error")
		if genai.IsRateLimit(err) {
			return "", errors.Wrap(err, errors.CodeUpstreamRateLimited, "chat reply rate limited")
		}
		return "", errors.Wrap(err, errors.CodeChatFailed, "chat reply failed")
	}

	if strings.TrimSpace(reply) == "" {
		timer.Observe("success")
		return FallbackReply, nil
	}

	timer.Observe("success")
	return reply, nil
}
