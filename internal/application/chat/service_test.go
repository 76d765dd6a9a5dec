package chat

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reno-ai-api/internal/config"
	"reno-ai-api/internal/domain/entity"
	"reno-ai-api/internal/infrastructure/genai"
	wfmodel "reno-ai-api/internal/workflow/model"
	workflowprompt "reno-ai-api/internal/workflow/prompt"
	apperrors "reno-ai-api/pkg/errors"
)

// fakeGenerator 可编程的生成服务假实现
type fakeGenerator struct {
	textOutput string
	textErr    error
	lastParts  []genai.Part
	lastOpts   genai.TextOptions
}

func (f *fakeGenerator) GenerateText(ctx context.Context, parts []genai.Part, opts genai.TextOptions) (string, error) {
	f.lastParts = parts
	f.lastOpts = opts
	return f.textOutput, f.textErr
}

func (f *fakeGenerator) GenerateJSON(ctx context.Context, parts []genai.Part, opts genai.JSONOptions) (string, error) {
	return "", nil
}

func (f *fakeGenerator) GenerateImage(ctx context.Context, parts []genai.Part, opts genai.ImageOptions) (genai.ImageResult, error) {
	return genai.ImageResult{}, nil
}

func (f *fakeGenerator) GenerateGrounded(ctx context.Context, parts []genai.Part, opts genai.TextOptions) (genai.GroundedResult, error) {
	return genai.GroundedResult{}, nil
}

func newTestService(gen *fakeGenerator) *Service {
	return NewService(gen, workflowprompt.NewRegistry(), config.GenerationConfig{
		ChatTemperature: 0.5,
		MaxRetries:      1,
		RetryBaseDelay:  time.Millisecond,
	})
}

func TestReply_ReturnsModelText(t *testing.T) {
	gen := &fakeGenerator{textOutput: "Use 120 grit first, then 220."}
	svc := newTestService(gen)

	reply, err := svc.Reply(context.Background(), wfmodel.ChatInput{
		Message: "What sandpaper grit should I use?",
	})
	require.NoError(t, err)
	assert.Equal(t, "Use 120 grit first, then 220.", reply)

	require.NotNil(t, gen.lastOpts.Temperature)
	assert.InDelta(t, 0.5, float64(*gen.lastOpts.Temperature), 0.001)
}

func TestReply_EmptyTextGetsFallbackVerbatim(t *testing.T) {
	gen := &fakeGenerator{textOutput: "   \n  "}
	svc := newTestService(gen)

	reply, err := svc.Reply(context.Background(), wfmodel.ChatInput{Message: "hello?"})
	require.NoError(t, err)
	assert.Equal(t, FallbackReply, reply)
}

func TestReply_PromptCarriesPlanAndHistory(t *testing.T) {
	gen := &fakeGenerator{textOutput: "Sure."}
	svc := newTestService(gen)

	_, err := svc.Reply(context.Background(), wfmodel.ChatInput{
		Plan: &entity.ProjectPlan{ItemDescription: "oak dresser", StyleSummary: "japandi"},
		History: []entity.ChatMessage{
			{Role: entity.RoleUser, Text: "Can I skip priming?"},
			{Role: entity.RoleAssistant, Text: "Not on laminate surfaces."},
		},
		Message: "What primer do you recommend?",
	})
	require.NoError(t, err)

	require.Len(t, gen.lastParts, 1)
	prompt := gen.lastParts[0].Text
	assert.Contains(t, prompt, `"itemDescription": "oak dresser"`)
	assert.Contains(t, prompt, "User: Can I skip priming?")
	assert.Contains(t, prompt, "Assistant: Not on laminate surfaces.")
	assert.Contains(t, prompt, "What primer do you recommend?")
}

func TestReply_UpstreamErrorWrapped(t *testing.T) {
	gen := &fakeGenerator{textErr: errors.New("connection reset")}
	svc := newTestService(gen)

	_, err := svc.Reply(context.Background(), wfmodel.ChatInput{Message: "hi"})
	require.Error(t, err)
	appErr := apperrors.AsAppError(err)
	assert.Equal(t, apperrors.CodeChatFailed, appErr.Code)
}
