package plan

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reno-ai-api/internal/application/inspiration"
	"reno-ai-api/internal/config"
	"reno-ai-api/internal/infrastructure/genai"
	wfmodel "reno-ai-api/internal/workflow/model"
	workflowprompt "reno-ai-api/internal/workflow/prompt"
	apperrors "reno-ai-api/pkg/errors"
)

// fakeGenerator 可编程的生成服务假实现
type fakeGenerator struct {
	jsonOutput string
	jsonErrs   []error
	jsonCalls  int

	imageData  byte
	imageErr   error
	imageCalls int

	groundedURIs []string
}

func (f *fakeGenerator) GenerateText(ctx context.Context, parts []genai.Part, opts genai.TextOptions) (string, error) {
	return "", nil
}

func (f *fakeGenerator) GenerateJSON(ctx context.Context, parts []genai.Part, opts genai.JSONOptions) (string, error) {
	idx := f.jsonCalls
	f.jsonCalls++
	if idx < len(f.jsonErrs) && f.jsonErrs[idx] != nil {
		return "", f.jsonErrs[idx]
	}
	return f.jsonOutput, nil
}

func (f *fakeGenerator) GenerateImage(ctx context.Context, parts []genai.Part, opts genai.ImageOptions) (genai.ImageResult, error) {
	f.imageCalls++
	if f.imageErr != nil {
		return genai.ImageResult{}, f.imageErr
	}
	return genai.ImageResult{Data: []byte{f.imageData}, MIMEType: "image/png"}, nil
}

func (f *fakeGenerator) GenerateGrounded(ctx context.Context, parts []genai.Part, opts genai.TextOptions) (genai.GroundedResult, error) {
	return genai.GroundedResult{URIs: f.groundedURIs}, nil
}

func newTestService(gen *fakeGenerator) *Service {
	prompts := workflowprompt.NewRegistry()
	cfg := config.GenerationConfig{
		PlanTemperature: 0.4,
		MaxRetries:      2,
		RetryBaseDelay:  time.Millisecond,
		ImageMaxRetries: 1,
		ReferenceCount:  3,
	}
	insp := inspiration.NewService(gen, prompts, nil, cfg)
	return NewService(gen, prompts, insp, cfg)
}

func photo() wfmodel.ImageInput {
	return wfmodel.ImageInput{Data: []byte{0xFF}, MIMEType: "image/jpeg"}
}

func TestGenerate_FullBatchWithoutInitialImage(t *testing.T) {
	gen := &fakeGenerator{jsonOutput: validPlanJSON, imageData: 7}
	svc := newTestService(gen)

	result, err := svc.Generate(context.Background(), wfmodel.PlanGenerateInput{
		Photo:    photo(),
		Category: "dresser",
		Style:    "japandi",
	})
	require.NoError(t, err)
	require.NotNil(t, result.Plan)
	assert.Equal(t, "oak mid-century dresser", result.Plan.ItemDescription)

	// front/angled/detail 三张视图
	assert.Len(t, result.InspirationImages, 3)
	assert.Equal(t, 3, gen.imageCalls)
}

func TestGenerate_InitialImageTakesFirstSlot(t *testing.T) {
	gen := &fakeGenerator{jsonOutput: validPlanJSON, imageData: 7}
	svc := newTestService(gen)

	initial := wfmodel.ImageInput{Data: []byte{0xAA}, MIMEType: "image/png"}
	result, err := svc.Generate(context.Background(), wfmodel.PlanGenerateInput{
		Photo:        photo(),
		Category:     "dresser",
		Style:        "japandi",
		InitialImage: initial,
	})
	require.NoError(t, err)

	// 初始图占首位，批次只补 angled/detail 两张
	require.Len(t, result.InspirationImages, 3)
	assert.Equal(t, []byte{0xAA}, result.InspirationImages[0].Data)
	assert.Equal(t, 2, gen.imageCalls)
}

func TestGenerate_PlanRetriedOnRateLimit(t *testing.T) {
	rateLimited := &genai.APIError{Code: 429, Status: "RESOURCE_EXHAUSTED", Message: "quota exceeded"}
	gen := &fakeGenerator{
		jsonOutput: validPlanJSON,
		jsonErrs:   []error{rateLimited, nil},
		imageData:  7,
	}
	svc := newTestService(gen)

	result, err := svc.Generate(context.Background(), wfmodel.PlanGenerateInput{
		Photo:    photo(),
		Category: "dresser",
		Style:    "japandi",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, gen.jsonCalls)
	assert.NotNil(t, result.Plan)
}

func TestGenerate_PlanHardFailureAborts(t *testing.T) {
	boom := errors.New("bad request")
	gen := &fakeGenerator{jsonErrs: []error{boom}}
	svc := newTestService(gen)

	_, err := svc.Generate(context.Background(), wfmodel.PlanGenerateInput{
		Photo:    photo(),
		Category: "dresser",
		Style:    "japandi",
	})
	require.Error(t, err)
	appErr := apperrors.AsAppError(err)
	assert.Equal(t, apperrors.CodePlanGenerationFailed, appErr.Code)
	// 非限流错误不重试，也不进入图像阶段
	assert.Equal(t, 1, gen.jsonCalls)
	assert.Equal(t, 0, gen.imageCalls)
}

func TestGenerate_ImageFailuresStillReturnPlan(t *testing.T) {
	gen := &fakeGenerator{
		jsonOutput: validPlanJSON,
		imageErr:   errors.New("model refused"),
	}
	svc := newTestService(gen)

	result, err := svc.Generate(context.Background(), wfmodel.PlanGenerateInput{
		Photo:    photo(),
		Category: "dresser",
		Style:    "japandi",
	})
	require.NoError(t, err)
	require.NotNil(t, result.Plan)
	assert.Empty(t, result.InspirationImages)
}
