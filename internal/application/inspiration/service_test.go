package inspiration

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reno-ai-api/internal/config"
	"reno-ai-api/internal/infrastructure/genai"
	wfmodel "reno-ai-api/internal/workflow/model"
	workflowprompt "reno-ai-api/internal/workflow/prompt"
)

type imageOutcome struct {
	result genai.ImageResult
	err    error
}

// fakeGenerator 可编程的生成服务假实现
type fakeGenerator struct {
	groundedURIs []string
	groundedErr  error

	imageOutcomes []imageOutcome
	imageCalls    int
}

func (f *fakeGenerator) GenerateText(ctx context.Context, parts []genai.Part, opts genai.TextOptions) (string, error) {
	return "", nil
}

func (f *fakeGenerator) GenerateJSON(ctx context.Context, parts []genai.Part, opts genai.JSONOptions) (string, error) {
	return "", nil
}

func (f *fakeGenerator) GenerateImage(ctx context.Context, parts []genai.Part, opts genai.ImageOptions) (genai.ImageResult, error) {
	idx := f.imageCalls
	f.imageCalls++
	if idx >= len(f.imageOutcomes) {
		idx = len(f.imageOutcomes) - 1
	}
	if idx < 0 {
		return genai.ImageResult{}, nil
	}
	out := f.imageOutcomes[idx]
	return out.result, out.err
}

func (f *fakeGenerator) GenerateGrounded(ctx context.Context, parts []genai.Part, opts genai.TextOptions) (genai.GroundedResult, error) {
	if f.groundedErr != nil {
		return genai.GroundedResult{}, f.groundedErr
	}
	return genai.GroundedResult{Text: "references", URIs: f.groundedURIs}, nil
}

func testConfig() config.GenerationConfig {
	return config.GenerationConfig{
		MaxRetries:      1,
		RetryBaseDelay:  time.Millisecond,
		ImageMaxRetries: 1,
		ReferenceCount:  3,
	}
}

func newTestService(gen *fakeGenerator) *Service {
	return NewService(gen, workflowprompt.NewRegistry(), nil, testConfig())
}

func imageBytes(b byte) genai.ImageResult {
	return genai.ImageResult{Data: []byte{b}, MIMEType: "image/png"}
}

func TestReferences_PadsToExactCount(t *testing.T) {
	svc := newTestService(&fakeGenerator{groundedURIs: []string{"https://example.com/a"}})

	refs := svc.References(context.Background(), "oak dresser japandi", 3)
	require.Len(t, refs, 3)
	assert.Equal(t, "https://example.com/a", refs[0])
	assert.Equal(t, "", refs[1])
	assert.Equal(t, "", refs[2])
}

func TestReferences_TruncatesExtraResults(t *testing.T) {
	svc := newTestService(&fakeGenerator{groundedURIs: []string{
		"https://example.com/a",
		"https://example.com/b",
	}})

	refs := svc.References(context.Background(), "bookshelf coastal", 1)
	require.Len(t, refs, 1)
	assert.Equal(t, "https://example.com/a", refs[0])
}

func TestReferences_LookupFailureNeverFailsOutward(t *testing.T) {
	svc := newTestService(&fakeGenerator{groundedErr: errors.New("upstream exploded")})

	refs := svc.References(context.Background(), "side table", 3)
	assert.Equal(t, []string{"", "", ""}, refs)
}

func TestViews_SkipsFailedItemAndKeepsOrder(t *testing.T) {
	gen := &fakeGenerator{imageOutcomes: []imageOutcome{
		{result: imageBytes(1)},
		{err: errors.New("model refused")},
		{result: imageBytes(3)},
	}}
	svc := newTestService(gen)

	images, err := svc.Views(context.Background(), ViewBatchInput{
		Style:           "japandi",
		ItemDescription: "oak dresser",
		Views:           []string{"front", "angled", "detail"},
		References:      []string{"", "", ""},
	})
	require.NoError(t, err)
	require.Len(t, images, 2)
	assert.Equal(t, []byte{1}, images[0].Data)
	assert.Equal(t, []byte{3}, images[1].Data)
}

func TestViews_EmptyResultSkipped(t *testing.T) {
	gen := &fakeGenerator{imageOutcomes: []imageOutcome{
		{result: imageBytes(1)},
		{result: genai.ImageResult{}}, // 安全过滤：无图像部件
		{result: imageBytes(3)},
	}}
	svc := newTestService(gen)

	images, err := svc.Views(context.Background(), ViewBatchInput{
		Style:           "japandi",
		ItemDescription: "oak dresser",
		Views:           []string{"front", "angled", "detail"},
	})
	require.NoError(t, err)
	require.Len(t, images, 2)
}

func TestViews_RateLimitExhaustionReturnsPartialResults(t *testing.T) {
	rateLimited := &genai.APIError{Code: 429, Status: "RESOURCE_EXHAUSTED", Message: "quota exceeded"}
	gen := &fakeGenerator{imageOutcomes: []imageOutcome{
		{result: imageBytes(1)},
		{err: rateLimited},
	}}
	svc := newTestService(gen)

	images, err := svc.Views(context.Background(), ViewBatchInput{
		Style:           "japandi",
		ItemDescription: "oak dresser",
		Views:           []string{"front", "angled", "detail"},
	})
	require.Error(t, err)
	assert.True(t, genai.IsRateLimit(err))
	require.Len(t, images, 1)
	assert.Equal(t, []byte{1}, images[0].Data)
	// 首次 + 1 次轻量重试，之后批次中断
	assert.Equal(t, 3, gen.imageCalls)
}

func TestStepImage_SwallowsNonRateLimitError(t *testing.T) {
	gen := &fakeGenerator{imageOutcomes: []imageOutcome{
		{err: errors.New("model refused")},
	}}
	svc := newTestService(gen)

	result, err := svc.StepImage(context.Background(), wfmodel.StepImageInput{
		ItemDescription: "oak dresser",
		Style:           "japandi",
		StepDescription: "dresser with drawers removed",
	})
	require.NoError(t, err)
	assert.True(t, result.Empty())
}

func TestStepImage_RateLimitPropagates(t *testing.T) {
	rateLimited := &genai.APIError{Code: 429, Status: "RESOURCE_EXHAUSTED", Message: "quota exceeded"}
	gen := &fakeGenerator{imageOutcomes: []imageOutcome{{err: rateLimited}}}
	svc := newTestService(gen)

	_, err := svc.StepImage(context.Background(), wfmodel.StepImageInput{
		ItemDescription: "oak dresser",
		Style:           "japandi",
		StepDescription: "dresser with drawers removed",
	})
	require.Error(t, err)
	assert.True(t, genai.IsRateLimit(err))
}
