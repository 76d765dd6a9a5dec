package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"reno-ai-api/internal/config"
	"reno-ai-api/pkg/metrics"
)

var tracer = otel.Tracer("genai")

// Client 多模态生成服务客户端
// 鉴权使用进程启动时读入的 API Key；缺失不做本地校验，首个请求即失败。
type Client struct {
	baseURL    string
	apiKey     string
	textModel  string
	imageModel string
	httpClient *http.Client
}

// NewClient 创建生成服务客户端
func NewClient(cfg *config.GenAIConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	textModel := cfg.TextModel
	if textModel == "" {
		textModel = "gemini-2.5-flash"
	}
	imageModel := cfg.ImageModel
	if imageModel == "" {
		imageModel = "gemini-2.5-flash-image"
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		textModel:  textModel,
		imageModel: imageModel,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// TextModel 返回默认文本模型
func (c *Client) TextModel() string {
	return c.textModel
}

// GenerateText 自由文本生成，返回首个候选的文本内容
func (c *Client) GenerateText(ctx context.Context, parts []Part, opts TextOptions) (string, error) {
	req := &generateRequest{
		Contents: []Content{{Role: "user", Parts: parts}},
		GenerationConfig: &generationConfig{
			Temperature: opts.Temperature,
		},
		SystemInstruction: systemContent(opts.SystemInstruction),
	}

	resp, err := c.invoke(ctx, c.pickModel(opts.Model, c.textModel), req)
	if err != nil {
		return "", err
	}
	return candidateText(resp), nil
}

// GenerateJSON schema 约束的 JSON 生成
// schema 只约束服务端生成，客户端不做二次校验；返回原始文本交由调用方解析。
func (c *Client) GenerateJSON(ctx context.Context, parts []Part, opts JSONOptions) (string, error) {
	req := &generateRequest{
		Contents: []Content{{Role: "user", Parts: parts}},
		GenerationConfig: &generationConfig{
			Temperature:      opts.Temperature,
			ResponseMIMEType: "application/json",
			ResponseSchema:   opts.Schema,
		},
		SystemInstruction: systemContent(opts.SystemInstruction),
	}

	resp, err := c.invoke(ctx, c.pickModel(opts.Model, c.textModel), req)
	if err != nil {
		return "", err
	}
	return candidateText(resp), nil
}

// GenerateImage 图像生成
// 按顺序扫描返回部件并返回第一个内联图像；没有图像部件（例如被安全过滤）
// 时返回空结果而非错误，限流与传输错误照常返回交由上层处置。
func (c *Client) GenerateImage(ctx context.Context, parts []Part, opts ImageOptions) (ImageResult, error) {
	cfg := &generationConfig{
		Temperature: opts.Temperature,
	}
	if opts.AspectRatio != "" {
		cfg.ImageConfig = &imageConfig{AspectRatio: opts.AspectRatio}
	}
	req := &generateRequest{
		Contents:         []Content{{Role: "user", Parts: parts}},
		GenerationConfig: cfg,
	}

	resp, err := c.invoke(ctx, c.pickModel(opts.Model, c.imageModel), req)
	if err != nil {
		return ImageResult{}, err
	}

	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return ImageResult{
					Data:     part.InlineData.Data,
					MIMEType: part.InlineData.MIMEType,
				}, nil
			}
		}
	}
	return ImageResult{}, nil
}

// GenerateGrounded 搜索接地生成，返回文本与接地元数据中的网页链接
func (c *Client) GenerateGrounded(ctx context.Context, parts []Part, opts TextOptions) (GroundedResult, error) {
	req := &generateRequest{
		Contents: []Content{{Role: "user", Parts: parts}},
		GenerationConfig: &generationConfig{
			Temperature: opts.Temperature,
		},
		SystemInstruction: systemContent(opts.SystemInstruction),
		Tools:             []tool{{GoogleSearch: &struct{}{}}},
	}

	resp, err := c.invoke(ctx, c.pickModel(opts.Model, c.textModel), req)
	if err != nil {
		return GroundedResult{}, err
	}

	out := GroundedResult{Text: candidateText(resp)}
	for _, cand := range resp.Candidates {
		if cand.GroundingMetadata == nil {
			continue
		}
		for _, chunk := range cand.GroundingMetadata.GroundingChunks {
			if chunk.Web != nil && chunk.Web.URI != "" {
				out.URIs = append(out.URIs, chunk.Web.URI)
			}
		}
	}
	return out, nil
}

// invoke 执行一次 generateContent 调用
func (c *Client) invoke(ctx context.Context, model string, req *generateRequest) (*generateResponse, error) {
	ctx, span := tracer.Start(ctx, "genai.generateContent")
	span.SetAttributes(attribute.String("genai.model", model))
	defer span.End()

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal generate request: %w", err)
	}

	if c.baseURL == "" {
		return nil, fmt.Errorf("genai base url is empty")
	}
	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, model)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create generate request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	start := time.Now()
	httpResp, err := c.httpClient.Do(httpReq)
	metrics.UpstreamCallDuration.WithLabelValues(model).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.UpstreamCallTotal.WithLabelValues(model, "transport_error").Inc()
		span.RecordError(err)
		return nil, fmt.Errorf("generate request failed: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		apiErr := parseAPIError(httpResp)
		metrics.UpstreamCallTotal.WithLabelValues(model, fmt.Sprintf("%d", httpResp.StatusCode)).Inc()
		span.RecordError(apiErr)
		return nil, apiErr
	}

	var resp generateResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		metrics.UpstreamCallTotal.WithLabelValues(model, "decode_error").Inc()
		span.RecordError(err)
		return nil, fmt.Errorf("failed to decode generate response: %w", err)
	}

	metrics.UpstreamCallTotal.WithLabelValues(model, "ok").Inc()
	return &resp, nil
}

// parseAPIError 解析上游错误响应体
func parseAPIError(resp *http.Response) *APIError {
	apiErr := &APIError{Code: resp.StatusCode}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		apiErr.Message = resp.Status
		return apiErr
	}

	var envelope struct {
		Error struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
			Status  string `json:"status"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Message != "" {
		apiErr.Status = envelope.Error.Status
		apiErr.Message = envelope.Error.Message
		return apiErr
	}

	apiErr.Message = strings.TrimSpace(string(body))
	if apiErr.Message == "" {
		apiErr.Message = resp.Status
	}
	return apiErr
}

// candidateText 拼接首个候选的全部文本部件
func candidateText(resp *generateResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	return sb.String()
}

func (c *Client) pickModel(requested, fallback string) string {
	if strings.TrimSpace(requested) != "" {
		return strings.TrimSpace(requested)
	}
	return fallback
}

func systemContent(instruction string) *Content {
	if strings.TrimSpace(instruction) == "" {
		return nil
	}
	return &Content{Parts: []Part{{Text: instruction}}}
}
