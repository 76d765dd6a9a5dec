// Package genai 提供多模态生成服务的 REST 适配器
package genai

// Part 请求/响应内容部件：纯文本或内联图像二选一
type Part struct {
	Text       string `json:"text,omitempty"`
	InlineData *Blob  `json:"inlineData,omitempty"`
}

// Blob 内联二进制数据，Data 在 JSON 中以 base64 编码传输
type Blob struct {
	MIMEType string `json:"mimeType"`
	Data     []byte `json:"data"`
}

// TextPart 构造文本部件
func TextPart(text string) Part {
	return Part{Text: text}
}

// ImagePart 构造内联图像部件
func ImagePart(mimeType string, data []byte) Part {
	return Part{InlineData: &Blob{MIMEType: mimeType, Data: data}}
}

// Content 一组有序部件
type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

// generationConfig 生成配置（上游 wire 格式）
type generationConfig struct {
	Temperature      *float32       `json:"temperature,omitempty"`
	ResponseMIMEType string         `json:"responseMimeType,omitempty"`
	ResponseSchema   map[string]any `json:"responseSchema,omitempty"`
	ImageConfig      *imageConfig   `json:"imageConfig,omitempty"`
}

type imageConfig struct {
	AspectRatio string `json:"aspectRatio,omitempty"`
}

// tool 工具使用指令；目前只用到搜索接地
type tool struct {
	GoogleSearch *struct{} `json:"googleSearch,omitempty"`
}

// generateRequest generateContent 请求体
type generateRequest struct {
	Contents          []Content         `json:"contents"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
	SystemInstruction *Content          `json:"systemInstruction,omitempty"`
	Tools             []tool            `json:"tools,omitempty"`
}

// generateResponse generateContent 响应体
type generateResponse struct {
	Candidates []candidate `json:"candidates"`
}

type candidate struct {
	Content           *Content           `json:"content"`
	FinishReason      string             `json:"finishReason,omitempty"`
	GroundingMetadata *groundingMetadata `json:"groundingMetadata,omitempty"`
}

type groundingMetadata struct {
	GroundingChunks []groundingChunk `json:"groundingChunks"`
}

type groundingChunk struct {
	Web *webSource `json:"web,omitempty"`
}

type webSource struct {
	URI   string `json:"uri,omitempty"`
	Title string `json:"title,omitempty"`
}

// TextOptions 文本生成选项
type TextOptions struct {
	// Model 为空时使用客户端配置的文本模型
	Model             string
	Temperature       *float32
	SystemInstruction string
}

// JSONOptions schema 约束生成选项
type JSONOptions struct {
	Model             string
	Temperature       *float32
	SystemInstruction string
	// Schema 输出 JSON schema，仅约束服务端生成，客户端不做二次校验
	Schema map[string]any
}

// ImageOptions 图像生成选项
type ImageOptions struct {
	Model       string
	Temperature *float32
	AspectRatio string
}

// ImageResult 图像生成结果
// 区分"服务拒绝产出图像"（Empty）与调用错误：安全过滤等软失败返回空结果，
// 限流与传输错误以 error 形式返回，由重试与编排层分别处置。
type ImageResult struct {
	Data     []byte
	MIMEType string
}

// Empty 判断是否为空结果
func (r ImageResult) Empty() bool {
	return len(r.Data) == 0
}

// GroundedResult 搜索接地生成结果
type GroundedResult struct {
	Text string
	// URIs 接地元数据侧通道中的真实网页链接，按返回顺序排列
	URIs []string
}

// Ptr 返回值的指针，便于填充可选字段
func Ptr[T any](v T) *T {
	return &v
}
