package genai

import (
	"errors"
	"fmt"
	"strings"
)

// APIError 上游生成服务返回的错误
type APIError struct {
	// Code HTTP 状态码
	Code int
	// Status 服务端状态标识，如 RESOURCE_EXHAUSTED
	Status string
	// Message 服务端错误描述
	Message string
}

// Error 实现 error 接口
func (e *APIError) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("genai: %d %s: %s", e.Code, e.Status, e.Message)
	}
	return fmt.Sprintf("genai: %d: %s", e.Code, e.Message)
}

// rateLimitTokens 错误文本中可识别的限流特征
var rateLimitTokens = []string{
	"resource_exhausted",
	"rate limit",
	"ratelimit",
	"quota",
	"too many requests",
	"429",
}

// IsRateLimit 判断错误是否为限流/配额信号
// 显式 429 状态码或消息中携带可识别的限流特征都算。
func IsRateLimit(err error) bool {
	if err == nil {
		return false
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.Code == 429 {
			return true
		}
		if strings.EqualFold(apiErr.Status, "RESOURCE_EXHAUSTED") {
			return true
		}
	}

	msg := strings.ToLower(err.Error())
	for _, token := range rateLimitTokens {
		if strings.Contains(msg, token) {
			return true
		}
	}
	return false
}
