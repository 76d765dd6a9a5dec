// Package config 提供配置加载和管理功能
package config

import (
	"time"
)

// Config 应用配置根结构
type Config struct {
	App           AppConfig           `yaml:"app" mapstructure:"app"`
	Server        ServerConfig        `yaml:"server" mapstructure:"server"`
	Cache         CacheConfig         `yaml:"cache" mapstructure:"cache"`
	GenAI         GenAIConfig         `yaml:"genai" mapstructure:"genai"`
	Generation    GenerationConfig    `yaml:"generation" mapstructure:"generation"`
	Observability ObservabilityConfig `yaml:"observability" mapstructure:"observability"`
	Security      SecurityConfig      `yaml:"security" mapstructure:"security"`
}

// AppConfig 应用基础配置
type AppConfig struct {
	Name    string `yaml:"name" mapstructure:"name"`
	Version string `yaml:"version" mapstructure:"version"`
	Env     string `yaml:"env" mapstructure:"env"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	HTTP HTTPServerConfig `yaml:"http" mapstructure:"http"`
}

// HTTPServerConfig HTTP 服务器配置
type HTTPServerConfig struct {
	Host         string        `yaml:"host" mapstructure:"host"`
	Port         int           `yaml:"port" mapstructure:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" mapstructure:"idle_timeout"`
}

// CacheConfig 缓存配置
type CacheConfig struct {
	Redis RedisConfig `yaml:"redis" mapstructure:"redis"`
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Host         string        `yaml:"host" mapstructure:"host"`
	Port         int           `yaml:"port" mapstructure:"port"`
	Password     string        `yaml:"password" mapstructure:"password"`
	DB           int           `yaml:"db" mapstructure:"db"`
	PoolSize     int           `yaml:"pool_size" mapstructure:"pool_size"`
	MinIdleConns int           `yaml:"min_idle_conns" mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `yaml:"dial_timeout" mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
}

// GenAIConfig 多模态生成服务客户端配置
type GenAIConfig struct {
	// BaseURL 服务根地址
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	// APIKey 通过环境变量注入，缺失时首个请求即失败
	APIKey string `yaml:"api_key" mapstructure:"api_key"`
	// TextModel 文本/JSON 生成模型
	TextModel string `yaml:"text_model" mapstructure:"text_model"`
	// ImageModel 图像生成模型
	ImageModel string `yaml:"image_model" mapstructure:"image_model"`
	// Timeout 单次请求超时（委托给 HTTP 传输层）
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// GenerationConfig 生成编排配置
type GenerationConfig struct {
	// PlanTemperature 方案生成温度（偏低以保证一致性）
	PlanTemperature float32 `yaml:"plan_temperature" mapstructure:"plan_temperature"`
	// SurpriseTemperature 风格发散温度（偏高以保证多样性）
	SurpriseTemperature float32 `yaml:"surprise_temperature" mapstructure:"surprise_temperature"`
	// ChatTemperature 对话温度
	ChatTemperature float32 `yaml:"chat_temperature" mapstructure:"chat_temperature"`

	// MaxRetries 限流重试预算
	MaxRetries int `yaml:"max_retries" mapstructure:"max_retries"`
	// RetryBaseDelay 初始退避延迟
	RetryBaseDelay time.Duration `yaml:"retry_base_delay" mapstructure:"retry_base_delay"`
	// ImageMaxRetries 次要图像生成的轻量重试预算
	ImageMaxRetries int `yaml:"image_max_retries" mapstructure:"image_max_retries"`

	// ViewImageDelay 方案视图图像串行间隔
	ViewImageDelay time.Duration `yaml:"view_image_delay" mapstructure:"view_image_delay"`
	// StyleImageDelay 风格图像串行间隔
	StyleImageDelay time.Duration `yaml:"style_image_delay" mapstructure:"style_image_delay"`

	// ReferenceCount 方案视图的参考链接槽位数
	ReferenceCount int `yaml:"reference_count" mapstructure:"reference_count"`
	// StyleCount 惊喜模式候选风格数
	StyleCount int `yaml:"style_count" mapstructure:"style_count"`
	// ReferenceCacheTTL 参考链接缓存时长
	ReferenceCacheTTL time.Duration `yaml:"reference_cache_ttl" mapstructure:"reference_cache_ttl"`
}

// ObservabilityConfig 可观测性配置
type ObservabilityConfig struct {
	Logging LoggingConfig `yaml:"logging" mapstructure:"logging"`
	Tracing TracingConfig `yaml:"tracing" mapstructure:"tracing"`
	Metrics MetricsConfig `yaml:"metrics" mapstructure:"metrics"`
}

// LoggingConfig 日志配置
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
	Output string `yaml:"output" mapstructure:"output"`
}

// TracingConfig 追踪配置
type TracingConfig struct {
	Enabled    bool    `yaml:"enabled" mapstructure:"enabled"`
	Exporter   string  `yaml:"exporter" mapstructure:"exporter"`
	Endpoint   string  `yaml:"endpoint" mapstructure:"endpoint"`
	SampleRate float64 `yaml:"sample_rate" mapstructure:"sample_rate"`
}

// MetricsConfig 指标配置
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Path    string `yaml:"path" mapstructure:"path"`
}

// SecurityConfig 安全配置
type SecurityConfig struct {
	CORS      CORSConfig      `yaml:"cors" mapstructure:"cors"`
	RateLimit RateLimitConfig `yaml:"rate_limit" mapstructure:"rate_limit"`
}

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
	AllowedMethods []string `yaml:"allowed_methods" mapstructure:"allowed_methods"`
	AllowedHeaders []string `yaml:"allowed_headers" mapstructure:"allowed_headers"`
}

// RateLimitConfig 入站限流配置
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled" mapstructure:"enabled"`
	RequestsPerMinute int  `yaml:"requests_per_minute" mapstructure:"requests_per_minute"`
}
