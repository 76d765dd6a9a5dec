package prompt

import (
	"embed"
	"fmt"
	"strings"
	"sync"
	"text/template"
)

//go:embed templates/*.txt
var templatesFS embed.FS

type PromptID string

const (
	PromptPlanV1            PromptID = "plan_v1"
	PromptStyleAnalysisV1   PromptID = "style_analysis_v1"
	PromptSurpriseV1        PromptID = "surprise_v1"
	PromptViewImageV1       PromptID = "view_image_v1"
	PromptStyleImageV1      PromptID = "style_image_v1"
	PromptStepImageV1       PromptID = "step_image_v1"
	PromptReferenceSearchV1 PromptID = "reference_search_v1"
	PromptChatV1            PromptID = "chat_v1"
)

// Pair 一组 system + user 提示词模板
type Pair struct {
	system *template.Template
	user   *template.Template
}

// Render 渲染模板，返回 system 指令与 user 提示词
func (p *Pair) Render(vars map[string]any) (system string, user string, err error) {
	var sysBuf, userBuf strings.Builder
	if err := p.system.Execute(&sysBuf, vars); err != nil {
		return "", "", fmt.Errorf("failed to render system template: %w", err)
	}
	if err := p.user.Execute(&userBuf, vars); err != nil {
		return "", "", fmt.Errorf("failed to render user template: %w", err)
	}
	return strings.TrimSpace(sysBuf.String()), strings.TrimSpace(userBuf.String()), nil
}

type Registry struct {
	mu    sync.RWMutex
	cache map[PromptID]*Pair
}

func NewRegistry() *Registry {
	return &Registry{
		cache: make(map[PromptID]*Pair),
	}
}

// Pair 返回指定 id 的模板对，惰性解析并缓存
func (r *Registry) Pair(id PromptID) (*Pair, error) {
	if r == nil {
		return nil, fmt.Errorf("prompt registry is nil")
	}

	r.mu.RLock()
	if p, ok := r.cache[id]; ok {
		r.mu.RUnlock()
		return p, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.cache[id]; ok {
		return p, nil
	}

	switch id {
	case PromptPlanV1, PromptStyleAnalysisV1, PromptSurpriseV1,
		PromptViewImageV1, PromptStyleImageV1, PromptStepImageV1,
		PromptReferenceSearchV1, PromptChatV1:
	default:
		return nil, fmt.Errorf("unknown prompt id: %s", id)
	}

	system, err := parseEmbeddedTemplate(fmt.Sprintf("templates/%s.system.txt", id))
	if err != nil {
		return nil, err
	}
	user, err := parseEmbeddedTemplate(fmt.Sprintf("templates/%s.user.txt", id))
	if err != nil {
		return nil, err
	}

	p := &Pair{system: system, user: user}
	r.cache[id] = p
	return p, nil
}

func parseEmbeddedTemplate(path string) (*template.Template, error) {
	content, err := templatesFS.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt template %s: %w", path, err)
	}
	tpl, err := template.New(path).Option("missingkey=zero").Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse prompt template %s: %w", path, err)
	}
	return tpl, nil
}
