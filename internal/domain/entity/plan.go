// Package entity 定义领域实体
package entity

// ProjectPlan 结构化的改造/DIY 方案
// 一次生成请求产出一份，产出后不可变，由发起编排的一方持有并按引用下发。
// 字段名与生成服务的输出 schema 保持一致（camelCase）。
type ProjectPlan struct {
	StyleSummary    string   `json:"styleSummary"`
	Steps           []string `json:"steps"`
	CostEstimate    string   `json:"costEstimate"`
	TimeEstimate    string   `json:"timeEstimate"`
	Materials       []string `json:"materials"`
	Tools           []string `json:"tools"`
	Safety          []string `json:"safety"`
	ItemDescription string   `json:"itemDescription"`
}

// InspirationImage 生成的成品效果图
type InspirationImage struct {
	Data     []byte `json:"data"`
	MIMEType string `json:"mime_type"`
}

// PlanResult 方案编排的最终产物
type PlanResult struct {
	Plan              *ProjectPlan       `json:"plan"`
	InspirationImages []InspirationImage `json:"inspiration_images"`
}
