// Package entity 定义领域实体
package entity

// SurpriseSuggestion 风格候选与其代表图像
type SurpriseSuggestion struct {
	Style string           `json:"style"`
	Image InspirationImage `json:"image"`
}

// SurpriseResult 惊喜模式产物
// Suggestions 按原始顺序排列，仅包含生成成功的风格，可能少于请求数。
type SurpriseResult struct {
	ItemDescription string               `json:"item_description"`
	Suggestions     []SurpriseSuggestion `json:"suggestions"`
}
