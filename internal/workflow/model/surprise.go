package model

// SurpriseGenerateInput 惊喜模式输入
type SurpriseGenerateInput struct {
	Photo ImageInput
}

// SurpriseAnalysis 惊喜模式第一阶段的 schema 约束输出
type SurpriseAnalysis struct {
	ItemDescription string   `json:"itemDescription"`
	Styles          []string `json:"styles"`
}

// StyleImageInput 单个候选风格的代表图像输入
type StyleImageInput struct {
	Photo           ImageInput
	Style           string
	ItemDescription string
	ReferenceURL    string
}
