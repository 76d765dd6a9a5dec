package model

// PlanGenerateInput 方案生成输入
type PlanGenerateInput struct {
	// Photo 用户拍摄的家具/房间照片
	Photo ImageInput
	// Category 物品/空间类别，如 dresser、living room
	Category string
	// Style 用户挑选或惊喜模式选中的目标风格
	Style string
	// Description 用户补充描述，可为空
	Description string
	// InitialImage 先前建议选择流程产出的首张效果图，可为空；
	// 提供时视图批次只补两张，否则生成三张（front/angled/detail）
	InitialImage ImageInput
}

// ViewImageInput 单张视图效果图输入
type ViewImageInput struct {
	Photo           ImageInput
	View            string
	Style           string
	ItemDescription string
	// ReferenceURL 来自搜索接地的真实产品链接，可为空
	ReferenceURL string
}

// StepImageInput 单个步骤示意图输入
type StepImageInput struct {
	Photo           ImageInput
	ItemDescription string
	Style           string
	// StepDescription 图像占位符携带的视觉描述
	StepDescription string
}
