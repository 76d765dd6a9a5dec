package plan

// planSchema 方案输出的 JSON schema，随请求下发给生成服务
// 八个字段全部必填，解析侧做同样的校验。
func planSchema() map[string]any {
	stringArray := func(desc string) map[string]any {
		return map[string]any{
			"type":        "array",
			"items":       map[string]any{"type": "string"},
			"description": desc,
		}
	}
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"styleSummary": map[string]any{
				"type":        "string",
				"description": "Two to three sentences describing the target look and overall approach",
			},
			"steps":        stringArray("Ordered work steps, each a full paragraph without leading numbers or bullets"),
			"costEstimate": map[string]any{"type": "string", "description": "Total cost range, e.g. $40-$80"},
			"timeEstimate": map[string]any{"type": "string", "description": "Total time range, e.g. 1-2 weekends"},
			"materials":    stringArray("Materials with quantities"),
			"tools":        stringArray("Tools required"),
			"safety":       stringArray("Safety precautions"),
			"itemDescription": map[string]any{
				"type":        "string",
				"description": "Short factual description of the photographed item, e.g. 'oak mid-century dresser'",
			},
		},
		"required": []string{
			"styleSummary", "steps", "costEstimate", "timeEstimate",
			"materials", "tools", "safety", "itemDescription",
		},
	}
}
