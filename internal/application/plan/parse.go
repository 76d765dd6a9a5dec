package plan

import (
	"encoding/json"
	"fmt"

	"reno-ai-api/internal/domain/entity"
	"reno-ai-api/internal/workflow/node"
	"reno-ai-api/pkg/errors"
)

// ParseProjectPlan 从模型输出中提取并校验方案 JSON
// 模型偶尔会在 JSON 外包围代码栅栏或解说文字，先走宽容提取再反序列化；
// 八个字段缺一即判为畸形输出。
func ParseProjectPlan(raw string) (*entity.ProjectPlan, error) {
	payload := node.ExtractJSONObject(raw)

	var p entity.ProjectPlan
	if err := json.Unmarshal([]byte(payload), &p); err != nil {
		return nil, errors.Wrap(err, errors.CodeMalformedModelOutput, "plan output is not valid JSON")
	}
	if err := validatePlan(&p); err != nil {
		return nil, errors.Wrap(err, errors.CodeMalformedModelOutput, "plan output misses required fields")
	}
	return &p, nil
}

func validatePlan(p *entity.ProjectPlan) error {
	if p.StyleSummary == "" {
		return missingField("styleSummary")
	}
	if len(p.Steps) == 0 {
		return missingField("steps")
	}
	if p.CostEstimate == "" {
		return missingField("costEstimate")
	}
	if p.TimeEstimate == "" {
		return missingField("timeEstimate")
	}
	if len(p.Materials) == 0 {
		return missingField("materials")
	}
	if len(p.Tools) == 0 {
		return missingField("tools")
	}
	if len(p.Safety) == 0 {
		return missingField("safety")
	}
	if p.ItemDescription == "" {
		return missingField("itemDescription")
	}
	return nil
}

func missingField(name string) error {
	return fmt.Errorf("missing or empty field %q", name)
}
