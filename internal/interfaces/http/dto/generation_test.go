package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reno-ai-api/internal/domain/entity"
	"reno-ai-api/pkg/errors"
)

func TestImagePayload_Validate(t *testing.T) {
	tests := []struct {
		name    string
		payload *ImagePayload
		wantErr bool
	}{
		{"valid jpeg", &ImagePayload{Data: []byte{1}, MIMEType: "image/jpeg"}, false},
		{"valid png uppercase", &ImagePayload{Data: []byte{1}, MIMEType: "IMAGE/PNG"}, false},
		{"missing data", &ImagePayload{MIMEType: "image/png"}, true},
		{"nil payload", nil, true},
		{"unsupported type", &ImagePayload{Data: []byte{1}, MIMEType: "image/gif"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.payload.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, errors.CodeInvalidImagePayload, errors.AsAppError(err).Code)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestImagePayload_ToModelNilSafe(t *testing.T) {
	var p *ImagePayload
	assert.True(t, p.ToModel().Empty())
}

func TestPlanDTO_RoundTrip(t *testing.T) {
	plan := &entity.ProjectPlan{
		StyleSummary:    "japandi",
		Steps:           []string{"Sand it."},
		CostEstimate:    "$50",
		TimeEstimate:    "1 weekend",
		Materials:       []string{"stain"},
		Tools:           []string{"sander"},
		Safety:          []string{"mask"},
		ItemDescription: "oak dresser",
	}
	assert.Equal(t, plan, NewPlanDTO(plan).ToEntity())
	assert.Nil(t, NewPlanDTO(nil))

	var d *PlanDTO
	assert.Nil(t, d.ToEntity())
}

func TestToEntities_RoleMapping(t *testing.T) {
	history := ToEntities([]ChatMessageDTO{
		{Role: "user", Text: "hi"},
		{Role: "assistant", Text: "hello"},
	})
	require.Len(t, history, 2)
	assert.Equal(t, entity.RoleUser, history[0].Role)
	assert.Equal(t, entity.RoleAssistant, history[1].Role)
}
