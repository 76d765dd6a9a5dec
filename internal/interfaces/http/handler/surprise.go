// Package handler 提供 HTTP 请求处理器
package handler

import (
	"github.com/gin-gonic/gin"

	"reno-ai-api/internal/application/surprise"
	wfmodel "reno-ai-api/internal/workflow/model"
	"reno-ai-api/internal/interfaces/http/dto"
	"reno-ai-api/pkg/logger"
)

// SurpriseHandler 惊喜模式处理器
type SurpriseHandler struct {
	surprise *surprise.Service
}

// NewSurpriseHandler 创建惊喜模式处理器
func NewSurpriseHandler(svc *surprise.Service) *SurpriseHandler {
	return &SurpriseHandler{surprise: svc}
}

// Generate 惊喜模式：发散风格候选并逐个配图
// @Summary 惊喜模式
// @Description 输入照片，返回若干风格候选及其代表图像，失败的风格被省略
// @Tags Generation
// @Accept json
// @Produce json
// @Param request body dto.SurpriseRequest true "惊喜模式请求"
// @Success 200 {object} dto.Response[dto.SurpriseResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 429 {object} dto.ErrorResponse
// @Router /v1/surprise [post]
func (h *SurpriseHandler) Generate(c *gin.Context) {
	var req dto.SurpriseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, err.Error())
		return
	}
	if err := req.Photo.Validate(); err != nil {
		dto.Error(c, err)
		return
	}

	result, err := h.surprise.Generate(c.Request.Context(), wfmodel.SurpriseGenerateInput{
		Photo: req.Photo.ToModel(),
	})
	if err != nil && (result == nil || len(result.Suggestions) == 0) {
		logger.Error(c.Request.Context(), "surprise generation failed", err)
		dto.Error(c, err)
		return
	}
	if err != nil {
		// 限流提前收尾，带着部分结果响应
		logger.Warn(c.Request.Context(), "surprise generation returned partial results",
			"suggestions", len(result.Suggestions), "error", err.Error())
	}

	suggestions := make([]dto.SurpriseSuggestionDTO, 0, len(result.Suggestions))
	for _, s := range result.Suggestions {
		suggestions = append(suggestions, dto.SurpriseSuggestionDTO{
			Style: s.Style,
			Image: dto.NewImagePayload(s.Image),
		})
	}

	dto.Success(c, dto.SurpriseResponse{
		ItemDescription: result.ItemDescription,
		Suggestions:     suggestions,
	})
}
