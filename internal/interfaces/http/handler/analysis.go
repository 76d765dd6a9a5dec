// Package handler 提供 HTTP 请求处理器
package handler

import (
	"github.com/gin-gonic/gin"

	"reno-ai-api/internal/application/analysis"
	wfmodel "reno-ai-api/internal/workflow/model"
	"reno-ai-api/internal/interfaces/http/dto"
	"reno-ai-api/pkg/logger"
)

// AnalysisHandler 风格分析处理器
type AnalysisHandler struct {
	analysis *analysis.Service
}

// NewAnalysisHandler 创建风格分析处理器
func NewAnalysisHandler(svc *analysis.Service) *AnalysisHandler {
	return &AnalysisHandler{analysis: svc}
}

// Style 识别灵感图的改造风格
// @Summary 灵感图风格分析
// @Description 输入一张灵感图，返回自由文本的风格描述
// @Tags Generation
// @Accept json
// @Produce json
// @Param request body dto.StyleAnalysisRequest true "风格分析请求"
// @Success 200 {object} dto.Response[dto.StyleAnalysisResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 429 {object} dto.ErrorResponse
// @Router /v1/analysis/style [post]
func (h *AnalysisHandler) Style(c *gin.Context) {
	var req dto.StyleAnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, err.Error())
		return
	}
	if err := req.Image.Validate(); err != nil {
		dto.Error(c, err)
		return
	}

	style, err := h.analysis.DescribeStyle(c.Request.Context(), wfmodel.StyleAnalysisInput{
		Image: req.Image.ToModel(),
	})
	if err != nil {
		logger.Error(c.Request.Context(), "style analysis failed", err)
		dto.Error(c, err)
		return
	}

	dto.Success(c, dto.StyleAnalysisResponse{Style: style})
}
