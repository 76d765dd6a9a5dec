// Package handler 提供 HTTP 请求处理器
package handler

import (
	"github.com/gin-gonic/gin"

	"reno-ai-api/internal/application/inspiration"
	"reno-ai-api/internal/interfaces/http/dto"
	"reno-ai-api/pkg/logger"
)

// InspirationHandler 视图效果图批次处理器
type InspirationHandler struct {
	inspiration *inspiration.Service
}

// NewInspirationHandler 创建视图效果图处理器
func NewInspirationHandler(svc *inspiration.Service) *InspirationHandler {
	return &InspirationHandler{inspiration: svc}
}

// Views 为已有方案补生成视图效果图
// @Summary 生成视图效果图批次
// @Description 串行生成请求的视图效果图，失败的视图被省略，结果保持请求顺序
// @Tags Generation
// @Accept json
// @Produce json
// @Param request body dto.InspirationRequest true "视图批次请求"
// @Success 200 {object} dto.Response[dto.InspirationResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 429 {object} dto.ErrorResponse
// @Router /v1/inspiration [post]
func (h *InspirationHandler) Views(c *gin.Context) {
	var req dto.InspirationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, err.Error())
		return
	}
	if err := req.Photo.Validate(); err != nil {
		dto.Error(c, err)
		return
	}

	ctx := c.Request.Context()
	refs := h.inspiration.References(ctx, req.ItemDescription+" "+req.Style, len(req.Views))

	images, err := h.inspiration.Views(ctx, inspiration.ViewBatchInput{
		Photo:           req.Photo.ToModel(),
		Style:           req.Style,
		ItemDescription: req.ItemDescription,
		Views:           req.Views,
		References:      refs,
	})
	if err != nil && len(images) == 0 {
		logger.Error(ctx, "view image batch failed", err)
		dto.Error(c, err)
		return
	}
	if err != nil {
		logger.Warn(ctx, "view image batch returned partial results",
			"generated", len(images), "requested", len(req.Views), "error", err.Error())
	}

	payloads := make([]dto.ImagePayload, 0, len(images))
	for _, img := range images {
		payloads = append(payloads, dto.NewImagePayload(img))
	}
	dto.Success(c, dto.InspirationResponse{Images: payloads})
}
