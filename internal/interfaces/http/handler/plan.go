// Package handler 提供 HTTP 请求处理器
package handler

import (
	"github.com/gin-gonic/gin"

	"reno-ai-api/internal/application/inspiration"
	"reno-ai-api/internal/application/plan"
	wfmodel "reno-ai-api/internal/workflow/model"
	"reno-ai-api/internal/interfaces/http/dto"
	"reno-ai-api/pkg/logger"
)

// PlanHandler 方案生成处理器
type PlanHandler struct {
	plans       *plan.Service
	inspiration *inspiration.Service
}

// NewPlanHandler 创建方案生成处理器
func NewPlanHandler(plans *plan.Service, insp *inspiration.Service) *PlanHandler {
	return &PlanHandler{
		plans:       plans,
		inspiration: insp,
	}
}

// Generate 生成改造/DIY 方案与配套效果图
// @Summary 生成改造方案
// @Description 输入家具/空间照片与目标风格，返回结构化方案与多视角效果图
// @Tags Generation
// @Accept json
// @Produce json
// @Param request body dto.GeneratePlanRequest true "方案生成请求"
// @Success 200 {object} dto.Response[dto.GeneratePlanResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 429 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /v1/plans [post]
func (h *PlanHandler) Generate(c *gin.Context) {
	var req dto.GeneratePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, err.Error())
		return
	}
	if err := req.Photo.Validate(); err != nil {
		dto.Error(c, err)
		return
	}
	if req.InitialImage != nil {
		if err := req.InitialImage.Validate(); err != nil {
			dto.Error(c, err)
			return
		}
	}

	result, err := h.plans.Generate(c.Request.Context(), wfmodel.PlanGenerateInput{
		Photo:        req.Photo.ToModel(),
		Category:     req.Category,
		Style:        req.Style,
		Description:  req.Description,
		InitialImage: req.InitialImage.ToModel(),
	})
	if err != nil {
		logger.Error(c.Request.Context(), "plan generation failed", err,
			"category", req.Category, "style", req.Style)
		dto.Error(c, err)
		return
	}

	images := make([]dto.ImagePayload, 0, len(result.InspirationImages))
	for _, img := range result.InspirationImages {
		images = append(images, dto.NewImagePayload(img))
	}

	dto.Success(c, dto.GeneratePlanResponse{
		Plan:              dto.NewPlanDTO(result.Plan),
		InspirationImages: images,
	})
}

// StepImage 为单个方案步骤生成示意图
// @Summary 生成步骤示意图
// @Description 为方案中的图像占位符生成一张示意图，生成被跳过时 image 为 null
// @Tags Generation
// @Accept json
// @Produce json
// @Param request body dto.StepImageRequest true "步骤示意图请求"
// @Success 200 {object} dto.Response[dto.StepImageResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 429 {object} dto.ErrorResponse
// @Router /v1/plans/step-image [post]
func (h *PlanHandler) StepImage(c *gin.Context) {
	var req dto.StepImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, err.Error())
		return
	}
	if err := req.Photo.Validate(); err != nil {
		dto.Error(c, err)
		return
	}

	result, err := h.inspiration.StepImage(c.Request.Context(), wfmodel.StepImageInput{
		Photo:           req.Photo.ToModel(),
		ItemDescription: req.ItemDescription,
		Style:           req.Style,
		StepDescription: req.StepDescription,
	})
	if err != nil {
		logger.Error(c.Request.Context(), "step image generation failed", err)
		dto.Error(c, err)
		return
	}

	resp := dto.StepImageResponse{}
	if !result.Empty() {
		resp.Image = &dto.ImagePayload{Data: result.Data, MIMEType: result.MIMEType}
	}
	dto.Success(c, resp)
}
