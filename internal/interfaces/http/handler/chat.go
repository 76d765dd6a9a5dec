// Package handler 提供 HTTP 请求处理器
package handler

import (
	"github.com/gin-gonic/gin"

	"reno-ai-api/internal/application/chat"
	wfmodel "reno-ai-api/internal/workflow/model"
	"reno-ai-api/internal/interfaces/http/dto"
	"reno-ai-api/pkg/logger"
)

// ChatHandler 方案问答处理器
type ChatHandler struct {
	chat *chat.Service
}

// NewChatHandler 创建方案问答处理器
func NewChatHandler(svc *chat.Service) *ChatHandler {
	return &ChatHandler{chat: svc}
}

// Reply 回答针对当前方案的跟进问题
// @Summary 方案问答
// @Description 服务端无状态，方案快照与完整对话历史随每次请求提供
// @Tags Generation
// @Accept json
// @Produce json
// @Param request body dto.ChatRequest true "问答请求"
// @Success 200 {object} dto.Response[dto.ChatResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 429 {object} dto.ErrorResponse
// @Router /v1/chat [post]
func (h *ChatHandler) Reply(c *gin.Context) {
	var req dto.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, err.Error())
		return
	}

	reply, err := h.chat.Reply(c.Request.Context(), wfmodel.ChatInput{
		Plan:    req.Plan.ToEntity(),
		History: dto.ToEntities(req.History),
		Message: req.Message,
	})
	if err != nil {
		logger.Error(c.Request.Context(), "chat reply failed", err)
		dto.Error(c, err)
		return
	}

	dto.Success(c, dto.ChatResponse{Reply: reply})
}
