package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/lexiprogress-backend/internal/http/response"
	"github.com/yungbote/lexiprogress-backend/internal/services"
)

// BotHandler serves the Telegram bot. Routes sit behind RequireBotKey.
type BotHandler struct {
	provisioning services.ProvisioningService
}

func NewBotHandler(provisioning services.ProvisioningService) *BotHandler {
	return &BotHandler{provisioning: provisioning}
}

// POST /api/bot/users
func (h *BotHandler) EnsureUser(c *gin.Context) {
	var req services.ProvisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_input", err)
		return
	}
	out, err := h.provisioning.EnsureUser(c.Request.Context(), req)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	if out.Created {
		response.RespondCreated(c, out)
		return
	}
	response.RespondOK(c, out)
}

// POST /api/bot/payments/confirm
func (h *BotHandler) ConfirmPayment(c *gin.Context) {
	var req struct {
		TelegramID int64 `json:"telegram_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_input", err)
		return
	}
	out, err := h.provisioning.ConfirmPayment(c.Request.Context(), req.TelegramID)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, out)
}
