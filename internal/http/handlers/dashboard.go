package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/lexiprogress-backend/internal/http/response"
	"github.com/yungbote/lexiprogress-backend/internal/services"
)

type DashboardHandler struct {
	dashboard services.DashboardService
}

func NewDashboardHandler(dashboard services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard}
}

// GET /api/dashboard
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	out, err := h.dashboard.Dashboard(c.Request.Context(), userID)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, out)
}

// GET /api/progress/history?days=30
func (h *DashboardHandler) GetHistory(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	days, ok := queryInt(c, "days", services.DefaultHistoryDays)
	if !ok {
		return
	}
	out, err := h.dashboard.History(c.Request.Context(), userID, days)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, out)
}

// GET /api/progress/sessions?limit=5
func (h *DashboardHandler) ListSessions(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	limit, ok := queryInt(c, "limit", services.DefaultRecentSessions)
	if !ok {
		return
	}
	sessions, err := h.dashboard.RecentSessions(c.Request.Context(), userID, limit)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"sessions": sessions})
}
