package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/lexiprogress-backend/internal/http/response"
	"github.com/yungbote/lexiprogress-backend/internal/services"
)

type BlockTestHandler struct {
	progress services.ProgressService
}

func NewBlockTestHandler(progress services.ProgressService) *BlockTestHandler {
	return &BlockTestHandler{progress: progress}
}

// GET /api/block-tests/blocks/:id/start
func (h *BlockTestHandler) Start(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	blockID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	out, err := h.progress.StartBlockTest(c.Request.Context(), userID, blockID)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, out)
}

// POST /api/block-tests/:id/submit
func (h *BlockTestHandler) Submit(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	testID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Answers map[string]string `json:"answers"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_input", err)
		return
	}
	out, err := h.progress.SubmitBlockTest(c.Request.Context(), userID, testID, req.Answers)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, out)
}
