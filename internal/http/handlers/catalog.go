package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/lexiprogress-backend/internal/http/response"
	"github.com/yungbote/lexiprogress-backend/internal/services"
)

type CatalogHandler struct {
	catalog services.CatalogService
}

func NewCatalogHandler(catalog services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// GET /api/blocks
func (h *CatalogHandler) ListBlocks(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	blocks, err := h.catalog.ListBlocks(c.Request.Context(), userID)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"blocks": blocks})
}

// GET /api/blocks/:id
func (h *CatalogHandler) GetBlock(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	blockID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	out, err := h.catalog.BlockDetail(c.Request.Context(), userID, blockID)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, out)
}

// GET /api/lessons/:id
func (h *CatalogHandler) GetLesson(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	lessonID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	out, err := h.catalog.LessonDetail(c.Request.Context(), userID, lessonID)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, out)
}
