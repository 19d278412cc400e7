package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/lexiprogress-backend/internal/http/response"
	"github.com/yungbote/lexiprogress-backend/internal/services"
)

type ProgressHandler struct {
	progress services.ProgressService
}

func NewProgressHandler(progress services.ProgressService) *ProgressHandler {
	return &ProgressHandler{progress: progress}
}

// POST /api/progress/attempts
func (h *ProgressHandler) RecordAttempt(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req struct {
		WordID           uuid.UUID  `json:"word_id"`
		LessonID         *uuid.UUID `json:"lesson_id"`
		IsCorrect        bool       `json:"is_correct"`
		TimeSpentSeconds int        `json:"time_spent_seconds"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_input", err)
		return
	}
	out, err := h.progress.RecordAttempt(c.Request.Context(), userID, services.RecordAttemptRequest{
		WordID:           req.WordID,
		LessonID:         req.LessonID,
		IsCorrect:        req.IsCorrect,
		TimeSpentSeconds: req.TimeSpentSeconds,
	})
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, out)
}

// POST /api/sessions
func (h *ProgressHandler) StartSession(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	out, err := h.progress.StartSession(c.Request.Context(), userID)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondCreated(c, out)
}

// POST /api/sessions/:id/end
func (h *ProgressHandler) EndSession(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	sessionID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req struct {
		LessonIDs       []uuid.UUID `json:"lesson_ids"`
		WordIDs         []uuid.UUID `json:"word_ids"`
		AverageAccuracy float64     `json:"average_accuracy"`
	}
	// An empty body ends the session without links.
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.RespondError(c, http.StatusBadRequest, "invalid_input", err)
			return
		}
	}
	out, err := h.progress.EndSession(c.Request.Context(), userID, sessionID, services.EndSessionRequest{
		LessonIDs:       req.LessonIDs,
		WordIDs:         req.WordIDs,
		AverageAccuracy: req.AverageAccuracy,
	})
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, out)
}
