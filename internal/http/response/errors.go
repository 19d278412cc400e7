package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	domainagg "github.com/yungbote/lexiprogress-backend/internal/domain/aggregates"
)

const internalMessage = "internal server error"

// RespondAggregateError maps a service or aggregate error onto the API
// envelope. Unclassified errors never leak their message.
func RespondAggregateError(c *gin.Context, err error) {
	status, code := StatusOf(err)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		c.AbortWithStatusJSON(status, Envelope(c, code, internalMessage))
		return
	}
	RespondError(c, status, code, err)
}

// StatusOf returns the HTTP status and error code for err.
func StatusOf(err error) (int, string) {
	switch domainagg.CodeOf(err) {
	case domainagg.CodeNotFound:
		return http.StatusNotFound, "not_found"
	case domainagg.CodeForbidden:
		reason := domainagg.ReasonOf(err)
		if reason == "" || reason == string(domainagg.CodeForbidden) {
			reason = domainagg.ReasonForbidden
		}
		return http.StatusForbidden, reason
	case domainagg.CodeConflict:
		return http.StatusConflict, "conflict"
	case domainagg.CodeValidation:
		return http.StatusBadRequest, "invalid_input"
	default:
		return http.StatusInternalServerError, "internal"
	}
}
