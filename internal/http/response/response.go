package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/lexiprogress-backend/internal/platform/ctxutil"
)

type APIError struct {
	Message   string `json:"message"`
	Code      string `json:"code,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// Envelope builds an error body stamped with the request id, when one is set.
func Envelope(c *gin.Context, code, message string) ErrorEnvelope {
	env := ErrorEnvelope{Error: APIError{Message: message, Code: code}}
	if c.Request != nil {
		env.Error.RequestID = ctxutil.RequestID(c.Request.Context())
	}
	return env
}

// RespondError aborts the chain with an error envelope carrying err's message.
func RespondError(c *gin.Context, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	c.AbortWithStatusJSON(status, Envelope(c, code, msg))
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}
