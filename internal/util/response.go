package util

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Response struct {
	Code    int         `json:"code"`
	Data    interface{} `json:"data"`
	Message string      `json:"message"`
	Error   string      `json:"error,omitempty"`
}

func Success(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Data:    data,
		Message: message,
	})
}

// Accepted acknowledges a write that is durably recorded; its effect becomes
// visible through the next published snapshot.
func Accepted(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusAccepted, Response{
		Code:    0,
		Data:    data,
		Message: message,
	})
}

// Error writes an error envelope. kind carries the taxonomy name
// ("OutOfWindow", "UserNotFound", ...) so callers can branch without parsing
// the message; pass "" when there is none.
func Error(c *gin.Context, code int, kind string, err interface{}) {
	msg := ""
	switch e := err.(type) {
	case string:
		msg = e
	case error:
		msg = e.Error()
	default:
		msg = "Internal Server Error"
	}

	zap.S().Errorf("API Error: %s", msg)

	c.JSON(code, Response{
		Code:    -1,
		Data:    nil,
		Message: msg,
		Error:   kind,
	})
}
