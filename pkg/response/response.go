package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/afdhalrashid/voice-to-text-Manglish/pkg/errors"
)

// Body is the envelope used by the JSON API outside the transcribe
// endpoint, which has its own wire shape.
type Body struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func Success(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Body{Success: true, Message: message, Data: data})
}

func Created(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, Body{Success: true, Message: message, Data: data})
}

func Fail(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusBadRequest, Body{Success: false, Message: message, Data: data})
}

// FailWith renders err using the taxonomy code to pick the HTTP status.
func FailWith(c *gin.Context, err error) {
	code := errors.GetCode(err)
	c.JSON(errors.HTTPStatus(code), gin.H{
		"success": false,
		"error":   errors.GetMessage(err),
		"code":    code,
	})
}
