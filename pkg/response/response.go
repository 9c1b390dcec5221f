// Package response defines the JSON envelope every handler replies with.
// Success replies carry code 0; error replies echo the HTTP status so
// clients can branch on the body alone.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Error replies with the given status both as HTTP status and envelope code
func Error(c *gin.Context, status int, message string) {
	c.JSON(status, Response{
		Code:    status,
		Message: message,
	})
}

// BadRequest rejects a request whose payload or parameters do not parse
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

// UnprocessableEntity rejects well-formed input that fails domain
// validation, such as a route with fewer than two stops
func UnprocessableEntity(c *gin.Context, message string) {
	Error(c, http.StatusUnprocessableEntity, message)
}

func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message)
}

func InternalError(c *gin.Context, message string) {
	Error(c, http.StatusInternalServerError, message)
}
