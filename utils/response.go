package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response is the error envelope. Success payloads are written as bare
// JSON shapes by the handlers; only failures go through this wrapper.
type Response struct {
	Status int    `json:"-"`               // HTTP status code
	Error  string `json:"error,omitempty"` // Error message
}

func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, &Response{
		Status: http.StatusBadRequest,
		Error:  message,
	})
}

func NotFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, &Response{
		Status: http.StatusNotFound,
		Error:  message,
	})
}

func InternalError(c *gin.Context, message string) {
	c.JSON(http.StatusInternalServerError, &Response{
		Status: http.StatusInternalServerError,
		Error:  message,
	})
}

// BadGateway reports an upstream provider failure.
func BadGateway(c *gin.Context, message string) {
	c.JSON(http.StatusBadGateway, &Response{
		Status: http.StatusBadGateway,
		Error:  message,
	})
}
