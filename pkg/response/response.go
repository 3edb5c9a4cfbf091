package response

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// OK writes data with HTTP 200.
func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Resp{
		ErrorCode: 0,
		Message:   MessageSuccess,
		Data:      data,
	})
}

// Unavailable writes HTTP 503 with data describing what is not ready.
func Unavailable(c *gin.Context, data any, err error) {
	resp := Resp{
		ErrorCode: http.StatusServiceUnavailable,
		Message:   MessageUnavailable,
		Data:      data,
	}
	if err != nil {
		resp.Errors = err.Error()
	}
	c.JSON(http.StatusServiceUnavailable, resp)
}

// PanicError writes HTTP 500 for a recovered panic without leaking its value.
func PanicError(c *gin.Context, recovered any) {
	c.JSON(http.StatusInternalServerError, Resp{
		ErrorCode: http.StatusInternalServerError,
		Message:   MessageInternal,
		Errors:    fmt.Sprintf("%T", recovered),
	})
}
