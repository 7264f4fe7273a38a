package restapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"segment-service/pkg/errno"
)

// Response is the uniform JSON envelope for the HTTP API.
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Success writes a 200 envelope.
func Success(ctx *gin.Context, data interface{}) {
	ctx.JSON(http.StatusOK, Response{
		Code:    errno.OK.Code,
		Message: errno.OK.Message,
		Data:    data,
	})
}

// Failed writes the envelope for an error, mapping business codes onto
// sensible HTTP statuses.
func Failed(ctx *gin.Context, err error) {
	code := errno.CodeOf(err)
	ctx.JSON(httpStatus(code), Response{
		Code:    code.Code,
		Message: err.Error(),
	})
}

func httpStatus(code *errno.Errno) int {
	switch {
	// Codes in the HTTP client range pass through; internal 5xx-range codes
	// fall to the 500 default so they never leak as 501/510.
	case code.Code >= 200 && code.Code < 500:
		return code.Code
	case code == errno.ErrInsufficientCredits:
		return http.StatusPaymentRequired
	case code == errno.ErrSegmentNotFound || code == errno.ErrVideoNotFound || code == errno.ErrBackgroundNotFound:
		return http.StatusNotFound
	case code == errno.ErrInvalidSegmentState || code == errno.ErrVideoNotReady:
		return http.StatusConflict
	case code.Code >= 20000 && code.Code < 30000:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
