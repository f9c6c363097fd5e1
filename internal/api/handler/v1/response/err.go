package response

import (
	"fmt"
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Err struct {
	StatusCode int    `json:"-"`
	ErrorCode  int    `json:"error_code"`
	ErrorMsg   string `json:"error_msg"`
}

func (e *Err) Error() string {
	return fmt.Sprintf("error code %v - %v", e.ErrorCode, e.ErrorMsg)
}

// RenderErr logs the error with the request id and writes the JSON body.
// 5xx bodies never echo internal error details back to the client.
func RenderErr(ctx *gin.Context, err *Err) {
	zap.L().Error("request failed",
		zap.String("request_id", requestid.Get(ctx)),
		zap.String("method", ctx.Request.Method),
		zap.String("path", ctx.Request.URL.Path),
		zap.Int("status", err.StatusCode),
		zap.String("error", err.ErrorMsg),
	)

	body := err
	if err.StatusCode >= http.StatusInternalServerError {
		body = &Err{
			StatusCode: err.StatusCode,
			ErrorCode:  err.ErrorCode,
			ErrorMsg:   "something went wrong",
		}
	}

	ctx.JSON(err.StatusCode, body)
}

func ErrBadRequest(err error) *Err {
	return &Err{
		StatusCode: http.StatusBadRequest,
		ErrorCode:  http.StatusBadRequest,
		ErrorMsg:   err.Error(),
	}
}

func ErrUnauthorized(err error) *Err {
	return &Err{
		StatusCode: http.StatusUnauthorized,
		ErrorCode:  http.StatusUnauthorized,
		ErrorMsg:   err.Error(),
	}
}

func ErrPermissionDenied(err error) *Err {
	return &Err{
		StatusCode: http.StatusForbidden,
		ErrorCode:  http.StatusForbidden,
		ErrorMsg:   err.Error(),
	}
}

func ErrNotFound(resource, key string, value interface{}) *Err {
	return &Err{
		StatusCode: http.StatusNotFound,
		ErrorCode:  http.StatusNotFound,
		ErrorMsg:   fmt.Sprintf("%v with %v %v not found", resource, key, value),
	}
}

// ErrFailedPrecondition reports a request that is well-formed but cannot be
// satisfied in the current state, e.g. drawing an already ended lottery.
func ErrFailedPrecondition(err error) *Err {
	return &Err{
		StatusCode: http.StatusConflict,
		ErrorCode:  http.StatusConflict,
		ErrorMsg:   err.Error(),
	}
}

func ErrInternalServerError(err error) *Err {
	return &Err{
		StatusCode: http.StatusInternalServerError,
		ErrorCode:  http.StatusInternalServerError,
		ErrorMsg:   err.Error(),
	}
}
