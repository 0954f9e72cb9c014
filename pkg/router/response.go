package router

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/questx-lab/campaign/pkg/errorx"
)

type response struct {
	Code   int    `json:"code"`
	Error  string `json:"error,omitempty"`
	Detail any    `json:"detail,omitempty"`
	Data   any    `json:"data,omitempty"`
}

func newResponse(data any) response {
	return response{Code: 0, Data: data}
}

func writeError(c *gin.Context, err error) {
	errx := errorx.Unknown
	if !errors.As(err, &errx) {
		errx = errorx.Unknown
	}

	c.JSON(HTTPStatus(errx.Code), response{
		Code:   int(errx.Code),
		Error:  errx.Message,
		Detail: errx.Detail,
	})
}

func HTTPStatus(code errorx.Code) int {
	switch code {
	case errorx.InvalidInput, errorx.InvalidAnswer:
		return http.StatusBadRequest
	case errorx.Unauthenticated:
		return http.StatusUnauthorized
	case errorx.Forbidden:
		return http.StatusForbidden
	case errorx.NotFound:
		return http.StatusNotFound
	case errorx.Conflict:
		return http.StatusConflict
	case errorx.EmptyPool:
		return http.StatusUnprocessableEntity
	case errorx.Unavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
