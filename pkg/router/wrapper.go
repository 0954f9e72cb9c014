package router

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/questx-lab/campaign/pkg/errorx"
	"github.com/questx-lab/campaign/pkg/xcontext"
)

func wrap[Request, Response any](
	r *Router, method string, handler HandlerFunc[Request, Response],
) gin.HandlerFunc {
	befores := r.befores
	closers := r.closers

	return func(c *gin.Context) {
		ctx := r.base(c.Request.Context())
		ctx = xcontext.WithHTTPRequest(ctx, c.Request)

		resp, err := func() (*Response, error) {
			for _, before := range befores {
				newCtx, err := before(ctx)
				if err != nil {
					return nil, err
				}

				if newCtx != nil {
					ctx = newCtx
				}
			}

			req := new(Request)
			if err := bind(c, method, req); err != nil {
				xcontext.Logger(ctx).Debugf("Cannot bind request: %v", err)
				return nil, errorx.New(errorx.InvalidInput, "Invalid request: %v", err)
			}

			return handler(ctx, req)
		}()

		if err != nil {
			ctx = xcontext.WithError(ctx, err)
			writeError(c, err)
		} else {
			c.JSON(http.StatusOK, newResponse(resp))
		}

		for _, closer := range closers {
			closer(ctx)
		}
	}
}

func bind(c *gin.Context, method string, req any) error {
	if len(c.Params) > 0 {
		if err := c.ShouldBindUri(req); err != nil {
			return err
		}
	}

	switch method {
	case http.MethodGet, http.MethodDelete:
		return c.ShouldBindQuery(req)
	default:
		if c.Request.ContentLength == 0 {
			return nil
		}

		if err := c.ShouldBindJSON(req); err != nil && !errors.Is(err, io.EOF) {
			return err
		}

		return nil
	}
}
