package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/zeromicro/go-zero/core/logx"
	"github.com/zeromicro/go-zero/rest/httpx"

	"pricefeed-api/internal/types"
	"pricefeed-api/pkg/prices"
)

// SetErrorHandler installs ErrorHandler as go-zero's process-wide error writer.
func SetErrorHandler() {
	httpx.SetErrorHandlerCtx(ErrorHandler)
}

// ErrorHandler maps domain errors onto HTTP status codes with a
// {"detail": "..."} body.
func ErrorHandler(ctx context.Context, err error) (int, any) {
	switch {
	case prices.IsClientError(err):
		return http.StatusUnprocessableEntity, types.ErrorResp{Detail: err.Error()}
	case errors.Is(err, prices.ErrNotFound):
		return http.StatusNotFound, types.ErrorResp{Detail: err.Error()}
	case errors.Is(err, prices.ErrStorageUnavailable):
		logx.WithContext(ctx).Errorf("handler: %v", err)
		return http.StatusServiceUnavailable, types.ErrorResp{Detail: prices.ErrStorageUnavailable.Error()}
	default:
		logx.WithContext(ctx).Errorf("handler: unexpected error: %v", err)
		return http.StatusInternalServerError, types.ErrorResp{Detail: http.StatusText(http.StatusInternalServerError)}
	}
}
