package interceptor

import (
	"context"
	"runtime/debug"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Recovery turns a panic further down the chain into codes.Internal.
func Recovery[Req, Resp any](logger *zap.Logger) Interceptor[Req, Resp] {
	return func(ctx context.Context, req Req, info Info, next Handler[Req, Resp]) (resp Resp, err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered",
					zap.Any("panic", r),
					zap.String("target", info.Service),
					zap.String("method", info.Method),
					zap.ByteString("stack", debug.Stack()),
				)
				var zero Resp
				resp, err = zero, status.Error(codes.Internal, "internal server error")
			}
		}()
		return next(ctx, req)
	}
}
