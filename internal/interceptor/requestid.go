package interceptor

import (
	"context"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

const MetadataRequestID = "x-request-id"

type requestIDKey struct{}

// RequestID takes the request id from incoming metadata or mints one, stores
// it in the context and echoes it back as a gRPC response header.
func RequestID[Req, Resp any]() Interceptor[Req, Resp] {
	return func(ctx context.Context, req Req, info Info, next Handler[Req, Resp]) (Resp, error) {
		var id string
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			if vals := md.Get(MetadataRequestID); len(vals) > 0 {
				id = vals[0]
			}
		}
		if id == "" {
			id = uuid.NewString()
		}

		ctx = context.WithValue(ctx, requestIDKey{}, id)
		// fails outside a gRPC server stream (HTTP gateway); nothing to do then
		_ = grpc.SetHeader(ctx, metadata.Pairs(MetadataRequestID, id))
		return next(ctx, req)
	}
}

func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
