// Package interceptor wraps request handlers with ordered, transport-agnostic
// middleware. The same interceptors run in front of the gRPC service and the
// HTTP gateway.
package interceptor

import (
	"context"

	"google.golang.org/grpc"
)

// Info identifies the call an interceptor is wrapping.
type Info struct {
	// Service is the label of the wrapped service, e.g. "idgen".
	Service string
	// Method is the transport-level method name, e.g. "/idgen.IdGen/GetNextId".
	Method string
}

// Handler processes one request.
type Handler[Req, Resp any] func(ctx context.Context, req Req) (Resp, error)

// Interceptor runs around next. It may inspect or replace the context and
// request, short-circuit with an error, or post-process the result.
type Interceptor[Req, Resp any] func(ctx context.Context, req Req, info Info, next Handler[Req, Resp]) (Resp, error)

// Chain wraps h so that interceptors[0] runs first and h runs last.
func Chain[Req, Resp any](info Info, h Handler[Req, Resp], interceptors ...Interceptor[Req, Resp]) Handler[Req, Resp] {
	for i := len(interceptors) - 1; i >= 0; i-- {
		ic, next := interceptors[i], h
		h = func(ctx context.Context, req Req) (Resp, error) {
			return ic(ctx, req, info, next)
		}
	}
	return h
}

// UnaryServerInterceptor adapts a chain to grpc.ChainUnaryInterceptor.
func UnaryServerInterceptor(service string, interceptors ...Interceptor[any, any]) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		h := Chain(Info{Service: service, Method: info.FullMethod}, Handler[any, any](handler), interceptors...)
		return h(ctx, req)
	}
}
