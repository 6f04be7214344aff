package server

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/zhukov-alex/idgen/internal/interceptor"
	pb "github.com/zhukov-alex/idgen/proto/idgenpb"
)

const (
	RouteNextID     = "/v1/ids/next"
	RouteHealthz    = "/healthz"
	HeaderRequestID = "X-Request-Id"
)

type nextIDResponse struct {
	ID string `json:"id"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// HTTPGateway serves the id service as JSON over HTTP, running requests
// through the same interceptors as gRPC.
type HTTPGateway struct {
	cfg     *HTTPConfig
	logger  *zap.Logger
	svc     pb.IdGenServer
	chain   []interceptor.Interceptor[*emptypb.Empty, *pb.IdResponse]
	handler *gin.Engine
	server  *http.Server
}

func NewHTTPGateway(logger *zap.Logger, cfg *HTTPConfig, svc pb.IdGenServer, chain ...interceptor.Interceptor[*emptypb.Empty, *pb.IdResponse]) *HTTPGateway {
	gin.SetMode(gin.ReleaseMode)

	g := &HTTPGateway{
		cfg:    cfg,
		logger: logger,
		svc:    svc,
		chain:  chain,
	}

	r := gin.New()
	r.GET(RouteNextID, g.nextID)
	r.GET(RouteHealthz, func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	g.handler = r

	g.server = &http.Server{
		Addr:         cfg.BindAddr,
		Handler:      r,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return g
}

func (g *HTTPGateway) Handler() http.Handler { return g.handler }

func (g *HTTPGateway) nextID(c *gin.Context) {
	ctx := c.Request.Context()
	if rid := c.GetHeader(HeaderRequestID); rid != "" {
		ctx = metadata.NewIncomingContext(ctx, metadata.Pairs(interceptor.MetadataRequestID, rid))
	}

	var requestID string
	h := interceptor.Chain(
		interceptor.Info{Service: "idgen", Method: http.MethodGet + " " + RouteNextID},
		func(ctx context.Context, req *emptypb.Empty) (*pb.IdResponse, error) {
			requestID = interceptor.RequestIDFromContext(ctx)
			return g.svc.GetNextId(ctx, req)
		},
		g.chain...,
	)

	resp, err := h(ctx, &emptypb.Empty{})
	if requestID != "" {
		c.Header(HeaderRequestID, requestID)
	}
	if err != nil {
		st := status.Convert(err)
		c.JSON(httpStatus(st.Code()), errorResponse{Error: st.Message()})
		return
	}
	c.JSON(http.StatusOK, nextIDResponse{ID: resp.GetValue()})
}

func httpStatus(code codes.Code) int {
	switch code {
	case codes.FailedPrecondition:
		return http.StatusPreconditionFailed
	case codes.ResourceExhausted:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Serve listens on BindAddr and blocks until ctx is cancelled or the server
// fails.
func (g *HTTPGateway) Serve(ctx context.Context) error {
	lis, err := net.Listen("tcp", g.cfg.BindAddr)
	if err != nil {
		return err
	}
	return g.ServeListener(ctx, lis)
}

func (g *HTTPGateway) ServeListener(ctx context.Context, lis net.Listener) error {
	g.logger.Info("HTTP gateway started", zap.String("addr", lis.Addr().String()))

	go func() {
		<-ctx.Done()
		_ = g.Close(context.Background())
	}()

	err := g.server.Serve(lis)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Close waits for active requests. If ctx expires first the remaining
// connections are closed.
func (g *HTTPGateway) Close(ctx context.Context) error {
	if err := g.server.Shutdown(ctx); err != nil {
		g.logger.Warn("HTTP gateway shutdown timeout, forcing", zap.Error(err))
		_ = g.server.Close()
		return err
	}
	g.logger.Info("HTTP gateway stopped")
	return nil
}
