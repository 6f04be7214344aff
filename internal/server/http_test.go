package server_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/zhukov-alex/idgen/internal/interceptor"
	"github.com/zhukov-alex/idgen/internal/server"
	"github.com/zhukov-alex/idgen/internal/service"
	pb "github.com/zhukov-alex/idgen/proto/idgenpb"
)

type stubService struct {
	pb.UnimplementedIdGenServer
	err error
}

func (s *stubService) GetNextId(context.Context, *emptypb.Empty) (*pb.IdResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return wrapperspb.String(service.FormatID(7)), nil
}

func newGateway(t *testing.T, svc pb.IdGenServer, icfg interceptor.Config) *server.HTTPGateway {
	t.Helper()
	logger := zaptest.NewLogger(t)
	stack := interceptor.NewStack(logger, icfg, false)
	return server.NewHTTPGateway(logger, &server.HTTPConfig{
		BindAddr:     "127.0.0.1:0",
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	}, svc, interceptor.Default[*emptypb.Empty, *pb.IdResponse](stack)...)
}

func doGet(h http.Handler, path string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHTTPGateway_NextID(t *testing.T) {
	gw := newGateway(t, service.New(zaptest.NewLogger(t), newGenerator(t)), interceptor.Config{})

	w := doGet(gw.Handler(), server.RouteNextID, http.Header{server.HeaderRequestID: {"http-1"}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "http-1", w.Header().Get(server.HeaderRequestID))

	var body struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.GreaterOrEqual(t, len(body.ID), service.IDWidth)

	w = doGet(gw.Handler(), server.RouteNextID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	_, err := uuid.Parse(w.Header().Get(server.HeaderRequestID))
	assert.NoError(t, err, "gateway mints a request id when the client sends none")
}

func TestHTTPGateway_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{
			name:     "clock regression",
			err:      status.Error(codes.FailedPrecondition, service.MsgClockNotMonotonic),
			wantCode: http.StatusPreconditionFailed,
			wantMsg:  "Clock source not monotonic.",
		},
		{
			name:     "exhausted",
			err:      status.Error(codes.ResourceExhausted, "too many requests"),
			wantCode: http.StatusTooManyRequests,
			wantMsg:  "too many requests",
		},
		{
			name:     "internal",
			err:      status.Error(codes.Internal, "id generation failed"),
			wantCode: http.StatusInternalServerError,
			wantMsg:  "id generation failed",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			gw := newGateway(t, &stubService{err: tc.err}, interceptor.Config{})
			w := doGet(gw.Handler(), server.RouteNextID, nil)

			assert.Equal(t, tc.wantCode, w.Code)
			var body struct {
				Error string `json:"error"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tc.wantMsg, body.Error)
		})
	}
}

func TestHTTPGateway_RateLimited(t *testing.T) {
	gw := newGateway(t, &stubService{}, interceptor.Config{
		RateLimit: interceptor.RateLimitConfig{RequestsPerSecond: 0.001, Burst: 1},
	})

	assert.Equal(t, http.StatusOK, doGet(gw.Handler(), server.RouteNextID, nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, doGet(gw.Handler(), server.RouteNextID, nil).Code)
}

func TestHTTPGateway_Healthz(t *testing.T) {
	gw := newGateway(t, &stubService{}, interceptor.Config{})
	w := doGet(gw.Handler(), server.RouteHealthz, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())
}

func TestHTTPGateway_ServeAndClose(t *testing.T) {
	gw := newGateway(t, &stubService{}, interceptor.Config{})

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- gw.Serve(ctx) }()

	cancel()
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("gateway did not stop")
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := server.Config{
		GRPC: server.GRPCConfig{BindAddr: "[::1]:10000", ConnectionTimeout: time.Second},
	}
	assert.NoError(t, valid.Validate())

	noAddr := valid
	noAddr.GRPC.BindAddr = ""
	assert.Error(t, noAddr.Validate())

	httpNoTimeouts := valid
	httpNoTimeouts.HTTP.BindAddr = ":8080"
	assert.Error(t, httpNoTimeouts.Validate())

	badRate := valid
	badRate.Interceptors.RateLimit.RequestsPerSecond = 5
	assert.Error(t, badRate.Validate())
}
