package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/zhukov-alex/idgen/internal/config"
	"github.com/zhukov-alex/idgen/internal/events"
	"github.com/zhukov-alex/idgen/internal/interceptor"
	"github.com/zhukov-alex/idgen/internal/logger"
	"github.com/zhukov-alex/idgen/internal/metrics"
	"github.com/zhukov-alex/idgen/internal/server"
	"github.com/zhukov-alex/idgen/internal/service"
	pb "github.com/zhukov-alex/idgen/proto/idgenpb"
)

const (
	EnvStage        = "ENVIRONMENT"
	shutdownTimeout = 3 * time.Second
)

func ServeCmd(_ *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.New(viper.GetViper())
	if err != nil {
		return fmt.Errorf("create config: %w", err)
	}
	var devMode = strings.ToLower(os.Getenv(EnvStage)) != "prod"
	l, err := logger.New(cfg.Logger, devMode)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer l.Sync()

	return Run(ctx, l, cfg)
}

// Run serves until ctx is cancelled or a server fails, then shuts everything
// down.
func Run(ctx context.Context, l *zap.Logger, cfg *config.Config) error {
	collectMetrics := cfg.MetricsAddr != ""

	publisher, err := newPublisher(l, cfg.Events, collectMetrics)
	if err != nil {
		return fmt.Errorf("events init error: %w", err)
	}
	notifier := events.NewNotifier(publisher)

	gen, err := cfg.Generator.NewGenerator(notifier, collectMetrics)
	if err != nil {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = publisher.Close(closeCtx)
		return fmt.Errorf("generator init error: %w", err)
	}
	l = l.With(zap.Uint64("generator_id", gen.ID()))

	var metricsCloser func(ctx context.Context) error
	if collectMetrics {
		metricsSrv, cl := metrics.New(l, cfg.MetricsAddr)
		metricsSrv.Start()
		metricsCloser = cl
	}

	stack := interceptor.NewStack(l, cfg.Server.Interceptors, collectMetrics)
	svc := service.New(l, gen)

	grpcSrv := server.NewGRPCServer(l, &cfg.Server.GRPC, svc,
		interceptor.UnaryServerInterceptor("idgen", interceptor.Default[any, any](stack)...),
	)

	var gateway *server.HTTPGateway
	if cfg.Server.HTTP.Enabled() {
		gateway = server.NewHTTPGateway(l, &cfg.Server.HTTP, svc,
			interceptor.Default[*emptypb.Empty, *pb.IdResponse](stack)...,
		)
	}

	structure := gen.Structure()
	l.Info("generator ready",
		zap.Uint8("timestamp_bits", structure.TimestampBits()),
		zap.Uint8("generator_id_bits", structure.GeneratorIDBits()),
		zap.Uint8("sequence_bits", structure.SequenceBits()),
		zap.Time("epoch", structure.Epoch()),
		zap.Duration("tick", structure.Tick()),
	)
	notifier.Started(gen.ID())

	serveGroup, serveCtx := errgroup.WithContext(ctx)
	serveGroup.Go(func() error { return grpcSrv.Serve(serveCtx) })
	if gateway != nil {
		serveGroup.Go(func() error { return gateway.Serve(serveCtx) })
	}

	<-serveCtx.Done()
	l.Info("Shutdown signal received")

	clCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := grpcSrv.Close(clCtx); err != nil {
		l.Error("error shutting down gRPC server", zap.Error(err))
	}
	if gateway != nil {
		if err := gateway.Close(clCtx); err != nil {
			l.Error("error shutting down HTTP gateway", zap.Error(err))
		}
	}
	serveErr := serveGroup.Wait()
	if serveErr != nil {
		l.Error("server error", zap.Error(serveErr))
	}

	notifier.Stopped(gen.ID())

	g, gctx := errgroup.WithContext(clCtx)
	g.Go(func() error { return publisher.Close(gctx) })
	if collectMetrics {
		g.Go(func() error { return metricsCloser(gctx) })
	}

	if err := g.Wait(); err != nil {
		l.Error("shutdown errors", zap.Error(err))
	} else {
		l.Info("Shutdown complete")
	}

	return serveErr
}

func newPublisher(l *zap.Logger, cfg events.Config, registerMetrics bool) (events.Publisher, error) {
	switch cfg.Type {
	case "":
		return events.Nop{}, nil
	case events.TypeKafka:
		if cfg.Kafka == nil {
			return nil, fmt.Errorf("kafka config is missing")
		}
		return events.NewKafkaPublisher(l, cfg.Kafka, registerMetrics)
	default:
		return nil, fmt.Errorf("unsupported events type: %s", cfg.Type)
	}
}
