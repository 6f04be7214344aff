package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/zhukov-alex/idgen/internal/snowflake"
	pb "github.com/zhukov-alex/idgen/proto/idgenpb"
)

//go:generate mockgen -destination=../mocks/mock_idsource.go -package=mocks github.com/zhukov-alex/idgen/internal/service IDSource

const (
	IDWidth              = 18
	MsgClockNotMonotonic = "Clock source not monotonic."
)

// IDSource issues raw 64-bit ids. *snowflake.Generator implements it.
type IDSource interface {
	NextID() (uint64, error)
}

// Service exposes an IDSource as the idgen.IdGen gRPC service.
type Service struct {
	pb.UnimplementedIdGenServer
	source IDSource
	logger *zap.Logger
}

func New(logger *zap.Logger, source IDSource) *Service {
	return &Service{
		source: source,
		logger: logger,
	}
}

// GetNextId never retries: an immediate retry would see the same regressed clock.
func (s *Service) GetNextId(_ context.Context, _ *emptypb.Empty) (*pb.IdResponse, error) {
	id, err := s.source.NextID()
	if err != nil {
		if errors.Is(err, snowflake.ErrClockRegression) {
			s.logger.Warn("id generation rejected", zap.Error(err))
			return nil, status.Error(codes.FailedPrecondition, MsgClockNotMonotonic)
		}
		s.logger.Error("id generation failed", zap.Error(err))
		return nil, status.Error(codes.Internal, "id generation failed")
	}
	return wrapperspb.String(FormatID(id)), nil
}

// FormatID renders id in decimal, left-padded with zeros to IDWidth.
func FormatID(id uint64) string {
	return fmt.Sprintf("%0*d", IDWidth, id)
}
