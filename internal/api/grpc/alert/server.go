package alert

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	domain "github.com/oshokin/guardian-eye/internal/domain/alert"
	"github.com/oshokin/guardian-eye/internal/wire"
)

// Service abstracts the business operations the transport layer depends on.
type Service interface {
	Evaluate(ctx context.Context, reading domain.Reading) domain.Evaluation
	Status(ctx context.Context) (domain.State, domain.Thresholds)
	Report(ctx context.Context) domain.Report
	Events(ctx context.Context) ([]domain.Event, error)
}

// Server implements the AlertService gRPC API.
type Server struct {
	// service provides the business logic for alert operations.
	service Service
}

// NewServer wires the provided service implementation into a gRPC handler.
func NewServer(service Service) *Server {
	return &Server{
		service: service,
	}
}

// Evaluate applies a reading to the latch and returns the evaluation.
func (s *Server) Evaluate(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "reading is required")
	}

	reading, err := wire.ToReading(req)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	evaluation := s.service.Evaluate(ctx, reading)

	return wire.FromEvaluation(&evaluation), nil
}

// GetStatus returns the current latch state and thresholds.
func (s *Server) GetStatus(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	state, thresholds := s.service.Status(ctx)

	return wire.FromStatus(state, thresholds), nil
}

// GetReport returns the monitoring report.
func (s *Server) GetReport(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	report := s.service.Report(ctx)

	return wire.FromReport(&report), nil
}

// ListEvents returns the journaled alert events.
func (s *Server) ListEvents(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	events, err := s.service.Events(ctx)
	if err != nil {
		return nil, status.Error(codes.Internal, "unable to read journal")
	}

	return wire.FromEvents(events), nil
}
