package alert

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// Fully qualified names of the service and its methods.
const (
	ServiceName = "guardian.v1.AlertService"

	EvaluateMethod   = "/" + ServiceName + "/Evaluate"
	GetStatusMethod  = "/" + ServiceName + "/GetStatus"
	GetReportMethod  = "/" + ServiceName + "/GetReport"
	ListEventsMethod = "/" + ServiceName + "/ListEvents"
)

// AlertServiceServer is the server API for guardian.v1.AlertService.
type AlertServiceServer interface {
	Evaluate(ctx context.Context, reading *structpb.Struct) (*structpb.Struct, error)
	GetStatus(ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error)
	GetReport(ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error)
	ListEvents(ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error)
}

// ServiceDesc describes guardian.v1.AlertService for grpc.Server.
//
//nolint:gochecknoglobals // Service descriptors are registered by address.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AlertServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Evaluate", Handler: unary(EvaluateMethod, AlertServiceServer.Evaluate)},
		{MethodName: "GetStatus", Handler: unary(GetStatusMethod, AlertServiceServer.GetStatus)},
		{MethodName: "GetReport", Handler: unary(GetReportMethod, AlertServiceServer.GetReport)},
		{MethodName: "ListEvents", Handler: unary(ListEventsMethod, AlertServiceServer.ListEvents)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "api/guardian/v1/alert.proto",
}

// RegisterAlertServiceServer registers srv on the gRPC server.
func RegisterAlertServiceServer(s grpc.ServiceRegistrar, srv AlertServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// unary builds a method handler decoding a *T request and passing it through
// the server's interceptor chain.
func unary[T any](
	method string,
	call func(AlertServiceServer, context.Context, *T) (*structpb.Struct, error),
) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(T)
		if err := dec(in); err != nil {
			return nil, err
		}

		server, _ := srv.(AlertServiceServer)
		if interceptor == nil {
			return call(server, ctx, in)
		}

		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: method,
		}

		handler := func(ctx context.Context, req any) (any, error) {
			typed, _ := req.(*T)

			return call(server, ctx, typed)
		}

		return interceptor(ctx, in, info, handler)
	}
}

// AlertServiceClient is the client API for guardian.v1.AlertService.
type AlertServiceClient struct {
	// cc is the connection used for calls.
	cc grpc.ClientConnInterface
}

// NewAlertServiceClient creates a client over the connection.
func NewAlertServiceClient(cc grpc.ClientConnInterface) *AlertServiceClient {
	return &AlertServiceClient{cc: cc}
}

// Evaluate submits a reading.
func (c *AlertServiceClient) Evaluate(
	ctx context.Context,
	reading *structpb.Struct,
	opts ...grpc.CallOption,
) (*structpb.Struct, error) {
	return c.invoke(ctx, EvaluateMethod, reading, opts...)
}

// GetStatus returns the latch state and thresholds.
func (c *AlertServiceClient) GetStatus(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, GetStatusMethod, new(emptypb.Empty), opts...)
}

// GetReport returns the monitoring report.
func (c *AlertServiceClient) GetReport(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, GetReportMethod, new(emptypb.Empty), opts...)
}

// ListEvents returns the journaled events.
func (c *AlertServiceClient) ListEvents(ctx context.Context, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, ListEventsMethod, new(emptypb.Empty), opts...)
}

func (c *AlertServiceClient) invoke(ctx context.Context, method string, in any, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}

	return out, nil
}
