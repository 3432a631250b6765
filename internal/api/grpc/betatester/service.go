package betatester

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "wpbt.v1.BetaTesterService"

// Full method names.
const (
	GetSettingsMethod       = "/" + ServiceName + "/GetSettings"
	UpdateSettingsMethod    = "/" + ServiceName + "/UpdateSettings"
	GetRequestVersionMethod = "/" + ServiceName + "/GetRequestVersion"
	CheckDowngradeMethod    = "/" + ServiceName + "/CheckDowngrade"
)

// BetaTesterServiceServer is the server API for the beta tester service.
type BetaTesterServiceServer interface {
	GetSettings(ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error)
	UpdateSettings(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	GetRequestVersion(ctx context.Context, req *emptypb.Empty) (*wrapperspb.StringValue, error)
	CheckDowngrade(ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error)
}

// ServiceDesc describes BetaTesterService for grpc.Server.RegisterService.
//
//nolint:gochecknoglobals // Service descriptors are package-level by convention.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*BetaTesterServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetSettings",
			Handler: unaryHandler(GetSettingsMethod, newEmpty,
				func(srv BetaTesterServiceServer, ctx context.Context, req *emptypb.Empty) (proto.Message, error) {
					return srv.GetSettings(ctx, req)
				}),
		},
		{
			MethodName: "UpdateSettings",
			Handler: unaryHandler(UpdateSettingsMethod, newStruct,
				func(srv BetaTesterServiceServer, ctx context.Context, req *structpb.Struct) (proto.Message, error) {
					return srv.UpdateSettings(ctx, req)
				}),
		},
		{
			MethodName: "GetRequestVersion",
			Handler: unaryHandler(GetRequestVersionMethod, newEmpty,
				func(srv BetaTesterServiceServer, ctx context.Context, req *emptypb.Empty) (proto.Message, error) {
					return srv.GetRequestVersion(ctx, req)
				}),
		},
		{
			MethodName: "CheckDowngrade",
			Handler: unaryHandler(CheckDowngradeMethod, newEmpty,
				func(srv BetaTesterServiceServer, ctx context.Context, req *emptypb.Empty) (proto.Message, error) {
					return srv.CheckDowngrade(ctx, req)
				}),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "wpbt/v1/beta_tester.proto",
}

// RegisterBetaTesterServiceServer registers srv on s.
func RegisterBetaTesterServiceServer(s grpc.ServiceRegistrar, srv BetaTesterServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

func newEmpty() *emptypb.Empty { return new(emptypb.Empty) }

func newStruct() *structpb.Struct { return new(structpb.Struct) }

// unaryHandler adapts a typed call into a grpc method handler, running the
// server interceptor chain when one is configured.
func unaryHandler[Req proto.Message](
	fullMethod string,
	newRequest func() Req,
	call func(srv BetaTesterServiceServer, ctx context.Context, req Req) (proto.Message, error),
) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := newRequest()
		if err := dec(in); err != nil {
			return nil, err
		}

		server, _ := srv.(BetaTesterServiceServer)

		if interceptor == nil {
			return call(server, ctx, in)
		}

		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}

		handler := func(ctx context.Context, req any) (any, error) {
			typed, _ := req.(Req)

			return call(server, ctx, typed)
		}

		return interceptor(ctx, in, info, handler)
	}
}

// BetaTesterServiceClient is the client API for the beta tester service.
type BetaTesterServiceClient interface {
	GetSettings(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error)
	UpdateSettings(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	GetRequestVersion(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*wrapperspb.StringValue, error)
	CheckDowngrade(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error)
}

// betaTesterServiceClient invokes methods over a client connection.
type betaTesterServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewBetaTesterServiceClient wraps a connection.
func NewBetaTesterServiceClient(cc grpc.ClientConnInterface) BetaTesterServiceClient {
	return &betaTesterServiceClient{cc: cc}
}

// GetSettings calls BetaTesterService.GetSettings.
func (c *betaTesterServiceClient) GetSettings(
	ctx context.Context,
	in *emptypb.Empty,
	opts ...grpc.CallOption,
) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, GetSettingsMethod, in, out, opts...); err != nil {
		return nil, err
	}

	return out, nil
}

// UpdateSettings calls BetaTesterService.UpdateSettings.
func (c *betaTesterServiceClient) UpdateSettings(
	ctx context.Context,
	in *structpb.Struct,
	opts ...grpc.CallOption,
) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, UpdateSettingsMethod, in, out, opts...); err != nil {
		return nil, err
	}

	return out, nil
}

// GetRequestVersion calls BetaTesterService.GetRequestVersion.
func (c *betaTesterServiceClient) GetRequestVersion(
	ctx context.Context,
	in *emptypb.Empty,
	opts ...grpc.CallOption,
) (*wrapperspb.StringValue, error) {
	out := new(wrapperspb.StringValue)
	if err := c.cc.Invoke(ctx, GetRequestVersionMethod, in, out, opts...); err != nil {
		return nil, err
	}

	return out, nil
}

// CheckDowngrade calls BetaTesterService.CheckDowngrade.
func (c *betaTesterServiceClient) CheckDowngrade(
	ctx context.Context,
	in *emptypb.Empty,
	opts ...grpc.CallOption,
) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, CheckDowngradeMethod, in, out, opts...); err != nil {
		return nil, err
	}

	return out, nil
}
