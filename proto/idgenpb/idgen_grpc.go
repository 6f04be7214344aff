// Package idgenpb holds the gRPC bindings for idgen.proto. Both messages are
// protobuf well-known types, so only the service descriptor lives here.
package idgenpb

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const _ = grpc.SupportPackageIsVersion9

const (
	ServiceName                = "idgen.IdGen"
	IdGen_GetNextId_FullMethod = "/idgen.IdGen/GetNextId"
)

// IdResponse carries the formatted id in Value. On the wire it matches a
// message with `string id = 1`; only the field name differs.
type IdResponse = wrapperspb.StringValue

type IdGenClient interface {
	GetNextId(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*IdResponse, error)
}

type idGenClient struct {
	cc grpc.ClientConnInterface
}

func NewIdGenClient(cc grpc.ClientConnInterface) IdGenClient {
	return &idGenClient{cc}
}

func (c *idGenClient) GetNextId(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*IdResponse, error) {
	cOpts := append([]grpc.CallOption{grpc.StaticMethod()}, opts...)
	out := new(IdResponse)
	if err := c.cc.Invoke(ctx, IdGen_GetNextId_FullMethod, in, out, cOpts...); err != nil {
		return nil, err
	}
	return out, nil
}

// IdGenServer must embed UnimplementedIdGenServer.
type IdGenServer interface {
	GetNextId(context.Context, *emptypb.Empty) (*IdResponse, error)
	mustEmbedUnimplementedIdGenServer()
}

type UnimplementedIdGenServer struct{}

func (UnimplementedIdGenServer) GetNextId(context.Context, *emptypb.Empty) (*IdResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetNextId not implemented")
}
func (UnimplementedIdGenServer) mustEmbedUnimplementedIdGenServer() {}

func RegisterIdGenServer(s grpc.ServiceRegistrar, srv IdGenServer) {
	s.RegisterService(&IdGen_ServiceDesc, srv)
}

func _IdGen_GetNextId_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(IdGenServer).GetNextId(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: IdGen_GetNextId_FullMethod,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(IdGenServer).GetNextId(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

var IdGen_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*IdGenServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetNextId",
			Handler:    _IdGen_GetNextId_Handler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "idgen.proto",
}
