package grpcserver

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// The messages are protobuf well-known types, so the service needs no
// generated code of its own; this file plays the role of multiset_grpc.pb.go.

const ServiceName = "rankd.v1.Multiset"

// MultisetServer is the server API for the rankd.v1.Multiset service.
type MultisetServer interface {
	Insert(context.Context, *wrapperspb.Int64Value) (*wrapperspb.UInt64Value, error)
	Delete(context.Context, *wrapperspb.Int64Value) (*wrapperspb.BoolValue, error)
	Contains(context.Context, *wrapperspb.Int64Value) (*wrapperspb.BoolValue, error)
	Count(context.Context, *emptypb.Empty) (*wrapperspb.UInt64Value, error)
	CountOf(context.Context, *wrapperspb.Int64Value) (*wrapperspb.UInt64Value, error)
	Select(context.Context, *wrapperspb.UInt64Value) (*wrapperspb.Int64Value, error)
	Rank(context.Context, *wrapperspb.Int64Value) (*wrapperspb.UInt64Value, error)
}

func RegisterMultisetServer(s grpc.ServiceRegistrar, srv MultisetServer) {
	s.RegisterService(&MultisetServiceDesc, srv)
}

var MultisetServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*MultisetServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Insert", Handler: unary("Insert", MultisetServer.Insert)},
		{MethodName: "Delete", Handler: unary("Delete", MultisetServer.Delete)},
		{MethodName: "Contains", Handler: unary("Contains", MultisetServer.Contains)},
		{MethodName: "Count", Handler: unary("Count", MultisetServer.Count)},
		{MethodName: "CountOf", Handler: unary("CountOf", MultisetServer.CountOf)},
		{MethodName: "Select", Handler: unary("Select", MultisetServer.Select)},
		{MethodName: "Rank", Handler: unary("Rank", MultisetServer.Rank)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "rankd/v1/multiset.proto",
}

func fullMethod(name string) string {
	return "/" + ServiceName + "/" + name
}

// unary builds the decode-then-intercept handler that protoc-gen-go-grpc
// would emit for one method.
func unary[Req, Resp any](name string, call func(MultisetServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(MultisetServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod(name),
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(MultisetServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}
