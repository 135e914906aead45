package chainrpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Copyright © 2022 Matthew R Bonnette. Licensed under the Apache-2.0 license.

// ChainServer is the server API for the Chain service. Payloads ride in protobuf well-known
// wrapper types, so no protoc step is needed:
//
//	service Chain {
//	  // value: N records of seed(32) || uint64be(iterations); reply: N 32-byte results.
//	  rpc Iterate(google.protobuf.BytesValue) returns (google.protobuf.BytesValue);
//	}
type ChainServer interface {
	Iterate(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error)
}

// UnimplementedChainServer can be embedded to have forward compatible implementations.
type UnimplementedChainServer struct{}

func (UnimplementedChainServer) Iterate(context.Context, *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	return nil, status.Error(codes.Unimplemented, "method Iterate not implemented")
}

func RegisterChainServer(s grpc.ServiceRegistrar, srv ChainServer) {
	s.RegisterService(&Chain_ServiceDesc, srv)
}

// ChainClient is the client API for the Chain service.
type ChainClient interface {
	Iterate(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error)
}

type chainClient struct{ cc grpc.ClientConnInterface }

func NewChainClient(cc grpc.ClientConnInterface) ChainClient { return &chainClient{cc: cc} }

const iterateMethod = "/hashloop.chainrpc.v1.Chain/Iterate"

func (c *chainClient) Iterate(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error) {
	out := new(wrapperspb.BytesValue)
	if err := c.cc.Invoke(ctx, iterateMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func _Chain_Iterate_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.BytesValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ChainServer).Iterate(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: iterateMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ChainServer).Iterate(ctx, req.(*wrapperspb.BytesValue))
	}
	return interceptor(ctx, in, info, handler)
}

// Chain_ServiceDesc is the grpc.ServiceDesc for the Chain service.
var Chain_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "hashloop.chainrpc.v1.Chain",
	HandlerType: (*ChainServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Iterate", Handler: _Chain_Iterate_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "chain.proto",
}
