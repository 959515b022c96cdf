package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "goalnudge.v1.GoalService"

// GoalServiceServer is the server API for the goal service.
// Requests and responses use the protobuf well-known Struct type.
type GoalServiceServer interface {
	ListClients(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	GetClientGoals(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RecordProgress(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// RegisterGoalServiceServer registers srv with the gRPC server
func RegisterGoalServiceServer(s grpc.ServiceRegistrar, srv GoalServiceServer) {
	s.RegisterService(&GoalServiceDesc, srv)
}

// GoalServiceDesc describes the goal service for grpc.Server
var GoalServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*GoalServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ListClients", Handler: listClientsHandler},
		{MethodName: "GetClientGoals", Handler: getClientGoalsHandler},
		{MethodName: "RecordProgress", Handler: recordProgressHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "goalnudge/v1/goalnudge.proto",
}

func listClientsHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(GoalServiceServer).ListClients(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/ListClients"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(GoalServiceServer).ListClients(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func getClientGoalsHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(GoalServiceServer).GetClientGoals(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/GetClientGoals"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(GoalServiceServer).GetClientGoals(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func recordProgressHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(GoalServiceServer).RecordProgress(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/RecordProgress"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(GoalServiceServer).RecordProgress(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}
