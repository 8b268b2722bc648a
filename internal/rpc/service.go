package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// BackendServer is the server API for the shoppi backend service.
type BackendServer interface {
	SignUp(context.Context, *Credentials) (*AuthSession, error)
	SignIn(context.Context, *Credentials) (*AuthSession, error)
	SignOut(context.Context, *Empty) (*Empty, error)
	CurrentIdentity(context.Context, *Empty) (*Identity, error)
	Select(context.Context, *SelectRequest) (*Rows, error)
	Insert(context.Context, *InsertRequest) (*Rows, error)
	Update(context.Context, *UpdateRequest) (*Rows, error)
	Delete(context.Context, *DeleteRequest) (*Empty, error)
	Ping(context.Context, *Empty) (*Pong, error)
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*BackendServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(MethodSignUp, BackendServer.SignUp),
		unary(MethodSignIn, BackendServer.SignIn),
		unary(MethodSignOut, BackendServer.SignOut),
		unary(MethodCurrentIdentity, BackendServer.CurrentIdentity),
		unary(MethodSelect, BackendServer.Select),
		unary(MethodInsert, BackendServer.Insert),
		unary(MethodUpdate, BackendServer.Update),
		unary(MethodDelete, BackendServer.Delete),
		unary(MethodPing, BackendServer.Ping),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "shoppi/v1/backend",
}

func RegisterBackendServer(s grpc.ServiceRegistrar, srv BackendServer) {
	s.RegisterService(&ServiceDesc, srv)
}

func unary[Req, Resp any](name string, call func(BackendServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}

			handler := func(ctx context.Context, req any) (any, error) {
				var r Req
				if err := Decode(req.(*structpb.Struct), &r); err != nil {
					return nil, status.Error(codes.InvalidArgument, err.Error())
				}
				out, err := call(srv.(BackendServer), ctx, &r)
				if err != nil {
					return nil, err
				}
				s, err := Encode(out)
				if err != nil {
					return nil, status.Error(codes.Internal, err.Error())
				}
				return s, nil
			}

			if interceptor == nil {
				return handler(ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(name)}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// Invoke performs a unary call of method on cc, encoding req and decoding
// the reply into a fresh Resp.
func Invoke[Req, Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, req *Req, opts ...grpc.CallOption) (*Resp, error) {
	in, err := Encode(req)
	if err != nil {
		return nil, err
	}
	out := new(structpb.Struct)
	if err := cc.Invoke(ctx, FullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	resp := new(Resp)
	if err := Decode(out, resp); err != nil {
		return nil, err
	}
	return resp, nil
}
