// Package testutil holds helpers shared by package tests: an in-process
// gRPC server on bufconn and structpb-based method builders.
package testutil

import (
	"context"
	"net"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"
)

// BufconnTarget is the dial target to use together with StartBufconn's
// dial option.
const BufconnTarget = "passthrough:///bufnet"

// UnaryFunc handles one unary call with structpb messages.
type UnaryFunc func(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)

// StreamFunc handles one server-streaming call with structpb messages.
type StreamFunc func(req *structpb.Struct, stream grpc.ServerStream) error

// Service builds a grpc.ServiceDesc out of plain functions so tests can
// stand up backends without generated stubs.
type Service struct {
	Name    string
	Unary   map[string]UnaryFunc
	Streams map[string]StreamFunc
}

func (s Service) desc() *grpc.ServiceDesc {
	sd := &grpc.ServiceDesc{ServiceName: s.Name, HandlerType: (*any)(nil)}

	for name, fn := range s.Unary {
		fn := fn
		sd.Methods = append(sd.Methods, grpc.MethodDesc{
			MethodName: name,
			Handler: func(_ any, ctx context.Context, dec func(any) error, _ grpc.UnaryServerInterceptor) (any, error) {
				req := &structpb.Struct{}
				if err := dec(req); err != nil {
					return nil, err
				}
				return fn(ctx, req)
			},
		})
	}

	for name, fn := range s.Streams {
		fn := fn
		sd.Streams = append(sd.Streams, grpc.StreamDesc{
			StreamName:    name,
			ServerStreams: true,
			Handler: func(_ any, stream grpc.ServerStream) error {
				req := &structpb.Struct{}
				if err := stream.RecvMsg(req); err != nil {
					return err
				}
				return fn(req, stream)
			},
		})
	}

	return sd
}

// StartBufconn serves the given services in-process and returns the dial
// option that connects to them. The server is stopped on test cleanup.
func StartBufconn(t testing.TB, services ...Service) grpc.DialOption {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()
	for _, s := range services {
		srv.RegisterService(s.desc(), struct{}{})
	}

	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(func() {
		srv.Stop()
		_ = lis.Close()
	})

	return grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
		return lis.DialContext(ctx)
	})
}

// MustStruct converts m to a structpb.Struct and fails the test on error.
func MustStruct(t testing.TB, m map[string]any) *structpb.Struct {
	t.Helper()
	s, err := structpb.NewStruct(m)
	if err != nil {
		t.Fatalf("structpb.NewStruct: %v", err)
	}
	return s
}
