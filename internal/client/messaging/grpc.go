package messaging

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/gophchat/internal/logging"
	grpclog "github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/logging"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// ConnectMethod is the server-streaming handshake. The client sends
// {"token"}; the first frame back is one of
//
//	{"status":"connected","userId":"..."}
//	{"status":"token_incorrect"}
//	{"status":"error","code":31003}
//
// After "connected" the stream stays open for the messaging session.
const ConnectMethod = "/gophchat.v1.MessagingService/Connect"

const (
	statusConnected      = "connected"
	statusTokenIncorrect = "token_incorrect"
)

var connectStreamDesc = grpc.StreamDesc{StreamName: "Connect", ServerStreams: true}

// GRPCConnector is a Connector over a gRPC server stream.
type GRPCConnector struct {
	conn   *grpc.ClientConn
	logger logging.Logger

	mu     sync.Mutex
	active *activeSession
}

type activeSession struct {
	cb     Callback
	cancel context.CancelFunc
}

func NewGRPCConnector(endpointURL string, logger logging.Logger, opts ...grpc.DialOption) (*GRPCConnector, error) {
	gl := logging.GRPCLogger(logger)

	dialOpts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithChainStreamInterceptor(grpclog.StreamClientInterceptor(gl, grpclog.WithLogOnEvents(grpclog.StartCall))),
	}, opts...)

	conn, err := grpc.NewClient(endpointURL, dialOpts...)
	if err != nil {
		return nil, fmt.Errorf("grpc connector for %s: %w", endpointURL, err)
	}
	return &GRPCConnector{conn: conn, logger: logger}, nil
}

// Connect starts the handshake on its own goroutine. Cancelling ctx before
// the handshake completes aborts it; an established session outlives ctx
// and is ended by Disconnect.
func (c *GRPCConnector) Connect(ctx context.Context, token string, cb Callback) {
	go c.connect(ctx, token, cb)
}

func (c *GRPCConnector) connect(ctx context.Context, token string, cb Callback) {
	streamCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	stop := context.AfterFunc(ctx, cancel)

	resp, err := c.handshake(streamCtx, token)
	if !stop() && err == nil {
		// ctx ended while the first frame was in flight
		err = status.FromContextError(context.Cause(ctx)).Err()
	}
	if err != nil {
		cancel()
		if status.Code(err) == codes.Unauthenticated {
			cb.OnTokenIncorrect()
			return
		}
		cb.OnError(codeFromStatus(err))
		return
	}

	fields := resp.GetFields()
	switch fields["status"].GetStringValue() {
	case statusConnected:
		c.setActive(&activeSession{cb: cb, cancel: cancel})
		cb.OnSuccess(fields["userId"].GetStringValue())
	case statusTokenIncorrect:
		cancel()
		cb.OnTokenIncorrect()
	default:
		cancel()
		code := CodeUnknown
		if v, ok := fields["code"]; ok {
			code = ErrorCode(int(v.GetNumberValue()))
		}
		cb.OnError(code)
	}
}

func (c *GRPCConnector) handshake(ctx context.Context, token string) (*structpb.Struct, error) {
	stream, err := c.conn.NewStream(ctx, &connectStreamDesc, ConnectMethod)
	if err != nil {
		return nil, err
	}

	req, err := structpb.NewStruct(map[string]any{"token": token})
	if err != nil {
		return nil, err
	}
	if err := stream.SendMsg(req); err != nil {
		return nil, err
	}
	if err := stream.CloseSend(); err != nil {
		return nil, err
	}

	resp := &structpb.Struct{}
	if err := stream.RecvMsg(resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *GRPCConnector) setActive(next *activeSession) {
	c.mu.Lock()
	prev := c.active
	c.active = next
	c.mu.Unlock()

	if prev != nil {
		prev.cancel()
	}
}

// Disconnect ends the current messaging session, if any.
func (c *GRPCConnector) Disconnect() {
	c.setActive(nil)
}

// Release ends the session established through cb if it is still the
// current one.
func (c *GRPCConnector) Release(cb Callback) {
	c.mu.Lock()
	s := c.active
	if s == nil || s.cb != cb {
		c.mu.Unlock()
		return
	}
	c.active = nil
	c.mu.Unlock()

	s.cancel()
}

// Close ends the session and releases the connection.
func (c *GRPCConnector) Close() error {
	c.Disconnect()
	return c.conn.Close()
}

func codeFromStatus(err error) ErrorCode {
	switch status.Code(err) {
	case codes.Unavailable:
		return CodeNetUnavailable
	case codes.DeadlineExceeded:
		return CodeConnAckTimeout
	case codes.Canceled:
		return CodeNetChannelInvalid
	case codes.Unimplemented:
		return CodeConnProtoVersionError
	case codes.PermissionDenied:
		return CodeConnUserBlocked
	default:
		return CodeUnknown
	}
}
