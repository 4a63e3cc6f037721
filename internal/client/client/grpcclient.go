package client

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophchat/internal/client/models"
	"github.com/dmitrijs2005/gophchat/internal/common"
	"github.com/dmitrijs2005/gophchat/internal/logging"
	grpclog "github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/logging"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// Full method names of the backend services. Messages are google.protobuf.Struct.
const (
	AuthLoginMethod    = "/gophchat.v1.AuthService/Login"
	AuthPingMethod     = "/gophchat.v1.AuthService/Ping"
	ContactsListMethod = "/gophchat.v1.ContactService/List"
)

const defaultRequestTimeout = 12 * time.Second

type GRPCClient struct {
	endpointURL    string
	conn           *grpc.ClientConn
	logger         logging.Logger
	requestTimeout time.Duration
	dialOptions    []grpc.DialOption

	mu           sync.RWMutex
	sessionToken string
}

// Option customizes a GRPCClient.
type Option func(*GRPCClient)

// WithDialOptions appends extra dial options (custom dialers, TLS).
func WithDialOptions(opts ...grpc.DialOption) Option {
	return func(c *GRPCClient) { c.dialOptions = append(c.dialOptions, opts...) }
}

// WithRequestTimeout bounds every unary call. Zero disables the bound.
func WithRequestTimeout(d time.Duration) Option {
	return func(c *GRPCClient) { c.requestTimeout = d }
}

func NewGRPCClient(endpointURL string, logger logging.Logger, opts ...Option) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL, logger: logger, requestTimeout: defaultRequestTimeout}
	for _, o := range opts {
		o(c)
	}
	if err := c.initConn(); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) initConn() error {
	gl := logging.GRPCLogger(s.logger)
	logOpts := []grpclog.Option{grpclog.WithLogOnEvents(grpclog.FinishCall)}

	opts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithChainUnaryInterceptor(
			s.sessionTokenInterceptor,
			grpclog.UnaryClientInterceptor(gl, logOpts...),
		),
	}, s.dialOptions...)

	conn, err := grpc.NewClient(s.endpointURL, opts...)
	if err != nil {
		return fmt.Errorf("grpc client for %s: %w", s.endpointURL, err)
	}
	s.conn = conn
	return nil
}

func withSessionToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(common.SessionTokenHeaderName, token)
	return metadata.NewOutgoingContext(ctx, md)
}

// sessionTokenInterceptor attaches the last known session token to every
// call except Login itself.
func (s *GRPCClient) sessionTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if token := s.SessionToken(); token != "" && method != AuthLoginMethod {
		ctx = withSessionToken(ctx, token)
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}

// SessionToken returns the token from the last successful Login.
func (s *GRPCClient) SessionToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sessionToken
}

func (s *GRPCClient) setSessionToken(token string) {
	s.mu.Lock()
	s.sessionToken = token
	s.mu.Unlock()
}

func (s *GRPCClient) invoke(ctx context.Context, method string, req, resp *structpb.Struct) error {
	if s.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.requestTimeout)
		defer cancel()
	}
	return s.conn.Invoke(ctx, method, req, resp)
}

func (s *GRPCClient) Login(ctx context.Context, request map[string]string) (*models.AuthResult, error) {
	fields := make(map[string]any, len(request))
	for k, v := range request {
		fields[k] = v
	}
	req, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, fmt.Errorf("encode login request: %w", err)
	}

	resp := &structpb.Struct{}
	if err := s.invoke(ctx, AuthLoginMethod, req, resp); err != nil {
		return nil, s.mapError(err)
	}

	user, err := decodeUser(resp)
	if err != nil {
		return nil, err
	}

	s.setSessionToken(user.SessionToken)
	return models.NewAuthResult(*user), nil
}

func (s *GRPCClient) Ping(ctx context.Context) error {
	resp := &structpb.Struct{}
	if err := s.invoke(ctx, AuthPingMethod, &structpb.Struct{}, resp); err != nil {
		return s.mapError(err)
	}

	if resp.GetFields()["status"].GetStringValue() != "OK" {
		return ErrUnavailable
	}
	return nil
}

// ListContacts fetches the roster of the logged-in user.
func (s *GRPCClient) ListContacts(ctx context.Context) ([]models.Contact, error) {
	resp := &structpb.Struct{}
	if err := s.invoke(ctx, ContactsListMethod, &structpb.Struct{}, resp); err != nil {
		return nil, s.mapError(err)
	}

	var body struct {
		Contacts []models.Contact `json:"contacts"`
	}
	if err := decodeStruct(resp, &body); err != nil {
		return nil, err
	}
	return body.Contacts, nil
}

func (s *GRPCClient) Close() error {
	return s.conn.Close()
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return &ResponseError{Code: int(st.Code()), Msg: st.Message(), kind: ErrUnauthorized}
	case codes.Unavailable, codes.DeadlineExceeded:
		return fmt.Errorf("%w: %s", ErrUnavailable, st.Message())
	case codes.Canceled:
		return context.Canceled
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}

func decodeStruct(s *structpb.Struct, v any) error {
	raw, err := protojson.Marshal(s)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: %v", ErrBadResponse, err)
	}
	return nil
}

// decodeUser decodes a user record and checks that both tokens are present.
func decodeUser(s *structpb.Struct) (*models.User, error) {
	var u models.User
	if err := decodeStruct(s, &u); err != nil {
		return nil, err
	}
	if u.ID == "" || u.MessagingToken == "" || u.SessionToken == "" {
		return nil, fmt.Errorf("%w: user record is missing id or tokens", ErrBadResponse)
	}
	return &u, nil
}
