package client

import (
	"context"
	"sync"
	"time"

	"github.com/carTloyal123/shoppi/internal/client/models"
	"github.com/carTloyal123/shoppi/internal/common"
	"github.com/carTloyal123/shoppi/internal/rpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
)

const DefaultRequestTimeout = 10 * time.Second

type GRPCClient struct {
	endpointURL string
	timeout     time.Duration
	conn        *grpc.ClientConn

	mu          sync.RWMutex
	accessToken string
}

var _ Client = (*GRPCClient)(nil)

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.AccessTokenHeaderName)
	md.Set(common.AccessTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if token := s.token(); token != "" {
		ctx = withAccessToken(ctx, token)
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}

// NewGRPCClient connects lazily to endpointURL. Every call is bounded by
// timeout; a non-positive value means DefaultRequestTimeout. Extra dial
// options are applied after the defaults.
func NewGRPCClient(endpointURL string, timeout time.Duration, opts ...grpc.DialOption) (*GRPCClient, error) {
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	c := &GRPCClient{endpointURL: endpointURL, timeout: timeout}

	dialOpts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(c.accessTokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(endpointURL, dialOpts...)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	return c, nil
}

func (s *GRPCClient) Close() error {
	return s.conn.Close()
}

func (s *GRPCClient) SetAccessToken(token string) {
	s.mu.Lock()
	s.accessToken = token
	s.mu.Unlock()
}

func (s *GRPCClient) token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

func (s *GRPCClient) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

func (s *GRPCClient) SignUp(ctx context.Context, email, password string) (*models.BackendSession, error) {
	return s.authenticate(ctx, "signup", rpc.MethodSignUp, email, password)
}

func (s *GRPCClient) SignIn(ctx context.Context, email, password string) (*models.BackendSession, error) {
	return s.authenticate(ctx, "signin", rpc.MethodSignIn, email, password)
}

func (s *GRPCClient) authenticate(ctx context.Context, op, method, email, password string) (*models.BackendSession, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	req := &rpc.Credentials{Email: email, Password: password}
	resp, err := rpc.Invoke[rpc.Credentials, rpc.AuthSession](ctx, s.conn, method, req)
	if err != nil {
		return nil, authError(op, err)
	}

	s.SetAccessToken(resp.AccessToken)

	return &models.BackendSession{
		AccessToken: resp.AccessToken,
		ExpiresAt:   resp.ExpiresAt,
		Identity:    models.Identity{ID: resp.Identity.ID, Email: resp.Identity.Email},
	}, nil
}

func (s *GRPCClient) SignOut(ctx context.Context) error {
	if s.token() == "" {
		return nil
	}
	defer s.SetAccessToken("")

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if _, err := rpc.Invoke[rpc.Empty, rpc.Empty](ctx, s.conn, rpc.MethodSignOut, &rpc.Empty{}); err != nil {
		return authError("signout", err)
	}
	return nil
}

func (s *GRPCClient) CurrentIdentity(ctx context.Context) (*models.Identity, error) {
	if s.token() == "" {
		return nil, ErrNoIdentity
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	resp, err := rpc.Invoke[rpc.Empty, rpc.Identity](ctx, s.conn, rpc.MethodCurrentIdentity, &rpc.Empty{})
	if err != nil {
		return nil, authError("identity", err)
	}
	return &models.Identity{ID: resp.ID, Email: resp.Email}, nil
}

func (s *GRPCClient) Ping(ctx context.Context) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	resp, err := rpc.Invoke[rpc.Empty, rpc.Pong](ctx, s.conn, rpc.MethodPing, &rpc.Empty{})
	if err != nil {
		kind, _ := classify(err)
		return kind
	}
	if resp.Status != "OK" {
		return ErrUnavailable
	}
	return nil
}

func (s *GRPCClient) SelectEq(ctx context.Context, table, column string, value any) ([]Row, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	req := &rpc.SelectRequest{Table: table, Column: column, Value: value}
	resp, err := rpc.Invoke[rpc.SelectRequest, rpc.Rows](ctx, s.conn, rpc.MethodSelect, req)
	if err != nil {
		return nil, rowError("select", table, err)
	}
	return resp.Rows, nil
}

func (s *GRPCClient) InsertReturning(ctx context.Context, table string, row Row) (Row, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	req := &rpc.InsertRequest{Table: table, Row: row}
	resp, err := rpc.Invoke[rpc.InsertRequest, rpc.Rows](ctx, s.conn, rpc.MethodInsert, req)
	if err != nil {
		return nil, rowError("insert", table, err)
	}
	if len(resp.Rows) == 0 {
		return nil, &RowError{Op: "insert", Table: table, Err: ErrBackend, Message: "no row returned"}
	}
	return resp.Rows[0], nil
}

func (s *GRPCClient) UpdateEq(ctx context.Context, table, column string, value any, changes Row) ([]Row, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	req := &rpc.UpdateRequest{Table: table, Column: column, Value: value, Changes: changes}
	resp, err := rpc.Invoke[rpc.UpdateRequest, rpc.Rows](ctx, s.conn, rpc.MethodUpdate, req)
	if err != nil {
		return nil, rowError("update", table, err)
	}
	return resp.Rows, nil
}

func (s *GRPCClient) DeleteEq(ctx context.Context, table, column string, value any) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	req := &rpc.DeleteRequest{Table: table, Column: column, Value: value}
	if _, err := rpc.Invoke[rpc.DeleteRequest, rpc.Empty](ctx, s.conn, rpc.MethodDelete, req); err != nil {
		return rowError("delete", table, err)
	}
	return nil
}
