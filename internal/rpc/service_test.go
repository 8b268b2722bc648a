package rpc

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

type stubServer struct {
	lastSelect *SelectRequest
}

func (s *stubServer) SignUp(ctx context.Context, c *Credentials) (*AuthSession, error) {
	return nil, status.Error(codes.AlreadyExists, "User already registered")
}
func (s *stubServer) SignIn(ctx context.Context, c *Credentials) (*AuthSession, error) {
	return &AuthSession{AccessToken: "tok-" + c.Email, Identity: Identity{ID: "1", Email: c.Email}}, nil
}
func (s *stubServer) SignOut(ctx context.Context, _ *Empty) (*Empty, error) { return &Empty{}, nil }
func (s *stubServer) CurrentIdentity(ctx context.Context, _ *Empty) (*Identity, error) {
	return nil, errors.New("boom")
}
func (s *stubServer) Select(ctx context.Context, r *SelectRequest) (*Rows, error) {
	s.lastSelect = r
	return &Rows{Rows: []Row{{"email": r.Value}}}, nil
}
func (s *stubServer) Insert(ctx context.Context, r *InsertRequest) (*Rows, error) {
	return &Rows{Rows: []Row{r.Row}}, nil
}
func (s *stubServer) Update(ctx context.Context, r *UpdateRequest) (*Rows, error) {
	return &Rows{}, nil
}
func (s *stubServer) Delete(ctx context.Context, r *DeleteRequest) (*Empty, error) {
	return &Empty{}, nil
}
func (s *stubServer) Ping(ctx context.Context, _ *Empty) (*Pong, error) {
	return &Pong{Status: "OK"}, nil
}

func startStub(t *testing.T, srv BackendServer, opts ...grpc.ServerOption) grpc.ClientConnInterface {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	gs := grpc.NewServer(opts...)
	RegisterBackendServer(gs, srv)
	go func() { _ = gs.Serve(lis) }()
	t.Cleanup(gs.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestInvoke_RoundTrip(t *testing.T) {
	srv := &stubServer{}
	conn := startStub(t, srv)
	ctx := context.Background()

	sess, err := Invoke[Credentials, AuthSession](ctx, conn, MethodSignIn, &Credentials{Email: "a@x.com", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "tok-a@x.com", sess.AccessToken)
	assert.Equal(t, "a@x.com", sess.Identity.Email)

	rows, err := Invoke[SelectRequest, Rows](ctx, conn, MethodSelect, &SelectRequest{Table: "users", Column: "email", Value: "a@x.com"})
	require.NoError(t, err)
	require.Len(t, rows.Rows, 1)
	assert.Equal(t, "a@x.com", rows.Rows[0]["email"])
	assert.Equal(t, "users", srv.lastSelect.Table)
}

func TestInvoke_StatusPassesThrough(t *testing.T) {
	conn := startStub(t, &stubServer{})

	_, err := Invoke[Credentials, AuthSession](context.Background(), conn, MethodSignUp, &Credentials{Email: "a@x.com"})
	st, ok := status.FromError(err)
	require.True(t, ok)
	assert.Equal(t, codes.AlreadyExists, st.Code())
	assert.Equal(t, "User already registered", st.Message())

	_, err = Invoke[Empty, Identity](context.Background(), conn, MethodCurrentIdentity, &Empty{})
	assert.Equal(t, codes.Unknown, status.Code(err))
}

func TestServiceDesc_InterceptorSeesFullMethod(t *testing.T) {
	var seen []string
	icpt := func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		seen = append(seen, info.FullMethod)
		return handler(ctx, req)
	}
	conn := startStub(t, &stubServer{}, grpc.UnaryInterceptor(icpt))

	_, err := Invoke[Empty, Pong](context.Background(), conn, MethodPing, &Empty{})
	require.NoError(t, err)
	assert.Equal(t, []string{"/shoppi.v1.Backend/Ping"}, seen)
}
