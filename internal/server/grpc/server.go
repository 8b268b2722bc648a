// Package grpc serves the shoppi backend contract over gRPC.
package grpc

import (
	"context"
	"net"

	"github.com/carTloyal123/shoppi/internal/logging"
	"github.com/carTloyal123/shoppi/internal/rpc"
	"github.com/carTloyal123/shoppi/internal/server/models"
	"github.com/carTloyal123/shoppi/internal/server/repositories/rows"
	"golang.org/x/time/rate"
	"google.golang.org/grpc"
)

type AuthService interface {
	SignUp(ctx context.Context, email, password string) (*models.IssuedSession, error)
	SignIn(ctx context.Context, email, password string) (*models.IssuedSession, error)
	SignOut(ctx context.Context, sessionID string) error
	Authenticate(ctx context.Context, token string) (*models.Session, error)
}

type RowService interface {
	Select(ctx context.Context, table, column string, value any) ([]rows.Row, error)
	Insert(ctx context.Context, table string, row rows.Row) (rows.Row, error)
	Update(ctx context.Context, table, column string, value any, changes rows.Row) ([]rows.Row, error)
	Delete(ctx context.Context, table, column string, value any) error
}

type GRPCServer struct {
	address string
	auth    AuthService
	rows    RowService
	logger  logging.Logger
	limiter *peerLimiter
}

var _ rpc.BackendServer = (*GRPCServer)(nil)

// NewGRPCServer builds a server for address. authRate and authBurst bound
// SignUp and SignIn per peer.
func NewGRPCServer(address string, l logging.Logger, as AuthService, rs RowService, authRate float64, authBurst int) *GRPCServer {
	return &GRPCServer{
		address: address,
		logger:  l.With("module", "grpc_server"),
		auth:    as,
		rows:    rs,
		limiter: newPeerLimiter(rate.Limit(authRate), authBurst),
	}
}

// NewServer creates the grpc.Server with interceptors and the service
// registered.
func (s *GRPCServer) NewServer(opts ...grpc.ServerOption) *grpc.Server {
	opts = append([]grpc.ServerOption{
		grpc.ChainUnaryInterceptor(s.rateLimitInterceptor, s.accessTokenInterceptor),
	}, opts...)
	srv := grpc.NewServer(opts...)
	rpc.RegisterBackendServer(srv, s)
	return srv
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := s.NewServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", s.address)

	// starts accepting incoming connections
	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}
