package grpc

import (
	"context"
	"errors"
	"time"

	"github.com/carTloyal123/shoppi/internal/common"
	"github.com/carTloyal123/shoppi/internal/rpc"
	"github.com/carTloyal123/shoppi/internal/server/models"
	"github.com/carTloyal123/shoppi/internal/server/repositories/rows"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func toAuthSession(is *models.IssuedSession) *rpc.AuthSession {
	return &rpc.AuthSession{
		AccessToken: is.AccessToken,
		ExpiresAt:   is.Session.ExpiresAt,
		Identity:    rpc.Identity{ID: is.Session.IdentityID, Email: is.Session.Email},
	}
}

func (s *GRPCServer) SignUp(ctx context.Context, req *rpc.Credentials) (*rpc.AuthSession, error) {

	s.logger.Info(ctx, "Registration request")

	result, err := s.auth.SignUp(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, status.Error(codes.AlreadyExists, "user already registered")
		}
		return nil, s.toStatus(ctx, err)
	}

	s.logger.Info(ctx, "Registered", "identity_id", result.Session.IdentityID)
	return toAuthSession(result), nil
}

func (s *GRPCServer) SignIn(ctx context.Context, req *rpc.Credentials) (*rpc.AuthSession, error) {

	result, err := s.auth.SignIn(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			return nil, status.Error(codes.Unauthenticated, "invalid login credentials")
		}
		return nil, s.toStatus(ctx, err)
	}

	return toAuthSession(result), nil
}

func (s *GRPCServer) SignOut(ctx context.Context, _ *rpc.Empty) (*rpc.Empty, error) {
	sess, ok := sessionFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "missing session")
	}
	if err := s.auth.SignOut(ctx, sess.ID); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &rpc.Empty{}, nil
}

func (s *GRPCServer) CurrentIdentity(ctx context.Context, _ *rpc.Empty) (*rpc.Identity, error) {
	sess, ok := sessionFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "missing session")
	}
	return &rpc.Identity{ID: sess.IdentityID, Email: sess.Email}, nil
}

func (s *GRPCServer) Ping(ctx context.Context, _ *rpc.Empty) (*rpc.Pong, error) {

	return &rpc.Pong{Status: "OK", Time: time.Now().UTC()}, nil

}

// redact hides other users' private columns from the caller.
func redact(ctx context.Context, table string, rs []rows.Row) []rows.Row {
	var email string
	if sess, ok := sessionFromContext(ctx); ok {
		email = sess.Email
	}
	return rows.Redact(table, email, rs)
}

// scalars converts decoded JSON numbers in row to driver values.
func scalars(row rpc.Row) rows.Row {
	out := make(rows.Row, len(row))
	for k, v := range row {
		out[k] = rpc.Scalar(v)
	}
	return out
}

func (s *GRPCServer) Select(ctx context.Context, req *rpc.SelectRequest) (*rpc.Rows, error) {
	result, err := s.rows.Select(ctx, req.Table, req.Column, rpc.Scalar(req.Value))
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &rpc.Rows{Rows: redact(ctx, req.Table, result)}, nil
}

func (s *GRPCServer) Insert(ctx context.Context, req *rpc.InsertRequest) (*rpc.Rows, error) {
	row, err := s.rows.Insert(ctx, req.Table, scalars(req.Row))
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &rpc.Rows{Rows: redact(ctx, req.Table, []rows.Row{row})}, nil
}

func (s *GRPCServer) Update(ctx context.Context, req *rpc.UpdateRequest) (*rpc.Rows, error) {
	if req.Column == "" {
		return nil, status.Error(codes.InvalidArgument, "update needs a filter column")
	}
	result, err := s.rows.Update(ctx, req.Table, req.Column, rpc.Scalar(req.Value), scalars(req.Changes))
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &rpc.Rows{Rows: redact(ctx, req.Table, result)}, nil
}

func (s *GRPCServer) Delete(ctx context.Context, req *rpc.DeleteRequest) (*rpc.Empty, error) {
	if req.Column == "" {
		return nil, status.Error(codes.InvalidArgument, "delete needs a filter column")
	}
	if err := s.rows.Delete(ctx, req.Table, req.Column, rpc.Scalar(req.Value)); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &rpc.Empty{}, nil
}
