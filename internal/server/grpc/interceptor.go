package grpc

import (
	"context"
	"errors"

	"github.com/carTloyal123/shoppi/internal/common"
	"github.com/carTloyal123/shoppi/internal/rpc"
	"github.com/carTloyal123/shoppi/internal/server/models"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type ctxKey string

const sessionKey ctxKey = "session"

// publicMethods need no access token.
var publicMethods = map[string]bool{
	rpc.FullMethod(rpc.MethodSignUp): true,
	rpc.FullMethod(rpc.MethodSignIn): true,
	rpc.FullMethod(rpc.MethodPing):   true,
}

func sessionFromContext(ctx context.Context) (*models.Session, bool) {
	s, ok := ctx.Value(sessionKey).(*models.Session)
	return s, ok
}

func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {

	if publicMethods[info.FullMethod] {
		return handler(ctx, req)
	}

	var accessToken string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		values := md.Get(common.AccessTokenHeaderName)
		if len(values) > 0 {
			accessToken = values[0]
		}
	}
	if len(accessToken) == 0 {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}

	sess, err := s.auth.Authenticate(ctx, accessToken)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			s.logger.Debug(ctx, "token rejected", "method", info.FullMethod, "error", err)
			return nil, status.Error(codes.Unauthenticated, "invalid or expired session")
		}
		s.logger.Error(ctx, "session lookup failed", "error", err)
		return nil, status.Error(codes.Unavailable, "session store unavailable")
	}

	ctx = context.WithValue(ctx, sessionKey, sess)
	return handler(ctx, req)
}
