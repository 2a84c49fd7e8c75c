package grpc

import (
	"context"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/dmitrijs2005/authkeeper/internal/server/auth"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type ctxKey string

const subjectKey ctxKey = "subject"

// SubjectFromContext returns the token subject stored by the interceptors.
func SubjectFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(subjectKey).(string)
	return v, ok && v != ""
}

// authenticate validates the bearer token of a non-public method and returns
// a context carrying its subject.
func (s *GRPCServer) authenticate(ctx context.Context, method string) (context.Context, error) {
	if _, ok := s.public[method]; ok {
		return ctx, nil
	}

	var header string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(common.AuthorizationHeaderName); len(values) > 0 {
			header = values[0]
		}
	}

	raw, ok := auth.ParseBearer(header)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}

	result := s.authorizer.Authorize(raw)
	if s.observer != nil {
		s.observer.ObserveTokenValidation(result.State)
	}

	switch result.State {
	case auth.StateValid:
		return context.WithValue(ctx, subjectKey, result.Subject), nil
	case auth.StateExpired:
		s.logger.Debug(ctx, "expired token", "method", method, "subject", result.Subject)
		return nil, status.Error(codes.Unauthenticated, "token expired")
	default:
		s.logger.Debug(ctx, "invalid token", "method", method)
		return nil, status.Error(codes.Unauthenticated, "invalid token")
	}
}

func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	ctx, err := s.authenticate(ctx, info.FullMethod)
	if err != nil {
		return nil, err
	}
	return handler(ctx, req)
}

// wrappedStream overrides the context of a server stream.
type wrappedStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (w *wrappedStream) Context() context.Context { return w.ctx }

func (s *GRPCServer) accessTokenStreamInterceptor(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
	ctx, err := s.authenticate(ss.Context(), info.FullMethod)
	if err != nil {
		return err
	}
	return handler(srv, &wrappedStream{ServerStream: ss, ctx: ctx})
}
