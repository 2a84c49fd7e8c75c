// Package grpc serves the gRPC endpoint of the server: the standard health
// service guarded by bearer-token interceptors.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/authkeeper/internal/logging"
	"github.com/dmitrijs2005/authkeeper/internal/server/auth"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Authorizer validates raw bearer tokens.
type Authorizer interface {
	Authorize(raw string) auth.ValidationResult
}

// TokenObserver is notified of every validation outcome.
type TokenObserver interface {
	ObserveTokenValidation(auth.TokenState)
}

type GRPCServer struct {
	address    string
	authorizer Authorizer
	observer   TokenObserver
	health     *health.Server
	logger     logging.Logger
	public     map[string]struct{}
}

// NewGRPCServer returns a server listening on address. observer may be nil.
func NewGRPCServer(address string, l logging.Logger, a Authorizer, observer TokenObserver) *GRPCServer {
	return &GRPCServer{
		address:    address,
		authorizer: a,
		observer:   observer,
		health:     health.NewServer(),
		logger:     l.With("module", "grpc_server"),
		public: map[string]struct{}{
			healthpb.Health_Check_FullMethodName: {},
		},
	}
}

func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(
		grpc.ChainUnaryInterceptor(s.accessTokenInterceptor),
		grpc.ChainStreamInterceptor(s.accessTokenStreamInterceptor),
	)
	healthpb.RegisterHealthServer(srv, s.health)
	s.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	return srv
}

// Run serves until ctx is cancelled, then stops gracefully.
func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.serve(ctx, listen)
}

func (s *GRPCServer) serve(ctx context.Context, listen net.Listener) error {
	srv := s.newServer()

	s.logger.Info(ctx, "Starting gRPC server", "address", listen.Addr().String())

	// starts accepting incoming connections
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(listen)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info(ctx, "Stopping gRPC server...")
	s.health.Shutdown()
	srv.GracefulStop()

	return <-errCh
}
