package client

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
)

// GRPCHealthClient pings the server through grpc.health.v1.Health/Check.
type GRPCHealthClient struct {
	conn   *grpc.ClientConn
	health healthpb.HealthClient
}

// NewGRPCHealthClient creates a lazy connection; no dialing happens until
// the first Ping.
func NewGRPCHealthClient(address string) (*GRPCHealthClient, error) {
	conn, err := grpc.NewClient(address, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, err
	}
	return &GRPCHealthClient{conn: conn, health: healthpb.NewHealthClient(conn)}, nil
}

func (c *GRPCHealthClient) Ping(ctx context.Context) error {
	resp, err := c.health.Check(ctx, &healthpb.HealthCheckRequest{})
	if err != nil {
		return fmt.Errorf("%w: %s", ErrUnavailable, status.Convert(err).Message())
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		return fmt.Errorf("%w: %s", ErrUnavailable, resp.GetStatus())
	}
	return nil
}

func (c *GRPCHealthClient) Close() error {
	return c.conn.Close()
}
