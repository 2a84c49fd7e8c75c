package grpc

import (
	"context"
	"sync"
	"testing"

	"github.com/dmitrijs2005/authkeeper/internal/common"
	"github.com/dmitrijs2005/authkeeper/internal/logging"
	"github.com/dmitrijs2005/authkeeper/internal/server/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

const protectedMethod = "/authkeeper.Vault/Get"

type fakeAuthorizer struct {
	mu      sync.Mutex
	results map[string]auth.ValidationResult
	seen    []string
}

func (f *fakeAuthorizer) Authorize(raw string) auth.ValidationResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seen = append(f.seen, raw)
	if r, ok := f.results[raw]; ok {
		return r
	}
	return auth.ValidationResult{State: auth.StateInvalid}
}

type fakeObserver struct {
	mu     sync.Mutex
	states []auth.TokenState
}

func (f *fakeObserver) ObserveTokenValidation(s auth.TokenState) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.states = append(f.states, s)
}

func (f *fakeObserver) snapshot() []auth.TokenState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]auth.TokenState(nil), f.states...)
}

func newTestServer() (*GRPCServer, *fakeAuthorizer, *fakeObserver) {
	a := &fakeAuthorizer{results: map[string]auth.ValidationResult{
		"good":    {State: auth.StateValid, Subject: "bob"},
		"expired": {State: auth.StateExpired, Subject: "bob"},
	}}
	o := &fakeObserver{}
	return NewGRPCServer("127.0.0.1:0", logging.Nop{}, a, o), a, o
}

func withAuth(value string) context.Context {
	md := metadata.New(map[string]string{common.AuthorizationHeaderName: value})
	return metadata.NewIncomingContext(context.Background(), md)
}

func TestInterceptor_PublicMethodSkipsAuth(t *testing.T) {
	s, a, o := newTestServer()

	info := &grpc.UnaryServerInfo{FullMethod: healthpb.Health_Check_FullMethodName}
	called := false
	h := func(ctx context.Context, req any) (any, error) {
		called = true
		return "ok", nil
	}

	resp, err := s.accessTokenInterceptor(context.Background(), nil, info, h)
	require.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, "ok", resp)
	assert.Empty(t, a.seen)
	assert.Empty(t, o.states)
}

func TestInterceptor_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		ctx     context.Context
		message string
		state   []auth.TokenState
	}{
		{"no metadata", context.Background(), "missing token", nil},
		{"wrong scheme", withAuth("Basic abc"), "missing token", nil},
		{"empty bearer", withAuth("Bearer "), "missing token", nil},
		{"invalid", withAuth("Bearer junk"), "invalid token", []auth.TokenState{auth.StateInvalid}},
		{"expired", withAuth("Bearer expired"), "token expired", []auth.TokenState{auth.StateExpired}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _, o := newTestServer()
			info := &grpc.UnaryServerInfo{FullMethod: protectedMethod}
			h := func(ctx context.Context, req any) (any, error) {
				t.Fatal("handler must not run")
				return nil, nil
			}

			_, err := s.accessTokenInterceptor(tt.ctx, nil, info, h)
			require.Error(t, err)
			assert.Equal(t, codes.Unauthenticated, status.Code(err))
			assert.Equal(t, tt.message, status.Convert(err).Message())
			assert.Equal(t, tt.state, o.states)
		})
	}
}

func TestInterceptor_ValidTokenSetsSubject(t *testing.T) {
	s, a, o := newTestServer()

	info := &grpc.UnaryServerInfo{FullMethod: protectedMethod}
	var got string
	h := func(ctx context.Context, req any) (any, error) {
		got, _ = SubjectFromContext(ctx)
		return "ok", nil
	}

	resp, err := s.accessTokenInterceptor(withAuth("Bearer good"), nil, info, h)
	require.NoError(t, err)
	assert.Equal(t, "ok", resp)
	assert.Equal(t, "bob", got)
	assert.Equal(t, []string{"good"}, a.seen)
	assert.Equal(t, []auth.TokenState{auth.StateValid}, o.states)
}

type fakeStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (f *fakeStream) Context() context.Context { return f.ctx }

func TestStreamInterceptor(t *testing.T) {
	s, _, _ := newTestServer()
	info := &grpc.StreamServerInfo{FullMethod: healthpb.Health_Watch_FullMethodName}

	err := s.accessTokenStreamInterceptor(nil, &fakeStream{ctx: context.Background()}, info,
		func(any, grpc.ServerStream) error {
			t.Fatal("handler must not run")
			return nil
		})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	var got string
	err = s.accessTokenStreamInterceptor(nil, &fakeStream{ctx: withAuth("Bearer good")}, info,
		func(_ any, ss grpc.ServerStream) error {
			got, _ = SubjectFromContext(ss.Context())
			return nil
		})
	require.NoError(t, err)
	assert.Equal(t, "bob", got)
}

func TestSubjectFromContext_Empty(t *testing.T) {
	_, ok := SubjectFromContext(context.Background())
	assert.False(t, ok)
}

func TestNilObserverIsAllowed(t *testing.T) {
	s := NewGRPCServer("127.0.0.1:0", logging.Nop{}, &fakeAuthorizer{}, nil)
	_, err := s.authenticate(withAuth("Bearer junk"), protectedMethod)
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}
