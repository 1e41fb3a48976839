package health

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

func TestServer_Status(t *testing.T) {
	srv := NewServer()
	req := &healthpb.HealthCheckRequest{Service: "analyzer"}

	srv.SetNotServing("analyzer")
	resp, err := srv.Check().Check(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, resp.GetStatus())

	srv.SetServing("analyzer")
	resp, err = srv.Check().Check(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())

	srv.Shutdown()
	resp, err = srv.Check().Check(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, resp.GetStatus())
}
