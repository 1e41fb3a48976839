package health

import (
	"google.golang.org/grpc"

	healthgrpc "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Server wraps grpc health server
type Server struct {
	server *healthgrpc.Server
}

// NewServer creates health server using default grpc health server.
func NewServer() *Server {
	return &Server{
		server: healthgrpc.NewServer(),
	}
}

// SetServing marks serviceName as SERVING.
func (h *Server) SetServing(serviceName string) {
	h.server.SetServingStatus(serviceName, healthpb.HealthCheckResponse_SERVING)
}

// SetNotServing marks serviceName as NOT_SERVING, e.g. while the engine is
// still restoring histories or after a fatal consumer error.
func (h *Server) SetNotServing(serviceName string) {
	h.server.SetServingStatus(serviceName, healthpb.HealthCheckResponse_NOT_SERVING)
}

// Shutdown sets all serving status to NOT_SERVING.
func (h *Server) Shutdown() {
	h.server.Shutdown()
}

// Register registers health server.
func (h *Server) Register(grpc *grpc.Server) {
	healthpb.RegisterHealthServer(grpc, h.server)
}

// Check exposes the underlying health service, mainly for tests.
func (h *Server) Check() healthpb.HealthServer {
	return h.server
}
