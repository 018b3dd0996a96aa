package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
)

// HealthInput is the input for the health check.
type HealthInput struct{}

// ComponentHealth reports the state of one dependency.
type ComponentHealth struct {
	Status  string `json:"status" doc:"healthy or unhealthy"`
	Latency string `json:"latency,omitempty" doc:"Check latency"`
	Message string `json:"message,omitempty" doc:"Failure detail"`
}

// HealthResponse is the health check response body.
type HealthResponse struct {
	Status     string                     `json:"status" doc:"Overall status"`
	Components map[string]ComponentHealth `json:"components" doc:"Per-component health"`
}

// HealthOutput is the output for the health check.
type HealthOutput struct {
	Body HealthResponse
}

func (s *Server) registerHealthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "healthCheck",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Description: "Returns server health status including storage connectivity",
		Tags:        []string{"Health"},
	}, withErrors(s.handleHealth))
}

func (s *Server) handleHealth(ctx context.Context, _ *HealthInput) (*HealthOutput, error) {
	components := map[string]ComponentHealth{
		"database": s.checkDatabase(ctx),
	}

	status := "healthy"
	for _, c := range components {
		if c.Status != "healthy" {
			status = "degraded"
		}
	}

	return &HealthOutput{Body: HealthResponse{Status: status, Components: components}}, nil
}

func (s *Server) checkDatabase(ctx context.Context) ComponentHealth {
	if s.db == nil {
		return ComponentHealth{Status: "unhealthy", Message: "no store configured"}
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	start := time.Now()
	if err := s.db.Ping(ctx); err != nil {
		return ComponentHealth{Status: "unhealthy", Latency: time.Since(start).String(), Message: err.Error()}
	}
	return ComponentHealth{Status: "healthy", Latency: time.Since(start).String()}
}
