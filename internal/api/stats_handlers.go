package api

import (
	"context"
	"net/http"

	"github.com/HaMeD1379/Studly-sub001/internal/domain"
	"github.com/HaMeD1379/Studly-sub001/internal/service"
	"github.com/danielgtaylor/huma/v2"
)

// GetSummaryInput is the input for the period summary.
type GetSummaryInput struct {
	Authorization string `header:"Authorization"`
	Window        string `query:"window" default:"today" doc:"Window kind: today, week, or allTime"`
}

// GetSummaryOutput is the output for the period summary.
type GetSummaryOutput struct {
	Body *service.PeriodSummaryResult
}

func (s *Server) registerStatsRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getPeriodSummary",
		Method:      http.MethodGet,
		Path:        "/api/v1/stats/summary",
		Summary:     "Get study summary",
		Description: "Returns the caller's study totals, subject breakdown, and streak for a time window",
		Tags:        []string{"Stats"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, withErrors(s.handleGetSummary))
}

func (s *Server) handleGetSummary(ctx context.Context, input *GetSummaryInput) (*GetSummaryOutput, error) {
	userID, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	kind, err := domain.ParseWindowKind(input.Window)
	if err != nil {
		return nil, err
	}

	result, err := s.services.Stats.GetPeriodSummary(ctx, userID, kind)
	if err != nil {
		return nil, err
	}
	return &GetSummaryOutput{Body: result}, nil
}
