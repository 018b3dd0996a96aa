package api

import (
	"context"
	"net/http"

	"github.com/HaMeD1379/Studly-sub001/internal/domain"
	domainerrors "github.com/HaMeD1379/Studly-sub001/internal/errors"
	"github.com/HaMeD1379/Studly-sub001/internal/service"
	"github.com/danielgtaylor/huma/v2"
)

// GetLeaderboardInput is the input for a leaderboard.
type GetLeaderboardInput struct {
	Authorization string `header:"Authorization"`
	Scope         string `query:"scope" default:"global" doc:"global or friends"`
	Metric        string `query:"metric" default:"studyTime" doc:"studyTime or badgeCount"`
	Window        string `query:"window" default:"allTime" doc:"Window for studyTime: today, week, or allTime"`
	Limit         int    `query:"limit" doc:"Maximum rows to return; 0 uses the server default"`
}

// GetLeaderboardOutput is the output for a leaderboard.
type GetLeaderboardOutput struct {
	Body *service.LeaderboardResult
}

const leaderboardRoute = "/api/v1/leaderboard"

func (s *Server) registerLeaderboardRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getLeaderboard",
		Method:      http.MethodGet,
		Path:        leaderboardRoute,
		Summary:     "Get leaderboard",
		Description: "Ranks users by study time or badge count with competition ranking",
		Tags:        []string{"Leaderboard"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, withErrors(s.handleGetLeaderboard))
}

func (s *Server) handleGetLeaderboard(ctx context.Context, input *GetLeaderboardInput) (*GetLeaderboardOutput, error) {
	userID, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	if !s.leaderboardLimiter.Allow(userID) {
		if s.metrics != nil {
			s.metrics.RateLimitedRequests.WithLabelValues(leaderboardRoute).Inc()
		}
		return nil, domainerrors.RateLimited("too many leaderboard requests, try again shortly")
	}

	scope, err := domain.ParseLeaderboardScope(input.Scope)
	if err != nil {
		return nil, err
	}
	metric, err := domain.ParseLeaderboardMetric(input.Metric)
	if err != nil {
		return nil, err
	}
	window, err := domain.ParseWindowKind(input.Window)
	if err != nil {
		return nil, err
	}

	result, err := s.services.Leaderboard.GetLeaderboard(ctx, service.LeaderboardQuery{
		Scope:      scope,
		Metric:     metric,
		SelfUserID: userID,
		Window:     window,
		Limit:      input.Limit,
	})
	if err != nil {
		return nil, err
	}
	return &GetLeaderboardOutput{Body: result}, nil
}
