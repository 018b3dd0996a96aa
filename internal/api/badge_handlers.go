package api

import (
	"context"
	"net/http"

	"github.com/HaMeD1379/Studly-sub001/internal/service"
	"github.com/danielgtaylor/huma/v2"
)

// GetBadgesInput is the input for badge status.
type GetBadgesInput struct {
	Authorization string `header:"Authorization"`
}

// GetBadgesOutput is the output for badge status.
type GetBadgesOutput struct {
	Body *service.BadgeStatusResult
}

func (s *Server) registerBadgeRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getBadgeStatus",
		Method:      http.MethodGet,
		Path:        "/api/v1/badges",
		Summary:     "Get badge status",
		Description: "Evaluates every catalog badge for the caller and records newly earned unlocks",
		Tags:        []string{"Badges"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, withErrors(s.handleGetBadges))
}

func (s *Server) handleGetBadges(ctx context.Context, input *GetBadgesInput) (*GetBadgesOutput, error) {
	userID, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	result, err := s.services.Badges.GetBadgeStatus(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &GetBadgesOutput{Body: result}, nil
}
