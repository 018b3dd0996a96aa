package api

import (
	"context"
	"net/http"

	"github.com/HaMeD1379/Studly-sub001/internal/domain"
	"github.com/HaMeD1379/Studly-sub001/internal/service"
	"github.com/danielgtaylor/huma/v2"
)

// StartSessionRequest is the body for starting a session.
type StartSessionRequest struct {
	Subject        string `json:"subject" doc:"What is being studied"`
	PlannedMinutes int    `json:"planned_minutes,omitempty" doc:"Projected length in minutes; 0 uses the default"`
}

// StartSessionInput is the input for starting a session.
type StartSessionInput struct {
	Authorization string `header:"Authorization"`
	Body          StartSessionRequest
}

// SessionOutput returns one session.
type SessionOutput struct {
	Body *domain.StudySession
}

// StopSessionInput is the input for stopping a session.
type StopSessionInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Session ID"`
}

// ListSessionsInput is the input for listing sessions.
type ListSessionsInput struct {
	Authorization string `header:"Authorization"`
	Window        string `query:"window" default:"today" doc:"Window kind: today, week, or allTime"`
}

// ListSessionsResponse is the body for a session listing.
type ListSessionsResponse struct {
	Sessions []domain.StudySession `json:"sessions"`
}

// ListSessionsOutput is the output for listing sessions.
type ListSessionsOutput struct {
	Body ListSessionsResponse
}

func (s *Server) registerSessionRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "startSession",
		Method:        http.MethodPost,
		Path:          "/api/v1/sessions",
		Summary:       "Start a study session",
		Tags:          []string{"Sessions"},
		DefaultStatus: http.StatusCreated,
		Security:      []map[string][]string{{"bearer": {}}},
	}, withErrors(s.handleStartSession))

	huma.Register(s.api, huma.Operation{
		OperationID: "stopSession",
		Method:      http.MethodPost,
		Path:        "/api/v1/sessions/{id}/stop",
		Summary:     "Stop a study session",
		Description: "Closes a running session at the current time, recording whole elapsed minutes",
		Tags:        []string{"Sessions"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, withErrors(s.handleStopSession))

	huma.Register(s.api, huma.Operation{
		OperationID: "listSessions",
		Method:      http.MethodGet,
		Path:        "/api/v1/sessions",
		Summary:     "List study sessions",
		Tags:        []string{"Sessions"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, withErrors(s.handleListSessions))
}

func (s *Server) handleStartSession(ctx context.Context, input *StartSessionInput) (*SessionOutput, error) {
	userID, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	session, err := s.services.Sessions.StartSession(ctx, userID, service.StartSessionInput{
		Subject:        input.Body.Subject,
		PlannedMinutes: input.Body.PlannedMinutes,
	})
	if err != nil {
		return nil, err
	}
	return &SessionOutput{Body: session}, nil
}

func (s *Server) handleStopSession(ctx context.Context, input *StopSessionInput) (*SessionOutput, error) {
	userID, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	session, err := s.services.Sessions.StopSession(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}
	return &SessionOutput{Body: session}, nil
}

func (s *Server) handleListSessions(ctx context.Context, input *ListSessionsInput) (*ListSessionsOutput, error) {
	userID, err := s.authenticateRequest(input.Authorization)
	if err != nil {
		return nil, err
	}

	kind, err := domain.ParseWindowKind(input.Window)
	if err != nil {
		return nil, err
	}

	sessions, err := s.services.Sessions.ListSessions(ctx, userID, kind)
	if err != nil {
		return nil, err
	}
	if sessions == nil {
		sessions = []domain.StudySession{}
	}
	return &ListSessionsOutput{Body: ListSessionsResponse{Sessions: sessions}}, nil
}
