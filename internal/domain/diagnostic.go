package domain

// DiagnosticKind classifies a non-fatal problem encountered while computing a result.
type DiagnosticKind string

// DiagnosticKind constants.
const (
	DiagnosticDataFetchFailure DiagnosticKind = "dataFetchFailure"
	DiagnosticMalformedSession DiagnosticKind = "malformedSession"
)

// Diagnostic reports data that was skipped or excluded from a result.
type Diagnostic struct {
	Kind      DiagnosticKind `json:"kind"`
	UserID    string         `json:"user_id,omitempty"`
	SessionID string         `json:"session_id,omitempty"`
	Source    string         `json:"source,omitempty"`
	Message   string         `json:"message"`
}
