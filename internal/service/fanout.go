package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/HaMeD1379/Studly-sub001/internal/domain"
	"github.com/HaMeD1379/Studly-sub001/internal/errors"
	"github.com/HaMeD1379/Studly-sub001/internal/metrics"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("github.com/HaMeD1379/Studly-sub001/internal/service")

// Adapter names used in diagnostics, logs and metric labels.
const (
	sourceSessions = "sessions"
	sourceCatalog  = "catalog"
	sourceUnlocks  = "unlocks"
	sourceFriends  = "friends"
	sourceUsers    = "users"
)

// fetch runs one adapter call under its own timeout.
//
// The call runs on its own goroutine so an adapter that ignores its context
// still cannot hold the caller past the timeout. A panic in the adapter is
// recovered. Any failure comes back as a DATA_FETCH_FAILURE error.
func fetch[T any](ctx context.Context, timeout time.Duration, m *metrics.Metrics, source string, fn func(context.Context) (T, error)) (T, error) {
	var cancel context.CancelFunc
	ctx, cancel = context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		value T
		err   error
	}
	done := make(chan result, 1)
	start := time.Now()

	go func() {
		var res result
		defer func() {
			if p := recover(); p != nil {
				res = result{err: fmt.Errorf("panic: %v", p)}
			}
			done <- res
		}()
		res.value, res.err = fn(ctx)
	}()

	var res result
	select {
	case res = <-done:
	case <-ctx.Done():
		res.err = ctx.Err()
	}
	m.ObserveFetch(source, time.Since(start), res.err)

	if res.err != nil {
		var zero T
		return zero, errors.DataFetch(res.err, source+" fetch failed")
	}
	return res.value, nil
}

// fetchFailure builds the diagnostic for a failed fetch and logs it.
func fetchFailure(logger *slog.Logger, userID, source string, err error) domain.Diagnostic {
	logger.Warn("adapter fetch failed",
		"source", source,
		"user_id", userID,
		"error", err,
	)
	return domain.Diagnostic{
		Kind:    domain.DiagnosticDataFetchFailure,
		UserID:  userID,
		Source:  source,
		Message: err.Error(),
	}
}

// forUser stamps userID onto diagnostics produced by the pure packages.
func forUser(diags []domain.Diagnostic, userID string) []domain.Diagnostic {
	for i := range diags {
		diags[i].UserID = userID
	}
	return diags
}
