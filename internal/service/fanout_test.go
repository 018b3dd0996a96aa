package service

import (
	"context"
	"testing"
	"time"

	"github.com/HaMeD1379/Studly-sub001/internal/errors"
	"github.com/HaMeD1379/Studly-sub001/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetch_Success(t *testing.T) {
	m := metrics.New()
	got, err := fetch(context.Background(), time.Second, m, sourceUsers, func(context.Context) (int, error) {
		return 42, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 42, got)
	assert.InDelta(t, 0, testutil.ToFloat64(m.FetchFailures.WithLabelValues(sourceUsers)), 0)
}

func TestFetch_ErrorIsDataFetchFailure(t *testing.T) {
	m := metrics.New()
	_, err := fetch(context.Background(), time.Second, m, sourceSessions, func(context.Context) (int, error) {
		return 0, errBackend
	})
	require.ErrorIs(t, err, errors.ErrDataFetch)
	assert.ErrorIs(t, err, errBackend)
	assert.InDelta(t, 1, testutil.ToFloat64(m.FetchFailures.WithLabelValues(sourceSessions)), 0)
}

func TestFetch_TimeoutWithUncooperativeAdapter(t *testing.T) {
	start := time.Now()
	_, err := fetch(context.Background(), 50*time.Millisecond, nil, sourceSessions, func(context.Context) (int, error) {
		time.Sleep(time.Second)
		return 1, nil
	})
	require.ErrorIs(t, err, errors.ErrDataFetch)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestFetch_RecoversPanic(t *testing.T) {
	_, err := fetch(context.Background(), time.Second, nil, sourceCatalog, func(context.Context) (int, error) {
		panic("boom")
	})
	require.ErrorIs(t, err, errors.ErrDataFetch)
	assert.Contains(t, err.Error(), "boom")
}
