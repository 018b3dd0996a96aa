package catalog

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/HaMeD1379/Studly-sub001/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeCatalog(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

const twoBadges = `badges:
  - name: First Steps
    metric: sessionCount
    threshold: 1
  - name: Five Hours
    description: Study for five hours.
    metric: totalMinutes
    threshold: 300
`

func TestNew_BuiltIn(t *testing.T) {
	c, err := New("", testLogger())
	require.NoError(t, err)

	defs, err := c.ListBadgeDefinitions(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, defs)
	assert.Equal(t, "First Steps", defs[0].Name)
	for _, d := range defs {
		assert.True(t, d.Metric.Valid(), d.Name)
		assert.Positive(t, d.Threshold, d.Name)
	}
}

func TestNew_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "badges.yaml")
	writeCatalog(t, path, twoBadges)

	c, err := New(path, testLogger())
	require.NoError(t, err)

	defs, err := c.ListBadgeDefinitions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []domain.BadgeDefinition{
		{Name: "First Steps", Metric: domain.MetricSessionCount, Threshold: 1},
		{Name: "Five Hours", Description: "Study for five hours.", Metric: domain.MetricTotalMinutes, Threshold: 300},
	}, defs)
}

func TestNew_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "zero threshold",
			content: "badges:\n  - name: Zero\n    metric: totalMinutes\n    threshold: 0\n",
			wantErr: "validation failed",
		},
		{
			name:    "unknown metric",
			content: "badges:\n  - name: Pages\n    metric: pagesRead\n    threshold: 3\n",
			wantErr: "validation failed",
		},
		{
			name:    "duplicate name",
			content: "badges:\n  - name: A\n    metric: totalMinutes\n    threshold: 1\n  - name: A\n    metric: sessionCount\n    threshold: 2\n",
			wantErr: "duplicate badge name",
		},
		{
			name:    "unknown field",
			content: "badges:\n  - name: A\n    metric: totalMinutes\n    threshold: 1\n    colour: red\n",
			wantErr: "decode yaml",
		},
		{
			name:    "empty",
			content: "badges: []\n",
			wantErr: "validation failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "badges.yaml")
			writeCatalog(t, path, tt.content)

			_, err := New(path, testLogger())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestReload_KeepsPreviousOnFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "badges.yaml")
	writeCatalog(t, path, twoBadges)

	c, err := New(path, testLogger())
	require.NoError(t, err)

	writeCatalog(t, path, "badges: [")
	require.Error(t, c.Reload())

	defs, err := c.ListBadgeDefinitions(context.Background())
	require.NoError(t, err)
	assert.Len(t, defs, 2)
}

func TestListBadgeDefinitions_ReturnsCopy(t *testing.T) {
	c, err := New("", testLogger())
	require.NoError(t, err)

	defs, err := c.ListBadgeDefinitions(context.Background())
	require.NoError(t, err)
	defs[0].Name = "mutated"

	again, err := c.ListBadgeDefinitions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "First Steps", again[0].Name)
}

func TestWatch_ReloadsOnChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "badges.yaml")
	writeCatalog(t, path, twoBadges)

	c, err := New(path, testLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, c.Watch(ctx))

	writeCatalog(t, path, twoBadges+"  - name: Regular\n    metric: sessionCount\n    threshold: 10\n")

	require.Eventually(t, func() bool {
		defs, err := c.ListBadgeDefinitions(context.Background())
		return err == nil && len(defs) == 3
	}, 5*time.Second, 50*time.Millisecond)
}

func TestWatch_ReportsReloadFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "badges.yaml")
	writeCatalog(t, path, twoBadges)

	c, err := New(path, testLogger())
	require.NoError(t, err)

	var failures atomic.Int32
	c.OnReloadError(func(error) { failures.Add(1) })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, c.Watch(ctx))

	writeCatalog(t, path, "badges: [")

	require.Eventually(t, func() bool {
		return failures.Load() > 0
	}, 5*time.Second, 50*time.Millisecond)

	defs, err := c.ListBadgeDefinitions(context.Background())
	require.NoError(t, err)
	assert.Len(t, defs, 2)
}

func TestWatch_BuiltInIsNoop(t *testing.T) {
	c, err := New("", testLogger())
	require.NoError(t, err)
	assert.NoError(t, c.Watch(context.Background()))
}
