package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"floodwatch/internal/metrics"
	"floodwatch/internal/modules/alerts/repository"
	"floodwatch/internal/modules/alerts/types"
	"floodwatch/internal/risk"
)

// LevelAll disables the level filter.
const LevelAll = "All"

// DefaultRecentLimit is how many logged alerts the admin view shows.
const DefaultRecentLimit = 10

// Feed holds the current alert snapshot. Refresh replaces it from the
// source; the HTTP handlers read it concurrently.
type Feed struct {
	source    Source
	repo      repository.AlertRepository
	publisher Publisher
	logger    *slog.Logger

	mu          sync.RWMutex
	snapshot    []types.Alert
	refreshedAt time.Time
}

// NewFeed builds a feed. repo and publisher may be nil.
func NewFeed(source Source, repo repository.AlertRepository, publisher Publisher, logger *slog.Logger) *Feed {
	if logger == nil {
		logger = slog.Default()
	}
	return &Feed{source: source, repo: repo, publisher: publisher, logger: logger}
}

// Refresh pulls a new snapshot, logs it and publishes each alert. The
// snapshot is replaced even if logging fails; publish failures are only
// logged.
func (f *Feed) Refresh(ctx context.Context) error {
	alerts, err := f.source.Pull(ctx)
	if err != nil {
		metrics.AlertRefreshErrorsTotal.Inc()
		return fmt.Errorf("pull alerts: %w", err)
	}

	f.mu.Lock()
	f.snapshot = alerts
	f.refreshedAt = time.Now()
	f.mu.Unlock()

	counts := types.CountAlerts(alerts)
	for _, l := range risk.Levels {
		metrics.AlertsGeneratedTotal.WithLabelValues(string(l)).Add(float64(counts.Of(l)))
		metrics.CurrentAlerts.WithLabelValues(string(l)).Set(float64(counts.Of(l)))
	}
	f.logger.Debug("alert feed refreshed", "alerts", len(alerts), "high", counts.High, "moderate", counts.Moderate, "low", counts.Low)

	if f.publisher != nil {
		for _, a := range alerts {
			if err := f.publisher.PublishAlert(ctx, a); err != nil {
				metrics.AlertPublishFailuresTotal.Inc()
				f.logger.Warn("publish alert failed", "region", a.Region, "error", err)
			}
		}
	}

	if f.repo != nil {
		if err := f.repo.InsertAlerts(ctx, alerts); err != nil {
			metrics.AlertRefreshErrorsTotal.Inc()
			return fmt.Errorf("log alerts: %w", err)
		}
	}
	return nil
}

// Snapshot returns a copy of the current alerts.
func (f *Feed) Snapshot() []types.Alert {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]types.Alert, len(f.snapshot))
	copy(out, f.snapshot)
	return out
}

// RefreshedAt is the time of the last successful pull, zero before the
// first.
func (f *Feed) RefreshedAt() time.Time {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.refreshedAt
}

// ErrUnknownLevel is returned by Filter for a level that is neither "All"
// nor a risk level.
var ErrUnknownLevel = errors.New("unknown risk level")

// Filter returns the current alerts whose region contains query
// (case-insensitive) and whose level matches. An empty level or "All"
// matches every level.
func (f *Feed) Filter(query, level string) ([]types.Alert, error) {
	var want risk.Level
	level = strings.TrimSpace(level)
	if level != "" && !strings.EqualFold(level, LevelAll) {
		l, ok := risk.ParseLevel(level)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownLevel, level)
		}
		want = l
	}
	query = strings.ToLower(strings.TrimSpace(query))

	var out []types.Alert
	for _, a := range f.Snapshot() {
		if want != "" && a.Level != want {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(a.Region), query) {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

// Counts tallies the current snapshot by level.
func (f *Feed) Counts() types.Counts {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return types.CountAlerts(f.snapshot)
}

var errNoLog = errors.New("alert log not configured")

// Recent returns the newest logged alerts, newest first.
func (f *Feed) Recent(ctx context.Context, limit int) ([]types.Alert, error) {
	if f.repo == nil {
		return nil, errNoLog
	}
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	return f.repo.GetRecentAlerts(ctx, limit)
}

// Stats totals the whole log by level.
func (f *Feed) Stats(ctx context.Context) (types.Counts, error) {
	if f.repo == nil {
		return types.Counts{}, errNoLog
	}
	return f.repo.GetCounts(ctx)
}

// Trend returns cumulative per-level counts by log position.
func (f *Feed) Trend(ctx context.Context, limit int) ([]types.TrendPoint, error) {
	if f.repo == nil {
		return nil, errNoLog
	}
	return f.repo.GetTrend(ctx, limit)
}
