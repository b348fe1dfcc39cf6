package repository

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"floodwatch/internal/modules/alerts/types"
	"floodwatch/internal/risk"
)

//go:embed sql/insert-alert.sql
var insertAlertSQL string

//go:embed sql/get-recent-alerts.sql
var getRecentAlertsSQL string

//go:embed sql/get-counts-by-level.sql
var getCountsByLevelSQL string

//go:embed sql/get-levels-in-order.sql
var getLevelsInOrderSQL string

// AlertRepository is the alert log kept for the admin view.
type AlertRepository interface {
	InsertAlerts(ctx context.Context, alerts []types.Alert) error
	GetRecentAlerts(ctx context.Context, limit int) ([]types.Alert, error)
	GetCounts(ctx context.Context) (types.Counts, error)
	// GetTrend returns one cumulative point per logged alert, oldest first,
	// keeping only the last limit points when limit > 0.
	GetTrend(ctx context.Context, limit int) ([]types.TrendPoint, error)
}

type repositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) AlertRepository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) InsertAlerts(ctx context.Context, alerts []types.Alert) error {
	if len(alerts) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, insertAlertSQL)
	if err != nil {
		return fmt.Errorf("prepare insert alert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, a := range alerts {
		reading, err := json.Marshal(a.Reading)
		if err != nil {
			return fmt.Errorf("encode reading for %s: %w", a.Region, err)
		}
		if _, err := stmt.ExecContext(ctx,
			a.ID, a.Region, a.Lat, a.Lon, string(a.Level), a.Score, string(reading),
			a.Time.UTC().Format(time.RFC3339Nano),
		); err != nil {
			return fmt.Errorf("insert alert %s: %w", a.ID, err)
		}
	}
	return tx.Commit()
}

func (r *repositoryImpl) GetRecentAlerts(ctx context.Context, limit int) ([]types.Alert, error) {
	rows, err := r.db.QueryContext(ctx, getRecentAlertsSQL, limit)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("close recent alerts rows", "error", err)
		}
	}()

	var out []types.Alert
	for rows.Next() {
		var (
			a       types.Alert
			level   string
			reading string
			ts      string
		)
		if err := rows.Scan(&a.ID, &a.Region, &a.Lat, &a.Lon, &level, &a.Score, &reading, &ts); err != nil {
			return nil, err
		}
		a.Level = risk.Level(level)
		a.Label = a.Level.Label()
		if err := json.Unmarshal([]byte(reading), &a.Reading); err != nil {
			return nil, fmt.Errorf("decode reading of alert %s: %w", a.ID, err)
		}
		a.Time, err = time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return nil, fmt.Errorf("parse timestamp %q: %w", ts, err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *repositoryImpl) GetCounts(ctx context.Context) (types.Counts, error) {
	rows, err := r.db.QueryContext(ctx, getCountsByLevelSQL)
	if err != nil {
		return types.Counts{}, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("close counts rows", "error", err)
		}
	}()

	var c types.Counts
	for rows.Next() {
		var (
			level string
			n     int
		)
		if err := rows.Scan(&level, &n); err != nil {
			return types.Counts{}, err
		}
		c.AddN(risk.Level(level), n)
	}
	return c, rows.Err()
}

func (r *repositoryImpl) GetTrend(ctx context.Context, limit int) ([]types.TrendPoint, error) {
	rows, err := r.db.QueryContext(ctx, getLevelsInOrderSQL)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("close trend rows", "error", err)
		}
	}()

	var (
		out []types.TrendPoint
		c   types.Counts
	)
	for rows.Next() {
		var level string
		if err := rows.Scan(&level); err != nil {
			return nil, err
		}
		c.Add(risk.Level(level))
		out = append(out, types.TrendPoint{
			Index:    len(out) + 1,
			Low:      c.Low,
			Moderate: c.Moderate,
			High:     c.High,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}
