package prediction

import (
	"context"
	"errors"
	"log/slog"

	"floodwatch/internal/metrics"
	"floodwatch/internal/risk"
)

// FallbackAssessor asks Primary and answers from Fallback when the primary
// is unavailable. Validation errors are returned unchanged. A nil Primary
// means the remote path is not configured.
type FallbackAssessor struct {
	Primary  risk.Assessor
	Fallback risk.Assessor
	Logger   *slog.Logger
}

func NewFallbackAssessor(primary, fallback risk.Assessor) *FallbackAssessor {
	return &FallbackAssessor{Primary: primary, Fallback: fallback, Logger: slog.Default()}
}

func (a *FallbackAssessor) Assess(ctx context.Context, in risk.Input) (risk.Assessment, error) {
	if a.Primary == nil {
		return a.Fallback.Assess(ctx, in)
	}

	got, err := a.Primary.Assess(ctx, in)
	if err == nil {
		return got, nil
	}
	if !IsUnavailable(err) {
		return risk.Assessment{}, err
	}

	reason := "network"
	var se *ServerError
	if errors.As(err, &se) {
		reason = "server"
	}
	metrics.PredictionFallbacksTotal.WithLabelValues(reason).Inc()
	if a.Logger != nil {
		a.Logger.Warn("remote prediction unavailable, using local scorer", "reason", reason, "error", err)
	}
	return a.Fallback.Assess(ctx, in)
}
