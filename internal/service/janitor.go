package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/dmarchuk/auth-service/internal/repo"
)

// Janitor bounds blocklist growth. Entries older than Retention belong
// to tokens that have expired anyway, so dropping them cannot resurrect
// a revoked token. Retention must be at least the refresh lifetime.
type Janitor struct {
	Repo      *repo.GormRepo
	Retention time.Duration
	Interval  time.Duration
}

func (j *Janitor) Run(ctx context.Context, l *slog.Logger) {
	ticker := time.NewTicker(j.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			j.purge(ctx, l)
		}
	}
}

func (j *Janitor) purge(ctx context.Context, l *slog.Logger) {
	cutoff := time.Now().UTC().Add(-j.Retention)
	n, err := j.Repo.PurgeRevokedBefore(ctx, cutoff)
	if err != nil {
		l.Error("blocklist purge failed", "error", err)
		return
	}
	if n > 0 {
		l.Info("blocklist purged", "deleted", n)
	}
}
