package scheduler

import (
	"context"
	"time"

	"github.com/phuslu/log"

	"github.com/dmaldonado/patrimonio-backend/internal/usecase/networth"
)

// Syncer recomputes and persists today's net-worth snapshot
type Syncer interface {
	SyncSnapshot(ctx context.Context) (networth.Breakdown, error)
}

// SnapshotScheduler keeps the daily snapshot series gapless. Mutations sync
// the snapshot inline, but a day with no writes would otherwise leave no row;
// the scheduler syncs once at startup and then at every local midnight.
type SnapshotScheduler struct {
	Syncer Syncer

	// Now is the clock used to compute the next run; overridable in tests
	Now func() time.Time
}

// NewSnapshotScheduler creates a new SnapshotScheduler instance
func NewSnapshotScheduler(syncer Syncer) *SnapshotScheduler {
	return &SnapshotScheduler{
		Syncer: syncer,
		Now:    time.Now,
	}
}

// Run syncs immediately, then once per day just after midnight, until the
// context is cancelled. Sync failures are logged and retried at the next run.
func (s *SnapshotScheduler) Run(ctx context.Context) {
	s.sync(ctx)

	for {
		timer := time.NewTimer(time.Until(nextMidnight(s.Now())))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			s.sync(ctx)
		}
	}
}

func (s *SnapshotScheduler) sync(ctx context.Context) {
	breakdown, err := s.Syncer.SyncSnapshot(ctx)
	if err != nil {
		log.Error().Err(err).Msg("scheduled snapshot sync failed")
		return
	}
	log.Info().Str("total_ars", breakdown.TotalARS.String()).Msg("daily snapshot synced")
}

// nextMidnight returns the first instant of the next calendar day in now's
// location, plus a small margin so the sync lands safely inside the new day.
func nextMidnight(now time.Time) time.Time {
	year, month, day := now.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1).Add(time.Minute)
}
