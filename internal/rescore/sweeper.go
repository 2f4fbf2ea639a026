package rescore

import (
	"context"
	"sync/atomic"
	"time"

	"leadflow_backend/internal/events"
	"leadflow_backend/internal/leads/repository"
	"leadflow_backend/internal/leads/service"
	"leadflow_backend/platform/config"
	"leadflow_backend/platform/logger"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Summary reports one completed sweep. A failed lead is counted, never
// fatal for the sweep.
type Summary struct {
	Processed int `json:"processed"`
	Errors    int `json:"errors"`
	Total     int `json:"total"`
}

// LeadStore is the slice of the repository the sweeper needs.
type LeadStore interface {
	ListNonTerminal(ctx context.Context) ([]repository.Lead, error)
	UpdateDaysInactive(ctx context.Context, id uuid.UUID, days int) error
}

// Scorer runs one score-and-classify pass. *service.Service is the
// production implementation.
type Scorer interface {
	ScoreLead(ctx context.Context, brandID string, id uuid.UUID) (service.ScoreOutcome, error)
}

// Sweeper walks all non-terminal leads: overridden leads only get their
// staleness counter refreshed, the rest are rescored and reclassified.
type Sweeper struct {
	store  LeadStore
	scorer Scorer
	bus    events.Bus
	cfg    config.RescoreConfig
	log    *logger.Logger
	now    func() time.Time
}

func NewSweeper(store LeadStore, scorer Scorer, bus events.Bus, cfg config.RescoreConfig, log *logger.Logger) *Sweeper {
	return &Sweeper{
		store:  store,
		scorer: scorer,
		bus:    bus,
		cfg:    cfg,
		log:    log,
		now:    time.Now,
	}
}

// Sweep processes every non-terminal lead once. Leads are visited in small
// concurrent batches with a pause in between so a large tenant base does not
// saturate the store.
func (s *Sweeper) Sweep(ctx context.Context) (Summary, error) {
	started := s.now()

	leads, err := s.store.ListNonTerminal(ctx)
	if err != nil {
		return Summary{}, err
	}

	var rescore, frozen []repository.Lead
	for _, lead := range leads {
		if lead.StageOverride {
			frozen = append(frozen, lead)
		} else {
			rescore = append(rescore, lead)
		}
	}

	var processed, failed atomic.Int64

	s.forEachBatch(ctx, rescore, s.scoreBatchSize(), func(ctx context.Context, lead repository.Lead) {
		if err := s.scoreOne(ctx, lead); err != nil {
			failed.Add(1)
			s.log.ScoringError(lead.ID.String(), err)
			return
		}
		processed.Add(1)
	})

	s.forEachBatch(ctx, frozen, s.inactivityBatchSize(), func(ctx context.Context, lead repository.Lead) {
		if err := s.refreshDaysInactive(ctx, lead); err != nil {
			failed.Add(1)
			s.log.ScoringError(lead.ID.String(), err)
			return
		}
		processed.Add(1)
	})

	summary := Summary{
		Processed: int(processed.Load()),
		Errors:    int(failed.Load()),
		Total:     len(leads),
	}

	s.log.BatchSummary(summary.Processed, summary.Errors, summary.Total,
		float64(s.now().Sub(started).Milliseconds()))

	if s.bus != nil {
		s.bus.Publish(ctx, events.RescoreSweepCompleted{
			BaseEvent: events.NewBaseEvent(),
			Processed: summary.Processed,
			Errors:    summary.Errors,
			Total:     summary.Total,
		})
	}

	return summary, nil
}

// forEachBatch runs fn over leads in concurrent batches, pausing between
// batches.
func (s *Sweeper) forEachBatch(ctx context.Context, leads []repository.Lead, batchSize int, fn func(context.Context, repository.Lead)) {
	delay := s.cfg.GetInterBatchDelay()

	for start := 0; start < len(leads); start += batchSize {
		if ctx.Err() != nil {
			return
		}

		end := start + batchSize
		if end > len(leads) {
			end = len(leads)
		}

		var group errgroup.Group
		group.SetLimit(batchSize)
		for _, lead := range leads[start:end] {
			lead := lead
			group.Go(func() error {
				fn(ctx, lead)
				return nil
			})
		}
		group.Wait()

		if end < len(leads) && delay > 0 {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return
			}
		}
	}
}

func (s *Sweeper) scoreOne(ctx context.Context, lead repository.Lead) error {
	leadCtx, cancel := context.WithTimeout(ctx, s.perLeadTimeout())
	defer cancel()

	_, err := s.scorer.ScoreLead(leadCtx, lead.BrandID, lead.ID)
	return err
}

func (s *Sweeper) refreshDaysInactive(ctx context.Context, lead repository.Lead) error {
	leadCtx, cancel := context.WithTimeout(ctx, s.perLeadTimeout())
	defer cancel()

	// Leads with no interaction yet count staleness from creation.
	since := lead.CreatedAt
	if last := lead.UnifiedContext.LastInteraction(); last != nil && last.After(since) {
		since = *last
	}
	days := int(s.now().Sub(since).Hours() / 24)
	if days < 0 {
		days = 0
	}
	return s.store.UpdateDaysInactive(leadCtx, lead.ID, days)
}

func (s *Sweeper) scoreBatchSize() int {
	if n := s.cfg.GetScoreBatchSize(); n > 0 {
		return n
	}
	return 10
}

func (s *Sweeper) inactivityBatchSize() int {
	if n := s.cfg.GetInactivityBatchSize(); n > 0 {
		return n
	}
	return 50
}

func (s *Sweeper) perLeadTimeout() time.Duration {
	if d := s.cfg.GetPerLeadTimeout(); d > 0 {
		return d
	}
	return 15 * time.Second
}
