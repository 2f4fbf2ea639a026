package rescore

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"leadflow_backend/internal/leads/domain"
	"leadflow_backend/internal/leads/repository"
	"leadflow_backend/internal/leads/service"
	"leadflow_backend/platform/logger"

	"github.com/google/uuid"
)

type sweepConfig struct{}

func (sweepConfig) GetSweepInterval() time.Duration   { return time.Hour }
func (sweepConfig) GetScoreBatchSize() int            { return 10 }
func (sweepConfig) GetInactivityBatchSize() int       { return 50 }
func (sweepConfig) GetInterBatchDelay() time.Duration { return time.Millisecond }
func (sweepConfig) GetPerLeadTimeout() time.Duration  { return time.Second }

type fakeLeadStore struct {
	mu    sync.Mutex
	leads []repository.Lead
	days  map[uuid.UUID]int
}

func (f *fakeLeadStore) ListNonTerminal(context.Context) ([]repository.Lead, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]repository.Lead, 0, len(f.leads))
	for _, lead := range f.leads {
		if !lead.LeadStage.IsTerminal() {
			out = append(out, lead)
		}
	}
	return out, nil
}

func (f *fakeLeadStore) UpdateDaysInactive(_ context.Context, id uuid.UUID, days int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.days == nil {
		f.days = make(map[uuid.UUID]int)
	}
	f.days[id] = days
	return nil
}

type fakeScorer struct {
	mu     sync.Mutex
	failID uuid.UUID
	scored map[uuid.UUID]int
}

func (f *fakeScorer) ScoreLead(_ context.Context, _ string, id uuid.UUID) (service.ScoreOutcome, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if id == f.failID {
		return service.ScoreOutcome{}, errors.New("store timeout")
	}
	if f.scored == nil {
		f.scored = make(map[uuid.UUID]int)
	}
	f.scored[id]++
	return service.ScoreOutcome{}, nil
}

func TestSweepCountsFailuresWithoutAborting(t *testing.T) {
	store := &fakeLeadStore{}
	for i := 0; i < 12; i++ {
		store.leads = append(store.leads, repository.Lead{
			ID:        uuid.New(),
			BrandID:   "brand-1",
			LeadStage: domain.StageEngaged,
		})
	}
	scorer := &fakeScorer{failID: store.leads[3].ID}

	sweeper := NewSweeper(store, scorer, nil, sweepConfig{}, logger.New("development"))

	summary, err := sweeper.Sweep(context.Background())
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}

	if summary.Processed != 11 || summary.Errors != 1 || summary.Total != 12 {
		t.Fatalf("summary = %+v, want processed=11 errors=1 total=12", summary)
	}
	if _, scored := scorer.scored[store.leads[3].ID]; scored {
		t.Fatal("failed lead must not be recorded as scored")
	}
}

func TestSweepSkipsTerminalLeads(t *testing.T) {
	store := &fakeLeadStore{
		leads: []repository.Lead{
			{ID: uuid.New(), BrandID: "brand-1", LeadStage: domain.StageConverted},
			{ID: uuid.New(), BrandID: "brand-1", LeadStage: domain.StageClosedLost},
			{ID: uuid.New(), BrandID: "brand-1", LeadStage: domain.StageNew},
		},
	}
	scorer := &fakeScorer{}

	sweeper := NewSweeper(store, scorer, nil, sweepConfig{}, logger.New("development"))

	summary, err := sweeper.Sweep(context.Background())
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if summary.Total != 1 || summary.Processed != 1 {
		t.Fatalf("summary = %+v, want only the one non-terminal lead", summary)
	}
}

func TestSweepRefreshesFrozenLeadsWithoutScoring(t *testing.T) {
	last := time.Now().Add(-72 * time.Hour)
	frozen := repository.Lead{
		ID:            uuid.New(),
		BrandID:       "brand-1",
		LeadStage:     domain.StageInSequence,
		StageOverride: true,
		CreatedAt:     time.Now().Add(-240 * time.Hour),
		UnifiedContext: domain.UnifiedContext{
			Channels: map[domain.Channel]domain.ChannelContext{
				domain.ChannelWeb: {LastInteraction: &last},
			},
		},
	}
	store := &fakeLeadStore{leads: []repository.Lead{frozen}}
	scorer := &fakeScorer{}

	sweeper := NewSweeper(store, scorer, nil, sweepConfig{}, logger.New("development"))

	summary, err := sweeper.Sweep(context.Background())
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if summary.Processed != 1 {
		t.Fatalf("summary = %+v, want processed=1", summary)
	}
	if len(scorer.scored) != 0 {
		t.Fatal("overridden lead must not be rescored")
	}
	if got := store.days[frozen.ID]; got != 3 {
		t.Fatalf("days inactive = %d, want 3", got)
	}

	neverSeen := repository.Lead{
		ID:            uuid.New(),
		BrandID:       "brand-1",
		LeadStage:     domain.StageNew,
		StageOverride: true,
		CreatedAt:     time.Now().Add(-24 * time.Hour),
	}
	store.leads = []repository.Lead{neverSeen}
	if _, err := sweeper.Sweep(context.Background()); err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if got := store.days[neverSeen.ID]; got != 1 {
		t.Fatalf("days inactive = %d, want 1 day since creation", got)
	}
}
