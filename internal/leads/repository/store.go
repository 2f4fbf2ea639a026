package repository

import (
	"context"

	"leadflow_backend/internal/leads/domain"

	"github.com/google/uuid"
)

// Store is the persistence surface the lead services depend on. *Repository
// is the production implementation; tests substitute in-memory fakes.
type Store interface {
	Create(ctx context.Context, params CreateLeadParams) (Lead, error)
	GetByID(ctx context.Context, brandID string, id uuid.UUID) (Lead, error)
	GetByPhone(ctx context.Context, brandID, phone string) (Lead, error)
	GetByEmail(ctx context.Context, brandID, email string) (Lead, error)
	UpdateContext(ctx context.Context, id uuid.UUID, params UpdateContextParams) (Lead, error)
	UpdateScore(ctx context.Context, id uuid.UUID, params UpdateScoreParams) (Lead, error)
	UpdateStage(ctx context.Context, id uuid.UUID, stage domain.Stage, subStage domain.SubStage, override bool) (Lead, error)
	UpdateDaysInactive(ctx context.Context, id uuid.UUID, days int) error
	ListNonTerminal(ctx context.Context) ([]Lead, error)

	AppendMessage(ctx context.Context, params AppendMessageParams) (Message, error)
	ListMessages(ctx context.Context, leadID uuid.UUID) ([]Message, error)

	AppendStageChange(ctx context.Context, params AppendStageChangeParams) (StageChange, error)
	ListStageChanges(ctx context.Context, leadID uuid.UUID, limit int) ([]StageChange, error)

	UpsertOverride(ctx context.Context, params UpsertOverrideParams) (StageOverride, error)
	GetActiveOverride(ctx context.Context, leadID uuid.UUID) (StageOverride, error)
	DeactivateOverride(ctx context.Context, leadID uuid.UUID) error
}

var _ Store = (*Repository)(nil)
