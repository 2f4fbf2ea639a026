package repository

import (
	"time"

	"leadflow_backend/internal/leads/domain"

	"github.com/google/uuid"
)

// Lead is the central entity: one customer identity per tenant brand, with
// the merged multi-channel context and current scoring state.
type Lead struct {
	ID      uuid.UUID
	BrandID string

	Name  string
	Phone string // digits-only identity key
	Email *string

	UnifiedContext domain.UnifiedContext

	// Derived from whichever channel most recently reported a booking.
	BookingDate *string
	BookingTime *string

	FirstTouchpoint *domain.Channel
	LastTouchpoint  *domain.Channel

	LeadScore     int
	LeadStage     domain.Stage
	SubStage      domain.SubStage
	StageOverride bool
	LastScoredAt  *time.Time
	DaysInactive  int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Message is an append-only conversation event belonging to a lead.
type Message struct {
	ID        uuid.UUID
	LeadID    uuid.UUID
	Sender    domain.Sender
	Channel   domain.Channel
	Content   string
	CreatedAt time.Time
}

// StageChange is one immutable audit row for a stage transition.
type StageChange struct {
	ID          uuid.UUID
	LeadID      uuid.UUID
	OldStage    domain.Stage
	NewStage    domain.Stage
	OldSubStage domain.SubStage
	NewSubStage domain.SubStage
	OldScore    int
	NewScore    int
	ChangedBy   string // user id or "system"
	IsAutomatic bool
	Reason      string
	CreatedAt   time.Time
}

// StageOverride is a manually pinned stage. At most one row per lead is
// active at any time.
type StageOverride struct {
	ID           uuid.UUID
	LeadID       uuid.UUID
	Stage        domain.Stage
	SubStage     domain.SubStage
	OverriddenBy string
	Reason       string
	IsActive     bool
	CreatedAt    time.Time
	RemovedAt    *time.Time
}
