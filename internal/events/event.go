// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"leadflow_backend/internal/leads/domain"
	"leadflow_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var (
	NewBaseEvent   = events.NewBaseEvent
	NewInMemoryBus = events.NewInMemoryBus
)

// =============================================================================
// Lead Domain Events
// =============================================================================

// LeadCreated is published when an inbound event does not match any existing
// lead and a new one is created.
type LeadCreated struct {
	BaseEvent
	LeadID  uuid.UUID      `json:"leadId"`
	BrandID string         `json:"brandId"`
	Channel domain.Channel `json:"channel"`
}

func (e LeadCreated) EventName() string { return "leads.lead.created" }

// MessageCreated is published after an inbound message has been persisted
// and the unified context merged. Scoring listens for it.
type MessageCreated struct {
	BaseEvent
	LeadID  uuid.UUID      `json:"leadId"`
	BrandID string         `json:"brandId"`
	Channel domain.Channel `json:"channel"`
	Sender  domain.Sender  `json:"sender"`
}

func (e MessageCreated) EventName() string { return "leads.message.created" }

// StageChanged is published for every stage transition, manual or automatic.
type StageChanged struct {
	BaseEvent
	LeadID      uuid.UUID       `json:"leadId"`
	BrandID     string          `json:"brandId"`
	OldStage    domain.Stage    `json:"oldStage"`
	NewStage    domain.Stage    `json:"newStage"`
	NewSubStage domain.SubStage `json:"newSubStage,omitempty"`
	IsAutomatic bool            `json:"isAutomatic"`
}

func (e StageChanged) EventName() string { return "leads.stage.changed" }

// OverrideRemoved is published when a manual stage pin is lifted and the
// lead returns to automatic classification.
type OverrideRemoved struct {
	BaseEvent
	LeadID  uuid.UUID `json:"leadId"`
	BrandID string    `json:"brandId"`
}

func (e OverrideRemoved) EventName() string { return "leads.override.removed" }

// =============================================================================
// Batch Events
// =============================================================================

// RescoreSweepCompleted summarizes one batch rescoring run.
type RescoreSweepCompleted struct {
	BaseEvent
	Processed int `json:"processed"`
	Errors    int `json:"errors"`
	Total     int `json:"total"`
}

func (e RescoreSweepCompleted) EventName() string { return "rescore.sweep.completed" }
