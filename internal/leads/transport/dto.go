// Package transport defines the JSON request and response shapes of the
// leads HTTP API.
package transport

import (
	"time"

	"leadflow_backend/internal/leads/domain"
	"leadflow_backend/internal/leads/repository"
	"leadflow_backend/internal/leads/scoring"

	"github.com/google/uuid"
)

type IngestEventRequest struct {
	Channel string `json:"channel" validate:"required,oneof=web whatsapp voice social"`
	EventID string `json:"eventId"`

	ContactName  string `json:"contactName" validate:"required"`
	ContactPhone string `json:"contactPhone"`
	ContactEmail string `json:"contactEmail" validate:"omitempty,email"`

	Sender  string `json:"sender" validate:"omitempty,oneof=customer agent system"`
	Content string `json:"content"`

	ConversationSummary *string    `json:"conversationSummary"`
	MessageCount        *int       `json:"messageCount" validate:"omitempty,gte=0"`
	BookingStatus       *bool      `json:"bookingStatus"`
	BookingDate         *string    `json:"bookingDate"`
	BookingTime         *string    `json:"bookingTime"`
	Timestamp           *time.Time `json:"timestamp"`
}

type SetStageRequest struct {
	Stage     string `json:"stage" validate:"required"`
	SubStage  string `json:"subStage" validate:"omitempty,oneof=proposal negotiation on-hold"`
	ChangedBy string `json:"changedBy"`
	Reason    string `json:"reason"`
}

type IngestEventResponse struct {
	LeadID    uuid.UUID `json:"leadId"`
	Created   bool      `json:"created"`
	Duplicate bool      `json:"duplicate"`
}

type OverrideResponse struct {
	Stage        domain.Stage    `json:"stage"`
	SubStage     domain.SubStage `json:"subStage,omitempty"`
	OverriddenBy string          `json:"overriddenBy"`
	Reason       string          `json:"reason,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
}

type LeadResponse struct {
	ID      uuid.UUID `json:"id"`
	BrandID string    `json:"brandId"`

	Name  string  `json:"name"`
	Phone string  `json:"phone"`
	Email *string `json:"email,omitempty"`

	UnifiedContext domain.UnifiedContext `json:"unifiedContext"`

	BookingDate *string `json:"bookingDate,omitempty"`
	BookingTime *string `json:"bookingTime,omitempty"`

	FirstTouchpoint *domain.Channel `json:"firstTouchpoint,omitempty"`
	LastTouchpoint  *domain.Channel `json:"lastTouchpoint,omitempty"`

	LeadScore     int             `json:"leadScore"`
	LeadStage     domain.Stage    `json:"leadStage"`
	SubStage      domain.SubStage `json:"subStage,omitempty"`
	StageOverride bool            `json:"stageOverride"`
	LastScoredAt  *time.Time      `json:"lastScoredAt,omitempty"`
	DaysInactive  int             `json:"daysInactive"`

	Override *OverrideResponse `json:"override,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type ScoreResponse struct {
	LeadID       uuid.UUID         `json:"leadId"`
	Score        int               `json:"score"`
	Breakdown    scoring.Breakdown `json:"breakdown"`
	Stage        domain.Stage      `json:"stage"`
	SubStage     domain.SubStage   `json:"subStage,omitempty"`
	StageChanged bool              `json:"stageChanged"`
	DaysInactive int               `json:"daysInactive"`
}

type StageChangeResponse struct {
	ID          uuid.UUID       `json:"id"`
	OldStage    domain.Stage    `json:"oldStage"`
	NewStage    domain.Stage    `json:"newStage"`
	OldSubStage domain.SubStage `json:"oldSubStage,omitempty"`
	NewSubStage domain.SubStage `json:"newSubStage,omitempty"`
	OldScore    int             `json:"oldScore"`
	NewScore    int             `json:"newScore"`
	ChangedBy   string          `json:"changedBy"`
	IsAutomatic bool            `json:"isAutomatic"`
	Reason      string          `json:"reason,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}

func NewLeadResponse(lead repository.Lead, override *repository.StageOverride) LeadResponse {
	resp := LeadResponse{
		ID:              lead.ID,
		BrandID:         lead.BrandID,
		Name:            lead.Name,
		Phone:           lead.Phone,
		Email:           lead.Email,
		UnifiedContext:  lead.UnifiedContext,
		BookingDate:     lead.BookingDate,
		BookingTime:     lead.BookingTime,
		FirstTouchpoint: lead.FirstTouchpoint,
		LastTouchpoint:  lead.LastTouchpoint,
		LeadScore:       lead.LeadScore,
		LeadStage:       lead.LeadStage,
		SubStage:        lead.SubStage,
		StageOverride:   lead.StageOverride,
		LastScoredAt:    lead.LastScoredAt,
		DaysInactive:    lead.DaysInactive,
		CreatedAt:       lead.CreatedAt,
		UpdatedAt:       lead.UpdatedAt,
	}
	if override != nil {
		resp.Override = &OverrideResponse{
			Stage:        override.Stage,
			SubStage:     override.SubStage,
			OverriddenBy: override.OverriddenBy,
			Reason:       override.Reason,
			CreatedAt:    override.CreatedAt,
		}
	}
	return resp
}

func NewStageChangeResponse(sc repository.StageChange) StageChangeResponse {
	return StageChangeResponse{
		ID:          sc.ID,
		OldStage:    sc.OldStage,
		NewStage:    sc.NewStage,
		OldSubStage: sc.OldSubStage,
		NewSubStage: sc.NewSubStage,
		OldScore:    sc.OldScore,
		NewScore:    sc.NewScore,
		ChangedBy:   sc.ChangedBy,
		IsAutomatic: sc.IsAutomatic,
		Reason:      sc.Reason,
		CreatedAt:   sc.CreatedAt,
	}
}
