package service

import (
	"context"
	"errors"

	"leadflow_backend/internal/events"
	"leadflow_backend/internal/leads/domain"
	"leadflow_backend/internal/leads/repository"
	"leadflow_backend/platform/apperr"

	"github.com/google/uuid"
)

type SetStageParams struct {
	Stage     domain.Stage
	SubStage  domain.SubStage
	ChangedBy string
	Reason    string
}

// SetStage pins a lead to a manually chosen stage. Every manual set raises
// the override flag, so automatic classification stays frozen until the
// override is removed.
func (s *Service) SetStage(ctx context.Context, brandID string, id uuid.UUID, params SetStageParams) (repository.Lead, error) {
	if !domain.IsKnownStage(params.Stage) {
		return repository.Lead{}, apperr.Validation("unknown stage: " + string(params.Stage))
	}
	if params.SubStage != domain.SubStageNone {
		if !params.Stage.CarriesSubStage() {
			return repository.Lead{}, apperr.Validation("sub-stage is only valid for " + string(domain.StageHighIntent))
		}
		if !domain.IsKnownSubStage(params.SubStage) {
			return repository.Lead{}, apperr.Validation("unknown sub-stage: " + string(params.SubStage))
		}
	}
	if params.Stage.CarriesSubStage() && params.SubStage == domain.SubStageNone {
		params.SubStage = domain.SubStageProposal
	}
	if params.ChangedBy == "" {
		params.ChangedBy = "system"
	}

	lead, err := s.repo.GetByID(ctx, brandID, id)
	if err != nil {
		return repository.Lead{}, s.storeErr("get lead", err)
	}

	if _, err := s.repo.UpsertOverride(ctx, repository.UpsertOverrideParams{
		LeadID:       id,
		Stage:        params.Stage,
		SubStage:     params.SubStage,
		OverriddenBy: params.ChangedBy,
		Reason:       params.Reason,
	}); err != nil {
		return repository.Lead{}, s.storeErr("upsert override", err)
	}

	updated, err := s.repo.UpdateStage(ctx, id, params.Stage, params.SubStage, true)
	if err != nil {
		return repository.Lead{}, s.storeErr("update stage", err)
	}

	s.recordStageChange(ctx, repository.AppendStageChangeParams{
		LeadID:      id,
		OldStage:    lead.LeadStage,
		NewStage:    params.Stage,
		OldSubStage: lead.SubStage,
		NewSubStage: params.SubStage,
		OldScore:    lead.LeadScore,
		NewScore:    lead.LeadScore,
		ChangedBy:   params.ChangedBy,
		IsAutomatic: false,
		Reason:      params.Reason,
	})
	s.log.StageChanged(id.String(), string(lead.LeadStage), string(params.Stage), false)
	s.bus.Publish(ctx, events.StageChanged{
		BaseEvent:   events.NewBaseEvent(),
		LeadID:      id,
		BrandID:     brandID,
		OldStage:    lead.LeadStage,
		NewStage:    params.Stage,
		NewSubStage: params.SubStage,
		IsAutomatic: false,
	})

	return updated, nil
}

// RemoveOverride lifts the manual pin and immediately runs one automatic
// score-and-classify pass so the lead lands back where its signals put it.
func (s *Service) RemoveOverride(ctx context.Context, brandID string, id uuid.UUID) (ScoreOutcome, error) {
	lead, err := s.repo.GetByID(ctx, brandID, id)
	if err != nil {
		return ScoreOutcome{}, s.storeErr("get lead", err)
	}

	if err := s.repo.DeactivateOverride(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ScoreOutcome{}, apperr.NotFound("lead has no active override")
		}
		return ScoreOutcome{}, s.storeErr("deactivate override", err)
	}

	if _, err := s.repo.UpdateStage(ctx, id, lead.LeadStage, lead.SubStage, false); err != nil {
		return ScoreOutcome{}, s.storeErr("clear override flag", err)
	}

	s.bus.Publish(ctx, events.OverrideRemoved{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    id,
		BrandID:   brandID,
	})

	return s.ScoreLead(ctx, brandID, id)
}
