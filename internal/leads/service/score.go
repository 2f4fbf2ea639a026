package service

import (
	"context"

	"leadflow_backend/internal/events"
	"leadflow_backend/internal/leads/repository"
	"leadflow_backend/internal/leads/scoring"

	"github.com/google/uuid"
)

// ScoreOutcome is the result of one score-and-classify pass.
type ScoreOutcome struct {
	Lead   repository.Lead
	Result scoring.Result
	// StageChanged is true when the automatic classifier moved the lead.
	StageChanged bool
}

// ScoreLead recomputes the lead's score and, unless a manual override is
// active, reclassifies its stage. The score itself is always refreshed; the
// override only freezes the stage.
func (s *Service) ScoreLead(ctx context.Context, brandID string, id uuid.UUID) (ScoreOutcome, error) {
	lead, err := s.repo.GetByID(ctx, brandID, id)
	if err != nil {
		return ScoreOutcome{}, s.storeErr("get lead", err)
	}

	messages, err := s.repo.ListMessages(ctx, id)
	if err != nil {
		return ScoreOutcome{}, s.storeErr("list messages", err)
	}

	now := s.now()
	result := scoring.Calculate(&lead, messages, now)

	stage := lead.LeadStage
	subStage := lead.SubStage
	if !lead.StageOverride {
		classification := s.classifier.Classify(&lead, result.Score)
		stage = classification.Stage
		subStage = classification.SubStage
	}

	oldStage, oldSubStage, oldScore := lead.LeadStage, lead.SubStage, lead.LeadScore

	updated, err := s.repo.UpdateScore(ctx, id, repository.UpdateScoreParams{
		Score:        result.Score,
		Stage:        stage,
		SubStage:     subStage,
		DaysInactive: result.DaysInactive,
		ScoredAt:     now,
	})
	if err != nil {
		return ScoreOutcome{}, s.storeErr("update score", err)
	}

	changed := stage != oldStage || subStage != oldSubStage
	if changed {
		s.recordStageChange(ctx, repository.AppendStageChangeParams{
			LeadID:      id,
			OldStage:    oldStage,
			NewStage:    stage,
			OldSubStage: oldSubStage,
			NewSubStage: subStage,
			OldScore:    oldScore,
			NewScore:    result.Score,
			ChangedBy:   "system",
			IsAutomatic: true,
			Reason:      "score threshold",
		})
		s.log.StageChanged(id.String(), string(oldStage), string(stage), true)
		s.bus.Publish(ctx, events.StageChanged{
			BaseEvent:   events.NewBaseEvent(),
			LeadID:      id,
			BrandID:     brandID,
			OldStage:    oldStage,
			NewStage:    stage,
			NewSubStage: subStage,
			IsAutomatic: true,
		})
	}

	s.refreshSummary(ctx, &updated)

	return ScoreOutcome{Lead: updated, Result: result, StageChanged: changed}, nil
}

// recordStageChange appends to the audit log. A failed audit write never
// rolls back the stage update, it is logged and carried on.
func (s *Service) recordStageChange(ctx context.Context, params repository.AppendStageChangeParams) {
	if _, err := s.repo.AppendStageChange(ctx, params); err != nil {
		s.log.Error("stage change audit write failed",
			"error", err,
			"leadId", params.LeadID,
			"newStage", params.NewStage,
		)
	}
}

// refreshSummary regenerates the cosmetic cross-channel summary. It never
// influences scoring and any failure is swallowed after logging.
func (s *Service) refreshSummary(ctx context.Context, lead *repository.Lead) {
	summaries := lead.UnifiedContext.ChannelSummaries()
	if len(summaries) == 0 {
		return
	}

	text, err := s.summarizer.Summarize(ctx, summaries)
	if err != nil {
		s.log.Error("unified summary generation failed", "error", err, "leadId", lead.ID)
		return
	}
	if text == "" {
		return
	}

	unified := lead.UnifiedContext
	unified.UnifiedSummary = &text

	updated, err := s.repo.UpdateContext(ctx, lead.ID, repository.UpdateContextParams{
		UnifiedContext:  unified,
		BookingDate:     lead.BookingDate,
		BookingTime:     lead.BookingTime,
		FirstTouchpoint: lead.FirstTouchpoint,
		LastTouchpoint:  lead.LastTouchpoint,
	})
	if err != nil {
		s.log.Error("unified summary write failed", "error", err, "leadId", lead.ID)
		return
	}
	*lead = updated
}
