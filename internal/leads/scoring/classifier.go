package scoring

import (
	"leadflow_backend/internal/leads/domain"
	"leadflow_backend/internal/leads/repository"
)

// Classification is an automatic stage decision for a lead.
type Classification struct {
	Stage    domain.Stage
	SubStage domain.SubStage
}

// Classifier maps scores to pipeline stages using a threshold table plus the
// booking gate. It never emits manual-only stages (Converted, Closed Lost,
// In Sequence); those are reachable only through explicit overrides.
type Classifier struct {
	thresholds *Thresholds
}

func NewClassifier(thresholds *Thresholds) *Classifier {
	if thresholds == nil {
		thresholds = DefaultThresholds()
	}
	return &Classifier{thresholds: thresholds}
}

// Classify picks the stage for a freshly computed score. Booking Made
// requires an actual booking on some channel; a high score alone demotes to
// High Intent. High Intent leads keep their current sub-stage so a manual
// move to negotiation or on-hold survives rescoring.
func (c *Classifier) Classify(lead *repository.Lead, score int) Classification {
	stage := c.thresholds.StageFor(score)

	if stage == domain.StageBookingMade && !lead.UnifiedContext.HasBooking() {
		stage = domain.StageHighIntent
	}

	sub := domain.SubStageNone
	if stage.CarriesSubStage() {
		sub = domain.SubStageProposal
		if lead.LeadStage == stage && domain.IsKnownSubStage(lead.SubStage) {
			sub = lead.SubStage
		}
	}

	return Classification{Stage: stage, SubStage: sub}
}
