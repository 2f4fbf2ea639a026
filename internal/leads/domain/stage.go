// Package domain holds the pure value types and rules of the lead pipeline:
// stages, channels, and the unified context merge algorithm. It has no
// dependencies on storage or transport.
package domain

// Stage is a pipeline stage. The zero value is not a valid stage.
type Stage string

const (
	StageNew         Stage = "New"
	StageEngaged     Stage = "Engaged"
	StageQualified   Stage = "Qualified"
	StageHighIntent  Stage = "High Intent"
	StageBookingMade Stage = "Booking Made"
	StageConverted   Stage = "Converted"
	StageClosedLost  Stage = "Closed Lost"
	StageInSequence  Stage = "In Sequence"
	StageCold        Stage = "Cold"
)

// SubStage refines StageHighIntent. Empty for every other stage.
type SubStage string

const (
	SubStageNone        SubStage = ""
	SubStageProposal    SubStage = "proposal"
	SubStageNegotiation SubStage = "negotiation"
	SubStageOnHold      SubStage = "on-hold"
)

// pipelineRank orders stages by commitment for the monotonicity guarantee of
// the automatic classifier. Manual-only stages (Converted, Closed Lost,
// In Sequence) sit outside the automatic ordering and rank highest/lowest by
// their business meaning.
var pipelineRank = map[Stage]int{
	StageCold:        0,
	StageNew:         1,
	StageInSequence:  1,
	StageEngaged:     2,
	StageQualified:   3,
	StageHighIntent:  4,
	StageBookingMade: 5,
	StageClosedLost:  6,
	StageConverted:   6,
}

var knownStages = map[Stage]struct{}{
	StageNew:         {},
	StageEngaged:     {},
	StageQualified:   {},
	StageHighIntent:  {},
	StageBookingMade: {},
	StageConverted:   {},
	StageClosedLost:  {},
	StageInSequence:  {},
	StageCold:        {},
}

var knownSubStages = map[SubStage]struct{}{
	SubStageProposal:    {},
	SubStageNegotiation: {},
	SubStageOnHold:      {},
}

// IsKnownStage reports whether stage is a member of the closed stage enum.
func IsKnownStage(stage Stage) bool {
	_, ok := knownStages[stage]
	return ok
}

// IsKnownSubStage reports whether sub is a valid High Intent refinement.
func IsKnownSubStage(sub SubStage) bool {
	_, ok := knownSubStages[sub]
	return ok
}

// IsTerminal reports whether a lead in this stage has left the pipeline.
// Terminal leads are excluded from batch rescoring.
func (s Stage) IsTerminal() bool {
	return s == StageConverted || s == StageClosedLost
}

// Rank returns the pipeline position used for monotonicity checks. Unknown
// stages rank -1.
func (s Stage) Rank() int {
	rank, ok := pipelineRank[s]
	if !ok {
		return -1
	}
	return rank
}

// CarriesSubStage reports whether this stage may carry a sub-stage.
func (s Stage) CarriesSubStage() bool {
	return s == StageHighIntent
}
