package scoring

import (
	"fmt"
	"os"

	"leadflow_backend/internal/leads/domain"
	"leadflow_backend/platform/apperr"

	"gopkg.in/yaml.v3"
)

// ThresholdEntry maps a minimum score to the stage it unlocks.
type ThresholdEntry struct {
	Stage    domain.Stage `yaml:"stage"`
	MinScore int          `yaml:"min_score"`
}

// Thresholds is the score to stage lookup table used by the classifier.
// Entries are kept in ascending min_score order, which validation enforces.
type Thresholds struct {
	entries []ThresholdEntry
}

type thresholdsFile struct {
	Thresholds []ThresholdEntry `yaml:"thresholds"`
}

// DefaultThresholds returns the built-in table used when no override file is
// configured.
func DefaultThresholds() *Thresholds {
	t := &Thresholds{entries: []ThresholdEntry{
		{Stage: domain.StageCold, MinScore: 0},
		{Stage: domain.StageNew, MinScore: 15},
		{Stage: domain.StageEngaged, MinScore: 30},
		{Stage: domain.StageQualified, MinScore: 50},
		{Stage: domain.StageHighIntent, MinScore: 70},
		{Stage: domain.StageBookingMade, MinScore: 85},
	}}
	if err := t.validate(); err != nil {
		panic(err)
	}
	return t
}

// LoadThresholds reads a YAML table from path. An empty path returns the
// defaults. Invalid tables are rejected at load time so a bad deploy fails
// fast instead of misclassifying leads.
func LoadThresholds(path string) (*Thresholds, error) {
	if path == "" {
		return DefaultThresholds(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read thresholds file: %w", err)
	}

	var file thresholdsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse thresholds file: %w", err)
	}

	t := &Thresholds{entries: file.Thresholds}
	if err := t.validate(); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Thresholds) validate() error {
	if len(t.entries) == 0 {
		return apperr.Validation("threshold table is empty")
	}
	if t.entries[0].MinScore != 0 {
		return apperr.Validation("threshold table must start at min_score 0")
	}
	for i, e := range t.entries {
		if !domain.IsKnownStage(e.Stage) {
			return apperr.Validation(fmt.Sprintf("unknown stage %q in threshold table", e.Stage))
		}
		if e.Stage.IsTerminal() || e.Stage == domain.StageInSequence {
			return apperr.Validation(fmt.Sprintf("stage %q cannot be reached automatically", e.Stage))
		}
		if i == 0 {
			continue
		}
		prev := t.entries[i-1]
		if e.MinScore <= prev.MinScore {
			return apperr.Validation(fmt.Sprintf("threshold table not monotonic: %q at %d after %q at %d",
				e.Stage, e.MinScore, prev.Stage, prev.MinScore))
		}
		if e.Stage.Rank() <= prev.Stage.Rank() {
			return apperr.Validation(fmt.Sprintf("stage order not monotonic: %q follows %q", e.Stage, prev.Stage))
		}
	}
	return nil
}

// StageFor returns the highest stage whose min_score the given score meets.
func (t *Thresholds) StageFor(score int) domain.Stage {
	stage := t.entries[0].Stage
	for _, e := range t.entries {
		if score >= e.MinScore {
			stage = e.Stage
		}
	}
	return stage
}
