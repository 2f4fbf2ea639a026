package scoring

import (
	"os"
	"path/filepath"
	"testing"

	"leadflow_backend/internal/leads/domain"
	"leadflow_backend/internal/leads/repository"
)

func TestStageForBoundaries(t *testing.T) {
	thresholds := DefaultThresholds()

	cases := []struct {
		score int
		want  domain.Stage
	}{
		{0, domain.StageCold},
		{14, domain.StageCold},
		{15, domain.StageNew},
		{29, domain.StageNew},
		{30, domain.StageEngaged},
		{50, domain.StageQualified},
		{69, domain.StageQualified},
		{70, domain.StageHighIntent},
		{84, domain.StageHighIntent},
		{85, domain.StageBookingMade},
		{100, domain.StageBookingMade},
	}
	for _, tc := range cases {
		if got := thresholds.StageFor(tc.score); got != tc.want {
			t.Errorf("StageFor(%d) = %q, want %q", tc.score, got, tc.want)
		}
	}
}

func TestStageForIsMonotonic(t *testing.T) {
	thresholds := DefaultThresholds()

	prev := thresholds.StageFor(0)
	for score := 1; score <= 100; score++ {
		cur := thresholds.StageFor(score)
		if cur.Rank() < prev.Rank() {
			t.Fatalf("stage rank regressed from %q to %q at score %d", prev, cur, score)
		}
		prev = cur
	}
}

func TestLoadThresholdsFromFile(t *testing.T) {
	path := writeThresholds(t, `thresholds:
  - stage: Cold
    min_score: 0
  - stage: New
    min_score: 20
  - stage: Engaged
    min_score: 40
  - stage: Qualified
    min_score: 60
  - stage: High Intent
    min_score: 80
`)

	thresholds, err := LoadThresholds(path)
	if err != nil {
		t.Fatalf("LoadThresholds: %v", err)
	}
	if got := thresholds.StageFor(75); got != domain.StageQualified {
		t.Fatalf("StageFor(75) = %q, want %q", got, domain.StageQualified)
	}
	if got := thresholds.StageFor(80); got != domain.StageHighIntent {
		t.Fatalf("StageFor(80) = %q, want %q", got, domain.StageHighIntent)
	}
}

func TestLoadThresholdsRejectsBadTables(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{
			name: "non-monotonic scores",
			yaml: `thresholds:
  - stage: Cold
    min_score: 0
  - stage: New
    min_score: 40
  - stage: Engaged
    min_score: 30
`,
		},
		{
			name: "stage order regression",
			yaml: `thresholds:
  - stage: Cold
    min_score: 0
  - stage: Qualified
    min_score: 30
  - stage: Engaged
    min_score: 60
`,
		},
		{
			name: "manual-only stage",
			yaml: `thresholds:
  - stage: Cold
    min_score: 0
  - stage: Converted
    min_score: 50
`,
		},
		{
			name: "unknown stage",
			yaml: `thresholds:
  - stage: Lukewarm
    min_score: 0
`,
		},
		{
			name: "missing zero floor",
			yaml: `thresholds:
  - stage: Cold
    min_score: 10
`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeThresholds(t, tc.yaml)
			if _, err := LoadThresholds(path); err == nil {
				t.Fatal("expected validation error, got nil")
			}
		})
	}
}

func writeThresholds(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "thresholds.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write thresholds: %v", err)
	}
	return path
}

func TestClassifyBookingGate(t *testing.T) {
	classifier := NewClassifier(nil)
	booked := true

	noBooking := &repository.Lead{}
	if got := classifier.Classify(noBooking, 90); got.Stage != domain.StageHighIntent {
		t.Fatalf("stage without booking = %q, want %q", got.Stage, domain.StageHighIntent)
	}

	withBooking := &repository.Lead{
		UnifiedContext: domain.UnifiedContext{
			Channels: map[domain.Channel]domain.ChannelContext{
				domain.ChannelWeb: {BookingStatus: &booked},
			},
		},
	}
	if got := classifier.Classify(withBooking, 90); got.Stage != domain.StageBookingMade {
		t.Fatalf("stage with booking = %q, want %q", got.Stage, domain.StageBookingMade)
	}
}

func TestClassifySubStage(t *testing.T) {
	classifier := NewClassifier(nil)

	fresh := &repository.Lead{LeadStage: domain.StageQualified}
	got := classifier.Classify(fresh, 75)
	if got.Stage != domain.StageHighIntent || got.SubStage != domain.SubStageProposal {
		t.Fatalf("first entry = %q/%q, want High Intent/proposal", got.Stage, got.SubStage)
	}

	negotiating := &repository.Lead{
		LeadStage: domain.StageHighIntent,
		SubStage:  domain.SubStageNegotiation,
	}
	got = classifier.Classify(negotiating, 78)
	if got.SubStage != domain.SubStageNegotiation {
		t.Fatalf("sub-stage = %q, want %q", got.SubStage, domain.SubStageNegotiation)
	}

	demoted := classifier.Classify(negotiating, 40)
	if demoted.Stage != domain.StageEngaged || demoted.SubStage != domain.SubStageNone {
		t.Fatalf("demoted = %q/%q, want Engaged with no sub-stage", demoted.Stage, demoted.SubStage)
	}
}

func TestClassifyNeverEmitsManualStages(t *testing.T) {
	classifier := NewClassifier(nil)
	lead := &repository.Lead{LeadStage: domain.StageConverted}

	for score := 0; score <= 100; score += 5 {
		got := classifier.Classify(lead, score)
		if got.Stage.IsTerminal() || got.Stage == domain.StageInSequence {
			t.Fatalf("classifier emitted manual-only stage %q at score %d", got.Stage, score)
		}
	}
}
