package scoring

import (
	"math"
	"strings"
	"time"

	"leadflow_backend/internal/leads/domain"
	"leadflow_backend/internal/leads/repository"
)

const (
	aiWeight       = 0.6
	activityWeight = 0.3
	businessCap    = 10

	// Used for the recency sub-metric when the lead has never interacted.
	daysInactiveSentinel = 999
)

// Breakdown carries the per-component contributions that sum to the total
// score (before the final cap at 100).
type Breakdown struct {
	AI       int `json:"ai"`
	Activity int `json:"activity"`
	Business int `json:"business"`
}

// Result is a complete scoring outcome for one lead.
type Result struct {
	Score        int       `json:"score"`
	Breakdown    Breakdown `json:"breakdown"`
	DaysInactive int       `json:"days_inactive"`
}

// Calculate scores a lead from its merged context and message history. It is
// a pure function: no I/O, deterministic for a fixed clock, and it never
// fails. A lead with no signals at all scores zero across the board.
func Calculate(lead *repository.Lead, messages []repository.Message, now time.Time) Result {
	if len(messages) == 0 && len(lead.UnifiedContext.Channels) == 0 {
		return Result{DaysInactive: daysInactiveSentinel}
	}

	text := collectText(lead, messages)
	days := daysSinceLastInteraction(lead, messages, now)

	ai := aiComponent(text)
	activity := activityComponent(lead, messages, days)
	business := businessComponent(lead)

	total := clampScore(ai + activity + business)

	return Result{
		Score:        total,
		Breakdown:    Breakdown{AI: ai, Activity: activity, Business: business},
		DaysInactive: days,
	}
}

// aiComponent weighs keyword driven sub-scores over the lowercased
// conversation text: intent 40%, sentiment 30%, buying signals 30%, then
// scales the blend by the component weight.
func aiComponent(text string) int {
	raw := 0.4*intentScore(text) + 0.3*sentimentScore(text) + 0.3*buyingSignalScore(text)
	return int(math.Round(raw * aiWeight))
}

// intentScore counts how many of the intent categories have at least one
// keyword hit, normalized to 0-100.
func intentScore(text string) float64 {
	hits := 0
	for _, keywords := range intentCategories {
		for _, kw := range keywords {
			if strings.Contains(text, kw) {
				hits++
				break
			}
		}
	}
	return float64(hits) / float64(len(intentCategories)) * 100
}

// sentimentScore starts from a neutral 50 and shifts 10 points per keyword
// occurrence toward whichever polarity dominates.
func sentimentScore(text string) float64 {
	positive := countOccurrences(text, positiveKeywords)
	negative := countOccurrences(text, negativeKeywords)
	if positive > negative {
		return math.Min(100, float64(50+10*positive))
	}
	return math.Max(0, float64(50-10*negative))
}

func buyingSignalScore(text string) float64 {
	count := countOccurrences(text, buyingSignalPhrases)
	return math.Min(100, float64(20*count))
}

// activityComponent blends message volume, agent responsiveness and recency,
// with a flat bonus for multi-channel engagement folded into the blend.
func activityComponent(lead *repository.Lead, messages []repository.Message, days int) int {
	customer, agent := 0, 0
	for _, m := range messages {
		switch m.Sender {
		case domain.SenderCustomer:
			customer++
		case domain.SenderAgent:
			agent++
		}
	}

	volume := clampFloat(float64(customer)/100, 0, 1)

	response := 0.0
	if customer > 0 {
		response = clampFloat(float64(agent)/float64(customer), 0, 1)
	}

	recency := clampFloat(1-float64(days)/30, 0, 1)

	bonus := 0.0
	if lead.UnifiedContext.EngagedChannels() >= 2 {
		bonus = 0.1
	}

	raw := (volume + response + recency + bonus) / 3
	scaled := math.Min(100, raw*100)
	return int(math.Round(scaled * activityWeight))
}

// businessComponent rewards hard conversion signals. The raw sum is capped
// at 20 and the contribution at 10 points.
func businessComponent(lead *repository.Lead) int {
	raw := 0
	if lead.UnifiedContext.HasBooking() {
		raw += 10
	}
	if lead.Phone != "" || (lead.Email != nil && *lead.Email != "") {
		raw += 5
	}
	if lead.UnifiedContext.EngagedChannels() >= 2 {
		raw += 5
	}
	if raw > 20 {
		raw = 20
	}
	if raw > businessCap {
		return businessCap
	}
	return raw
}

// collectText concatenates every channel summary and message body into one
// lowercased haystack for keyword matching.
func collectText(lead *repository.Lead, messages []repository.Message) string {
	var sb strings.Builder
	for _, summary := range lead.UnifiedContext.ChannelSummaries() {
		sb.WriteString(summary)
		sb.WriteString(" ")
	}
	if lead.UnifiedContext.UnifiedSummary != nil {
		sb.WriteString(*lead.UnifiedContext.UnifiedSummary)
		sb.WriteString(" ")
	}
	for _, m := range messages {
		sb.WriteString(m.Content)
		sb.WriteString(" ")
	}
	return strings.ToLower(sb.String())
}

// daysSinceLastInteraction prefers the merged context timestamp and falls
// back to the newest message. Leads with no interaction at all get the
// sentinel so recency bottoms out at zero.
func daysSinceLastInteraction(lead *repository.Lead, messages []repository.Message, now time.Time) int {
	last := lead.UnifiedContext.LastInteraction()
	for _, m := range messages {
		if last == nil || m.CreatedAt.After(*last) {
			t := m.CreatedAt
			last = &t
		}
	}
	if last == nil {
		return daysInactiveSentinel
	}
	days := int(now.Sub(*last).Hours() / 24)
	if days < 0 {
		days = 0
	}
	return days
}

func countOccurrences(text string, needles []string) int {
	total := 0
	for _, n := range needles {
		total += strings.Count(text, n)
	}
	return total
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
