package scoring

import (
	"testing"
	"time"

	"leadflow_backend/internal/leads/domain"
	"leadflow_backend/internal/leads/repository"
)

func strPtr(s string) *string { return &s }

func msg(sender domain.Sender, channel domain.Channel, content string, at time.Time) repository.Message {
	return repository.Message{Sender: sender, Channel: channel, Content: content, CreatedAt: at}
}

func TestCalculateEmptyLeadScoresZero(t *testing.T) {
	lead := &repository.Lead{}

	got := Calculate(lead, nil, time.Now())

	if got.Score != 0 {
		t.Fatalf("expected score 0, got %d", got.Score)
	}
	if got.Breakdown.AI != 0 || got.Breakdown.Activity != 0 || got.Breakdown.Business != 0 {
		t.Fatalf("expected zero breakdown, got %+v", got.Breakdown)
	}
	if got.DaysInactive != daysInactiveSentinel {
		t.Fatalf("expected sentinel days inactive, got %d", got.DaysInactive)
	}
}

func TestCalculateEngagedLead(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	lead := &repository.Lead{
		Phone: "31612345678",
		Email: strPtr("jane@example.com"),
		UnifiedContext: domain.UnifiedContext{
			Channels: map[domain.Channel]domain.ChannelContext{
				domain.ChannelWeb:      {LastInteraction: &now},
				domain.ChannelWhatsApp: {LastInteraction: &now},
			},
		},
	}

	messages := []repository.Message{
		msg(domain.SenderCustomer, domain.ChannelWeb, "hi, can we book a demo", now),
		msg(domain.SenderAgent, domain.ChannelWeb, "sure, I can help with that", now),
		msg(domain.SenderCustomer, domain.ChannelWeb, "how much does it cost", now),
		msg(domain.SenderAgent, domain.ChannelWeb, "I will look that up for you", now),
		msg(domain.SenderCustomer, domain.ChannelWhatsApp, "ok", now),
		msg(domain.SenderAgent, domain.ChannelWhatsApp, "one moment", now),
		msg(domain.SenderCustomer, domain.ChannelWhatsApp, "following up here", now),
		msg(domain.SenderAgent, domain.ChannelWhatsApp, "noted", now),
		msg(domain.SenderCustomer, domain.ChannelWeb, "any update", now),
		msg(domain.SenderAgent, domain.ChannelWeb, "will get back to you", now),
	}

	got := Calculate(lead, messages, now)

	// Two of three intent categories hit (booking, pricing), neutral
	// sentiment, one buying phrase:
	// ai_raw = 0.4*66.67 + 0.3*50 + 0.3*20 = 47.67 -> round(47.67*0.6) = 29.
	if got.Breakdown.AI != 29 {
		t.Errorf("ai contribution = %d, want 29", got.Breakdown.AI)
	}

	// Volume 5/100, response 5/5, recency 1.0, multi-channel bonus 0.1:
	// (0.05+1+1+0.1)/3 = 0.7167 -> round(71.67*0.3) = 22.
	if got.Breakdown.Activity != 22 {
		t.Errorf("activity contribution = %d, want 22", got.Breakdown.Activity)
	}

	// No booking, +5 email, +5 multichannel.
	if got.Breakdown.Business != 10 {
		t.Errorf("business contribution = %d, want 10", got.Breakdown.Business)
	}

	if got.Score != 61 {
		t.Errorf("score = %d, want 61", got.Score)
	}
	if got.DaysInactive != 0 {
		t.Errorf("days inactive = %d, want 0", got.DaysInactive)
	}
}

func TestCalculateBreakdownSumsToScore(t *testing.T) {
	now := time.Now()
	booked := true

	leads := []struct {
		name     string
		lead     *repository.Lead
		messages []repository.Message
	}{
		{
			name: "sparse",
			lead: &repository.Lead{Phone: "31612345678"},
			messages: []repository.Message{
				msg(domain.SenderCustomer, domain.ChannelWeb, "hello", now.Add(-40*24*time.Hour)),
			},
		},
		{
			name: "booked",
			lead: &repository.Lead{
				Phone: "31612345678",
				UnifiedContext: domain.UnifiedContext{
					Channels: map[domain.Channel]domain.ChannelContext{
						domain.ChannelVoice: {BookingStatus: &booked, LastInteraction: &now},
					},
				},
			},
			messages: []repository.Message{
				msg(domain.SenderCustomer, domain.ChannelVoice, "when can I come by, I am interested in the offer", now),
				msg(domain.SenderAgent, domain.ChannelVoice, "booked you in", now),
			},
		},
	}

	for _, tc := range leads {
		got := Calculate(tc.lead, tc.messages, now)
		sum := got.Breakdown.AI + got.Breakdown.Activity + got.Breakdown.Business
		if got.Score != sum {
			t.Errorf("%s: score %d != breakdown sum %d", tc.name, got.Score, sum)
		}
		if got.Score < 0 || got.Score > 100 {
			t.Errorf("%s: score %d out of range", tc.name, got.Score)
		}
	}
}

func TestCalculateScoreCapsAtHundred(t *testing.T) {
	now := time.Now()
	booked := true

	lead := &repository.Lead{
		Phone: "31612345678",
		Email: strPtr("max@example.com"),
		UnifiedContext: domain.UnifiedContext{
			Channels: map[domain.Channel]domain.ChannelContext{
				domain.ChannelWeb:      {LastInteraction: &now, BookingStatus: &booked},
				domain.ChannelWhatsApp: {LastInteraction: &now},
			},
		},
	}

	loaded := "urgent, please book a demo asap, what is the price and how much " +
		"is it, how much for two, how much upfront, when can we start, I am " +
		"interested in this and want to sign up, thanks thanks, perfect, " +
		"awesome, excellent, happy to proceed"

	var messages []repository.Message
	for i := 0; i < 100; i++ {
		messages = append(messages, msg(domain.SenderCustomer, domain.ChannelWeb, loaded, now))
		messages = append(messages, msg(domain.SenderAgent, domain.ChannelWeb, "on it", now))
	}

	got := Calculate(lead, messages, now)

	if got.Score != 100 {
		t.Fatalf("score = %d, want 100", got.Score)
	}
	sum := got.Breakdown.AI + got.Breakdown.Activity + got.Breakdown.Business
	if sum != got.Score {
		t.Fatalf("breakdown sum %d != score %d", sum, got.Score)
	}
}

func TestDaysSinceLastInteractionPrefersNewest(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	contextTime := now.Add(-10 * 24 * time.Hour)
	messageTime := now.Add(-2 * 24 * time.Hour)

	lead := &repository.Lead{
		UnifiedContext: domain.UnifiedContext{
			Channels: map[domain.Channel]domain.ChannelContext{
				domain.ChannelWeb: {LastInteraction: &contextTime},
			},
		},
	}
	messages := []repository.Message{
		msg(domain.SenderCustomer, domain.ChannelWeb, "hello", messageTime),
	}

	if got := daysSinceLastInteraction(lead, messages, now); got != 2 {
		t.Fatalf("days = %d, want 2", got)
	}
	if got := daysSinceLastInteraction(lead, nil, now); got != 10 {
		t.Fatalf("days = %d, want 10", got)
	}
}
