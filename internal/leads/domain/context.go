package domain

import "time"

// ChannelContext is one channel's latest known conversation and booking
// facts. All fields are optional; nil means "not reported", never a default.
type ChannelContext struct {
	ConversationSummary *string    `json:"conversation_summary,omitempty"`
	MessageCount        *int       `json:"message_count,omitempty"`
	LastInteraction     *time.Time `json:"last_interaction,omitempty"`
	BookingStatus       *bool      `json:"booking_status,omitempty"`
	BookingDate         *string    `json:"booking_date,omitempty"`
	BookingTime         *string    `json:"booking_time,omitempty"`
}

// HasBooking reports whether this channel currently reports a booking.
func (c ChannelContext) HasBooking() bool {
	if c.BookingStatus != nil && *c.BookingStatus {
		return true
	}
	return c.BookingDate != nil
}

// Fragment is the normalized output of one inbound channel event. Nil fields
// are absent from the event and must not overwrite previous values.
type Fragment struct {
	ConversationSummary *string
	MessageCount        *int
	BookingStatus       *bool
	BookingDate         *string
	BookingTime         *string
	// Timestamp is the caller-supplied interaction time; when nil the merge
	// stamps the current time.
	Timestamp *time.Time
}

// UnifiedContext is the per-lead mapping from channel to that channel's
// latest known facts, plus the optional cosmetic cross-channel summary.
type UnifiedContext struct {
	Channels       map[Channel]ChannelContext `json:"channels,omitempty"`
	UnifiedSummary *string                    `json:"unified_summary,omitempty"`
}

// Merge folds one channel's fragment into the unified context. Only the keys
// present in the fragment overwrite; sibling channels are never touched.
// last_interaction is always stamped, from the fragment timestamp or now.
// Merging the same fragment twice yields the same context.
func (uc *UnifiedContext) Merge(ch Channel, frag Fragment, now time.Time) {
	if uc.Channels == nil {
		uc.Channels = make(map[Channel]ChannelContext)
	}

	cc := uc.Channels[ch]

	if frag.ConversationSummary != nil {
		cc.ConversationSummary = frag.ConversationSummary
	}
	if frag.MessageCount != nil {
		cc.MessageCount = frag.MessageCount
	}
	if frag.BookingStatus != nil {
		cc.BookingStatus = frag.BookingStatus
	}
	if frag.BookingDate != nil {
		cc.BookingDate = frag.BookingDate
	}
	if frag.BookingTime != nil {
		cc.BookingTime = frag.BookingTime
	}

	stamp := now
	if frag.Timestamp != nil {
		stamp = *frag.Timestamp
	}
	cc.LastInteraction = &stamp

	uc.Channels[ch] = cc
}

// ResolveBooking returns the booking date/time of the most recently updated
// channel among those reporting a booking. Ties on last_interaction are
// broken by the fixed channel order, keeping resolution deterministic.
func (uc UnifiedContext) ResolveBooking() (bookingDate, bookingTime *string) {
	var best *ChannelContext
	var bestAt time.Time

	for _, ch := range Channels {
		cc, ok := uc.Channels[ch]
		if !ok || !cc.HasBooking() {
			continue
		}

		at := time.Time{}
		if cc.LastInteraction != nil {
			at = *cc.LastInteraction
		}

		if best == nil || at.After(bestAt) {
			copied := cc
			best = &copied
			bestAt = at
		}
	}

	if best == nil {
		return nil, nil
	}
	return best.BookingDate, best.BookingTime
}

// HasBooking reports whether any channel currently reports a booking.
func (uc UnifiedContext) HasBooking() bool {
	for _, cc := range uc.Channels {
		if cc.HasBooking() {
			return true
		}
	}
	return false
}

// LastInteraction returns the most recent interaction timestamp across all
// channels, or nil when no channel has interacted.
func (uc UnifiedContext) LastInteraction() *time.Time {
	var latest *time.Time
	for _, ch := range Channels {
		cc, ok := uc.Channels[ch]
		if !ok || cc.LastInteraction == nil {
			continue
		}
		if latest == nil || cc.LastInteraction.After(*latest) {
			latest = cc.LastInteraction
		}
	}
	return latest
}

// EngagedChannels counts channels with any recorded interaction.
func (uc UnifiedContext) EngagedChannels() int {
	count := 0
	for _, cc := range uc.Channels {
		if cc.LastInteraction != nil || cc.MessageCount != nil || cc.ConversationSummary != nil {
			count++
		}
	}
	return count
}

// ChannelSummaries returns the non-empty conversation summaries keyed by
// channel name, for the cosmetic unified summary generator.
func (uc UnifiedContext) ChannelSummaries() map[string]string {
	out := make(map[string]string)
	for ch, cc := range uc.Channels {
		if cc.ConversationSummary != nil && *cc.ConversationSummary != "" {
			out[string(ch)] = *cc.ConversationSummary
		}
	}
	return out
}
