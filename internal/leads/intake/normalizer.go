// Package intake normalizes raw inbound channel events into canonical
// per-channel context fragments. Normalization is pure: persistence happens
// in the service layer after a successful merge.
package intake

import (
	"regexp"
	"strings"
	"time"

	"leadflow_backend/internal/leads/domain"
	"leadflow_backend/platform/apperr"
	"leadflow_backend/platform/phone"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// RawEvent is an inbound event as delivered by a channel adapter.
type RawEvent struct {
	BrandID string
	Channel string
	EventID string

	ContactName  string
	ContactPhone string
	ContactEmail string

	Sender  string
	Content string

	ConversationSummary *string
	MessageCount        *int
	BookingStatus       *bool
	BookingDate         *string
	BookingTime         *string
	Timestamp           *time.Time
}

// Identity is the canonical lead identity extracted from an event.
// Phone is digits-only; either Phone or Email is guaranteed non-empty.
type Identity struct {
	Name  string
	Phone string
	Email string
}

// Normalized is the canonical form of an inbound event.
type Normalized struct {
	BrandID  string
	Channel  domain.Channel
	EventID  string
	Identity Identity
	Sender   domain.Sender
	Content  string
	Fragment domain.Fragment
}

// Normalize validates and canonicalizes a raw channel event. Payloads missing
// the minimum identity (name plus phone or email) are rejected before any
// lead is created. Optional fields stay nil; a missing booking is never
// defaulted to false.
func Normalize(raw RawEvent) (Normalized, error) {
	if strings.TrimSpace(raw.BrandID) == "" {
		return Normalized{}, apperr.Validation("brand id is required")
	}

	ch := domain.Channel(strings.ToLower(strings.TrimSpace(raw.Channel)))
	if !domain.IsKnownChannel(ch) {
		return Normalized{}, apperr.Validation("unknown channel: " + raw.Channel)
	}

	identity, err := extractIdentity(raw)
	if err != nil {
		return Normalized{}, err
	}

	sender := domain.Sender(strings.ToLower(strings.TrimSpace(raw.Sender)))
	if raw.Sender == "" {
		sender = domain.SenderCustomer
	} else if !domain.IsKnownSender(sender) {
		return Normalized{}, apperr.Validation("unknown sender: " + raw.Sender)
	}

	return Normalized{
		BrandID:  strings.TrimSpace(raw.BrandID),
		Channel:  ch,
		EventID:  strings.TrimSpace(raw.EventID),
		Identity: identity,
		Sender:   sender,
		Content:  strings.TrimSpace(raw.Content),
		Fragment: domain.Fragment{
			ConversationSummary: trimmedOrNil(raw.ConversationSummary),
			MessageCount:        raw.MessageCount,
			BookingStatus:       raw.BookingStatus,
			BookingDate:         trimmedOrNil(raw.BookingDate),
			BookingTime:         trimmedOrNil(raw.BookingTime),
			Timestamp:           raw.Timestamp,
		},
	}, nil
}

func extractIdentity(raw RawEvent) (Identity, error) {
	name := strings.TrimSpace(raw.ContactName)
	phoneDigits := phone.NormalizeDigits(raw.ContactPhone)
	email := strings.ToLower(strings.TrimSpace(raw.ContactEmail))

	if email != "" && !emailRegex.MatchString(email) {
		email = ""
	}

	if name == "" || (phoneDigits == "" && email == "") {
		return Identity{}, apperr.Validation("event is missing lead identity (name plus phone or email)")
	}

	return Identity{Name: name, Phone: phoneDigits, Email: email}, nil
}

func trimmedOrNil(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
