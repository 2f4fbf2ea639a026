package intake

import (
	"testing"
	"time"

	"leadflow_backend/internal/leads/domain"
)

func validEvent() RawEvent {
	return RawEvent{
		BrandID:      "brand-1",
		Channel:      "web",
		EventID:      "evt-1",
		ContactName:  "Jane Smith",
		ContactPhone: "+31 6 1234 5678",
		Sender:       "customer",
		Content:      "hello",
	}
}

func TestNormalizeValidEvent(t *testing.T) {
	got, err := Normalize(validEvent())
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if got.Channel != domain.ChannelWeb {
		t.Errorf("channel = %q", got.Channel)
	}
	if got.Identity.Phone != "31612345678" {
		t.Errorf("phone = %q, want digits only", got.Identity.Phone)
	}
	if got.Sender != domain.SenderCustomer {
		t.Errorf("sender = %q", got.Sender)
	}
}

func TestNormalizeRejectsMissingIdentity(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*RawEvent)
	}{
		{"no name", func(e *RawEvent) { e.ContactName = "  " }},
		{"no phone or email", func(e *RawEvent) { e.ContactPhone = ""; e.ContactEmail = "" }},
		{"invalid email only", func(e *RawEvent) { e.ContactPhone = ""; e.ContactEmail = "not-an-email" }},
		{"no brand", func(e *RawEvent) { e.BrandID = "" }},
		{"unknown channel", func(e *RawEvent) { e.Channel = "carrier-pigeon" }},
		{"unknown sender", func(e *RawEvent) { e.Sender = "bot" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			raw := validEvent()
			tc.mutate(&raw)
			if _, err := Normalize(raw); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestNormalizeAcceptsEmailOnlyIdentity(t *testing.T) {
	raw := validEvent()
	raw.ContactPhone = ""
	raw.ContactEmail = "Jane.Smith@Example.COM"

	got, err := Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if got.Identity.Email != "jane.smith@example.com" {
		t.Errorf("email = %q, want lowercased", got.Identity.Email)
	}
	if got.Identity.Phone != "" {
		t.Errorf("phone = %q, want empty", got.Identity.Phone)
	}
}

func TestNormalizeDefaultsSenderToCustomer(t *testing.T) {
	raw := validEvent()
	raw.Sender = ""

	got, err := Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if got.Sender != domain.SenderCustomer {
		t.Errorf("sender = %q, want customer default", got.Sender)
	}
}

func TestNormalizeKeepsOptionalFieldsNil(t *testing.T) {
	got, err := Normalize(validEvent())
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	frag := got.Fragment
	if frag.BookingStatus != nil {
		t.Error("missing booking status must stay nil, not default to false")
	}
	if frag.ConversationSummary != nil || frag.MessageCount != nil || frag.Timestamp != nil {
		t.Errorf("absent optional fields must stay nil: %+v", frag)
	}
}

func TestNormalizeTrimsFragmentStrings(t *testing.T) {
	summary := "  spoke about pricing  "
	blank := "   "
	ts := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	raw := validEvent()
	raw.ConversationSummary = &summary
	raw.BookingDate = &blank
	raw.Timestamp = &ts

	got, err := Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if got.Fragment.ConversationSummary == nil || *got.Fragment.ConversationSummary != "spoke about pricing" {
		t.Errorf("summary = %v, want trimmed", got.Fragment.ConversationSummary)
	}
	if got.Fragment.BookingDate != nil {
		t.Error("blank booking date must normalize to nil")
	}
	if got.Fragment.Timestamp == nil || !got.Fragment.Timestamp.Equal(ts) {
		t.Errorf("timestamp = %v, want %v", got.Fragment.Timestamp, ts)
	}
}
