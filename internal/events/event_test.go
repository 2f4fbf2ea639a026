package events

import (
	"context"
	"testing"

	"leadflow_backend/platform/logger"

	"github.com/google/uuid"
)

// The composition roots build the bus through this package's re-exports, so
// constructing and round-tripping a domain event here guards that surface.
func TestInMemoryBusDeliversDomainEvents(t *testing.T) {
	bus := NewInMemoryBus(logger.New("development"))

	var received []Event
	bus.Subscribe(MessageCreated{}.EventName(), HandlerFunc(func(_ context.Context, e Event) error {
		received = append(received, e)
		return nil
	}))

	event := MessageCreated{
		BaseEvent: NewBaseEvent(),
		LeadID:    uuid.New(),
		BrandID:   "brand-1",
	}
	if err := bus.PublishSync(context.Background(), event); err != nil {
		t.Fatalf("PublishSync() error = %v", err)
	}

	if len(received) != 1 {
		t.Fatalf("handler received %d events, want 1", len(received))
	}
	got, ok := received[0].(MessageCreated)
	if !ok {
		t.Fatalf("handler received %T, want MessageCreated", received[0])
	}
	if got.LeadID != event.LeadID {
		t.Errorf("LeadID = %s, want %s", got.LeadID, event.LeadID)
	}
}

func TestEventNamesAreStable(t *testing.T) {
	cases := map[string]Event{
		"leads.lead.created":      LeadCreated{},
		"leads.message.created":   MessageCreated{},
		"leads.stage.changed":     StageChanged{},
		"leads.override.removed":  OverrideRemoved{},
		"rescore.sweep.completed": RescoreSweepCompleted{},
	}
	for want, event := range cases {
		if got := event.EventName(); got != want {
			t.Errorf("EventName() = %q, want %q", got, want)
		}
	}
}
