package service

import (
	"context"
	"errors"

	"leadflow_backend/internal/events"
	"leadflow_backend/internal/leads/domain"
	"leadflow_backend/internal/leads/intake"
	"leadflow_backend/internal/leads/repository"
	"leadflow_backend/platform/apperr"
)

// IngestResult reports what an inbound event did to the lead base.
type IngestResult struct {
	Lead      repository.Lead
	Created   bool
	Duplicate bool
}

// IngestEvent runs the write path for one inbound channel event: normalize,
// dedupe, resolve or create the lead, merge the channel fragment into the
// unified context, append the message, and notify scoring through the bus.
func (s *Service) IngestEvent(ctx context.Context, raw intake.RawEvent) (IngestResult, error) {
	normalized, err := intake.Normalize(raw)
	if err != nil {
		return IngestResult{}, err
	}

	if normalized.EventID != "" {
		first, err := s.dedupe.FirstSeen(ctx, normalized.BrandID+":"+normalized.EventID)
		if err != nil {
			// The guard degrades to accepting the event; a reprocessed
			// duplicate merge is idempotent anyway.
			s.log.Error("dedupe check failed, accepting event", "error", err, "eventId", normalized.EventID)
		} else if !first {
			lead, err := s.findLead(ctx, normalized)
			if err != nil {
				return IngestResult{}, err
			}
			return IngestResult{Lead: lead, Duplicate: true}, nil
		}
	}

	lead, created, err := s.findOrCreateLead(ctx, normalized)
	if err != nil {
		return IngestResult{}, err
	}

	lead, err = s.mergeContext(ctx, lead, normalized)
	if err != nil {
		return IngestResult{}, err
	}

	if normalized.Content != "" {
		_, err = s.repo.AppendMessage(ctx, repository.AppendMessageParams{
			LeadID:  lead.ID,
			Sender:  normalized.Sender,
			Channel: normalized.Channel,
			Content: normalized.Content,
		})
		if err != nil {
			return IngestResult{}, s.storeErr("append message", err)
		}
	}

	if created {
		s.bus.Publish(ctx, events.LeadCreated{
			BaseEvent: events.NewBaseEvent(),
			LeadID:    lead.ID,
			BrandID:   lead.BrandID,
			Channel:   normalized.Channel,
		})
	}
	s.bus.Publish(ctx, events.MessageCreated{
		BaseEvent: events.NewBaseEvent(),
		LeadID:    lead.ID,
		BrandID:   lead.BrandID,
		Channel:   normalized.Channel,
		Sender:    normalized.Sender,
	})

	return IngestResult{Lead: lead, Created: created}, nil
}

func (s *Service) findLead(ctx context.Context, normalized intake.Normalized) (repository.Lead, error) {
	if normalized.Identity.Phone != "" {
		lead, err := s.repo.GetByPhone(ctx, normalized.BrandID, normalized.Identity.Phone)
		if err == nil {
			return lead, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return repository.Lead{}, s.storeErr("get lead by phone", err)
		}
	}
	if normalized.Identity.Email != "" {
		lead, err := s.repo.GetByEmail(ctx, normalized.BrandID, normalized.Identity.Email)
		if err == nil {
			return lead, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return repository.Lead{}, s.storeErr("get lead by email", err)
		}
	}
	return repository.Lead{}, s.storeErr("find lead", repository.ErrNotFound)
}

func (s *Service) findOrCreateLead(ctx context.Context, normalized intake.Normalized) (repository.Lead, bool, error) {
	lead, err := s.findLead(ctx, normalized)
	if err == nil {
		return lead, false, nil
	}
	if !apperr.Is(err, apperr.KindNotFound) {
		return repository.Lead{}, false, err
	}

	var email *string
	if normalized.Identity.Email != "" {
		email = &normalized.Identity.Email
	}
	channel := normalized.Channel

	created, err := s.repo.Create(ctx, repository.CreateLeadParams{
		BrandID:         normalized.BrandID,
		Name:            normalized.Identity.Name,
		Phone:           normalized.Identity.Phone,
		Email:           email,
		FirstTouchpoint: &channel,
		LastTouchpoint:  &channel,
		LeadStage:       domain.StageNew,
	})
	if err != nil {
		return repository.Lead{}, false, s.storeErr("create lead", err)
	}
	return created, true, nil
}

// mergeContext folds the event's fragment into the unified context and
// refreshes the derived booking and touchpoint fields. first_touchpoint is
// immutable once set.
func (s *Service) mergeContext(ctx context.Context, lead repository.Lead, normalized intake.Normalized) (repository.Lead, error) {
	unified := lead.UnifiedContext
	unified.Merge(normalized.Channel, normalized.Fragment, s.now())

	bookingDate, bookingTime := unified.ResolveBooking()

	first := lead.FirstTouchpoint
	if first == nil {
		ch := normalized.Channel
		first = &ch
	}
	last := normalized.Channel

	updated, err := s.repo.UpdateContext(ctx, lead.ID, repository.UpdateContextParams{
		UnifiedContext:  unified,
		BookingDate:     bookingDate,
		BookingTime:     bookingTime,
		FirstTouchpoint: first,
		LastTouchpoint:  &last,
	})
	if err != nil {
		return repository.Lead{}, s.storeErr("update context", err)
	}
	return updated, nil
}
