// Package service implements the lead lifecycle use cases: event ingestion,
// scoring, classification, and manual stage control.
package service

import (
	"context"
	"errors"
	"time"

	"leadflow_backend/internal/events"
	"leadflow_backend/internal/leads/repository"
	"leadflow_backend/internal/leads/scoring"
	"leadflow_backend/platform/ai/summarizer"
	"leadflow_backend/platform/apperr"
	"leadflow_backend/platform/dedupe"
	"leadflow_backend/platform/logger"

	"github.com/google/uuid"
)

type Service struct {
	repo       repository.Store
	bus        events.Bus
	classifier *scoring.Classifier
	dedupe     *dedupe.Guard
	summarizer summarizer.Summarizer
	log        *logger.Logger
	now        func() time.Time
}

func New(repo repository.Store, bus events.Bus, classifier *scoring.Classifier, guard *dedupe.Guard, sum summarizer.Summarizer, log *logger.Logger) *Service {
	if sum == nil {
		sum = summarizer.Disabled{}
	}
	return &Service{
		repo:       repo,
		bus:        bus,
		classifier: classifier,
		dedupe:     guard,
		summarizer: sum,
		log:        log,
		now:        time.Now,
	}
}

// GetLead returns the lead with its active override, if any.
func (s *Service) GetLead(ctx context.Context, brandID string, id uuid.UUID) (repository.Lead, *repository.StageOverride, error) {
	lead, err := s.repo.GetByID(ctx, brandID, id)
	if err != nil {
		return repository.Lead{}, nil, s.storeErr("get lead", err)
	}

	override, err := s.repo.GetActiveOverride(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return lead, nil, nil
	}
	if err != nil {
		return repository.Lead{}, nil, s.storeErr("get active override", err)
	}
	return lead, &override, nil
}

// ListStageChanges returns the audit trail for a lead, newest first.
func (s *Service) ListStageChanges(ctx context.Context, brandID string, id uuid.UUID, limit int) ([]repository.StageChange, error) {
	if _, err := s.repo.GetByID(ctx, brandID, id); err != nil {
		return nil, s.storeErr("get lead", err)
	}

	changes, err := s.repo.ListStageChanges(ctx, id, limit)
	if err != nil {
		return nil, s.storeErr("list stage changes", err)
	}
	return changes, nil
}

// storeErr maps repository failures onto the error taxonomy: unknown ids are
// NotFound, anything else means the store is misbehaving.
func (s *Service) storeErr(op string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound("lead not found").WithOp(op)
	}
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return err
	}
	s.log.DatabaseError(op, err)
	return apperr.Dependency("lead store unavailable", err).WithOp(op)
}
