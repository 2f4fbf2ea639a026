// Package leads provides the lead lifecycle bounded context module.
// This file defines the module that encapsulates all leads setup and route
// registration.
package leads

import (
	"context"

	"leadflow_backend/internal/events"
	apphttp "leadflow_backend/internal/http"
	"leadflow_backend/internal/leads/handler"
	"leadflow_backend/internal/leads/repository"
	"leadflow_backend/internal/leads/scoring"
	"leadflow_backend/internal/leads/service"
	"leadflow_backend/platform/ai/summarizer"
	"leadflow_backend/platform/config"
	"leadflow_backend/platform/dedupe"
	"leadflow_backend/platform/logger"
	"leadflow_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// Module is the leads bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	svc     *service.Service
}

// NewModule creates and initializes the leads module with all its dependencies.
func NewModule(pool *pgxpool.Pool, redisClient *redis.Client, eventBus events.Bus, val *validator.Validator, cfg *config.Config, log *logger.Logger) (*Module, error) {
	repo := repository.New(pool)

	thresholds, err := scoring.LoadThresholds(cfg.GetStageThresholdsPath())
	if err != nil {
		return nil, err
	}
	classifier := scoring.NewClassifier(thresholds)

	guard := dedupe.New(redisClient, cfg.GetDedupeTTL())

	var sum summarizer.Summarizer = summarizer.Disabled{}
	if cfg.IsSummaryEnabled() {
		gemini, err := summarizer.NewGemini(context.Background(), cfg.GetGeminiAPIKey())
		if err != nil {
			log.Error("summarizer init failed, continuing without summaries", "error", err)
		} else {
			sum = gemini
		}
	}

	svc := service.New(repo, eventBus, classifier, guard, sum, log)

	// Score new inbound messages in the background so the ingest response
	// never waits on scoring.
	eventBus.Subscribe(events.MessageCreated{}.EventName(), events.HandlerFunc(func(ctx context.Context, event events.Event) error {
		e, ok := event.(events.MessageCreated)
		if !ok {
			return nil
		}

		go func() {
			if _, err := svc.ScoreLead(context.Background(), e.BrandID, e.LeadID); err != nil {
				log.ScoringError(e.LeadID.String(), err)
			}
		}()

		return nil
	}))

	h := handler.New(svc, val)

	return &Module{handler: h, svc: svc}, nil
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "leads"
}

// RegisterRoutes mounts the leads routes on the shared v1 group.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.V1, ctx.IngestRateLimiter.RateLimit())
}

// Service exposes the lead service for non-HTTP consumers (the batch
// rescorer).
func (m *Module) Service() *service.Service {
	return m.svc
}
