package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"leadflow_backend/internal/leads/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("lead not found")

type Repository struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const leadColumns = `id, brand_id, name, phone, email, unified_context,
	booking_date, booking_time, first_touchpoint, last_touchpoint,
	lead_score, lead_stage, sub_stage, stage_override, last_scored_at,
	days_inactive, created_at, updated_at`

type CreateLeadParams struct {
	BrandID         string
	Name            string
	Phone           string
	Email           *string
	UnifiedContext  domain.UnifiedContext
	FirstTouchpoint *domain.Channel
	LastTouchpoint  *domain.Channel
	LeadStage       domain.Stage
}

func (r *Repository) Create(ctx context.Context, params CreateLeadParams) (Lead, error) {
	contextJSON, err := json.Marshal(params.UnifiedContext)
	if err != nil {
		return Lead{}, fmt.Errorf("marshal unified context: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
		INSERT INTO leads (
			brand_id, name, phone, email, unified_context,
			first_touchpoint, last_touchpoint, lead_stage
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+leadColumns+`
	`,
		params.BrandID, params.Name, params.Phone, params.Email, contextJSON,
		params.FirstTouchpoint, params.LastTouchpoint, params.LeadStage,
	)
	return scanLead(row)
}

func (r *Repository) GetByID(ctx context.Context, brandID string, id uuid.UUID) (Lead, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+leadColumns+`
		FROM leads
		WHERE id = $1 AND brand_id = $2
	`, id, brandID)

	lead, err := scanLead(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, ErrNotFound
	}
	return lead, err
}

// GetByPhone resolves a lead by its digits-only phone identity within one
// brand. Returns ErrNotFound when no lead matches.
func (r *Repository) GetByPhone(ctx context.Context, brandID, phone string) (Lead, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+leadColumns+`
		FROM leads
		WHERE brand_id = $1 AND phone = $2
	`, brandID, phone)

	lead, err := scanLead(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, ErrNotFound
	}
	return lead, err
}

// GetByEmail is the fallback identity lookup for channels that only carry an
// email address.
func (r *Repository) GetByEmail(ctx context.Context, brandID, email string) (Lead, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+leadColumns+`
		FROM leads
		WHERE brand_id = $1 AND email = $2
	`, brandID, email)

	lead, err := scanLead(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, ErrNotFound
	}
	return lead, err
}

type UpdateContextParams struct {
	UnifiedContext  domain.UnifiedContext
	BookingDate     *string
	BookingTime     *string
	FirstTouchpoint *domain.Channel
	LastTouchpoint  *domain.Channel
}

// UpdateContext persists a freshly merged unified context together with the
// touchpoints and booking fields derived from it.
func (r *Repository) UpdateContext(ctx context.Context, id uuid.UUID, params UpdateContextParams) (Lead, error) {
	contextJSON, err := json.Marshal(params.UnifiedContext)
	if err != nil {
		return Lead{}, fmt.Errorf("marshal unified context: %w", err)
	}

	row := r.pool.QueryRow(ctx, `
		UPDATE leads SET
			unified_context = $2,
			booking_date = $3,
			booking_time = $4,
			first_touchpoint = $5,
			last_touchpoint = $6,
			updated_at = now()
		WHERE id = $1
		RETURNING `+leadColumns+`
	`, id, contextJSON, params.BookingDate, params.BookingTime, params.FirstTouchpoint, params.LastTouchpoint)

	lead, err := scanLead(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, ErrNotFound
	}
	return lead, err
}

type UpdateScoreParams struct {
	Score        int
	Stage        domain.Stage
	SubStage     domain.SubStage
	DaysInactive int
	ScoredAt     time.Time
}

// UpdateScore writes a scoring outcome in one statement so a failed
// classification never leaves a half-updated lead behind.
func (r *Repository) UpdateScore(ctx context.Context, id uuid.UUID, params UpdateScoreParams) (Lead, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE leads SET
			lead_score = $2,
			lead_stage = $3,
			sub_stage = $4,
			days_inactive = $5,
			last_scored_at = $6,
			updated_at = now()
		WHERE id = $1
		RETURNING `+leadColumns+`
	`, id, params.Score, params.Stage, params.SubStage, params.DaysInactive, params.ScoredAt)

	lead, err := scanLead(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, ErrNotFound
	}
	return lead, err
}

// UpdateStage applies a manual stage change and flips the override flag.
func (r *Repository) UpdateStage(ctx context.Context, id uuid.UUID, stage domain.Stage, subStage domain.SubStage, override bool) (Lead, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE leads SET
			lead_stage = $2,
			sub_stage = $3,
			stage_override = $4,
			updated_at = now()
		WHERE id = $1
		RETURNING `+leadColumns+`
	`, id, stage, subStage, override)

	lead, err := scanLead(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Lead{}, ErrNotFound
	}
	return lead, err
}

// UpdateDaysInactive refreshes only the staleness counter, used by the sweep
// for leads whose classification is frozen by an override.
func (r *Repository) UpdateDaysInactive(ctx context.Context, id uuid.UUID, days int) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE leads SET days_inactive = $2, updated_at = now() WHERE id = $1
	`, id, days)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListNonTerminal returns every lead the batch sweep should visit, oldest
// scored first so chronically stale leads are refreshed before fresh ones.
func (r *Repository) ListNonTerminal(ctx context.Context) ([]Lead, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+leadColumns+`
		FROM leads
		WHERE lead_stage NOT IN ($1, $2)
		ORDER BY last_scored_at ASC NULLS FIRST, created_at ASC
	`, domain.StageConverted, domain.StageClosedLost)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	leads := make([]Lead, 0)
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}
	return leads, rows.Err()
}

func scanLead(row pgx.Row) (Lead, error) {
	var (
		lead        Lead
		contextJSON []byte
	)
	err := row.Scan(
		&lead.ID, &lead.BrandID, &lead.Name, &lead.Phone, &lead.Email, &contextJSON,
		&lead.BookingDate, &lead.BookingTime, &lead.FirstTouchpoint, &lead.LastTouchpoint,
		&lead.LeadScore, &lead.LeadStage, &lead.SubStage, &lead.StageOverride, &lead.LastScoredAt,
		&lead.DaysInactive, &lead.CreatedAt, &lead.UpdatedAt,
	)
	if err != nil {
		return Lead{}, err
	}
	if len(contextJSON) > 0 {
		if err := json.Unmarshal(contextJSON, &lead.UnifiedContext); err != nil {
			return Lead{}, fmt.Errorf("unmarshal unified context: %w", err)
		}
	}
	return lead, nil
}
