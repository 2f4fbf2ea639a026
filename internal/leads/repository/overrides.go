package repository

import (
	"context"
	"errors"

	"leadflow_backend/internal/leads/domain"
	"leadflow_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type UpsertOverrideParams struct {
	LeadID       uuid.UUID
	Stage        domain.Stage
	SubStage     domain.SubStage
	OverriddenBy string
	Reason       string
}

// UpsertOverride replaces the active override for a lead in a single
// transaction. A partial unique index on (lead_id) WHERE is_active keeps the
// at-most-one invariant; a violation means two writers raced and the caller
// should retry.
func (r *Repository) UpsertOverride(ctx context.Context, params UpsertOverrideParams) (StageOverride, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return StageOverride{}, err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		UPDATE stage_overrides
		SET is_active = false, removed_at = now()
		WHERE lead_id = $1 AND is_active
	`, params.LeadID)
	if err != nil {
		return StageOverride{}, err
	}

	var so StageOverride
	err = tx.QueryRow(ctx, `
		INSERT INTO stage_overrides (lead_id, stage, sub_stage, overridden_by, reason, is_active)
		VALUES ($1, $2, $3, $4, $5, true)
		RETURNING id, lead_id, stage, sub_stage, overridden_by, reason, is_active, created_at, removed_at
	`, params.LeadID, params.Stage, params.SubStage, params.OverriddenBy, params.Reason).Scan(
		&so.ID, &so.LeadID, &so.Stage, &so.SubStage, &so.OverriddenBy, &so.Reason,
		&so.IsActive, &so.CreatedAt, &so.RemovedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return StageOverride{}, apperr.Conflict("concurrent override write, retry")
		}
		return StageOverride{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return StageOverride{}, err
	}
	return so, nil
}

// GetActiveOverride returns ErrNotFound when the lead has no pinned stage.
func (r *Repository) GetActiveOverride(ctx context.Context, leadID uuid.UUID) (StageOverride, error) {
	var so StageOverride
	err := r.pool.QueryRow(ctx, `
		SELECT id, lead_id, stage, sub_stage, overridden_by, reason, is_active, created_at, removed_at
		FROM stage_overrides
		WHERE lead_id = $1 AND is_active
	`, leadID).Scan(
		&so.ID, &so.LeadID, &so.Stage, &so.SubStage, &so.OverriddenBy, &so.Reason,
		&so.IsActive, &so.CreatedAt, &so.RemovedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return StageOverride{}, ErrNotFound
	}
	return so, err
}

// DeactivateOverride retires the active override, stamping when it was
// lifted. Returns ErrNotFound when nothing was active.
func (r *Repository) DeactivateOverride(ctx context.Context, leadID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE stage_overrides
		SET is_active = false, removed_at = now()
		WHERE lead_id = $1 AND is_active
	`, leadID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
