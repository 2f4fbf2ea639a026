package repository

import (
	"context"

	"leadflow_backend/internal/leads/domain"

	"github.com/google/uuid"
)

type AppendStageChangeParams struct {
	LeadID      uuid.UUID
	OldStage    domain.Stage
	NewStage    domain.Stage
	OldSubStage domain.SubStage
	NewSubStage domain.SubStage
	OldScore    int
	NewScore    int
	ChangedBy   string
	IsAutomatic bool
	Reason      string
}

// AppendStageChange writes one immutable audit row. Rows are never updated
// or deleted.
func (r *Repository) AppendStageChange(ctx context.Context, params AppendStageChangeParams) (StageChange, error) {
	var sc StageChange
	err := r.pool.QueryRow(ctx, `
		INSERT INTO stage_changes (
			lead_id, old_stage, new_stage, old_sub_stage, new_sub_stage,
			old_score, new_score, changed_by, is_automatic, reason
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, lead_id, old_stage, new_stage, old_sub_stage, new_sub_stage,
			old_score, new_score, changed_by, is_automatic, reason, created_at
	`,
		params.LeadID, params.OldStage, params.NewStage, params.OldSubStage, params.NewSubStage,
		params.OldScore, params.NewScore, params.ChangedBy, params.IsAutomatic, params.Reason,
	).Scan(
		&sc.ID, &sc.LeadID, &sc.OldStage, &sc.NewStage, &sc.OldSubStage, &sc.NewSubStage,
		&sc.OldScore, &sc.NewScore, &sc.ChangedBy, &sc.IsAutomatic, &sc.Reason, &sc.CreatedAt,
	)
	return sc, err
}

// ListStageChanges returns the audit trail newest first.
func (r *Repository) ListStageChanges(ctx context.Context, leadID uuid.UUID, limit int) ([]StageChange, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, lead_id, old_stage, new_stage, old_sub_stage, new_sub_stage,
			old_score, new_score, changed_by, is_automatic, reason, created_at
		FROM stage_changes
		WHERE lead_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`, leadID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	changes := make([]StageChange, 0)
	for rows.Next() {
		var sc StageChange
		if err := rows.Scan(
			&sc.ID, &sc.LeadID, &sc.OldStage, &sc.NewStage, &sc.OldSubStage, &sc.NewSubStage,
			&sc.OldScore, &sc.NewScore, &sc.ChangedBy, &sc.IsAutomatic, &sc.Reason, &sc.CreatedAt,
		); err != nil {
			return nil, err
		}
		changes = append(changes, sc)
	}
	return changes, rows.Err()
}
