package repository

import (
	"context"

	"leadflow_backend/internal/leads/domain"

	"github.com/google/uuid"
)

type AppendMessageParams struct {
	LeadID  uuid.UUID
	Sender  domain.Sender
	Channel domain.Channel
	Content string
}

func (r *Repository) AppendMessage(ctx context.Context, params AppendMessageParams) (Message, error) {
	var m Message
	err := r.pool.QueryRow(ctx, `
		INSERT INTO lead_messages (lead_id, sender, channel, content)
		VALUES ($1, $2, $3, $4)
		RETURNING id, lead_id, sender, channel, content, created_at
	`, params.LeadID, params.Sender, params.Channel, params.Content).Scan(
		&m.ID, &m.LeadID, &m.Sender, &m.Channel, &m.Content, &m.CreatedAt,
	)
	return m, err
}

// ListMessages returns the full conversation history oldest first, which is
// the order the score calculator expects.
func (r *Repository) ListMessages(ctx context.Context, leadID uuid.UUID) ([]Message, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, lead_id, sender, channel, content, created_at
		FROM lead_messages
		WHERE lead_id = $1
		ORDER BY created_at ASC, id ASC
	`, leadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := make([]Message, 0)
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.LeadID, &m.Sender, &m.Channel, &m.Content, &m.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}
