package repository

import (
	"context"

	"github.com/GaurishMcK/HR-Nexus/internal/domain"
	"github.com/GaurishMcK/HR-Nexus/internal/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ChatRepository stores the append-only per-user chat log.
type ChatRepository struct {
	db dbtx
}

func NewChatRepository(pool *pgxpool.Pool) *ChatRepository {
	return &ChatRepository{db: pool}
}

func NewChatRepositoryWithTx(tx pgx.Tx) *ChatRepository {
	return &ChatRepository{db: tx}
}

// Append inserts m and fills in its serial id and timestamp.
func (r *ChatRepository) Append(ctx context.Context, m *domain.ChatMessage) error {
	if err := domain.ValidateChatRole(m.Role); err != nil {
		return err
	}
	return r.db.QueryRow(ctx,
		`INSERT INTO chat_history (user_id, role, content) VALUES ($1, $2, $3)
		 RETURNING msg_id, timestamp`,
		m.UserID, m.Role, m.Content,
	).Scan(&m.ID, &m.CreatedAt)
}

// ListByUser returns messages in insertion order, starting after afterID.
func (r *ChatRepository) ListByUser(ctx context.Context, userID string, afterID int64, limit int) ([]*domain.ChatMessage, error) {
	if limit <= 0 {
		limit = pagination.DefaultLimit
	}
	rows, err := r.db.Query(ctx,
		`SELECT msg_id, user_id, role, content, timestamp
		 FROM chat_history
		 WHERE user_id = $1 AND msg_id > $2
		 ORDER BY msg_id ASC
		 LIMIT $3`,
		userID, afterID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []*domain.ChatMessage
	for rows.Next() {
		var m domain.ChatMessage
		if err := rows.Scan(&m.ID, &m.UserID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, err
		}
		msgs = append(msgs, &m)
	}
	return msgs, rows.Err()
}
