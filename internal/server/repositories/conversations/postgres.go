package conversations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dulhara79/Seasonal-Travel-Recommender/internal/common"
	"github.com/dulhara79/Seasonal-Travel-Recommender/internal/dbx"
	"github.com/dulhara79/Seasonal-Travel-Recommender/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const headerColumns = `id, user_id, session_id, title, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanHeader(s scanner) (*models.Conversation, error) {
	c := &models.Conversation{}
	var sessionID sql.NullString
	if err := s.Scan(&c.ID, &c.UserID, &sessionID, &c.Title, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	c.SessionID = sessionID.String
	return c, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func (r *PostgresRepository) Create(ctx context.Context, c *models.Conversation) (*models.Conversation, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}

	query :=
		`INSERT INTO conversations (id, user_id, session_id, title)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query, c.ID, c.UserID, nullable(c.SessionID), c.Title).
		Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Conversation, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrorNotFound
	}

	query := `SELECT ` + headerColumns + ` FROM conversations WHERE id = $1`

	c, err := scanHeader(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) Messages(ctx context.Context, conversationID string) ([]models.Message, error) {
	query :=
		`SELECT role, text, metadata, created_at FROM messages
		 WHERE conversation_id = $1
		 ORDER BY position
		 `

	rows, err := r.db.QueryContext(ctx, query, conversationID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	msgs := []models.Message{}
	for rows.Next() {
		var m models.Message
		var meta []byte
		if err := rows.Scan(&m.Role, &m.Text, &meta, &m.Timestamp); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		if len(meta) > 0 {
			m.Metadata = append([]byte(nil), meta...)
		}
		msgs = append(msgs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return msgs, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]models.Conversation, error) {
	query := `SELECT ` + headerColumns + ` FROM conversations WHERE user_id = $1 ORDER BY updated_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	out := []models.Conversation{}
	for rows.Next() {
		c, err := scanHeader(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		out = append(out, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return out, nil
}

// AppendMessage inserts m at the end of the transcript and bumps the
// conversation's updated_at. Run it inside a transaction.
func (r *PostgresRepository) AppendMessage(ctx context.Context, conversationID string, m models.Message) error {
	var meta any
	if len(m.Metadata) > 0 {
		meta = string(m.Metadata)
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO messages (conversation_id, role, text, metadata, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		conversationID, m.Role, m.Text, meta, m.Timestamp)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`UPDATE conversations SET updated_at = now() WHERE id = $1`, conversationID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) UpdateTitle(ctx context.Context, id, title string) (*models.Conversation, error) {
	query := `UPDATE conversations SET title = $2, updated_at = now() WHERE id = $1 RETURNING ` + headerColumns

	c, err := scanHeader(r.db.QueryRowContext(ctx, query, id, title))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM conversations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
