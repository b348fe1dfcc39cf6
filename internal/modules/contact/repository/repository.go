package repository

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"
	"time"

	"floodwatch/internal/modules/contact/types"

	"github.com/google/uuid"
)

//go:embed sql/insert-message.sql
var insertMessageSQL string

//go:embed sql/get-recent-messages.sql
var getRecentMessagesSQL string

type ContactRepository interface {
	// InsertMessage stores a normalized submission and returns it with its
	// new id and creation time.
	InsertMessage(ctx context.Context, s types.Submission) (types.Message, error)
	GetRecentMessages(ctx context.Context, limit int) ([]types.Message, error)
}

type repositoryImpl struct {
	db  *sql.DB
	now func() time.Time
}

func NewRepository(db *sql.DB) ContactRepository {
	return &repositoryImpl{db: db, now: time.Now}
}

func (r *repositoryImpl) InsertMessage(ctx context.Context, s types.Submission) (types.Message, error) {
	m := types.Message{
		ID:        uuid.NewString(),
		Name:      s.Name,
		Email:     s.Email,
		Subject:   s.Subject,
		Message:   s.Message,
		CreatedAt: r.now().UTC(),
	}
	if _, err := r.db.ExecContext(ctx, insertMessageSQL,
		m.ID, m.Name, m.Email, m.Subject, m.Message, m.CreatedAt.Format(time.RFC3339Nano),
	); err != nil {
		return types.Message{}, fmt.Errorf("insert contact message: %w", err)
	}
	return m, nil
}

func (r *repositoryImpl) GetRecentMessages(ctx context.Context, limit int) ([]types.Message, error) {
	rows, err := r.db.QueryContext(ctx, getRecentMessagesSQL, limit)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("close contact rows", "error", err)
		}
	}()

	var out []types.Message
	for rows.Next() {
		var (
			m       types.Message
			created string
		)
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Subject, &m.Message, &created); err != nil {
			return nil, err
		}
		if m.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
			return nil, fmt.Errorf("parse created_at of %s: %w", m.ID, err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
