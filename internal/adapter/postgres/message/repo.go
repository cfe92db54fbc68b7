// Package message implements the Message repository using PostgreSQL.
package message

import (
	"context"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/glossa-app/glossa-backend/internal/adapter/postgres"
	"github.com/glossa-app/glossa-backend/internal/domain"
)

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var messageColumns = []string{
	"id", "conversation_id", "sender", "content", "created_at",
}

// Repo provides message persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new message repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Create inserts a new message and returns the persisted domain.Message.
// Returns domain.ErrNotFound if the conversation does not exist.
func (r *Repo) Create(ctx context.Context, m *domain.Message) (*domain.Message, error) {
	query, args, err := qb.Insert("messages").
		Columns("conversation_id", "sender", "content").
		Values(m.ConversationID, m.Sender, m.Content).
		Suffix("RETURNING " + strings.Join(messageColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, postgres.MapError(err, "message")
	}

	var row messageRow
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.pool), &row, query, args...); err != nil {
		return nil, postgres.MapError(err, "message")
	}

	result := row.toDomain()
	return &result, nil
}

// ListByConversation returns all messages of a conversation, oldest first.
func (r *Repo) ListByConversation(ctx context.Context, conversationID uuid.UUID) ([]domain.Message, error) {
	query, args, err := qb.Select(messageColumns...).
		From("messages").
		Where(sq.Eq{"conversation_id": conversationID}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, postgres.MapError(err, "message")
	}

	var rows []messageRow
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.pool), &rows, query, args...); err != nil {
		return nil, postgres.MapError(err, "message")
	}

	result := make([]domain.Message, 0, len(rows))
	for _, row := range rows {
		result = append(result, row.toDomain())
	}

	return result, nil
}

// messageRow mirrors the messages table for scanning.
type messageRow struct {
	ID             uuid.UUID `db:"id"`
	ConversationID uuid.UUID `db:"conversation_id"`
	Sender         string    `db:"sender"`
	Content        string    `db:"content"`
	CreatedAt      time.Time `db:"created_at"`
}

func (r messageRow) toDomain() domain.Message {
	return domain.Message{
		ID:             r.ID,
		ConversationID: r.ConversationID,
		Sender:         domain.SenderRole(r.Sender),
		Content:        r.Content,
		CreatedAt:      r.CreatedAt,
	}
}
