// Package conversation implements the Conversation repository using PostgreSQL.
package conversation

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

var conversationColumns = []string{
	"id", "user_id", "source_language", "target_language", "prompt", "created_at",
}

// Repo provides conversation persistence backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new conversation repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Create inserts a new conversation and returns the persisted domain.Conversation.
func (r *Repo) Create(ctx context.Context, c *domain.Conversation) (*domain.Conversation, error) {
	query, args, err := qb.Insert("conversations").
		Columns("user_id", "source_language", "target_language", "prompt").
		Values(c.UserID, c.SourceLanguage, c.TargetLanguage, c.Prompt).
		Suffix("RETURNING " + strings.Join(conversationColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, postgres.MapError(err, "conversation")
	}

	var row conversationRow
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.pool), &row, query, args...); err != nil {
		return nil, postgres.MapError(err, "conversation")
	}

	result := row.toDomain()
	return &result, nil
}

// GetByID returns a conversation by primary key, without its messages.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Conversation, error) {
	query, args, err := qb.Select(conversationColumns...).
		From("conversations").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, postgres.MapError(err, "conversation")
	}

	var row conversationRow
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.pool), &row, query, args...); err != nil {
		return nil, postgres.MapError(err, "conversation")
	}

	c := row.toDomain()
	return &c, nil
}

// ListByUser returns all conversations owned by the given user, oldest first.
func (r *Repo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Conversation, error) {
	query, args, err := qb.Select(conversationColumns...).
		From("conversations").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, postgres.MapError(err, "conversation")
	}

	var rows []conversationRow
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.pool), &rows, query, args...); err != nil {
		return nil, postgres.MapError(err, "conversation")
	}

	result := make([]domain.Conversation, 0, len(rows))
	for _, row := range rows {
		result = append(result, row.toDomain())
	}

	return result, nil
}

// Delete removes a conversation; messages go with it via ON DELETE CASCADE.
// Returns domain.ErrNotFound if the conversation does not exist.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	query, args, err := qb.Delete("conversations").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return postgres.MapError(err, "conversation")
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx, query, args...)
	if err != nil {
		return postgres.MapError(err, "conversation")
	}
	if tag.RowsAffected() == 0 {
		return postgres.MapError(domain.ErrNotFound, "conversation")
	}

	return nil
}

// SetPromptIfEmpty sets the conversation prompt only when no prompt is stored
// yet. Returns true if the prompt was written, false if one already existed.
func (r *Repo) SetPromptIfEmpty(ctx context.Context, id uuid.UUID, prompt string) (bool, error) {
	query, args, err := qb.Update("conversations").
		Set("prompt", prompt).
		Where(sq.Eq{"id": id}).
		Where("prompt IS NULL").
		ToSql()
	if err != nil {
		return false, postgres.MapError(err, "conversation")
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.pool).Exec(ctx, query, args...)
	if err != nil {
		return false, postgres.MapError(err, "conversation")
	}

	return tag.RowsAffected() > 0, nil
}

// conversationRow mirrors the conversations table for scanning.
type conversationRow struct {
	ID             uuid.UUID `db:"id"`
	UserID         uuid.UUID `db:"user_id"`
	SourceLanguage string    `db:"source_language"`
	TargetLanguage string    `db:"target_language"`
	Prompt         *string   `db:"prompt"`
	CreatedAt      time.Time `db:"created_at"`
}

func (r conversationRow) toDomain() domain.Conversation {
	return domain.Conversation{
		ID:             r.ID,
		UserID:         r.UserID,
		SourceLanguage: r.SourceLanguage,
		TargetLanguage: r.TargetLanguage,
		Prompt:         r.Prompt,
		CreatedAt:      r.CreatedAt,
	}
}
