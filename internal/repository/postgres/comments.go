package postgres

import (
	"context"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"

	"github.com/alexandre-hallaine/Camagru/internal/core/domain"
	"github.com/alexandre-hallaine/Camagru/internal/core/port"
)

// CommentRepository implements port.CommentRepository using PostgreSQL.
type CommentRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewCommentRepository wires a PostgreSQL-backed comment repository.
func NewCommentRepository(exec pgExecutor) *CommentRepository {
	return &CommentRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a comment.
func (r *CommentRepository) Create(ctx context.Context, comment domain.Comment) error {
	sql, args, err := r.builder.Insert("camagru.comments").
		Columns("id", "user_id", "image_id", "body", "created_at").
		Values(comment.ID, comment.UserID, comment.ImageID, comment.Body, comment.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert comment sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert comment: %w", err)
	}

	return nil
}

var _ port.CommentRepository = (*CommentRepository)(nil)
