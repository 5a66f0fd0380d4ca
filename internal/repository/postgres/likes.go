package postgres

import (
	"context"
	"errors"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/alexandre-hallaine/Camagru/internal/core/port"
)

// LikeRepository implements port.LikeRepository using PostgreSQL.
type LikeRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewLikeRepository wires a PostgreSQL-backed like repository.
func NewLikeRepository(exec pgExecutor) *LikeRepository {
	return &LikeRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Exists reports whether the user already likes the image.
func (r *LikeRepository) Exists(ctx context.Context, userID, imageID string) (bool, error) {
	stmt, args, err := r.builder.Select("1").
		From("camagru.likes").
		Where(squirrel.Eq{"user_id": userID, "image_id": imageID}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build select like sql: %w", err)
	}

	var one int
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&one); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("scan like: %w", err)
	}

	return true, nil
}

// Add records a like. Re-liking is a no-op at the store level.
func (r *LikeRepository) Add(ctx context.Context, userID, imageID string) error {
	sql, args, err := r.builder.Insert("camagru.likes").
		Columns("user_id", "image_id").
		Values(userID, imageID).
		Suffix("ON CONFLICT DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert like sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert like: %w", err)
	}

	return nil
}

// Remove deletes a like if present.
func (r *LikeRepository) Remove(ctx context.Context, userID, imageID string) error {
	stmt, args, err := r.builder.Delete("camagru.likes").
		Where(squirrel.Eq{"user_id": userID, "image_id": imageID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete like sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("delete like: %w", err)
	}

	return nil
}

var _ port.LikeRepository = (*LikeRepository)(nil)
