package postgres

import (
	"context"
	"errors"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/alexandre-hallaine/Camagru/internal/core/domain"
	"github.com/alexandre-hallaine/Camagru/internal/core/port"
	"github.com/alexandre-hallaine/Camagru/internal/repository"
)

// SettingsRepository implements port.SettingsRepository using PostgreSQL.
type SettingsRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewSettingsRepository wires a PostgreSQL-backed settings repository.
func NewSettingsRepository(exec pgExecutor) *SettingsRepository {
	return &SettingsRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// WithTx returns a repository instance executing within the provided transaction.
func (r *SettingsRepository) WithTx(tx pgx.Tx) *SettingsRepository {
	if tx == nil {
		return r
	}
	return &SettingsRepository{exec: tx, builder: r.builder}
}

// Create inserts the settings row created alongside a new user.
func (r *SettingsRepository) Create(ctx context.Context, settings domain.Settings) error {
	sql, args, err := r.builder.Insert("camagru.settings").
		Columns("user_id", "email", "notify_comments").
		Values(settings.UserID, settings.Email, settings.NotifyComments).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert settings sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert settings: %w", mapPgError(err))
	}

	return nil
}

// GetByUserID fetches the settings row for a user.
func (r *SettingsRepository) GetByUserID(ctx context.Context, userID string) (*domain.Settings, error) {
	stmt, args, err := r.builder.
		Select("user_id", "email", "notify_comments").
		From("camagru.settings").
		Where(squirrel.Eq{"user_id": userID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select settings sql: %w", err)
	}

	var settings domain.Settings
	row := r.exec.QueryRow(ctx, stmt, args...)
	if err := row.Scan(&settings.UserID, &settings.Email, &settings.NotifyComments); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan settings: %w", err)
	}

	return &settings, nil
}

// UpdateEmail stores a confirmed email address for the user.
func (r *SettingsRepository) UpdateEmail(ctx context.Context, userID string, email string) error {
	stmt, args, err := r.builder.Update("camagru.settings").
		Set("email", email).
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update email sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update email: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// UpdateNotifyComments toggles the comment notification preference.
func (r *SettingsRepository) UpdateNotifyComments(ctx context.Context, userID string, notify bool) error {
	stmt, args, err := r.builder.Update("camagru.settings").
		Set("notify_comments", notify).
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update notify sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update notify: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

var _ port.SettingsRepository = (*SettingsRepository)(nil)
