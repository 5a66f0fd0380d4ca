package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/alexandre-hallaine/Camagru/internal/core/port"
	"github.com/alexandre-hallaine/Camagru/internal/repository"
)

// pgExecutor is the subset of pgxpool.Pool and pgx.Tx the repositories need.
type pgExecutor interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repositories groups the PostgreSQL-backed repositories sharing one pool.
type Repositories struct {
	pool     *pgxpool.Pool
	Users    *UserRepository
	Settings *SettingsRepository
	Actions  *ActionRepository
	Images   *ImageRepository
	Comments *CommentRepository
	Likes    *LikeRepository
}

// NewRepositories wires repositories over the provided connection pool.
func NewRepositories(pool *pgxpool.Pool) *Repositories {
	return &Repositories{
		pool:     pool,
		Users:    NewUserRepository(pool),
		Settings: NewSettingsRepository(pool),
		Actions:  NewActionRepository(pool),
		Images:   NewImageRepository(pool),
		Comments: NewCommentRepository(pool),
		Likes:    NewLikeRepository(pool),
	}
}

// WithinTx implements port.UnitOfWork. The callback receives repository
// instances bound to a single transaction; returning an error rolls the
// transaction back.
func (r *Repositories) WithinTx(ctx context.Context, fn func(repos port.TxRepositories) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	err = fn(port.TxRepositories{
		Users:    r.Users.WithTx(tx),
		Settings: r.Settings.WithTx(tx),
		Actions:  r.Actions.WithTx(tx),
	})
	if err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

var _ port.UnitOfWork = (*Repositories)(nil)

// mapPgError normalizes pgx errors into repository sentinels where possible.
func mapPgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return fmt.Errorf("%w: %s", repository.ErrDuplicate, pgErr.ConstraintName)
	}
	return err
}
