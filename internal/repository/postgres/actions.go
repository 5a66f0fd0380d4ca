package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/alexandre-hallaine/Camagru/internal/core/domain"
	"github.com/alexandre-hallaine/Camagru/internal/core/port"
	"github.com/alexandre-hallaine/Camagru/internal/repository"
)

// ActionRepository implements the pending-action ledger on PostgreSQL. The
// actions table carries UNIQUE (user_id, kind) and UNIQUE (token); the upsert
// leans on the former so concurrent issuance for one (user, kind) serializes
// inside the database rather than in application code.
type ActionRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewActionRepository wires a PostgreSQL-backed action ledger.
func NewActionRepository(exec pgExecutor) *ActionRepository {
	return &ActionRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// WithTx returns a repository instance executing within the provided transaction.
func (r *ActionRepository) WithTx(tx pgx.Tx) *ActionRepository {
	if tx == nil {
		return r
	}
	return &ActionRepository{exec: tx, builder: r.builder}
}

// Upsert writes the (user, kind) row in one atomic statement. An existing row
// has its token and payload overwritten in place, permanently invalidating
// the previously issued token.
func (r *ActionRepository) Upsert(ctx context.Context, action domain.Action) error {
	payload, err := marshalPayload(action.Payload)
	if err != nil {
		return fmt.Errorf("prepare action payload: %w", err)
	}

	sql, args, err := r.builder.Insert("camagru.actions").
		Columns("user_id", "kind", "payload", "token").
		Values(action.UserID, action.Kind, payload, action.Token).
		Suffix("ON CONFLICT (user_id, kind) DO UPDATE SET token = EXCLUDED.token, payload = EXCLUDED.payload").
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert action sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("upsert action: %w", mapPgError(err))
	}

	return nil
}

// GetByToken resolves a raw token via the token index. Exact match only.
func (r *ActionRepository) GetByToken(ctx context.Context, token string) (*domain.Action, error) {
	stmt, args, err := r.builder.
		Select("user_id", "kind", "payload", "token").
		From("camagru.actions").
		Where(squirrel.Eq{"token": token}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select action sql: %w", err)
	}

	var (
		action  domain.Action
		payload []byte
	)
	row := r.exec.QueryRow(ctx, stmt, args...)
	if err := row.Scan(&action.UserID, &action.Kind, &payload, &action.Token); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan action: %w", err)
	}

	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &action.Payload); err != nil {
			return nil, fmt.Errorf("unmarshal action payload: %w", err)
		}
	}

	return &action, nil
}

// DeleteByToken removes the row holding the token. Reports ErrNotFound when
// nothing was deleted, which lets a redemption transaction detect that a
// concurrent redeemer consumed the token first.
func (r *ActionRepository) DeleteByToken(ctx context.Context, token string) error {
	stmt, args, err := r.builder.Delete("camagru.actions").
		Where(squirrel.Eq{"token": token}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete action sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("delete action: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

func marshalPayload(payload map[string]string) ([]byte, error) {
	if len(payload) == 0 {
		return nil, nil
	}
	return json.Marshal(payload)
}

var _ port.ActionRepository = (*ActionRepository)(nil)
