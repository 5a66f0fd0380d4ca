package postgres

import (
	"context"
	"errors"
	"testing"

	pgxmock "github.com/pashagolub/pgxmock/v2"

	"github.com/alexandre-hallaine/Camagru/internal/core/domain"
	"github.com/alexandre-hallaine/Camagru/internal/repository"
)

func TestActionRepository_Upsert(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewActionRepository(mock)

	action := domain.Action{
		UserID:  "user-1",
		Kind:    domain.ActionChangeEmail,
		Payload: map[string]string{domain.PayloadNewEmail: "new@example.com"},
		Token:   "token-1",
	}

	mock.ExpectExec(`INSERT INTO camagru\.actions .*ON CONFLICT \(user_id, kind\) DO UPDATE SET token = EXCLUDED\.token, payload = EXCLUDED\.payload`).
		WithArgs(action.UserID, action.Kind, []byte(`{"new_email":"new@example.com"}`), action.Token).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	if err := repo.Upsert(context.Background(), action); err != nil {
		t.Fatalf("Upsert returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestActionRepository_Upsert_EmptyPayload(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewActionRepository(mock)

	action := domain.Action{UserID: "user-1", Kind: domain.ActionVerifyAccount, Token: "token-1"}

	mock.ExpectExec(`INSERT INTO camagru\.actions`).
		WithArgs(action.UserID, action.Kind, []byte(nil), action.Token).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	if err := repo.Upsert(context.Background(), action); err != nil {
		t.Fatalf("Upsert returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestActionRepository_GetByToken(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewActionRepository(mock)

	rows := pgxmock.NewRows([]string{"user_id", "kind", "payload", "token"}).
		AddRow("user-1", domain.ActionResetPassword, []byte(`{"password_hash":"hash-1"}`), "token-1")

	mock.ExpectQuery(`SELECT user_id, kind, payload, token FROM camagru\.actions`).
		WithArgs("token-1").
		WillReturnRows(rows)

	action, err := repo.GetByToken(context.Background(), "token-1")
	if err != nil {
		t.Fatalf("GetByToken returned error: %v", err)
	}
	if action.Kind != domain.ActionResetPassword {
		t.Fatalf("expected RESET_PASSWORD, got %s", action.Kind)
	}
	if action.Payload[domain.PayloadPasswordHash] != "hash-1" {
		t.Fatalf("expected payload hash to round-trip, got %v", action.Payload)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestActionRepository_GetByToken_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewActionRepository(mock)

	mock.ExpectQuery(`SELECT user_id, kind, payload, token FROM camagru\.actions`).
		WithArgs("missing").
		WillReturnRows(pgxmock.NewRows([]string{"user_id", "kind", "payload", "token"}))

	if _, err := repo.GetByToken(context.Background(), "missing"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestActionRepository_DeleteByToken_ZeroRows(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewActionRepository(mock)

	mock.ExpectExec(`DELETE FROM camagru\.actions`).
		WithArgs("token-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	// Zero deleted rows means another redeemer consumed the token first.
	if err := repo.DeleteByToken(context.Background(), "token-1"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on zero rows, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestActionRepository_DeleteByToken(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewActionRepository(mock)

	mock.ExpectExec(`DELETE FROM camagru\.actions`).
		WithArgs("token-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	if err := repo.DeleteByToken(context.Background(), "token-1"); err != nil {
		t.Fatalf("DeleteByToken returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
