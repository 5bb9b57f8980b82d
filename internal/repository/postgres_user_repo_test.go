package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/hitoshi/dailydiet/internal/model"
)

func TestPostgresUserRepo_ImplementsInterface(t *testing.T) {
	var _ UserRepository = (*PostgresUserRepo)(nil)
}

func TestNewPostgresUserRepo_Initializes(t *testing.T) {
	repo := NewPostgresUserRepo(nil)
	if repo == nil {
		t.Fatal("expected non-nil repo")
	}
}

func TestPostgresUserRepo_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	createdAt := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO users (id, name, password, created_at)`)).
		WithArgs("user-1", "alice", "secret", createdAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewPostgresUserRepo(db)
	err = repo.Create(context.Background(), &model.User{
		ID:        "user-1",
		Name:      "alice",
		Password:  "secret",
		CreatedAt: createdAt,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestPostgresUserRepo_Create_DBError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	dbErr := errors.New("connection refused")
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO users`)).
		WillReturnError(dbErr)

	repo := NewPostgresUserRepo(db)
	err = repo.Create(context.Background(), &model.User{ID: "user-1", Name: "alice", Password: "secret"})
	if !errors.Is(err, dbErr) {
		t.Errorf("expected wrapped dbErr, got %v", err)
	}
}

func TestPostgresUserRepo_FindByCredentials_Found(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	createdAt := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name, password, created_at FROM users`)).
		WithArgs("alice", "secret").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "password", "created_at"}).
			AddRow("user-1", "alice", "secret", createdAt))

	repo := NewPostgresUserRepo(db)
	user, err := repo.FindByCredentials(context.Background(), "alice", "secret")
	if err != nil {
		t.Fatalf("FindByCredentials: %v", err)
	}
	if user == nil {
		t.Fatal("expected user, got nil")
	}
	if user.ID != "user-1" || user.Name != "alice" || !user.CreatedAt.Equal(createdAt) {
		t.Errorf("unexpected user: %+v", user)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestPostgresUserRepo_FindByCredentials_NotFound_ReturnsNil(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, name, password, created_at FROM users`)).
		WithArgs("alice", "wrong").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "password", "created_at"}))

	repo := NewPostgresUserRepo(db)
	user, err := repo.FindByCredentials(context.Background(), "alice", "wrong")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if user != nil {
		t.Errorf("expected nil user, got %+v", user)
	}
}
