package users

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGRepoUpsertReturnsTimestamps(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	login := created.Add(48 * time.Hour)
	mock.ExpectQuery("INSERT INTO users").
		WithArgs("google:1", "ana@example.com", "Ana", "", "organization").
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "last_login"}).AddRow(created, login))

	repo := &PGRepo{DB: db}
	user, err := repo.Upsert(context.Background(), User{ID: "google:1", Email: "ana@example.com", Name: "Ana", Role: "organization"})
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if !user.CreatedAt.Equal(created) || !user.LastLogin.Equal(login) {
		t.Fatalf("unexpected timestamps: %+v", user)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}
