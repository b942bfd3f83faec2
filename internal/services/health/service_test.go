package health

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestStatusWithoutDatabase(t *testing.T) {
	status, ok := NewService(nil, 0).Status(context.Background())
	if !ok || status["database"] != "memory" {
		t.Fatalf("unexpected status: %v %v", status, ok)
	}
}

func TestStatusReportsPingFailure(t *testing.T) {
	conn, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	status, ok := NewService(conn, 0).Status(context.Background())
	if ok || status["database"] != "down" {
		t.Fatalf("unexpected status: %v %v", status, ok)
	}

	mock.ExpectPing()
	status, ok = NewService(conn, 0).Status(context.Background())
	if !ok || status["database"] != "up" {
		t.Fatalf("unexpected status: %v %v", status, ok)
	}
}
