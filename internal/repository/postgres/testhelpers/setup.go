package testhelpers

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// TestDB - sqlx поверх sqlmock для unit-тестов репозиториев
type TestDB struct {
	DB     *sqlx.DB
	Mock   sqlmock.Sqlmock
	Logger *zap.Logger
}

// SetupTestDB создаёт sqlmock соединение; в конце теста проверяет, что все ожидания выполнены
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}

	tdb := &TestDB{
		DB:     sqlx.NewDb(mockDB, "sqlmock"),
		Mock:   mock,
		Logger: zap.NewNop(),
	}

	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unfulfilled sql expectations: %v", err)
		}
		tdb.Close()
	})

	return tdb
}

// Close закрывает соединение
func (tdb *TestDB) Close() {
	if tdb.DB != nil {
		_ = tdb.DB.Close()
	}
}
