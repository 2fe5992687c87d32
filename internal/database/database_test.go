package database

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotelpms/internal/domain"
)

func TestMigrateAndUniqueRoomNumber(t *testing.T) {
	db, err := OpenMemory("database_" + t.Name())
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	require.NoError(t, db.Create(&domain.Room{RoomNumber: "101", Status: domain.RoomAvailable}).Error)
	err = db.Create(&domain.Room{RoomNumber: "101", Status: domain.RoomAvailable}).Error
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err))
}

func TestIsUniqueViolation_Postgres(t *testing.T) {
	err := fmt.Errorf("insert room: %w", &pgconn.PgError{Code: "23505"})
	assert.True(t, IsUniqueViolation(err))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, IsUniqueViolation(errors.New("boom")))
	assert.False(t, IsUniqueViolation(nil))
}

func TestIsPostgres(t *testing.T) {
	assert.True(t, IsPostgres("postgres://u:p@localhost/hotel"))
	assert.True(t, IsPostgres("postgresql://localhost/hotel"))
	assert.False(t, IsPostgres("hotel.db"))
}
