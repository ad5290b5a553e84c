package database

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresClient_EnsureInventorySchema(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS inventory_daily")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	client := &PostgresClient{DB: db}
	require.NoError(t, client.EnsureInventorySchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
