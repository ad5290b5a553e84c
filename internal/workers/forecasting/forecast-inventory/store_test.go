package forecastinventory

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresSource_History(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	d1 := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	d2 := d1.AddDate(0, 0, 1)
	rows := sqlmock.NewRows([]string{"day", "quantity_on_hand", "quantity_sold"}).
		AddRow(d1, 40, 5).
		AddRow(d2, 35, 5)
	mock.ExpectQuery(regexp.QuoteMeta(historyQuery)).
		WithArgs("SKU-1", sqlmock.AnyArg()).
		WillReturnRows(rows)

	points, err := NewPostgresSource(db).History(context.Background(), "SKU-1", d1)

	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, 35, points[1].QuantityOnHand)
	assert.Equal(t, d2, points[1].Date)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSource_ReorderParams(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(paramsQuery)).
		WithArgs("SKU-1").
		WillReturnRows(sqlmock.NewRows([]string{"reorder_point", "reorder_qty"}).AddRow(12, 60))
	mock.ExpectQuery(regexp.QuoteMeta(paramsQuery)).
		WithArgs("SKU-2").
		WillReturnRows(sqlmock.NewRows([]string{"reorder_point", "reorder_qty"}))

	source := NewPostgresSource(db)

	params, err := source.ReorderParams(context.Background(), "SKU-1")
	require.NoError(t, err)
	assert.Equal(t, 12, params.ReorderPoint)
	assert.Equal(t, 60, params.ReorderQty)

	missing, err := source.ReorderParams(context.Background(), "SKU-2")
	require.NoError(t, err)
	assert.Zero(t, missing.ReorderPoint)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSource_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(productQuery)).WillReturnError(errors.New("connection reset"))

	_, err = NewPostgresSource(db).ProductIDs(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
}
