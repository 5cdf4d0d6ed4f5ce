package storage_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/bxcodec/faker/v3"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	currency "github.com/malusev998/currency-converter"
	"github.com/malusev998/currency-converter/storage"
)

type IDGeneratorMock struct {
	mock.Mock
}

func (i *IDGeneratorMock) Generate() []byte {
	args := i.Called()
	if value, ok := args.Get(0).([]byte); ok {
		return value
	}
	return nil
}

const insertQuery = "INSERT INTO archive_test(id, currency, provider, rate, created_at) VALUES (?,?,?,?,?);"

func TestSQLStorage_StoreUnit(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	at := time.Date(2024, time.January, 2, 15, 4, 5, 0, time.UTC)
	rates := []currency.ArchivedRate{
		{From: "USD", To: "EUR", Provider: currency.ExchangeRateAPIProvider, Rate: 0.85, CreatedAt: at},
		{From: "USD", To: "JPY", Provider: currency.ExchangeRateAPIProvider, Rate: 110.25, CreatedAt: at},
	}

	t.Run("Stores_All_Rates", func(t *testing.T) {
		assert := require.New(t)
		db, m, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
		assert.NoError(err)
		defer db.Close()

		st, err := storage.NewSQLStorage(ctx, db, storage.MySQLDialect, nil, "archive_test", false)
		assert.NoError(err)

		m.ExpectBegin()
		prepare := m.ExpectPrepare(insertQuery)
		prepare.ExpectExec().
			WithArgs(sqlmock.AnyArg(), "USD_EUR", "ExchangeRateAPI", 0.85, at).
			WillReturnResult(sqlmock.NewResult(0, 1))
		prepare.ExpectExec().
			WithArgs(sqlmock.AnyArg(), "USD_JPY", "ExchangeRateAPI", 110.25, at).
			WillReturnResult(sqlmock.NewResult(0, 1))
		m.ExpectCommit()

		stored, err := st.Store(rates)

		assert.NoError(err)
		assert.Len(stored, 2)
		for i, s := range stored {
			assert.IsType(uuid.UUID{}, s.ID)
			assert.Equal(rates[i], s.ArchivedRate)
		}
		assert.NoError(m.ExpectationsWereMet())
	})

	t.Run("Transaction_Not_Started", func(t *testing.T) {
		assert := require.New(t)
		db, m, _ := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
		defer db.Close()
		st, _ := storage.NewSQLStorage(ctx, db, storage.MySQLDialect, nil, "archive_test", false)

		m.ExpectBegin().WillReturnError(errors.New("error while starting transaction"))

		_, err := st.Store(rates)

		assert.Error(err)
		assert.NoError(m.ExpectationsWereMet())
		assert.Equal("error while starting transaction", err.Error())
	})

	t.Run("Prepare_SQL_WithError", func(t *testing.T) {
		assert := require.New(t)
		db, m, _ := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
		defer db.Close()
		st, _ := storage.NewSQLStorage(ctx, db, storage.MySQLDialect, nil, "archive_test", false)

		m.ExpectBegin()
		m.ExpectPrepare(insertQuery).WillReturnError(errors.New("cannot create prepare statement"))
		m.ExpectRollback()

		_, err := st.Store(rates)

		assert.NoError(m.ExpectationsWereMet())
		assert.Error(err)
		assert.Equal("cannot create prepare statement", err.Error())
	})

	t.Run("Generator_Returns_Too_Few_Bytes", func(t *testing.T) {
		assert := require.New(t)
		db, m, _ := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
		defer db.Close()

		for _, bytes := range [][]byte{nil, make([]byte, 10)} {
			generator := &IDGeneratorMock{}
			generator.On("Generate").Return(bytes)
			st, _ := storage.NewSQLStorage(ctx, db, storage.MySQLDialect, generator, "archive_test", false)

			m.ExpectBegin()
			m.ExpectPrepare(insertQuery)
			m.ExpectRollback()

			stored, err := st.Store(rates)

			assert.Nil(stored)
			assert.True(errors.Is(err, storage.ErrNotEnoughBytesInGenerator))
			generator.AssertExpectations(t)
		}

		assert.NoError(m.ExpectationsWereMet())
	})
}

func TestSQLStorage_GetByDateAndProviderUnit(t *testing.T) {
	t.Parallel()
	assert := require.New(t)
	ctx := context.Background()
	db, m, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	assert.NoError(err)
	defer db.Close()

	st, err := storage.NewSQLStorage(ctx, db, storage.PostgresDialect, nil, "archive_test", false)
	assert.NoError(err)

	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)
	id := uuid.New()
	rate := float64(faker.UnixTime()%1000) / 10

	m.ExpectQuery("SELECT id, currency, provider, rate, created_at FROM archive_test WHERE currency = $1 AND created_at >= $2 AND created_at < $3 AND provider = $4 ORDER BY created_at DESC LIMIT $5 OFFSET $6;").
		WithArgs("USD_EUR", start, end, "ExchangeRateAPI", int64(10), int64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "currency", "provider", "rate", "created_at"}).
			AddRow(id.String(), "USD_EUR", "ExchangeRateAPI", rate, start.Add(time.Hour)))

	rates, err := st.GetByDateAndProvider("usd", "eur", currency.ExchangeRateAPIProvider, start, end, 2, 10)

	assert.NoError(err)
	assert.Len(rates, 1)
	assert.Equal(id, rates[0].ID)
	assert.Equal("USD", rates[0].From)
	assert.Equal("EUR", rates[0].To)
	assert.Equal(currency.ExchangeRateAPIProvider, rates[0].Provider)
	assert.Equal(rate, rates[0].Rate)
	assert.Equal(start.Add(time.Hour), rates[0].CreatedAt)
	assert.NoError(m.ExpectationsWereMet())
}

func TestSQLStorage_InvalidPageUnit(t *testing.T) {
	t.Parallel()
	assert := require.New(t)
	db, m, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	assert.NoError(err)
	defer db.Close()

	st, err := storage.NewSQLStorage(context.Background(), db, storage.MySQLDialect, nil, "archive_test", false)
	assert.NoError(err)

	values := []struct {
		page, perPage int64
	}{
		{1, -1},
		{1, 0},
		{0, 10},
		{-3, 10},
	}

	for _, value := range values {
		rates, err := st.Get("USD", "EUR", value.page, value.perPage)

		assert.True(errors.Is(err, storage.ErrInvalidPage), "page %d, per page %d", value.page, value.perPage)
		assert.Nil(rates)
	}

	assert.NoError(m.ExpectationsWereMet())
}

func TestSQLStorage_MigrateAndDropUnit(t *testing.T) {
	t.Parallel()
	assert := require.New(t)
	db, m, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	assert.NoError(err)

	m.ExpectExec("CREATE TABLE IF NOT EXISTS archive_test(id CHAR(36) PRIMARY KEY, currency VARCHAR(16) NOT NULL, provider VARCHAR(50) NOT NULL, rate DOUBLE PRECISION NOT NULL, created_at TIMESTAMP NOT NULL);").
		WillReturnResult(sqlmock.NewResult(0, 0))
	m.ExpectExec("DROP TABLE IF EXISTS archive_test;").WillReturnResult(sqlmock.NewResult(0, 0))
	m.ExpectClose()

	st, err := storage.NewSQLStorage(context.Background(), db, storage.MySQLDialect, nil, "archive_test", true)
	assert.NoError(err)
	assert.Equal("mysql", st.GetStorageProviderName())
	assert.NoError(st.Drop())
	assert.NoError(st.Close())
	assert.NoError(m.ExpectationsWereMet())
}

func TestConvertToProviderFromString(t *testing.T) {
	t.Parallel()
	assert := require.New(t)

	providers, err := storage.ConvertToProvidersFromStringSlice([]string{"MySQL", "postgresql", "mongo"})
	assert.NoError(err)
	assert.Equal([]storage.Provider{storage.MySQL, storage.Postgres, storage.MongoDB}, providers)

	_, err = storage.ConvertToProviderFromString("sqlite")
	assert.EqualError(err, "value sqlite is not valid Provider")

	_, err = storage.NewStorage(storage.Provider("sqlite"), nil)
	assert.True(errors.Is(err, storage.ErrStorageNotFound))
}
