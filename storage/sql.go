package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	// Drivers registered for sql.Open.
	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	_ "github.com/lib/pq"

	currency "github.com/malusev998/currency-converter"
)

type (
	IDGenerator interface {
		Generate() []byte
	}

	Dialect struct {
		Driver string
		// Placeholder returns the bind parameter for the n-th (1-based) argument.
		Placeholder func(n int) string
	}

	uuidGenerator struct{}

	sqlStorage struct {
		ctx         context.Context
		db          *sql.DB
		dialect     Dialect
		idGenerator IDGenerator
		tableName   string
	}
)

var (
	ErrNotEnoughBytesInGenerator = errors.New("id generator must return 16 bytes")

	MySQLDialect = Dialect{
		Driver:      "mysql",
		Placeholder: func(int) string { return "?" },
	}

	PostgresDialect = Dialect{
		Driver:      "postgres",
		Placeholder: func(n int) string { return fmt.Sprintf("$%d", n) },
	}
)

func (uuidGenerator) Generate() []byte {
	id := uuid.New()
	return id[:]
}

func (d Dialect) placeholders(from, count int) string {
	values := make([]string, 0, count)

	for i := from; i < from+count; i++ {
		values = append(values, d.Placeholder(i))
	}

	return strings.Join(values, ",")
}

func NewMySQLStorage(config MySQLConfig) (currency.Storage, error) {
	db, err := sql.Open(MySQLDialect.Driver, config.ConnectionString)

	if err != nil {
		return nil, err
	}

	return NewSQLStorage(config.Ctx, db, MySQLDialect, config.IDGenerator, config.TableName, config.Migrate)
}

func NewPostgresStorage(config PostgresConfig) (currency.Storage, error) {
	db, err := sql.Open(PostgresDialect.Driver, config.ConnectionString)

	if err != nil {
		return nil, err
	}

	return NewSQLStorage(config.Ctx, db, PostgresDialect, config.IDGenerator, config.TableName, config.Migrate)
}

func NewSQLStorage(
	ctx context.Context,
	db *sql.DB,
	dialect Dialect,
	idGenerator IDGenerator,
	tableName string,
	migrate bool,
) (currency.Storage, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	if idGenerator == nil {
		idGenerator = uuidGenerator{}
	}

	storage := sqlStorage{
		ctx:         ctx,
		db:          db,
		dialect:     dialect,
		idGenerator: idGenerator,
		tableName:   tableName,
	}

	if migrate {
		if err := storage.Migrate(); err != nil {
			return nil, err
		}
	}

	return storage, nil
}

func (s sqlStorage) GetStorageProviderName() string {
	return s.dialect.Driver
}

func (s sqlStorage) Migrate() error {
	query := fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s(id CHAR(36) PRIMARY KEY, currency VARCHAR(16) NOT NULL, provider VARCHAR(50) NOT NULL, rate DOUBLE PRECISION NOT NULL, created_at TIMESTAMP NOT NULL);",
		s.tableName,
	)

	_, err := s.db.ExecContext(s.ctx, query)

	return err
}

func (s sqlStorage) Drop() error {
	_, err := s.db.ExecContext(s.ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s;", s.tableName))

	return err
}

func (s sqlStorage) Close() error {
	return s.db.Close()
}

func (s sqlStorage) generateID() (uuid.UUID, error) {
	bytes := s.idGenerator.Generate()

	if len(bytes) != 16 {
		return uuid.Nil, ErrNotEnoughBytesInGenerator
	}

	return uuid.FromBytes(bytes)
}

func (s sqlStorage) Store(rates []currency.ArchivedRate) ([]currency.ArchivedRateWithID, error) {
	tx, err := s.db.BeginTx(s.ctx, nil)

	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(
		"INSERT INTO %s(id, currency, provider, rate, created_at) VALUES (%s);",
		s.tableName,
		s.dialect.placeholders(1, 5),
	)

	stmt, err := tx.PrepareContext(s.ctx, query)

	if err != nil {
		_ = tx.Rollback()
		return nil, err
	}

	stored := make([]currency.ArchivedRateWithID, 0, len(rates))

	for _, rate := range rates {
		if rate.CreatedAt.IsZero() {
			rate.CreatedAt = time.Now()
		}

		id, err := s.generateID()

		if err != nil {
			_ = stmt.Close()
			_ = tx.Rollback()
			return nil, err
		}

		_, err = stmt.ExecContext(s.ctx, id.String(), pair(rate.From, rate.To), string(rate.Provider), rate.Rate, rate.CreatedAt)

		if err != nil {
			_ = stmt.Close()
			_ = tx.Rollback()
			return nil, err
		}

		stored = append(stored, currency.ArchivedRateWithID{ArchivedRate: rate, ID: id})
	}

	if err := stmt.Close(); err != nil {
		_ = tx.Rollback()
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return stored, nil
}

func (s sqlStorage) Get(from, to string, page, perPage int64) ([]currency.ArchivedRateWithID, error) {
	return s.GetByDateAndProvider(from, to, currency.EmptyProvider, time.Time{}, time.Now(), page, perPage)
}

func (s sqlStorage) GetByProvider(from, to string, provider currency.Provider, page, perPage int64) ([]currency.ArchivedRateWithID, error) {
	return s.GetByDateAndProvider(from, to, provider, time.Time{}, time.Now(), page, perPage)
}

func (s sqlStorage) GetByDate(from, to string, start, end time.Time, page, perPage int64) ([]currency.ArchivedRateWithID, error) {
	return s.GetByDateAndProvider(from, to, currency.EmptyProvider, start, end, page, perPage)
}

func (s sqlStorage) GetByDateAndProvider(
	from, to string,
	provider currency.Provider,
	start, end time.Time,
	page, perPage int64,
) ([]currency.ArchivedRateWithID, error) {
	if err := validatePage(page, perPage); err != nil {
		return nil, err
	}

	var builder strings.Builder

	args := []interface{}{pair(from, to), start, end}

	builder.WriteString("SELECT id, currency, provider, rate, created_at FROM ")
	builder.WriteString(s.tableName)
	builder.WriteString(fmt.Sprintf(
		" WHERE currency = %s AND created_at >= %s AND created_at < %s",
		s.dialect.Placeholder(1), s.dialect.Placeholder(2), s.dialect.Placeholder(3),
	))

	if provider != currency.EmptyProvider {
		args = append(args, string(provider))
		builder.WriteString(" AND provider = " + s.dialect.Placeholder(len(args)))
	}

	args = append(args, perPage, offset(page, perPage))
	builder.WriteString(fmt.Sprintf(
		" ORDER BY created_at DESC LIMIT %s OFFSET %s;",
		s.dialect.Placeholder(len(args)-1), s.dialect.Placeholder(len(args)),
	))

	rows, err := s.db.QueryContext(s.ctx, builder.String(), args...)

	if err != nil {
		return nil, err
	}

	defer rows.Close()

	var rates []currency.ArchivedRateWithID

	for rows.Next() {
		var (
			id, combined, providerName string
			rate                       float64
			createdAt                  time.Time
		)

		if err := rows.Scan(&id, &combined, &providerName, &rate, &createdAt); err != nil {
			return nil, err
		}

		parsedID, err := uuid.Parse(id)

		if err != nil {
			return nil, err
		}

		base, target := split(combined)

		rates = append(rates, currency.ArchivedRateWithID{
			ArchivedRate: currency.ArchivedRate{
				From:      base,
				To:        target,
				Provider:  currency.Provider(providerName),
				Rate:      rate,
				CreatedAt: createdAt,
			},
			ID: parsedID,
		})
	}

	return rates, rows.Err()
}

func pair(from, to string) string {
	return fmt.Sprintf("%s_%s", strings.ToUpper(from), strings.ToUpper(to))
}

func split(combined string) (string, string) {
	isoCurrencies := strings.SplitN(combined, "_", 2)

	if len(isoCurrencies) != 2 {
		return combined, ""
	}

	return isoCurrencies[0], isoCurrencies[1]
}

func validatePage(page, perPage int64) error {
	if page < 1 || perPage < 1 {
		return fmt.Errorf("%w: page %d, per page %d", ErrInvalidPage, page, perPage)
	}

	return nil
}

func offset(page, perPage int64) int64 {
	return (page - 1) * perPage
}
