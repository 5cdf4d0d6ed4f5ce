package services

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	currency "github.com/malusev998/currency-converter"
)

type (
	MockFetcher struct {
		mock.Mock
	}

	MockStore struct {
		mock.Mock
	}

	MockNotifier struct {
		mock.Mock
	}

	MockStorage struct {
		mock.Mock
		name string
	}

	MockRates struct {
		mock.Mock
	}
)

func (m *MockFetcher) Fetch(ctx context.Context, base string) (currency.LatestRates, error) {
	args := m.Called(ctx, base)

	return args.Get(0).(currency.LatestRates), args.Error(1)
}

func (m *MockStore) LoadCatalog(ctx context.Context) (currency.Catalog, error) {
	args := m.Called(ctx)
	return1 := args.Get(0)

	if return1 == nil {
		return nil, args.Error(1)
	}

	return return1.(currency.Catalog), args.Error(1)
}

func (m *MockStore) SaveCatalog(ctx context.Context, catalog currency.Catalog) error {
	return m.Called(ctx, catalog).Error(0)
}

func (m *MockStore) LoadSnapshot(ctx context.Context) (currency.Snapshot, error) {
	args := m.Called(ctx)

	return args.Get(0).(currency.Snapshot), args.Error(1)
}

func (m *MockStore) SaveSnapshot(ctx context.Context, snapshot currency.Snapshot) error {
	return m.Called(ctx, snapshot).Error(0)
}

func (m *MockNotifier) Error(title, message string) {
	m.Called(title, message)
}

func (m *MockRates) Load(ctx context.Context) currency.Rates {
	return m.Called(ctx).Get(0).(currency.Rates)
}

func (m *MockStorage) Store(rates []currency.ArchivedRate) ([]currency.ArchivedRateWithID, error) {
	args := m.Called(rates)
	return1 := args.Get(0)

	if return1 == nil {
		return nil, args.Error(1)
	}

	return return1.([]currency.ArchivedRateWithID), args.Error(1)
}

func (m *MockStorage) Get(from, to string, page, perPage int64) ([]currency.ArchivedRateWithID, error) {
	panic("implement me")
}

func (m *MockStorage) GetByProvider(from, to string, provider currency.Provider, page, perPage int64) ([]currency.ArchivedRateWithID, error) {
	panic("implement me")
}

func (m *MockStorage) GetByDate(from, to string, start, end time.Time, page, perPage int64) ([]currency.ArchivedRateWithID, error) {
	panic("implement me")
}

func (m *MockStorage) GetByDateAndProvider(from, to string, provider currency.Provider, start, end time.Time, page, perPage int64) ([]currency.ArchivedRateWithID, error) {
	panic("implement me")
}

func (m *MockStorage) GetStorageProviderName() string {
	if m.name == "" {
		return "MockStorage"
	}

	return m.name
}

func (m *MockStorage) Migrate() error {
	return nil
}

func (m *MockStorage) Drop() error {
	return nil
}

func (m *MockStorage) Close() error {
	return m.Called().Error(0)
}

func fixedClock(t time.Time) currency.Clock {
	return currency.ClockFunc(func() time.Time { return t })
}
