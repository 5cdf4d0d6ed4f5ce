package services

import (
	"sort"
	"sync"
	"time"

	currency "github.com/malusev998/currency-converter"
)

// Archive stores refreshed rates in every configured storage concurrently.
type Archive struct {
	Storage []currency.Storage
}

func saveToStorage(
	wg *sync.WaitGroup,
	rates []currency.ArchivedRate,
	data map[string][]currency.ArchivedRateWithID,
	storage currency.Storage,
	errorChannel chan<- error,
	mutex sync.Locker,
) {
	defer wg.Done()
	stored, err := storage.Store(rates)

	if err != nil {
		errorChannel <- err
		return
	}

	mutex.Lock()
	data[storage.GetStorageProviderName()] = stored
	mutex.Unlock()
}

func ArchivedRates(rates currency.Rates, provider currency.Provider, at time.Time) []currency.ArchivedRate {
	codes := make([]string, 0, len(rates))

	for code := range rates {
		codes = append(codes, code)
	}

	sort.Strings(codes)

	archived := make([]currency.ArchivedRate, 0, len(codes))

	for _, code := range codes {
		archived = append(archived, currency.ArchivedRate{
			From:      currency.BaseCurrency,
			To:        code,
			Provider:  provider,
			Rate:      rates[code],
			CreatedAt: at,
		})
	}

	return archived
}

// Save returns the first storage error; the other storages still finish.
func (a Archive) Save(rates currency.Rates, provider currency.Provider, at time.Time) (map[string][]currency.ArchivedRateWithID, error) {
	var wg sync.WaitGroup
	mutex := &sync.Mutex{}

	archived := ArchivedRates(rates, provider, at)

	errorChannel := make(chan error, len(a.Storage))
	data := make(map[string][]currency.ArchivedRateWithID, len(a.Storage))

	wg.Add(len(a.Storage))
	for _, storage := range a.Storage {
		go saveToStorage(&wg, archived, data, storage, errorChannel, mutex)
	}

	wg.Wait()
	close(errorChannel)

	if err, more := <-errorChannel; more {
		return nil, err
	}

	return data, nil
}

func (a Archive) Close() error {
	var first error

	for _, storage := range a.Storage {
		if err := storage.Close(); err != nil && first == nil {
			first = err
		}
	}

	return first
}

var _ currency.Archiver = Archive{}
