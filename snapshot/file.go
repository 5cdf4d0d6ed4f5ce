package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/ioutil"
	"os"

	currency "github.com/malusev998/currency-converter"
)

// FileStore keeps the catalog and the snapshot as JSON files.
// Files are not locked; a single process is assumed.
type FileStore struct {
	CatalogPath  string
	SnapshotPath string
}

func NewFileStore(catalogPath, snapshotPath string) FileStore {
	if catalogPath == "" {
		catalogPath = DefaultCatalogPath
	}

	if snapshotPath == "" {
		snapshotPath = DefaultSnapshotPath
	}

	return FileStore{CatalogPath: catalogPath, SnapshotPath: snapshotPath}
}

func readJSON(path string, v interface{}) error {
	data, err := ioutil.ReadFile(path)

	if errors.Is(err, os.ErrNotExist) {
		return currency.ErrNotFound
	}

	if err != nil {
		return err
	}

	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrCorrupt, path, err)
	}

	return nil
}

func writeJSON(path string, v interface{}) error {
	data, err := json.Marshal(v)

	if err != nil {
		return err
	}

	return ioutil.WriteFile(path, data, 0o644)
}

func (f FileStore) LoadCatalog(_ context.Context) (currency.Catalog, error) {
	var catalog currency.Catalog

	if err := readJSON(f.CatalogPath, &catalog); err != nil {
		return nil, err
	}

	if catalog == nil {
		return nil, fmt.Errorf("%w: %s: null catalog", ErrCorrupt, f.CatalogPath)
	}

	return catalog, nil
}

func (f FileStore) SaveCatalog(_ context.Context, catalog currency.Catalog) error {
	return writeJSON(f.CatalogPath, catalog)
}

func (f FileStore) LoadSnapshot(_ context.Context) (currency.Snapshot, error) {
	var snapshot currency.Snapshot

	if err := readJSON(f.SnapshotPath, &snapshot); err != nil {
		return currency.Snapshot{}, err
	}

	if snapshot.Rates == nil {
		return currency.Snapshot{}, fmt.Errorf("%w: %s: rates are missing", ErrCorrupt, f.SnapshotPath)
	}

	return snapshot, nil
}

func (f FileStore) SaveSnapshot(_ context.Context, snapshot currency.Snapshot) error {
	return writeJSON(f.SnapshotPath, snapshot)
}

var _ Store = FileStore{}
