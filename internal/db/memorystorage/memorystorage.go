package memorystorage

import (
	"context"

	"github.com/patric-chuzhbe/shortie/internal/db/jsondb"
)

// MemoryStorage is the jsondb cache without file persistence. Used when
// neither a database DSN nor a storage file is configured.
type MemoryStorage struct {
	*jsondb.JSONDB
}

func New() (*MemoryStorage, error) {
	return &MemoryStorage{
		JSONDB: jsondb.NewEmpty(),
	}, nil
}

func (theStorage *MemoryStorage) Close() error {
	return nil
}

func (theStorage *MemoryStorage) Ping(ctx context.Context) error {
	return nil
}
