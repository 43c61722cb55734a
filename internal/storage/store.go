package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// ErrNotFound is returned by Load and Delete for absent keys.
var ErrNotFound = errors.New("key not found")

// Store is a small key-value store for serialized snapshots.
type Store interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Supported drivers.
const (
	DriverMemory = "memory"
	DriverFile   = "file"
	DriverSQLite = "sqlite"
)

// Open creates the store for driver. path is a directory for "file" and a database
// file for "sqlite"; it is ignored for "memory".
func Open(driver, path string, logger *zap.Logger) (Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	var (
		store Store
		err   error
	)
	switch strings.ToLower(driver) {
	case DriverMemory, "":
		store = NewMemory()
	case DriverFile:
		store, err = NewFile(path)
	case DriverSQLite:
		store, err = OpenSQLite(path)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}
	if err != nil {
		return nil, err
	}
	logger.Info("opened snapshot store", zap.String("driver", driver), zap.String("path", path))
	return store, nil
}

func checkKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return errors.New("storage key is required")
	}
	return nil
}
