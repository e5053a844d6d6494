package store

import (
	"fmt"

	"habitly/internal/log"
	"habitly/internal/storage"
	"habitly/internal/store/memory"
)

// Factory creates backends based on configuration.
type Factory struct {
	logger *log.Logger
}

func NewFactory(logger *log.Logger) *Factory {
	return &Factory{
		logger: logger.WithComponent(log.ComponentStore),
	}
}

func (f *Factory) Create(config Config) (*Result, error) {
	if !config.Type.IsValid() {
		return nil, fmt.Errorf("invalid backend type: %s", config.Type)
	}

	switch config.Type {
	case SQLiteBackend:
		repo, err := storage.NewRepository(config.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("initialize sqlite backend: %w", err)
		}
		f.logger.Info("initialized sqlite backend", log.FieldBackend, config.Type.String(), "db_path", config.SQLiteDBPath)
		return &Result{Backend: repo, Cleanup: repo.Close}, nil

	case MemoryBackend:
		dataDir := config.DataDir
		if dataDir == "" {
			dataDir = "data"
		}
		f.logger.Info("initialized memory backend", log.FieldBackend, config.Type.String(), "data_dir", dataDir)
		return &Result{Backend: memory.NewStore(dataDir)}, nil

	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}
