// Package storage selects the vector store adapter named by the settings.
package storage

import (
	"fmt"

	"github.com/custodia-labs/compass-embed/internal/adapters/driven/storage/chromem"
	"github.com/custodia-labs/compass-embed/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/compass-embed/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/compass-embed/internal/core/domain"
	"github.com/custodia-labs/compass-embed/internal/core/ports/driven"
)

// NewVectorStore opens the configured backend for vectors of the given size.
func NewVectorStore(settings domain.StoreSettings, dimensions int) (driven.VectorStore, error) {
	var (
		store driven.VectorStore
		err   error
	)

	switch settings.Backend {
	case domain.StoreBackendChromem:
		store, err = chromem.NewStore(settings.Path, settings.Collection, dimensions)
	case domain.StoreBackendSQLite:
		store, err = sqlite.NewStore(settings.Path, settings.Collection, dimensions)
	case domain.StoreBackendMemory:
		store, err = memory.NewVectorStore(settings.Collection, dimensions)
	default:
		return nil, fmt.Errorf("%w: unknown store backend %q", domain.ErrInvalidArgument, settings.Backend)
	}
	if err != nil {
		return nil, err
	}
	return store, nil
}
