// Package store guarda los datasets cargados en memoria. La persistencia
// entre reinicios queda fuera: el cliente vuelve a subir sus ficheros.
package store

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"retailsense-api/pkg/models"
)

// Snapshot foto inmutable de los datasets en un instante. Los slices no se
// modifican después de publicarse; los lectores pueden iterarlos sin lock.
type Snapshot struct {
	ID         string
	UploadedAt time.Time
	Sales      []models.SalesRecord
	Products   []models.ProductRecord
	Transfers  []models.TransferRecord
}

// DatasetStore almacén en memoria con reemplazo atómico por dataset. Cada
// reemplazo genera un snapshot nuevo con su propio ID.
type DatasetStore struct {
	mu      sync.RWMutex
	current Snapshot
}

// NewDatasetStore crea un almacén vacío.
func NewDatasetStore() *DatasetStore {
	return &DatasetStore{current: Snapshot{ID: uuid.NewString(), UploadedAt: time.Now()}}
}

// ReplaceSales sustituye el dataset de ventas completo.
func (s *DatasetStore) ReplaceSales(sales []models.SalesRecord) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = Snapshot{
		ID:         uuid.NewString(),
		UploadedAt: time.Now(),
		Sales:      sales,
		Products:   s.current.Products,
		Transfers:  s.current.Transfers,
	}
	return s.current
}

// ReplaceProducts sustituye el catálogo de productos completo.
func (s *DatasetStore) ReplaceProducts(products []models.ProductRecord) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = Snapshot{
		ID:         uuid.NewString(),
		UploadedAt: time.Now(),
		Sales:      s.current.Sales,
		Products:   products,
		Transfers:  s.current.Transfers,
	}
	return s.current
}

// ReplaceTransfers sustituye los traspasos completos.
func (s *DatasetStore) ReplaceTransfers(transfers []models.TransferRecord) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = Snapshot{
		ID:         uuid.NewString(),
		UploadedAt: time.Now(),
		Sales:      s.current.Sales,
		Products:   s.current.Products,
		Transfers:  transfers,
	}
	return s.current
}

// Snapshot foto actual; segura de leer sin más sincronización.
func (s *DatasetStore) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Counts filas disponibles por dataset.
func (s *DatasetStore) Counts() models.DatasetCounts {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.DatasetCounts{
		Sales:     len(s.current.Sales),
		Products:  len(s.current.Products),
		Transfers: len(s.current.Transfers),
	}
}
