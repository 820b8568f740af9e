package store

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"retailsense-api/pkg/models"
)

func TestReplaceSalesKeepsOtherDatasets(t *testing.T) {
	st := NewDatasetStore()

	st.ReplaceProducts([]models.ProductRecord{{ProductCode: "P-1"}})
	snap := st.ReplaceSales([]models.SalesRecord{{Store: "Trucco Centro", Quantity: 5}})

	assert.Len(t, snap.Sales, 1)
	assert.Len(t, snap.Products, 1, "reemplazar ventas no debe vaciar el catálogo")
	assert.Empty(t, snap.Transfers)
}

func TestReplaceGeneratesNewSnapshotID(t *testing.T) {
	st := NewDatasetStore()

	first := st.Snapshot()
	second := st.ReplaceSales([]models.SalesRecord{{Store: "A", Quantity: 1}})
	third := st.ReplaceTransfers([]models.TransferRecord{{Store: "A", SentQuantity: 2}})

	assert.NotEqual(t, first.ID, second.ID)
	assert.NotEqual(t, second.ID, third.ID)
}

func TestCounts(t *testing.T) {
	st := NewDatasetStore()

	assert.Equal(t, models.DatasetCounts{}, st.Counts())

	st.ReplaceSales([]models.SalesRecord{{Quantity: 1}, {Quantity: 2}})
	st.ReplaceProducts([]models.ProductRecord{{ProductCode: "P-1"}})

	counts := st.Counts()
	assert.Equal(t, 2, counts.Sales)
	assert.Equal(t, 1, counts.Products)
	assert.Equal(t, 0, counts.Transfers)
}

func TestSnapshotIsStableAfterReplace(t *testing.T) {
	st := NewDatasetStore()
	st.ReplaceSales([]models.SalesRecord{{Store: "A", Quantity: 1}})

	snap := st.Snapshot()
	st.ReplaceSales([]models.SalesRecord{{Store: "B", Quantity: 9}, {Store: "C", Quantity: 9}})

	// El snapshot tomado antes del reemplazo no cambia.
	assert.Len(t, snap.Sales, 1)
	assert.Equal(t, "A", snap.Sales[0].Store)
}
