package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"retailsense-api/pkg/services"
	"retailsense-api/pkg/store"
)

// DatasetHandler carga y consulta de los datasets en memoria. Las subidas
// aceptan dos formas: multipart con un fichero xlsx/csv en el campo "file",
// o JSON con un array de filas con claves en español o inglés.
type DatasetHandler struct {
	ingest *services.IngestService
	agg    *services.AggregationService
	store  *store.DatasetStore
}

// NewDatasetHandler crea el handler de datasets.
func NewDatasetHandler(ingest *services.IngestService, agg *services.AggregationService, st *store.DatasetStore) *DatasetHandler {
	return &DatasetHandler{ingest: ingest, agg: agg, store: st}
}

// UploadSales reemplaza el dataset de ventas completo.
func (h *DatasetHandler) UploadSales(c *gin.Context) {
	if filename, content, ok := readUploadedFile(c); ok {
		sales, err := h.ingest.ParseSalesFile(filename, content)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		snap := h.store.ReplaceSales(sales)
		c.JSON(http.StatusOK, gin.H{"snapshotId": snap.ID, "filas": len(sales)})
		return
	}

	var rows []map[string]any
	if err := c.ShouldBindJSON(&rows); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "se esperaba un fichero multipart o un array JSON de filas"})
		return
	}
	sales := h.ingest.NormalizeSalesRows(rows)
	snap := h.store.ReplaceSales(sales)
	c.JSON(http.StatusOK, gin.H{"snapshotId": snap.ID, "filas": len(sales)})
}

// UploadProducts reemplaza el catálogo de productos completo.
func (h *DatasetHandler) UploadProducts(c *gin.Context) {
	if filename, content, ok := readUploadedFile(c); ok {
		products, err := h.ingest.ParseProductsFile(filename, content)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		snap := h.store.ReplaceProducts(products)
		c.JSON(http.StatusOK, gin.H{"snapshotId": snap.ID, "filas": len(products)})
		return
	}

	var rows []map[string]any
	if err := c.ShouldBindJSON(&rows); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "se esperaba un fichero multipart o un array JSON de filas"})
		return
	}
	products := h.ingest.NormalizeProductRows(rows)
	snap := h.store.ReplaceProducts(products)
	c.JSON(http.StatusOK, gin.H{"snapshotId": snap.ID, "filas": len(products)})
}

// UploadTransfers reemplaza los traspasos completos.
func (h *DatasetHandler) UploadTransfers(c *gin.Context) {
	if filename, content, ok := readUploadedFile(c); ok {
		transfers, err := h.ingest.ParseTransfersFile(filename, content)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		snap := h.store.ReplaceTransfers(transfers)
		c.JSON(http.StatusOK, gin.H{"snapshotId": snap.ID, "filas": len(transfers)})
		return
	}

	var rows []map[string]any
	if err := c.ShouldBindJSON(&rows); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "se esperaba un fichero multipart o un array JSON de filas"})
		return
	}
	transfers := h.ingest.NormalizeTransferRows(rows)
	snap := h.store.ReplaceTransfers(transfers)
	c.JSON(http.StatusOK, gin.H{"snapshotId": snap.ID, "filas": len(transfers)})
}

// Summary filas disponibles y metadatos del snapshot actual.
func (h *DatasetHandler) Summary(c *gin.Context) {
	snap := h.store.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"snapshotId": snap.ID,
		"uploadedAt": snap.UploadedAt,
		"counts":     h.store.Counts(),
	})
}

// Digest agregados completos del snapshot actual, los mismos que ve el
// nivel conversacional.
func (h *DatasetHandler) Digest(c *gin.Context) {
	snap := h.store.Snapshot()
	c.JSON(http.StatusOK, h.agg.BuildDigest(snap.Sales, snap.Products, snap.Transfers))
}

// readUploadedFile intenta leer el campo multipart "file"; ok=false si la
// petición no es multipart o no trae fichero.
func readUploadedFile(c *gin.Context) (string, []byte, bool) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return "", nil, false
	}
	f, err := fileHeader.Open()
	if err != nil {
		return "", nil, false
	}
	defer f.Close()
	content, err := io.ReadAll(f)
	if err != nil {
		return "", nil, false
	}
	return fileHeader.Filename, content, true
}
