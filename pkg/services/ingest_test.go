package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/xuri/excelize/v2"
)

func TestParseSalesCSV(t *testing.T) {
	ingest := NewIngestService()
	csvContent := []byte(`Temporada,Familia,Descripcion Familia,Tienda,Talla,Fecha Venta,Cantidad,Subtotal,Online,Color,Codigo Unico
Verano 2023,PAN,Pantalones,Trucco Centro,M,2023-06-10,10,"200,50",no,Azul,P-1
Verano 2023,CAM,Camisetas,Online,S,2023-07-01,4,60,si,Rojo,C-2
`)

	sales, err := ingest.ParseSalesFile("ventas.csv", csvContent)
	assert.NoError(t, err)
	assert.Len(t, sales, 2)

	assert.Equal(t, "Verano 2023", sales[0].Season)
	assert.Equal(t, "PAN", sales[0].FamilyCode)
	assert.Equal(t, "Pantalones", sales[0].FamilyDescription)
	assert.Equal(t, "Trucco Centro", sales[0].Store)
	assert.Equal(t, 10, sales[0].Quantity)
	// Coma decimal europea
	assert.InDelta(t, 200.50, sales[0].Subtotal, 0.001)
	assert.False(t, sales[0].IsOnline)

	assert.True(t, sales[1].IsOnline)
	assert.Equal(t, "C-2", sales[1].ProductCode)
}

func TestParseSalesXLSX(t *testing.T) {
	// Libro construido en memoria con las cabeceras en español.
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	rows := [][]any{
		{"Temporada", "Familia", "Descripcion Familia", "Tienda", "Talla", "Fecha Venta", "Cantidad", "Subtotal", "Online", "Color", "Codigo Unico"},
		{"Verano 2023", "PAN", "Pantalones", "Trucco Centro", "M", "2023-06-10", 10, 200.5, "no", "Azul", "P-1"},
		{"Invierno 2024", "CAM", "Camisetas", "Gran Via", "L", "2024-01-15", -2, -40.0, "no", "Negro", "C-1"},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		assert.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	buf, err := f.WriteToBuffer()
	assert.NoError(t, err)

	ingest := NewIngestService()
	sales, err := ingest.ParseSalesFile("ventas.xlsx", buf.Bytes())
	assert.NoError(t, err)
	assert.Len(t, sales, 2)
	assert.Equal(t, "Trucco Centro", sales[0].Store)
	assert.Equal(t, -2, sales[1].Quantity)
}

func TestParseSalesFileSkipsEmptyRows(t *testing.T) {
	ingest := NewIngestService()
	csvContent := []byte(`Tienda,Cantidad,Codigo Unico
Trucco Centro,5,P-1
,,
`)
	sales, err := ingest.ParseSalesFile("ventas.csv", csvContent)
	assert.NoError(t, err)
	assert.Len(t, sales, 1)
}

func TestParseSalesFileWithoutRows(t *testing.T) {
	ingest := NewIngestService()
	_, err := ingest.ParseSalesFile("ventas.csv", []byte("Tienda,Cantidad\n"))
	assert.Error(t, err)
}

func TestParseProductsCSV(t *testing.T) {
	ingest := NewIngestService()
	csvContent := []byte(`Codigo Unico,ACT,Cantidad Pedida,Precio Coste,PVP,Fecha Almacen,Familia,Talla,Color
P-1,A1,20,"8,50",19.95,2023-05-01,PAN,M,Azul
`)
	products, err := ingest.ParseProductsFile("productos.csv", csvContent)
	assert.NoError(t, err)
	assert.Len(t, products, 1)
	assert.Equal(t, 20, products[0].OrderedQuantity)
	assert.InDelta(t, 8.50, products[0].CostPrice, 0.001)
	assert.InDelta(t, 19.95, products[0].Price, 0.001)
}

func TestParseTransfersCSV(t *testing.T) {
	ingest := NewIngestService()
	csvContent := []byte(`Codigo Unico,ACT,Enviado,Tienda,Fecha Enviado
P-1,A1,6,Trucco Centro,2023-05-30
`)
	transfers, err := ingest.ParseTransfersFile("traspasos.csv", csvContent)
	assert.NoError(t, err)
	assert.Len(t, transfers, 1)
	assert.Equal(t, 6, transfers[0].SentQuantity)
	assert.Equal(t, "Trucco Centro", transfers[0].Store)
}

func TestNormalizeSalesRowsFromJSON(t *testing.T) {
	ingest := NewIngestService()
	// Claves tal cual llegan de un body JSON, mezclando convenciones.
	rows := []map[string]any{
		{
			"temporada":          "Verano 2023",
			"familia":            "PAN",
			"descripcionFamilia": "Pantalones",
			"tienda":             "Trucco Centro",
			"talla":              "M",
			"fechaVenta":         "2023-06-10",
			"UDS":                float64(10),
			"subtotal":           200.5,
			"esOnline":           true,
			"codigoUnico":        "P-1",
		},
	}

	sales := ingest.NormalizeSalesRows(rows)
	assert.Len(t, sales, 1)
	assert.Equal(t, "Pantalones", sales[0].FamilyDescription)
	assert.Equal(t, 10, sales[0].Quantity)
	assert.InDelta(t, 200.5, sales[0].Subtotal, 0.001)
	assert.True(t, sales[0].IsOnline)
}

func TestFindColumnAliases(t *testing.T) {
	header := []string{"temporada", "descripcion familia", "uds", "importe total"}

	assert.Equal(t, 0, findColumn(header, seasonAliases))
	assert.Equal(t, 1, findColumn(header, familyDescAliases))
	assert.Equal(t, 2, findColumn(header, quantityAliases))
	// "importe total" coincide por subcadena con los alias de subtotal.
	assert.Equal(t, 3, findColumn(header, subtotalAliases))
	assert.Equal(t, -1, findColumn(header, storeAliases))
}

func TestNormalizeDecimal(t *testing.T) {
	assert.Equal(t, "200.50", normalizeDecimal("200,50"))
	assert.Equal(t, "1234.5", normalizeDecimal("1.234,5"))
	assert.Equal(t, "19.95", normalizeDecimal("€19.95"))
}
