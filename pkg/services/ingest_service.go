package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"retailsense-api/pkg/models"
)

// IngestService frontera de normalización: ficheros xlsx/csv y payloads JSON
// entran con cabeceras en español o inglés y salen como registros canónicos.
// A partir de aquí ningún otro paquete vuelve a mirar alias de columnas.
type IngestService struct{}

// NewIngestService crea el servicio de ingesta.
func NewIngestService() *IngestService {
	return &IngestService{}
}

// Alias de cabecera aceptados por campo, en minúsculas. El primer alias que
// coincide gana.
var (
	seasonAliases      = []string{"temporada", "season"}
	familyCodeAliases  = []string{"familia", "family", "codigo familia", "family code"}
	familyDescAliases  = []string{"descripcion familia", "descripción familia", "descripcionfamilia", "family description", "descripcion"}
	storeAliases       = []string{"tienda", "store", "shop"}
	sizeAliases        = []string{"talla", "size"}
	saleDateAliases    = []string{"fecha venta", "fechaventa", "fecha", "sale date", "date"}
	quantityAliases    = []string{"cantidad", "uds", "unidades", "quantity", "units", "qty"}
	subtotalAliases    = []string{"subtotal", "importe", "amount", "total"}
	onlineAliases      = []string{"es online", "esonline", "online", "is online"}
	colorAliases       = []string{"color", "colour"}
	productCodeAliases = []string{"codigo unico", "código único", "codigounico", "codigo", "unique code", "product code", "sku"}

	actAliases           = []string{"act"}
	orderedQtyAliases    = []string{"cantidad pedida", "cantidadpedida", "pedido", "ordered quantity", "ordered"}
	costPriceAliases     = []string{"precio coste", "preciocoste", "coste", "cost price", "cost"}
	priceAliases         = []string{"pvp", "precio venta", "price", "retail price"}
	warehouseDateAliases = []string{"fecha almacen", "fecha almacén", "fechaalmacen", "warehouse date"}

	sentQtyAliases  = []string{"enviado", "cantidad enviada", "sent", "sent quantity"}
	sentDateAliases = []string{"fecha enviado", "fechaenviado", "sent date"}
)

// ParseSalesFile lee un xlsx o csv de ventas y devuelve registros canónicos.
// Las filas sin tienda y sin código de producto se descartan.
func (s *IngestService) ParseSalesFile(filename string, content []byte) ([]models.SalesRecord, error) {
	rows, err := readTabularFile(filename, content)
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("el archivo %s no tiene filas de datos", filename)
	}

	header := lowerAll(rows[0])
	idxSeason := findColumn(header, seasonAliases)
	idxFamily := findColumn(header, familyCodeAliases)
	idxFamilyDesc := findColumn(header, familyDescAliases)
	idxStore := findColumn(header, storeAliases)
	idxSize := findColumn(header, sizeAliases)
	idxDate := findColumn(header, saleDateAliases)
	idxQty := findColumn(header, quantityAliases)
	idxSubtotal := findColumn(header, subtotalAliases)
	idxOnline := findColumn(header, onlineAliases)
	idxColor := findColumn(header, colorAliases)
	idxCode := findColumn(header, productCodeAliases)

	out := []models.SalesRecord{}
	for _, row := range rows[1:] {
		r := models.SalesRecord{
			Season:            cell(row, idxSeason),
			FamilyCode:        cell(row, idxFamily),
			FamilyDescription: cell(row, idxFamilyDesc),
			Store:             cell(row, idxStore),
			Size:              cell(row, idxSize),
			SaleDate:          cell(row, idxDate),
			Quantity:          parseIntCell(cell(row, idxQty)),
			Subtotal:          parseFloatCell(cell(row, idxSubtotal)),
			IsOnline:          parseBoolCell(cell(row, idxOnline)),
			Color:             cell(row, idxColor),
			ProductCode:       cell(row, idxCode),
		}
		if r.Store == "" && r.ProductCode == "" {
			continue
		}
		out = append(out, r)
	}
	log.Printf("📥 Ventas cargadas desde %s: %d filas", filename, len(out))
	return out, nil
}

// ParseProductsFile lee un xlsx o csv de catálogo de productos.
func (s *IngestService) ParseProductsFile(filename string, content []byte) ([]models.ProductRecord, error) {
	rows, err := readTabularFile(filename, content)
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("el archivo %s no tiene filas de datos", filename)
	}

	header := lowerAll(rows[0])
	idxCode := findColumn(header, productCodeAliases)
	idxACT := findColumn(header, actAliases)
	idxOrdered := findColumn(header, orderedQtyAliases)
	idxCost := findColumn(header, costPriceAliases)
	idxPrice := findColumn(header, priceAliases)
	idxWarehouse := findColumn(header, warehouseDateAliases)
	idxFamily := findColumn(header, familyCodeAliases)
	idxSize := findColumn(header, sizeAliases)
	idxColor := findColumn(header, colorAliases)

	out := []models.ProductRecord{}
	for _, row := range rows[1:] {
		r := models.ProductRecord{
			ProductCode:     cell(row, idxCode),
			ACT:             cell(row, idxACT),
			OrderedQuantity: parseIntCell(cell(row, idxOrdered)),
			CostPrice:       parseFloatCell(cell(row, idxCost)),
			Price:           parseFloatCell(cell(row, idxPrice)),
			WarehouseDate:   cell(row, idxWarehouse),
			FamilyCode:      cell(row, idxFamily),
			Size:            cell(row, idxSize),
			Color:           cell(row, idxColor),
		}
		if r.ProductCode == "" {
			continue
		}
		out = append(out, r)
	}
	log.Printf("📥 Productos cargados desde %s: %d filas", filename, len(out))
	return out, nil
}

// ParseTransfersFile lee un xlsx o csv de traspasos de stock.
func (s *IngestService) ParseTransfersFile(filename string, content []byte) ([]models.TransferRecord, error) {
	rows, err := readTabularFile(filename, content)
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("el archivo %s no tiene filas de datos", filename)
	}

	header := lowerAll(rows[0])
	idxCode := findColumn(header, productCodeAliases)
	idxACT := findColumn(header, actAliases)
	idxSent := findColumn(header, sentQtyAliases)
	idxStore := findColumn(header, storeAliases)
	idxSentDate := findColumn(header, sentDateAliases)

	out := []models.TransferRecord{}
	for _, row := range rows[1:] {
		r := models.TransferRecord{
			ProductCode:  cell(row, idxCode),
			ACT:          cell(row, idxACT),
			SentQuantity: parseIntCell(cell(row, idxSent)),
			Store:        cell(row, idxStore),
			SentDate:     cell(row, idxSentDate),
		}
		if r.ProductCode == "" && r.Store == "" {
			continue
		}
		out = append(out, r)
	}
	log.Printf("📥 Traspasos cargados desde %s: %d filas", filename, len(out))
	return out, nil
}

// NormalizeSalesRows frontera JSON: filas sueltas con claves en español o
// inglés hacia registros canónicos.
func (s *IngestService) NormalizeSalesRows(rows []map[string]any) []models.SalesRecord {
	out := make([]models.SalesRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, models.SalesRecord{
			Season:            pickString(row, seasonAliases),
			FamilyCode:        pickString(row, familyCodeAliases),
			FamilyDescription: pickString(row, familyDescAliases),
			Store:             pickString(row, storeAliases),
			Size:              pickString(row, sizeAliases),
			SaleDate:          pickString(row, saleDateAliases),
			Quantity:          pickInt(row, quantityAliases),
			Subtotal:          pickFloat(row, subtotalAliases),
			IsOnline:          pickBool(row, onlineAliases),
			Color:             pickString(row, colorAliases),
			ProductCode:       pickString(row, productCodeAliases),
		})
	}
	return out
}

// NormalizeProductRows frontera JSON para el catálogo.
func (s *IngestService) NormalizeProductRows(rows []map[string]any) []models.ProductRecord {
	out := make([]models.ProductRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, models.ProductRecord{
			ProductCode:     pickString(row, productCodeAliases),
			ACT:             pickString(row, actAliases),
			OrderedQuantity: pickInt(row, orderedQtyAliases),
			CostPrice:       pickFloat(row, costPriceAliases),
			Price:           pickFloat(row, priceAliases),
			WarehouseDate:   pickString(row, warehouseDateAliases),
			FamilyCode:      pickString(row, familyCodeAliases),
			Size:            pickString(row, sizeAliases),
			Color:           pickString(row, colorAliases),
		})
	}
	return out
}

// NormalizeTransferRows frontera JSON para traspasos.
func (s *IngestService) NormalizeTransferRows(rows []map[string]any) []models.TransferRecord {
	out := make([]models.TransferRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, models.TransferRecord{
			ProductCode:  pickString(row, productCodeAliases),
			ACT:          pickString(row, actAliases),
			SentQuantity: pickInt(row, sentQtyAliases),
			Store:        pickString(row, storeAliases),
			SentDate:     pickString(row, sentDateAliases),
		})
	}
	return out
}

// --- Lectura tabular ---

// readTabularFile xlsx por extensión, csv en caso contrario. Siempre
// devuelve la primera hoja como matriz de strings.
func readTabularFile(filename string, content []byte) ([][]string, error) {
	lower := strings.ToLower(filename)
	if strings.HasSuffix(lower, ".xlsx") || strings.HasSuffix(lower, ".xlsm") {
		return readExcel(content)
	}
	return readCSV(content)
}

func readExcel(content []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("error abriendo el xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("el xlsx no tiene hojas")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("error leyendo la hoja %q: %w", sheets[0], err)
	}
	return rows, nil
}

func readCSV(content []byte) ([][]string, error) {
	reader := csv.NewReader(bytes.NewReader(content))
	reader.FieldsPerRecord = -1 // filas con menos columnas son normales
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("error leyendo el csv: %w", err)
	}
	return rows, nil
}

// findColumn índice de la primera cabecera que coincide con algún alias;
// coincidencia exacta primero, subcadena después. -1 si no aparece.
func findColumn(header []string, aliases []string) int {
	for _, alias := range aliases {
		for i, h := range header {
			if h == alias {
				return i
			}
		}
	}
	for _, alias := range aliases {
		for i, h := range header {
			if strings.Contains(h, alias) {
				return i
			}
		}
	}
	return -1
}

func lowerAll(row []string) []string {
	out := make([]string, len(row))
	for i, v := range row {
		out[i] = strings.ToLower(strings.TrimSpace(v))
	}
	return out
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// Parsers tolerantes: una celda ilegible cuenta como cero/false, nunca
// tumba la carga del fichero entero.

func parseIntCell(value string) int {
	if value == "" {
		return 0
	}
	if n, err := strconv.Atoi(value); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(normalizeDecimal(value), 64); err == nil {
		return int(f)
	}
	return 0
}

func parseFloatCell(value string) float64 {
	if value == "" {
		return 0
	}
	if f, err := strconv.ParseFloat(normalizeDecimal(value), 64); err == nil {
		return f
	}
	return 0
}

func parseBoolCell(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "1", "sí", "si", "yes", "online":
		return true
	}
	return false
}

// normalizeDecimal coma decimal europea y símbolo de euro fuera.
func normalizeDecimal(value string) string {
	v := strings.TrimSpace(value)
	v = strings.ReplaceAll(v, "€", "")
	v = strings.ReplaceAll(v, " ", "")
	switch {
	case strings.Contains(v, ",") && strings.Contains(v, "."):
		if strings.LastIndex(v, ",") > strings.LastIndex(v, ".") {
			// Formato europeo: punto de miles, coma decimal.
			v = strings.ReplaceAll(v, ".", "")
			v = strings.Replace(v, ",", ".", 1)
		} else {
			v = strings.ReplaceAll(v, ",", "")
		}
	case strings.Contains(v, ","):
		v = strings.ReplaceAll(v, ",", ".")
	}
	return v
}

// --- Selección desde mapas JSON ---

func pickString(row map[string]any, aliases []string) string {
	v := pickValue(row, aliases)
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	}
	return ""
}

func pickInt(row map[string]any, aliases []string) int {
	switch t := pickValue(row, aliases).(type) {
	case float64:
		return int(t)
	case string:
		return parseIntCell(t)
	}
	return 0
}

func pickFloat(row map[string]any, aliases []string) float64 {
	switch t := pickValue(row, aliases).(type) {
	case float64:
		return t
	case string:
		return parseFloatCell(t)
	}
	return 0
}

func pickBool(row map[string]any, aliases []string) bool {
	switch t := pickValue(row, aliases).(type) {
	case bool:
		return t
	case string:
		return parseBoolCell(t)
	case float64:
		return t != 0
	}
	return false
}

func pickValue(row map[string]any, aliases []string) any {
	for _, alias := range aliases {
		for key, v := range row {
			if strings.ToLower(strings.TrimSpace(key)) == alias {
				return v
			}
		}
	}
	return nil
}
