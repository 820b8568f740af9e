package models

import "time"

// --- Registros canónicos del dataset ---
// Todo dato externo (xlsx, csv, JSON) se normaliza a estas formas en la capa
// de ingesta; el resto del código solo conoce esta convención de campos.

// SalesRecord una línea de venta. Cantidad negativa = devolución.
type SalesRecord struct {
	Season            string  `json:"temporada"`
	FamilyCode        string  `json:"familia"`
	FamilyDescription string  `json:"descripcionFamilia"`
	Store             string  `json:"tienda"`
	Size              string  `json:"talla"`
	SaleDate          string  `json:"fechaVenta"`
	Quantity          int     `json:"cantidad"`
	Subtotal          float64 `json:"subtotal"`
	IsOnline          bool    `json:"esOnline"`
	Color             string  `json:"color"`
	ProductCode       string  `json:"codigoUnico"`
}

// ProductRecord ficha de producto (pedidos y costes).
type ProductRecord struct {
	ProductCode     string  `json:"codigoUnico"`
	ACT             string  `json:"act"`
	OrderedQuantity int     `json:"cantidadPedida"`
	CostPrice       float64 `json:"precioCoste"`
	Price           float64 `json:"pvp"`
	WarehouseDate   string  `json:"fechaAlmacen"`
	FamilyCode      string  `json:"familia"`
	Size            string  `json:"talla"`
	Color           string  `json:"color"`
}

// TransferRecord movimiento de stock entre almacén y tienda.
type TransferRecord struct {
	ProductCode  string `json:"codigoUnico"`
	ACT          string `json:"act"`
	SentQuantity int    `json:"enviado"`
	Store        string `json:"tienda"`
	SentDate     string `json:"fechaEnviado"`
}

// DatasetCounts filas disponibles por dataset.
type DatasetCounts struct {
	Sales     int `json:"ventas"`
	Products  int `json:"productos"`
	Transfers int `json:"traspasos"`
}

// --- Contrato del chatbot ---

// ChatRequest petición entrante del chatbot.
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse siempre lleva un mensaje; la visualización solo cuando se pudo
// materializar con datos.
type ChatResponse struct {
	Message       string             `json:"message"`
	Visualization *VisualizationSpec `json:"visualization,omitempty"`
}

// VizConfig configuración de ejes/series para el cliente.
type VizConfig struct {
	XAxis    string   `json:"xAxis,omitempty"`
	DataKey  string   `json:"dataKey,omitempty"`
	DataKeys []string `json:"dataKeys,omitempty"`
	NameKey  string   `json:"nameKey,omitempty"`
	Columns  []string `json:"columns,omitempty"`
	MaxRows  int      `json:"maxRows,omitempty"`
}

// ChartPlan resultado del planificador de visualizaciones, aún sin datos.
type ChartPlan struct {
	Type        string    `json:"type"`
	Config      VizConfig `json:"config"`
	Description string    `json:"description"`
}

// VisualizationSpec plan + filas materializadas, tal cual lo consume la UI.
type VisualizationSpec struct {
	Type   string           `json:"type"`
	Config VizConfig        `json:"config"`
	Data   []map[string]any `json:"data"`
}

// --- Agregados ---

// GroupTotal acumulado de un grupo (tienda, familia, temporada, talla...).
type GroupTotal struct {
	Name         string  `json:"name"`
	Units        int     `json:"units"`
	Revenue      float64 `json:"revenue"`
	Transactions int     `json:"transactions"`
}

// MonthTotal acumulado por mes de calendario (clave YYYY-MM).
type MonthTotal struct {
	Month   string  `json:"mes"`
	Units   int     `json:"cantidad"`
	Revenue float64 `json:"beneficio"`
}

// StatsDigest foto de ~20 cifras agregadas del dataset completo. Se calcula
// de cero en cada llamada conversacional; no tiene identidad propia.
type StatsDigest struct {
	TotalUnits          int          `json:"totalUnits"`
	TotalRevenue        float64      `json:"totalRevenue"`
	NetRevenue          float64      `json:"netRevenue"`
	ReturnedUnits       int          `json:"returnedUnits"`
	ReturnRate          float64      `json:"returnRate"`
	UniqueStores        int          `json:"uniqueStores"`
	UniqueFamilies      int          `json:"uniqueFamilies"`
	UniqueSeasons       int          `json:"uniqueSeasons"`
	UniqueSizes         int          `json:"uniqueSizes"`
	UniqueColors        int          `json:"uniqueColors"`
	OnlineStores        int          `json:"onlineStores"`
	PhysicalStores      int          `json:"physicalStores"`
	OnlineUnits         int          `json:"onlineUnits"`
	PhysicalUnits       int          `json:"physicalUnits"`
	OnlineRevenue       float64      `json:"onlineRevenue"`
	PhysicalRevenue     float64      `json:"physicalRevenue"`
	AvgUnitsPerStore    float64      `json:"avgUnitsPerStore"`
	AvgRevenuePerStore  float64      `json:"avgRevenuePerStore"`
	TopStores           []GroupTotal `json:"topStores"`
	WorstStores         []GroupTotal `json:"worstStores"`
	TopFamilies         []GroupTotal `json:"topFamilies"`
	TopSeasons          []GroupTotal `json:"topSeasons"`
	TopSizes            []GroupTotal `json:"topSizes"`
	TopProducts         []GroupTotal `json:"topProducts"`
	OrderedProductUnits int          `json:"orderedProductUnits"`
	AvgCostPrice        float64      `json:"avgCostPrice"`
	TransferredUnits    int          `json:"transferredUnits"`
	StoresWithTransfers int          `json:"storesWithTransfers"`
	StoreNames          []string     `json:"storeNames"`
	BrandStores         []string     `json:"brandStores"`
	FamilyNames         []string     `json:"familyNames"`
}

// --- Monitorización ---

// RequestLogEntry línea del buffer de peticiones HTTP.
type RequestLogEntry struct {
	Timestamp time.Time     `json:"timestamp"`
	Method    string        `json:"method"`
	Path      string        `json:"path"`
	Status    int           `json:"status"`
	Duration  time.Duration `json:"duration"`
	ClientIP  string        `json:"client_ip"`
}
