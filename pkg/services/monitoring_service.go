package services

import (
	"log"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"retailsense-api/pkg/models"
)

// monitoringBufferSize entradas retenidas; al llenarse se descarta la más
// antigua.
const monitoringBufferSize = 500

// MonitoringService buffer circular en memoria con las últimas peticiones
// HTTP. Suficiente para el endpoint de diagnóstico; no pretende ser un
// sistema de métricas.
type MonitoringService struct {
	mu      sync.Mutex
	entries []models.RequestLogEntry
}

// NewMonitoringService crea el servicio de monitorización.
func NewMonitoringService() *MonitoringService {
	return &MonitoringService{entries: make([]models.RequestLogEntry, 0, monitoringBufferSize)}
}

// Middleware registra método, ruta, estado y duración de cada petición.
func (s *MonitoringService) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := models.RequestLogEntry{
			Timestamp: start,
			Method:    c.Request.Method,
			Path:      c.Request.URL.Path,
			Status:    c.Writer.Status(),
			Duration:  time.Since(start),
			ClientIP:  c.ClientIP(),
		}
		s.record(entry)
		log.Printf("📡 %s %s -> %d (%s)", entry.Method, entry.Path, entry.Status, entry.Duration)
	}
}

func (s *MonitoringService) record(entry models.RequestLogEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.entries) >= monitoringBufferSize {
		s.entries = s.entries[1:]
	}
	s.entries = append(s.entries, entry)
}

// RecentRequests copia de las entradas retenidas, de más antigua a más
// reciente.
func (s *MonitoringService) RecentRequests() []models.RequestLogEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.RequestLogEntry, len(s.entries))
	copy(out, s.entries)
	return out
}
