package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"retailsense-api/pkg/services"
)

// HealthCheck sonda de vida del servicio.
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// MonitoringHandler expone el buffer de peticiones recientes.
type MonitoringHandler struct {
	monitoring *services.MonitoringService
}

// NewMonitoringHandler crea el handler de monitorización.
func NewMonitoringHandler(monitoring *services.MonitoringService) *MonitoringHandler {
	return &MonitoringHandler{monitoring: monitoring}
}

// RecentRequests últimas peticiones registradas por el middleware.
func (h *MonitoringHandler) RecentRequests(c *gin.Context) {
	entries := h.monitoring.RecentRequests()
	c.JSON(http.StatusOK, gin.H{"total": len(entries), "requests": entries})
}
