package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"retailsense-api/pkg/models"
	"retailsense-api/pkg/services"
	"retailsense-api/pkg/store"
)

// ChatHandler expone el chatbot sobre HTTP.
type ChatHandler struct {
	chatbot *services.ChatbotService
	store   *store.DatasetStore
}

// NewChatHandler crea el handler del chatbot.
func NewChatHandler(chatbot *services.ChatbotService, st *store.DatasetStore) *ChatHandler {
	return &ChatHandler{chatbot: chatbot, store: st}
}

// Chat procesa un mensaje del usuario contra el snapshot actual de datos.
func (h *ChatHandler) Chat(c *gin.Context) {
	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cuerpo de la petición inválido: " + err.Error()})
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "el mensaje no puede estar vacío"})
		return
	}

	snap := h.store.Snapshot()
	resp := h.chatbot.ProcessMessage(c.Request.Context(), req.Message, snap.Sales, snap.Products, snap.Transfers)
	c.JSON(http.StatusOK, resp)
}
