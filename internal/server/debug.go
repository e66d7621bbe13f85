package server

import (
	"encoding/json"
	"net/http"

	"cavern-combat/internal/engine"
)

// DebugHandler предоставляет доступ к внутреннему состоянию сервиса
type DebugHandler struct {
	Service *engine.BattleService
}

func NewDebugHandler(s *engine.BattleService) *DebugHandler {
	return &DebugHandler{Service: s}
}

// RegisterRoutes регистрирует debug-эндпоинты
func (h *DebugHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/debug/battles", h.handleListBattles)
}

// /debug/battles - все сессии вместе с числом подключенных зрителей
func (h *DebugHandler) handleListBattles(w http.ResponseWriter, r *http.Request) {
	type BattleSummary struct {
		ID         string `json:"id"`
		Status     string `json:"status"`
		Round      int    `json:"round"`
		Width      int    `json:"width"`
		Height     int    `json:"height"`
		Spectators int    `json:"spectators"`
		Search     bool   `json:"search"`
		Error      string `json:"error,omitempty"`
	}

	battles := h.Service.List()
	summary := make([]BattleSummary, 0, len(battles))
	for _, b := range battles {
		summary = append(summary, BattleSummary{
			ID:         b.ID,
			Status:     b.Status,
			Round:      b.Round,
			Width:      b.Grid.Width,
			Height:     b.Grid.Height,
			Spectators: h.Service.Hub.SubscriberCount(b.ID),
			Search:     b.Search,
			Error:      b.Error,
		})
	}

	writeJSON(w, summary)
}

func writeJSON(w http.ResponseWriter, data interface{}) {
	writeJSONStatus(w, http.StatusOK, data)
}

func writeJSONStatus(w http.ResponseWriter, status int, data interface{}) {
	// Разрешаем запросы с любого источника (нужно для локального debug-клиента)
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	// Если data == nil, возвращаем пустой массив [], а не null
	if data == nil {
		w.Write([]byte("[]"))
		return
	}

	json.NewEncoder(w).Encode(data)
}
