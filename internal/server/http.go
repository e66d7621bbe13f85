package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	_ "net/http/pprof" // Profiling
	"time"

	"cavern-combat/internal/domain"
	"cavern-combat/internal/engine"
	"cavern-combat/internal/version"
	"cavern-combat/pkg/api"
	"cavern-combat/pkg/logger"
)

type Server struct {
	Service *engine.BattleService
	Port    string
}

func New(service *engine.BattleService, port string) *Server {
	return &Server{
		Service: service,
		Port:    port,
	}
}

// Handler собирает все роуты сервера
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Регистрируем роуты
	mux.HandleFunc("GET /battles", enableCORS(s.handleListBattles))
	mux.HandleFunc("POST /battles", enableCORS(s.handleStartBattle))
	mux.HandleFunc("GET /battles/{id}", enableCORS(s.handleGetBattle))
	mux.HandleFunc("OPTIONS /battles", enableCORS(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/health", enableCORS(s.handleHealth))
	mux.HandleFunc("/version", enableCORS(s.handleVersion))

	debugHandler := NewDebugHandler(s.Service)
	debugHandler.RegisterRoutes(mux)

	// pprof регистрируется в DefaultServeMux
	mux.Handle("/debug/pprof/", http.DefaultServeMux)

	return mux
}

// Run запускает HTTP сервер и останавливает его при отмене ctx
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + s.Port,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Log.WithError(err).Warn("HTTP server shutdown failed")
		}
	}()

	logger.Log.Infof("⚔️  Cavern Combat server running on :%s", s.Port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func enableCORS(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Разрешаем запросы с фронтенда
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		// Разрешаем заголовки, если фронт шлет что-то нестандартное
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		next(w, r)
	}
}

func (s *Server) handleStartBattle(w http.ResponseWriter, r *http.Request) {
	var req api.StartBattleRequest
	body := http.MaxBytesReader(w, r.Body, 2*api.MaxLayoutSize)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		http.Error(w, "invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	sess, err := s.Service.Start(req)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, domain.ErrMalformedMap) {
			status = http.StatusBadRequest
		}
		http.Error(w, err.Error(), status)
		return
	}

	w.Header().Set("Location", "/battles/"+sess.ID)
	writeJSONStatus(w, http.StatusCreated, sess.View())
}

func (s *Server) handleListBattles(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Service.List())
}

func (s *Server) handleGetBattle(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.Service.Get(r.PathValue("id"))
	if !ok {
		http.Error(w, "battle not found", http.StatusNotFound)
		return
	}
	writeJSON(w, sess.View())
}

// handleWS подключает зрителя к трансляции боя
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	battleID := r.URL.Query().Get("battle")
	if _, ok := s.Service.Get(battleID); !ok {
		http.Error(w, "battle not found", http.StatusNotFound)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.WithError(err).Error("Upgrade error")
		return
	}

	client := NewClient(s.Service.Hub, conn, battleID)

	// Запускаем пампы
	go client.writePump()
	go client.readPump()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, version.Info())
}
