// Package server exposes the save operations over HTTP and WebSocket for
// the web backend.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/hashicorp/go-hclog"
)

// Server routes requests to a Backend
type Server struct {
	backend  Backend
	router   *mux.Router
	upgrader websocket.Upgrader
	logger   hclog.Logger
}

// wsRequest is one WebSocket command message
type wsRequest struct {
	ID      string   `json:"id"`
	Command string   `json:"command"`
	Args    []string `json:"args"`
}

// wsResponse answers the wsRequest with the same id
type wsResponse struct {
	ID   string `json:"id"`
	Data any    `json:"data"`
}

// New creates a server with its routes set up
func New(backend Backend, logger hclog.Logger) *Server {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	s := &Server{
		backend: backend,
		router:  mux.NewRouter(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		logger: logger,
	}
	s.setupRoutes()
	return s
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	s.router.HandleFunc("/ws", s.handleWebSocket)

	s.router.HandleFunc("/uploadsave", s.handleUploadSave).Methods("GET")
	s.router.HandleFunc("/updatesave", s.handleUpdateSave).Methods("GET")
	s.router.HandleFunc("/convertoldcloudfile", s.handleConvertOldCloudFile).Methods("GET")
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")

	s.router.Use(s.logMiddleware, corsMiddleware)
}

// ListenAndServe serves on addr until ctx is cancelled
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("🌐 Save server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("🛑 Save server shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

func (s *Server) writeData(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(Response{Data: data}); err != nil {
		s.logger.Error("❌ Failed to encode response", "error", err)
	}
}

// query returns the named query parameters, or false when one is missing
func query(r *http.Request, names ...string) ([]string, bool) {
	values := make([]string, len(names))
	for i, name := range names {
		values[i] = r.URL.Query().Get(name)
		if values[i] == "" {
			return nil, false
		}
	}
	return values, true
}

func (s *Server) handleUploadSave(w http.ResponseWriter, r *http.Request) {
	args, ok := query(r, "saveFilePath")
	if !ok {
		s.writeData(w, http.StatusBadRequest, "")
		return
	}
	s.writeData(w, http.StatusOK, Dispatch(s.backend, CommandUploadSave, args))
}

func (s *Server) handleUpdateSave(w http.ResponseWriter, r *http.Request) {
	args, ok := query(r, "updatedDataJSON", "originalSaveFilePath")
	if !ok {
		s.writeData(w, http.StatusBadRequest, "")
		return
	}
	s.writeData(w, http.StatusOK, Dispatch(s.backend, CommandUpdateSave, args))
}

func (s *Server) handleConvertOldCloudFile(w http.ResponseWriter, r *http.Request) {
	args, ok := query(r, "cloudFilePath")
	if !ok {
		s.writeData(w, http.StatusBadRequest, "")
		return
	}
	s.writeData(w, http.StatusOK, Dispatch(s.backend, CommandConvertOldCloudFile, args))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeData(w, http.StatusOK, "ok")
}

// handleWebSocket answers command messages until the client disconnects
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("⚠️ WebSocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	s.logger.Debug("🔌 WebSocket client connected", "remote", r.RemoteAddr)
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Warn("⚠️ WebSocket read failed", "error", err)
			}
			return
		}

		var req wsRequest
		resp := wsResponse{Data: ""}
		if err := json.Unmarshal(msg, &req); err != nil {
			s.logger.Warn("⚠️ Malformed WebSocket message", "error", err)
		} else {
			resp.ID = req.ID
			resp.Data = Dispatch(s.backend, req.Command, req.Args)
		}

		if err := conn.WriteJSON(resp); err != nil {
			s.logger.Warn("⚠️ WebSocket write failed", "error", err)
			return
		}
	}
}

// statusRecorder remembers the status code written through it
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// logMiddleware logs every request at debug level
func (s *Server) logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/ws" {
			next.ServeHTTP(w, r)
			return
		}
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug("📨 Request served",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}

// corsMiddleware adds CORS headers
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
