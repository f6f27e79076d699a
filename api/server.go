package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"gameroom/game/engine"
	"gameroom/game/service"
	"gameroom/transport/websocket"
)

// userHeader identifies the acting user. Authentication is out of scope;
// whatever sits in front of this server is expected to set the header.
const userHeader = "X-User-ID"

// Server represents the REST API server
type Server struct {
	games   service.GameService
	turns   service.TurnService
	rooms   service.RoomService
	presets service.ConfigManager
	hub     *websocket.Hub
	limiter *userLimiter
	router  *mux.Router
}

// NewServer creates a new API server
func NewServer(games service.GameService, turns service.TurnService, rooms service.RoomService, presets service.ConfigManager, hub *websocket.Hub) *Server {
	s := &Server{
		games:   games,
		turns:   turns,
		rooms:   rooms,
		presets: presets,
		hub:     hub,
		limiter: newUserLimiter(10, 20, 10*time.Minute),
		router:  mux.NewRouter(),
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	// API routes with clean REST patterns
	api := s.router.PathPrefix("/api").Subrouter()
	api.Use(s.rateLimit)

	// Room management
	api.HandleFunc("/rooms", s.handleCreateRoom).Methods("POST")
	api.HandleFunc("/rooms", s.handleListWaitingRooms).Methods("GET")
	api.HandleFunc("/rooms/{id}", s.handleGetRoom).Methods("GET")
	api.HandleFunc("/rooms/{id}/join", s.handleJoinRoom).Methods("POST")
	api.HandleFunc("/rooms/{id}/start", s.handleStartRoom).Methods("POST")
	api.HandleFunc("/rooms/{id}/games", s.handleCreateGame).Methods("POST")

	// Card game operations
	api.HandleFunc("/games/{id}/rounds", s.handleStartRound).Methods("POST")
	api.HandleFunc("/games/{id}/hit", s.handleHit).Methods("POST")
	api.HandleFunc("/games/{id}/stand", s.handleStand).Methods("POST")
	api.HandleFunc("/games/{id}/continue", s.handleContinueRound).Methods("POST")
	api.HandleFunc("/games/{id}/cancel", s.handleCancelGame).Methods("POST")
	api.HandleFunc("/games/{id}/current", s.handleCurrent).Methods("GET")

	// Memory color game operations
	api.HandleFunc("/games/{id}/turns", s.handleCreateTurn).Methods("POST")
	api.HandleFunc("/games/{id}/turns", s.handleListTurns).Methods("GET")
	api.HandleFunc("/games/{id}/colors", s.handleAddColor).Methods("POST")

	// Presets
	api.HandleFunc("/presets", s.handleListPresets).Methods("GET")
	api.HandleFunc("/presets/{name}", s.handleGetPreset).Methods("GET")

	// WebSocket
	s.router.HandleFunc("/ws", s.handleWebSocket)

	// Operational endpoints
	s.router.Handle("/metrics", promhttp.Handler())
	s.router.HandleFunc("/health", s.handleHealth)
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// rateLimit rejects users that exceed their token bucket.
func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.allow(r.Header.Get(userHeader), time.Now()) {
			respondError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps service and engine errors to HTTP statuses.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, engine.ErrNotPlayersTurn),
		errors.Is(err, engine.ErrInvalidAction),
		errors.Is(err, engine.ErrRoundEnded),
		errors.Is(err, service.ErrGameNotActive),
		errors.Is(err, service.ErrRoundInProgress),
		errors.Is(err, service.ErrRoomFull),
		errors.Is(err, service.ErrRoomNotJoinable),
		errors.Is(err, service.ErrNotHost),
		errors.Is(err, service.ErrNotEnoughPlayers):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrNotSeated),
		errors.Is(err, service.ErrNoPendingTurn),
		errors.Is(err, engine.ErrInvalidColor),
		errors.Is(err, engine.ErrNoSeatedPlayers):
		respondError(w, http.StatusBadRequest, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, err.Error())
	}
}

// userID extracts the acting user from the request header.
func userID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := strings.TrimSpace(r.Header.Get(userHeader))
	if id == "" {
		respondError(w, http.StatusUnauthorized, userHeader+" header is required")
		return "", false
	}
	return id, true
}

// Room Handlers

func (s *Server) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	host, ok := userID(w, r)
	if !ok {
		return
	}

	var req struct {
		Name   string `json:"name"`
		Preset string `json:"preset,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "Room name is required")
		return
	}

	room, err := s.rooms.CreateRoom(r.Context(), req.Name, host, req.Preset)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, room)
}

func (s *Server) handleListWaitingRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := s.rooms.WaitingRooms(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(rooms),
		"rooms": rooms,
	})
}

func (s *Server) handleGetRoom(w http.ResponseWriter, r *http.Request) {
	room, err := s.rooms.Room(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, room)
}

func (s *Server) handleJoinRoom(w http.ResponseWriter, r *http.Request) {
	user, ok := userID(w, r)
	if !ok {
		return
	}

	room, err := s.rooms.JoinRoom(r.Context(), mux.Vars(r)["id"], user)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, room)
}

func (s *Server) handleStartRoom(w http.ResponseWriter, r *http.Request) {
	user, ok := userID(w, r)
	if !ok {
		return
	}

	game, err := s.rooms.StartRoom(r.Context(), mux.Vars(r)["id"], user)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, game)
}

func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	if _, ok := userID(w, r); !ok {
		return
	}

	game, err := s.games.CreateGame(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, game)
}

// Card Game Handlers

func (s *Server) handleStartRound(w http.ResponseWriter, r *http.Request) {
	if _, ok := userID(w, r); !ok {
		return
	}

	if err := s.games.StartRound(r.Context(), mux.Vars(r)["id"]); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]string{
		"message": "Round started",
	})
}

func (s *Server) handleHit(w http.ResponseWriter, r *http.Request) {
	user, ok := userID(w, r)
	if !ok {
		return
	}

	outcome, err := s.games.Hit(r.Context(), mux.Vars(r)["id"], user)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, outcome)
}

func (s *Server) handleStand(w http.ResponseWriter, r *http.Request) {
	user, ok := userID(w, r)
	if !ok {
		return
	}

	outcome, err := s.games.Stand(r.Context(), mux.Vars(r)["id"], user)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, outcome)
}

func (s *Server) handleContinueRound(w http.ResponseWriter, r *http.Request) {
	user, ok := userID(w, r)
	if !ok {
		return
	}

	var req struct {
		Continue bool `json:"continue"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	outcome, err := s.games.ContinueRound(r.Context(), mux.Vars(r)["id"], user, req.Continue)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"outcome": outcome,
	})
}

func (s *Server) handleCancelGame(w http.ResponseWriter, r *http.Request) {
	if _, ok := userID(w, r); !ok {
		return
	}

	if err := s.games.CancelGame(r.Context(), mux.Vars(r)["id"]); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "Game canceled",
	})
}

func (s *Server) handleCurrent(w http.ResponseWriter, r *http.Request) {
	user, ok := userID(w, r)
	if !ok {
		return
	}

	snapshot, err := s.games.Current(r.Context(), mux.Vars(r)["id"], user)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, snapshot)
}

// Memory Color Game Handlers

func (s *Server) handleCreateTurn(w http.ResponseWriter, r *http.Request) {
	user, ok := userID(w, r)
	if !ok {
		return
	}

	var req struct {
		Input []engine.Color `json:"input"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	turn, err := s.turns.CreateTurn(r.Context(), mux.Vars(r)["id"], user, req.Input)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, turn)
}

func (s *Server) handleListTurns(w http.ResponseWriter, r *http.Request) {
	turns, err := s.turns.ListTurns(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(turns),
		"turns": turns,
	})
}

func (s *Server) handleAddColor(w http.ResponseWriter, r *http.Request) {
	user, ok := userID(w, r)
	if !ok {
		return
	}

	var req struct {
		Color engine.Color `json:"color"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := s.turns.AddColor(r.Context(), mux.Vars(r)["id"], user, req.Color); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": "Color accepted",
	})
}

// Preset Handlers

func (s *Server) handleListPresets(w http.ResponseWriter, r *http.Request) {
	presets, err := s.presets.ListPresets()
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, presets)
}

func (s *Server) handleGetPreset(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	// Remove extensions if present
	name = strings.TrimSuffix(strings.TrimSuffix(name, ".yaml"), ".yml")

	preset, err := s.presets.Preset(name)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, preset)
}

// WebSocket Handler

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	gameID := r.URL.Query().Get("game")
	if gameID == "" {
		http.Error(w, "game parameter required", http.StatusBadRequest)
		return
	}

	// Verify game exists before upgrading
	user := r.Header.Get(userHeader)
	if _, err := s.games.Current(r.Context(), gameID, user); err != nil && errors.Is(err, service.ErrNotFound) {
		http.Error(w, "Invalid game", http.StatusNotFound)
		return
	}

	s.hub.ServeWS(w, r, gameID)
}

// Health check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}
