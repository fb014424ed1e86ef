package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/ThinkInAIXYZ/go-mcp/protocol"
	"go.uber.org/zap"

	"macro-meter/internal/tracker"
	"macro-meter/internal/usda"
)

const Version = "1.0.0"

// FoodLookup finds per-100g nutrition for a food name.
type FoodLookup interface {
	Lookup(ctx context.Context, name string) (*usda.Nutrition, error)
}

type Config struct {
	Addr string
}

type toolHandler func(ctx context.Context, req *protocol.CallToolRequest) (*protocol.CallToolResult, error)

// MacroServer exposes the tracker as tool calls over HTTP.
type MacroServer struct {
	httpServer *http.Server
	tracker    *tracker.Tracker
	lookup     FoodLookup
	logger     *zap.Logger
	info       protocol.Implementation
	tools      map[string]toolHandler
}

// NewMacroServer wires the handlers. lookup may be nil, in which case
// lookup_food reports that it is unavailable.
func NewMacroServer(cfg *Config, tr *tracker.Tracker, lookup FoodLookup, logger *zap.Logger) (*MacroServer, error) {
	if tr == nil {
		return nil, fmt.Errorf("tracker is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &MacroServer{
		tracker: tr,
		lookup:  lookup,
		logger:  logger,
		info: protocol.Implementation{
			Name:    "macro-meter",
			Version: Version,
		},
	}

	if err := s.registerTools(); err != nil {
		return nil, fmt.Errorf("failed to register tools: %w", err)
	}

	s.httpServer = &http.Server{
		Addr:    cfg.Addr,
		Handler: s.Handler(),
	}
	return s, nil
}

// Handler returns the HTTP routes: tool calls on POST /, a liveness probe
// on GET /healthz and server info on GET /.
func (s *MacroServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/", s.handleHTTP)
	return mux
}

func (s *MacroServer) handleHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

	switch r.Method {
	case http.MethodOptions:
		return
	case http.MethodGet:
		s.writeJSON(w, map[string]interface{}{
			"server": s.info,
			"tools":  s.toolNames(),
		})
		return
	case http.MethodPost:
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var request protocol.CallToolRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, fmt.Sprintf("Invalid JSON: %v", err), http.StatusBadRequest)
		return
	}

	handler, ok := s.tools[request.Name]
	if !ok {
		http.Error(w, fmt.Sprintf("Unknown tool: %s", request.Name), http.StatusNotFound)
		return
	}

	result, err := handler(r.Context(), &request)
	if err != nil {
		status := statusFor(err)
		s.logger.Warn("tool call failed",
			zap.String("tool", request.Name),
			zap.Int("status", status),
			zap.Error(err))
		http.Error(w, err.Error(), status)
		return
	}

	s.writeJSON(w, result)
}

func (s *MacroServer) writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", zap.Error(err))
	}
}

var (
	errInvalidParams  = errors.New("invalid parameters")
	errLookupDisabled = errors.New("food lookup is not configured")
)

func statusFor(err error) int {
	switch {
	case errors.Is(err, errInvalidParams),
		errors.Is(err, tracker.ErrNegativeGoal),
		errors.Is(err, tracker.ErrUnknownSetting),
		errors.Is(err, tracker.ErrInvalidDate),
		errors.Is(err, tracker.ErrEmptyFoodName):
		return http.StatusBadRequest
	case errors.Is(err, usda.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, errLookupDisabled):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func (s *MacroServer) Start(ctx context.Context) error {
	s.logger.Info("starting macro-meter server", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *MacroServer) Stop(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

func (s *MacroServer) createJSONResponse(data interface{}) (*protocol.CallToolResult, error) {
	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response: %w", err)
	}

	return &protocol.CallToolResult{
		Content: []protocol.Content{
			protocol.TextContent{
				Type: "text",
				Text: string(jsonBytes),
			},
		},
	}, nil
}
