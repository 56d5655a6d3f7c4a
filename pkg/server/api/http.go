// Package api provides the HTTP API for price lookups and refreshes.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"gc.dev/game-prices/pkg/logging"
	"gc.dev/game-prices/pkg/metrics"
	"gc.dev/game-prices/pkg/pricing"
	"gc.dev/game-prices/pkg/pricing/sources"
	"gc.dev/game-prices/pkg/store"
)

// PriceManager is the part of the pricing manager the API needs.
type PriceManager interface {
	GetMarketPrices(ctx context.Context, q sources.Query, forceRefresh bool) ([]sources.Quote, error)
	UpdateGamePrice(ctx context.Context, game pricing.GameIdentity) (*pricing.PriceUpdate, error)
}

// GameStore is the part of the game store the API needs.
type GameStore interface {
	GetGame(ctx context.Context, id int64) (*store.Game, error)
	SaveGamePrice(ctx context.Context, id int64, price decimal.Decimal, source string, quotes []sources.Quote) error
	SetSteamAppID(ctx context.Context, id int64, appID string) error
}

// Server represents the HTTP API server.
type Server struct {
	addr           string
	manager        PriceManager
	games          GameStore
	requestTimeout time.Duration
	server         *http.Server
	logger         *logging.Logger
}

// NewServer creates a new HTTP API server.
func NewServer(addr string, manager PriceManager, games GameStore, requestTimeout time.Duration, logger *logging.Logger) *Server {
	return &Server{
		addr:           addr,
		manager:        manager,
		games:          games,
		requestTimeout: requestTimeout,
		logger:         logger,
	}
}

// Handler builds the route table. Exposed for tests.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /v1/prices", s.handlePrices)
	mux.HandleFunc("POST /v1/games/{id}/refresh", s.handleGameRefresh)
	return mux
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      s.requestTimeout + 30*time.Second,
		IdleTimeout:       120 * time.Second,
	}

	s.logger.Info("Starting HTTP server", "addr", s.addr)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("HTTP server error: %w", err)
	}
	return nil
}

// Stop gracefully stops the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		s.logger.Info("Stopping HTTP server")
		return s.server.Shutdown(ctx)
	}
	return nil
}

// handleHealth handles the /health endpoint.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	start := time.Now()
	defer func() {
		metrics.RecordHTTPRequest("/health", "200", time.Since(start))
	}()

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

type quoteResponse struct {
	Source    string            `json:"source"`
	Price     string            `json:"price"`
	Currency  string            `json:"currency"`
	FetchedAt time.Time         `json:"fetched_at"`
	Meta      map[string]string `json:"meta,omitempty"`
}

type bestResponse struct {
	Price  string `json:"price"`
	Source string `json:"source"`
}

type pricesResponse struct {
	Title  string          `json:"title"`
	Quotes []quoteResponse `json:"quotes"`
	Best   *bestResponse   `json:"best,omitempty"`
}

// handlePrices handles GET /v1/prices. A lookup needs at least a title;
// platform, slug and steam_appid narrow the sources consulted. refresh=true
// bypasses the cache.
func (s *Server) handlePrices(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	status := "200"
	defer func() {
		metrics.RecordHTTPRequest("/v1/prices", status, time.Since(start))
	}()

	params := r.URL.Query()
	title := params.Get("title")
	if title == "" {
		status = "400"
		http.Error(w, "title is required", http.StatusBadRequest)
		return
	}

	q := sources.Query{
		Title:        title,
		PlatformName: params.Get("platform"),
		PlatformSlug: params.Get("slug"),
		SteamAppID:   params.Get("steam_appid"),
	}
	forceRefresh := params.Get("refresh") == "true"

	ctx, cancel := context.WithTimeout(r.Context(), s.requestTimeout)
	defer cancel()

	quotes, err := s.manager.GetMarketPrices(ctx, q, forceRefresh)
	if err != nil {
		status = "503"
		s.logger.Error("Price lookup failed", "title", title, "error", err.Error())
		http.Error(w, "price lookup failed", http.StatusServiceUnavailable)
		return
	}

	s.sendJSON(w, buildPricesResponse(title, quotes))
}

func buildPricesResponse(title string, quotes []sources.Quote) pricesResponse {
	resp := pricesResponse{
		Title:  title,
		Quotes: make([]quoteResponse, 0, len(quotes)),
	}
	for _, q := range quotes {
		resp.Quotes = append(resp.Quotes, quoteResponse{
			Source:    q.Source,
			Price:     q.Price.String(),
			Currency:  q.Currency,
			FetchedAt: q.FetchedAt,
			Meta:      q.Meta,
		})
	}
	if best := pricing.SelectBest(quotes); best != nil {
		resp.Best = &bestResponse{
			Price:  best.Price.String(),
			Source: best.Source,
		}
	}
	return resp
}

type refreshResponse struct {
	Updated bool   `json:"updated"`
	Price   string `json:"price,omitempty"`
	Source  string `json:"source,omitempty"`
	Quotes  int    `json:"quotes"`
}

// handleGameRefresh handles POST /v1/games/{id}/refresh: re-price one
// stored game and persist the outcome.
func (s *Server) handleGameRefresh(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	status := "200"
	defer func() {
		metrics.RecordHTTPRequest("/v1/games/refresh", status, time.Since(start))
	}()

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		status = "400"
		http.Error(w, "invalid game id", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.requestTimeout)
	defer cancel()

	game, err := s.games.GetGame(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrGameNotFound) {
			status = "404"
			http.Error(w, "game not found", http.StatusNotFound)
			return
		}
		status = "500"
		s.logger.Error("Failed to load game", "id", id, "error", err.Error())
		http.Error(w, "failed to load game", http.StatusInternalServerError)
		return
	}

	update, err := s.manager.UpdateGamePrice(ctx, pricing.GameIdentity{
		Title:        game.Title,
		PlatformName: game.PlatformName,
		PlatformSlug: game.PlatformSlug,
		SteamAppID:   game.SteamAppID,
	})
	if err != nil {
		status = "503"
		s.logger.Error("Price refresh failed", "id", id, "error", err.Error())
		http.Error(w, "price refresh failed", http.StatusServiceUnavailable)
		return
	}
	if update == nil {
		s.sendJSON(w, refreshResponse{Updated: false})
		return
	}

	if err := s.games.SaveGamePrice(ctx, id, update.Price, update.Source, update.Quotes); err != nil {
		status = "500"
		s.logger.Error("Failed to persist price", "id", id, "error", err.Error())
		http.Error(w, "failed to persist price", http.StatusInternalServerError)
		return
	}
	if update.DiscoveredSteamAppID != "" {
		if err := s.games.SetSteamAppID(ctx, id, update.DiscoveredSteamAppID); err != nil {
			s.logger.Warn("Failed to persist steam app id", "id", id, "error", err.Error())
		}
	}
	metrics.RecordPriceUpdate(update.Source)

	s.sendJSON(w, refreshResponse{
		Updated: true,
		Price:   update.Price.String(),
		Source:  update.Source,
		Quotes:  len(update.Quotes),
	})
}

// sendJSON sends a JSON response.
func (s *Server) sendJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("Failed to encode JSON response", "error", err.Error())
	}
}
