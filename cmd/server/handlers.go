package main

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"trade-journal-go/internal/ai"
	"trade-journal-go/internal/marketdata"
	"trade-journal-go/internal/models"
	"trade-journal-go/internal/performance"
	"trade-journal-go/internal/store"

	"go.uber.org/zap"
)

// APIHandler holds dependencies for the API endpoints.
type APIHandler struct {
	log      *zap.Logger
	store    *store.Store
	market   marketdata.ClientInterface
	analyzer ai.AnalyzerInterface
}

// NewAPIHandler creates a new APIHandler.
func NewAPIHandler(log *zap.Logger, st *store.Store, market marketdata.ClientInterface, analyzer ai.AnalyzerInterface) *APIHandler {
	return &APIHandler{log: log, store: st, market: market, analyzer: analyzer}
}

// Register wires all endpoints onto the mux.
func (h *APIHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/users", h.CreateUserHandler)
	mux.HandleFunc("GET /api/users/{id}", h.GetUserHandler)
	mux.HandleFunc("PUT /api/users/{id}", h.UpdateUserHandler)
	mux.HandleFunc("DELETE /api/users/{id}", h.DeleteUserHandler)

	mux.HandleFunc("GET /api/trades", h.ListTradesHandler)
	mux.HandleFunc("POST /api/trades", h.CreateTradeHandler)
	mux.HandleFunc("GET /api/trades/{id}", h.GetTradeHandler)
	mux.HandleFunc("PUT /api/trades/{id}", h.UpdateTradeHandler)
	mux.HandleFunc("DELETE /api/trades/{id}", h.DeleteTradeHandler)

	mux.HandleFunc("GET /api/watchlist", h.ListWatchlistHandler)
	mux.HandleFunc("POST /api/watchlist", h.AddWatchlistHandler)
	mux.HandleFunc("DELETE /api/watchlist/{symbol}", h.RemoveWatchlistHandler)

	mux.HandleFunc("GET /api/alerts", h.ListAlertsHandler)
	mux.HandleFunc("POST /api/alerts", h.CreateAlertHandler)
	mux.HandleFunc("POST /api/alerts/{id}/toggle", h.ToggleAlertHandler)
	mux.HandleFunc("DELETE /api/alerts/{id}", h.DeleteAlertHandler)

	mux.HandleFunc("GET /api/statistics", h.StatisticsHandler)
	mux.HandleFunc("GET /api/metrics", h.MetricsHandler)
	mux.HandleFunc("POST /api/metrics/rollup", h.RollupHandler)

	mux.HandleFunc("GET /api/export", h.ExportHandler)
	mux.HandleFunc("POST /api/import", h.ImportHandler)

	mux.HandleFunc("GET /api/market/quote/{symbol}", h.QuoteHandler)
	mux.HandleFunc("GET /api/market/news", h.NewsHandler)

	mux.HandleFunc("POST /api/analysis/trades/{id}", h.AnalyzeTradeHandler)
	mux.HandleFunc("POST /api/analysis/portfolio", h.AnalyzePortfolioHandler)
	mux.HandleFunc("POST /api/analysis/strategy/{userID}", h.GenerateStrategyHandler)
}

func (h *APIHandler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Error("Failed to encode response", zap.Error(err))
	}
}

// ---- users ----

func (h *APIHandler) CreateUserHandler(w http.ResponseWriter, r *http.Request) {
	var u models.User
	if err := json.NewDecoder(r.Body).Decode(&u); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.store.CreateUser(&u); err != nil {
		http.Error(w, "failed to create user", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusCreated, u)
}

func (h *APIHandler) GetUserHandler(w http.ResponseWriter, r *http.Request) {
	u, err := h.store.GetUser(r.PathValue("id"))
	if err != nil {
		http.Error(w, "failed to get user", http.StatusInternalServerError)
		return
	}
	if u == nil {
		http.Error(w, "user not found", http.StatusNotFound)
		return
	}
	h.writeJSON(w, http.StatusOK, u)
}

func (h *APIHandler) UpdateUserHandler(w http.ResponseWriter, r *http.Request) {
	var u models.User
	if err := json.NewDecoder(r.Body).Decode(&u); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	u.ID = r.PathValue("id")
	if err := h.store.UpdateUser(&u); err != nil {
		http.Error(w, "failed to update user", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, u)
}

func (h *APIHandler) DeleteUserHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteUser(r.PathValue("id")); err != nil {
		http.Error(w, "failed to delete user", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---- trades ----

// tradeFilterFromQuery maps query parameters onto a TradeFilter;
// omitted parameters impose no constraint.
func tradeFilterFromQuery(r *http.Request) (store.TradeFilter, error) {
	q := r.URL.Query()
	filter := store.TradeFilter{
		UserID: q.Get("user_id"),
		Symbol: q.Get("symbol"),
		Type:   q.Get("type"),
	}
	if v := q.Get("start"); v != "" {
		start, err := time.Parse("2006-01-02", v)
		if err != nil {
			return filter, err
		}
		filter.Start = &start
	}
	if v := q.Get("end"); v != "" {
		end, err := time.Parse("2006-01-02", v)
		if err != nil {
			return filter, err
		}
		filter.End = &end
	}
	if v := q.Get("limit"); v != "" {
		filter.Limit, _ = strconv.Atoi(v)
	}
	if v := q.Get("offset"); v != "" {
		filter.Offset, _ = strconv.Atoi(v)
	}
	return filter, nil
}

func (h *APIHandler) ListTradesHandler(w http.ResponseWriter, r *http.Request) {
	filter, err := tradeFilterFromQuery(r)
	if err != nil {
		http.Error(w, "invalid date filter, expected YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	trades, err := h.store.GetTrades(filter)
	if err != nil {
		h.log.Error("Failed to get trades", zap.Error(err))
		http.Error(w, "failed to get trades", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, trades)
}

func (h *APIHandler) CreateTradeHandler(w http.ResponseWriter, r *http.Request) {
	var t models.Trade
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.store.CreateTrade(&t); err != nil {
		http.Error(w, "failed to create trade", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusCreated, t)
}

func (h *APIHandler) GetTradeHandler(w http.ResponseWriter, r *http.Request) {
	t, err := h.store.GetTrade(r.PathValue("id"))
	if err != nil {
		http.Error(w, "failed to get trade", http.StatusInternalServerError)
		return
	}
	if t == nil {
		http.Error(w, "trade not found", http.StatusNotFound)
		return
	}
	h.writeJSON(w, http.StatusOK, t)
}

func (h *APIHandler) UpdateTradeHandler(w http.ResponseWriter, r *http.Request) {
	var t models.Trade
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	t.ID = r.PathValue("id")
	if err := h.store.UpdateTrade(&t); err != nil {
		http.Error(w, "failed to update trade", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, t)
}

func (h *APIHandler) DeleteTradeHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteTrade(r.PathValue("id")); err != nil {
		http.Error(w, "failed to delete trade", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---- watchlist ----

func (h *APIHandler) ListWatchlistHandler(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.GetWatchlist()
	if err != nil {
		http.Error(w, "failed to get watchlist", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, items)
}

func (h *APIHandler) AddWatchlistHandler(w http.ResponseWriter, r *http.Request) {
	var item models.WatchlistItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.store.AddWatchlistItem(&item); err != nil {
		http.Error(w, "failed to add watchlist item", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusCreated, item)
}

func (h *APIHandler) RemoveWatchlistHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.store.RemoveWatchlistItem(r.PathValue("symbol")); err != nil {
		http.Error(w, "failed to remove watchlist item", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---- alerts ----

func (h *APIHandler) ListAlertsHandler(w http.ResponseWriter, r *http.Request) {
	filter := store.AlertFilter{
		Symbol:     r.URL.Query().Get("symbol"),
		ActiveOnly: r.URL.Query().Get("active") == "true",
	}
	alerts, err := h.store.GetAlerts(filter)
	if err != nil {
		http.Error(w, "failed to get alerts", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, alerts)
}

func (h *APIHandler) CreateAlertHandler(w http.ResponseWriter, r *http.Request) {
	var a models.Alert
	if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.store.CreateAlert(&a); err != nil {
		http.Error(w, "failed to create alert", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusCreated, a)
}

func (h *APIHandler) ToggleAlertHandler(w http.ResponseWriter, r *http.Request) {
	a, err := h.store.GetAlert(r.PathValue("id"))
	if err != nil {
		http.Error(w, "failed to get alert", http.StatusInternalServerError)
		return
	}
	if a == nil {
		http.Error(w, "alert not found", http.StatusNotFound)
		return
	}
	a.Active = !a.Active
	if err := h.store.UpdateAlert(a); err != nil {
		http.Error(w, "failed to toggle alert", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, a)
}

func (h *APIHandler) DeleteAlertHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteAlert(r.PathValue("id")); err != nil {
		http.Error(w, "failed to delete alert", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---- statistics & metrics ----

// StatisticsHandler aggregates the full trade history on the fly.
func (h *APIHandler) StatisticsHandler(w http.ResponseWriter, r *http.Request) {
	trades, err := h.store.GetTrades(store.TradeFilter{})
	if err != nil {
		h.log.Error("Failed to get trades for statistics", zap.Error(err))
		http.Error(w, "failed to calculate statistics", http.StatusInternalServerError)
		return
	}
	metric := performance.Compute(trades, time.Now().Format("2006-01-02"))
	h.writeJSON(w, http.StatusOK, metric)
}

func (h *APIHandler) MetricsHandler(w http.ResponseWriter, r *http.Request) {
	metrics, err := h.store.GetPerformanceMetrics(r.URL.Query().Get("start"), r.URL.Query().Get("end"))
	if err != nil {
		http.Error(w, "failed to get metrics", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, metrics)
}

// RollupHandler computes today's rollup and persists it (upsert by date).
func (h *APIHandler) RollupHandler(w http.ResponseWriter, r *http.Request) {
	trades, err := h.store.GetTrades(store.TradeFilter{})
	if err != nil {
		http.Error(w, "failed to get trades", http.StatusInternalServerError)
		return
	}
	metric := performance.Compute(trades, time.Now().Format("2006-01-02"))
	if err := h.store.SavePerformanceMetric(&metric); err != nil {
		http.Error(w, "failed to save metric", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, metric)
}

// ---- export / import ----

func (h *APIHandler) ExportHandler(w http.ResponseWriter, r *http.Request) {
	snap, err := h.store.ExportData()
	if err != nil {
		h.log.Error("Export failed", zap.Error(err))
		http.Error(w, "failed to export data", http.StatusInternalServerError)
		return
	}
	h.writeJSON(w, http.StatusOK, snap)
}

func (h *APIHandler) ImportHandler(w http.ResponseWriter, r *http.Request) {
	var snap store.Snapshot
	if err := json.NewDecoder(r.Body).Decode(&snap); err != nil {
		http.Error(w, "invalid snapshot", http.StatusBadRequest)
		return
	}
	if err := h.store.ImportData(&snap); err != nil {
		h.log.Error("Import failed", zap.Error(err))
		http.Error(w, "failed to import data", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ---- market data ----

func (h *APIHandler) QuoteHandler(w http.ResponseWriter, r *http.Request) {
	quote, err := h.market.GetRealTimePrice(r.Context(), r.PathValue("symbol"))
	if err != nil {
		http.Error(w, "failed to get quote", http.StatusBadGateway)
		return
	}
	h.writeJSON(w, http.StatusOK, quote)
}

func (h *APIHandler) NewsHandler(w http.ResponseWriter, r *http.Request) {
	var symbols []string
	if v := r.URL.Query().Get("symbols"); v != "" {
		symbols = append(symbols, v)
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	news, err := h.market.GetNews(r.Context(), symbols, limit)
	if err != nil {
		http.Error(w, "failed to get news", http.StatusBadGateway)
		return
	}
	h.writeJSON(w, http.StatusOK, news)
}

// ---- AI analysis ----

func (h *APIHandler) AnalyzeTradeHandler(w http.ResponseWriter, r *http.Request) {
	t, err := h.store.GetTrade(r.PathValue("id"))
	if err != nil {
		http.Error(w, "failed to get trade", http.StatusInternalServerError)
		return
	}
	if t == nil {
		http.Error(w, "trade not found", http.StatusNotFound)
		return
	}
	analysis, err := h.analyzer.AnalyzeTrade(r.Context(), *t)
	if err != nil {
		http.Error(w, "analysis failed", http.StatusBadGateway)
		return
	}
	h.writeJSON(w, http.StatusOK, analysis)
}

func (h *APIHandler) AnalyzePortfolioHandler(w http.ResponseWriter, r *http.Request) {
	trades, err := h.store.GetTrades(store.TradeFilter{})
	if err != nil {
		http.Error(w, "failed to get trades", http.StatusInternalServerError)
		return
	}
	analysis, err := h.analyzer.AnalyzePortfolio(r.Context(), trades)
	if err != nil {
		http.Error(w, "analysis failed", http.StatusBadGateway)
		return
	}
	h.writeJSON(w, http.StatusOK, analysis)
}

func (h *APIHandler) GenerateStrategyHandler(w http.ResponseWriter, r *http.Request) {
	u, err := h.store.GetUser(r.PathValue("userID"))
	if err != nil {
		http.Error(w, "failed to get user", http.StatusInternalServerError)
		return
	}
	if u == nil {
		http.Error(w, "user not found", http.StatusNotFound)
		return
	}
	analysis, err := h.analyzer.GenerateStrategy(r.Context(), *u)
	if err != nil {
		http.Error(w, "strategy generation failed", http.StatusBadGateway)
		return
	}
	h.writeJSON(w, http.StatusOK, analysis)
}
