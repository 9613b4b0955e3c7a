package httpapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sort"
	"strconv"

	"github.com/alejandrodnm/livevalue/internal/domain"
	"github.com/alejandrodnm/livevalue/internal/ports"
)

const defaultHistoryLimit = 50

// Controller es la superficie del monitor que expone la API.
type Controller interface {
	Start() bool
	Stop() bool
	IsRunning() bool
	ActiveMatches() map[int64]domain.MatchPrediction
	History(limit int) []domain.MatchPrediction
	LiveMatches(ctx context.Context) []domain.Fixture
}

// StatusFunc devuelve el estado del proveedor (cuotas usadas, modo simulación...).
type StatusFunc func(ctx context.Context) any

// Handler contiene las dependencias de los endpoints.
type Handler struct {
	monitor Controller
	store   ports.Store // nil = historial solo en memoria
	status  StatusFunc
}

// NewHandler crea el handler. store y status pueden ser nil.
func NewHandler(monitor Controller, store ports.Store, status StatusFunc) *Handler {
	return &Handler{monitor: monitor, store: store, status: status}
}

// HealthCheck responde siempre 200 mientras el proceso vive.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "livevalue",
	})
}

// Status resume el estado del monitor y del proveedor.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{
		"running":        h.monitor.IsRunning(),
		"active_matches": len(h.monitor.ActiveMatches()),
	}
	if h.status != nil {
		resp["provider"] = h.status(r.Context())
	}
	respondJSON(w, http.StatusOK, resp)
}

// Start arranca el monitor. Si ya corría no es un error.
func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	if h.monitor.Start() {
		respondJSON(w, http.StatusOK, map[string]any{"started": true, "message": "monitoring started"})
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"started": false, "message": "already running"})
}

// Stop para el monitor esperando a que termine el ciclo en curso.
func (h *Handler) Stop(w http.ResponseWriter, r *http.Request) {
	if h.monitor.Stop() {
		respondJSON(w, http.StatusOK, map[string]any{"stopped": true, "message": "monitoring stopped"})
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"stopped": false, "message": "not running"})
}

// Predictions devuelve la última predicción de cada partido activo.
func (h *Handler) Predictions(w http.ResponseWriter, r *http.Request) {
	active := h.monitor.ActiveMatches()
	preds := make([]domain.MatchPrediction, 0, len(active))
	for _, p := range active {
		preds = append(preds, p)
	}
	sort.Slice(preds, func(i, j int) bool { return preds[i].FixtureID < preds[j].FixtureID })

	respondJSON(w, http.StatusOK, map[string]any{
		"count":       len(preds),
		"predictions": preds,
	})
}

// Matches refresca los partidos en vivo fuera de la cadencia del loop.
func (h *Handler) Matches(w http.ResponseWriter, r *http.Request) {
	fixtures := h.monitor.LiveMatches(r.Context())
	if fixtures == nil {
		fixtures = []domain.Fixture{}
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"count":   len(fixtures),
		"matches": fixtures,
	})
}

// History devuelve predicciones persistidas, la más reciente primero.
// Sin store, devuelve el historial en memoria del monitor.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit := defaultHistoryLimit
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			respondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}

	var fixtureID *int64
	if raw := q.Get("fixture_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "fixture_id must be an integer")
			return
		}
		fixtureID = &id
	}

	if h.store == nil {
		respondJSON(w, http.StatusOK, map[string]any{
			"source":  "memory",
			"records": memoryHistory(h.monitor.History(0), fixtureID, limit),
		})
		return
	}

	records, err := h.store.QueryPredictions(r.Context(), fixtureID, limit)
	if err != nil {
		slog.Error("history query failed", "err", err)
		respondError(w, http.StatusInternalServerError, "history unavailable")
		return
	}
	if records == nil {
		records = []domain.PredictionRecord{}
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"source":  "store",
		"records": records,
	})
}

// memoryHistory filtra el historial en memoria y lo ordena del más reciente al más antiguo.
func memoryHistory(history []domain.MatchPrediction, fixtureID *int64, limit int) []domain.MatchPrediction {
	out := make([]domain.MatchPrediction, 0, limit)
	for i := len(history) - 1; i >= 0 && len(out) < limit; i-- {
		if fixtureID != nil && history[i].FixtureID != *fixtureID {
			continue
		}
		out = append(out, history[i])
	}
	return out
}

// respondJSON escribe una respuesta JSON.
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Debug("encode response failed", "err", err)
	}
}

// respondError escribe una respuesta de error.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
