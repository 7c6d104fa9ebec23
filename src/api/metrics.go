package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	game "starshunters-server/src"

	"github.com/go-chi/chi/v5"
)

// StatusSource is the part of the game server the API reads from.
type StatusSource interface {
	Status(ctx context.Context) (game.Status, error)
}

// HealthStatus represents the overall health of the system
type HealthStatus string

const (
	HealthOk       HealthStatus = "ok"
	HealthDegraded HealthStatus = "degraded"
	HealthDown     HealthStatus = "down"
)

// MatchMetrics describes the current match.
type MatchMetrics struct {
	Running       bool        `json:"running"`
	RemainingTime *int        `json:"remaining_time"`
	Ticks         uint64      `json:"ticks"`
	Players       int         `json:"players"`
	Stars         int         `json:"stars"`
	Config        game.Config `json:"config"`
}

// WebSocketServerMetrics holds WebSocket server status
type WebSocketServerMetrics struct {
	ActiveConnections int  `json:"active_connections"`
	AdminBound        bool `json:"admin_bound"`
}

// MetricsResponse is the complete metrics response structure
type MetricsResponse struct {
	Timestamp    time.Time              `json:"timestamp"`
	Health       HealthStatus           `json:"health"`
	Match        MatchMetrics           `json:"match"`
	WebSocket    WebSocketServerMetrics `json:"websocket"`
	ServerUptime int64                  `json:"server_uptime_sec"`
}

// MetricsHandler reports game loop state over HTTP.
type MetricsHandler struct {
	source  StatusSource
	timeout time.Duration
}

// NewMetricsHandler creates a new metrics handler
func NewMetricsHandler(source StatusSource) *MetricsHandler {
	return &MetricsHandler{source: source, timeout: 2 * time.Second}
}

// Routes registers metrics routes
func (h *MetricsHandler) Routes(r chi.Router) {
	r.Get("/metrics", h.GetMetrics)
	r.Get("/metrics/match", h.GetMatch)
	r.Get("/metrics/websocket", h.GetWebSocket)
}

// GetMetrics returns complete metrics
func (h *MetricsHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	m, err := h.collectMetrics(r.Context())
	if err != nil {
		h.unavailable(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// GetMatch returns only match metrics
func (h *MetricsHandler) GetMatch(w http.ResponseWriter, r *http.Request) {
	m, err := h.collectMetrics(r.Context())
	if err != nil {
		h.unavailable(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m.Match)
}

// GetWebSocket returns only WebSocket metrics
func (h *MetricsHandler) GetWebSocket(w http.ResponseWriter, r *http.Request) {
	m, err := h.collectMetrics(r.Context())
	if err != nil {
		h.unavailable(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"timestamp": m.Timestamp,
		"websocket": m.WebSocket,
	})
}

func (h *MetricsHandler) unavailable(w http.ResponseWriter, err error) {
	errorJSON(w, http.StatusServiceUnavailable, err.Error())
}

// collectMetrics asks the game loop for a snapshot. A loop that does not
// answer in time is reported as an error.
func (h *MetricsHandler) collectMetrics(ctx context.Context) (*MetricsResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	st, err := h.source.Status(ctx)
	if err != nil {
		return nil, err
	}
	return metricsFromStatus(st), nil
}

func metricsFromStatus(st game.Status) *MetricsResponse {
	return &MetricsResponse{
		Timestamp: st.Timestamp,
		Health:    HealthOk,
		Match: MatchMetrics{
			Running:       st.Running,
			RemainingTime: st.RemainingTime,
			Ticks:         st.Ticks,
			Players:       st.Players,
			Stars:         st.Stars,
			Config:        st.Config,
		},
		WebSocket: WebSocketServerMetrics{
			ActiveConnections: st.Sessions,
			AdminBound:        st.AdminBound,
		},
		ServerUptime: int64(st.Uptime / time.Second),
	}
}

// healthOf maps a status probe error to a health value.
func healthOf(err error) HealthStatus {
	switch {
	case err == nil:
		return HealthOk
	case errors.Is(err, game.ErrServerStopped):
		return HealthDown
	}
	return HealthDegraded
}
