package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/kjstillabower/climate-resilience-service/internal/chat"
	"github.com/kjstillabower/climate-resilience-service/internal/client"
	"github.com/kjstillabower/climate-resilience-service/internal/lifecycle"
	"github.com/kjstillabower/climate-resilience-service/internal/models"
	"github.com/kjstillabower/climate-resilience-service/internal/observability"
	"github.com/kjstillabower/climate-resilience-service/internal/service"
	"github.com/kjstillabower/climate-resilience-service/internal/validation"
)

const (
	rootMessage     = "AI Climate Resilience API Running"
	maxChatBodySize = 64 << 10
)

// Predictor is the prediction surface used by the handlers. *service.PredictionService implements it.
type Predictor interface {
	PredictForCity(ctx context.Context, city string) (models.PredictionResult, error)
	Forecast(day int) (models.Forecast, error)
}

// Replier answers one chat turn. *chat.Service implements it.
type Replier interface {
	Reply(ctx context.Context, message string, mode chat.Mode) (string, error)
}

// Limits bounds user input accepted by the handlers.
type Limits struct {
	CityMinLength    int
	CityMaxLength    int
	MessageMaxLength int
}

// HealthConfig holds optional dependency checks for /health.
type HealthConfig struct {
	// CachePing, when set, is called to check cache reachability. Used when backend is memcached.
	CachePing func() error
}

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	predictor        Predictor
	chat             Replier // nil when no Gemini key is configured
	keyValidator     client.KeyValidator
	limits           Limits
	healthConfig     *HealthConfig
	logger           *zap.Logger
	healthStatusMu   sync.Mutex
	healthStatusPrev string
}

// NewHandler returns a new Handler. chatReplier may be nil, in which case /chat answers 503.
func NewHandler(
	predictor Predictor,
	chatReplier Replier,
	keyValidator client.KeyValidator,
	limits Limits,
	healthConfig *HealthConfig,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		predictor:    predictor,
		chat:         chatReplier,
		keyValidator: keyValidator,
		limits:       limits,
		healthConfig: healthConfig,
		logger:       logger,
	}
}

// GetRoot handles GET /.
func (h *Handler) GetRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": rootMessage})
}

// GetPrediction handles GET /predict/{city}. An unknown city is reported as 200 with an
// "error" field, which is what the dashboard expects.
func (h *Handler) GetPrediction(w http.ResponseWriter, r *http.Request) {
	city, err := validation.ValidateCity(mux.Vars(r)["city"], h.limits.CityMinLength, h.limits.CityMaxLength)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "INVALID_LOCATION", err.Error())
		return
	}

	result, err := h.predictor.PredictForCity(r.Context(), city)
	if err != nil {
		var notFound *service.CityNotFoundError
		if errors.As(err, &notFound) {
			writeJSON(w, http.StatusOK, map[string]string{"error": notFound.Error()})
			return
		}
		writeInternalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// GetForecast handles GET /forecast/{day}.
func (h *Handler) GetForecast(w http.ResponseWriter, r *http.Request) {
	day, err := strconv.Atoi(mux.Vars(r)["day"])
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "INVALID_DAY", "day must be a positive integer")
		return
	}

	forecast, err := h.predictor.Forecast(day)
	if err != nil {
		if errors.Is(err, service.ErrInvalidDay) {
			writeError(w, r, http.StatusBadRequest, "INVALID_DAY", "day must be a positive integer")
			return
		}
		writeInternalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, forecast)
}

type chatRequest struct {
	Message string `json:"message"`
	Mode    string `json:"mode"`
}

type chatResponse struct {
	Response string `json:"response"`
}

// PostChat handles POST /chat.
func (h *Handler) PostChat(w http.ResponseWriter, r *http.Request) {
	if h.chat == nil {
		writeError(w, r, http.StatusServiceUnavailable, "CHAT_UNAVAILABLE", "chat is not configured")
		return
	}

	var req chatRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, maxChatBodySize))
	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "INVALID_REQUEST", "request body must be a JSON object")
		return
	}

	mode, err := chat.ParseMode(req.Mode)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "INVALID_MODE", "mode must be one of general, farmer, urban")
		return
	}

	message, err := validation.ValidateChatMessage(req.Message, h.limits.MessageMaxLength)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "INVALID_MESSAGE", err.Error())
		return
	}

	answer, err := h.chat.Reply(r.Context(), message, mode)
	if err != nil {
		writeInternalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, chatResponse{Response: answer})
}

// healthResult holds the computed health status and metadata for logging.
type healthResult struct {
	status     string
	statusCode int
	reason     string
}

// GetHealth handles GET /health.
func (h *Handler) GetHealth(w http.ResponseWriter, r *http.Request) {
	result := h.computeHealthStatus(r.Context())

	h.healthStatusMu.Lock()
	prev := h.healthStatusPrev
	if prev != "" && prev != result.status {
		h.logger.Info("health status transition",
			zap.String("previous_status", prev),
			zap.String("current_status", result.status),
			zap.String("reason", result.reason))
	}
	h.healthStatusPrev = result.status
	h.healthStatusMu.Unlock()

	checks := map[string]string{"weatherApi": "healthy"}
	if result.reason == "api_key_invalid" {
		checks["weatherApi"] = "unhealthy"
	}
	if h.chat == nil {
		checks["chat"] = "disabled"
	} else {
		checks["chat"] = "enabled"
	}
	if h.healthConfig != nil && h.healthConfig.CachePing != nil {
		if h.healthConfig.CachePing() == nil {
			checks["cache"] = "healthy"
		} else {
			checks["cache"] = "unhealthy"
		}
	}

	writeJSON(w, result.statusCode, map[string]interface{}{
		"status":        result.status,
		"service":       observability.ServiceName,
		"version":       "dev",
		"checks":        checks,
		"uptimeSeconds": int64(lifecycle.Uptime().Seconds()),
		"timestamp":     time.Now().UTC().Format(time.RFC3339),
	})
}

// computeHealthStatus evaluates, in order: shutting-down > weather API key invalid > healthy.
func (h *Handler) computeHealthStatus(ctx context.Context) healthResult {
	if lifecycle.IsShuttingDown() {
		return healthResult{"shutting-down", http.StatusServiceUnavailable, "signal"}
	}
	if h.keyValidator != nil {
		if err := h.keyValidator.ValidateAPIKey(ctx); err != nil {
			observability.LoggerFromContext(ctx).Debug("weather API key check failed", zap.Error(err))
			return healthResult{"degraded", http.StatusServiceUnavailable, "api_key_invalid"}
		}
	}
	return healthResult{"healthy", http.StatusOK, ""}
}

// writeJSON writes v as JSON with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes {"error": {"code", "message", "requestId"}}.
func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]string{
			"code":      code,
			"message":   message,
			"requestId": observability.CorrelationIDFromContext(r.Context()),
		},
	})
}

// writeInternalError logs err and writes a 500 without exposing the cause.
func writeInternalError(w http.ResponseWriter, r *http.Request, err error) {
	observability.LoggerFromContext(r.Context()).Error("request failed",
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	writeError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
}
