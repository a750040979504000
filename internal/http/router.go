package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/kjstillabower/climate-resilience-service/internal/observability"
)

// NewRouter wires every route behind correlation, metrics and CORS middleware.
func NewRouter(h *Handler, logger *zap.Logger) http.Handler {
	router := mux.NewRouter()
	router.Use(CorrelationIDMiddleware(logger))
	router.Use(MetricsMiddleware)

	router.HandleFunc("/", h.GetRoot).Methods(http.MethodGet)
	router.HandleFunc("/predict/{city}", h.GetPrediction).Methods(http.MethodGet)
	router.HandleFunc("/forecast/{day}", h.GetForecast).Methods(http.MethodGet)
	router.HandleFunc("/chat", h.PostChat).Methods(http.MethodPost)
	router.HandleFunc("/health", h.GetHealth).Methods(http.MethodGet)
	router.Handle("/metrics", observability.MetricsHandler()).Methods(http.MethodGet)

	return CORS(router)
}
