package handler

import (
	"encoding/json"
	"net/http"

	"github.com/anicoll/vrm-integration/internal/pkg/collector"
)

type collectorService interface {
	Status() collector.Status
}

// Healthz reports process liveness only.
func Healthz() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	}
}

// Status reports the outcome of the most recent collection cycle.
func Status(c collectorService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := json.Marshal(c.Status())
		if err != nil {
			handleError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	}
}

// Routes wires the collector endpoints behind the logging middleware.
func Routes(c collectorService) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", Healthz())
	mux.HandleFunc("/status", Status(c))
	return LoggingMiddleware(mux)
}

func handleError(w http.ResponseWriter, err error) {
	w.WriteHeader(http.StatusInternalServerError)
	w.Write([]byte(err.Error()))
}
