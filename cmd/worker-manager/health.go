// cmd/worker-manager/health.go
package main

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type readinessCheck struct {
	name  string
	check func(ctx context.Context) error
}

func newHealthServer(addr string, checks []readinessCheck) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})
	mux.HandleFunc("/ready", readyHandler(checks))
	mux.Handle("/metrics", promhttp.Handler())

	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

// readyHandler reports 503 when any dependency check fails.
func readyHandler(checks []readinessCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		body := map[string]string{"time": time.Now().Format(time.RFC3339)}
		status := http.StatusOK
		for _, c := range checks {
			if err := c.check(ctx); err != nil {
				body[c.name] = err.Error()
				status = http.StatusServiceUnavailable
				continue
			}
			body[c.name] = "ok"
		}

		body["status"] = "ready"
		if status != http.StatusOK {
			body["status"] = "not ready"
		}
		writeStatus(w, status, body)
	}
}

func writeStatus(w http.ResponseWriter, status int, body map[string]string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
