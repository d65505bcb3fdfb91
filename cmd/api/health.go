package main

import (
	"fmt"
	"net/http"
	"time"
)

type healthResponse struct {
	Status       string  `json:"status"`
	Timestamp    string  `json:"timestamp"`
	Uptime       float64 `json:"uptime"`
	Database     string  `json:"database"`
	ResponseTime string  `json:"responseTime"`
}

// healthCheckHandler reports liveness plus a database probe. A failed
// probe degrades the response to 503 but the handler never errors out.
func (app *application) healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	status := http.StatusOK
	payload := healthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Uptime:    time.Since(app.startedAt).Seconds(),
		Database:  "healthy",
	}

	if err := app.store.Health.Check(r.Context()); err != nil {
		app.logger.Warnw("database health check failed", "error", err)
		payload.Database = "unhealthy"
		status = http.StatusServiceUnavailable
	}

	payload.ResponseTime = fmt.Sprintf("%dms", time.Since(start).Milliseconds())

	writeJSON(w, status, payload)
}
