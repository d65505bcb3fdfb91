package main

import (
	"errors"
	"fmt"
	"net/http"

	"urbanexplorer/internal/stats"
	"urbanexplorer/internal/store"

	"github.com/go-chi/chi/v5"
)

type statsResponse struct {
	Data    store.LocationStats `json:"data"`
	Message string              `json:"message"`
}

// updateLocationStatsHandler triggers the stats recomputation workflow for
// one location. Safe to retry: the recomputation is idempotent.
func (app *application) updateLocationStatsHandler(w http.ResponseWriter, r *http.Request) {
	locationID := chi.URLParam(r, "locationID")

	result, err := app.stats.Recompute(r.Context(), locationID)
	if err != nil {
		switch {
		case errors.Is(err, stats.ErrInvalidLocationID):
			app.badRequestResponse(w, r, err)
		case errors.Is(err, store.ErrNotFound):
			app.notFoundResponse(w, r, "Location not found")
		default:
			app.databaseErrorResponse(w, r, "Failed to update location statistics", err)
		}
		return
	}

	writeJSON(w, http.StatusOK, statsResponse{
		Data: *result,
		Message: fmt.Sprintf(
			"Location stats updated successfully. Average rating: %v, Review count: %d",
			result.AverageRating, result.ReviewCount,
		),
	})
}
