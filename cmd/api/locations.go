package main

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"regexp"
	"strconv"

	"urbanexplorer/internal/store"

	"github.com/go-chi/chi/v5"
)

// Canonical query bounds. The radius is always meters.
const (
	minRadiusMeters     = 100
	maxRadiusMeters     = 50000
	defaultRadiusMeters = 5000
	minQueryLimit       = 1
	maxQueryLimit       = 100
	defaultQueryLimit   = 20
	maxSearchQueryLen   = 100
)

var uuidPattern = regexp.MustCompile(`^(?i)[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

func parseRequiredFloat(q url.Values, key string, min, max float64) (float64, error) {
	raw := q.Get(key)
	if raw == "" {
		return 0, fmt.Errorf("%s is required", key)
	}
	val, err := strconv.ParseFloat(raw, 64)
	// ParseFloat accepts "NaN", which slips past the range comparisons
	if err != nil || math.IsNaN(val) || val < min || val > max {
		return 0, fmt.Errorf("%s must be a number between %g and %g", key, min, max)
	}
	return val, nil
}

func parseOptionalFloat(q url.Values, key string, fallback, min, max float64) (float64, error) {
	raw := q.Get(key)
	if raw == "" {
		return fallback, nil
	}
	val, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(val) || val < min || val > max {
		return 0, fmt.Errorf("%s must be a number between %g and %g", key, min, max)
	}
	return val, nil
}

func parseOptionalInt(q url.Values, key string, fallback, min, max int) (int, error) {
	raw := q.Get(key)
	if raw == "" {
		return fallback, nil
	}
	val, err := strconv.Atoi(raw)
	if err != nil || val < min || val > max {
		return 0, fmt.Errorf("%s must be an integer between %d and %d", key, min, max)
	}
	return val, nil
}

type locationListMeta struct {
	Total  int       `json:"total"`
	Center *geoPoint `json:"center,omitempty"`
	Radius *float64  `json:"radius,omitempty"`
	Query  *string   `json:"query,omitempty"`
}

type geoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type locationListResponse struct {
	Data []store.Location `json:"data"`
	Meta locationListMeta `json:"meta"`
}

// nearbyLocationsHandler validates the spatial query bounds and forwards
// to the PostGIS radius query. All validation failures surface before any
// database access.
func (app *application) nearbyLocationsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	lat, err := parseRequiredFloat(q, "lat", -90, 90)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	lng, err := parseRequiredFloat(q, "lng", -180, 180)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	radius, err := parseOptionalFloat(q, "radius", defaultRadiusMeters, minRadiusMeters, maxRadiusMeters)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	limit, err := parseOptionalInt(q, "limit", defaultQueryLimit, minQueryLimit, maxQueryLimit)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	filter := store.NearbyFilter{
		Latitude:     lat,
		Longitude:    lng,
		RadiusMeters: radius,
		Limit:        limit,
	}
	if category := q.Get("category"); category != "" {
		filter.Category = &category
	}

	locations, err := app.store.Locations.GetNearby(r.Context(), filter)
	if err != nil {
		app.databaseErrorResponse(w, r, "Failed to fetch nearby locations", err)
		return
	}

	writeJSON(w, http.StatusOK, locationListResponse{
		Data: locations,
		Meta: locationListMeta{
			Total:  len(locations),
			Center: &geoPoint{Lat: lat, Lng: lng},
			Radius: &radius,
		},
	})
}

// searchLocationsHandler matches the query text case-insensitively across
// name, description and address. lat/lng are accepted and validated for
// interface compatibility but do not affect the match.
func (app *application) searchLocationsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	query := q.Get("q")
	if query == "" || len(query) > maxSearchQueryLen {
		app.badRequestResponse(w, r, fmt.Errorf("q is required and must be at most %d characters", maxSearchQueryLen))
		return
	}

	if q.Get("lat") != "" || q.Get("lng") != "" {
		if _, err := parseRequiredFloat(q, "lat", -90, 90); err != nil {
			app.badRequestResponse(w, r, err)
			return
		}
		if _, err := parseRequiredFloat(q, "lng", -180, 180); err != nil {
			app.badRequestResponse(w, r, err)
			return
		}
	}

	limit, err := parseOptionalInt(q, "limit", defaultQueryLimit, minQueryLimit, maxQueryLimit)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	locations, err := app.store.Locations.Search(r.Context(), store.SearchFilter{
		Query: query,
		Limit: limit,
	})
	if err != nil {
		app.databaseErrorResponse(w, r, "Failed to search locations", err)
		return
	}

	writeJSON(w, http.StatusOK, locationListResponse{
		Data: locations,
		Meta: locationListMeta{
			Total: len(locations),
			Query: &query,
		},
	})
}

type locationDetailResponse struct {
	Data *store.LocationDetail `json:"data"`
}

// getLocationHandler looks up a single location with its joined categories
// and reviews.
func (app *application) getLocationHandler(w http.ResponseWriter, r *http.Request) {
	locationID := chi.URLParam(r, "locationID")
	if !uuidPattern.MatchString(locationID) {
		app.badRequestResponse(w, r, errors.New("invalid location ID format, must be a valid UUID"))
		return
	}

	detail, err := app.store.Locations.GetByID(r.Context(), locationID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			app.notFoundResponse(w, r, "Location not found")
			return
		}
		app.databaseErrorResponse(w, r, "Failed to fetch location", err)
		return
	}

	writeJSON(w, http.StatusOK, locationDetailResponse{Data: detail})
}
