package main

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"urbanexplorer/internal/feed"
)

type feedRequest struct {
	UserID *string `json:"user_id" validate:"omitempty,uuid"`
	Limit  *int    `json:"limit"`
}

type feedMeta struct {
	Total   int    `json:"total"`
	Dropped int    `json:"dropped"`
	UserID  string `json:"user_id"`
}

type feedResponse struct {
	Data    []feed.Item `json:"data"`
	Meta    feedMeta    `json:"meta"`
	Message string      `json:"message"`
}

// getFeedHandler returns the global recent-activity feed. The target user
// defaults to the authenticated caller; a user_id parameter overrides the
// reported identity but does not filter the feed, since there is no
// social graph to filter by.
func (app *application) getFeedHandler(w http.ResponseWriter, r *http.Request) {
	profile := getProfileFromContext(r)
	if profile == nil {
		app.unauthorizedErrorResponse(w, r, errors.New("no authenticated user in request context"))
		return
	}

	targetUserID := profile.ID
	limit := feed.DefaultLimit

	switch r.Method {
	case http.MethodPost:
		var payload feedRequest
		if err := readJSON(w, r, &payload); err != nil {
			// an empty body means "all defaults"
			if !errors.Is(err, io.EOF) {
				app.badRequestResponse(w, r, err)
				return
			}
		} else {
			if err := Validate.Struct(payload); err != nil {
				app.badRequestResponse(w, r, err)
				return
			}
			if payload.UserID != nil {
				targetUserID = *payload.UserID
			}
			if payload.Limit != nil {
				limit = *payload.Limit
			}
		}
	default:
		q := r.URL.Query()
		if raw := q.Get("user_id"); raw != "" {
			if !uuidPattern.MatchString(raw) {
				app.badRequestResponse(w, r, errors.New("user_id must be a valid UUID"))
				return
			}
			targetUserID = raw
		}
		if raw := q.Get("limit"); raw != "" {
			val, err := strconv.Atoi(raw)
			if err != nil {
				app.badRequestResponse(w, r, errors.New("limit must be an integer"))
				return
			}
			limit = val
		}
	}

	result, err := app.feed.Build(r.Context(), limit)
	if err != nil {
		if errors.Is(err, feed.ErrInvalidLimit) {
			app.badRequestResponse(w, r, err)
			return
		}
		app.databaseErrorResponse(w, r, "Failed to fetch reviews for feed", err)
		return
	}

	writeJSON(w, http.StatusOK, feedResponse{
		Data: result.Items,
		Meta: feedMeta{
			Total:   len(result.Items),
			Dropped: result.Dropped,
			UserID:  targetUserID,
		},
		Message: fmt.Sprintf("Retrieved %d feed items", len(result.Items)),
	})
}
