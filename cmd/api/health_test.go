package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"urbanexplorer/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthCheckHandler(t *testing.T) {
	t.Run("healthy database", func(t *testing.T) {
		app := newTestApplication(t, store.Storage{Health: &fakeHealth{}})
		mux := app.mount()

		req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
		rr := executeRequest(req, mux)

		require.Equal(t, http.StatusOK, rr.Code)

		var body healthResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.Equal(t, "ok", body.Status)
		assert.Equal(t, "healthy", body.Database)
		assert.NotEmpty(t, body.Timestamp)
		assert.NotEmpty(t, body.ResponseTime)
	})

	t.Run("unreachable database degrades to 503", func(t *testing.T) {
		app := newTestApplication(t, store.Storage{Health: &fakeHealth{err: errors.New("connection refused")}})
		mux := app.mount()

		req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
		rr := executeRequest(req, mux)

		require.Equal(t, http.StatusServiceUnavailable, rr.Code)

		var body healthResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.Equal(t, "unhealthy", body.Database)
	})
}

func TestRootHandler(t *testing.T) {
	app := newTestApplication(t, store.Storage{})
	mux := app.mount()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rr := executeRequest(req, mux)

	require.Equal(t, http.StatusOK, rr.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "Urban Explorer API", body["name"])
	assert.Equal(t, "running", body["status"])
}
