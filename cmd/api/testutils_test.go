package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"urbanexplorer/internal/auth"
	"urbanexplorer/internal/feed"
	"urbanexplorer/internal/ratelimiter"
	"urbanexplorer/internal/stats"
	"urbanexplorer/internal/store"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	testBasicUser = "ops"
	testBasicPass = "secret"
)

type fakeLocations struct {
	nearby      []store.Location
	nearbyErr   error
	nearbyCalls int
	searched    []store.Location
	searchCalls int
	detail      *store.LocationDetail
	detailErr   error
	exists      bool
	updateCalls int
}

func (f *fakeLocations) GetNearby(_ context.Context, _ store.NearbyFilter) ([]store.Location, error) {
	f.nearbyCalls++
	return f.nearby, f.nearbyErr
}

func (f *fakeLocations) Search(_ context.Context, _ store.SearchFilter) ([]store.Location, error) {
	f.searchCalls++
	return f.searched, nil
}

func (f *fakeLocations) GetByID(_ context.Context, _ string) (*store.LocationDetail, error) {
	if f.detailErr != nil {
		return nil, f.detailErr
	}
	return f.detail, nil
}

func (f *fakeLocations) Exists(_ context.Context, _ string) (bool, error) {
	return f.exists, nil
}

func (f *fakeLocations) UpdateStats(_ context.Context, locationID string, averageRating float64, reviewCount int) (*store.LocationStats, error) {
	f.updateCalls++
	return &store.LocationStats{ID: locationID, AverageRating: averageRating, ReviewCount: reviewCount}, nil
}

type fakeReviews struct {
	ratings []int
	recent  []store.ReviewActivity
	err     error
}

func (f *fakeReviews) GetRatings(_ context.Context, _ string) ([]int, error) {
	return f.ratings, f.err
}

func (f *fakeReviews) GetRecent(_ context.Context, limit int) ([]store.ReviewActivity, error) {
	if f.err != nil {
		return nil, f.err
	}
	if limit < len(f.recent) {
		return f.recent[:limit], nil
	}
	return f.recent, nil
}

type fakeFavorites struct {
	recent []store.FavoriteActivity
	err    error
}

func (f *fakeFavorites) GetRecent(_ context.Context, limit int) ([]store.FavoriteActivity, error) {
	if f.err != nil {
		return nil, f.err
	}
	if limit < len(f.recent) {
		return f.recent[:limit], nil
	}
	return f.recent, nil
}

type fakeProfiles struct {
	profile *store.Profile
	err     error
}

func (f *fakeProfiles) GetByID(_ context.Context, _ string) (*store.Profile, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.profile, nil
}

type fakeHealth struct {
	err error
}

func (f *fakeHealth) Check(_ context.Context) error {
	return f.err
}

func newTestApplication(t *testing.T, storage store.Storage) *application {
	t.Helper()

	logger := zap.NewNop().Sugar()

	cfg := config{
		addr:        ":0",
		env:         "test",
		corsOrigins: []string{"*"},
		auth: authConfig{
			basic: basicConfig{user: testBasicUser, pass: testBasicPass},
			token: tokenConfig{secret: "test-secret", refreshSecret: "test-refresh", iss: "urbanexplorer"},
		},
		rateLimiter: ratelimiter.Config{RequestsPerTimeFrame: 100, TimeFrame: 5 * time.Second, Enabled: false},
	}

	return &application{
		config:        cfg,
		store:         storage,
		logger:        logger,
		authenticator: auth.NewJWTAuthenticator(cfg.auth.token.secret, cfg.auth.token.refreshSecret, cfg.auth.token.iss, cfg.auth.token.iss),
		rateLimiter:   ratelimiter.NewFixedWindowLimiter(cfg.rateLimiter.RequestsPerTimeFrame, cfg.rateLimiter.TimeFrame),
		stats:         stats.NewUpdater(storage.Locations, storage.Reviews, logger),
		feed:          feed.NewAssembler(storage.Reviews, storage.Favorites, logger),
		startedAt:     time.Now(),
	}
}

func executeRequest(req *http.Request, mux http.Handler) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	return rr
}

func jsonBody(t *testing.T, v any) *bytes.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(b)
}
