// Package stats recomputes a location's aggregate rating fields from its
// current review set and persists them.
package stats

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"

	"urbanexplorer/internal/store"

	"go.uber.org/zap"
)

var ErrInvalidLocationID = errors.New("location_id must be a valid UUID")

// uuidPattern accepts the canonical 8-4-4-4-12 hexadecimal form only.
var uuidPattern = regexp.MustCompile(`^(?i)[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

type LocationStore interface {
	Exists(ctx context.Context, locationID string) (bool, error)
	UpdateStats(ctx context.Context, locationID string, averageRating float64, reviewCount int) (*store.LocationStats, error)
}

type ReviewStore interface {
	GetRatings(ctx context.Context, locationID string) ([]int, error)
}

type Updater struct {
	locations LocationStore
	reviews   ReviewStore
	logger    *zap.SugaredLogger
}

func NewUpdater(locations LocationStore, reviews ReviewStore, logger *zap.SugaredLogger) *Updater {
	return &Updater{
		locations: locations,
		reviews:   reviews,
		logger:    logger,
	}
}

// Recompute derives review_count and average_rating from the location's
// current reviews and writes both fields in a single update.
//
// The average is the arithmetic mean rounded half away from zero at the
// tenths digit, and exactly 0 when there are no reviews. The operation is
// idempotent: the same review set always yields the same stats, so a
// failed run is safe to retry.
func (u *Updater) Recompute(ctx context.Context, locationID string) (*store.LocationStats, error) {
	if !uuidPattern.MatchString(locationID) {
		return nil, ErrInvalidLocationID
	}

	exists, err := u.locations.Exists(ctx, locationID)
	if err != nil {
		return nil, fmt.Errorf("failed to verify location: %w", err)
	}
	if !exists {
		return nil, store.ErrNotFound
	}

	ratings, err := u.reviews.GetRatings(ctx, locationID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch reviews for location: %w", err)
	}

	reviewCount := len(ratings)
	averageRating := Average(ratings)

	stats, err := u.locations.UpdateStats(ctx, locationID, averageRating, reviewCount)
	if err != nil {
		return nil, fmt.Errorf("failed to update location stats: %w", err)
	}

	u.logger.Infow("location stats updated",
		"location_id", locationID,
		"average_rating", stats.AverageRating,
		"review_count", stats.ReviewCount,
	)

	return stats, nil
}

// Average returns the mean rating rounded to one decimal place, half away
// from zero, or 0 for an empty set.
func Average(ratings []int) float64 {
	if len(ratings) == 0 {
		return 0
	}
	sum := 0
	for _, rating := range ratings {
		sum += rating
	}
	return math.Round(float64(sum)/float64(len(ratings))*10) / 10
}
