// Package feed assembles the global activity feed from recent reviews and
// recent favorites.
package feed

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"urbanexplorer/internal/store"

	"go.uber.org/zap"
)

const (
	MinLimit     = 1
	MaxLimit     = 200
	DefaultLimit = 50
)

var ErrInvalidLimit = errors.New("limit must be between 1 and 200")

const (
	TypeReview   = "review"
	TypeFavorite = "favorite"
)

// Item is an ephemeral feed entry: a tagged union of a review or a
// favorite, carrying a snapshot of its location and author at assembly
// time. Rating, comment and review photos are present only on review
// items.
type Item struct {
	ID           string                `json:"id"`
	Type         string                `json:"type"`
	Location     store.LocationSummary `json:"location"`
	User         store.Profile         `json:"user"`
	CreatedAt    time.Time             `json:"created_at"`
	Rating       *int                  `json:"rating,omitempty"`
	Comment      *string               `json:"comment,omitempty"`
	ReviewPhotos []string              `json:"review_photos,omitempty"`
}

// Result is the assembled feed plus the explicit, countable outcomes of
// the partial-failure policy.
type Result struct {
	Items           []Item
	Dropped         int
	FavoritesFailed bool
}

type ReviewSource interface {
	GetRecent(ctx context.Context, limit int) ([]store.ReviewActivity, error)
}

type FavoriteSource interface {
	GetRecent(ctx context.Context, limit int) ([]store.FavoriteActivity, error)
}

type Assembler struct {
	reviews   ReviewSource
	favorites FavoriteSource
	logger    *zap.SugaredLogger
}

func NewAssembler(reviews ReviewSource, favorites FavoriteSource, logger *zap.SugaredLogger) *Assembler {
	return &Assembler{
		reviews:   reviews,
		favorites: favorites,
		logger:    logger,
	}
}

// Build fetches the most recent reviews and favorites (limit/2 rows each,
// fetched concurrently), drops rows whose author or location reference is
// orphaned, merges the survivors into one reverse-chronological sequence
// and truncates it to limit.
//
// A reviews fetch failure fails the whole build; a favorites fetch failure
// degrades to an empty favorites set. Reviews are the primary feed signal,
// favorites are supplementary. Regardless of fetch order the output is
// sorted by creation time descending, with reviews winning timestamp ties.
func (a *Assembler) Build(ctx context.Context, limit int) (*Result, error) {
	if limit < MinLimit || limit > MaxLimit {
		return nil, ErrInvalidLimit
	}

	half := limit / 2

	var (
		favorites    []store.FavoriteActivity
		favoritesErr error
		wg           sync.WaitGroup
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		favorites, favoritesErr = a.favorites.GetRecent(ctx, half)
	}()

	reviews, reviewsErr := a.reviews.GetRecent(ctx, half)
	wg.Wait()

	if reviewsErr != nil {
		return nil, reviewsErr
	}

	result := &Result{Items: []Item{}}

	if favoritesErr != nil {
		// Deliberate partial-failure policy: log and continue with
		// reviews only.
		a.logger.Warnw("favorites fetch failed, assembling feed from reviews only", "error", favoritesErr)
		result.FavoritesFailed = true
		favorites = nil
	}

	for _, r := range reviews {
		if r.Author == nil || r.Location == nil {
			result.Dropped++
			continue
		}
		rating := r.Rating
		comment := r.Comment
		photos := r.Photos
		if photos == nil {
			photos = []string{}
		}
		result.Items = append(result.Items, Item{
			ID:           r.ID,
			Type:         TypeReview,
			Location:     *r.Location,
			User:         *r.Author,
			CreatedAt:    r.CreatedAt,
			Rating:       &rating,
			Comment:      &comment,
			ReviewPhotos: photos,
		})
	}

	for _, f := range favorites {
		if f.Author == nil || f.Location == nil {
			result.Dropped++
			continue
		}
		result.Items = append(result.Items, Item{
			ID:        f.ID,
			Type:      TypeFavorite,
			Location:  *f.Location,
			User:      *f.Author,
			CreatedAt: f.CreatedAt,
		})
	}

	if result.Dropped > 0 {
		a.logger.Warnw("dropped feed rows with orphaned references", "dropped", result.Dropped)
	}

	// Stable sort keeps reviews ahead of favorites on equal timestamps,
	// since reviews were appended first.
	sort.SliceStable(result.Items, func(i, j int) bool {
		return result.Items[i].CreatedAt.After(result.Items[j].CreatedAt)
	})

	if len(result.Items) > limit {
		result.Items = result.Items[:limit]
	}

	return result, nil
}
