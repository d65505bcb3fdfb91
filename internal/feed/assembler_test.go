package feed

import (
	"context"
	"errors"
	"testing"
	"time"

	"urbanexplorer/internal/store"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeReviewSource struct {
	items    []store.ReviewActivity
	err      error
	gotLimit int
}

func (f *fakeReviewSource) GetRecent(_ context.Context, limit int) ([]store.ReviewActivity, error) {
	f.gotLimit = limit
	if f.err != nil {
		return nil, f.err
	}
	if limit < len(f.items) {
		return f.items[:limit], nil
	}
	return f.items, nil
}

type fakeFavoriteSource struct {
	items    []store.FavoriteActivity
	err      error
	gotLimit int
}

func (f *fakeFavoriteSource) GetRecent(_ context.Context, limit int) ([]store.FavoriteActivity, error) {
	f.gotLimit = limit
	if f.err != nil {
		return nil, f.err
	}
	if limit < len(f.items) {
		return f.items[:limit], nil
	}
	return f.items, nil
}

func testProfile() *store.Profile {
	return &store.Profile{ID: uuid.New().String(), Username: "explorer"}
}

func testSummary() *store.LocationSummary {
	return &store.LocationSummary{ID: uuid.New().String(), Name: "Old Town Square", Photos: []string{}}
}

func reviewAt(at time.Time) store.ReviewActivity {
	return store.ReviewActivity{
		ID:        uuid.New().String(),
		Rating:    4,
		Comment:   "worth a detour",
		CreatedAt: at,
		Author:    testProfile(),
		Location:  testSummary(),
	}
}

func favoriteAt(at time.Time) store.FavoriteActivity {
	return store.FavoriteActivity{
		ID:        uuid.New().String(),
		CreatedAt: at,
		Author:    testProfile(),
		Location:  testSummary(),
	}
}

func setupAssemblerTest(reviews *fakeReviewSource, favorites *fakeFavoriteSource) *Assembler {
	return NewAssembler(reviews, favorites, zap.NewNop().Sugar())
}

func TestAssembler_Build_LimitBounds(t *testing.T) {
	tests := []struct {
		name  string
		limit int
	}{
		{name: "zero", limit: 0},
		{name: "negative", limit: -5},
		{name: "above cap", limit: 201},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reviews := &fakeReviewSource{}
			favorites := &fakeFavoriteSource{}
			assembler := setupAssemblerTest(reviews, favorites)

			_, err := assembler.Build(context.Background(), tt.limit)
			assert.ErrorIs(t, err, ErrInvalidLimit)
			assert.Zero(t, reviews.gotLimit)
			assert.Zero(t, favorites.gotLimit)
		})
	}
}

func TestAssembler_Build_MergesReverseChronologically(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	reviews := &fakeReviewSource{items: []store.ReviewActivity{
		reviewAt(base.Add(3 * time.Hour)),
		reviewAt(base.Add(1 * time.Hour)),
	}}
	favorites := &fakeFavoriteSource{items: []store.FavoriteActivity{
		favoriteAt(base.Add(2 * time.Hour)),
		favoriteAt(base),
	}}
	assembler := setupAssemblerTest(reviews, favorites)

	result, err := assembler.Build(context.Background(), 50)
	require.NoError(t, err)

	require.Len(t, result.Items, 4)
	for i := 1; i < len(result.Items); i++ {
		assert.False(t, result.Items[i].CreatedAt.After(result.Items[i-1].CreatedAt),
			"items must be sorted by creation time, newest first")
	}
	assert.Equal(t, []string{TypeReview, TypeFavorite, TypeReview, TypeFavorite}, []string{
		result.Items[0].Type, result.Items[1].Type, result.Items[2].Type, result.Items[3].Type,
	})

	// each source is asked for floor(limit/2) rows
	assert.Equal(t, 25, reviews.gotLimit)
	assert.Equal(t, 25, favorites.gotLimit)
}

func TestAssembler_Build_ReviewWinsTimestampTie(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	reviews := &fakeReviewSource{items: []store.ReviewActivity{reviewAt(at)}}
	favorites := &fakeFavoriteSource{items: []store.FavoriteActivity{favoriteAt(at)}}
	assembler := setupAssemblerTest(reviews, favorites)

	result, err := assembler.Build(context.Background(), 10)
	require.NoError(t, err)

	require.Len(t, result.Items, 2)
	assert.Equal(t, TypeReview, result.Items[0].Type)
	assert.Equal(t, TypeFavorite, result.Items[1].Type)
}

func TestAssembler_Build_TruncatesToLimit(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	var reviewItems []store.ReviewActivity
	var favoriteItems []store.FavoriteActivity
	for i := 0; i < 10; i++ {
		reviewItems = append(reviewItems, reviewAt(base.Add(time.Duration(i)*time.Minute)))
		favoriteItems = append(favoriteItems, favoriteAt(base.Add(time.Duration(i)*time.Second)))
	}

	reviews := &fakeReviewSource{items: reviewItems}
	favorites := &fakeFavoriteSource{items: favoriteItems}
	assembler := setupAssemblerTest(reviews, favorites)

	result, err := assembler.Build(context.Background(), 6)
	require.NoError(t, err)

	assert.Len(t, result.Items, 6)
	assert.Equal(t, 3, reviews.gotLimit)
	assert.Equal(t, 3, favorites.gotLimit)
}

func TestAssembler_Build_DropsOrphanedRows(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	orphanAuthor := reviewAt(base.Add(time.Minute))
	orphanAuthor.Author = nil
	orphanLocation := favoriteAt(base.Add(2 * time.Minute))
	orphanLocation.Location = nil

	reviews := &fakeReviewSource{items: []store.ReviewActivity{orphanAuthor, reviewAt(base)}}
	favorites := &fakeFavoriteSource{items: []store.FavoriteActivity{orphanLocation, favoriteAt(base.Add(time.Second))}}
	assembler := setupAssemblerTest(reviews, favorites)

	result, err := assembler.Build(context.Background(), 50)
	require.NoError(t, err)

	assert.Len(t, result.Items, 2)
	assert.Equal(t, 2, result.Dropped)
}

func TestAssembler_Build_FavoritesFailureDegrades(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	reviews := &fakeReviewSource{items: []store.ReviewActivity{reviewAt(base), reviewAt(base.Add(time.Hour))}}
	favorites := &fakeFavoriteSource{err: errors.New("favorites table on fire")}
	assembler := setupAssemblerTest(reviews, favorites)

	result, err := assembler.Build(context.Background(), 50)
	require.NoError(t, err)

	assert.True(t, result.FavoritesFailed)
	require.Len(t, result.Items, 2)
	for _, item := range result.Items {
		assert.Equal(t, TypeReview, item.Type)
	}
}

func TestAssembler_Build_ReviewsFailureFailsBuild(t *testing.T) {
	reviews := &fakeReviewSource{err: errors.New("reviews unavailable")}
	favorites := &fakeFavoriteSource{items: []store.FavoriteActivity{favoriteAt(time.Now())}}
	assembler := setupAssemblerTest(reviews, favorites)

	_, err := assembler.Build(context.Background(), 50)
	assert.Error(t, err)
}

func TestAssembler_Build_LimitOneFetchesNothing(t *testing.T) {
	reviews := &fakeReviewSource{items: []store.ReviewActivity{reviewAt(time.Now())}}
	favorites := &fakeFavoriteSource{items: []store.FavoriteActivity{favoriteAt(time.Now())}}
	assembler := setupAssemblerTest(reviews, favorites)

	result, err := assembler.Build(context.Background(), 1)
	require.NoError(t, err)

	// floor(1/2) = 0 rows from each source
	assert.Empty(t, result.Items)
	assert.Zero(t, reviews.gotLimit)
	assert.Zero(t, favorites.gotLimit)
}
