package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound          = errors.New("resource not found")
	QueryTimeoutDuration = time.Second * 5
)

type Storage struct {
	Locations interface {
		GetNearby(context.Context, NearbyFilter) ([]Location, error)
		Search(context.Context, SearchFilter) ([]Location, error)
		GetByID(context.Context, string) (*LocationDetail, error)
		Exists(context.Context, string) (bool, error)
		UpdateStats(context.Context, string, float64, int) (*LocationStats, error)
	}
	Reviews interface {
		GetRatings(context.Context, string) ([]int, error)
		GetRecent(context.Context, int) ([]ReviewActivity, error)
	}
	Favorites interface {
		GetRecent(context.Context, int) ([]FavoriteActivity, error)
	}
	Profiles interface {
		GetByID(context.Context, string) (*Profile, error)
	}
	Health interface {
		Check(context.Context) error
	}
}

func NewStorage(db *pgxpool.Pool) Storage {
	return Storage{
		Locations: &LocationsStore{db},
		Reviews:   &ReviewsStore{db},
		Favorites: &FavoritesStore{db},
		Profiles:  &ProfilesStore{db},
		Health:    &HealthStore{db},
	}
}
