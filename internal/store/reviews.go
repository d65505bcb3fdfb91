package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ReviewActivity is a recent review joined with its author profile and its
// location summary. Either join side may be nil when the referenced row is
// gone; the feed assembler decides what to do with such orphans.
type ReviewActivity struct {
	ID        string
	Rating    int
	Comment   string
	Photos    []string
	CreatedAt time.Time
	Author    *Profile
	Location  *LocationSummary
}

// FavoriteActivity is a recent favorite joined the same way as ReviewActivity.
type FavoriteActivity struct {
	ID        string
	CreatedAt time.Time
	Author    *Profile
	Location  *LocationSummary
}

type ReviewsStore struct {
	db *pgxpool.Pool
}

// GetRatings fetches the full rating set for a location. No pagination;
// the set is assumed to fit in memory.
func (s *ReviewsStore) GetRatings(ctx context.Context, locationID string) ([]int, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := s.db.Query(ctx, `SELECT rating FROM reviews WHERE location_id = $1`, locationID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch reviews for location: %w", err)
	}
	defer rows.Close()

	ratings := []int{}
	for rows.Next() {
		var rating int
		if err := rows.Scan(&rating); err != nil {
			return nil, fmt.Errorf("failed to scan rating: %w", err)
		}
		ratings = append(ratings, rating)
	}
	return ratings, rows.Err()
}

// GetRecent returns the most recent reviews, newest first, each left-joined
// with its author profile and location summary.
func (s *ReviewsStore) GetRecent(ctx context.Context, limit int) ([]ReviewActivity, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `
		SELECT r.id, r.rating, r.comment, r.photos, r.created_at,
		       p.id, p.username, p.avatar_url,
		       l.id, l.name, l.description, l.photos,
		       l.average_rating, l.review_count, l.address
		FROM reviews r
		LEFT JOIN profiles p ON p.id = r.user_id
		LEFT JOIN locations l ON l.id = r.location_id
		ORDER BY r.created_at DESC
		LIMIT $1
	`

	rows, err := s.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch recent reviews: %w", err)
	}
	defer rows.Close()

	activities := []ReviewActivity{}
	for rows.Next() {
		var a ReviewActivity
		var author joinedProfile
		var location joinedLocation
		if err := rows.Scan(
			&a.ID, &a.Rating, &a.Comment, &a.Photos, &a.CreatedAt,
			&author.ID, &author.Username, &author.AvatarURL,
			&location.ID, &location.Name, &location.Description, &location.Photos,
			&location.AverageRating, &location.ReviewCount, &location.Address,
		); err != nil {
			return nil, fmt.Errorf("failed to scan review activity: %w", err)
		}
		a.Author = author.resolve()
		a.Location = location.resolve()
		activities = append(activities, a)
	}
	return activities, rows.Err()
}

// joinedProfile holds the nullable columns of a LEFT JOINed profile.
type joinedProfile struct {
	ID        *string
	Username  *string
	AvatarURL *string
}

func (j joinedProfile) resolve() *Profile {
	if j.ID == nil || j.Username == nil {
		return nil
	}
	return &Profile{ID: *j.ID, Username: *j.Username, AvatarURL: j.AvatarURL}
}

// joinedLocation holds the nullable columns of a LEFT JOINed location.
type joinedLocation struct {
	ID            *string
	Name          *string
	Description   *string
	Photos        []string
	AverageRating *float64
	ReviewCount   *int
	Address       *string
}

func (j joinedLocation) resolve() *LocationSummary {
	if j.ID == nil || j.Name == nil {
		return nil
	}
	summary := &LocationSummary{
		ID:          *j.ID,
		Name:        *j.Name,
		Description: j.Description,
		Photos:      j.Photos,
		Address:     j.Address,
	}
	if summary.Photos == nil {
		summary.Photos = []string{}
	}
	if j.AverageRating != nil {
		summary.AverageRating = *j.AverageRating
	}
	if j.ReviewCount != nil {
		summary.ReviewCount = *j.ReviewCount
	}
	return summary
}
