package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// FavoritesStore handles read access to the favorites table.
type FavoritesStore struct {
	db *pgxpool.Pool
}

// GetRecent returns the most recent favorites, newest first, each
// left-joined with its author profile and location summary.
func (s *FavoritesStore) GetRecent(ctx context.Context, limit int) ([]FavoriteActivity, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `
		SELECT f.id, f.created_at,
		       p.id, p.username, p.avatar_url,
		       l.id, l.name, l.description, l.photos,
		       l.average_rating, l.review_count, l.address
		FROM favorites f
		LEFT JOIN profiles p ON p.id = f.user_id
		LEFT JOIN locations l ON l.id = f.location_id
		ORDER BY f.created_at DESC
		LIMIT $1
	`

	rows, err := s.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch recent favorites: %w", err)
	}
	defer rows.Close()

	activities := []FavoriteActivity{}
	for rows.Next() {
		var a FavoriteActivity
		var author joinedProfile
		var location joinedLocation
		if err := rows.Scan(
			&a.ID, &a.CreatedAt,
			&author.ID, &author.Username, &author.AvatarURL,
			&location.ID, &location.Name, &location.Description, &location.Photos,
			&location.AverageRating, &location.ReviewCount, &location.Address,
		); err != nil {
			return nil, fmt.Errorf("failed to scan favorite activity: %w", err)
		}
		a.Author = author.resolve()
		a.Location = location.resolve()
		activities = append(activities, a)
	}
	return activities, rows.Err()
}
