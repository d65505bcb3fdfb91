package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Location represents a location row with its denormalized rating stats.
// Latitude/longitude are unpacked from the PostGIS point column.
type Location struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Description    *string   `json:"description"`
	Address        *string   `json:"address"`
	Latitude       float64   `json:"latitude"`
	Longitude      float64   `json:"longitude"`
	Photos         []string  `json:"photos"`
	AverageRating  float64   `json:"average_rating"`
	ReviewCount    int       `json:"review_count"`
	DistanceMeters *float64  `json:"distance_meters,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// LocationSummary is the denormalized snapshot carried by feed items.
type LocationSummary struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Description   *string  `json:"description"`
	Photos        []string `json:"photos"`
	AverageRating float64  `json:"average_rating"`
	ReviewCount   int      `json:"review_count"`
	Address       *string  `json:"address"`
}

type Category struct {
	ID   string  `json:"id"`
	Name string  `json:"name"`
	Icon *string `json:"icon"`
}

// DetailReview is the review shape embedded in a location detail response.
type DetailReview struct {
	ID        string    `json:"id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
	UserID    string    `json:"user_id"`
}

type LocationDetail struct {
	Location
	Categories []Category     `json:"categories"`
	Reviews    []DetailReview `json:"reviews"`
}

// LocationStats is the pair of aggregate fields restored by the stats updater.
type LocationStats struct {
	ID            string  `json:"id"`
	AverageRating float64 `json:"average_rating"`
	ReviewCount   int     `json:"review_count"`
}

type NearbyFilter struct {
	Latitude     float64
	Longitude    float64
	RadiusMeters float64
	Limit        int
	Category     *string
}

type SearchFilter struct {
	Query string
	Limit int
}

type LocationsStore struct {
	db *pgxpool.Pool
}

const locationColumns = `
		l.id,
		l.name,
		l.description,
		l.address,
		ST_Y(l.location::geometry) AS latitude,
		ST_X(l.location::geometry) AS longitude,
		l.photos,
		l.average_rating,
		l.review_count`

// GetNearby runs a PostGIS radius query ordered by distance from the center.
func (s *LocationsStore) GetNearby(ctx context.Context, filter NearbyFilter) ([]Location, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `
		SELECT` + locationColumns + `,
		ST_Distance(l.location::geography, ST_MakePoint($1, $2)::geography) AS distance_meters,
		l.created_at
		FROM locations l
		WHERE ST_DWithin(l.location::geography, ST_MakePoint($1, $2)::geography, $3)
		  AND ($4::text IS NULL OR EXISTS (
		      SELECT 1
		      FROM location_categories lc
		      JOIN categories c ON c.id = lc.category_id
		      WHERE lc.location_id = l.id AND c.name = $4
		  ))
		ORDER BY ST_Distance(l.location::geography, ST_MakePoint($1, $2)::geography) ASC
		LIMIT $5
	`

	rows, err := s.db.Query(ctx, query,
		filter.Longitude,
		filter.Latitude,
		filter.RadiusMeters,
		filter.Category,
		filter.Limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query nearby locations: %w", err)
	}
	defer rows.Close()

	locations := []Location{}
	for rows.Next() {
		var l Location
		var distance float64
		if err := rows.Scan(
			&l.ID, &l.Name, &l.Description, &l.Address,
			&l.Latitude, &l.Longitude, &l.Photos,
			&l.AverageRating, &l.ReviewCount,
			&distance, &l.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan location row: %w", err)
		}
		l.DistanceMeters = &distance
		locations = append(locations, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return locations, nil
}

// Search matches the query substring case-insensitively across
// name, description and address.
func (s *LocationsStore) Search(ctx context.Context, filter SearchFilter) ([]Location, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `
		SELECT` + locationColumns + `,
		NULL::float8 AS distance_meters,
		l.created_at
		FROM locations l
		WHERE l.name ILIKE '%' || $1 || '%'
		   OR l.description ILIKE '%' || $1 || '%'
		   OR l.address ILIKE '%' || $1 || '%'
		ORDER BY l.review_count DESC, l.name
		LIMIT $2
	`

	rows, err := s.db.Query(ctx, query, filter.Query, filter.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search locations: %w", err)
	}
	defer rows.Close()

	locations := []Location{}
	for rows.Next() {
		var l Location
		if err := rows.Scan(
			&l.ID, &l.Name, &l.Description, &l.Address,
			&l.Latitude, &l.Longitude, &l.Photos,
			&l.AverageRating, &l.ReviewCount,
			&l.DistanceMeters, &l.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan location row: %w", err)
		}
		locations = append(locations, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return locations, nil
}

// GetByID retrieves a location by its ID together with its joined
// categories and reviews.
func (s *LocationsStore) GetByID(ctx context.Context, locationID string) (*LocationDetail, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `
		SELECT` + locationColumns + `,
		l.created_at
		FROM locations l
		WHERE l.id = $1
	`

	var d LocationDetail
	err := s.db.QueryRow(ctx, query, locationID).Scan(
		&d.ID, &d.Name, &d.Description, &d.Address,
		&d.Latitude, &d.Longitude, &d.Photos,
		&d.AverageRating, &d.ReviewCount, &d.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	d.Categories, err = s.getCategories(ctx, locationID)
	if err != nil {
		return nil, err
	}

	d.Reviews, err = s.getReviews(ctx, locationID)
	if err != nil {
		return nil, err
	}

	return &d, nil
}

func (s *LocationsStore) getCategories(ctx context.Context, locationID string) ([]Category, error) {
	query := `
		SELECT c.id, c.name, c.icon
		FROM categories c
		JOIN location_categories lc ON lc.category_id = c.id
		WHERE lc.location_id = $1
		ORDER BY c.name
	`

	rows, err := s.db.Query(ctx, query, locationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query location categories: %w", err)
	}
	defer rows.Close()

	categories := []Category{}
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Icon); err != nil {
			return nil, fmt.Errorf("failed to scan category row: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (s *LocationsStore) getReviews(ctx context.Context, locationID string) ([]DetailReview, error) {
	query := `
		SELECT id, rating, comment, created_at, user_id
		FROM reviews
		WHERE location_id = $1
		ORDER BY created_at DESC
	`

	rows, err := s.db.Query(ctx, query, locationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query location reviews: %w", err)
	}
	defer rows.Close()

	reviews := []DetailReview{}
	for rows.Next() {
		var r DetailReview
		if err := rows.Scan(&r.ID, &r.Rating, &r.Comment, &r.CreatedAt, &r.UserID); err != nil {
			return nil, fmt.Errorf("failed to scan review row: %w", err)
		}
		reviews = append(reviews, r)
	}
	return reviews, rows.Err()
}

// Exists reports whether a location row exists without fetching it.
func (s *LocationsStore) Exists(ctx context.Context, locationID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var id string
	err := s.db.QueryRow(ctx, `SELECT id FROM locations WHERE id = $1`, locationID).Scan(&id)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	return false, err
}

// UpdateStats persists both aggregate fields in a single statement so the
// pair is never written torn.
func (s *LocationsStore) UpdateStats(ctx context.Context, locationID string, averageRating float64, reviewCount int) (*LocationStats, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `
		UPDATE locations
		SET average_rating = $2, review_count = $3, updated_at = now()
		WHERE id = $1
		RETURNING id, average_rating, review_count
	`

	var stats LocationStats
	err := s.db.QueryRow(ctx, query, locationID, averageRating, reviewCount).Scan(
		&stats.ID, &stats.AverageRating, &stats.ReviewCount,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update location stats: %w", err)
	}

	return &stats, nil
}
