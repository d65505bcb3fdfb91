package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Profile is a user's public identity as shown in feed items.
type Profile struct {
	ID        string  `json:"id"`
	Username  string  `json:"username"`
	AvatarURL *string `json:"avatar_url"`
}

type ProfilesStore struct {
	db *pgxpool.Pool
}

// GetByID retrieves a profile by its ID.
func (s *ProfilesStore) GetByID(ctx context.Context, profileID string) (*Profile, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var p Profile
	err := s.db.QueryRow(ctx,
		`SELECT id, username, avatar_url FROM profiles WHERE id = $1`,
		profileID,
	).Scan(&p.ID, &p.Username, &p.AvatarURL)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &p, nil
}
