package achievement

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

var ErrStorageUnavailable = errors.New("storage unavailable")

// Store persists unlocks. Award must be insert-if-absent: a concurrent
// duplicate is reported as not-awarded, never as an error.
type Store interface {
	Catalog(ctx context.Context) ([]Achievement, error)
	EarnedIDs(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]bool, error)
	Award(ctx context.Context, userID, achievementID uuid.UUID) (bool, error)
	AddXP(ctx context.Context, userID uuid.UUID, xp int) error
}

type postgresStore struct {
	db *sqlx.DB

	// The catalog is seed data; cache it for the life of the process once a
	// load succeeds. Failures are never cached.
	catalogMu sync.Mutex
	catalog   []Achievement
}

func NewPostgresStore(db *sqlx.DB) Store {
	return &postgresStore{db: db}
}

func storageErr(op string, err error) error {
	return fmt.Errorf("%s: %v: %w", op, err, ErrStorageUnavailable)
}

func (s *postgresStore) Catalog(ctx context.Context) ([]Achievement, error) {
	s.catalogMu.Lock()
	defer s.catalogMu.Unlock()

	if s.catalog != nil {
		return s.catalog, nil
	}

	catalog := []Achievement{}
	err := s.db.SelectContext(ctx, &catalog,
		`SELECT * FROM achievements ORDER BY criteria_type, criteria_value`)
	if err != nil {
		return nil, storageErr("load achievement catalog", err)
	}

	s.catalog = catalog
	return catalog, nil
}

func (s *postgresStore) EarnedIDs(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]bool, error) {
	ids := []uuid.UUID{}
	err := s.db.SelectContext(ctx, &ids,
		`SELECT achievement_id FROM user_achievements WHERE user_id = $1`, userID)
	if err != nil {
		return nil, storageErr("list earned achievements", err)
	}

	earned := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		earned[id] = true
	}
	return earned, nil
}

func (s *postgresStore) Award(ctx context.Context, userID, achievementID uuid.UUID) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO user_achievements (user_id, achievement_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, achievement_id) DO NOTHING`,
		userID, achievementID)
	if err != nil {
		return false, storageErr("award achievement", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, storageErr("award achievement", err)
	}
	return rows == 1, nil
}

func (s *postgresStore) AddXP(ctx context.Context, userID uuid.UUID, xp int) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE user_stats SET total_xp = total_xp + $2, updated_at = now()
		WHERE user_id = $1`, userID, xp)
	if err != nil {
		return storageErr("add xp", err)
	}
	return nil
}
