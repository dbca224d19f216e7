package leaderboard

import (
	"context"
	stderrors "errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/challengeme/backend/internal/domain"
	"github.com/challengeme/backend/internal/errors"
)

// PostgresStore is an EntryStore backed by a leaderboard_entries table.
type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Insert(ctx context.Context, e domain.LeaderboardEntry) error {
	const stmt = `
INSERT INTO leaderboard_entries (id, user_id, username, total_points, rank)
VALUES ($1, $2, $3, $4, $5);`

	_, err := s.db.Exec(ctx, stmt, e.ID, e.UserID, e.Username, e.TotalPoints, e.Rank)
	return err
}

func (s *PostgresStore) GetByID(ctx context.Context, id string) (domain.LeaderboardEntry, error) {
	const stmt = `
SELECT id, user_id, username, total_points, rank
FROM leaderboard_entries
WHERE id = $1;`

	return s.queryOne(ctx, stmt, id)
}

func (s *PostgresStore) GetByUserID(ctx context.Context, userID string) (domain.LeaderboardEntry, error) {
	const stmt = `
SELECT id, user_id, username, total_points, rank
FROM leaderboard_entries
WHERE user_id = $1;`

	return s.queryOne(ctx, stmt, userID)
}

func (s *PostgresStore) queryOne(ctx context.Context, stmt string, arg any) (domain.LeaderboardEntry, error) {
	var e domain.LeaderboardEntry
	err := s.db.QueryRow(ctx, stmt, arg).Scan(&e.ID, &e.UserID, &e.Username, &e.TotalPoints, &e.Rank)
	if stderrors.Is(err, pgx.ErrNoRows) {
		return domain.LeaderboardEntry{}, errors.New(errors.CodeNotFound,
			errors.WithMessagef("entry not found: %v", arg))
	}
	if err != nil {
		return domain.LeaderboardEntry{}, err
	}

	return e, nil
}

func (s *PostgresStore) GetAll(ctx context.Context) ([]domain.LeaderboardEntry, error) {
	const stmt = `
SELECT id, user_id, username, total_points, rank
FROM leaderboard_entries;`

	rows, err := s.db.Query(ctx, stmt)
	if err != nil {
		return nil, err
	}

	return pgx.CollectRows(rows, func(r pgx.CollectableRow) (domain.LeaderboardEntry, error) {
		var e domain.LeaderboardEntry
		err := r.Scan(&e.ID, &e.UserID, &e.Username, &e.TotalPoints, &e.Rank)
		return e, err
	})
}

func (s *PostgresStore) Update(ctx context.Context, e domain.LeaderboardEntry) error {
	const stmt = `
UPDATE leaderboard_entries
SET total_points = $2, rank = $3
WHERE id = $1;`

	tag, err := s.db.Exec(ctx, stmt, e.ID, e.TotalPoints, e.Rank)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errors.New(errors.CodeNotFound, errors.WithMessagef("entry not found: id=%s", e.ID))
	}

	return nil
}

func (s *PostgresStore) UpdateAll(ctx context.Context, entries []domain.LeaderboardEntry) error {
	if len(entries) == 0 {
		return nil
	}

	const stmt = `
UPDATE leaderboard_entries
SET total_points = $2, rank = $3
WHERE id = $1;`

	b := new(pgx.Batch)
	for _, e := range entries {
		b.Queue(stmt, e.ID, e.TotalPoints, e.Rank)
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	br := tx.SendBatch(ctx, b)
	for _, e := range entries {
		tag, err := br.Exec()
		if err != nil {
			br.Close()
			return err
		}
		if tag.RowsAffected() == 0 {
			br.Close()
			return errors.New(errors.CodeNotFound, errors.WithMessagef("entry not found: id=%s", e.ID))
		}
	}
	if err := br.Close(); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (s *PostgresStore) DeleteByID(ctx context.Context, id string) error {
	const stmt = `DELETE FROM leaderboard_entries WHERE id = $1;`

	tag, err := s.db.Exec(ctx, stmt, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errors.New(errors.CodeNotFound, errors.WithMessagef("entry not found: id=%s", id))
	}

	return nil
}

func (s *PostgresStore) ExistsByID(ctx context.Context, id string) (bool, error) {
	const stmt = `SELECT EXISTS (SELECT 1 FROM leaderboard_entries WHERE id = $1);`

	var exists bool
	if err := s.db.QueryRow(ctx, stmt, id).Scan(&exists); err != nil {
		return false, err
	}

	return exists, nil
}
