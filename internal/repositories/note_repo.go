package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"controlx/internal/models"
)

type PostgresNoteRepository struct {
	pool PgxPool
}

func NewPostgresNoteRepository(pool PgxPool) *PostgresNoteRepository {
	return &PostgresNoteRepository{pool: pool}
}

// Upsert creates the note on first save and otherwise overwrites only the
// content, leaving any other columns of an existing row untouched.
func (r *PostgresNoteRepository) Upsert(ctx context.Context, date, content string) error {
	query := `INSERT INTO notes (date, content, updated_at)
	          VALUES ($1, $2, NOW())
	          ON CONFLICT (date)
	          DO UPDATE SET content = EXCLUDED.content, updated_at = NOW()`

	if _, err := r.pool.Exec(ctx, query, date, content); err != nil {
		return fmt.Errorf("failed to upsert note: %w", err)
	}
	return nil
}

func (r *PostgresNoteRepository) GetByDate(ctx context.Context, date string) (*models.Note, error) {
	query := `SELECT date, content, updated_at FROM notes WHERE date = $1`

	var note models.Note
	err := r.pool.QueryRow(ctx, query, date).Scan(&note.Date, &note.Content, &note.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get note: %w", err)
	}
	return &note, nil
}

// List returns every note keyed by its date, the full-collection snapshot
// shape the feed publishes.
func (r *PostgresNoteRepository) List(ctx context.Context) (map[string]models.Note, error) {
	query := `SELECT date, content, updated_at FROM notes`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query notes: %w", err)
	}
	defer rows.Close()

	notes := make(map[string]models.Note)
	for rows.Next() {
		var note models.Note
		if err := rows.Scan(&note.Date, &note.Content, &note.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		notes[note.Date] = note
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating notes: %w", err)
	}
	return notes, nil
}
