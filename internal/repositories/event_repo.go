package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"controlx/internal/models"
)

const eventColumns = `id, status, title, venue, client, fabrication, notes,
	       setup_start, setup_end, event_start, event_end, teardown,
	       created_by, updated_at`

type PostgresEventRepository struct {
	pool PgxPool
}

func NewPostgresEventRepository(pool PgxPool) *PostgresEventRepository {
	return &PostgresEventRepository{pool: pool}
}

// Create inserts the event under a fresh server-assigned id. updated_at is
// always stamped by the database, never taken from the client.
func (r *PostgresEventRepository) Create(ctx context.Context, ev models.Event) (string, error) {
	id := uuid.New().String()
	query := `INSERT INTO events
	            (id, status, title, venue, client, fabrication, notes,
	             setup_start, setup_end, event_start, event_end, teardown, created_by)
	          VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`

	_, err := r.pool.Exec(ctx, query,
		id, ev.Status, ev.Title, ev.Venue, ev.Client, ev.Fabrication, ev.Notes,
		ev.Setup.Start, ev.Setup.End, ev.EventDate.Start, ev.EventDate.End,
		nullableTime(ev.Teardown), ev.CreatedBy,
	)
	if err != nil {
		return "", fmt.Errorf("failed to create event: %w", err)
	}
	return id, nil
}

// Update writes only the fields present in the patch. The SET list is built
// column by column so untouched fields keep their stored values.
func (r *PostgresEventRepository) Update(ctx context.Context, id string, patch models.EventPatch) error {
	sets := []string{"updated_at = NOW()"}
	args := []any{id}

	addSet := func(col string, val any) {
		args = append(args, val)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if patch.Status != nil {
		addSet("status", *patch.Status)
	}
	if patch.Title != nil {
		addSet("title", *patch.Title)
	}
	if patch.Venue != nil {
		addSet("venue", *patch.Venue)
	}
	if patch.Client != nil {
		addSet("client", *patch.Client)
	}
	if patch.Fabrication != nil {
		addSet("fabrication", *patch.Fabrication)
	}
	if patch.Notes != nil {
		addSet("notes", *patch.Notes)
	}
	if patch.Setup != nil {
		addSet("setup_start", patch.Setup.Start)
		addSet("setup_end", patch.Setup.End)
	}
	if patch.EventDate != nil {
		addSet("event_start", patch.EventDate.Start)
		addSet("event_end", patch.EventDate.End)
	}
	if patch.Teardown != nil {
		addSet("teardown", nullableTime(*patch.Teardown))
	}

	query := "UPDATE events SET " + strings.Join(sets, ", ") + " WHERE id = $1"
	result, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresEventRepository) Delete(ctx context.Context, id string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresEventRepository) GetByID(ctx context.Context, id string) (*models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	ev, err := scanEvent(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return ev, nil
}

// List returns the full collection, most recently written first. This is
// the snapshot shape the feed publishes.
func (r *PostgresEventRepository) List(ctx context.Context) ([]models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events ORDER BY updated_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	events := []models.Event{}
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, *ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating events: %w", err)
	}
	return events, nil
}

func scanEvent(row pgx.Row) (*models.Event, error) {
	var ev models.Event
	var teardown *time.Time
	err := row.Scan(
		&ev.ID,
		&ev.Status,
		&ev.Title,
		&ev.Venue,
		&ev.Client,
		&ev.Fabrication,
		&ev.Notes,
		&ev.Setup.Start,
		&ev.Setup.End,
		&ev.EventDate.Start,
		&ev.EventDate.End,
		&teardown,
		&ev.CreatedBy,
		&ev.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if teardown != nil {
		ev.Teardown = *teardown
	}
	return &ev, nil
}

func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
