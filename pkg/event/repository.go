package event

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Repository persists calendar events.
type Repository interface {
	StoreEvent(ctx context.Context, e Event) (string, error)
	GetEvents(ctx context.Context, from, to time.Time) ([]Event, error)
	GetEvent(ctx context.Context, uid string) (*Event, error)
	UpdateEvent(ctx context.Context, e Event) error
	DeleteEvent(ctx context.Context, uid string) error
}

type RepositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) StoreEvent(ctx context.Context, e Event) (string, error) {
	query := `INSERT INTO calendar_event (
                            uid,
                            title,
                            start_time,
                            end_time,
                            all_day,
                            color,
                            comment,
                            external_id
						) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	uid := e.UID
	if uid == "" {
		uid = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx, query, uid, e.Title, e.StartTime.UnixMilli(), e.EndTime.UnixMilli(), e.AllDay, e.Color, e.Comment,
		e.ExternalID)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return "", err
	}

	return uid, nil
}

// GetEvents returns all events that overlap the given period: events starting
// before the end of the period and ending after its start.
func (r *RepositoryImpl) GetEvents(ctx context.Context, from, to time.Time) ([]Event, error) {
	query := `SELECT uid, title, start_time, end_time, all_day, color, comment, external_id
              FROM calendar_event
              WHERE start_time <= $1
                AND end_time >= $2
			  ORDER BY start_time`

	rows, err := r.db.QueryContext(ctx, query, to.UnixMilli(), from.UnixMilli())
	if err != nil {
		err := fmt.Errorf("could not query calendar events: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	events := make([]Event, 0, 10)
	for rows.Next() {
		e, err := scanEvent(rows.Scan)
		if err != nil {
			log.Error(err)
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *RepositoryImpl) GetEvent(ctx context.Context, uid string) (*Event, error) {
	query := `SELECT uid, title, start_time, end_time, all_day, color, comment, external_id
              FROM calendar_event
              WHERE uid = $1`

	row := r.db.QueryRowContext(ctx, query, uid)
	e, err := scanEvent(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		err := fmt.Errorf("could not scan row: %w", err)
		log.Error(err)
		return nil, err
	}
	return &e, nil
}

func (r *RepositoryImpl) UpdateEvent(ctx context.Context, e Event) error {
	query := `UPDATE calendar_event
              SET title = $1, start_time = $2, end_time = $3, all_day = $4, color = $5, comment = $6, external_id = $7
              WHERE uid = $8`
	_, err := r.db.ExecContext(ctx, query, e.Title, e.StartTime.UnixMilli(), e.EndTime.UnixMilli(), e.AllDay, e.Color, e.Comment,
		e.ExternalID, e.UID)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return err
	}
	return nil
}

func (r *RepositoryImpl) DeleteEvent(ctx context.Context, uid string) error {
	query := `DELETE FROM calendar_event WHERE uid = $1`
	_, err := r.db.ExecContext(ctx, query, uid)
	if err != nil {
		err := fmt.Errorf("could not execute query: %w", err)
		log.Error(err)
		return err
	}
	return nil
}

func scanEvent(scan func(dest ...any) error) (Event, error) {
	var e Event
	var startMillis, endMillis int64
	if err := scan(&e.UID, &e.Title, &startMillis, &endMillis, &e.AllDay, &e.Color, &e.Comment, &e.ExternalID); err != nil {
		return Event{}, err
	}
	e.StartTime = time.UnixMilli(startMillis)
	e.EndTime = time.UnixMilli(endMillis)
	return e, nil
}
