package repo

import (
	"context"
	"database/sql"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"clubhub/internal/model"
)

const eventColumns = `
	id, title, description, type, status, date, end_date,
	registration_required, submission_required, registration_deadline, submission_deadline,
	venue, address, city, is_online, meeting_link, cover_image_url, max_participants,
	registration_count, submission_count, created_at, updated_at`

func scanEvent(row scanner) (*model.Event, error) {
	var e model.Event
	err := row.Scan(
		&e.ID, &e.Title, &e.Description, &e.Type, &e.Status, &e.Date, &e.EndDate,
		&e.RegistrationRequired, &e.SubmissionRequired, &e.RegistrationDeadline, &e.SubmissionDeadline,
		&e.Venue, &e.Address, &e.City, &e.IsOnline, &e.MeetingLink, &e.CoverImageURL, &e.MaxParticipants,
		&e.RegistrationCount, &e.SubmissionCount, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *Postgres) CreateEvent(ctx context.Context, e *model.Event) (int64, error) {
	query := `
		INSERT INTO events (
			title, description, type, status, date, end_date,
			registration_required, submission_required, registration_deadline, submission_deadline,
			venue, address, city, is_online, meeting_link, cover_image_url, max_participants
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING id, created_at, updated_at
	`
	row := r.db.Master.QueryRowContext(ctx, query,
		e.Title, e.Description, e.Type, e.Status, e.Date, e.EndDate,
		e.RegistrationRequired, e.SubmissionRequired, e.RegistrationDeadline, e.SubmissionDeadline,
		e.Venue, e.Address, e.City, e.IsOnline, e.MeetingLink, e.CoverImageURL, e.MaxParticipants,
	)
	if err := row.Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return 0, errors.Wrap(err, "failed to insert event")
	}
	return e.ID, nil
}

// UpdateEvent saves every editable column. Counters are left alone.
func (r *Postgres) UpdateEvent(ctx context.Context, e *model.Event) error {
	query := `
		UPDATE events SET
			title = $1, description = $2, type = $3, status = $4, date = $5, end_date = $6,
			registration_required = $7, submission_required = $8,
			registration_deadline = $9, submission_deadline = $10,
			venue = $11, address = $12, city = $13, is_online = $14, meeting_link = $15,
			cover_image_url = $16, max_participants = $17, updated_at = NOW()
		WHERE id = $18
		RETURNING updated_at
	`
	err := r.db.Master.QueryRowContext(ctx, query,
		e.Title, e.Description, e.Type, e.Status, e.Date, e.EndDate,
		e.RegistrationRequired, e.SubmissionRequired, e.RegistrationDeadline, e.SubmissionDeadline,
		e.Venue, e.Address, e.City, e.IsOnline, e.MeetingLink, e.CoverImageURL, e.MaxParticipants,
		e.ID,
	).Scan(&e.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrEventNotFound
	}
	if err != nil {
		return errors.Wrap(err, "failed to update event")
	}
	return nil
}

func (r *Postgres) DeleteEvent(ctx context.Context, id int64) error {
	res, err := r.db.Master.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "failed to delete event")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrEventNotFound
	}
	return nil
}

func (r *Postgres) GetEventByID(ctx context.Context, id int64) (*model.Event, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id)
	e, err := scanEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get event")
	}
	return e, nil
}

func (r *Postgres) GetAllEvents(ctx context.Context, f model.EventFilter) ([]model.Event, error) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, arg any) {
		args = append(args, arg)
		where = append(where, strings.Replace(cond, "?", "$"+strconv.Itoa(len(args)), 1))
	}
	if f.Status != "" {
		add("status = ?", f.Status)
	}
	if f.Type != "" {
		add("type = ?", f.Type)
	}
	if f.From != nil {
		add("date >= ?", *f.From)
	}

	query := `SELECT ` + eventColumns + ` FROM events`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY date DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get events")
	}
	defer rows.Close()

	events := make([]model.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan event")
		}
		events = append(events, *e)
	}
	return events, rows.Err()
}
