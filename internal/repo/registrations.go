package repo

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"clubhub/internal/model"
)

const registrationColumns = `
	id, event_id, user_id,
	participant_name, participant_email, participant_phone,
	participant_department, participant_year, participant_student_id,
	status, payment_status, attendance_status, auto_created, created_at, updated_at`

func scanRegistration(row scanner) (*model.Registration, error) {
	var reg model.Registration
	err := row.Scan(
		&reg.ID, &reg.EventID, &reg.UserID,
		&reg.Name, &reg.Email, &reg.Phone,
		&reg.Department, &reg.Year, &reg.StudentID,
		&reg.Status, &reg.PaymentStatus, &reg.AttendanceStatus, &reg.AutoCreated,
		&reg.CreatedAt, &reg.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

// insertRegistration returns sql.ErrNoRows when skipExisting is set and the
// user already has a registration for the event.
func insertRegistration(ctx context.Context, tx *sql.Tx, reg *model.Registration, skipExisting bool) error {
	query := `
		INSERT INTO registrations (
			event_id, user_id,
			participant_name, participant_email, participant_phone,
			participant_department, participant_year, participant_student_id,
			status, payment_status, attendance_status, auto_created
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	if skipExisting {
		query += ` ON CONFLICT (event_id, user_id) DO NOTHING`
	}
	query += ` RETURNING id, created_at, updated_at`

	return tx.QueryRowContext(ctx, query,
		reg.EventID, reg.UserID,
		reg.Name, reg.Email, reg.Phone,
		reg.Department, reg.Year, reg.StudentID,
		reg.Status, reg.PaymentStatus, reg.AttendanceStatus, reg.AutoCreated,
	).Scan(&reg.ID, &reg.CreatedAt, &reg.UpdatedAt)
}

func (r *Postgres) CreateRegistrationTx(ctx context.Context, reg *model.Registration) (int64, error) {
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		err := insertRegistration(ctx, tx, reg, false)
		if err := insertError(err, ErrDuplicateRegistration, "failed to create registration"); err != nil {
			return err
		}
		return bumpCounter(ctx, tx, registrationCountColumn, reg.EventID, 1)
	})
	if err != nil {
		return 0, err
	}
	return reg.ID, nil
}

func (r *Postgres) getRegistration(ctx context.Context, where string, args ...any) (*model.Registration, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+registrationColumns+` FROM registrations WHERE `+where, args...)
	reg, err := scanRegistration(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRegistrationNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get registration")
	}
	return reg, nil
}

func (r *Postgres) GetRegistrationByID(ctx context.Context, id int64) (*model.Registration, error) {
	return r.getRegistration(ctx, `id = $1`, id)
}

func (r *Postgres) GetRegistration(ctx context.Context, eventID, userID int64) (*model.Registration, error) {
	return r.getRegistration(ctx, `event_id = $1 AND user_id = $2`, eventID, userID)
}

func (r *Postgres) listRegistrations(ctx context.Context, where string, arg any) ([]model.Registration, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+registrationColumns+` FROM registrations WHERE `+where+` ORDER BY created_at ASC`, arg)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get registrations")
	}
	defer rows.Close()

	regs := make([]model.Registration, 0)
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan registration")
		}
		regs = append(regs, *reg)
	}
	return regs, rows.Err()
}

func (r *Postgres) GetRegistrationsByEventID(ctx context.Context, eventID int64) ([]model.Registration, error) {
	return r.listRegistrations(ctx, `event_id = $1`, eventID)
}

func (r *Postgres) GetRegistrationsByUserID(ctx context.Context, userID int64) ([]model.Registration, error) {
	return r.listRegistrations(ctx, `user_id = $1`, userID)
}

func (r *Postgres) UpdateRegistrationTx(ctx context.Context, id int64, patch model.RegistrationPatch) (*model.Registration, error) {
	var reg *model.Registration
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx,
			`SELECT `+registrationColumns+` FROM registrations WHERE id = $1 FOR UPDATE`, id)
		cur, err := scanRegistration(row)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrRegistrationNotFound
		}
		if err != nil {
			return errors.Wrap(err, "failed to lock registration")
		}

		delta := patch.Apply(cur)
		query := `
			UPDATE registrations
			SET status = $1, payment_status = $2, attendance_status = $3, updated_at = NOW()
			WHERE id = $4
			RETURNING updated_at
		`
		if err := tx.QueryRowContext(ctx, query,
			cur.Status, cur.PaymentStatus, cur.AttendanceStatus, cur.ID,
		).Scan(&cur.UpdatedAt); err != nil {
			return errors.Wrap(err, "failed to update registration")
		}
		if err := bumpCounter(ctx, tx, registrationCountColumn, cur.EventID, delta); err != nil {
			return err
		}
		reg = cur
		return nil
	})
	if err != nil {
		return nil, err
	}
	return reg, nil
}
