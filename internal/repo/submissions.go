package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"strconv"

	"github.com/pkg/errors"

	"clubhub/internal/model"
)

const submissionColumns = `
	id, event_id, user_id,
	participant_name, participant_email, participant_phone,
	participant_department, participant_year, participant_student_id,
	title, description, main_file_url, status, award, review_notes, created_at, updated_at`

func scanSubmission(row scanner) (*model.Submission, error) {
	var (
		sub   model.Submission
		award []byte
	)
	err := row.Scan(
		&sub.ID, &sub.EventID, &sub.UserID,
		&sub.Name, &sub.Email, &sub.Phone,
		&sub.Department, &sub.Year, &sub.StudentID,
		&sub.Title, &sub.Description, &sub.MainFileURL, &sub.Status, &award, &sub.ReviewNotes,
		&sub.CreatedAt, &sub.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(award) > 0 {
		sub.Award = new(model.Award)
		if err := json.Unmarshal(award, sub.Award); err != nil {
			return nil, errors.Wrap(err, "failed to decode award")
		}
	}
	return &sub, nil
}

// autoRegisterOutcome reads the result of the ON CONFLICT DO NOTHING insert.
// sql.ErrNoRows there means the user already had a registration.
func autoRegisterOutcome(err error) (bool, error) {
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, sql.ErrNoRows):
		return false, nil
	case isForeignKeyViolation(err):
		return false, ErrEventNotFound
	}
	return false, errors.Wrap(err, "failed to auto-register")
}

func (r *Postgres) CreateSubmissionTx(ctx context.Context, sub *model.Submission, opts SubmissionOptions) (*model.Registration, error) {
	var created *model.Registration

	err := r.withTx(ctx, func(tx *sql.Tx) error {
		if opts.RequireRegistration {
			var status string
			err := tx.QueryRowContext(ctx, `
				SELECT status FROM registrations
				WHERE event_id = $1 AND user_id = $2
				FOR SHARE
			`, sub.EventID, sub.UserID).Scan(&status)
			if errors.Is(err, sql.ErrNoRows) || status == model.RegistrationCancelled {
				return ErrNotRegistered
			}
			if err != nil {
				return errors.Wrap(err, "failed to check registration")
			}
		}

		if reg := opts.AutoRegister; reg != nil {
			inserted, err := autoRegisterOutcome(insertRegistration(ctx, tx, reg, true))
			if err != nil {
				return err
			}
			if inserted {
				if err := bumpCounter(ctx, tx, registrationCountColumn, reg.EventID, 1); err != nil {
					return err
				}
				created = reg
			}
		}

		query := `
			INSERT INTO submissions (
				event_id, user_id,
				participant_name, participant_email, participant_phone,
				participant_department, participant_year, participant_student_id,
				title, description, main_file_url, status
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			RETURNING id, created_at, updated_at
		`
		err := tx.QueryRowContext(ctx, query,
			sub.EventID, sub.UserID,
			sub.Name, sub.Email, sub.Phone,
			sub.Department, sub.Year, sub.StudentID,
			sub.Title, sub.Description, sub.MainFileURL, sub.Status,
		).Scan(&sub.ID, &sub.CreatedAt, &sub.UpdatedAt)
		if err := insertError(err, ErrDuplicateSubmission, "failed to create submission"); err != nil {
			return err
		}

		return bumpCounter(ctx, tx, submissionCountColumn, sub.EventID, 1)
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *Postgres) getSubmission(ctx context.Context, where string, args ...any) (*model.Submission, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+submissionColumns+` FROM submissions WHERE `+where, args...)
	sub, err := scanSubmission(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSubmissionNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get submission")
	}
	return sub, nil
}

func (r *Postgres) GetSubmissionByID(ctx context.Context, id int64) (*model.Submission, error) {
	return r.getSubmission(ctx, `id = $1`, id)
}

func (r *Postgres) GetSubmission(ctx context.Context, eventID, userID int64) (*model.Submission, error) {
	return r.getSubmission(ctx, `event_id = $1 AND user_id = $2`, eventID, userID)
}

func (r *Postgres) listSubmissions(ctx context.Context, where string, arg any) ([]model.Submission, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+submissionColumns+` FROM submissions WHERE `+where+` ORDER BY created_at ASC`, arg)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get submissions")
	}
	defer rows.Close()

	subs := make([]model.Submission, 0)
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan submission")
		}
		subs = append(subs, *sub)
	}
	return subs, rows.Err()
}

func (r *Postgres) GetSubmissionsByEventID(ctx context.Context, eventID int64) ([]model.Submission, error) {
	return r.listSubmissions(ctx, `event_id = $1`, eventID)
}

func (r *Postgres) GetSubmissionsByUserID(ctx context.Context, userID int64) ([]model.Submission, error) {
	return r.listSubmissions(ctx, `user_id = $1`, userID)
}

func (r *Postgres) updateSubmission(ctx context.Context, id int64, set string, args ...any) (*model.Submission, error) {
	args = append(args, id)
	query := `UPDATE submissions SET ` + set + `, updated_at = NOW() WHERE id = $` +
		strconv.Itoa(len(args)) + ` RETURNING ` + submissionColumns
	sub, err := scanSubmission(r.db.Master.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSubmissionNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to update submission")
	}
	return sub, nil
}

func (r *Postgres) UpdateSubmissionReview(ctx context.Context, id int64, status, notes string) (*model.Submission, error) {
	return r.updateSubmission(ctx, id, `status = $1, review_notes = $2`, status, notes)
}

func (r *Postgres) SetSubmissionAward(ctx context.Context, id int64, award *model.Award) (*model.Submission, error) {
	var data any
	if award != nil {
		raw, err := json.Marshal(award)
		if err != nil {
			return nil, errors.Wrap(err, "failed to encode award")
		}
		data = string(raw)
	}
	return r.updateSubmission(ctx, id, `award = $1`, data)
}
