package repo

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/pkg/errors"

	"clubhub/internal/model"
)

const documentColumns = `id, kind, data, published, created_at, updated_at`

func scanDocument(row scanner) (*model.Document, error) {
	var (
		d    model.Document
		data []byte
	)
	if err := row.Scan(&d.ID, &d.Kind, &data, &d.Published, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return nil, err
	}
	d.Data = json.RawMessage(data)
	return &d, nil
}

func (r *Postgres) CreateDocument(ctx context.Context, d *model.Document) (int64, error) {
	err := r.db.Master.QueryRowContext(ctx, `
		INSERT INTO documents (kind, data, published)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`, d.Kind, string(d.Data), d.Published).Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return 0, errors.Wrap(err, "failed to insert document")
	}
	return d.ID, nil
}

func (r *Postgres) GetDocument(ctx context.Context, kind string, id int64) (*model.Document, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+documentColumns+` FROM documents WHERE kind = $1 AND id = $2`, kind, id)
	d, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrDocumentNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get document")
	}
	return d, nil
}

func (r *Postgres) GetDocuments(ctx context.Context, kind string, publishedOnly bool) ([]model.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE kind = $1`
	if publishedOnly {
		query += ` AND published`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, kind)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get documents")
	}
	defer rows.Close()

	docs := make([]model.Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan document")
		}
		docs = append(docs, *d)
	}
	return docs, rows.Err()
}

func (r *Postgres) UpdateDocument(ctx context.Context, d *model.Document) error {
	err := r.db.Master.QueryRowContext(ctx, `
		UPDATE documents SET data = $1, published = $2, updated_at = NOW()
		WHERE kind = $3 AND id = $4
		RETURNING updated_at
	`, string(d.Data), d.Published, d.Kind, d.ID).Scan(&d.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrDocumentNotFound
	}
	if err != nil {
		return errors.Wrap(err, "failed to update document")
	}
	return nil
}

func (r *Postgres) DeleteDocument(ctx context.Context, kind string, id int64) error {
	res, err := r.db.Master.ExecContext(ctx, `DELETE FROM documents WHERE kind = $1 AND id = $2`, kind, id)
	if err != nil {
		return errors.Wrap(err, "failed to delete document")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrDocumentNotFound
	}
	return nil
}

func (r *Postgres) GetSettings(ctx context.Context) (*model.SiteSettings, error) {
	var data []byte
	err := r.db.QueryRowContext(ctx, `SELECT data FROM site_settings WHERE id = 1`).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSettingsNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get settings")
	}
	s := model.DefaultSettings()
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, errors.Wrap(err, "failed to decode settings")
	}
	return &s, nil
}

func (r *Postgres) SaveSettings(ctx context.Context, s *model.SiteSettings) error {
	data, err := json.Marshal(s)
	if err != nil {
		return errors.Wrap(err, "failed to encode settings")
	}
	_, err = r.db.Master.ExecContext(ctx, `
		INSERT INTO site_settings (id, data) VALUES (1, $1)
		ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data, updated_at = NOW()
	`, string(data))
	return errors.Wrap(err, "failed to save settings")
}

func (r *Postgres) CreateContactMessage(ctx context.Context, m *model.ContactMessage) (int64, error) {
	err := r.db.Master.QueryRowContext(ctx, `
		INSERT INTO contact_messages (name, email, subject, message)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, m.Name, m.Email, m.Subject, m.Message).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return 0, errors.Wrap(err, "failed to save contact message")
	}
	return m.ID, nil
}

func (r *Postgres) GetContactMessages(ctx context.Context) ([]model.ContactMessage, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, email, subject, message, created_at FROM contact_messages ORDER BY created_at DESC`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get contact messages")
	}
	defer rows.Close()

	msgs := make([]model.ContactMessage, 0)
	for rows.Next() {
		var m model.ContactMessage
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Subject, &m.Message, &m.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "failed to scan contact message")
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}
