package repo

import (
	"context"
	"os"
	"path/filepath"
	"sort"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/dbpg"

	"clubhub/internal/model"
)

var (
	ErrEventNotFound         = errors.New("event not found")
	ErrRegistrationNotFound  = errors.New("registration not found")
	ErrSubmissionNotFound    = errors.New("submission not found")
	ErrUserNotFound          = errors.New("user not found")
	ErrDocumentNotFound      = errors.New("document not found")
	ErrSettingsNotFound      = errors.New("settings not found")
	ErrDuplicateRegistration = errors.New("duplicate registration")
	ErrDuplicateSubmission   = errors.New("duplicate submission")
	ErrEmailTaken            = errors.New("email already in use")
	ErrNotRegistered         = errors.New("user is not registered for the event")
)

// SubmissionOptions controls the extra checks and writes done together with a
// submission insert.
type SubmissionOptions struct {
	// RequireRegistration rejects the submission with ErrNotRegistered unless
	// an active registration exists for the same event and user.
	RequireRegistration bool
	// AutoRegister is inserted when no registration exists yet for the same
	// event and user.
	AutoRegister *model.Registration
}

type Repository interface {
	CreateEvent(ctx context.Context, e *model.Event) (int64, error)
	UpdateEvent(ctx context.Context, e *model.Event) error
	DeleteEvent(ctx context.Context, id int64) error
	GetEventByID(ctx context.Context, id int64) (*model.Event, error)
	GetAllEvents(ctx context.Context, f model.EventFilter) ([]model.Event, error)

	// CreateRegistrationTx inserts reg and bumps the event's registration
	// counter in one transaction.
	CreateRegistrationTx(ctx context.Context, reg *model.Registration) (int64, error)
	GetRegistrationByID(ctx context.Context, id int64) (*model.Registration, error)
	GetRegistration(ctx context.Context, eventID, userID int64) (*model.Registration, error)
	GetRegistrationsByEventID(ctx context.Context, eventID int64) ([]model.Registration, error)
	GetRegistrationsByUserID(ctx context.Context, userID int64) ([]model.Registration, error)
	// UpdateRegistrationTx applies patch to the locked registration and moves
	// the event's registration counter with any cancel or reinstate, all in
	// one transaction.
	UpdateRegistrationTx(ctx context.Context, id int64, patch model.RegistrationPatch) (*model.Registration, error)

	// CreateSubmissionTx inserts sub and bumps the event's submission counter.
	// It returns the registration created through opts.AutoRegister, if any.
	CreateSubmissionTx(ctx context.Context, sub *model.Submission, opts SubmissionOptions) (*model.Registration, error)
	GetSubmissionByID(ctx context.Context, id int64) (*model.Submission, error)
	GetSubmission(ctx context.Context, eventID, userID int64) (*model.Submission, error)
	GetSubmissionsByEventID(ctx context.Context, eventID int64) ([]model.Submission, error)
	GetSubmissionsByUserID(ctx context.Context, userID int64) ([]model.Submission, error)
	UpdateSubmissionReview(ctx context.Context, id int64, status, notes string) (*model.Submission, error)
	SetSubmissionAward(ctx context.Context, id int64, award *model.Award) (*model.Submission, error)

	CreateUser(ctx context.Context, u *model.User) (int64, error)
	GetUserByID(ctx context.Context, id int64) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	UpdateUser(ctx context.Context, u *model.User) error

	CreateDocument(ctx context.Context, d *model.Document) (int64, error)
	GetDocument(ctx context.Context, kind string, id int64) (*model.Document, error)
	GetDocuments(ctx context.Context, kind string, publishedOnly bool) ([]model.Document, error)
	UpdateDocument(ctx context.Context, d *model.Document) error
	DeleteDocument(ctx context.Context, kind string, id int64) error

	GetSettings(ctx context.Context) (*model.SiteSettings, error)
	SaveSettings(ctx context.Context, s *model.SiteSettings) error

	CreateContactMessage(ctx context.Context, m *model.ContactMessage) (int64, error)
	GetContactMessages(ctx context.Context) ([]model.ContactMessage, error)
}

type Postgres struct {
	db  *dbpg.DB
	log *zerolog.Logger
}

var _ Repository = (*Postgres)(nil)

func NewRepository(db *dbpg.DB, log *zerolog.Logger) (*Postgres, error) {
	if db == nil {
		return nil, errors.New("db cannot be nil")
	}
	if err := db.Master.Ping(); err != nil {
		return nil, errors.Wrap(err, "failed to ping DB")
	}
	return &Postgres{db: db, log: log}, nil
}

func (r *Postgres) MigrateUp(migrationsDir string) error {
	return r.migrate(migrationsDir, "*.up.sql", false)
}

func (r *Postgres) MigrateDown(migrationsDir string) error {
	return r.migrate(migrationsDir, "*.down.sql", true)
}

func (r *Postgres) migrate(migrationsDir, pattern string, reverse bool) error {
	files, err := filepath.Glob(filepath.Join(migrationsDir, pattern))
	if err != nil {
		return errors.Wrap(err, "failed to read migration files")
	}
	sort.Strings(files)
	if reverse {
		sort.Sort(sort.Reverse(sort.StringSlice(files)))
	}

	for _, file := range files {
		sqlBytes, err := os.ReadFile(file)
		if err != nil {
			return errors.Wrapf(err, "failed to read migration file %s", file)
		}
		if _, err := r.db.ExecContext(context.Background(), string(sqlBytes)); err != nil {
			return errors.Wrapf(err, "failed to apply migration %s", file)
		}
	}

	r.log.Info().Str("dir", migrationsDir).Str("pattern", pattern).Int("files", len(files)).Msg("migrations applied")
	return nil
}
