package service

import (
	"context"
	"encoding/json"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"clubhub/internal/auth"
	"clubhub/internal/dto"
	"clubhub/internal/model"
	"clubhub/internal/repo"
)

// Publisher puts a message on the notification queue, optionally delayed.
type Publisher interface {
	Publish(message []byte, delaySeconds int) error
}

type Options struct {
	// AutoConfirm creates registrations as confirmed instead of pending.
	AutoConfirm bool
	// AllowSubmissionOnly keeps events that take submissions without
	// registration as they are instead of turning registration on.
	AllowSubmissionOnly bool
	// AdminEmails get the admin role when they sign up.
	AdminEmails []string
	// Location is the time zone deadlines are read in.
	Location *time.Location
	// ReminderLead is how long before an event registered users get a
	// reminder. Zero turns reminders off.
	ReminderLead time.Duration
	// NotifyEmail receives contact form messages when the site settings
	// have no contact address.
	NotifyEmail string
	// DefaultSettings seeds the site settings on first start.
	DefaultSettings model.SiteSettings
}

type Service struct {
	repo   repo.Repository
	log    *zerolog.Logger
	pub    Publisher
	tokens *auth.Issuer
	opts   Options
	now    func() time.Time

	settingsMu sync.RWMutex
	settings   model.SiteSettings
}

// NewService wires the service. pub may be nil, in which case notifications
// are dropped.
func NewService(r repo.Repository, logger *zerolog.Logger, pub Publisher, tokens *auth.Issuer, opts Options) *Service {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.DefaultSettings.SiteName == "" {
		opts.DefaultSettings = model.DefaultSettings()
	}
	s := &Service{
		repo:     r,
		log:      logger,
		pub:      pub,
		tokens:   tokens,
		opts:     opts,
		settings: opts.DefaultSettings,
	}
	s.now = func() time.Time { return time.Now().In(s.opts.Location) }
	return s
}

// Now is the service clock in the configured time zone.
func (s *Service) Now() time.Time {
	return s.now()
}

func (s *Service) isAdminEmail(email string) bool {
	for _, e := range s.opts.AdminEmails {
		if strings.EqualFold(strings.TrimSpace(e), email) {
			return true
		}
	}
	return false
}

func (s *Service) initialRegistrationStatus() string {
	if s.opts.AutoConfirm {
		return model.RegistrationConfirmed
	}
	return model.RegistrationPending
}

// maxDelay is the longest x-delay the delayed-message exchange accepts.
const maxDelay = time.Duration(math.MaxInt32) * time.Millisecond

// notify publishes n after delay. Failures are logged and never returned:
// the write that caused the notification has already been committed.
func (s *Service) notify(n dto.Notification, delay time.Duration) {
	if s.pub == nil {
		s.log.Debug().Str("kind", n.Kind).Msg("no publisher configured, notification dropped")
		return
	}
	if delay > maxDelay {
		s.log.Debug().Str("kind", n.Kind).Dur("delay", delay).Msg("notification delay too long, skipped")
		return
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = s.now()
	}
	payload, err := json.Marshal(n)
	if err != nil {
		s.log.Error().Err(err).Str("kind", n.Kind).Msg("failed to marshal notification")
		return
	}
	if err := s.pub.Publish(payload, int(delay/time.Second)); err != nil {
		s.log.Error().Err(err).Str("kind", n.Kind).Msg("failed to publish notification")
	}
}

func (s *Service) getEvent(ctx context.Context, id int64) (*model.Event, error) {
	e, err := s.repo.GetEventByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return e, nil
}
