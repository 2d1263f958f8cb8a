package consumerWorker

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"clubhub/internal/dto"
	"clubhub/internal/mailer"
	"clubhub/internal/model"
	"clubhub/internal/repo"
)

type Consumer interface {
	Consume(ctx context.Context, handler func(context.Context, []byte) error) error
}

// Reader turns queued notifications into e-mail.
type Reader struct {
	rmq      Consumer
	repo     repo.Repository
	mail     mailer.Mailer
	siteName func() string
	log      *zerolog.Logger
	done     chan struct{}
	cancel   context.CancelFunc
}

func NewReader(rmq Consumer, repo repo.Repository, mail mailer.Mailer, siteName func() string, log *zerolog.Logger) *Reader {
	return &Reader{
		rmq:      rmq,
		repo:     repo,
		mail:     mail,
		siteName: siteName,
		log:      log,
		done:     make(chan struct{}),
	}
}

func (r *Reader) Start(ctx context.Context) {
	cctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	r.log.Info().Msg("notification reader started")
	go func() {
		defer close(r.done)
		if err := r.rmq.Consume(cctx, r.Handle); err != nil {
			r.log.Error().Err(err).Msg("notification reader stopped")
			return
		}
		r.log.Info().Msg("notification reader stopped by context")
	}()
}

func (r *Reader) Stop() {
	if r.cancel != nil {
		r.cancel()
		<-r.done
	}
}

// Handle processes one queued notification. Malformed messages are dropped;
// a failed send is returned so the message is retried.
func (r *Reader) Handle(ctx context.Context, body []byte) error {
	var n dto.Notification
	if err := json.Unmarshal(body, &n); err != nil {
		r.log.Error().Err(err).Str("body", string(body)).Msg("failed to unmarshal notification")
		return nil
	}
	r.log.Debug().Str("kind", n.Kind).Int64("event_id", n.EventID).Msg("notification received")

	if n.Kind == dto.NotifyEventReminder {
		send, err := r.refreshReminder(ctx, &n)
		if err != nil {
			return err
		}
		if !send {
			return nil
		}
	}

	siteName := ""
	if r.siteName != nil {
		siteName = r.siteName()
	}
	msg, ok := mailer.Compose(siteName, n)
	if !ok {
		r.log.Debug().Str("kind", n.Kind).Msg("notification has no mail, skipping")
		return nil
	}
	if err := r.mail.Send(ctx, msg); err != nil {
		return errors.Wrapf(err, "send %s", n.Kind)
	}
	return nil
}

// refreshReminder reloads the registration and event a delayed reminder was
// queued for. It reports false when the reminder no longer applies.
func (r *Reader) refreshReminder(ctx context.Context, n *dto.Notification) (bool, error) {
	reg, err := r.repo.GetRegistrationByID(ctx, n.RegistrationID)
	if err != nil {
		if errors.Is(err, repo.ErrRegistrationNotFound) {
			r.log.Info().Int64("registration_id", n.RegistrationID).Msg("registration gone, reminder skipped")
			return false, nil
		}
		return false, err
	}
	if !reg.Active() {
		r.log.Info().Int64("registration_id", reg.ID).Msg("registration cancelled, reminder skipped")
		return false, nil
	}

	event, err := r.repo.GetEventByID(ctx, reg.EventID)
	if err != nil {
		if errors.Is(err, repo.ErrEventNotFound) {
			return false, nil
		}
		return false, err
	}
	if event.Status == model.EventStatusCancelled || event.Status == model.EventStatusCompleted {
		r.log.Info().Int64("event_id", event.ID).Str("status", event.Status).Msg("event closed, reminder skipped")
		return false, nil
	}

	n.EventTitle = event.Title
	n.EventDate = event.Date
	n.Name = reg.Name
	n.Email = reg.Email
	return true, nil
}
