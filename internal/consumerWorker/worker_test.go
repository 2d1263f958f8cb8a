package consumerWorker

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clubhub/internal/dto"
	"clubhub/internal/mailer"
	"clubhub/internal/model"
	"clubhub/internal/repo/memrepo"
)

type fakeMailer struct {
	mu   sync.Mutex
	sent []mailer.Message
	err  error
}

func (m *fakeMailer) Send(_ context.Context, msg mailer.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

type chanConsumer struct {
	bodies chan []byte
}

func (c *chanConsumer) Consume(ctx context.Context, handler func(context.Context, []byte) error) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case b := <-c.bodies:
			_ = handler(ctx, b)
		}
	}
}

func newReader(t *testing.T, mail *fakeMailer) (*Reader, *memrepo.Store) {
	t.Helper()
	log := zerolog.Nop()
	store := memrepo.New()
	return NewReader(&chanConsumer{bodies: make(chan []byte)}, store, mail, func() string { return "Club" }, &log), store
}

func seedRegistration(t *testing.T, store *memrepo.Store, status string) (*model.Event, *model.Registration) {
	t.Helper()
	ctx := context.Background()
	deadline := time.Date(2025, 8, 10, 0, 0, 0, 0, time.UTC)
	e := &model.Event{
		Title:                "Hackathon",
		Type:                 model.EventTypeCompetition,
		Status:               model.EventStatusUpcoming,
		Date:                 time.Date(2025, 8, 20, 10, 0, 0, 0, time.UTC),
		RegistrationRequired: true,
		RegistrationDeadline: &deadline,
	}
	_, err := store.CreateEvent(ctx, e)
	require.NoError(t, err)

	reg := &model.Registration{
		EventID:     e.ID,
		UserID:      7,
		Participant: model.Participant{Name: "Ann Lee", Email: "ann@example.com"},
		Status:      status,
	}
	_, err = store.CreateRegistrationTx(ctx, reg)
	require.NoError(t, err)
	return e, reg
}

func body(t *testing.T, n dto.Notification) []byte {
	t.Helper()
	b, err := json.Marshal(n)
	require.NoError(t, err)
	return b
}

func TestHandleSendsComposedMail(t *testing.T) {
	mail := &fakeMailer{}
	r, _ := newReader(t, mail)

	err := r.Handle(context.Background(), body(t, dto.Notification{
		Kind:       dto.NotifySubmissionCreated,
		EventTitle: "Art Contest",
		Email:      "ann@example.com",
		Detail:     "Sunset",
	}))
	require.NoError(t, err)
	require.Len(t, mail.sent, 1)
	assert.Equal(t, "[Club] Submission received: Art Contest", mail.sent[0].Subject)
}

func TestHandleDropsMalformed(t *testing.T) {
	mail := &fakeMailer{}
	r, _ := newReader(t, mail)

	assert.NoError(t, r.Handle(context.Background(), []byte("{not json")))
	assert.Empty(t, mail.sent)
}

func TestHandleReturnsSendError(t *testing.T) {
	mail := &fakeMailer{err: errors.New("smtp down")}
	r, _ := newReader(t, mail)

	err := r.Handle(context.Background(), body(t, dto.Notification{Kind: dto.NotifyRegistrationUpdated, Email: "ann@example.com"}))
	assert.Error(t, err)
}

func TestReminderUsesCurrentEvent(t *testing.T) {
	mail := &fakeMailer{}
	r, store := newReader(t, mail)
	e, reg := seedRegistration(t, store, model.RegistrationConfirmed)

	e.Title = "Hackathon 2025"
	require.NoError(t, store.UpdateEvent(context.Background(), e))

	err := r.Handle(context.Background(), body(t, dto.Notification{
		Kind:           dto.NotifyEventReminder,
		EventID:        e.ID,
		EventTitle:     "Hackathon",
		RegistrationID: reg.ID,
		Email:          "old@example.com",
	}))
	require.NoError(t, err)
	require.Len(t, mail.sent, 1)
	assert.Equal(t, "ann@example.com", mail.sent[0].To)
	assert.Equal(t, "[Club] Reminder: Hackathon 2025", mail.sent[0].Subject)
}

func TestReminderSkipped(t *testing.T) {
	t.Run("cancelled registration", func(t *testing.T) {
		mail := &fakeMailer{}
		r, store := newReader(t, mail)
		_, reg := seedRegistration(t, store, model.RegistrationCancelled)

		err := r.Handle(context.Background(), body(t, dto.Notification{Kind: dto.NotifyEventReminder, RegistrationID: reg.ID}))
		require.NoError(t, err)
		assert.Empty(t, mail.sent)
	})

	t.Run("cancelled event", func(t *testing.T) {
		mail := &fakeMailer{}
		r, store := newReader(t, mail)
		e, reg := seedRegistration(t, store, model.RegistrationPending)
		e.Status = model.EventStatusCancelled
		require.NoError(t, store.UpdateEvent(context.Background(), e))

		err := r.Handle(context.Background(), body(t, dto.Notification{Kind: dto.NotifyEventReminder, RegistrationID: reg.ID}))
		require.NoError(t, err)
		assert.Empty(t, mail.sent)
	})

	t.Run("unknown registration", func(t *testing.T) {
		mail := &fakeMailer{}
		r, _ := newReader(t, mail)

		err := r.Handle(context.Background(), body(t, dto.Notification{Kind: dto.NotifyEventReminder, RegistrationID: 99}))
		require.NoError(t, err)
		assert.Empty(t, mail.sent)
	})
}

func TestStartStop(t *testing.T) {
	mail := &fakeMailer{}
	r, _ := newReader(t, mail)
	consumer := r.rmq.(*chanConsumer)

	r.Start(context.Background())
	consumer.bodies <- body(t, dto.Notification{Kind: dto.NotifyRegistrationUpdated, Email: "ann@example.com", Status: "confirmed"})
	r.Stop()

	mail.mu.Lock()
	defer mail.mu.Unlock()
	require.Len(t, mail.sent, 1)
	assert.Equal(t, "[Club] Registration confirmed: ", mail.sent[0].Subject)
}
