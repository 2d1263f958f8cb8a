package service

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"clubhub/internal/dto"
	"clubhub/internal/lifecycle"
	"clubhub/internal/model"
	"clubhub/internal/repo"
	"clubhub/pkg/validator"
)

// Register signs userID up for the event. On a duplicate it returns the
// existing registration together with ErrAlreadyRegistered.
func (s *Service) Register(ctx context.Context, eventID, userID int64, in model.Participant) (*model.Registration, error) {
	return s.register(ctx, eventID, userID, in, false)
}

// RegisterOnBehalf is the admin variant of Register. It skips the status and
// deadline checks.
func (s *Service) RegisterOnBehalf(ctx context.Context, eventID, userID int64, in model.Participant) (*model.Registration, error) {
	return s.register(ctx, eventID, userID, in, true)
}

func (s *Service) register(ctx context.Context, eventID, userID int64, in model.Participant, override bool) (*model.Registration, error) {
	event, err := s.getEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !override {
		if err := lifecycle.CheckRegistration(event, s.now()); err != nil {
			return nil, err
		}
	}

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	participant := in.Merge(user.Participant())
	if err := validator.Validate(ctx, participant); err != nil {
		return nil, err
	}

	reg := &model.Registration{
		EventID:          eventID,
		UserID:           userID,
		Participant:      participant,
		Status:           s.initialRegistrationStatus(),
		PaymentStatus:    model.PaymentNotRequired,
		AttendanceStatus: model.AttendanceNotMarked,
	}
	id, err := s.repo.CreateRegistrationTx(ctx, reg)
	if err != nil {
		if errors.Is(err, repo.ErrDuplicateRegistration) {
			existing, gerr := s.repo.GetRegistration(ctx, eventID, userID)
			if gerr != nil {
				return nil, ErrAlreadyRegistered
			}
			return existing, ErrAlreadyRegistered
		}
		s.log.Error().Err(err).Int64("event_id", eventID).Msg("failed to create registration")
		return nil, err
	}
	reg.ID = id
	s.log.Info().Int64("registration_id", id).Int64("event_id", eventID).Msg("registration created successfully")

	s.notify(registrationNotification(dto.NotifyRegistrationCreated, event, reg), 0)
	s.scheduleReminder(event, reg)
	return reg, nil
}

// UpdateRegistration applies an admin change. Moving a registration to or
// from cancelled moves the event's registration count with it.
func (s *Service) UpdateRegistration(ctx context.Context, id int64, patch model.RegistrationPatch) (*model.Registration, error) {
	if err := checkRegistrationPatch(patch); err != nil {
		return nil, err
	}
	reg, err := s.repo.UpdateRegistrationTx(ctx, id, patch)
	if err != nil {
		if !isNotFound(err) {
			s.log.Error().Err(err).Int64("registration_id", id).Msg("failed to update registration")
		}
		return nil, err
	}
	s.log.Info().Int64("registration_id", id).Str("status", reg.Status).Msg("registration updated")

	if event, err := s.getEvent(ctx, reg.EventID); err == nil {
		s.notify(registrationNotification(dto.NotifyRegistrationUpdated, event, reg), 0)
	}
	return reg, nil
}

func (s *Service) ListRegistrations(ctx context.Context, eventID int64) ([]model.Registration, error) {
	if _, err := s.getEvent(ctx, eventID); err != nil {
		return nil, err
	}
	return s.repo.GetRegistrationsByEventID(ctx, eventID)
}

func (s *Service) MyRegistrations(ctx context.Context, userID int64) ([]model.Registration, error) {
	return s.repo.GetRegistrationsByUserID(ctx, userID)
}

// scheduleReminder queues a reminder ReminderLead before the event starts.
func (s *Service) scheduleReminder(event *model.Event, reg *model.Registration) {
	if s.opts.ReminderLead <= 0 {
		return
	}
	delay := event.Date.Add(-s.opts.ReminderLead).Sub(s.now())
	if delay <= 0 {
		return
	}
	n := registrationNotification(dto.NotifyEventReminder, event, reg)
	s.notify(n, delay.Truncate(time.Second))
}

func registrationNotification(kind string, event *model.Event, reg *model.Registration) dto.Notification {
	return dto.Notification{
		Kind:           kind,
		EventID:        event.ID,
		EventTitle:     event.Title,
		EventDate:      event.Date,
		RegistrationID: reg.ID,
		Name:           reg.Name,
		Email:          reg.Email,
		Status:         reg.Status,
	}
}

func checkRegistrationPatch(p model.RegistrationPatch) error {
	var fields []validator.FieldError
	if p.Status != nil && !model.ValidRegistrationStatus(*p.Status) {
		fields = append(fields, validator.FieldError{Field: "status", Error: validator.ErrInvalidFormat})
	}
	if p.PaymentStatus != nil && !model.ValidPaymentStatus(*p.PaymentStatus) {
		fields = append(fields, validator.FieldError{Field: "payment_status", Error: validator.ErrInvalidFormat})
	}
	if p.AttendanceStatus != nil && !model.ValidAttendanceStatus(*p.AttendanceStatus) {
		fields = append(fields, validator.FieldError{Field: "attendance_status", Error: validator.ErrInvalidFormat})
	}
	if len(fields) > 0 {
		return validator.NewValidationError(fields...)
	}
	return nil
}
