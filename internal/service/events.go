package service

import (
	"context"
	"strings"

	"clubhub/internal/auth"
	"clubhub/internal/lifecycle"
	"clubhub/internal/model"
	"clubhub/pkg/validator"
)

func (s *Service) CreateEvent(ctx context.Context, e *model.Event) (*model.Event, error) {
	if err := s.prepareEvent(ctx, e); err != nil {
		return nil, err
	}
	id, err := s.repo.CreateEvent(ctx, e)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to create event in DB")
		return nil, err
	}
	e.ID = id
	s.log.Info().Int64("event_id", id).Msg("event created successfully")
	return s.getEvent(ctx, id)
}

func (s *Service) UpdateEvent(ctx context.Context, id int64, patch model.EventPatch) (*model.Event, error) {
	e, err := s.getEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	patch.Apply(e)
	if err := s.prepareEvent(ctx, e); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateEvent(ctx, e); err != nil {
		s.log.Error().Err(err).Int64("event_id", id).Msg("failed to update event")
		return nil, err
	}
	s.log.Info().Int64("event_id", id).Msg("event updated")
	return s.getEvent(ctx, id)
}

func (s *Service) DeleteEvent(ctx context.Context, id int64) error {
	if err := s.repo.DeleteEvent(ctx, id); err != nil {
		return err
	}
	s.log.Info().Int64("event_id", id).Msg("event deleted")
	return nil
}

func (s *Service) GetEvent(ctx context.Context, id int64) (*model.Event, error) {
	return s.getEvent(ctx, id)
}

func (s *Service) ListEvents(ctx context.Context, f model.EventFilter) ([]model.Event, error) {
	return s.repo.GetAllEvents(ctx, f)
}

// EventAction loads the event and decides what the caller may do with it.
// who is nil for anonymous callers.
func (s *Service) EventAction(ctx context.Context, id int64, who *auth.Identity) (*model.Event, lifecycle.Decision, error) {
	e, err := s.getEvent(ctx, id)
	if err != nil {
		return nil, lifecycle.Decision{}, err
	}
	viewer, err := s.viewer(ctx, e.ID, who)
	if err != nil {
		return nil, lifecycle.Decision{}, err
	}
	return e, lifecycle.Resolve(e, viewer, s.now()), nil
}

func (s *Service) viewer(ctx context.Context, eventID int64, who *auth.Identity) (lifecycle.Viewer, error) {
	if who == nil {
		return lifecycle.Viewer{}, nil
	}
	v := lifecycle.Viewer{Authenticated: true}

	reg, err := s.repo.GetRegistration(ctx, eventID, who.UserID)
	switch {
	case err == nil:
		v.Registered = reg.Active()
	case !isNotFound(err):
		return v, err
	}

	_, err = s.repo.GetSubmission(ctx, eventID, who.UserID)
	switch {
	case err == nil:
		v.Submitted = true
	case !isNotFound(err):
		return v, err
	}
	return v, nil
}

// prepareEvent normalizes e and checks the rules that span several fields.
func (s *Service) prepareEvent(ctx context.Context, e *model.Event) error {
	e.Title = strings.TrimSpace(e.Title)
	if !s.opts.AllowSubmissionOnly && e.Normalize() {
		s.log.Debug().Int64("event_id", e.ID).Msg("submission event switched to require registration")
	}

	var fields []validator.FieldError
	if e.Title == "" {
		fields = append(fields, validator.FieldError{Field: "title", Error: validator.ErrFieldRequired})
	}
	if !model.ValidEventType(e.Type) {
		fields = append(fields, validator.FieldError{Field: "type", Error: validator.ErrInvalidFormat})
	}
	if !model.ValidEventStatus(e.Status) {
		fields = append(fields, validator.FieldError{Field: "status", Error: validator.ErrInvalidFormat})
	}
	if e.Date.IsZero() {
		fields = append(fields, validator.FieldError{Field: "date", Error: validator.ErrFieldRequired})
	}
	if e.EndDate != nil && e.EndDate.Before(e.Date) {
		fields = append(fields, validator.FieldError{Field: "end_date", Error: "End date is before the start date"})
	}
	if e.RegistrationRequired && (e.RegistrationDeadline == nil || e.RegistrationDeadline.IsZero()) {
		fields = append(fields, validator.FieldError{Field: "registration_deadline", Error: validator.ErrFieldRequired})
	}
	if e.MaxParticipants < 0 {
		fields = append(fields, validator.FieldError{Field: "max_participants", Error: validator.ErrFieldBelowMinVal})
	}
	if len(fields) > 0 {
		return validator.NewValidationError(fields...)
	}
	return nil
}
