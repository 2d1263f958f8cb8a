package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"clubhub/internal/dto"
	"clubhub/internal/lifecycle"
	"clubhub/internal/model"
	"clubhub/internal/repo"
	"clubhub/pkg/validator"
)

type SubmissionInput struct {
	Title       string `json:"title" validate:"required,max=255"`
	Description string `json:"description" validate:"max=5000"`
	MainFileURL string `json:"main_file_url" validate:"required,httpurl"`
	// Participant overrides the profile fields copied into the submission.
	Participant model.Participant `json:"participant" validate:"-"`
}

// Submit stores the user's entry for the event. For events that take
// submissions without registration the user is registered in the same write;
// the created registration is returned in that case.
func (s *Service) Submit(ctx context.Context, eventID, userID int64, in SubmissionInput) (*model.Submission, *model.Registration, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.MainFileURL = strings.TrimSpace(in.MainFileURL)
	if err := validator.Validate(ctx, in); err != nil {
		return nil, nil, err
	}

	event, err := s.getEvent(ctx, eventID)
	if err != nil {
		return nil, nil, err
	}
	existing, err := s.repo.GetSubmission(ctx, eventID, userID)
	switch {
	case err == nil:
		return existing, nil, ErrAlreadySubmitted
	case !isNotFound(err):
		return nil, nil, err
	}
	now := s.now()
	if err := lifecycle.CheckSubmission(event, now); err != nil {
		return nil, nil, err
	}

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	participant := in.Participant.Merge(user.Participant())
	if err := validator.Validate(ctx, participant); err != nil {
		return nil, nil, err
	}

	sub := &model.Submission{
		EventID:     eventID,
		UserID:      userID,
		Participant: participant,
		Title:       in.Title,
		Description: in.Description,
		MainFileURL: in.MainFileURL,
		Status:      model.SubmissionSubmitted,
	}
	var opts repo.SubmissionOptions
	if event.SubmissionOnly() {
		opts.AutoRegister = &model.Registration{
			EventID:          eventID,
			UserID:           userID,
			Participant:      participant,
			Status:           s.initialRegistrationStatus(),
			PaymentStatus:    model.PaymentNotRequired,
			AttendanceStatus: model.AttendanceNotMarked,
			AutoCreated:      true,
		}
	} else {
		opts.RequireRegistration = true
	}

	reg, err := s.repo.CreateSubmissionTx(ctx, sub, opts)
	if err != nil {
		switch {
		case errors.Is(err, repo.ErrNotRegistered):
			return nil, nil, lifecycle.RegistrationMissing(event, now)
		case errors.Is(err, repo.ErrDuplicateSubmission):
			existing, gerr := s.repo.GetSubmission(ctx, eventID, userID)
			if gerr != nil {
				return nil, nil, ErrAlreadySubmitted
			}
			return existing, nil, ErrAlreadySubmitted
		}
		s.log.Error().Err(err).Int64("event_id", eventID).Msg("failed to create submission")
		return nil, nil, err
	}

	l := s.log.Info().Int64("submission_id", sub.ID).Int64("event_id", eventID)
	if reg != nil {
		l = l.Int64("registration_id", reg.ID)
	}
	l.Msg("submission created successfully")

	s.notify(submissionNotification(dto.NotifySubmissionCreated, event, sub), 0)
	return sub, reg, nil
}

func (s *Service) GetSubmission(ctx context.Context, id int64) (*model.Submission, error) {
	return s.repo.GetSubmissionByID(ctx, id)
}

func (s *Service) ListSubmissions(ctx context.Context, eventID int64) ([]model.Submission, error) {
	if _, err := s.getEvent(ctx, eventID); err != nil {
		return nil, err
	}
	return s.repo.GetSubmissionsByEventID(ctx, eventID)
}

func (s *Service) MySubmissions(ctx context.Context, userID int64) ([]model.Submission, error) {
	return s.repo.GetSubmissionsByUserID(ctx, userID)
}

// UpdateSubmissionStatus sets any known status. Reviews are not bound to an
// order of states.
func (s *Service) UpdateSubmissionStatus(ctx context.Context, id int64, status, notes string) (*model.Submission, error) {
	if !model.ValidSubmissionStatus(status) {
		return nil, validator.NewValidationError(validator.FieldError{Field: "status", Error: validator.ErrInvalidFormat})
	}
	sub, err := s.repo.UpdateSubmissionReview(ctx, id, status, notes)
	if err != nil {
		return nil, err
	}
	s.log.Info().Int64("submission_id", id).Str("status", status).Msg("submission reviewed")
	s.notifyReviewed(ctx, sub)
	return sub, nil
}

// SetAward attaches award to the submission, or removes it when award is nil.
// The submission status is left alone.
func (s *Service) SetAward(ctx context.Context, id int64, award *model.Award) (*model.Submission, error) {
	if award != nil {
		award.Prize = strings.TrimSpace(award.Prize)
		if err := validator.Validate(ctx, award); err != nil {
			return nil, err
		}
	}
	sub, err := s.repo.SetSubmissionAward(ctx, id, award)
	if err != nil {
		return nil, err
	}
	s.log.Info().Int64("submission_id", id).Bool("awarded", award != nil).Msg("submission award set")
	s.notifyReviewed(ctx, sub)
	return sub, nil
}

func (s *Service) notifyReviewed(ctx context.Context, sub *model.Submission) {
	event, err := s.getEvent(ctx, sub.EventID)
	if err != nil {
		s.log.Warn().Err(err).Int64("submission_id", sub.ID).Msg("event lookup for notification failed")
		return
	}
	n := submissionNotification(dto.NotifySubmissionReviewed, event, sub)
	if sub.Award != nil {
		n.Detail = awardText(sub.Award)
	}
	s.notify(n, 0)
}

func submissionNotification(kind string, event *model.Event, sub *model.Submission) dto.Notification {
	return dto.Notification{
		Kind:         kind,
		EventID:      event.ID,
		EventTitle:   event.Title,
		EventDate:    event.Date,
		SubmissionID: sub.ID,
		Name:         sub.Name,
		Email:        sub.Email,
		Status:       sub.Status,
		Detail:       sub.Title,
	}
}

func awardText(a *model.Award) string {
	text := "Position " + strconv.Itoa(a.Position)
	if a.Prize != "" {
		text += ": " + a.Prize
	}
	return text
}
