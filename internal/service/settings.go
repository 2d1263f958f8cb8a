package service

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"clubhub/internal/dto"
	"clubhub/internal/model"
	"clubhub/internal/repo"
	"clubhub/pkg/validator"
)

// LoadSettings reads the site settings into the service, seeding the store
// with the defaults on first start. It is called once at startup.
func (s *Service) LoadSettings(ctx context.Context) error {
	stored, err := s.repo.GetSettings(ctx)
	switch {
	case err == nil:
	case errors.Is(err, repo.ErrSettingsNotFound):
		def := s.opts.DefaultSettings
		if err := s.repo.SaveSettings(ctx, &def); err != nil {
			return errors.Wrap(err, "failed to seed site settings")
		}
		stored = &def
		s.log.Info().Msg("site settings seeded with defaults")
	default:
		return errors.Wrap(err, "failed to load site settings")
	}

	s.settingsMu.Lock()
	s.settings = *stored
	s.settingsMu.Unlock()
	return nil
}

func (s *Service) Settings() model.SiteSettings {
	s.settingsMu.RLock()
	defer s.settingsMu.RUnlock()
	return s.settings
}

func (s *Service) UpdateSettings(ctx context.Context, patch model.SettingsPatch) (model.SiteSettings, error) {
	s.settingsMu.Lock()
	defer s.settingsMu.Unlock()

	next := s.settings
	patch.Apply(&next)
	next.SiteName = strings.TrimSpace(next.SiteName)
	if err := validator.Validate(ctx, next); err != nil {
		return s.settings, err
	}
	if err := s.repo.SaveSettings(ctx, &next); err != nil {
		s.log.Error().Err(err).Msg("failed to save site settings")
		return s.settings, err
	}
	s.settings = next
	s.log.Info().Msg("site settings updated")
	return next, nil
}

func (s *Service) SubmitContact(ctx context.Context, msg *model.ContactMessage) (*model.ContactMessage, error) {
	msg.Name = strings.TrimSpace(msg.Name)
	msg.Email = strings.TrimSpace(msg.Email)
	id, err := s.repo.CreateContactMessage(ctx, msg)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to store contact message")
		return nil, err
	}
	msg.ID = id
	s.log.Info().Int64("contact_id", id).Msg("contact message received")

	to := s.Settings().ContactEmail
	if to == "" {
		to = s.opts.NotifyEmail
	}
	if to != "" {
		s.notify(dto.Notification{
			Kind:    dto.NotifyContactReceived,
			Name:    msg.Name,
			Email:   to,
			ReplyTo: msg.Email,
			Detail:  contactDetail(msg),
		}, 0)
	}
	return msg, nil
}

func (s *Service) ListContacts(ctx context.Context) ([]model.ContactMessage, error) {
	return s.repo.GetContactMessages(ctx)
}

func contactDetail(msg *model.ContactMessage) string {
	if msg.Subject == "" {
		return msg.Message
	}
	return msg.Subject + "\n\n" + msg.Message
}
