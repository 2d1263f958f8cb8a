package service

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"

	"clubhub/internal/auth"
	"clubhub/internal/model"
	"clubhub/internal/repo"
	"clubhub/pkg/validator"
)

type SignUpInput struct {
	Name     string `json:"name" validate:"required,min=2,max=255"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	model.Profile
}

func (s *Service) SignUp(ctx context.Context, in SignUpInput) (*model.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := validator.Validate(ctx, in); err != nil {
		return nil, err
	}
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	u := &model.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Role:         model.RoleMember,
		Profile:      in.Profile,
	}
	if s.isAdminEmail(u.Email) {
		u.Role = model.RoleAdmin
	}
	id, err := s.repo.CreateUser(ctx, u)
	if err != nil {
		return nil, err
	}
	u.ID = id
	s.log.Info().Int64("user_id", id).Str("role", u.Role).Msg("user signed up")
	return u, nil
}

// Login checks the credentials and issues a bearer token.
func (s *Service) Login(ctx context.Context, email, password string) (string, time.Time, *model.User, error) {
	u, err := s.repo.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			return "", time.Time{}, nil, auth.ErrInvalidCredentials
		}
		return "", time.Time{}, nil, err
	}
	if err := auth.CheckPassword(u.PasswordHash, password); err != nil {
		s.log.Debug().Int64("user_id", u.ID).Msg("wrong password")
		return "", time.Time{}, nil, err
	}
	token, exp, err := s.tokens.Issue(u)
	if err != nil {
		return "", time.Time{}, nil, err
	}
	return token, exp, u, nil
}

// Authenticate turns a bearer token into the caller's identity. The role is
// read from the store so a demoted admin loses access before the token
// expires.
func (s *Service) Authenticate(ctx context.Context, token string) (auth.Identity, error) {
	id, err := s.tokens.Parse(token)
	if err != nil {
		return auth.Identity{}, err
	}
	u, err := s.repo.GetUserByID(ctx, id.UserID)
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			return auth.Identity{}, auth.ErrInvalidToken
		}
		return auth.Identity{}, err
	}
	return auth.Identity{UserID: u.ID, Role: u.Role}, nil
}

func (s *Service) Me(ctx context.Context, userID int64) (*model.User, error) {
	return s.repo.GetUserByID(ctx, userID)
}

func (s *Service) UpdateProfile(ctx context.Context, userID int64, patch model.ProfilePatch) (*model.User, error) {
	u, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	patch.Apply(u)
	u.Name = strings.TrimSpace(u.Name)
	if len(u.Name) < 2 {
		return nil, validator.NewValidationError(validator.FieldError{Field: "name", Error: validator.ErrFieldBelowMinLen})
	}
	if err := s.repo.UpdateUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}
