package service

import (
	"commsafe/internal/constants"
	"commsafe/internal/domain"
	"context"
	"errors"
	"regexp"

	"github.com/rs/zerolog"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type UserService struct {
	users  UserStore
	logger zerolog.Logger
}

func NewUserService(users UserStore, logger zerolog.Logger) *UserService {
	return &UserService{users: users, logger: logger}
}

func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	return s.users.Get(ctx, id)
}

func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	return s.users.List(ctx)
}

type CreateUserInput struct {
	SteamID  string
	Username string
	Email    string
}

func (s *UserService) Create(ctx context.Context, in CreateUserInput) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	if in.SteamID == "" {
		return nil, domain.Validationf("steam_id is required")
	}
	if len(in.SteamID) > constants.MaxIdentifierLength {
		return nil, domain.Validationf("steam_id must be %d characters or less", constants.MaxIdentifierLength)
	}
	if len(in.Username) > constants.MaxIdentifierLength {
		return nil, domain.Validationf("username must be %d characters or less", constants.MaxIdentifierLength)
	}
	if in.Email != "" && !emailPattern.MatchString(in.Email) {
		return nil, domain.Validationf("invalid email format")
	}

	user := &domain.User{
		SteamID:  in.SteamID,
		Username: in.Username,
		Email:    in.Email,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// EnsureFaceitUser returns the user for a Faceit identity, creating one on
// first reference. Faceit is a second identity namespace; such users start
// without a Steam ID.
func (s *UserService) EnsureFaceitUser(ctx context.Context, faceitID, nickname string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	if faceitID == "" {
		return nil, domain.Validationf("faceit_id is required")
	}
	if len(faceitID) > constants.MaxIdentifierLength {
		return nil, domain.Validationf("faceit_id must be %d characters or less", constants.MaxIdentifierLength)
	}
	if len(nickname) > constants.MaxIdentifierLength {
		return nil, domain.Validationf("nickname must be %d characters or less", constants.MaxIdentifierLength)
	}

	existing, err := s.users.GetByFaceitID(ctx, faceitID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	username := nickname
	if username == "" {
		username = faceitID
	}
	user := &domain.User{
		FaceitID: faceitID,
		Username: username,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info().Str("faceit_id", faceitID).Str("user_id", user.ID).Msg("faceit user created")
	return user, nil
}
