package service

import (
	"commsafe/internal/constants"
	"commsafe/internal/domain"
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
)

// LookupService resolves any Steam player by ID or vanity name and attaches
// their reputation when they are known locally. An unknown Steam profile is
// a not-found; a known profile with no local history is a normal empty
// result.
type LookupService struct {
	steam      SteamAPI
	users      UserStore
	reputation *ReputationService
	logger     zerolog.Logger
}

func NewLookupService(steam SteamAPI, users UserStore, reputation *ReputationService, logger zerolog.Logger) *LookupService {
	return &LookupService{steam: steam, users: users, reputation: reputation, logger: logger}
}

type LookupResult struct {
	SteamID    string
	Username   string
	Avatar     string
	ProfileURL string
	VibeScore  *float64
	Warning    string
	Tags       []string
	HasRatings bool
}

func (s *LookupService) Lookup(ctx context.Context, steamIDOrVanity string) (*LookupResult, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	if steamIDOrVanity == "" {
		return nil, domain.Validationf("steam id or vanity name is required")
	}

	steamID := steamIDOrVanity
	if !isNumeric(steamIDOrVanity) {
		apiCtx, apiCancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
		defer apiCancel()

		resolved, err := s.steam.ResolveVanityURL(apiCtx, steamIDOrVanity)
		if err != nil {
			s.logger.Debug().Err(err).Str("vanity", steamIDOrVanity).Msg("vanity resolution failed")
			return nil, err
		}
		steamID = resolved
	}

	apiCtx, apiCancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
	defer apiCancel()

	summary, err := s.steam.GetPlayerSummary(apiCtx, steamID)
	if err != nil {
		return nil, err
	}

	result := &LookupResult{
		SteamID:    steamID,
		Username:   summary.PersonaName,
		Avatar:     summary.AvatarFull,
		ProfileURL: summary.ProfileURL,
		Tags:       []string{},
	}

	user, err := s.users.GetBySteamID(ctx, steamID)
	if errors.Is(err, domain.ErrNotFound) {
		return result, nil
	}
	if err != nil {
		return nil, err
	}

	result.HasRatings = true
	rep, err := s.reputation.ComputeReputation(ctx, user.ID, time.Now())
	if err != nil {
		return nil, err
	}
	result.VibeScore = rep.Score
	result.Warning = rep.Warning
	result.Tags = rep.Tags

	s.logger.Info().Str("steam_id", steamID).Bool("has_ratings", result.HasRatings).Msg("lookup completed")
	return result, nil
}

func isNumeric(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}
