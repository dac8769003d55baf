package service

import (
	"commsafe/internal/domain"
	"commsafe/internal/taxonomy"
	"context"
	"math"
	"time"

	"github.com/rs/zerolog"
)

// ReputationService turns a subject's vote history into a bounded vibe
// score plus at most one warning. Pure read and compute; nothing is cached.
type ReputationService struct {
	votes  VoteStore
	tax    *taxonomy.Config
	logger zerolog.Logger
}

func NewReputationService(votes VoteStore, tax *taxonomy.Config, logger zerolog.Logger) *ReputationService {
	return &ReputationService{votes: votes, tax: tax, logger: logger}
}

// ComputeReputation aggregates the subject's votes within the rolling
// window ending at now. A vote timestamped exactly at the window edge is
// excluded (strict After).
func (s *ReputationService) ComputeReputation(ctx context.Context, targetID string, now time.Time) (*domain.Reputation, error) {
	votes, err := s.votes.ListByTarget(ctx, targetID)
	if err != nil {
		s.logger.Error().Err(err).Str("target_id", targetID).Msg("failed to list votes for reputation")
		return nil, err
	}

	cutoff := now.Add(-s.tax.Window())

	var (
		sum    int
		count  int
		counts = make(map[string]int)
		seen   = make(map[string]bool)
		tags   []string
	)
	for _, v := range votes {
		if !v.CreatedAt.After(cutoff) {
			continue
		}
		sum += s.tax.Weight(v.Tag)
		count++
		counts[v.Tag]++
		if !seen[v.Tag] {
			seen[v.Tag] = true
			tags = append(tags, v.Tag)
		}
	}

	if count == 0 {
		return &domain.Reputation{Tags: []string{}}, nil
	}

	score := round2(float64(sum) / float64(count))
	warning := s.tax.Warning(counts)

	s.logger.Debug().
		Str("target_id", targetID).
		Float64("score", score).
		Int("vote_count", count).
		Bool("has_warning", warning != "").
		Msg("reputation computed")

	return &domain.Reputation{
		Score:   &score,
		Warning: warning,
		Tags:    tags,
	}, nil
}

// round2 rounds half away from zero to two decimal places, so the same vote
// set always yields the same literal score.
func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
