package service

import (
	"commsafe/internal/constants"
	"commsafe/internal/domain"
	"commsafe/internal/taxonomy"
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

type VoteService struct {
	votes    VoteStore
	tax      *taxonomy.Config
	notifier Notifier
	logger   zerolog.Logger
}

func NewVoteService(votes VoteStore, tax *taxonomy.Config, notifier Notifier, logger zerolog.Logger) *VoteService {
	return &VoteService{votes: votes, tax: tax, notifier: notifier, logger: logger}
}

type SubmitVoteInput struct {
	ReporterID string
	TargetID   string
	MatchID    string
	Tag        string
	Comment    string
}

// Submit validates and persists one vote, then hands the notification off to
// a background dispatch that never blocks or fails the submission.
func (s *VoteService) Submit(ctx context.Context, in SubmitVoteInput) (*domain.Vote, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	if in.ReporterID == "" || in.TargetID == "" || in.Tag == "" {
		return nil, domain.Validationf("reporter_id, target_id, and tag are required")
	}
	if in.ReporterID == in.TargetID {
		return nil, domain.Validationf("reporter and target must be different players")
	}
	if !s.tax.Valid(in.Tag) {
		return nil, domain.Validationf("invalid tag, must be one of: %s", strings.Join(s.tax.Tags(), ", "))
	}
	if len(in.Comment) > constants.MaxCommentLength {
		return nil, domain.Validationf("comment must be %d characters or less", constants.MaxCommentLength)
	}

	// Absent match context normalizes to the empty string, so at most one
	// context-free vote can ever exist per reporter/target pair.
	matchID := in.MatchID

	exists, err := s.votes.Exists(ctx, in.ReporterID, in.TargetID, matchID)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to check for existing vote")
		return nil, err
	}
	if exists {
		return nil, domain.ErrDuplicate
	}

	vote := &domain.Vote{
		ReporterID: in.ReporterID,
		TargetID:   in.TargetID,
		MatchID:    matchID,
		Tag:        in.Tag,
		Comment:    in.Comment,
		CreatedAt:  time.Now(),
	}
	if err := s.votes.Insert(ctx, vote); err != nil {
		if !errors.Is(err, domain.ErrDuplicate) {
			s.logger.Error().Err(err).Msg("failed to insert vote")
		}
		return nil, err
	}

	s.logger.Info().
		Str("vote_id", vote.ID).
		Str("reporter_id", vote.ReporterID).
		Str("target_id", vote.TargetID).
		Str("tag", vote.Tag).
		Msg("vote recorded")

	s.dispatchNotification(vote)

	return vote, nil
}

// dispatchNotification runs the notifier off the request path with its own
// deadline. Failures are logged, never surfaced to the submitter.
func (s *VoteService) dispatchNotification(vote *domain.Vote) {
	g := new(errgroup.Group)
	g.Go(func() error {
		nctx, cancel := context.WithTimeout(context.Background(), constants.NotifyTimeout)
		defer cancel()
		return s.notifier.NotifyVote(nctx, vote.TargetID, vote.Tag, vote.MatchID)
	})

	go func() {
		if err := g.Wait(); err != nil {
			s.logger.Error().Err(err).Str("vote_id", vote.ID).Msg("notification dispatch failed")
		}
	}()
}

func (s *VoteService) ListByTarget(ctx context.Context, targetID string) ([]domain.Vote, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	return s.votes.ListByTarget(ctx, targetID)
}

func (s *VoteService) ListByReporter(ctx context.Context, reporterID string) ([]domain.Vote, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	return s.votes.ListByReporter(ctx, reporterID)
}

// ListRecent returns the newest votes for moderation review.
func (s *VoteService) ListRecent(ctx context.Context, limit int) ([]domain.Vote, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	if limit <= 0 {
		limit = constants.DefaultRecentVotesLimit
	}
	return s.votes.ListRecent(ctx, limit)
}

// Delete removes a vote, an administrative moderation action.
func (s *VoteService) Delete(ctx context.Context, voteID string) error {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	if voteID == "" {
		return domain.Validationf("vote id is required")
	}
	return s.votes.DeleteByID(ctx, voteID)
}
