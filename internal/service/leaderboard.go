package service

import (
	"commsafe/internal/constants"
	"commsafe/internal/domain"
	"commsafe/internal/taxonomy"
	"context"
	"errors"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// LeaderboardService computes population-wide rankings over the same
// rolling window the aggregator uses. Each ranking is one bulk vote read
// followed by in-memory grouping.
type LeaderboardService struct {
	votes      VoteStore
	users      UserStore
	reputation *ReputationService
	tax        *taxonomy.Config
	logger     zerolog.Logger
}

func NewLeaderboardService(votes VoteStore, users UserStore, reputation *ReputationService, tax *taxonomy.Config, logger zerolog.Logger) *LeaderboardService {
	return &LeaderboardService{votes: votes, users: users, reputation: reputation, tax: tax, logger: logger}
}

type TopPlayerEntry struct {
	Rank       int
	SteamID    string
	Username   string
	VibeScore  float64
	TotalVotes int
}

type TopVoterEntry struct {
	Rank       int
	SteamID    string
	Username   string
	VotesGiven int
}

type FlaggedUser struct {
	UserID       string
	SteamID      string
	Username     string
	ToxicCount   int
	CheaterCount int
	AFKCount     int
	TotalVotes   int
}

type TagCount struct {
	Tag   string
	Count int
}

type PlatformStats struct {
	TotalUsers      int
	TotalVotes      int
	VotesLast30Days int
	TopTags         []TagCount
}

type AdminStats struct {
	TotalUsers   int
	TotalVotes   int
	VotesLast24h int
}

type GoodTeammate struct {
	UserID             string
	SteamID            string
	Username           string
	PositiveTags       []string
	TotalPositiveVotes int
	LastPlayed         time.Time
	CurrentVibeScore   *float64
}

// TopPlayers ranks targets by mean tag weight, using the same weight table
// as the aggregator. Players with fewer than the minimum vote count are
// excluded. Ties break by vote count descending, then user key ascending.
func (s *LeaderboardService) TopPlayers(ctx context.Context, limit int, now time.Time) ([]TopPlayerEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	if limit <= 0 {
		limit = constants.DefaultLeaderboardLimit
	}

	votes, err := s.votes.ListSince(ctx, now.Add(-s.tax.Window()))
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list votes for top players")
		return nil, err
	}

	type playerAgg struct {
		userID string
		sum    int
		count  int
	}
	byTarget := make(map[string]*playerAgg)
	for _, v := range votes {
		agg, ok := byTarget[v.TargetID]
		if !ok {
			agg = &playerAgg{userID: v.TargetID}
			byTarget[v.TargetID] = agg
		}
		agg.sum += s.tax.Weight(v.Tag)
		agg.count++
	}

	type scored struct {
		userID string
		score  float64
		count  int
	}
	var qualified []scored
	for _, agg := range byTarget {
		if agg.count < s.tax.MinLeaderboardVotes() {
			continue
		}
		qualified = append(qualified, scored{
			userID: agg.userID,
			score:  float64(agg.sum) / float64(agg.count),
			count:  agg.count,
		})
	}

	sort.Slice(qualified, func(i, j int) bool {
		if qualified[i].score != qualified[j].score {
			return qualified[i].score > qualified[j].score
		}
		if qualified[i].count != qualified[j].count {
			return qualified[i].count > qualified[j].count
		}
		return qualified[i].userID < qualified[j].userID
	})
	if len(qualified) > limit {
		qualified = qualified[:limit]
	}

	entries := make([]TopPlayerEntry, len(qualified))
	g, gCtx := errgroup.WithContext(ctx)
	for i, p := range qualified {
		g.Go(func() error {
			steamID, username := s.resolveIdentity(gCtx, p.userID, "Unknown Player")
			entries[i] = TopPlayerEntry{
				Rank:       i + 1,
				SteamID:    steamID,
				Username:   username,
				VibeScore:  round2(p.score),
				TotalVotes: p.count,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.logger.Info().Int("count", len(entries)).Msg("top players computed")
	return entries, nil
}

// TopVoters ranks reporters by votes given within the window. No minimum
// floor applies.
func (s *LeaderboardService) TopVoters(ctx context.Context, limit int, now time.Time) ([]TopVoterEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	if limit <= 0 {
		limit = constants.DefaultLeaderboardLimit
	}

	votes, err := s.votes.ListSince(ctx, now.Add(-s.tax.Window()))
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list votes for top voters")
		return nil, err
	}

	counts := make(map[string]int)
	for _, v := range votes {
		counts[v.ReporterID]++
	}

	type voter struct {
		userID string
		count  int
	}
	ranked := make([]voter, 0, len(counts))
	for userID, count := range counts {
		ranked = append(ranked, voter{userID: userID, count: count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].userID < ranked[j].userID
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	entries := make([]TopVoterEntry, len(ranked))
	g, gCtx := errgroup.WithContext(ctx)
	for i, v := range ranked {
		g.Go(func() error {
			steamID, username := s.resolveIdentity(gCtx, v.userID, "Unknown Voter")
			entries[i] = TopVoterEntry{
				Rank:       i + 1,
				SteamID:    steamID,
				Username:   username,
				VotesGiven: v.count,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return entries, nil
}

// FlaggedUsers is the moderation view: targets crossing any of the abuse
// thresholds, ordered by risk score. Its thresholds are a separate policy
// from the warning ladder and must not be unified with it.
func (s *LeaderboardService) FlaggedUsers(ctx context.Context, now time.Time) ([]FlaggedUser, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	votes, err := s.votes.ListSince(ctx, now.Add(-s.tax.Window()))
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list votes for flagged users")
		return nil, err
	}

	type abuseCounts struct {
		toxic   int
		cheater int
		afk     int
		total   int
	}
	byTarget := make(map[string]*abuseCounts)
	for _, v := range votes {
		c, ok := byTarget[v.TargetID]
		if !ok {
			c = &abuseCounts{}
			byTarget[v.TargetID] = c
		}
		switch v.Tag {
		case taxonomy.TagToxic:
			c.toxic++
		case taxonomy.TagCheater:
			c.cheater++
		case taxonomy.TagAFK:
			c.afk++
		}
		c.total++
	}

	flags := s.tax.Flags()
	type flagged struct {
		userID string
		counts abuseCounts
		risk   int
	}
	var candidates []flagged
	for userID, c := range byTarget {
		if c.toxic >= flags.ToxicMin || c.cheater >= flags.CheaterMin || c.afk >= flags.AFKMin {
			candidates = append(candidates, flagged{
				userID: userID,
				counts: *c,
				risk:   flags.RiskScore(c.toxic, c.cheater),
			})
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].risk != candidates[j].risk {
			return candidates[i].risk > candidates[j].risk
		}
		return candidates[i].userID < candidates[j].userID
	})
	if len(candidates) > constants.DefaultLeaderboardLimit {
		candidates = candidates[:constants.DefaultLeaderboardLimit]
	}

	entries := make([]FlaggedUser, len(candidates))
	g, gCtx := errgroup.WithContext(ctx)
	for i, f := range candidates {
		g.Go(func() error {
			steamID, username := s.resolveIdentity(gCtx, f.userID, "Unknown")
			entries[i] = FlaggedUser{
				UserID:       f.userID,
				SteamID:      steamID,
				Username:     username,
				ToxicCount:   f.counts.toxic,
				CheaterCount: f.counts.cheater,
				AFKCount:     f.counts.afk,
				TotalVotes:   f.counts.total,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.logger.Info().Int("count", len(entries)).Msg("flagged users computed")
	return entries, nil
}

// Stats is the public overview: totals plus the 30-day window and its most
// common tags.
func (s *LeaderboardService) Stats(ctx context.Context, now time.Time) (*PlatformStats, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	totalUsers, err := s.users.Count(ctx)
	if err != nil {
		return nil, err
	}
	totalVotes, err := s.votes.Count(ctx)
	if err != nil {
		return nil, err
	}

	cutoff := now.Add(-s.tax.Window())
	recent, err := s.votes.ListSince(ctx, cutoff)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for _, v := range recent {
		counts[v.Tag]++
	}
	topTags := make([]TagCount, 0, len(counts))
	for tag, count := range counts {
		topTags = append(topTags, TagCount{Tag: tag, Count: count})
	}
	sort.Slice(topTags, func(i, j int) bool {
		if topTags[i].Count != topTags[j].Count {
			return topTags[i].Count > topTags[j].Count
		}
		return topTags[i].Tag < topTags[j].Tag
	})
	if len(topTags) > constants.TopTagsLimit {
		topTags = topTags[:constants.TopTagsLimit]
	}

	return &PlatformStats{
		TotalUsers:      totalUsers,
		TotalVotes:      totalVotes,
		VotesLast30Days: len(recent),
		TopTags:         topTags,
	}, nil
}

// AdminOverview uses a 24-hour activity window, deliberately distinct from
// the public 30-day one.
func (s *LeaderboardService) AdminOverview(ctx context.Context, now time.Time) (*AdminStats, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	totalUsers, err := s.users.Count(ctx)
	if err != nil {
		return nil, err
	}
	totalVotes, err := s.votes.Count(ctx)
	if err != nil {
		return nil, err
	}
	last24h, err := s.votes.CountSince(ctx, now.Add(-24*time.Hour))
	if err != nil {
		return nil, err
	}

	return &AdminStats{
		TotalUsers:   totalUsers,
		TotalVotes:   totalVotes,
		VotesLast24h: last24h,
	}, nil
}

// GoodTeammates lists the players a reporter has endorsed, most endorsed
// first, each joined with their identity and current vibe score.
func (s *LeaderboardService) GoodTeammates(ctx context.Context, reporterID string) ([]GoodTeammate, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	votes, err := s.votes.ListPositiveByReporter(ctx, reporterID, s.tax.PositiveTags())
	if err != nil {
		s.logger.Error().Err(err).Str("reporter_id", reporterID).Msg("failed to list positive votes")
		return nil, err
	}

	type teammateAgg struct {
		tags       []string
		seen       map[string]bool
		count      int
		lastPlayed time.Time
	}
	byTarget := make(map[string]*teammateAgg)
	var order []string
	for _, v := range votes {
		agg, ok := byTarget[v.TargetID]
		if !ok {
			agg = &teammateAgg{seen: make(map[string]bool)}
			byTarget[v.TargetID] = agg
			order = append(order, v.TargetID)
		}
		if !agg.seen[v.Tag] {
			agg.seen[v.Tag] = true
			agg.tags = append(agg.tags, v.Tag)
		}
		agg.count++
		if v.CreatedAt.After(agg.lastPlayed) {
			agg.lastPlayed = v.CreatedAt
		}
	}

	now := time.Now()
	teammates := make([]GoodTeammate, len(order))
	g, gCtx := errgroup.WithContext(ctx)
	for i, targetID := range order {
		agg := byTarget[targetID]
		g.Go(func() error {
			steamID, username := s.resolveIdentity(gCtx, targetID, "Unknown Player")

			var score *float64
			if rep, err := s.reputation.ComputeReputation(gCtx, targetID, now); err == nil {
				score = rep.Score
			}

			teammates[i] = GoodTeammate{
				UserID:             targetID,
				SteamID:            steamID,
				Username:           username,
				PositiveTags:       agg.tags,
				TotalPositiveVotes: agg.count,
				LastPlayed:         agg.lastPlayed,
				CurrentVibeScore:   score,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(teammates, func(i, j int) bool {
		return teammates[i].TotalPositiveVotes > teammates[j].TotalPositiveVotes
	})
	return teammates, nil
}

// resolveIdentity joins a ranked entry with its display identity. A missing
// or failed lookup degrades to placeholders rather than failing the board.
func (s *LeaderboardService) resolveIdentity(ctx context.Context, userID, fallback string) (steamID, username string) {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn().Err(err).Str("user_id", userID).Msg("failed to resolve identity")
		}
		return "Unknown", fallback
	}
	steamID = user.SteamID
	if steamID == "" {
		steamID = "Unknown"
	}
	username = user.Username
	if username == "" {
		username = fallback
	}
	return steamID, username
}
