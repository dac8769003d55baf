package repository

import (
	"commsafe/internal/domain"
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
)

type VoteRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewVoteRepository(sqlDB *sql.DB, logger zerolog.Logger) *VoteRepository {
	return &VoteRepository{
		db:     sqlDB,
		logger: logger,
	}
}

const voteColumns = "id, reporter_id, target_id, match_id, tag, comment, created_at"

func scanVote(row interface{ Scan(...any) error }) (domain.Vote, error) {
	var v domain.Vote
	err := row.Scan(&v.ID, &v.ReporterID, &v.TargetID, &v.MatchID, &v.Tag, &v.Comment, &v.CreatedAt)
	return v, err
}

// Insert persists a new vote. The schema's UNIQUE(reporter_id, target_id,
// match_id) constraint is the authoritative duplicate guard; a violation is
// reported as domain.ErrDuplicate.
func (r *VoteRepository) Insert(ctx context.Context, vote *domain.Vote) error {
	if vote.ID == "" {
		id, err := gonanoid.New()
		if err != nil {
			return domain.NewStorageError("generate vote id", err)
		}
		vote.ID = id
	}
	if vote.CreatedAt.IsZero() {
		vote.CreatedAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx,
		"INSERT INTO votes (id, reporter_id, target_id, match_id, tag, comment, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		vote.ID, vote.ReporterID, vote.TargetID, vote.MatchID, vote.Tag, vote.Comment, vote.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			r.logger.Debug().
				Str("reporter_id", vote.ReporterID).
				Str("target_id", vote.TargetID).
				Str("match_id", vote.MatchID).
				Msg("duplicate vote rejected by constraint")
			return domain.ErrDuplicate
		}
		return domain.NewStorageError("insert vote", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// Exists reports whether a vote already exists for the triple. The match ID
// is stored normalized, so the empty string matches "no context" votes.
func (r *VoteRepository) Exists(ctx context.Context, reporterID, targetID, matchID string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM votes WHERE reporter_id = ? AND target_id = ? AND match_id = ?",
		reporterID, targetID, matchID,
	).Scan(&n)
	if err != nil {
		return false, domain.NewStorageError("check existing vote", err)
	}
	return n > 0, nil
}

func (r *VoteRepository) ListByTarget(ctx context.Context, targetID string) ([]domain.Vote, error) {
	return r.list(ctx, "SELECT "+voteColumns+" FROM votes WHERE target_id = ?", targetID)
}

func (r *VoteRepository) ListByReporter(ctx context.Context, reporterID string) ([]domain.Vote, error) {
	return r.list(ctx, "SELECT "+voteColumns+" FROM votes WHERE reporter_id = ?", reporterID)
}

// ListSince is the bulk read backing leaderboards: every vote created
// strictly after the cutoff, in one pass.
func (r *VoteRepository) ListSince(ctx context.Context, cutoff time.Time) ([]domain.Vote, error) {
	return r.list(ctx, "SELECT "+voteColumns+" FROM votes WHERE created_at > ?", cutoff)
}

func (r *VoteRepository) ListRecent(ctx context.Context, limit int) ([]domain.Vote, error) {
	return r.list(ctx, "SELECT "+voteColumns+" FROM votes ORDER BY created_at DESC LIMIT ?", limit)
}

// ListPositiveByReporter returns the reporter's votes carrying one of the
// given tags, newest first.
func (r *VoteRepository) ListPositiveByReporter(ctx context.Context, reporterID string, tags []string) ([]domain.Vote, error) {
	if len(tags) == 0 {
		return nil, nil
	}

	placeholders := strings.Repeat("?, ", len(tags))
	placeholders = placeholders[:len(placeholders)-2]

	args := make([]any, 0, len(tags)+1)
	args = append(args, reporterID)
	for _, tag := range tags {
		args = append(args, tag)
	}

	query := "SELECT " + voteColumns + " FROM votes WHERE reporter_id = ? AND tag IN (" + placeholders + ") ORDER BY created_at DESC"
	return r.list(ctx, query, args...)
}

func (r *VoteRepository) list(ctx context.Context, query string, args ...any) ([]domain.Vote, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, domain.NewStorageError("list votes", err)
	}
	defer rows.Close()

	var votes []domain.Vote
	for rows.Next() {
		v, err := scanVote(rows)
		if err != nil {
			return nil, domain.NewStorageError("scan vote", err)
		}
		votes = append(votes, v)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewStorageError("list votes", err)
	}
	return votes, nil
}

func (r *VoteRepository) DeleteByID(ctx context.Context, voteID string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM votes WHERE id = ?", voteID)
	if err != nil {
		return domain.NewStorageError("delete vote", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return domain.NewStorageError("delete vote", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	r.logger.Info().Str("vote_id", voteID).Msg("vote deleted")
	return nil
}

func (r *VoteRepository) Count(ctx context.Context) (int, error) {
	return r.count(ctx, "SELECT COUNT(1) FROM votes")
}

func (r *VoteRepository) CountSince(ctx context.Context, cutoff time.Time) (int, error) {
	return r.count(ctx, "SELECT COUNT(1) FROM votes WHERE created_at > ?", cutoff)
}

func (r *VoteRepository) count(ctx context.Context, query string, args ...any) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, domain.NewStorageError("count votes", err)
	}
	return n, nil
}
