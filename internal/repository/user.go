package repository

import (
	"commsafe/internal/domain"
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type UserRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewUserRepository(sqlDB *sql.DB, logger zerolog.Logger) *UserRepository {
	return &UserRepository{
		db:     sqlDB,
		logger: logger,
	}
}

const userColumns = "id, steam_id, faceit_id, username, email, created_at"

func scanUser(row interface{ Scan(...any) error }) (domain.User, error) {
	var (
		u        domain.User
		steamID  sql.NullString
		faceitID sql.NullString
	)
	err := row.Scan(&u.ID, &steamID, &faceitID, &u.Username, &u.Email, &u.CreatedAt)
	u.SteamID = steamID.String
	u.FaceitID = faceitID.String
	return u, err
}

func (r *UserRepository) Get(ctx context.Context, id string) (*domain.User, error) {
	return r.get(ctx, "SELECT "+userColumns+" FROM users WHERE id = ?", id)
}

func (r *UserRepository) GetBySteamID(ctx context.Context, steamID string) (*domain.User, error) {
	return r.get(ctx, "SELECT "+userColumns+" FROM users WHERE steam_id = ?", steamID)
}

func (r *UserRepository) GetByFaceitID(ctx context.Context, faceitID string) (*domain.User, error) {
	return r.get(ctx, "SELECT "+userColumns+" FROM users WHERE faceit_id = ?", faceitID)
}

func (r *UserRepository) get(ctx context.Context, query string, args ...any) (*domain.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, domain.NewStorageError("get user", err)
	}
	return &u, nil
}

func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+userColumns+" FROM users ORDER BY created_at")
	if err != nil {
		return nil, domain.NewStorageError("list users", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, domain.NewStorageError("scan user", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewStorageError("list users", err)
	}
	return users, nil
}

// Create assigns the immutable internal key. External identifiers are stored
// as NULL when absent so the per-namespace UNIQUE indexes only bind populated
// values.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx,
		"INSERT INTO users (id, steam_id, faceit_id, username, email, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		user.ID, nullable(user.SteamID), nullable(user.FaceitID), user.Username, user.Email, user.CreatedAt,
	)
	if err != nil {
		return domain.NewStorageError("create user", err)
	}

	r.logger.Info().
		Str("user_id", user.ID).
		Str("steam_id", user.SteamID).
		Str("faceit_id", user.FaceitID).
		Msg("user created")
	return nil
}

func (r *UserRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM users").Scan(&n); err != nil {
		return 0, domain.NewStorageError("count users", err)
	}
	return n, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
