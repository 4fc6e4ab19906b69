package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"trivia-service/internal/domain"
)

// userRow is the document-shaped users row: scalar columns for lookups,
// JSONB for the embedded preference list and response ledger. Save rewrites
// the whole row, matching single-document write semantics.
type userRow struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID           string                  `bun:"id,pk"`
	Username     string                  `bun:"username"`
	Alias        string                  `bun:"alias"`
	PasswordHash string                  `bun:"password_hash"`
	GoogleID     string                  `bun:"google_id"`
	Difficulty   int                     `bun:"difficulty"`
	Categories   []string                `bun:"categories,type:jsonb"`
	ResetToken   string                  `bun:"reset_token"`
	ResetExpires time.Time               `bun:"reset_expires,nullzero"`
	Responses    []domain.ResponseRecord `bun:"responses,type:jsonb"`
}

// UserRepository is the bun-backed implementation of app.UserRepository.
type UserRepository struct {
	db *bun.DB
}

func NewUserRepository(db *bun.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (domain.User, error) {
	return r.findOne(ctx, "u.id = ?", id)
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (domain.User, error) {
	return r.findOne(ctx, "u.username = ?", username)
}

func (r *UserRepository) FindByGoogleID(ctx context.Context, googleID string) (domain.User, error) {
	return r.findOne(ctx, "u.google_id = ? AND u.google_id <> ''", googleID)
}

func (r *UserRepository) FindByResetToken(ctx context.Context, token string) (domain.User, error) {
	return r.findOne(ctx, "u.reset_token = ? AND u.reset_token <> ''", token)
}

func (r *UserRepository) findOne(ctx context.Context, where string, arg string) (domain.User, error) {
	row := new(userRow)
	err := r.db.NewSelect().Model(row).Where(where, arg).Limit(1).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, domain.ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, storeErr("find user", err)
	}
	return row.toDomain(), nil
}

func (r *UserRepository) Create(ctx context.Context, user domain.User) error {
	row := fromDomain(user)
	if _, err := r.db.NewInsert().Model(row).Exec(ctx); err != nil {
		// Unique violation on username maps to the domain conflict.
		if isUniqueViolation(err) {
			return domain.ErrUserExists
		}
		return storeErr("create user", err)
	}
	return nil
}

func (r *UserRepository) Save(ctx context.Context, user domain.User) error {
	row := fromDomain(user)
	res, err := r.db.NewUpdate().Model(row).WherePK().Exec(ctx)
	if err != nil {
		return storeErr("save user", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (row *userRow) toDomain() domain.User {
	return domain.User{
		ID:           row.ID,
		Username:     row.Username,
		Alias:        row.Alias,
		PasswordHash: row.PasswordHash,
		GoogleID:     row.GoogleID,
		Preferences: domain.Preferences{
			Categories: row.Categories,
			Difficulty: row.Difficulty,
		},
		ResetToken:   row.ResetToken,
		ResetExpires: row.ResetExpires,
		Responses:    row.Responses,
	}
}

func fromDomain(user domain.User) *userRow {
	categories := user.Preferences.Categories
	if categories == nil {
		categories = []string{}
	}
	responses := user.Responses
	if responses == nil {
		responses = []domain.ResponseRecord{}
	}
	return &userRow{
		ID:           user.ID,
		Username:     user.Username,
		Alias:        user.Alias,
		PasswordHash: user.PasswordHash,
		GoogleID:     user.GoogleID,
		Difficulty:   user.Preferences.Difficulty,
		Categories:   categories,
		ResetToken:   user.ResetToken,
		ResetExpires: user.ResetExpires,
		Responses:    responses,
	}
}

func storeErr(op string, err error) error {
	return fmt.Errorf("%s: %w", op, errors.Join(domain.ErrStoreUnavailable, err))
}
