package app

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"trivia-service/internal/domain"
)

// aliasPattern allows 2-16 word characters or dots, starting with a word
// character. Consecutive or trailing dots are checked separately since RE2
// has no lookaheads.
var aliasPattern = regexp.MustCompile(`^\w[\w.]{1,15}$`)

// ValidAlias reports whether a display alias is acceptable.
func ValidAlias(alias string) bool {
	if !aliasPattern.MatchString(alias) {
		return false
	}
	if strings.Contains(alias, "..") || strings.HasSuffix(alias, ".") {
		return false
	}
	return true
}

// AuthService verifies credentials and registers accounts. It is composed
// with the user repository by the request layer, never embedded in the
// storage schema.
type AuthService struct {
	users  UserRepository
	logger *zap.Logger
}

func NewAuthService(users UserRepository, logger *zap.Logger) *AuthService {
	return &AuthService{users: users, logger: logger}
}

// Register creates a local account with a bcrypt-hashed password.
func (s *AuthService) Register(ctx context.Context, username, alias, password string) (domain.User, error) {
	if strings.TrimSpace(username) == "" {
		return domain.User{}, fmt.Errorf("%w: username must not be blank", domain.ErrValidation)
	}
	if !ValidAlias(alias) {
		return domain.User{}, fmt.Errorf("%w: alias must be 2-16 word characters", domain.ErrValidation)
	}
	if len(password) < 8 {
		return domain.User{}, fmt.Errorf("%w: password must be at least 8 characters", domain.ErrValidation)
	}

	_, err := s.users.FindByUsername(ctx, username)
	switch {
	case err == nil:
		return domain.User{}, domain.ErrUserExists
	case !errors.Is(err, domain.ErrUserNotFound):
		return domain.User{}, fmt.Errorf("check username: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, fmt.Errorf("hash password: %w", err)
	}

	user := domain.User{
		ID:           uuid.NewString(),
		Username:     username,
		Alias:        alias,
		PasswordHash: string(hash),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}
	s.logger.Info("user registered", zap.String("user", user.ID))
	return user, nil
}

// Authenticate checks a local username/password pair. Unknown users and
// wrong passwords both map to ErrInvalidCredentials so the response does not
// leak which usernames exist.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (domain.User, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.User{}, domain.ErrInvalidCredentials
		}
		return domain.User{}, fmt.Errorf("find user: %w", err)
	}
	if user.PasswordHash == "" {
		return domain.User{}, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return domain.User{}, domain.ErrInvalidCredentials
	}
	return user, nil
}

// GoogleSignIn finds the account linked to a Google subject ID, creating one
// on first sign-in.
func (s *AuthService) GoogleSignIn(ctx context.Context, googleID, email string) (domain.User, error) {
	if googleID == "" {
		return domain.User{}, fmt.Errorf("%w: missing google subject id", domain.ErrValidation)
	}
	user, err := s.users.FindByGoogleID(ctx, googleID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return domain.User{}, fmt.Errorf("find google user: %w", err)
	}

	user = domain.User{
		ID:       uuid.NewString(),
		Username: email,
		Alias:    aliasFromEmail(email),
		GoogleID: googleID,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return domain.User{}, fmt.Errorf("create google user: %w", err)
	}
	s.logger.Info("google account linked", zap.String("user", user.ID))
	return user, nil
}

func aliasFromEmail(email string) string {
	local := email
	if at := strings.IndexByte(email, '@'); at > 0 {
		local = email[:at]
	}
	if len(local) > 16 {
		local = local[:16]
	}
	if ValidAlias(local) {
		return local
	}
	return "player"
}
