package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/fieldcrew/engineer-roster/internal/pkg/metrics"
	"github.com/fieldcrew/engineer-roster/internal/core/domain"
	"github.com/fieldcrew/engineer-roster/internal/core/ports"
)

// AuthService implements registration, login and bearer-token verification.
type AuthService struct {
	repo      ports.UserRepository
	jwtSecret string
	tokenTTL  time.Duration
	logger    zerolog.Logger
	now       func() time.Time
}

func NewAuthService(repo ports.UserRepository, jwtSecret string, tokenTTL time.Duration, logger zerolog.Logger) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{
		repo:      repo,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, string, error) {
	name := strings.TrimSpace(in.Name)
	email := normalizeEmail(in.Email)
	if name == "" || email == "" || in.Password == "" {
		return nil, "", fmt.Errorf("%w: name, email and password are required", domain.ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	now := s.now().UTC()
	created, err := s.repo.Create(ctx, &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Engineers:    []string{},
		Tokens:       []string{},
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, "", err
	}

	token, err := s.issueToken(ctx, created)
	if err != nil {
		return nil, "", err
	}

	s.logger.Info().Str("user_id", created.ID).Msg("user registered")
	return created, token, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	s.pruneTokens(ctx, user)

	token, err := s.issueToken(ctx, user)
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}

// Authenticate verifies the token signature and expiry, resolves its subject
// and checks the token id is still in the user's issued set.
func (s *AuthService) Authenticate(ctx context.Context, raw string) (*domain.User, string, error) {
	if raw == "" {
		metrics.AuthFailuresTotal.WithLabelValues("missing_token").Inc()
		return nil, "", domain.ErrUnauthenticated
	}

	claims := &jwt.RegisteredClaims{}
	tkn, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return []byte(s.jwtSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || !tkn.Valid || claims.Subject == "" || claims.ID == "" {
		metrics.AuthFailuresTotal.WithLabelValues("invalid_token").Inc()
		return nil, "", domain.ErrUnauthenticated
	}

	user, err := s.repo.FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.AuthFailuresTotal.WithLabelValues("unknown_user").Inc()
			return nil, "", domain.ErrUnauthenticated
		}
		return nil, "", fmt.Errorf("authenticate: %w", err)
	}

	if !user.HasToken(claims.ID) {
		metrics.AuthFailuresTotal.WithLabelValues("revoked_token").Inc()
		return nil, "", domain.ErrUnauthenticated
	}

	return user, claims.ID, nil
}

// Logout revokes a single token; other sessions of the user stay valid.
func (s *AuthService) Logout(ctx context.Context, userID, tokenID string) error {
	if err := s.repo.RemoveToken(ctx, userID, tokenID); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	s.logger.Info().Str("user_id", userID).Msg("token revoked")
	return nil
}

func (s *AuthService) UpdateUser(ctx context.Context, id string, in ports.UpdateUserInput) (*domain.User, error) {
	var update ports.ProfileUpdate

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name cannot be empty", domain.ErrValidation)
		}
		update.Name = &name
	}
	if in.Email != nil {
		email := normalizeEmail(*in.Email)
		if email == "" {
			return nil, fmt.Errorf("%w: email cannot be empty", domain.ErrValidation)
		}
		update.Email = &email
	}
	if in.Password != nil {
		if *in.Password == "" {
			return nil, fmt.Errorf("%w: password cannot be empty", domain.ErrValidation)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		h := string(hash)
		update.PasswordHash = &h
	}

	if update.Name == nil && update.Email == nil && update.PasswordHash == nil {
		return s.repo.FindByID(ctx, id)
	}
	return s.repo.UpdateProfile(ctx, id, update)
}

func (s *AuthService) DeleteUser(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("user_id", id).Msg("user deleted")
	return nil
}

// issueToken signs a new token for user and records its id in the user's
// issued set.
func (s *AuthService) issueToken(ctx context.Context, user *domain.User) (string, error) {
	now := s.now()
	expires := now.Add(s.tokenTTL)
	tokenID := newTokenID(expires)
	claims := jwt.RegisteredClaims{
		Subject:   user.ID,
		ID:        tokenID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwtSecret))
	if err != nil {
		return "", err
	}

	if err := s.repo.AddToken(ctx, user.ID, tokenID); err != nil {
		return "", fmt.Errorf("store token: %w", err)
	}
	user.Tokens = append(user.Tokens, tokenID)
	metrics.TokensIssuedTotal.Inc()

	return signed, nil
}

// pruneTokens drops expired ids from the user's issued set. A failed removal
// only leaves a dead id behind, so it is logged and skipped.
func (s *AuthService) pruneTokens(ctx context.Context, user *domain.User) {
	now := s.now()
	kept := make([]string, 0, len(user.Tokens))
	for _, id := range user.Tokens {
		if !tokenExpired(id, now) {
			kept = append(kept, id)
			continue
		}
		if err := s.repo.RemoveToken(ctx, user.ID, id); err != nil {
			s.logger.Warn().Err(err).Str("user_id", user.ID).Msg("failed to prune expired token")
			kept = append(kept, id)
		}
	}
	user.Tokens = kept
}

// newTokenID prefixes a random id with the token's expiry in unix seconds.
func newTokenID(expires time.Time) string {
	return strconv.FormatInt(expires.Unix(), 10) + "." + uuid.NewString()
}

// tokenExpired reports whether id carries an expiry at or before now. Ids
// without one are never pruned.
func tokenExpired(id string, now time.Time) bool {
	prefix, _, ok := strings.Cut(id, ".")
	if !ok {
		return false
	}
	exp, err := strconv.ParseInt(prefix, 10, 64)
	if err != nil {
		return false
	}
	return now.Unix() >= exp
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
