package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/fieldcrew/engineer-roster/internal/core/domain"
	"github.com/fieldcrew/engineer-roster/internal/core/ports"
	"github.com/fieldcrew/engineer-roster/internal/infrastructure/db/memory"
)

func newAuthService(repo ports.UserRepository) *AuthService {
	return NewAuthService(repo, "secret", time.Hour, zerolog.Nop())
}

func register(t *testing.T, svc *AuthService, name, email, password string) (*domain.User, string) {
	t.Helper()
	user, token, err := svc.Register(context.Background(), ports.RegisterInput{Name: name, Email: email, Password: password})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	return user, token
}

// failingUserRepo wraps the in-memory store and fails FindByID.
type failingUserRepo struct {
	ports.UserRepository
	err error
}

func (r *failingUserRepo) FindByID(context.Context, string) (*domain.User, error) {
	return nil, r.err
}

func TestAuthService_Register_Success(t *testing.T) {
	svc := newAuthService(memory.NewUserRepository())

	user, token := register(t, svc, "John Doe", " John@Example.com ", "pass123")

	if user.ID == "" {
		t.Fatalf("expected id to be assigned")
	}
	if user.Email != "john@example.com" {
		t.Fatalf("expected normalized email, got %q", user.Email)
	}
	if user.PasswordHash == "pass123" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pass123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if token == "" {
		t.Fatalf("expected a token")
	}
	if len(user.Engineers) != 0 {
		t.Fatalf("new user should own nothing, got %v", user.Engineers)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc := newAuthService(memory.NewUserRepository())

	inputs := []ports.RegisterInput{
		{Name: "", Email: "a@example.com", Password: "x"},
		{Name: "A", Email: "  ", Password: "x"},
		{Name: "A", Email: "a@example.com", Password: ""},
	}
	for _, in := range inputs {
		if _, _, err := svc.Register(context.Background(), in); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("expected ErrValidation for %+v, got %v", in, err)
		}
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	svc := newAuthService(memory.NewUserRepository())

	register(t, svc, "Bob", "bob@example.com", "pass")
	_, _, err := svc.Register(context.Background(), ports.RegisterInput{Name: "Bobby", Email: "BOB@example.com", Password: "pass2"})
	if !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	svc := newAuthService(memory.NewUserRepository())
	registered, _ := register(t, svc, "Carol", "carol@example.com", "s3cret")

	token, user, err := svc.Login(context.Background(), "carol@example.com", "s3cret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if user == nil || user.ID != registered.ID {
		t.Fatalf("unexpected user: %+v", user)
	}

	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return []byte("secret"), nil
	})
	if err != nil || !parsed.Valid {
		t.Fatalf("token invalid: %v", err)
	}
	if claims.Subject != registered.ID {
		t.Fatalf("expected subject %s, got %s", registered.ID, claims.Subject)
	}
	if !user.HasToken(claims.ID) {
		t.Fatalf("token id should be recorded on the user")
	}
}

func TestAuthService_Login_Failures(t *testing.T) {
	svc := newAuthService(memory.NewUserRepository())
	register(t, svc, "Dave", "dave@example.com", "goodpass")

	cases := [][2]string{
		{"dave@example.com", "badpass"},
		{"ghost@example.com", "goodpass"},
		{"", "goodpass"},
	}
	for _, c := range cases {
		if _, _, err := svc.Login(context.Background(), c[0], c[1]); !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Fatalf("login(%q): expected ErrInvalidCredentials, got %v", c[0], err)
		}
	}
}

func TestAuthService_Authenticate(t *testing.T) {
	repo := memory.NewUserRepository()
	svc := newAuthService(repo)
	registered, token := register(t, svc, "Erin", "erin@example.com", "pw")

	user, tokenID, err := svc.Authenticate(context.Background(), token)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if user.ID != registered.ID || tokenID == "" {
		t.Fatalf("unexpected result: %+v %q", user, tokenID)
	}
}

func TestAuthService_Authenticate_Rejects(t *testing.T) {
	repo := memory.NewUserRepository()
	svc := newAuthService(repo)
	registered, token := register(t, svc, "Frank", "frank@example.com", "pw")

	otherSecret := NewAuthService(repo, "other", time.Hour, zerolog.Nop())
	forgedToken, _, err := otherSecret.Login(context.Background(), "frank@example.com", "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	expired := newAuthService(repo)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expiredToken, _, err := expired.Login(context.Background(), "frank@example.com", "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	noneToken, _ := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   registered.ID,
		ID:        "x",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)

	tests := map[string]string{
		"empty":        "",
		"garbage":      "not-a-jwt",
		"wrong secret": forgedToken,
		"expired":      expiredToken,
		"alg none":     noneToken,
		"tampered":     token + "x",
	}
	for name, raw := range tests {
		if _, _, err := svc.Authenticate(context.Background(), raw); !errors.Is(err, domain.ErrUnauthenticated) {
			t.Fatalf("%s: expected ErrUnauthenticated, got %v", name, err)
		}
	}
}

func TestAuthService_LogoutRevokesOnlyThatToken(t *testing.T) {
	repo := memory.NewUserRepository()
	svc := newAuthService(repo)
	_, first := register(t, svc, "Gina", "gina@example.com", "pw")
	second, _, err := svc.Login(context.Background(), "gina@example.com", "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	user, tokenID, err := svc.Authenticate(context.Background(), first)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if err := svc.Logout(context.Background(), user.ID, tokenID); err != nil {
		t.Fatalf("logout: %v", err)
	}

	if _, _, err := svc.Authenticate(context.Background(), first); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("revoked token still accepted: %v", err)
	}
	if _, _, err := svc.Authenticate(context.Background(), second); err != nil {
		t.Fatalf("other token should stay valid: %v", err)
	}
}

func TestAuthService_Authenticate_DeletedUser(t *testing.T) {
	repo := memory.NewUserRepository()
	svc := newAuthService(repo)
	user, token := register(t, svc, "Hank", "hank@example.com", "pw")

	if err := svc.DeleteUser(context.Background(), user.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, _, err := svc.Authenticate(context.Background(), token); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestAuthService_Authenticate_StoreFailure(t *testing.T) {
	repo := memory.NewUserRepository()
	_, token := register(t, newAuthService(repo), "Ivy", "ivy@example.com", "pw")

	storeErr := errors.New("store unavailable")
	svc := newAuthService(&failingUserRepo{UserRepository: repo, err: storeErr})

	_, _, err := svc.Authenticate(context.Background(), token)
	if !errors.Is(err, storeErr) {
		t.Fatalf("expected store error to propagate, got %v", err)
	}
	if errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("store failure must not look like a credential failure")
	}
}

func TestAuthService_UpdateUser(t *testing.T) {
	repo := memory.NewUserRepository()
	svc := newAuthService(repo)
	user, _ := register(t, svc, "Jill", "jill@example.com", "old")
	register(t, svc, "Kim", "kim@example.com", "pw")

	name := "  Jill Smith "
	password := "new"
	updated, err := svc.UpdateUser(context.Background(), user.ID, ports.UpdateUserInput{Name: &name, Password: &password})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Jill Smith" {
		t.Fatalf("expected trimmed name, got %q", updated.Name)
	}
	if _, _, err := svc.Login(context.Background(), "jill@example.com", "new"); err != nil {
		t.Fatalf("new password should work: %v", err)
	}

	taken := "kim@example.com"
	if _, err := svc.UpdateUser(context.Background(), user.ID, ports.UpdateUserInput{Email: &taken}); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}

	empty := " "
	if _, err := svc.UpdateUser(context.Background(), user.ID, ports.UpdateUserInput{Name: &empty}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}

	same, err := svc.UpdateUser(context.Background(), user.ID, ports.UpdateUserInput{})
	if err != nil || same.ID != user.ID {
		t.Fatalf("no-op update should return the user: %v", err)
	}
}

func TestAuthService_LoginPrunesExpiredTokenIDs(t *testing.T) {
	repo := memory.NewUserRepository()
	svc := newAuthService(repo)
	past := time.Now().Add(-3 * time.Hour)
	svc.now = func() time.Time { return past }

	user, _ := register(t, svc, "Grace", "grace@example.com", "pw")
	if _, _, err := svc.Login(context.Background(), "grace@example.com", "pw"); err != nil {
		t.Fatalf("login: %v", err)
	}

	stored, _ := repo.FindByID(context.Background(), user.ID)
	if len(stored.Tokens) != 2 {
		t.Fatalf("expected 2 issued ids, got %v", stored.Tokens)
	}

	svc.now = time.Now
	token, loggedIn, err := svc.Login(context.Background(), "grace@example.com", "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	stored, _ = repo.FindByID(context.Background(), user.ID)
	if len(stored.Tokens) != 1 || len(loggedIn.Tokens) != 1 {
		t.Fatalf("expired ids should be pruned, stored %v returned %v", stored.Tokens, loggedIn.Tokens)
	}
	if _, _, err := svc.Authenticate(context.Background(), token); err != nil {
		t.Fatalf("fresh token must stay valid: %v", err)
	}
}

func TestTokenExpired(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	cases := map[string]bool{
		newTokenID(now.Add(time.Minute)):  false,
		newTokenID(now):                   true,
		newTokenID(now.Add(-time.Minute)): true,
		"legacy-id-without-expiry":        false,
		"abc.def":                         false,
	}
	for id, want := range cases {
		if got := tokenExpired(id, now); got != want {
			t.Fatalf("tokenExpired(%q) = %v, want %v", id, got, want)
		}
	}
}
