package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/fieldcrew/engineer-roster/internal/api/middleware"
	"github.com/fieldcrew/engineer-roster/internal/api/validation"
	"github.com/fieldcrew/engineer-roster/internal/core/domain"
	"github.com/fieldcrew/engineer-roster/internal/core/ports"
)

type stubAuthService struct {
	registerFn   func(ctx context.Context, in ports.RegisterInput) (*domain.User, string, error)
	loginFn      func(ctx context.Context, email, password string) (string, *domain.User, error)
	updateUserFn func(ctx context.Context, id string, in ports.UpdateUserInput) (*domain.User, error)

	loggedOut [2]string
	deletedID string
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, string, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) Authenticate(context.Context, string) (*domain.User, string, error) {
	return nil, "", domain.ErrUnauthenticated
}

func (s *stubAuthService) Logout(_ context.Context, userID, tokenID string) error {
	s.loggedOut = [2]string{userID, tokenID}
	return nil
}

func (s *stubAuthService) UpdateUser(ctx context.Context, id string, in ports.UpdateUserInput) (*domain.User, error) {
	return s.updateUserFn(ctx, id, in)
}

func (s *stubAuthService) DeleteUser(_ context.Context, id string) error {
	s.deletedID = id
	return nil
}

func newJSONContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = validation.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// withUser runs the Auth middleware with a fixed user so handlers see the
// same context values as in production.
func withUser(c echo.Context, user *domain.User, tokenID string) {
	_ = middleware.Auth(fixedAuthenticator{user: user, tokenID: tokenID})(func(echo.Context) error { return nil })(c)
}

type fixedAuthenticator struct {
	user    *domain.User
	tokenID string
}

func (a fixedAuthenticator) Authenticate(context.Context, string) (*domain.User, string, error) {
	return a.user, a.tokenID, nil
}

func TestAuthHandler_Register_Success(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(_ context.Context, in ports.RegisterInput) (*domain.User, string, error) {
			if in.Name != "John Doe" || in.Email != "john@example.com" || in.Password != "secret" {
				t.Fatalf("unexpected args: %+v", in)
			}
			return &domain.User{ID: "u1", Name: in.Name, Email: in.Email, PasswordHash: "hash", Engineers: []string{}}, "tok", nil
		},
	}
	c, rec := newJSONContext(http.MethodPost, "/api/users", `{"name":"John Doe","email":"john@example.com","password":"secret"}`)

	if err := NewAuthHandler(stub).Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["token"] != "tok" {
		t.Fatalf("expected token in response: %+v", resp)
	}
	user, ok := resp["user"].(map[string]any)
	if !ok {
		t.Fatalf("expected user in response")
	}
	if user["name"] != "John Doe" || user["email"] != "john@example.com" {
		t.Fatalf("unexpected user payload: %+v", user)
	}
	if _, leaked := user["passwordHash"]; leaked {
		t.Fatalf("password hash must not be serialized")
	}
	if strings.Contains(rec.Body.String(), "hash") {
		t.Fatalf("password hash leaked: %s", rec.Body.String())
	}
}

func TestAuthHandler_Register_Validation(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(context.Context, ports.RegisterInput) (*domain.User, string, error) {
			t.Fatalf("service must not be called")
			return nil, "", nil
		},
	}

	bodies := []string{
		`{"email":"john@example.com","password":"x"}`,
		`{"name":"John","email":"not-an-email","password":"x"}`,
		`{"name":"John","email":"john@example.com"}`,
	}
	for _, body := range bodies {
		c, _ := newJSONContext(http.MethodPost, "/api/users", body)
		err := NewAuthHandler(stub).Register(c)
		if !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("%s: expected ErrValidation, got %v", body, err)
		}
	}
}

func TestAuthHandler_Register_UserExists(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(context.Context, ports.RegisterInput) (*domain.User, string, error) {
			return nil, "", domain.ErrUserExists
		},
	}
	c, _ := newJSONContext(http.MethodPost, "/api/users", `{"name":"Bob","email":"bob@example.com","password":"x"}`)

	if err := NewAuthHandler(stub).Register(c); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthHandler_Register_InvalidPayload(t *testing.T) {
	c, _ := newJSONContext(http.MethodPost, "/api/users", `{"name":`)

	err := NewAuthHandler(&stubAuthService{}).Register(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

func TestAuthHandler_Login(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(_ context.Context, email, password string) (string, *domain.User, error) {
			if password != "secret" {
				return "", nil, domain.ErrInvalidCredentials
			}
			return "tok", &domain.User{ID: "u1", Email: email}, nil
		},
	}

	c, rec := newJSONContext(http.MethodPost, "/api/users/login", `{"email":"john@example.com","password":"secret"}`)
	if err := NewAuthHandler(stub).Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"token":"tok"`) {
		t.Fatalf("unexpected response %d %s", rec.Code, rec.Body.String())
	}

	c, _ = newJSONContext(http.MethodPost, "/api/users/login", `{"email":"john@example.com","password":"wrong"}`)
	if err := NewAuthHandler(stub).Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_LogoutAndProfile(t *testing.T) {
	stub := &stubAuthService{}
	user := &domain.User{ID: "u1", Name: "John Doe", Engineers: []string{"e1"}}

	c, rec := newJSONContext(http.MethodGet, "/api/users/profile", "")
	withUser(c, user, "jti-1")
	if err := NewAuthHandler(stub).Profile(c); err != nil {
		t.Fatalf("profile: %v", err)
	}
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"engineers":["e1"]`) {
		t.Fatalf("unexpected profile response: %s", rec.Body.String())
	}

	c, rec = newJSONContext(http.MethodPost, "/api/users/logout", "")
	withUser(c, user, "jti-1")
	if err := NewAuthHandler(stub).Logout(c); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if stub.loggedOut != [2]string{"u1", "jti-1"} {
		t.Fatalf("unexpected logout args: %v", stub.loggedOut)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthHandler_UpdateAndDeleteUser(t *testing.T) {
	stub := &stubAuthService{
		updateUserFn: func(_ context.Context, id string, in ports.UpdateUserInput) (*domain.User, error) {
			if in.Email != nil || in.Name == nil || *in.Name != "Johnny" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &domain.User{ID: id, Name: *in.Name}, nil
		},
	}

	c, rec := newJSONContext(http.MethodPut, "/api/users/u1", `{"name":"Johnny"}`)
	c.SetParamNames("id")
	c.SetParamValues("u1")
	if err := NewAuthHandler(stub).UpdateUser(c); err != nil {
		t.Fatalf("update: %v", err)
	}
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"name":"Johnny"`) {
		t.Fatalf("unexpected response: %s", rec.Body.String())
	}

	c, rec = newJSONContext(http.MethodDelete, "/api/users/u1", "")
	c.SetParamNames("id")
	c.SetParamValues("u1")
	if err := NewAuthHandler(stub).DeleteUser(c); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if stub.deletedID != "u1" || !strings.Contains(rec.Body.String(), "User successfully deleted") {
		t.Fatalf("unexpected delete response: %s", rec.Body.String())
	}
}
