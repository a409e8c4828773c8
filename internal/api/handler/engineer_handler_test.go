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
	"github.com/fieldcrew/engineer-roster/internal/api/view"
	"github.com/fieldcrew/engineer-roster/internal/core/domain"
	"github.com/fieldcrew/engineer-roster/internal/core/ports"
)

// engineerServiceStub backs middleware.EngineerData in formatter tests.
type engineerServiceStub struct {
	engineers map[string]*domain.Engineer
}

func newEngineerServiceStub(list ...*domain.Engineer) *engineerServiceStub {
	s := &engineerServiceStub{engineers: make(map[string]*domain.Engineer)}
	for _, e := range list {
		s.engineers[e.ID] = e
	}
	return s
}

func (s *engineerServiceStub) List(context.Context, *domain.User) ([]*domain.Engineer, error) {
	out := make([]*domain.Engineer, 0, len(s.engineers))
	for _, e := range s.engineers {
		out = append(out, e)
	}
	return out, nil
}

func (s *engineerServiceStub) Get(_ context.Context, _ *domain.User, id string) (*domain.Engineer, error) {
	e, ok := s.engineers[id]
	if !ok {
		return nil, domain.ErrEngineerNotFound
	}
	return e, nil
}

func (s *engineerServiceStub) Create(_ context.Context, _ *domain.User, in ports.CreateEngineerInput) (*domain.Engineer, error) {
	e := &domain.Engineer{ID: "new", Name: *in.Name, Available: in.Available}
	s.engineers[e.ID] = e
	return e, nil
}

func (s *engineerServiceStub) Update(_ context.Context, _ *domain.User, id string, in ports.EngineerInput) (*domain.Engineer, error) {
	e, ok := s.engineers[id]
	if !ok {
		return nil, domain.ErrEngineerNotFound
	}
	if in.Name != nil {
		e.Name = *in.Name
	}
	e.Available = in.Available
	return e, nil
}

func (s *engineerServiceStub) Delete(_ context.Context, _ *domain.User, id string) error {
	if _, ok := s.engineers[id]; !ok {
		return domain.ErrEngineerNotFound
	}
	delete(s.engineers, id)
	return nil
}

// chain runs the data middleware step and the formatter the way the router does.
func chain(c echo.Context, step echo.MiddlewareFunc, formatter echo.HandlerFunc) error {
	withUser(c, &domain.User{ID: "u1"}, "jti")
	return step(formatter)(c)
}

func newFormContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	renderer, err := view.NewRenderer()
	if err != nil {
		panic(err)
	}
	e.Renderer = renderer
	e.Validator = validation.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestEngineerHandler_Index(t *testing.T) {
	data := middleware.NewEngineerData(newEngineerServiceStub(&domain.Engineer{ID: "e1", Name: "Mohamed"}))
	c, rec := newJSONContext(http.MethodGet, "/api/engineers", "")

	if err := chain(c, data.List, NewEngineerHandler().Index); err != nil {
		t.Fatalf("index: %v", err)
	}

	var list []domain.Engineer
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if rec.Code != http.StatusOK || len(list) != 1 || list[0].Name != "Mohamed" {
		t.Fatalf("unexpected response %d %s", rec.Code, rec.Body.String())
	}
}

func TestEngineerHandler_IndexEmptyIsArray(t *testing.T) {
	data := middleware.NewEngineerData(newEngineerServiceStub())
	c, rec := newJSONContext(http.MethodGet, "/api/engineers", "")

	if err := chain(c, data.List, NewEngineerHandler().Index); err != nil {
		t.Fatalf("index: %v", err)
	}
	if strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Fatalf("expected [], got %s", rec.Body.String())
	}
}

func TestEngineerHandler_Create(t *testing.T) {
	data := middleware.NewEngineerData(newEngineerServiceStub())
	c, rec := newJSONContext(http.MethodPost, "/api/engineers", `{"name":"Mohamed","available":"on"}`)

	if err := chain(c, data.Create, NewEngineerHandler().Create); err != nil {
		t.Fatalf("create: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"available":true`) {
		t.Fatalf("expected coerced availability: %s", rec.Body.String())
	}
}

func TestEngineerHandler_ShowNotFound(t *testing.T) {
	data := middleware.NewEngineerData(newEngineerServiceStub())
	c, rec := newJSONContext(http.MethodGet, "/api/engineers/missing", "")
	c.SetParamNames("id")
	c.SetParamValues("missing")

	err := chain(c, data.Show, NewEngineerHandler().Show)
	if !errors.Is(err, domain.ErrEngineerNotFound) {
		t.Fatalf("expected ErrEngineerNotFound, got %v", err)
	}
	if rec.Body.Len() != 0 {
		t.Fatalf("formatter must not run on error")
	}
}

func TestEngineerHandler_Destroy(t *testing.T) {
	data := middleware.NewEngineerData(newEngineerServiceStub(&domain.Engineer{ID: "e1"}))
	c, rec := newJSONContext(http.MethodDelete, "/api/engineers/e1", "")
	c.SetParamNames("id")
	c.SetParamValues("e1")

	if err := chain(c, data.Delete, NewEngineerHandler().Destroy); err != nil {
		t.Fatalf("destroy: %v", err)
	}
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"message":"Engineer successfully deleted"`) {
		t.Fatalf("unexpected response %d %s", rec.Code, rec.Body.String())
	}
}

func TestEngineerHandler_FormatterWithoutResult(t *testing.T) {
	c, _ := newJSONContext(http.MethodGet, "/", "")
	h := NewEngineerHandler()

	if err := h.Show(c); !errors.Is(err, domain.ErrEngineerNotFound) {
		t.Fatalf("show: expected ErrEngineerNotFound, got %v", err)
	}
	if err := h.Destroy(c); !errors.Is(err, domain.ErrEngineerNotFound) {
		t.Fatalf("destroy: expected ErrEngineerNotFound, got %v", err)
	}
}

func TestEngineerViews_RedirectsCarryToken(t *testing.T) {
	svc := newEngineerServiceStub(&domain.Engineer{ID: "e1", Name: "Mohamed"})
	data := middleware.NewEngineerData(svc)
	views := NewEngineerViews()

	c, rec := newFormContext(http.MethodPost, "/engineers?token=tok", "name=Ali&available=on")
	if err := chain(c, data.Create, views.RedirectHome); err != nil {
		t.Fatalf("create: %v", err)
	}
	if rec.Code != http.StatusSeeOther || rec.Header().Get(echo.HeaderLocation) != "/engineers?token=tok" {
		t.Fatalf("unexpected redirect %d %q", rec.Code, rec.Header().Get(echo.HeaderLocation))
	}

	c, rec = newFormContext(http.MethodPut, "/engineers/e1?token=tok", "name=Mohamed+Ali")
	c.SetParamNames("id")
	c.SetParamValues("e1")
	if err := chain(c, data.Update, views.RedirectShow); err != nil {
		t.Fatalf("update: %v", err)
	}
	if rec.Code != http.StatusSeeOther || rec.Header().Get(echo.HeaderLocation) != "/engineers/e1?token=tok" {
		t.Fatalf("unexpected redirect %d %q", rec.Code, rec.Header().Get(echo.HeaderLocation))
	}
	if svc.engineers["e1"].Available {
		t.Fatalf("unchecked checkbox should store false")
	}
}

func TestEngineerViews_Pages(t *testing.T) {
	data := middleware.NewEngineerData(newEngineerServiceStub(&domain.Engineer{ID: "e1", Name: "Mohamed", Available: true}))
	views := NewEngineerViews()

	c, rec := newFormContext(http.MethodGet, "/engineers?token=tok", "")
	if err := chain(c, data.List, views.Index); err != nil {
		t.Fatalf("index: %v", err)
	}
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Mohamed") {
		t.Fatalf("index page missing engineer: %s", rec.Body.String())
	}

	c, rec = newFormContext(http.MethodGet, "/engineers/e1/edit?token=tok", "")
	c.SetParamNames("id")
	c.SetParamValues("e1")
	if err := chain(c, data.Show, views.Edit); err != nil {
		t.Fatalf("edit: %v", err)
	}
	if !strings.Contains(rec.Body.String(), `checked`) {
		t.Fatalf("edit form should pre-check availability")
	}

	c, rec = newFormContext(http.MethodGet, "/engineers/new?token=tok", "")
	withUser(c, &domain.User{ID: "u1"}, "jti")
	if err := views.New(c); err != nil {
		t.Fatalf("new: %v", err)
	}
	if !strings.Contains(rec.Body.String(), `name="_idempotency"`) {
		t.Fatalf("new form should carry a nonce")
	}
}
