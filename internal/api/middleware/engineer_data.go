package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/fieldcrew/engineer-roster/internal/core/domain"
	"github.com/fieldcrew/engineer-roster/internal/core/ports"
)

// IdempotencyHeader carries the client key of a create request. Browser forms
// send the same value in the _idempotency field.
const (
	IdempotencyHeader = "Idempotency-Key"
	idempotencyField  = "_idempotency"
)

// EngineerData performs the engineer operation of a route and leaves the
// result in the context for the formatter that follows it. It never writes
// a response itself.
type EngineerData struct {
	service ports.EngineerService
}

func NewEngineerData(service ports.EngineerService) *EngineerData {
	return &EngineerData{service: service}
}

// List loads the engineers visible to the caller.
func (d *EngineerData) List(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, err := requireUser(c)
		if err != nil {
			return err
		}

		list, err := d.service.List(c.Request().Context(), user)
		if err != nil {
			return err
		}
		c.Set(engineerListKey, list)
		return next(c)
	}
}

// Show loads the engineer named by :id.
func (d *EngineerData) Show(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, err := requireUser(c)
		if err != nil {
			return err
		}

		e, err := d.service.Get(c.Request().Context(), user, c.Param("id"))
		if err != nil {
			return err
		}
		c.Set(engineerKey, e)
		return next(c)
	}
}

func (d *EngineerData) Create(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, err := requireUser(c)
		if err != nil {
			return err
		}

		p, err := parsePayload(c)
		if err != nil {
			return err
		}

		e, err := d.service.Create(c.Request().Context(), user, ports.CreateEngineerInput{
			EngineerInput:  p.input,
			IdempotencyKey: p.idempotencyKey,
		})
		if err != nil {
			return err
		}
		c.Set(engineerKey, e)
		return next(c)
	}
}

func (d *EngineerData) Update(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, err := requireUser(c)
		if err != nil {
			return err
		}

		p, err := parsePayload(c)
		if err != nil {
			return err
		}

		e, err := d.service.Update(c.Request().Context(), user, c.Param("id"), p.input)
		if err != nil {
			return err
		}
		c.Set(engineerKey, e)
		return next(c)
	}
}

func (d *EngineerData) Delete(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, err := requireUser(c)
		if err != nil {
			return err
		}

		id := c.Param("id")
		if err := d.service.Delete(c.Request().Context(), user, id); err != nil {
			return err
		}
		c.Set(deletedKey, id)
		return next(c)
	}
}

func requireUser(c echo.Context) (*domain.User, error) {
	user := CurrentUser(c)
	if user == nil {
		return nil, domain.ErrUnauthenticated
	}
	return user, nil
}

// --- payload parsing ---

type payload struct {
	input          ports.EngineerInput
	idempotencyKey string
}

// engineerJSON mirrors the JSON body. Pointer fields distinguish absent from
// zero values so updates only touch what was sent.
type engineerJSON struct {
	Name            *string          `json:"name"`
	Specialty       *string          `json:"specialty"`
	YearsExperience *years           `json:"yearsExperience"`
	Available       *domain.Checkbox `json:"available"`
}

// years accepts a JSON number or a numeric string.
type years float64

func (y *years) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch t := v.(type) {
	case float64:
		*y = years(t)
		return nil
	case string:
		f, err := parseYears(t)
		if err != nil {
			return err
		}
		*y = years(f)
		return nil
	}
	return fmt.Errorf("%w: yearsExperience must be a number", domain.ErrValidation)
}

func parseYears(s string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: yearsExperience must be a number", domain.ErrValidation)
	}
	return f, nil
}

// engineerRules holds the payload constraints checked through the echo
// validator. Domain rules run again in the service.
type engineerRules struct {
	YearsExperience *float64 `json:"yearsExperience" validate:"omitempty,gte=0"`
}

func parsePayload(c echo.Context) (payload, error) {
	p, err := decodePayload(c)
	if err != nil {
		return p, err
	}
	if err := c.Validate(&engineerRules{YearsExperience: p.input.YearsExperience}); err != nil {
		return p, err
	}
	return p, nil
}

func decodePayload(c echo.Context) (payload, error) {
	p := payload{idempotencyKey: strings.TrimSpace(c.Request().Header.Get(IdempotencyHeader))}

	ctype := c.Request().Header.Get(echo.HeaderContentType)
	if strings.HasPrefix(ctype, echo.MIMEApplicationJSON) {
		in, err := parseJSON(c.Request().Body)
		if err != nil {
			return p, err
		}
		p.input = in
		return p, nil
	}

	form, err := c.FormParams()
	if err != nil {
		return p, fmt.Errorf("%w: malformed form body", domain.ErrValidation)
	}

	if v, ok := form["name"]; ok {
		s := firstValue(v)
		p.input.Name = &s
	}
	if v, ok := form["specialty"]; ok {
		s := firstValue(v)
		p.input.Specialty = &s
	}
	if v, ok := form["yearsExperience"]; ok && strings.TrimSpace(firstValue(v)) != "" {
		f, err := parseYears(firstValue(v))
		if err != nil {
			return p, err
		}
		p.input.YearsExperience = &f
	}
	v, ok := form["available"]
	p.input.Available = domain.NormalizeAvailability(firstValue(v), ok)

	if p.idempotencyKey == "" {
		p.idempotencyKey = strings.TrimSpace(form.Get(idempotencyField))
	}
	return p, nil
}

func parseJSON(body io.Reader) (ports.EngineerInput, error) {
	var in ports.EngineerInput

	var raw engineerJSON
	if err := json.NewDecoder(body).Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return in, nil
		}
		if errors.Is(err, domain.ErrValidation) {
			return in, err
		}
		return in, fmt.Errorf("%w: malformed JSON body", domain.ErrValidation)
	}

	in.Name = raw.Name
	in.Specialty = raw.Specialty
	if raw.YearsExperience != nil {
		f := float64(*raw.YearsExperience)
		in.YearsExperience = &f
	}
	in.Available = raw.Available != nil && bool(*raw.Available)
	return in, nil
}

func firstValue(v []string) string {
	if len(v) == 0 {
		return ""
	}
	return v[0]
}
