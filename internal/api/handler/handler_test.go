package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/insighthq/insight-api/internal/api/response"
	"github.com/insighthq/insight-api/internal/core/domain"
)

// newTestContext builds an echo context with the request validator wired,
// since handlers call c.Validate directly.
func newTestContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func setPrincipal(c echo.Context, p domain.Principal) {
	c.Set("principal", p)
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) response.Envelope {
	t.Helper()
	var env response.Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return env
}

// dataField digs a field out of the envelope's data object.
func dataField(t *testing.T, env response.Envelope, field string) any {
	t.Helper()
	obj, ok := env.Data.(map[string]any)
	if !ok {
		t.Fatalf("data is not an object: %T", env.Data)
	}
	return obj[field]
}

// --- Service stubs ---

type stubAuthService struct {
	registerUser *domain.User
	registerErr  error
	loginToken   string
	loginErr     error
	profileUser  *domain.User
	profileErr   error

	gotName, gotEmail, gotPassword, gotProfileID string
}

func (s *stubAuthService) Register(_ context.Context, name, email, password string) (*domain.User, error) {
	s.gotName, s.gotEmail, s.gotPassword = name, email, password
	return s.registerUser, s.registerErr
}

func (s *stubAuthService) Login(_ context.Context, email, password string) (string, error) {
	s.gotEmail, s.gotPassword = email, password
	return s.loginToken, s.loginErr
}

func (s *stubAuthService) Profile(_ context.Context, userID string) (*domain.User, error) {
	s.gotProfileID = userID
	return s.profileUser, s.profileErr
}

type stubUserService struct {
	users     []domain.User
	user      *domain.User
	err       error
	gotID     string
	gotUpdate domain.UserUpdate
	deleted   []string
}

func (s *stubUserService) List(context.Context) ([]domain.User, error) {
	return s.users, s.err
}

func (s *stubUserService) Get(_ context.Context, id string) (*domain.User, error) {
	s.gotID = id
	return s.user, s.err
}

func (s *stubUserService) Update(_ context.Context, id string, update domain.UserUpdate) (*domain.User, error) {
	s.gotID = id
	s.gotUpdate = update
	return s.user, s.err
}

func (s *stubUserService) Delete(_ context.Context, id string) error {
	s.deleted = append(s.deleted, id)
	return s.err
}

type stubDataService struct {
	report domain.CombinedReport
	err    error
	calls  int

	gotCity, gotCurrency string
	gotRefresh           bool
}

func (s *stubDataService) Combined(_ context.Context, city, currency string, refresh bool) (domain.CombinedReport, error) {
	s.calls++
	s.gotCity, s.gotCurrency, s.gotRefresh = city, currency, refresh
	return s.report, s.err
}
