package main

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/diewo77/go-library/auth"
	"github.com/diewo77/go-library/gate"
	"github.com/diewo77/go-library/httpx"
	"github.com/diewo77/go-library/internal/db/dbtest"
	"github.com/diewo77/go-library/internal/models"
	"github.com/diewo77/go-library/internal/policy"
	"github.com/rs/zerolog"
)

const testSecret = "e2e-secret"

type testServer struct {
	t   *testing.T
	srv *httptest.Server
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	conn := dbtest.New(t)

	seed := []struct {
		id    uint
		name  string
		sub   string
		roles models.Roles
	}{
		{1, "admin", "sub-admin", models.Roles{models.RoleAdmin}},
		{7, "seven", "sub-7", models.Roles{models.RoleRegular}},
		{8, "eight", "sub-8", models.Roles{models.RoleRegular}},
	}
	for _, s := range seed {
		sub := s.sub
		u := &models.User{Username: s.name, ExternalID: &sub, Roles: s.roles}
		u.ID = s.id
		if err := conn.Create(u).Error; err != nil {
			t.Fatalf("seed user %s: %v", s.name, err)
		}
	}
	if err := conn.Create(&models.Book{Title: "Dune"}).Error; err != nil {
		t.Fatalf("seed book: %v", err)
	}

	rc, err := policy.NewRouterConfig(conn, zerolog.Nop(), time.Now())
	if err != nil {
		t.Fatal(err)
	}
	verifier, err := auth.NewVerifier(auth.Config{Secret: testSecret})
	if err != nil {
		t.Fatal(err)
	}
	app, err := NewApp(rc, verifier, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	srv := httptest.NewServer(app)
	t.Cleanup(srv.Close)
	return &testServer{t: t, srv: srv}
}

// do sends a request as sub; an empty sub is anonymous.
func (s *testServer) do(method, path, sub, body string) (int, []byte) {
	s.t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, s.srv.URL+path, r)
	if err != nil {
		s.t.Fatal(err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if sub != "" {
		token, err := auth.SignHS256(testSecret, sub, time.Minute)
		if err != nil {
			s.t.Fatal(err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.srv.Client().Do(req)
	if err != nil {
		s.t.Fatal(err)
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, data
}

func errorBody(t *testing.T, data []byte) httpx.ErrorResponse {
	t.Helper()
	var e httpx.ErrorResponse
	if err := json.Unmarshal(data, &e); err != nil {
		t.Fatalf("decode %q: %v", data, err)
	}
	return e
}

func TestUserUpdateOwnership(t *testing.T) {
	s := newTestServer(t)

	code, body := s.do(http.MethodPatch, "/api/v1/user/7", "sub-7", `{"username":"seven.updated"}`)
	if code != http.StatusOK {
		t.Fatalf("own update: status %d body %s", code, body)
	}
	var u models.User
	if err := json.Unmarshal(body, &u); err != nil || u.Username != "seven.updated" {
		t.Errorf("own update: got %s", body)
	}

	code, body = s.do(http.MethodPatch, "/api/v1/user/8", "sub-7", `{"username":"hijacked"}`)
	if code != http.StatusForbidden {
		t.Fatalf("other update: status %d body %s", code, body)
	}
	e := errorBody(t, body)
	if e.Error != httpx.CodeForbidden || e.Message != "You are not allowed to UPDATE this resource" {
		t.Errorf("other update: body %+v", e)
	}

	code, _ = s.do(http.MethodPatch, "/api/v1/user/8", "sub-admin", `{"username":"renamed"}`)
	if code != http.StatusOK {
		t.Errorf("admin update: status %d", code)
	}
}

func TestAnonymous(t *testing.T) {
	s := newTestServer(t)

	code, body := s.do(http.MethodGet, "/api/v1/user", "", "")
	if code != http.StatusForbidden {
		t.Fatalf("status %d body %s", code, body)
	}
	if e := errorBody(t, body); e.Message != "You are not allowed to READ this resource" {
		t.Errorf("message = %q", e.Message)
	}

	code, body = s.do(http.MethodGet, "/api/v1/health", "", "")
	if code != http.StatusOK || !strings.Contains(string(body), `"status":"ok"`) {
		t.Errorf("health: %d %s", code, body)
	}
}

func TestAuthentication(t *testing.T) {
	s := newTestServer(t)

	code, body := s.do(http.MethodGet, "/api/v1/user/me", "sub-unknown", "")
	if code != http.StatusForbidden {
		t.Errorf("unknown subject: status %d body %s", code, body)
	}

	expired, _ := auth.SignHS256(testSecret, "sub-7", -time.Minute)
	req, _ := http.NewRequest(http.MethodGet, s.srv.URL+"/api/v1/user/me", nil)
	req.Header.Set("Authorization", "Bearer "+expired)
	resp, err := s.srv.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}
	data, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized || errorBody(t, data).Error != httpx.CodeTokenExpired {
		t.Errorf("expired: status %d body %s", resp.StatusCode, data)
	}

	code, body = s.do(http.MethodGet, "/api/v1/user/me", "sub-7", "")
	if code != http.StatusOK || !strings.Contains(string(body), `"username":"seven"`) {
		t.Errorf("me: %d %s", code, body)
	}
}

func TestBookPermissions(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name   string
		method string
		path   string
		sub    string
		body   string
		want   int
	}{
		{"regular lists", http.MethodGet, "/api/v1/book", "sub-7", "", http.StatusOK},
		{"regular reads", http.MethodGet, "/api/v1/book/1", "sub-7", "", http.StatusOK},
		{"regular reads missing", http.MethodGet, "/api/v1/book/99", "sub-7", "", http.StatusNotFound},
		{"regular creates", http.MethodPost, "/api/v1/book", "sub-7", `{"title":"Emma"}`, http.StatusForbidden},
		{"regular updates", http.MethodPatch, "/api/v1/book/1", "sub-7", `{"title":"x"}`, http.StatusForbidden},
		{"regular deletes", http.MethodDelete, "/api/v1/book/1", "sub-7", "", http.StatusForbidden},
		{"admin creates", http.MethodPost, "/api/v1/book", "sub-admin", `{"title":"Emma"}`, http.StatusCreated},
		{"admin updates", http.MethodPatch, "/api/v1/book/1", "sub-admin", `{"title":"Dune II"}`, http.StatusOK},
		{"admin deletes", http.MethodDelete, "/api/v1/book/1", "sub-admin", "", http.StatusNoContent},
		{"admin reads deleted", http.MethodGet, "/api/v1/book/1", "sub-admin", "", http.StatusNotFound},
	}
	for _, tt := range tests {
		code, body := s.do(tt.method, tt.path, tt.sub, tt.body)
		if code != tt.want {
			t.Errorf("%s: status %d, want %d (body %s)", tt.name, code, tt.want, body)
		}
	}
}

func TestGenreAndUserPermissions(t *testing.T) {
	s := newTestServer(t)

	code, body := s.do(http.MethodPost, "/api/v1/genre", "sub-admin", `{"name":"Fantasy"}`)
	if code != http.StatusCreated {
		t.Fatalf("admin creates genre: %d %s", code, body)
	}
	if code, _ := s.do(http.MethodPatch, "/api/v1/genre/1", "sub-7", `{"name":"High Fantasy"}`); code != http.StatusOK {
		t.Errorf("regular updates genre: %d", code)
	}
	if code, _ := s.do(http.MethodDelete, "/api/v1/genre/1", "sub-7", ""); code != http.StatusForbidden {
		t.Errorf("regular deletes genre: %d", code)
	}
	if code, _ := s.do(http.MethodDelete, "/api/v1/user/8", "sub-7", ""); code != http.StatusForbidden {
		t.Errorf("regular deletes user: %d", code)
	}
	if code, _ := s.do(http.MethodDelete, "/api/v1/user/8", "sub-admin", ""); code != http.StatusNoContent {
		t.Errorf("admin deletes user: %d", code)
	}
	if code, _ := s.do(http.MethodGet, "/api/v1/user?page[size]=1", "sub-7", ""); code != http.StatusOK {
		t.Errorf("regular lists users: %d", code)
	}
}

func TestNewApp_UnregisteredPolicy(t *testing.T) {
	rc, err := policy.NewRouterConfig(dbtest.New(t), zerolog.Nop(), time.Now())
	if err != nil {
		t.Fatal(err)
	}
	rc.Registry = gate.NewRegistry()
	rc.Guard = policy.NewGuard(rc.Registry, zerolog.Nop())
	verifier, _ := auth.NewVerifier(auth.Config{Secret: testSecret})

	_, err = NewApp(rc, verifier, zerolog.Nop())
	if !errors.Is(err, gate.ErrHandlerNotRegistered) {
		t.Errorf("NewApp() error = %v, want ErrHandlerNotRegistered", err)
	}
}
