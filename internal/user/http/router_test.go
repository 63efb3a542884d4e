package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/messagely/backend/internal/common/clock"
	commoncrypto "github.com/messagely/backend/internal/common/crypto"
	commonerrors "github.com/messagely/backend/internal/common/errors"
	"github.com/messagely/backend/internal/common/jwtverify"
	"github.com/messagely/backend/internal/common/logger"
	"github.com/messagely/backend/internal/user/domain"
	"github.com/messagely/backend/internal/user/service"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type memoryUserRepo struct {
	users map[string]domain.User
}

func (m *memoryUserRepo) Create(ctx context.Context, user domain.User) error {
	if _, ok := m.users[user.Username]; ok {
		return commonerrors.ErrUsernameAlreadyExists
	}
	m.users[user.Username] = user
	return nil
}

func (m *memoryUserRepo) FindByUsername(ctx context.Context, username string) (domain.User, error) {
	user, ok := m.users[username]
	if !ok {
		return domain.User{}, commonerrors.ErrUserNotFound
	}
	return user, nil
}

func (m *memoryUserRepo) UpdateLastLogin(ctx context.Context, username string, at time.Time) error {
	user, ok := m.users[username]
	if !ok {
		return commonerrors.ErrUserNotFound
	}
	user.LastLoginAt = at
	m.users[username] = user
	return nil
}

func (m *memoryUserRepo) ListSummaries(ctx context.Context) ([]domain.Summary, error) {
	out := make([]domain.Summary, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, u.Summary())
	}
	return out, nil
}

func setupServer(t *testing.T) *httptest.Server {
	t.Helper()

	log, err := logger.New("", "test", "critical")
	if err != nil {
		t.Fatalf("failed to build logger: %v", err)
	}

	repo := &memoryUserRepo{users: map[string]domain.User{}}
	clk := clock.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	hasher := commoncrypto.NewBcryptHasher(bcrypt.MinCost)
	directory := service.NewDirectory(repo, hasher, clk, log)

	handler := NewHandler(directory, testSecret, time.Hour, 5*time.Second, log)

	mux := http.NewServeMux()
	handler.Register(mux, jwtverify.Middleware(testSecret, log))

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return srv
}

func postJSON(t *testing.T, url, body string) *http.Response {
	t.Helper()

	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp
}

func registerAlice(t *testing.T, srv *httptest.Server) string {
	t.Helper()

	resp := postJSON(t, srv.URL+"/api/auth/register",
		`{"username":"alice","password":"secret","first_name":"Alice","last_name":"Anderson","phone":"+15550001"}`)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	var body tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode token response: %v", err)
	}
	if body.Token == "" {
		t.Fatal("expected a token in register response")
	}
	return body.Token
}

func TestRegister_DuplicateUsername(t *testing.T) {
	srv := setupServer(t)
	registerAlice(t, srv)

	resp := postJSON(t, srv.URL+"/api/auth/register",
		`{"username":"alice","password":"other","first_name":"Alice","last_name":"Again","phone":"+15550009"}`)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusConflict {
		t.Errorf("expected 409, got %d", resp.StatusCode)
	}
}

func TestRegister_MissingFields(t *testing.T) {
	srv := setupServer(t)

	resp := postJSON(t, srv.URL+"/api/auth/register", `{"username":"alice","password":"secret"}`)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}
}

func TestLogin(t *testing.T) {
	srv := setupServer(t)
	registerAlice(t, srv)

	for _, tc := range []struct {
		name string
		body string
		want int
	}{
		{"valid credentials", `{"username":"alice","password":"secret"}`, http.StatusOK},
		{"wrong password", `{"username":"alice","password":"nope"}`, http.StatusUnauthorized},
		{"unknown user", `{"username":"ghost","password":"secret"}`, http.StatusUnauthorized},
	} {
		t.Run(tc.name, func(t *testing.T) {
			resp := postJSON(t, srv.URL+"/api/auth/login", tc.body)
			defer resp.Body.Close()

			if resp.StatusCode != tc.want {
				t.Errorf("expected %d, got %d", tc.want, resp.StatusCode)
			}
		})
	}
}

func TestGetProfile_OwnerOnly(t *testing.T) {
	srv := setupServer(t)
	token := registerAlice(t, srv)

	get := func(token string) *http.Response {
		req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/users/alice", nil)
		if err != nil {
			t.Fatalf("failed to build request: %v", err)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		return resp
	}

	anonymous := get("")
	anonymous.Body.Close()
	if anonymous.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401 without token, got %d", anonymous.StatusCode)
	}

	own := get(token)
	defer own.Body.Close()
	if own.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for owner, got %d", own.StatusCode)
	}

	var body struct {
		User struct {
			Username string    `json:"username"`
			JoinAt   time.Time `json:"join_at"`
		} `json:"user"`
	}
	if err := json.NewDecoder(own.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode profile: %v", err)
	}
	if body.User.Username != "alice" || body.User.JoinAt.IsZero() {
		t.Errorf("unexpected profile %+v", body.User)
	}

	// Another authenticated user may not read the profile.
	resp := postJSON(t, srv.URL+"/api/auth/register",
		`{"username":"bob","password":"secret","first_name":"Bob","last_name":"Brown","phone":"+15550002"}`)
	var bobToken tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&bobToken); err != nil {
		t.Fatalf("failed to decode token response: %v", err)
	}
	resp.Body.Close()

	other := get(bobToken.Token)
	other.Body.Close()
	if other.StatusCode != http.StatusForbidden {
		t.Errorf("expected 403 for other user, got %d", other.StatusCode)
	}
}

func TestListUsers(t *testing.T) {
	srv := setupServer(t)
	token := registerAlice(t, srv)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/api/users", nil)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body struct {
		Users []userSummaryResponse `json:"users"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode listing: %v", err)
	}
	if len(body.Users) != 1 || body.Users[0].Username != "alice" {
		t.Errorf("unexpected users %+v", body.Users)
	}
}
