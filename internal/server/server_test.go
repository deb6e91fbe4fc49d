package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"devconnector/internal/config"
	"devconnector/internal/github"
	"devconnector/internal/models"
	"devconnector/internal/testutil"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// repoListerStub is a stub for RepoLister.
type repoListerStub struct {
	reposFn func(context.Context, string) (json.RawMessage, error)
}

func (s *repoListerStub) Repos(ctx context.Context, username string) (json.RawMessage, error) {
	return s.reposFn(ctx, username)
}

func testConfig() *config.Config {
	return &config.Config{
		Port:         "0",
		Env:          "test",
		JWTSecret:    "test-secret-that-is-long-enough-123456",
		JWTExpiry:    time.Hour,
		GithubAPIURL: "http://127.0.0.1:0",
	}
}

func newTestServer(t *testing.T, rdb *redis.Client) (*Server, *fiber.App) {
	t.Helper()
	s, err := NewServerWithDeps(testConfig(), testutil.NewSQLiteDB(t), rdb)
	require.NoError(t, err)
	s.github = &repoListerStub{reposFn: func(context.Context, string) (json.RawMessage, error) {
		return nil, github.ErrNotFound
	}}
	return s, s.App()
}

type result struct {
	status int
	body   []byte
}

func (r result) decode(t *testing.T, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(r.body, dst), string(r.body))
}

func (r result) msg(t *testing.T) string {
	t.Helper()
	var out models.ErrorResponse
	r.decode(t, &out)
	return out.Msg
}

func (r result) errors(t *testing.T) []models.FieldError {
	t.Helper()
	var out models.ValidationResponse
	r.decode(t, &out)
	return out.Errors
}

func call(t *testing.T, app *fiber.App, method, path, token string, body any) result {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return result{status: resp.StatusCode, body: raw}
}

func register(t *testing.T, app *fiber.App, name, email string) string {
	t.Helper()
	res := call(t, app, http.MethodPost, "/api/users", "", fiber.Map{
		"name": name, "email": email, "password": "secret1",
	})
	require.Equal(t, http.StatusOK, res.status, string(res.body))
	var out struct {
		Token string `json:"token"`
	}
	res.decode(t, &out)
	require.NotEmpty(t, out.Token)
	return out.Token
}

func TestHealthChecks(t *testing.T) {
	_, app := newTestServer(t, nil)

	res := call(t, app, http.MethodGet, "/health/live", "", nil)
	assert.Equal(t, http.StatusOK, res.status)

	res = call(t, app, http.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, http.StatusOK, res.status)
	var out struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	res.decode(t, &out)
	assert.Equal(t, "healthy", out.Status)
	assert.Equal(t, "unavailable", out.Checks["redis"])
}

func TestUnknownRoute(t *testing.T) {
	_, app := newTestServer(t, nil)

	res := call(t, app, http.MethodGet, "/api/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, res.status)
}

func TestAuthFlow(t *testing.T) {
	_, app := newTestServer(t, nil)
	token := register(t, app, "Ada", "ada@example.com")

	t.Run("current user without password", func(t *testing.T) {
		res := call(t, app, http.MethodGet, "/api/auth", token, nil)
		require.Equal(t, http.StatusOK, res.status)
		var user map[string]any
		res.decode(t, &user)
		assert.Equal(t, "Ada", user["name"])
		assert.Equal(t, "ada@example.com", user["email"])
		assert.NotContains(t, user, "password")
	})

	t.Run("legacy token header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/auth", nil)
		req.Header.Set("x-auth-token", token)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("missing token", func(t *testing.T) {
		res := call(t, app, http.MethodGet, "/api/auth", "", nil)
		assert.Equal(t, http.StatusUnauthorized, res.status)
		assert.Equal(t, "No token, authorization denied", res.msg(t))
	})

	t.Run("duplicate registration", func(t *testing.T) {
		res := call(t, app, http.MethodPost, "/api/users", "", fiber.Map{
			"name": "Ada", "email": "ADA@example.com", "password": "secret1",
		})
		assert.Equal(t, http.StatusBadRequest, res.status)
		errs := res.errors(t)
		require.Len(t, errs, 1)
		assert.Equal(t, "User already exists", errs[0].Msg)
	})

	t.Run("registration validation", func(t *testing.T) {
		res := call(t, app, http.MethodPost, "/api/users", "", nil)
		assert.Equal(t, http.StatusBadRequest, res.status)
		assert.Len(t, res.errors(t), 3)
	})

	t.Run("password past bcrypt limit", func(t *testing.T) {
		res := call(t, app, http.MethodPost, "/api/users", "", fiber.Map{
			"name": "Long", "email": "long@example.com", "password": strings.Repeat("a", 80),
		})
		assert.Equal(t, http.StatusBadRequest, res.status)
		errs := res.errors(t)
		require.Len(t, errs, 1)
		assert.Equal(t, "password", errs[0].Param)
		assert.Equal(t, "Please enter a password with at most 72 bytes", errs[0].Msg)
	})

	t.Run("login", func(t *testing.T) {
		res := call(t, app, http.MethodPost, "/api/auth", "", fiber.Map{"email": "ada@example.com", "password": "secret1"})
		assert.Equal(t, http.StatusOK, res.status)

		wrong := call(t, app, http.MethodPost, "/api/auth", "", fiber.Map{"email": "ada@example.com", "password": "nope"})
		unknown := call(t, app, http.MethodPost, "/api/auth", "", fiber.Map{"email": "who@example.com", "password": "secret1"})
		assert.Equal(t, http.StatusBadRequest, wrong.status)
		assert.Equal(t, wrong.body, unknown.body)
		assert.Equal(t, "Invalid Credentials", wrong.errors(t)[0].Msg)
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/auth", bytes.NewReader([]byte("{")))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestRegisterRateLimitFollowsConfig(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	_, rdb := testutil.NewRedis(t)
	cfg := testConfig()
	cfg.Env = "production"
	s, err := NewServerWithDeps(cfg, testutil.NewSQLiteDB(t), rdb)
	require.NoError(t, err)
	app := s.App()

	for i := 0; i < 5; i++ {
		res := call(t, app, http.MethodPost, "/api/users", "", nil)
		require.Equal(t, http.StatusBadRequest, res.status, "attempt %d", i+1)
	}
	res := call(t, app, http.MethodPost, "/api/users", "", nil)
	assert.Equal(t, http.StatusTooManyRequests, res.status)
}

func TestGithubRepos(t *testing.T) {
	s, app := newTestServer(t, nil)

	var asked string
	s.github = &repoListerStub{reposFn: func(_ context.Context, username string) (json.RawMessage, error) {
		asked = username
		switch username {
		case "octocat":
			return json.RawMessage(`[{"name":"hello-world"}]`), nil
		case "down":
			return nil, errors.New("dial tcp: connection refused")
		default:
			return nil, github.ErrNotFound
		}
	}}

	res := call(t, app, http.MethodGet, "/api/profile/github/octocat", "", nil)
	assert.Equal(t, http.StatusOK, res.status)
	assert.JSONEq(t, `[{"name":"hello-world"}]`, string(res.body))
	assert.Equal(t, "octocat", asked)

	res = call(t, app, http.MethodGet, "/api/profile/github/ghost", "", nil)
	assert.Equal(t, http.StatusNotFound, res.status)
	assert.Equal(t, msgNoGithubProfile, res.msg(t))

	res = call(t, app, http.MethodGet, "/api/profile/github/-bad-", "", nil)
	assert.Equal(t, http.StatusNotFound, res.status)

	res = call(t, app, http.MethodGet, "/api/profile/github/down", "", nil)
	assert.Equal(t, http.StatusInternalServerError, res.status)
	assert.Equal(t, "Server Error", string(res.body))
}
