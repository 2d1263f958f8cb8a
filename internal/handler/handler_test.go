package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wb-go/wbf/ginext"

	"clubhub/internal/api/api"
	"clubhub/internal/auth"
	"clubhub/internal/repo/memrepo"
	"clubhub/internal/service"
)

type envelope struct {
	Status string `json:"status"`
	Error  *struct {
		Code   string `json:"code"`
		Desc   string `json:"desc"`
		Fields []struct {
			Field string `json:"field"`
			Error string `json:"error"`
		} `json:"fields"`
	} `json:"error"`
	Data json.RawMessage `json:"data"`
}

type server struct {
	t   *testing.T
	app *ginext.Engine
}

func newServer(t *testing.T) *server {
	t.Helper()
	log := zerolog.Nop()
	svc := service.NewService(memrepo.New(), &log, nil, auth.NewIssuer("test-secret", "clubhub", time.Hour), service.Options{
		AdminEmails: []string{"admin@example.com"},
	})
	return &server{t: t, app: api.NewRouters(&api.Routers{Service: svc, Logger: &log})}
}

func (s *server) do(method, path, token string, body any) (int, envelope) {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.app.ServeHTTP(rec, req)

	var env envelope
	require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec.Code, env
}

func (s *server) login(name, email string) string {
	s.t.Helper()
	code, _ := s.do(http.MethodPost, "/v1/auth/signup", "", map[string]string{
		"name": name, "email": email, "password": "password123",
	})
	require.Equal(s.t, http.StatusCreated, code)

	code, env := s.do(http.MethodPost, "/v1/auth/login", "", map[string]string{
		"email": email, "password": "password123",
	})
	require.Equal(s.t, http.StatusOK, code)
	var out struct {
		Token string `json:"token"`
	}
	require.NoError(s.t, json.Unmarshal(env.Data, &out))
	return out.Token
}

func (s *server) createEvent(token string, body map[string]any) int64 {
	s.t.Helper()
	code, env := s.do(http.MethodPost, "/v1/admin/events", token, body)
	require.Equal(s.t, http.StatusCreated, code, "%+v", env.Error)
	var out struct {
		ID int64 `json:"id"`
	}
	require.NoError(s.t, json.Unmarshal(env.Data, &out))
	return out.ID
}

func path(format string, id int64) string {
	return "/v1/events/" + strconv.FormatInt(id, 10) + format
}

func days(n int) time.Time {
	return time.Now().UTC().AddDate(0, 0, n)
}

func TestRegistrationFlow(t *testing.T) {
	s := newServer(t)
	admin := s.login("Admin", "admin@example.com")
	member := s.login("Ann Lee", "ann@example.com")

	id := s.createEvent(admin, map[string]any{
		"title":                 "Hackathon",
		"type":                  "competition",
		"date":                  days(14),
		"registration_required": true,
		"registration_deadline": days(7),
		"venue":                 "Hall A",
		"city":                  "Pune",
	})

	code, env := s.do(http.MethodGet, path("", id), "", nil)
	require.Equal(t, http.StatusOK, code)
	var view struct {
		FullLocation string `json:"full_location"`
		Action       struct {
			Action string `json:"action"`
		} `json:"action"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.Equal(t, "Hall A, Pune", view.FullLocation)
	assert.Equal(t, "login-to-register", view.Action.Action)

	code, _ = s.do(http.MethodPost, path("/register", id), "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, env = s.do(http.MethodPost, path("/register", id), member, nil)
	require.Equal(t, http.StatusCreated, code)
	var reg struct {
		ID     int64  `json:"id"`
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &reg))
	assert.Equal(t, "pending", reg.Status)

	code, env = s.do(http.MethodPost, path("/register", id), member, map[string]string{"phone": "+1 555 0100"})
	assert.Equal(t, http.StatusConflict, code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "ALREADY_REGISTERED", env.Error.Code)
	var existing struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &existing))
	assert.Equal(t, reg.ID, existing.ID)

	code, env = s.do(http.MethodGet, path("", id), member, nil)
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(env.Data, &view))
	assert.Equal(t, "none", view.Action.Action)

	code, env = s.do(http.MethodGet, "/v1/me/registrations", member, nil)
	require.Equal(t, http.StatusOK, code)
	var mine []struct {
		EventID int64 `json:"event_id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &mine))
	require.Len(t, mine, 1)
	assert.Equal(t, id, mine[0].EventID)
}

func TestSubmitErrors(t *testing.T) {
	s := newServer(t)
	admin := s.login("Admin", "admin@example.com")
	member := s.login("Ann Lee", "ann@example.com")

	id := s.createEvent(admin, map[string]any{
		"title":                 "Design Sprint",
		"status":                "ongoing",
		"date":                  days(-1),
		"submission_required":   true,
		"registration_deadline": days(3),
	})

	code, env := s.do(http.MethodPost, path("/submit", id), member, map[string]string{
		"title": "Poster", "main_file_url": "files/poster.pdf",
	})
	assert.Equal(t, http.StatusBadRequest, code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "FIELD_INCORRECT", env.Error.Code)
	require.Len(t, env.Error.Fields, 1)
	assert.Equal(t, "main_file_url", env.Error.Fields[0].Field)

	code, env = s.do(http.MethodPost, path("/submit", id), member, map[string]string{
		"title": "Poster", "main_file_url": "https://example.com/poster.pdf",
	})
	assert.Equal(t, http.StatusBadRequest, code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "REGISTRATION_REQUIRED", env.Error.Code)

	code, _ = s.do(http.MethodPost, path("/register", id), member, nil)
	require.Equal(t, http.StatusCreated, code)

	code, env = s.do(http.MethodPost, path("/submit", id), member, map[string]string{
		"title": "Poster", "main_file_url": "https://example.com/poster.pdf",
	})
	require.Equal(t, http.StatusCreated, code)
	var out struct {
		Submission struct {
			Status string `json:"status"`
		} `json:"submission"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &out))
	assert.Equal(t, "submitted", out.Submission.Status)

	code, env = s.do(http.MethodPost, path("/submit", id), member, map[string]string{
		"title": "Poster v2", "main_file_url": "https://example.com/poster2.pdf",
	})
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "ALREADY_SUBMITTED", env.Error.Code)
}

func TestAdminGuard(t *testing.T) {
	s := newServer(t)
	member := s.login("Ann Lee", "ann@example.com")
	admin := s.login("Admin", "admin@example.com")

	body := map[string]any{"title": "Talk", "date": days(3)}
	code, env := s.do(http.MethodPost, "/v1/admin/events", member, body)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "FORBIDDEN", env.Error.Code)

	code, _ = s.do(http.MethodPost, "/v1/admin/events", "", body)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = s.do(http.MethodPost, "/v1/admin/events", "not-a-token", body)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, env = s.do(http.MethodPost, "/v1/admin/events", admin, map[string]any{"type": "party", "date": days(3)})
	assert.Equal(t, http.StatusBadRequest, code)
	var fields []string
	for _, f := range env.Error.Fields {
		fields = append(fields, f.Field)
	}
	assert.ElementsMatch(t, []string{"title", "type"}, fields)
}

func TestNotFound(t *testing.T) {
	s := newServer(t)
	member := s.login("Ann Lee", "ann@example.com")

	code, env := s.do(http.MethodGet, "/v1/events/42", "", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "EVENT_NOT_FOUND", env.Error.Code)

	code, env = s.do(http.MethodPost, "/v1/events/42/register", member, nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "EVENT_NOT_FOUND", env.Error.Code)

	code, env = s.do(http.MethodGet, "/v1/events/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "FIELD_INCORRECT", env.Error.Code)

	code, env = s.do(http.MethodGet, "/v1/content/poems", "", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "COLLECTION_NOT_FOUND", env.Error.Code)
}

func TestContentAndSettings(t *testing.T) {
	s := newServer(t)
	admin := s.login("Admin", "admin@example.com")

	code, env := s.do(http.MethodPost, "/v1/admin/content/member", admin, map[string]any{
		"data": map[string]any{"name": "Ann Lee", "position": "President", "order": 1},
	})
	require.Equal(t, http.StatusCreated, code, "%+v", env.Error)

	code, env = s.do(http.MethodGet, "/v1/content/member", "", nil)
	require.Equal(t, http.StatusOK, code)
	var docs []struct {
		Kind string `json:"kind"`
		Data struct {
			Position string `json:"position"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &docs))
	require.Len(t, docs, 1)
	assert.Equal(t, "President", docs[0].Data.Position)

	code, env = s.do(http.MethodPatch, "/v1/admin/settings", admin, map[string]any{
		"site_name":            "Art Club",
		"announcement_enabled": true,
	})
	require.Equal(t, http.StatusOK, code, "%+v", env.Error)

	code, env = s.do(http.MethodGet, "/v1/settings", "", nil)
	require.Equal(t, http.StatusOK, code)
	var settings struct {
		SiteName     string `json:"site_name"`
		Announcement struct {
			Enabled bool `json:"enabled"`
		} `json:"announcement"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &settings))
	assert.Equal(t, "Art Club", settings.SiteName)
	assert.True(t, settings.Announcement.Enabled)

	code, _ = s.do(http.MethodPost, "/v1/contact", "", map[string]string{"name": "Bob", "email": "bob@example.com", "message": "Hi"})
	assert.Equal(t, http.StatusCreated, code)
	code, env = s.do(http.MethodGet, "/v1/admin/contacts", admin, nil)
	require.Equal(t, http.StatusOK, code)
	var msgs []json.RawMessage
	require.NoError(t, json.Unmarshal(env.Data, &msgs))
	assert.Len(t, msgs, 1)
}

func TestLoginFailures(t *testing.T) {
	s := newServer(t)
	s.login("Ann Lee", "ann@example.com")

	code, env := s.do(http.MethodPost, "/v1/auth/login", "", map[string]string{"email": "ann@example.com", "password": "nope-nope"})
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "INVALID_CREDENTIALS", env.Error.Code)

	code, env = s.do(http.MethodPost, "/v1/auth/signup", "", map[string]string{"name": "Ann", "email": "ann@example.com", "password": "password123"})
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "EMAIL_TAKEN", env.Error.Code)
}
