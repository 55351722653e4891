package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"minbar/internal/models"
	"minbar/internal/reqctx"
	"minbar/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "handler-test-secret-long-enough-32"

type envelope struct {
	Data   json.RawMessage   `json:"data"`
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields"`
}

func readEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

func jsonRequest(method, target, body string) *http.Request {
	r := httptest.NewRequest(method, target, strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	return r
}

func newAuthHandler(store *userStore) (*AuthHandler, *services.AuthService) {
	svc := services.NewAuthService(store, testSecret, time.Hour)
	return NewAuthHandler(svc, "session", true), svc
}

func TestRegister(t *testing.T) {
	store := newUserStore()
	h, _ := newAuthHandler(store)

	rec := httptest.NewRecorder()
	h.Register(rec, jsonRequest(http.MethodPost, "/api/register", `{"email":"a@example.com","password":"secret12"}`))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp models.RegisterResponse
	require.NoError(t, json.Unmarshal(readEnvelope(t, rec).Data, &resp))
	assert.Equal(t, "a@example.com", resp.Email)
	assert.NotZero(t, resp.ID)
	assert.NotContains(t, rec.Body.String(), "password")

	rec = httptest.NewRecorder()
	h.Register(rec, jsonRequest(http.MethodPost, "/api/register", `{"email":"a@example.com","password":"other123"}`))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Len(t, store.users, 1)
}

func TestRegister_ValidationErrors(t *testing.T) {
	h, _ := newAuthHandler(newUserStore())

	rec := httptest.NewRecorder()
	h.Register(rec, jsonRequest(http.MethodPost, "/api/register", `{"email":"nope","password":"1"}`))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	env := readEnvelope(t, rec)
	assert.Contains(t, env.Fields, "email")
	assert.Contains(t, env.Fields, "password")

	rec = httptest.NewRecorder()
	h.Register(rec, jsonRequest(http.MethodPost, "/api/register", `{"email":`))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, readEnvelope(t, rec).Fields, "body")

	// 40 Arabic letters are 80 bytes, past what bcrypt accepts.
	rec = httptest.NewRecorder()
	h.Register(rec, jsonRequest(http.MethodPost, "/api/register", `{"email":"ar@example.com","password":"`+strings.Repeat("س", 40)+`"}`))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "must be at most 72 bytes", readEnvelope(t, rec).Fields["password"])
}

func TestLogin_SetsCookie(t *testing.T) {
	store := newUserStore()
	h, svc := newAuthHandler(store)
	_, err := svc.Register(context.Background(), &models.RegisterRequest{Email: "a@example.com", Password: "secret12"})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	h.Login(rec, jsonRequest(http.MethodPost, "/api/auth/login", `{"email":"a@example.com","password":"secret12"}`))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp models.LoginResponse
	require.NoError(t, json.Unmarshal(readEnvelope(t, rec).Data, &resp))
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "a@example.com", resp.User.Email)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]
	assert.Equal(t, "session", c.Name)
	assert.Equal(t, resp.Token, c.Value)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)

	assert.NotNil(t, svc.ParseSession(c.Value))
}

func TestLogin_FailuresLookTheSame(t *testing.T) {
	store := newUserStore()
	h, svc := newAuthHandler(store)
	_, err := svc.Register(context.Background(), &models.RegisterRequest{Email: "a@example.com", Password: "secret12"})
	require.NoError(t, err)

	wrongPw := httptest.NewRecorder()
	h.Login(wrongPw, jsonRequest(http.MethodPost, "/api/auth/login", `{"email":"a@example.com","password":"wrong123"}`))
	unknown := httptest.NewRecorder()
	h.Login(unknown, jsonRequest(http.MethodPost, "/api/auth/login", `{"email":"ghost@example.com","password":"wrong123"}`))

	assert.Equal(t, http.StatusUnauthorized, wrongPw.Code)
	assert.Equal(t, wrongPw.Code, unknown.Code)
	assert.Equal(t, wrongPw.Body.String(), unknown.Body.String())
	assert.Empty(t, wrongPw.Result().Cookies())
}

func TestLogout_ClearsCookie(t *testing.T) {
	h, _ := newAuthHandler(newUserStore())

	rec := httptest.NewRecorder()
	h.Logout(rec, httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "", cookies[0].Value)
	assert.Equal(t, -1, cookies[0].MaxAge)
}

func TestSession(t *testing.T) {
	h, _ := newAuthHandler(newUserStore())

	rec := httptest.NewRecorder()
	h.Session(rec, httptest.NewRequest(http.MethodGet, "/api/auth/session", nil))
	assert.JSONEq(t, `{"session":null}`, string(readEnvelope(t, rec).Data))

	sess := &models.Session{UserID: 3, Email: "a@example.com", ExpiresAt: time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)}
	r := httptest.NewRequest(http.MethodGet, "/api/auth/session", nil)
	r = r.WithContext(reqctx.WithSession(r.Context(), sess))
	rec = httptest.NewRecorder()
	h.Session(rec, r)
	assert.JSONEq(t, `{"session":{"id":3,"email":"a@example.com","expires_at":"2030-01-01T00:00:00Z"}}`, string(readEnvelope(t, rec).Data))
}

func TestMe_AndUpdateMe(t *testing.T) {
	store := newUserStore()
	h, svc := newAuthHandler(store)
	u, err := svc.Register(context.Background(), &models.RegisterRequest{Email: "a@example.com", Password: "secret12"})
	require.NoError(t, err)

	withSession := func(r *http.Request) *http.Request {
		return r.WithContext(reqctx.WithSession(r.Context(), &models.Session{UserID: u.ID, Email: u.Email}))
	}

	rec := httptest.NewRecorder()
	h.Me(rec, withSession(httptest.NewRequest(http.MethodGet, "/api/admin/me", nil)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"role":"ADMIN"`)
	assert.NotContains(t, rec.Body.String(), "password")

	rec = httptest.NewRecorder()
	h.UpdateMe(rec, withSession(jsonRequest(http.MethodPatch, "/api/admin/me", `{"name":"Bilal"}`)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Bilal", *store.users[u.ID].Name)

	rec = httptest.NewRecorder()
	h.UpdateMe(rec, withSession(jsonRequest(http.MethodPatch, "/api/admin/me", `{"email":"moved@example.com"}`)))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, readEnvelope(t, rec).Fields, "currentPassword")
	assert.Equal(t, "a@example.com", store.users[u.ID].Email)

	rec = httptest.NewRecorder()
	h.UpdateMe(rec, withSession(jsonRequest(http.MethodPatch, "/api/admin/me", `{"email":"moved@example.com","currentPassword":"secret12"}`)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "moved@example.com", store.users[u.ID].Email)

	rec = httptest.NewRecorder()
	h.Me(rec, httptest.NewRequest(http.MethodGet, "/api/admin/me", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestListUsers_Paginates(t *testing.T) {
	store := newUserStore()
	h, svc := newAuthHandler(store)
	for _, e := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		_, err := svc.Register(context.Background(), &models.RegisterRequest{Email: e, Password: "secret12"})
		require.NoError(t, err)
	}

	rec := httptest.NewRecorder()
	h.ListUsers(rec, httptest.NewRequest(http.MethodGet, "/api/admin/users?page=2&page_size=2", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var page models.Page[*models.User]
	require.NoError(t, json.Unmarshal(readEnvelope(t, rec).Data, &page))
	assert.Equal(t, 3, page.Total)
	assert.Equal(t, 2, page.Page)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "c@example.com", page.Items[0].Email)
}
