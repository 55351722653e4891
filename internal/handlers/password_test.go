package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"minbar/internal/models"
	"minbar/internal/services"
	"minbar/internal/utils"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type passwordFixture struct {
	store    *userStore
	notifier *captureNotifier
	h        *PasswordHandler
	user     *models.User
}

func newPasswordFixture(t *testing.T) *passwordFixture {
	t.Helper()
	store := newUserStore()
	hash, err := utils.HashPassword("old-secret")
	require.NoError(t, err)
	u := &models.User{Email: "imam@example.com", PasswordHash: hash, Role: models.RoleAdmin}
	require.NoError(t, store.CreateUser(context.Background(), u))

	n := &captureNotifier{}
	svc := services.NewPasswordService(store, n, 24*time.Hour, time.Second)
	return &passwordFixture{store: store, notifier: n, h: NewPasswordHandler(svc), user: u}
}

func withVars(r *http.Request, vars map[string]string) *http.Request {
	return mux.SetURLVars(r, vars)
}

func TestIssueForUser_BadID(t *testing.T) {
	f := newPasswordFixture(t)

	for _, id := range []string{"abc", "0", "-4", "1.5"} {
		rec := httptest.NewRecorder()
		f.h.IssueForUser(rec, withVars(httptest.NewRequest(http.MethodPost, "/", nil), map[string]string{"id": id}))
		assert.Equal(t, http.StatusBadRequest, rec.Code, id)
	}
	assert.Empty(t, f.notifier.token)
}

func TestIssueForUser_SameAnswerForUnknownUser(t *testing.T) {
	f := newPasswordFixture(t)

	known := httptest.NewRecorder()
	f.h.IssueForUser(known, withVars(httptest.NewRequest(http.MethodPost, "/", nil), map[string]string{"id": "1"}))
	unknown := httptest.NewRecorder()
	f.h.IssueForUser(unknown, withVars(httptest.NewRequest(http.MethodPost, "/", nil), map[string]string{"id": "999"}))

	assert.Equal(t, http.StatusOK, known.Code)
	assert.Equal(t, known.Code, unknown.Code)
	assert.Equal(t, known.Body.String(), unknown.Body.String())
	assert.Equal(t, "imam@example.com", f.notifier.email)
	assert.NotNil(t, f.store.users[f.user.ID].ResetToken)
}

func TestIssueForUser_DeliveryFailure(t *testing.T) {
	f := newPasswordFixture(t)
	f.notifier.err = errors.New("smtp down")

	rec := httptest.NewRecorder()
	f.h.IssueForUser(rec, withVars(httptest.NewRequest(http.MethodPost, "/", nil), map[string]string{"id": "1"}))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, services.ErrResetDelivery.Error(), readEnvelope(t, rec).Error)
	assert.Nil(t, f.store.users[f.user.ID].ResetToken)
	assert.Nil(t, f.store.users[f.user.ID].ResetTokenExpiry)
}

func TestForgot(t *testing.T) {
	f := newPasswordFixture(t)

	rec := httptest.NewRecorder()
	f.h.Forgot(rec, jsonRequest(http.MethodPost, "/api/password/forgot", `{"email":"imam@example.com"}`))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, f.notifier.token)

	ghost := httptest.NewRecorder()
	f.h.Forgot(ghost, jsonRequest(http.MethodPost, "/api/password/forgot", `{"email":"ghost@example.com"}`))
	assert.Equal(t, rec.Code, ghost.Code)
	assert.Equal(t, rec.Body.String(), ghost.Body.String())

	bad := httptest.NewRecorder()
	f.h.Forgot(bad, jsonRequest(http.MethodPost, "/api/password/forgot", `{"email":"not-an-email"}`))
	assert.Equal(t, http.StatusBadRequest, bad.Code)
}

func TestVerifyAndRedeem(t *testing.T) {
	f := newPasswordFixture(t)

	rec := httptest.NewRecorder()
	f.h.IssueForUser(rec, withVars(httptest.NewRequest(http.MethodPost, "/", nil), map[string]string{"id": "1"}))
	require.Equal(t, http.StatusOK, rec.Code)
	token := f.notifier.token
	vars := map[string]string{"token": token}

	rec = httptest.NewRecorder()
	f.h.Verify(rec, withVars(httptest.NewRequest(http.MethodGet, "/", nil), vars))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(readEnvelope(t, rec).Data), `"valid":true`)

	rec = httptest.NewRecorder()
	f.h.Redeem(rec, withVars(jsonRequest(http.MethodPost, "/", `{"password":"new-secret","confirmPassword":"different"}`), vars))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, readEnvelope(t, rec).Fields, "confirmPassword")

	long := strings.Repeat("س", 40)
	rec = httptest.NewRecorder()
	f.h.Redeem(rec, withVars(jsonRequest(http.MethodPost, "/", `{"password":"`+long+`","confirmPassword":"`+long+`"}`), vars))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "must be at most 72 bytes", readEnvelope(t, rec).Fields["password"])

	rec = httptest.NewRecorder()
	f.h.Redeem(rec, withVars(jsonRequest(http.MethodPost, "/", `{"password":"new-secret","confirmPassword":"new-secret"}`), vars))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, utils.CheckPasswordHash("new-secret", f.store.users[f.user.ID].PasswordHash))

	rec = httptest.NewRecorder()
	f.h.Redeem(rec, withVars(jsonRequest(http.MethodPost, "/", `{"password":"third-one","confirmPassword":"third-one"}`), vars))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, services.ErrInvalidResetToken.Error(), readEnvelope(t, rec).Error)

	rec = httptest.NewRecorder()
	f.h.Verify(rec, withVars(httptest.NewRequest(http.MethodGet, "/", nil), vars))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
