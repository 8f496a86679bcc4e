package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patric-chuzhbe/staffbook/internal/db/memorystorage"
	"github.com/patric-chuzhbe/staffbook/internal/user"
)

const testCookieName = "staffbook_session"

var testSigningKey = []byte("test-signing-key")

func newTestAuth(t *testing.T) (*Auth, *memorystorage.MemoryStorage) {
	t.Helper()
	db, err := memorystorage.New()
	require.NoError(t, err)
	return New(db, testCookieName, testSigningKey, time.Hour), db
}

func authedUserID(theAuth *Auth, request *http.Request) (string, int) {
	var userID string
	recorder := httptest.NewRecorder()

	handler := theAuth.AuthenticateUser(http.HandlerFunc(
		func(response http.ResponseWriter, request *http.Request) {
			userID, _ = UserIDFromContext(request.Context())
			response.WriteHeader(http.StatusOK)
		},
	))
	handler.ServeHTTP(recorder, request)

	return userID, recorder.Code
}

func TestIssueSessionThenAuthenticate(t *testing.T) {
	theAuth, db := newTestAuth(t)
	require.NoError(t, db.CreateUser(context.Background(), &user.User{ID: "u1", Email: "a@x.com"}))

	recorder := httptest.NewRecorder()
	require.NoError(t, theAuth.IssueSession(recorder, "u1"))

	cookies := recorder.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, testCookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	request := httptest.NewRequest(http.MethodGet, "/api/employees", nil)
	request.AddCookie(cookies[0])

	userID, status := authedUserID(theAuth, request)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "u1", userID)
}

func TestAuthenticateRejectsMissingCookie(t *testing.T) {
	theAuth, _ := newTestAuth(t)

	request := httptest.NewRequest(http.MethodGet, "/api/employees", nil)

	_, status := authedUserID(theAuth, request)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestAuthenticateRejectsGarbageToken(t *testing.T) {
	theAuth, _ := newTestAuth(t)

	request := httptest.NewRequest(http.MethodGet, "/api/employees", nil)
	request.AddCookie(&http.Cookie{Name: testCookieName, Value: "not-a-jwt"})

	_, status := authedUserID(theAuth, request)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestAuthenticateRejectsWrongSignature(t *testing.T) {
	theAuth, db := newTestAuth(t)
	require.NoError(t, db.CreateUser(context.Background(), &user.User{ID: "u1", Email: "a@x.com"}))

	foreignAuth := New(db, testCookieName, []byte("another-key"), time.Hour)
	tokenString, err := foreignAuth.BuildJWTString(&Claims{UserID: "u1"})
	require.NoError(t, err)

	request := httptest.NewRequest(http.MethodGet, "/api/employees", nil)
	request.AddCookie(&http.Cookie{Name: testCookieName, Value: tokenString})

	_, status := authedUserID(theAuth, request)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestAuthenticateRejectsExpiredToken(t *testing.T) {
	theAuth, db := newTestAuth(t)
	require.NoError(t, db.CreateUser(context.Background(), &user.User{ID: "u1", Email: "a@x.com"}))

	tokenString, err := theAuth.BuildJWTString(&Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
		UserID: "u1",
	})
	require.NoError(t, err)

	request := httptest.NewRequest(http.MethodGet, "/api/employees", nil)
	request.AddCookie(&http.Cookie{Name: testCookieName, Value: tokenString})

	_, status := authedUserID(theAuth, request)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestAuthenticateRejectsUnknownUser(t *testing.T) {
	theAuth, _ := newTestAuth(t)

	tokenString, err := theAuth.BuildJWTString(&Claims{UserID: "ghost"})
	require.NoError(t, err)

	request := httptest.NewRequest(http.MethodGet, "/api/employees", nil)
	request.AddCookie(&http.Cookie{Name: testCookieName, Value: tokenString})

	_, status := authedUserID(theAuth, request)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestClearSession(t *testing.T) {
	theAuth, _ := newTestAuth(t)

	recorder := httptest.NewRecorder()
	theAuth.ClearSession(recorder)

	cookies := recorder.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, testCookieName, cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Negative(t, cookies[0].MaxAge)
}
