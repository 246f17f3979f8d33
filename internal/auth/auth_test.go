package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patric-chuzhbe/shortie/internal/db/memorystorage"
	"github.com/patric-chuzhbe/shortie/internal/hasher"
	"github.com/patric-chuzhbe/shortie/internal/session"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	db, err := memorystorage.New()
	require.NoError(t, err)

	sessions, err := session.New("shortie_session", []byte("test-signing-secret"), time.Hour, false)
	require.NoError(t, err)

	// Low bcrypt cost keeps the test suite fast.
	return New(db, hasher.New(4), sessions)
}

func TestRegisterThenLoginReturnsSameUser(t *testing.T) {
	theService := newTestService(t)

	registered, err := theService.Register(context.Background(), "johndoe", "hunter22")
	require.NoError(t, err)
	require.NotEmpty(t, registered.ID)

	loggedIn, err := theService.Login(context.Background(), "johndoe", "hunter22")
	require.NoError(t, err)
	require.NotNil(t, loggedIn)
	assert.Equal(t, registered.ID, loggedIn.ID)
	assert.Equal(t, "johndoe", loggedIn.Username)
}

func TestLoginFailures(t *testing.T) {
	theService := newTestService(t)

	_, err := theService.Register(context.Background(), "johndoe", "hunter22")
	require.NoError(t, err)

	usr, err := theService.Login(context.Background(), "johndoe", "wrong-password")
	require.NoError(t, err)
	assert.Nil(t, usr, "a wrong password should not be an error, just no user")

	usr, err = theService.Login(context.Background(), "nosuchuser", "hunter22")
	require.NoError(t, err)
	assert.Nil(t, usr, "an unknown username reads the same as a wrong password")
}

func TestRegisterDoesNotStorePlaintext(t *testing.T) {
	theService := newTestService(t)

	registered, err := theService.Register(context.Background(), "johndoe", "hunter22")
	require.NoError(t, err)

	usr, found, err := theService.GetUser(context.Background(), "johndoe")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, registered.ID, usr.ID)
	assert.NotEmpty(t, usr.PasswordHash)
	assert.NotEqual(t, "hunter22", usr.PasswordHash)
}

func TestGetUserID(t *testing.T) {
	theService := newTestService(t)

	anonymous := httptest.NewRequest(http.MethodGet, "/login", nil)
	assert.Equal(t, "", theService.GetUserID(anonymous))
}

func TestRequireUserIDRedirectsAnonymous(t *testing.T) {
	theService := newTestService(t)

	request := httptest.NewRequest(http.MethodGet, "/shorten", nil)
	userID, redirectTo := theService.RequireUserID(request)
	assert.Equal(t, "", userID)
	assert.Equal(t, "/login?redirectTo=%2Fshorten", redirectTo)
}

func TestCreateUserSessionAndLogout(t *testing.T) {
	theService := newTestService(t)

	registered, err := theService.Register(context.Background(), "johndoe", "hunter22")
	require.NoError(t, err)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodPost, "/login", nil)
	err = theService.CreateUserSession(recorder, request, registered.ID, "/shorten")
	require.NoError(t, err)

	response := recorder.Result()
	assert.Equal(t, http.StatusFound, response.StatusCode)
	assert.Equal(t, "/shorten", response.Header.Get("Location"))

	cookies := response.Cookies()
	require.Len(t, cookies, 1)

	// The issued cookie authenticates a subsequent request.
	authedRequest := httptest.NewRequest(http.MethodGet, "/shorten", nil)
	authedRequest.AddCookie(cookies[0])
	userID, redirectTo := theService.RequireUserID(authedRequest)
	assert.Equal(t, registered.ID, userID)
	assert.Equal(t, "", redirectTo)

	// Logout clears the cookie and sends the browser to the login page.
	logoutRecorder := httptest.NewRecorder()
	theService.Logout(logoutRecorder, httptest.NewRequest(http.MethodPost, "/logout", nil))
	logoutResponse := logoutRecorder.Result()
	assert.Equal(t, http.StatusFound, logoutResponse.StatusCode)
	assert.Equal(t, "/login", logoutResponse.Header.Get("Location"))

	logoutCookies := logoutResponse.Cookies()
	require.Len(t, logoutCookies, 1)
	assert.Equal(t, "", logoutCookies[0].Value)
	assert.Negative(t, logoutCookies[0].MaxAge)

	// A browser that honored the clearing cookie is anonymous again.
	anonymous := httptest.NewRequest(http.MethodGet, "/shorten", nil)
	userID, redirectTo = theService.RequireUserID(anonymous)
	assert.Equal(t, "", userID)
	assert.Equal(t, "/login?redirectTo=%2Fshorten", redirectTo)
}
