package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCookieName = "shortie_session"

var testSecret = []byte("test-signing-secret")

func newTestStore(t *testing.T, maxAge time.Duration) *Store {
	t.Helper()
	store, err := New(testCookieName, testSecret, maxAge, false)
	require.NoError(t, err)
	return store
}

func requestWithCookie(value string) *http.Request {
	request := httptest.NewRequest(http.MethodGet, "/shorten", nil)
	request.AddCookie(&http.Cookie{Name: testCookieName, Value: value})
	return request
}

func TestNewRequiresSecret(t *testing.T) {
	_, err := New(testCookieName, nil, time.Hour, false)
	assert.ErrorIs(t, err, ErrEmptySecret)
}

func TestCreateReadRoundtrip(t *testing.T) {
	store := newTestStore(t, time.Hour)

	token, err := store.Create("some-user-id")
	require.NoError(t, err)

	assert.Equal(t, "some-user-id", store.Read(requestWithCookie(token)))
}

func TestReadMissingCookie(t *testing.T) {
	store := newTestStore(t, time.Hour)

	request := httptest.NewRequest(http.MethodGet, "/shorten", nil)
	assert.Equal(t, "", store.Read(request), "no cookie should read as the empty session")
}

func TestReadTamperedToken(t *testing.T) {
	store := newTestStore(t, time.Hour)

	token, err := store.Create("some-user-id")
	require.NoError(t, err)

	tampered := token[:len(token)-2] + "xx"
	assert.Equal(t, "", store.Read(requestWithCookie(tampered)))
}

func TestReadTokenSignedWithOtherSecret(t *testing.T) {
	otherStore, err := New(testCookieName, []byte("some other secret"), time.Hour, false)
	require.NoError(t, err)

	token, err := otherStore.Create("some-user-id")
	require.NoError(t, err)

	store := newTestStore(t, time.Hour)
	assert.Equal(t, "", store.Read(requestWithCookie(token)))
}

func TestReadExpiredToken(t *testing.T) {
	store := newTestStore(t, -time.Minute)

	token, err := store.Create("some-user-id")
	require.NoError(t, err)

	assert.Equal(t, "", store.Read(requestWithCookie(token)))
}

func TestSetCookieAttributes(t *testing.T) {
	maxAge := 30 * 24 * time.Hour
	store := newTestStore(t, maxAge)

	token, err := store.Create("some-user-id")
	require.NoError(t, err)

	recorder := httptest.NewRecorder()
	store.Set(recorder, token)

	cookies := recorder.Result().Cookies()
	require.Len(t, cookies, 1)
	cookie := cookies[0]
	assert.Equal(t, testCookieName, cookie.Name)
	assert.Equal(t, token, cookie.Value)
	assert.Equal(t, "/", cookie.Path)
	assert.Equal(t, int(maxAge.Seconds()), cookie.MaxAge)
	assert.True(t, cookie.HttpOnly)
	assert.False(t, cookie.Secure)
	assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
}

func TestSecureCookieInProduction(t *testing.T) {
	store, err := New(testCookieName, testSecret, time.Hour, true)
	require.NoError(t, err)

	recorder := httptest.NewRecorder()
	store.Set(recorder, "whatever")

	cookies := recorder.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.True(t, cookies[0].Secure)
}

func TestClear(t *testing.T) {
	store := newTestStore(t, time.Hour)

	recorder := httptest.NewRecorder()
	store.Clear(recorder)

	cookies := recorder.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "", cookies[0].Value)
	assert.Negative(t, cookies[0].MaxAge)
}
