package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/ReplicantCoder9000/projectSoulSync/internal/auth"
	"github.com/ReplicantCoder9000/projectSoulSync/internal/config"
	"github.com/ReplicantCoder9000/projectSoulSync/internal/model"
	"github.com/ReplicantCoder9000/projectSoulSync/internal/store/gormstore"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	st, err := gormstore.New(db)
	require.NoError(t, err)

	srv := httptest.NewServer(NewRouter(st, config.NewForTesting(), zerolog.Nop()))
	t.Cleanup(func() {
		srv.Close()
		_ = st.Close()
	})
	return srv
}

// doJSON issues a request with an optional bearer token and decodes the
// response into a generic map.
func doJSON(t *testing.T, srv *httptest.Server, method, path, token string, body interface{}) (int, map[string]interface{}) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, srv.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func errMessage(t *testing.T, body map[string]interface{}) string {
	t.Helper()
	env, ok := body["error"].(map[string]interface{})
	require.True(t, ok, "expected error envelope, got %v", body)
	msg, _ := env["message"].(string)
	return msg
}

func register(t *testing.T, srv *httptest.Server, username, email string) string {
	t.Helper()
	status, body := doJSON(t, srv, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": username, "email": email, "password": "hunter22",
	})
	require.Equal(t, http.StatusCreated, status, "register %s: %v", username, body)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func createEntry(t *testing.T, srv *httptest.Server, token string, payload map[string]interface{}) map[string]interface{} {
	t.Helper()
	status, body := doJSON(t, srv, http.MethodPost, "/api/entries", token, payload)
	require.Equal(t, http.StatusCreated, status, "create entry: %v", body)
	entry, ok := body["entry"].(map[string]interface{})
	require.True(t, ok)
	return entry
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)
	status, body := doJSON(t, srv, http.MethodGet, "/api/health", "", nil)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "ok", body["status"])
}

func TestRegisterThenProfile(t *testing.T) {
	srv := newTestServer(t)
	token := register(t, srv, "alice", "a@x.com")

	status, body := doJSON(t, srv, http.MethodGet, "/api/auth/profile", token, nil)
	require.Equal(t, http.StatusOK, status)
	user := body["user"].(map[string]interface{})
	require.Equal(t, "alice", user["username"])
	require.Equal(t, "a@x.com", user["email"])
	_, leaked := user["passwordHash"]
	require.False(t, leaked, "password hash must never be serialized")
}

func TestRegisterValidation(t *testing.T) {
	srv := newTestServer(t)

	status, body := doJSON(t, srv, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "alice",
	})
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "all fields are required", errMessage(t, body))

	status, _ = doJSON(t, srv, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "al", "email": "a@x.com", "password": "hunter22",
	})
	require.Equal(t, http.StatusBadRequest, status)

	status, _ = doJSON(t, srv, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "alice", "email": "not-an-email", "password": "hunter22",
	})
	require.Equal(t, http.StatusBadRequest, status)

	status, _ = doJSON(t, srv, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "alice", "email": "a@x.com", "password": "short",
	})
	require.Equal(t, http.StatusBadRequest, status)
}

func TestRegisterDuplicate(t *testing.T) {
	srv := newTestServer(t)
	register(t, srv, "alice", "a@x.com")

	status, body := doJSON(t, srv, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "other", "email": "a@x.com", "password": "hunter22",
	})
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "User with this email already exists", errMessage(t, body))

	status, body = doJSON(t, srv, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "alice", "email": "other@x.com", "password": "hunter22",
	})
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "User with this username already exists", errMessage(t, body))
}

func TestLogin(t *testing.T) {
	srv := newTestServer(t)
	register(t, srv, "alice", "a@x.com")

	status, body := doJSON(t, srv, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "a@x.com", "password": "hunter22",
	})
	require.Equal(t, http.StatusOK, status)
	require.NotEmpty(t, body["token"])
	user := body["user"].(map[string]interface{})
	require.NotNil(t, user["lastLogin"])

	// Wrong password and unknown email return identical responses.
	status, body = doJSON(t, srv, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "a@x.com", "password": "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, status)
	require.Equal(t, "Invalid credentials", errMessage(t, body))

	status, body = doJSON(t, srv, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "nobody@x.com", "password": "hunter22",
	})
	require.Equal(t, http.StatusUnauthorized, status)
	require.Equal(t, "Invalid credentials", errMessage(t, body))
}

func TestUpdateProfile(t *testing.T) {
	srv := newTestServer(t)
	token := register(t, srv, "alice", "a@x.com")
	register(t, srv, "bob", "b@x.com")

	status, body := doJSON(t, srv, http.MethodPut, "/api/auth/profile", token, map[string]string{
		"username": "alice2",
	})
	require.Equal(t, http.StatusOK, status)
	user := body["user"].(map[string]interface{})
	require.Equal(t, "alice2", user["username"])
	require.Equal(t, "a@x.com", user["email"])

	status, body = doJSON(t, srv, http.MethodPut, "/api/auth/profile", token, map[string]string{
		"email": "b@x.com",
	})
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "Email or username already taken", errMessage(t, body))
}

func TestEntriesRequireAuth(t *testing.T) {
	srv := newTestServer(t)
	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/entries"},
		{http.MethodPost, "/api/entries"},
		{http.MethodGet, "/api/entries/stats"},
		{http.MethodGet, "/api/entries/" + uuid.NewString()},
		{http.MethodPut, "/api/entries/" + uuid.NewString()},
		{http.MethodDelete, "/api/entries/" + uuid.NewString()},
	} {
		status, body := doJSON(t, srv, tc.method, tc.path, "", nil)
		require.Equal(t, http.StatusUnauthorized, status, "%s %s", tc.method, tc.path)
		require.Equal(t, "No authorization token provided", errMessage(t, body))
	}
}

func TestEntryCreateAndGet(t *testing.T) {
	srv := newTestServer(t)
	token := register(t, srv, "alice", "a@x.com")

	entry := createEntry(t, srv, token, map[string]interface{}{
		"title": "first", "content": "hello", "mood": "happy",
		"tags": []string{"am", "walk"}, "date": "2025-06-01",
	})
	require.Equal(t, "first", entry["title"])
	require.Equal(t, "happy", entry["mood"])
	_, leaked := entry["userId"]
	require.False(t, leaked, "owner id must not appear in payloads")

	id := entry["id"].(string)
	status, body := doJSON(t, srv, http.MethodGet, "/api/entries/"+id, token, nil)
	require.Equal(t, http.StatusOK, status)
	got := body["entry"].(map[string]interface{})
	require.Equal(t, id, got["id"])
}

func TestEntryCreateInvalidMood(t *testing.T) {
	srv := newTestServer(t)
	token := register(t, srv, "alice", "a@x.com")

	status, body := doJSON(t, srv, http.MethodPost, "/api/entries", token, map[string]interface{}{
		"title": "t", "content": "c", "mood": "ecstatic",
	})
	require.Equal(t, http.StatusBadRequest, status)
	require.Contains(t, errMessage(t, body), "invalid mood")

	status, _ = doJSON(t, srv, http.MethodPost, "/api/entries", token, map[string]interface{}{
		"title": "t", "content": "c",
	})
	require.Equal(t, http.StatusBadRequest, status)
}

func TestEntryListPaginationAndFilters(t *testing.T) {
	srv := newTestServer(t)
	token := register(t, srv, "alice", "a@x.com")

	moods := []string{"happy", "sad", "happy", "neutral", "happy"}
	for i, m := range moods {
		createEntry(t, srv, token, map[string]interface{}{
			"title": fmt.Sprintf("entry %d", i), "content": "c", "mood": m,
			"date": fmt.Sprintf("2025-06-%02d", i+1),
		})
	}

	status, body := doJSON(t, srv, http.MethodGet, "/api/entries?page=1&limit=2", token, nil)
	require.Equal(t, http.StatusOK, status)
	entries := body["entries"].([]interface{})
	require.Len(t, entries, 2)
	pg := body["pagination"].(map[string]interface{})
	require.EqualValues(t, 5, pg["total"])
	require.EqualValues(t, 3, pg["pages"])
	require.EqualValues(t, 2, pg["limit"])

	// Newest first.
	first := entries[0].(map[string]interface{})
	require.Equal(t, "entry 4", first["title"])

	status, body = doJSON(t, srv, http.MethodGet, "/api/entries?mood=happy", token, nil)
	require.Equal(t, http.StatusOK, status)
	entries = body["entries"].([]interface{})
	require.Len(t, entries, 3)
	for _, e := range entries {
		require.Equal(t, "happy", e.(map[string]interface{})["mood"])
	}

	status, body = doJSON(t, srv, http.MethodGet, "/api/entries?mood=bogus", token, nil)
	require.Equal(t, http.StatusBadRequest, status)
	require.Contains(t, errMessage(t, body), "invalid mood")

	status, body = doJSON(t, srv, http.MethodGet, "/api/entries?startDate=2025-06-02&endDate=2025-06-03", token, nil)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, body["entries"].([]interface{}), 2)
}

func TestEntryCrossUserAccess(t *testing.T) {
	srv := newTestServer(t)
	aliceToken := register(t, srv, "alice", "a@x.com")
	bobToken := register(t, srv, "bob", "b@x.com")

	entry := createEntry(t, srv, aliceToken, map[string]interface{}{
		"title": "private", "content": "c", "mood": "happy",
	})
	id := entry["id"].(string)

	// Reads hide existence: 404, same as a missing entry.
	status, body := doJSON(t, srv, http.MethodGet, "/api/entries/"+id, bobToken, nil)
	require.Equal(t, http.StatusNotFound, status)
	require.Equal(t, "Entry not found", errMessage(t, body))

	// Mutations expose the distinction: 403 for someone else's entry.
	status, body = doJSON(t, srv, http.MethodPut, "/api/entries/"+id, bobToken, map[string]string{"title": "x"})
	require.Equal(t, http.StatusForbidden, status)
	require.Equal(t, "You do not have permission to access this resource", errMessage(t, body))

	status, _ = doJSON(t, srv, http.MethodDelete, "/api/entries/"+id, bobToken, nil)
	require.Equal(t, http.StatusForbidden, status)

	// A genuinely missing entry is 404 for everyone.
	status, _ = doJSON(t, srv, http.MethodPut, "/api/entries/"+uuid.NewString(), bobToken, map[string]string{"title": "x"})
	require.Equal(t, http.StatusNotFound, status)

	// Bob's activity has not touched Alice's data.
	status, body = doJSON(t, srv, http.MethodGet, "/api/entries/"+id, aliceToken, nil)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "private", body["entry"].(map[string]interface{})["title"])
}

func TestEntryUpdateAndDelete(t *testing.T) {
	srv := newTestServer(t)
	token := register(t, srv, "alice", "a@x.com")

	entry := createEntry(t, srv, token, map[string]interface{}{
		"title": "before", "content": "keep", "mood": "sad",
	})
	id := entry["id"].(string)

	status, body := doJSON(t, srv, http.MethodPut, "/api/entries/"+id, token, map[string]interface{}{
		"title": "after", "mood": "happy",
	})
	require.Equal(t, http.StatusOK, status)
	updated := body["entry"].(map[string]interface{})
	require.Equal(t, "after", updated["title"])
	require.Equal(t, "happy", updated["mood"])
	require.Equal(t, "keep", updated["content"])

	status, body = doJSON(t, srv, http.MethodPut, "/api/entries/"+id, token, map[string]interface{}{
		"mood": "bogus",
	})
	require.Equal(t, http.StatusBadRequest, status)

	status, body = doJSON(t, srv, http.MethodDelete, "/api/entries/"+id, token, nil)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "Entry deleted successfully", body["message"])

	status, _ = doJSON(t, srv, http.MethodGet, "/api/entries/"+id, token, nil)
	require.Equal(t, http.StatusNotFound, status)
}

func TestMoodStatsEndpoint(t *testing.T) {
	srv := newTestServer(t)
	token := register(t, srv, "alice", "a@x.com")

	// Empty account yields an empty array, not null.
	status, body := doJSON(t, srv, http.MethodGet, "/api/entries/stats", token, nil)
	require.Equal(t, http.StatusOK, status)
	stats, ok := body["stats"].([]interface{})
	require.True(t, ok, "stats must be an array, got %v", body["stats"])
	require.Empty(t, stats)

	for _, m := range []string{"happy", "happy", "sad"} {
		createEntry(t, srv, token, map[string]interface{}{
			"title": "t", "content": "c", "mood": m,
		})
	}

	status, body = doJSON(t, srv, http.MethodGet, "/api/entries/stats", token, nil)
	require.Equal(t, http.StatusOK, status)
	stats = body["stats"].([]interface{})
	require.Len(t, stats, 2, "zero-count moods are omitted")

	counts := map[string]float64{}
	for _, s := range stats {
		bucket := s.(map[string]interface{})
		counts[bucket["mood"].(string)] = bucket["count"].(float64)
	}
	require.EqualValues(t, 2, counts["happy"])
	require.EqualValues(t, 1, counts["sad"])
}

func TestExpiredTokenRejected(t *testing.T) {
	srv := newTestServer(t)
	token := register(t, srv, "alice", "a@x.com")

	_, body := doJSON(t, srv, http.MethodGet, "/api/auth/profile", token, nil)
	user := body["user"].(map[string]interface{})
	id, err := uuid.Parse(user["id"].(string))
	require.NoError(t, err)

	// Sign a correctly keyed token whose expiry is already in the past.
	expiredSvc := auth.NewTokenService(config.NewForTesting().JWTSecret, -time.Minute)
	expired, err := expiredSvc.Issue(&model.User{ID: id, Email: "a@x.com"})
	require.NoError(t, err)

	status, body := doJSON(t, srv, http.MethodGet, "/api/auth/profile", expired, nil)
	require.Equal(t, http.StatusUnauthorized, status)
	require.Equal(t, "Token has expired", errMessage(t, body))

	status, body = doJSON(t, srv, http.MethodGet, "/api/auth/profile", "garbage", nil)
	require.Equal(t, http.StatusUnauthorized, status)
	require.Equal(t, "Invalid token", errMessage(t, body))
}

func TestStatsRouteNotShadowedByID(t *testing.T) {
	srv := newTestServer(t)
	token := register(t, srv, "alice", "a@x.com")

	// "stats" must never be parsed as an entry id.
	status, body := doJSON(t, srv, http.MethodGet, "/api/entries/stats", token, nil)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "Mood statistics retrieved successfully", body["message"])
}
