package httpserver

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedUsers(env *testEnv, n int) {
	env.t.Helper()

	for i := 1; i <= n; i++ {
		rec := env.register(fmt.Sprintf("u%d", i), fmt.Sprintf("u%d@example.com", i), "secret123")
		require.Equal(env.t, http.StatusCreated, rec.Code)
	}
}

func usernamesOf(t *testing.T, body map[string]interface{}) []string {
	t.Helper()

	raw, ok := body["users"].([]interface{})
	require.True(t, ok, "users field missing")

	names := make([]string, 0, len(raw))
	for _, item := range raw {
		user, ok := item.(map[string]interface{})
		require.True(t, ok)
		names = append(names, user["username"].(string))
	}
	return names
}

func TestUsersAll_Pagination(t *testing.T) {
	env := newTestEnv(t, true, false)
	seedUsers(env, 5)
	access, _ := env.loginTokens("u1", "secret123")

	rec := env.do(http.MethodGet, "/users/all?page=1&per_page=2", nil, env.withToken(access, AccessCookie))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"u1", "u2"}, usernamesOf(t, decodeBody(t, rec)))

	rec = env.do(http.MethodGet, "/users/all?page=3&per_page=2", nil, env.withToken(access, AccessCookie))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"u5"}, usernamesOf(t, decodeBody(t, rec)))
}

func TestUsersAll_DefaultsAndClamping(t *testing.T) {
	env := newTestEnv(t, true, false)
	seedUsers(env, 5)
	access, _ := env.loginTokens("u1", "secret123")

	// Defaults: page 1, per_page 2.
	rec := env.do(http.MethodGet, "/users/all", nil, env.withToken(access, AccessCookie))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"u1", "u2"}, usernamesOf(t, decodeBody(t, rec)))

	// Malformed values clamp to defaults instead of failing.
	rec = env.do(http.MethodGet, "/users/all?page=abc&per_page=-1", nil, env.withToken(access, AccessCookie))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"u1", "u2"}, usernamesOf(t, decodeBody(t, rec)))
}

func TestUsersAll_RequiresToken(t *testing.T) {
	env := newTestEnv(t, true, false)

	rec := env.do(http.MethodGet, "/users/all", nil, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "authorization_required", decodeBody(t, rec)["error"])
}

func TestUsersAll_StaffGatingEnabled(t *testing.T) {
	env := newTestEnv(t, true, true, "admin")
	env.register("admin", "admin@example.com", "secret123")
	env.register("bob", "bob@example.com", "secret123")

	bobAccess, _ := env.loginTokens("bob", "secret123")
	rec := env.do(http.MethodGet, "/users/all", nil, env.withToken(bobAccess, AccessCookie))
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "You are not authorized to view this page!", decodeBody(t, rec)["message"])

	adminAccess, _ := env.loginTokens("admin", "secret123")
	rec = env.do(http.MethodGet, "/users/all", nil, env.withToken(adminAccess, AccessCookie))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"admin", "bob"}, usernamesOf(t, decodeBody(t, rec)))
}

func TestUsersAll_StaffGatingDisabled(t *testing.T) {
	env := newTestEnv(t, true, false)
	env.register("bob", "bob@example.com", "secret123")

	access, _ := env.loginTokens("bob", "secret123")
	rec := env.do(http.MethodGet, "/users/all", nil, env.withToken(access, AccessCookie))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestUsersAll_PasswordNeverSerialized(t *testing.T) {
	env := newTestEnv(t, true, false)
	seedUsers(env, 2)
	access, _ := env.loginTokens("u1", "secret123")

	rec := env.do(http.MethodGet, "/users/all?per_page=100", nil, env.withToken(access, AccessCookie))
	require.Equal(t, http.StatusOK, rec.Code)

	assert.NotContains(t, rec.Body.String(), "password")
	assert.NotContains(t, rec.Body.String(), "secret123")

	body := decodeBody(t, rec)
	for _, item := range body["users"].([]interface{}) {
		user := item.(map[string]interface{})
		assert.NotContains(t, user, "password_hash")
		assert.Contains(t, user, "id")
		assert.Contains(t, user, "username")
		assert.Contains(t, user, "email")
	}
}
