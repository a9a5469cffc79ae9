package handler_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	h := newHarness(t)

	tok := h.register(t, "agent", 3)
	assert.Equal(t, "bearer", tok.TokenType)
	assert.NotEmpty(t, tok.AccessToken)
	assert.NotEmpty(t, tok.RefreshToken)
	assert.Equal(t, "agent", tok.User.Username)
	assert.Equal(t, 3, tok.User.ClearanceLevel)
	assert.True(t, tok.User.IsActive)

	rec := h.do(t, http.MethodPost, "/api/auth/register",
		map[string]any{"username": "newbie", "password": "pw"}, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 1, decode[tokenBody](t, rec).User.ClearanceLevel)

	rec = h.do(t, http.MethodPost, "/api/auth/register",
		map[string]any{"username": "zero", "password": "pw", "clearance_level": 0}, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 1, decode[tokenBody](t, rec).User.ClearanceLevel)
}

func TestRegisterRejections(t *testing.T) {
	h := newHarness(t)
	h.register(t, "agent", 2)

	tests := []struct {
		name   string
		body   map[string]any
		status int
	}{
		{"taken username", map[string]any{"username": "agent", "password": "x", "clearance_level": 1}, http.StatusBadRequest},
		{"taken beats level 5", map[string]any{"username": "agent", "password": "x", "clearance_level": 5}, http.StatusBadRequest},
		{"level 5", map[string]any{"username": "boss", "password": "x", "clearance_level": 5}, http.StatusForbidden},
		{"level 9", map[string]any{"username": "boss", "password": "x", "clearance_level": 9}, http.StatusForbidden},
		{"reserved name", map[string]any{"username": "ADMIN", "password": "x", "clearance_level": 1}, http.StatusForbidden},
		{"missing password", map[string]any{"username": "nopw"}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := h.do(t, http.MethodPost, "/api/auth/register", tt.body, "")
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}
}

func TestLoginAndMe(t *testing.T) {
	h := newHarness(t)
	h.register(t, "agent", 4)

	rec := h.do(t, http.MethodPost, "/api/auth/login", map[string]string{"username": "agent", "password": "wrong"}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = h.do(t, http.MethodPost, "/api/auth/login", map[string]string{"username": "ghost", "password": "x"}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = h.do(t, http.MethodPost, "/api/auth/login", map[string]string{"username": "agent", "password": "pw-agent"}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	tok := decode[tokenBody](t, rec)

	rec = h.do(t, http.MethodGet, "/api/auth/me", nil, tok.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code)
	me := decode[map[string]any](t, rec)
	assert.Equal(t, "agent", me["username"])
	assert.EqualValues(t, 4, me["clearance_level"])
	assert.NotContains(t, me, "password_hash")

	rec = h.do(t, http.MethodGet, "/api/auth/me", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "not authenticated", errorOf(t, rec))
}

func TestLoginDisabledAccount(t *testing.T) {
	h := newHarness(t)
	tok := h.register(t, "agent", 2)
	admin := h.adminToken(t)

	rec := h.do(t, http.MethodPut, "/api/admin/users/"+tok.User.ID+"/status?is_active=false", nil, admin)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = h.do(t, http.MethodPost, "/api/auth/login", map[string]string{"username": "agent", "password": "pw-agent"}, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// The old access token now resolves to nobody.
	rec = h.do(t, http.MethodGet, "/api/auth/me", nil, tok.AccessToken)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Refresh tokens were revoked with the deactivation.
	rec = h.do(t, http.MethodPost, "/api/auth/refresh", map[string]string{"refresh_token": tok.RefreshToken}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRefreshRotates(t *testing.T) {
	h := newHarness(t)
	tok := h.register(t, "agent", 2)

	rec := h.do(t, http.MethodPost, "/api/auth/refresh", map[string]string{"refresh_token": tok.RefreshToken}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	next := decode[tokenBody](t, rec)
	assert.NotEqual(t, tok.RefreshToken, next.RefreshToken)

	rec = h.do(t, http.MethodPost, "/api/auth/refresh", map[string]string{"refresh_token": tok.RefreshToken}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = h.do(t, http.MethodPost, "/api/auth/refresh", map[string]string{}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRefreshRevokeFailure(t *testing.T) {
	h := newHarness(t)
	tok := h.register(t, "agent", 2)
	ctx := context.Background()

	_, err := h.db.ExecContext(ctx, `CREATE TRIGGER refresh_tokens_frozen BEFORE UPDATE ON refresh_tokens
		BEGIN SELECT RAISE(ABORT, 'frozen'); END`)
	require.NoError(t, err)

	rec := h.do(t, http.MethodPost, "/api/auth/refresh", map[string]string{"refresh_token": tok.RefreshToken}, "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "access_token")

	// Nothing was rotated, so the token is still usable once writes work again.
	_, err = h.db.ExecContext(ctx, "DROP TRIGGER refresh_tokens_frozen")
	require.NoError(t, err)
	rec = h.do(t, http.MethodPost, "/api/auth/refresh", map[string]string{"refresh_token": tok.RefreshToken}, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLogout(t *testing.T) {
	h := newHarness(t)
	tok := h.register(t, "agent", 2)

	rec := h.do(t, http.MethodPost, "/api/auth/logout", map[string]string{"refresh_token": tok.RefreshToken}, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = h.do(t, http.MethodPost, "/api/auth/logout", map[string]string{"refresh_token": tok.RefreshToken}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = h.do(t, http.MethodPost, "/api/auth/login", map[string]string{"username": "agent", "password": "pw-agent"}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	second := decode[tokenBody](t, rec)

	rec = h.do(t, http.MethodPost, "/api/auth/logout", nil, second.AccessToken)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = h.do(t, http.MethodPost, "/api/auth/refresh", map[string]string{"refresh_token": second.RefreshToken}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = h.do(t, http.MethodPost, "/api/auth/logout", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
