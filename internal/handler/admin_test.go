package handler_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminRoutesNeedLevelFive(t *testing.T) {
	h := newHarness(t)
	four := h.register(t, "four", 4).AccessToken

	rec := h.do(t, http.MethodGet, "/api/admin/users", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	rec = h.do(t, http.MethodGet, "/api/admin/users", nil, four)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "insufficient clearance level", errorOf(t, rec))
	rec = h.do(t, http.MethodGet, "/api/admin/dossiers", nil, four)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestListUsers(t *testing.T) {
	h := newHarness(t)
	h.register(t, "agent", 2)

	rec := h.do(t, http.MethodGet, "/api/admin/users", nil, h.adminToken(t))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password")
	users := decode[[]map[string]any](t, rec)
	require.Len(t, users, 2)
	assert.Equal(t, "admin", users[0]["username"])
	assert.EqualValues(t, 5, users[0]["clearance_level"])
	assert.Equal(t, "agent", users[1]["username"])
}

func TestSetClearance(t *testing.T) {
	h := newHarness(t)
	agent := h.register(t, "agent", 1)
	admin := h.adminToken(t)
	path := "/api/admin/users/" + agent.User.ID + "/clearance"

	for _, q := range []string{"", "?clearance_level=0", "?clearance_level=6", "?clearance_level=abc"} {
		rec := h.do(t, http.MethodPut, path+q, nil, admin)
		assert.Equal(t, http.StatusBadRequest, rec.Code, q)
	}

	rec := h.do(t, http.MethodPut, "/api/admin/users/missing/clearance?clearance_level=3", nil, admin)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = h.do(t, http.MethodPut, path+"?clearance_level=4", nil, admin)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Clearance level updated successfully", decode[map[string]string](t, rec)["message"])

	// The change applies to the existing token on its next request.
	rec = h.do(t, http.MethodGet, "/api/scp/0051", nil, agent.AccessToken)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSetStatus(t *testing.T) {
	h := newHarness(t)
	agent := h.register(t, "agent", 3)
	admin := h.adminToken(t)
	path := "/api/admin/users/" + agent.User.ID + "/status"

	rec := h.do(t, http.MethodPut, path+"?is_active=maybe", nil, admin)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = h.do(t, http.MethodPut, "/api/admin/users/missing/status?is_active=false", nil, admin)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = h.do(t, http.MethodPut, path+"?is_active=false", nil, admin)
	require.Equal(t, http.StatusOK, rec.Code)

	// A disabled account reads the catalogue as a guest.
	rec = h.do(t, http.MethodGet, "/api/scp", nil, agent.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]any](t, rec), 1)

	rec = h.do(t, http.MethodPut, path+"?is_active=true", nil, admin)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = h.do(t, http.MethodGet, "/api/scp", nil, agent.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]any](t, rec), 3)
}
