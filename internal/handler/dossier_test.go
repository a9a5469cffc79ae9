package handler_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eternal-sentinels/es-archive/internal/model"
	"github.com/eternal-sentinels/es-archive/internal/queue"
)

func submitBody(name string, size int64) map[string]any {
	return map[string]any{
		"file_name": name,
		"file_data": "ZG9zc2llcg==",
		"file_type": "application/pdf",
		"file_size": size,
	}
}

func TestDossierSubmit(t *testing.T) {
	h := newHarness(t)
	agent := h.register(t, "agent", 2).AccessToken

	rec := h.do(t, http.MethodPost, "/api/dossier/submit", submitBody("a.pdf", 100), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = h.do(t, http.MethodPost, "/api/dossier/submit", submitBody("big.pdf", model.MaxDossierBytes+1), agent)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = h.do(t, http.MethodPost, "/api/dossier/submit", submitBody("a.pdf", model.MaxDossierBytes), agent)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	resp := decode[map[string]string](t, rec)
	assert.Equal(t, "Досье успешно отправлено на модерацию", resp["message"])
	assert.NotEmpty(t, resp["dossier_id"])

	rec = h.do(t, http.MethodPost, "/api/dossier/submit", submitBody("b.pdf", 10), agent)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "У вас уже есть досье на модерации. Дождитесь результата проверки.", errorOf(t, rec))
}

func TestDossierStatusAndModeration(t *testing.T) {
	h := newHarness(t)
	agent := h.register(t, "agent", 2)
	admin := h.adminToken(t)

	rec := h.do(t, http.MethodGet, "/api/dossier/status", nil, agent.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"has_submission":false}`, rec.Body.String())

	rec = h.do(t, http.MethodPost, "/api/dossier/submit", submitBody("a.pdf", 10), agent.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code)
	id := decode[map[string]string](t, rec)["dossier_id"]

	rec = h.do(t, http.MethodGet, "/api/dossier/status", nil, agent.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code)
	status := decode[struct {
		HasSubmission bool          `json:"has_submission"`
		Submission    model.Dossier `json:"submission"`
	}](t, rec)
	assert.True(t, status.HasSubmission)
	assert.Equal(t, model.DossierPending, status.Submission.Status)
	assert.Empty(t, status.Submission.FileData)

	rec = h.do(t, http.MethodGet, "/api/admin/dossiers", nil, admin)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "file_data")
	assert.Len(t, decode[[]model.Dossier](t, rec), 1)

	rec = h.do(t, http.MethodGet, "/api/admin/dossiers/"+id, nil, admin)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ZG9zc2llcg==", decode[model.Dossier](t, rec).FileData)

	rec = h.do(t, http.MethodGet, "/api/admin/dossiers/missing", nil, admin)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = h.do(t, http.MethodPut, "/api/admin/dossiers/"+id+"/moderate", map[string]string{"status": "pending"}, admin)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = h.do(t, http.MethodPut, "/api/admin/dossiers/missing/moderate", map[string]string{"status": "approved"}, admin)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = h.do(t, http.MethodPut, "/api/admin/dossiers/"+id+"/moderate",
		map[string]string{"status": "approved", "admin_comment": "добро пожаловать"}, admin)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Досье approved", decode[map[string]string](t, rec)["message"])

	rec = h.do(t, http.MethodGet, "/api/dossier/my-submissions", nil, agent.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code)
	mine := decode[[]model.Dossier](t, rec)
	require.Len(t, mine, 1)
	assert.Equal(t, model.DossierApproved, mine[0].Status)
	require.NotNil(t, mine[0].ReviewedBy)
	assert.Equal(t, "admin", *mine[0].ReviewedBy)
	require.NotNil(t, mine[0].AdminComment)
	assert.Equal(t, "добро пожаловать", *mine[0].AdminComment)

	// No longer pending, so a new submission is accepted.
	rec = h.do(t, http.MethodPost, "/api/dossier/submit", submitBody("b.pdf", 10), agent.AccessToken)
	assert.Equal(t, http.StatusOK, rec.Code)

	h.events.Close()
	evs := h.pub.all()
	require.Len(t, evs, 1)
	assert.Equal(t, queue.EventDossierModerated, evs[0].Type)
	ev := evs[0].Payload.(queue.DossierModeratedEvent)
	assert.Equal(t, id, ev.DossierID)
	assert.Equal(t, agent.User.ID, ev.UserID)
	assert.Equal(t, "agent", ev.Username)
	assert.Equal(t, model.DossierApproved, ev.Status)
	assert.Equal(t, "admin", ev.ReviewedBy)
	assert.False(t, ev.At.IsZero())
}
