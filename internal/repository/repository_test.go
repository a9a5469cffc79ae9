package repository

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eternal-sentinels/es-archive/internal/database"
	"github.com/eternal-sentinels/es-archive/internal/model"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "es.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(context.Background(), db, database.SQLite))
	return db
}

func strptr(s string) *string { return &s }

func TestObjectRepo(t *testing.T) {
	ctx := context.Background()
	repo := NewObjectRepo(openTestDB(t))

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	for _, num := range []string{"0217", "0000", "0103"} {
		require.NoError(t, repo.Create(ctx, &model.Object{
			Number: num, Name: "n" + num, Codename: "c", ThreatClass: "Threat", Description: "d",
			SecretData: strptr("s" + num),
		}))
	}
	err = repo.Create(ctx, &model.Object{Number: "0000", Name: "dup", ThreatClass: "Threat"})
	assert.ErrorIs(t, err, ErrNumberExists)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"0000", "0103", "0217"}, []string{list[0].Number, list[1].Number, list[2].Number})
	assert.Nil(t, list[0].SpecialProcedures)
	require.NotNil(t, list[0].SecretData)
	assert.Equal(t, "s0000", *list[0].SecretData)

	_, err = repo.GetByNumber(ctx, "9999")
	assert.ErrorIs(t, err, ErrObjectNotFound)

	updated, err := repo.Update(ctx, "0103", model.ObjectPatch{ThreatClass: strptr("Absolute"), ImageURL: strptr("/img/0103.png")})
	require.NoError(t, err)
	assert.Equal(t, "Absolute", updated.ThreatClass)
	assert.Equal(t, "n0103", updated.Name)

	got, err := repo.GetByNumber(ctx, "0103")
	require.NoError(t, err)
	assert.Equal(t, "Absolute", got.ThreatClass)
	require.NotNil(t, got.ImageURL)
	assert.Equal(t, "/img/0103.png", *got.ImageURL)
	assert.WithinDuration(t, time.Now(), got.CreatedAt, time.Minute)

	_, err = repo.Update(ctx, "9999", model.ObjectPatch{})
	assert.ErrorIs(t, err, ErrObjectNotFound)

	require.NoError(t, repo.Delete(ctx, "0103"))
	assert.ErrorIs(t, repo.Delete(ctx, "0103"), ErrObjectNotFound)
}

func TestUserRepo(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepo(openTestDB(t))

	u := &model.User{Username: " agent ", PasswordHash: "h", ClearanceLevel: 2, IsActive: true}
	require.NoError(t, repo.Create(ctx, u))
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "agent", u.Username)

	assert.ErrorIs(t, repo.Create(ctx, &model.User{Username: "agent", PasswordHash: "x", ClearanceLevel: 1}), ErrUsernameExists)

	got, err := repo.FindByUsername(ctx, "agent")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.True(t, got.IsActive)
	assert.False(t, got.IsAdmin)

	require.NoError(t, repo.SetClearance(ctx, u.ID, 4))
	require.NoError(t, repo.SetClearance(ctx, u.ID, 4))
	require.NoError(t, repo.SetActive(ctx, u.ID, false))
	got, err = repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, got.ClearanceLevel)
	assert.False(t, got.IsActive)

	assert.ErrorIs(t, repo.SetClearance(ctx, "missing", 3), ErrUserNotFound)
	assert.ErrorIs(t, repo.SetActive(ctx, "missing", true), ErrUserNotFound)
	_, err = repo.FindByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, ErrUserNotFound)

	require.NoError(t, repo.Create(ctx, &model.User{Username: "second", PasswordHash: "h", ClearanceLevel: 1, IsActive: true}))
	users, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)
}

func TestTokenRepo(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	users := NewUserRepo(db)
	tokens := NewTokenRepo(db)

	u := &model.User{Username: "agent", PasswordHash: "h", ClearanceLevel: 1, IsActive: true}
	require.NoError(t, users.Create(ctx, u))

	require.NoError(t, tokens.StoreRefresh(ctx, u.ID, "live", time.Now().Add(time.Hour)))
	require.NoError(t, tokens.StoreRefresh(ctx, u.ID, "stale", time.Now().Add(-time.Hour)))

	id, err := tokens.ValidateRefresh(ctx, "live")
	require.NoError(t, err)
	assert.Equal(t, u.ID, id)

	_, err = tokens.ValidateRefresh(ctx, "stale")
	assert.ErrorIs(t, err, ErrTokenInvalid)
	_, err = tokens.ValidateRefresh(ctx, "unknown")
	assert.ErrorIs(t, err, ErrTokenInvalid)

	require.NoError(t, tokens.RevokeByHash(ctx, "live"))
	_, err = tokens.ValidateRefresh(ctx, "live")
	assert.ErrorIs(t, err, ErrTokenInvalid)
	assert.ErrorIs(t, tokens.RevokeByHash(ctx, "live"), ErrTokenInvalid)

	require.NoError(t, tokens.StoreRefresh(ctx, u.ID, "other", time.Now().Add(time.Hour)))
	require.NoError(t, tokens.RevokeAllForUser(ctx, u.ID))
	_, err = tokens.ValidateRefresh(ctx, "other")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestMessageRepo(t *testing.T) {
	ctx := context.Background()
	repo := NewMessageRepo(openTestDB(t))

	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	uid := "u-1"
	emo := "joy"
	// Stored out of order on purpose; reads must follow CreatedAt.
	turns := []*model.Message{
		{SessionID: "s", Role: model.RoleAssistant, Content: "second", Emotion: &emo, CreatedAt: base.Add(time.Millisecond)},
		{SessionID: "s", UserID: &uid, Role: model.RoleUser, Content: "first", CreatedAt: base},
		{SessionID: "s", Role: model.RoleUser, Content: "third", CreatedAt: base.Add(time.Second)},
		{SessionID: "other", Role: model.RoleUser, Content: "elsewhere", CreatedAt: base},
	}
	for _, m := range turns {
		require.NoError(t, repo.Append(ctx, m))
	}

	all, err := repo.ListBySession(ctx, "s", 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"first", "second", "third"}, []string{all[0].Content, all[1].Content, all[2].Content})
	require.NotNil(t, all[0].UserID)
	assert.Equal(t, "u-1", *all[0].UserID)
	require.NotNil(t, all[1].Emotion)
	assert.Equal(t, "joy", *all[1].Emotion)
	assert.True(t, all[0].CreatedAt.Equal(base))

	recent, err := repo.ListBySession(ctx, "s", 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "second", recent[0].Content)
	assert.Equal(t, "third", recent[1].Content)

	empty, err := repo.ListBySession(ctx, "none", 0)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestDossierRepo(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	users := NewUserRepo(db)
	repo := NewDossierRepo(db)

	u := &model.User{Username: "agent", PasswordHash: "h", ClearanceLevel: 1, IsActive: true}
	require.NoError(t, users.Create(ctx, u))

	_, err := repo.Latest(ctx, u.ID)
	assert.ErrorIs(t, err, ErrDossierNotFound)

	first := &model.Dossier{UserID: u.ID, Username: u.Username, FileName: "cv.pdf", FileData: "QUJD", FileType: "application/pdf", FileSize: 3}
	require.NoError(t, repo.Submit(ctx, first))
	assert.Equal(t, model.DossierPending, first.Status)

	err = repo.Submit(ctx, &model.Dossier{UserID: u.ID, Username: u.Username, FileName: "again.pdf", FileData: "x", FileType: "application/pdf", FileSize: 1})
	assert.ErrorIs(t, err, ErrPendingDossier)

	moderated, err := repo.Moderate(ctx, first.ID, model.DossierRejected, "admin", "неполные данные")
	require.NoError(t, err)
	assert.Equal(t, model.DossierRejected, moderated.Status)
	require.NotNil(t, moderated.ReviewedBy)
	assert.Equal(t, "admin", *moderated.ReviewedBy)
	assert.NotNil(t, moderated.ReviewedAt)
	assert.Empty(t, moderated.FileData)

	second := &model.Dossier{UserID: u.ID, Username: u.Username, FileName: "v2.pdf", FileData: "REVG", FileType: "application/pdf", FileSize: 3}
	require.NoError(t, repo.Submit(ctx, second))

	mine, err := repo.ListByUser(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, second.ID, mine[0].ID)
	assert.Empty(t, mine[0].FileData)

	latest, err := repo.Latest(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, latest.ID)

	full, err := repo.Get(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, "REVG", full.FileData)

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = repo.Moderate(ctx, "missing", model.DossierApproved, "admin", "")
	assert.ErrorIs(t, err, ErrDossierNotFound)
	_, err = repo.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrDossierNotFound)
}
