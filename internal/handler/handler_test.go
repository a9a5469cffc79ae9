package handler_test

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/eternal-sentinels/es-archive/internal/config"
	"github.com/eternal-sentinels/es-archive/internal/database"
	"github.com/eternal-sentinels/es-archive/internal/fallback"
	"github.com/eternal-sentinels/es-archive/internal/handler"
	"github.com/eternal-sentinels/es-archive/internal/metrics"
	"github.com/eternal-sentinels/es-archive/internal/middleware"
	"github.com/eternal-sentinels/es-archive/internal/repository"
	"github.com/eternal-sentinels/es-archive/internal/router"
	"github.com/eternal-sentinels/es-archive/internal/service"
	"github.com/eternal-sentinels/es-archive/internal/utils"
)

const adminPassword = "admin123"

type published struct {
	Type    string
	Payload any
}

type recorder struct {
	mu     sync.Mutex
	events []published
}

func (r *recorder) Publish(_ context.Context, eventType string, payload any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, published{eventType, payload})
	return nil
}

func (r *recorder) all() []published {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]published(nil), r.events...)
}

type harness struct {
	e       *echo.Echo
	db      *sql.DB
	cfg     config.Config
	users   *repository.UserRepo
	tokens  *repository.TokenRepo
	events  *service.Events
	pub     *recorder
	metrics *metrics.Metrics
}

// newHarness wires the full route table over a fresh sqlite database with
// the seeded catalogue and administrator.  Redis-backed layers are disabled
// and the assistant has no API key.
func newHarness(t *testing.T) *harness {
	t.Helper()
	ctx := context.Background()

	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "es.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(ctx, db, database.SQLite))

	cfg := config.Config{
		JWTSecret:      "test-secret",
		AccessTTLMin:   15,
		RefreshTTLDays: 7,
		BcryptCost:     bcrypt.MinCost,
		AdminUsername:  "admin",
		AdminPassword:  adminPassword,
	}

	objects := repository.NewObjectRepo(db)
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	_, err = database.Seed(ctx, objects, users, database.Admin{
		Username: cfg.AdminUsername,
		Password: cfg.AdminPassword,
		Hash:     func(p string) (string, error) { return utils.HashPassword(p, cfg.BcryptCost) },
	}, repository.ErrUserNotFound)
	require.NoError(t, err)

	pub := &recorder{}
	events := service.NewEvents(pub, nil)
	t.Cleanup(events.Close)
	m := metrics.New()

	chat := service.NewChatService(service.ChatDeps{
		Messages: repository.NewMessageRepo(db),
		Selector: fallback.New(nil),
		Events:   events,
		Metrics:  m,
	}, config.LLMConfig{})

	off := middleware.NewRedisCache(config.CacheConfig{}, nil, nil)

	e := echo.New()
	auth := middleware.NewAuth(cfg.JWTSecret, users, cfg.AdminUsername)
	router.RegisterRoutes(e, m)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users, tokens), auth)
	router.RegisterObjects(e, handler.NewObjectHandler(objects, m, nil), auth, off, off)
	router.RegisterChat(e, handler.NewChatHandler(chat, nil), auth, off)
	dossiers := handler.NewDossierHandler(repository.NewDossierRepo(db), events, nil)
	router.RegisterAdmin(e, handler.NewAdminHandler(users, tokens, nil), dossiers, auth)
	router.RegisterDossier(e, dossiers, auth)

	return &harness{e: e, db: db, cfg: cfg, users: users, tokens: tokens, events: events, pub: pub, metrics: m}
}

func (h *harness) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.e.ServeHTTP(rec, req)
	return rec
}

type tokenBody struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	RefreshToken string `json:"refresh_token"`
	User         struct {
		ID             string `json:"id"`
		Username       string `json:"username"`
		ClearanceLevel int    `json:"clearance_level"`
		IsActive       bool   `json:"is_active"`
	} `json:"user"`
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func (h *harness) register(t *testing.T, username string, level int) tokenBody {
	t.Helper()
	rec := h.do(t, http.MethodPost, "/api/auth/register",
		map[string]any{"username": username, "password": "pw-" + username, "clearance_level": level}, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[tokenBody](t, rec)
}

func (h *harness) adminToken(t *testing.T) string {
	t.Helper()
	rec := h.do(t, http.MethodPost, "/api/auth/login",
		map[string]string{"username": "admin", "password": adminPassword}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decode[tokenBody](t, rec).AccessToken
}

func errorOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[map[string]any](t, rec)["error"].(string)
}
