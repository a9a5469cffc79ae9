package main

import (
	"context"
	"database/sql"
	"errors"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/eternal-sentinels/es-archive/internal/assistant"
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

type app struct {
	cfg config.Config
	log *zap.Logger
	db  *sql.DB
}

func (a *app) migrate(ctx context.Context) error {
	if err := database.Migrate(ctx, a.db, a.cfg.DBDriver); err != nil {
		return err
	}
	a.log.Info("schema ready", zap.String("driver", a.cfg.DBDriver))
	return nil
}

func (a *app) seed(ctx context.Context) error {
	res, err := database.Seed(ctx,
		repository.NewObjectRepo(a.db),
		repository.NewUserRepo(a.db),
		database.Admin{
			Username: a.cfg.AdminUsername,
			Password: a.cfg.AdminPassword,
			Hash: func(plain string) (string, error) {
				return utils.HashPassword(plain, a.cfg.BcryptCost)
			},
		},
		repository.ErrUserNotFound)
	if err != nil {
		return err
	}
	if res.Objects > 0 {
		a.log.Info("object catalogue seeded", zap.Int("objects", res.Objects))
	}
	if res.AdminCreated {
		a.log.Info("administrator account created", zap.String("username", a.cfg.AdminUsername))
	}
	if a.cfg.AdminPassword == config.DefaultAdminPassword {
		a.log.Warn("administrator uses the default password; set ADMIN_PASSWORD")
	}
	return nil
}

// server assembles the Echo instance.  cleanup flushes pending events and
// closes the Redis client.
func (a *app) server(ctx context.Context) (*echo.Echo, func()) {
	objects := repository.NewObjectRepo(a.db)
	users := repository.NewUserRepo(a.db)
	tokens := repository.NewTokenRepo(a.db)
	messages := repository.NewMessageRepo(a.db)
	dossiers := repository.NewDossierRepo(a.db)

	m := metrics.New()

	var pub service.Publisher = service.NopPublisher{}
	if a.cfg.EventsEnabled {
		pub = service.NewAMQPPublisher(a.cfg.AMQPURL)
	}
	events := service.NewEvents(pub, a.log)

	client, err := assistant.New(ctx, a.cfg.LLM)
	switch {
	case errors.Is(err, assistant.ErrNoAPIKey):
		a.log.Warn("no LLM API key configured; the assistant runs on scripted replies")
	case err != nil:
		a.log.Error("remote assistant unavailable; using scripted replies", zap.Error(err))
		client = nil
	default:
		a.log.Info("remote assistant ready", zap.String("provider", a.cfg.LLM.Provider))
	}

	chat := service.NewChatService(service.ChatDeps{
		Messages: messages,
		Client:   client,
		Selector: fallback.New(nil),
		Events:   events,
		Metrics:  m,
		Log:      a.log,
	}, a.cfg.LLM)

	rdb := config.NewRedisClient()
	cacheCfg := config.LoadCacheConfig()
	rlCfg := config.LoadRateLimitConfig()
	if rdb == nil {
		a.log.Warn("redis unavailable; response cache and rate limiting disabled")
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     a.cfg.CORSOrigins,
		AllowCredentials: true,
	}))
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogURI:      true,
		LogMethod:   true,
		LogStatus:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogError:    true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			fields := []zap.Field{
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.String("remote_ip", v.RemoteIP),
			}
			if v.Error != nil {
				fields = append(fields, zap.Error(v.Error))
			}
			a.log.Info("request", fields...)
			return nil
		},
	}))

	auth := middleware.NewAuth(a.cfg.JWTSecret, users, a.cfg.AdminUsername)
	router.RegisterRoutes(e, m)
	router.RegisterAuth(e, handler.NewAuthHandler(a.cfg, users, tokens), auth)
	router.RegisterObjects(e, handler.NewObjectHandler(objects, m, a.log), auth,
		middleware.NewRedisCache(cacheCfg, rdb, a.log),
		middleware.PurgeCache(cacheCfg, rdb, a.log))
	router.RegisterChat(e, handler.NewChatHandler(chat, a.log), auth,
		middleware.NewTokenBucket(rlCfg, rdb, a.log))
	dossierHandler := handler.NewDossierHandler(dossiers, events, a.log)
	router.RegisterAdmin(e, handler.NewAdminHandler(users, tokens, a.log), dossierHandler, auth)
	router.RegisterDossier(e, dossierHandler, auth)

	cleanup := func() {
		events.Close()
		if rdb != nil {
			if err := rdb.Close(); err != nil {
				a.log.Warn("close redis", zap.Error(err))
			}
		}
	}
	return e, cleanup
}
