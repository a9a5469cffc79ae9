package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/eternal-sentinels/es-archive/internal/middleware"
	"github.com/eternal-sentinels/es-archive/internal/model"
	"github.com/eternal-sentinels/es-archive/internal/queue"
	"github.com/eternal-sentinels/es-archive/internal/repository"
	"github.com/eternal-sentinels/es-archive/internal/service"
)

// DossierHandler accepts personnel files from users and lets administrators
// review them.
type DossierHandler struct {
	Dossiers *repository.DossierRepo
	Events   *service.Events
	Log      *zap.Logger
}

func NewDossierHandler(dossiers *repository.DossierRepo, events *service.Events, log *zap.Logger) *DossierHandler {
	if dossiers == nil {
		panic("nil repository passed to NewDossierHandler")
	}
	if log == nil {
		log = zap.NewNop()
	}
	if events == nil {
		events = service.NewEvents(nil, log)
	}
	return &DossierHandler{Dossiers: dossiers, Events: events, Log: log}
}

type submitDossierReq struct {
	FileName string `json:"file_name"`
	FileData string `json:"file_data"`
	FileType string `json:"file_type"`
	FileSize int64  `json:"file_size"`
}

type moderateReq struct {
	Status       string `json:"status"`
	AdminComment string `json:"admin_comment"`
}

// Submit queues a dossier for review.  A user may have one pending at a time.
func (h *DossierHandler) Submit(c echo.Context) error {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
	}
	var req submitDossierReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.FileSize > model.MaxDossierBytes {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "File size must not exceed 10MB"})
	}
	if strings.TrimSpace(req.FileName) == "" || req.FileData == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "file_name and file_data are required"})
	}

	d := &model.Dossier{
		UserID:   u.ID,
		Username: u.Username,
		FileName: req.FileName,
		FileData: req.FileData,
		FileType: req.FileType,
		FileSize: req.FileSize,
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	if err := h.Dossiers.Submit(ctx, d); err != nil {
		if errors.Is(err, repository.ErrPendingDossier) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "У вас уже есть досье на модерации. Дождитесь результата проверки."})
		}
		h.Log.Error("submit dossier", zap.String("user_id", u.ID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "submit failed"})
	}
	h.Log.Info("dossier submitted", zap.String("user_id", u.ID), zap.String("dossier_id", d.ID))
	return c.JSON(http.StatusOK, echo.Map{
		"message":    "Досье успешно отправлено на модерацию",
		"dossier_id": d.ID,
	})
}

// Mine lists the caller's submissions newest first.
func (h *DossierHandler) Mine(c echo.Context) error {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
	}
	ctx, cancel := dbCtx(c)
	defer cancel()

	list, err := h.Dossiers.ListByUser(ctx, u.ID)
	if err != nil {
		h.Log.Error("list my dossiers", zap.String("user_id", u.ID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, list)
}

// Status reports the caller's latest submission.
func (h *DossierHandler) Status(c echo.Context) error {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
	}
	ctx, cancel := dbCtx(c)
	defer cancel()

	d, err := h.Dossiers.Latest(ctx, u.ID)
	if err != nil {
		if errors.Is(err, repository.ErrDossierNotFound) {
			return c.JSON(http.StatusOK, echo.Map{"has_submission": false})
		}
		h.Log.Error("dossier status", zap.String("user_id", u.ID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"has_submission": true, "submission": d})
}

// List returns every submission without file data.  Level 5 only.
func (h *DossierHandler) List(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()

	list, err := h.Dossiers.ListAll(ctx)
	if err != nil {
		h.Log.Error("list dossiers", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, list)
}

// Get returns one submission including its file data.  Level 5 only.
func (h *DossierHandler) Get(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()

	d, err := h.Dossiers.Get(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrDossierNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "dossier not found"})
		}
		h.Log.Error("get dossier", zap.String("dossier_id", c.Param("id")), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, d)
}

// Moderate approves or rejects a submission.  Level 5 only.
func (h *DossierHandler) Moderate(c echo.Context) error {
	admin, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "not authenticated"})
	}
	var req moderateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Status != model.DossierApproved && req.Status != model.DossierRejected {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be 'approved' or 'rejected'"})
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	d, err := h.Dossiers.Moderate(ctx, c.Param("id"), req.Status, admin.Username, req.AdminComment)
	if err != nil {
		if errors.Is(err, repository.ErrDossierNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "dossier not found"})
		}
		h.Log.Error("moderate dossier", zap.String("dossier_id", c.Param("id")), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	h.Log.Info("dossier moderated",
		zap.String("dossier_id", d.ID),
		zap.String("status", d.Status),
		zap.String("by", admin.Username))

	ev := queue.DossierModeratedEvent{
		DossierID:  d.ID,
		UserID:     d.UserID,
		Username:   d.Username,
		Status:     d.Status,
		ReviewedBy: admin.Username,
	}
	if d.ReviewedAt != nil {
		ev.At = *d.ReviewedAt
	}
	h.Events.Emit(queue.EventDossierModerated, ev)

	return c.JSON(http.StatusOK, echo.Map{
		"message":    "Досье " + d.Status,
		"dossier_id": d.ID,
	})
}
