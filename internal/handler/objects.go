package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/eternal-sentinels/es-archive/internal/clearance"
	"github.com/eternal-sentinels/es-archive/internal/metrics"
	"github.com/eternal-sentinels/es-archive/internal/middleware"
	"github.com/eternal-sentinels/es-archive/internal/model"
	"github.com/eternal-sentinels/es-archive/internal/repository"
)

// ObjectHandler serves the catalogue.  Every read goes through the
// clearance gate and leaves with the secret masked below level 5.
type ObjectHandler struct {
	Objects *repository.ObjectRepo
	Metrics *metrics.Metrics
	Log     *zap.Logger
}

func NewObjectHandler(objects *repository.ObjectRepo, m *metrics.Metrics, log *zap.Logger) *ObjectHandler {
	if objects == nil {
		panic("nil repository passed to NewObjectHandler")
	}
	if m == nil {
		m = metrics.New()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &ObjectHandler{Objects: objects, Metrics: m, Log: log}
}

type createObjectReq struct {
	Number            string  `json:"number"`
	Name              string  `json:"name"`
	Codename          string  `json:"codename"`
	ThreatClass       string  `json:"threat_class"`
	Description       string  `json:"description"`
	SpecialProcedures *string `json:"special_procedures"`
	SecretData        *string `json:"secret_data"`
	ImageURL          *string `json:"image_url"`
}

// List returns every object the caller may read, ordered by number.
// Inaccessible records are omitted rather than refused.
func (h *ObjectHandler) List(c echo.Context) error {
	r := middleware.CurrentRequester(c)

	ctx, cancel := dbCtx(c)
	defer cancel()

	all, err := h.Objects.List(ctx)
	if err != nil {
		h.Log.Error("list objects", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]model.Object, 0, len(all))
	for _, o := range all {
		if !clearance.CanAccess(r.ClearanceLevel, o.ThreatClass) {
			continue
		}
		out = append(out, clearance.Redact(r.ClearanceLevel, o))
	}
	return c.JSON(http.StatusOK, out)
}

// Get returns one object by number.
func (h *ObjectHandler) Get(c echo.Context) error {
	r := middleware.CurrentRequester(c)

	ctx, cancel := dbCtx(c)
	defer cancel()

	o, err := h.Objects.GetByNumber(ctx, c.Param("number"))
	if err != nil {
		if errors.Is(err, repository.ErrObjectNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "object not found"})
		}
		h.Log.Error("get object", zap.String("number", c.Param("number")), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	d := clearance.Decide(r.ClearanceLevel, o.ThreatClass)
	if !d.Allowed {
		base, _, _ := strings.Cut(o.ThreatClass, " ")
		h.Metrics.AccessDenied.WithLabelValues(base).Inc()
		return c.JSON(http.StatusForbidden, echo.Map{"error": "insufficient clearance level"})
	}
	return c.JSON(http.StatusOK, clearance.Redact(r.ClearanceLevel, *o))
}

// Create adds an object.  Level 5 only.
func (h *ObjectHandler) Create(c echo.Context) error {
	var req createObjectReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Number = strings.TrimSpace(req.Number)
	if req.Number == "" || strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.ThreatClass) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "number, name and threat_class are required"})
	}
	o := &model.Object{
		Number:            req.Number,
		Name:              req.Name,
		Codename:          req.Codename,
		ThreatClass:       req.ThreatClass,
		Description:       req.Description,
		SpecialProcedures: req.SpecialProcedures,
		SecretData:        req.SecretData,
		ImageURL:          req.ImageURL,
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	if err := h.Objects.Create(ctx, o); err != nil {
		if errors.Is(err, repository.ErrNumberExists) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "object with this number already exists"})
		}
		h.Log.Error("create object", zap.String("number", o.Number), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create object"})
	}
	return c.JSON(http.StatusOK, o)
}

// Update applies the fields present in the body.  Level 5 only.
func (h *ObjectHandler) Update(c echo.Context) error {
	var patch model.ObjectPatch
	if err := c.Bind(&patch); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	o, err := h.Objects.Update(ctx, c.Param("number"), patch)
	if err != nil {
		if errors.Is(err, repository.ErrObjectNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "object not found"})
		}
		h.Log.Error("update object", zap.String("number", c.Param("number")), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not update object"})
	}
	return c.JSON(http.StatusOK, o)
}

// Delete removes an object.  Level 5 only.
func (h *ObjectHandler) Delete(c echo.Context) error {
	ctx, cancel := dbCtx(c)
	defer cancel()

	if err := h.Objects.Delete(ctx, c.Param("number")); err != nil {
		if errors.Is(err, repository.ErrObjectNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "object not found"})
		}
		h.Log.Error("delete object", zap.String("number", c.Param("number")), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not delete object"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Object deleted successfully"})
}
