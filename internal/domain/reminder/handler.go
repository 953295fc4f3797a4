package reminder

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/casework/casework/internal/platform/auth"
	"github.com/casework/casework/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("", auth.RequireRole(auth.RoleCaseworker, auth.RoleSupervisor))
	g.GET("/reminders", h.List)
	g.POST("/reminders", h.Create)
	g.GET("/reminders/:id", h.Get)
	g.POST("/reminders/:id/complete", h.Complete)
}

// view adds the derived overdue flag to API responses.
type view struct {
	*Reminder
	Overdue bool `json:"overdue"`
}

func (h *Handler) toView(r *Reminder) view {
	return view{Reminder: r, Overdue: r.IsOverdue(h.svc.Now())}
}

func errStatus(err error) error {
	if errors.Is(err, ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "reminder not found")
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}

func (h *Handler) Create(c echo.Context) error {
	var r Reminder
	if err := c.Bind(&r); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := h.svc.Create(c.Request().Context(), &r); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, h.toView(&r))
}

func (h *Handler) Get(c echo.Context) error {
	r, err := h.svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return errStatus(err)
	}
	return c.JSON(http.StatusOK, h.toView(r))
}

func (h *Handler) List(c echo.Context) error {
	f := Filter{
		ClientID:  c.QueryParam("client_id"),
		RelatedID: c.QueryParam("related_id"),
	}
	if raw := c.QueryParam("related_type"); raw != "" {
		t, err := ParseRelatedType(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		f.RelatedType = t
	}
	if raw := c.QueryParam("completed"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid completed")
		}
		f.Completed = &b
	}

	pg := pagination.FromContext(c)
	items, total, err := h.svc.List(c.Request().Context(), f, pg)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	views := make([]view, len(items))
	for i, r := range items {
		views[i] = h.toView(r)
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(views, total, pg.Limit, pg.Offset))
}

func (h *Handler) Complete(c echo.Context) error {
	ctx := c.Request().Context()
	r, err := h.svc.Complete(ctx, c.Param("id"), auth.UserIDFromContext(ctx))
	if err != nil {
		return errStatus(err)
	}
	return c.JSON(http.StatusOK, h.toView(r))
}
