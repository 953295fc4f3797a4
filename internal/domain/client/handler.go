package client

import (
	"errors"
	"net/http"
	"time"

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
	g.GET("/clients", h.Search)
	g.POST("/clients", h.Create)
	g.GET("/clients/:id", h.Get)
	g.GET("/clients/:id/stats", h.Stats)
	g.GET("/clients/:id/timeline", h.Timeline)
}

func errStatus(err error) error {
	if errors.Is(err, ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "client not found")
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}

func (h *Handler) Create(c echo.Context) error {
	var cl Client
	if err := c.Bind(&cl); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	cl.ID = ""
	if err := h.svc.Create(c.Request().Context(), &cl); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusCreated, cl)
}

func (h *Handler) Get(c echo.Context) error {
	cl, err := h.svc.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return errStatus(err)
	}
	return c.JSON(http.StatusOK, cl)
}

func (h *Handler) Search(c echo.Context) error {
	pg := pagination.FromContext(c)
	items, total, err := h.svc.Search(c.Request().Context(), c.QueryParam("q"), pg)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) Stats(c echo.Context) error {
	st, err := h.svc.Stats(c.Request().Context(), c.Param("id"), time.Now())
	if err != nil {
		return errStatus(err)
	}
	return c.JSON(http.StatusOK, st)
}

func (h *Handler) Timeline(c echo.Context) error {
	items, err := h.svc.Timeline(c.Request().Context(), c.Param("id"))
	if err != nil {
		return errStatus(err)
	}
	return c.JSON(http.StatusOK, items)
}
