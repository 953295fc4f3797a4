package contact

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/casework/casework/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes exposes contacts to any authenticated user.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("", auth.RequireUser())
	g.GET("/contacts", h.List)
	g.GET("/safety-tips", h.SafetyTips)
}

func (h *Handler) List(c echo.Context) error {
	groups, err := h.svc.Grouped(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, groups)
}

func (h *Handler) SafetyTips(c echo.Context) error {
	tips, err := h.svc.SafetyTips(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, tips)
}
