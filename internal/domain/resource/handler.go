package resource

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/casework/casework/internal/platform/auth"
	"github.com/casework/casework/pkg/pagination"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	read := api.Group("", auth.RequireRole(auth.RoleCaseworker, auth.RoleSupervisor))
	read.GET("/resources", h.Search)
	read.GET("/resources/export", h.Export)
	read.GET("/resources/:id", h.Get)
	read.GET("/resources/:id/related", h.Related)
	read.GET("/favorites", h.ListFavorites)
	read.POST("/resources/:id/favorite", h.ToggleFavorite)
}

type searchResponse struct {
	*pagination.Response
	Explanation string `json:"explanation,omitempty"`
}

type resourceDetail struct {
	Resource
	Favorite bool `json:"favorite"`
}

func parseQuery(c echo.Context) (Filters, SortKey, error) {
	f, err := ParseFilters(c.QueryParams())
	if err != nil {
		return Filters{}, "", echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	key, err := ParseSortKey(c.QueryParam("sort"))
	if err != nil {
		return Filters{}, "", echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return f, key, nil
}

func notFoundOr500(err error) error {
	if errors.Is(err, ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "resource not found")
	}
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}

func (h *Handler) Search(c echo.Context) error {
	f, key, err := parseQuery(c)
	if err != nil {
		return err
	}
	pg := pagination.FromContext(c)
	res, err := h.svc.Search(c.Request().Context(), f, key, pg)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, searchResponse{
		Response:    pagination.NewResponse(res.Items, res.Total, pg.Limit, pg.Offset),
		Explanation: res.Explanation,
	})
}

func (h *Handler) Export(c echo.Context) error {
	f, key, err := parseQuery(c)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if _, err := h.svc.Export(c.Request().Context(), f, key, &buf); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="resources.xlsx"`)
	return c.Blob(http.StatusOK, xlsxContentType, buf.Bytes())
}

func (h *Handler) Get(c echo.Context) error {
	ctx := c.Request().Context()
	r, err := h.svc.Get(ctx, c.Param("id"))
	if err != nil {
		return notFoundOr500(err)
	}
	fav, err := h.svc.IsFavorite(ctx, auth.UserIDFromContext(ctx), r.ID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, resourceDetail{Resource: *r, Favorite: fav})
}

func (h *Handler) Related(c echo.Context) error {
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid limit")
		}
		limit = n
	}
	items, err := h.svc.Related(c.Request().Context(), c.Param("id"), limit)
	if err != nil {
		return notFoundOr500(err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) ToggleFavorite(c echo.Context) error {
	ctx := c.Request().Context()
	uid := auth.UserIDFromContext(ctx)
	if uid == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	fav, err := h.svc.ToggleFavorite(ctx, uid, c.Param("id"))
	if err != nil {
		return notFoundOr500(err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"resource_id": c.Param("id"),
		"favorite":    fav,
	})
}

func (h *Handler) ListFavorites(c echo.Context) error {
	ctx := c.Request().Context()
	items, err := h.svc.Favorites(ctx, auth.UserIDFromContext(ctx))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, items)
}
