package hospital

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medilens/medilens/pkg/pagination"
)

type Handler struct {
	dir    *Directory
	styles *MapStyleClient
}

func NewHandler(dir *Directory, styles *MapStyleClient) *Handler {
	return &Handler{dir: dir, styles: styles}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/hospitals", h.List)
	api.GET("/map-style", h.MapStyle)
}

func (h *Handler) List(c echo.Context) error {
	matches := h.dir.Search(c.QueryParam("q"), c.QueryParam("city"))
	p := pagination.FromContext(c)
	start, end := p.Slice(len(matches))
	return c.JSON(http.StatusOK,
		pagination.NewResponse(matches[start:end], len(matches), p.Limit, p.Offset))
}

func (h *Handler) MapStyle(c echo.Context) error {
	style, err := h.styles.Fetch(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSONBlob(http.StatusOK, style)
}
