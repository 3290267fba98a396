package profile

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/medilens/medilens/internal/platform/apperr"
	"github.com/medilens/medilens/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(protected *echo.Group) {
	protected.GET("/profile", h.Get)
	protected.POST("/profile", h.Upsert)
}

func (h *Handler) Get(c echo.Context) error {
	ident := auth.IdentityFromContext(c.Request().Context())
	if ident == nil {
		return apperr.ErrInvalidToken
	}
	userID, err := uuid.Parse(ident.ID)
	if err != nil {
		return apperr.ErrInvalidToken
	}
	p, err := h.svc.Get(c.Request().Context(), userID, ident.Email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

func (h *Handler) Upsert(c echo.Context) error {
	ident := auth.IdentityFromContext(c.Request().Context())
	if ident == nil {
		return apperr.ErrInvalidToken
	}
	userID, err := uuid.Parse(ident.ID)
	if err != nil {
		return apperr.ErrInvalidToken
	}

	var fields map[string]any
	if err := c.Bind(&fields); err != nil {
		return apperr.ErrInvalidBody
	}
	p, err := h.svc.Upsert(c.Request().Context(), userID, fields)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}
