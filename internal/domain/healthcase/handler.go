package healthcase

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
	protected.POST("/cases", h.Create)
	protected.GET("/cases", h.List)
	protected.GET("/cases/:id", h.Get)
	protected.PUT("/cases/:id", h.Update)
}

func callerID(c echo.Context) (uuid.UUID, error) {
	ident := auth.IdentityFromContext(c.Request().Context())
	if ident == nil {
		return uuid.Nil, apperr.ErrInvalidToken
	}
	id, err := uuid.Parse(ident.ID)
	if err != nil {
		return uuid.Nil, apperr.ErrInvalidToken
	}
	return id, nil
}

func (h *Handler) Create(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}
	var req createRequest
	if err := c.Bind(&req); err != nil {
		return apperr.ErrInvalidBody
	}
	hc, err := h.svc.Create(c.Request().Context(), userID, req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, hc)
}

func (h *Handler) List(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}
	cases, err := h.svc.List(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cases)
}

func (h *Handler) Get(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}
	caseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		// An unparsable id can never match a case; same answer as a miss.
		return apperr.ErrCaseNotFound
	}
	hc, err := h.svc.Get(c.Request().Context(), caseID, userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, hc)
}

func (h *Handler) Update(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}
	caseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.ErrCaseNotFound
	}
	var patch Patch
	if err := c.Bind(&patch); err != nil {
		return apperr.ErrInvalidBody
	}
	hc, err := h.svc.Update(c.Request().Context(), caseID, userID, patch)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, hc)
}
