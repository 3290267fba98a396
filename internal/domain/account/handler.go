package account

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

// RegisterRoutes mounts the public auth endpoints on api and the
// authenticated account endpoints on protected.
func (h *Handler) RegisterRoutes(api, protected *echo.Group) {
	api.POST("/auth/register", h.Register)
	api.POST("/auth/login", h.Login)

	protected.GET("/me", h.Me)
	protected.POST("/auth/logout", h.Logout)
	protected.GET("/admin/dashboard", h.AdminDashboard, auth.RequireRole("admin"))
}

func (h *Handler) Register(c echo.Context) error {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return apperr.ErrInvalidBody
	}
	res, err := h.svc.Register(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, authResponse(res))
}

func (h *Handler) Login(c echo.Context) error {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return apperr.ErrInvalidBody
	}
	res, err := h.svc.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, authResponse(res))
}

type currentUser struct {
	ID     string       `json:"id"`
	Email  string       `json:"email"`
	Role   string       `json:"role"`
	Claims *auth.Claims `json:"claims,omitempty"`
}

type meResponse struct {
	User currentUser `json:"user"`
}

func (h *Handler) Me(c echo.Context) error {
	ident := auth.IdentityFromContext(c.Request().Context())
	if ident == nil {
		return apperr.ErrInvalidToken
	}
	id, err := uuid.Parse(ident.ID)
	if err != nil {
		return apperr.ErrInvalidToken
	}
	user, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, meResponse{User: currentUser{
		ID:     user.ID.String(),
		Email:  user.Email,
		Role:   ident.Role,
		Claims: ident.Claims,
	}})
}

// Logout is stateless: tokens expire on their own, the client just drops its copy.
func (h *Handler) Logout(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"message": "logged out"})
}

func (h *Handler) AdminDashboard(c echo.Context) error {
	ident := auth.IdentityFromContext(c.Request().Context())
	if ident == nil {
		return apperr.ErrInvalidToken
	}
	return c.JSON(http.StatusOK, map[string]string{
		"message": "admin dashboard",
		"user":    ident.Email,
	})
}

func authResponse(res *AuthResult) tokenResponse {
	return tokenResponse{
		AccessToken: res.Token,
		TokenType:   "bearer",
		User:        userSummary{ID: res.User.ID.String(), Email: res.User.Email},
	}
}
