package triage

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medilens/medilens/internal/platform/apperr"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts authenticated endpoints on protected and their
// anonymous "-public" twins on api.
func (h *Handler) RegisterRoutes(api, protected *echo.Group) {
	protected.POST("/analyze", h.Analyze)
	protected.POST("/analyze-image", h.AnalyzeImage)
	protected.POST("/transcribe", h.Transcribe)

	api.POST("/analyze-image-public", h.AnalyzeImage)
	api.POST("/transcribe-public", h.Transcribe)
}

type analyzeRequest struct {
	Symptoms string `json:"symptoms"`
	HasImage bool   `json:"has_image"`
}

func (h *Handler) Analyze(c echo.Context) error {
	var req analyzeRequest
	if err := c.Bind(&req); err != nil {
		return apperr.ErrInvalidBody
	}
	analysis, err := h.svc.Analyze(c.Request().Context(), req.Symptoms, req.HasImage)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"analysis": analysis})
}

type analyzeImageRequest struct {
	ImageBase64 string `json:"image_base64"`
	Image       string `json:"image"`
	Symptoms    string `json:"symptoms"`
	UserPrompt  string `json:"user_prompt"`
}

func (r analyzeImageRequest) image() string {
	if r.ImageBase64 != "" {
		return r.ImageBase64
	}
	return r.Image
}

func (r analyzeImageRequest) context() string {
	if r.UserPrompt != "" {
		return r.UserPrompt
	}
	return r.Symptoms
}

func (h *Handler) AnalyzeImage(c echo.Context) error {
	var req analyzeImageRequest
	if err := c.Bind(&req); err != nil {
		return apperr.ErrInvalidBody
	}
	analysis, err := h.svc.AnalyzeImage(c.Request().Context(), req.image(), req.context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, analysis)
}

func (h *Handler) Transcribe(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return apperr.ErrMissingFile
	}
	f, err := fh.Open()
	if err != nil {
		return apperr.Internal(err)
	}
	defer f.Close()

	result, err := h.svc.Transcribe(c.Request().Context(), fh.Filename, f)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, result)
}
