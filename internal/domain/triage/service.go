package triage

import (
	"context"
	"io"
	"strings"

	"github.com/medilens/medilens/internal/platform/ai"
	"github.com/medilens/medilens/internal/platform/apperr"
	"github.com/medilens/medilens/internal/platform/transcribe"
)

// SymptomAnalyzer produces a free-text triage write-up for symptoms.
type SymptomAnalyzer interface {
	AnalyzeSymptoms(ctx context.Context, symptoms string, hasImage bool) (string, error)
}

// ImageAnalyzer produces a structured analysis for a base64 image.
type ImageAnalyzer interface {
	AnalyzeImage(ctx context.Context, base64Image, userContext string) (ai.Analysis, error)
}

// Transcriber turns an uploaded audio stream into text.
type Transcriber interface {
	Transcribe(ctx context.Context, filename string, audio io.Reader) (transcribe.Transcription, error)
}

type Service struct {
	symptoms    SymptomAnalyzer
	images      ImageAnalyzer
	transcriber Transcriber
}

func NewService(symptoms SymptomAnalyzer, images ImageAnalyzer, transcriber Transcriber) *Service {
	return &Service{symptoms: symptoms, images: images, transcriber: transcriber}
}

func (s *Service) Analyze(ctx context.Context, symptoms string, hasImage bool) (string, error) {
	if strings.TrimSpace(symptoms) == "" {
		return "", apperr.ErrMissingSymptoms
	}
	return s.symptoms.AnalyzeSymptoms(ctx, symptoms, hasImage)
}

func (s *Service) AnalyzeImage(ctx context.Context, base64Image, userContext string) (ai.Analysis, error) {
	if strings.TrimSpace(base64Image) == "" {
		return ai.Analysis{}, apperr.ErrInvalidImage
	}
	return s.images.AnalyzeImage(ctx, base64Image, userContext)
}

func (s *Service) Transcribe(ctx context.Context, filename string, audio io.Reader) (transcribe.Transcription, error) {
	if err := transcribe.ValidateFilename(filename); err != nil {
		return transcribe.Transcription{}, err
	}
	return s.transcriber.Transcribe(ctx, filename, audio)
}
