package triage

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/medilens/medilens/internal/platform/ai"
	"github.com/medilens/medilens/internal/platform/apperr"
	"github.com/medilens/medilens/internal/platform/transcribe"
)

type fakeSymptomAnalyzer struct {
	gotSymptoms string
	gotHasImage bool
	reply       string
	err         error
}

func (f *fakeSymptomAnalyzer) AnalyzeSymptoms(_ context.Context, symptoms string, hasImage bool) (string, error) {
	f.gotSymptoms = symptoms
	f.gotHasImage = hasImage
	return f.reply, f.err
}

type fakeImageAnalyzer struct {
	gotImage   string
	gotContext string
	reply      ai.Analysis
	err        error
}

func (f *fakeImageAnalyzer) AnalyzeImage(_ context.Context, base64Image, userContext string) (ai.Analysis, error) {
	f.gotImage = base64Image
	f.gotContext = userContext
	return f.reply, f.err
}

type fakeTranscriber struct {
	gotFilename string
	gotAudio    []byte
	reply       transcribe.Transcription
	err         error
}

func (f *fakeTranscriber) Transcribe(_ context.Context, filename string, audio io.Reader) (transcribe.Transcription, error) {
	f.gotFilename = filename
	f.gotAudio, _ = io.ReadAll(audio)
	return f.reply, f.err
}

func newTestEcho(svc *Service) *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = apperr.HTTPErrorHandler(zerolog.Nop())
	api := e.Group("/api")
	// Handlers read no identity, so public and protected can share a group here.
	NewHandler(svc).RegisterRoutes(api, api)
	return e
}

func postJSON(e *echo.Echo, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestAnalyzeForwardsSymptoms(t *testing.T) {
	analyzer := &fakeSymptomAnalyzer{reply: "rest and hydrate"}
	e := newTestEcho(NewService(analyzer, &fakeImageAnalyzer{}, &fakeTranscriber{}))

	rec := postJSON(e, "/api/analyze", `{"symptoms":"fever for two days","has_image":true}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if analyzer.gotSymptoms != "fever for two days" || !analyzer.gotHasImage {
		t.Errorf("analyzer got (%q, %v)", analyzer.gotSymptoms, analyzer.gotHasImage)
	}
	var body map[string]string
	json.Unmarshal(rec.Body.Bytes(), &body)
	if body["analysis"] != "rest and hydrate" {
		t.Errorf("analysis = %q", body["analysis"])
	}
}

func TestAnalyzeMissingSymptoms(t *testing.T) {
	e := newTestEcho(NewService(&fakeSymptomAnalyzer{}, &fakeImageAnalyzer{}, &fakeTranscriber{}))
	rec := postJSON(e, "/api/analyze", `{"symptoms":"  "}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var body map[string]string
	json.Unmarshal(rec.Body.Bytes(), &body)
	if body["code"] != "MISSING_SYMPTOMS" {
		t.Errorf("code = %q", body["code"])
	}
}

func TestAnalyzeImageAcceptsBothImageKeys(t *testing.T) {
	images := &fakeImageAnalyzer{reply: ai.Analysis{Success: true, UrgencyLevel: "low"}}
	e := newTestEcho(NewService(&fakeSymptomAnalyzer{}, images, &fakeTranscriber{}))

	rec := postJSON(e, "/api/analyze-image", `{"image_base64":"AAAA","user_prompt":"left arm"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if images.gotImage != "AAAA" || images.gotContext != "left arm" {
		t.Errorf("analyzer got (%q, %q)", images.gotImage, images.gotContext)
	}

	rec = postJSON(e, "/api/analyze-image-public", `{"image":"BBBB","symptoms":"itchy rash"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("public status = %d", rec.Code)
	}
	if images.gotImage != "BBBB" || images.gotContext != "itchy rash" {
		t.Errorf("analyzer got (%q, %q)", images.gotImage, images.gotContext)
	}
}

func TestAnalyzeImageMissingImage(t *testing.T) {
	e := newTestEcho(NewService(&fakeSymptomAnalyzer{}, &fakeImageAnalyzer{}, &fakeTranscriber{}))
	rec := postJSON(e, "/api/analyze-image", `{"symptoms":"no picture"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var body map[string]string
	json.Unmarshal(rec.Body.Bytes(), &body)
	if body["code"] != "INVALID_IMAGE" {
		t.Errorf("code = %q", body["code"])
	}
}

func postMultipart(e *echo.Echo, path, filename string, content []byte) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if filename != "" {
		fw, _ := mw.CreateFormFile("file", filename)
		fw.Write(content)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set(echo.HeaderContentType, mw.FormDataContentType())
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestTranscribeForwardsFile(t *testing.T) {
	tr := &fakeTranscriber{reply: transcribe.Transcription{Text: "my knee hurts"}}
	e := newTestEcho(NewService(&fakeSymptomAnalyzer{}, &fakeImageAnalyzer{}, tr))

	rec := postMultipart(e, "/api/transcribe", "note.mp3", []byte("audio-bytes"))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if tr.gotFilename != "note.mp3" || string(tr.gotAudio) != "audio-bytes" {
		t.Errorf("transcriber got (%q, %q)", tr.gotFilename, tr.gotAudio)
	}
	var body map[string]any
	json.Unmarshal(rec.Body.Bytes(), &body)
	if body["text"] != "my knee hurts" {
		t.Errorf("text = %v", body["text"])
	}
}

func TestTranscribeMissingFile(t *testing.T) {
	e := newTestEcho(NewService(&fakeSymptomAnalyzer{}, &fakeImageAnalyzer{}, &fakeTranscriber{}))
	rec := postMultipart(e, "/api/transcribe-public", "", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var body map[string]string
	json.Unmarshal(rec.Body.Bytes(), &body)
	if body["code"] != "MISSING_FILE" {
		t.Errorf("code = %q", body["code"])
	}
}

func TestTranscribeRejectsUnsupportedExtension(t *testing.T) {
	tr := &fakeTranscriber{}
	e := newTestEcho(NewService(&fakeSymptomAnalyzer{}, &fakeImageAnalyzer{}, tr))

	rec := postMultipart(e, "/api/transcribe", "malware.exe", []byte("x"))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var body map[string]string
	json.Unmarshal(rec.Body.Bytes(), &body)
	if body["code"] != "UNSUPPORTED_FILE_TYPE" {
		t.Errorf("code = %q", body["code"])
	}
	if tr.gotFilename != "" {
		t.Error("transcriber should not be called for rejected extension")
	}
}
