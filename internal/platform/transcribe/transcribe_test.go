package transcribe

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/medilens/medilens/internal/platform/apperr"
)

func TestValidateFilename(t *testing.T) {
	for _, name := range []string{"a.wav", "b.MP3", "c.webm", "d.flac"} {
		if err := ValidateFilename(name); err != nil {
			t.Errorf("%s should be accepted: %v", name, err)
		}
	}
	for _, name := range []string{"a.txt", "b.exe", "noext"} {
		if err := ValidateFilename(name); !errors.Is(err, apperr.ErrUnsupportedFile) {
			t.Errorf("%s should be rejected with UNSUPPORTED_FILE_TYPE, got %v", name, err)
		}
	}
}

func TestTranscribe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("expected multipart body: %v", err)
		}
		if r.FormValue("model") != "whisper-1" {
			t.Errorf("expected model field, got %q", r.FormValue("model"))
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("missing file part: %v", err)
		}
		defer file.Close()
		if header.Filename != "clip.wav" {
			t.Errorf("filename not forwarded: %s", header.Filename)
		}
		json.NewEncoder(w).Encode(Transcription{Text: "I have a headache", Language: "en", Duration: 2.4})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "key", "whisper-1", time.Second)
	got, err := c.Transcribe(context.Background(), "clip.wav", strings.NewReader("fake-audio-bytes"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Text != "I have a headache" || got.Language != "en" {
		t.Errorf("unexpected transcription: %+v", got)
	}
}

func TestTranscribe_UpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "key", "whisper-1", time.Second)
	_, err := c.Transcribe(context.Background(), "clip.wav", strings.NewReader("x"))
	ae := apperr.From(err)
	if ae == nil || ae.Code != "TRANSCRIPTION_FAILED" {
		t.Errorf("expected TRANSCRIPTION_FAILED, got %v", err)
	}
}

func TestTranscribe_NotConfigured(t *testing.T) {
	c := NewClient("http://localhost:0", "", "whisper-1", time.Second)
	_, err := c.Transcribe(context.Background(), "clip.wav", strings.NewReader("x"))
	ae := apperr.From(err)
	if ae == nil || ae.Code != "SERVER_MISCONFIGURED" {
		t.Errorf("expected SERVER_MISCONFIGURED, got %v", err)
	}
}

func TestTranscribe_RejectsBadExtensionBeforeCall(t *testing.T) {
	c := NewClient("http://localhost:0", "key", "whisper-1", time.Second)
	_, err := c.Transcribe(context.Background(), "notes.txt", strings.NewReader("x"))
	if !errors.Is(err, apperr.ErrUnsupportedFile) {
		t.Errorf("expected UNSUPPORTED_FILE_TYPE, got %v", err)
	}
}
