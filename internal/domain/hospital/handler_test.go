package hospital

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/medilens/medilens/internal/platform/apperr"
)

func TestDirectorySearch(t *testing.T) {
	dir, err := NewDirectory()
	if err != nil {
		t.Fatalf("NewDirectory: %v", err)
	}

	all := dir.Search("", "")
	if len(all) == 0 {
		t.Fatal("embedded directory is empty")
	}

	pune := dir.Search("", "pune")
	if len(pune) == 0 {
		t.Fatal("no hospitals for city filter")
	}
	for _, h := range pune {
		if h.City != "Pune" {
			t.Errorf("city filter leaked %q", h.City)
		}
	}

	apollo := dir.Search("apollo", "")
	if len(apollo) == 0 {
		t.Fatal("no hospitals for query filter")
	}
	for _, h := range apollo {
		if !containsFold(h.Name, "apollo") {
			t.Errorf("query matched %q unexpectedly", h.Name)
		}
	}

	combined := dir.Search("apollo", "chennai")
	for _, h := range combined {
		if h.City != "Chennai" {
			t.Errorf("combined filters leaked %q", h.City)
		}
	}

	if got := dir.Search("zzz-no-such-place", ""); len(got) != 0 {
		t.Errorf("expected no matches, got %d", len(got))
	}
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func newTestEcho(t *testing.T, styles *MapStyleClient) *echo.Echo {
	t.Helper()
	dir, err := NewDirectory()
	if err != nil {
		t.Fatalf("NewDirectory: %v", err)
	}
	e := echo.New()
	e.HTTPErrorHandler = apperr.HTTPErrorHandler(zerolog.Nop())
	NewHandler(dir, styles).RegisterRoutes(e.Group("/api"))
	return e
}

func TestListPagination(t *testing.T) {
	e := newTestEcho(t, NewMapStyleClient("", time.Second))

	req := httptest.NewRequest(http.MethodGet, "/api/hospitals?limit=5&offset=0", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp struct {
		Data    []Hospital `json:"data"`
		Total   int        `json:"total"`
		HasMore bool       `json:"has_more"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Data) != 5 {
		t.Errorf("page size = %d, want 5", len(resp.Data))
	}
	if resp.Total <= 5 {
		t.Errorf("total = %d, expected more than one page", resp.Total)
	}
	if !resp.HasMore {
		t.Error("expected has_more on first page")
	}
}

func TestMapStyleNotConfigured(t *testing.T) {
	e := newTestEcho(t, NewMapStyleClient("", time.Second))

	req := httptest.NewRequest(http.MethodGet, "/api/map-style", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	var body map[string]string
	json.Unmarshal(rec.Body.Bytes(), &body)
	if body["code"] != "RAPIDAPI_NOT_CONFIGURED" {
		t.Errorf("code = %q", body["code"])
	}
}

func TestMapStyleProxiesUpstream(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-RapidAPI-Key") != "rk" {
			t.Errorf("missing rapidapi key header")
		}
		if r.Header.Get("X-RapidAPI-Host") == "" {
			t.Errorf("missing rapidapi host header")
		}
		w.Write([]byte(`{"version":8,"name":"osm-carto"}`))
	}))
	defer upstream.Close()

	client := NewMapStyleClient("rk", time.Second)
	client.url = upstream.URL
	e := newTestEcho(t, client)

	req := httptest.NewRequest(http.MethodGet, "/api/map-style", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var style map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &style); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if style["name"] != "osm-carto" {
		t.Errorf("style name = %v", style["name"])
	}
}

func TestMapStyleUpstreamFailure(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer upstream.Close()

	client := NewMapStyleClient("rk", time.Second)
	client.url = upstream.URL
	e := newTestEcho(t, client)

	req := httptest.NewRequest(http.MethodGet, "/api/map-style", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
	var body map[string]string
	json.Unmarshal(rec.Body.Bytes(), &body)
	if body["code"] != "MAP_STYLE_FAILED" {
		t.Errorf("code = %q", body["code"])
	}
}
