package hospital

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/medilens/medilens/internal/platform/apperr"
)

const (
	mapStyleHost = "maptoolkit.p.rapidapi.com"
	mapStyleURL  = "https://" + mapStyleHost + "/maps/style/osm-carto/style.json"
)

// MapStyleClient proxies the RapidAPI osm-carto map style document.
type MapStyleClient struct {
	apiKey string
	url    string
	host   string
	http   *http.Client
}

func NewMapStyleClient(apiKey string, timeout time.Duration) *MapStyleClient {
	return &MapStyleClient{
		apiKey: apiKey,
		url:    mapStyleURL,
		host:   mapStyleHost,
		http:   &http.Client{Timeout: timeout},
	}
}

func (c *MapStyleClient) Configured() bool {
	return c.apiKey != ""
}

// Fetch returns the upstream style document verbatim.
func (c *MapStyleClient) Fetch(ctx context.Context) ([]byte, error) {
	if !c.Configured() {
		return nil, apperr.ErrRapidAPINotConfigured
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	req.Header.Set("X-RapidAPI-Key", c.apiKey)
	req.Header.Set("X-RapidAPI-Host", c.host)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, apperr.ErrMapStyleFailed.WithMessage("map style fetch: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperr.ErrMapStyleFailed.WithMessage("map style upstream returned %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperr.ErrMapStyleFailed.WithMessage("%v", fmt.Errorf("read style body: %w", err))
	}
	return body, nil
}
