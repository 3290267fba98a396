package hospital

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
)

//go:embed hospitals.json
var hospitalsJSON []byte

// Hospital is one entry of the bundled facility directory.
type Hospital struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	Address  string  `json:"address"`
	City     string  `json:"city"`
	State    string  `json:"state"`
	Phone    string  `json:"phone"`
	Category string  `json:"category"`
}

// Directory serves the embedded hospital list. The data set is small and
// static, so filtering happens in memory.
type Directory struct {
	hospitals []Hospital
}

func NewDirectory() (*Directory, error) {
	var hospitals []Hospital
	if err := json.Unmarshal(hospitalsJSON, &hospitals); err != nil {
		return nil, fmt.Errorf("parse embedded hospitals: %w", err)
	}
	return &Directory{hospitals: hospitals}, nil
}

// Search filters by free-text query (name, address, city) and by exact
// city, both case-insensitive. Empty filters match everything.
func (d *Directory) Search(query, city string) []Hospital {
	query = strings.ToLower(strings.TrimSpace(query))
	city = strings.ToLower(strings.TrimSpace(city))

	out := make([]Hospital, 0, len(d.hospitals))
	for _, h := range d.hospitals {
		if city != "" && strings.ToLower(h.City) != city {
			continue
		}
		if query != "" && !matchesQuery(h, query) {
			continue
		}
		out = append(out, h)
	}
	return out
}

func matchesQuery(h Hospital, query string) bool {
	for _, field := range []string{h.Name, h.Address, h.City} {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}
