// Package holiday defines the external holiday feed boundary.
package holiday

import (
	"context"

	"github.com/starford/dagaz/internal/models"
)

// Provider supplies the read-only holiday set for a calendar year.
// The core calls it once at startup and treats the result as an immutable
// snapshot for the session.
type Provider interface {
	Holidays(ctx context.Context, year int) ([]models.Holiday, error)
}

// Static serves a fixed, config-seeded holiday list.
type Static struct {
	entries []models.Holiday
}

// NewStatic creates a provider over the given entries.
func NewStatic(entries []models.Holiday) *Static {
	return &Static{entries: append([]models.Holiday(nil), entries...)}
}

// Holidays returns the entries falling in the given year.
func (s *Static) Holidays(_ context.Context, year int) ([]models.Holiday, error) {
	var out []models.Holiday
	for _, h := range s.entries {
		if h.Date.Year() == year {
			out = append(out, h)
		}
	}
	return out, nil
}
