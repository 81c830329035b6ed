package holiday

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/starford/dagaz/internal/models"
)

const defaultNagerBaseURL = "https://date.nager.at/api/v3"

// Nager fetches public holidays from the Nager.Date API.
type Nager struct {
	// BaseURL of the API, without trailing slash. Defaults to the public
	// Nager.Date endpoint; overridable for tests.
	BaseURL string
	Country string
	Client  *http.Client
}

// NewNager creates a provider for the given ISO 3166-1 country code.
func NewNager(country string) *Nager {
	return &Nager{
		BaseURL: defaultNagerBaseURL,
		Country: country,
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type nagerHoliday struct {
	Date      string `json:"date"`
	LocalName string `json:"localName"`
	Name      string `json:"name"`
	Global    bool   `json:"global"`
}

// Holidays fetches the public holidays for the given year.
func (n *Nager) Holidays(ctx context.Context, year int) ([]models.Holiday, error) {
	url := fmt.Sprintf("%s/PublicHolidays/%d/%s", n.BaseURL, year, n.Country)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("holiday: build request: %w", err)
	}

	resp, err := n.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("holiday: fetch %d/%s: %w", year, n.Country, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("holiday: fetch %d/%s: unexpected status %d", year, n.Country, resp.StatusCode)
	}

	var items []nagerHoliday
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("holiday: decode response: %w", err)
	}

	out := make([]models.Holiday, 0, len(items))
	for _, it := range items {
		date, err := time.Parse("2006-01-02", it.Date)
		if err != nil {
			return nil, fmt.Errorf("holiday: parse date %q: %w", it.Date, err)
		}
		kind := models.HolidayLocal
		if it.Global {
			kind = models.HolidayInternational
		}
		out = append(out, models.Holiday{
			ID:          holidayID(it.Date, it.Name),
			Date:        date,
			Name:        it.Name,
			Description: it.LocalName,
			Type:        kind,
		})
	}
	return out, nil
}

func holidayID(date, name string) string {
	slug := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), " ", "-"))
	return date + "-" + slug
}
