package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"go-ma-automation/internal/logger"
	"go-ma-automation/internal/models"
)

var baseIndeedURL = "https://www.indeed.com/jobs"

// IndeedSource queries Indeed's JSON search endpoint, one request per
// configured keyword.
type IndeedSource struct {
	client      *RateLimitedClient
	keywords    []string
	location    string
	radiusMiles int
}

func NewIndeedSource(client *RateLimitedClient, keywords []string, location string, radiusMiles int) *IndeedSource {
	return &IndeedSource{
		client:      client,
		keywords:    keywords,
		location:    location,
		radiusMiles: radiusMiles,
	}
}

func (s *IndeedSource) Name() string { return "Indeed" }

type indeedResponse struct {
	Results []struct {
		Title    string `json:"jobtitle"`
		Company  string `json:"company"`
		Location string `json:"formattedLocation"`
		Snippet  string `json:"snippet"`
		URL      string `json:"url"`
		Date     string `json:"date"`
	} `json:"results"`
}

func (s *IndeedSource) Fetch(ctx context.Context) ([]models.JobPosting, error) {
	var jobs []models.JobPosting
	for _, keyword := range s.keywords {
		batch, err := s.search(ctx, keyword)
		if err != nil {
			return jobs, fmt.Errorf("searching Indeed for %q: %w", keyword, err)
		}
		jobs = append(jobs, batch...)
	}
	return jobs, nil
}

func (s *IndeedSource) search(ctx context.Context, keyword string) ([]models.JobPosting, error) {
	log := logger.Get().With().Str("source", "Indeed").Str("keyword", keyword).Logger()

	urlParams := url.Values{}
	urlParams.Add("q", keyword)
	urlParams.Add("l", s.location)
	urlParams.Add("radius", strconv.Itoa(s.radiusMiles))
	urlParams.Add("format", "json")

	log.Debug().Str("url", baseIndeedURL+"?"+urlParams.Encode()).Msg("Sending request")
	req, err := http.NewRequestWithContext(ctx, "GET", baseIndeedURL+"?"+urlParams.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var parsed indeedResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	jobs := make([]models.JobPosting, 0, len(parsed.Results))
	for _, r := range parsed.Results {
		jobs = append(jobs, models.JobPosting{
			Title:       r.Title,
			Company:     r.Company,
			Location:    r.Location,
			Description: r.Snippet,
			URL:         r.URL,
			Source:      "Indeed",
			PostedDate:  r.Date,
			JobType:     "Full-time",
		})
	}
	log.Info().Int("count", len(jobs)).Msg("Parsed search results")
	return jobs, nil
}
