package scraper

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"go-ma-automation/internal/logger"
	"go-ma-automation/internal/models"
)

var baseLinkedInURL = "https://www.linkedin.com/jobs-guest/jobs/api/seeMoreJobPostings/search"

// LinkedInSource scrapes the public guest search endpoint, one request per
// configured keyword.
type LinkedInSource struct {
	client   *RateLimitedClient
	keywords []string
	location string
}

func NewLinkedInSource(client *RateLimitedClient, keywords []string, location string) *LinkedInSource {
	return &LinkedInSource{
		client:   client,
		keywords: keywords,
		location: location,
	}
}

func (s *LinkedInSource) Name() string { return "LinkedIn" }

func (s *LinkedInSource) Fetch(ctx context.Context) ([]models.JobPosting, error) {
	var jobs []models.JobPosting
	for _, keyword := range s.keywords {
		batch, err := s.search(ctx, keyword)
		if err != nil {
			return jobs, fmt.Errorf("searching LinkedIn for %q: %w", keyword, err)
		}
		jobs = append(jobs, batch...)
	}
	return jobs, nil
}

func (s *LinkedInSource) search(ctx context.Context, keyword string) ([]models.JobPosting, error) {
	log := logger.Get().With().Str("source", "LinkedIn").Str("keyword", keyword).Logger()

	urlParams := url.Values{}
	urlParams.Add("keywords", keyword)
	urlParams.Add("location", s.location)
	urlParams.Add("start", "0")

	log.Debug().Str("url", baseLinkedInURL+"?"+urlParams.Encode()).Msg("Sending request")
	req, err := http.NewRequestWithContext(ctx, "GET", baseLinkedInURL+"?"+urlParams.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	jobs := extractJobCards(doc)
	log.Info().Int("count", len(jobs)).Msg("Parsed job cards")
	return jobs, nil
}

// extractJobCards walks the guest-API markup looking for job-search-card
// divs and pulls title (h3), company (h4), location and link out of each.
func extractJobCards(doc *html.Node) []models.JobPosting {
	var jobs []models.JobPosting

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "div" && hasClass(n, "job-search-card") {
			job := models.JobPosting{Source: "LinkedIn", JobType: "Full-time"}

			var findDetails func(*html.Node)
			findDetails = func(node *html.Node) {
				if node.Type == html.ElementNode {
					switch node.Data {
					case "h3":
						job.Title = strings.TrimSpace(textContent(node))
					case "h4":
						job.Company = strings.TrimSpace(textContent(node))
					case "span":
						if hasClass(node, "job-search-card__location") {
							job.Location = strings.TrimSpace(textContent(node))
						}
					case "a":
						if job.URL == "" {
							for _, a := range node.Attr {
								if a.Key == "href" {
									job.URL = a.Val
									break
								}
							}
						}
					case "p":
						if hasClass(node, "job-search-card__snippet") {
							job.Description = strings.TrimSpace(textContent(node))
						}
					}
				}
				for c := node.FirstChild; c != nil; c = c.NextSibling {
					findDetails(c)
				}
			}
			findDetails(n)

			if job.Title != "" && job.Company != "" {
				jobs = append(jobs, job)
			}
			return
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return jobs
}

func hasClass(n *html.Node, class string) bool {
	for _, a := range n.Attr {
		if a.Key == "class" && strings.Contains(a.Val, class) {
			return true
		}
	}
	return false
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			b.WriteString(node.Data)
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
