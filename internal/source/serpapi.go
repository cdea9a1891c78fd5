package source

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/spigell/jobmate/internal/jobs"
)

const serpapiAPIURL = "https://serpapi.com/search"

// SerpAPI fetches Google Jobs results through SerpAPI. Google Jobs reports
// posting age in free text ("3 days ago"), so no local recency filter is
// applied; results are already ranked fresh-first.
type SerpAPI struct {
	client
	APIURL  string
	apiKey  string
	filters FilterConfig
}

type serpapiResponse struct {
	JobsResults []serpapiJob `mapstructure:"jobs_results"`
}

type serpapiJob struct {
	Title              string `mapstructure:"title"`
	CompanyName        string `mapstructure:"company_name"`
	Location           string `mapstructure:"location"`
	Description        string `mapstructure:"description"`
	ShareLink          string `mapstructure:"share_link"`
	ApplyLink          string `mapstructure:"apply_link"`
	DetectedExtensions struct {
		Salary   string `mapstructure:"salary"`
		PostedAt string `mapstructure:"posted_at"`
	} `mapstructure:"detected_extensions"`
}

func NewSerpAPI(apiKey string, filters FilterConfig, logger *zap.Logger) *SerpAPI {
	return &SerpAPI{
		client:  newClient(logger.With(zap.String("source", "serpapi")), nil),
		APIURL:  serpapiAPIURL,
		apiKey:  apiKey,
		filters: filters.withDefaults(),
	}
}

func (s *SerpAPI) Name() string { return "serpapi" }

func (s *SerpAPI) Available() bool { return s.apiKey != "" }

func (s *SerpAPI) Fetch(ctx context.Context, q Query) (*jobs.Postings, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.APIURL, nil)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("engine", "google_jobs")
	params.Set("q", searchQuery(q))
	params.Set("location", q.Location)
	params.Set("api_key", s.apiKey)
	params.Set("num", "10")

	var raw map[string]any
	if err := s.getJSON(req, params, &raw); err != nil {
		return nil, fmt.Errorf("serpapi search: %w", err)
	}

	var response serpapiResponse
	if err := mapstructure.Decode(raw, &response); err != nil {
		return nil, fmt.Errorf("serpapi response: %w", err)
	}

	postings := &jobs.Postings{}
	for _, job := range response.JobsResults {
		text := fmt.Sprintf("%s %s", job.Title, job.Description)
		if !quickMatch(text, q.Skills) {
			continue
		}

		link := job.ShareLink
		if link == "" {
			link = job.ApplyLink
		}

		location := job.Location
		if location == "" {
			location = "Remote"
		}

		postings.Append(&jobs.Posting{
			Title:       orPlaceholder(job.Title),
			Company:     orPlaceholder(job.CompanyName),
			Location:    location,
			Description: truncateDescription(job.Description),
			URL:         link,
			Salary:      orNotSpecified(job.DetectedExtensions.Salary),
			Remote:      containsRemote(text),
			PostedAt:    job.DetectedExtensions.PostedAt,
			Source:      s.Name(),
		})

		if postings.Len() >= s.filters.PerSourceLimit {
			break
		}
	}

	return postings, nil
}

// searchQuery joins the leading two skills into a Google Jobs search term.
func searchQuery(q Query) string {
	skills := q.Skills
	if len(skills) > 2 {
		skills = skills[:2]
	}
	if len(skills) == 0 {
		return "software developer jobs"
	}
	return strings.Join(skills, " OR ") + " jobs"
}
