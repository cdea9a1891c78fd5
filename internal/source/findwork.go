package source

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/spigell/jobmate/internal/jobs"
)

const findworkAPIURL = "https://findwork.dev/api/jobs/"

// FindWork fetches postings from the FindWork API. FindWork does not filter
// by age server-side, so the recency window is applied locally.
type FindWork struct {
	client
	APIURL  string
	apiKey  string
	filters FilterConfig
	now     func() time.Time
}

type findworkResponse struct {
	Results []findworkJob `mapstructure:"results"`
}

type findworkJob struct {
	Role        string `mapstructure:"role"`
	CompanyName string `mapstructure:"company_name"`
	Location    string `mapstructure:"location"`
	Text        string `mapstructure:"text"`
	URL         string `mapstructure:"url"`
	Remote      bool   `mapstructure:"remote"`
	DatePosted  string `mapstructure:"date_posted"`
	Keywords    string `mapstructure:"keywords"`
}

func NewFindWork(apiKey string, filters FilterConfig, logger *zap.Logger) *FindWork {
	headers := map[string]string{}
	if apiKey != "" {
		headers["Authorization"] = fmt.Sprintf("Token %s", apiKey)
	}

	return &FindWork{
		client:  newClient(logger.With(zap.String("source", "findwork")), headers),
		APIURL:  findworkAPIURL,
		apiKey:  apiKey,
		filters: filters.withDefaults(),
		now:     time.Now,
	}
}

func (f *FindWork) Name() string { return "findwork" }

func (f *FindWork) Available() bool { return f.apiKey != "" }

func (f *FindWork) Fetch(ctx context.Context, q Query) (*jobs.Postings, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.APIURL, nil)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("search", q.TopSkill())
	params.Set("sort_by", "date")

	var raw map[string]any
	if err := f.getJSON(req, params, &raw); err != nil {
		return nil, fmt.Errorf("findwork search: %w", err)
	}

	var response findworkResponse
	if err := mapstructure.Decode(raw, &response); err != nil {
		return nil, fmt.Errorf("findwork response: %w", err)
	}

	window := f.filters.window()
	now := f.now()

	postings := &jobs.Postings{}
	for _, job := range response.Results {
		if !recent(job.DatePosted, window, now) {
			continue
		}

		text := fmt.Sprintf("%s %s %s", job.Role, job.Text, job.Keywords)
		if !quickMatch(text, q.Skills) {
			continue
		}

		location := job.Location
		if location == "" {
			location = "Remote"
		}

		postings.Append(&jobs.Posting{
			Title:        orPlaceholder(job.Role),
			Company:      orPlaceholder(job.CompanyName),
			Location:     location,
			Description:  truncateDescription(job.Text),
			URL:          job.URL,
			Salary:       jobs.NotSpecified,
			Remote:       job.Remote,
			PostedAt:     job.DatePosted,
			Source:       f.Name(),
			Requirements: splitKeywords(job.Keywords),
		})

		if postings.Len() >= f.filters.PerSourceLimit {
			break
		}
	}

	return postings, nil
}

// splitKeywords turns FindWork's comma-separated keyword string into
// requirement tokens, capped at five.
func splitKeywords(keywords string) []string {
	if strings.TrimSpace(keywords) == "" {
		return nil
	}

	parts := strings.Split(keywords, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
		if len(out) == 5 {
			break
		}
	}
	return out
}
