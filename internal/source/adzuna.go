package source

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/spigell/jobmate/internal/jobs"
)

const adzunaAPIURL = "https://api.adzuna.com/v1/api/jobs/us/search/1"

// Adzuna fetches postings from the Adzuna search API. Recency is enforced
// server-side through the max_days_old parameter.
type Adzuna struct {
	client
	APIURL  string
	appID   string
	appKey  string
	filters FilterConfig
}

type adzunaResponse struct {
	Results []adzunaJob `mapstructure:"results"`
}

type adzunaJob struct {
	Title       string  `mapstructure:"title"`
	Description string  `mapstructure:"description"`
	RedirectURL string  `mapstructure:"redirect_url"`
	SalaryMin   float64 `mapstructure:"salary_min"`
	SalaryMax   float64 `mapstructure:"salary_max"`
	Company     struct {
		DisplayName string `mapstructure:"display_name"`
	} `mapstructure:"company"`
	Location struct {
		DisplayName string `mapstructure:"display_name"`
	} `mapstructure:"location"`
	Created string `mapstructure:"created"`
}

func NewAdzuna(appID, appKey string, filters FilterConfig, logger *zap.Logger) *Adzuna {
	return &Adzuna{
		client:  newClient(logger.With(zap.String("source", "adzuna")), nil),
		APIURL:  adzunaAPIURL,
		appID:   appID,
		appKey:  appKey,
		filters: filters.withDefaults(),
	}
}

func (a *Adzuna) Name() string { return "adzuna" }

func (a *Adzuna) Available() bool { return a.appID != "" && a.appKey != "" }

func (a *Adzuna) Fetch(ctx context.Context, q Query) (*jobs.Postings, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.APIURL, nil)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("app_id", a.appID)
	params.Set("app_key", a.appKey)
	params.Set("what", q.TopSkill())
	params.Set("results_per_page", "10")
	params.Set("max_days_old", strconv.Itoa(a.filters.RecencyDays))
	params.Set("sort_by", "date")

	var raw map[string]any
	if err := a.getJSON(req, params, &raw); err != nil {
		return nil, fmt.Errorf("adzuna search: %w", err)
	}

	var response adzunaResponse
	if err := mapstructure.Decode(raw, &response); err != nil {
		return nil, fmt.Errorf("adzuna response: %w", err)
	}

	postings := &jobs.Postings{}
	for _, job := range response.Results {
		text := fmt.Sprintf("%s %s", job.Title, job.Description)
		if !quickMatch(text, q.Skills) {
			continue
		}

		salary := jobs.NotSpecified
		if job.SalaryMin > 0 {
			salary = fmt.Sprintf("$%.0f-$%.0f", job.SalaryMin, job.SalaryMax)
		}

		location := job.Location.DisplayName
		if location == "" {
			location = "Remote"
		}

		postings.Append(&jobs.Posting{
			Title:       orPlaceholder(job.Title),
			Company:     orPlaceholder(job.Company.DisplayName),
			Location:    location,
			Description: truncateDescription(job.Description),
			URL:         job.RedirectURL,
			Salary:      salary,
			Remote:      containsRemote(text),
			PostedAt:    job.Created,
			Source:      a.Name(),
		})

		if postings.Len() >= a.filters.PerSourceLimit {
			break
		}
	}

	return postings, nil
}
