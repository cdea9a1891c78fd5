package source

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/spigell/jobmate/internal/jobs"
)

const remotiveAPIURL = "https://remotive.com/api/remote-jobs"

// Remotive fetches postings from the public Remotive API. No credentials are
// needed, so the adapter is always available. Every Remotive posting is
// remote by definition.
type Remotive struct {
	client
	APIURL  string
	filters FilterConfig
	now     func() time.Time
}

type remotiveResponse struct {
	Jobs []remotiveJob `mapstructure:"jobs"`
}

type remotiveJob struct {
	Title           string   `mapstructure:"title"`
	CompanyName     string   `mapstructure:"company_name"`
	Location        string   `mapstructure:"candidate_required_location"`
	Description     string   `mapstructure:"description"`
	URL             string   `mapstructure:"url"`
	Salary          string   `mapstructure:"salary"`
	Category        string   `mapstructure:"category"`
	PublicationDate string   `mapstructure:"publication_date"`
	Tags            []string `mapstructure:"tags"`
}

func NewRemotive(filters FilterConfig, logger *zap.Logger) *Remotive {
	return &Remotive{
		client:  newClient(logger.With(zap.String("source", "remotive")), nil),
		APIURL:  remotiveAPIURL,
		filters: filters.withDefaults(),
		now:     time.Now,
	}
}

func (r *Remotive) Name() string { return "remotive" }

func (r *Remotive) Available() bool { return true }

func (r *Remotive) Fetch(ctx context.Context, q Query) (*jobs.Postings, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.APIURL, nil)
	if err != nil {
		return nil, err
	}

	var raw map[string]any
	if err := r.getJSON(req, nil, &raw); err != nil {
		return nil, fmt.Errorf("remotive search: %w", err)
	}

	var response remotiveResponse
	if err := mapstructure.Decode(raw, &response); err != nil {
		return nil, fmt.Errorf("remotive response: %w", err)
	}

	window := r.filters.window()
	now := r.now()

	postings := &jobs.Postings{}
	for _, job := range response.Jobs {
		if !recent(job.PublicationDate, window, now) {
			continue
		}

		text := fmt.Sprintf("%s %s %s", job.Title, job.Description, job.Category)
		if !quickMatch(text, q.Skills) {
			continue
		}

		location := job.Location
		if location == "" {
			location = "Remote"
		}

		requirements := job.Tags
		if len(requirements) > 5 {
			requirements = requirements[:5]
		}

		postings.Append(&jobs.Posting{
			Title:        orPlaceholder(job.Title),
			Company:      orPlaceholder(job.CompanyName),
			Location:     location,
			Description:  truncateDescription(job.Description),
			URL:          job.URL,
			Salary:       orNotSpecified(job.Salary),
			Remote:       true,
			PostedAt:     job.PublicationDate,
			Source:       r.Name(),
			Requirements: requirements,
		})

		if postings.Len() >= r.filters.PerSourceLimit {
			break
		}
	}

	return postings, nil
}
