package ai

import "context"

// Enricher rewrites a plain recommendation report into a polished narrative.
// Implementations must leave the factual content intact.
type Enricher interface {
	Enrich(ctx context.Context, report string) (string, error)
	Model() string
}
