package ports

import (
	"context"

	"github.com/ThinkIbrokeIt/adaptive-agent-nexus/internal/core/domain"
)

// SearchIndex backs the contextualize phase's relevance search. When nil the
// orchestrator falls back to a fixed snippet set.
type SearchIndex interface {
	Search(ctx context.Context, query string, limit int) ([]domain.Snippet, error)
}
