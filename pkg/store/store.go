// Package store persists generated workflow documents so the API can serve
// them back by id. The engine itself is stateless; this layer is advisory
// bookkeeping around it.
package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/flowsmith/flowsmith/pkg/models"
)

// ErrNotFound is returned when no record exists for the id.
var ErrNotFound = errors.New("workflow record not found")

// Record is one stored generation result.
type Record struct {
	ID            string           `json:"id"`
	CreatedAt     time.Time        `json:"created_at"`
	Source        string           `json:"source"` // "template" or "llm"
	TemplateName  string           `json:"template_name,omitempty"`
	TemplateScore float64          `json:"template_score"`
	Features      []string         `json:"features"`
	Workflow      *models.Workflow `json:"workflow"`
}

// Store is the persistence contract for generation records.
type Store interface {
	Save(ctx context.Context, record *Record) error
	Get(ctx context.Context, id string) (*Record, error)
	Close() error
}

// NewFromURL selects a store implementation by URL scheme: "redis://..."
// uses Redis, anything else (including empty) the in-memory store.
func NewFromURL(url string) (Store, error) {
	if strings.HasPrefix(url, "redis://") || strings.HasPrefix(url, "rediss://") {
		return NewRedisStore(url)
	}

	return NewMemoryStore(), nil
}
