package registry

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/quillsearch/quill/pkg/record"
)

// Searcher is the slice of the aspect contract the registry consumes.
type Searcher interface {
	CategoryLabel() string
	GetResults(ctx context.Context, term string) ([]record.Row, error)
}

// Result groups one aspect's records under its category label.
type Result struct {
	Category string       `json:"category"`
	Records  []record.Row `json:"records"`
}

// Registry fans a single free-text term out to every registered aspect and
// returns the per-category results in registration order. It does not rank,
// merge or deduplicate across categories. Register all aspects at wiring
// time; Register is not safe to call concurrently with SearchAll.
type Registry struct {
	aspects []Searcher
	labels  map[string]struct{}
	logger  logrus.FieldLogger
	metrics *Metrics
}

// New creates an empty registry. A nil logger falls back to the standard
// logrus logger; a nil metrics disables instrumentation.
func New(logger logrus.FieldLogger, metrics *Metrics) *Registry {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Registry{
		labels:  make(map[string]struct{}),
		logger:  logger,
		metrics: metrics,
	}
}

// Register adds an aspect. Category labels must be unique.
func (r *Registry) Register(a Searcher) error {
	label := a.CategoryLabel()
	if _, exists := r.labels[label]; exists {
		return fmt.Errorf("aspect already registered for category %q", label)
	}
	r.labels[label] = struct{}{}
	r.aspects = append(r.aspects, a)
	return nil
}

// Categories returns the registered category labels in registration order.
func (r *Registry) Categories() []string {
	out := make([]string, len(r.aspects))
	for i, a := range r.aspects {
		out[i] = a.CategoryLabel()
	}
	return out
}

// SearchAll runs term against every registered aspect. The first failing
// aspect aborts the whole search; no partial result set is returned.
func (r *Registry) SearchAll(ctx context.Context, term string) ([]Result, error) {
	searchID := uuid.New().String()
	logger := r.logger.WithFields(logrus.Fields{
		"search_id": searchID,
		"aspects":   len(r.aspects),
	})
	logger.Debug("fanning out search")

	results := make([]Result, 0, len(r.aspects))
	for _, a := range r.aspects {
		label := a.CategoryLabel()
		start := time.Now()

		records, err := a.GetResults(ctx, term)
		if r.metrics != nil {
			r.metrics.observe(label, err, time.Since(start))
		}
		if err != nil {
			logger.WithField("category", label).WithError(err).Error("aspect search failed")
			return nil, fmt.Errorf("search in %q failed: %w", label, err)
		}

		results = append(results, Result{Category: label, Records: records})
	}

	logger.Debug("search completed")
	return results, nil
}
