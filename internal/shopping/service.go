// Package shopping implements the shared shopping-list core: the item
// merge engine, the suggestion approval workflow, list lifecycle and
// sharing, and the template engine. The chat transport calls into this
// package; it never talks to the database directly.
package shopping

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/avivm/shoplist/internal/database"
	"github.com/avivm/shoplist/internal/store"
)

// AddOutcome reports whether AddItem created a new row or merged into
// an existing one.
type AddOutcome string

const (
	OutcomeCreated AddOutcome = "created"
	OutcomeMerged  AddOutcome = "merged"
)

type Service struct {
	users       *store.UserStore
	lists       *store.ListStore
	items       *store.ItemStore
	suggestions *store.SuggestionStore
	categories  *store.CategoryStore
	templates   *store.TemplateStore

	timeout time.Duration
	logger  *slog.Logger
}

// New wires a Service over an open database. timeout bounds every
// database call issued by a single operation; zero means 5s.
func New(db *database.DB, timeout time.Duration, logger *slog.Logger) *Service {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		users:       store.NewUserStore(db),
		lists:       store.NewListStore(db),
		items:       store.NewItemStore(db),
		suggestions: store.NewSuggestionStore(db),
		categories:  store.NewCategoryStore(db),
		templates:   store.NewTemplateStore(db),
		timeout:     timeout,
		logger:      logger,
	}
}

// opCtx bounds one logical operation. All queries of that operation
// share the deadline.
func (s *Service) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

// mapErr translates a context deadline into the transient
// ErrPersistenceTimeout the calling layer is allowed to retry.
func (s *Service) mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		s.logger.Warn("database operation timed out")
		return ErrPersistenceTimeout
	}
	return err
}
