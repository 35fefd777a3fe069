package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spec-kit/task-service/internal/domain"
	"github.com/spec-kit/task-service/internal/events"
	"github.com/spec-kit/task-service/internal/repository"
	apperrors "github.com/spec-kit/task-service/pkg/util/errorutil"
)

// SearchLimit caps every search result.
const SearchLimit = 100

var validate = validator.New()

// PageResult is one page of a listing plus the totals the envelope needs.
type PageResult[T any] struct {
	Items []T
	Page  domain.Page
	Total int64
}

// TotalPages is ceil(Total / limit).
func (r PageResult[T]) TotalPages() int {
	return r.Page.TotalPages(r.Total)
}

// HasMore reports whether records remain after this page.
func (r PageResult[T]) HasMore() bool {
	return r.Page.HasMore(len(r.Items), r.Total)
}

// parseID validates a 24-hex identifier and returns a lowercase copy that
// shares no memory with raw.
func parseID(raw, message string) (string, error) {
	id := strings.TrimSpace(raw)
	if !domain.IsValidID(id) {
		return "", apperrors.NewValidationError(message, map[string]any{"id": strings.Clone(raw)})
	}
	return strings.Clone(strings.ToLower(id)), nil
}

// parseIDs validates several ids with one shared message.
func parseIDs(message string, raw ...string) ([]string, error) {
	ids := make([]string, len(raw))
	for i, r := range raw {
		id, err := parseID(r, message)
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}
	return ids, nil
}

func searchTerm(raw, message string) (string, error) {
	term := strings.TrimSpace(raw)
	if term == "" {
		return "", apperrors.NewValidationError(message, nil)
	}
	return term, nil
}

func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if err := validate.Var(email, "email"); err != nil {
		return "", apperrors.NewValidationError("Invalid email format", map[string]any{"email": raw})
	}
	return email, nil
}

// storeError turns an unexpected repository failure into a 500, keeping
// deadline errors intact so they surface as timeouts.
func storeError(logger *zap.Logger, op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		logger.Warn("store call interrupted", zap.String("op", op), zap.Error(err))
		return err
	}
	logger.Error("store call failed", zap.String("op", op), zap.Error(err))
	return apperrors.NewInternalError(err)
}

// listAndCount runs the page query and the count query concurrently.
func listAndCount[T any](ctx context.Context, page domain.Page,
	list func(context.Context) ([]T, error),
	count func(context.Context) (int64, error),
) (PageResult[T], error) {
	var (
		items []T
		total int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = list(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = count(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return PageResult[T]{}, err
	}
	return PageResult[T]{Items: items, Page: page, Total: total}, nil
}

// publisher stamps and dispatches domain events. Handler failures are logged
// and never fail the operation that produced the event.
type publisher struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

func (p publisher) publishEvent(ctx context.Context, event events.Event) {
	if p.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	if err := p.dispatcher.Publish(ctx, event); err != nil {
		p.logger.Warn("event handler failed",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)),
			zap.Error(err))
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}

func loggerOrNop(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
