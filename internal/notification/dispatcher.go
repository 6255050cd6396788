package notification

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"emarge/internal/platform/metrics"
	dErrors "emarge/pkg/domain-errors"
	"emarge/pkg/platform/sentinel"
)

// Publisher mirrors created notifications to an external stream. Optional;
// produce failures must never surface to callers.
type Publisher interface {
	Publish(ctx context.Context, item Item)
}

const (
	defaultInboxSize    = 256
	defaultPersistLimit = 5 * time.Second

	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// Dispatcher fans out domain events to staff notifications. Emission is
// decoupled from the triggering transaction through a buffered inbox drained
// by Run; a store failure is logged and counted, never propagated.
type Dispatcher struct {
	store     Store
	logger    *slog.Logger
	metrics   *metrics.Metrics
	publisher Publisher
	inbox     chan Item
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithPublisher mirrors created items to an external stream.
func WithPublisher(p Publisher) Option {
	return func(d *Dispatcher) { d.publisher = p }
}

// WithMetrics records emission counters.
func WithMetrics(m *metrics.Metrics) Option {
	return func(d *Dispatcher) { d.metrics = m }
}

// WithInboxSize overrides the emission buffer size.
func WithInboxSize(n int) Option {
	return func(d *Dispatcher) {
		if n > 0 {
			d.inbox = make(chan Item, n)
		}
	}
}

// NewDispatcher constructs a Dispatcher. Call Run in a background goroutine to
// drain the inbox.
func NewDispatcher(store Store, logger *slog.Logger, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		store:  store,
		logger: logger,
		inbox:  make(chan Item, defaultInboxSize),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Emit queues one notification. Non-blocking: when the inbox is full the item
// is dropped and counted, because notifications are informational and must
// never back-pressure the mutation that triggered them. Unknown types are
// rejected the same way; the enum is closed.
func (d *Dispatcher) Emit(ctx context.Context, n Notification) {
	if !n.Type.Valid() {
		d.logger.ErrorContext(ctx, "notification type outside enum, dropped",
			"type", string(n.Type),
			"title", n.Title,
		)
		d.metrics.RecordNotificationDropped()
		return
	}
	item := Item{
		ID:         uuid.New(),
		Type:       n.Type,
		EntityType: n.EntityType,
		EntityID:   n.EntityID,
		Title:      n.Title,
		Message:    n.Message,
		Payload:    n.Payload,
		CreatedAt:  time.Now().UTC(),
	}
	select {
	case d.inbox <- item:
	default:
		d.logger.ErrorContext(ctx, "notification inbox full, dropped",
			"type", string(n.Type),
			"title", n.Title,
		)
		d.metrics.RecordNotificationDropped()
	}
}

// Run drains the inbox until ctx is cancelled. Each item is persisted with its
// own deadline detached from any request context.
func (d *Dispatcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case item := <-d.inbox:
			d.process(ctx, item)
		}
	}
}

func (d *Dispatcher) process(ctx context.Context, item Item) {
	persistCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), defaultPersistLimit)
	defer cancel()

	if err := d.store.Create(persistCtx, &item); err != nil {
		d.logger.Error("persist notification failed, dropped",
			"type", string(item.Type),
			"notification_id", item.ID,
			"error", err,
		)
		d.metrics.RecordNotificationDropped()
		return
	}
	d.metrics.RecordNotificationEmitted(string(item.Type))

	if d.publisher != nil {
		d.publisher.Publish(persistCtx, item)
	}
}

// ListResult is the paginated query response.
type ListResult struct {
	Items       []*Item
	Meta        Page
	UnreadCount int
}

// List returns one page of notifications, newest first, with the live unread
// count. unreadCount is recomputed per call; there is no counter to keep in
// sync.
func (d *Dispatcher) List(ctx context.Context, filter Filter, page, limit int) (*ListResult, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}

	items, total, err := d.store.List(ctx, filter, page, limit)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "list notifications")
	}
	unread, err := d.store.CountUnread(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "count unread notifications")
	}

	totalPages := 0
	if total > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return &ListResult{
		Items: items,
		Meta: Page{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages,
		},
		UnreadCount: unread,
	}, nil
}

// MarkRead marks a single notification as read. Idempotent on already-read
// items.
func (d *Dispatcher) MarkRead(ctx context.Context, id uuid.UUID) error {
	if err := d.store.MarkRead(ctx, id, time.Now().UTC()); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "notification not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "mark notification read")
	}
	return nil
}

// MarkAllRead marks every unread notification as read and returns how many
// were affected.
func (d *Dispatcher) MarkAllRead(ctx context.Context) (int, error) {
	updated, err := d.store.MarkAllRead(ctx, time.Now().UTC())
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "mark all notifications read")
	}
	return updated, nil
}

// Delete removes a notification by explicit staff action.
func (d *Dispatcher) Delete(ctx context.Context, id uuid.UUID) error {
	if err := d.store.Delete(ctx, id); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "notification not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "delete notification")
	}
	return nil
}
