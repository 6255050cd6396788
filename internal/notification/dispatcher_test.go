package notification

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	dErrors "emarge/pkg/domain-errors"
)

type DispatcherSuite struct {
	suite.Suite
	store      *InMemoryStore
	dispatcher *Dispatcher
	cancel     context.CancelFunc
}

func (s *DispatcherSuite) SetupTest() {
	s.store = NewInMemoryStore()
	s.dispatcher = NewDispatcher(s.store, slog.New(slog.DiscardHandler))

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	go func() { _ = s.dispatcher.Run(ctx) }()
}

func (s *DispatcherSuite) TearDownTest() {
	s.cancel()
}

func (s *DispatcherSuite) emitAndWait(n Notification) {
	s.dispatcher.Emit(context.Background(), n)
	s.Require().Eventually(func() bool {
		return s.persisted(n.Title)
	}, time.Second, 5*time.Millisecond, "notification never persisted")
}

func (s *DispatcherSuite) persisted(title string) bool {
	items, _, err := s.store.List(context.Background(), Filter{}, 1, MaxPageLimit)
	if err != nil {
		return false
	}
	for _, item := range items {
		if item.Title == title {
			return true
		}
	}
	return false
}

func (s *DispatcherSuite) TestEmitThenListUnread() {
	entityID := uuid.New()
	s.emitAndWait(Notification{
		Type:       TypeSessionCancelled,
		EntityType: "session",
		EntityID:   &entityID,
		Title:      "Session cancelled",
	})

	result, err := s.dispatcher.List(context.Background(), Filter{UnreadOnly: true}, 1, 10)
	s.Require().NoError(err)
	s.Require().Len(result.Items, 1)
	s.Nil(result.Items[0].ReadAt)
	s.Equal(TypeSessionCancelled, result.Items[0].Type)
	s.Require().NotNil(result.Items[0].EntityID)
	s.Equal(entityID, *result.Items[0].EntityID)
	s.Equal(1, result.UnreadCount)
}

func (s *DispatcherSuite) TestMarkReadExcludesFromUnread() {
	s.emitAndWait(Notification{Type: TypeEventCancelled, EntityType: "event", Title: "Event cancelled"})

	result, err := s.dispatcher.List(context.Background(), Filter{UnreadOnly: true}, 1, 10)
	s.Require().NoError(err)
	s.Require().Len(result.Items, 1)

	s.Require().NoError(s.dispatcher.MarkRead(context.Background(), result.Items[0].ID))

	after, err := s.dispatcher.List(context.Background(), Filter{UnreadOnly: true}, 1, 10)
	s.Require().NoError(err)
	s.Empty(after.Items)
	s.Equal(0, after.UnreadCount)

	// The item itself survives, now read.
	all, err := s.dispatcher.List(context.Background(), Filter{}, 1, 10)
	s.Require().NoError(err)
	s.Require().Len(all.Items, 1)
	s.NotNil(all.Items[0].ReadAt)
}

func (s *DispatcherSuite) TestMarkAllReadZeroesUnreadCount() {
	s.emitAndWait(Notification{Type: TypeEventCreated, EntityType: "event", Title: "Event one"})
	s.emitAndWait(Notification{Type: TypeEventDeleted, EntityType: "event", Title: "Event two"})

	updated, err := s.dispatcher.MarkAllRead(context.Background())
	s.Require().NoError(err)
	s.Equal(2, updated)

	result, err := s.dispatcher.List(context.Background(), Filter{}, 1, 10)
	s.Require().NoError(err)
	s.Equal(0, result.UnreadCount)
}

func (s *DispatcherSuite) TestMarkReadNotFound() {
	err := s.dispatcher.MarkRead(context.Background(), uuid.New())
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *DispatcherSuite) TestDelete() {
	s.emitAndWait(Notification{Type: TypeAttendanceDeleted, EntityType: "attendance", Title: "Attendance removed"})

	result, err := s.dispatcher.List(context.Background(), Filter{}, 1, 10)
	s.Require().NoError(err)
	s.Require().Len(result.Items, 1)

	s.Require().NoError(s.dispatcher.Delete(context.Background(), result.Items[0].ID))

	after, err := s.dispatcher.List(context.Background(), Filter{}, 1, 10)
	s.Require().NoError(err)
	s.Empty(after.Items)

	err = s.dispatcher.Delete(context.Background(), result.Items[0].ID)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *DispatcherSuite) TestEmitUnknownTypeDropped() {
	s.dispatcher.Emit(context.Background(), Notification{Type: Type("attendance.created"), Title: "nope"})

	// Give the worker a moment; nothing should ever arrive.
	time.Sleep(20 * time.Millisecond)
	result, err := s.dispatcher.List(context.Background(), Filter{}, 1, 10)
	s.Require().NoError(err)
	s.Empty(result.Items)
}

func (s *DispatcherSuite) TestPaginationMeta() {
	for i := 0; i < 5; i++ {
		s.emitAndWait(Notification{Type: TypeEventCreated, EntityType: "event", Title: "Event " + string(rune('A'+i))})
	}

	result, err := s.dispatcher.List(context.Background(), Filter{}, 2, 2)
	s.Require().NoError(err)
	s.Len(result.Items, 2)
	s.Equal(2, result.Meta.Page)
	s.Equal(2, result.Meta.Limit)
	s.Equal(5, result.Meta.Total)
	s.Equal(3, result.Meta.TotalPages)
	s.Equal(5, result.UnreadCount)
}

func (s *DispatcherSuite) TestListClampsPageAndLimit() {
	s.emitAndWait(Notification{Type: TypeEventCreated, EntityType: "event", Title: "Event"})

	result, err := s.dispatcher.List(context.Background(), Filter{}, 0, 0)
	s.Require().NoError(err)
	s.Equal(1, result.Meta.Page)
	s.Equal(DefaultPageLimit, result.Meta.Limit)

	result, err = s.dispatcher.List(context.Background(), Filter{}, 1, 10_000)
	s.Require().NoError(err)
	s.Equal(MaxPageLimit, result.Meta.Limit)
}

func TestDispatcherSuite(t *testing.T) {
	suite.Run(t, new(DispatcherSuite))
}
