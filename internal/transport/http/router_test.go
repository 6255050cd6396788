package httptransport

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"emarge/internal/attendance"
	"emarge/internal/checkin"
	"emarge/internal/event"
	eventhandler "emarge/internal/event/handler"
	jwttoken "emarge/internal/jwt_token"
	"emarge/internal/notification"
	notificationhandler "emarge/internal/notification/handler"
	"emarge/internal/participant"
	"emarge/internal/submission"
	submissionhandler "emarge/internal/submission/handler"
	"emarge/pkg/platform/tx"
)

// RouterSuite exercises the assembled route tree: auth boundaries between the
// public and staff groups, plus the operational endpoints.
type RouterSuite struct {
	suite.Suite
	jwt    *jwttoken.Service
	events *event.InMemoryStore
	tokens *checkin.InMemoryStore
	server *httptest.Server
}

func (s *RouterSuite) SetupTest() {
	logger := slog.New(slog.DiscardHandler)
	s.jwt = jwttoken.NewService("test-signing-key", "emarge", "emarge-staff")
	s.events = event.NewInMemoryStore()
	s.tokens = checkin.NewInMemoryStore()
	participants := participant.NewInMemoryStore()
	records := attendance.NewInMemoryStore()
	notifications := notification.NewInMemoryStore()
	dispatcher := notification.NewDispatcher(notifications, logger)

	checkinSvc := checkin.NewService(s.tokens, s.events, logger)
	attendanceSvc := attendance.NewService(records, dispatcher)
	submissionSvc := submission.NewService(
		checkinSvc,
		participant.NewService(participants, logger, nil),
		attendanceSvc,
		participants,
		tx.NewMemoryRunner(),
		logger,
		nil,
	)

	router := NewRouter(Deps{
		Submission:   submissionhandler.New(submissionSvc, logger),
		Notification: notificationhandler.New(dispatcher, logger),
		Event: eventhandler.New(
			event.NewService(s.events, dispatcher),
			checkinSvc,
			attendanceSvc,
			24*time.Hour,
			logger,
		),
		JWTValidator: jwttoken.NewMiddlewareAdapter(s.jwt),
		Logger:       logger,
	})
	s.server = httptest.NewServer(router)
}

func (s *RouterSuite) TearDownTest() {
	s.server.Close()
}

func (s *RouterSuite) staffToken() string {
	token, err := s.jwt.GenerateToken(uuid.New(), "staff", time.Hour)
	s.Require().NoError(err)
	return token
}

func (s *RouterSuite) TestHealthz() {
	resp, err := http.Get(s.server.URL + "/healthz")
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)
}

func (s *RouterSuite) TestMetricsExposed() {
	resp, err := http.Get(s.server.URL + "/metrics")
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)
}

func (s *RouterSuite) TestStaffRoutesRequireAuth() {
	resp, err := http.Get(s.server.URL + "/notifications")
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *RouterSuite) TestStaffRoutesAcceptValidToken() {
	req, err := http.NewRequest(http.MethodGet, s.server.URL+"/notifications", nil)
	s.Require().NoError(err)
	req.Header.Set("Authorization", "Bearer "+s.staffToken())

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)
}

func (s *RouterSuite) TestPublicSubmitNeedsNoAuth() {
	ev := &event.Event{
		ID:       uuid.New(),
		Title:    "Regional training",
		Status:   event.StatusScheduled,
		StartsAt: time.Now().Add(time.Hour),
		EndsAt:   time.Now().Add(4 * time.Hour),
	}
	s.Require().NoError(s.events.Create(context.Background(), ev))
	token := &checkin.Token{
		Value:     checkin.NewTokenValue(),
		EventID:   ev.ID,
		ExpiresAt: time.Now().Add(24 * time.Hour),
		CreatedAt: time.Now(),
	}
	s.Require().NoError(s.tokens.Create(context.Background(), token))

	body, err := json.Marshal(map[string]any{
		"token":     token.Value,
		"firstName": "Awa",
		"lastName":  "Diop",
		"signature": "sig",
	})
	s.Require().NoError(err)

	resp, err := http.Post(s.server.URL+"/attendance/submit", "application/json", bytes.NewReader(body))
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Equal(http.StatusCreated, resp.StatusCode)
}

func (s *RouterSuite) TestStaffEventCreateWithToken() {
	body, err := json.Marshal(map[string]any{"title": "Quarterly assembly"})
	s.Require().NoError(err)

	req, err := http.NewRequest(http.MethodPost, s.server.URL+"/events", bytes.NewReader(body))
	s.Require().NoError(err)
	req.Header.Set("Authorization", "Bearer "+s.staffToken())
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Equal(http.StatusCreated, resp.StatusCode)
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterSuite))
}
