package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"emarge/internal/attendance"
	"emarge/internal/checkin"
	"emarge/internal/event"
	"emarge/internal/notification"
	"emarge/internal/participant"
	"emarge/internal/submission"
	"emarge/pkg/platform/tx"
)

type noopNotifier struct{}

func (noopNotifier) Emit(context.Context, notification.Notification) {}

type HandlerSuite struct {
	suite.Suite
	events *event.InMemoryStore
	tokens *checkin.InMemoryStore
	server *httptest.Server
}

func (s *HandlerSuite) SetupTest() {
	logger := slog.New(slog.DiscardHandler)
	s.events = event.NewInMemoryStore()
	s.tokens = checkin.NewInMemoryStore()
	participants := participant.NewInMemoryStore()

	svc := submission.NewService(
		checkin.NewService(s.tokens, s.events, logger),
		participant.NewService(participants, logger, nil),
		attendance.NewService(attendance.NewInMemoryStore(), noopNotifier{}),
		participants,
		tx.NewMemoryRunner(),
		logger,
		nil,
	)

	r := chi.NewRouter()
	New(svc, logger).Register(r)
	s.server = httptest.NewServer(r)
}

func (s *HandlerSuite) TearDownTest() {
	s.server.Close()
}

func (s *HandlerSuite) seedToken() string {
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
	return token.Value
}

func (s *HandlerSuite) submit(body map[string]any) *http.Response {
	raw, err := json.Marshal(body)
	s.Require().NoError(err)

	resp, err := http.Post(s.server.URL+"/attendance/submit", "application/json", bytes.NewReader(raw))
	s.Require().NoError(err)
	return resp
}

func (s *HandlerSuite) decode(resp *http.Response) map[string]any {
	defer resp.Body.Close()
	var out map[string]any
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func (s *HandlerSuite) validBody(token string) map[string]any {
	return map[string]any{
		"token":     token,
		"firstName": "Awa",
		"lastName":  "Diop",
		"cniNumber": "AB12CD34",
		"signature": "data:image/png;base64,iVBOR",
	}
}

func (s *HandlerSuite) TestSubmitCreated() {
	resp := s.submit(s.validBody(s.seedToken()))

	s.Equal(http.StatusCreated, resp.StatusCode)
	body := s.decode(resp)
	s.Equal("Regional training", body["eventTitle"])
	s.NotEmpty(body["attendanceId"])
	s.Equal(true, body["participantCreated"])
}

func (s *HandlerSuite) TestSubmitInvalidToken() {
	resp := s.submit(s.validBody("no-such-token"))

	s.Equal(http.StatusUnauthorized, resp.StatusCode)
	body := s.decode(resp)
	s.Equal("invalid_token", body["error"])
}

func (s *HandlerSuite) TestSubmitDuplicateConflict() {
	token := s.seedToken()
	first := s.submit(s.validBody(token))
	first.Body.Close()
	s.Require().Equal(http.StatusCreated, first.StatusCode)

	resp := s.submit(s.validBody(token))
	s.Equal(http.StatusConflict, resp.StatusCode)
	body := s.decode(resp)
	s.Equal("conflict", body["error"])
}

func (s *HandlerSuite) TestSubmitMissingSignature() {
	body := s.validBody(s.seedToken())
	delete(body, "signature")

	resp := s.submit(body)
	s.Equal(http.StatusUnprocessableEntity, resp.StatusCode)
	out := s.decode(resp)
	s.Equal("validation_error", out["error"])
	fields, ok := out["fields"].(map[string]any)
	s.Require().True(ok)
	s.Contains(fields, "signature")
}

func (s *HandlerSuite) TestSubmitMalformedBody() {
	resp, err := http.Post(s.server.URL+"/attendance/submit", "application/json", bytes.NewReader([]byte("{")))
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *HandlerSuite) TestLookupRoundTrip() {
	token := s.seedToken()
	created := s.submit(s.validBody(token))
	created.Body.Close()
	s.Require().Equal(http.StatusCreated, created.StatusCode)

	resp, err := http.Get(fmt.Sprintf("%s/public/participants/lookup?cni=%s", s.server.URL, "ab12cd34"))
	s.Require().NoError(err)
	s.Equal(http.StatusOK, resp.StatusCode)
	body := s.decode(resp)
	s.Equal(true, body["found"])

	missing, err := http.Get(s.server.URL + "/public/participants/lookup?cni=ZZ99ZZ99")
	s.Require().NoError(err)
	s.Equal(http.StatusOK, missing.StatusCode)
	missingBody := s.decode(missing)
	s.Equal(false, missingBody["found"])
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}
