package handler

import (
	"bytes"
	"context"
	"encoding/json"
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
)

type noopNotifier struct{}

func (noopNotifier) Emit(context.Context, notification.Notification) {}

type HandlerSuite struct {
	suite.Suite
	events  *event.InMemoryStore
	tokens  *checkin.InMemoryStore
	records *attendance.InMemoryStore
	server  *httptest.Server
}

func (s *HandlerSuite) SetupTest() {
	logger := slog.New(slog.DiscardHandler)
	s.events = event.NewInMemoryStore()
	s.tokens = checkin.NewInMemoryStore()
	s.records = attendance.NewInMemoryStore()

	h := New(
		event.NewService(s.events, noopNotifier{}),
		checkin.NewService(s.tokens, s.events, logger),
		attendance.NewService(s.records, noopNotifier{}),
		24*time.Hour,
		logger,
	)
	r := chi.NewRouter()
	h.Register(r)
	s.server = httptest.NewServer(r)
}

func (s *HandlerSuite) TearDownTest() {
	s.server.Close()
}

func (s *HandlerSuite) post(path string, body any) *http.Response {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	resp, err := http.Post(s.server.URL+path, "application/json", &buf)
	s.Require().NoError(err)
	return resp
}

func (s *HandlerSuite) decode(resp *http.Response) map[string]any {
	defer resp.Body.Close()
	var out map[string]any
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func (s *HandlerSuite) createEvent() uuid.UUID {
	resp := s.post("/events", map[string]any{
		"title":    "Regional training",
		"location": "Salle des fêtes",
	})
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	body := s.decode(resp)
	id, err := uuid.Parse(body["id"].(string))
	s.Require().NoError(err)
	return id
}

func (s *HandlerSuite) TestCreateEvent() {
	resp := s.post("/events", map[string]any{"title": "Regional training"})
	s.Equal(http.StatusCreated, resp.StatusCode)

	body := s.decode(resp)
	s.Equal("Regional training", body["title"])
	s.Equal("draft", body["status"])
}

func (s *HandlerSuite) TestCreateEventRequiresTitle() {
	resp := s.post("/events", map[string]any{"location": "somewhere"})
	defer resp.Body.Close()
	s.Equal(http.StatusUnprocessableEntity, resp.StatusCode)
}

func (s *HandlerSuite) TestCancelEventTwiceConflicts() {
	id := s.createEvent()

	first := s.post("/events/"+id.String()+"/cancel", nil)
	first.Body.Close()
	s.Equal(http.StatusOK, first.StatusCode)

	second := s.post("/events/"+id.String()+"/cancel", nil)
	second.Body.Close()
	s.Equal(http.StatusConflict, second.StatusCode)
}

func (s *HandlerSuite) TestCancelUnknownEvent() {
	resp := s.post("/events/"+uuid.NewString()+"/cancel", nil)
	defer resp.Body.Close()
	s.Equal(http.StatusNotFound, resp.StatusCode)
}

func (s *HandlerSuite) TestDeleteEvent() {
	id := s.createEvent()

	req, err := http.NewRequest(http.MethodDelete, s.server.URL+"/events/"+id.String(), nil)
	s.Require().NoError(err)
	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	resp.Body.Close()
	s.Equal(http.StatusNoContent, resp.StatusCode)
}

func (s *HandlerSuite) TestIssueAndRevokeToken() {
	id := s.createEvent()

	issued := s.post("/events/"+id.String()+"/tokens", nil)
	s.Equal(http.StatusCreated, issued.StatusCode)
	body := s.decode(issued)
	value, ok := body["value"].(string)
	s.Require().True(ok)
	s.NotEmpty(value)

	revoked := s.post("/checkin-tokens/revoke", map[string]any{"values": []string{value}})
	s.Equal(http.StatusOK, revoked.StatusCode)
	out := s.decode(revoked)
	s.Equal(float64(1), out["revoked"])
}

func (s *HandlerSuite) TestIssueTokenRejectsBadTTL() {
	id := s.createEvent()

	resp := s.post("/events/"+id.String()+"/tokens", map[string]any{"ttl": "soon"})
	defer resp.Body.Close()
	s.Equal(http.StatusUnprocessableEntity, resp.StatusCode)
}

func (s *HandlerSuite) TestIssueTokenForCancelledEvent() {
	id := s.createEvent()
	cancel := s.post("/events/"+id.String()+"/cancel", nil)
	cancel.Body.Close()

	resp := s.post("/events/"+id.String()+"/tokens", nil)
	defer resp.Body.Close()
	s.Equal(http.StatusConflict, resp.StatusCode)
}

func (s *HandlerSuite) TestAttendanceListAndDelete() {
	eventID := s.createEvent()

	rec, err := attendance.NewService(s.records, noopNotifier{}).Record(context.Background(), attendance.RecordInput{
		ParticipantID: uuid.New(),
		EventID:       eventID,
		SignatureData: "sig",
	})
	s.Require().NoError(err)

	list := s.decode(s.get("/events/" + eventID.String() + "/attendance"))
	items := list["items"].([]any)
	s.Len(items, 1)

	req, err := http.NewRequest(http.MethodDelete, s.server.URL+"/attendance/"+rec.ID.String(), nil)
	s.Require().NoError(err)
	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	resp.Body.Close()
	s.Equal(http.StatusNoContent, resp.StatusCode)

	empty := s.decode(s.get("/events/" + eventID.String() + "/attendance"))
	s.Empty(empty["items"].([]any))
}

func (s *HandlerSuite) get(path string) *http.Response {
	resp, err := http.Get(s.server.URL + path)
	s.Require().NoError(err)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	return resp
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}
