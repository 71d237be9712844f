package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/pitch-prophet/internal/config"
	"github.com/yourusername/pitch-prophet/internal/models"
	"github.com/yourusername/pitch-prophet/internal/service"
)

type stubReader struct {
	views []*service.EventView
	picks []*service.PickView
	err   error

	lastLeague string
	lastLimit  int
}

func (s *stubReader) EventsWithProbabilities(ctx context.Context, league string, limit int) ([]*service.EventView, error) {
	s.lastLeague = league
	s.lastLimit = limit
	return s.views, s.err
}

func (s *stubReader) TopPicks(ctx context.Context, limit int) ([]*service.PickView, error) {
	s.lastLimit = limit
	return s.picks, s.err
}

type stubSyncer struct {
	result *service.SyncResult
	err    error
	block  chan struct{}
}

func (s *stubSyncer) SyncLeague(ctx context.Context, leagueName string, count int, progressFn service.ProgressFunc) (*service.SyncResult, error) {
	if s.block != nil {
		<-s.block
	}
	if progressFn != nil {
		progressFn(service.Progress{Stage: "done", Message: "finished"})
	}
	return s.result, s.err
}

type stubChat struct {
	answer string
	err    error
}

func (s *stubChat) Ask(ctx context.Context, eventID uuid.UUID, question string) (string, error) {
	return s.answer, s.err
}

func testServer(reader EventLister, syncer LeagueSyncer, chat QuestionAnswerer) *Server {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	cfg := &config.Config{
		App:     config.AppConfig{Name: "pitch-prophet"},
		Server:  config.ServerConfig{Port: 0, ReadTimeoutSec: 5, WriteTimeoutSec: 10},
		Metrics: config.MetricsConfig{Enabled: false, Path: "/metrics"},
	}
	return NewServer(cfg, reader, syncer, chat, NewHub(nil, logger), logger)
}

func TestHandleEventsPassesFilters(t *testing.T) {
	reader := &stubReader{views: []*service.EventView{}}
	srv := testServer(reader, &stubSyncer{}, &stubChat{})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/events?league=Premier+League&limit=5", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Premier League", reader.lastLeague)
	assert.Equal(t, 5, reader.lastLimit)
}

func TestHandleEventsRejectsBadLimit(t *testing.T) {
	srv := testServer(&stubReader{}, &stubSyncer{}, &stubChat{})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/events?limit=minus-one", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandlePicks(t *testing.T) {
	reader := &stubReader{picks: []*service.PickView{
		{
			Event: &models.Event{ID: uuid.New(), HomeTeam: "Arsenal", AwayTeam: "Chelsea"},
			Probability: &service.ProbabilityView{
				Probability: models.Probability{Market: models.MarketMatchResult, Probability: 0.82},
			},
		},
	}}
	srv := testServer(reader, &stubSyncer{}, &stubChat{})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/picks?limit=10", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 10, reader.lastLimit)
	assert.Contains(t, rec.Body.String(), "Arsenal")

	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/picks?limit=0", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleSyncReturnsResult(t *testing.T) {
	syncer := &stubSyncer{result: &service.SyncResult{Success: true, Processed: 3}}
	srv := testServer(&stubReader{}, syncer, &stubChat{})

	body := strings.NewReader(`{"league":"Premier League","count":3}`)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/sync", body))

	require.Equal(t, http.StatusOK, rec.Code)
	var result service.SyncResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.True(t, result.Success)
	assert.Equal(t, 3, result.Processed)
}

func TestHandleSyncRequiresLeague(t *testing.T) {
	srv := testServer(&stubReader{}, &stubSyncer{}, &stubChat{})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/sync", strings.NewReader(`{}`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleSyncRejectsConcurrentRuns(t *testing.T) {
	block := make(chan struct{})
	syncer := &stubSyncer{result: &service.SyncResult{Success: true}, block: block}
	srv := testServer(&stubReader{}, syncer, &stubChat{})
	handler := srv.Handler()

	firstDone := make(chan struct{})
	go func() {
		defer close(firstDone)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/sync", strings.NewReader(`{"league":"Premier League"}`)))
	}()

	// wait until the first request holds the sync slot
	require.Eventually(t, func() bool {
		return srv.syncRunning.Load()
	}, time.Second, 5*time.Millisecond)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/sync", strings.NewReader(`{"league":"Premier League"}`)))
	assert.Equal(t, http.StatusConflict, rec.Code)

	close(block)
	<-firstDone
	assert.False(t, srv.syncRunning.Load())
}

func TestHandleChatAnswers(t *testing.T) {
	srv := testServer(&stubReader{}, &stubSyncer{}, &stubChat{answer: "Home side are favourites."})

	body := strings.NewReader(`{"event_id":"` + uuid.NewString() + `","question":"who wins?"}`)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/chat", body))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp chatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Home side are favourites.", resp.Answer)
}

func TestHandleChatUnknownEvent(t *testing.T) {
	srv := testServer(&stubReader{}, &stubSyncer{}, &stubChat{err: models.ErrNotFound})

	body := strings.NewReader(`{"event_id":"` + uuid.NewString() + `","question":"who wins?"}`)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/chat", body))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleChatValidation(t *testing.T) {
	srv := testServer(&stubReader{}, &stubSyncer{}, &stubChat{})
	handler := srv.Handler()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"event_id":"not-a-uuid","question":"q"}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"event_id":"`+uuid.NewString()+`"}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthEndpoint(t *testing.T) {
	srv := testServer(&stubReader{}, &stubSyncer{}, &stubChat{})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestWebsocketBroadcastReachesClients(t *testing.T) {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	hub := NewHub(func(r *http.Request) bool { return true }, logger)

	httpSrv := httptest.NewServer(http.HandlerFunc(hub.HandleWS))
	defer httpSrv.Close()

	url := "ws" + strings.TrimPrefix(httpSrv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	hub.Broadcast(service.Progress{Stage: "fixtures", Message: "Crawling"})

	var got service.Progress
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, "fixtures", got.Stage)
	assert.Equal(t, "Crawling", got.Message)
}

func TestWebsocketPongAndBroadcastShareConnection(t *testing.T) {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	hub := NewHub(func(r *http.Request) bool { return true }, logger)

	httpSrv := httptest.NewServer(http.HandlerFunc(hub.HandleWS))
	defer httpSrv.Close()

	url := "ws" + strings.TrimPrefix(httpSrv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	// pong replies from the read loop and broadcasts interleave on the same
	// conn; the per-connection write lock keeps them serialized
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 20; i++ {
			hub.Broadcast(service.Progress{Stage: "events", Completed: i})
		}
	}()

	require.NoError(t, conn.WriteJSON(map[string]string{"type": "ping"}))

	sawPong := false
	sawProgress := false
	for i := 0; i < 21 && !(sawPong && sawProgress); i++ {
		var raw map[string]any
		require.NoError(t, conn.ReadJSON(&raw))
		switch {
		case raw["type"] == "pong":
			sawPong = true
		case raw["stage"] == "events":
			sawProgress = true
		}
	}
	<-done

	assert.True(t, sawPong)
	assert.True(t, sawProgress)
}
