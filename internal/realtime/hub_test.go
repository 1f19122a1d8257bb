package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/coder/websocket"
	goredis "github.com/redis/go-redis/v9"

	"github.com/mindgames/backend/internal/logger"
	"github.com/mindgames/backend/internal/models"
)

func TestPublishDropsWhenFull(t *testing.T) {
	h := NewHub(logger.Nop())
	c := &client{id: "a", userID: 1, send: make(chan []byte, 1)}
	h.register(c)

	h.Publish(1, models.AchievementEvent{Type: "achievement", Code: "PLAY_10_GAMES"})
	h.Publish(1, models.AchievementEvent{Type: "achievement", Code: "PLAY_50_GAMES"})

	if got := len(c.send); got != 1 {
		t.Fatalf("buffered = %d, want 1", got)
	}
	var ev models.AchievementEvent
	json.Unmarshal(<-c.send, &ev)
	if ev.Code != "PLAY_10_GAMES" {
		t.Errorf("first event = %q, want PLAY_10_GAMES", ev.Code)
	}

	if n := h.deliver(2, []byte(`{}`)); n != 0 {
		t.Errorf("deliver to absent user = %d, want 0", n)
	}
}

func TestUnregister(t *testing.T) {
	h := NewHub(logger.Nop())
	a := &client{id: "a", userID: 5, send: make(chan []byte, 1)}
	b := &client{id: "b", userID: 5, send: make(chan []byte, 1)}
	h.register(a)
	h.register(b)
	if got := h.Connections(5); got != 2 {
		t.Fatalf("Connections = %d, want 2", got)
	}

	h.unregister(a)
	h.unregister(a)
	if got := h.Connections(5); got != 1 {
		t.Errorf("Connections after unregister = %d, want 1", got)
	}
	if _, ok := <-a.send; ok {
		t.Error("send channel should be closed")
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatal("condition not met in time")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func asUser(id int64, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		next(w, r.WithContext(context.WithValue(r.Context(), "user_id", id)))
	}
}

func TestServeStreamsEvents(t *testing.T) {
	hub := NewHub(logger.Nop())
	srv := httptest.NewServer(asUser(7, NewHandler(hub, nil).Serve))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, srv.URL, nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.CloseNow()

	waitFor(t, func() bool { return hub.Connections(7) == 1 })
	hub.Publish(7, models.AchievementEvent{Type: "achievement", Code: "NIGHT_OWL", Name: "Night Owl"})

	_, data, err := conn.Read(ctx)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	var ev models.AchievementEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if ev.Code != "NIGHT_OWL" || ev.Type != "achievement" {
		t.Errorf("event = %+v", ev)
	}

	conn.Close(websocket.StatusNormalClosure, "")
	waitFor(t, func() bool { return hub.Connections(7) == 0 })
}

func TestServeRequiresUser(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHandler(NewHub(logger.Nop()), nil).Serve(rec, httptest.NewRequest(http.MethodGet, "/api/v1/ws", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestRedisBus(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	rdb := goredis.NewClient(&goredis.Options{Addr: addr})
	defer rdb.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(logger.Nop())
	bus := NewRedisBus(rdb, "mindgames:test:events", logger.Nop())
	if err := bus.Forward(ctx, hub); err != nil {
		t.Fatalf("Forward: %v", err)
	}
	hub.UseBus(bus)

	c := &client{id: "r", userID: 11, send: make(chan []byte, 1)}
	hub.register(c)
	hub.Publish(11, models.AchievementEvent{Type: "achievement", Code: "EARLY_BIRD"})

	select {
	case data := <-c.send:
		var ev models.AchievementEvent
		json.Unmarshal(data, &ev)
		if ev.Code != "EARLY_BIRD" {
			t.Errorf("code = %q, want EARLY_BIRD", ev.Code)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("event never arrived through redis")
	}
}
