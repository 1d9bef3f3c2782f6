package realtime

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkhitrov/furnboard/internal/bus"
	"github.com/mkhitrov/furnboard/internal/client/models"
	"github.com/mkhitrov/furnboard/internal/logging"
)

type fakeNotifications struct {
	stored []*models.Notification
}

func (f *fakeNotifications) Upsert(_ context.Context, n *models.Notification) error {
	f.stored = append(f.stored, n)
	return nil
}

func (f *fakeNotifications) BulkUpsert(context.Context, []*models.Notification) error { return nil }
func (f *fakeNotifications) GetAll(context.Context) ([]*models.Notification, error)  { return nil, nil }
func (f *fakeNotifications) MarkRead(context.Context, string) error                  { return nil }
func (f *fakeNotifications) Delete(context.Context, string) error                    { return nil }

// wsServer upgrades one connection and sends the given raw frames.
func wsServer(t *testing.T, frames []string) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for _, f := range frames {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(f)); err != nil {
				return
			}
		}
		// Hold the connection open so the listener doesn't reconnect
		// mid-test.
		time.Sleep(time.Second)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestListener_StoresNotificationAndRepublishes(t *testing.T) {
	srv := wsServer(t, []string{
		`{"event":"notification.created","payload":{"id":"n1","title":"Order ready","body":"Order o-1 finished"}}`,
	})

	repo := &fakeNotifications{}
	b := bus.New()
	defer b.Close()
	events, cancelSub := b.Subscribe(4)
	defer cancelSub()

	l := NewListener(wsURL(srv), repo, b, nil, logging.NewDiscardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go l.Run(ctx)

	select {
	case ev := <-events:
		assert.Equal(t, RoomRealtime, ev.Room)
		assert.Equal(t, EventNotificationCreated, ev.Name)
	case <-time.After(2 * time.Second):
		t.Fatal("no event received")
	}

	require.Len(t, repo.stored, 1)
	assert.Equal(t, "n1", repo.stored[0].ID)
	assert.Equal(t, "Order ready", repo.stored[0].Title)
}

func TestListener_RepublishesUnknownEvents(t *testing.T) {
	srv := wsServer(t, []string{
		`{"event":"order.updated","payload":{"id":"o-1"}}`,
	})

	repo := &fakeNotifications{}
	b := bus.New()
	defer b.Close()
	events, cancelSub := b.Subscribe(4)
	defer cancelSub()

	l := NewListener(wsURL(srv), repo, b, nil, logging.NewDiscardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go l.Run(ctx)

	select {
	case ev := <-events:
		assert.Equal(t, "order.updated", ev.Name)
	case <-time.After(2 * time.Second):
		t.Fatal("no event received")
	}
	assert.Empty(t, repo.stored)
}

func TestListener_MalformedFrameIsIgnored(t *testing.T) {
	srv := wsServer(t, []string{
		`not json`,
		`{"event":"notification.created","payload":{"id":"n2"}}`,
	})

	repo := &fakeNotifications{}
	b := bus.New()
	defer b.Close()
	events, cancelSub := b.Subscribe(4)
	defer cancelSub()

	l := NewListener(wsURL(srv), repo, b, nil, logging.NewDiscardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go l.Run(ctx)

	select {
	case ev := <-events:
		assert.Equal(t, EventNotificationCreated, ev.Name)
	case <-time.After(2 * time.Second):
		t.Fatal("no event received")
	}
	require.Len(t, repo.stored, 1)
	assert.Equal(t, "n2", repo.stored[0].ID)
}

func TestListener_NudgesOnDrop(t *testing.T) {
	// Server that refuses the upgrade: every dial attempt fails.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	t.Cleanup(srv.Close)

	var nudged atomic.Int32
	l := NewListener(wsURL(srv), &fakeNotifications{}, bus.New(), func() { nudged.Add(1) }, logging.NewDiscardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go l.Run(ctx)

	require.Eventually(t, func() bool { return nudged.Load() > 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestListener_EmptyURLDisables(t *testing.T) {
	l := NewListener("", &fakeNotifications{}, bus.New(), nil, logging.NewDiscardLogger())

	done := make(chan struct{})
	go func() {
		l.Run(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run should return immediately with no URL")
	}
}
