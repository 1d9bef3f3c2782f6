// Package realtime maintains a websocket subscription to the backend's push
// channel. Frames update local mirrors and are fanned out on the event bus;
// the transport is advisory only, every change it announces is also picked up
// by the next reconciliation pass.
package realtime

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"

	"github.com/mkhitrov/furnboard/internal/bus"
	"github.com/mkhitrov/furnboard/internal/client/models"
	"github.com/mkhitrov/furnboard/internal/client/repositories/notifications"
	"github.com/mkhitrov/furnboard/internal/logging"
)

const (
	RoomRealtime = "realtime"

	EventNotificationCreated = "notification.created"

	reconnectDelay = 5 * time.Second
)

// frame is the wire format of a push message.
type frame struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

// Listener consumes push frames from the backend.
type Listener struct {
	url           string
	notifications notifications.Repository
	pub           bus.Publisher
	nudge         func()
	log           logging.Logger

	dialer *websocket.Dialer
}

// NewListener builds a listener for the given websocket URL. An empty URL
// disables the listener entirely. nudge is called whenever the connection
// drops, so the connectivity monitor can re-probe without waiting out its
// timer.
func NewListener(url string, repo notifications.Repository, pub bus.Publisher, nudge func(), log logging.Logger) *Listener {
	return &Listener{
		url:           url,
		notifications: repo,
		pub:           pub,
		nudge:         nudge,
		log:           log,
		dialer:        websocket.DefaultDialer,
	}
}

// Run connects and consumes frames until ctx is cancelled, reconnecting
// after every drop.
func (l *Listener) Run(ctx context.Context) {
	if l.url == "" {
		l.log.Debug(ctx, "realtime listener disabled")
		return
	}

	for {
		if err := l.session(ctx); err != nil {
			l.log.Warn(ctx, "realtime connection lost", "error", err)
			if l.nudge != nil {
				l.nudge()
			}
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(reconnectDelay):
		}
	}
}

func (l *Listener) session(ctx context.Context) error {
	conn, _, err := l.dialer.DialContext(ctx, l.url, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	l.log.Info(ctx, "realtime connected", "url", l.url)

	// Unblock ReadMessage on cancellation.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-done:
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		l.handle(ctx, data)
	}
}

func (l *Listener) handle(ctx context.Context, data []byte) {
	var f frame
	if err := json.Unmarshal(data, &f); err != nil {
		l.log.Warn(ctx, "malformed realtime frame", "error", err)
		return
	}

	switch f.Event {
	case EventNotificationCreated:
		var n models.Notification
		if err := json.Unmarshal(f.Payload, &n); err != nil {
			l.log.Warn(ctx, "malformed notification payload", "error", err)
			return
		}
		if err := l.notifications.Upsert(ctx, &n); err != nil {
			l.log.Warn(ctx, "failed to store notification", "id", n.ID, "error", err)
			return
		}
	}

	// Every frame is republished so the UI layer can react without knowing
	// the wire format.
	_ = l.pub.Publish(RoomRealtime, f.Event, f.Payload)
}
