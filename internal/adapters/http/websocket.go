package http

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/nats-io/nats.go"

	"github.com/voltpath/voltpath/internal/pkg/metrics"
)

const wsPingInterval = 30 * time.Second

// wsCommand is a client control message. Channel selects the event feed;
// for the stations channel an optional station ID narrows the filter.
type wsCommand struct {
	Action  string `json:"action"`  // "subscribe" | "unsubscribe"
	Channel string `json:"channel"` // "stations" (default) | "bookings"
	Station string `json:"station"` // station ID filter, "" = all
}

// subjectFor maps a client command to a NATS subject. Empty return means
// the channel is unknown.
func subjectFor(cmd wsCommand) string {
	switch cmd.Channel {
	case "", "stations":
		if cmd.Station != "" {
			return "charging.station." + cmd.Station
		}
		return "charging.station.>"
	case "bookings":
		return "charging.booking.created"
	}
	return ""
}

// wsSession owns one client connection and its NATS subscriptions.
type wsSession struct {
	conn *websocket.Conn
	nc   *nats.Conn

	mu   sync.Mutex
	subs map[string]*nats.Subscription
}

// send marshals v and writes it under the session lock, since NATS
// callbacks and the ping loop write concurrently.
func (s *wsSession) send(v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteMessage(websocket.TextMessage, data)
}

func (s *wsSession) subscribe(subject string) {
	if _, ok := s.subs[subject]; ok {
		_ = s.send(fiber.Map{"status": "already subscribed", "subject": subject})
		return
	}
	sub, err := s.nc.Subscribe(subject, func(msg *nats.Msg) {
		_ = s.send(json.RawMessage(msg.Data))
	})
	if err != nil {
		_ = s.send(fiber.Map{"error": "subscribe failed: " + err.Error()})
		return
	}
	s.subs[subject] = sub
	_ = s.send(fiber.Map{"status": "subscribed", "subject": subject})
}

func (s *wsSession) unsubscribe(subject string) {
	sub, ok := s.subs[subject]
	if !ok {
		_ = s.send(fiber.Map{"error": "not subscribed to " + subject})
		return
	}
	_ = sub.Unsubscribe()
	delete(s.subs, subject)
	_ = s.send(fiber.Map{"status": "unsubscribed", "subject": subject})
}

func (s *wsSession) close() {
	for _, sub := range s.subs {
		_ = sub.Unsubscribe()
	}
}

// WebSocketHandler relays station and booking events from NATS to
// connected clients. Every client starts subscribed to all station
// updates; commands narrow or extend from there.
func WebSocketHandler(nc *nats.Conn) func(*websocket.Conn) {
	return func(c *websocket.Conn) {
		defer c.Close()

		if nc == nil {
			_ = c.WriteMessage(websocket.TextMessage, []byte(`{"error":"event stream unavailable"}`))
			return
		}

		remote := c.RemoteAddr().String()
		log.Printf("ws connect: %s", remote)
		metrics.ActiveWebSockets.Inc()
		defer metrics.ActiveWebSockets.Dec()

		sess := &wsSession{conn: c, nc: nc, subs: make(map[string]*nats.Subscription)}
		defer sess.close()

		sess.subscribe(subjectFor(wsCommand{}))

		done := make(chan struct{})
		defer close(done)
		go func() {
			ticker := time.NewTicker(wsPingInterval)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					sess.mu.Lock()
					err := c.WriteMessage(websocket.PingMessage, nil)
					sess.mu.Unlock()
					if err != nil {
						return
					}
				case <-done:
					return
				}
			}
		}()

		for {
			_, msg, err := c.ReadMessage()
			if err != nil {
				break
			}

			var cmd wsCommand
			if err := json.Unmarshal(msg, &cmd); err != nil {
				_ = sess.send(fiber.Map{"error": "invalid JSON"})
				continue
			}

			subject := subjectFor(cmd)
			if subject == "" {
				_ = sess.send(fiber.Map{"error": "unknown channel: " + cmd.Channel})
				continue
			}

			switch cmd.Action {
			case "subscribe":
				sess.subscribe(subject)
			case "unsubscribe":
				sess.unsubscribe(subject)
			default:
				_ = sess.send(fiber.Map{"error": "unknown action: " + cmd.Action})
			}
		}

		log.Printf("ws disconnect: %s", remote)
	}
}
