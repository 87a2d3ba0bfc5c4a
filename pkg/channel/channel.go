package channel

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/url"
	"path"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"cardparty-client/pkg/game"
)

const writeWait = time.Second * 10
const readWait = time.Second * 60
const pingPeriod = readWait * 9 / 10

// Options configures a channel
type Options struct {
	// ServerURL is the http(s) base URL of the platform
	ServerURL string

	RoomCode string
	PlayerID string

	Logger     logrus.FieldLogger
	HTTPClient *http.Client
}

// Channel is the persistent connection to a room. It delivers snapshot
// pushes in order on a single stream and owns the request path intents are
// sent back out on.
type Channel struct {
	conn       *websocket.Conn
	httpClient *http.Client
	baseURL    *url.URL
	roomCode   string
	playerID   string
	logger     logrus.FieldLogger

	snapshots chan *game.Snapshot
	events    chan Event

	mu        sync.RWMutex
	connected bool

	done  chan bool
	close sync.Once
}

// Dial connects to the room's websocket and starts the read and keepalive
// loops
func Dial(ctx context.Context, opts Options) (*Channel, error) {
	if opts.RoomCode == "" || opts.PlayerID == "" {
		return nil, errors.New("channel requires a room code and a player ID")
	}

	base, err := url.Parse(opts.ServerURL)
	if err != nil {
		return nil, fmt.Errorf("could not parse server URL: %w", err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	wsURL := *base
	switch base.Scheme {
	case "https":
		wsURL.Scheme = "wss"
	default:
		wsURL.Scheme = "ws"
	}
	wsURL.Path = path.Join(wsURL.Path, "ws", opts.RoomCode, opts.PlayerID)

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("could not connect to %s: %w", wsURL.String(), err)
	}

	c := &Channel{
		conn:       conn,
		httpClient: httpClient,
		baseURL:    base,
		roomCode:   opts.RoomCode,
		playerID:   opts.PlayerID,
		logger:     logger.WithField("room", opts.RoomCode),
		snapshots:  make(chan *game.Snapshot, 16),
		events:     make(chan Event, 16),
		connected:  true,
		done:       make(chan bool),
	}

	go c.readLoop()
	go c.pingLoop()

	return c, nil
}

// Snapshots returns the ordered snapshot stream. The channel is closed when
// the connection is gone.
func (c *Channel) Snapshots() <-chan *game.Snapshot {
	return c.snapshots
}

// Events returns the stream of non-snapshot server events
func (c *Channel) Events() <-chan Event {
	return c.events
}

// Connected reports whether the websocket is still up
func (c *Channel) Connected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.connected
}

// Close shuts the connection down
func (c *Channel) Close() {
	c.close.Do(func() {
		close(c.done)

		// gorilla allows one concurrent writer and the ping loop may be
		// mid-write; control frames are exempt from that limit
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(writeWait))
		_ = c.conn.Close()
	})
}

func (c *Channel) readLoop() {
	defer func() {
		c.mu.Lock()
		c.connected = false
		c.mu.Unlock()

		// both streams close here; events are only ever sent from this
		// goroutine
		close(c.snapshots)
		close(c.events)
	}()

	for {
		_ = c.conn.SetReadDeadline(time.Now().Add(readWait))

		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure) {
				c.logger.WithError(err).Error("could not read message")
			}

			return
		}

		var msg envelope
		if err := json.Unmarshal(raw, &msg); err != nil {
			// malformed payloads are dropped; the previous snapshot stays
			// authoritative
			c.logger.WithError(err).Debug("dropping unparseable message")
			continue
		}

		c.handleMessage(&msg)
	}
}

func (c *Channel) handleMessage(msg *envelope) {
	switch msg.Type {
	case msgStateUpdate:
		var snap game.Snapshot
		if err := json.Unmarshal(msg.State, &snap); err != nil {
			c.logger.WithError(err).Debug("dropping unparseable snapshot")
			return
		}

		// block rather than drop so the stream stays ordered and complete
		select {
		case c.snapshots <- &snap:
		case <-c.done:
		}

	case msgPong:
		// keepalive acknowledged; the read deadline was already extended

	case msgPlayerConnected:
		c.sendEvent(Event{Kind: EventPeerConnected, PlayerID: msg.PlayerID, Name: msg.Name})

	case msgPlayerDisconnected:
		c.sendEvent(Event{Kind: EventPeerDisconnected, PlayerID: msg.PlayerID, Name: msg.Name})

	case msgError:
		c.sendEvent(Event{Kind: EventError, Message: msg.Message})

	default:
		c.logger.WithField("type", msg.Type).Debug("ignoring unknown message type")
	}
}

func (c *Channel) sendEvent(event Event) {
	select {
	case c.events <- event:
	default:
		c.logger.WithField("kind", event.Kind).Warn("event buffer full, dropping event")
	}
}

func (c *Channel) pingLoop() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(envelope{Type: msgPing}); err != nil {
				c.logger.WithError(err).Debug("could not write ping")
				return
			}
		case <-c.done:
			return
		}
	}
}

// SendIntent delivers one intent over the request path. A non-2xx response
// is a rejected intent and comes back as a plain error.
func (c *Channel) SendIntent(ctx context.Context, intent *game.Intent) error {
	endpoint := *c.baseURL
	endpoint.Path = path.Join(endpoint.Path, "api", "rooms", c.roomCode, "action")

	body, err := json.Marshal(intent)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	return errors.New(rejectionReason(resp))
}

// rejectionReason pulls the engine's message out of an error response
func rejectionReason(resp *http.Response) string {
	raw, err := ioutil.ReadAll(resp.Body)
	if err == nil {
		var body struct {
			Detail string `json:"detail"`
		}

		if err := json.Unmarshal(raw, &body); err == nil && body.Detail != "" {
			return body.Detail
		}
	}

	return fmt.Sprintf("action rejected: %s", resp.Status)
}
