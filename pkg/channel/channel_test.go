package channel

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cardparty-client/pkg/game"
)

type testServer struct {
	*httptest.Server

	push    chan string
	intents chan *game.Intent
	closed  chan error
	conns   chan *websocket.Conn
	reject  string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	ts := &testServer{
		push:    make(chan string, 16),
		intents: make(chan *game.Intent, 16),
		closed:  make(chan error, 1),
		conns:   make(chan *websocket.Conn, 16),
	}

	upgrader := &websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return true },
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws/", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		ts.conns <- conn

		go func() {
			// swallow client pings, record how the client hung up
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					ts.closed <- err
					return
				}
			}
		}()

		for raw := range ts.push {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(raw)); err != nil {
				return
			}
		}
		_ = conn.Close()
	})
	mux.HandleFunc("/api/rooms/", func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/action") {
			http.NotFound(w, r)
			return
		}

		var intent game.Intent
		require.NoError(t, json.NewDecoder(r.Body).Decode(&intent))
		ts.intents <- &intent

		if ts.reject != "" {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{"detail": ts.reject})
			return
		}

		_ = json.NewEncoder(w).Encode(map[string]interface{}{"success": true})
	})

	ts.Server = httptest.NewServer(mux)
	t.Cleanup(func() {
		close(ts.push)
		ts.Server.Close()
	})

	return ts
}

func dialTest(t *testing.T, ts *testServer) *Channel {
	t.Helper()

	c, err := Dial(context.Background(), Options{
		ServerURL: ts.URL,
		RoomCode:  "KTTN",
		PlayerID:  "p1",
	})
	require.NoError(t, err)
	t.Cleanup(c.Close)

	return c
}

func TestDial_validation(t *testing.T) {
	_, err := Dial(context.Background(), Options{ServerURL: "http://localhost"})
	assert.EqualError(t, err, "channel requires a room code and a player ID")
}

func TestChannel_snapshotStream(t *testing.T) {
	a := assert.New(t)

	ts := newTestServer(t)
	c := dialTest(t, ts)
	a.True(c.Connected())

	ts.push <- `{"type":"state_update","state":{"gameId":"g1","phase":"playing","turnNumber":1}}`
	ts.push <- `this is not json`
	ts.push <- `{"type":"state_update","state":{"gameId":"g1","phase":"playing","turnNumber":2}}`

	first := <-c.Snapshots()
	a.Equal(1, first.TurnNumber)

	// the malformed payload is dropped; the stream stays ordered
	second := <-c.Snapshots()
	a.Equal(2, second.TurnNumber)
}

func TestChannel_events(t *testing.T) {
	a := assert.New(t)

	ts := newTestServer(t)
	c := dialTest(t, ts)

	ts.push <- `{"type":"player_connected","playerId":"p2","name":"Bob"}`
	ts.push <- `{"type":"error","message":"Room not found"}`

	event := <-c.Events()
	a.Equal(EventPeerConnected, event.Kind)
	a.Equal("Bob", event.Name)

	event = <-c.Events()
	a.Equal(EventError, event.Kind)
	a.Equal("Room not found", event.Message)
}

func TestChannel_SendIntent(t *testing.T) {
	a := assert.New(t)

	ts := newTestServer(t)
	c := dialTest(t, ts)

	err := c.SendIntent(context.Background(), &game.Intent{
		Type:     game.ActionDrawCard,
		PlayerID: "p1",
	})
	a.NoError(err)

	intent := <-ts.intents
	a.Equal(game.ActionDrawCard, intent.Type)
	a.Equal("p1", intent.PlayerID)
}

func TestChannel_SendIntent_rejected(t *testing.T) {
	a := assert.New(t)

	ts := newTestServer(t)
	ts.reject = "Not your turn"
	c := dialTest(t, ts)

	err := c.SendIntent(context.Background(), &game.Intent{
		Type:     game.ActionDrawCard,
		PlayerID: "p1",
	})
	a.EqualError(err, "Not your turn")
	<-ts.intents
}

func TestChannel_disconnect(t *testing.T) {
	a := assert.New(t)

	ts := newTestServer(t)
	c := dialTest(t, ts)

	// httptest.Server forgets hijacked conns, so CloseClientConnections
	// cannot reach the websocket; close the upgraded conn directly
	conn := <-ts.conns
	require.NoError(t, conn.Close())

	require.Eventually(t, func() bool {
		return !c.Connected()
	}, time.Second*2, time.Millisecond*10)

	// both streams close for good
	_, ok := <-c.Snapshots()
	a.False(ok)
	_, ok = <-c.Events()
	a.False(ok)
}

func TestChannel_closeIsAProperHangUp(t *testing.T) {
	a := assert.New(t)

	ts := newTestServer(t)
	c := dialTest(t, ts)

	// racing closers must not collide with the ping writer
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Close()
		}()
	}
	wg.Wait()

	select {
	case err := <-ts.closed:
		a.True(websocket.IsCloseError(err, websocket.CloseNormalClosure))
	case <-time.After(time.Second * 2):
		t.Fatal("server never saw the close frame")
	}
}
