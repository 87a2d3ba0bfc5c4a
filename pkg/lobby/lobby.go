package lobby

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/url"
	"path"

	"github.com/sirupsen/logrus"

	"cardparty-client/pkg/game"
)

// Client talks to the room lifecycle API: create, join, start, and the
// one-shot state fetch. Gameplay itself happens over the channel adapter.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     logrus.FieldLogger
}

// Room describes the seat the bootstrap calls handed out
type Room struct {
	RoomCode string `json:"roomCode"`
	PlayerID string `json:"playerId"`
	GameID   string `json:"gameId,omitempty"`
	GameName string `json:"gameName,omitempty"`
}

// New returns a lobby client for the given platform base URL
func New(serverURL string, httpClient *http.Client, logger logrus.FieldLogger) (*Client, error) {
	base, err := url.Parse(serverURL)
	if err != nil {
		return nil, fmt.Errorf("could not parse server URL: %w", err)
	}

	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &Client{
		baseURL:    base,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// CreateRoom creates a new room for the given game type with the caller as
// host
func (c *Client) CreateRoom(ctx context.Context, gameType, hostName string) (*Room, error) {
	payload := map[string]string{
		"game_type": gameType,
		"host_name": hostName,
	}

	var room Room
	if err := c.post(ctx, "api/rooms/create", payload, &room); err != nil {
		return nil, err
	}

	c.logger.WithField("room", room.RoomCode).Info("created room")
	return &room, nil
}

// JoinRoom joins an existing room
func (c *Client) JoinRoom(ctx context.Context, roomCode, playerName string) (*Room, error) {
	payload := map[string]string{
		"player_name": playerName,
	}

	var room Room
	if err := c.post(ctx, path.Join("api", "rooms", roomCode, "join"), payload, &room); err != nil {
		return nil, err
	}

	room.RoomCode = roomCode
	c.logger.WithField("room", roomCode).Info("joined room")
	return &room, nil
}

// StartGame starts the game. Only the host may do this.
func (c *Client) StartGame(ctx context.Context, roomCode, playerID string) error {
	query := url.Values{"player_id": []string{playerID}}
	return c.postQuery(ctx, path.Join("api", "rooms", roomCode, "start"), query, map[string]string{}, nil)
}

// State fetches the current snapshot once, outside the push stream
func (c *Client) State(ctx context.Context, roomCode string) (*game.Snapshot, error) {
	endpoint := *c.baseURL
	endpoint.Path = path.Join(endpoint.Path, "api", "rooms", roomCode, "state")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, responseError(resp)
	}

	var body struct {
		State *game.Snapshot `json:"state"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, err
	}

	return body.State, nil
}

func (c *Client) post(ctx context.Context, endpoint string, payload, out interface{}) error {
	return c.postQuery(ctx, endpoint, nil, payload, out)
}

func (c *Client) postQuery(ctx context.Context, endpoint string, query url.Values, payload, out interface{}) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	target := *c.baseURL
	target.Path = path.Join(target.Path, endpoint)
	if query != nil {
		target.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target.String(), bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return responseError(resp)
	}

	if out == nil {
		return nil
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

func responseError(resp *http.Response) error {
	raw, err := ioutil.ReadAll(resp.Body)
	if err == nil {
		var body struct {
			Detail string `json:"detail"`
		}

		if err := json.Unmarshal(raw, &body); err == nil && body.Detail != "" {
			return fmt.Errorf("%s", body.Detail)
		}
	}

	return fmt.Errorf("unexpected response: %s", resp.Status)
}
