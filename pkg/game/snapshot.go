package game

// Phase constants as the engine reports them
const (
	PhaseLobby            = "lobby"
	PhasePlaying          = "playing"
	PhaseAwaitingResponse = "awaiting_response"
	PhaseEnded            = "ended"
)

// Log entry categories
const (
	LogTypeAction = "action"
	LogTypeEffect = "effect"
	LogTypeSystem = "system"
)

// Well-known zone identifiers
const (
	ZoneDrawPile    = "draw_pile"
	ZoneDiscardPile = "discard_pile"
)

// Hand is a player's hand as serialized for one specific viewer. Other
// players' cards arrive masked, so len(Cards) is the only reliable fact
// about a hand that isn't the viewer's own.
type Hand struct {
	PlayerID  string  `json:"playerId"`
	Cards     []*Card `json:"cards"`
	IsVisible bool    `json:"isVisible"`
}

// Player is a seated player in the snapshot
type Player struct {
	ID            string                 `json:"id"`
	Name          string                 `json:"name"`
	Emoji         string                 `json:"emoji,omitempty"`
	Status        string                 `json:"status"`
	Hand          Hand                   `json:"hand"`
	IsCurrentTurn bool                   `json:"isCurrentTurn"`
	IsLocalPlayer bool                   `json:"isLocalPlayer"`
	IsConnected   bool                   `json:"isConnected"`
	Score         *int                   `json:"score,omitempty"`
	Metadata      map[string]interface{} `json:"metadata,omitempty"`
}

// Zone is a shared pile on the table
type Zone struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Type     string  `json:"type"`
	Cards    []*Card `json:"cards"`
	IsPublic bool    `json:"isPublic"`
}

// LogEntry is one append-only event log record
type LogEntry struct {
	ID        string `json:"id"`
	Timestamp int64  `json:"timestamp"`
	Message   string `json:"message"`
	Type      string `json:"type"`
	PlayerID  string `json:"playerId,omitempty"`
	CardID    string `json:"cardId,omitempty"`
}

// Snapshot is the complete authoritative game state as of the last push.
// The server replaces it wholesale on every push; the client never patches
// it in place.
type Snapshot struct {
	GameID              string                 `json:"gameId"`
	GameName            string                 `json:"gameName"`
	Phase               string                 `json:"phase"`
	Players             []*Player              `json:"players"`
	Zones               []*Zone                `json:"zones"`
	CurrentTurnPlayerID string                 `json:"currentTurnPlayerId"`
	TurnNumber          int                    `json:"turnNumber"`
	Log                 []*LogEntry            `json:"log"`
	PendingAction       *PendingAction         `json:"pendingAction,omitempty"`
	Winner              *Player                `json:"winner,omitempty"`
	Metadata            map[string]interface{} `json:"metadata,omitempty"`
}

// Player returns the player with the given ID, or nil
func (s *Snapshot) Player(id string) *Player {
	for _, p := range s.Players {
		if p.ID == id {
			return p
		}
	}

	return nil
}

// Zone returns the zone with the given ID, or nil
func (s *Snapshot) Zone(id string) *Zone {
	for _, z := range s.Zones {
		if z.ID == id {
			return z
		}
	}

	return nil
}

// IsTurn returns true if it's the given player's turn
func (s *Snapshot) IsTurn(playerID string) bool {
	return s.CurrentTurnPlayerID == playerID
}

// CardInHand returns the card with the given ID from the player's hand, or nil
func (s *Snapshot) CardInHand(playerID, cardID string) *Card {
	player := s.Player(playerID)
	if player == nil {
		return nil
	}

	for _, c := range player.Hand.Cards {
		if c.ID == cardID {
			return c
		}
	}

	return nil
}
