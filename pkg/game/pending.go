package game

// Pending action kinds the engine declares while it's blocked on one
// player's input
const (
	// PendingInsertExploding means the actor must choose where the drawn
	// bomb goes back into the draw pile
	PendingInsertExploding = "insert_exploding"

	// PendingFavor means the target player must surrender a card of their
	// choosing to the actor
	PendingFavor = "favor"

	// PendingNopeWindow means a played card is being held open so other
	// players can race to cancel it
	PendingNopeWindow = "nope_window"
)

// PendingAction is the server-declared request the engine is blocked on.
// It is created and cleared only by the engine; the client never invents or
// clears one locally.
type PendingAction struct {
	Type           string `json:"type"`
	PlayerID       string `json:"playerId"`
	TargetPlayerID string `json:"targetPlayerId,omitempty"`
	CardID         string `json:"cardId,omitempty"`
	Card           *Card  `json:"card,omitempty"`
	CardName       string `json:"cardName,omitempty"`
	DeckSize       int    `json:"deckSize,omitempty"`
	NopeCount      int    `json:"nopeCount,omitempty"`
	LastNoper      string `json:"lastNoper,omitempty"`
}

// Interruptible returns true if a reaction card may be played against this
// pending action. Bomb reinsertion is the one request that cannot be canceled.
func (p *PendingAction) Interruptible() bool {
	return p.Type != PendingInsertExploding
}
