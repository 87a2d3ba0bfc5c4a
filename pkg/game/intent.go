package game

// Intent action types accepted by the engine
const (
	ActionDrawCard        = "draw_card"
	ActionPlayCard        = "play_card"
	ActionNope            = "nope"
	ActionInsertExploding = "insert_exploding"
	ActionGiveCard        = "give_card"
)

// Metadata keys the engine reads off an intent
const (
	MetaComboPairID = "comboPairId"
	MetaPosition    = "position"
	MetaCardID      = "cardId"
)

// Intent is one committed player decision, sent to the engine exactly once.
// The engine either applies it and pushes a new snapshot, or rejects it.
type Intent struct {
	Type           string                 `json:"type"`
	PlayerID       string                 `json:"playerId"`
	CardID         string                 `json:"cardId,omitempty"`
	TargetPlayerID string                 `json:"targetPlayerId,omitempty"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
}

// WithMeta sets a metadata key on the intent and returns it
func (i *Intent) WithMeta(key string, value interface{}) *Intent {
	if i.Metadata == nil {
		i.Metadata = make(map[string]interface{})
	}

	i.Metadata[key] = value
	return i
}
