package game

// Card subtype constants for the flagship rule set. The engine is free to
// define more; the client only needs to recognize the ones that change how
// an activation is handled.
const (
	SubtypeExploding = "exploding"
	SubtypeDefuse    = "defuse"
	SubtypeNope      = "nope"
	SubtypeAttack    = "attack"
	SubtypeSkip      = "skip"
	SubtypeFavor     = "favor"
	SubtypeShuffle   = "shuffle"
	SubtypePeek      = "peek"
	SubtypeHidden    = "hidden"
)

// pairableSubtypes are the cat cards. They have no effect on their own and
// must be played two-at-a-time with a matching partner.
var pairableSubtypes = map[string]bool{
	"tacocat":              true,
	"cattermelon":          true,
	"hairy_potato_cat":     true,
	"rainbow_ralphing_cat": true,
	"beard_cat":            true,
}

// CardEffect is a single effect entry on a card definition
type CardEffect struct {
	Type        string `json:"type"`
	Value       int    `json:"value,omitempty"`
	Target      string `json:"target,omitempty"`
	Description string `json:"description"`
}

// Card is a card as the engine serializes it.
// Cards in another player's hand arrive masked (subtype "hidden")
type Card struct {
	ID          string                 `json:"id"`
	Name        string                 `json:"name"`
	Type        string                 `json:"type"`
	Subtype     string                 `json:"subtype,omitempty"`
	Emoji       string                 `json:"emoji,omitempty"`
	Description string                 `json:"description"`
	Effects     []CardEffect           `json:"effects"`
	IsPlayable  bool                   `json:"isPlayable"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
}

func (c *Card) String() string {
	if c.Emoji != "" {
		return c.Emoji + " " + c.Name
	}

	return c.Name
}

// Equal returns true if both cards refer to the same engine card instance
func (c *Card) Equal(card *Card) bool {
	return card != nil && c.ID == card.ID
}

// IsReaction returns true if the card can be played out-of-turn to cancel
// another player's pending action
func (c *Card) IsReaction() bool {
	return c.Subtype == SubtypeNope
}

// IsPairable returns true if the card must be played together with a second
// card of the same subtype
func (c *Card) IsPairable() bool {
	return pairableSubtypes[c.Subtype]
}

// RequiresTarget returns true if the card cannot be dispatched until another
// player has been named
func (c *Card) RequiresTarget() bool {
	if c.Subtype == SubtypeFavor {
		return true
	}

	for _, effect := range c.Effects {
		if effect.Target == "chosen_player" {
			return true
		}
	}

	return false
}
