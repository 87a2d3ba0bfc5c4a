package session

import (
	"fmt"

	"cardparty-client/pkg/game"
)

// Prompt is what the rendering layer should present for the current pending
// request. Exactly one arm is returned per snapshot, chosen by priority:
// reinsert control, surrender picker, reaction offer, waiting overlay.
type Prompt interface {
	prompt()
}

// ReinsertPrompt asks the local player to choose where the bomb goes back
// into the draw pile. Valid positions are 0 through MaxPosition inclusive;
// Randomize on the session is the convenience alternative.
type ReinsertPrompt struct {
	CardName    string
	MaxPosition int
}

func (ReinsertPrompt) prompt() {}

// SurrenderPrompt asks the local player to give up one card from their hand
type SurrenderPrompt struct {
	ToPlayer string
	Cards    []*game.Card
}

func (SurrenderPrompt) prompt() {}

// ReactionPrompt offers the local player the chance to cancel the pending
// action. It is compact and bottom-anchored, not a blocking overlay.
type ReactionPrompt struct {
	Card       *game.Card
	ActionName string
}

func (ReactionPrompt) prompt() {}

// WaitingPrompt is the generic blocking overlay shown while the engine
// waits on somebody else
type WaitingPrompt struct {
	Message string
}

func (WaitingPrompt) prompt() {}

// Resolver decides which prompt (if any) the local viewer should see for
// the snapshot's pending request. Stateless; re-evaluated on every push.
type Resolver struct {
	playerID string
}

// NewResolver returns a resolver for the given viewer
func NewResolver(playerID string) *Resolver {
	return &Resolver{playerID: playerID}
}

// Resolve returns the prompt for the current snapshot, or nil when nothing
// is pending
func (r *Resolver) Resolve(snap *game.Snapshot) Prompt {
	if snap == nil || snap.PendingAction == nil {
		return nil
	}

	pending := snap.PendingAction

	if pending.Type == game.PendingInsertExploding && pending.PlayerID == r.playerID {
		name := pending.CardName
		if name == "" && pending.Card != nil {
			name = pending.Card.Name
		}

		return &ReinsertPrompt{
			CardName:    name,
			MaxPosition: pending.DeckSize,
		}
	}

	if pending.Type == game.PendingFavor && pending.TargetPlayerID == r.playerID {
		prompt := &SurrenderPrompt{}
		if to := snap.Player(pending.PlayerID); to != nil {
			prompt.ToPlayer = to.Name
		}
		if local := snap.Player(r.playerID); local != nil {
			prompt.Cards = local.Hand.Cards
		}

		return prompt
	}

	if snap.Phase == game.PhaseAwaitingResponse && pending.Interruptible() {
		if card := r.reactionCard(snap); card != nil {
			return &ReactionPrompt{
				Card:       card,
				ActionName: actionName(pending),
			}
		}
	}

	return &WaitingPrompt{Message: waitingMessage(snap, pending)}
}

// reactionCard returns a cancel card from the local hand, or nil
func (r *Resolver) reactionCard(snap *game.Snapshot) *game.Card {
	local := snap.Player(r.playerID)
	if local == nil {
		return nil
	}

	for _, card := range local.Hand.Cards {
		if card.IsReaction() {
			return card
		}
	}

	return nil
}

func actionName(pending *game.PendingAction) string {
	if pending.CardName != "" {
		return pending.CardName
	}
	if pending.Card != nil {
		return pending.Card.Name
	}

	return pending.Type
}

func waitingMessage(snap *game.Snapshot, pending *game.PendingAction) string {
	waitingOn := pending.TargetPlayerID
	if waitingOn == "" {
		waitingOn = pending.PlayerID
	}

	if player := snap.Player(waitingOn); player != nil {
		return fmt.Sprintf("Waiting on %s…", player.Name)
	}

	return "Waiting on another player…"
}
