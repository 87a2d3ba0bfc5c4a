package session

import (
	"context"
	"errors"
	"fmt"

	"cardparty-client/pkg/game"
)

// fakeSender records every intent it's asked to deliver
type fakeSender struct {
	intents []*game.Intent
	err     error
}

func (f *fakeSender) SendIntent(_ context.Context, intent *game.Intent) error {
	if f.err != nil {
		return f.err
	}

	f.intents = append(f.intents, intent)
	return nil
}

func (f *fakeSender) last() *game.Intent {
	if len(f.intents) == 0 {
		return nil
	}

	return f.intents[len(f.intents)-1]
}

var errRejected = errors.New("not your turn")

func card(id, subtype string) *game.Card {
	return &game.Card{
		ID:         id,
		Name:       id,
		Type:       "action",
		Subtype:    subtype,
		IsPlayable: true,
	}
}

func testSnapshot(phase, turnID string) *game.Snapshot {
	return &game.Snapshot{
		GameID:              "g1",
		GameName:            "Exploding Kittens",
		Phase:               phase,
		CurrentTurnPlayerID: turnID,
		Players: []*game.Player{
			{ID: "p1", Name: "Alice", Hand: game.Hand{PlayerID: "p1"}},
			{ID: "p2", Name: "Bob", Hand: game.Hand{PlayerID: "p2"}},
			{ID: "p3", Name: "Carol", Hand: game.Hand{PlayerID: "p3"}},
		},
		Zones: []*game.Zone{
			{ID: game.ZoneDrawPile, Name: "Draw Pile", Type: "deck"},
			{ID: game.ZoneDiscardPile, Name: "Discard", Type: "discard"},
		},
	}
}

func giveHand(snap *game.Snapshot, playerID string, cards ...*game.Card) {
	snap.Player(playerID).Hand.Cards = cards
}

func logEntry(entryType, message, playerID string) *game.LogEntry {
	return &game.LogEntry{
		ID:       fmt.Sprintf("log-%s-%d", entryType, len(message)),
		Message:  message,
		Type:     entryType,
		PlayerID: playerID,
	}
}
