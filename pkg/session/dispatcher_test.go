package session

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"cardparty-client/pkg/game"
)

func TestDispatcher_intents(t *testing.T) {
	a := assert.New(t)

	sender := &fakeSender{}
	d := NewDispatcher(sender, "p1", logrus.StandardLogger())
	ctx := context.Background()

	a.NoError(d.Draw(ctx))
	a.Equal(&game.Intent{Type: game.ActionDrawCard, PlayerID: "p1"}, sender.last())

	a.NoError(d.Play(ctx, card("c1", game.SubtypeSkip)))
	a.Equal(&game.Intent{Type: game.ActionPlayCard, PlayerID: "p1", CardID: "c1"}, sender.last())

	a.NoError(d.PlayTargeted(ctx, card("f1", game.SubtypeFavor), "p2"))
	a.Equal(&game.Intent{Type: game.ActionPlayCard, PlayerID: "p1", CardID: "f1", TargetPlayerID: "p2"}, sender.last())

	a.NoError(d.PlayPair(ctx, card("cat1", "tacocat"), card("cat2", "tacocat"), "p3"))
	pair := sender.last()
	a.Equal("cat1", pair.CardID)
	a.Equal("p3", pair.TargetPlayerID)
	a.Equal("cat2", pair.Metadata[game.MetaComboPairID])

	a.NoError(d.PlayReaction(ctx, card("n1", game.SubtypeNope)))
	a.Equal(&game.Intent{Type: game.ActionNope, PlayerID: "p1", CardID: "n1"}, sender.last())

	a.NoError(d.ChoosePilePosition(ctx, 7))
	a.Equal(game.ActionInsertExploding, sender.last().Type)
	a.Equal(7, sender.last().Metadata[game.MetaPosition])

	a.NoError(d.SurrenderCard(ctx, "b"))
	a.Equal(game.ActionGiveCard, sender.last().Type)
	a.Equal("b", sender.last().Metadata[game.MetaCardID])

	a.NoError(d.Labeled(ctx, "resolve_nope_window"))
	a.Equal("resolve_nope_window", sender.last().Type)
}

func TestDispatcher_rejection(t *testing.T) {
	a := assert.New(t)

	sender := &fakeSender{err: errRejected}
	d := NewDispatcher(sender, "p1", logrus.StandardLogger())

	a.Equal(errRejected, d.Draw(context.Background()))
	a.Len(sender.intents, 0)
}
