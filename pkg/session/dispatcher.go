package session

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"cardparty-client/pkg/game"
)

// Sender delivers a single intent to the rules engine. The channel adapter
// implements this over its request path.
type Sender interface {
	SendIntent(ctx context.Context, intent *game.Intent) error
}

// Dispatcher translates one committed decision into exactly one outbound
// intent. It holds no state between calls; an intent, once sent, is
// fire-and-forget and its outcome is observed only via the next snapshot.
type Dispatcher struct {
	sender   Sender
	playerID string
	logger   logrus.FieldLogger
}

// NewDispatcher returns a new dispatcher for the given seat
func NewDispatcher(sender Sender, playerID string, logger logrus.FieldLogger) *Dispatcher {
	return &Dispatcher{
		sender:   sender,
		playerID: playerID,
		logger:   logger,
	}
}

// Draw draws a card from the draw pile, ending the local turn
func (d *Dispatcher) Draw(ctx context.Context) error {
	return d.send(ctx, &game.Intent{
		Type:     game.ActionDrawCard,
		PlayerID: d.playerID,
	})
}

// Play plays a single card with no target
func (d *Dispatcher) Play(ctx context.Context, card *game.Card) error {
	return d.send(ctx, &game.Intent{
		Type:     game.ActionPlayCard,
		PlayerID: d.playerID,
		CardID:   card.ID,
	})
}

// PlayTargeted plays a single card against the named player
func (d *Dispatcher) PlayTargeted(ctx context.Context, card *game.Card, targetID string) error {
	return d.send(ctx, &game.Intent{
		Type:           game.ActionPlayCard,
		PlayerID:       d.playerID,
		CardID:         card.ID,
		TargetPlayerID: targetID,
	})
}

// PlayPair plays a matched pair of cards against the named player
func (d *Dispatcher) PlayPair(ctx context.Context, first, second *game.Card, targetID string) error {
	intent := &game.Intent{
		Type:           game.ActionPlayCard,
		PlayerID:       d.playerID,
		CardID:         first.ID,
		TargetPlayerID: targetID,
	}

	return d.send(ctx, intent.WithMeta(game.MetaComboPairID, second.ID))
}

// PlayReaction plays a cancel card against the current pending action
func (d *Dispatcher) PlayReaction(ctx context.Context, card *game.Card) error {
	return d.send(ctx, &game.Intent{
		Type:     game.ActionNope,
		PlayerID: d.playerID,
		CardID:   card.ID,
	})
}

// ChoosePilePosition resolves a reinsertion request with the chosen position
func (d *Dispatcher) ChoosePilePosition(ctx context.Context, position int) error {
	intent := &game.Intent{
		Type:     game.ActionInsertExploding,
		PlayerID: d.playerID,
	}

	return d.send(ctx, intent.WithMeta(game.MetaPosition, position))
}

// SurrenderCard resolves a favor request by giving up the named card
func (d *Dispatcher) SurrenderCard(ctx context.Context, cardID string) error {
	intent := &game.Intent{
		Type:     game.ActionGiveCard,
		PlayerID: d.playerID,
	}

	return d.send(ctx, intent.WithMeta(game.MetaCardID, cardID))
}

// Labeled sends a generic engine-defined action
func (d *Dispatcher) Labeled(ctx context.Context, action string) error {
	return d.send(ctx, &game.Intent{
		Type:     action,
		PlayerID: d.playerID,
	})
}

func (d *Dispatcher) send(ctx context.Context, intent *game.Intent) error {
	log := d.logger.WithFields(logrus.Fields{
		"intentId": uuid.New().String(),
		"type":     intent.Type,
	})

	if err := d.sender.SendIntent(ctx, intent); err != nil {
		log.WithError(err).Warn("intent rejected")
		return err
	}

	log.Debug("intent dispatched")
	return nil
}
