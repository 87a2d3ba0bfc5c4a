package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"cardparty-client/pkg/game"
)

// ErrNoTargetSelection is returned when a target is chosen while no
// selection is waiting for one
var ErrNoTargetSelection = errors.New("no selection is awaiting a target")

// Mode identifies the interaction state
type Mode int

// Mode constants
const (
	// ModeIdle means no selection is in progress
	ModeIdle Mode = iota

	// ModeAwaitingSingleTarget means a targeted card is selected and a
	// target player must be chosen before it can be dispatched
	ModeAwaitingSingleTarget

	// ModeAwaitingPairPartner means one pairable card is selected and a
	// matching partner must be chosen
	ModeAwaitingPairPartner

	// ModeAwaitingPairTarget means a pair is complete and a target player
	// must be chosen before it can be dispatched
	ModeAwaitingPairTarget
)

func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "Idle"
	case ModeAwaitingSingleTarget:
		return "AwaitingSingleTarget"
	case ModeAwaitingPairPartner:
		return "AwaitingPairPartner"
	case ModeAwaitingPairTarget:
		return "AwaitingPairTarget"
	}

	panic(fmt.Sprintf("invalid mode: %d", m))
}

// Machine tracks the player's in-progress multi-click selection. The mode is
// client-owned and ephemeral: it never derives from the snapshot and it
// survives unrelated snapshot updates untouched. It resets only on explicit
// cancel or on a successful dispatch.
type Machine struct {
	playerID   string
	dispatcher *Dispatcher
	notify     func(message string)
	logger     logrus.FieldLogger

	mode   Mode
	first  *game.Card
	second *game.Card
}

// NewMachine returns an idle interaction machine for the given seat
func NewMachine(dispatcher *Dispatcher, playerID string, notify func(string), logger logrus.FieldLogger) *Machine {
	return &Machine{
		playerID:   playerID,
		dispatcher: dispatcher,
		notify:     notify,
		logger:     logger,
		mode:       ModeIdle,
	}
}

// Mode returns the current interaction mode
func (m *Machine) Mode() Mode {
	return m.mode
}

// Selection returns the currently selected cards. Second is non-nil only in
// ModeAwaitingPairTarget.
func (m *Machine) Selection() (first, second *game.Card) {
	return m.first, m.second
}

// OnCardActivated handles a card click against the current snapshot.
// A reaction card is dispatched out-of-band whenever the pending action is
// interruptible, regardless of whose turn it is and without touching the
// mode. Every other activation is a no-op unless it's the local player's
// turn during normal play.
func (m *Machine) OnCardActivated(ctx context.Context, snap *game.Snapshot, card *game.Card) error {
	if card.IsReaction() && snap.Phase == game.PhaseAwaitingResponse &&
		snap.PendingAction != nil && snap.PendingAction.Interruptible() {
		// out-of-band reaction, not a turn action
		return m.dispatch(ctx, func(ctx context.Context) error {
			return m.dispatcher.PlayReaction(ctx, card)
		}, false)
	}

	if !snap.IsTurn(m.playerID) || snap.Phase != game.PhasePlaying {
		return nil
	}

	// a reaction card with no open window has nothing to cancel
	if !card.IsPlayable || card.IsReaction() {
		return nil
	}

	switch {
	case card.IsPairable():
		m.onPairableActivated(card)
		return nil

	case card.RequiresTarget():
		m.setMode(ModeAwaitingSingleTarget)
		m.first = card
		m.second = nil
		return nil

	default:
		return m.dispatch(ctx, func(ctx context.Context) error {
			return m.dispatcher.Play(ctx, card)
		}, true)
	}
}

func (m *Machine) onPairableActivated(card *game.Card) {
	if m.mode == ModeAwaitingPairPartner {
		if m.first.Subtype == card.Subtype && !m.first.Equal(card) {
			m.setMode(ModeAwaitingPairTarget)
			m.second = card
			return
		}

		// restart the pairing with the just-clicked card
		m.notify(fmt.Sprintf("Pick a second %s to complete the pair", card.Name))
	}

	m.setMode(ModeAwaitingPairPartner)
	m.first = card
	m.second = nil
}

// OnTargetChosen completes a targeting selection by dispatching the play
// against the chosen player. Valid only in ModeAwaitingSingleTarget and
// ModeAwaitingPairTarget.
func (m *Machine) OnTargetChosen(ctx context.Context, targetID string) error {
	switch m.mode {
	case ModeAwaitingSingleTarget:
		first := m.first
		return m.dispatch(ctx, func(ctx context.Context) error {
			return m.dispatcher.PlayTargeted(ctx, first, targetID)
		}, true)

	case ModeAwaitingPairTarget:
		first, second := m.first, m.second
		return m.dispatch(ctx, func(ctx context.Context) error {
			return m.dispatcher.PlayPair(ctx, first, second, targetID)
		}, true)
	}

	return ErrNoTargetSelection
}

// Cancel abandons any in-progress selection without dispatching
func (m *Machine) Cancel() {
	m.reset()
}

// dispatch sends one intent. A rejected intent surfaces as a notification
// and leaves the mode untouched so the player can retry with corrected
// input; a successful dispatch resets to idle when the intent consumed the
// selection.
func (m *Machine) dispatch(ctx context.Context, send func(context.Context) error, resets bool) error {
	if err := send(ctx); err != nil {
		m.notify(err.Error())
		return err
	}

	if resets {
		m.reset()
	}

	return nil
}

func (m *Machine) reset() {
	m.setMode(ModeIdle)
	m.first = nil
	m.second = nil
}

// setMode records the transition when the mode actually changes
func (m *Machine) setMode(mode Mode) {
	if mode != m.mode {
		m.logger.WithField("mode", mode).Debug("interaction mode changed")
	}

	m.mode = mode
}
