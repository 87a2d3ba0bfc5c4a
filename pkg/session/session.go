package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"cardparty-client/internal/rng"
	"cardparty-client/pkg/game"
)

// sendTimeout bounds a single intent delivery
const sendTimeout = time.Second * 10

// Adapter is the persistent channel the session consumes snapshots from.
// Snapshots arrive in a single ordered stream; the adapter owns ordering.
type Adapter interface {
	// Snapshots yields authoritative state pushes. The channel is closed
	// when the connection is gone for good.
	Snapshots() <-chan *game.Snapshot

	// Connected reports the current connectivity flag
	Connected() bool
}

// Config configures a session
type Config struct {
	PlayerID string
	RoomCode string
	Adapter  Adapter
	Sender   Sender
	Logger   logrus.FieldLogger

	// NotificationTTL overrides the notification display duration. Zero
	// means the default.
	NotificationTTL time.Duration

	// Random is the randomness source for the reinsert convenience action.
	// Nil means crypto randomness.
	Random rng.Generator
}

// Session owns the client-side state for one seat at a table: the
// authoritative snapshot (written only by the reconciler path), the
// interaction machine, the pending-request prompt and the notification
// slot. All transitions run to completion on a single run loop; user
// gestures are enqueued into that loop, never interleaved.
type Session struct {
	playerID string
	roomCode string
	logger   logrus.FieldLogger

	adapter       Adapter
	reconciler    *Reconciler
	machine       *Machine
	resolver      *Resolver
	notifications *Notifications
	dispatcher    *Dispatcher
	random        rng.Generator

	mu     sync.RWMutex
	prompt Prompt
	reveal []string

	exec chan func()
	done chan bool
	stop sync.Once
}

// New returns a new session for the given seat
func New(cfg Config) (*Session, error) {
	if cfg.PlayerID == "" {
		return nil, errors.New("session requires a player ID")
	}

	if cfg.Adapter == nil || cfg.Sender == nil {
		return nil, errors.New("session requires an adapter and a sender")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	random := cfg.Random
	if random == nil {
		random = rng.Crypto{}
	}

	notifications := NewNotifications(cfg.NotificationTTL)
	dispatcher := NewDispatcher(cfg.Sender, cfg.PlayerID, logger)

	return &Session{
		playerID:      cfg.PlayerID,
		roomCode:      cfg.RoomCode,
		logger:        logger,
		adapter:       cfg.Adapter,
		reconciler:    NewReconciler(cfg.PlayerID),
		machine:       NewMachine(dispatcher, cfg.PlayerID, notifications.Show, logger),
		resolver:      NewResolver(cfg.PlayerID),
		notifications: notifications,
		dispatcher:    dispatcher,
		random:        random,
		exec:          make(chan func(), 256),
		done:          make(chan bool),
	}, nil
}

// Start starts the run loop
func (s *Session) Start() {
	go s.runLoop()
}

// Close stops the run loop
func (s *Session) Close() {
	s.stop.Do(func() {
		close(s.done)
	})
}

func (s *Session) runLoop() {
	log := s.logger.WithFields(logrus.Fields{
		"room":   s.roomCode,
		"player": s.playerID,
	})

	log.Debug("starting session run loop")
	for {
		select {
		case snap, ok := <-s.adapter.Snapshots():
			if !ok {
				log.Debug("snapshot stream closed")
				return
			}

			s.handleSnapshot(snap)
		case fn := <-s.exec:
			fn()
		case <-s.done:
			return
		}
	}
}

func (s *Session) handleSnapshot(snap *game.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	signals := s.reconciler.Apply(snap)
	for _, signal := range signals {
		switch sig := signal.(type) {
		case RevealSignal:
			s.reveal = sig.CardNames
		case NotifySignal:
			s.notifications.Show(sig.Message)
		}
	}

	s.prompt = s.resolver.Resolve(snap)
}

// enqueue schedules a gesture on the run loop
func (s *Session) enqueue(fn func()) {
	select {
	case s.exec <- fn:
	default:
		s.logger.Warn("session run loop is saturated, dropping gesture")
	}
}

// ActivateCard handles a click on a card in the local hand
func (s *Session) ActivateCard(cardID string) {
	s.enqueue(func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		snap := s.reconciler.Snapshot()
		if snap == nil {
			return
		}

		card := snap.CardInHand(s.playerID, cardID)
		if card == nil {
			s.logger.WithField("cardId", cardID).Debug("activated card not in hand")
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()

		_ = s.machine.OnCardActivated(ctx, snap, card)
	})
}

// ChooseTarget completes an in-progress targeting selection
func (s *Session) ChooseTarget(targetID string) {
	s.enqueue(func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()

		if err := s.machine.OnTargetChosen(ctx, targetID); err == ErrNoTargetSelection {
			s.logger.Debug("target chosen with no selection in progress")
		}
	})
}

// CancelSelection abandons any in-progress selection
func (s *Session) CancelSelection() {
	s.enqueue(func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		s.machine.Cancel()
	})
}

// Draw draws a card, ending the local turn
func (s *Session) Draw() {
	s.enqueue(func() {
		s.sendGesture(func(ctx context.Context) error {
			return s.dispatcher.Draw(ctx)
		})
	})
}

// ChoosePilePosition resolves a reinsertion request with the chosen
// position. The position is clamped to the pile bounds.
func (s *Session) ChoosePilePosition(position int) {
	s.enqueue(func() {
		if max, ok := s.reinsertBound(); ok {
			if position < 0 {
				position = 0
			}
			if position > max {
				position = max
			}
		}

		pos := position
		s.sendGesture(func(ctx context.Context) error {
			return s.dispatcher.ChoosePilePosition(ctx, pos)
		})
	})
}

// ChoosePileRandom resolves a reinsertion request with a random position
func (s *Session) ChoosePileRandom() {
	s.enqueue(func() {
		max, ok := s.reinsertBound()
		if !ok {
			return
		}

		pos := s.random.Intn(max + 1)
		s.sendGesture(func(ctx context.Context) error {
			return s.dispatcher.ChoosePilePosition(ctx, pos)
		})
	})
}

// SurrenderCard resolves a surrender request with the chosen card
func (s *Session) SurrenderCard(cardID string) {
	s.enqueue(func() {
		s.sendGesture(func(ctx context.Context) error {
			return s.dispatcher.SurrenderCard(ctx, cardID)
		})
	})
}

// Notify surfaces an out-of-band message through the notification slot
func (s *Session) Notify(message string) {
	s.notifications.Show(message)
}

// DismissReveal closes the private pile preview
func (s *Session) DismissReveal() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reveal = nil
}

// sendGesture dispatches one intent; a rejection becomes a notification
func (s *Session) sendGesture(send func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	if err := send(ctx); err != nil {
		s.notifications.Show(err.Error())
	}
}

// reinsertBound returns the current pile size if a reinsertion request is
// pending for the local player
func (s *Session) reinsertBound() (int, bool) {
	snap := s.reconciler.Snapshot()
	if snap == nil || snap.PendingAction == nil {
		return 0, false
	}

	pending := snap.PendingAction
	if pending.Type != game.PendingInsertExploding || pending.PlayerID != s.playerID {
		return 0, false
	}

	return pending.DeckSize, true
}

// Snapshot returns the last authoritative snapshot, or nil before the
// first push
func (s *Session) Snapshot() *game.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.reconciler.Snapshot()
}

// Mode returns the current interaction mode
func (s *Session) Mode() Mode {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.machine.Mode()
}

// Selection returns the currently selected cards
func (s *Session) Selection() (first, second *game.Card) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.machine.Selection()
}

// Prompt returns the pending-request prompt the viewer should see, or nil
func (s *Session) Prompt() Prompt {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.prompt
}

// Notification returns the visible notification text, or ""
func (s *Session) Notification() string {
	return s.notifications.Current()
}

// Reveal returns the card names of the open private pile preview, or nil
func (s *Session) Reveal() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.reveal
}

// Connected reports the channel adapter's connectivity flag
func (s *Session) Connected() bool {
	return s.adapter.Connected()
}

// Winner returns the winning player once the game has ended, or nil
func (s *Session) Winner() *game.Player {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if snap := s.reconciler.Snapshot(); snap != nil {
		return snap.Winner
	}

	return nil
}
