package session

import (
	"regexp"
	"strconv"
	"strings"

	"cardparty-client/pkg/game"
)

// Signal is a side effect derived from a snapshot push
type Signal interface {
	signal()
}

// RevealSignal is a private peek at the top of the draw pile, decoded from a
// log entry addressed to the local player
type RevealSignal struct {
	Count     int
	CardNames []string
}

func (RevealSignal) signal() {}

// NotifySignal carries human-readable text for the notification queue
type NotifySignal struct {
	Message string
}

func (NotifySignal) signal() {}

// revealRx matches the engine's private-reveal encoding, e.g.
// "top3:Defuse,Nope,Shuffle"
var revealRx = regexp.MustCompile(`^top(\d+):(.*)$`)

// Reconciler replaces the locally held snapshot wholesale on every push and
// diffs the event log tail to derive ephemeral signals. The log is
// append-only, so a client that missed pushes while disconnected still
// replays every entry it missed exactly once.
type Reconciler struct {
	playerID string
	snapshot *game.Snapshot
	logLen   int
}

// NewReconciler returns a reconciler for the given viewer
func NewReconciler(playerID string) *Reconciler {
	return &Reconciler{playerID: playerID}
}

// Snapshot returns the last applied snapshot, or nil before the first push
func (r *Reconciler) Snapshot() *game.Snapshot {
	return r.snapshot
}

// Apply replaces the held snapshot and returns the signals derived from the
// new log tail. Applying the same snapshot twice yields no signals the
// second time.
func (r *Reconciler) Apply(snap *game.Snapshot) []Signal {
	if snap == nil {
		return nil
	}

	start := r.logLen
	if start > len(snap.Log) {
		// the engine never rewrites the log, so a shorter one means a new
		// game started; skip what we can no longer attribute
		start = len(snap.Log)
	}

	var signals []Signal
	for _, entry := range snap.Log[start:] {
		if match := revealRx.FindStringSubmatch(entry.Message); match != nil {
			// private reveal: only meaningful to the player it's addressed to
			if entry.PlayerID != r.playerID {
				continue
			}

			count, _ := strconv.Atoi(match[1])
			signals = append(signals, RevealSignal{
				Count:     count,
				CardNames: splitCardNames(match[2]),
			})
			continue
		}

		if entry.Type == game.LogTypeEffect || entry.Type == game.LogTypeSystem {
			signals = append(signals, NotifySignal{Message: entry.Message})
		}
	}

	r.snapshot = snap
	r.logLen = len(snap.Log)

	return signals
}

func splitCardNames(s string) []string {
	if s == "" {
		return nil
	}

	return strings.Split(s, ",")
}
