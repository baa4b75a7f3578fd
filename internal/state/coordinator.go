// internal/state/coordinator.go
//
// The coordinator is the single owner of the participant list, the
// exclusion set, and the draw history. Every mutation is a whole-value
// replacement applied here; the draw engine and splitter only ever see
// copies. Single-writer discipline keeps snapshots safe without locking.

package state

import (
	"time"

	"github.com/kingrea/drawdeck/internal/draw"
	"github.com/kingrea/drawdeck/internal/roster"
)

// Coordinator holds the canonical application state.
type Coordinator struct {
	participants []roster.Participant
	excluded     map[string]struct{}
	history      []draw.Entry
}

// New returns an empty coordinator.
func New() *Coordinator {
	return &Coordinator{excluded: make(map[string]struct{})}
}

// Participants returns a copy of the roster in order.
func (c *Coordinator) Participants() []roster.Participant {
	return append([]roster.Participant(nil), c.participants...)
}

// Count reports the roster size.
func (c *Coordinator) Count() int { return len(c.participants) }

// History returns a copy of the draw history, most recent first.
func (c *Coordinator) History() []draw.Entry {
	return append([]draw.Entry(nil), c.history...)
}

// Excluded returns a copy of the exclusion set.
func (c *Coordinator) Excluded() map[string]struct{} {
	out := make(map[string]struct{}, len(c.excluded))
	for id := range c.excluded {
		out[id] = struct{}{}
	}
	return out
}

// EligiblePool returns the participants still allowed to win, in order.
func (c *Coordinator) EligiblePool() []roster.Participant {
	return draw.EligiblePool(c.participants, c.excluded)
}

// ReplaceParticipants swaps in a new roster wholesale. Clearing the roster
// to empty also resets the draw history and exclusion set; that invariant
// lives here, not in the roster package.
func (c *Coordinator) ReplaceParticipants(list []roster.Participant) {
	c.participants = append([]roster.Participant(nil), list...)
	if len(c.participants) == 0 {
		c.ResetPool()
	}
}

// RemoveParticipant drops one participant by id. The exclusion set may now
// hold a stale id; stale ids never match when the pool is computed, so they
// are left alone.
func (c *Coordinator) RemoveParticipant(id string) {
	c.ReplaceParticipants(roster.Remove(c.participants, id))
}

// DedupeParticipants removes later duplicates by trimmed name.
func (c *Coordinator) DedupeParticipants() {
	c.ReplaceParticipants(roster.DedupeByName(c.participants))
}

// RecordWin appends a draw to the head of the history and, when duplicate
// winners are disallowed, bars the winner from future draws. The returned
// entry snapshots the winner's name and applies the default prize label to
// a blank prize.
func (c *Coordinator) RecordWin(winner roster.Participant, prize string, allowDuplicates bool, now time.Time) draw.Entry {
	entry := draw.NewEntry(winner, prize, now)
	c.history = append([]draw.Entry{entry}, c.history...)
	if !allowDuplicates {
		c.excluded[winner.ID] = struct{}{}
	}
	return entry
}

// ResetPool clears history and exclusions unconditionally and leaves the
// roster untouched.
func (c *Coordinator) ResetPool() {
	c.history = nil
	c.excluded = make(map[string]struct{})
}
