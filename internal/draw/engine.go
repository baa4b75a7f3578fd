// internal/draw/engine.go
//
// The draw engine runs the prize draw: it snapshots the roster, animates a
// rolling name for visual excitement, then settles on a winner picked
// uniformly from the eligible pool. The animation samples from the FULL
// list; the settlement never does.

package draw

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kingrea/drawdeck/internal/roster"
)

// State is the engine's position in the draw lifecycle.
type State int

const (
	StateIdle State = iota
	StateRolling
	StateSettled
)

const (
	// RollSteps is how many animation frames a draw shows before settling.
	RollSteps = 30
	// RollInterval is the delay between animation frames.
	RollInterval = 80 * time.Millisecond
)

// DefaultPrize labels a draw whose prize field was left blank.
const DefaultPrize = "Mystery Prize"

// ErrEmptyPool is returned when a draw is requested with nobody eligible.
var ErrEmptyPool = errors.New("draw: eligible pool is empty")

// Entry records one settled draw. Winner is a snapshot of the name at draw
// time; later roster edits never alter history.
type Entry struct {
	ID      string
	Winner  string
	Prize   string
	DrawnAt time.Time
}

// NewEntry builds a history entry for a settled draw. The id embeds the
// creation time in milliseconds so entries sort by creation; a uuid suffix
// keeps ids unique when draws land on the same millisecond.
func NewEntry(winner roster.Participant, prize string, now time.Time) Entry {
	if strings.TrimSpace(prize) == "" {
		prize = DefaultPrize
	}
	return Entry{
		ID:      fmt.Sprintf("%d-%s", now.UnixMilli(), uuid.NewString()),
		Winner:  winner.Name,
		Prize:   prize,
		DrawnAt: now,
	}
}

// EligiblePool returns the participants whose ids are not excluded, in
// original list order. Stale excluded ids (participant already removed)
// simply never match and are harmless.
func EligiblePool(participants []roster.Participant, excluded map[string]struct{}) []roster.Participant {
	pool := make([]roster.Participant, 0, len(participants))
	for _, p := range participants {
		if _, out := excluded[p.ID]; out {
			continue
		}
		pool = append(pool, p)
	}
	return pool
}

// Engine drives the Idle → Rolling → Settled state machine for one draw at
// a time. It works on snapshots taken at Start; the coordinator keeps
// owning the live roster and exclusion set.
type Engine struct {
	rng *rand.Rand

	state     State
	token     int
	stepsLeft int
	all       []roster.Participant
	pool      []roster.Participant
	winner    roster.Participant
}

// New creates an engine with its own rand source.
func New() *Engine {
	return &Engine{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// NewWithSource creates an engine backed by the given source, for tests
// that need reproducible rolls.
func NewWithSource(src rand.Source) *Engine {
	return &Engine{rng: rand.New(src)}
}

// State reports the current lifecycle state.
func (e *Engine) State() State { return e.state }

// Token identifies the current animation run. Scheduled roll callbacks
// carry the token they were created under; Cancel and Start bump it so
// stale callbacks become no-ops.
func (e *Engine) Token() int { return e.token }

// Winner returns the most recently settled winner. Only meaningful in
// StateSettled.
func (e *Engine) Winner() roster.Participant { return e.winner }

// Start begins a draw over snapshots of the full list and the eligible
// pool. It rejects an empty pool with ErrEmptyPool and changes nothing. A
// draw already mid-roll is abandoned: its pending steps are invalidated by
// the token bump.
func (e *Engine) Start(participants []roster.Participant, excluded map[string]struct{}) error {
	pool := EligiblePool(participants, excluded)
	if len(pool) == 0 {
		return ErrEmptyPool
	}
	e.all = append([]roster.Participant(nil), participants...)
	e.pool = pool
	e.stepsLeft = RollSteps
	e.state = StateRolling
	e.token++
	return nil
}

// Roll advances the animation by one step and returns the name to flash.
// The name is sampled uniformly from the full list, not the pool. A token
// from a canceled or superseded draw returns ok=false and mutates nothing.
// done reports that this was the final step and the engine has settled.
func (e *Engine) Roll(token int) (name string, done bool, ok bool) {
	if token != e.token || e.state != StateRolling {
		return "", false, false
	}
	name = e.all[e.rng.Intn(len(e.all))].Name
	e.stepsLeft--
	if e.stepsLeft > 0 {
		return name, false, true
	}
	e.settle()
	return e.winner.Name, true, true
}

// Cancel abandons any in-progress roll. Pending animation callbacks see a
// stale token and drop themselves. Safe to call in any state.
func (e *Engine) Cancel() {
	e.token++
	e.state = StateIdle
	e.stepsLeft = 0
}

// settle picks the winner uniformly from the eligible pool snapshot.
func (e *Engine) settle() {
	e.winner = e.pool[e.rng.Intn(len(e.pool))]
	e.state = StateSettled
}
